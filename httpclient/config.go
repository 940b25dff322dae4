package httpclient

import (
	"fmt"
	"net/url"
	"time"
)

const (
	defaultConnectTimeout   = 3 * time.Second
	defaultMaxResponseBytes = 10 << 20
)

// Config configures an Adapter.
type Config struct {
	// Name identifies the adapter in logs and errors.
	Name string `yaml:"name" mapstructure:"name"`

	// BaseURL is prepended to request paths that are not absolute URLs.
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`

	// ConnectTimeout bounds TCP connection setup.
	ConnectTimeout time.Duration `yaml:"connect_timeout" mapstructure:"connect_timeout"`

	// Timeout bounds the whole exchange. Zero leaves deadlines to the
	// request context.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// MaxResponseBytes caps how much of a response body is read.
	MaxResponseBytes int64 `yaml:"max_response_bytes" mapstructure:"max_response_bytes"`

	// Headers are applied to every request.
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`

	// Auth is applied to every request unless the request overrides it.
	Auth *AuthConfig `yaml:"-" mapstructure:"-"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "http"
	}
	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = defaultConnectTimeout
	}
	if c.MaxResponseBytes <= 0 {
		c.MaxResponseBytes = defaultMaxResponseBytes
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.ConnectTimeout <= 0 {
		return fmt.Errorf("httpclient: connect timeout must be positive")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("httpclient: timeout must not be negative")
	}
	if c.BaseURL != "" {
		u, err := url.Parse(c.BaseURL)
		if err != nil {
			return fmt.Errorf("httpclient: invalid base url: %w", err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("httpclient: base url scheme must be http or https (got: %q)", u.Scheme)
		}
		if u.Host == "" {
			return fmt.Errorf("httpclient: base url has no host")
		}
	}
	return nil
}
