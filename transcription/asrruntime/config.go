package asrruntime

import (
	"fmt"
	"time"

	"github.com/kbukum/asrgateway/validation"
)

const (
	DefaultConnectTimeout  = 3 * time.Second
	DefaultResponseTimeout = 45 * time.Second
	DefaultProbeTimeout    = 5 * time.Second
)

// Config is the ai.runtime configuration section.
type Config struct {
	BaseURL         string        `yaml:"baseUrl" mapstructure:"baseurl" validate:"required,url"`
	APIKey          string        `yaml:"apiKey" mapstructure:"apikey"`
	ConnectTimeout  time.Duration `yaml:"connectTimeout" mapstructure:"connecttimeout" validate:"gt=0"`
	ResponseTimeout time.Duration `yaml:"responseTimeout" mapstructure:"responsetimeout" validate:"gt=0"`
	ProbeTimeout    time.Duration `yaml:"probeTimeout" mapstructure:"probetimeout"`
}

// ApplyDefaults fills in zero-value timeouts.
func (c *Config) ApplyDefaults() {
	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = DefaultConnectTimeout
	}
	if c.ResponseTimeout <= 0 {
		c.ResponseTimeout = DefaultResponseTimeout
	}
	if c.ProbeTimeout <= 0 {
		c.ProbeTimeout = DefaultProbeTimeout
	}
}

// Validate checks the fields the client cannot work without.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("ai.runtime.baseUrl is required")
	}
	if c.ConnectTimeout <= 0 || c.ResponseTimeout <= 0 {
		return fmt.Errorf("ai.runtime timeouts must be positive")
	}
	if err := validation.Validate(c); err != nil {
		return fmt.Errorf("ai.runtime: %w", err)
	}
	return nil
}
