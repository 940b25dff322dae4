package observability

import (
	"fmt"
	"time"
)

// Config is the observability configuration section.
type Config struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint"`
	// Insecure allows plain HTTP to the collector.
	Insecure bool `yaml:"insecure" mapstructure:"insecure"`
	// SampleRate is the sampling rate (0.0 to 1.0).
	SampleRate float64 `yaml:"sample_rate" mapstructure:"sample_rate"`
	// MetricInterval is the OTLP metric export interval.
	MetricInterval time.Duration `yaml:"metric_interval" mapstructure:"metric_interval"`
}

// ApplyDefaults sets development-friendly defaults for unset fields.
func (c *Config) ApplyDefaults() {
	if c.Endpoint == "" {
		c.Endpoint = "localhost:4318"
	}
	if c.SampleRate == 0 {
		c.SampleRate = 1.0
	}
	if c.MetricInterval <= 0 {
		c.MetricInterval = 15 * time.Second
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.SampleRate < 0 || c.SampleRate > 1 {
		return fmt.Errorf("observability.sample_rate must be between 0 and 1 (got: %v)", c.SampleRate)
	}
	if c.Enabled && c.Endpoint == "" {
		return fmt.Errorf("observability.endpoint is required when enabled")
	}
	return nil
}

// TracerConfig derives the tracer settings for a service.
func (c Config) TracerConfig(service, version, environment string) TracerConfig {
	return TracerConfig{
		ServiceName:    service,
		ServiceVersion: version,
		Environment:    environment,
		Endpoint:       c.Endpoint,
		Insecure:       c.Insecure,
		SampleRate:     c.SampleRate,
	}
}

// MeterConfig derives the meter settings for a service.
func (c Config) MeterConfig(service, version, environment string) MeterConfig {
	return MeterConfig{
		ServiceName:    service,
		ServiceVersion: version,
		Environment:    environment,
		Endpoint:       c.Endpoint,
		Insecure:       c.Insecure,
		Interval:       c.MetricInterval,
	}
}
