package config

import (
	"fmt"

	"github.com/kbukum/asrgateway/logger"
)

// Environments accepted by ServiceConfig.Validate.
var Environments = []string{"development", "staging", "production"}

// ServiceConfig contains the fields every service needs. Embed it with
// `mapstructure:",squash"`:
//
//	type AppConfig struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	    Server server.Config `yaml:"server" mapstructure:"server"`
//	}
type ServiceConfig struct {
	Name        string        `yaml:"name" mapstructure:"name"`
	Environment string        `yaml:"environment" mapstructure:"environment"`
	Version     string        `yaml:"version" mapstructure:"version"`
	Debug       bool          `yaml:"debug" mapstructure:"debug"`
	Logging     logger.Config `yaml:"logging" mapstructure:"logging"`
}

// GetServiceConfig returns the base ServiceConfig. It is promoted through
// embedding so the outer struct satisfies bootstrap.Config.
func (c *ServiceConfig) GetServiceConfig() *ServiceConfig {
	return c
}

// ApplyDefaults applies default values to the base configuration.
func (c *ServiceConfig) ApplyDefaults() {
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Environment == "development" {
		c.Debug = true
	}
	if c.Logging.ServiceName == "" {
		c.Logging.ServiceName = c.Name
	}
	c.Logging.ApplyDefaults()
	if c.Debug && c.Logging.Level == "info" {
		c.Logging.Level = "debug"
	}
}

// Validate validates the base configuration fields.
func (c *ServiceConfig) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("config.name is required")
	}
	valid := false
	for _, env := range Environments {
		if c.Environment == env {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("config.environment must be one of %v (got: %s)", Environments, c.Environment)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("config.logging: %w", err)
	}
	return nil
}

// IsProduction reports whether the service runs in production.
func (c *ServiceConfig) IsProduction() bool {
	return c.Environment == "production"
}
