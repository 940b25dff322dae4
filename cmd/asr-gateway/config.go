package main

import (
	"errors"
	"fmt"

	"github.com/kbukum/asrgateway/config"
	"github.com/kbukum/asrgateway/gateway"
	"github.com/kbukum/asrgateway/observability"
	"github.com/kbukum/asrgateway/server"
	"github.com/kbukum/asrgateway/transcription/asrruntime"
	"github.com/kbukum/asrgateway/util"
	"github.com/kbukum/asrgateway/validation"
)

const serviceName = "asr-gateway"

// AppConfig is the full configuration snapshot. Keys are matched
// case-insensitively, so app.upload.maxBytes and APP_UPLOAD_MAXBYTES both
// land in App.Upload.MaxBytes.
type AppConfig struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	App           AppSection           `yaml:"app" mapstructure:"app"`
	API           APISection           `yaml:"api" mapstructure:"api"`
	AI            AISection            `yaml:"ai" mapstructure:"ai"`
	Server        server.Config        `yaml:"server" mapstructure:"server"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
}

type AppSection struct {
	Upload UploadConfig `yaml:"upload" mapstructure:"upload"`
	Mock   MockConfig   `yaml:"mock" mapstructure:"mock"`
}

type UploadConfig struct {
	MaxBytes     int64    `yaml:"maxBytes" mapstructure:"maxbytes"`
	AllowedTypes []string `yaml:"allowedTypes" mapstructure:"allowedtypes"`
}

// MockConfig toggles the built-in mock ASR routes under /mock.
type MockConfig struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
}

type APISection struct {
	// Key gates the transcription route. Blank means open mode.
	Key string `yaml:"key" mapstructure:"key"`
}

type AISection struct {
	Runtime asrruntime.Config `yaml:"runtime" mapstructure:"runtime"`
}

// ApplyDefaults fills unset fields. The server body cap is raised to fit the
// upload ceiling plus multipart framing so oversize uploads are reported by
// the gateway as FILE_TOO_LARGE.
func (c *AppConfig) ApplyDefaults() {
	if c.Name == "" {
		c.Name = serviceName
	}
	c.ServiceConfig.ApplyDefaults()

	if c.App.Upload.MaxBytes == 0 {
		c.App.Upload.MaxBytes = validation.DefaultMaxBytes
	}
	if len(c.App.Upload.AllowedTypes) == 0 {
		c.App.Upload.AllowedTypes = validation.DefaultAllowedContentTypes()
	}

	c.Server.ApplyDefaults()
	needed := c.App.Upload.MaxBytes + gateway.MultipartOverhead
	if current, err := util.ParseSize(c.Server.MaxBodySize, 0); err == nil && current < needed {
		c.Server.MaxBodySize = util.FormatSize(needed)
	}

	if c.App.Mock.Enabled && util.IsBlank(c.AI.Runtime.BaseURL) {
		c.AI.Runtime.BaseURL = fmt.Sprintf("http://127.0.0.1:%d/mock", c.Server.Port)
	}
	c.AI.Runtime.ApplyDefaults()
	c.Observability.ApplyDefaults()
}

// Validate checks every section and reports all problems at once.
func (c *AppConfig) Validate() error {
	var errs []error
	if err := c.ServiceConfig.Validate(); err != nil {
		errs = append(errs, err)
	}

	v := validation.New().
		Positive("app.upload.maxBytes", c.App.Upload.MaxBytes).
		NotEmpty("app.upload.allowedTypes", c.App.Upload.AllowedTypes)
	if err := v.Err(); err != nil {
		errs = append(errs, err)
	}

	if err := c.Server.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.AI.Runtime.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.Observability.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// UploadRules derives the gateway's validation rules.
func (c *AppConfig) UploadRules() validation.UploadRules {
	return validation.UploadRules{
		MaxBytes:            c.App.Upload.MaxBytes,
		APIKey:              c.API.Key,
		AllowedContentTypes: append([]string{}, c.App.Upload.AllowedTypes...),
	}
}

// loadConfig reads the snapshot. An explicit path that does not exist is an
// error; without one the standard locations are searched.
func loadConfig(configFile, envFile string) (*AppConfig, error) {
	var opts []config.LoaderOption
	if configFile != "" {
		opts = append(opts, config.WithConfigFile(configFile))
	}
	if envFile != "" {
		opts = append(opts, config.WithEnvFile(envFile))
	}

	cfg := &AppConfig{}
	if err := config.LoadConfig(serviceName, cfg, opts...); err != nil {
		return nil, err
	}
	return cfg, nil
}
