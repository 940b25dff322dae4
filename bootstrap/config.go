package bootstrap

import "github.com/kbukum/asrgateway/config"

// Config is satisfied by any struct embedding config.ServiceConfig that
// extends ApplyDefaults and Validate.
type Config interface {
	GetServiceConfig() *config.ServiceConfig
	ApplyDefaults()
	Validate() error
}
