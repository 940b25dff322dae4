// Package config loads service configuration with Viper.
//
// LoadConfig resolves a config.yml and an optional .env file from the
// standard locations (./cmd/<service>/, ./config/, the working directory),
// then overlays environment variables. Variables bind through their
// upper-snake form, so API_KEY sets api.key and AI_RUNTIME_BASEURL sets
// ai.runtime.baseurl.
//
//	var cfg AppConfig
//	err := config.LoadConfig("asr-gateway", &cfg)
//
// Services embed ServiceConfig in their own struct and extend
// ApplyDefaults and Validate.
package config
