// Package logger provides structured logging using zerolog.
//
// It supports JSON and console output, log level configuration, and
// component-scoped loggers with structured fields.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.WithComponent("gateway")
//	log.Info("transcription succeeded", logger.Fields("request_id", id))
package logger
