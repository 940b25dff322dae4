package bootstrap

import (
	"time"

	"github.com/kbukum/asrgateway/logger"
)

// Option configures the App during creation.
type Option func(*appOptions)

type appOptions struct {
	logger          *logger.Logger
	gracefulTimeout time.Duration
	quiet           bool
}

// WithLogger replaces the logger built from the config's logging section.
func WithLogger(l *logger.Logger) Option {
	return func(o *appOptions) { o.logger = l }
}

// WithGracefulTimeout bounds the whole shutdown sequence.
func WithGracefulTimeout(d time.Duration) Option {
	return func(o *appOptions) { o.gracefulTimeout = d }
}

// WithoutSummary suppresses the startup summary.
func WithoutSummary() Option {
	return func(o *appOptions) { o.quiet = true }
}
