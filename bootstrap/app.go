package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/kbukum/asrgateway/component"
	"github.com/kbukum/asrgateway/logger"
)

// DefaultGracefulTimeout bounds shutdown when no option overrides it.
const DefaultGracefulTimeout = 15 * time.Second

// App is a service with uniform lifecycle management over a typed config.
type App[C Config] struct {
	Name       string
	Version    string
	Cfg        C
	Components *component.Registry
	Logger     *logger.Logger

	gracefulTimeout time.Duration
	quiet           bool
	startedAt       time.Time
	onConfigure     []func(ctx context.Context, app *App[C]) error
	onStart         []Hook
	onReady         []Hook
	onStop          []Hook
}

// NewApp applies defaults, validates cfg and initializes logging.
func NewApp[C Config](cfg C, opts ...Option) (*App[C], error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	o := appOptions{gracefulTimeout: DefaultGracefulTimeout}
	for _, opt := range opts {
		opt(&o)
	}

	base := cfg.GetServiceConfig()
	if o.logger == nil {
		logger.Init(&base.Logging)
		o.logger = logger.GetGlobalLogger()
	}

	return &App[C]{
		Name:            base.Name,
		Version:         base.Version,
		Cfg:             cfg,
		Components:      component.NewRegistry(),
		Logger:          o.logger,
		gracefulTimeout: o.gracefulTimeout,
		quiet:           o.quiet,
	}, nil
}

// RegisterComponent adds a component to the registry.
func (a *App[C]) RegisterComponent(c component.Component) error {
	return a.Components.Register(c)
}

// OnConfigure registers a callback for the configure phase, which runs
// after infrastructure components have started. Components registered
// here are started right after the callbacks finish.
func (a *App[C]) OnConfigure(fn func(ctx context.Context, app *App[C]) error) {
	a.onConfigure = append(a.onConfigure, fn)
}

// ReadyCheck returns an error naming every component that is not healthy.
func (a *App[C]) ReadyCheck(ctx context.Context) error {
	var bad []string
	for _, h := range a.Components.HealthAll(ctx) {
		if h.Status == component.StatusHealthy {
			continue
		}
		detail := h.Name + "=" + string(h.Status)
		if h.Message != "" {
			detail += " (" + h.Message + ")"
		}
		bad = append(bad, detail)
	}
	if len(bad) > 0 {
		return fmt.Errorf("unhealthy components: %s", strings.Join(bad, ", "))
	}
	return nil
}

// Run starts the service, blocks until SIGINT, SIGTERM or ctx is done, then
// shuts down gracefully.
func (a *App[C]) Run(ctx context.Context) error {
	if err := a.Start(ctx); err != nil {
		if stopErr := a.Shutdown(context.Background()); stopErr != nil {
			a.Logger.Error("shutdown after failed start", logger.Fields(logger.FieldError, stopErr.Error()))
		}
		return err
	}
	a.WaitForSignal(ctx)
	return a.Shutdown(context.Background())
}

// Start runs every startup phase without blocking.
func (a *App[C]) Start(ctx context.Context) error {
	a.startedAt = time.Now()
	a.Logger.Info("starting application", logger.Fields("name", a.Name, "version", a.Version))

	if err := a.Components.StartAll(ctx); err != nil {
		return fmt.Errorf("start components: %w", err)
	}
	if err := runHooks(ctx, "start", a.onStart); err != nil {
		return err
	}
	for _, fn := range a.onConfigure {
		if err := fn(ctx, a); err != nil {
			return fmt.Errorf("configure: %w", err)
		}
	}
	if err := a.Components.StartAll(ctx); err != nil {
		return fmt.Errorf("start components: %w", err)
	}

	// A backend that is down at boot is reported, not fatal: /ready tracks it.
	if err := a.ReadyCheck(ctx); err != nil {
		a.Logger.Warn("ready check reported issues", logger.Fields(logger.FieldError, err.Error()))
	}
	if err := runHooks(ctx, "ready", a.onReady); err != nil {
		return err
	}

	if !a.quiet {
		a.printSummary(ctx, time.Since(a.startedAt))
	}
	return nil
}

// WaitForSignal blocks until an interrupt or term signal, or until ctx is done.
func (a *App[C]) WaitForSignal(ctx context.Context) os.Signal {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		a.Logger.Info("shutdown signal received", logger.Fields("signal", sig.String()))
		return sig
	case <-ctx.Done():
		a.Logger.Info("context canceled, shutting down")
		return nil
	}
}

// Shutdown runs stop hooks and stops components within the graceful timeout.
func (a *App[C]) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, a.gracefulTimeout)
	defer cancel()

	a.Logger.Info("shutting down", logger.Fields("timeout", a.gracefulTimeout.String()))

	var errs []error
	if err := runHooks(ctx, "stop", a.onStop); err != nil {
		errs = append(errs, err)
	}
	if err := a.Components.StopAll(ctx); err != nil {
		errs = append(errs, err)
	}
	err := errors.Join(errs...)
	if err != nil {
		a.Logger.Error("shutdown completed with errors", logger.Fields(logger.FieldError, err.Error()))
		return err
	}
	a.Logger.Info("shutdown complete")
	return nil
}
