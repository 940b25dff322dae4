package observability

import (
	"context"
	"errors"
	"fmt"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/kbukum/asrgateway/component"
)

const componentName = "observability"

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// Component owns the tracer and meter providers. Start installs them when
// enabled; Stop flushes and shuts them down.
type Component struct {
	cfg         Config
	service     string
	version     string
	environment string

	tp *sdktrace.TracerProvider
	mp *sdkmetric.MeterProvider
}

// NewComponent creates the observability component for a service.
func NewComponent(cfg Config, service, version, environment string) *Component {
	cfg.ApplyDefaults()
	return &Component{cfg: cfg, service: service, version: version, environment: environment}
}

// Name returns the component name used for registration.
func (c *Component) Name() string { return componentName }

// Start initializes exporters when enabled. It is idempotent.
func (c *Component) Start(ctx context.Context) error {
	if !c.cfg.Enabled || c.tp != nil {
		return nil
	}
	tp, err := InitTracer(ctx, c.cfg.TracerConfig(c.service, c.version, c.environment))
	if err != nil {
		return fmt.Errorf("observability: %w", err)
	}
	mp, err := InitMeter(ctx, c.cfg.MeterConfig(c.service, c.version, c.environment))
	if err != nil {
		_ = tp.Shutdown(ctx)
		return fmt.Errorf("observability: %w", err)
	}
	c.tp, c.mp = tp, mp
	return nil
}

// Stop flushes pending telemetry.
func (c *Component) Stop(ctx context.Context) error {
	var errs []error
	if c.tp != nil {
		errs = append(errs, c.tp.Shutdown(ctx))
	}
	if c.mp != nil {
		errs = append(errs, c.mp.Shutdown(ctx))
	}
	return errors.Join(errs...)
}

// Health reports healthy; export failures surface in the OTel error handler.
func (c *Component) Health(context.Context) component.Health {
	return component.Health{Name: componentName, Status: component.StatusHealthy}
}

// Describe returns infrastructure summary info for the startup display.
func (c *Component) Describe() component.Description {
	details := "disabled"
	if c.cfg.Enabled {
		details = fmt.Sprintf("otlp %s (sample %.2f)", c.cfg.Endpoint, c.cfg.SampleRate)
	}
	return component.Description{Name: "Observability", Type: "telemetry", Details: details}
}
