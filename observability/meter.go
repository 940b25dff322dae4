package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/asrgateway/logger"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	Endpoint       string
	Insecure       bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// InitMeter initializes the OpenTelemetry meter provider and installs it
// globally. The returned provider must be shut down on exit.
func InitMeter(ctx context.Context, config MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metrics holds the OpenTelemetry instruments for gateway operations.
type Metrics struct {
	operationTotal    metric.Int64Counter
	operationDuration metric.Float64Histogram
	operationActive   metric.Int64UpDownCounter
	errorTotal        metric.Int64Counter
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	operationTotal, err := meter.Int64Counter("asr.operation.total",
		metric.WithDescription("Total number of transcription operations"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating asr.operation.total counter: %w", err)
	}

	operationDuration, err := meter.Float64Histogram("asr.operation.duration",
		metric.WithDescription("Duration of transcription operations in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating asr.operation.duration histogram: %w", err)
	}

	operationActive, err := meter.Int64UpDownCounter("asr.operation.active",
		metric.WithDescription("Number of in-flight transcription operations"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating asr.operation.active gauge: %w", err)
	}

	errorTotal, err := meter.Int64Counter("asr.error.total",
		metric.WithDescription("Total errors by code and component"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating asr.error.total counter: %w", err)
	}

	return &Metrics{
		operationTotal:    operationTotal,
		operationDuration: operationDuration,
		operationActive:   operationActive,
		errorTotal:        errorTotal,
	}, nil
}

// RecordStart increments the in-flight count.
func (m *Metrics) RecordStart(ctx context.Context) {
	m.operationActive.Add(ctx, 1)
}

// RecordEnd decrements the in-flight count and records the completed operation.
func (m *Metrics) RecordEnd(ctx context.Context, service, operation, status string, duration time.Duration) {
	m.operationActive.Add(ctx, -1)
	m.operationTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("service", service),
		attribute.String("operation", operation),
		attribute.String("status", status),
	))
	m.operationDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("service", service),
		attribute.String("operation", operation),
	))
}

// RecordError records an error by code and component.
func (m *Metrics) RecordError(ctx context.Context, code, component string) {
	m.errorTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("code", code),
		attribute.String("component", component),
	))
}
