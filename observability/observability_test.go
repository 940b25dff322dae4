package observability

import (
	"context"
	"fmt"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/kbukum/asrgateway/component"
)

// installRecorder swaps in an SDK tracer provider backed by an in-memory
// exporter and restores the previous provider on cleanup.
func installRecorder(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
		otel.SetTracerProvider(prev)
	})
	return exporter
}

func attrMap(attrs []attribute.KeyValue) map[string]attribute.Value {
	m := make(map[string]attribute.Value, len(attrs))
	for _, a := range attrs {
		m[string(a.Key)] = a.Value
	}
	return m
}

func TestConfigDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	if cfg.Endpoint != "localhost:4318" {
		t.Errorf("Endpoint = %q", cfg.Endpoint)
	}
	if cfg.SampleRate != 1.0 {
		t.Errorf("SampleRate = %v", cfg.SampleRate)
	}
	if cfg.MetricInterval != 15*time.Second {
		t.Errorf("MetricInterval = %v", cfg.MetricInterval)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"disabled empty", Config{}, false},
		{"rate too high", Config{SampleRate: 1.5}, true},
		{"negative rate", Config{SampleRate: -0.1}, true},
		{"enabled without endpoint", Config{Enabled: true, SampleRate: 1}, true},
		{"enabled", Config{Enabled: true, Endpoint: "otel:4318", SampleRate: 0.5}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDerivedConfigs(t *testing.T) {
	cfg := Config{Endpoint: "otel:4318", Insecure: true, SampleRate: 0.25, MetricInterval: time.Minute}
	tc := cfg.TracerConfig("asr-gateway", "1.2.3", "production")
	if tc.ServiceName != "asr-gateway" || tc.Endpoint != "otel:4318" || tc.SampleRate != 0.25 || !tc.Insecure {
		t.Errorf("tracer config = %+v", tc)
	}
	mc := cfg.MeterConfig("asr-gateway", "1.2.3", "production")
	if mc.Interval != time.Minute || mc.Environment != "production" {
		t.Errorf("meter config = %+v", mc)
	}
}

func TestSampler(t *testing.T) {
	if sampler(1).Description() != sdktrace.AlwaysSample().Description() {
		t.Error("rate 1 should always sample")
	}
	if sampler(0).Description() != sdktrace.NeverSample().Description() {
		t.Error("rate 0 should never sample")
	}
}

func TestNewResource(t *testing.T) {
	res, err := newResource("asr-gateway", "1.0.0", "test")
	if err != nil {
		t.Fatalf("newResource: %v", err)
	}
	attrs := attrMap(res.Attributes())
	if attrs["service.name"].AsString() != "asr-gateway" {
		t.Errorf("service.name = %v", attrs["service.name"])
	}
}

func TestStartSpanNoProvider(t *testing.T) {
	ctx, span := StartSpan(context.Background(), "noop")
	defer span.End()
	if ctx == nil || span == nil {
		t.Fatal("expected non-nil span and context")
	}
	SetSpanAttribute(ctx, "key", "value")
	SetSpanError(ctx, fmt.Errorf("ignored"))
}

func TestSetSpanAttribute(t *testing.T) {
	exporter := installRecorder(t)

	ctx, span := StartSpan(context.Background(), "attrs")
	SetSpanAttribute(ctx, "s", "v")
	SetSpanAttribute(ctx, "i", 42)
	SetSpanAttribute(ctx, "i64", int64(7))
	SetSpanAttribute(ctx, "b", true)
	SetSpanAttribute(ctx, "ss", []string{"a"})
	SetSpanAttribute(ctx, "ignored", struct{}{})
	SetSpanError(ctx, fmt.Errorf("boom"))
	span.End()

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	attrs := attrMap(spans[0].Attributes)
	if attrs["s"].AsString() != "v" || attrs["i"].AsInt64() != 42 || !attrs["b"].AsBool() {
		t.Errorf("attributes = %v", spans[0].Attributes)
	}
	if _, ok := attrs["ignored"]; ok {
		t.Error("unsupported type should be ignored")
	}
	if len(spans[0].Events) != 1 {
		t.Errorf("expected one error event, got %d", len(spans[0].Events))
	}
}

func TestOperationContext_Success(t *testing.T) {
	exporter := installRecorder(t)

	oc := NewOperationContext("asr-gateway", "transcribe", "req-1", "sess-1", nil)
	ctx, span := oc.StartSpanForOperation(context.Background(), SpanTranscribe)
	if OperationContextFromContext(ctx) != oc {
		t.Error("operation context should be carried in ctx")
	}
	oc.EndOperation(ctx, span, "SUCCESS", "", nil)

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	s := spans[0]
	if s.Name != SpanTranscribe {
		t.Errorf("name = %q", s.Name)
	}
	attrs := attrMap(s.Attributes)
	if attrs[AttrRequestID].AsString() != "req-1" || attrs[AttrSessionID].AsString() != "sess-1" {
		t.Errorf("attributes = %v", s.Attributes)
	}
	if attrs[AttrStatus].AsString() != "SUCCESS" {
		t.Errorf("status = %v", attrs[AttrStatus])
	}
	if s.Status.Code == codes.Error {
		t.Error("success should not set error status")
	}
}

func TestOperationContext_Failure(t *testing.T) {
	exporter := installRecorder(t)

	oc := NewOperationContext("asr-gateway", "transcribe", "req-2", "", nil)
	ctx, span := oc.StartSpanForOperation(context.Background(), SpanTranscribe)
	oc.EndOperation(ctx, span, "FAILED", "ASR_TIMEOUT", fmt.Errorf("deadline"))

	s := exporter.GetSpans()[0]
	if s.Status.Code != codes.Error || s.Status.Description != "ASR_TIMEOUT" {
		t.Errorf("status = %+v", s.Status)
	}
	attrs := attrMap(s.Attributes)
	if attrs[AttrErrorCode].AsString() != "ASR_TIMEOUT" {
		t.Errorf("error.code = %v", attrs[AttrErrorCode])
	}
	if _, ok := attrs[AttrSessionID]; ok {
		t.Error("blank session should not be recorded")
	}
}

func TestOperationContextFromContext_NotSet(t *testing.T) {
	if OperationContextFromContext(context.Background()) != nil {
		t.Error("expected nil when operation context not set")
	}
}

func TestOperationContext_Duration(t *testing.T) {
	oc := NewOperationContext("svc", "op", "req", "", nil)
	oc.StartTime = time.Now().Add(-50 * time.Millisecond)
	if d := oc.Duration(); d < 45*time.Millisecond {
		t.Errorf("duration = %v", d)
	}
}

func TestMetrics_Noop(t *testing.T) {
	metrics, err := NewMetrics(noop.NewMeterProvider().Meter("test"))
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}
	ctx := context.Background()
	metrics.RecordStart(ctx)
	metrics.RecordEnd(ctx, "svc", "transcribe", "SUCCESS", 10*time.Millisecond)
	metrics.RecordError(ctx, "ASR_TIMEOUT", "transcribe")
}

func TestMetrics_Recorded(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer mp.Shutdown(context.Background())

	metrics, err := NewMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}

	oc := NewOperationContext("asr-gateway", "transcribe", "req", "", metrics)
	ctx, span := oc.StartSpanForOperation(context.Background(), SpanTranscribe)
	oc.EndOperation(ctx, span, "FAILED", "ASR_UNAVAILABLE", fmt.Errorf("503"))

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect: %v", err)
	}
	found := map[string]bool{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			found[m.Name] = true
		}
	}
	for _, name := range []string{"asr.operation.total", "asr.operation.duration", "asr.operation.active", "asr.error.total"} {
		if !found[name] {
			t.Errorf("metric %s not recorded (got %v)", name, found)
		}
	}
}

func TestComponent_Disabled(t *testing.T) {
	c := NewComponent(Config{}, "asr-gateway", "dev", "test")
	if c.Name() != "observability" {
		t.Errorf("Name = %q", c.Name())
	}
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if c.tp != nil || c.mp != nil {
		t.Error("disabled component should not create providers")
	}
	if h := c.Health(context.Background()); h.Status != component.StatusHealthy {
		t.Errorf("health = %+v", h)
	}
	if d := c.Describe(); d.Details != "disabled" {
		t.Errorf("describe = %+v", d)
	}
	if err := c.Stop(context.Background()); err != nil {
		t.Errorf("Stop: %v", err)
	}
}

func TestComponent_Enabled(t *testing.T) {
	prevTP, prevMP := otel.GetTracerProvider(), otel.GetMeterProvider()
	t.Cleanup(func() {
		otel.SetTracerProvider(prevTP)
		otel.SetMeterProvider(prevMP)
	})

	// Exporters connect lazily, so no collector is needed to start.
	c := NewComponent(Config{Enabled: true, Endpoint: "127.0.0.1:1", Insecure: true}, "asr-gateway", "dev", "test")
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if c.tp == nil || c.mp == nil {
		t.Fatal("expected providers")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = c.Stop(ctx)
}
