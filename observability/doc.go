// Package observability wires OpenTelemetry tracing and OTLP metric export
// for the gateway.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, observability.TracerConfig{...})
//	defer tp.Shutdown(ctx)
//
//	ctx, span := observability.StartSpan(ctx, observability.SpanTranscribe)
//	defer span.End()
//
// Operations:
//
//	oc := observability.NewOperationContext("asr-gateway", "transcribe", requestID, sessionID, metrics)
//	ctx, span := oc.StartSpanForOperation(ctx, observability.SpanTranscribe)
//	oc.EndOperation(ctx, span, "SUCCESS", nil)
//
// When observability.enabled is false no exporter is created and the global
// no-op providers are left in place.
package observability
