package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// OperationContext holds observability context for a tracked operation.
type OperationContext struct {
	ServiceName   string
	OperationName string
	RequestID     string
	SessionID     string
	StartTime     time.Time
	Metrics       *Metrics
}

// NewOperationContext creates a new operation context.
// If metrics is nil, metric recording is silently skipped.
func NewOperationContext(serviceName, operationName, requestID, sessionID string, metrics *Metrics) *OperationContext {
	return &OperationContext{
		ServiceName:   serviceName,
		OperationName: operationName,
		RequestID:     requestID,
		SessionID:     sessionID,
		StartTime:     time.Now(),
		Metrics:       metrics,
	}
}

type operationContextKey struct{}

// WithOperationContext stores an OperationContext in the context.
func WithOperationContext(ctx context.Context, oc *OperationContext) context.Context {
	return context.WithValue(ctx, operationContextKey{}, oc)
}

// OperationContextFromContext retrieves the OperationContext from context, or nil.
func OperationContextFromContext(ctx context.Context) *OperationContext {
	if oc, ok := ctx.Value(operationContextKey{}).(*OperationContext); ok {
		return oc
	}
	return nil
}

// StartSpanForOperation starts a traced span and records the start metric.
func (oc *OperationContext) StartSpanForOperation(ctx context.Context, spanName string) (context.Context, trace.Span) {
	ctx, span := StartSpan(ctx, spanName, trace.WithSpanKind(trace.SpanKindClient))
	span.SetAttributes(
		attribute.String(AttrServiceName, oc.ServiceName),
		attribute.String(AttrOperationName, oc.OperationName),
		attribute.String(AttrRequestID, oc.RequestID),
	)
	if oc.SessionID != "" {
		span.SetAttributes(attribute.String(AttrSessionID, oc.SessionID))
	}

	if oc.Metrics != nil {
		oc.Metrics.RecordStart(ctx)
	}
	return WithOperationContext(ctx, oc), span
}

// EndOperation ends the span and records end metrics. errCode is the
// client-facing code when the operation failed, empty otherwise.
func (oc *OperationContext) EndOperation(ctx context.Context, span trace.Span, status, errCode string, err error) {
	duration := time.Since(oc.StartTime)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, errCode)
		span.SetAttributes(attribute.String(AttrErrorMessage, err.Error()))
	}
	if errCode != "" {
		span.SetAttributes(attribute.String(AttrErrorCode, errCode))
	}

	span.SetAttributes(
		attribute.String(AttrStatus, status),
		attribute.Int64(AttrDurationMs, duration.Milliseconds()),
	)
	span.End()

	if oc.Metrics != nil {
		oc.Metrics.RecordEnd(ctx, oc.ServiceName, oc.OperationName, status, duration)
		if errCode != "" {
			oc.Metrics.RecordError(ctx, errCode, oc.OperationName)
		}
	}
}

// Duration returns the elapsed time since operation start.
func (oc *OperationContext) Duration() time.Duration {
	return time.Since(oc.StartTime)
}
