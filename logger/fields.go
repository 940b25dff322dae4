package logger

import "time"

// Field keys shared across packages so log lines stay queryable.
const (
	FieldComponent     = "component"
	FieldRequestID     = "request_id"
	FieldCorrelationID = "correlation_id"
	FieldSessionID     = "session_id"
	FieldFilename      = "filename"
	FieldBackend       = "backend"
	FieldOperation     = "operation"
	FieldStatus        = "status"
	FieldCode          = "code"
	FieldError         = "error"
	FieldDuration      = "duration_ms"
)

// Fields builds a field map from alternating key/value pairs. Non-string
// keys and a trailing odd value are dropped.
//
//	log.Info("forwarding", logger.Fields(logger.FieldBackend, "ai-runtime", "size_bytes", 42))
func Fields(kvs ...interface{}) map[string]interface{} {
	m := make(map[string]interface{}, len(kvs)/2)
	for i := 0; i+1 < len(kvs); i += 2 {
		key, ok := kvs[i].(string)
		if !ok {
			continue
		}
		m[key] = kvs[i+1]
	}
	return m
}

// ErrorFields tags a failed operation.
func ErrorFields(op string, err error) map[string]interface{} {
	return Fields(FieldOperation, op, FieldError, err.Error())
}

// DurationFields tags a timed operation with its elapsed milliseconds.
func DurationFields(op string, d time.Duration) map[string]interface{} {
	return Fields(FieldOperation, op, FieldDuration, d.Milliseconds())
}

// MergeWithError sets the error field on fields, allocating when nil.
func MergeWithError(fields map[string]interface{}, err error) map[string]interface{} {
	if fields == nil {
		fields = make(map[string]interface{}, 1)
	}
	fields[FieldError] = err.Error()
	return fields
}
