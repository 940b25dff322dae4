package errors

import (
	"fmt"
	"net/http"
	"time"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the client can try the same request again later.
	Retryable bool `json:"-"`
	// HTTPStatus is the HTTP status code returned to the client for this error.
	HTTPStatus int `json:"-"`
	// Details contains additional diagnostic context. Never holds secrets.
	Details map[string]any `json:"details"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Retryable:  IsRetryableCode(code),
		Details:    map[string]any{},
	}
}

// --- Validation errors ---

// Unauthorized creates the error for a missing or mismatching client API key.
func Unauthorized() *AppError {
	return New(ErrCodeUnauthorized,
		"Invalid or missing API key. Include 'X-API-Key' header with your request.",
		http.StatusUnauthorized)
}

// MissingFile creates the error for a request without a usable audio part.
func MissingFile() *AppError {
	return New(ErrCodeMissingFile, "Audio file is required", http.StatusBadRequest)
}

// FileTooLarge creates the error for an upload above the configured ceiling.
func FileTooLarge(maxBytes, actualBytes int64) *AppError {
	return New(ErrCodeFileTooLarge,
		fmt.Sprintf("Max upload size is %d bytes", maxBytes),
		http.StatusRequestEntityTooLarge).
		WithDetails(map[string]any{"maxBytes": maxBytes, "actualBytes": actualBytes})
}

// InvalidAudioFormat creates the error for a content type outside the allow-list.
func InvalidAudioFormat(contentType string, allowed []string) *AppError {
	return New(ErrCodeInvalidAudioFormat,
		"Unsupported content type: "+contentType,
		http.StatusBadRequest).
		WithDetail("allowed", allowed)
}

// --- ASR backend errors ---

// ASRUnavailable creates the error for a backend answering 502 or 503.
func ASRUnavailable(status int) *AppError {
	return New(ErrCodeASRUnavailable,
		"The transcription service is temporarily unavailable. Please try again later.",
		http.StatusServiceUnavailable).
		WithDetail("status", status)
}

// ASRRateLimited creates the error for a backend answering 429.
func ASRRateLimited(status int) *AppError {
	return New(ErrCodeASRRateLimited,
		"Too many requests. Please try again later.",
		http.StatusTooManyRequests).
		WithDetail("status", status)
}

// ASRServerError creates the error for any other 5xx from the backend.
func ASRServerError(status int) *AppError {
	return New(ErrCodeASRServerError,
		"ASR service error. Please try again.",
		http.StatusServiceUnavailable).
		WithDetail("status", status)
}

// ASRBadResponse creates the error for a 4xx from the backend. The raw body is
// passed through as the detail message.
func ASRBadResponse(status int, body string) *AppError {
	return New(ErrCodeASRBadResponse,
		fmt.Sprintf("ASR returned error: %d %s", status, http.StatusText(status)),
		http.StatusBadGateway).
		WithDetails(map[string]any{"status": status, "message": body})
}

// ASRTimeout creates the error for a backend that missed its response deadline.
func ASRTimeout(timeout time.Duration) *AppError {
	return New(ErrCodeASRTimeout,
		"ASR service did not respond in time. Please try again.",
		http.StatusServiceUnavailable).
		WithDetail("timeout", fmt.Sprintf("%d seconds", int64(timeout/time.Second)))
}

// ASRServiceError creates the error for any other backend failure. reason names
// the kind of failure, never its message.
func ASRServiceError(reason string) *AppError {
	return New(ErrCodeASRServiceError,
		"ASR service encountered an error. Please try again.",
		http.StatusServiceUnavailable).
		WithDetail("reason", reason)
}
