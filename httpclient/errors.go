package httpclient

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// ErrorCode classifies HTTP client errors.
type ErrorCode int

const (
	// ErrCodeTimeout indicates the request deadline passed.
	ErrCodeTimeout ErrorCode = iota
	// ErrCodeConnection indicates a failure to reach the server (refused,
	// DNS, dial timeout, reset).
	ErrCodeConnection
	// ErrCodeCanceled indicates the caller canceled the request.
	ErrCodeCanceled
	ErrCodeAuth
	ErrCodeNotFound
	ErrCodeRateLimit
	// ErrCodeValidation covers other 4xx statuses and requests that could
	// not be built.
	ErrCodeValidation
	ErrCodeServer
)

var codeNames = map[ErrorCode]string{
	ErrCodeTimeout:    "timeout",
	ErrCodeConnection: "connection",
	ErrCodeCanceled:   "canceled",
	ErrCodeAuth:       "auth",
	ErrCodeNotFound:   "not_found",
	ErrCodeRateLimit:  "rate_limit",
	ErrCodeValidation: "validation",
	ErrCodeServer:     "server",
}

// String returns the error code name.
func (c ErrorCode) String() string {
	if n, ok := codeNames[c]; ok {
		return n
	}
	return "unknown"
}

// Error is a classified HTTP client error.
type Error struct {
	// StatusCode is 0 for transport-level errors.
	StatusCode int
	Code       ErrorCode
	Message    string
	Body       []byte
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("httpclient: %s (HTTP %d): %s", e.Code, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("httpclient: %s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newTransportError(code ErrorCode, err error) *Error {
	return &Error{Code: code, Message: err.Error(), Err: err}
}

// NewValidationError reports a request that could not be built.
func NewValidationError(msg string) *Error {
	return &Error{Code: ErrCodeValidation, Message: msg}
}

// ClassifyStatusCode converts a non-2xx status into a typed error.
// Returns nil for 2xx.
func ClassifyStatusCode(statusCode int, body []byte) *Error {
	var code ErrorCode
	switch {
	case statusCode >= 200 && statusCode < 300:
		return nil
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		code = ErrCodeAuth
	case statusCode == http.StatusNotFound:
		code = ErrCodeNotFound
	case statusCode == http.StatusTooManyRequests:
		code = ErrCodeRateLimit
	case statusCode >= 400 && statusCode < 500:
		code = ErrCodeValidation
	default:
		code = ErrCodeServer
	}
	return &Error{
		StatusCode: statusCode,
		Code:       code,
		Message:    fmt.Sprintf("HTTP %d", statusCode),
		Body:       body,
	}
}

// ClassifyTransportError classifies an error returned while sending a
// request or reading its body. ctx is the request context.
func ClassifyTransportError(ctx context.Context, err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}

	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return newTransportError(ErrCodeTimeout, err)
	case errors.Is(ctx.Err(), context.Canceled):
		return newTransportError(ErrCodeCanceled, err)
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return newTransportError(ErrCodeConnection, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return newTransportError(ErrCodeTimeout, err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return newTransportError(ErrCodeTimeout, err)
	}
	return newTransportError(ErrCodeConnection, err)
}

// AsError extracts an *Error from err's chain.
func AsError(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

// IsTimeout checks if an error is a timeout error.
func IsTimeout(err error) bool {
	e, ok := AsError(err)
	return ok && e.Code == ErrCodeTimeout
}

// IsConnection checks if an error is a connection error.
func IsConnection(err error) bool {
	e, ok := AsError(err)
	return ok && e.Code == ErrCodeConnection
}

// IsCanceled checks if an error is a caller cancellation.
func IsCanceled(err error) bool {
	e, ok := AsError(err)
	return ok && e.Code == ErrCodeCanceled
}
