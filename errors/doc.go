// Package errors provides the unified error type for the gateway.
// It implements structured errors with a closed, versioned set of
// client-facing codes, HTTP status mapping and retryable hints.
package errors
