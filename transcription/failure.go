package transcription

import (
	"fmt"
	"time"
)

// FailureKind tags the way a backend call failed.
type FailureKind int

const (
	// FailureHTTPStatus: the backend answered with a non-2xx status.
	FailureHTTPStatus FailureKind = iota + 1
	// FailureTimeout: the response deadline passed.
	FailureTimeout
	// FailureTransport: anything else (connection, decode, cancellation).
	FailureTransport
)

// Reasons carried by FailureTransport.
const (
	ReasonConnection      = "ConnectionError"
	ReasonDecode          = "DecodeError"
	ReasonRequestCanceled = "RequestCanceled"
	ReasonEncode          = "EncodeError"
	ReasonPanic           = "Panic"
	ReasonUnclassified    = "Unclassified"
)

func (k FailureKind) String() string {
	switch k {
	case FailureHTTPStatus:
		return "http_status"
	case FailureTimeout:
		return "timeout"
	case FailureTransport:
		return "transport"
	default:
		return "unknown"
	}
}

// Failure is the error returned by a Provider. Only the fields matching
// Kind are meaningful.
type Failure struct {
	Kind FailureKind

	// FailureHTTPStatus
	StatusCode int
	Body       string

	// FailureTimeout
	Timeout time.Duration

	// FailureTransport
	Reason string

	Err error
}

// StatusFailure reports a non-2xx backend answer.
func StatusFailure(status int, body string) *Failure {
	return &Failure{Kind: FailureHTTPStatus, StatusCode: status, Body: body}
}

// TimeoutFailure reports a passed response deadline.
func TimeoutFailure(timeout time.Duration, err error) *Failure {
	return &Failure{Kind: FailureTimeout, Timeout: timeout, Err: err}
}

// TransportFailure reports any other failure under an opaque reason.
func TransportFailure(reason string, err error) *Failure {
	return &Failure{Kind: FailureTransport, Reason: reason, Err: err}
}

func (f *Failure) Error() string {
	var s string
	switch f.Kind {
	case FailureHTTPStatus:
		s = fmt.Sprintf("asr backend returned %d", f.StatusCode)
	case FailureTimeout:
		s = fmt.Sprintf("asr backend timed out after %s", f.Timeout)
	default:
		s = "asr backend transport failure: " + f.Reason
	}
	if f.Err != nil {
		s += ": " + f.Err.Error()
	}
	return s
}

func (f *Failure) Unwrap() error {
	return f.Err
}
