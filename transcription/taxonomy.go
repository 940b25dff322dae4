package transcription

import (
	"errors"
	"net/http"

	apperrors "github.com/kbukum/asrgateway/errors"
)

// Classify maps a backend error onto the client-facing taxonomy. It never
// returns nil for a non-nil err; errors that are not a *Failure become
// ASR_SERVICE_ERROR with reason Unclassified.
func Classify(err error) *apperrors.AppError {
	if err == nil {
		return nil
	}

	var f *Failure
	if !errors.As(err, &f) {
		return apperrors.ASRServiceError(ReasonUnclassified).WithCause(err)
	}

	var appErr *apperrors.AppError
	switch f.Kind {
	case FailureHTTPStatus:
		appErr = classifyStatus(f.StatusCode, f.Body)
	case FailureTimeout:
		appErr = apperrors.ASRTimeout(f.Timeout)
	default:
		reason := f.Reason
		if reason == "" {
			reason = ReasonUnclassified
		}
		appErr = apperrors.ASRServiceError(reason)
	}
	return appErr.WithCause(err)
}

func classifyStatus(status int, body string) *apperrors.AppError {
	switch {
	case status == http.StatusBadGateway || status == http.StatusServiceUnavailable:
		return apperrors.ASRUnavailable(status)
	case status == http.StatusTooManyRequests:
		return apperrors.ASRRateLimited(status)
	case status >= 500:
		return apperrors.ASRServerError(status)
	default:
		return apperrors.ASRBadResponse(status, body)
	}
}
