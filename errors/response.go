package errors

import (
	stderrors "errors"
)

// ErrorBody is the error object embedded in client responses.
type ErrorBody struct {
	Code    ErrorCode      `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details"`
}

// ToBody converts an AppError to its client-facing representation.
// Details is always a JSON object, never null.
func (e *AppError) ToBody() *ErrorBody {
	details := e.Details
	if details == nil {
		details = map[string]any{}
	}
	return &ErrorBody{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
	}
}

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
