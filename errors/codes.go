package errors

// ErrorCode represents a machine-readable, client-facing error code.
// The set is closed: clients may switch on it exhaustively.
type ErrorCode string

// Request validation errors
const (
	// ErrCodeUnauthorized indicates a missing or mismatching API key.
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	// ErrCodeMissingFile indicates the audio part is absent or empty.
	ErrCodeMissingFile ErrorCode = "MISSING_FILE"
	// ErrCodeFileTooLarge indicates the upload exceeds the size ceiling.
	ErrCodeFileTooLarge ErrorCode = "FILE_TOO_LARGE"
	// ErrCodeInvalidAudioFormat indicates the content type is not allowed.
	ErrCodeInvalidAudioFormat ErrorCode = "INVALID_AUDIO_FORMAT"
)

// ASR backend errors
const (
	// ErrCodeASRUnavailable indicates the backend answered 502 or 503.
	ErrCodeASRUnavailable ErrorCode = "ASR_UNAVAILABLE"
	// ErrCodeASRRateLimited indicates the backend answered 429.
	ErrCodeASRRateLimited ErrorCode = "ASR_RATE_LIMITED"
	// ErrCodeASRServerError indicates any other 5xx from the backend.
	ErrCodeASRServerError ErrorCode = "ASR_SERVER_ERROR"
	// ErrCodeASRBadResponse indicates a 4xx (other than 429) from the backend.
	ErrCodeASRBadResponse ErrorCode = "ASR_BAD_RESPONSE"
	// ErrCodeASRTimeout indicates the backend response deadline elapsed.
	ErrCodeASRTimeout ErrorCode = "ASR_TIMEOUT"
	// ErrCodeASRServiceError indicates any other transport or unexpected failure.
	ErrCodeASRServiceError ErrorCode = "ASR_SERVICE_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeASRUnavailable:  true,
	ErrCodeASRRateLimited:  true,
	ErrCodeASRServerError:  true,
	ErrCodeASRTimeout:      true,
	ErrCodeASRServiceError: true,
}

// Codes returns every client-facing code in taxonomy order.
func Codes() []ErrorCode {
	return []ErrorCode{
		ErrCodeUnauthorized,
		ErrCodeMissingFile,
		ErrCodeFileTooLarge,
		ErrCodeInvalidAudioFormat,
		ErrCodeASRUnavailable,
		ErrCodeASRRateLimited,
		ErrCodeASRServerError,
		ErrCodeASRBadResponse,
		ErrCodeASRTimeout,
		ErrCodeASRServiceError,
	}
}

// IsRetryableCode returns true if the error code indicates the client may try again later.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
