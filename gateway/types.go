package gateway

import (
	"io"

	apperrors "github.com/kbukum/asrgateway/errors"
	"github.com/kbukum/asrgateway/transcription"
	"github.com/kbukum/asrgateway/util"
)

// DefaultFilename replaces a missing or blank upload filename.
const DefaultFilename = "audio"

// Status is the outcome of a transcription request.
type Status string

const (
	StatusSuccess Status = "SUCCESS"
	StatusFailed  Status = "FAILED"
)

// UploadedAudio is the audio part of an inbound request. Content is only
// valid for the lifetime of the request.
type UploadedAudio struct {
	OriginalFilename string
	ContentType      string
	SizeBytes        int64
	Content          io.Reader
}

// Filename returns the upload filename or DefaultFilename.
func (a *UploadedAudio) Filename() string {
	if a == nil || util.IsBlank(a.OriginalFilename) {
		return DefaultFilename
	}
	return a.OriginalFilename
}

// TranscriptionRequest is one inbound call. Nil pointers mean absent.
type TranscriptionRequest struct {
	Audio     *UploadedAudio
	SessionID *string
	APIKey    *string
}

// AudioMeta describes the accepted upload. DurationMs is always 0: the
// gateway does not probe audio and the backend does not report duration.
type AudioMeta struct {
	OriginalFileName string `json:"originalFileName"`
	ContentType      string `json:"contentType"`
	SizeBytes        int64  `json:"sizeBytes"`
	DurationMs       int64  `json:"durationMs"`
}

// TranscriptionResponse is the client-facing body. Either Audio and ASR are
// set (SUCCESS) or Error is (FAILED); absent values serialize as null.
type TranscriptionResponse struct {
	RequestID string                `json:"requestId"`
	SessionID *string               `json:"sessionId"`
	Status    Status                `json:"status"`
	Audio     *AudioMeta            `json:"audio"`
	ASR       *transcription.Result `json:"asr"`
	Warnings  []string              `json:"warnings"`
	Error     *apperrors.ErrorBody  `json:"error"`
}

// Success builds a SUCCESS response.
func Success(requestID string, sessionID *string, audio *AudioMeta, asr *transcription.Result) TranscriptionResponse {
	if asr == nil {
		asr = transcription.NewResult("", nil)
	}
	return TranscriptionResponse{
		RequestID: requestID,
		SessionID: sessionID,
		Status:    StatusSuccess,
		Audio:     audio,
		ASR:       asr,
		Warnings:  []string{},
	}
}

// Failure builds a FAILED response. The session id is never echoed on failure.
func Failure(requestID string, err *apperrors.AppError) TranscriptionResponse {
	return TranscriptionResponse{
		RequestID: requestID,
		Status:    StatusFailed,
		Warnings:  []string{},
		Error:     err.ToBody(),
	}
}
