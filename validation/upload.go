package validation

import (
	"crypto/subtle"
	"slices"
	"strings"

	apperrors "github.com/kbukum/asrgateway/errors"
)

const (
	// DefaultMaxBytes is the upload ceiling when app.upload.maxBytes is unset (25MB).
	DefaultMaxBytes int64 = 26214400
	// DefaultContentType is assumed when the upload carries no content type.
	DefaultContentType = "application/octet-stream"
)

// DefaultAllowedContentTypes returns the audio types accepted out of the box.
func DefaultAllowedContentTypes() []string {
	return []string{
		"audio/wav",
		"audio/wave",
		"audio/x-wav",
		"audio/mpeg",
		"audio/mp4",
		"audio/webm",
		DefaultContentType,
	}
}

// File describes an uploaded audio part as far as validation cares.
type File struct {
	ContentType string
	SizeBytes   int64
}

// UploadRules is the read-only configuration the upload checks run against.
type UploadRules struct {
	MaxBytes int64
	// APIKey gates the endpoint; blank means open mode.
	APIKey              string
	AllowedContentTypes []string
}

// ResolveContentType returns ct, or the octet-stream fallback when ct is blank.
func ResolveContentType(ct string) string {
	if strings.TrimSpace(ct) == "" {
		return DefaultContentType
	}
	return ct
}

// Check runs auth, presence, size and content-type checks in that order and
// returns the first failure. file is nil when no audio part was sent.
func (r UploadRules) Check(apiKey *string, file *File) *apperrors.AppError {
	if err := r.CheckAuth(apiKey); err != nil {
		return err
	}
	if file == nil || file.SizeBytes <= 0 {
		return apperrors.MissingFile()
	}
	if file.SizeBytes > r.MaxBytes {
		return apperrors.FileTooLarge(r.MaxBytes, file.SizeBytes)
	}
	ct := ResolveContentType(file.ContentType)
	if !slices.Contains(r.AllowedContentTypes, ct) {
		return apperrors.InvalidAudioFormat(ct, r.sortedAllowed())
	}
	return nil
}

// CheckAuth compares the request key with the configured one in constant time.
func (r UploadRules) CheckAuth(apiKey *string) *apperrors.AppError {
	if strings.TrimSpace(r.APIKey) == "" {
		return nil
	}
	if apiKey == nil || strings.TrimSpace(*apiKey) == "" {
		return apperrors.Unauthorized()
	}
	if subtle.ConstantTimeCompare([]byte(*apiKey), []byte(r.APIKey)) != 1 {
		return apperrors.Unauthorized()
	}
	return nil
}

// OpenMode reports whether the endpoint accepts requests without a key.
func (r UploadRules) OpenMode() bool {
	return strings.TrimSpace(r.APIKey) == ""
}

func (r UploadRules) sortedAllowed() []string {
	allowed := append([]string{}, r.AllowedContentTypes...)
	slices.Sort(allowed)
	return allowed
}
