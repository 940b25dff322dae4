package transcription

import (
	"context"
	"io"
)

// Provider is a speech-to-text backend.
type Provider interface {
	Name() string

	// IsAvailable reports whether the backend answers its health probe.
	IsAvailable(ctx context.Context) bool

	// Transcribe sends one audio upload. sessionID is forwarded only when
	// non-blank. Failures are *Failure values.
	Transcribe(ctx context.Context, audio io.Reader, filename, sessionID string) (*Result, error)
}
