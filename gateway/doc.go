// Package gateway runs the transcription pipeline: it validates an upload,
// makes exactly one call to the ASR backend and shapes the outcome into a
// TranscriptionResponse with the matching HTTP status.
//
// Gateway.Handle is transport-agnostic; Handler binds it to gin at
// POST /api/v1/audio/transcribe.
package gateway
