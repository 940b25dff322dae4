// Package transcription defines the speech-to-text backend contract used
// by the gateway: the Provider interface, the normalized Result, the
// Failure variant a backend call can end in, and Classify, which maps any
// backend error onto the client-facing error codes.
//
// # Backends
//
//   - transcription/asrruntime: the HTTP ASR runtime
//   - transcription/mockasr: an in-process stand-in answering the same wire contract
package transcription
