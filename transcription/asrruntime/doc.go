// Package asrruntime is the transcription.Provider for the HTTP ASR
// runtime. One call is one multipart POST to {baseUrl}/transcribe with an
// "audio" file part, an optional "sessionId" text part and the X-API-Key
// header, bounded by a dial timeout and a per-call response deadline.
package asrruntime
