// Package mockasr serves a deterministic stand-in for the ASR runtime.
//
// It speaks the runtime's wire contract, so pointing ai.runtime.baseUrl at
// http://<gateway>/mock exercises the full gateway path without a real
// backend. The legacy /mock/v1/asr/transcribe route accepts the file under
// the "file" part as older clients send it.
package mockasr
