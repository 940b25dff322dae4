package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/kbukum/asrgateway/errors"
	"github.com/kbukum/asrgateway/logger"
	"github.com/kbukum/asrgateway/observability"
	"github.com/kbukum/asrgateway/transcription"
	"github.com/kbukum/asrgateway/util"
	"github.com/kbukum/asrgateway/validation"
)

const operationName = "transcribe"

// Gateway validates uploads and forwards them to a transcription provider.
// It holds no per-request state and is safe for concurrent use.
type Gateway struct {
	service string
	rules   validation.UploadRules
	backend transcription.Provider
	metrics *Metrics
	otel    *observability.Metrics
	newID   func() string
	log     *logger.Logger
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithMetrics records Prometheus collectors for every request.
func WithMetrics(m *Metrics) Option {
	return func(g *Gateway) { g.metrics = m }
}

// WithOperationMetrics records OpenTelemetry instruments around the backend call.
func WithOperationMetrics(m *observability.Metrics) Option {
	return func(g *Gateway) { g.otel = m }
}

// WithServiceName sets the service name reported on spans.
func WithServiceName(name string) Option {
	return func(g *Gateway) { g.service = name }
}

// WithIDGenerator replaces the request id source.
func WithIDGenerator(fn func() string) Option {
	return func(g *Gateway) { g.newID = fn }
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(g *Gateway) { g.log = l.WithComponent("gateway") }
}

// New creates a Gateway.
func New(rules validation.UploadRules, backend transcription.Provider, opts ...Option) *Gateway {
	g := &Gateway{
		service: "asr-gateway",
		rules:   rules,
		backend: backend,
		newID:   func() string { return uuid.New().String() },
		log:     logger.WithComponent("gateway"),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Rules returns the upload rules the gateway validates against.
func (g *Gateway) Rules() validation.UploadRules { return g.rules }

// Handle runs one request through validation and the backend call.
// It never returns an unclassified failure: every error path yields a
// FAILED response with a taxonomy code and its HTTP status.
func (g *Gateway) Handle(ctx context.Context, req TranscriptionRequest) (TranscriptionResponse, int) {
	requestID := g.newID()
	ctx = logger.ContextWithRequestID(ctx, requestID)
	log := g.log.WithContext(ctx)

	sessionID := util.Deref(req.SessionID)
	log.Info("Transcription request received", logger.Fields(
		logger.FieldSessionID, sessionID,
		logger.FieldFilename, filenameOf(req.Audio),
	))

	if appErr := g.validate(log, req); appErr != nil {
		return g.fail(requestID, appErr), appErr.HTTPStatus
	}

	audio := req.Audio
	contentType := validation.ResolveContentType(audio.ContentType)
	filename := audio.Filename()
	g.metrics.observeUpload(audio.SizeBytes)

	log.Info("Forwarding to ASR backend", logger.Fields(
		logger.FieldBackend, g.backend.Name(),
		"size_bytes", audio.SizeBytes,
	))

	result, err := g.transcribe(ctx, requestID, sessionID, audio, filename, contentType)
	if err != nil {
		appErr := transcription.Classify(err)
		g.logBackendFailure(log, appErr, err)
		return g.fail(requestID, appErr), appErr.HTTPStatus
	}

	meta := &AudioMeta{
		OriginalFileName: filename,
		ContentType:      contentType,
		SizeBytes:        audio.SizeBytes,
		DurationMs:       0,
	}
	log.Info("Transcription succeeded", logger.Fields(
		"transcript_length", len(result.Transcript),
		"segments", len(result.Segments),
	))
	g.metrics.observeOutcome(StatusSuccess, "")
	return Success(requestID, req.SessionID, meta, result), http.StatusOK
}

// Reject answers a request whose body could not be read as an upload, such
// as one cut off by the body limit. The API key check still runs first so an
// unauthenticated caller always sees UNAUTHORIZED.
//
// For FILE_TOO_LARGE raised by the body limit, actualBytes in the cause is
// the size of the whole request body, not of the audio part.
func (g *Gateway) Reject(ctx context.Context, apiKey *string, cause *apperrors.AppError) (TranscriptionResponse, int) {
	requestID := g.newID()
	log := g.log.WithContext(logger.ContextWithRequestID(ctx, requestID))

	appErr := g.rules.CheckAuth(apiKey)
	if appErr == nil {
		appErr = cause
	}
	log.Warn("Request rejected before validation", logger.Fields(
		logger.FieldCode, appErr.Code,
		"details", appErr.Details,
	))
	return g.fail(requestID, appErr), appErr.HTTPStatus
}

// validate runs the upload checks and logs the trail.
func (g *Gateway) validate(log *logger.Logger, req TranscriptionRequest) *apperrors.AppError {
	var file *validation.File
	if req.Audio != nil {
		file = &validation.File{ContentType: req.Audio.ContentType, SizeBytes: req.Audio.SizeBytes}
	}
	if g.rules.OpenMode() {
		log.Debug("API key validation skipped, no key configured")
	}

	appErr := g.rules.Check(req.APIKey, file)
	if appErr != nil {
		log.Warn("Validation failed", logger.Fields(
			logger.FieldCode, appErr.Code,
			"reason", appErr.Message,
			"details", appErr.Details,
		))
		return appErr
	}
	log.Debug("Upload validated", logger.Fields(
		"size_bytes", file.SizeBytes,
		"content_type", validation.ResolveContentType(file.ContentType),
	))
	return nil
}

// transcribe makes the backend call inside a span. A panic in the provider
// is turned into a Failure so it is classified like any other error.
func (g *Gateway) transcribe(ctx context.Context, requestID, sessionID string, audio *UploadedAudio, filename, contentType string) (result *transcription.Result, err error) {
	oc := observability.NewOperationContext(g.service, operationName, requestID, sessionID, g.otel)
	ctx, span := oc.StartSpanForOperation(ctx, observability.SpanTranscribe)
	observability.SetSpanAttribute(ctx, observability.AttrAudioBytes, audio.SizeBytes)
	observability.SetSpanAttribute(ctx, observability.AttrAudioType, contentType)

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			result, err = nil, transcription.TransportFailure(transcription.ReasonPanic, fmt.Errorf("panic: %v", r))
		}
		if err == nil && result == nil {
			err = transcription.TransportFailure(transcription.ReasonDecode, fmt.Errorf("backend returned no result"))
		}

		if err != nil {
			g.metrics.observeBackend(outcomeFailure, time.Since(start))
			oc.EndOperation(ctx, span, string(StatusFailed), string(transcription.Classify(err).Code), err)
			return
		}
		g.metrics.observeBackend(outcomeSuccess, time.Since(start))
		oc.EndOperation(ctx, span, string(StatusSuccess), "", nil)
	}()

	return g.backend.Transcribe(ctx, audio.Content, filename, sessionID)
}

func (g *Gateway) fail(requestID string, appErr *apperrors.AppError) TranscriptionResponse {
	g.metrics.observeOutcome(StatusFailed, string(appErr.Code))
	return Failure(requestID, appErr)
}

func (g *Gateway) logBackendFailure(log *logger.Logger, appErr *apperrors.AppError, err error) {
	fields := logger.Fields(
		logger.FieldCode, appErr.Code,
		"details", appErr.Details,
	)
	var f *transcription.Failure
	if errors.As(err, &f) {
		fields["kind"] = f.Kind.String()
		if f.Kind == transcription.FailureHTTPStatus {
			fields["backend_status"] = f.StatusCode
			fields["backend_body"] = f.Body
		}
	}
	log.Error("ASR backend call failed", logger.MergeWithError(fields, err))
}

func filenameOf(a *UploadedAudio) string {
	if a == nil {
		return "null"
	}
	return a.OriginalFilename
}
