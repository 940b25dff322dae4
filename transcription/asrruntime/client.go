package asrruntime

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/kbukum/asrgateway/httpclient"
	"github.com/kbukum/asrgateway/logger"
	"github.com/kbukum/asrgateway/transcription"
	"github.com/kbukum/asrgateway/util"
)

const (
	// ProviderName is the component and provider name.
	ProviderName = "asr-runtime"

	transcribePath = "/transcribe"
	healthPath     = "/health"

	audioPart       = "audio"
	sessionPart     = "sessionId"
	defaultFilename = "audio"
	audioPartType   = "application/octet-stream"
)

// Client calls the ASR runtime.
type Client struct {
	cfg     Config
	adapter *httpclient.Adapter
	log     *logger.Logger
}

var _ transcription.Provider = (*Client)(nil)

// New builds a client. opts customize the underlying HTTP adapter.
func New(cfg Config, opts ...httpclient.Option) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var auth *httpclient.AuthConfig
	if !util.IsBlank(cfg.APIKey) {
		auth = httpclient.APIKeyAuth(cfg.APIKey)
	}

	adapter, err := httpclient.New(httpclient.Config{
		Name:           ProviderName,
		BaseURL:        cfg.BaseURL,
		ConnectTimeout: cfg.ConnectTimeout,
		Auth:           auth,
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("asr runtime client: %w", err)
	}

	return &Client{
		cfg:     cfg,
		adapter: adapter,
		log:     logger.WithComponent(ProviderName),
	}, nil
}

// Name returns the provider name.
func (c *Client) Name() string { return ProviderName }

// Config returns the effective configuration.
func (c *Client) Config() Config { return c.cfg }

// IsAvailable probes GET /health.
func (c *Client) IsAvailable(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.ProbeTimeout)
	defer cancel()

	_, err := c.adapter.Do(ctx, httpclient.Request{Method: http.MethodGet, Path: healthPath})
	if err != nil {
		c.log.Debug("health probe failed", logger.Fields(logger.FieldError, err.Error()))
		return false
	}
	return true
}

// runtimeResponse is the runtime's JSON answer. Some runtime builds send
// "text" instead of "transcript".
type runtimeResponse struct {
	Transcript *string                 `json:"transcript"`
	Text       *string                 `json:"text"`
	Segments   []transcription.Segment `json:"segments"`
}

// Transcribe uploads audio and returns the normalized result. Every error
// is a *transcription.Failure.
func (c *Client) Transcribe(ctx context.Context, audio io.Reader, filename, sessionID string) (*transcription.Result, error) {
	if util.IsBlank(filename) {
		filename = defaultFilename
	}

	body := &httpclient.MultipartBody{}
	body.AddFile(audioPart, filename, audioPartType, audio)
	if !util.IsBlank(sessionID) {
		body.AddField(sessionPart, sessionID)
	}

	callCtx, cancel := context.WithTimeout(ctx, c.cfg.ResponseTimeout)
	defer cancel()

	start := time.Now()
	resp, err := c.adapter.Do(callCtx, httpclient.Request{
		Method: http.MethodPost,
		Path:   transcribePath,
		Body:   body,
	})
	elapsed := time.Since(start)
	if err != nil {
		f := c.toFailure(err)
		c.log.Debug("transcribe call failed", logger.Fields(
			logger.FieldFilename, filename,
			"kind", f.Kind.String(),
			"status", f.StatusCode,
			logger.FieldDuration, elapsed.Milliseconds(),
		))
		return nil, f
	}

	var out runtimeResponse
	if err := resp.DecodeJSON(&out); err != nil {
		return nil, transcription.TransportFailure(transcription.ReasonDecode, err)
	}

	transcript := ""
	switch {
	case out.Transcript != nil:
		transcript = *out.Transcript
	case out.Text != nil:
		transcript = *out.Text
	}

	segments := validSegments(out.Segments)
	if dropped := len(out.Segments) - len(segments); dropped > 0 {
		c.log.Warn("dropped malformed segments", logger.Fields("dropped", dropped))
	}

	c.log.Debug("transcribe call succeeded", logger.Fields(
		logger.FieldFilename, filename,
		"segments", len(segments),
		logger.FieldDuration, elapsed.Milliseconds(),
	))
	return transcription.NewResult(transcript, segments), nil
}

func (c *Client) toFailure(err error) *transcription.Failure {
	hErr, ok := httpclient.AsError(err)
	switch {
	case !ok:
		return transcription.TransportFailure(transcription.ReasonUnclassified, err)
	case hErr.StatusCode > 0:
		f := transcription.StatusFailure(hErr.StatusCode, string(hErr.Body))
		f.Err = err
		return f
	case httpclient.IsTimeout(err):
		return transcription.TimeoutFailure(c.cfg.ResponseTimeout, err)
	case httpclient.IsCanceled(err):
		return transcription.TransportFailure(transcription.ReasonRequestCanceled, err)
	case httpclient.IsConnection(err):
		return transcription.TransportFailure(transcription.ReasonConnection, err)
	case hErr.Code == httpclient.ErrCodeValidation:
		return transcription.TransportFailure(transcription.ReasonEncode, err)
	default:
		return transcription.TransportFailure(transcription.ReasonConnection, err)
	}
}

// validSegments drops segments whose bounds are negative or inverted.
func validSegments(segs []transcription.Segment) []transcription.Segment {
	out := segs[:0:0]
	for _, s := range segs {
		if s.StartMs >= 0 && s.EndMs >= s.StartMs {
			out = append(out, s)
		}
	}
	return out
}

// Close releases idle connections.
func (c *Client) Close() {
	c.adapter.Close()
}
