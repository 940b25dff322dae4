package gateway

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/asrgateway/errors"
	"github.com/kbukum/asrgateway/logger"
)

const (
	// TranscribePath is the public transcription route.
	TranscribePath = "/api/v1/audio/transcribe"

	// APIKeyHeader carries the client API key.
	APIKeyHeader = "X-API-Key"

	audioPart   = "audio"
	sessionPart = "sessionId"

	// MultipartOverhead is the body allowance above the upload ceiling for
	// boundaries, part headers and the sessionId field.
	MultipartOverhead int64 = 1 << 20

	maxMemory = 8 << 20
)

// Handler binds a Gateway to gin.
type Handler struct {
	gw  *Gateway
	log *logger.Logger
}

// NewHandler creates the HTTP handler for gw.
func NewHandler(gw *Gateway) *Handler {
	return &Handler{gw: gw, log: gw.log}
}

// Register mounts the transcription route.
func (h *Handler) Register(r gin.IRouter) {
	r.POST(TranscribePath, h.Transcribe)
}

// Transcribe parses the multipart upload and runs it through the gateway.
// Spooled multipart files are removed before returning.
func (h *Handler) Transcribe(c *gin.Context) {
	ctx := c.Request.Context()
	apiKey := headerValue(c.Request.Header, APIKeyHeader)

	limit := h.gw.rules.MaxBytes + MultipartOverhead
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)

	err := c.Request.ParseMultipartForm(maxMemory)
	if form := c.Request.MultipartForm; form != nil {
		defer func() {
			if rmErr := form.RemoveAll(); rmErr != nil {
				h.log.Warn("Failed to remove multipart temp files", logger.ErrorFields("transcribe", rmErr))
			}
		}()
	}

	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			actual := max(c.Request.ContentLength, tooLarge.Limit+1)
			resp, status := h.gw.Reject(ctx, apiKey, apperrors.FileTooLarge(h.gw.rules.MaxBytes, actual))
			c.Header("Connection", "close")
			c.JSON(status, resp)
			return
		}
		h.log.Debug("Request body is not a readable multipart form", logger.ErrorFields("transcribe", err))
	}

	req := TranscriptionRequest{APIKey: apiKey}
	if form := c.Request.MultipartForm; form != nil {
		req.SessionID = formValue(form, sessionPart)

		if fh := firstFile(form, audioPart); fh != nil {
			f, openErr := fh.Open()
			if openErr != nil {
				h.log.Warn("Failed to open audio part", logger.ErrorFields("transcribe", openErr))
			} else {
				defer f.Close()
				req.Audio = &UploadedAudio{
					OriginalFilename: fh.Filename,
					ContentType:      fh.Header.Get("Content-Type"),
					SizeBytes:        fh.Size,
					Content:          f,
				}
			}
		}
	}

	resp, status := h.gw.Handle(ctx, req)
	c.JSON(status, resp)
}

func headerValue(h http.Header, key string) *string {
	values := h.Values(key)
	if len(values) == 0 {
		return nil
	}
	return &values[0]
}

func formValue(form *multipart.Form, key string) *string {
	values := form.Value[key]
	if len(values) == 0 {
		return nil
	}
	return &values[0]
}

func firstFile(form *multipart.Form, key string) *multipart.FileHeader {
	files := form.File[key]
	if len(files) == 0 {
		return nil
	}
	return files[0]
}
