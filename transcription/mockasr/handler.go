package mockasr

import (
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/asrgateway/logger"
	"github.com/kbukum/asrgateway/transcription"
)

const (
	// BasePath is where the mock is mounted.
	BasePath = "/mock"

	transcriptPrefix = "This is a mock transcript for "
	defaultFilename  = "audio"

	maxMemory = 8 << 20
)

// Handler answers transcription calls with a canned result.
type Handler struct {
	log *logger.Logger
}

// New creates a mock handler.
func New() *Handler {
	return &Handler{log: logger.WithComponent("mock-asr")}
}

// Register mounts the mock routes under BasePath.
func (h *Handler) Register(r gin.IRouter) {
	g := r.Group(BasePath)
	g.GET("/health", h.Health)
	g.POST("/transcribe", h.Transcribe)
	g.POST("/v1/asr/transcribe", h.TranscribeLegacy)
}

// Health mirrors the runtime's public health probe.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "mock": true})
}

// Transcribe reads the "audio" part, falling back to "file".
func (h *Handler) Transcribe(c *gin.Context) {
	h.respond(c, "audio", "file")
}

// TranscribeLegacy reads the "file" part.
func (h *Handler) TranscribeLegacy(c *gin.Context) {
	h.respond(c, "file")
}

func (h *Handler) respond(c *gin.Context, parts ...string) {
	if err := c.Request.ParseMultipartForm(maxMemory); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "expected multipart/form-data"})
		return
	}
	defer func() {
		if c.Request.MultipartForm != nil {
			_ = c.Request.MultipartForm.RemoveAll()
		}
	}()

	fh := firstFile(c.Request.MultipartForm, parts)
	if fh == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file part is required"})
		return
	}

	name := fh.Filename
	if name == "" {
		name = defaultFilename
	}
	h.log.Debug("Mock transcription", logger.Fields(
		logger.FieldFilename, name,
		"size_bytes", fh.Size,
		logger.FieldSessionID, c.Request.FormValue("sessionId"),
	))

	c.JSON(http.StatusOK, Result(name))
}

// Result is the canned response for filename.
func Result(filename string) *transcription.Result {
	return transcription.NewResult(transcriptPrefix+filename, []transcription.Segment{
		{Speaker: "Unknown", StartMs: 0, EndMs: 1500, Text: "Mock segment text"},
	})
}

func firstFile(form *multipart.Form, parts []string) *multipart.FileHeader {
	if form == nil {
		return nil
	}
	for _, p := range parts {
		if files := form.File[p]; len(files) > 0 {
			return files[0]
		}
	}
	return nil
}
