package main

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/asrgateway/bootstrap"
	"github.com/kbukum/asrgateway/logger"
	"github.com/kbukum/asrgateway/transcription/mockasr"
	"github.com/kbukum/asrgateway/validation"
)

func baseConfig(runtimeURL string) *AppConfig {
	cfg := &AppConfig{}
	cfg.AI.Runtime.BaseURL = runtimeURL
	return cfg
}

func TestApplyDefaults(t *testing.T) {
	cfg := baseConfig("http://asr:8000")
	cfg.ApplyDefaults()

	if cfg.Name != serviceName || cfg.Environment != "development" {
		t.Errorf("service defaults: %+v", cfg.ServiceConfig)
	}
	if cfg.App.Upload.MaxBytes != validation.DefaultMaxBytes {
		t.Errorf("maxBytes = %d", cfg.App.Upload.MaxBytes)
	}
	if len(cfg.App.Upload.AllowedTypes) != len(validation.DefaultAllowedContentTypes()) {
		t.Errorf("allowedTypes = %v", cfg.App.Upload.AllowedTypes)
	}
	// 25MB upload ceiling plus 1MB multipart allowance.
	if cfg.Server.MaxBodySize != "26MB" {
		t.Errorf("server.max_body_size = %q, want 26MB", cfg.Server.MaxBodySize)
	}
	if cfg.AI.Runtime.ResponseTimeout.Seconds() != 45 || cfg.AI.Runtime.ConnectTimeout.Seconds() != 3 {
		t.Errorf("runtime timeouts = %v / %v", cfg.AI.Runtime.ConnectTimeout, cfg.AI.Runtime.ResponseTimeout)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestApplyDefaultsKeepsLargerBodyLimit(t *testing.T) {
	cfg := baseConfig("http://asr:8000")
	cfg.Server.MaxBodySize = "100MB"
	cfg.ApplyDefaults()
	if cfg.Server.MaxBodySize != "100MB" {
		t.Errorf("server.max_body_size = %q", cfg.Server.MaxBodySize)
	}
}

func TestApplyDefaultsMockFillsRuntimeURL(t *testing.T) {
	cfg := baseConfig("")
	cfg.App.Mock.Enabled = true
	cfg.Server.Port = 9090
	cfg.ApplyDefaults()
	if cfg.AI.Runtime.BaseURL != "http://127.0.0.1:9090/mock" {
		t.Errorf("baseUrl = %q", cfg.AI.Runtime.BaseURL)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*AppConfig)
		want   string
	}{
		{"no runtime url", func(c *AppConfig) { c.AI.Runtime.BaseURL = "" }, "ai.runtime.baseUrl"},
		{"negative max bytes", func(c *AppConfig) { c.App.Upload.MaxBytes = -1 }, "app.upload.maxBytes"},
		{"blank allowed type", func(c *AppConfig) { c.App.Upload.AllowedTypes = []string{" "} }, "app.upload.allowedTypes"},
		{"bad environment", func(c *AppConfig) { c.Environment = "qa" }, "config.environment"},
		{"bad sample rate", func(c *AppConfig) { c.Observability.SampleRate = 2 }, "observability.sample_rate"},
		{"bad port", func(c *AppConfig) { c.Server.Port = -1 }, "server.port"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := baseConfig("http://asr:8000")
			cfg.ApplyDefaults()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("Validate() = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestUploadRules(t *testing.T) {
	cfg := baseConfig("http://asr:8000")
	cfg.API.Key = "gate"
	cfg.App.Upload.MaxBytes = 10
	cfg.App.Upload.AllowedTypes = []string{"audio/wav"}
	rules := cfg.UploadRules()
	if rules.MaxBytes != 10 || rules.APIKey != "gate" || rules.OpenMode() {
		t.Errorf("rules = %+v", rules)
	}
	rules.AllowedContentTypes[0] = "changed"
	if cfg.App.Upload.AllowedTypes[0] != "audio/wav" {
		t.Error("rules must not alias the config slice")
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	yml := `
name: asr-gateway
environment: staging
app:
  upload:
    maxBytes: 2048
  mock:
    enabled: true
api:
  key: secret
ai:
  runtime:
    baseUrl: http://asr:8000
    responseTimeout: 10s
`
	if err := os.WriteFile(path, []byte(yml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(path, "")
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Environment != "staging" || cfg.App.Upload.MaxBytes != 2048 || !cfg.App.Mock.Enabled {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.API.Key != "secret" || cfg.AI.Runtime.BaseURL != "http://asr:8000" || cfg.AI.Runtime.ResponseTimeout.Seconds() != 10 {
		t.Errorf("sections = %+v / %+v", cfg.API, cfg.AI.Runtime)
	}
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	if _, err := loadConfig(filepath.Join(t.TempDir(), "absent.yml"), ""); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestShippedConfigLoads(t *testing.T) {
	cfg, err := loadConfig("config.yml", "")
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("shipped config invalid: %v", err)
	}
	if len(cfg.App.Upload.AllowedTypes) != 7 {
		t.Errorf("allowedTypes = %v", cfg.App.Upload.AllowedTypes)
	}
}

func postAudio(t *testing.T, url, apiKey string) (*http.Response, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", `form-data; name="audio"; filename="hello.wav"`)
	h.Set("Content-Type", "audio/wav")
	pw, err := w.CreatePart(h)
	if err != nil {
		t.Fatal(err)
	}
	pw.Write([]byte("RIFF....WAVEfmt "))
	w.Close()

	req, err := http.NewRequest(http.MethodPost, url+"/api/v1/audio/transcribe", &buf)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return resp, body
}

func TestWiredGateway(t *testing.T) {
	gin.SetMode(gin.TestMode)
	backend := gin.New()
	mockasr.New().Register(backend)
	asr := httptest.NewServer(backend)
	defer asr.Close()

	cfg := baseConfig(asr.URL + mockasr.BasePath)
	cfg.API.Key = "gate"
	cfg.App.Mock.Enabled = true

	app, srv, err := newApp(cfg, bootstrap.WithLogger(logger.Nop()), bootstrap.WithoutSummary())
	if err != nil {
		t.Fatalf("newApp: %v", err)
	}
	if got := len(app.Components.All()); got != 3 {
		t.Errorf("components = %d, want 3", got)
	}

	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, body := postAudio(t, ts.URL, "gate")
	if resp.StatusCode != http.StatusOK || body["status"] != "SUCCESS" {
		t.Fatalf("got %d %v", resp.StatusCode, body)
	}
	asrBody, _ := body["asr"].(map[string]any)
	if asrBody["transcript"] != "This is a mock transcript for hello.wav" {
		t.Errorf("asr = %v", body["asr"])
	}
	if resp.Header.Get("X-Request-Id") == "" {
		t.Error("missing X-Request-Id")
	}

	resp, body = postAudio(t, ts.URL, "wrong")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("wrong key: %d %v", resp.StatusCode, body)
	}

	metrics, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	exposition, _ := io.ReadAll(metrics.Body)
	metrics.Body.Close()
	for _, want := range []string{
		`asr_gateway_transcriptions_total{code="",status="SUCCESS"} 1`,
		`asr_gateway_transcriptions_total{code="UNAUTHORIZED",status="FAILED"} 1`,
		"go_goroutines",
	} {
		if !strings.Contains(string(exposition), want) {
			t.Errorf("metrics missing %q", want)
		}
	}

	mockHealth, err := http.Get(ts.URL + "/mock/health")
	if err != nil {
		t.Fatal(err)
	}
	mockHealth.Body.Close()
	if mockHealth.StatusCode != http.StatusOK {
		t.Errorf("mock health = %d", mockHealth.StatusCode)
	}
}
