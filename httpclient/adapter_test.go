package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestAdapter(t *testing.T, cfg Config) *Adapter {
	t.Helper()
	a, err := New(cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(a.Close)
	return a
}

func TestAdapter_Do_ResolvesPathAndHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/health" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.URL.Query().Get("verbose") != "1" {
			t.Errorf("query = %s", r.URL.RawQuery)
		}
		if r.Header.Get("X-Default") != "d" || r.Header.Get("X-Request") != "r" {
			t.Errorf("headers = %v", r.Header)
		}
		if r.Header.Get("X-API-Key") != "backend-key" {
			t.Errorf("X-API-Key = %q", r.Header.Get("X-API-Key"))
		}
		w.Write([]byte(`{"status":"ok"}`))
	}))
	defer srv.Close()

	a := newTestAdapter(t, Config{
		BaseURL: srv.URL + "/v1/",
		Headers: map[string]string{"X-Default": "d"},
		Auth:    APIKeyAuth("backend-key"),
	})

	resp, err := a.Do(context.Background(), Request{
		Method:  http.MethodGet,
		Path:    "/health",
		Query:   map[string]string{"verbose": "1"},
		Headers: map[string]string{"X-Request": "r"},
	})
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	if !resp.IsSuccess() {
		t.Errorf("status = %d", resp.StatusCode)
	}
	var out map[string]string
	if err := resp.DecodeJSON(&out); err != nil || out["status"] != "ok" {
		t.Errorf("DecodeJSON = %v, %v", out, err)
	}
}

func TestAdapter_Do_RequestAuthOverrides(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("Authorization = %q", got)
		}
		if r.Header.Get("X-API-Key") != "" {
			t.Error("adapter auth should be overridden")
		}
	}))
	defer srv.Close()

	a := newTestAdapter(t, Config{BaseURL: srv.URL, Auth: APIKeyAuth("k")})
	if _, err := a.Do(context.Background(), Request{Method: http.MethodGet, Path: "/", Auth: &AuthConfig{Type: AuthBearer, Token: "tok"}}); err != nil {
		t.Fatal(err)
	}
}

func TestAdapter_Do_JSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		var in map[string]string
		json.NewDecoder(r.Body).Decode(&in)
		if in["language"] != "en" {
			t.Errorf("body = %v", in)
		}
	}))
	defer srv.Close()

	a := newTestAdapter(t, Config{BaseURL: srv.URL})
	if _, err := a.Do(context.Background(), Request{Method: http.MethodPost, Path: "/", Body: map[string]string{"language": "en"}}); err != nil {
		t.Fatal(err)
	}
}

func TestAdapter_Do_MultipartBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength <= 0 {
			t.Errorf("expected a Content-Length, got %d", r.ContentLength)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("ParseMultipartForm: %v", err)
		}
		if r.FormValue("sessionId") != "s-1" {
			t.Errorf("sessionId = %q", r.FormValue("sessionId"))
		}
		f, fh, err := r.FormFile("audio")
		if err != nil {
			t.Fatalf("FormFile: %v", err)
		}
		defer f.Close()
		data, _ := io.ReadAll(f)
		if string(data) != "RIFF" || fh.Filename != "clip.wav" {
			t.Errorf("file = %q %q", data, fh.Filename)
		}
		if ct := fh.Header.Get("Content-Type"); ct != "application/octet-stream" {
			t.Errorf("part content type = %q", ct)
		}
	}))
	defer srv.Close()

	body := (&MultipartBody{}).
		AddField("sessionId", "s-1").
		AddFile("audio", "clip.wav", "", strings.NewReader("RIFF"))

	a := newTestAdapter(t, Config{BaseURL: srv.URL})
	if _, err := a.Do(context.Background(), Request{Method: http.MethodPost, Path: "/transcribe", Body: body}); err != nil {
		t.Fatal(err)
	}
}

func TestAdapter_Do_StatusErrorKeepsResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("warming up"))
	}))
	defer srv.Close()

	a := newTestAdapter(t, Config{BaseURL: srv.URL})
	resp, err := a.Do(context.Background(), Request{Method: http.MethodGet, Path: "/"})
	if resp == nil || resp.StatusCode != 503 {
		t.Fatalf("expected response with 503, got %+v", resp)
	}
	e, ok := AsError(err)
	if !ok {
		t.Fatalf("expected *Error, got %T", err)
	}
	if e.Code != ErrCodeServer || e.StatusCode != 503 || string(e.Body) != "warming up" {
		t.Errorf("error = %+v", e)
	}
}

func TestAdapter_Do_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	a := newTestAdapter(t, Config{BaseURL: srv.URL})
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := a.Do(ctx, Request{Method: http.MethodGet, Path: "/"})
	if !IsTimeout(err) {
		t.Fatalf("expected timeout, got %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("timeout should wrap context.DeadlineExceeded: %v", err)
	}
}

func TestAdapter_Do_Canceled(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	a := newTestAdapter(t, Config{BaseURL: srv.URL})
	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)

	_, err := a.Do(ctx, Request{Method: http.MethodGet, Path: "/"})
	if !IsCanceled(err) {
		t.Fatalf("expected canceled, got %v", err)
	}
}

func TestAdapter_Do_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	a := newTestAdapter(t, Config{BaseURL: url, ConnectTimeout: time.Second})
	_, err := a.Do(context.Background(), Request{Method: http.MethodGet, Path: "/"})
	if !IsConnection(err) {
		t.Fatalf("expected connection error, got %v", err)
	}
}

func TestAdapter_Do_MaxResponseBytes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(strings.Repeat("x", 100)))
	}))
	defer srv.Close()

	a := newTestAdapter(t, Config{BaseURL: srv.URL, MaxResponseBytes: 10})
	resp, err := a.Do(context.Background(), Request{Method: http.MethodGet, Path: "/"})
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.Body) != 10 {
		t.Errorf("body length = %d, want 10", len(resp.Body))
	}
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func TestWithTransport(t *testing.T) {
	called := false
	a, err := New(Config{BaseURL: "http://backend.invalid"}, WithTransport(roundTripFunc(func(r *http.Request) (*http.Response, error) {
		called = true
		if r.URL.String() != "http://backend.invalid/ping" {
			t.Errorf("url = %s", r.URL)
		}
		return &http.Response{StatusCode: 204, Body: io.NopCloser(strings.NewReader("")), Header: http.Header{}}, nil
	})))
	if err != nil {
		t.Fatal(err)
	}
	resp, err := a.Do(context.Background(), Request{Method: http.MethodGet, Path: "ping"})
	if err != nil || resp.StatusCode != 204 || !called {
		t.Fatalf("resp=%+v err=%v called=%v", resp, err, called)
	}
}

func TestAdapter_Do_AbsolutePathBypassesBaseURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	a := newTestAdapter(t, Config{BaseURL: "http://unused.invalid"})
	resp, err := a.Do(context.Background(), Request{Method: http.MethodGet, Path: srv.URL + "/x"})
	if err != nil || resp.StatusCode != http.StatusNoContent {
		t.Fatalf("resp=%+v err=%v", resp, err)
	}
}

func TestAdapter_Do_InvalidMethod(t *testing.T) {
	a := newTestAdapter(t, Config{BaseURL: "http://backend.invalid"})
	_, err := a.Do(context.Background(), Request{Method: "BAD METHOD", Path: "/"})
	e, ok := AsError(err)
	if !ok || e.Code != ErrCodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDecodeJSON_Errors(t *testing.T) {
	var v map[string]any
	if err := (&Response{}).DecodeJSON(&v); err == nil {
		t.Error("expected error for empty body")
	}
	if err := (&Response{Body: []byte("{")}).DecodeJSON(&v); err == nil {
		t.Error("expected error for malformed body")
	}
}
