package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

// Adapter is an HTTP client bound to one backend.
type Adapter struct {
	httpClient *http.Client
	config     Config
}

// Option customizes an Adapter.
type Option func(*Adapter)

// WithTransport replaces the transport built from the config.
func WithTransport(rt http.RoundTripper) Option {
	return func(a *Adapter) { a.httpClient.Transport = rt }
}

// New creates an adapter. The transport dials with ConnectTimeout and
// keeps idle connections for reuse.
func New(cfg Config, opts ...Option) (*Adapter, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	dialer := &net.Dialer{Timeout: cfg.ConnectTimeout, KeepAlive: 30 * time.Second}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = dialer.DialContext
	transport.TLSHandshakeTimeout = cfg.ConnectTimeout

	a := &Adapter{
		httpClient: &http.Client{Transport: transport, Timeout: cfg.Timeout},
		config:     cfg,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Name returns the configured adapter name.
func (a *Adapter) Name() string {
	return a.config.Name
}

// Config returns the adapter's configuration after defaults.
func (a *Adapter) Config() Config {
	return a.config
}

// Do sends req and reads the whole response. Non-2xx responses return both
// the Response and a classified *Error.
func (a *Adapter) Do(ctx context.Context, req Request) (*Response, error) {
	httpReq, err := a.buildRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return nil, ClassifyTransportError(ctx, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, a.config.MaxResponseBytes))
	if err != nil {
		return nil, ClassifyTransportError(ctx, fmt.Errorf("read response body: %w", err))
	}

	result := &Response{StatusCode: resp.StatusCode, Headers: resp.Header, Body: body}
	if classErr := ClassifyStatusCode(resp.StatusCode, body); classErr != nil {
		return result, classErr
	}
	return result, nil
}

// Close releases idle connections.
func (a *Adapter) Close() {
	a.httpClient.CloseIdleConnections()
}

func (a *Adapter) resolveURL(path string) string {
	if a.config.BaseURL == "" || strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return strings.TrimRight(a.config.BaseURL, "/") + "/" + strings.TrimLeft(path, "/")
}

func (a *Adapter) buildRequest(ctx context.Context, req Request) (*http.Request, error) {
	body, contentType, err := encodeBody(req.Body)
	if err != nil {
		return nil, NewValidationError(fmt.Sprintf("encode body: %v", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, a.resolveURL(req.Path), body)
	if err != nil {
		return nil, NewValidationError(fmt.Sprintf("create request: %v", err))
	}

	if len(req.Query) > 0 {
		q := httpReq.URL.Query()
		for k, v := range req.Query {
			q.Set(k, v)
		}
		httpReq.URL.RawQuery = q.Encode()
	}
	for k, v := range a.config.Headers {
		httpReq.Header.Set(k, v)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}
	if contentType != "" && httpReq.Header.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	auth := a.config.Auth
	if req.Auth != nil {
		auth = req.Auth
	}
	auth.apply(httpReq)

	return httpReq, nil
}

func encodeBody(body any) (io.Reader, string, error) {
	switch v := body.(type) {
	case nil:
		return nil, "", nil
	case *MultipartBody:
		return v.encode()
	case io.Reader:
		return v, "", nil
	case []byte:
		return bytes.NewReader(v), "", nil
	case string:
		return strings.NewReader(v), "text/plain; charset=utf-8", nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, "", err
		}
		return bytes.NewReader(data), "application/json", nil
	}
}
