package httpclient

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Request describes an outbound HTTP request.
type Request struct {
	Method string
	// Path is appended to BaseURL unless it is an absolute URL.
	Path    string
	Headers map[string]string
	Query   map[string]string
	// Body accepts nil, io.Reader, []byte, string, *MultipartBody, or any
	// value that is JSON-encoded.
	Body any
	// Auth overrides the adapter-level auth for this request.
	Auth *AuthConfig
}

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// IsSuccess returns true if the status code is 2xx.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// DecodeJSON unmarshals the body into v.
func (r *Response) DecodeJSON(v any) error {
	if len(r.Body) == 0 {
		return fmt.Errorf("empty response body")
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("decode response body: %w", err)
	}
	return nil
}
