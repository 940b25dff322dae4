// Package httpclient is the outbound HTTP adapter used to reach backend
// services. It resolves paths against a base URL, applies default headers
// and authentication, encodes JSON and multipart bodies, bounds connection
// setup with a dial timeout and classifies every failure into an *Error
// (timeout, connection, canceled, or a status-derived code).
//
//	a, err := httpclient.New(httpclient.Config{
//	    BaseURL:        "http://asr-runtime:8000",
//	    ConnectTimeout: 3 * time.Second,
//	    Auth:           httpclient.APIKeyAuth(key),
//	})
//	resp, err := a.Do(ctx, httpclient.Request{
//	    Method: http.MethodPost,
//	    Path:   "/transcribe",
//	    Body:   &httpclient.MultipartBody{...},
//	})
package httpclient
