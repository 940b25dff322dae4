package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/kbukum/asrgateway/logger"
)

const slowRequest = 5 * time.Second

// RequestLogger returns middleware that logs every request with method,
// path, status code, and duration. Probe and scrape paths are skipped.
func RequestLogger(log *logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isHealthEndpoint(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			sw := newStatusWriter(w)
			next.ServeHTTP(sw, r)
			duration := time.Since(start)

			fields := map[string]interface{}{
				"method":             r.Method,
				"path":               r.URL.Path,
				"status":             sw.status,
				logger.FieldDuration: duration.Milliseconds(),
				"bytes":              sw.written,
				"client":             clientIP(r),
			}
			if duration > slowRequest {
				fields["slow"] = true
			}

			logByStatus(log.WithContext(r.Context()), fields, sw.status)
		})
	}
}

func isHealthEndpoint(path string) bool {
	switch path {
	case "/health", "/alive", "/ready", "/metrics", "/mock/health":
		return true
	}
	return false
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.SplitN(fwd, ",", 2)[0])
	}
	host := r.RemoteAddr
	if idx := strings.LastIndex(host, ":"); idx > 0 {
		host = host[:idx]
	}
	return host
}

// logByStatus logs request fields at the appropriate level based on HTTP status code.
func logByStatus(log *logger.Logger, fields map[string]interface{}, status int) {
	switch {
	case status >= 500:
		log.Error("Request completed", fields)
	case status >= 400:
		log.Warn("Request completed", fields)
	default:
		log.Info("Request completed", fields)
	}
}
