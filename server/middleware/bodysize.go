package middleware

import (
	"net/http"

	"github.com/kbukum/asrgateway/util"
)

const defaultMaxBodySize = 10 * 1024 * 1024 // 10MB

// BodySizeLimit returns middleware that restricts the request body to the given
// size string (e.g. "10MB", "512KB", "1GB"). An unparsable size falls back to 10MB.
func BodySizeLimit(maxSize string) Middleware {
	size, err := util.ParseSize(maxSize, defaultMaxBodySize)
	if err != nil || size <= 0 {
		size = defaultMaxBodySize
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil && r.Body != http.NoBody {
				r.Body = http.MaxBytesReader(w, r.Body, size)
			}
			next.ServeHTTP(w, r)
		})
	}
}
