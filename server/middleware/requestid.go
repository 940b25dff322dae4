package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/kbukum/asrgateway/logger"
)

// RequestIDHeader is the correlation header read and echoed on every request.
const RequestIDHeader = "X-Request-Id"

// RequestID ensures every request carries an X-Request-Id. An inbound value
// is kept; otherwise a UUID is generated. The id is echoed on the response
// and stored as the logging correlation id.
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(RequestIDHeader)
			if id == "" {
				id = uuid.New().String()
				r.Header.Set(RequestIDHeader, id)
			}
			w.Header().Set(RequestIDHeader, id)
			ctx := logger.ContextWithCorrelationID(r.Context(), id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
