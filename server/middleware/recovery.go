package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/kbukum/asrgateway/logger"
)

// Recovery returns middleware that recovers from panics, logs the stack and
// answers with a JSON 500.
func Recovery(log *logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				log.WithContext(r.Context()).Error("Panic recovered", map[string]interface{}{
					"error":  fmt.Sprintf("%v", rec),
					"stack":  string(debug.Stack()),
					"path":   r.URL.Path,
					"method": r.Method,
				})
				w.Header().Set("Content-Type", "application/json; charset=utf-8")
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(`{"error":"Internal server error"}`))
			}()
			next.ServeHTTP(w, r)
		})
	}
}
