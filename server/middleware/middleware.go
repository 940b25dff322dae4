package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Middleware wraps an http.Handler with additional behavior. It is the single
// middleware type for the server and applies to every route on the mux.
type Middleware func(http.Handler) http.Handler

// Chain composes multiple middleware. The first in the list is the outermost
// (runs first on a request, last on a response).
func Chain(middlewares ...Middleware) Middleware {
	return func(final http.Handler) http.Handler {
		for i := len(middlewares) - 1; i >= 0; i-- {
			final = middlewares[i](final)
		}
		return final
	}
}

// GinWrap adapts a standard Middleware for use in a Gin middleware chain.
//
// Note: middleware that wraps http.ResponseWriter (e.g. RequestLogger) does
// not see gin.Context.Writer. Prefer applying such middleware at the server
// level.
func GinWrap(mw Middleware) gin.HandlerFunc {
	return func(c *gin.Context) {
		called := false
		next := http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			called = true
			// Propagate request modifications (headers, context) back to Gin.
			c.Request = r
			c.Next()
		})
		mw(next).ServeHTTP(c.Writer, c.Request)
		if !called {
			c.Abort()
		}
	}
}
