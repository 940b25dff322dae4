package endpoint

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/asrgateway/component"
)

// HealthChecker returns health status for registered components.
type HealthChecker func(ctx context.Context) []component.Health

// Health returns a handler that reports service health including component
// statuses. Only an unhealthy component turns the response into a 503.
func Health(serviceName string, checker HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		components := []component.Health{}
		if checker != nil {
			components = append(components, checker(c.Request.Context())...)
		}
		status := component.Overall(components)

		httpStatus := http.StatusOK
		if status == component.StatusUnhealthy {
			httpStatus = http.StatusServiceUnavailable
		}

		c.JSON(httpStatus, gin.H{
			"status":     status,
			"service":    serviceName,
			"timestamp":  time.Now().UTC().Format(time.RFC3339),
			"components": components,
		})
	}
}
