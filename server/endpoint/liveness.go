package endpoint

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Liveness returns a handler for liveness probes. It only confirms the
// process can serve HTTP; backend health is left to Readiness.
func Liveness(serviceName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "alive",
			"service":   serviceName,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}
