package endpoint

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/asrgateway/version"
)

// Version returns a handler that reports build version information.
func Version() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, version.Get())
	}
}
