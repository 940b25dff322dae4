package endpoint

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics returns a handler serving the Prometheus text exposition for
// gatherer. A nil gatherer falls back to the default registry.
func Metrics(gatherer prometheus.Gatherer) gin.HandlerFunc {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	h := promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
	return gin.WrapH(h)
}
