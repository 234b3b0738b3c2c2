package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/here-event-os/internal/service"
)

// unmatchedRoute labels requests no route matched, so scanners cannot inflate label cardinality.
const unmatchedRoute = "unmatched"

// Metrics records latency and status of every routed request. Prometheus scrapes are skipped.
func Metrics(metricsSvc *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metricsSvc == nil || c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		metricsSvc.ObserveHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
