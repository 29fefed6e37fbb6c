package middleware

import (
	"strconv"
	"time"

	"github.com/franciscosanchezn/gin-foodgram-api/internal/metrics"
	"github.com/gin-gonic/gin"
)

// PrometheusMetrics records request count, latency and in-flight requests.
// The matched route template is used as label so path IDs don't explode cardinality.
func PrometheusMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		metrics.TrackActiveRequest(true)
		defer metrics.TrackActiveRequest(false)

		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.RecordAPIRequest(
			c.Request.Method,
			route,
			strconv.Itoa(c.Writer.Status()),
			time.Since(start),
		)
	}
}
