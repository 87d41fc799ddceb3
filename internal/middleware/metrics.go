package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"pharmabill/internal/metrics"
)

// Metrics records request count, latency and in-flight requests per
// matched route. Unmatched paths are grouped under "unknown". Mount it
// outside Recovery so recovered panics are counted as 500s.
func Metrics(m *metrics.HTTP) gin.HandlerFunc {
	return func(c *gin.Context) {
		m.InFlight.Inc()
		defer m.InFlight.Dec()
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		m.ReqTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.ReqDur.WithLabelValues(c.Request.Method, route).Observe(metrics.DurationMillis(time.Since(start)))
	}
}
