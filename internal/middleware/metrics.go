package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/skydimo/membership/pkg/metrics"
)

// Metrics observes per-route request latency. The route template is used as
// the path label so /api/admin/users/42 and /api/admin/users/7 share a
// series; unmatched requests collapse into one label instead of leaking raw
// URLs into the metric.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		switch route {
		case "/metrics":
			return
		case "":
			route = "unmatched"
		}

		metrics.APILatency.WithLabelValues(
			c.Request.Method,
			route,
			strconv.Itoa(c.Writer.Status()),
		).Observe(time.Since(start).Seconds())
	}
}
