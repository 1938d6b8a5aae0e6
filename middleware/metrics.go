package middleware

import (
	"strconv"

	"studyplanner/metrics"

	"github.com/gin-gonic/gin"
)

// MetricsMiddleware counts requests by matched route and status.
func MetricsMiddleware(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveHTTP(route, strconv.Itoa(c.Writer.Status()))
	}
}
