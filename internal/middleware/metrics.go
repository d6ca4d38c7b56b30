package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sekolahku/penilaian-api/internal/service"
)

// Metrics records request counts and latency per route. A nil service
// disables collection.
func Metrics(metricsSvc *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metricsSvc == nil {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		metricsSvc.ObserveHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
