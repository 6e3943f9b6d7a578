package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/propertyhub/backend/internal/infrastructure/telemetry"
)

// HTTPMetrics records request counts and latency by matched route.
// A nil collector set turns the middleware into a pass-through.
func HTTPMetrics(m *telemetry.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()
		m.ObserveHTTP(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}
