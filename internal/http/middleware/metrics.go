package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/learnnow-backend/internal/observability"
)

// Metrics records request count and latency per route template. Scrapes and
// CORS preflights are not counted.
func Metrics(m *observability.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil || c.Request.Method == "OPTIONS" || c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}
		start := time.Now()
		m.ApiInflightInc()
		defer m.ApiInflightDec()

		c.Next()

		m.ObserveAPI(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}
