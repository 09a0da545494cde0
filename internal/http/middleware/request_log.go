package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/learnnow-backend/internal/platform/ctxutil"
	"github.com/yungbote/learnnow-backend/internal/platform/logger"
)

// RequestLogger writes one line per request. Health probes and metric
// scrapes are logged at debug level.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		if log == nil {
			return
		}

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		status := c.Writer.Status()
		fields := append([]interface{}{
			"method", c.Request.Method,
			"route", route,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
			"bytes", c.Writer.Size(),
		}, ctxutil.LogFields(c.Request.Context())...)
		if errs := c.Errors.ByType(gin.ErrorTypePrivate); len(errs) > 0 {
			fields = append(fields, "errors", errs.String())
		}

		switch {
		case status >= 500:
			log.Error("Request served", fields...)
		case status >= 400:
			log.Warn("Request served", fields...)
		case route == "/healthcheck" || route == "/metrics":
			log.Debug("Request served", fields...)
		default:
			log.Info("Request served", fields...)
		}
	}
}
