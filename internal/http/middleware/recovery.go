package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/learnnow-backend/internal/platform/logger"
)

// RecordPanics logs a handler panic and marks the request span as failed,
// then re-panics so gin.Recovery answers 500. Install it after gin.Recovery.
func RecordPanics(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				err := fmt.Errorf("panic: %v", r)
				span := trace.SpanFromContext(c.Request.Context())
				span.RecordError(err, trace.WithStackTrace(true))
				span.SetStatus(codes.Error, err.Error())
				if log != nil {
					log.Error("Handler panicked", "method", c.Request.Method, "path", c.FullPath(), "error", err)
				}
				panic(r)
			}
		}()
		c.Next()
	}
}
