package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
)

// RequestLogger logs every request. Errors attached to the gin context by
// handlers are logged at error level with full detail; clients only see a
// generic message for them.
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		attrs := []any{
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("latency", time.Since(start)),
		}
		if id, ok := c.Get(CustomerIDContextKey); ok {
			attrs = append(attrs, slog.Any("customer_id", id))
		}

		if len(c.Errors) > 0 {
			attrs = append(attrs, slog.String("error", c.Errors.String()))
			logger.Error("http request failed", attrs...)
			return
		}
		logger.Info("http request", attrs...)
	}
}
