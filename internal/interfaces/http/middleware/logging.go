package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/x-ordo/evidentia/internal/infrastructure/monitoring/logging"
)

// RequestLogging emits one structured access log line per request.
func RequestLogging(log logging.Logger) gin.HandlerFunc {
	accessLog := log.Named("http")
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		c.Next()

		fields := []logging.Field{
			logging.String("method", c.Request.Method),
			logging.String("path", path),
			logging.Int("status", c.Writer.Status()),
			logging.Duration("duration", time.Since(start)),
			logging.String("client_ip", c.ClientIP()),
		}
		entry := accessLog.WithContext(c.Request.Context())
		switch {
		case c.Writer.Status() >= 500:
			entry.Error("request failed", fields...)
		case c.Writer.Status() >= 400:
			entry.Warn("request rejected", fields...)
		default:
			entry.Info("request served", fields...)
		}
	}
}
