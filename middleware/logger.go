package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Phirakan/go-inventory/errs"
)

// RequestLogger logs one line per request. Internal errors attached with
// c.Error are logged with their cause, which never reaches the client.
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		attrs := []any{
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"remote_ip", c.ClientIP(),
		}
		if session, ok := SessionFrom(c); ok {
			attrs = append(attrs, "user_id", session.SubjectID)
		}

		level := slog.LevelInfo
		if err := c.Errors.Last(); err != nil {
			attrs = append(attrs, "error", err.Err.Error())
			if errs.KindOf(err.Err) == errs.KindInternal {
				level = slog.LevelError
			}
		}
		logger.Log(c.Request.Context(), level, "request", attrs...)
	}
}
