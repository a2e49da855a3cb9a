package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oggyb/skilllink/internal/logger"
	"github.com/oggyb/skilllink/internal/utils/ctxkeys"
)

// LogRequest writes one structured line per request once it completes.
func LogRequest(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		level := slog.LevelInfo
		switch {
		case status >= 500:
			level = slog.LevelError
		case status >= 400:
			level = slog.LevelWarn
		}

		log.Log(c.Request.Context(), level, "request completed",
			"trace_id", c.GetString(ctxkeys.TraceID),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			logger.Since(start),
		)
	}
}
