package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/oggyb/skilllink/internal/utils/ctxkeys"
)

// InjectTrace tags every request with a trace id, echoed in X-Trace-Id.
// A well-formed incoming X-Trace-Id is kept so callers can correlate.
func InjectTrace() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader("X-Trace-Id")
		if _, err := uuid.Parse(traceID); err != nil {
			traceID = uuid.NewString()
		}
		c.Set(ctxkeys.TraceID, traceID)
		c.Header("X-Trace-Id", traceID)
		c.Next()
	}
}
