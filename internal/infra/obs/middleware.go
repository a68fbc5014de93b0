package obs

import (
	"context"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type requestIDKey struct{}

// RequestTracing tags every request with a correlation id and emits one
// access-log line when it completes. The id comes from the caller's
// X-Request-ID header when present and is echoed back either way. The
// actor header, when the caller sent one, is logged alongside it so a
// guest's or host's actions can be followed across requests.
func RequestTracing(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), requestIDKey{}, id))
		c.Writer.Header().Set("X-Request-ID", id)

		start := time.Now()
		c.Next()
		if logger == nil {
			return
		}

		attrs := []any{
			"method", c.Request.Method,
			"route", c.FullPath(),
			"status", c.Writer.Status(),
			"elapsed", time.Since(start),
			"request_id", id,
		}
		if actor := c.GetHeader("X-Actor-ID"); actor != "" {
			attrs = append(attrs, "actor", actor)
		}
		logger.Info("request", attrs...)
	}
}

// RequestID returns the correlation id RequestTracing stored on the
// context, or "" outside a traced request.
func RequestID(ctx context.Context) string {
	if s, ok := ctx.Value(requestIDKey{}).(string); ok {
		return s
	}
	return ""
}
