package middleware

import (
	"time"

	"todo-app/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

// RequestLogger tags the request context with a request id and logs completion.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		c.Header(requestIDHeader, id)
		ctx := logger.WithRequestID(c.Request.Context(), id)
		c.Request = c.Request.WithContext(ctx)

		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		args := []any{
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
		}
		// Handlers may have replaced the context (auth adds user_id).
		ctx = c.Request.Context()
		switch {
		case status >= 500:
			logger.Error(ctx, "Request completed", args...)
		case status >= 400:
			logger.Warn(ctx, "Request completed", args...)
		default:
			logger.Info(ctx, "Request completed", args...)
		}
	}
}
