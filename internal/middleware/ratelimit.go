package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"todo-app/internal/cache"
	"todo-app/pkg/logger"

	"github.com/gin-gonic/gin"
)

// RateLimiter counts requests per key within a window.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) cache.Decision
}

// RateLimit rejects requests from one client IP beyond limit per window with 429.
func RateLimit(rl RateLimiter, limit int, window time.Duration, m *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl == nil || limit <= 0 {
			c.Next()
			return
		}
		route := c.FullPath()
		key := "ip:" + c.ClientIP() + ":" + route
		d := rl.Allow(c.Request.Context(), key, limit, window)

		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		remaining := max(limit-d.Count, 0)
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		if !d.WindowEnd.IsZero() {
			c.Header("X-RateLimit-Reset", strconv.FormatInt(d.WindowEnd.Unix(), 10))
		}
		if !d.Allowed {
			m.recordRateLimitHit(route)
			logger.Warn(c.Request.Context(), "Rate limit exceeded", "route", route, "client_ip", c.ClientIP())
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
