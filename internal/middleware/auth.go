package middleware

import (
	"context"
	"net/http"
	"strings"

	"todo-app/pkg/logger"

	"github.com/gin-gonic/gin"
)

const userKey = "user"

// Verifier resolves a bearer token to a user id.
type Verifier interface {
	Verify(ctx context.Context, token string) (string, error)
}

// AuthMiddleware rejects the request with 401 unless it carries a valid bearer token.
func AuthMiddleware(v Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			logger.Debug(ctx, "Missing or invalid Authorization header")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		userID, err := v.Verify(ctx, token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Set(userKey, userID)
		c.Request = c.Request.WithContext(logger.WithContext(ctx, logger.FromContext(ctx).With("user_id", userID)))
		c.Next()
	}
}

// UserID returns the identity stored by AuthMiddleware.
func UserID(c *gin.Context) (string, bool) {
	uid := c.GetString(userKey)
	return uid, uid != ""
}

func bearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}
