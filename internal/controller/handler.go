package controller

import (
	"context"
	"errors"
	"net/http"

	"todo-app/internal/middleware"
	"todo-app/internal/service"
	"todo-app/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Handler runs an operation on a parsed request for a resolved identity.
type Handler[Req, Resp any] func(ctx context.Context, userID string, req Req) (Resp, error)

// Binder parses the request into req. A returned error yields 400.
type Binder[Req any] func(c *gin.Context, req *Req) error

// Authed adapts h to gin. The identity comes from middleware.AuthMiddleware;
// failures are mapped by writeError with fallback as the 500 message.
func Authed[Req, Resp any](bind Binder[Req], h Handler[Req, Resp], fallback string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req Req
		if bind != nil {
			if err := bind(c, &req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
				return
			}
		}
		resp, err := h(c.Request.Context(), userID, req)
		if err != nil {
			writeError(c, err, fallback)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

func bindJSON[Req any](c *gin.Context, req *Req) error {
	return c.ShouldBindJSON(req)
}

func writeError(c *gin.Context, err error, fallback string) {
	ctx := c.Request.Context()
	var vErr *service.ValidationError
	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Message})
	case errors.Is(err, service.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
	case errors.Is(err, context.Canceled):
		// Client went away; nothing useful to send.
		c.Status(499)
	default:
		logger.Error(ctx, fallback, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
