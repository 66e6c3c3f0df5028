package controller

import (
	"context"
	"errors"
	"net/http"

	"todo-app/internal/service"

	"github.com/gin-gonic/gin"
)

// Authenticator is the session issuer.
type Authenticator interface {
	Register(ctx context.Context, email, password string) error
	Login(ctx context.Context, email, password string) (string, error)
}

// AuthController serves the public auth routes.
type AuthController struct {
	auth Authenticator
}

func NewAuthController(auth Authenticator) *AuthController {
	return &AuthController{auth: auth}
}

type credentials struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register creates an account: 200 on success, 409 on duplicate email.
func (a *AuthController) Register(c *gin.Context) {
	var body credentials
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	}
	if err := a.auth.Register(c.Request.Context(), body.Email, body.Password); err != nil {
		writeError(c, err, "Registration failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User registered"})
}

// Login returns {token}. Every credential failure is the same 401.
func (a *AuthController) Login(c *gin.Context) {
	var body credentials
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}
	token, err := a.auth.Login(c.Request.Context(), body.Email, body.Password)
	if errors.Is(err, service.ErrUnauthorized) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}
	if err != nil {
		writeError(c, err, "Login failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}
