package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"todo-app/internal/auth"
	"todo-app/internal/models"
	"todo-app/internal/repository"
	"todo-app/pkg/logger"
)

// UserStore persists user credentials.
type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// TokenIssuer issues and verifies bearer tokens.
type TokenIssuer interface {
	Issue(userID string) (string, error)
	Verify(token string) (string, error)
}

// AuthService registers users, logs them in and verifies their tokens.
type AuthService struct {
	users  UserStore
	tokens TokenIssuer
	now    func() time.Time
}

// NewAuthService returns an AuthService.
func NewAuthService(users UserStore, tokens TokenIssuer) *AuthService {
	return &AuthService{users: users, tokens: tokens, now: time.Now}
}

// Register creates an account. It does not log the user in.
func (s *AuthService) Register(ctx context.Context, email, password string) error {
	email = models.NormalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return invalid("email", "a valid email is required")
	}
	if password == "" {
		return invalid("password", "password is required")
	}
	if len(password) > auth.MaxPasswordBytes {
		return invalid("password", "password must be at most 72 bytes")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	user := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			logger.Debug(ctx, "Auth service: duplicate registration", "email", email)
			return ErrConflict
		}
		return fmt.Errorf("failed to register user: %w", err)
	}
	logger.Info(ctx, "Auth service: user registered", "user_id", user.ID)
	return nil
}

// Login returns a bearer token. Unknown email and wrong password are indistinguishable.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	email = models.NormalizeEmail(email)
	if email == "" || password == "" {
		return "", ErrUnauthorized
	}
	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		auth.BurnComparison(password)
		logger.Debug(ctx, "Auth service: login for unknown email")
		return "", ErrUnauthorized
	}
	if err != nil {
		return "", fmt.Errorf("failed to load user: %w", err)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			logger.Debug(ctx, "Auth service: password mismatch", "user_id", user.ID)
			return "", ErrUnauthorized
		}
		return "", fmt.Errorf("failed to compare password: %w", err)
	}
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", err
	}
	logger.Info(ctx, "Auth service: user logged in", "user_id", user.ID)
	return token, nil
}

// Verify resolves a bearer token to a user id.
func (s *AuthService) Verify(ctx context.Context, token string) (string, error) {
	if strings.TrimSpace(token) == "" {
		return "", ErrUnauthorized
	}
	userID, err := s.tokens.Verify(token)
	if err != nil {
		logger.Debug(ctx, "Auth service: token rejected", "error", err)
		return "", ErrUnauthorized
	}
	return userID, nil
}
