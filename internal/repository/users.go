package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"todo-app/internal/models"
	"todo-app/pkg/logger"
)

// UserRepository is the credential store.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository returns a UserRepository backed by db.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a user. Returns ErrDuplicate when the email is taken.
func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	const query = `INSERT INTO users (id, email, password_hash, created_at) VALUES ($1, $2, $3, $4)`
	_, err := r.db.ExecContext(ctx, query, u.ID, u.Email, u.PasswordHash, u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		logger.Error(ctx, "Repository CreateUser failed", "error", err)
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByEmail looks a user up by normalized email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	const query = `SELECT id, email, password_hash, created_at FROM users WHERE email = $1`
	return r.getOne(ctx, "GetUserByEmail", query, email)
}

// GetByID looks a user up by id.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	const query = `SELECT id, email, password_hash, created_at FROM users WHERE id = $1`
	return r.getOne(ctx, "GetUserByID", query, id)
}

func (r *UserRepository) getOne(ctx context.Context, op, query string, arg any) (*models.User, error) {
	var u models.User
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		logger.Error(ctx, "Repository "+op+" failed", "error", err)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}
