package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"todo-app/internal/models"
	"todo-app/pkg/logger"
)

const todoColumns = `id, title, description, status, user_id, created_at, updated_at`

// TodoRepository is the todo store. Every statement is scoped by user_id.
type TodoRepository struct {
	db *sql.DB
}

// NewTodoRepository returns a TodoRepository backed by db.
func NewTodoRepository(db *sql.DB) *TodoRepository {
	return &TodoRepository{db: db}
}

// Create inserts a new todo.
func (r *TodoRepository) Create(ctx context.Context, t *models.Todo) error {
	const query = `INSERT INTO todos (` + todoColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.ExecContext(ctx, query,
		t.ID, t.Title, t.Description, string(t.Status), t.UserID, t.CreatedAt, t.UpdatedAt)
	if isForeignKeyViolation(err) {
		return ErrOwnerNotFound
	}
	if err != nil {
		logger.Error(ctx, "Repository Create failed", "error", err)
		return fmt.Errorf("failed to create todo: %w", err)
	}
	return nil
}

// List returns the user's todos, newest first, optionally restricted to one status.
func (r *TodoRepository) List(ctx context.Context, userID string, status *models.Status) ([]models.Todo, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if status != nil {
		const query = `SELECT ` + todoColumns + ` FROM todos WHERE user_id = $1 AND status = $2 ORDER BY created_at DESC, id DESC`
		rows, err = r.db.QueryContext(ctx, query, userID, string(*status))
	} else {
		const query = `SELECT ` + todoColumns + ` FROM todos WHERE user_id = $1 ORDER BY created_at DESC, id DESC`
		rows, err = r.db.QueryContext(ctx, query, userID)
	}
	if err != nil {
		logger.Error(ctx, "Repository List failed", "error", err)
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}
	defer rows.Close()

	todos := make([]models.Todo, 0)
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			logger.Error(ctx, "Repository scan todo failed", "error", err)
			return nil, fmt.Errorf("failed to scan todo: %w", err)
		}
		todos = append(todos, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate todos: %w", err)
	}
	return todos, nil
}

// Get returns one owned todo, or ErrNotFound.
func (r *TodoRepository) Get(ctx context.Context, userID, id string) (*models.Todo, error) {
	const query = `SELECT ` + todoColumns + ` FROM todos WHERE id = $1 AND user_id = $2`
	t, err := scanTodo(r.db.QueryRowContext(ctx, query, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		logger.Error(ctx, "Repository Get failed", "error", err, "id", id)
		return nil, fmt.Errorf("failed to get todo: %w", err)
	}
	return t, nil
}

// Update applies the non-nil patch fields to an owned todo and returns the
// stored result. Returns ErrNotFound when the user owns no such todo.
func (r *TodoRepository) Update(ctx context.Context, userID, id string, patch models.TodoPatch) (*models.Todo, error) {
	const query = `UPDATE todos SET
		title = COALESCE($1, title),
		description = COALESCE($2, description),
		status = COALESCE($3, status),
		updated_at = $4
		WHERE id = $5 AND user_id = $6
		RETURNING ` + todoColumns
	var status sql.NullString
	if patch.Status != nil {
		status = sql.NullString{String: string(*patch.Status), Valid: true}
	}
	row := r.db.QueryRowContext(ctx, query,
		nullString(patch.Title), nullString(patch.Description), status, time.Now().UTC(), id, userID)
	t, err := scanTodo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		logger.Error(ctx, "Repository Update failed", "error", err, "id", id)
		return nil, fmt.Errorf("failed to update todo: %w", err)
	}
	return t, nil
}

// Delete removes an owned todo. It reports whether a row was removed.
func (r *TodoRepository) Delete(ctx context.Context, userID, id string) (bool, error) {
	const query = `DELETE FROM todos WHERE id = $1 AND user_id = $2`
	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		logger.Error(ctx, "Repository Delete failed", "error", err, "id", id)
		return false, fmt.Errorf("failed to delete todo: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n > 0, nil
}

// CountByStatus returns per-status counts of the user's todos.
func (r *TodoRepository) CountByStatus(ctx context.Context, userID string) (models.TodoStats, error) {
	const query = `SELECT status, COUNT(*) FROM todos WHERE user_id = $1 GROUP BY status`
	var stats models.TodoStats
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		logger.Error(ctx, "Repository CountByStatus failed", "error", err)
		return stats, fmt.Errorf("failed to count todos: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return stats, fmt.Errorf("failed to scan count: %w", err)
		}
		switch models.Status(status) {
		case models.StatusPending:
			stats.Pending = n
		case models.StatusCompleted:
			stats.Completed = n
		}
	}
	if err := rows.Err(); err != nil {
		return stats, fmt.Errorf("failed to iterate counts: %w", err)
	}
	stats.Total = stats.Pending + stats.Completed
	return stats, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTodo(s scanner) (*models.Todo, error) {
	var (
		t      models.Todo
		status string
	)
	if err := s.Scan(&t.ID, &t.Title, &t.Description, &status, &t.UserID, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	t.Status = models.Status(status)
	return &t, nil
}

func nullString(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}
