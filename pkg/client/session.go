package client

import (
	"context"
	"net/http"
	"net/url"
	"sync"
	"time"
)

// Status values accepted by the API.
const (
	StatusPending   = "Pending"
	StatusCompleted = "Completed"
)

// Todo mirrors the API todo payload.
type Todo struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	UserID      string    `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TodoUpdate carries the fields to change. Nil fields are left untouched.
type TodoUpdate struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"`
}

// Stats mirrors the per-status counts payload.
type Stats struct {
	Pending   int `json:"pending"`
	Completed int `json:"completed"`
	Total     int `json:"total"`
}

// Session is an authenticated view of the API. It starts at Login or Resume
// and ends at Logout; it is safe for concurrent use.
type Session struct {
	client *Client

	mu    sync.RWMutex
	token string
}

func newSession(c *Client, token string) *Session {
	return &Session{client: c, token: token}
}

// Token returns the bearer token, or "" after Logout.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Active reports whether the session still holds a token.
func (s *Session) Active() bool {
	return s.Token() != ""
}

// Logout discards the token. Later calls fail with ErrLoggedOut.
func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
}

func (s *Session) do(ctx context.Context, method, path string, body, v any) error {
	token := s.Token()
	if token == "" {
		return ErrLoggedOut
	}
	return s.client.do(ctx, method, path, body, token, v)
}

// ListTodos returns the caller's todos. status "" lists all.
func (s *Session) ListTodos(ctx context.Context, status string) ([]Todo, error) {
	path := "/api/todos"
	if status != "" {
		path += "?status=" + url.QueryEscape(status)
	}
	todos := []Todo{}
	if err := s.do(ctx, http.MethodGet, path, nil, &todos); err != nil {
		return nil, err
	}
	return todos, nil
}

// CreateTodo creates a todo and returns the stored record.
func (s *Session) CreateTodo(ctx context.Context, title, description string) (*Todo, error) {
	body := map[string]string{"title": title}
	if description != "" {
		body["description"] = description
	}
	var todo Todo
	if err := s.do(ctx, http.MethodPost, "/api/todos", body, &todo); err != nil {
		return nil, err
	}
	return &todo, nil
}

// UpdateTodo applies upd. It returns (nil, nil) when the server reports no
// such todo for this user.
func (s *Session) UpdateTodo(ctx context.Context, id string, upd TodoUpdate) (*Todo, error) {
	var todo *Todo
	if err := s.do(ctx, http.MethodPut, "/api/todos/"+url.PathEscape(id), upd, &todo); err != nil {
		return nil, err
	}
	return todo, nil
}

// DeleteTodo removes a todo. Deleting an absent id succeeds.
func (s *Session) DeleteTodo(ctx context.Context, id string) error {
	return s.do(ctx, http.MethodDelete, "/api/todos/"+url.PathEscape(id), nil, nil)
}

// Stats returns per-status counts.
func (s *Session) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	err := s.do(ctx, http.MethodGet, "/api/todos/stats", nil, &st)
	return st, err
}
