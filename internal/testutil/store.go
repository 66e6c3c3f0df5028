package testutil

import (
	"context"
	"sort"
	"sync"

	"todo-app/internal/models"
	"todo-app/internal/repository"
)

// UserStore is an in-memory credential store.
type UserStore struct {
	mu    sync.Mutex
	users map[string]models.User
}

func NewUserStore() *UserStore {
	return &UserStore{users: make(map[string]models.User)}
}

func (s *UserStore) Create(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[u.Email]; ok {
		return repository.ErrDuplicate
	}
	s.users[u.Email] = *u
	return nil
}

func (s *UserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

// TodoStore is an in-memory todo store with the same ownership rules as Postgres.
type TodoStore struct {
	mu    sync.Mutex
	todos map[string]models.Todo
	Calls map[string]int
}

func NewTodoStore() *TodoStore {
	return &TodoStore{todos: make(map[string]models.Todo), Calls: make(map[string]int)}
}

func (s *TodoStore) Create(_ context.Context, t *models.Todo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls["Create"]++
	s.todos[t.ID] = *t
	return nil
}

func (s *TodoStore) List(_ context.Context, userID string, status *models.Status) ([]models.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls["List"]++
	out := make([]models.Todo, 0)
	for _, t := range s.todos {
		if t.UserID != userID {
			continue
		}
		if status != nil && t.Status != *status {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *TodoStore) Get(_ context.Context, userID, id string) (*models.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.todos[id]
	if !ok || t.UserID != userID {
		return nil, repository.ErrNotFound
	}
	return &t, nil
}

func (s *TodoStore) Update(_ context.Context, userID, id string, patch models.TodoPatch) (*models.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls["Update"]++
	t, ok := s.todos[id]
	if !ok || t.UserID != userID {
		return nil, repository.ErrNotFound
	}
	if patch.Title != nil {
		t.Title = *patch.Title
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	if patch.Status != nil {
		t.Status = *patch.Status
	}
	s.todos[id] = t
	return &t, nil
}

func (s *TodoStore) Delete(_ context.Context, userID, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls["Delete"]++
	t, ok := s.todos[id]
	if !ok || t.UserID != userID {
		return false, nil
	}
	delete(s.todos, id)
	return true, nil
}

func (s *TodoStore) CountByStatus(_ context.Context, userID string) (models.TodoStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var stats models.TodoStats
	for _, t := range s.todos {
		if t.UserID != userID {
			continue
		}
		switch t.Status {
		case models.StatusPending:
			stats.Pending++
		case models.StatusCompleted:
			stats.Completed++
		}
	}
	stats.Total = stats.Pending + stats.Completed
	return stats, nil
}

// ListCalls returns how many times List reached the store.
func (s *TodoStore) ListCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Calls["List"]
}
