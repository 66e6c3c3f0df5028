package testutil

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"todo-app/internal/models"
)

// TodoCache is an in-memory stand-in for the Redis list cache.
type TodoCache struct {
	mu    sync.Mutex
	gens  map[string]int64
	lists map[string][]models.Todo

	failInvalidate bool
}

func NewTodoCache() *TodoCache {
	return &TodoCache{gens: make(map[string]int64), lists: make(map[string][]models.Todo)}
}

func key(userID string, gen int64, status *models.Status) string {
	filter := "all"
	if status != nil {
		filter = string(*status)
	}
	return fmt.Sprintf("%s:%d:%s", userID, gen, filter)
}

func (c *TodoCache) Generation(_ context.Context, userID string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gens[userID], nil
}

func (c *TodoCache) GetTodos(_ context.Context, userID string, gen int64, status *models.Status) ([]models.Todo, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	todos, ok := c.lists[key(userID, gen, status)]
	return todos, ok
}

func (c *TodoCache) SetTodos(_ context.Context, userID string, gen int64, status *models.Status, todos []models.Todo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lists[key(userID, gen, status)] = todos
}

func (c *TodoCache) Invalidate(_ context.Context, userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failInvalidate {
		return errors.New("cache unavailable")
	}
	c.gens[userID]++
	return nil
}

// SetFailInvalidate toggles Invalidate failures.
func (c *TodoCache) SetFailInvalidate(fail bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failInvalidate = fail
}

// Cached reports whether a list is stored for the user's current generation.
func (c *TodoCache) Cached(userID string, status *models.Status) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.lists[key(userID, c.gens[userID], status)]
	return ok
}
