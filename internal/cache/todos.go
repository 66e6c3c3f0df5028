package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"todo-app/internal/models"
	"todo-app/pkg/logger"
)

const filterAll = "all"

// TodoCache caches per-user todo lists in Redis.
//
// Keys embed a per-user generation counter. Writers bump the counter instead of
// deleting keys, so a fill that raced with a write lands on a generation no
// reader will ask for again.
type TodoCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewTodoCache returns a TodoCache. ttl <= 0 defaults to five minutes.
func NewTodoCache(client *redis.Client, ttl time.Duration) *TodoCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &TodoCache{client: client, ttl: ttl}
}

// GenerationKey is the counter bumped on every write for userID.
func GenerationKey(userID string) string {
	return fmt.Sprintf("todos:%s:gen", userID)
}

// ListKey is the key holding one filtered list for a generation.
func ListKey(userID string, gen int64, status *models.Status) string {
	filter := filterAll
	if status != nil {
		filter = string(*status)
	}
	return fmt.Sprintf("todos:%s:g%d:%s", userID, gen, filter)
}

// Generation returns the user's current generation (0 when never written).
func (c *TodoCache) Generation(ctx context.Context, userID string) (int64, error) {
	gen, err := c.client.Get(ctx, GenerationKey(userID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// GetTodos reads a cached list. Returns (nil, false) on miss or error.
func (c *TodoCache) GetTodos(ctx context.Context, userID string, gen int64, status *models.Status) ([]models.Todo, bool) {
	b, err := c.client.Get(ctx, ListKey(userID, gen, status)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		logger.Debug(ctx, "Redis get todos failed", "error", err)
		return nil, false
	}
	var todos []models.Todo
	if err := json.Unmarshal(b, &todos); err != nil {
		logger.Debug(ctx, "Redis unmarshal todos failed", "error", err)
		return nil, false
	}
	return todos, true
}

// SetTodos writes a list for the given generation with the configured TTL.
func (c *TodoCache) SetTodos(ctx context.Context, userID string, gen int64, status *models.Status, todos []models.Todo) {
	b, err := json.Marshal(todos)
	if err != nil {
		logger.Debug(ctx, "Marshal todos for cache failed", "error", err)
		return
	}
	if err := c.client.Set(ctx, ListKey(userID, gen, status), b, c.ttl).Err(); err != nil {
		logger.Debug(ctx, "Redis set todos failed", "error", err)
	}
}

// Invalidate bumps the user's generation so every cached list becomes unreachable.
func (c *TodoCache) Invalidate(ctx context.Context, userID string) error {
	if err := c.client.Incr(ctx, GenerationKey(userID)).Err(); err != nil {
		return fmt.Errorf("redis invalidate todos: %w", err)
	}
	return nil
}

// Ping checks the connection for readiness probes.
func (c *TodoCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
