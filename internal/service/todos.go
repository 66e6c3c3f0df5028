package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"todo-app/internal/models"
	"todo-app/internal/repository"
	"todo-app/pkg/logger"
)

// TodoStore persists todos. Every method is scoped by userID.
type TodoStore interface {
	Create(ctx context.Context, t *models.Todo) error
	List(ctx context.Context, userID string, status *models.Status) ([]models.Todo, error)
	Get(ctx context.Context, userID, id string) (*models.Todo, error)
	Update(ctx context.Context, userID, id string, patch models.TodoPatch) (*models.Todo, error)
	Delete(ctx context.Context, userID, id string) (bool, error)
	CountByStatus(ctx context.Context, userID string) (models.TodoStats, error)
}

// TodoCache caches list results per user and generation.
type TodoCache interface {
	Generation(ctx context.Context, userID string) (int64, error)
	GetTodos(ctx context.Context, userID string, gen int64, status *models.Status) ([]models.Todo, bool)
	SetTodos(ctx context.Context, userID string, gen int64, status *models.Status, todos []models.Todo)
	Invalidate(ctx context.Context, userID string) error
}

// EventPublisher receives todo change events.
type EventPublisher interface {
	Publish(ctx context.Context, evt models.TodoEvent) error
}

// CreateTodoInput is the body of a create request.
type CreateTodoInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// TodoService implements the todo operations for an authenticated user.
type TodoService struct {
	store  TodoStore
	cache  TodoCache
	events EventPublisher
	group  singleflight.Group
	now    func() time.Time

	// stale holds users whose last invalidation failed; their lists skip the
	// cache until an invalidation succeeds.
	stale sync.Map
}

// NewTodoService returns a TodoService. cache and events may be nil.
func NewTodoService(store TodoStore, cache TodoCache, events EventPublisher) *TodoService {
	return &TodoService{store: store, cache: cache, events: events, now: time.Now}
}

// Create adds a Pending todo owned by userID.
func (s *TodoService) Create(ctx context.Context, userID string, in CreateTodoInput) (*models.Todo, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, invalid("title", "title is required")
	}
	if err := checkText("title", title); err != nil {
		return nil, err
	}
	if err := checkText("description", in.Description); err != nil {
		return nil, err
	}
	now := s.now().UTC()
	todo := &models.Todo{
		ID:          uuid.NewString(),
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Status:      models.StatusPending,
		UserID:      userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.Create(ctx, todo); err != nil {
		if errors.Is(err, repository.ErrOwnerNotFound) {
			logger.Warn(ctx, "Todo create for unknown user", "user_id", userID)
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	s.changed(ctx, models.EventTodoCreated, todo.ID, userID, todo.Status)
	return todo, nil
}

// List returns userID's todos, newest first. rawStatus "" means all.
func (s *TodoService) List(ctx context.Context, userID, rawStatus string) ([]models.Todo, error) {
	status, ok := models.ParseStatusFilter(rawStatus)
	if !ok {
		return nil, invalid("status", "status must be Pending or Completed")
	}
	if s.cache == nil || !s.cacheUsable(ctx, userID) {
		return s.store.List(ctx, userID, status)
	}

	gen, err := s.cache.Generation(ctx, userID)
	if err != nil {
		logger.Debug(ctx, "Todo cache generation unavailable", "error", err)
		return s.store.List(ctx, userID, status)
	}
	if todos, ok := s.cache.GetTodos(ctx, userID, gen, status); ok {
		return todos, nil
	}

	key := fmt.Sprintf("%s:%d:%s", userID, gen, filterName(status))
	v, err, _ := s.group.Do(key, func() (any, error) {
		// Detached so one caller's cancellation does not fail the others.
		fillCtx := context.WithoutCancel(ctx)
		todos, err := s.store.List(fillCtx, userID, status)
		if err != nil {
			return nil, err
		}
		s.cache.SetTodos(fillCtx, userID, gen, status, todos)
		return todos, nil
	})
	if err != nil {
		return nil, err
	}
	return slices.Clone(v.([]models.Todo)), nil
}

// Update applies patch to an owned todo. It returns (nil, nil) when userID
// owns no todo with that id.
func (s *TodoService) Update(ctx context.Context, userID, id string, patch models.TodoPatch) (*models.Todo, error) {
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, invalid("title", "title cannot be empty")
		}
		if err := checkText("title", title); err != nil {
			return nil, err
		}
		patch.Title = &title
	}
	if patch.Description != nil {
		desc := strings.TrimSpace(*patch.Description)
		if err := checkText("description", desc); err != nil {
			return nil, err
		}
		patch.Description = &desc
	}
	if patch.Status != nil && !patch.Status.IsValid() {
		return nil, invalid("status", "status must be Pending or Completed")
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}

	var (
		todo *models.Todo
		err  error
	)
	if patch.Empty() {
		todo, err = s.store.Get(ctx, userID, id)
	} else {
		todo, err = s.store.Update(ctx, userID, id, patch)
	}
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !patch.Empty() {
		s.changed(ctx, models.EventTodoUpdated, todo.ID, userID, todo.Status)
	}
	return todo, nil
}

// Delete removes an owned todo. Missing and foreign ids are a no-op.
func (s *TodoService) Delete(ctx context.Context, userID, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return nil
	}
	removed, err := s.store.Delete(ctx, userID, id)
	if err != nil {
		return err
	}
	if removed {
		s.changed(ctx, models.EventTodoDeleted, id, userID, "")
	}
	return nil
}

// Stats returns per-status counts for userID.
func (s *TodoService) Stats(ctx context.Context, userID string) (models.TodoStats, error) {
	return s.store.CountByStatus(ctx, userID)
}

// changed invalidates cached lists and publishes the event. Both are best effort.
func (s *TodoService) changed(ctx context.Context, typ models.EventType, todoID, userID string, status models.Status) {
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, userID); err != nil {
			s.stale.Store(userID, struct{}{})
			logger.Warn(ctx, "Todo cache invalidation failed", "error", err, "user_id", userID)
		}
	}
	if s.events == nil {
		return
	}
	evt := models.TodoEvent{
		Type:       typ,
		TodoID:     todoID,
		UserID:     userID,
		Status:     status,
		OccurredAt: s.now().UTC(),
	}
	if err := s.events.Publish(ctx, evt); err != nil {
		logger.Warn(ctx, "Todo event publish failed", "error", err, "type", typ)
	}
}

// cacheUsable retries a failed invalidation for userID. Until one succeeds the
// cached lists may predate a write and must not be served.
func (s *TodoService) cacheUsable(ctx context.Context, userID string) bool {
	if _, ok := s.stale.Load(userID); !ok {
		return true
	}
	if err := s.cache.Invalidate(ctx, userID); err != nil {
		logger.Debug(ctx, "Todo cache still unavailable for user", "error", err, "user_id", userID)
		return false
	}
	s.stale.Delete(userID)
	return true
}

func checkText(field, value string) error {
	if strings.ContainsRune(value, 0) {
		return invalid(field, field+" must not contain NUL characters")
	}
	return nil
}

func filterName(status *models.Status) string {
	if status == nil {
		return "all"
	}
	return string(*status)
}
