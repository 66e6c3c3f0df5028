package worker

import (
	"context"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo-app/internal/models"
	"todo-app/internal/queue"
	"todo-app/internal/testutil"
)

func TestWarmer_Handle(t *testing.T) {
	ctx := testutil.NoopContext()
	store := testutil.NewTodoStore()
	cache := testutil.NewTodoCache()
	now := time.Now().UTC()
	require.NoError(t, store.Create(ctx, &models.Todo{ID: "t1", Title: "a", Status: models.StatusPending, UserID: "u1", CreatedAt: now}))
	require.NoError(t, store.Create(ctx, &models.Todo{ID: "t2", Title: "b", Status: models.StatusPending, UserID: "u2", CreatedAt: now}))
	require.NoError(t, cache.Invalidate(ctx, "u1"))

	w := NewWarmer(store, cache)
	require.NoError(t, w.Handle(ctx, models.TodoEvent{Type: models.EventTodoCreated, TodoID: "t1", UserID: "u1"}))

	assert.True(t, cache.Cached("u1", nil))
	assert.False(t, cache.Cached("u2", nil))
	gen, err := cache.Generation(ctx, "u1")
	require.NoError(t, err)
	todos, ok := cache.GetTodos(ctx, "u1", gen, nil)
	require.True(t, ok)
	require.Len(t, todos, 1)
	assert.Equal(t, "t1", todos[0].ID)
}

func TestWarmer_FillUnreachableAfterWrite(t *testing.T) {
	ctx := testutil.NoopContext()
	store := testutil.NewTodoStore()
	cache := testutil.NewTodoCache()
	w := NewWarmer(store, cache)

	require.NoError(t, w.Handle(ctx, models.TodoEvent{UserID: "u1"}))
	require.NoError(t, cache.Invalidate(ctx, "u1"))
	assert.False(t, cache.Cached("u1", nil))
}

func TestWarmer_HandleMessage(t *testing.T) {
	ctx := context.Background()
	cache := testutil.NewTodoCache()
	w := NewWarmer(testutil.NewTodoStore(), cache)

	msg, err := queue.Message(models.TodoEvent{Type: models.EventTodoDeleted, TodoID: "t1", UserID: "u1"})
	require.NoError(t, err)
	require.NoError(t, w.handleMessage(ctx, msg))
	assert.True(t, cache.Cached("u1", nil))

	assert.Error(t, w.handleMessage(ctx, kafka.Message{Value: []byte("not json")}))
}

func TestRun_DisabledWithoutBrokers(t *testing.T) {
	done := make(chan struct{})
	go func() {
		Run(testutil.NoopContext(), Config{}, NewWarmer(testutil.NewTodoStore(), testutil.NewTodoCache()))
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return without brokers")
	}
}
