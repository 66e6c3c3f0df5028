package worker

import (
	"context"
	"fmt"

	"todo-app/internal/models"
	"todo-app/internal/queue"
	"todo-app/pkg/logger"

	"github.com/segmentio/kafka-go"
)

// TodoLister reads a user's todos from the store.
type TodoLister interface {
	List(ctx context.Context, userID string, status *models.Status) ([]models.Todo, error)
}

// ListCache is the subset of the todo cache the warmer writes to.
type ListCache interface {
	Generation(ctx context.Context, userID string) (int64, error)
	SetTodos(ctx context.Context, userID string, gen int64, status *models.Status, todos []models.Todo)
}

// Warmer rebuilds a user's unfiltered list in the cache after each change event.
type Warmer struct {
	store TodoLister
	cache ListCache
}

// NewWarmer returns a Warmer.
func NewWarmer(store TodoLister, cache ListCache) *Warmer {
	return &Warmer{store: store, cache: cache}
}

// Handle warms the cache for the event's owner. The generation is read before
// the store so a concurrent write leaves this fill unreachable.
func (w *Warmer) Handle(ctx context.Context, evt models.TodoEvent) error {
	gen, err := w.cache.Generation(ctx, evt.UserID)
	if err != nil {
		return fmt.Errorf("read generation: %w", err)
	}
	todos, err := w.store.List(ctx, evt.UserID, nil)
	if err != nil {
		return fmt.Errorf("list todos: %w", err)
	}
	w.cache.SetTodos(ctx, evt.UserID, gen, nil, todos)
	logger.Debug(ctx, "Warmed todo cache", "user_id", evt.UserID, "event", evt.Type, "count", len(todos))
	return nil
}

// Config selects the topic and consumer group.
type Config struct {
	Brokers []string
	Topic   string
	GroupID string
}

// Run consumes todo events until ctx is done. One consumer per process; scale by
// running more replicas (the consumer group shares partitions).
func Run(ctx context.Context, cfg Config, w *Warmer) {
	if len(cfg.Brokers) == 0 {
		logger.Info(ctx, "Worker disabled (no Kafka brokers)")
		return
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		Topic:    cfg.Topic,
		GroupID:  cfg.GroupID,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	defer reader.Close()

	logger.Info(ctx, "Kafka consumer started", "topic", cfg.Topic, "group", cfg.GroupID)
	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				logger.Info(ctx, "Kafka consumer stopped")
				return
			}
			logger.Error(ctx, "Worker fetch failed", "error", err)
			continue
		}
		if err := w.handleMessage(ctx, msg); err != nil {
			logger.Error(ctx, "Worker handle failed", "error", err, "payload", string(msg.Value))
		}
		// Failed messages are committed too; the next event re-warms the user.
		if err := reader.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
			logger.Error(ctx, "Worker commit failed", "error", err)
		}
	}
}

func (w *Warmer) handleMessage(ctx context.Context, msg kafka.Message) error {
	evt, err := queue.Decode(msg)
	if err != nil {
		return err
	}
	return w.Handle(ctx, evt)
}
