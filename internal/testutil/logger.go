package testutil

import (
	"context"
	"io"

	"todo-app/pkg/logger"
)

// NoopContext returns a context whose logger discards everything.
func NoopContext() context.Context {
	return logger.WithContext(context.Background(), logger.New(io.Discard))
}
