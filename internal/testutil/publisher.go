package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"

	"todo-app/internal/models"
)

// Publisher is a testify mock for service.EventPublisher.
type Publisher struct {
	mock.Mock
}

func (p *Publisher) Publish(ctx context.Context, evt models.TodoEvent) error {
	args := p.Called(ctx, evt)
	return args.Error(0)
}
