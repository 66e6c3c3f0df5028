package models

import (
	"strings"
	"time"
)

// Status is the lifecycle state of a todo.
type Status string

const (
	StatusPending   Status = "Pending"
	StatusCompleted Status = "Completed"
)

// IsValid reports whether s is one of the known statuses.
func (s Status) IsValid() bool {
	return s == StatusPending || s == StatusCompleted
}

// Toggle returns the opposite status.
func (s Status) Toggle() Status {
	if s == StatusCompleted {
		return StatusPending
	}
	return StatusCompleted
}

// ParseStatusFilter parses a list filter. An empty value means no filter.
func ParseStatusFilter(raw string) (*Status, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, true
	}
	s := Status(raw)
	if !s.IsValid() {
		return nil, false
	}
	return &s, true
}

// Todo represents a todo item owned by exactly one user.
type Todo struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      Status    `json:"status"`
	UserID      string    `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TodoPatch carries the optional fields of an update. Nil fields are left unchanged.
type TodoPatch struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *Status `json:"status,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p TodoPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Status == nil
}

// TodoStats counts a user's todos per status.
type TodoStats struct {
	Pending   int `json:"pending"`
	Completed int `json:"completed"`
	Total     int `json:"total"`
}

// EventType names a todo change published to Kafka.
type EventType string

const (
	EventTodoCreated EventType = "todo.created"
	EventTodoUpdated EventType = "todo.updated"
	EventTodoDeleted EventType = "todo.deleted"
)

// TodoEvent is the message payload for Kafka.
type TodoEvent struct {
	Type       EventType `json:"type"`
	TodoID     string    `json:"todo_id"`
	UserID     string    `json:"user_id"`
	Status     Status    `json:"status,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
