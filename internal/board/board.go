package board

import (
	"context"
	"strings"

	"todo-app/pkg/client"
)

// Fixed messages shown for failed actions.
const (
	MsgFetchFailed  = "Failed to fetch todos"
	MsgCreateFailed = "Failed to create todo"
	MsgUpdateFailed = "Failed to update todo"
	MsgDeleteFailed = "Failed to delete todo"
)

// Filter selects which todos the board shows.
type Filter string

const (
	FilterAll       Filter = ""
	FilterPending   Filter = client.StatusPending
	FilterCompleted Filter = client.StatusCompleted
)

// ParseFilter accepts all|pending|completed in any case.
func ParseFilter(s string) (Filter, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return FilterAll, true
	case "pending":
		return FilterPending, true
	case "completed", "done":
		return FilterCompleted, true
	}
	return FilterAll, false
}

func (f Filter) String() string {
	if f == FilterAll {
		return "All"
	}
	return string(f)
}

func (f Filter) admits(status string) bool {
	return f == FilterAll || string(f) == status
}

// API is the session surface the board drives.
type API interface {
	ListTodos(ctx context.Context, status string) ([]client.Todo, error)
	CreateTodo(ctx context.Context, title, description string) (*client.Todo, error)
	UpdateTodo(ctx context.Context, id string, upd client.TodoUpdate) (*client.Todo, error)
	DeleteTodo(ctx context.Context, id string) error
}

// EditBuffer holds an in-progress edit of one todo.
type EditBuffer struct {
	ID          string
	Title       string
	Description string
}

// Board is the todo list view state. It applies server responses locally
// instead of refetching, except when the filter changes.
type Board struct {
	api API

	Todos   []client.Todo
	Filter  Filter
	Editing *EditBuffer
	Loading bool
	Err     string
}

// New returns an empty board showing all todos.
func New(api API) *Board {
	return &Board{api: api}
}

// Refresh reloads the list for the current filter.
func (b *Board) Refresh(ctx context.Context) error {
	b.Loading = true
	defer func() { b.Loading = false }()

	todos, err := b.api.ListTodos(ctx, string(b.Filter))
	if err != nil {
		return b.fail(MsgFetchFailed, err)
	}
	b.Todos = todos
	b.Err = ""
	return nil
}

// SetFilter switches the filter and refetches when it changed.
func (b *Board) SetFilter(ctx context.Context, f Filter) error {
	if f == b.Filter && b.Todos != nil {
		return nil
	}
	b.Filter = f
	return b.Refresh(ctx)
}

// Create adds a todo. A blank title is ignored.
func (b *Board) Create(ctx context.Context, title, description string) error {
	if strings.TrimSpace(title) == "" {
		return nil
	}
	todo, err := b.api.CreateTodo(ctx, title, description)
	if err != nil {
		return b.fail(MsgCreateFailed, err)
	}
	if b.Filter.admits(todo.Status) {
		b.Todos = append([]client.Todo{*todo}, b.Todos...)
	}
	b.Err = ""
	return nil
}

// Toggle flips a todo between Pending and Completed.
func (b *Board) Toggle(ctx context.Context, id string) error {
	i := b.index(id)
	if i < 0 {
		return nil
	}
	next := client.StatusCompleted
	if b.Todos[i].Status == client.StatusCompleted {
		next = client.StatusPending
	}
	return b.update(ctx, id, client.TodoUpdate{Status: &next})
}

// Has reports whether the loaded list contains id.
func (b *Board) Has(id string) bool {
	return b.index(id) >= 0
}

// BeginEdit loads a todo into the edit buffer.
func (b *Board) BeginEdit(id string) bool {
	i := b.index(id)
	if i < 0 {
		return false
	}
	t := b.Todos[i]
	b.Editing = &EditBuffer{ID: t.ID, Title: t.Title, Description: t.Description}
	return true
}

// CancelEdit drops the edit buffer.
func (b *Board) CancelEdit() {
	b.Editing = nil
}

// SaveEdit sends the edit buffer. The buffer is kept on failure.
func (b *Board) SaveEdit(ctx context.Context) error {
	if b.Editing == nil {
		return nil
	}
	e := *b.Editing
	if err := b.update(ctx, e.ID, client.TodoUpdate{Title: &e.Title, Description: &e.Description}); err != nil {
		return err
	}
	b.Editing = nil
	return nil
}

// Delete removes a todo.
func (b *Board) Delete(ctx context.Context, id string) error {
	if err := b.api.DeleteTodo(ctx, id); err != nil {
		return b.fail(MsgDeleteFailed, err)
	}
	b.remove(id)
	if b.Editing != nil && b.Editing.ID == id {
		b.Editing = nil
	}
	b.Err = ""
	return nil
}

// Counts returns pending and completed totals of the loaded list.
func (b *Board) Counts() (pending, completed int) {
	for _, t := range b.Todos {
		switch t.Status {
		case client.StatusPending:
			pending++
		case client.StatusCompleted:
			completed++
		}
	}
	return pending, completed
}

func (b *Board) update(ctx context.Context, id string, upd client.TodoUpdate) error {
	todo, err := b.api.UpdateTodo(ctx, id, upd)
	if err != nil {
		return b.fail(MsgUpdateFailed, err)
	}
	switch {
	case todo == nil, !b.Filter.admits(todo.Status):
		b.remove(id)
	default:
		if i := b.index(id); i >= 0 {
			b.Todos[i] = *todo
		}
	}
	b.Err = ""
	return nil
}

func (b *Board) fail(msg string, err error) error {
	b.Err = msg
	return err
}

func (b *Board) index(id string) int {
	for i, t := range b.Todos {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (b *Board) remove(id string) {
	if i := b.index(id); i >= 0 {
		b.Todos = append(b.Todos[:i], b.Todos[i+1:]...)
	}
}
