package controller

import (
	"context"

	"todo-app/internal/models"
	"todo-app/internal/service"

	"github.com/gin-gonic/gin"
)

// Todos is the todo API surface the controller drives.
type Todos interface {
	Create(ctx context.Context, userID string, in service.CreateTodoInput) (*models.Todo, error)
	List(ctx context.Context, userID, status string) ([]models.Todo, error)
	Update(ctx context.Context, userID, id string, patch models.TodoPatch) (*models.Todo, error)
	Delete(ctx context.Context, userID, id string) error
	Stats(ctx context.Context, userID string) (models.TodoStats, error)
}

// TodoController serves /api/todos.
type TodoController struct {
	todos Todos
}

func NewTodoController(todos Todos) *TodoController {
	return &TodoController{todos: todos}
}

type listRequest struct {
	Status string `form:"status"`
}

type updateRequest struct {
	ID    string
	Patch models.TodoPatch
}

type deleteRequest struct {
	ID string
}

type messageResponse struct {
	Message string `json:"message"`
}

func (t *TodoController) Create() gin.HandlerFunc {
	return Authed(bindJSON[service.CreateTodoInput], t.create, "Failed to create todo")
}

func (t *TodoController) List() gin.HandlerFunc {
	bind := func(c *gin.Context, req *listRequest) error {
		return c.ShouldBindQuery(req)
	}
	return Authed(bind, t.list, "Failed to fetch todos")
}

func (t *TodoController) Update() gin.HandlerFunc {
	bind := func(c *gin.Context, req *updateRequest) error {
		req.ID = c.Param("id")
		if c.Request.ContentLength == 0 {
			return nil
		}
		return c.ShouldBindJSON(&req.Patch)
	}
	return Authed(bind, t.update, "Failed to update todo")
}

func (t *TodoController) Delete() gin.HandlerFunc {
	bind := func(c *gin.Context, req *deleteRequest) error {
		req.ID = c.Param("id")
		return nil
	}
	return Authed(bind, t.delete, "Failed to delete todo")
}

func (t *TodoController) Stats() gin.HandlerFunc {
	return Authed(nil, t.stats, "Failed to fetch stats")
}

func (t *TodoController) create(ctx context.Context, userID string, req service.CreateTodoInput) (*models.Todo, error) {
	return t.todos.Create(ctx, userID, req)
}

func (t *TodoController) list(ctx context.Context, userID string, req listRequest) ([]models.Todo, error) {
	todos, err := t.todos.List(ctx, userID, req.Status)
	if err != nil {
		return nil, err
	}
	if todos == nil {
		todos = []models.Todo{}
	}
	return todos, nil
}

// update answers null when the caller owns no such todo.
func (t *TodoController) update(ctx context.Context, userID string, req updateRequest) (*models.Todo, error) {
	return t.todos.Update(ctx, userID, req.ID, req.Patch)
}

func (t *TodoController) delete(ctx context.Context, userID string, req deleteRequest) (messageResponse, error) {
	if err := t.todos.Delete(ctx, userID, req.ID); err != nil {
		return messageResponse{}, err
	}
	return messageResponse{Message: "Todo deleted"}, nil
}

func (t *TodoController) stats(ctx context.Context, userID string, _ struct{}) (models.TodoStats, error) {
	return t.todos.Stats(ctx, userID)
}
