//go:build integration

package repository_test

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"todo-app/internal/database"
	"todo-app/internal/models"
	"todo-app/internal/repository"
)

var dsn string

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "password",
				"POSTGRES_DB":       "todo_test",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		panic(err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		panic(err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		panic(err)
	}
	dsn = fmt.Sprintf("postgres://postgres:password@%s:%s/todo_test?sslmode=disable", host, port.Port())

	code := m.Run()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()
	db, err := database.Open(ctx, dsn, 5)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	migrator, err := database.NewMigrator(db)
	require.NoError(t, err)
	require.NoError(t, migrator.Up(ctx))
	return db
}

func createUser(t *testing.T, users *repository.UserRepository, email string) *models.User {
	t.Helper()
	u := &models.User{ID: uuid.NewString(), Email: email, PasswordHash: "hash", CreatedAt: time.Now().UTC()}
	require.NoError(t, users.Create(context.Background(), u))
	return u
}

func TestRepositories_OwnershipScoping(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	users := repository.NewUserRepository(db)
	todos := repository.NewTodoRepository(db)

	alice := createUser(t, users, "alice-"+uuid.NewString()+"@x.com")
	bob := createUser(t, users, "bob-"+uuid.NewString()+"@x.com")

	err := users.Create(ctx, &models.User{ID: uuid.NewString(), Email: alice.Email, PasswordHash: "h", CreatedAt: time.Now()})
	require.ErrorIs(t, err, repository.ErrDuplicate)

	now := time.Now().UTC().Truncate(time.Microsecond)
	todo := &models.Todo{ID: uuid.NewString(), Title: "Alice's", Status: models.StatusPending, UserID: alice.ID, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, todos.Create(ctx, todo))

	bobList, err := todos.List(ctx, bob.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, bobList)

	completed := models.StatusCompleted
	_, err = todos.Update(ctx, bob.ID, todo.ID, models.TodoPatch{Status: &completed})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	removed, err := todos.Delete(ctx, bob.ID, todo.ID)
	require.NoError(t, err)
	assert.False(t, removed)

	aliceList, err := todos.List(ctx, alice.ID, nil)
	require.NoError(t, err)
	require.Len(t, aliceList, 1)
	assert.Equal(t, models.StatusPending, aliceList[0].Status)

	updated, err := todos.Update(ctx, alice.ID, todo.ID, models.TodoPatch{Status: &completed})
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, updated.Status)
	assert.Equal(t, "Alice's", updated.Title)

	done, err := todos.List(ctx, alice.ID, &completed)
	require.NoError(t, err)
	assert.Len(t, done, 1)

	stats, err := todos.CountByStatus(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TodoStats{Completed: 1, Total: 1}, stats)

	removed, err = todos.Delete(ctx, alice.ID, todo.ID)
	require.NoError(t, err)
	assert.True(t, removed)
	removed, err = todos.Delete(ctx, alice.ID, todo.ID)
	require.NoError(t, err)
	assert.False(t, removed)
}
