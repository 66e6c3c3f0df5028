package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo-app/internal/models"
)

var todoRowColumns = []string{"id", "title", "description", "status", "user_id", "created_at", "updated_at"}

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func TestTodoRepository_Create(t *testing.T) {
	db, mock := newMock(t)
	repo := NewTodoRepository(db)
	now := time.Now().UTC()
	todo := &models.Todo{ID: "t1", Title: "Buy milk", Status: models.StatusPending, UserID: "u1", CreatedAt: now, UpdatedAt: now}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO todos")).
		WithArgs("t1", "Buy milk", "", "Pending", "u1", now, now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), todo))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTodoRepository_Create_UnknownOwner(t *testing.T) {
	db, mock := newMock(t)
	repo := NewTodoRepository(db)
	now := time.Now().UTC()
	todo := &models.Todo{ID: "t1", Title: "Buy milk", Status: models.StatusPending, UserID: "ghost", CreatedAt: now, UpdatedAt: now}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO todos")).
		WillReturnError(&pq.Error{Code: "23503"})

	err := repo.Create(context.Background(), todo)
	assert.ErrorIs(t, err, ErrOwnerNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTodoRepository_List(t *testing.T) {
	now := time.Now().UTC()
	completed := models.StatusCompleted

	tests := []struct {
		name   string
		status *models.Status
		query  string
		args   []driver.Value
	}{
		{
			name:  "all",
			query: "FROM todos WHERE user_id = $1 ORDER BY created_at DESC, id DESC",
			args:  []driver.Value{"u1"},
		},
		{
			name:   "filtered",
			status: &completed,
			query:  "FROM todos WHERE user_id = $1 AND status = $2 ORDER BY created_at DESC, id DESC",
			args:   []driver.Value{"u1", "Completed"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMock(t)
			repo := NewTodoRepository(db)

			mock.ExpectQuery(regexp.QuoteMeta(tt.query)).
				WithArgs(tt.args...).
				WillReturnRows(sqlmock.NewRows(todoRowColumns).
					AddRow("t2", "Second", "", "Completed", "u1", now, now).
					AddRow("t1", "First", "desc", "Completed", "u1", now.Add(-time.Minute), now))

			todos, err := repo.List(context.Background(), "u1", tt.status)
			require.NoError(t, err)
			require.Len(t, todos, 2)
			assert.Equal(t, "t2", todos[0].ID)
			assert.Equal(t, models.StatusCompleted, todos[1].Status)
			assert.Equal(t, "desc", todos[1].Description)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestTodoRepository_List_EmptyIsNotNil(t *testing.T) {
	db, mock := newMock(t)
	repo := NewTodoRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM todos WHERE user_id = $1")).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows(todoRowColumns))

	todos, err := repo.List(context.Background(), "u1", nil)
	require.NoError(t, err)
	assert.NotNil(t, todos)
	assert.Empty(t, todos)
}

func TestTodoRepository_Update(t *testing.T) {
	now := time.Now().UTC()
	title := "Renamed"
	status := models.StatusCompleted

	t.Run("owned row", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewTodoRepository(db)

		mock.ExpectQuery(regexp.QuoteMeta("UPDATE todos SET")).
			WithArgs("Renamed", nil, "Completed", sqlmock.AnyArg(), "t1", "u1").
			WillReturnRows(sqlmock.NewRows(todoRowColumns).
				AddRow("t1", "Renamed", "", "Completed", "u1", now, now))

		got, err := repo.Update(context.Background(), "u1", "t1", models.TodoPatch{Title: &title, Status: &status})
		require.NoError(t, err)
		assert.Equal(t, "Renamed", got.Title)
		assert.Equal(t, models.StatusCompleted, got.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("foreign or missing row", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewTodoRepository(db)

		mock.ExpectQuery(regexp.QuoteMeta("UPDATE todos SET")).
			WithArgs(nil, nil, "Completed", sqlmock.AnyArg(), "t1", "u2").
			WillReturnRows(sqlmock.NewRows(todoRowColumns))

		_, err := repo.Update(context.Background(), "u2", "t1", models.TodoPatch{Status: &status})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestTodoRepository_Get_NotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewTodoRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE id = $1 AND user_id = $2")).
		WithArgs("t1", "u1").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), "u1", "t1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTodoRepository_Delete(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		want     bool
	}{
		{name: "removed", affected: 1, want: true},
		{name: "already gone", affected: 0, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMock(t)
			repo := NewTodoRepository(db)

			mock.ExpectExec(regexp.QuoteMeta("DELETE FROM todos WHERE id = $1 AND user_id = $2")).
				WithArgs("t1", "u1").
				WillReturnResult(sqlmock.NewResult(0, tt.affected))

			removed, err := repo.Delete(context.Background(), "u1", "t1")
			require.NoError(t, err)
			assert.Equal(t, tt.want, removed)
		})
	}
}

func TestTodoRepository_CountByStatus(t *testing.T) {
	db, mock := newMock(t)
	repo := NewTodoRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT status, COUNT(*) FROM todos WHERE user_id = $1")).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"status", "count"}).
			AddRow("Pending", 3).
			AddRow("Completed", 2))

	stats, err := repo.CountByStatus(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, models.TodoStats{Pending: 3, Completed: 2, Total: 5}, stats)
}
