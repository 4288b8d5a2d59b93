package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/tododash/internal/model"
)

var todoCols = []string{"id", "user_id", "title", "completed", "created_at", "updated_at"}

func TestTodoRepository_Create(t *testing.T) {
	conn, mock := newMockConnection(t)
	now := time.Now().UTC()
	todo := model.TodoRecord{ID: uuid.New(), OwnerID: uuid.New(), Title: "A", CreatedAt: now, UpdatedAt: now}

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO todos")).
		WithArgs(todo.ID, todo.OwnerID, todo.Title, false, now, now).
		WillReturnRows(sqlmock.NewRows(todoCols).
			AddRow(todo.ID.String(), todo.OwnerID.String(), "A", false, now, now))

	saved, err := NewTodoRepository(conn).Create(context.Background(), todo)
	require.NoError(t, err)
	assert.Equal(t, todo, saved)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTodoRepository_ListByOwner(t *testing.T) {
	owner := uuid.New()
	now := time.Now().UTC()

	tests := []struct {
		name      string
		ascending bool
		order     string
	}{
		{name: "newest first", ascending: false, order: "ORDER BY created_at DESC, id"},
		{name: "oldest first", ascending: true, order: "ORDER BY created_at ASC, id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn, mock := newMockConnection(t)
			first, second := uuid.New(), uuid.New()
			mock.ExpectQuery(regexp.QuoteMeta(tt.order)).
				WithArgs(owner).
				WillReturnRows(sqlmock.NewRows(todoCols).
					AddRow(first.String(), owner.String(), "A", false, now, now).
					AddRow(second.String(), owner.String(), "B", true, now, now))

			todos, err := NewTodoRepository(conn).ListByOwner(context.Background(), owner, tt.ascending)
			require.NoError(t, err)
			require.Len(t, todos, 2)
			assert.Equal(t, first, todos[0].ID)
			assert.True(t, todos[1].Completed)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestTodoRepository_ListByOwner_Empty(t *testing.T) {
	conn, mock := newMockConnection(t)
	mock.ExpectQuery("FROM todos").WillReturnRows(sqlmock.NewRows(todoCols))

	todos, err := NewTodoRepository(conn).ListByOwner(context.Background(), uuid.New(), false)
	require.NoError(t, err)
	assert.NotNil(t, todos)
	assert.Empty(t, todos)
}

func TestTodoRepository_SetCompleted(t *testing.T) {
	conn, mock := newMockConnection(t)
	owner, id := uuid.New(), uuid.New()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE todos SET completed = $3")).
		WithArgs(owner, id, true).
		WillReturnResult(sqlmock.NewResult(0, 0))

	n, err := NewTodoRepository(conn).SetCompleted(context.Background(), owner, id, true)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTodoRepository_Delete(t *testing.T) {
	conn, mock := newMockConnection(t)
	owner, id := uuid.New(), uuid.New()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM todos WHERE id = $2 AND user_id = $1")).
		WithArgs(owner, id).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM todos").WillReturnError(assert.AnError)

	repo := NewTodoRepository(conn)
	n, err := repo.Delete(context.Background(), owner, id)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = repo.Delete(context.Background(), owner, id)
	require.ErrorIs(t, err, assert.AnError)
}
