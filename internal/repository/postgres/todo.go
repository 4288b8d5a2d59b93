package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dtroode/tododash/internal/model"
)

var _ model.TodoStore = (*TodoRepository)(nil)

// TodoRepository stores todos. Every statement filters by owner.
type TodoRepository struct {
	db *Connection
}

func NewTodoRepository(db *Connection) *TodoRepository {
	return &TodoRepository{db: db}
}

const todoColumns = `id, user_id, title, completed, created_at, updated_at`

func (r *TodoRepository) Create(ctx context.Context, todo model.TodoRecord) (model.TodoRecord, error) {
	query := `INSERT INTO todos (id, user_id, title, completed, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING ` + todoColumns

	var saved model.TodoRecord
	err := r.db.QueryRowContext(ctx, query,
		todo.ID, todo.OwnerID, todo.Title, todo.Completed, todo.CreatedAt, todo.UpdatedAt,
	).Scan(&saved.ID, &saved.OwnerID, &saved.Title, &saved.Completed, &saved.CreatedAt, &saved.UpdatedAt)
	if err != nil {
		return model.TodoRecord{}, fmt.Errorf("failed to create todo: %w", err)
	}

	return saved, nil
}

func (r *TodoRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, ascending bool) ([]model.TodoRecord, error) {
	order := "DESC"
	if ascending {
		order = "ASC"
	}
	query := `SELECT ` + todoColumns + `
			  FROM todos WHERE user_id = $1
			  ORDER BY created_at ` + order + `, id`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}
	defer rows.Close()

	todos := make([]model.TodoRecord, 0)
	for rows.Next() {
		var t model.TodoRecord
		if err := rows.Scan(&t.ID, &t.OwnerID, &t.Title, &t.Completed, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan todo: %w", err)
		}
		todos = append(todos, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate todos: %w", err)
	}

	return todos, nil
}

func (r *TodoRepository) SetCompleted(ctx context.Context, ownerID uuid.UUID, id uuid.UUID, completed bool) (int64, error) {
	const query = `UPDATE todos SET completed = $3, updated_at = NOW()
			  WHERE id = $2 AND user_id = $1`

	res, err := r.db.ExecContext(ctx, query, ownerID, id, completed)
	if err != nil {
		return 0, fmt.Errorf("failed to update todo: %w", err)
	}
	return res.RowsAffected()
}

func (r *TodoRepository) Delete(ctx context.Context, ownerID uuid.UUID, id uuid.UUID) (int64, error) {
	const query = `DELETE FROM todos WHERE id = $2 AND user_id = $1`

	res, err := r.db.ExecContext(ctx, query, ownerID, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete todo: %w", err)
	}
	return res.RowsAffected()
}
