package todo

import (
	"fmt"

	"github.com/dtroode/tododash/internal/model"
)

func todosFromRows(rows []model.Row) ([]model.Todo, error) {
	todos := make([]model.Todo, 0, len(rows))
	seen := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		t, err := todoFromRow(row)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[t.ID]; ok {
			continue
		}
		seen[t.ID] = struct{}{}
		todos = append(todos, t)
	}
	return todos, nil
}

func todoFromRow(row model.Row) (model.Todo, error) {
	var t model.Todo

	id, ok := row[model.ColumnID].(string)
	if !ok || id == "" {
		return model.Todo{}, fmt.Errorf("invalid row: missing %s", model.ColumnID)
	}
	t.ID = id

	if v, ok := row[model.ColumnTitle]; ok && v != nil {
		title, ok := v.(string)
		if !ok {
			return model.Todo{}, fmt.Errorf("invalid row %s: %s is not text", id, model.ColumnTitle)
		}
		t.Title = title
	}

	if v, ok := row[model.ColumnCompleted]; ok && v != nil {
		completed, ok := v.(bool)
		if !ok {
			return model.Todo{}, fmt.Errorf("invalid row %s: %s is not boolean", id, model.ColumnCompleted)
		}
		t.Completed = completed
	}

	if v, ok := row[model.ColumnCreatedAt]; ok && v != nil {
		createdAt, ok := v.(string)
		if !ok {
			return model.Todo{}, fmt.Errorf("invalid row %s: %s is not a timestamp", id, model.ColumnCreatedAt)
		}
		t.CreatedAt = createdAt
	}

	return t, nil
}
