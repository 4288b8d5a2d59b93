package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/tododash/internal/logger"
	"github.com/dtroode/tododash/internal/model"
)

var todoColumns = []string{
	model.ColumnID,
	model.ColumnTitle,
	model.ColumnCompleted,
	model.ColumnUserID,
	model.ColumnCreatedAt,
}

// Tables serves generic table requests with row-level security semantics:
// every request is scoped to the caller and anonymous callers own nothing.
type Tables struct {
	todoStore model.TodoStore
	storage   model.Storage
	logger    *logger.Logger
	now       func() time.Time
}

// NewTables creates a Tables service. storage may be nil, which disables Export.
func NewTables(todoStore model.TodoStore, storage model.Storage, logger *logger.Logger) *Tables {
	return &Tables{
		todoStore: todoStore,
		storage:   storage,
		logger:    logger,
		now:       time.Now,
	}
}

// Select returns the caller's rows of table. Anonymous callers see no rows.
func (s *Tables) Select(ctx context.Context, caller uuid.UUID, table, orderBy string, ascending bool) ([]model.Row, error) {
	if err := checkTable(table); err != nil {
		return nil, err
	}
	if orderBy != "" && orderBy != model.ColumnCreatedAt {
		if err := checkColumn(orderBy); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: ordering by %s is not supported", model.ErrInvalidInput, orderBy)
	}
	if caller == uuid.Nil {
		return []model.Row{}, nil
	}

	todos, err := s.todoStore.ListByOwner(ctx, caller, ascending)
	if err != nil {
		s.logger.Error("Tables service: failed to list todos",
			"user_id", caller,
			"error", err.Error())
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}

	rows := make([]model.Row, 0, len(todos))
	for _, t := range todos {
		rows = append(rows, todoRow(t))
	}
	return rows, nil
}

// Insert stores rows owned by the caller and returns them as stored.
func (s *Tables) Insert(ctx context.Context, caller uuid.UUID, table string, rows []model.Row) ([]model.Row, error) {
	if err := checkTable(table); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no rows to insert", model.ErrInvalidInput)
	}

	records := make([]model.TodoRecord, 0, len(rows))
	for _, row := range rows {
		rec, err := s.recordFromRow(caller, table, row)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	out := make([]model.Row, 0, len(records))
	for _, rec := range records {
		created, err := s.todoStore.Create(ctx, rec)
		if err != nil {
			s.logger.Error("Tables service: failed to create todo",
				"user_id", caller,
				"error", err.Error())
			return nil, fmt.Errorf("failed to create todo: %w", err)
		}
		out = append(out, todoRow(created))
	}

	s.logger.Info("Tables service: rows inserted",
		"user_id", caller,
		"count", len(out))
	return out, nil
}

func (s *Tables) recordFromRow(caller uuid.UUID, table string, row model.Row) (model.TodoRecord, error) {
	for column := range row {
		if err := checkColumn(column); err != nil {
			return model.TodoRecord{}, err
		}
		if column == model.ColumnID || column == model.ColumnCreatedAt {
			return model.TodoRecord{}, fmt.Errorf("%w: column %s is generated", model.ErrInvalidInput, column)
		}
	}

	if caller == uuid.Nil {
		return model.TodoRecord{}, rlsViolation(table)
	}
	if owner, ok := row[model.ColumnUserID]; ok {
		str, isString := owner.(string)
		if !isString || str != caller.String() {
			return model.TodoRecord{}, rlsViolation(table)
		}
	}

	title, ok := row[model.ColumnTitle].(string)
	if !ok {
		return model.TodoRecord{}, fmt.Errorf("%w: null value in column %s", model.ErrInvalidInput, model.ColumnTitle)
	}

	completed := false
	if v, present := row[model.ColumnCompleted]; present {
		b, isBool := v.(bool)
		if !isBool {
			return model.TodoRecord{}, fmt.Errorf("%w: column %s must be boolean", model.ErrInvalidInput, model.ColumnCompleted)
		}
		completed = b
	}

	now := s.now().UTC()
	return model.TodoRecord{
		ID:        uuid.New(),
		OwnerID:   caller,
		Title:     title,
		Completed: completed,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Update applies patch to the caller's row matching key.
// Matching no row is not an error.
func (s *Tables) Update(ctx context.Context, caller uuid.UUID, table string, key model.Key, patch model.Row) error {
	if err := checkTable(table); err != nil {
		return err
	}
	id, err := parseKey(key)
	if err != nil {
		return err
	}
	if len(patch) == 0 {
		return fmt.Errorf("%w: empty patch", model.ErrInvalidInput)
	}

	var completed bool
	for column, v := range patch {
		if err := checkColumn(column); err != nil {
			return err
		}
		if column != model.ColumnCompleted {
			return fmt.Errorf("%w: column %s cannot be updated", model.ErrInvalidInput, column)
		}
		b, ok := v.(bool)
		if !ok {
			return fmt.Errorf("%w: column %s must be boolean", model.ErrInvalidInput, column)
		}
		completed = b
	}

	if caller == uuid.Nil {
		return nil
	}

	n, err := s.todoStore.SetCompleted(ctx, caller, id, completed)
	if err != nil {
		return fmt.Errorf("failed to update todo: %w", err)
	}
	s.logger.Debug("Tables service: rows updated",
		"user_id", caller,
		"id", id,
		"count", n)
	return nil
}

// Delete removes the caller's row matching key. Matching no row is not an error.
func (s *Tables) Delete(ctx context.Context, caller uuid.UUID, table string, key model.Key) error {
	if err := checkTable(table); err != nil {
		return err
	}
	id, err := parseKey(key)
	if err != nil {
		return err
	}
	if caller == uuid.Nil {
		return nil
	}

	n, err := s.todoStore.Delete(ctx, caller, id)
	if err != nil {
		return fmt.Errorf("failed to delete todo: %w", err)
	}
	s.logger.Debug("Tables service: rows deleted",
		"user_id", caller,
		"id", id,
		"count", n)
	return nil
}

// Export uploads a JSON snapshot of the caller's rows and returns its object key.
func (s *Tables) Export(ctx context.Context, caller uuid.UUID, table string) (string, error) {
	if err := checkTable(table); err != nil {
		return "", err
	}
	if s.storage == nil {
		return "", model.ErrStorageDisabled
	}
	if caller == uuid.Nil {
		return "", model.ErrUnauthenticated
	}

	rows, err := s.Select(ctx, caller, table, model.ColumnCreatedAt, true)
	if err != nil {
		return "", err
	}

	now := s.now().UTC()
	data, err := json.Marshal(model.Snapshot{OwnerID: caller, ExportedAt: now, Todos: rows})
	if err != nil {
		return "", fmt.Errorf("failed to encode snapshot: %w", err)
	}

	key := fmt.Sprintf("user-%s/%s-%d.json", caller, table, now.Unix())
	if err := s.storage.Upload(ctx, key, bytes.NewReader(data)); err != nil {
		s.logger.Error("Tables service: failed to upload snapshot",
			"user_id", caller,
			"key", key,
			"error", err.Error())
		return "", fmt.Errorf("failed to upload snapshot: %w", err)
	}

	s.logger.Info("Tables service: snapshot exported",
		"user_id", caller,
		"key", key,
		"rows", len(rows))
	return key, nil
}

func todoRow(t model.TodoRecord) model.Row {
	return model.Row{
		model.ColumnID:        t.ID.String(),
		model.ColumnTitle:     t.Title,
		model.ColumnCompleted: t.Completed,
		model.ColumnUserID:    t.OwnerID.String(),
		model.ColumnCreatedAt: t.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func checkTable(table string) error {
	if table != model.TodosTable {
		return fmt.Errorf("%w: %q", model.ErrUnknownTable, table)
	}
	return nil
}

func checkColumn(column string) error {
	if !slices.Contains(todoColumns, column) {
		return fmt.Errorf("%w: %q", model.ErrUnknownColumn, column)
	}
	return nil
}

func parseKey(key model.Key) (uuid.UUID, error) {
	if err := checkColumn(key.Column); err != nil {
		return uuid.Nil, err
	}
	if key.Column != model.ColumnID {
		return uuid.Nil, fmt.Errorf("%w: rows can only be addressed by %s", model.ErrInvalidInput, model.ColumnID)
	}
	id, err := uuid.Parse(key.Value)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid input syntax for type uuid: %q", model.ErrInvalidInput, key.Value)
	}
	return id, nil
}

func rlsViolation(table string) error {
	return fmt.Errorf("%w for table %q", model.ErrRowLevelSecurity, table)
}
