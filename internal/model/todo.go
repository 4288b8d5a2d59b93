package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TodosTable is the only remote table addressable by the dashboard.
const TodosTable = "todos"

// Todo column names as they appear on the wire.
const (
	ColumnID        = "id"
	ColumnTitle     = "title"
	ColumnCompleted = "completed"
	ColumnUserID    = "user_id"
	ColumnCreatedAt = "created_at"
)

// Todo is the client-side copy of a row of the todos table.
type Todo struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
	CreatedAt string `json:"created_at"`
}

// Stats holds aggregates derived from the local todo sequence.
type Stats struct {
	Total          int `json:"total"`
	Completed      int `json:"completed"`
	Pending        int `json:"pending"`
	CompletionRate int `json:"completion_rate"`
}

// TodoRecord is a persisted todo row owned by a user.
type TodoRecord struct {
	ID        uuid.UUID
	OwnerID   uuid.UUID
	Title     string
	Completed bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TodoStore defines persistence operations for todo rows.
// Every method is scoped to the owner; rows of other owners are invisible.
type TodoStore interface {
	Create(ctx context.Context, todo TodoRecord) (TodoRecord, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, ascending bool) ([]TodoRecord, error)
	SetCompleted(ctx context.Context, ownerID uuid.UUID, id uuid.UUID, completed bool) (int64, error)
	Delete(ctx context.Context, ownerID uuid.UUID, id uuid.UUID) (int64, error)
}

// Snapshot is an exported copy of a user's todos.
type Snapshot struct {
	OwnerID    uuid.UUID `json:"owner_id"`
	ExportedAt time.Time `json:"exported_at"`
	Todos      []Row     `json:"todos"`
}

// CollectionState is an observable snapshot of the todo collection store.
type CollectionState struct {
	Todos   []Todo
	Loading bool
	Error   string
	Stats   Stats
}
