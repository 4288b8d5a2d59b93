package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserStore defines persistence operations for users.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (UserRecord, error)
	GetByID(ctx context.Context, id uuid.UUID) (UserRecord, error)
	Create(ctx context.Context, user UserRecord) (UserRecord, error)
}

// UserRecord represents a stored user with its password hash.
type UserRecord struct {
	ID           uuid.UUID
	Email        string
	PasswordHash []byte
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time
}

// User is the identity visible to the dashboard.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}
