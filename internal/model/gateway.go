package model

import (
	"context"

	"github.com/dtroode/tododash/internal/notify"
)

// Row is a generic table row keyed by column name.
type Row = map[string]any

// Order describes the ordering of a select.
type Order struct {
	Column    string
	Ascending bool
}

// Key selects rows by a column value.
type Key struct {
	Column string
	Value  string
}

// Subscription is a registration that can be released.
type Subscription = notify.Subscription

// AuthGateway is the authentication side of the remote data service.
type AuthGateway interface {
	GetSession(ctx context.Context) (*Session, error)
	OnSessionChange(fn func(*Session)) Subscription
	SignIn(ctx context.Context, email, password string) error
	SignUp(ctx context.Context, email, password string) error
	SignOut(ctx context.Context) error
}

// TableGateway is the table side of the remote data service.
// Rows are implicitly scoped to the caller's identity.
type TableGateway interface {
	SelectAll(ctx context.Context, table string, order Order) ([]Row, error)
	Insert(ctx context.Context, table string, rows ...Row) ([]Row, error)
	UpdateByKey(ctx context.Context, table string, key Key, patch Row) error
	DeleteByKey(ctx context.Context, table string, key Key) error
}

// Gateway is the full remote data service boundary.
type Gateway interface {
	AuthGateway
	TableGateway
	Close() error
}
