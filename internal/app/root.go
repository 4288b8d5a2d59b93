// Package app wires the session manager and the todo store into the single
// container a dashboard process works with.
package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/dtroode/tododash/internal/logger"
	"github.com/dtroode/tododash/internal/model"
	"github.com/dtroode/tododash/internal/session"
	"github.com/dtroode/tododash/internal/todo"
)

// Root holds exactly one session manager and one todo store. The store only
// sees the manager's identity capability.
type Root struct {
	Session *session.Manager
	Todos   *todo.Store

	gateway   model.Gateway
	logger    *logger.Logger
	closeOnce sync.Once
}

// New constructs the root around gateway.
func New(gateway model.Gateway, logger *logger.Logger) *Root {
	manager := session.NewManager(gateway, logger.With("component", "session"))
	store := todo.NewStore(gateway, model.IdentityProvider(manager), logger.With("component", "todos"))

	return &Root{
		Session: manager,
		Todos:   store,
		gateway: gateway,
		logger:  logger,
	}
}

// Start attaches the session manager to the gateway and restores any
// persisted session.
func (r *Root) Start(ctx context.Context) {
	r.Session.Initialize(ctx)
}

// Close releases the session subscription and the gateway.
func (r *Root) Close() error {
	var err error
	r.closeOnce.Do(func() {
		r.Session.Close()
		if cerr := r.gateway.Close(); cerr != nil {
			err = fmt.Errorf("failed to close gateway: %w", cerr)
		}
	})
	return err
}
