// Package todo keeps a local, ordered copy of the user's todos in sync with
// the remote todos table.
//
// Local state is only changed after the gateway confirms the corresponding
// write. Concurrent calls are not serialised: when remote round-trips
// overlap, the response that resolves last decides the final local order.
package todo

import (
	"context"
	"math"
	"strings"
	"sync"

	"github.com/dtroode/tododash/internal/logger"
	"github.com/dtroode/tododash/internal/model"
	"github.com/dtroode/tododash/internal/notify"
)

// Error prefixes for failed data operations.
const (
	fetchFailedPrefix  = "Failed to fetch todos: "
	addFailedPrefix    = "Failed to add todo: "
	updateFailedPrefix = "Failed to update todo: "
	deleteFailedPrefix = "Failed to delete todo: "
)

var newestFirst = model.Order{Column: model.ColumnCreatedAt, Ascending: false}

// Store owns the local todo sequence, the loading flag and the error text.
type Store struct {
	gateway  model.TableGateway
	identity model.IdentityProvider
	logger   *logger.Logger
	hub      *notify.Hub[model.CollectionState]

	mu      sync.Mutex
	todos   []model.Todo
	loading bool
	err     string
}

// NewStore creates an empty Store in the loading state. identity is read at
// write time to stamp new rows with their owner.
func NewStore(gateway model.TableGateway, identity model.IdentityProvider, logger *logger.Logger) *Store {
	return &Store{
		gateway:  gateway,
		identity: identity,
		logger:   logger,
		hub:      notify.NewHub[model.CollectionState](),
		todos:    []model.Todo{},
		loading:  true,
	}
}

// FetchAll replaces the local sequence with every remote row, newest first.
// On failure the sequence is left untouched.
func (s *Store) FetchAll(ctx context.Context) bool {
	s.update(func() {
		s.loading = true
		s.err = ""
	})

	rows, err := s.gateway.SelectAll(ctx, model.TodosTable, newestFirst)
	if err == nil {
		var todos []model.Todo
		todos, err = todosFromRows(rows)
		if err == nil {
			s.update(func() {
				s.todos = todos
				s.err = ""
				s.loading = false
			})
			return true
		}
	}

	s.logger.Info("Todo store: fetch failed", "error", err.Error())
	s.update(func() {
		s.loading = false
		s.err = fetchFailedPrefix + err.Error()
	})
	return false
}

// Add inserts a new, not completed todo owned by the current user and
// prepends the row returned by the gateway. Blank titles are ignored.
func (s *Store) Add(ctx context.Context, title string) bool {
	if strings.TrimSpace(title) == "" {
		return false
	}

	row := model.Row{
		model.ColumnTitle:     title,
		model.ColumnCompleted: false,
		model.ColumnUserID:    nil,
	}
	if user, ok := s.identity.CurrentUser(); ok {
		row[model.ColumnUserID] = user.ID
	}

	rows, err := s.gateway.Insert(ctx, model.TodosTable, row)
	if err != nil {
		s.fail(addFailedPrefix, err)
		return false
	}
	if len(rows) == 0 {
		return true
	}

	todo, err := todoFromRow(rows[0])
	if err != nil {
		s.fail(addFailedPrefix, err)
		return false
	}

	s.update(func() {
		todos := make([]model.Todo, 0, len(s.todos)+1)
		todos = append(todos, todo)
		for _, t := range s.todos {
			if t.ID != todo.ID {
				todos = append(todos, t)
			}
		}
		s.todos = todos
		s.err = ""
	})
	return true
}

// Toggle writes completed = !currentCompleted for id and, once confirmed,
// applies the written value to the matching local entry.
func (s *Store) Toggle(ctx context.Context, id string, currentCompleted bool) bool {
	completed := !currentCompleted

	err := s.gateway.UpdateByKey(ctx, model.TodosTable,
		model.Key{Column: model.ColumnID, Value: id},
		model.Row{model.ColumnCompleted: completed},
	)
	if err != nil {
		s.fail(updateFailedPrefix, err)
		return false
	}

	s.update(func() {
		todos := make([]model.Todo, len(s.todos))
		for i, t := range s.todos {
			if t.ID == id {
				t.Completed = completed
			}
			todos[i] = t
		}
		s.todos = todos
		s.err = ""
	})
	return true
}

// Remove deletes id remotely and, once confirmed, drops it locally.
// Removing an id that is not held locally leaves the sequence unchanged.
func (s *Store) Remove(ctx context.Context, id string) bool {
	err := s.gateway.DeleteByKey(ctx, model.TodosTable, model.Key{Column: model.ColumnID, Value: id})
	if err != nil {
		s.fail(deleteFailedPrefix, err)
		return false
	}

	s.update(func() {
		todos := make([]model.Todo, 0, len(s.todos))
		for _, t := range s.todos {
			if t.ID != id {
				todos = append(todos, t)
			}
		}
		s.todos = todos
		s.err = ""
	})
	return true
}

// Todos returns a copy of the local sequence.
func (s *Store) Todos() []model.Todo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Todo{}, s.todos...)
}

// Stats computes aggregates from the current local sequence.
func (s *Store) Stats() model.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return computeStats(s.todos)
}

// Snapshot returns the current observable state.
func (s *Store) Snapshot() model.CollectionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Subscribe registers fn to be called with the new state after every change.
func (s *Store) Subscribe(fn func(model.CollectionState)) notify.Subscription {
	return s.hub.Subscribe(fn)
}

func (s *Store) fail(prefix string, err error) {
	s.logger.Info("Todo store: operation failed", "error", err.Error())
	s.update(func() {
		s.err = prefix + err.Error()
	})
}

func (s *Store) update(fn func()) {
	s.mu.Lock()
	fn()
	st := s.snapshotLocked()
	s.mu.Unlock()

	s.hub.Publish(st)
}

func (s *Store) snapshotLocked() model.CollectionState {
	return model.CollectionState{
		Todos:   append([]model.Todo{}, s.todos...),
		Loading: s.loading,
		Error:   s.err,
		Stats:   computeStats(s.todos),
	}
}

func computeStats(todos []model.Todo) model.Stats {
	total := len(todos)
	completed := 0
	for _, t := range todos {
		if t.Completed {
			completed++
		}
	}

	rate := 0
	if total > 0 {
		rate = int(math.Round(float64(completed) * 100 / float64(total)))
	}

	return model.Stats{
		Total:          total,
		Completed:      completed,
		Pending:        total - completed,
		CompletionRate: rate,
	}
}
