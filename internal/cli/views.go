package cli

import (
	"errors"

	"github.com/dtroode/tododash/internal/model"
)

type sessionView struct {
	User    *model.User          `json:"user"`
	Loading bool                 `json:"loading"`
	Message *model.StatusMessage `json:"message,omitempty"`
}

func newSessionView(s model.SessionState) sessionView {
	v := sessionView{Loading: s.Loading, Message: s.Message}
	if in, ok := s.Auth.(model.SignedIn); ok {
		user := in.User
		v.User = &user
	}
	return v
}

type collectionView struct {
	Todos   []model.Todo `json:"todos"`
	Loading bool         `json:"loading"`
	Error   string       `json:"error,omitempty"`
	Stats   model.Stats  `json:"stats"`
}

func newCollectionView(s model.CollectionState) collectionView {
	todos := s.Todos
	if todos == nil {
		todos = []model.Todo{}
	}
	return collectionView{Todos: todos, Loading: s.Loading, Error: s.Error, Stats: s.Stats}
}

// errFailed marks a command whose core operation reported false. The
// details are already part of the printed state.
var errFailed = errors.New("operation failed")
