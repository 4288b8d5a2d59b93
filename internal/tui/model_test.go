package tui

import (
	"context"
	"sync"
	"testing"

	"github.com/charmbracelet/bubbles/cursor"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/tododash/internal/model"
	"github.com/dtroode/tododash/internal/notify"
)

type fakeTodos struct {
	mu    sync.Mutex
	calls []string
	state model.CollectionState
	hub   *notify.Hub[model.CollectionState]
}

func newFakeTodos(todos ...model.Todo) *fakeTodos {
	return &fakeTodos{
		state: model.CollectionState{Todos: todos},
		hub:   notify.NewHub[model.CollectionState](),
	}
}

func (f *fakeTodos) record(call string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
	return true
}

func (f *fakeTodos) FetchAll(context.Context) bool { return f.record("fetch") }
func (f *fakeTodos) Add(_ context.Context, title string) bool {
	return f.record("add " + title)
}
func (f *fakeTodos) Toggle(_ context.Context, id string, completed bool) bool {
	if completed {
		return f.record("toggle " + id + " true")
	}
	return f.record("toggle " + id + " false")
}
func (f *fakeTodos) Remove(_ context.Context, id string) bool { return f.record("remove " + id) }
func (f *fakeTodos) Snapshot() model.CollectionState         { return f.state }
func (f *fakeTodos) Subscribe(fn func(model.CollectionState)) notify.Subscription {
	return f.hub.Subscribe(fn)
}

func (f *fakeTodos) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

type fakeSession struct {
	state model.SessionState
	hub   *notify.Hub[model.SessionState]
}

func (f *fakeSession) State() model.SessionState { return f.state }
func (f *fakeSession) Subscribe(fn func(model.SessionState)) notify.Subscription {
	return f.hub.Subscribe(fn)
}

func newTestModel(todos *fakeTodos) viewModel {
	session := &fakeSession{
		state: model.SessionState{Auth: model.SignedIn{User: model.User{ID: "u1", Email: "a@b.co"}}},
		hub:   notify.NewHub[model.SessionState](),
	}
	m := newViewModel(context.Background(), session, todos)
	// A static cursor keeps Focus from returning a blink timer.
	m.input.Cursor.SetMode(cursor.CursorStatic)
	return m
}

func press(t *testing.T, m viewModel, keys ...tea.KeyMsg) viewModel {
	t.Helper()
	for _, k := range keys {
		next, cmd := m.Update(k)
		m = next.(viewModel)
		if cmd != nil {
			cmd()
		}
	}
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	keySpace = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
)

func TestViewModel_Init_Fetches(t *testing.T) {
	todos := newFakeTodos()
	m := newTestModel(todos)

	cmd := m.Init()
	require.NotNil(t, cmd)
	cmd()
	assert.Equal(t, []string{"fetch"}, todos.Calls())
}

func TestViewModel_Keys(t *testing.T) {
	items := []model.Todo{
		{ID: "t2", Title: "B", Completed: true},
		{ID: "t1", Title: "A"},
	}

	tests := []struct {
		name string
		keys []tea.KeyMsg
		want []string
	}{
		{name: "space toggles selected", keys: []tea.KeyMsg{keySpace}, want: []string{"toggle t2 true"}},
		{name: "cursor moves down", keys: []tea.KeyMsg{keyDown, keySpace}, want: []string{"toggle t1 false"}},
		{name: "d deletes", keys: []tea.KeyMsg{runes("j"), runes("d")}, want: []string{"remove t1"}},
		{name: "r refreshes", keys: []tea.KeyMsg{runes("r")}, want: []string{"fetch"}},
		{name: "add via input", keys: []tea.KeyMsg{runes("a"), runes("Milk"), keyEnter}, want: []string{"add Milk"}},
		{name: "blank add ignored", keys: []tea.KeyMsg{runes("a"), runes("  "), keyEnter}, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			todos := newFakeTodos(items...)
			press(t, newTestModel(todos), tt.keys...)
			assert.Equal(t, tt.want, todos.Calls())
		})
	}
}

func TestViewModel_CollectionMsgClampsCursor(t *testing.T) {
	todos := newFakeTodos(model.Todo{ID: "t2"}, model.Todo{ID: "t1"})
	m := press(t, newTestModel(todos), keyDown)
	require.Equal(t, 1, m.cursor)

	next, _ := m.Update(collectionMsg(model.CollectionState{Todos: []model.Todo{{ID: "t2"}}}))
	m = next.(viewModel)
	assert.Equal(t, 0, m.cursor)

	next, _ = m.Update(collectionMsg(model.CollectionState{}))
	m = next.(viewModel)
	assert.Equal(t, 0, m.cursor)
	_, ok := m.selected()
	assert.False(t, ok)
}

func TestViewModel_View(t *testing.T) {
	todos := newFakeTodos()
	m := newTestModel(todos)

	next, _ := m.Update(collectionMsg(model.CollectionState{
		Todos: []model.Todo{{ID: "t1", Title: "Buy milk"}},
		Error: "Failed to fetch todos: boom",
		Stats: model.Stats{Total: 1, Pending: 1},
	}))
	next, _ = next.Update(sessionMsg(model.SessionState{
		Auth:    model.SignedIn{User: model.User{Email: "a@b.co"}},
		Message: &model.StatusMessage{Kind: model.MessageSuccess, Text: "Signed in successfully!"},
	}))

	out := next.View()
	assert.Contains(t, out, "a@b.co")
	assert.Contains(t, out, "Buy milk")
	assert.Contains(t, out, "Failed to fetch todos: boom")
	assert.Contains(t, out, "Signed in successfully!")
	assert.Contains(t, out, "1 total")

	next, _ = next.Update(sessionMsg(model.SessionState{Auth: model.SignedOut{}}))
	assert.Contains(t, next.View(), "signed out")
}
