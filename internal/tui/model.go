// Package tui is a live terminal view over the session manager and the
// todo store.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dtroode/tododash/internal/model"
	"github.com/dtroode/tododash/internal/notify"
)

// Todos is the part of the todo store driven by the view.
type Todos interface {
	FetchAll(ctx context.Context) bool
	Add(ctx context.Context, title string) bool
	Toggle(ctx context.Context, id string, currentCompleted bool) bool
	Remove(ctx context.Context, id string) bool
	Snapshot() model.CollectionState
	Subscribe(fn func(model.CollectionState)) notify.Subscription
}

// Session is the part of the session manager observed by the view.
type Session interface {
	State() model.SessionState
	Subscribe(fn func(model.SessionState)) notify.Subscription
}

type sessionMsg model.SessionState

type collectionMsg model.CollectionState

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	faintStyle   = lipgloss.NewStyle().Faint(true)
	cursorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	doneStyle    = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
)

type viewModel struct {
	ctx   context.Context
	todos Todos

	session    model.SessionState
	collection model.CollectionState

	input  textinput.Model
	cursor int
}

func newViewModel(ctx context.Context, session Session, todos Todos) viewModel {
	input := textinput.New()
	input.Placeholder = "What needs to be done?"
	input.CharLimit = 200

	return viewModel{
		ctx:        ctx,
		todos:      todos,
		session:    session.State(),
		collection: todos.Snapshot(),
		input:      input,
	}
}

func (m viewModel) Init() tea.Cmd {
	return m.run(func(ctx context.Context) { m.todos.FetchAll(ctx) })
}

// run executes a store operation off the update loop. Its result reaches
// the view through the store subscription.
func (m viewModel) run(op func(ctx context.Context)) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		op(ctx)
		return nil
	}
}

func (m viewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case sessionMsg:
		m.session = model.SessionState(msg)
		return m, nil
	case collectionMsg:
		m.collection = model.CollectionState(msg)
		m.clampCursor()
		return m, nil
	case tea.KeyMsg:
		if m.input.Focused() {
			return m.updateInput(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m viewModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		m.input.Blur()
		m.input.SetValue("")
		return m, nil
	case tea.KeyEnter:
		title := m.input.Value()
		m.input.SetValue("")
		m.input.Blur()
		if strings.TrimSpace(title) == "" {
			return m, nil
		}
		return m, m.run(func(ctx context.Context) { m.todos.Add(ctx, title) })
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m viewModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "a", "i":
		return m, m.input.Focus()
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.collection.Todos)-1 {
			m.cursor++
		}
	case "r":
		return m, m.run(func(ctx context.Context) { m.todos.FetchAll(ctx) })
	case " ":
		if t, ok := m.selected(); ok {
			return m, m.run(func(ctx context.Context) { m.todos.Toggle(ctx, t.ID, t.Completed) })
		}
	case "d":
		if t, ok := m.selected(); ok {
			return m, m.run(func(ctx context.Context) { m.todos.Remove(ctx, t.ID) })
		}
	}
	return m, nil
}

func (m viewModel) selected() (model.Todo, bool) {
	if m.cursor < 0 || m.cursor >= len(m.collection.Todos) {
		return model.Todo{}, false
	}
	return m.collection.Todos[m.cursor], true
}

func (m *viewModel) clampCursor() {
	if m.cursor >= len(m.collection.Todos) {
		m.cursor = len(m.collection.Todos) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m viewModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Todos"))
	b.WriteString("  ")
	b.WriteString(faintStyle.Render(m.identity()))
	b.WriteString("\n\n")

	if m.collection.Loading || m.session.Loading {
		b.WriteString(faintStyle.Render("loading..."))
		b.WriteString("\n")
	}
	if msg := m.session.Message; msg != nil {
		style := successStyle
		if msg.Kind == model.MessageError {
			style = errorStyle
		}
		b.WriteString(style.Render(msg.Text))
		b.WriteString("\n")
	}
	if m.collection.Error != "" {
		b.WriteString(errorStyle.Render(m.collection.Error))
		b.WriteString("\n")
	}

	if len(m.collection.Todos) == 0 {
		b.WriteString(faintStyle.Render("No todos yet."))
		b.WriteString("\n")
	}
	for i, t := range m.collection.Todos {
		b.WriteString(m.renderTodo(i, t))
		b.WriteString("\n")
	}

	s := m.collection.Stats
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%d total  %d completed  %d pending  %d%%",
		s.Total, s.Completed, s.Pending, s.CompletionRate))
	b.WriteString("\n\n")

	if m.input.Focused() {
		b.WriteString(m.input.View())
		b.WriteString("\n")
		b.WriteString(faintStyle.Render("enter: add  esc: cancel"))
	} else {
		b.WriteString(faintStyle.Render("a: add  space: toggle  d: delete  r: refresh  q: quit"))
	}
	return b.String()
}

func (m viewModel) identity() string {
	if in, ok := m.session.Auth.(model.SignedIn); ok {
		return in.User.Email
	}
	return "signed out"
}

func (m viewModel) renderTodo(i int, t model.Todo) string {
	box := "[ ]"
	title := t.Title
	if t.Completed {
		box = "[x]"
		title = doneStyle.Render(title)
	}

	line := fmt.Sprintf("%s %s", box, title)
	if i == m.cursor {
		return cursorStyle.Render(">") + " " + line
	}
	return "  " + line
}
