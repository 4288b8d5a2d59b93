package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dtroode/tododash/internal/model"
)

// Run shows the dashboard until the user quits. State changes of both
// stores are forwarded to the program as messages.
func Run(ctx context.Context, session Session, todos Todos, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)
	p := tea.NewProgram(newViewModel(ctx, session, todos), opts...)

	sessionSub := session.Subscribe(func(s model.SessionState) { p.Send(sessionMsg(s)) })
	defer sessionSub.Unsubscribe()
	todosSub := todos.Subscribe(func(s model.CollectionState) { p.Send(collectionMsg(s)) })
	defer todosSub.Unsubscribe()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run tui: %w", err)
	}
	return nil
}
