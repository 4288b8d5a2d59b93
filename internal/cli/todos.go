package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dtroode/tododash/internal/model"
)

func newTodosCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "todos",
		Short: "List and edit todos",
	}
	cmd.AddCommand(newTodosListCmd(a))
	cmd.AddCommand(newTodosAddCmd(a))
	cmd.AddCommand(newTodosToggleCmd(a))
	cmd.AddCommand(newTodosRemoveCmd(a))
	return cmd
}

func newTodosListCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Fetch every todo, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ok := a.root.Todos.FetchAll(cmd.Context())
			return finish(cmd, a, ok)
		},
	}
}

func newTodosAddCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add <title>",
		Short: "Add a todo",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.Join(args, " ")
			if strings.TrimSpace(title) == "" {
				return writeErr(cmd, fmt.Errorf("title must not be blank"))
			}
			if !a.root.Todos.FetchAll(cmd.Context()) {
				return finish(cmd, a, false)
			}
			return finish(cmd, a, a.root.Todos.Add(cmd.Context(), title))
		},
	}
}

func newTodosToggleCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Flip the completed flag of a todo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.root.Todos.FetchAll(cmd.Context()) {
				return finish(cmd, a, false)
			}
			todo, ok := findTodo(a.root.Todos.Todos(), args[0])
			if !ok {
				return writeErr(cmd, fmt.Errorf("todo %s not found", args[0]))
			}
			return finish(cmd, a, a.root.Todos.Toggle(cmd.Context(), todo.ID, todo.Completed))
		},
	}
}

func newTodosRemoveCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"remove"},
		Short:   "Delete a todo",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.root.Todos.FetchAll(cmd.Context()) {
				return finish(cmd, a, false)
			}
			return finish(cmd, a, a.root.Todos.Remove(cmd.Context(), args[0]))
		},
	}
}

func newStatsCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show completion statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !a.root.Todos.FetchAll(cmd.Context()) {
				return finish(cmd, a, false)
			}
			return writeOut(cmd, a, a.root.Todos.Stats())
		},
	}
}

func finish(cmd *cobra.Command, a *App, ok bool) error {
	if err := writeOut(cmd, a, newCollectionView(a.root.Todos.Snapshot())); err != nil {
		return err
	}
	if !ok {
		return errFailed
	}
	return nil
}

func findTodo(todos []model.Todo, id string) (model.Todo, bool) {
	for _, t := range todos {
		if t.ID == id {
			return t, true
		}
	}
	return model.Todo{}, false
}
