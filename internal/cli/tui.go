package cli

import (
	"github.com/spf13/cobra"

	"github.com/dtroode/tododash/internal/tui"
)

func newTUICmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Interactive live view of the todos",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return tui.Run(cmd.Context(), a.root.Session, a.root.Todos)
		},
	}
}
