package cli

import (
	"github.com/spf13/cobra"

	"github.com/dtroode/tododash/internal/model"
)

func newExportCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Archive the signed-in user's todos to object storage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			key, err := a.backend.Export(cmd.Context(), model.TodosTable)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, a, map[string]any{"key": key})
		},
	}
}
