// Package cli implements the dashboard command line.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/dtroode/tododash/internal/app"
	"github.com/dtroode/tododash/internal/config"
	"github.com/dtroode/tododash/internal/gateway"
	"github.com/dtroode/tododash/internal/logger"
	"github.com/dtroode/tododash/internal/model"
)

const notifyTimeout = 2 * time.Second

// App carries the flags and the composition root of one invocation.
type App struct {
	EnvFile    string
	PrettyJSON bool

	// dial is replaced in tests.
	dial func(cfg *config.Dashboard, l *logger.Logger) (Backend, error)

	backend Backend
	root    *app.Root
}

// Backend is the gateway as used by the command line.
type Backend interface {
	model.Gateway
	Export(ctx context.Context, table string) (string, error)
}

// Execute runs the dashboard command line and releases the composition
// root afterwards, whether or not the command succeeded.
func Execute(ctx context.Context, args []string) error {
	a := &App{dial: dialGateway}
	defer func() { _ = a.close() }()

	cmd := newRootCmd(a)
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}

func newRootCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "dashboard",
		Short:         "Todo dashboard client",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		if err := a.open(cmd.Context()); err != nil {
			return writeErr(cmd, err)
		}
		return nil
	}

	cmd.PersistentFlags().StringVar(&a.EnvFile, "env-file", ".env", "Path to an optional .env file")
	cmd.PersistentFlags().BoolVar(&a.PrettyJSON, "pretty", false, "Pretty-print JSON output")

	cmd.AddCommand(newSignupCmd(a))
	cmd.AddCommand(newLoginCmd(a))
	cmd.AddCommand(newLogoutCmd(a))
	cmd.AddCommand(newWhoamiCmd(a))
	cmd.AddCommand(newTodosCmd(a))
	cmd.AddCommand(newStatsCmd(a))
	cmd.AddCommand(newExportCmd(a))
	cmd.AddCommand(newTUICmd(a))

	return cmd
}

func (a *App) open(ctx context.Context) error {
	cfg, err := config.NewDashboard(a.EnvFile)
	if err != nil {
		return err
	}

	l := logger.NewWithWriter(os.Stderr, cfg.LogLevel)
	backend, err := a.dial(cfg, l)
	if err != nil {
		return err
	}

	a.backend = backend
	a.root = app.New(backend, l)
	a.root.Start(ctx)
	return nil
}

func (a *App) close() error {
	if a.root == nil {
		return nil
	}
	err := a.root.Close()
	a.root = nil
	return err
}

func dialGateway(cfg *config.Dashboard, l *logger.Logger) (Backend, error) {
	sessionFile := cfg.SessionFile
	if sessionFile == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve config dir: %w", err)
		}
		sessionFile = filepath.Join(dir, "tododash", "session.json")
	}

	client, err := gateway.Dial(gateway.Config{
		Target:      cfg.ServiceURL,
		AccessKey:   cfg.AccessKey,
		UseTLS:      cfg.UseTLS,
		SessionFile: sessionFile,
	}, l)
	if err != nil {
		return nil, err
	}
	return client, nil
}

func writeOut(cmd *cobra.Command, a *App, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	if a.PrettyJSON {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
