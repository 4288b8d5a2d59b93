package cli

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/dtroode/tododash/internal/model"
	"github.com/dtroode/tododash/internal/session"
)

func newSignupCmd(a *App) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ok := a.root.Session.Signup(cmd.Context(), email, password)
			if err := writeOut(cmd, a, newSessionView(a.root.Session.State())); err != nil {
				return err
			}
			if !ok {
				return errFailed
			}
			return nil
		},
	}
	addCredentialFlags(cmd, &email, &password)
	return cmd
}

func newLoginCmd(a *App) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and persist the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !a.root.Session.Login(cmd.Context(), email, password) {
				if err := writeOut(cmd, a, newSessionView(a.root.Session.State())); err != nil {
					return err
				}
				return errFailed
			}

			state, err := awaitSession(cmd.Context(), a.root.Session, true, notifyTimeout)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, a, newSessionView(state))
		},
	}
	addCredentialFlags(cmd, &email, &password)
	return cmd
}

func newLogoutCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !a.root.Session.Logout(cmd.Context()) {
				if err := writeOut(cmd, a, newSessionView(a.root.Session.State())); err != nil {
					return err
				}
				return errFailed
			}

			state, err := awaitSession(cmd.Context(), a.root.Session, false, notifyTimeout)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, a, newSessionView(state))
		},
	}
}

func newWhoamiCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writeOut(cmd, a, newSessionView(a.root.Session.State()))
		},
	}
}

func addCredentialFlags(cmd *cobra.Command, email, password *string) {
	cmd.Flags().StringVar(email, "email", "", "Account email")
	cmd.Flags().StringVar(password, "password", "", "Account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
}

// awaitSession waits for the session-change notification that follows a
// successful sign in or sign out.
func awaitSession(ctx context.Context, m *session.Manager, signedIn bool, timeout time.Duration) (model.SessionState, error) {
	reached := func(s model.SessionState) bool {
		_, in := s.Auth.(model.SignedIn)
		return in == signedIn
	}

	done := make(chan model.SessionState, 1)
	sub := m.Subscribe(func(s model.SessionState) {
		if reached(s) {
			select {
			case done <- s:
			default:
			}
		}
	})
	defer sub.Unsubscribe()

	if s := m.State(); reached(s) {
		return s, nil
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case s := <-done:
		return s, nil
	case <-timer.C:
		return m.State(), errors.New("timed out waiting for session change")
	case <-ctx.Done():
		return m.State(), ctx.Err()
	}
}
