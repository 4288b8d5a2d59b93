// Package session owns the authenticated identity of the dashboard process.
//
// The Manager mediates every authentication operation against the remote
// gateway and follows the gateway's session-change notifications. The user
// is only ever changed by a gateway-confirmed event: Login returning true
// does not mean the user is already set, the notification that follows a
// successful sign-in does that.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/dtroode/tododash/internal/logger"
	"github.com/dtroode/tododash/internal/model"
	"github.com/dtroode/tododash/internal/notify"
)

// User-facing success messages.
const (
	MessageSignedIn   = "Signed in successfully!"
	MessageCheckEmail = "Check your email for the confirmation link!"
	MessageLoggedOut  = "Logged out successfully!"
)

var _ model.IdentityProvider = (*Manager)(nil)

// Manager holds the session state: auth, loading flag and status message.
type Manager struct {
	gateway model.AuthGateway
	logger  *logger.Logger
	hub     *notify.Hub[model.SessionState]

	mu      sync.Mutex
	auth    model.AuthState
	loading bool
	message *model.StatusMessage
	sub     model.Subscription
}

// NewManager creates a signed-out Manager. Call Initialize to attach it to the gateway.
func NewManager(gateway model.AuthGateway, logger *logger.Logger) *Manager {
	return &Manager{
		gateway: gateway,
		logger:  logger,
		hub:     notify.NewHub[model.SessionState](),
		auth:    model.SignedOut{},
	}
}

// Initialize registers for session-change notifications and restores an
// already valid session, if any. Calling it twice is a no-op.
func (m *Manager) Initialize(ctx context.Context) {
	m.mu.Lock()
	if m.sub != nil {
		m.mu.Unlock()
		return
	}
	m.sub = m.gateway.OnSessionChange(m.handleSessionChange)
	m.mu.Unlock()

	m.checkCurrentSession(ctx)
}

// Close releases the session-change subscription.
func (m *Manager) Close() {
	m.mu.Lock()
	sub := m.sub
	m.sub = nil
	m.mu.Unlock()

	if sub != nil {
		sub.Unsubscribe()
	}
}

// Login signs in with email and password. The user is set asynchronously
// by the session-change notification, not by this call.
func (m *Manager) Login(ctx context.Context, email, password string) bool {
	m.begin()
	defer m.setLoading(false)

	if err := m.gateway.SignIn(ctx, email, password); err != nil {
		m.logger.Info("Session manager: sign in failed", "email", email, "error", err.Error())
		m.setMessage(&model.StatusMessage{Kind: model.MessageError, Text: err.Error()})
		return false
	}

	return true
}

// Signup registers a new account. On success the user is asked to confirm by email.
func (m *Manager) Signup(ctx context.Context, email, password string) bool {
	m.begin()
	defer m.setLoading(false)

	if err := m.gateway.SignUp(ctx, email, password); err != nil {
		m.logger.Info("Session manager: sign up failed", "email", email, "error", err.Error())
		m.setMessage(&model.StatusMessage{Kind: model.MessageError, Text: err.Error()})
		return false
	}

	m.setMessage(&model.StatusMessage{Kind: model.MessageSuccess, Text: MessageCheckEmail})
	return true
}

// Logout signs out. Loading is toggled the same way as for Login and Signup.
// The user is cleared by the session-change notification.
func (m *Manager) Logout(ctx context.Context) bool {
	m.begin()
	defer m.setLoading(false)

	if err := m.gateway.SignOut(ctx); err != nil {
		m.logger.Info("Session manager: sign out failed", "error", err.Error())
		m.setMessage(&model.StatusMessage{Kind: model.MessageError, Text: err.Error()})
		return false
	}

	m.setMessage(&model.StatusMessage{Kind: model.MessageSuccess, Text: MessageLoggedOut})
	return true
}

// State returns a snapshot of the current session state.
func (m *Manager) State() model.SessionState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stateLocked()
}

// CurrentUser returns the signed-in user, if any.
func (m *Manager) CurrentUser() (model.User, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch a := m.auth.(type) {
	case model.SignedIn:
		return a.User, true
	case model.SignedOut:
		return model.User{}, false
	default:
		panic(fmt.Sprintf("session: unknown auth state %T", a))
	}
}

// Subscribe registers fn to be called with the new state after every change.
func (m *Manager) Subscribe(fn func(model.SessionState)) notify.Subscription {
	return m.hub.Subscribe(fn)
}

func (m *Manager) handleSessionChange(s *model.Session) {
	m.update(func() {
		m.auth = model.AuthStateOf(s)
		if s != nil {
			m.message = &model.StatusMessage{Kind: model.MessageSuccess, Text: MessageSignedIn}
		}
	})
}

func (m *Manager) checkCurrentSession(ctx context.Context) {
	s, err := m.gateway.GetSession(ctx)
	if err != nil {
		m.logger.Warn("Session manager: failed to check current session", "error", err.Error())
		return
	}
	if s == nil {
		return
	}

	m.update(func() {
		m.auth = model.SignedIn{User: s.User}
	})
}

func (m *Manager) begin() {
	m.update(func() {
		m.loading = true
		m.message = nil
	})
}

func (m *Manager) setLoading(loading bool) {
	m.update(func() { m.loading = loading })
}

func (m *Manager) setMessage(msg *model.StatusMessage) {
	m.update(func() { m.message = msg })
}

func (m *Manager) update(fn func()) {
	m.mu.Lock()
	fn()
	st := m.stateLocked()
	m.mu.Unlock()

	m.hub.Publish(st)
}

func (m *Manager) stateLocked() model.SessionState {
	st := model.SessionState{Auth: m.auth, Loading: m.loading}
	if m.message != nil {
		msg := *m.message
		st.Message = &msg
	}
	return st
}
