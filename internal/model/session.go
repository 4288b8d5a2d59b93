package model

import "time"

// Session is an authenticated session as reported by the gateway.
type Session struct {
	User         User      `json:"user"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Expired reports whether the access token has expired at now.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// AuthState is either SignedOut or SignedIn.
type AuthState interface {
	isAuthState()
}

// SignedOut means no user is authenticated.
type SignedOut struct{}

// SignedIn carries the authenticated user.
type SignedIn struct {
	User User
}

func (SignedOut) isAuthState() {}
func (SignedIn) isAuthState()  {}

// AuthStateOf converts an optional gateway session into an AuthState.
func AuthStateOf(s *Session) AuthState {
	if s == nil {
		return SignedOut{}
	}
	return SignedIn{User: s.User}
}

// MessageKind classifies a StatusMessage.
type MessageKind string

const (
	MessageSuccess MessageKind = "success"
	MessageError   MessageKind = "error"
)

// StatusMessage is a transient user-facing message.
type StatusMessage struct {
	Kind MessageKind `json:"kind"`
	Text string      `json:"text"`
}

// SessionState is an observable snapshot of the session manager.
type SessionState struct {
	Auth    AuthState
	Loading bool
	Message *StatusMessage
}

// IdentityProvider exposes the current user identity and nothing else.
type IdentityProvider interface {
	CurrentUser() (User, bool)
}
