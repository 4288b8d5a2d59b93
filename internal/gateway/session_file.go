package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dtroode/tododash/internal/model"
)

// SessionFile persists the current session between dashboard runs.
// An empty path keeps the session in memory only.
type SessionFile struct {
	path string
}

// NewSessionFile creates a SessionFile at path.
func NewSessionFile(path string) *SessionFile {
	return &SessionFile{path: path}
}

// Load reads the persisted session. A missing file yields nil.
func (f *SessionFile) Load() (*model.Session, error) {
	if f.path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var s model.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to decode session file: %w", err)
	}
	if s.AccessToken == "" {
		return nil, nil
	}
	if s.ExpiresAt.IsZero() {
		exp, err := tokenExpiry(s.AccessToken)
		if err != nil {
			return nil, err
		}
		s.ExpiresAt = exp
	}

	return &s, nil
}

// Save writes s, or removes the file when s is nil.
func (f *SessionFile) Save(s *model.Session) error {
	if f.path == "" {
		return nil
	}
	if s == nil {
		if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to remove session file: %w", err)
		}
		return nil
	}

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("failed to create session dir: %w", err)
	}
	if err := os.WriteFile(f.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

// tokenExpiry reads the exp claim of an access token without verifying it.
// The signature is the server's concern; the client only needs to know
// when to stop presenting the token.
func tokenExpiry(token string) (time.Time, error) {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, fmt.Errorf("failed to parse access token: %w", err)
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, fmt.Errorf("access token has no expiry")
	}
	return claims.ExpiresAt.Time, nil
}
