package service

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/tododash/internal/logger"
	"github.com/dtroode/tododash/internal/model"
	"github.com/dtroode/tododash/internal/token"
)

// Tokens is a freshly issued access/refresh pair.
type Tokens struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// TokenService provides high-level operations for issuing, refreshing,
// and revoking tokens. It composes the TokenManager and RefreshTokenStore.
type TokenService struct {
	manager model.TokenManager
	store   model.RefreshTokenStore
	logger  *logger.Logger
}

func NewTokenService(manager model.TokenManager, store model.RefreshTokenStore, logger *logger.Logger) *TokenService {
	return &TokenService{manager: manager, store: store, logger: logger}
}

// Issue creates a new token pair for userID and persists the refresh token.
func (s *TokenService) Issue(ctx context.Context, userID uuid.UUID) (Tokens, error) {
	return s.issue(ctx, userID, nil)
}

// Refresh rotates a presented refresh token into a new pair.
func (s *TokenService) Refresh(ctx context.Context, presentedRefresh string) (uuid.UUID, Tokens, error) {
	userID, jti, err := s.manager.ParseRefreshToken(presentedRefresh)
	if err != nil {
		return uuid.Nil, Tokens{}, fmt.Errorf("%w: %w", model.ErrInvalidRefreshToken, err)
	}

	rt, err := s.store.GetByJTI(ctx, jti)
	if err != nil {
		return uuid.Nil, Tokens{}, err
	}

	if err := validateRecord(rt, hashRefresh(presentedRefresh), time.Now()); err != nil {
		s.logger.Info("Token service: refresh rejected",
			"user_id", userID,
			"jti", jti,
			"error", err.Error())
		return uuid.Nil, Tokens{}, err
	}

	if err := s.store.RevokeByJTI(ctx, jti); err != nil {
		return uuid.Nil, Tokens{}, fmt.Errorf("failed to revoke old refresh token: %w", err)
	}

	rotatedFrom := rt.JTI
	tokens, err := s.issue(ctx, userID, &rotatedFrom)
	if err != nil {
		return uuid.Nil, Tokens{}, err
	}
	return userID, tokens, nil
}

func (s *TokenService) issue(ctx context.Context, userID uuid.UUID, rotatedFrom *string) (Tokens, error) {
	access, expiresAt, err := s.manager.GenerateAccessToken(userID)
	if err != nil {
		return Tokens{}, fmt.Errorf("failed to issue access token: %w", err)
	}

	refresh, jti, err := s.manager.GenerateRefreshToken(userID)
	if err != nil {
		return Tokens{}, fmt.Errorf("failed to issue refresh token: %w", err)
	}

	now := time.Now()
	rt := model.RefreshToken{
		ID:             uuid.New(),
		JTI:            jti,
		UserID:         userID,
		TokenHash:      hashRefresh(refresh),
		IssuedAt:       now,
		ExpiresAt:      now.Add(token.RefreshTTL),
		RotatedFromJTI: rotatedFrom,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.store.Create(ctx, rt); err != nil {
		return Tokens{}, fmt.Errorf("failed to persist refresh token: %w", err)
	}

	return Tokens{AccessToken: access, RefreshToken: refresh, ExpiresAt: expiresAt}, nil
}

// RevokeByToken revokes a presented refresh token.
func (s *TokenService) RevokeByToken(ctx context.Context, presentedRefresh string) error {
	_, jti, err := s.manager.ParseRefreshToken(presentedRefresh)
	if err != nil {
		return fmt.Errorf("%w: %w", model.ErrInvalidRefreshToken, err)
	}
	return s.store.RevokeByJTI(ctx, jti)
}

func (s *TokenService) RevokeAllForUser(ctx context.Context, userID uuid.UUID) error {
	return s.store.RevokeAllByUser(ctx, userID)
}

// GetUserID resolves the owner of an access token.
func (s *TokenService) GetUserID(_ context.Context, accessToken string) (uuid.UUID, error) {
	return s.manager.ParseAccessToken(accessToken)
}

func hashRefresh(token string) []byte {
	h := sha256.Sum256([]byte(token))
	return h[:]
}

func validateRecord(rt model.RefreshToken, presentedHash []byte, now time.Time) error {
	if rt.RevokedAt != nil {
		return model.ErrTokenRevoked
	}
	if now.After(rt.ExpiresAt) {
		return model.ErrTokenExpired
	}
	if subtle.ConstantTimeCompare(rt.TokenHash, presentedHash) != 1 {
		return model.ErrTokenMismatch
	}
	return nil
}
