package service

import (
	"context"
	"crypto/sha256"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	servermocks "github.com/dtroode/tododash/internal/mocks"
	"github.com/dtroode/tododash/internal/model"
	"github.com/dtroode/tododash/internal/testutil"
)

func hashOf(s string) []byte {
	h := sha256.Sum256([]byte(s))
	return h[:]
}

func TestTokenService_Issue(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	expiresAt := time.Now().Add(time.Hour)

	manager := &servermocks.TokenManager{}
	store := &servermocks.RefreshTokenStore{}

	manager.On("GenerateAccessToken", userID).Return("access", expiresAt, nil).Once()
	manager.On("GenerateRefreshToken", userID).Return("refresh", "jti-1", nil).Once()
	store.On("Create", ctx, mock.MatchedBy(func(rt model.RefreshToken) bool {
		return rt.JTI == "jti-1" &&
			rt.UserID == userID &&
			string(rt.TokenHash) == string(hashOf("refresh")) &&
			rt.RotatedFromJTI == nil
	})).Return(nil).Once()

	svc := NewTokenService(manager, store, testutil.MakeNoopLogger())

	tokens, err := svc.Issue(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "access", tokens.AccessToken)
	assert.Equal(t, "refresh", tokens.RefreshToken)
	assert.Equal(t, expiresAt, tokens.ExpiresAt)
	store.AssertExpectations(t)
}

func TestTokenService_Issue_ManagerError(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	manager := &servermocks.TokenManager{}
	store := &servermocks.RefreshTokenStore{}

	manager.On("GenerateAccessToken", userID).Return("", time.Time{}, assert.AnError).Once()

	svc := NewTokenService(manager, store, testutil.MakeNoopLogger())

	_, err := svc.Issue(ctx, userID)
	require.ErrorIs(t, err, assert.AnError)
	store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestTokenService_Refresh_Success(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	jti := "jti-old"
	presented := "refresh-old"

	manager := &servermocks.TokenManager{}
	store := &servermocks.RefreshTokenStore{}

	manager.On("ParseRefreshToken", presented).Return(userID, jti, nil).Once()
	store.On("GetByJTI", ctx, jti).Return(model.RefreshToken{
		JTI:       jti,
		UserID:    userID,
		TokenHash: hashOf(presented),
		IssuedAt:  time.Now().Add(-time.Hour),
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil).Once()
	store.On("RevokeByJTI", ctx, jti).Return(nil).Once()
	manager.On("GenerateAccessToken", userID).Return("access-new", time.Now().Add(time.Hour), nil).Once()
	manager.On("GenerateRefreshToken", userID).Return("refresh-new", "jti-new", nil).Once()
	store.On("Create", ctx, mock.MatchedBy(func(rt model.RefreshToken) bool {
		return rt.JTI == "jti-new" && rt.RotatedFromJTI != nil && *rt.RotatedFromJTI == jti
	})).Return(nil).Once()

	svc := NewTokenService(manager, store, testutil.MakeNoopLogger())

	gotUser, tokens, err := svc.Refresh(ctx, presented)
	require.NoError(t, err)
	assert.Equal(t, userID, gotUser)
	assert.Equal(t, "access-new", tokens.AccessToken)
	assert.Equal(t, "refresh-new", tokens.RefreshToken)
	store.AssertExpectations(t)
}

func TestTokenService_Refresh_Rejected(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name    string
		record  model.RefreshToken
		wantErr error
	}{
		{
			name: "revoked",
			record: model.RefreshToken{
				TokenHash: hashOf("refresh"),
				ExpiresAt: now.Add(time.Hour),
				RevokedAt: &now,
			},
			wantErr: model.ErrTokenRevoked,
		},
		{
			name: "expired",
			record: model.RefreshToken{
				TokenHash: hashOf("refresh"),
				ExpiresAt: now.Add(-time.Minute),
			},
			wantErr: model.ErrTokenExpired,
		},
		{
			name: "mismatch",
			record: model.RefreshToken{
				TokenHash: hashOf("other"),
				ExpiresAt: now.Add(time.Hour),
			},
			wantErr: model.ErrTokenMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			userID := uuid.New()
			manager := &servermocks.TokenManager{}
			store := &servermocks.RefreshTokenStore{}

			manager.On("ParseRefreshToken", "refresh").Return(userID, "jti", nil).Once()
			store.On("GetByJTI", ctx, "jti").Return(tt.record, nil).Once()

			svc := NewTokenService(manager, store, testutil.MakeNoopLogger())

			_, _, err := svc.Refresh(ctx, "refresh")
			require.ErrorIs(t, err, tt.wantErr)
			store.AssertNotCalled(t, "RevokeByJTI", mock.Anything, mock.Anything)
		})
	}
}

func TestTokenService_Refresh_Malformed(t *testing.T) {
	manager := &servermocks.TokenManager{}
	store := &servermocks.RefreshTokenStore{}
	manager.On("ParseRefreshToken", "garbage").Return(uuid.Nil, "", assert.AnError).Once()

	svc := NewTokenService(manager, store, testutil.MakeNoopLogger())

	_, _, err := svc.Refresh(context.Background(), "garbage")
	require.ErrorIs(t, err, model.ErrInvalidRefreshToken)
}

func TestTokenService_RevokeByToken(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	manager := &servermocks.TokenManager{}
	store := &servermocks.RefreshTokenStore{}

	manager.On("ParseRefreshToken", "refresh").Return(userID, "jti", nil).Once()
	store.On("RevokeByJTI", ctx, "jti").Return(nil).Once()

	svc := NewTokenService(manager, store, testutil.MakeNoopLogger())

	require.NoError(t, svc.RevokeByToken(ctx, "refresh"))
	store.AssertExpectations(t)
}

func TestTokenService_GetUserID(t *testing.T) {
	manager := &servermocks.TokenManager{}
	store := &servermocks.RefreshTokenStore{}

	u := uuid.New()
	manager.On("ParseAccessToken", "access").Return(u, nil).Once()

	svc := NewTokenService(manager, store, testutil.MakeNoopLogger())

	got, err := svc.GetUserID(context.Background(), "access")
	require.NoError(t, err)
	assert.Equal(t, u, got)
}

func TestTokenService_RevokeAllForUser(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	manager := &servermocks.TokenManager{}
	store := &servermocks.RefreshTokenStore{}

	store.On("RevokeAllByUser", ctx, userID).Return(nil).Once()

	svc := NewTokenService(manager, store, testutil.MakeNoopLogger())

	require.NoError(t, svc.RevokeAllForUser(ctx, userID))
	store.AssertExpectations(t)
}
