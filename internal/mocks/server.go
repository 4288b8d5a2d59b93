package mocks

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/tododash/internal/model"
)

// TokenManager is a mock of model.TokenManager.
type TokenManager struct {
	mock.Mock
}

func (m *TokenManager) GenerateAccessToken(userID uuid.UUID) (string, time.Time, error) {
	args := m.Called(userID)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *TokenManager) GenerateRefreshToken(userID uuid.UUID) (string, string, error) {
	args := m.Called(userID)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *TokenManager) ParseAccessToken(token string) (uuid.UUID, error) {
	args := m.Called(token)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *TokenManager) ParseRefreshToken(token string) (uuid.UUID, string, error) {
	args := m.Called(token)
	return args.Get(0).(uuid.UUID), args.String(1), args.Error(2)
}

// RefreshTokenStore is a mock of model.RefreshTokenStore.
type RefreshTokenStore struct {
	mock.Mock
}

func (m *RefreshTokenStore) Create(ctx context.Context, token model.RefreshToken) error {
	return m.Called(ctx, token).Error(0)
}

func (m *RefreshTokenStore) GetByJTI(ctx context.Context, jti string) (model.RefreshToken, error) {
	args := m.Called(ctx, jti)
	return args.Get(0).(model.RefreshToken), args.Error(1)
}

func (m *RefreshTokenStore) RevokeByJTI(ctx context.Context, jti string) error {
	return m.Called(ctx, jti).Error(0)
}

func (m *RefreshTokenStore) RevokeAllByUser(ctx context.Context, userID uuid.UUID) error {
	return m.Called(ctx, userID).Error(0)
}

// UserStore is a mock of model.UserStore.
type UserStore struct {
	mock.Mock
}

func (m *UserStore) GetByEmail(ctx context.Context, email string) (model.UserRecord, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(model.UserRecord), args.Error(1)
}

func (m *UserStore) GetByID(ctx context.Context, id uuid.UUID) (model.UserRecord, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.UserRecord), args.Error(1)
}

func (m *UserStore) Create(ctx context.Context, user model.UserRecord) (model.UserRecord, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(model.UserRecord), args.Error(1)
}

// TodoStore is a mock of model.TodoStore.
type TodoStore struct {
	mock.Mock
}

func (m *TodoStore) Create(ctx context.Context, todo model.TodoRecord) (model.TodoRecord, error) {
	args := m.Called(ctx, todo)
	return args.Get(0).(model.TodoRecord), args.Error(1)
}

func (m *TodoStore) ListByOwner(ctx context.Context, ownerID uuid.UUID, ascending bool) ([]model.TodoRecord, error) {
	args := m.Called(ctx, ownerID, ascending)
	var out []model.TodoRecord
	if v := args.Get(0); v != nil {
		out = v.([]model.TodoRecord)
	}
	return out, args.Error(1)
}

func (m *TodoStore) SetCompleted(ctx context.Context, ownerID uuid.UUID, id uuid.UUID, completed bool) (int64, error) {
	args := m.Called(ctx, ownerID, id, completed)
	return args.Get(0).(int64), args.Error(1)
}

func (m *TodoStore) Delete(ctx context.Context, ownerID uuid.UUID, id uuid.UUID) (int64, error) {
	args := m.Called(ctx, ownerID, id)
	return args.Get(0).(int64), args.Error(1)
}

// Storage is a mock of model.Storage.
type Storage struct {
	mock.Mock
}

func (m *Storage) Upload(ctx context.Context, key string, reader io.Reader) error {
	return m.Called(ctx, key, reader).Error(0)
}

var (
	_ model.TokenManager      = (*TokenManager)(nil)
	_ model.RefreshTokenStore = (*RefreshTokenStore)(nil)
	_ model.UserStore         = (*UserStore)(nil)
	_ model.TodoStore         = (*TodoStore)(nil)
	_ model.Storage           = (*Storage)(nil)
)
