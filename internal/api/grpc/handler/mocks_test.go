package handler

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/tododash/internal/model"
	"github.com/dtroode/tododash/internal/service"
)

type authServiceMock struct {
	mock.Mock
}

func (m *authServiceMock) SignUp(ctx context.Context, email, password string) error {
	return m.Called(ctx, email, password).Error(0)
}

func (m *authServiceMock) SignIn(ctx context.Context, email, password string) (service.AuthSession, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(service.AuthSession), args.Error(1)
}

func (m *authServiceMock) SignOut(ctx context.Context, userID uuid.UUID, refreshToken string) error {
	return m.Called(ctx, userID, refreshToken).Error(0)
}

func (m *authServiceMock) Refresh(ctx context.Context, refreshToken string) (service.AuthSession, error) {
	args := m.Called(ctx, refreshToken)
	return args.Get(0).(service.AuthSession), args.Error(1)
}

func (m *authServiceMock) GetUser(ctx context.Context, userID uuid.UUID) (model.User, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(model.User), args.Error(1)
}

type tablesServiceMock struct {
	mock.Mock
}

func (m *tablesServiceMock) Select(ctx context.Context, caller uuid.UUID, table, orderBy string, ascending bool) ([]model.Row, error) {
	args := m.Called(ctx, caller, table, orderBy, ascending)
	var rows []model.Row
	if v := args.Get(0); v != nil {
		rows = v.([]model.Row)
	}
	return rows, args.Error(1)
}

func (m *tablesServiceMock) Insert(ctx context.Context, caller uuid.UUID, table string, rows []model.Row) ([]model.Row, error) {
	args := m.Called(ctx, caller, table, rows)
	var out []model.Row
	if v := args.Get(0); v != nil {
		out = v.([]model.Row)
	}
	return out, args.Error(1)
}

func (m *tablesServiceMock) Update(ctx context.Context, caller uuid.UUID, table string, key model.Key, patch model.Row) error {
	return m.Called(ctx, caller, table, key, patch).Error(0)
}

func (m *tablesServiceMock) Delete(ctx context.Context, caller uuid.UUID, table string, key model.Key) error {
	return m.Called(ctx, caller, table, key).Error(0)
}

func (m *tablesServiceMock) Export(ctx context.Context, caller uuid.UUID, table string) (string, error) {
	args := m.Called(ctx, caller, table)
	return args.String(0), args.Error(1)
}
