package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dtroode/tododash/internal/model"
)

var _ model.Gateway = (*Gateway)(nil)

// Gateway is a mock of model.Gateway.
type Gateway struct {
	mock.Mock
}

func (m *Gateway) GetSession(ctx context.Context) (*model.Session, error) {
	args := m.Called(ctx)
	var s *model.Session
	if v := args.Get(0); v != nil {
		s = v.(*model.Session)
	}
	return s, args.Error(1)
}

func (m *Gateway) OnSessionChange(fn func(*model.Session)) model.Subscription {
	args := m.Called(fn)
	return args.Get(0).(model.Subscription)
}

func (m *Gateway) SignIn(ctx context.Context, email, password string) error {
	args := m.Called(ctx, email, password)
	return args.Error(0)
}

func (m *Gateway) SignUp(ctx context.Context, email, password string) error {
	args := m.Called(ctx, email, password)
	return args.Error(0)
}

func (m *Gateway) SignOut(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *Gateway) SelectAll(ctx context.Context, table string, order model.Order) ([]model.Row, error) {
	args := m.Called(ctx, table, order)
	var rows []model.Row
	if v := args.Get(0); v != nil {
		rows = v.([]model.Row)
	}
	return rows, args.Error(1)
}

func (m *Gateway) Insert(ctx context.Context, table string, rows ...model.Row) ([]model.Row, error) {
	args := m.Called(ctx, table, rows)
	var out []model.Row
	if v := args.Get(0); v != nil {
		out = v.([]model.Row)
	}
	return out, args.Error(1)
}

func (m *Gateway) UpdateByKey(ctx context.Context, table string, key model.Key, patch model.Row) error {
	args := m.Called(ctx, table, key, patch)
	return args.Error(0)
}

func (m *Gateway) DeleteByKey(ctx context.Context, table string, key model.Key) error {
	args := m.Called(ctx, table, key)
	return args.Error(0)
}

func (m *Gateway) Close() error {
	args := m.Called()
	return args.Error(0)
}

// Subscription is a mock of model.Subscription.
type Subscription struct {
	mock.Mock
}

func (m *Subscription) Unsubscribe() {
	m.Called()
}
