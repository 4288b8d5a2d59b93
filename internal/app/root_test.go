package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/tododash/internal/mocks"
	"github.com/dtroode/tododash/internal/model"
	"github.com/dtroode/tododash/internal/testutil"
)

func TestRoot_StoreStampsSessionUser(t *testing.T) {
	gw := &mocks.Gateway{}
	sub := &mocks.Subscription{}
	gw.On("OnSessionChange", mock.Anything).Return(sub)
	gw.On("GetSession", mock.Anything).Return(&model.Session{User: model.User{ID: "u-7", Email: "x@y.z"}}, nil)
	gw.On("Insert", mock.Anything, "todos", []model.Row{{"title": "t", "completed": false, "user_id": "u-7"}}).
		Return([]model.Row{{"id": "1", "title": "t", "completed": false, "created_at": "T1"}}, nil)

	r := New(gw, testutil.MakeNoopLogger())
	r.Start(context.Background())

	require.True(t, r.Todos.Add(context.Background(), "t"))
	gw.AssertExpectations(t)
}

func TestRoot_Close(t *testing.T) {
	gw := &mocks.Gateway{}
	sub := &mocks.Subscription{}
	gw.On("OnSessionChange", mock.Anything).Return(sub)
	gw.On("GetSession", mock.Anything).Return(nil, nil)
	gw.On("Close").Return(errors.New("conn reset")).Once()
	sub.On("Unsubscribe").Return().Once()

	r := New(gw, testutil.MakeNoopLogger())
	r.Start(context.Background())

	err := r.Close()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to close gateway")

	assert.NoError(t, r.Close())
	sub.AssertExpectations(t)
	gw.AssertNumberOfCalls(t, "Close", 1)
}
