package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/tododash/internal/mocks"
	"github.com/dtroode/tododash/internal/model"
	"github.com/dtroode/tododash/internal/testutil"
)

// setup returns a manager whose gateway captures the session-change callback.
func setup(t *testing.T) (*Manager, *mocks.Gateway, *mocks.Subscription, func() func(*model.Session)) {
	t.Helper()

	gw := &mocks.Gateway{}
	sub := &mocks.Subscription{}

	var (
		mu sync.Mutex
		cb func(*model.Session)
	)
	gw.On("OnSessionChange", mock.Anything).Run(func(args mock.Arguments) {
		mu.Lock()
		defer mu.Unlock()
		cb = args.Get(0).(func(*model.Session))
	}).Return(sub).Once()

	callback := func() func(*model.Session) {
		mu.Lock()
		defer mu.Unlock()
		return cb
	}

	return NewManager(gw, testutil.MakeNoopLogger()), gw, sub, callback
}

func testSession() *model.Session {
	return &model.Session{
		User:        model.User{ID: "u-1", Email: "a@b.com"},
		AccessToken: "token",
		ExpiresAt:   time.Now().Add(time.Hour),
	}
}

func TestManager_InitialState(t *testing.T) {
	m := NewManager(&mocks.Gateway{}, testutil.MakeNoopLogger())

	st := m.State()
	assert.Equal(t, model.SignedOut{}, st.Auth)
	assert.False(t, st.Loading)
	assert.Nil(t, st.Message)

	_, ok := m.CurrentUser()
	assert.False(t, ok)
}

func TestManager_Initialize_RestoresSession(t *testing.T) {
	m, gw, _, _ := setup(t)
	gw.On("GetSession", mock.Anything).Return(testSession(), nil)

	m.Initialize(context.Background())

	user, ok := m.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, "u-1", user.ID)
	assert.Nil(t, m.State().Message)
	gw.AssertExpectations(t)
}

func TestManager_Initialize_NoSession(t *testing.T) {
	m, gw, _, _ := setup(t)
	gw.On("GetSession", mock.Anything).Return(nil, nil)

	m.Initialize(context.Background())

	assert.Equal(t, model.SignedOut{}, m.State().Auth)
}

func TestManager_Initialize_SessionCheckFailureIsNotSurfaced(t *testing.T) {
	m, gw, _, _ := setup(t)
	gw.On("GetSession", mock.Anything).Return(nil, errors.New("network down"))

	m.Initialize(context.Background())

	st := m.State()
	assert.Equal(t, model.SignedOut{}, st.Auth)
	assert.Nil(t, st.Message)
}

func TestManager_Initialize_Twice(t *testing.T) {
	m, gw, _, _ := setup(t)
	gw.On("GetSession", mock.Anything).Return(nil, nil)

	m.Initialize(context.Background())
	m.Initialize(context.Background())

	gw.AssertNumberOfCalls(t, "OnSessionChange", 1)
	gw.AssertNumberOfCalls(t, "GetSession", 1)
}

func TestManager_SessionChangeNotifications(t *testing.T) {
	m, gw, _, callback := setup(t)
	gw.On("GetSession", mock.Anything).Return(nil, nil)
	m.Initialize(context.Background())

	callback()(testSession())

	st := m.State()
	assert.Equal(t, model.SignedIn{User: model.User{ID: "u-1", Email: "a@b.com"}}, st.Auth)
	require.NotNil(t, st.Message)
	assert.Equal(t, model.MessageSuccess, st.Message.Kind)
	assert.Equal(t, MessageSignedIn, st.Message.Text)

	m.setMessage(nil)
	callback()(nil)

	st = m.State()
	assert.Equal(t, model.SignedOut{}, st.Auth)
	assert.Nil(t, st.Message, "sign-out notification must not set a message")
}

func TestManager_Login_Success_UserArrivesViaNotification(t *testing.T) {
	m, gw, _, callback := setup(t)
	gw.On("GetSession", mock.Anything).Return(nil, nil)
	m.Initialize(context.Background())

	signedIn := make(chan struct{})
	var once sync.Once
	m.Subscribe(func(st model.SessionState) {
		if _, ok := st.Auth.(model.SignedIn); ok {
			once.Do(func() { close(signedIn) })
		}
	})

	gw.On("SignIn", mock.Anything, "a@b.com", "secret").Run(func(mock.Arguments) {
		cb := callback()
		go cb(testSession())
	}).Return(nil)

	ok := m.Login(context.Background(), "a@b.com", "secret")
	require.True(t, ok)
	assert.False(t, m.State().Loading)

	select {
	case <-signedIn:
	case <-time.After(time.Second):
		t.Fatal("user was not set by the session-change notification")
	}

	user, ok := m.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, "a@b.com", user.Email)
}

func TestManager_Login_Failure(t *testing.T) {
	m, gw, _, _ := setup(t)
	gw.On("GetSession", mock.Anything).Return(nil, nil)
	m.Initialize(context.Background())

	gw.On("SignIn", mock.Anything, "a@b.com", "wrong").Return(errors.New("Invalid login credentials"))

	ok := m.Login(context.Background(), "a@b.com", "wrong")

	assert.False(t, ok)
	st := m.State()
	assert.False(t, st.Loading)
	assert.Equal(t, model.SignedOut{}, st.Auth)
	require.NotNil(t, st.Message)
	assert.Equal(t, model.MessageError, st.Message.Kind)
	assert.Equal(t, "Invalid login credentials", st.Message.Text)
}

func TestManager_Login_TogglesLoadingAndClearsMessage(t *testing.T) {
	m, gw, _, _ := setup(t)
	gw.On("GetSession", mock.Anything).Return(nil, nil)
	m.Initialize(context.Background())
	m.setMessage(&model.StatusMessage{Kind: model.MessageError, Text: "old"})

	var states []model.SessionState
	m.Subscribe(func(st model.SessionState) { states = append(states, st) })

	gw.On("SignIn", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	m.Login(context.Background(), "a@b.com", "secret")

	require.Len(t, states, 2)
	assert.True(t, states[0].Loading)
	assert.Nil(t, states[0].Message)
	assert.False(t, states[1].Loading)
}

func TestManager_Signup(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantOK   bool
		wantKind model.MessageKind
		wantText string
	}{
		{
			name:     "success asks for confirmation",
			wantOK:   true,
			wantKind: model.MessageSuccess,
			wantText: MessageCheckEmail,
		},
		{
			name:     "gateway error",
			err:      errors.New("User already registered"),
			wantOK:   false,
			wantKind: model.MessageError,
			wantText: "User already registered",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := &mocks.Gateway{}
			gw.On("SignUp", mock.Anything, "new@b.com", "secret").Return(tt.err)
			m := NewManager(gw, testutil.MakeNoopLogger())

			ok := m.Signup(context.Background(), "new@b.com", "secret")

			assert.Equal(t, tt.wantOK, ok)
			st := m.State()
			assert.False(t, st.Loading)
			require.NotNil(t, st.Message)
			assert.Equal(t, tt.wantKind, st.Message.Kind)
			assert.Equal(t, tt.wantText, st.Message.Text)
		})
	}
}

func TestManager_Logout(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantOK   bool
		wantKind model.MessageKind
		wantText string
	}{
		{
			name:     "success",
			wantOK:   true,
			wantKind: model.MessageSuccess,
			wantText: MessageLoggedOut,
		},
		{
			name:     "gateway error",
			err:      errors.New("session not found"),
			wantOK:   false,
			wantKind: model.MessageError,
			wantText: "session not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := &mocks.Gateway{}
			gw.On("SignOut", mock.Anything).Return(tt.err)
			m := NewManager(gw, testutil.MakeNoopLogger())

			var sawLoading bool
			m.Subscribe(func(st model.SessionState) {
				if st.Loading {
					sawLoading = true
				}
			})

			ok := m.Logout(context.Background())

			assert.Equal(t, tt.wantOK, ok)
			assert.True(t, sawLoading)
			st := m.State()
			assert.False(t, st.Loading)
			require.NotNil(t, st.Message)
			assert.Equal(t, tt.wantKind, st.Message.Kind)
			assert.Equal(t, tt.wantText, st.Message.Text)
		})
	}
}

func TestManager_Close(t *testing.T) {
	m, gw, sub, _ := setup(t)
	gw.On("GetSession", mock.Anything).Return(nil, nil)
	sub.On("Unsubscribe").Return().Once()

	m.Initialize(context.Background())
	m.Close()
	m.Close()

	sub.AssertNumberOfCalls(t, "Unsubscribe", 1)
}

func TestManager_StateIsACopy(t *testing.T) {
	m := NewManager(&mocks.Gateway{}, testutil.MakeNoopLogger())
	m.setMessage(&model.StatusMessage{Kind: model.MessageError, Text: "boom"})

	st := m.State()
	st.Message.Text = "changed"

	assert.Equal(t, "boom", m.State().Message.Text)
}

func TestManager_CurrentUser(t *testing.T) {
	tests := []struct {
		name     string
		auth     model.AuthState
		wantUser model.User
		wantOK   bool
	}{
		{name: "signed out", auth: model.SignedOut{}},
		{
			name:     "signed in",
			auth:     model.SignedIn{User: model.User{ID: "u-1", Email: "a@b.com"}},
			wantUser: model.User{ID: "u-1", Email: "a@b.com"},
			wantOK:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewManager(&mocks.Gateway{}, testutil.MakeNoopLogger())
			m.auth = tt.auth

			user, ok := m.CurrentUser()
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantUser, user)
		})
	}
}

func TestManager_CurrentUser_UnknownState(t *testing.T) {
	m := NewManager(&mocks.Gateway{}, testutil.MakeNoopLogger())
	m.auth = nil

	assert.Panics(t, func() { m.CurrentUser() })
}
