package router

import (
	"context"
	"net"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/emptypb"

	grpcctx "github.com/dtroode/tododash/internal/api/grpc/context"
	"github.com/dtroode/tododash/internal/api/grpc/rpc"
	"github.com/dtroode/tododash/internal/mocks"
	"github.com/dtroode/tododash/internal/model"
	"github.com/dtroode/tododash/internal/service"
	"github.com/dtroode/tododash/internal/testutil"
)

const testAPIKey = "anon-key"

func setup(t *testing.T, tokens *mocks.TokenService, users *mocks.UserStore, todos *mocks.TodoStore) *grpc.ClientConn {
	t.Helper()
	lg := testutil.MakeNoopLogger()

	authService := service.NewAuth(users, &mocks.RefreshTokenStore{}, &mocks.TokenManager{}, lg)
	tablesService := service.NewTables(todos, nil, lg)

	s := New(authService, tablesService, tokens, grpcctx.NewManager(), testAPIKey, lg).Register()

	lis := bufconn.Listen(1 << 20)
	go func() { _ = s.Serve(lis) }()
	t.Cleanup(s.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func withKey(ctx context.Context, pairs ...string) context.Context {
	return metadata.AppendToOutgoingContext(ctx, append([]string{rpc.MetadataAPIKey, testAPIKey}, pairs...)...)
}

func TestRouter_RejectsMissingAPIKey(t *testing.T) {
	conn := setup(t, mocks.NewTokenService(t), &mocks.UserStore{}, &mocks.TodoStore{})
	tables := rpc.NewTablesClient(conn)

	req, err := rpc.SelectRequest{Table: "todos"}.ToStruct()
	require.NoError(t, err)

	_, err = tables.Select(context.Background(), req)
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
	assert.Equal(t, "No API key found in request", status.Convert(err).Message())

	ctx := metadata.AppendToOutgoingContext(context.Background(), rpc.MetadataAPIKey, "wrong")
	_, err = tables.Select(ctx, req)
	assert.Equal(t, "Invalid API key", status.Convert(err).Message())
}

func TestRouter_GetUserRequiresBearer(t *testing.T) {
	conn := setup(t, mocks.NewTokenService(t), &mocks.UserStore{}, &mocks.TodoStore{})

	_, err := rpc.NewAuthClient(conn).GetUser(withKey(context.Background()), &emptypb.Empty{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestRouter_GetUserWithBearer(t *testing.T) {
	userID := uuid.New()
	tokens := mocks.NewTokenService(t)
	tokens.On("GetUserID", mock.Anything, "access").Return(userID, nil).Once()
	users := &mocks.UserStore{}
	users.On("GetByID", mock.Anything, userID).Return(model.UserRecord{ID: userID, Email: "a@b.co"}, nil).Once()

	conn := setup(t, tokens, users, &mocks.TodoStore{})

	ctx := withKey(context.Background(), rpc.MetadataAuthorization, "Bearer access")
	out, err := rpc.NewAuthClient(conn).GetUser(ctx, &emptypb.Empty{})
	require.NoError(t, err)
	assert.Equal(t, userID.String(), out.AsMap()["id"])
}

func TestRouter_AnonymousSelectIsEmpty(t *testing.T) {
	todos := &mocks.TodoStore{}
	conn := setup(t, mocks.NewTokenService(t), &mocks.UserStore{}, todos)

	req, err := rpc.SelectRequest{Table: "todos", OrderBy: "created_at"}.ToStruct()
	require.NoError(t, err)

	out, err := rpc.NewTablesClient(conn).Select(withKey(context.Background()), req)
	require.NoError(t, err)
	assert.Empty(t, out.GetValues())
	todos.AssertNotCalled(t, "ListByOwner", mock.Anything, mock.Anything, mock.Anything)
}

func TestRouter_InvalidBearerOnTables(t *testing.T) {
	tokens := mocks.NewTokenService(t)
	tokens.On("GetUserID", mock.Anything, "garbage").Return(uuid.Nil, assert.AnError).Once()
	conn := setup(t, tokens, &mocks.UserStore{}, &mocks.TodoStore{})

	req, err := rpc.SelectRequest{Table: "todos"}.ToStruct()
	require.NoError(t, err)

	ctx := withKey(context.Background(), rpc.MetadataAuthorization, "Bearer garbage")
	_, err = rpc.NewTablesClient(conn).Select(ctx, req)
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}
