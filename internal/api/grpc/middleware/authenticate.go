package middleware

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/auth"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/dtroode/tododash/internal/api/grpc/rpc"
	"github.com/dtroode/tododash/internal/logger"
	"github.com/dtroode/tododash/internal/model"
)

var (
	errMissingToken = errors.New("missing authorization token")
	errInvalidToken = errors.New("invalid JWT: unable to parse or verify signature")
)

// TokenService resolves user ID from bearer tokens.
type TokenService interface {
	GetUserID(ctx context.Context, token string) (uuid.UUID, error)
}

// Authenticate validates bearer tokens and injects user ID into context.
type Authenticate struct {
	tokenService   TokenService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(tokenService TokenService, contextManager model.ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{tokenService: tokenService, contextManager: contextManager, logger: logger}
}

// AuthFunc requires a valid bearer token and returns a context with user ID.
func (m *Authenticate) AuthFunc(ctx context.Context) (context.Context, error) {
	tokenString, err := auth.AuthFromMD(ctx, "bearer")
	if err != nil {
		return nil, status.Error(codes.Unauthenticated, errMissingToken.Error())
	}
	return m.authenticate(ctx, tokenString)
}

// OptionalAuthFunc accepts requests without a bearer token as anonymous.
// A token that is present must still be valid.
func (m *Authenticate) OptionalAuthFunc(ctx context.Context) (context.Context, error) {
	if md, ok := metadata.FromIncomingContext(ctx); !ok || len(md.Get(rpc.MetadataAuthorization)) == 0 {
		return ctx, nil
	}
	return m.AuthFunc(ctx)
}

func (m *Authenticate) authenticate(ctx context.Context, tokenString string) (context.Context, error) {
	userID, err := m.tokenService.GetUserID(ctx, tokenString)
	if err != nil {
		m.logger.Debug("Authenticate middleware: token rejected", "error", err.Error())
		return nil, status.Error(codes.Unauthenticated, errInvalidToken.Error())
	}
	if userID == uuid.Nil {
		return nil, status.Error(codes.Unauthenticated, errInvalidToken.Error())
	}

	return m.contextManager.SetUserIDToContext(ctx, userID), nil
}
