package handler

import (
	"context"

	"github.com/google/uuid"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/dtroode/tododash/internal/api/grpc/rpc"
	"github.com/dtroode/tododash/internal/logger"
	"github.com/dtroode/tododash/internal/model"
	"github.com/dtroode/tododash/internal/service"
)

// AuthService defines user registration, login and session operations.
type AuthService interface {
	SignUp(ctx context.Context, email, password string) error
	SignIn(ctx context.Context, email, password string) (service.AuthSession, error)
	SignOut(ctx context.Context, userID uuid.UUID, refreshToken string) error
	Refresh(ctx context.Context, refreshToken string) (service.AuthSession, error)
	GetUser(ctx context.Context, userID uuid.UUID) (model.User, error)
}

var _ rpc.AuthServer = (*Auth)(nil)

// Auth handles gRPC endpoints for authentication.
type Auth struct {
	authService    AuthService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuth creates a new Auth handler.
func NewAuth(authService AuthService, contextManager model.ContextManager, logger *logger.Logger) *Auth {
	return &Auth{
		authService:    authService,
		contextManager: contextManager,
		logger:         logger,
	}
}

// SignUp registers a user.
func (h *Auth) SignUp(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	creds, err := rpc.CredentialsFromStruct(req)
	if err != nil {
		return nil, invalidRequest(err)
	}

	h.logger.Debug("Auth handler: processing sign up request", "email", creds.Email)

	if err := h.authService.SignUp(ctx, creds.Email, creds.Password); err != nil {
		h.logger.Info("Auth handler: sign up failed",
			"email", creds.Email,
			"error", err.Error())
		return nil, handleError(err)
	}

	return &emptypb.Empty{}, nil
}

// SignIn verifies credentials and returns a session.
func (h *Auth) SignIn(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	creds, err := rpc.CredentialsFromStruct(req)
	if err != nil {
		return nil, invalidRequest(err)
	}

	h.logger.Debug("Auth handler: processing sign in request", "email", creds.Email)

	session, err := h.authService.SignIn(ctx, creds.Email, creds.Password)
	if err != nil {
		h.logger.Info("Auth handler: sign in failed",
			"email", creds.Email,
			"error", err.Error())
		return nil, handleError(err)
	}

	return sessionToStruct(session)
}

// SignOut revokes the caller's refresh token.
func (h *Auth) SignOut(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	userID, ok := h.contextManager.GetUserIDFromContext(ctx)
	if !ok {
		return nil, handleError(model.ErrUnauthenticated)
	}

	refreshToken, err := rpc.RefreshTokenFromStruct(req)
	if err != nil {
		return nil, invalidRequest(err)
	}

	if err := h.authService.SignOut(ctx, userID, refreshToken); err != nil {
		return nil, handleError(err)
	}

	return &emptypb.Empty{}, nil
}

// Refresh exchanges a refresh token for a new session.
func (h *Auth) Refresh(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	refreshToken, err := rpc.RefreshTokenFromStruct(req)
	if err != nil {
		return nil, invalidRequest(err)
	}

	session, err := h.authService.Refresh(ctx, refreshToken)
	if err != nil {
		h.logger.Info("Auth handler: token refresh failed", "error", err.Error())
		return nil, handleError(err)
	}

	return sessionToStruct(session)
}

// GetUser returns the identity behind the bearer token.
func (h *Auth) GetUser(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	userID, ok := h.contextManager.GetUserIDFromContext(ctx)
	if !ok {
		return nil, handleError(model.ErrUnauthenticated)
	}

	user, err := h.authService.GetUser(ctx, userID)
	if err != nil {
		return nil, handleError(err)
	}

	out, err := rpc.UserToStruct(user.ID, user.Email)
	if err != nil {
		return nil, handleError(err)
	}
	return out, nil
}

func sessionToStruct(s service.AuthSession) (*structpb.Struct, error) {
	out, err := rpc.SessionPayload{
		UserID:       s.User.ID,
		Email:        s.User.Email,
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		ExpiresAt:    s.ExpiresAt,
	}.ToStruct()
	if err != nil {
		return nil, handleError(err)
	}
	return out, nil
}
