package handler

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/tododash/internal/model"
)

func handleError(err error) error {
	switch {
	case errors.Is(err, model.ErrInvalidCredentials):
		return status.Error(codes.Unauthenticated, "Invalid login credentials")
	case errors.Is(err, model.ErrEmailTaken):
		return status.Error(codes.AlreadyExists, "User already registered")
	case errors.Is(err, model.ErrTokenRevoked),
		errors.Is(err, model.ErrTokenExpired),
		errors.Is(err, model.ErrTokenMismatch),
		errors.Is(err, model.ErrInvalidRefreshToken):
		return status.Error(codes.Unauthenticated, "Invalid Refresh Token")
	case errors.Is(err, model.ErrUnauthenticated):
		return status.Error(codes.Unauthenticated, err.Error())
	case errors.Is(err, model.ErrRowLevelSecurity):
		return status.Error(codes.PermissionDenied, err.Error())
	case errors.Is(err, model.ErrUnknownTable), errors.Is(err, model.ErrUnknownColumn):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, model.ErrInvalidInput):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, model.ErrStorageDisabled):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, model.ErrNotFound):
		return status.Error(codes.NotFound, "not found")
	default:
		return status.Error(codes.Internal, "internal server error")
	}
}

func invalidRequest(err error) error {
	return status.Error(codes.InvalidArgument, err.Error())
}
