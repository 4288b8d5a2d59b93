package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/dtroode/tododash/internal/logger"
	"github.com/dtroode/tododash/internal/model"
)

const minPasswordLength = 6

// AuthSession is the result of a successful sign-in or refresh.
type AuthSession struct {
	User model.User
	Tokens
}

type Auth struct {
	userStore    model.UserStore
	tokenService *TokenService
	logger       *logger.Logger
	cost         int
}

func NewAuth(
	userStore model.UserStore,
	refreshTokenStore model.RefreshTokenStore,
	tokenManager model.TokenManager,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		userStore:    userStore,
		tokenService: NewTokenService(tokenManager, refreshTokenStore, logger),
		logger:       logger,
		cost:         bcrypt.DefaultCost,
	}
}

// TokenService exposes the token service used for bearer authentication.
func (a *Auth) TokenService() *TokenService {
	return a.tokenService
}

// SignUp registers a new user. It does not issue tokens.
func (a *Auth) SignUp(ctx context.Context, email, password string) error {
	email = normalizeEmail(email)
	a.logger.Debug("Auth service: starting user registration", "email", email)

	if err := validateCredentials(email, password); err != nil {
		return err
	}

	existing, err := a.userStore.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		a.logger.Error("Auth service: failed to get user by email",
			"email", email,
			"error", err.Error())
		return fmt.Errorf("failed to get user by email: %w", err)
	}
	if existing.ID != uuid.Nil {
		a.logger.Info("Auth service: user already exists", "email", email)
		return model.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.cost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	_, err = a.userStore.Create(ctx, model.UserRecord{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		a.logger.Error("Auth service: failed to create user",
			"email", email,
			"error", err.Error())
		return fmt.Errorf("failed to create user: %w", err)
	}

	a.logger.Info("Auth service: user registration completed successfully", "email", email)
	return nil
}

// SignIn verifies credentials and issues a token pair.
func (a *Auth) SignIn(ctx context.Context, email, password string) (AuthSession, error) {
	email = normalizeEmail(email)
	a.logger.Debug("Auth service: starting user login", "email", email)

	user, err := a.userStore.GetByEmail(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		return AuthSession{}, model.ErrInvalidCredentials
	}
	if err != nil {
		return AuthSession{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		a.logger.Info("Auth service: password mismatch", "email", email)
		return AuthSession{}, model.ErrInvalidCredentials
	}

	tokens, err := a.tokenService.Issue(ctx, user.ID)
	if err != nil {
		return AuthSession{}, fmt.Errorf("failed to issue token: %w", err)
	}

	a.logger.Info("Auth service: login completed successfully",
		"email", email,
		"user_id", user.ID)

	return AuthSession{User: toUser(user), Tokens: tokens}, nil
}

// SignOut revokes the presented refresh token of userID.
func (a *Auth) SignOut(ctx context.Context, userID uuid.UUID, refreshToken string) error {
	if err := a.tokenService.RevokeByToken(ctx, refreshToken); err != nil {
		a.logger.Info("Auth service: sign out failed",
			"user_id", userID,
			"error", err.Error())
		return err
	}
	a.logger.Info("Auth service: user signed out", "user_id", userID)
	return nil
}

// Refresh exchanges a refresh token for a new session.
func (a *Auth) Refresh(ctx context.Context, refreshToken string) (AuthSession, error) {
	userID, tokens, err := a.tokenService.Refresh(ctx, refreshToken)
	if err != nil {
		return AuthSession{}, err
	}

	user, err := a.userStore.GetByID(ctx, userID)
	if err != nil {
		return AuthSession{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	return AuthSession{User: toUser(user), Tokens: tokens}, nil
}

// GetUser returns the identity of userID.
func (a *Auth) GetUser(ctx context.Context, userID uuid.UUID) (model.User, error) {
	user, err := a.userStore.GetByID(ctx, userID)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}
	return toUser(user), nil
}

func toUser(u model.UserRecord) model.User {
	return model.User{ID: u.ID.String(), Email: u.Email}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateCredentials(email, password string) error {
	if _, err := mail.ParseAddress(email); err != nil {
		return fmt.Errorf("%w: unable to validate email address", model.ErrInvalidInput)
	}
	if len(password) < minPasswordLength {
		return fmt.Errorf("%w: password should be at least %d characters", model.ErrInvalidInput, minPasswordLength)
	}
	return nil
}
