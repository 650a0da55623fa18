// Package service provides the business logic layer for accounts, content and sharing.
package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cortexapp/cortex-server/internal/auth"
	"github.com/cortexapp/cortex-server/internal/domain"
	"github.com/cortexapp/cortex-server/internal/errors"
	"github.com/cortexapp/cortex-server/internal/id"
	"github.com/cortexapp/cortex-server/internal/store"
)

// AuthService orchestrates signup, login and identity checks.
type AuthService struct {
	store  *store.Store
	tokens *auth.TokenService
	logger *slog.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(store *store.Store, tokens *auth.TokenService, logger *slog.Logger) *AuthService {
	return &AuthService{
		store:  store,
		tokens: tokens,
		logger: logger,
	}
}

// Signup registers a new account. The handle is stored lowercase and
// must be unique; a duplicate surfaces as a conflict.
func (s *AuthService) Signup(ctx context.Context, username, password string) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	username = strings.ToLower(strings.TrimSpace(username))

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "hash password")
	}

	userID, err := id.Generate("user")
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "generate user ID")
	}

	now := time.Now()
	user := &domain.User{
		ID:           userID,
		Username:     username,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		if stderrors.Is(err, store.ErrUsernameExists) {
			return nil, errors.Conflict("username already taken")
		}
		return nil, errors.Wrap(err, errors.CodeUnavailable, "something went wrong")
	}

	s.logger.Info("user signed up", "user_id", user.ID, "username", user.Username)

	return user, nil
}

// Login verifies credentials and issues an access token.
// A missing user and a wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.User, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}

	username = strings.ToLower(strings.TrimSpace(username))

	user, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		if stderrors.Is(err, store.ErrUserNotFound) {
			return nil, "", errors.InvalidCredentials("invalid username or password")
		}
		return nil, "", errors.Wrap(err, errors.CodeUnavailable, "something went wrong")
	}

	ok, err := auth.VerifyPassword(user.PasswordHash, password)
	if err != nil {
		return nil, "", errors.Wrap(err, errors.CodeInternal, "verify password")
	}
	if !ok {
		return nil, "", errors.InvalidCredentials("invalid username or password")
	}

	token, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		return nil, "", errors.Wrap(err, errors.CodeInternal, "generate access token")
	}

	s.logger.Info("user logged in", "user_id", user.ID)

	return user, token, nil
}

// GetUser fetches the account behind an authenticated identity.
func (s *AuthService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		if stderrors.Is(err, store.ErrUserNotFound) {
			return nil, errors.NotFound(fmt.Sprintf("user %s not found", userID))
		}
		return nil, errors.Wrap(err, errors.CodeUnavailable, "something went wrong")
	}
	return user, nil
}
