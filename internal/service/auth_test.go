package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cortexapp/cortex-server/internal/domain"
	"github.com/cortexapp/cortex-server/internal/errors"
)

func TestSignup(t *testing.T) {
	env, cleanup := setupServiceTest(t)
	defer cleanup()

	ctx := context.Background()

	user, err := env.auth.Signup(ctx, "Alice", "a strong password")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username, "handle is stored lowercase")
	assert.Equal(t, domain.RoleUser, user.Role)
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotEqual(t, "a strong password", user.PasswordHash)
}

func TestSignup_DuplicateHandle(t *testing.T) {
	env, cleanup := setupServiceTest(t)
	defer cleanup()

	ctx := context.Background()

	_, err := env.auth.Signup(ctx, "alice", "a strong password")
	require.NoError(t, err)

	_, err = env.auth.Signup(ctx, "ALICE", "another password!")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrConflict))
}

func TestLogin(t *testing.T) {
	env, cleanup := setupServiceTest(t)
	defer cleanup()

	ctx := context.Background()

	created, err := env.auth.Signup(ctx, "alice", "a strong password")
	require.NoError(t, err)

	user, token, err := env.auth.Login(ctx, "alice", "a strong password")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)
	assert.NotEmpty(t, token)
}

func TestLogin_WrongPassword(t *testing.T) {
	env, cleanup := setupServiceTest(t)
	defer cleanup()

	ctx := context.Background()

	_, err := env.auth.Signup(ctx, "alice", "a strong password")
	require.NoError(t, err)

	_, _, err = env.auth.Login(ctx, "alice", "not the password")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidCredentials))
}

func TestLogin_UnknownUser(t *testing.T) {
	env, cleanup := setupServiceTest(t)
	defer cleanup()

	_, _, err := env.auth.Login(context.Background(), "nobody", "whatever password")
	require.Error(t, err)

	// Unknown handle and wrong password are the same failure.
	assert.True(t, errors.Is(err, errors.ErrInvalidCredentials))
}

func TestGetUser(t *testing.T) {
	env, cleanup := setupServiceTest(t)
	defer cleanup()

	ctx := context.Background()

	created, err := env.auth.Signup(ctx, "alice", "a strong password")
	require.NoError(t, err)

	user, err := env.auth.GetUser(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)

	_, err = env.auth.GetUser(ctx, "user-missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}
