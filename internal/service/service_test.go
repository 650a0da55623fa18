package service

import (
	"context"
	"crypto/rand"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cortexapp/cortex-server/internal/auth"
	"github.com/cortexapp/cortex-server/internal/domain"
	"github.com/cortexapp/cortex-server/internal/id"
	"github.com/cortexapp/cortex-server/internal/store"
)

// testEnv bundles all services over one temporary store.
type testEnv struct {
	store   *store.Store
	auth    *AuthService
	tags    *TagService
	content *ContentService
	sharing *SharingService
}

// setupServiceTest creates the full service stack with temporary storage.
func setupServiceTest(t *testing.T) (*testEnv, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "cortex-service-test-*")
	require.NoError(t, err)

	s, err := store.New(filepath.Join(tmpDir, "test.db"), nil)
	require.NoError(t, err)

	logger := slog.New(slog.DiscardHandler)

	key := make([]byte, 32)
	_, err = rand.Read(key)
	require.NoError(t, err)
	tokens, err := auth.NewTokenService(key, time.Hour)
	require.NoError(t, err)

	tagSvc := NewTagService(s, logger)
	contentSvc := NewContentService(s, tagSvc, logger)

	env := &testEnv{
		store:   s,
		auth:    NewAuthService(s, tokens, logger),
		tags:    tagSvc,
		content: contentSvc,
		sharing: NewSharingService(s, contentSvc, logger),
	}

	cleanup := func() {
		_ = s.Close()
		_ = os.RemoveAll(tmpDir)
	}

	return env, cleanup
}

// createTestUser persists a user directly in the store.
func createTestUser(t *testing.T, s *store.Store, username string) *domain.User {
	t.Helper()

	userID, err := id.Generate("user")
	require.NoError(t, err)

	now := time.Now()
	user := &domain.User{
		ID:           userID,
		Username:     username,
		PasswordHash: "$argon2id$v=19$m=65536,t=3,p=4$c2FsdA$aGFzaA",
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, s.CreateUser(context.Background(), user))
	return user
}
