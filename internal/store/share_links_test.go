package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cortexapp/cortex-server/internal/domain"
)

func newTestLink(id, ownerID, token string) *domain.ShareLink {
	return &domain.ShareLink{
		ID:        id,
		OwnerID:   ownerID,
		Token:     token,
		CreatedAt: time.Now(),
	}
}

func TestCreateShareLink(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	require.NoError(t, s.CreateShareLink(ctx, newTestLink("link-1", "user-1", "Ab3dEf7hIj")))

	byOwner, err := s.GetShareLinkByOwner(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "Ab3dEf7hIj", byOwner.Token)

	byToken, err := s.GetShareLinkByToken(ctx, "Ab3dEf7hIj")
	require.NoError(t, err)
	assert.Equal(t, "user-1", byToken.OwnerID)
}

func TestCreateShareLink_OwnerAlreadyHasLink(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	require.NoError(t, s.CreateShareLink(ctx, newTestLink("link-1", "user-1", "Ab3dEf7hIj")))

	err := s.CreateShareLink(ctx, newTestLink("link-2", "user-1", "Zz9yXx8wVv"))
	require.ErrorIs(t, err, ErrShareLinkExists)

	// The losing token must not be resolvable.
	_, err = s.GetShareLinkByToken(ctx, "Zz9yXx8wVv")
	assert.ErrorIs(t, err, ErrShareLinkNotFound)
}

func TestCreateShareLink_TokenCollision(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	require.NoError(t, s.CreateShareLink(ctx, newTestLink("link-1", "user-1", "Ab3dEf7hIj")))

	err := s.CreateShareLink(ctx, newTestLink("link-2", "user-2", "Ab3dEf7hIj"))
	require.ErrorIs(t, err, ErrShareTokenTaken)

	// The token still resolves to its original owner.
	fetched, err := s.GetShareLinkByToken(ctx, "Ab3dEf7hIj")
	require.NoError(t, err)
	assert.Equal(t, "user-1", fetched.OwnerID)
}

func TestDeleteShareLinkByOwner(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	require.NoError(t, s.CreateShareLink(ctx, newTestLink("link-1", "user-1", "Ab3dEf7hIj")))
	require.NoError(t, s.DeleteShareLinkByOwner(ctx, "user-1"))

	_, err := s.GetShareLinkByOwner(ctx, "user-1")
	assert.ErrorIs(t, err, ErrShareLinkNotFound)

	// The token index is gone too, so a new link can reuse nothing stale.
	_, err = s.GetShareLinkByToken(ctx, "Ab3dEf7hIj")
	assert.ErrorIs(t, err, ErrShareLinkNotFound)

	// Deleting again reports there was nothing to delete.
	err = s.DeleteShareLinkByOwner(ctx, "user-1")
	assert.ErrorIs(t, err, ErrShareLinkNotFound)
}

func TestDeleteThenRecreateShareLink(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	require.NoError(t, s.CreateShareLink(ctx, newTestLink("link-1", "user-1", "Ab3dEf7hIj")))
	require.NoError(t, s.DeleteShareLinkByOwner(ctx, "user-1"))
	require.NoError(t, s.CreateShareLink(ctx, newTestLink("link-2", "user-1", "Qq5rSs6tUu")))

	fetched, err := s.GetShareLinkByOwner(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "Qq5rSs6tUu", fetched.Token)
}

func TestListShareLinks(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	links, err := s.ListShareLinks(ctx)
	require.NoError(t, err)
	assert.Empty(t, links)

	require.NoError(t, s.CreateShareLink(ctx, newTestLink("link-1", "user-1", "Ab3dEf7hIj")))
	require.NoError(t, s.CreateShareLink(ctx, newTestLink("link-2", "user-2", "Qq5rSs6tUu")))

	links, err = s.ListShareLinks(ctx)
	require.NoError(t, err)
	assert.Len(t, links, 2)
}
