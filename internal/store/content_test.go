package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cortexapp/cortex-server/internal/domain"
)

func newTestItem(id, ownerID, title string, createdAt time.Time) *domain.ContentItem {
	return &domain.ContentItem{
		ID:        id,
		OwnerID:   ownerID,
		Title:     title,
		Type:      domain.ContentTypeGenericLink,
		Link:      "https://example.com/" + id,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func TestCreateAndGetContent(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	item := newTestItem("item-1", "user-1", "How to grow tomatoes", time.Now())
	item.Tags = []string{"tag-1", "tag-2"}
	require.NoError(t, s.CreateContent(ctx, item))

	fetched, err := s.GetContent(ctx, "user-1", "item-1")
	require.NoError(t, err)
	assert.Equal(t, "How to grow tomatoes", fetched.Title)
	assert.Equal(t, domain.ContentTypeGenericLink, fetched.Type)
	assert.Equal(t, []string{"tag-1", "tag-2"}, fetched.Tags)
}

func TestGetContent_WrongOwner(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	require.NoError(t, s.CreateContent(ctx, newTestItem("item-1", "user-1", "Owned by user one", time.Now())))

	_, err := s.GetContent(ctx, "user-2", "item-1")
	assert.ErrorIs(t, err, ErrContentNotFound)
}

func TestUpdateContent(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	item := newTestItem("item-1", "user-1", "Original title here", time.Now())
	require.NoError(t, s.CreateContent(ctx, item))

	item.Title = "An updated title here"
	item.Touch()
	require.NoError(t, s.UpdateContent(ctx, item))

	fetched, err := s.GetContent(ctx, "user-1", "item-1")
	require.NoError(t, err)
	assert.Equal(t, "An updated title here", fetched.Title)
}

func TestUpdateContent_NotFound(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	item := newTestItem("item-missing", "user-1", "Never persisted item", time.Now())
	err := s.UpdateContent(context.Background(), item)
	assert.ErrorIs(t, err, ErrContentNotFound)
}

func TestDeleteContent(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	require.NoError(t, s.CreateContent(ctx, newTestItem("item-1", "user-1", "To be deleted soon", time.Now())))
	require.NoError(t, s.DeleteContent(ctx, "user-1", "item-1"))

	_, err := s.GetContent(ctx, "user-1", "item-1")
	assert.ErrorIs(t, err, ErrContentNotFound)

	// Deleting again is a miss.
	err = s.DeleteContent(ctx, "user-1", "item-1")
	assert.ErrorIs(t, err, ErrContentNotFound)
}

func TestDeleteContent_OwnershipIsolation(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	require.NoError(t, s.CreateContent(ctx, newTestItem("item-1", "user-1", "Belongs to user one", time.Now())))

	// Another user holding the item ID cannot delete it.
	err := s.DeleteContent(ctx, "user-2", "item-1")
	assert.ErrorIs(t, err, ErrContentNotFound)

	fetched, err := s.GetContent(ctx, "user-1", "item-1")
	require.NoError(t, err)
	assert.Equal(t, "item-1", fetched.ID)
}

func TestListContentByOwner_NewestFirst(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	base := time.Now()

	require.NoError(t, s.CreateContent(ctx, newTestItem("item-a", "user-1", "First item created", base.Add(-2*time.Hour))))
	require.NoError(t, s.CreateContent(ctx, newTestItem("item-b", "user-1", "Second item created", base.Add(-time.Hour))))
	require.NoError(t, s.CreateContent(ctx, newTestItem("item-c", "user-1", "Third item created", base)))
	require.NoError(t, s.CreateContent(ctx, newTestItem("item-x", "user-2", "Someone else's item", base)))

	items, err := s.ListContentByOwner(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "item-c", items[0].ID)
	assert.Equal(t, "item-b", items[1].ID)
	assert.Equal(t, "item-a", items[2].ID)
}

func TestListContentByOwner_Empty(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	items, err := s.ListContentByOwner(context.Background(), "user-empty")
	require.NoError(t, err)
	assert.Empty(t, items)
}
