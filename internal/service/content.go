package service

import (
	"context"
	stderrors "errors"
	"log/slog"
	"time"

	"github.com/cortexapp/cortex-server/internal/domain"
	"github.com/cortexapp/cortex-server/internal/errors"
	"github.com/cortexapp/cortex-server/internal/id"
	"github.com/cortexapp/cortex-server/internal/store"
)

// ContentService orchestrates owner-scoped content CRUD.
// Every write that mentions tags runs them through the reconciler, so
// items always reference canonical tag IDs.
type ContentService struct {
	store  *store.Store
	tags   *TagService
	logger *slog.Logger
}

// NewContentService creates a new content service.
func NewContentService(store *store.Store, tags *TagService, logger *slog.Logger) *ContentService {
	return &ContentService{
		store:  store,
		tags:   tags,
		logger: logger,
	}
}

// ContentView is a content item with tag IDs resolved to labels,
// shaped for API responses.
type ContentView struct {
	ID        string             `json:"id"`
	Title     string             `json:"title"`
	Type      domain.ContentType `json:"type"`
	Link      string             `json:"link,omitempty"`
	Body      string             `json:"body,omitempty"`
	Tags      []string           `json:"tags"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// CreateContentInput carries the fields for a new content item.
// Bounds are enforced by the request validator before this is built.
type CreateContentInput struct {
	Title string
	Type  domain.ContentType
	Link  string
	Body  string
	Tags  []string
}

// UpdateContentInput carries a partial update; nil fields are left
// untouched.
type UpdateContentInput struct {
	Title *string
	Type  *domain.ContentType
	Link  *string
	Body  *string
	Tags  []string
}

// Create stores a new content item for the owner, reconciling its tags.
func (s *ContentService) Create(ctx context.Context, ownerID string, input CreateContentInput) (*ContentView, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tagIDs, err := s.tags.Reconcile(ctx, input.Tags)
	if err != nil {
		return nil, err
	}

	itemID, err := id.Generate("item")
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "generate item ID")
	}

	now := time.Now()
	item := &domain.ContentItem{
		ID:        itemID,
		OwnerID:   ownerID,
		Title:     input.Title,
		Type:      input.Type,
		Link:      input.Link,
		Body:      input.Body,
		Tags:      tagIDs,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.CreateContent(ctx, item); err != nil {
		return nil, errors.Wrap(err, errors.CodeUnavailable, "something went wrong")
	}

	s.logger.Info("content created", "item_id", item.ID, "owner_id", ownerID, "type", item.Type)

	return s.toView(ctx, item)
}

// List returns the owner's items, newest first.
func (s *ContentService) List(ctx context.Context, ownerID string) ([]*ContentView, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	items, err := s.store.ListContentByOwner(ctx, ownerID)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeUnavailable, "something went wrong")
	}

	return s.toViews(ctx, items)
}

// Update applies a partial update to an item scoped to its owner.
func (s *ContentService) Update(ctx context.Context, ownerID, itemID string, input UpdateContentInput) (*ContentView, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	item, err := s.store.GetContent(ctx, ownerID, itemID)
	if err != nil {
		if stderrors.Is(err, store.ErrContentNotFound) {
			return nil, errors.NotFound("content item not found")
		}
		return nil, errors.Wrap(err, errors.CodeUnavailable, "something went wrong")
	}

	if input.Title != nil {
		item.Title = *input.Title
	}
	if input.Type != nil {
		item.Type = *input.Type
	}
	if input.Link != nil {
		item.Link = *input.Link
	}
	if input.Body != nil {
		item.Body = *input.Body
	}
	if input.Tags != nil {
		tagIDs, err := s.tags.Reconcile(ctx, input.Tags)
		if err != nil {
			return nil, err
		}
		item.Tags = tagIDs
	}
	item.Touch()

	if err := s.store.UpdateContent(ctx, item); err != nil {
		if stderrors.Is(err, store.ErrContentNotFound) {
			return nil, errors.NotFound("content item not found")
		}
		return nil, errors.Wrap(err, errors.CodeUnavailable, "something went wrong")
	}

	s.logger.Info("content updated", "item_id", item.ID, "owner_id", ownerID)

	return s.toView(ctx, item)
}

// Delete removes an item scoped to its owner. Another user's item ID
// reads as not found.
func (s *ContentService) Delete(ctx context.Context, ownerID, itemID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.store.DeleteContent(ctx, ownerID, itemID); err != nil {
		if stderrors.Is(err, store.ErrContentNotFound) {
			return errors.NotFound("content item not found")
		}
		return errors.Wrap(err, errors.CodeUnavailable, "something went wrong")
	}

	s.logger.Info("content deleted", "item_id", itemID, "owner_id", ownerID)

	return nil
}

func (s *ContentService) toView(ctx context.Context, item *domain.ContentItem) (*ContentView, error) {
	labels, err := s.tags.ResolveLabels(ctx, item.Tags)
	if err != nil {
		return nil, err
	}
	if labels == nil {
		labels = []string{}
	}

	return &ContentView{
		ID:        item.ID,
		Title:     item.Title,
		Type:      item.Type,
		Link:      item.Link,
		Body:      item.Body,
		Tags:      labels,
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
	}, nil
}

func (s *ContentService) toViews(ctx context.Context, items []*domain.ContentItem) ([]*ContentView, error) {
	labelByID, err := s.tags.allLabels(ctx, items)
	if err != nil {
		return nil, err
	}

	views := make([]*ContentView, 0, len(items))
	for _, item := range items {
		labels := make([]string, 0, len(item.Tags))
		for _, tagID := range item.Tags {
			if label, ok := labelByID[tagID]; ok {
				labels = append(labels, label)
			}
		}
		views = append(views, &ContentView{
			ID:        item.ID,
			Title:     item.Title,
			Type:      item.Type,
			Link:      item.Link,
			Body:      item.Body,
			Tags:      labels,
			CreatedAt: item.CreatedAt,
			UpdatedAt: item.UpdatedAt,
		})
	}
	return views, nil
}
