package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/cortexapp/cortex-server/internal/domain"
	"github.com/cortexapp/cortex-server/internal/errors"
	"github.com/cortexapp/cortex-server/internal/store"
)

// TagService reconciles submitted tag labels against the global tag set.
// Tags are shared across all users and matched case-sensitively; they
// are never renamed or deleted here.
type TagService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewTagService creates a new tag service.
func NewTagService(store *store.Store, logger *slog.Logger) *TagService {
	return &TagService{
		store:  store,
		logger: logger,
	}
}

// Reconcile maps a batch of labels to tag IDs, creating tags for
// labels seen for the first time. Labels are trimmed and deduplicated
// while preserving first-occurrence order. A label created concurrently
// by another writer resolves to that writer's tag, so re-reconciling
// the same labels always yields the same IDs.
func (s *TagService) Reconcile(ctx context.Context, labels []string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cleaned := make([]string, 0, len(labels))
	seen := make(map[string]struct{}, len(labels))
	for _, label := range labels {
		label = strings.TrimSpace(label)
		if label == "" {
			continue
		}
		if _, ok := seen[label]; ok {
			continue
		}
		seen[label] = struct{}{}
		cleaned = append(cleaned, label)
	}

	if len(cleaned) == 0 {
		return nil, nil
	}

	tags, err := s.store.FindOrCreateTags(ctx, cleaned)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeUnavailable, "something went wrong")
	}

	ids := make([]string, len(tags))
	for i, t := range tags {
		ids[i] = t.ID
	}
	return ids, nil
}

// ResolveLabels maps stored tag IDs back to their labels, preserving
// order. IDs that no longer resolve are skipped.
func (s *TagService) ResolveLabels(ctx context.Context, tagIDs []string) ([]string, error) {
	if len(tagIDs) == 0 {
		return nil, nil
	}

	tags, err := s.store.GetTagsByIDs(ctx, tagIDs)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeUnavailable, "something went wrong")
	}

	labels := make([]string, len(tags))
	for i, t := range tags {
		labels[i] = t.Label
	}
	return labels, nil
}

// labelMap resolves a set of tag IDs to a lookup table, for callers
// that annotate many items in one pass.
func (s *TagService) labelMap(ctx context.Context, tagIDs []string) (map[string]string, error) {
	tags, err := s.store.GetTagsByIDs(ctx, tagIDs)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeUnavailable, "something went wrong")
	}

	m := make(map[string]string, len(tags))
	for _, t := range tags {
		m[t.ID] = t.Label
	}
	return m, nil
}

// allLabels collects the union of tag IDs across items and resolves
// them in a single batch.
func (s *TagService) allLabels(ctx context.Context, items []*domain.ContentItem) (map[string]string, error) {
	var union []string
	seen := make(map[string]struct{})
	for _, item := range items {
		for _, tagID := range item.Tags {
			if _, ok := seen[tagID]; ok {
				continue
			}
			seen[tagID] = struct{}{}
			union = append(union, tagID)
		}
	}

	if len(union) == 0 {
		return map[string]string{}, nil
	}
	return s.labelMap(ctx, union)
}
