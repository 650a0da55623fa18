package store

import (
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/cortexapp/cortex-server/internal/domain"
	"github.com/cortexapp/cortex-server/internal/id"
)

// Key prefixes for global tag storage.
// Tags are shared across all users; labels match case-sensitively and
// are never renamed or deleted once created.
const (
	tagPrefix        = "tag:"            // tag:{id} → Tag JSON
	tagByLabelPrefix = "idx:tags:label:" // idx:tags:label:{label} → tagID
)

// CreateTag creates a new global tag.
// Returns ErrTagExists if the label is already registered.
func (s *Store) CreateTag(ctx context.Context, t *domain.Tag) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		labelKey := []byte(tagByLabelPrefix + t.Label)
		if _, err := txn.Get(labelKey); err == nil {
			return ErrTagExists
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		if err := setInTxn(txn, []byte(tagPrefix+t.ID), t); err != nil {
			return err
		}
		return txn.Set(labelKey, []byte(t.ID))
	})
}

// GetTagByID retrieves a tag by ID.
func (s *Store) GetTagByID(ctx context.Context, tagID string) (*domain.Tag, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var t domain.Tag
	err := s.get([]byte(tagPrefix+tagID), &t)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrTagNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// GetTagByLabel retrieves a tag by its exact label.
func (s *Store) GetTagByLabel(ctx context.Context, label string) (*domain.Tag, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var tagID string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(tagByLabelPrefix + label))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrTagNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			tagID = string(val)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return s.GetTagByID(ctx, tagID)
}

// FindTagsByLabels looks up a batch of labels in one read transaction.
// Missing labels are simply absent from the result map.
func (s *Store) FindTagsByLabels(ctx context.Context, labels []string) (map[string]*domain.Tag, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	found := make(map[string]*domain.Tag, len(labels))
	err := s.db.View(func(txn *badger.Txn) error {
		for _, label := range labels {
			item, err := txn.Get([]byte(tagByLabelPrefix + label))
			if errors.Is(err, badger.ErrKeyNotFound) {
				continue
			}
			if err != nil {
				return err
			}

			var tagID string
			if err := item.Value(func(val []byte) error {
				tagID = string(val)
				return nil
			}); err != nil {
				return err
			}

			var t domain.Tag
			if err := getInTxn(txn, []byte(tagPrefix+tagID), &t); err != nil {
				return err
			}
			found[label] = &t
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return found, nil
}

// GetTagsByIDs resolves a batch of tag IDs to tags, preserving order.
// Stale IDs are skipped rather than failing the whole batch.
func (s *Store) GetTagsByIDs(ctx context.Context, tagIDs []string) ([]*domain.Tag, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tags := make([]*domain.Tag, 0, len(tagIDs))
	err := s.db.View(func(txn *badger.Txn) error {
		for _, tagID := range tagIDs {
			var t domain.Tag
			err := getInTxn(txn, []byte(tagPrefix+tagID), &t)
			if errors.Is(err, badger.ErrKeyNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			tags = append(tags, &t)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return tags, nil
}

// FindOrCreateTags reconciles a batch of labels against the global tag
// set: existing labels resolve to their tags, missing ones are created.
// The result preserves the input order. When a concurrent caller
// creates a label first, the loser refetches and adopts the winner's
// tag, so the same label never maps to two IDs.
func (s *Store) FindOrCreateTags(ctx context.Context, labels []string) ([]*domain.Tag, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	found, err := s.FindTagsByLabels(ctx, labels)
	if err != nil {
		return nil, err
	}

	tags := make([]*domain.Tag, 0, len(labels))
	for _, label := range labels {
		if t, ok := found[label]; ok {
			tags = append(tags, t)
			continue
		}

		t := &domain.Tag{
			ID:        id.MustGenerate("tag"),
			Label:     label,
			CreatedAt: time.Now(),
		}
		err := s.CreateTag(ctx, t)
		if errors.Is(err, ErrTagExists) {
			// Lost the race. The winner's tag is the canonical one.
			t, err = s.GetTagByLabel(ctx, label)
		}
		if err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}

	return tags, nil
}
