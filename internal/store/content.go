package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"sort"

	"github.com/dgraph-io/badger/v4"

	"github.com/cortexapp/cortex-server/internal/domain"
)

// Key prefix for content storage.
// The owner ID is part of the key, so every read and delete is scoped
// to the owner by construction and a brain snapshot is one prefix scan.
const contentPrefix = "content:" // content:{ownerID}:{itemID} → ContentItem JSON

func contentKey(ownerID, itemID string) []byte {
	return []byte(contentPrefix + ownerID + ":" + itemID)
}

// CreateContent stores a new content item.
func (s *Store) CreateContent(ctx context.Context, c *domain.ContentItem) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.set(contentKey(c.OwnerID, c.ID), c)
}

// GetContent retrieves a content item scoped to its owner.
// Returns ErrContentNotFound if the item does not exist or belongs to
// a different owner.
func (s *Store) GetContent(ctx context.Context, ownerID, itemID string) (*domain.ContentItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var c domain.ContentItem
	err := s.get(contentKey(ownerID, itemID), &c)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrContentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// UpdateContent replaces an existing content item.
// Returns ErrContentNotFound if the item does not exist for this owner.
func (s *Store) UpdateContent(ctx context.Context, c *domain.ContentItem) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := contentKey(c.OwnerID, c.ID)
	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key); errors.Is(err, badger.ErrKeyNotFound) {
			return ErrContentNotFound
		} else if err != nil {
			return err
		}
		return setInTxn(txn, key, c)
	})
}

// DeleteContent removes a content item scoped to its owner.
// Returns ErrContentNotFound if nothing was deleted, so a caller
// holding someone else's item ID learns nothing beyond "not yours".
func (s *Store) DeleteContent(ctx context.Context, ownerID, itemID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := contentKey(ownerID, itemID)
	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key); errors.Is(err, badger.ErrKeyNotFound) {
			return ErrContentNotFound
		} else if err != nil {
			return err
		}
		return txn.Delete(key)
	})
}

// ListContentByOwner returns all of an owner's items, newest first.
// Ties on CreatedAt break on ID so the order is stable across calls.
func (s *Store) ListContentByOwner(ctx context.Context, ownerID string) ([]*domain.ContentItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefix := []byte(contentPrefix + ownerID + ":")
	var items []*domain.ContentItem

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchSize = 100

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var c domain.ContentItem
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &c)
			})
			if err != nil {
				return err
			}
			items = append(items, &c)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		}
		return items[i].ID > items[j].ID
	})

	return items, nil
}
