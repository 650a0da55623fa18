package store

import (
	"context"
	"encoding/json/v2"
	"errors"

	"github.com/dgraph-io/badger/v4"

	"github.com/cortexapp/cortex-server/internal/domain"
)

// Key prefixes for share link storage.
// Both indexes are written in the same transaction as the record, so
// "one link per owner" and "one owner per token" hold even under
// concurrent enables.
const (
	linkPrefix        = "sharelink:"       // sharelink:{id} → ShareLink JSON
	linkByOwnerPrefix = "idx:links:owner:" // idx:links:owner:{ownerID} → linkID
	linkByTokenPrefix = "idx:links:token:" // idx:links:token:{token} → linkID
)

// CreateShareLink registers a new share link.
// Returns ErrShareLinkExists if the owner already has a live link and
// ErrShareTokenTaken if the token collides with another owner's link.
func (s *Store) CreateShareLink(ctx context.Context, l *domain.ShareLink) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		ownerKey := []byte(linkByOwnerPrefix + l.OwnerID)
		if _, err := txn.Get(ownerKey); err == nil {
			return ErrShareLinkExists
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		tokenKey := []byte(linkByTokenPrefix + l.Token)
		if _, err := txn.Get(tokenKey); err == nil {
			return ErrShareTokenTaken
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		if err := setInTxn(txn, []byte(linkPrefix+l.ID), l); err != nil {
			return err
		}
		if err := txn.Set(ownerKey, []byte(l.ID)); err != nil {
			return err
		}
		return txn.Set(tokenKey, []byte(l.ID))
	})
}

// GetShareLinkByID retrieves a share link by ID.
func (s *Store) GetShareLinkByID(ctx context.Context, linkID string) (*domain.ShareLink, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var l domain.ShareLink
	err := s.get([]byte(linkPrefix+linkID), &l)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrShareLinkNotFound
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// GetShareLinkByOwner retrieves an owner's live share link, if any.
func (s *Store) GetShareLinkByOwner(ctx context.Context, ownerID string) (*domain.ShareLink, error) {
	return s.getLinkByIndex(ctx, linkByOwnerPrefix+ownerID)
}

// GetShareLinkByToken retrieves the share link behind a token.
func (s *Store) GetShareLinkByToken(ctx context.Context, token string) (*domain.ShareLink, error) {
	return s.getLinkByIndex(ctx, linkByTokenPrefix+token)
}

func (s *Store) getLinkByIndex(ctx context.Context, indexKey string) (*domain.ShareLink, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var linkID string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(indexKey))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrShareLinkNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			linkID = string(val)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return s.GetShareLinkByID(ctx, linkID)
}

// DeleteShareLinkByOwner removes an owner's live share link and both
// of its index keys. Returns ErrShareLinkNotFound if the owner has no
// link, so callers can distinguish revoke from no-op.
func (s *Store) DeleteShareLinkByOwner(ctx context.Context, ownerID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		ownerKey := []byte(linkByOwnerPrefix + ownerID)
		item, err := txn.Get(ownerKey)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrShareLinkNotFound
		}
		if err != nil {
			return err
		}

		var linkID string
		if err := item.Value(func(val []byte) error {
			linkID = string(val)
			return nil
		}); err != nil {
			return err
		}

		var l domain.ShareLink
		if err := getInTxn(txn, []byte(linkPrefix+linkID), &l); err != nil {
			return err
		}

		if err := txn.Delete([]byte(linkPrefix + linkID)); err != nil {
			return err
		}
		if err := txn.Delete(ownerKey); err != nil {
			return err
		}
		return txn.Delete([]byte(linkByTokenPrefix + l.Token))
	})
}

// ListShareLinks returns every live share link.
func (s *Store) ListShareLinks(ctx context.Context) ([]*domain.ShareLink, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefix := []byte(linkPrefix)
	var links []*domain.ShareLink

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchSize = 100

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var l domain.ShareLink
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &l)
			})
			if err != nil {
				return err
			}
			links = append(links, &l)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return links, nil
}
