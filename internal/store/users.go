package store

import (
	"context"
	"errors"

	"github.com/dgraph-io/badger/v4"

	"github.com/cortexapp/cortex-server/internal/domain"
)

// Key prefixes for user storage.
// Usernames are stored lowercase, so the index is already canonical.
const (
	userPrefix       = "user:"              // user:{id} → User JSON
	userByNamePrefix = "idx:users:username:" // idx:users:username:{username} → userID
)

// CreateUser creates a new user account.
// Returns ErrUsernameExists if the handle is already taken. The
// username index key is written in the same transaction as the user
// record, so concurrent signups with the same handle cannot both win.
func (s *Store) CreateUser(ctx context.Context, u *domain.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		nameKey := []byte(userByNamePrefix + u.Username)
		if _, err := txn.Get(nameKey); err == nil {
			return ErrUsernameExists
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		if err := setInTxn(txn, []byte(userPrefix+u.ID), u); err != nil {
			return err
		}
		return txn.Set(nameKey, []byte(u.ID))
	})
}

// GetUserByID retrieves a user by ID.
func (s *Store) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var u domain.User
	err := s.get([]byte(userPrefix+userID), &u)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUserByUsername retrieves a user by handle.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var userID string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(userByNamePrefix + username))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrUserNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			userID = string(val)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return s.GetUserByID(ctx, userID)
}
