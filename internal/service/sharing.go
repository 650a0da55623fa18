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

// SharingService manages the one-per-owner share links and resolves
// shared brain views. Token uniqueness is enforced by the store's
// index keys, not by checking before insert.
type SharingService struct {
	store   *store.Store
	content *ContentService
	logger  *slog.Logger
}

// NewSharingService creates a new sharing service.
func NewSharingService(store *store.Store, content *ContentService, logger *slog.Logger) *SharingService {
	return &SharingService{
		store:   store,
		content: content,
		logger:  logger,
	}
}

// SharedBrainView is the read-only projection behind a share token.
// Only the owner's public handle is disclosed.
type SharedBrainView struct {
	Username string         `json:"username"`
	Content  []*ContentView `json:"content"`
}

// ShareLinkInfo describes a live share link with its owner's handle.
type ShareLinkInfo struct {
	Token     string    `json:"hash"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// EnableSharing turns on sharing for an owner and returns the token.
// Enabling twice returns the same token; a fresh token is only minted
// when no live link exists. A token collision with another owner is
// surfaced as a conflict rather than retried, since at 62^10 values a
// collision signals a broken entropy source.
func (s *SharingService) EnableSharing(ctx context.Context, ownerID string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	existing, err := s.store.GetShareLinkByOwner(ctx, ownerID)
	if err == nil {
		return existing.Token, nil
	}
	if !stderrors.Is(err, store.ErrShareLinkNotFound) {
		return "", errors.Wrap(err, errors.CodeUnavailable, "something went wrong")
	}

	token, err := id.ShareToken(id.ShareTokenLength)
	if err != nil {
		return "", errors.Wrap(err, errors.CodeInternal, "generate share token")
	}

	linkID, err := id.Generate("link")
	if err != nil {
		return "", errors.Wrap(err, errors.CodeInternal, "generate link ID")
	}

	link := &domain.ShareLink{
		ID:        linkID,
		OwnerID:   ownerID,
		Token:     token,
		CreatedAt: time.Now(),
	}

	err = s.store.CreateShareLink(ctx, link)
	switch {
	case err == nil:
		s.logger.Info("sharing enabled", "owner_id", ownerID)
		return token, nil
	case stderrors.Is(err, store.ErrShareLinkExists):
		// A concurrent enable won. Adopt its token to keep the
		// operation idempotent.
		winner, err := s.store.GetShareLinkByOwner(ctx, ownerID)
		if err != nil {
			return "", errors.Wrap(err, errors.CodeUnavailable, "something went wrong")
		}
		return winner.Token, nil
	case stderrors.Is(err, store.ErrShareTokenTaken):
		return "", errors.Conflict("could not issue share link, try again")
	default:
		return "", errors.Wrap(err, errors.CodeUnavailable, "something went wrong")
	}
}

// DisableSharing revokes the owner's share link.
// Returns a not found error when no link is live; the handler decides
// whether that is user-visible.
func (s *SharingService) DisableSharing(ctx context.Context, ownerID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.store.DeleteShareLinkByOwner(ctx, ownerID); err != nil {
		if stderrors.Is(err, store.ErrShareLinkNotFound) {
			return errors.NotFound("sharing is not enabled")
		}
		return errors.Wrap(err, errors.CodeUnavailable, "something went wrong")
	}

	s.logger.Info("sharing disabled", "owner_id", ownerID)

	return nil
}

// ResolveShared returns the read-only brain behind a token.
// The token's shape is checked before any storage lookup; a malformed
// token never reaches the store.
func (s *SharingService) ResolveShared(ctx context.Context, token string) (*SharedBrainView, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if len(token) != id.ShareTokenLength {
		return nil, errors.Validation("share link is malformed")
	}

	link, err := s.store.GetShareLinkByToken(ctx, token)
	if err != nil {
		if stderrors.Is(err, store.ErrShareLinkNotFound) {
			return nil, errors.NotFound("share link not found")
		}
		return nil, errors.Wrap(err, errors.CodeUnavailable, "something went wrong")
	}

	owner, err := s.store.GetUserByID(ctx, link.OwnerID)
	if err != nil {
		// A link whose owner is gone is as good as no link.
		if stderrors.Is(err, store.ErrUserNotFound) {
			return nil, errors.NotFound("share link not found")
		}
		return nil, errors.Wrap(err, errors.CodeUnavailable, "something went wrong")
	}

	content, err := s.content.List(ctx, link.OwnerID)
	if err != nil {
		return nil, err
	}

	return &SharedBrainView{
		Username: owner.Username,
		Content:  content,
	}, nil
}

// ListShareLinks returns every live share link with its owner's handle.
func (s *SharingService) ListShareLinks(ctx context.Context) ([]*ShareLinkInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	links, err := s.store.ListShareLinks(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeUnavailable, "something went wrong")
	}

	infos := make([]*ShareLinkInfo, 0, len(links))
	for _, link := range links {
		owner, err := s.store.GetUserByID(ctx, link.OwnerID)
		if err != nil {
			if stderrors.Is(err, store.ErrUserNotFound) {
				continue
			}
			return nil, errors.Wrap(err, errors.CodeUnavailable, "something went wrong")
		}
		infos = append(infos, &ShareLinkInfo{
			Token:     link.Token,
			Username:  owner.Username,
			CreatedAt: link.CreatedAt,
		})
	}
	return infos, nil
}
