package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cortexapp/cortex-server/internal/http/response"
)

// SetSharingRequest toggles the caller's share link.
type SetSharingRequest struct {
	Share *bool `json:"share" validate:"required"`
}

// handleSetSharing enables or disables the caller's share link.
// Enabling is idempotent and returns the live token either way;
// disabling an already-disabled brain reads as not found.
func (s *Server) handleSetSharing(w http.ResponseWriter, r *http.Request) {
	var req SetSharingRequest
	if err := s.decodeJSON(r, &req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	ctx := r.Context()
	ownerID := getUserID(ctx)

	if *req.Share {
		token, err := s.sharingService.EnableSharing(ctx, ownerID)
		if err != nil {
			response.HandleError(w, err, s.logger)
			return
		}
		response.Success(w, "sharing enabled", map[string]string{"hash": token}, s.logger)
		return
	}

	if err := s.sharingService.DisableSharing(ctx, ownerID); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, "sharing disabled", nil, s.logger)
}

// handleGetSharedBrain returns the read-only brain behind a token.
// No authentication: the token is the capability.
func (s *Server) handleGetSharedBrain(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	view, err := s.sharingService.ResolveShared(r.Context(), token)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, "", view, s.logger)
}

// handleListShareLinks returns every live share link with owner handles.
func (s *Server) handleListShareLinks(w http.ResponseWriter, r *http.Request) {
	links, err := s.sharingService.ListShareLinks(r.Context())
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, "", links, s.logger)
}
