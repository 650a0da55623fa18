package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cortexapp/cortex-server/internal/domain"
	"github.com/cortexapp/cortex-server/internal/http/response"
	"github.com/cortexapp/cortex-server/internal/service"
)

// CreateContentRequest is the request body for saving an item.
type CreateContentRequest struct {
	Title string   `json:"title" validate:"required,min=10,max=100"`
	Type  string   `json:"type" validate:"required,oneof=VIDEO_LINK SOCIAL_POST DOCUMENT GENERIC_LINK TAG FREE_TEXT"`
	Link  string   `json:"link,omitempty" validate:"omitempty,url"`
	Body  string   `json:"body,omitempty" validate:"omitempty,max=1000"`
	Tags  []string `json:"tags,omitempty" validate:"omitempty,max=20,dive,min=1,max=50"`
}

// UpdateContentRequest is the request body for a partial update.
// Absent fields are left untouched.
type UpdateContentRequest struct {
	Title *string  `json:"title,omitempty" validate:"omitempty,min=10,max=100"`
	Type  *string  `json:"type,omitempty" validate:"omitempty,oneof=VIDEO_LINK SOCIAL_POST DOCUMENT GENERIC_LINK TAG FREE_TEXT"`
	Link  *string  `json:"link,omitempty" validate:"omitempty,url"`
	Body  *string  `json:"body,omitempty" validate:"omitempty,max=1000"`
	Tags  []string `json:"tags,omitempty" validate:"omitempty,max=20,dive,min=1,max=50"`
}

// handleCreateContent saves a new item for the authenticated user.
func (s *Server) handleCreateContent(w http.ResponseWriter, r *http.Request) {
	var req CreateContentRequest
	if err := s.decodeJSON(r, &req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	view, err := s.contentService.Create(r.Context(), getUserID(r.Context()), service.CreateContentInput{
		Title: req.Title,
		Type:  domain.ContentType(req.Type),
		Link:  req.Link,
		Body:  req.Body,
		Tags:  req.Tags,
	})
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, "content saved", view, s.logger)
}

// handleListContent returns the authenticated user's items, newest first.
func (s *Server) handleListContent(w http.ResponseWriter, r *http.Request) {
	views, err := s.contentService.List(r.Context(), getUserID(r.Context()))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, "", views, s.logger)
}

// handleUpdateContent applies a partial update to one of the user's items.
func (s *Server) handleUpdateContent(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "id")
	if itemID == "" {
		response.BadRequest(w, "Content ID is required", s.logger)
		return
	}

	var req UpdateContentRequest
	if err := s.decodeJSON(r, &req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	input := service.UpdateContentInput{
		Title: req.Title,
		Link:  req.Link,
		Body:  req.Body,
		Tags:  req.Tags,
	}
	if req.Type != nil {
		t := domain.ContentType(*req.Type)
		input.Type = &t
	}

	view, err := s.contentService.Update(r.Context(), getUserID(r.Context()), itemID, input)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, "content updated", view, s.logger)
}

// handleDeleteContent removes one of the user's items.
func (s *Server) handleDeleteContent(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "id")
	if itemID == "" {
		response.BadRequest(w, "Content ID is required", s.logger)
		return
	}

	if err := s.contentService.Delete(r.Context(), getUserID(r.Context()), itemID); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, "content deleted", nil, s.logger)
}
