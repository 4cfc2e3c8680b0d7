package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"notehub/internal/middleware"
	"notehub/internal/models"
)

// TagsProvider defines the tag operations required by the TagsHandler.
type TagsProvider interface {
	Create(ctx context.Context, ownerID, name string) (*models.Tag, error)
	List(ctx context.Context, ownerID string) ([]models.Tag, error)
	Rename(ctx context.Context, ownerID, id, name string) (*models.Tag, error)
	Delete(ctx context.Context, ownerID, id string) error
}

// TagsHandler handles the owner-scoped tag endpoints.
type TagsHandler struct {
	Tags TagsProvider
	Log  *zap.Logger
}

// Create handles POST /api/tags.
func (h *TagsHandler) Create(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.GetUserIDFromContext(r.Context())

	var req models.NameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	tag, err := h.Tags.Create(r.Context(), ownerID, req.Name)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	w.Header().Set("Location", "/api/tags/"+tag.ID)
	writeJSON(w, http.StatusCreated, tag)
}

// List handles GET /api/tags.
func (h *TagsHandler) List(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.GetUserIDFromContext(r.Context())

	tags, err := h.Tags.List(r.Context(), ownerID)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	if tags == nil {
		tags = []models.Tag{}
	}
	writeJSON(w, http.StatusOK, tags)
}

// Rename handles PUT /api/tags/{id}.
func (h *TagsHandler) Rename(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.GetUserIDFromContext(r.Context())

	var req models.NameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	tag, err := h.Tags.Rename(r.Context(), ownerID, chi.URLParam(r, "id"), req.Name)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, tag)
}

// Delete handles DELETE /api/tags/{id}. The tag's references are
// removed from the owner's notes as part of the operation.
func (h *TagsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.GetUserIDFromContext(r.Context())

	if err := h.Tags.Delete(r.Context(), ownerID, chi.URLParam(r, "id")); err != nil {
		writeError(w, h.Log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
