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

// FoldersProvider defines the folder operations required by the
// FoldersHandler.
type FoldersProvider interface {
	Create(ctx context.Context, ownerID, name string) (*models.Folder, error)
	List(ctx context.Context, ownerID string) ([]models.Folder, error)
	Rename(ctx context.Context, ownerID, id, name string) (*models.Folder, error)
	Delete(ctx context.Context, ownerID, id string) error
}

// FoldersHandler handles the owner-scoped folder endpoints.
type FoldersHandler struct {
	Folders FoldersProvider
	Log     *zap.Logger
}

// Create handles POST /api/folders.
func (h *FoldersHandler) Create(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.GetUserIDFromContext(r.Context())

	var req models.NameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	folder, err := h.Folders.Create(r.Context(), ownerID, req.Name)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	w.Header().Set("Location", "/api/folders/"+folder.ID)
	writeJSON(w, http.StatusCreated, folder)
}

// List handles GET /api/folders.
func (h *FoldersHandler) List(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.GetUserIDFromContext(r.Context())

	folders, err := h.Folders.List(r.Context(), ownerID)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	if folders == nil {
		folders = []models.Folder{}
	}
	writeJSON(w, http.StatusOK, folders)
}

// Rename handles PUT /api/folders/{id}.
func (h *FoldersHandler) Rename(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.GetUserIDFromContext(r.Context())

	var req models.NameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	folder, err := h.Folders.Rename(r.Context(), ownerID, chi.URLParam(r, "id"), req.Name)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, folder)
}

// Delete handles DELETE /api/folders/{id}. Folder references on the
// owner's notes are cleared as part of the operation.
func (h *FoldersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.GetUserIDFromContext(r.Context())

	if err := h.Folders.Delete(r.Context(), ownerID, chi.URLParam(r, "id")); err != nil {
		writeError(w, h.Log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
