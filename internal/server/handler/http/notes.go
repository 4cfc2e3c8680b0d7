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

// NotesProvider defines the note operations required by the NotesHandler.
type NotesProvider interface {
	Create(ctx context.Context, ownerID string, req models.CreateNoteRequest) (*models.Note, error)
	Get(ctx context.Context, ownerID, id string) (*models.Note, error)
	Find(ctx context.Context, ownerID string, filter models.NoteFilter) ([]models.Note, error)
	Update(ctx context.Context, ownerID, id string, patch models.UpdateNoteRequest) (*models.Note, error)
	Delete(ctx context.Context, ownerID, id string) error
}

// NotesHandler handles the owner-scoped note endpoints.
type NotesHandler struct {
	Notes NotesProvider
	Log   *zap.Logger
}

// Create handles POST /api/notes.
func (h *NotesHandler) Create(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.GetUserIDFromContext(r.Context())

	var req models.CreateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	note, err := h.Notes.Create(r.Context(), ownerID, req)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	w.Header().Set("Location", "/api/notes/"+note.ID)
	writeJSON(w, http.StatusCreated, note)
}

// List handles GET /api/notes. Supported query parameters: q (substring
// over title or content), folderId, tagId.
func (h *NotesHandler) List(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.GetUserIDFromContext(r.Context())

	q := r.URL.Query()
	filter := models.NoteFilter{
		Search:   q.Get("q"),
		FolderID: q.Get("folderId"),
		TagID:    q.Get("tagId"),
	}

	notes, err := h.Notes.Find(r.Context(), ownerID, filter)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	if notes == nil {
		notes = []models.Note{}
	}
	writeJSON(w, http.StatusOK, notes)
}

// Get handles GET /api/notes/{id}.
func (h *NotesHandler) Get(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.GetUserIDFromContext(r.Context())

	note, err := h.Notes.Get(r.Context(), ownerID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// Update handles PUT /api/notes/{id} as a partial update: only the
// fields present in the body are applied.
func (h *NotesHandler) Update(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.GetUserIDFromContext(r.Context())

	var patch models.UpdateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	note, err := h.Notes.Update(r.Context(), ownerID, chi.URLParam(r, "id"), patch)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// Delete handles DELETE /api/notes/{id}.
func (h *NotesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.GetUserIDFromContext(r.Context())

	if err := h.Notes.Delete(r.Context(), ownerID, chi.URLParam(r, "id")); err != nil {
		writeError(w, h.Log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
