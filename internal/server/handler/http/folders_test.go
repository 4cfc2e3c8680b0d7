package http_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"notehub/internal/apperr"
	"notehub/internal/models"
	handler "notehub/internal/server/handler/http"
)

// fakeFoldersProvider records calls and returns preconfigured results.
type fakeFoldersProvider struct {
	receivedName string
	receivedID   string

	folder  *models.Folder
	folders []models.Folder
	err     error
}

func (f *fakeFoldersProvider) Create(_ context.Context, ownerID, name string) (*models.Folder, error) {
	f.receivedName = name
	return f.folder, f.err
}

func (f *fakeFoldersProvider) List(_ context.Context, ownerID string) ([]models.Folder, error) {
	return f.folders, f.err
}

func (f *fakeFoldersProvider) Rename(_ context.Context, ownerID, id, name string) (*models.Folder, error) {
	f.receivedID = id
	f.receivedName = name
	return f.folder, f.err
}

func (f *fakeFoldersProvider) Delete(_ context.Context, ownerID, id string) error {
	f.receivedID = id
	return f.err
}

func foldersRouter(h *handler.FoldersHandler) http.Handler {
	r := chi.NewRouter()
	r.Post("/api/folders", h.Create)
	r.Get("/api/folders", h.List)
	r.Put("/api/folders/{id}", h.Rename)
	r.Delete("/api/folders/{id}", h.Delete)
	return r
}

func TestFoldersHandler_CreateSuccess(t *testing.T) {
	fake := &fakeFoldersProvider{
		folder: &models.Folder{ID: "f1", Name: "Work", OwnerID: "u1"},
	}
	h := &handler.FoldersHandler{Folders: fake, Log: zap.NewNop()}

	w := doJSON(t, foldersRouter(h), http.MethodPost, "/api/folders", `{"name":"Work"}`)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d; want %d", w.Code, http.StatusCreated)
	}
	if loc := w.Header().Get("Location"); loc != "/api/folders/f1" {
		t.Errorf("Location = %q; want %q", loc, "/api/folders/f1")
	}
	if fake.receivedName != "Work" {
		t.Errorf("provider received name %q; want Work", fake.receivedName)
	}
}

func TestFoldersHandler_CreateConflict(t *testing.T) {
	fake := &fakeFoldersProvider{err: apperr.Conflict("name already exists")}
	h := &handler.FoldersHandler{Folders: fake, Log: zap.NewNop()}

	w := doJSON(t, foldersRouter(h), http.MethodPost, "/api/folders", `{"name":"Work"}`)

	if w.Code != http.StatusConflict {
		t.Errorf("status = %d; want %d", w.Code, http.StatusConflict)
	}
}

func TestFoldersHandler_RenameNotFound(t *testing.T) {
	fake := &fakeFoldersProvider{err: apperr.NotFound("folder not found")}
	h := &handler.FoldersHandler{Folders: fake, Log: zap.NewNop()}

	w := doJSON(t, foldersRouter(h), http.MethodPut, "/api/folders/f1", `{"name":"New"}`)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d; want %d", w.Code, http.StatusNotFound)
	}
	if fake.receivedID != "f1" {
		t.Errorf("provider received id %q; want f1", fake.receivedID)
	}
}

func TestFoldersHandler_DeleteNoContent(t *testing.T) {
	fake := &fakeFoldersProvider{}
	h := &handler.FoldersHandler{Folders: fake, Log: zap.NewNop()}

	w := doJSON(t, foldersRouter(h), http.MethodDelete, "/api/folders/f1", "")

	if w.Code != http.StatusNoContent {
		t.Errorf("status = %d; want %d", w.Code, http.StatusNoContent)
	}
}

func TestFoldersHandler_ListEmptyIsArray(t *testing.T) {
	fake := &fakeFoldersProvider{folders: nil}
	h := &handler.FoldersHandler{Folders: fake, Log: zap.NewNop()}

	w := doJSON(t, foldersRouter(h), http.MethodGet, "/api/folders", "")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; want %d", w.Code, http.StatusOK)
	}
	if body := w.Body.String(); body != "[]\n" {
		t.Errorf("body = %q; want %q", body, "[]\n")
	}
}
