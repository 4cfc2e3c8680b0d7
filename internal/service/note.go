// Package service implements the business logic of the API: the
// ownership and referential-integrity rules for notes, folders, and
// tags, and the authentication flows. Every operation receives the
// trusted owner identity established by the token middleware and scopes
// all reads and writes with it.
package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"notehub/internal/apperr"
	"notehub/internal/models"
)

// validID reports whether id is a well-formed identifier. Malformed
// ids never reach the store.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// requireOwner rejects operations with no trusted owner identity.
func requireOwner(ownerID string) error {
	if ownerID == "" {
		return apperr.Forbidden("missing owner identity")
	}
	return nil
}

// NoteRepository defines the persistence operations needed by the NoteService.
type NoteRepository interface {
	// Create inserts a note with its tag references.
	Create(ctx context.Context, note models.Note) error
	// GetByID fetches a note scoped to its owner; sql.ErrNoRows when absent.
	GetByID(ctx context.Context, ownerID, id string) (*models.Note, error)
	// Find lists the owner's notes matching the filter, newest first.
	Find(ctx context.Context, ownerID string, filter models.NoteFilter) ([]models.Note, error)
	// Update rewrites a note and its tag references; false when no row matched.
	Update(ctx context.Context, note models.Note) (bool, error)
	// Delete removes a note scoped to its owner; false when no row matched.
	Delete(ctx context.Context, ownerID, id string) (bool, error)
}

// FolderResolver resolves folder references during integrity checks.
type FolderResolver interface {
	GetByID(ctx context.Context, ownerID, id string) (*models.Folder, error)
}

// TagResolver resolves tag references during integrity checks.
type TagResolver interface {
	// FilterExisting returns the subset of ids owned by ownerID.
	FilterExisting(ctx context.Context, ownerID string, ids []string) ([]string, error)
}

// NoteService enforces the note contracts: ownership scoping, folder
// and tag reference validation, and partial-update semantics.
type NoteService struct {
	notes   NoteRepository
	folders FolderResolver
	tags    TagResolver
}

// NewNoteService constructs a NoteService with the given collaborators.
func NewNoteService(notes NoteRepository, folders FolderResolver, tags TagResolver) *NoteService {
	return &NoteService{notes: notes, folders: folders, tags: tags}
}

// checkFolderRef validates a folder reference: the id must be well
// formed and resolve to a folder owned by ownerID. An empty id means
// "no folder" and passes.
func (s *NoteService) checkFolderRef(ctx context.Context, ownerID, folderID string) error {
	if folderID == "" {
		return nil
	}
	if !validID(folderID) {
		return apperr.Validation("invalid id")
	}
	_, err := s.folders.GetByID(ctx, ownerID, folderID)
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.Integrity("folder not found", nil)
	}
	return err
}

// checkTagRefs validates tag references against the owner's tags and
// returns them deduplicated. Unknown ids are enumerated in the error.
func (s *NoteService) checkTagRefs(ctx context.Context, ownerID string, tagIDs []string) ([]string, error) {
	if len(tagIDs) == 0 {
		return []string{}, nil
	}

	seen := make(map[string]struct{}, len(tagIDs))
	deduped := make([]string, 0, len(tagIDs))
	for _, id := range tagIDs {
		if !validID(id) {
			return nil, apperr.Validation("invalid id")
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		deduped = append(deduped, id)
	}

	existing, err := s.tags.FilterExisting(ctx, ownerID, deduped)
	if err != nil {
		return nil, err
	}
	found := make(map[string]struct{}, len(existing))
	for _, id := range existing {
		found[id] = struct{}{}
	}

	missing := []string{}
	for _, id := range deduped {
		if _, ok := found[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return nil, apperr.Integrity("tag not found", missing)
	}
	return deduped, nil
}

// Create validates and persists a new note owned by ownerID.
func (s *NoteService) Create(ctx context.Context, ownerID string, req models.CreateNoteRequest) (*models.Note, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	if req.OwnerID != "" && req.OwnerID != ownerID {
		return nil, apperr.Forbidden("cannot create a note for another owner")
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, apperr.Validation("missing title")
	}

	if err := s.checkFolderRef(ctx, ownerID, req.FolderID); err != nil {
		return nil, err
	}
	tags, err := s.checkTagRefs(ctx, ownerID, req.Tags)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	note := models.Note{
		ID:        uuid.NewString(),
		Title:     title,
		Content:   req.Content,
		FolderID:  req.FolderID,
		Tags:      tags,
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.notes.Create(ctx, note); err != nil {
		return nil, err
	}
	return &note, nil
}

// Get fetches a single note. Absent and foreign-owned notes are both
// reported as not found.
func (s *NoteService) Get(ctx context.Context, ownerID, id string) (*models.Note, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	if !validID(id) {
		return nil, apperr.Validation("invalid id")
	}

	note, err := s.notes.GetByID(ctx, ownerID, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("note not found")
	}
	if err != nil {
		return nil, err
	}
	return note, nil
}

// Find lists the owner's notes matching the filter. No match is an
// empty result, never an error.
func (s *NoteService) Find(ctx context.Context, ownerID string, filter models.NoteFilter) ([]models.Note, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	if filter.FolderID != "" && !validID(filter.FolderID) {
		return nil, apperr.Validation("invalid id")
	}
	if filter.TagID != "" && !validID(filter.TagID) {
		return nil, apperr.Validation("invalid id")
	}
	return s.notes.Find(ctx, ownerID, filter)
}

// Update applies a partial update: only fields present in the patch are
// considered. Integrity failures surface before anything is written.
func (s *NoteService) Update(ctx context.Context, ownerID, id string, patch models.UpdateNoteRequest) (*models.Note, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	if !validID(id) {
		return nil, apperr.Validation("invalid id")
	}

	note, err := s.notes.GetByID(ctx, ownerID, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("note not found")
	}
	if err != nil {
		return nil, err
	}

	if patch.OwnerID != nil && *patch.OwnerID != ownerID {
		return nil, apperr.Forbidden("cannot transfer note ownership")
	}

	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, apperr.Validation("missing title")
		}
		note.Title = title
	}
	if patch.Content != nil {
		note.Content = *patch.Content
	}
	if patch.FolderID != nil {
		// Empty string unsets the reference; omission leaves it alone.
		if err := s.checkFolderRef(ctx, ownerID, *patch.FolderID); err != nil {
			return nil, err
		}
		note.FolderID = *patch.FolderID
	}
	if patch.Tags != nil {
		tags, err := s.checkTagRefs(ctx, ownerID, *patch.Tags)
		if err != nil {
			return nil, err
		}
		note.Tags = tags
	}

	now := time.Now().UTC()
	if !now.After(note.UpdatedAt) {
		// updatedAt must strictly increase even within clock resolution
		now = note.UpdatedAt.Add(time.Microsecond)
	}
	note.UpdatedAt = now

	matched, err := s.notes.Update(ctx, *note)
	if err != nil {
		return nil, err
	}
	if !matched {
		return nil, apperr.NotFound("note not found")
	}
	return note, nil
}

// Delete removes a note. An absent or foreign-owned id is reported as
// not found.
func (s *NoteService) Delete(ctx context.Context, ownerID, id string) error {
	if err := requireOwner(ownerID); err != nil {
		return err
	}
	if !validID(id) {
		return apperr.Validation("invalid id")
	}

	deleted, err := s.notes.Delete(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if !deleted {
		return apperr.NotFound("note not found")
	}
	return nil
}
