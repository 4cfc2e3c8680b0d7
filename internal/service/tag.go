package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"notehub/internal/apperr"
	"notehub/internal/models"
)

// TagRepository defines the persistence operations needed by the TagService.
type TagRepository interface {
	Create(ctx context.Context, tag models.Tag) error
	ListByOwner(ctx context.Context, ownerID string) ([]models.Tag, error)
	Rename(ctx context.Context, ownerID, id, name string, updatedAt time.Time) (*models.Tag, error)
	Delete(ctx context.Context, ownerID, id string) (bool, error)
}

// TagReferenceCleaner removes a deleted tag's id from dependent notes.
type TagReferenceCleaner interface {
	RemoveTagRefs(ctx context.Context, ownerID, tagID string) (int64, error)
}

// TagService mirrors FolderService: per-owner name uniqueness and
// cascade reference removal on delete.
type TagService struct {
	tags  TagRepository
	notes TagReferenceCleaner
	log   *zap.Logger
}

// NewTagService constructs a TagService.
func NewTagService(tags TagRepository, notes TagReferenceCleaner, log *zap.Logger) *TagService {
	return &TagService{tags: tags, notes: notes, log: log}
}

// Create validates and persists a new tag.
func (s *TagService) Create(ctx context.Context, ownerID, name string) (*models.Tag, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation("missing name")
	}

	now := time.Now().UTC()
	tag := models.Tag{
		ID:        uuid.NewString(),
		Name:      name,
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.tags.Create(ctx, tag); err != nil {
		return nil, err
	}
	return &tag, nil
}

// List returns all tags of the owner.
func (s *TagService) List(ctx context.Context, ownerID string) ([]models.Tag, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	return s.tags.ListByOwner(ctx, ownerID)
}

// Rename changes a tag's name.
func (s *TagService) Rename(ctx context.Context, ownerID, id, name string) (*models.Tag, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	if !validID(id) {
		return nil, apperr.Validation("invalid id")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation("missing name")
	}

	tag, err := s.tags.Rename(ctx, ownerID, id, name, time.Now().UTC())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("tag not found")
	}
	if err != nil {
		return nil, err
	}
	return tag, nil
}

// Delete removes a tag and then strips its id from the tag sets of the
// owner's notes. Sequential like the folder cascade; the reference
// sweeper covers the crash window.
func (s *TagService) Delete(ctx context.Context, ownerID, id string) error {
	if err := requireOwner(ownerID); err != nil {
		return err
	}
	if !validID(id) {
		return apperr.Validation("invalid id")
	}

	deleted, err := s.tags.Delete(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if !deleted {
		return apperr.NotFound("tag not found")
	}

	removed, err := s.notes.RemoveTagRefs(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if removed > 0 {
		s.log.Info("removed tag references",
			zap.String("tag_id", id),
			zap.Int64("references", removed),
		)
	}
	return nil
}
