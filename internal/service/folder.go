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

// FolderRepository defines the persistence operations needed by the
// FolderService.
type FolderRepository interface {
	Create(ctx context.Context, folder models.Folder) error
	ListByOwner(ctx context.Context, ownerID string) ([]models.Folder, error)
	Rename(ctx context.Context, ownerID, id, name string, updatedAt time.Time) (*models.Folder, error)
	Delete(ctx context.Context, ownerID, id string) (bool, error)
}

// FolderReferenceCleaner clears folder references on dependent notes.
type FolderReferenceCleaner interface {
	ClearFolderRefs(ctx context.Context, ownerID, folderID string) (int64, error)
}

// FolderService enforces per-owner name uniqueness and performs the
// cascade reference removal when a folder is deleted.
type FolderService struct {
	folders FolderRepository
	notes   FolderReferenceCleaner
	log     *zap.Logger
}

// NewFolderService constructs a FolderService.
func NewFolderService(folders FolderRepository, notes FolderReferenceCleaner, log *zap.Logger) *FolderService {
	return &FolderService{folders: folders, notes: notes, log: log}
}

// Create validates and persists a new folder. A name already used by
// another folder of the same owner surfaces as a conflict.
func (s *FolderService) Create(ctx context.Context, ownerID, name string) (*models.Folder, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation("missing name")
	}

	now := time.Now().UTC()
	folder := models.Folder{
		ID:        uuid.NewString(),
		Name:      name,
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.folders.Create(ctx, folder); err != nil {
		return nil, err
	}
	return &folder, nil
}

// List returns all folders of the owner.
func (s *FolderService) List(ctx context.Context, ownerID string) ([]models.Folder, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	return s.folders.ListByOwner(ctx, ownerID)
}

// Rename changes a folder's name, subject to the same per-owner
// uniqueness rule as Create.
func (s *FolderService) Rename(ctx context.Context, ownerID, id, name string) (*models.Folder, error) {
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

	folder, err := s.folders.Rename(ctx, ownerID, id, name, time.Now().UTC())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("folder not found")
	}
	if err != nil {
		return nil, err
	}
	return folder, nil
}

// Delete removes a folder and then unsets the folder reference on every
// dependent note of the same owner. The two steps are sequential, not
// transactional: a crash in between leaves dangling references that the
// reference sweeper clears.
func (s *FolderService) Delete(ctx context.Context, ownerID, id string) error {
	if err := requireOwner(ownerID); err != nil {
		return err
	}
	if !validID(id) {
		return apperr.Validation("invalid id")
	}

	deleted, err := s.folders.Delete(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if !deleted {
		return apperr.NotFound("folder not found")
	}

	cleared, err := s.notes.ClearFolderRefs(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if cleared > 0 {
		s.log.Info("cleared folder references",
			zap.String("folder_id", id),
			zap.Int64("notes", cleared),
		)
	}
	return nil
}
