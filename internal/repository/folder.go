package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"notehub/internal/apperr"
	"notehub/internal/models"
)

// PostgresFolderRepository implements folder persistence against PostgreSQL.
type PostgresFolderRepository struct {
	DB *sql.DB
}

// NewPostgresFolderRepository creates a PostgresFolderRepository with
// the given database connection.
func NewPostgresFolderRepository(db *sql.DB) *PostgresFolderRepository {
	return &PostgresFolderRepository{DB: db}
}

// Create inserts a folder. A duplicate (owner, name) pair surfaces as
// a conflict error via the store's unique constraint.
func (r *PostgresFolderRepository) Create(ctx context.Context, folder models.Folder) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO folders (id, owner_id, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`, folder.ID, folder.OwnerID, folder.Name, folder.CreatedAt, folder.UpdatedAt)
	if isUniqueViolation(err) {
		return apperr.Conflict("name already exists")
	}
	if err != nil {
		return fmt.Errorf("create folder: %w", err)
	}
	return nil
}

// GetByID fetches a folder by id scoped to its owner. Returns
// sql.ErrNoRows when the folder is absent or owned by someone else.
func (r *PostgresFolderRepository) GetByID(ctx context.Context, ownerID, id string) (*models.Folder, error) {
	var folder models.Folder
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, owner_id, name, created_at, updated_at FROM folders
		WHERE owner_id = $1 AND id = $2
	`, ownerID, id).Scan(&folder.ID, &folder.OwnerID, &folder.Name, &folder.CreatedAt, &folder.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &folder, nil
}

// ListByOwner fetches all folders belonging to the owner, newest first.
func (r *PostgresFolderRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Folder, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, owner_id, name, created_at, updated_at FROM folders
		WHERE owner_id = $1 ORDER BY updated_at DESC
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	defer rows.Close()

	folders := []models.Folder{}
	for rows.Next() {
		var folder models.Folder
		if err := rows.Scan(&folder.ID, &folder.OwnerID, &folder.Name, &folder.CreatedAt, &folder.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan folder: %w", err)
		}
		folders = append(folders, folder)
	}
	return folders, rows.Err()
}

// Rename updates a folder's name scoped to its owner and returns the
// full updated row. Returns sql.ErrNoRows when no row matched. A
// duplicate name surfaces as a conflict error.
func (r *PostgresFolderRepository) Rename(ctx context.Context, ownerID, id, name string, updatedAt time.Time) (*models.Folder, error) {
	var folder models.Folder
	err := r.DB.QueryRowContext(ctx, `
		UPDATE folders SET name = $3, updated_at = $4
		WHERE owner_id = $1 AND id = $2
		RETURNING id, owner_id, name, created_at, updated_at
	`, ownerID, id, name, updatedAt).Scan(
		&folder.ID, &folder.OwnerID, &folder.Name, &folder.CreatedAt, &folder.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return nil, apperr.Conflict("name already exists")
	}
	if err != nil {
		return nil, err
	}
	return &folder, nil
}

// Delete removes a folder scoped to its owner. Returns false when no
// row matched.
func (r *PostgresFolderRepository) Delete(ctx context.Context, ownerID, id string) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `
		DELETE FROM folders WHERE owner_id = $1 AND id = $2
	`, ownerID, id)
	if err != nil {
		return false, fmt.Errorf("delete folder: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete folder rows: %w", err)
	}
	return rows > 0, nil
}
