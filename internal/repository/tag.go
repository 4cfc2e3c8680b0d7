package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"notehub/internal/apperr"
	"notehub/internal/models"
)

// PostgresTagRepository implements tag persistence against PostgreSQL.
// Tags mirror folders: same shape, same per-owner name uniqueness.
type PostgresTagRepository struct {
	DB *sql.DB
}

// NewPostgresTagRepository creates a PostgresTagRepository with the
// given database connection.
func NewPostgresTagRepository(db *sql.DB) *PostgresTagRepository {
	return &PostgresTagRepository{DB: db}
}

// Create inserts a tag. A duplicate (owner, name) pair surfaces as a
// conflict error.
func (r *PostgresTagRepository) Create(ctx context.Context, tag models.Tag) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO tags (id, owner_id, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`, tag.ID, tag.OwnerID, tag.Name, tag.CreatedAt, tag.UpdatedAt)
	if isUniqueViolation(err) {
		return apperr.Conflict("name already exists")
	}
	if err != nil {
		return fmt.Errorf("create tag: %w", err)
	}
	return nil
}

// GetByID fetches a tag by id scoped to its owner.
func (r *PostgresTagRepository) GetByID(ctx context.Context, ownerID, id string) (*models.Tag, error) {
	var tag models.Tag
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, owner_id, name, created_at, updated_at FROM tags
		WHERE owner_id = $1 AND id = $2
	`, ownerID, id).Scan(&tag.ID, &tag.OwnerID, &tag.Name, &tag.CreatedAt, &tag.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

// ListByOwner fetches all tags belonging to the owner, newest first.
func (r *PostgresTagRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Tag, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, owner_id, name, created_at, updated_at FROM tags
		WHERE owner_id = $1 ORDER BY updated_at DESC
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	tags := []models.Tag{}
	for rows.Next() {
		var tag models.Tag
		if err := rows.Scan(&tag.ID, &tag.OwnerID, &tag.Name, &tag.CreatedAt, &tag.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

// FilterExisting returns the subset of ids that resolve to tags owned
// by ownerID. Used for reference validation before a note write.
func (r *PostgresTagRepository) FilterExisting(ctx context.Context, ownerID string, ids []string) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id FROM tags WHERE owner_id = $1 AND id = ANY($2)
	`, ownerID, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("filter tags: %w", err)
	}
	defer rows.Close()

	existing := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan tag id: %w", err)
		}
		existing = append(existing, id)
	}
	return existing, rows.Err()
}

// Rename updates a tag's name scoped to its owner and returns the full
// updated row. Returns sql.ErrNoRows when no row matched. A duplicate
// name surfaces as a conflict error.
func (r *PostgresTagRepository) Rename(ctx context.Context, ownerID, id, name string, updatedAt time.Time) (*models.Tag, error) {
	var tag models.Tag
	err := r.DB.QueryRowContext(ctx, `
		UPDATE tags SET name = $3, updated_at = $4
		WHERE owner_id = $1 AND id = $2
		RETURNING id, owner_id, name, created_at, updated_at
	`, ownerID, id, name, updatedAt).Scan(
		&tag.ID, &tag.OwnerID, &tag.Name, &tag.CreatedAt, &tag.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return nil, apperr.Conflict("name already exists")
	}
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

// Delete removes a tag scoped to its owner. Returns false when no row
// matched.
func (r *PostgresTagRepository) Delete(ctx context.Context, ownerID, id string) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `
		DELETE FROM tags WHERE owner_id = $1 AND id = $2
	`, ownerID, id)
	if err != nil {
		return false, fmt.Errorf("delete tag: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete tag rows: %w", err)
	}
	return rows > 0, nil
}
