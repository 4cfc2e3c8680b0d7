package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"notehub/internal/models"
)

// PostgresNoteRepository implements note persistence against PostgreSQL.
// Tag references live in the note_tags join table and are written
// together with the note row inside a transaction.
type PostgresNoteRepository struct {
	DB *sql.DB
}

// NewPostgresNoteRepository creates a PostgresNoteRepository with the
// given database connection.
func NewPostgresNoteRepository(db *sql.DB) *PostgresNoteRepository {
	return &PostgresNoteRepository{DB: db}
}

// noteColumns selects a note row with its tag ids aggregated from the
// join table. An empty folder_id means the note is unfiled.
const noteColumns = `
	n.id, n.owner_id, n.title, n.content, COALESCE(n.folder_id::text, ''),
	n.created_at, n.updated_at,
	COALESCE(array_agg(nt.tag_id::text) FILTER (WHERE nt.tag_id IS NOT NULL), '{}')
`

func scanNote(s interface{ Scan(...any) error }) (*models.Note, error) {
	var note models.Note
	var tags pq.StringArray
	if err := s.Scan(
		&note.ID, &note.OwnerID, &note.Title, &note.Content, &note.FolderID,
		&note.CreatedAt, &note.UpdatedAt, &tags,
	); err != nil {
		return nil, err
	}
	note.Tags = []string(tags)
	return &note, nil
}

// Create inserts a note and its tag references within a transaction.
func (r *PostgresNoteRepository) Create(ctx context.Context, note models.Note) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO notes (id, owner_id, title, content, folder_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, '')::uuid, $6, $7)
	`, note.ID, note.OwnerID, note.Title, note.Content, note.FolderID, note.CreatedAt, note.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert note: %w", err)
	}

	for _, tagID := range note.Tags {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO note_tags (note_id, tag_id) VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, note.ID, tagID)
		if err != nil {
			return fmt.Errorf("insert note tag: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// GetByID fetches a note with its tag ids, scoped to the owner.
// Returns sql.ErrNoRows when the note is absent or owned by someone
// else.
func (r *PostgresNoteRepository) GetByID(ctx context.Context, ownerID, id string) (*models.Note, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT `+noteColumns+`
		FROM notes n
		LEFT JOIN note_tags nt ON nt.note_id = n.id
		WHERE n.owner_id = $1 AND n.id = $2
		GROUP BY n.id
	`, ownerID, id)
	return scanNote(row)
}

// Find lists the owner's notes matching the filter, most recently
// updated first. The search term matches title or content
// case-insensitively as a substring.
func (r *PostgresNoteRepository) Find(ctx context.Context, ownerID string, filter models.NoteFilter) ([]models.Note, error) {
	query := `
		SELECT ` + noteColumns + `
		FROM notes n
		LEFT JOIN note_tags nt ON nt.note_id = n.id
		WHERE n.owner_id = $1
	`
	args := []any{ownerID}

	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		query += fmt.Sprintf(" AND (n.title ILIKE $%d OR n.content ILIKE $%d)", len(args), len(args))
	}
	if filter.FolderID != "" {
		args = append(args, filter.FolderID)
		query += fmt.Sprintf(" AND n.folder_id = $%d", len(args))
	}
	if filter.TagID != "" {
		args = append(args, filter.TagID)
		query += fmt.Sprintf(" AND n.id IN (SELECT note_id FROM note_tags WHERE tag_id = $%d)", len(args))
	}

	query += " GROUP BY n.id ORDER BY n.updated_at DESC"

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find notes: %w", err)
	}
	defer rows.Close()

	notes := []models.Note{}
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		notes = append(notes, *note)
	}
	return notes, rows.Err()
}

// Update rewrites a note row and replaces its tag references within a
// transaction. Returns false when no row matched the owner-scoped id,
// in which case nothing is written.
func (r *PostgresNoteRepository) Update(ctx context.Context, note models.Note) (bool, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE notes SET title = $3, content = $4, folder_id = NULLIF($5, '')::uuid, updated_at = $6
		WHERE owner_id = $1 AND id = $2
	`, note.OwnerID, note.ID, note.Title, note.Content, note.FolderID, note.UpdatedAt)
	if err != nil {
		return false, fmt.Errorf("update note: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update note rows: %w", err)
	}
	if rows == 0 {
		return false, nil
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM note_tags WHERE note_id = $1`, note.ID); err != nil {
		return false, fmt.Errorf("clear note tags: %w", err)
	}
	for _, tagID := range note.Tags {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO note_tags (note_id, tag_id) VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, note.ID, tagID)
		if err != nil {
			return false, fmt.Errorf("insert note tag: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit: %w", err)
	}
	return true, nil
}

// Delete removes a note scoped to its owner. Tag references go with it
// via the join table's cascade. Returns false when no row matched.
func (r *PostgresNoteRepository) Delete(ctx context.Context, ownerID, id string) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `
		DELETE FROM notes WHERE owner_id = $1 AND id = $2
	`, ownerID, id)
	if err != nil {
		return false, fmt.Errorf("delete note: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete note rows: %w", err)
	}
	return rows > 0, nil
}

// ClearFolderRefs unsets the folder reference on every note of the
// owner that points at folderID. Returns the number of notes touched.
func (r *PostgresNoteRepository) ClearFolderRefs(ctx context.Context, ownerID, folderID string) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE notes SET folder_id = NULL WHERE owner_id = $1 AND folder_id = $2
	`, ownerID, folderID)
	if err != nil {
		return 0, fmt.Errorf("clear folder refs: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("clear folder refs rows: %w", err)
	}
	return rows, nil
}

// RemoveTagRefs removes tagID from the tag sets of the owner's notes.
// Other tags on the same notes are untouched. Returns the number of
// references removed.
func (r *PostgresNoteRepository) RemoveTagRefs(ctx context.Context, ownerID, tagID string) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `
		DELETE FROM note_tags
		 WHERE tag_id = $1
		   AND note_id IN (SELECT id FROM notes WHERE owner_id = $2)
	`, tagID, ownerID)
	if err != nil {
		return 0, fmt.Errorf("remove tag refs: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("remove tag refs rows: %w", err)
	}
	return rows, nil
}
