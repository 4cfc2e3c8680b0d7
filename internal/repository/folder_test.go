package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"

	"notehub/internal/apperr"
	"notehub/internal/models"
)

func setupFolderMock(t *testing.T) (*PostgresFolderRepository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	repo := NewPostgresFolderRepository(db)
	cleanup := func() { db.Close() }
	return repo, mock, cleanup
}

func TestFolderCreate_DuplicateName(t *testing.T) {
	repo, mock, cleanup := setupFolderMock(t)
	defer cleanup()

	now := time.Now()
	folder := models.Folder{ID: "f1", OwnerID: "u1", Name: "Work", CreatedAt: now, UpdatedAt: now}
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO folders (id, owner_id, name, created_at, updated_at)`)).
		WithArgs(folder.ID, folder.OwnerID, folder.Name, folder.CreatedAt, folder.UpdatedAt).
		WillReturnError(&pq.Error{Code: "23505"})

	err := repo.Create(context.Background(), folder)
	if apperr.As(err).Kind != apperr.KindConflict {
		t.Errorf("expected conflict error, got %v", err)
	}
}

func TestFolderGetByID_ScopedToOwner(t *testing.T) {
	repo, mock, cleanup := setupFolderMock(t)
	defer cleanup()

	created := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE owner_id = $1 AND id = $2`)).
		WithArgs("u1", "f1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id", "name", "created_at", "updated_at"}).
			AddRow("f1", "u1", "Work", created, created))

	folder, err := repo.GetByID(context.Background(), "u1", "f1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if folder.Name != "Work" || folder.OwnerID != "u1" {
		t.Errorf("unexpected folder returned: %+v", folder)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestFolderGetByID_ForeignOwnerIsNoRows(t *testing.T) {
	repo, mock, cleanup := setupFolderMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE owner_id = $1 AND id = $2`)).
		WithArgs("u2", "f1").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "u2", "f1")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("expected sql.ErrNoRows, got %v", err)
	}
}

func TestFolderRename_ReturnsFullRow(t *testing.T) {
	repo, mock, cleanup := setupFolderMock(t)
	defer cleanup()

	now := time.Now()
	created := now.Add(-time.Hour)
	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE folders SET name = $3, updated_at = $4`)).
		WithArgs("u1", "f1", "Archive", now).
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id", "name", "created_at", "updated_at"}).
			AddRow("f1", "u1", "Archive", created, now))

	folder, err := repo.Rename(context.Background(), "u1", "f1", "Archive", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if folder.Name != "Archive" || folder.OwnerID != "u1" {
		t.Errorf("renamed folder = %+v", folder)
	}
	if !folder.CreatedAt.Equal(created) {
		t.Errorf("createdAt = %v; want the original %v", folder.CreatedAt, created)
	}
}

func TestFolderRename_NoMatch(t *testing.T) {
	repo, mock, cleanup := setupFolderMock(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE folders SET name = $3, updated_at = $4`)).
		WithArgs("u1", "f1", "Archive", now).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Rename(context.Background(), "u1", "f1", "Archive", now)
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("expected sql.ErrNoRows for absent folder, got %v", err)
	}
}

func TestFolderRename_Conflict(t *testing.T) {
	repo, mock, cleanup := setupFolderMock(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE folders SET name = $3, updated_at = $4`)).
		WithArgs("u1", "f1", "Work", now).
		WillReturnError(&pq.Error{Code: "23505"})

	_, err := repo.Rename(context.Background(), "u1", "f1", "Work", now)
	if apperr.As(err).Kind != apperr.KindConflict {
		t.Errorf("expected conflict error, got %v", err)
	}
}

func TestFolderDelete_Success(t *testing.T) {
	repo, mock, cleanup := setupFolderMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM folders WHERE owner_id = $1 AND id = $2`)).
		WithArgs("u1", "f1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	deleted, err := repo.Delete(context.Background(), "u1", "f1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !deleted {
		t.Error("expected delete to report a match")
	}
}

func TestFolderListByOwner_Empty(t *testing.T) {
	repo, mock, cleanup := setupFolderMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE owner_id = $1 ORDER BY updated_at DESC`)).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id", "name", "created_at", "updated_at"}))

	folders, err := repo.ListByOwner(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(folders) != 0 {
		t.Errorf("expected empty list, got %d folders", len(folders))
	}
}
