package db

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"
)

// StartReferenceSweeper clears dangling folder and tag references left
// behind when a crash lands between a folder/tag delete and its cascade
// reference removal. Runs on a ticker until ctx is cancelled.
func StartReferenceSweeper(
	ctx context.Context,
	db *sql.DB,
	interval time.Duration,
	log *zap.Logger,
) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				res, err := db.ExecContext(ctx, `
                    UPDATE notes SET folder_id = NULL
                     WHERE folder_id IS NOT NULL
                       AND NOT EXISTS (SELECT 1 FROM folders WHERE folders.id = notes.folder_id)
                `)
				if err != nil {
					log.Error("failed to sweep dangling folder references", zap.Error(err))
					continue
				}
				if rows, _ := res.RowsAffected(); rows > 0 {
					log.Info("swept dangling folder references", zap.Int64("cleared", rows))
				}

				res, err = db.ExecContext(ctx, `
                    DELETE FROM note_tags
                     WHERE NOT EXISTS (SELECT 1 FROM tags WHERE tags.id = note_tags.tag_id)
                `)
				if err != nil {
					log.Error("failed to sweep dangling tag references", zap.Error(err))
					continue
				}
				if rows, _ := res.RowsAffected(); rows > 0 {
					log.Info("swept dangling tag references", zap.Int64("removed", rows))
				}
			}
		}
	}()
}
