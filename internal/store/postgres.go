package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/excelvision/excelvision/internal/models"
)

// UploadStore keeps the upload audit trail in PostgreSQL.
type UploadStore struct {
	pool *pgxpool.Pool
}

func NewUploadStore(pool *pgxpool.Pool) *UploadStore {
	return &UploadStore{pool: pool}
}

// Migrate creates the uploads table if it doesn't exist.
func (s *UploadStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS uploads (
			id         UUID PRIMARY KEY,
			user_id    VARCHAR(64),
			filename   VARCHAR(255) NOT NULL,
			object_key VARCHAR(512) NOT NULL,
			byte_size  BIGINT       NOT NULL,
			row_count  INTEGER      NOT NULL,
			created_at TIMESTAMPTZ  DEFAULT NOW()
		)
	`)
	return err
}

func (s *UploadStore) Record(ctx context.Context, rec *models.UploadRecord) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO uploads (id, user_id, filename, object_key, byte_size, row_count)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		rec.ID, rec.UserID, rec.Filename, rec.ObjectKey, rec.ByteSize, rec.RowCount,
	)
	if err != nil {
		return fmt.Errorf("record upload: %w", err)
	}
	return nil
}

// ListByUser returns a user's uploads, newest first.
func (s *UploadStore) ListByUser(ctx context.Context, userID string) ([]models.UploadRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, user_id, filename, object_key, byte_size, row_count, created_at
		 FROM uploads WHERE user_id = $1 ORDER BY created_at DESC`, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []models.UploadRecord
	for rows.Next() {
		var r models.UploadRecord
		if err := rows.Scan(&r.ID, &r.UserID, &r.Filename, &r.ObjectKey, &r.ByteSize, &r.RowCount, &r.CreatedAt); err != nil {
			return nil, err
		}
		recs = append(recs, r)
	}
	return recs, rows.Err()
}

// FindByFilename returns the user's most recent upload with the given name.
func (s *UploadStore) FindByFilename(ctx context.Context, userID, filename string) (*models.UploadRecord, error) {
	var r models.UploadRecord
	err := s.pool.QueryRow(ctx,
		`SELECT id, user_id, filename, object_key, byte_size, row_count, created_at
		 FROM uploads WHERE user_id = $1 AND filename = $2
		 ORDER BY created_at DESC LIMIT 1`, userID, filename,
	).Scan(&r.ID, &r.UserID, &r.Filename, &r.ObjectKey, &r.ByteSize, &r.RowCount, &r.CreatedAt)
	if err != nil {
		return nil, ErrNotFound
	}
	return &r, nil
}
