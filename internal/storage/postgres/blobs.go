// Package postgres keeps documents as JSONB rows in a single table.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mcoot/lfg/internal/storage/document"
)

// Blobs stores one row per document in lfg_documents
type Blobs struct {
	pool *pgxpool.Pool
}

var _ document.Blobs = (*Blobs)(nil)

// New connects to Postgres, migrates, and returns a document Storage
func New(ctx context.Context, dsn string, logger *slog.Logger) (*document.Storage, *Blobs, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("postgres ping: %w", err)
	}

	blobs := NewBlobs(pool)
	if err := blobs.Migrate(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("postgres migrate: %w", err)
	}
	return document.NewStorage(blobs, logger), blobs, nil
}

// NewBlobs wraps an existing pool
func NewBlobs(pool *pgxpool.Pool) *Blobs {
	return &Blobs{pool: pool}
}

// Migrate creates the documents table if it doesn't exist
func (b *Blobs) Migrate(ctx context.Context) error {
	_, err := b.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS lfg_documents (
			name       TEXT PRIMARY KEY,
			body       JSONB       NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	return err
}

// Close releases the pool
func (b *Blobs) Close() {
	b.pool.Close()
}

func (b *Blobs) Read(ctx context.Context, key string) ([]byte, error) {
	var body []byte
	err := b.pool.QueryRow(ctx,
		`SELECT body::text FROM lfg_documents WHERE name = $1`, key,
	).Scan(&body)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, document.ErrBlobNotFound
	}
	return body, err
}

// Write upserts the document. JSONB normalizes whitespace, so stored bodies
// are not byte-identical to what was written.
func (b *Blobs) Write(ctx context.Context, key string, data []byte) error {
	_, err := b.pool.Exec(ctx,
		`INSERT INTO lfg_documents (name, body, updated_at)
		 VALUES ($1, $2::jsonb, NOW())
		 ON CONFLICT (name) DO UPDATE SET body = EXCLUDED.body, updated_at = EXCLUDED.updated_at`,
		key, string(data),
	)
	return err
}
