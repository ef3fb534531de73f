package infra

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const mediaSchema = `
	CREATE TABLE IF NOT EXISTS media_records (
		id              TEXT PRIMARY KEY,
		mobile_number   TEXT NOT NULL CHECK (mobile_number <> ''),
		phone_number_id TEXT NOT NULL CHECK (phone_number_id <> ''),
		media_id        TEXT NOT NULL CHECK (media_id <> ''),
		filename        TEXT NOT NULL CHECK (filename <> ''),
		created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at      TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	CREATE UNIQUE INDEX IF NOT EXISTS media_records_media_id_key ON media_records (media_id);
	CREATE INDEX IF NOT EXISTS media_records_mobile_number_idx ON media_records (mobile_number);
`

// NewPgxPool connects to dsn, pings it and makes sure the media_records table
// and its unique media_id index exist.
func NewPgxPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect pgxpool: %w", err)
	}

	ctxPing, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := pool.Ping(ctxPing); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}

	if _, err := pool.Exec(ctx, mediaSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure media schema: %w", err)
	}

	return pool, nil
}
