package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS dataset_rows (
	id           BIGSERIAL PRIMARY KEY,
	url          TEXT NOT NULL UNIQUE,
	label        TEXT NOT NULL DEFAULT '',
	features     JSONB NOT NULL,
	dns_records  JSONB NOT NULL,
	whois        JSONB NOT NULL,
	processed_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS failed_urls (
	id                     BIGSERIAL PRIMARY KEY,
	url                    TEXT NOT NULL UNIQUE,
	failure_reason         TEXT NOT NULL,
	error_type             TEXT NOT NULL DEFAULT '',
	last_attempt_timestamp TIMESTAMPTZ NOT NULL,
	attempt_count          INTEGER NOT NULL DEFAULT 1
);
`

// Migrate creates the tables this service writes to when they do not exist yet.
func Migrate(ctx context.Context, db *pgxpool.Pool) error {
	_, err := db.Exec(ctx, schema)
	return err
}
