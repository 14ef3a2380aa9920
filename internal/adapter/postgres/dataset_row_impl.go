package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/user/phish-dataset/internal/entity"
	"github.com/user/phish-dataset/internal/repository"
)

// DatasetRowRepoImpl implements repository.DatasetRowRepository using PostgreSQL.
// Feature, DNS and WHOIS blocks are stored as JSONB so the table survives schema growth.
type DatasetRowRepoImpl struct {
	db *pgxpool.Pool
}

// NewDatasetRowRepo creates a new instance of DatasetRowRepoImpl.
func NewDatasetRowRepo(db *pgxpool.Pool) *DatasetRowRepoImpl {
	return &DatasetRowRepoImpl{db: db}
}

// Save stores or updates the row for its URL.
func (r *DatasetRowRepoImpl) Save(ctx context.Context, row *entity.DatasetRow) error {
	featuresJSON, err := json.Marshal(row.Features)
	if err != nil {
		return err
	}
	dnsJSON, err := json.Marshal(row.DNS)
	if err != nil {
		return err
	}
	whoisJSON, err := json.Marshal(row.Whois)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO dataset_rows (url, label, features, dns_records, whois, processed_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (url) DO UPDATE SET
			label = EXCLUDED.label,
			features = EXCLUDED.features,
			dns_records = EXCLUDED.dns_records,
			whois = EXCLUDED.whois,
			processed_at = EXCLUDED.processed_at
		RETURNING id;
	`
	return r.db.QueryRow(ctx, query,
		row.URL,
		row.Label,
		featuresJSON,
		dnsJSON,
		whoisJSON,
		row.ProcessedAt,
	).Scan(&row.ID)
}

// FindByURL retrieves the row for a specific URL.
func (r *DatasetRowRepoImpl) FindByURL(ctx context.Context, url string) (*entity.DatasetRow, error) {
	query := `
		SELECT id, url, label, features, dns_records, whois, processed_at
		FROM dataset_rows
		WHERE url = $1;
	`
	row, err := scanRow(r.db.QueryRow(ctx, query, url))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	return row, err
}

// List returns rows in processing order for dataset export.
func (r *DatasetRowRepoImpl) List(ctx context.Context, limit, offset int) ([]*entity.DatasetRow, error) {
	query := `
		SELECT id, url, label, features, dns_records, whois, processed_at
		FROM dataset_rows
		ORDER BY processed_at ASC, id ASC
		LIMIT $1 OFFSET $2;
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*entity.DatasetRow
	for rows.Next() {
		row, err := scanRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func scanRow(s pgx.Row) (*entity.DatasetRow, error) {
	var row entity.DatasetRow
	var featuresJSON, dnsJSON, whoisJSON []byte

	if err := s.Scan(
		&row.ID,
		&row.URL,
		&row.Label,
		&featuresJSON,
		&dnsJSON,
		&whoisJSON,
		&row.ProcessedAt,
	); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(featuresJSON, &row.Features); err != nil {
		return nil, fmt.Errorf("decode features: %w", err)
	}
	if err := json.Unmarshal(dnsJSON, &row.DNS); err != nil {
		return nil, fmt.Errorf("decode dns records: %w", err)
	}
	if err := json.Unmarshal(whoisJSON, &row.Whois); err != nil {
		return nil, fmt.Errorf("decode whois: %w", err)
	}
	return &row, nil
}
