package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/user/phish-dataset/internal/entity"
	"github.com/user/phish-dataset/internal/repository"
)

// FailedURLRepoImpl implements repository.FailedURLRepository using PostgreSQL.
type FailedURLRepoImpl struct {
	db *pgxpool.Pool
}

// NewFailedURLRepo creates a new instance of FailedURLRepoImpl.
func NewFailedURLRepo(db *pgxpool.Pool) *FailedURLRepoImpl {
	return &FailedURLRepoImpl{db: db}
}

// SaveOrUpdate creates or updates a record for a failed URL.
// It increments attempt_count on conflict.
func (r *FailedURLRepoImpl) SaveOrUpdate(ctx context.Context, failedURL *entity.FailedURL) error {
	query := `
		INSERT INTO failed_urls (url, failure_reason, error_type, last_attempt_timestamp, attempt_count)
		VALUES ($1, $2, $3, $4, 1)
		ON CONFLICT (url) DO UPDATE SET
			failure_reason = EXCLUDED.failure_reason,
			error_type = EXCLUDED.error_type,
			last_attempt_timestamp = EXCLUDED.last_attempt_timestamp,
			attempt_count = failed_urls.attempt_count + 1;
	`
	_, err := r.db.Exec(ctx, query,
		failedURL.URL,
		failedURL.FailureReason,
		failedURL.ErrorType,
		failedURL.LastAttemptTimestamp,
	)
	return err
}

// FindByURL returns the failure record for a URL.
func (r *FailedURLRepoImpl) FindByURL(ctx context.Context, url string) (*entity.FailedURL, error) {
	query := `
		SELECT id, url, failure_reason, error_type, last_attempt_timestamp, attempt_count
		FROM failed_urls
		WHERE url = $1;
	`
	var fu entity.FailedURL
	err := r.db.QueryRow(ctx, query, url).Scan(
		&fu.ID,
		&fu.URL,
		&fu.FailureReason,
		&fu.ErrorType,
		&fu.LastAttemptTimestamp,
		&fu.AttemptCount,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &fu, nil
}

// Delete removes a failed URL record, typically after a successful enrichment.
func (r *FailedURLRepoImpl) Delete(ctx context.Context, url string) error {
	query := `DELETE FROM failed_urls WHERE url = $1;`
	_, err := r.db.Exec(ctx, query, url)
	return err
}
