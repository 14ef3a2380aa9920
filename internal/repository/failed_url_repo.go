package repository

import (
	"context"

	"github.com/user/phish-dataset/internal/entity"
)

// FailedURLRepository records URLs whose enrichment failed.
type FailedURLRepository interface {
	// SaveOrUpdate creates or updates a record for a failed URL, counting attempts.
	SaveOrUpdate(ctx context.Context, failedURL *entity.FailedURL) error
	// FindByURL returns the failure record for a URL or ErrNotFound.
	FindByURL(ctx context.Context, url string) (*entity.FailedURL, error)
	// Delete removes a failed URL record, typically after a successful enrichment.
	Delete(ctx context.Context, url string) error
}
