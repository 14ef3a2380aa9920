package repository

import (
	"context"
	"errors"

	"github.com/user/phish-dataset/internal/entity"
)

// ErrNotFound is returned by repositories when no record exists for a key.
var ErrNotFound = errors.New("record not found")

// DatasetRowRepository stores enriched dataset rows.
type DatasetRowRepository interface {
	// Save stores the row for its URL, replacing any earlier row.
	Save(ctx context.Context, row *entity.DatasetRow) error
	// FindByURL returns the row for a URL or ErrNotFound.
	FindByURL(ctx context.Context, url string) (*entity.DatasetRow, error)
	// List returns up to limit rows ordered by processing time, oldest first.
	List(ctx context.Context, limit, offset int) ([]*entity.DatasetRow, error)
}
