package repository

import (
	"context"
	"time"
)

// VisitedRepository deduplicates URL submissions within a time window.
type VisitedRepository interface {
	// MarkVisited marks a URL as submitted with a specific expiry time.
	MarkVisited(ctx context.Context, url string, expiry time.Duration) error
	// IsVisited checks if a URL has been submitted recently.
	IsVisited(ctx context.Context, url string) (bool, error)
	// RemoveVisited removes a URL from the visited set, used for forced resubmission.
	RemoveVisited(ctx context.Context, url string) error
}
