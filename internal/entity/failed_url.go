package entity

import "time"

// FailedURL mirrors the `failed_urls` PostgreSQL table schema.
// Failures are recorded for inspection only; nothing re-queues them.
type FailedURL struct {
	ID                   int64
	URL                  string
	FailureReason        string
	ErrorType            string
	LastAttemptTimestamp time.Time
	AttemptCount         int
}
