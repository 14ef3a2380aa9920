package entity

import "time"

const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusNotFound  = "not_found"
)

type EnrichStatus struct {
	URL            string
	CurrentStatus  string // one of the Status* constants
	LastEnrichedAt *time.Time
	LastAttemptAt  *time.Time
	FailureReason  string
	Attempts       int
}
