package response

import (
	"time"

	"github.com/user/phish-dataset/internal/entity"
)

type SubmittedURL struct {
	URL    string `json:"url"`
	TaskID string `json:"task_id"`
}

type RejectedURL struct {
	URL    string `json:"url"`
	Reason string `json:"reason"`
}

type SubmitResponse struct {
	Status   string         `json:"status"`
	Message  string         `json:"message"`
	Accepted []SubmittedURL `json:"accepted"`
	Rejected []RejectedURL  `json:"rejected,omitempty"`
}

// StatusResponse is a DTO for enrichment status, mirroring entity.EnrichStatus
type StatusResponse struct {
	URL            string     `json:"url"`
	CurrentStatus  string     `json:"current_status"` // "pending", "completed", "failed"
	LastEnrichedAt *time.Time `json:"last_enriched_at,omitempty"`
	LastAttemptAt  *time.Time `json:"last_attempt_at,omitempty"`
	FailureReason  string     `json:"failure_reason,omitempty"`
	Attempts       int        `json:"attempts,omitempty"`
}

type FeatureResult struct {
	URL      string             `json:"url"`
	Features entity.URLFeatures `json:"features"`
	Error    string             `json:"error,omitempty"`
}

type FeaturesResponse struct {
	Results []FeatureResult `json:"results"`
}

type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
