package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/user/phish-dataset/internal/delivery/http/request"
	"github.com/user/phish-dataset/internal/delivery/http/response"
	"github.com/user/phish-dataset/internal/entity"
	"github.com/user/phish-dataset/internal/features"
	"github.com/user/phish-dataset/internal/repository"
	"github.com/user/phish-dataset/internal/usecase"
	"github.com/user/phish-dataset/pkg/metrics"
	"go.uber.org/zap"
)

// HealthCheck reports whether a dependency is reachable.
type HealthCheck func(ctx context.Context) error

type Handler struct {
	urlManager usecase.URLManager
	rowRepo    repository.DatasetRowRepository
	checks     map[string]HealthCheck
	maxBatch   int
	logger     *zap.Logger
}

func NewHandler(
	urlManager usecase.URLManager,
	rowRepo repository.DatasetRowRepository,
	checks map[string]HealthCheck,
	maxBatch int,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		urlManager: urlManager,
		rowRepo:    rowRepo,
		checks:     checks,
		maxBatch:   maxBatch,
		logger:     logger,
	}
}

// HandleExtractFeatures computes lexical features inline. URLs that cannot be
// parsed still get the fallback record, with the reason in error.
func (h *Handler) HandleExtractFeatures(w http.ResponseWriter, r *http.Request) {
	var req request.FeaturesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if len(req.URLs) == 0 {
		h.writeJSONError(w, "URLs list cannot be empty", http.StatusBadRequest)
		return
	}
	if h.maxBatch > 0 && len(req.URLs) > h.maxBatch {
		h.writeJSONError(w, "Too many URLs in one request", http.StatusRequestEntityTooLarge)
		return
	}

	resp := response.FeaturesResponse{Results: make([]response.FeatureResult, len(req.URLs))}
	for i, u := range req.URLs {
		f, err := features.ExtractWithError(u)
		result := response.FeatureResult{URL: u, Features: f}
		if err != nil {
			metrics.FeatureExtractions.WithLabelValues("fallback").Inc()
			result.Error = err.Error()
		} else {
			metrics.FeatureExtractions.WithLabelValues("parsed").Inc()
		}
		resp.Results[i] = result
	}

	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) HandleSubmitEnrich(w http.ResponseWriter, r *http.Request) {
	var req request.EnrichRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if len(req.URLs) == 0 {
		h.writeJSONError(w, "URLs list cannot be empty", http.StatusBadRequest)
		return
	}
	if h.maxBatch > 0 && len(req.URLs) > h.maxBatch {
		h.writeJSONError(w, "Too many URLs in one request", http.StatusRequestEntityTooLarge)
		return
	}

	for _, u := range req.URLs {
		if _, err := url.ParseRequestURI(u); err != nil {
			h.writeJSONError(w, "Invalid URL in list: "+u, http.StatusBadRequest)
			return
		}
	}

	resp := response.SubmitResponse{Accepted: []response.SubmittedURL{}}
	for _, u := range req.URLs {
		taskID, err := h.urlManager.Submit(r.Context(), u, req.Label, req.Force)
		if err != nil {
			if errors.Is(err, usecase.ErrURLRecentlyEnriched) {
				resp.Rejected = append(resp.Rejected, response.RejectedURL{URL: u, Reason: err.Error()})
				continue
			}
			h.logger.Error("Failed to submit URL", zap.String("url", u), zap.Error(err))
			h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		resp.Accepted = append(resp.Accepted, response.SubmittedURL{URL: u, TaskID: taskID})
	}

	if len(resp.Accepted) == 0 {
		resp.Status = "rejected"
		resp.Message = "All URLs were submitted recently."
		h.writeJSON(w, http.StatusConflict, resp)
		return
	}

	resp.Status = "success"
	resp.Message = "URLs submitted for enrichment."
	h.writeJSON(w, http.StatusAccepted, resp)
}

func (h *Handler) HandleGetStatus(w http.ResponseWriter, r *http.Request) {
	rawURL := r.URL.Query().Get("url")
	if rawURL == "" {
		h.writeJSONError(w, "URL query parameter is required", http.StatusBadRequest)
		return
	}

	status, err := h.urlManager.GetStatus(r.Context(), rawURL)
	if err != nil {
		h.logger.Error("Failed to get enrichment status", zap.String("url", rawURL), zap.Error(err))
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if status.CurrentStatus == entity.StatusNotFound {
		h.writeJSONError(w, "Enrichment status not found for the given URL", http.StatusNotFound)
		return
	}

	resp := response.StatusResponse{
		URL:            status.URL,
		CurrentStatus:  status.CurrentStatus,
		LastEnrichedAt: status.LastEnrichedAt,
		LastAttemptAt:  status.LastAttemptAt,
		FailureReason:  status.FailureReason,
		Attempts:       status.Attempts,
	}
	h.writeJSON(w, http.StatusOK, resp)
}

// HandleGetRow returns the stored dataset row of a URL as a flat object.
func (h *Handler) HandleGetRow(w http.ResponseWriter, r *http.Request) {
	rawURL := r.URL.Query().Get("url")
	if rawURL == "" {
		h.writeJSONError(w, "URL query parameter is required", http.StatusBadRequest)
		return
	}

	row, err := h.rowRepo.FindByURL(r.Context(), rawURL)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			h.writeJSONError(w, "No dataset row for the given URL", http.StatusNotFound)
			return
		}
		h.logger.Error("Failed to load dataset row", zap.String("url", rawURL), zap.Error(err))
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, row.Flatten())
}

func (h *Handler) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := response.HealthResponse{Status: "ok", Checks: make(map[string]string, len(h.checks))}
	code := http.StatusOK
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			h.logger.Warn("Health check failed", zap.String("dependency", name), zap.Error(err))
			resp.Checks[name] = "unavailable"
			resp.Status = "degraded"
			code = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "ok"
	}

	h.writeJSON(w, code, resp)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to write JSON response", zap.Error(err))
	}
}

func (h *Handler) writeJSONError(w http.ResponseWriter, message string, status int) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
