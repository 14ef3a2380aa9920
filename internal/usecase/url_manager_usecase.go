package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/user/phish-dataset/internal/entity"
	"github.com/user/phish-dataset/internal/repository"
	"github.com/user/phish-dataset/pkg/metrics"
	"github.com/user/phish-dataset/pkg/utils"
	"go.uber.org/zap"
)

var (
	ErrURLRecentlyEnriched = errors.New("URL has been submitted recently and force is false")
)

// URLManager defines the interface for submitting and checking URLs.
type URLManager interface {
	Submit(ctx context.Context, url, label string, force bool) (string, error)
	GetStatus(ctx context.Context, url string) (*entity.EnrichStatus, error)
}

type urlManagerUseCase struct {
	visitedRepo   repository.VisitedRepository
	queueRepo     repository.QueueRepository
	rowRepo       repository.DatasetRowRepository
	failedURLRepo repository.FailedURLRepository
	dedupWindow   time.Duration
	logger        *zap.Logger
}

// NewURLManager creates a new URLManager use case. Submissions of the same URL
// within dedupWindow are rejected unless forced.
func NewURLManager(
	visitedRepo repository.VisitedRepository,
	queueRepo repository.QueueRepository,
	rowRepo repository.DatasetRowRepository,
	failedURLRepo repository.FailedURLRepository,
	dedupWindow time.Duration,
	logger *zap.Logger,
) URLManager {
	return &urlManagerUseCase{
		visitedRepo:   visitedRepo,
		queueRepo:     queueRepo,
		rowRepo:       rowRepo,
		failedURLRepo: failedURLRepo,
		dedupWindow:   dedupWindow,
		logger:        logger,
	}
}

func (uc *urlManagerUseCase) Submit(ctx context.Context, url, label string, force bool) (string, error) {
	taskID := utils.HashURL(url)

	if force {
		if err := uc.visitedRepo.RemoveVisited(ctx, url); err != nil {
			uc.logger.Warn("Failed to remove visited key for forced submission", zap.String("url", url), zap.Error(err))
		}
	} else {
		isVisited, err := uc.visitedRepo.IsVisited(ctx, url)
		if err != nil {
			return "", err
		}
		if isVisited {
			return taskID, ErrURLRecentlyEnriched
		}
	}

	if err := uc.queueRepo.Push(ctx, entity.EnrichTask{URL: url, Label: label}); err != nil {
		return "", err
	}
	metrics.URLsInQueue.Inc()

	if err := uc.visitedRepo.MarkVisited(ctx, url, uc.dedupWindow); err != nil {
		// The URL is queued; a second submission may slip through the window.
		uc.logger.Error("Failed to mark URL as visited after queueing", zap.String("url", url), zap.Error(err))
	}

	return taskID, nil
}

// GetStatus reports, in order of precedence, a stored row, a recorded failure,
// a pending submission, or not_found.
func (uc *urlManagerUseCase) GetStatus(ctx context.Context, url string) (*entity.EnrichStatus, error) {
	row, err := uc.rowRepo.FindByURL(ctx, url)
	switch {
	case err == nil:
		return &entity.EnrichStatus{
			URL:            url,
			CurrentStatus:  entity.StatusCompleted,
			LastEnrichedAt: &row.ProcessedAt,
		}, nil
	case !errors.Is(err, repository.ErrNotFound):
		return nil, err
	}

	failed, err := uc.failedURLRepo.FindByURL(ctx, url)
	switch {
	case err == nil:
		return &entity.EnrichStatus{
			URL:           url,
			CurrentStatus: entity.StatusFailed,
			LastAttemptAt: &failed.LastAttemptTimestamp,
			FailureReason: failed.FailureReason,
			Attempts:      failed.AttemptCount,
		}, nil
	case !errors.Is(err, repository.ErrNotFound):
		return nil, err
	}

	isVisited, err := uc.visitedRepo.IsVisited(ctx, url)
	if err != nil {
		return nil, err
	}
	if isVisited {
		return &entity.EnrichStatus{URL: url, CurrentStatus: entity.StatusPending}, nil
	}

	return &entity.EnrichStatus{URL: url, CurrentStatus: entity.StatusNotFound}, nil
}
