package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/user/phish-dataset/internal/entity"
	"github.com/user/phish-dataset/internal/features"
	"github.com/user/phish-dataset/internal/repository"
	"github.com/user/phish-dataset/pkg/metrics"
	"github.com/user/phish-dataset/pkg/utils"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Enricher builds dataset rows, either for a single URL or by draining the queue.
type Enricher interface {
	EnrichURL(ctx context.Context, url, label string) (*entity.DatasetRow, error)
	ProcessURLFromQueue(ctx context.Context) error
}

type enrichUseCase struct {
	resolver      repository.DNSResolver
	whois         repository.WhoisLookup
	queueRepo     repository.QueueRepository
	rowRepo       repository.DatasetRowRepository
	failedURLRepo repository.FailedURLRepository
	timeout       time.Duration
	logger        *zap.Logger
	now           func() time.Time
}

// NewEnricher creates the enrichment use case. The queue and storage repositories
// may be nil when only EnrichURL is used.
func NewEnricher(
	resolver repository.DNSResolver,
	whois repository.WhoisLookup,
	queueRepo repository.QueueRepository,
	rowRepo repository.DatasetRowRepository,
	failedURLRepo repository.FailedURLRepository,
	timeout time.Duration,
	logger *zap.Logger,
) Enricher {
	return &enrichUseCase{
		resolver:      resolver,
		whois:         whois,
		queueRepo:     queueRepo,
		rowRepo:       rowRepo,
		failedURLRepo: failedURLRepo,
		timeout:       timeout,
		logger:        logger,
		now:           time.Now,
	}
}

// EnrichURL extracts the lexical features of url and looks up its DNS and WHOIS
// records concurrently. Lookup failures leave their columns empty; only a
// cancelled or expired context is returned as an error.
func (uc *enrichUseCase) EnrichURL(ctx context.Context, url, label string) (*entity.DatasetRow, error) {
	start := time.Now()
	row := &entity.DatasetRow{
		URL:   url,
		Label: label,
		DNS:   entity.EmptyDNSRecords(),
	}

	row.Features = uc.extract(url)
	metrics.EnrichmentDuration.WithLabelValues("features").Observe(time.Since(start).Seconds())

	domain, err := utils.RegisteredDomain(url)
	if err != nil {
		uc.logger.Debug("Skipping lookups, no registered domain", zap.String("url", url), zap.Error(err))
		row.ProcessedAt = uc.now()
		return row, nil
	}

	if uc.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.timeout)
		defer cancel()
	}

	// Both lookups report their own failures and never fail the group.
	var g errgroup.Group
	g.Go(func() error {
		stageStart := time.Now()
		records, err := uc.resolver.Resolve(ctx, url)
		metrics.EnrichmentDuration.WithLabelValues("dns").Observe(time.Since(stageStart).Seconds())
		if err != nil {
			uc.logger.Warn("DNS lookup failed", zap.String("url", url), zap.Error(err))
		}
		row.DNS = records
		return nil
	})
	g.Go(func() error {
		stageStart := time.Now()
		rec, err := uc.whois.Lookup(ctx, domain)
		metrics.EnrichmentDuration.WithLabelValues("whois").Observe(time.Since(stageStart).Seconds())
		if err != nil {
			uc.logger.Warn("WHOIS lookup failed", zap.String("url", url), zap.String("domain", domain), zap.Error(err))
			return nil
		}
		row.Whois = rec
		return nil
	})
	g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("enrich %s: %w", url, err)
	}

	row.ProcessedAt = uc.now()
	metrics.EnrichmentDuration.WithLabelValues("total").Observe(time.Since(start).Seconds())
	return row, nil
}

func (uc *enrichUseCase) extract(url string) entity.URLFeatures {
	f, err := features.ExtractWithError(url)
	if err != nil {
		metrics.FeatureExtractions.WithLabelValues("fallback").Inc()
		uc.logger.Debug("Using fallback feature record", zap.String("url", url), zap.Error(err))
		return f
	}
	metrics.FeatureExtractions.WithLabelValues("parsed").Inc()
	return f
}

// ProcessURLFromQueue pops a single task, enriches it and stores the row.
// It returns repository.ErrQueueEmpty when there is nothing to do.
func (uc *enrichUseCase) ProcessURLFromQueue(ctx context.Context) error {
	task, err := uc.queueRepo.Pop(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrQueueEmpty) {
			return err
		}
		return fmt.Errorf("failed to pop URL from queue: %w", err)
	}
	metrics.URLsInQueue.Dec()

	uc.logger.Info("Processing URL from queue", zap.String("url", task.URL))

	row, err := uc.EnrichURL(ctx, task.URL, task.Label)
	if err != nil {
		uc.logger.Error("Enrichment failed for URL", zap.String("url", task.URL), zap.Error(err))
		errorType := "canceled"
		if errors.Is(err, context.DeadlineExceeded) {
			errorType = "timeout"
		}
		return uc.handleFailure(ctx, task.URL, errorType, err)
	}

	if err := uc.rowRepo.Save(ctx, row); err != nil {
		uc.logger.Error("Failed to save dataset row", zap.String("url", task.URL), zap.Error(err))
		return uc.handleFailure(ctx, task.URL, "storage", err)
	}

	metrics.EnrichmentsTotal.WithLabelValues("success", "").Inc()
	uc.logger.Info("Enrichment successful for URL", zap.String("url", task.URL), zap.Int64("row_id", row.ID))

	if err := uc.failedURLRepo.Delete(ctx, task.URL); err != nil {
		uc.logger.Warn("Failed to delete URL from failed_urls table after successful enrichment",
			zap.String("url", task.URL), zap.Error(err))
	}
	return nil
}

func (uc *enrichUseCase) handleFailure(ctx context.Context, url, errorType string, cause error) error {
	metrics.EnrichmentsTotal.WithLabelValues("failure", errorType).Inc()

	// The task context may be the one that expired.
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	failedURL := &entity.FailedURL{
		URL:                  url,
		FailureReason:        cause.Error(),
		ErrorType:            errorType,
		LastAttemptTimestamp: uc.now(),
	}
	if err := uc.failedURLRepo.SaveOrUpdate(saveCtx, failedURL); err != nil {
		return fmt.Errorf("failed to save failed URL record for %s: %w", url, err)
	}
	return nil
}
