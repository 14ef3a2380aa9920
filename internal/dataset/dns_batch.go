package dataset

import (
	"context"
	"sync"
	"time"

	"github.com/user/phish-dataset/internal/entity"
	"github.com/user/phish-dataset/internal/repository"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DNSBatch resolves a list of URLs in fixed-size chunks spread over a bounded
// number of workers.
type DNSBatch struct {
	resolver  repository.DNSResolver
	chunkSize int
	workers   int
	logger    *zap.Logger
}

func NewDNSBatch(resolver repository.DNSResolver, chunkSize, workers int, logger *zap.Logger) *DNSBatch {
	return &DNSBatch{
		resolver:  resolver,
		chunkSize: max(chunkSize, 1),
		workers:   max(workers, 1),
		logger:    logger,
	}
}

// Run resolves urls and returns one DNSResult per URL in input order. After each
// chunk completes, save (if non-nil) receives every result gathered so far, in
// completion order. A save error aborts the run.
func (b *DNSBatch) Run(ctx context.Context, urls []string, save func([]entity.DNSResult) error) ([]entity.DNSResult, error) {
	var (
		mu        sync.Mutex
		completed []entity.DNSResult
		chunks    = make([][]entity.DNSResult, (len(urls)+b.chunkSize-1)/b.chunkSize)
		start     = time.Now()
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)

	for i := range chunks {
		i := i
		lo := i * b.chunkSize
		hi := min(lo+b.chunkSize, len(urls))
		chunk := urls[lo:hi]

		g.Go(func() error {
			results := b.resolveChunk(gctx, chunk)

			mu.Lock()
			defer mu.Unlock()
			chunks[i] = results
			completed = append(completed, results...)

			b.logger.Info("Processed DNS chunk",
				zap.Int("processed", len(completed)),
				zap.Int("total", len(urls)),
				zap.Duration("elapsed", time.Since(start)),
			)
			if save != nil {
				return save(completed)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]entity.DNSResult, 0, len(urls))
	for _, c := range chunks {
		out = append(out, c...)
	}
	return out, nil
}

func (b *DNSBatch) resolveChunk(ctx context.Context, urls []string) []entity.DNSResult {
	results := make([]entity.DNSResult, 0, len(urls))
	for _, url := range urls {
		res := entity.DNSResult{URL: url}
		records, err := b.resolver.Resolve(ctx, url)
		res.DNSRecords = records
		if err != nil {
			res.DNSRecords = entity.EmptyDNSRecords()
			res.Error = err.Error()
			b.logger.Debug("DNS lookup failed", zap.String("url", url), zap.Error(err))
		}
		results = append(results, res)
	}
	return results
}
