package dataset

import (
	"context"

	"github.com/user/phish-dataset/internal/entity"
	"github.com/user/phish-dataset/internal/features"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// RowEnricher turns a URL into a complete dataset row.
type RowEnricher interface {
	EnrichURL(ctx context.Context, url, label string) (*entity.DatasetRow, error)
}

// ExtractFeatures computes the lexical features of every task.
func ExtractFeatures(tasks []entity.EnrichTask) []FeatureRow {
	rows := make([]FeatureRow, len(tasks))
	for i, t := range tasks {
		rows[i] = FeatureRow{URL: t.URL, Features: features.Extract(t.URL)}
	}
	return rows
}

// BuildRows enriches tasks with up to workers concurrent calls. Rows keep input
// order; a URL whose enrichment fails is logged and left out.
func BuildRows(ctx context.Context, enricher RowEnricher, tasks []entity.EnrichTask, workers int, logger *zap.Logger) ([]*entity.DatasetRow, error) {
	rows := make([]*entity.DatasetRow, len(tasks))

	var g errgroup.Group
	g.SetLimit(max(workers, 1))
	for i, t := range tasks {
		i, t := i, t
		g.Go(func() error {
			row, err := enricher.EnrichURL(ctx, t.URL, t.Label)
			if err != nil {
				logger.Warn("Skipping URL", zap.String("url", t.URL), zap.Error(err))
				return nil
			}
			rows[i] = row
			return nil
		})
	}
	g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]*entity.DatasetRow, 0, len(rows))
	for _, r := range rows {
		if r != nil {
			out = append(out, r)
		}
	}
	logger.Info("Built dataset rows", zap.Int("rows", len(out)), zap.Int("skipped", len(tasks)-len(out)))
	return out, nil
}
