package usecase

import (
	"context"
	"fmt"
	"io"

	"github.com/user/phish-dataset/internal/entity"
	"github.com/user/phish-dataset/internal/repository"
	"go.uber.org/zap"
)

// SynthReport summarizes a synthesis run.
type SynthReport struct {
	Batches       int
	FailedBatches int
	Variants      []entity.URLVariant
}

// Synthesizer produces typo-squatted URL variants in batches.
type Synthesizer interface {
	Synthesize(ctx context.Context, urls []string, batchSize int, out io.Writer) (*SynthReport, error)
}

type synthUseCase struct {
	generator repository.VariantGenerator
	logger    *zap.Logger
}

func NewSynthesizer(generator repository.VariantGenerator, logger *zap.Logger) Synthesizer {
	return &synthUseCase{generator: generator, logger: logger}
}

// Synthesize sends urls to the generator batchSize at a time and appends each raw
// response to out followed by a blank line. A failed batch is logged and skipped;
// write errors and context cancellation stop the run.
func (uc *synthUseCase) Synthesize(ctx context.Context, urls []string, batchSize int, out io.Writer) (*SynthReport, error) {
	if batchSize < 1 {
		batchSize = 1
	}

	report := &SynthReport{}
	for i := 0; i < len(urls); i += batchSize {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		batch := urls[i:min(i+batchSize, len(urls))]
		report.Batches++

		variants, text, err := uc.generator.Generate(ctx, batch)
		if err != nil {
			report.FailedBatches++
			uc.logger.Warn("Variant generation failed", zap.Int("offset", i), zap.Int("size", len(batch)), zap.Error(err))
			continue
		}

		if _, err := io.WriteString(out, text+"\n\n"); err != nil {
			return report, fmt.Errorf("write synthesized batch: %w", err)
		}
		report.Variants = append(report.Variants, variants...)

		uc.logger.Info("Synthesized batch",
			zap.Int("offset", i),
			zap.Int("size", len(batch)),
			zap.Int("variants", len(variants)),
		)
	}
	return report, nil
}
