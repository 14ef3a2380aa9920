package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/user/phish-dataset/internal/repository"
	"go.uber.org/zap"
)

// ProcessFunc handles one unit of work. Returning repository.ErrQueueEmpty tells
// the worker to idle for the poll interval.
type ProcessFunc func(ctx context.Context) error

// Pool runs a fixed number of workers that repeatedly call a ProcessFunc.
type Pool struct {
	workers  int
	interval time.Duration
	process  ProcessFunc
	logger   *zap.Logger
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func NewPool(workers int, interval time.Duration, process ProcessFunc, logger *zap.Logger) *Pool {
	if workers < 1 {
		workers = 1
	}
	return &Pool{
		workers:  workers,
		interval: interval,
		process:  process,
		logger:   logger,
		stopChan: make(chan struct{}),
	}
}

func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(ctx, i)
	}
	p.logger.Info("worker pool started", zap.Int("workers", p.workers))
}

// Stop signals every worker and waits for in-flight work to finish.
func (p *Pool) Stop() {
	p.stopOnce.Do(func() { close(p.stopChan) })
	p.wg.Wait()
}

func (p *Pool) worker(ctx context.Context, id int) {
	defer p.wg.Done()
	for {
		select {
		case <-p.stopChan:
			return
		case <-ctx.Done():
			return
		default:
		}

		err := p.process(ctx)
		if err == nil {
			continue
		}
		if !errors.Is(err, repository.ErrQueueEmpty) {
			p.logger.Error("worker failed to process task", zap.Int("worker", id), zap.Error(err))
		}

		select {
		case <-p.stopChan:
			return
		case <-ctx.Done():
			return
		case <-time.After(p.interval):
		}
	}
}
