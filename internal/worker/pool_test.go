package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/user/phish-dataset/internal/repository"
	"go.uber.org/zap"
)

func TestPoolDrainsWork(t *testing.T) {
	var remaining int32 = 20
	var processed int32

	process := func(ctx context.Context) error {
		if atomic.AddInt32(&remaining, -1) < 0 {
			return repository.ErrQueueEmpty
		}
		atomic.AddInt32(&processed, 1)
		return nil
	}

	p := NewPool(4, 5*time.Millisecond, process, zap.NewNop())
	p.Start(context.Background())

	deadline := time.Now().Add(2 * time.Second)
	for atomic.LoadInt32(&processed) < 20 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	p.Stop()

	if got := atomic.LoadInt32(&processed); got != 20 {
		t.Fatalf("processed %d tasks, want 20", got)
	}
}

func TestPoolKeepsRunningAfterErrors(t *testing.T) {
	var calls int32
	process := func(ctx context.Context) error {
		atomic.AddInt32(&calls, 1)
		return errors.New("boom")
	}

	p := NewPool(1, time.Millisecond, process, zap.NewNop())
	p.Start(context.Background())

	deadline := time.Now().Add(2 * time.Second)
	for atomic.LoadInt32(&calls) < 3 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	p.Stop()

	if atomic.LoadInt32(&calls) < 3 {
		t.Fatalf("worker stopped after an error")
	}
}

func TestPoolStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := NewPool(2, time.Hour, func(context.Context) error { return repository.ErrQueueEmpty }, zap.NewNop())
	p.Start(ctx)
	cancel()

	done := make(chan struct{})
	go func() {
		p.Stop()
		p.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("pool did not stop after context cancellation")
	}
}
