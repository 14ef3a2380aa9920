package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/user/phish-dataset/internal/entity"
	"github.com/user/phish-dataset/internal/repository"
	"github.com/user/phish-dataset/pkg/metrics"
)

func init() {
	metrics.Init()
}

var errBoom = errors.New("boom")

type fakeQueue struct {
	mu    sync.Mutex
	tasks []entity.EnrichTask
	err   error
}

func (q *fakeQueue) Push(_ context.Context, task entity.EnrichTask) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return q.err
	}
	q.tasks = append(q.tasks, task)
	return nil
}

func (q *fakeQueue) Pop(context.Context) (entity.EnrichTask, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return entity.EnrichTask{}, q.err
	}
	if len(q.tasks) == 0 {
		return entity.EnrichTask{}, repository.ErrQueueEmpty
	}
	t := q.tasks[0]
	q.tasks = q.tasks[1:]
	return t, nil
}

func (q *fakeQueue) Size(context.Context) (int64, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return int64(len(q.tasks)), nil
}

type fakeVisited struct {
	mu      sync.Mutex
	visited map[string]time.Duration
}

func newFakeVisited() *fakeVisited {
	return &fakeVisited{visited: map[string]time.Duration{}}
}

func (v *fakeVisited) MarkVisited(_ context.Context, url string, expiry time.Duration) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.visited[url] = expiry
	return nil
}

func (v *fakeVisited) IsVisited(_ context.Context, url string) (bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	_, ok := v.visited[url]
	return ok, nil
}

func (v *fakeVisited) RemoveVisited(_ context.Context, url string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.visited, url)
	return nil
}

type fakeRows struct {
	mu   sync.Mutex
	rows map[string]*entity.DatasetRow
	err  error
}

func newFakeRows() *fakeRows {
	return &fakeRows{rows: map[string]*entity.DatasetRow{}}
}

func (r *fakeRows) Save(_ context.Context, row *entity.DatasetRow) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	row.ID = int64(len(r.rows) + 1)
	r.rows[row.URL] = row
	return nil
}

func (r *fakeRows) FindByURL(_ context.Context, url string) (*entity.DatasetRow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[url]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return row, nil
}

func (r *fakeRows) List(context.Context, int, int) ([]*entity.DatasetRow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.DatasetRow, 0, len(r.rows))
	for _, row := range r.rows {
		out = append(out, row)
	}
	return out, nil
}

type fakeFailed struct {
	mu     sync.Mutex
	failed map[string]*entity.FailedURL
}

func newFakeFailed() *fakeFailed {
	return &fakeFailed{failed: map[string]*entity.FailedURL{}}
}

func (f *fakeFailed) SaveOrUpdate(_ context.Context, u *entity.FailedURL) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	prev, ok := f.failed[u.URL]
	u.AttemptCount = 1
	if ok {
		u.AttemptCount = prev.AttemptCount + 1
	}
	f.failed[u.URL] = u
	return nil
}

func (f *fakeFailed) FindByURL(_ context.Context, url string) (*entity.FailedURL, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.failed[url]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func (f *fakeFailed) Delete(_ context.Context, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.failed, url)
	return nil
}

type fakeResolver struct {
	records entity.DNSRecords
	err     error
	delay   time.Duration
}

func (r *fakeResolver) Resolve(ctx context.Context, _ string) (entity.DNSRecords, error) {
	if r.delay > 0 {
		select {
		case <-time.After(r.delay):
		case <-ctx.Done():
			return entity.EmptyDNSRecords(), ctx.Err()
		}
	}
	if r.err != nil {
		return entity.EmptyDNSRecords(), r.err
	}
	return r.records, nil
}

type fakeWhois struct {
	mu      sync.Mutex
	record  entity.WhoisRecord
	err     error
	domains []string
}

func (w *fakeWhois) Lookup(_ context.Context, domain string) (entity.WhoisRecord, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.domains = append(w.domains, domain)
	if w.err != nil {
		return entity.WhoisRecord{}, w.err
	}
	return w.record, nil
}

type fakeGenerator struct {
	calls [][]string
	fail  map[int]bool
}

func (g *fakeGenerator) Generate(_ context.Context, urls []string) ([]entity.URLVariant, string, error) {
	call := len(g.calls)
	g.calls = append(g.calls, urls)
	if g.fail[call] {
		return nil, "", errBoom
	}
	var variants []entity.URLVariant
	text := ""
	for _, u := range urls {
		variants = append(variants, entity.URLVariant{Original: u, Variations: []string{u + "x"}})
		text += "original: " + u + "\nvariation1: " + u + "x\n"
	}
	return variants, text, nil
}
