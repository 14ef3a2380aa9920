package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"strings"

	"github.com/user/phish-dataset/internal/entity"
)

// ErrColumnNotFound is returned when a requested CSV column is missing from the header.
var ErrColumnNotFound = errors.New("column not found")

// ReadOptions selects which URLs are taken from a CSV file.
type ReadOptions struct {
	URLColumn string
	// LabelColumn is optional; rows get an empty label when it is unset.
	LabelColumn string
	// Limit caps the number of rows; zero reads every row.
	Limit int
	// Random picks Limit rows at random instead of the first Limit.
	Random bool
	Seed   int64
}

// ReadTasks reads URLs (and labels) from a CSV with a header row. Rows with an
// empty URL are skipped.
func ReadTasks(r io.Reader, opts ReadOptions) ([]entity.EnrichTask, error) {
	header, records, err := readAll(r)
	if err != nil {
		return nil, err
	}

	urlIdx, err := columnIndex(header, opts.URLColumn)
	if err != nil {
		return nil, err
	}
	labelIdx := -1
	if opts.LabelColumn != "" {
		if labelIdx, err = columnIndex(header, opts.LabelColumn); err != nil {
			return nil, err
		}
	}

	tasks := make([]entity.EnrichTask, 0, len(records))
	for _, rec := range records {
		url := strings.TrimSpace(field(rec, urlIdx))
		if url == "" {
			continue
		}
		task := entity.EnrichTask{URL: url}
		if labelIdx >= 0 {
			task.Label = strings.TrimSpace(field(rec, labelIdx))
		}
		tasks = append(tasks, task)
	}

	if opts.Limit <= 0 || len(tasks) <= opts.Limit {
		return tasks, nil
	}
	if !opts.Random {
		return tasks[:opts.Limit], nil
	}

	picked := make([]entity.EnrichTask, 0, opts.Limit)
	for _, i := range sampleIndices(len(tasks), opts.Limit, opts.Seed) {
		picked = append(picked, tasks[i])
	}
	return picked, nil
}

// URLs returns the URL of every task.
func URLs(tasks []entity.EnrichTask) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.URL
	}
	return out
}

// Sample copies limit randomly chosen rows of a CSV file to w, in random order.
// A nil seed draws a fresh one. It returns the number of rows written.
func Sample(r io.Reader, w io.Writer, limit int, includeHeader bool, seed *int64) (int, error) {
	header, records, err := readAll(r)
	if err != nil {
		return 0, err
	}

	limit = min(max(limit, 0), len(records))
	s := rand.Int63()
	if seed != nil {
		s = *seed
	}

	cw := csv.NewWriter(w)
	if includeHeader {
		if err := cw.Write(header); err != nil {
			return 0, err
		}
	}
	for _, i := range sampleIndices(len(records), limit, s) {
		if err := cw.Write(records[i]); err != nil {
			return 0, err
		}
	}
	cw.Flush()
	return limit, cw.Error()
}

// sampleIndices draws k distinct indices from [0, n) deterministically for a seed.
func sampleIndices(n, k int, seed int64) []int {
	rng := rand.New(rand.NewSource(seed))
	return rng.Perm(n)[:k]
}

func readAll(r io.Reader) ([]string, [][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, fmt.Errorf("read csv header: empty input")
		}
		return nil, nil, fmt.Errorf("read csv header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	records, err := cr.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read csv: %w", err)
	}
	return header, records, nil
}

func columnIndex(header []string, name string) (int, error) {
	for i, h := range header {
		if strings.TrimSpace(h) == name {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %q in %v", ErrColumnNotFound, name, header)
}

func field(rec []string, i int) string {
	if i < len(rec) {
		return rec[i]
	}
	return ""
}
