package usecase

import (
	"context"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestSynthesize(t *testing.T) {
	gen := &fakeGenerator{fail: map[int]bool{1: true}}
	s := NewSynthesizer(gen, zap.NewNop())

	var out strings.Builder
	urls := []string{"a.com", "b.com", "c.com", "d.com", "e.com"}
	report, err := s.Synthesize(context.Background(), urls, 2, &out)
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}

	if report.Batches != 3 || report.FailedBatches != 1 {
		t.Errorf("report = %+v", report)
	}
	if len(gen.calls) != 3 || len(gen.calls[2]) != 1 || gen.calls[2][0] != "e.com" {
		t.Errorf("batches = %v", gen.calls)
	}
	if len(report.Variants) != 3 {
		t.Errorf("got %d variants, want 3", len(report.Variants))
	}

	want := "original: a.com\nvariation1: a.comx\noriginal: b.com\nvariation1: b.comx\n\n\n" +
		"original: e.com\nvariation1: e.comx\n\n\n"
	if out.String() != want {
		t.Errorf("output =\n%q\nwant\n%q", out.String(), want)
	}
}

func TestSynthesizeCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	gen := &fakeGenerator{}
	report, err := NewSynthesizer(gen, zap.NewNop()).Synthesize(ctx, []string{"a.com"}, 0, &strings.Builder{})
	if err == nil {
		t.Fatal("expected context error")
	}
	if report.Batches != 0 || len(gen.calls) != 0 {
		t.Errorf("no batch should run after cancellation")
	}
}
