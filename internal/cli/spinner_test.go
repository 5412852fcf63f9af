package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/spotlight/pkg/grid"
	"github.com/matzehuels/spotlight/pkg/pipeline"
	"github.com/matzehuels/spotlight/pkg/source"
)

func TestSpinnerStatus(t *testing.T) {
	s := newSpinner(context.Background(), &bytes.Buffer{}, "Laying out 5 items")
	if got := s.status(); got != "Laying out 5 items" {
		t.Errorf("status() before any page = %q", got)
	}

	s.OnPage(0, []grid.Row{{Start: 0, End: 2}, {Start: 2, End: 4}})
	s.OnPage(1, nil)
	want := "Laying out 5 items page 2 · 2 rows · 4 items placed"
	if got := s.status(); got != want {
		t.Errorf("status() = %q, want %q", got, want)
	}
}

func TestSpinnerFollowsStream(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinner(context.Background(), &buf, "Streaming")

	opts := pipeline.Options{Width: 400, RowHeight: 200, PageSize: 2, Final: true, OnPage: s.OnPage}
	runner := pipeline.NewRunner(nil, nil, nil)
	g, err := runner.Stream(context.Background(), source.NewSlice(squareItems(5), opts.PageSize), opts)
	if err != nil {
		t.Fatalf("Stream() error: %v", err)
	}

	want := "Streaming page 3 · 3 rows · 5 items placed"
	if got := s.status(); got != want {
		t.Errorf("status() = %q, want %q", got, want)
	}
	if g.Len() != 3 {
		t.Errorf("grid rows = %d, want 3", g.Len())
	}
}

func TestSpinnerRendersAndClears(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinner(context.Background(), &buf, "Laying out")
	s.OnPage(0, []grid.Row{{Start: 0, End: 3}})
	s.Start()
	time.Sleep(200 * time.Millisecond)
	s.Stop()

	out := buf.String()
	if !strings.Contains(out, "page 1 · 1 rows · 3 items placed") {
		t.Errorf("spinner output missing progress:\n%q", out)
	}
	if !strings.HasSuffix(out, "\r") {
		t.Errorf("spinner should clear its line on Stop, got %q", out)
	}
	if s.Cancelled() {
		t.Error("Cancelled() = true after a plain Stop")
	}
}

func TestSpinnerStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := newSpinner(ctx, &bytes.Buffer{}, "Streaming")
	s.Start()
	cancel()
	s.Stop()

	if !s.Cancelled() {
		t.Error("Cancelled() = false after the context ended")
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinner(context.Background(), &buf, "Laying out")
	s.Start()
	s.Stop()
	s.Stop()

	unstarted := newSpinner(context.Background(), &buf, "never started")
	unstarted.Stop()
}
