package jobs

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"cachie/internal/engine"
)

type countingStats struct {
	mu    sync.Mutex
	calls int
}

func (c *countingStats) Stats() engine.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	return engine.Snapshot{SearchesLogged: c.calls * 2, IndexedBigrams: c.calls}
}

func (c *countingStats) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestStatsReporter_ReportDeltas(t *testing.T) {
	var buf syncBuffer
	r := NewStatsReporter(&countingStats{}, time.Hour, slog.New(slog.NewTextHandler(&buf, nil)))

	first := r.report()
	second := r.report()

	if first.SearchesLogged != 2 || second.SearchesLogged != 4 {
		t.Fatalf("unexpected snapshots %+v %+v", first, second)
	}
	out := buf.String()
	if !strings.Contains(out, "new_searches=2") {
		t.Errorf("expected delta of 2 searches in output: %s", out)
	}
	if !strings.Contains(out, "new_bigrams=1") {
		t.Errorf("expected delta of 1 bigram in output: %s", out)
	}
}

func TestStatsReporter_StartStops(t *testing.T) {
	src := &countingStats{}
	var buf syncBuffer
	r := NewStatsReporter(src, 5*time.Millisecond, slog.New(slog.NewTextHandler(&buf, nil)))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Start(ctx)
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for src.Calls() < 3 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("reporter did not stop after cancel")
	}

	if src.Calls() < 3 {
		t.Errorf("expected at least 3 reports, got %d", src.Calls())
	}
	if !strings.Contains(buf.String(), "stats reporter stopped") {
		t.Error("expected stop message in log")
	}
}

func TestNewStatsReporter_NilLogger(t *testing.T) {
	r := NewStatsReporter(&countingStats{}, time.Second, nil)
	if r.logger == nil {
		t.Error("nil logger should fall back to default")
	}
}
