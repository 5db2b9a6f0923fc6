// Package testutil provides test utilities and helpers.
package testutil

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"

	"cachie/internal/engine"
	"cachie/internal/models"
	"cachie/internal/querylog"
)

// ErrInjected is returned by FailingLog when a failure is switched on.
var ErrInjected = errors.New("injected query log failure")

// DiscardLogger returns a logger that drops every record.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestEngine creates an engine over a fresh in-memory query log and registers cleanup.
func TestEngine(t *testing.T, opts ...engine.Option) (*engine.Engine, querylog.Log) {
	t.Helper()
	return TestEngineWithLog(t, querylog.NewMemory(), opts...)
}

// TestEngineWithLog creates an engine over the given log and registers cleanup.
func TestEngineWithLog(t *testing.T, log querylog.Log, opts ...engine.Option) (*engine.Engine, querylog.Log) {
	t.Helper()

	opts = append([]engine.Option{engine.WithLogger(DiscardLogger())}, opts...)
	eng, err := engine.New(log, opts...)
	if err != nil {
		t.Fatalf("failed to create engine: %v", err)
	}

	t.Cleanup(func() {
		eng.Close()
		log.Close()
	})
	return eng, log
}

// FailingLog wraps an in-memory log and fails appends or scans on demand.
type FailingLog struct {
	*querylog.Memory
	FailAppend atomic.Bool
	FailScan   atomic.Bool
	PanicScan  atomic.Bool
}

var _ querylog.Log = (*FailingLog)(nil)

// NewFailingLog creates a FailingLog with all failures switched off.
func NewFailingLog() *FailingLog {
	return &FailingLog{Memory: querylog.NewMemory()}
}

// Append fails with ErrInjected when FailAppend is set.
func (f *FailingLog) Append(ctx context.Context, rec models.SearchRecord) error {
	if f.FailAppend.Load() {
		return ErrInjected
	}
	return f.Memory.Append(ctx, rec)
}

// ForEach fails with ErrInjected when FailScan is set, or panics when PanicScan is set.
func (f *FailingLog) ForEach(ctx context.Context, fn func(models.SearchRecord) error) error {
	if f.PanicScan.Load() {
		panic("injected scan panic")
	}
	if f.FailScan.Load() {
		return ErrInjected
	}
	return f.Memory.ForEach(ctx, fn)
}

// Record records a search and fails the test on error.
func Record(t *testing.T, eng *engine.Engine, query, clientID, sessionID string) *models.ProcessingStatus {
	t.Helper()
	status, err := eng.RecordSearch(context.Background(), query, clientID, sessionID)
	if err != nil {
		t.Fatalf("RecordSearch(%q) error = %v", query, err)
	}
	return status
}
