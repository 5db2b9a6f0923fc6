package querylog

import (
	"context"
	"sync"

	"cachie/internal/models"
)

// Memory is a slice-backed Log.
type Memory struct {
	mu      sync.RWMutex
	records []models.SearchRecord
	closed  bool
}

var _ Log = (*Memory)(nil)

// NewMemory creates an empty in-memory log.
func NewMemory() *Memory {
	return &Memory{}
}

// Append adds rec to the log.
func (m *Memory) Append(ctx context.Context, rec models.SearchRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	m.records = append(m.records, rec)
	return nil
}

// Len returns the number of stored records.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}

// ForEach scans the records present when the call began. Appends made during
// the scan only write past the captured length, so no lock is held while fn runs.
func (m *Memory) ForEach(ctx context.Context, fn func(models.SearchRecord) error) error {
	m.mu.RLock()
	if m.closed {
		m.mu.RUnlock()
		return ErrClosed
	}
	n := len(m.records)
	snapshot := m.records[:n:n]
	m.mu.RUnlock()

	for _, rec := range snapshot {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(rec); err != nil {
			return err
		}
	}
	return nil
}

// Close marks the log closed and drops its records.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.records = nil
	return nil
}
