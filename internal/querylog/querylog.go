// Package querylog stores every recorded search in insertion order.
//
// The log is the source of truth for fuzzy analysis, which rescans it in full
// for every analyzed token pair. A scan costs O(n) in the number of recorded
// searches; results are never cached so they cannot go stale.
package querylog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"cachie/internal/models"
)

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendBadger = "badger"
)

var (
	// ErrClosed is returned by operations on a closed log.
	ErrClosed = errors.New("query log is closed")

	// ErrUnknownBackend is returned by Open for an unsupported backend name.
	ErrUnknownBackend = errors.New("unknown query log backend")
)

// Log is an append-only record of searches.
type Log interface {
	// Append adds rec to the end of the log.
	Append(ctx context.Context, rec models.SearchRecord) error
	// Len returns the number of records appended so far.
	Len() int
	// ForEach visits every record that was appended before the scan began,
	// each exactly once. It stops at the first error returned by fn.
	ForEach(ctx context.Context, fn func(models.SearchRecord) error) error
	// Close releases resources held by the log.
	Close() error
}

// Open creates a log for the named backend.
func Open(backend string, logger *slog.Logger) (Log, error) {
	switch backend {
	case "", BackendMemory:
		return NewMemory(), nil
	case BackendBadger:
		return OpenBadger(logger)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}
