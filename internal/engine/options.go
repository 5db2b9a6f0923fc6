package engine

import (
	"log/slog"

	"github.com/panjf2000/ants/v2"
)

// Option configures an Engine.
type Option func(*Engine) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// WithPoolSize sets how many token pairs of one fuzzy request are resolved concurrently.
// A size of 1 or less resolves pairs sequentially without a pool.
// Default is runtime.NumCPU().
func WithPoolSize(size int) Option {
	return func(e *Engine) error {
		if e.pool != nil {
			e.pool.Release()
			e.pool = nil
		}
		if size <= 1 {
			return nil
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		e.pool = pool
		return nil
	}
}
