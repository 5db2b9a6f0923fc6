package jobs

import (
	"context"
	"log/slog"
	"time"

	"cachie/internal/engine"
)

// StatsSource reports engine size on demand.
type StatsSource interface {
	Stats() engine.Snapshot
}

// StatsReporter periodically logs engine size and growth since the last report.
type StatsReporter struct {
	src      StatsSource
	interval time.Duration
	logger   *slog.Logger
	last     engine.Snapshot
}

// NewStatsReporter creates a new stats reporter.
func NewStatsReporter(src StatsSource, interval time.Duration, logger *slog.Logger) *StatsReporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &StatsReporter{
		src:      src,
		interval: interval,
		logger:   logger,
	}
}

// Start begins the background reporting loop. It blocks until ctx is done.
func (r *StatsReporter) Start(ctx context.Context) {
	r.logger.Info("stats reporter started", "interval", r.interval)

	// Report immediately on start
	r.report()

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("stats reporter stopped")
			return
		case <-ticker.C:
			r.report()
		}
	}
}

// report logs the current snapshot and returns it.
func (r *StatsReporter) report() engine.Snapshot {
	snap := r.src.Stats()
	r.logger.Info("engine stats",
		"searches_logged", snap.SearchesLogged,
		"indexed_bigrams", snap.IndexedBigrams,
		"new_searches", snap.SearchesLogged-r.last.SearchesLogged,
		"new_bigrams", snap.IndexedBigrams-r.last.IndexedBigrams,
	)
	r.last = snap
	return snap
}
