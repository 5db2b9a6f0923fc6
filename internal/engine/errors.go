package engine

import "errors"

var (
	// ErrQueryLogRequired is returned when an engine is created without a query log.
	ErrQueryLogRequired = errors.New("query log required")

	// ErrRecordFailed wraps any failure while recording a search.
	ErrRecordFailed = errors.New("failed to record search")

	// ErrAnalysisPanic wraps a panic recovered from an analysis worker.
	ErrAnalysisPanic = errors.New("analysis worker panicked")
)
