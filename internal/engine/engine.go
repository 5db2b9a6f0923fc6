// Package engine records searches and answers exact and fuzzy token-pair analyses.
//
// Recording updates the cumulative bigram index and appends the raw search to the
// query log. Exact analysis reads the index; fuzzy analysis rescans the whole log
// on every call and compares each stored bigram to the requested pair with the
// character-overlap metric from package similarity.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/samber/lo"

	"cachie/internal/index"
	"cachie/internal/models"
	"cachie/internal/querylog"
	"cachie/internal/similarity"
	"cachie/internal/tokenizer"
)

// Engine owns the token index and reads/writes the query log.
type Engine struct {
	index  *index.Index
	log    querylog.Log
	pool   *ants.Pool
	logger *slog.Logger
}

// Snapshot is a point-in-time view of engine size.
type Snapshot struct {
	SearchesLogged int
	IndexedBigrams int
}

// outcome is the resolution of one requested token pair.
type outcome struct {
	pair     string
	result   models.TokenResult
	sessions map[string]struct{}
}

// New creates an engine over the given query log. The index starts empty.
func New(log querylog.Log, opts ...Option) (*Engine, error) {
	if log == nil {
		return nil, ErrQueryLogRequired
	}

	e := &Engine{
		index:  index.New(),
		log:    log,
		logger: slog.Default(),
	}

	opts = append([]Option{WithPoolSize(runtime.NumCPU())}, opts...)
	for _, opt := range opts {
		if err := opt(e); err != nil {
			e.Close()
			return nil, err
		}
	}

	e.logger.Info("analysis engine initialized")
	return e, nil
}

// Close releases the worker pool. The query log is owned by the caller.
func (e *Engine) Close() {
	if e.pool != nil {
		e.pool.Release()
		e.pool = nil
	}
}

// Stats reports the current log size and number of indexed bigrams.
func (e *Engine) Stats() Snapshot {
	return Snapshot{
		SearchesLogged: e.log.Len(),
		IndexedBigrams: e.index.Len(),
	}
}

// Lookup exposes the index entry for a bigram.
func (e *Engine) Lookup(bigram string) models.TokenAnalytics {
	return e.index.Lookup(bigram)
}

// RecordSearch indexes every bigram of query and appends the search to the log.
//
// The log append happens after the index updates and is not transactional with
// them: if it fails the index keeps the occurrences while the log lacks the record.
func (e *Engine) RecordSearch(ctx context.Context, query, clientID, sessionID string) (*models.ProcessingStatus, error) {
	start := time.Now()
	words, bigrams := tokenizer.Tokenize(query)

	e.logger.Info("recording search", "query", query, "client_id", clientID, "session_id", sessionID)

	for _, bigram := range bigrams {
		e.index.RecordOccurrence(bigram, clientID, sessionID)
	}

	rec := models.SearchRecord{
		Query:     strings.ToLower(query),
		ClientID:  clientID,
		SessionID: sessionID,
	}
	if err := e.log.Append(ctx, rec); err != nil {
		e.logger.Error("error processing search", "query", query, "client_id", clientID, "err", err)
		return nil, fmt.Errorf("%w: %w", ErrRecordFailed, err)
	}

	elapsed := formatElapsed(time.Since(start))
	e.logger.Info("search processed", "bigrams", len(bigrams), "processing_time", elapsed)

	return &models.ProcessingStatus{
		Status:          models.StatusOK,
		ProcessedTokens: len(words),
		ProcessingTime:  elapsed,
	}, nil
}

// SplitTokenPairs lower-cases the comma-separated list and trims each entry.
func SplitTokenPairs(analysisToken string) []string {
	return lo.Map(strings.Split(strings.ToLower(analysisToken), ","), func(pair string, _ int) string {
		return strings.TrimSpace(pair)
	})
}

// AnalyzeToken resolves every comma-separated token pair in analysisToken.
//
// Failures are never returned: they are logged and reported as an empty result
// set with a zeroed stats block, whether or not stats were requested.
func (e *Engine) AnalyzeToken(ctx context.Context, analysisToken string, matchType models.MatchType, includeStats bool) (result *models.AnalysisResult) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("error analyzing token", "analysis_token", analysisToken, "err", fmt.Errorf("%w: %v", ErrAnalysisPanic, r))
			result = models.DegradedAnalysis()
		}
	}()

	start := time.Now()
	pairs := SplitTokenPairs(analysisToken)
	totalSearches := e.log.Len()

	e.logger.Info("analyzing tokens", "analysis_token", analysisToken, "match_type", matchType, "pairs", len(pairs))

	outcomes, err := e.resolveAll(ctx, pairs, matchType)
	if err != nil {
		e.logger.Error("error analyzing token", "analysis_token", analysisToken, "err", err)
		return models.DegradedAnalysis()
	}

	results := make(map[string]models.TokenResult, len(outcomes))
	allClients := make(map[string]struct{})
	allSessions := make(map[string]struct{})
	for _, o := range outcomes {
		results[o.pair] = o.result
		for client := range o.result.ClientDistribution {
			allClients[client] = struct{}{}
		}
		maps.Copy(allSessions, o.sessions)
	}

	elapsed := formatElapsed(time.Since(start))
	e.logger.Info("token analysis completed", "processing_time", elapsed)

	result = &models.AnalysisResult{Results: results}
	if includeStats {
		result.Stats = &models.AnalysisStats{
			ProcessingTime:        elapsed,
			TotalSearchesAnalyzed: totalSearches,
			UniqueClients:         len(allClients),
			UniqueSessions:        len(allSessions),
		}
	}
	return result
}

// resolveAll resolves pairs in input order. Fuzzy requests with several pairs
// fan out over the worker pool; outcomes keep their input positions.
func (e *Engine) resolveAll(ctx context.Context, pairs []string, matchType models.MatchType) ([]outcome, error) {
	outcomes := make([]outcome, len(pairs))

	if e.pool == nil || matchType != models.MatchFuzzy || len(pairs) < 2 {
		for i, pair := range pairs {
			o, err := e.resolve(ctx, pair, matchType)
			if err != nil {
				return nil, err
			}
			outcomes[i] = o
		}
		return outcomes, nil
	}

	errs := make([]error, len(pairs))
	var wg sync.WaitGroup
	for i, pair := range pairs {
		wg.Add(1)
		task := func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					errs[i] = fmt.Errorf("%w: %v", ErrAnalysisPanic, r)
				}
			}()
			outcomes[i], errs[i] = e.resolve(ctx, pair, matchType)
		}
		if err := e.pool.Submit(task); err != nil {
			wg.Done()
			errs[i] = fmt.Errorf("failed to schedule %q: %w", pair, err)
		}
	}
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return outcomes, nil
}

func (e *Engine) resolve(ctx context.Context, pair string, matchType models.MatchType) (outcome, error) {
	entry := e.index.Lookup(pair)

	if matchType == models.MatchFuzzy {
		return e.resolveFuzzy(ctx, pair, entry.ExactMatches)
	}

	// fuzzy_matches mirrors exact_matches in exact mode; no fuzzy count is computed here.
	return outcome{
		pair: pair,
		result: models.TokenResult{
			ExactMatches:       entry.ExactMatches,
			FuzzyMatches:       entry.ExactMatches,
			ClientDistribution: entry.ClientDistribution,
			UniqueSessions:     len(entry.UniqueSessions),
		},
		sessions: entry.UniqueSessions,
	}, nil
}

// resolveFuzzy rescans the full log. exactMatches comes from the index for the
// literal pair and is not derived from the scan.
func (e *Engine) resolveFuzzy(ctx context.Context, pair string, exactMatches int) (outcome, error) {
	clientMatches := make(map[string]int)
	sessions := make(map[string]struct{})

	err := e.log.ForEach(ctx, func(rec models.SearchRecord) error {
		for _, bigram := range tokenizer.Bigrams(tokenizer.Words(rec.Query)) {
			if similarity.Match(pair, bigram) {
				clientMatches[rec.ClientID]++
				sessions[rec.SessionID] = struct{}{}
			}
		}
		return nil
	})
	if err != nil {
		return outcome{}, fmt.Errorf("fuzzy scan for %q: %w", pair, err)
	}

	return outcome{
		pair: pair,
		result: models.TokenResult{
			ExactMatches:       exactMatches,
			FuzzyMatches:       lo.Sum(lo.Values(clientMatches)),
			ClientDistribution: clientMatches,
			UniqueSessions:     len(sessions),
		},
		sessions: sessions,
	}, nil
}

func formatElapsed(d time.Duration) string {
	return fmt.Sprintf("%dms", d.Milliseconds())
}
