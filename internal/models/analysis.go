package models

// MatchType selects how a token pair is resolved.
type MatchType string

// Match type constants
const (
	MatchExact MatchType = "exact"
	MatchFuzzy MatchType = "fuzzy"
)

// Valid reports whether m is one of the supported match types.
func (m MatchType) Valid() bool {
	return m == MatchExact || m == MatchFuzzy
}

// ParseMatchType converts a raw value, defaulting to exact when empty.
// Matching is case-sensitive.
func ParseMatchType(raw string) (MatchType, bool) {
	if raw == "" {
		return MatchExact, true
	}
	m := MatchType(raw)
	return m, m.Valid()
}

// TokenResult is the per-token analysis output.
type TokenResult struct {
	ExactMatches       int            `json:"exact_matches"`
	FuzzyMatches       int            `json:"fuzzy_matches"`
	ClientDistribution map[string]int `json:"client_distribution"`
	UniqueSessions     int            `json:"unique_sessions"`
}

// AnalysisStats aggregates across all token pairs of one request.
type AnalysisStats struct {
	ProcessingTime        string `json:"processing_time"`
	TotalSearchesAnalyzed int    `json:"total_searches_analyzed"`
	UniqueClients         int    `json:"unique_clients"`
	UniqueSessions        int    `json:"unique_sessions"`
}

// AnalysisResult is the response of an analysis request. Stats is nil unless requested.
type AnalysisResult struct {
	Results map[string]TokenResult `json:"results"`
	Stats   *AnalysisStats         `json:"stats,omitempty"`
}

// DegradedAnalysis is returned when analysis fails internally: no results and zeroed stats.
func DegradedAnalysis() *AnalysisResult {
	return &AnalysisResult{
		Results: map[string]TokenResult{},
		Stats: &AnalysisStats{
			ProcessingTime: "0ms",
		},
	}
}
