package models

// SearchRecord is a single recorded search. Query is stored lower-cased.
type SearchRecord struct {
	Query     string `json:"query"`
	ClientID  string `json:"client_id"`
	SessionID string `json:"session_id"`
}

// TokenAnalytics is the cumulative index entry for one bigram.
// ExactMatches always equals the sum of ClientDistribution values.
type TokenAnalytics struct {
	ExactMatches       int                 `json:"exact_matches"`
	ClientDistribution map[string]int      `json:"client_distribution"`
	UniqueSessions     map[string]struct{} `json:"-"`
}

// NewTokenAnalytics returns an empty entry with initialized maps.
func NewTokenAnalytics() TokenAnalytics {
	return TokenAnalytics{
		ClientDistribution: make(map[string]int),
		UniqueSessions:     make(map[string]struct{}),
	}
}

// Clone returns a deep copy safe to read outside the index lock.
func (t TokenAnalytics) Clone() TokenAnalytics {
	out := TokenAnalytics{
		ExactMatches:       t.ExactMatches,
		ClientDistribution: make(map[string]int, len(t.ClientDistribution)),
		UniqueSessions:     make(map[string]struct{}, len(t.UniqueSessions)),
	}
	for client, count := range t.ClientDistribution {
		out.ClientDistribution[client] = count
	}
	for session := range t.UniqueSessions {
		out.UniqueSessions[session] = struct{}{}
	}
	return out
}

// ProcessingStatus is returned after a search has been recorded.
type ProcessingStatus struct {
	Status          string `json:"status"`
	ProcessedTokens int    `json:"processed_tokens"`
	ProcessingTime  string `json:"processing_time"`
}

// StatusOK is the only status value a successful recording reports.
const StatusOK = "ok"
