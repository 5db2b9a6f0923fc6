// Package index holds the cumulative exact-match analytics for every recorded bigram.
package index

import (
	"sync"

	"cachie/internal/models"
)

// Index maps a bigram to its TokenAnalytics. Entries are created on first
// occurrence and never removed.
type Index struct {
	mu      sync.RWMutex
	entries map[string]*models.TokenAnalytics
}

// New creates an empty index.
func New() *Index {
	return &Index{entries: make(map[string]*models.TokenAnalytics)}
}

// RecordOccurrence counts one occurrence of bigram for the given client and session.
func (i *Index) RecordOccurrence(bigram, clientID, sessionID string) {
	i.mu.Lock()
	defer i.mu.Unlock()

	entry := i.getOrInsertDefault(bigram)
	entry.ExactMatches++
	entry.ClientDistribution[clientID]++
	entry.UniqueSessions[sessionID] = struct{}{}
}

// getOrInsertDefault must be called with mu held for writing.
func (i *Index) getOrInsertDefault(bigram string) *models.TokenAnalytics {
	entry, ok := i.entries[bigram]
	if !ok {
		fresh := models.NewTokenAnalytics()
		entry = &fresh
		i.entries[bigram] = entry
	}
	return entry
}

// Lookup returns a copy of the analytics for bigram. A bigram that was never
// recorded yields a zero-valued entry, not an error.
func (i *Index) Lookup(bigram string) models.TokenAnalytics {
	i.mu.RLock()
	defer i.mu.RUnlock()

	entry, ok := i.entries[bigram]
	if !ok {
		return models.NewTokenAnalytics()
	}
	return entry.Clone()
}

// Len returns the number of distinct bigrams recorded.
func (i *Index) Len() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.entries)
}
