// Package tokenizer splits search queries into word tokens and adjacent-word bigrams.
package tokenizer

import "strings"

// Words lower-cases the query and splits it on runs of whitespace.
func Words(query string) []string {
	return strings.Fields(strings.ToLower(query))
}

// Bigrams joins each pair of adjacent words with a single space.
// Fewer than two words yields no bigrams.
func Bigrams(words []string) []string {
	if len(words) < 2 {
		return nil
	}
	bigrams := make([]string, 0, len(words)-1)
	for i := 0; i < len(words)-1; i++ {
		bigrams = append(bigrams, words[i]+" "+words[i+1])
	}
	return bigrams
}

// Tokenize returns both the words and the bigrams of a query.
func Tokenize(query string) (words, bigrams []string) {
	words = Words(query)
	return words, Bigrams(words)
}
