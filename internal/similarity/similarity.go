// Package similarity implements the character-overlap metric used for fuzzy token matching.
//
// The ratio is the number of distinct characters two strings share, divided by the
// length of the longer string. Positions and repeats are ignored, so the metric is
// cheap and symmetric but far looser than an edit distance.
package similarity

import "unicode/utf8"

// Threshold is the minimum ratio accepted as a fuzzy match (inclusive).
const Threshold = 0.7

// Ratio returns |distinct(a) ∩ distinct(b)| / max(len(a), len(b)), counted in runes.
// Identical non-empty strings have a ratio of 1; two empty strings have a ratio of 0.
func Ratio(a, b string) float64 {
	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if longest == 0 {
		return 0
	}
	if a == b {
		return 1
	}

	seen := make(map[rune]struct{}, len(a))
	for _, r := range a {
		seen[r] = struct{}{}
	}

	common := 0
	for _, r := range b {
		if _, ok := seen[r]; ok {
			common++
			delete(seen, r)
		}
	}

	return float64(common) / float64(longest)
}

// Match reports whether a and b are equal or their ratio reaches Threshold.
func Match(a, b string) bool {
	return a == b || Ratio(a, b) >= Threshold
}
