package match

import (
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Ratio returns a 0-100 similarity score between two strings based on
// Levenshtein distance over runes.
func Ratio(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	maxLen := len(ra)
	if len(rb) > maxLen {
		maxLen = len(rb)
	}
	if maxLen == 0 {
		return 100
	}
	dist := fuzzy.LevenshteinDistance(a, b)
	return 100 * (maxLen - dist) / maxLen
}

// PartialRatio returns the best Ratio of the shorter string against any
// equal-length rune window of the longer string.
func PartialRatio(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) > len(rb) {
		ra, rb = rb, ra
	}
	if len(ra) == 0 {
		return 100
	}
	if len(ra) == len(rb) {
		return Ratio(string(ra), string(rb))
	}
	best := 0
	short := string(ra)
	for i := 0; i+len(ra) <= len(rb); i++ {
		score := Ratio(short, string(rb[i:i+len(ra)]))
		if score > best {
			best = score
		}
		if best == 100 {
			break
		}
	}
	return best
}
