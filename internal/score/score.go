// Package score computes how much of a query the extraction pipeline
// accounted for.
package score

import (
	"strings"

	"github.com/sharonv/disclosq/internal/hebtext"
	"github.com/sharonv/disclosq/internal/match"
)

// Coverage returns the fraction of meaningful (non-stop-word) tokens of the
// normalized text that overlap at least one matched span. A text with no
// meaningful tokens scores 0.
func Coverage(normText string, spans []match.Span) float64 {
	var meaningful []hebtext.Token
	for _, tok := range hebtext.Tokens(normText) {
		if !hebtext.IsStopWord(tok.Text) {
			meaningful = append(meaningful, tok)
		}
	}
	if len(meaningful) == 0 {
		return 0.0
	}
	covered := 0
	for _, tok := range meaningful {
		tokSpan := match.Span{Start: tok.Start, End: tok.End}
		for _, sp := range spans {
			if sp.Overlaps(tokSpan) {
				covered++
				break
			}
		}
	}
	return float64(covered) / float64(len(meaningful))
}

// CoveredText returns the tokens of the normalized text, stop words
// included, that overlap a matched span, joined by single spaces. It is the
// textual rendering of what the pipeline understood.
func CoveredText(normText string, spans []match.Span) string {
	var parts []string
	for _, tok := range hebtext.Tokens(normText) {
		tokSpan := match.Span{Start: tok.Start, End: tok.End}
		for _, sp := range spans {
			if sp.Overlaps(tokSpan) {
				parts = append(parts, tok.Text)
				break
			}
		}
	}
	return strings.Join(parts, " ")
}
