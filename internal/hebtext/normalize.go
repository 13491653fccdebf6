// Package hebtext provides Unicode normalization and tokenization for
// Hebrew search queries.
package hebtext

import (
	"regexp"
	"strings"
)

// charReplacer maps directionality marks, Hebrew-specific punctuation and
// typographic variants to plain ASCII equivalents. Directionality marks
// become spaces so that words separated only by a mark stay separate.
var charReplacer = strings.NewReplacer(
	"‎", " ", // LRM
	"‏", " ", // RLM
	"‪", " ", // LRE
	"‫", " ", // RLE
	"‬", " ", // PDF
	"‭", " ", // LRO
	"‮", " ", // RLO
	"⁦", " ", // LRI
	"⁧", " ", // RLI
	"⁨", " ", // FSI
	"⁩", " ", // PDI
	" ", " ", // NBSP
	"־", "-", // maqaf
	"–", "-", // en dash
	"—", "-", // em dash
	"״", `"`, // gershayim
	"׳", "'", // geresh
	"“", `"`,
	"”", `"`,
	"‘", "'",
	"’", "'",
)

var (
	punctPattern = regexp.MustCompile(`([.,:;!?()\[\]{}\-/\\"'])`)
	spacePattern = regexp.MustCompile(`\s+`)
)

// Normalize canonicalizes a query for matching: strips directionality
// marks, unifies quote and dash variants, pads punctuation with spaces and
// collapses whitespace. The result is idempotent under Normalize.
func Normalize(s string) string {
	s = charReplacer.Replace(s)
	s = punctPattern.ReplaceAllString(s, " $1 ")
	s = spacePattern.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// HasHebrew reports whether s contains at least one Hebrew letter.
func HasHebrew(s string) bool {
	for _, r := range s {
		if r >= 0x0590 && r <= 0x05ff {
			return true
		}
	}
	return false
}
