// Package quantity extracts result-count limits from Hebrew queries while
// steering clear of numbers that belong to dates and time expressions.
package quantity

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/sharonv/disclosq/internal/hebtext"
	"github.com/sharonv/disclosq/internal/match"
	"github.com/sharonv/disclosq/internal/timeframe"
)

// NoQuantityNote is emitted when no quantity was found.
const NoQuantityNote = "No quantity extracted."

var (
	timeNumberRe = regexp.MustCompile(
		`(?:מ-?)?(\d{1,3})\s*(?:-)?(?:שעה|שעות|יום|ימים|שבוע|שבועות|חודש|חודשים|שנה|שנים)\s*(?:האחרון|האחרונה|האחרונים)?`)
	bareNumberRe = regexp.MustCompile(`(\d{1,4})`)
)

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func digitBounded(s string, start, end int) bool {
	if start > 0 && isDigit(s[start-1]) {
		return false
	}
	if end < len(s) && isDigit(s[end]) {
		return false
	}
	return true
}

func yearLike(v int) bool { return v >= 1900 && v <= 2099 }

// Extract finds the requested result count in text. reportAdjacency, when
// non-nil, is a pattern whose first group captures a number directly next
// to a report phrase; such numbers win outright. Otherwise the first free
// number is taken, skipping anything inside time expressions, date
// fragments, the extraBlocked spans, and year-like values. Hebrew numeral
// words are a last resort, composed for the "twenty and five" form.
func Extract(text string, reportAdjacency *regexp.Regexp, extraBlocked []match.Span) (*int, []string, *match.Span) {
	var notes []string
	norm := hebtext.Normalize(text)

	if reportAdjacency != nil {
		for _, m := range reportAdjacency.FindAllStringSubmatchIndex(norm, -1) {
			if m[2] < 0 {
				continue
			}
			q, err := strconv.Atoi(norm[m[2]:m[3]])
			if err != nil {
				continue
			}
			if yearLike(q) {
				notes = append(notes, "qty:skip_year_like")
				continue
			}
			notes = append(notes, "qty:adjacent_to_report")
			sp := match.Span{Start: m[2], End: m[3]}
			return &q, notes, &sp
		}
	}

	var blocked []match.Span
	for _, m := range timeNumberRe.FindAllStringSubmatchIndex(norm, -1) {
		blocked = append(blocked, match.Span{Start: m[2], End: m[3]})
	}
	blocked = append(blocked, timeframe.AbsoluteDateSpans(norm)...)
	blocked = append(blocked, timeframe.AbsoluteNumberTokenSpans(norm)...)
	blocked = append(blocked, extraBlocked...)

	for _, m := range bareNumberRe.FindAllStringSubmatchIndex(norm, -1) {
		if !digitBounded(norm, m[2], m[3]) {
			continue
		}
		sp := match.Span{Start: m[2], End: m[3]}
		conflict := false
		for _, b := range blocked {
			if sp.Overlaps(b) {
				conflict = true
				break
			}
		}
		if conflict {
			continue
		}
		val, err := strconv.Atoi(norm[m[2]:m[3]])
		if err != nil {
			continue
		}
		if yearLike(val) {
			notes = append(notes, "qty:skip_year_like")
			continue
		}
		return &val, notes, &sp
	}

	toks := hebtext.Tokens(norm)

	// Two-word numerals like "twenty and five".
	for i := 0; i+1 < len(toks); i++ {
		w2, ok := strings.CutPrefix(toks[i+1].Text, "ו")
		if !ok {
			continue
		}
		val1, ok1 := hebtext.NumberWords[toks[i].Text]
		val2, ok2 := hebtext.NumberWords[w2]
		if ok1 && ok2 && val1 > 10 && val2 < 10 {
			sum := val1 + val2
			sp := match.Span{Start: toks[i].Start, End: toks[i+1].End}
			return &sum, notes, &sp
		}
	}

	// Single numeral words, never the dual time forms.
	for _, tok := range toks {
		if _, dual := hebtext.DualWords[tok.Text]; dual {
			continue
		}
		if val, ok := hebtext.NumberWords[tok.Text]; ok {
			v := val
			sp := match.Span{Start: tok.Start, End: tok.End}
			return &v, notes, &sp
		}
	}

	notes = append(notes, NoQuantityNote)
	return nil, notes, nil
}

// ReportAdjacencyPattern builds the pattern recognizing a 1-4 digit number
// immediately before any of the given report phrases in normalized text.
func ReportAdjacencyPattern(phrases []string) *regexp.Regexp {
	if len(phrases) == 0 {
		return nil
	}
	quoted := make([]string, 0, len(phrases))
	for _, p := range phrases {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		quoted = append(quoted, regexp.QuoteMeta(p))
	}
	if len(quoted) == 0 {
		return nil
	}
	return regexp.MustCompile(`(\d{1,4})\s+(?:` + strings.Join(quoted, "|") + `)`)
}
