package match

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sharonv/disclosq/internal/hebtext"
)

const (
	// Length-ratio guards between candidate and alias. Short aliases
	// tolerate more slack than long ones.
	shortAliasRunes   = 10
	shortAliasMaxSkew = 2.5
	longAliasMaxSkew  = 1.5

	minCharCoverage = 0.6
)

var candidateTrimSet = ".,?!;:\"' "

type fuzzyCandidate struct {
	entry    AliasEntry
	span     Span
	score    int
	candText string
	tokCount int
}

// FindFuzzy locates approximate alias occurrences by scoring every token
// n-gram of the text against every alias. Guards on length skew, character
// coverage and stop-word-only grams keep spurious short matches out.
func FindFuzzy(text string, entries []AliasEntry, threshold int, opts Options) Result {
	res := Result{Canonicals: []string{}, MatchedAliases: map[string]string{}}
	fields := splitFields(text)
	if len(fields) == 0 || len(entries) == 0 {
		return res
	}

	exactAliases := map[string]bool{}
	for _, e := range entries {
		exactAliases[strings.ToLower(e.Alias)] = true
	}

	var cands []fuzzyCandidate
	for n := 1; n <= len(fields); n++ {
		for i := 0; i+n <= len(fields); i++ {
			raw := text[fields[i].start:fields[i+n-1].end]
			cand := strings.Trim(raw, candidateTrimSet)
			if cand == "" {
				continue
			}
			allStop := true
			for _, f := range fields[i : i+n] {
				if !hebtext.IsStopWord(strings.Trim(f.text, candidateTrimSet)) {
					allStop = false
					break
				}
			}
			if allStop {
				continue
			}
			candRunes := len([]rune(cand))
			if candRunes <= 2 && !exactAliases[strings.ToLower(cand)] {
				continue
			}
			for _, e := range entries {
				aliasRunes := len([]rune(e.Alias))
				if aliasRunes == 0 {
					continue
				}
				longer, shorter := candRunes, aliasRunes
				if shorter > longer {
					longer, shorter = shorter, longer
				}
				skew := float64(longer) / float64(shorter)
				maxSkew := longAliasMaxSkew
				if aliasRunes < shortAliasRunes {
					maxSkew = shortAliasMaxSkew
				}
				if skew > maxSkew {
					continue
				}
				score := Ratio(cand, e.Alias)
				if score < threshold {
					continue
				}
				coverage := float64(shorter) / float64(longer)
				if coverage < minCharCoverage && n < 2 {
					continue
				}
				cands = append(cands, fuzzyCandidate{
					entry:    e,
					span:     Span{Start: fields[i].start, End: fields[i+n-1].end},
					score:    score,
					candText: cand,
					tokCount: n,
				})
			}
		}
	}

	sort.SliceStable(cands, func(a, b int) bool {
		ca, cb := cands[a], cands[b]
		if ca.score != cb.score {
			return ca.score > cb.score
		}
		la, lb := len([]rune(ca.candText)), len([]rune(cb.candText))
		if la != lb {
			return la > lb
		}
		return ca.span.Start < cb.span.Start
	})

	seen := map[string]bool{}
	var used []Span
	for _, c := range cands {
		if seen[c.entry.Canonical] {
			continue
		}
		if opts.KeepTopK > 0 && len(seen) >= opts.KeepTopK {
			break
		}
		conflict := false
		for _, u := range used {
			if u.Overlaps(c.span) && !opts.AllowOverlaps {
				conflict = true
				break
			}
		}
		if conflict {
			continue
		}
		seen[c.entry.Canonical] = true
		res.MatchedAliases[c.entry.Canonical] = c.candText
		res.Spans = append(res.Spans, c.span)
		used = append(used, c.span)
		res.Notes = append(res.Notes,
			fmt.Sprintf("Fuzzy match for '%s': matched '%s' with score %d", c.entry.Canonical, c.candText, c.score))
	}

	for canon := range seen {
		res.Canonicals = append(res.Canonicals, canon)
	}
	sort.Strings(res.Canonicals)
	return res
}
