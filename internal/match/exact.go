package match

import (
	"sort"
	"strings"
)

// prefixParticles are the one-letter Hebrew prepositions and conjunctions
// that attach directly to the following word.
const prefixParticles = "בלכוהמש"

type field struct {
	text  string
	start int
	end   int
}

func splitFields(text string) []field {
	var out []field
	i := 0
	for i < len(text) {
		if text[i] == ' ' {
			i++
			continue
		}
		j := i
		for j < len(text) && text[j] != ' ' {
			j++
		}
		out = append(out, field{text: text[i:j], start: i, end: j})
		i = j
	}
	return out
}

// tokenMatches compares a query token against an alias token. When
// allowPrefix is set, the query token may carry a single attached Hebrew
// particle (for example "באלפא" matching "אלפא").
func tokenMatches(tok, aliasTok string, allowPrefix bool) bool {
	if strings.EqualFold(tok, aliasTok) {
		return true
	}
	if !allowPrefix {
		return false
	}
	runes := []rune(tok)
	if len(runes) < 2 || !strings.ContainsRune(prefixParticles, runes[0]) {
		return false
	}
	return strings.EqualFold(string(runes[1:]), aliasTok)
}

type candidate struct {
	entry    AliasEntry
	span     Span
	tokCount int
	full     bool
}

// Find locates exact alias occurrences in normalized text. Matching is
// token aligned: an alias matches a run of consecutive space-separated
// tokens, where the first token may carry an attached particle prefix.
// Distinct canonicals are selected greedily in rank order (earliest first,
// or longest first under PreferLongest), and overlapping spans are dropped
// unless opts allow them.
func Find(text string, entries []AliasEntry, opts Options) Result {
	res := Result{Canonicals: []string{}, MatchedAliases: map[string]string{}}
	fields := splitFields(text)
	if len(fields) == 0 || len(entries) == 0 {
		if len(entries) > 0 {
			res.Notes = append(res.Notes, "No alias matches found.")
		}
		return res
	}

	var cands []candidate
	for _, e := range entries {
		aliasToks := strings.Fields(e.Alias)
		if len(aliasToks) == 0 || len(aliasToks) > len(fields) {
			continue
		}
		for i := 0; i+len(aliasToks) <= len(fields); i++ {
			ok := true
			for j, at := range aliasToks {
				if !tokenMatches(fields[i+j].text, at, j == 0) {
					ok = false
					break
				}
			}
			if !ok {
				continue
			}
			sp := Span{Start: fields[i].start, End: fields[i+len(aliasToks)-1].end}
			cands = append(cands, candidate{
				entry:    e,
				span:     sp,
				tokCount: len(aliasToks),
				full:     i == 0 && i+len(aliasToks) == len(fields),
			})
		}
	}

	if len(cands) == 0 {
		res.Notes = append(res.Notes, "No alias matches found.")
		return res
	}

	// A full-text match is strong evidence against noisy partial matches,
	// so its presence narrows the candidate set.
	if opts.PrioritizeFullMatch {
		var full []candidate
		for _, c := range cands {
			if c.full {
				full = append(full, c)
			}
		}
		if len(full) > 0 {
			cands = full
		}
	}

	sort.SliceStable(cands, func(a, b int) bool {
		ca, cb := cands[a], cands[b]
		if opts.PreferLongest {
			if ca.tokCount != cb.tokCount {
				return ca.tokCount > cb.tokCount
			}
			if ca.span.Len() != cb.span.Len() {
				return ca.span.Len() > cb.span.Len()
			}
			return ca.span.Start < cb.span.Start
		}
		if ca.span.Start != cb.span.Start {
			return ca.span.Start < cb.span.Start
		}
		if ca.tokCount != cb.tokCount {
			return ca.tokCount > cb.tokCount
		}
		return ca.span.Len() > cb.span.Len()
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
		if !opts.AllowOverlaps {
			for _, u := range used {
				if u.Overlaps(c.span) {
					conflict = true
					break
				}
			}
		}
		if conflict {
			continue
		}
		seen[c.entry.Canonical] = true
		res.MatchedAliases[c.entry.Canonical] = c.entry.Alias
		res.Spans = append(res.Spans, c.span)
		used = append(used, c.span)
	}

	for canon := range seen {
		res.Canonicals = append(res.Canonicals, canon)
	}
	sort.Strings(res.Canonicals)
	return res
}
