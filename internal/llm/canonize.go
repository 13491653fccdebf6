package llm

import (
	"sort"
	"strings"

	"github.com/sharonv/disclosq/internal/match"
)

const (
	// canonizeBestThreshold is the minimum similarity for accepting the
	// single best canonical for a model-produced name.
	canonizeBestThreshold = 75
	// canonizeMultiThreshold is the looser bar used when mapping a list of
	// names, where downstream filtering catches stragglers.
	canonizeMultiThreshold = 70
)

// CanonizeBest maps a model-produced surface name to the closest canonical
// catalog name. Exact alias hits win immediately; otherwise the best
// Levenshtein ratio is taken, with a partial-window ratio as a second
// chance for names embedded in longer phrases. When nothing clears the
// threshold and fallbackRaw is set, the raw name is returned as is.
func CanonizeBest(raw string, entries []match.AliasEntry, fallbackRaw bool) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	bestScore := -1
	bestCanonical := ""
	for _, e := range entries {
		if strings.EqualFold(raw, e.Alias) {
			return e.Canonical, true
		}
		score := match.Ratio(raw, e.Alias)
		if p := match.PartialRatio(raw, e.Alias); p > score {
			score = p
		}
		if score > bestScore {
			bestScore = score
			bestCanonical = e.Canonical
		}
	}
	if bestScore >= canonizeBestThreshold {
		return bestCanonical, true
	}
	if fallbackRaw {
		return raw, false
	}
	return "", false
}

// CanonizeMulti maps a list of model-produced names to canonical catalog
// names, ordered by similarity, one entry per distinct canonical. Names
// that resolve to nothing are dropped.
func CanonizeMulti(raws []string, entries []match.AliasEntry) []string {
	type scored struct {
		canonical string
		score     int
	}
	var picks []scored
	seen := map[string]bool{}
	for _, raw := range raws {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		bestScore := -1
		bestCanonical := ""
		for _, e := range entries {
			score := match.Ratio(raw, e.Alias)
			if p := match.PartialRatio(raw, e.Alias); p > score {
				score = p
			}
			if score > bestScore {
				bestScore = score
				bestCanonical = e.Canonical
			}
		}
		if bestScore < canonizeMultiThreshold || seen[bestCanonical] {
			continue
		}
		seen[bestCanonical] = true
		picks = append(picks, scored{canonical: bestCanonical, score: bestScore})
	}
	sort.SliceStable(picks, func(i, j int) bool { return picks[i].score > picks[j].score })
	out := make([]string, 0, len(picks))
	for _, p := range picks {
		out = append(out, p.canonical)
	}
	return out
}
