package catalog

import (
	"strings"
)

// legalSuffixes are corporate-form markers stripped from company names to
// produce additional alias variants.
var legalSuffixes = []string{
	`בע"מ`,
	"בע״מ",
	"בעמ",
	"Ltd.",
	"Ltd",
	"LTD",
	"Limited",
}

// pluralPairs are Hebrew singular/plural report-noun stems flipped in both
// directions to generate variants.
var pluralPairs = [][2]string{
	{"דוח", "דוחות"},
	{"דיווח", "דיווחים"},
	{"הנפקה", "הנפקות"},
	{"מצגת", "מצגות"},
	{"אסיפה", "אסיפות"},
	{"תשקיף", "תשקיפים"},
	{"עסקה", "עסקאות"},
	{"מינוי", "מינויים"},
	{"הודעה", "הודעות"},
}

func trimName(s string) string {
	return strings.Trim(s, " -.,")
}

// ExpandCompanies derives additional company alias variants: hyphen and
// quote unification, legal-suffix stripping, and quote removal for forms
// like acronym gershayim. The canonical name is always present.
func ExpandCompanies(c Catalog) Catalog {
	out := Catalog{}
	for canonical, aliases := range c {
		variants := append([]string{canonical}, aliases...)
		var expanded []string
		for _, v := range variants {
			v = trimName(v)
			if v == "" {
				continue
			}
			expanded = append(expanded, v)

			unified := strings.NewReplacer("־", "-", "–", "-", "—", "-").Replace(v)
			expanded = append(expanded, unified)

			for _, suf := range legalSuffixes {
				if stripped := trimName(strings.TrimSuffix(unified, suf)); stripped != unified && stripped != "" {
					expanded = append(expanded, stripped)
				}
			}

			if unquoted := strings.Map(dropQuote, unified); unquoted != unified {
				expanded = append(expanded, strings.TrimSpace(unquoted))
			}
		}
		out[canonical] = dedupSorted(expanded)
	}
	return out
}

func dropQuote(r rune) rune {
	switch r {
	case '"', '\'', '״', '׳', '“', '”', '‘', '’':
		return -1
	}
	return r
}

// reportExtras are curated synonym phrasings, keyed by the exact trimmed
// name they extend. They cover rewordings the stem flips cannot derive,
// like "זימון אסיפה" for the general-meeting filing.
var reportExtras = map[string][]string{
	"דוח תקופתי ושנתי": {"דוח שנתי", "דוח תקופתי", "דוחות שנתיים", "דוחות תקופתיים"},
	"דוח חצי שנתי":     {"דוח חצי-שנתי"},
	"דוח מיידי":        {"דיווח מיידי", "דיווחים מיידיים"},
	"אסיפה כללית":      {"זימון אסיפה"},
	"מינוי דירקטור":    {"מינוי דירקטורים"},
	"מינוי נושא משרה":  {`מינוי מנכ"ל`},
	"שינוי נושאי משרה": {"סיום כהונה"},
	"הנפקה פרטית":      {"הקצאה פרטית"},
	"הליכים משפטיים":   {"הליך משפטי", "תביעה"},
	"דירוג אשראי":      {"עדכון דירוג"},
	"מיזוג או פיצול":   {"מיזוג", "פיצול"},
	"חלוקת רווחים":     {"דיבידנד", "חלוקת דיבידנד"},
	"פרטי תאגיד":       {"פרטי החברה"},
	"מצגת":             {"מצגת לשוק ההון"},
}

// ExpandReports derives report-type alias variants by flipping singular
// and plural noun stems in both directions, then folding in the curated
// extras for any variant that names a known phrasing.
func ExpandReports(c Catalog) Catalog {
	out := Catalog{}
	for canonical, aliases := range c {
		variants := append([]string{canonical}, aliases...)
		var expanded []string
		for _, v := range variants {
			v = trimName(v)
			if v == "" {
				continue
			}
			expanded = append(expanded, v)
			for _, pair := range pluralPairs {
				if flipped := flipStem(v, pair[0], pair[1]); flipped != "" {
					expanded = append(expanded, flipped)
				}
				if flipped := flipStem(v, pair[1], pair[0]); flipped != "" {
					expanded = append(expanded, flipped)
				}
			}
			expanded = append(expanded, reportExtras[v]...)
		}
		out[canonical] = dedupSorted(expanded)
	}
	return out
}

// flipStem replaces a leading from-stem token with the to-stem, also
// flipping the matching adjective suffix for the common report phrases
// ("quarterly report" to "quarterly reports").
func flipStem(phrase, from, to string) string {
	toks := strings.Fields(phrase)
	if len(toks) == 0 || toks[0] != from {
		return ""
	}
	out := append([]string{to}, toks[1:]...)
	if len(out) > 1 {
		out[1] = flipAdjective(out[1], strings.HasSuffix(to, "ות") || strings.HasSuffix(to, "ים"))
	}
	return strings.Join(out, " ")
}

// adjectivePairs maps singular adjective forms to plural for the nouns in
// pluralPairs.
var adjectivePairs = map[string]string{
	"רבעוני":  "רבעוניים",
	"שנתי":    "שנתיים",
	"תקופתי":  "תקופתיים",
	"מיידי":   "מיידיים",
	"כספי":    "כספיים",
	"מיידית":  "מיידיות",
	"כללית":   "כלליות",
	"פרטית":   "פרטיות",
	"ציבורית": "ציבוריות",
}

func flipAdjective(adj string, toPlural bool) string {
	if toPlural {
		if p, ok := adjectivePairs[adj]; ok {
			return p
		}
		return adj
	}
	for sg, pl := range adjectivePairs {
		if adj == pl {
			return sg
		}
	}
	return adj
}
