// Package reports refines the report-type list after matching: umbrella
// titles expand to their concrete events, well-known phrasings that the
// catalogs miss are backfilled, and contradictory or redundant entries are
// suppressed.
package reports

import (
	"strings"

	"github.com/sharonv/disclosq/internal/catalog"
)

// fallbackRule adds a canonical report type when one of its trigger
// phrases appears in the query and the canonical was not matched already.
type fallbackRule struct {
	triggers  []string
	canonical string
	negation  string
}

var fallbackRules = []fallbackRule{
	{triggers: []string{"אסיפה כללית", "אסיפות כלליות"}, canonical: "אסיפה כללית"},
	{triggers: []string{"אסיפה מיוחדת"}, canonical: "אסיפה כללית"},
	{triggers: []string{"דוח מיידי", "דיווח מיידי", "דיווחים מיידיים", "הודעה מיידית"}, canonical: "דוח מיידי"},
	{triggers: []string{"דוח על אירוע", "דוח על עניין"}, canonical: "דוח מיידי"},
	{triggers: []string{"תשקיף", "תשקיפים"}, canonical: "תשקיף"},
	{triggers: []string{"מינוי דירקטור", "מינוי דירקטורים"}, canonical: "מינוי דירקטור"},
	{triggers: []string{"מינוי נושא משרה", "מינוי מנכל", `מינוי מנכ"ל`}, canonical: "מינוי נושא משרה"},
	{triggers: []string{"הנפקה לציבור"}, canonical: "הנפקה לציבור"},
	{triggers: []string{"הנפקה פרטית", "הקצאה פרטית"}, canonical: "הנפקה פרטית"},
	{triggers: []string{"תוצאות הנפקה", "תוצאות ההנפקה"}, canonical: "תוצאות הנפקה"},
	{triggers: []string{"תביעה", "הליך משפטי", "הליכים משפטיים"}, canonical: "הליכים משפטיים"},
	{triggers: []string{"דירוג אשראי", "דירוג מחדש", "עדכון דירוג"}, canonical: "דירוג אשראי"},
	{triggers: []string{"מיזוג", "פיצול"}, canonical: "מיזוג או פיצול"},
	{triggers: []string{"חצי שנתי", "חצי שנתיים"}, canonical: "דוח חצי שנתי"},
	{triggers: []string{"סיכומים כספיים", "תוצאות כספיות"}, canonical: "דוחות כספיים"},
	{triggers: []string{"פרטי תאגיד", "פרטי החברה"}, canonical: "פרטי תאגיד"},
	{triggers: []string{"חלוקת רווחים", "דיבידנד", "חלוקת דיבידנד"}, canonical: "חלוקת רווחים"},
	{triggers: []string{"מצגת", "מצגות"}, canonical: "מצגת", negation: "לא מצגות"},
}

// genericReportCanonical is used when the query asks for reports in general
// and nothing more specific was matched.
const genericReportCanonical = "דוח תקופתי ושנתי"

// Postprocess expands umbrella titles, backfills canonical report types
// from trigger phrases in the normalized query, deduplicates, and drops
// umbrella titles shadowed by their own events.
func Postprocess(reportTypes []string, normText string, umbrella catalog.UmbrellaIndex) []string {
	var out []string
	out = append(out, reportTypes...)

	// Umbrella titles expand to their concrete events.
	for _, r := range reportTypes {
		if events, ok := umbrella[r]; ok {
			out = append(out, events...)
		}
	}

	for _, rule := range fallbackRules {
		if rule.negation != "" && strings.Contains(normText, rule.negation) {
			continue
		}
		for _, trig := range rule.triggers {
			if strings.Contains(normText, trig) {
				out = append(out, rule.canonical)
				break
			}
		}
	}

	// Generic "reports" request with no specific type resolved.
	if len(out) == 0 && mentionsGenericReport(normText) && !strings.Contains(normText, "לא דוח") {
		out = append(out, genericReportCanonical)
	}

	out = uniquePreserve(out)
	out = suppressUmbrellas(out, umbrella)
	out = applyNegations(out, normText)
	return out
}

func mentionsGenericReport(normText string) bool {
	for _, f := range strings.Fields(normText) {
		if f == "דוח" || f == "דוחות" || f == "דיווח" || f == "דיווחים" {
			return true
		}
	}
	return false
}

func uniquePreserve(in []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, s := range in {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

// suppressedUmbrellas are titles dropped once any of their events is
// present, so result lists stay concrete.
var suppressedUmbrellas = []string{
	"הנפקת ניירות ערך",
	"הנהלה ונושאי משרה",
	"אירועים ועסקאות",
}

func suppressUmbrellas(in []string, umbrella catalog.UmbrellaIndex) []string {
	present := map[string]bool{}
	for _, s := range in {
		present[s] = true
	}
	drop := map[string]bool{}
	for _, title := range suppressedUmbrellas {
		if !present[title] {
			continue
		}
		for _, ev := range umbrella[title] {
			if present[ev] {
				drop[title] = true
				break
			}
		}
	}
	var out []string
	for _, s := range in {
		if !drop[s] {
			out = append(out, s)
		}
	}
	return out
}

// applyNegations removes types the query explicitly rules out or that only
// fired from an ambiguous trigger.
func applyNegations(in []string, normText string) []string {
	drop := map[string]bool{}
	if strings.Contains(normText, "לא מצגות") || strings.Contains(normText, "בלי מצגות") {
		drop["מצגת"] = true
	}
	if !strings.Contains(normText, "אשראי") {
		drop["אשראי בר דיווח"] = true
	}
	if !strings.Contains(normText, "מחדש") {
		drop["הצגה מחדש"] = true
	}
	var out []string
	for _, s := range in {
		if !drop[s] {
			out = append(out, s)
		}
	}
	return out
}
