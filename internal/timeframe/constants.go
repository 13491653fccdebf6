// Package timeframe resolves Hebrew time expressions into relative or
// absolute date windows.
package timeframe

import (
	"sort"
	"strings"

	"github.com/sharonv/disclosq/internal/model"
)

// hebPrefix is an optional one-letter Hebrew particle attached to the
// following word.
const hebPrefix = `(?:[בלכוהמש]-?)?`

// monthIndex maps Hebrew month names to month numbers, including the
// alternate spelling of March.
var monthIndex = map[string]int{
	"ינואר":   1,
	"פברואר":  2,
	"מרץ":     3,
	"מרס":     3,
	"אפריל":   4,
	"מאי":     5,
	"יוני":    6,
	"יולי":    7,
	"אוגוסט":  8,
	"ספטמבר":  9,
	"אוקטובר": 10,
	"נובמבר":  11,
	"דצמבר":   12,
}

// weekdayIndex maps Hebrew weekday names to time.Weekday values.
var weekdayIndex = map[string]int{
	"ראשון": 0,
	"שני":   1,
	"שלישי": 2,
	"רביעי": 3,
	"חמישי": 4,
	"שישי":  5,
	"שבת":   6,
}

// relUnitMap maps Hebrew unit words, including definite plural forms, to
// relative units.
var relUnitMap = map[string]model.RelativeUnit{
	"יום":     model.UnitDays,
	"ימים":    model.UnitDays,
	"שבוע":    model.UnitWeeks,
	"שבועות":  model.UnitWeeks,
	"חודש":    model.UnitMonths,
	"חודשים":  model.UnitMonths,
	"שנה":     model.UnitYears,
	"שנים":    model.UnitYears,
	"הימים":   model.UnitDays,
	"השבועות": model.UnitWeeks,
	"החודשים": model.UnitMonths,
	"השנים":   model.UnitYears,
}

// yearWords are soft year references resolved against the reference date.
var yearWords = map[string]string{
	"השנה":      "this_year",
	"שנה שעברה": "last_year",
	"אשתקד":     "last_year",
}

func monthNamePattern() string {
	names := make([]string, 0, len(monthIndex))
	for n := range monthIndex {
		names = append(names, n)
	}
	// Longer names first so alternation never stops at a prefix.
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})
	return strings.Join(names, "|")
}
