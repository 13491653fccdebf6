package timeframe

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/sharonv/disclosq/internal/match"
	"github.com/sharonv/disclosq/internal/model"
)

type extraction struct {
	tf    model.TimeFrame
	notes []string
	span  match.Span
}

const (
	leftBoundary  = `(?:^|[^\p{L}\p{N}_])`
	rightBoundary = `(?:[^\p{L}\p{N}_]|$)`
)

var yearLiteralRe = regexp.MustCompile(`^(?:19|20)\d{2}$`)

// yearFromToken resolves a captured year token: a 4-digit literal or a soft
// reference like "last year". Returns 0 when the token resolves to nothing.
func yearFromToken(tok string, today time.Time) int {
	tok = strings.TrimSpace(tok)
	if yearLiteralRe.MatchString(tok) {
		y, _ := strconv.Atoi(tok)
		return y
	}
	switch yearWords[tok] {
	case "this_year":
		return today.Year()
	case "last_year":
		return today.Year() - 1
	}
	return 0
}

func lastDayOfMonth(y, m int) time.Time {
	return model.Date(y, m+1, 1).AddDate(0, 0, -1)
}

func quarterOf(t time.Time) int {
	return (int(t.Month())-1)/3 + 1
}

func quarterDates(q, year int) (time.Time, time.Time) {
	start := model.Date(year, 3*(q-1)+1, 1)
	end := start.AddDate(0, 3, 0).AddDate(0, 0, -1)
	return start, end
}

func dayOf(t time.Time) time.Time {
	return model.Date(t.Year(), int(t.Month()), t.Day())
}

var (
	halfYearRe = regexp.MustCompile(
		`(מחצית|חצי)\s*(?:ה)?(ראשונה|שנייה)\s*(?:של)?\s*(?:שנת|שנה)?\s*([\p{L}\p{N}_ ]+)?`)
	startOfPeriodRe = regexp.MustCompile(
		`(מתחילת|מתחלה של|מתחלת)\s*(החודש|הרבעון|השנה)`)
	untilEndRe = regexp.MustCompile(
		`(עד(?:\s*ל)?\s*סוף|מסוף)\s*(החודש|הרבעון|השנה)`)
)

// extractHalfOrStartEnd handles half-year expressions, "from the start of"
// a period up to today, and "until the end of" a period from today.
func extractHalfOrStartEnd(norm string, today time.Time) *extraction {
	if m := halfYearRe.FindStringSubmatchIndex(norm); m != nil {
		which := norm[m[4]:m[5]]
		ytok := ""
		if m[6] >= 0 {
			ytok = norm[m[6]:m[7]]
		}
		year := yearFromToken(ytok, today)
		if year == 0 {
			year = today.Year()
		}
		var start, end time.Time
		if strings.HasPrefix(which, "ראשונ") {
			start, end = model.Date(year, 1, 1), model.Date(year, 6, 30)
		} else {
			start, end = model.Date(year, 7, 1), model.Date(year, 12, 31)
		}
		return &extraction{
			tf:    model.Absolute(start, end, norm[m[0]:m[1]]),
			notes: []string{"tf:half_year"},
			span:  match.Span{Start: m[0], End: m[1]},
		}
	}

	if m := startOfPeriodRe.FindStringSubmatchIndex(norm); m != nil {
		unit := norm[m[4]:m[5]]
		var start, end time.Time
		switch {
		case strings.Contains(unit, "חודש"):
			start, end = model.Date(today.Year(), int(today.Month()), 1), dayOf(today)
		case strings.Contains(unit, "רבעון"):
			q := quarterOf(today)
			start = model.Date(today.Year(), 3*(q-1)+1, 1)
			end = dayOf(today)
		default:
			// "from the start of the year" covers the whole current year.
			start, end = model.Date(today.Year(), 1, 1), model.Date(today.Year(), 12, 31)
		}
		return &extraction{
			tf:    model.Absolute(start, end, norm[m[0]:m[1]]),
			notes: []string{"tf:start_of_period_to_today"},
			span:  match.Span{Start: m[0], End: m[1]},
		}
	}

	if m := untilEndRe.FindStringSubmatchIndex(norm); m != nil {
		unit := norm[m[4]:m[5]]
		var end time.Time
		switch {
		case strings.Contains(unit, "חודש"):
			end = lastDayOfMonth(today.Year(), int(today.Month()))
		case strings.Contains(unit, "רבעון"):
			_, qEnd := quarterDates(quarterOf(today), today.Year())
			end = qEnd
		default:
			end = model.Date(today.Year(), 12, 31)
		}
		return &extraction{
			tf:    model.Absolute(dayOf(today), end, norm[m[0]:m[1]]),
			notes: []string{"tf:today_to_end_of_period"},
			span:  match.Span{Start: m[0], End: m[1]},
		}
	}

	return nil
}

var betweenMonthsRe = regexp.MustCompile(
	`בין\s+(` + monthNamePattern() + `)\s+ל(` + monthNamePattern() + `)(?:\s+(?:שנת|של)?\s*([\p{L}\p{N}_ ]+))?`)

// extractBetweenMonths handles "between <month> and <month>" with an
// optional year reference, defaulting to the current year.
func extractBetweenMonths(norm string, today time.Time) *extraction {
	m := betweenMonthsRe.FindStringSubmatchIndex(norm)
	if m == nil {
		return nil
	}
	m1 := monthIndex[norm[m[2]:m[3]]]
	m2 := monthIndex[norm[m[4]:m[5]]]
	if m1 == 0 || m2 == 0 {
		return nil
	}
	ytok := ""
	if m[6] >= 0 {
		ytok = norm[m[6]:m[7]]
	}
	year := yearFromToken(ytok, today)
	if year == 0 {
		year = today.Year()
	}
	start := model.Date(year, m1, 1)
	end := lastDayOfMonth(year, m2)
	return &extraction{
		tf:    model.Absolute(start, end, norm[m[0]:m[1]]),
		notes: []string{"tf:between_months"},
		span:  match.Span{Start: m[0], End: m[1]},
	}
}

var beforeMonthYearRe = regexp.MustCompile(
	leftBoundary + `(לפני\s+(` + monthNamePattern() + `)\s+((?:19|20)\d{2}))` + rightBoundary)

// extractBeforeMonthYear handles "before <month> <year>", producing an
// open-ended window floored at 1900-01-01.
func extractBeforeMonthYear(norm string) *extraction {
	m := beforeMonthYearRe.FindStringSubmatchIndex(norm)
	if m == nil {
		return nil
	}
	mon := monthIndex[norm[m[4]:m[5]]]
	if mon == 0 {
		return nil
	}
	y, _ := strconv.Atoi(norm[m[6]:m[7]])
	var end time.Time
	if mon == 1 {
		end = model.Date(y-1, 12, 31)
	} else {
		end = model.Date(y, mon, 1).AddDate(0, 0, -1)
	}
	return &extraction{
		tf:    model.Absolute(model.Date(1900, 1, 1), end, norm[m[2]:m[3]]),
		notes: []string{"tf:before_month_year"},
		span:  match.Span{Start: m[2], End: m[3]},
	}
}

var sinceStartOfMonthRe = regexp.MustCompile(
	leftBoundary + `(מאז\s+תחילת\s+(` + monthNamePattern() + `)(?:\s+((?:19|20)\d{2}|השנה))?)` + rightBoundary)

// extractSinceStartOfMonth handles "since the start of <month> [year]",
// defaulting the year to the current one.
func extractSinceStartOfMonth(norm string, today time.Time) *extraction {
	m := sinceStartOfMonthRe.FindStringSubmatchIndex(norm)
	if m == nil {
		return nil
	}
	mon := monthIndex[norm[m[4]:m[5]]]
	if mon == 0 {
		return nil
	}
	year := today.Year()
	if m[6] >= 0 {
		if ytok := norm[m[6]:m[7]]; ytok != "השנה" {
			year, _ = strconv.Atoi(ytok)
		}
	}
	return &extraction{
		tf:    model.Absolute(model.Date(year, mon, 1), dayOf(today), norm[m[2]:m[3]]),
		notes: []string{"tf:since_start_of_month_to_today"},
		span:  match.Span{Start: m[2], End: m[3]},
	}
}

var (
	sinceMonthYearRe = regexp.MustCompile(
		leftBoundary + `(מאז\s+` + hebPrefix + `(` + monthNamePattern() + `)\s+((?:19|20)\d{2}))` + rightBoundary)
	sinceYearRe = regexp.MustCompile(
		leftBoundary + `(מאז\s+((?:19|20)\d{2}))` + rightBoundary)
)

// extractSince handles "since <month> <year>" and "since <year>", both
// ending at today.
func extractSince(norm string, today time.Time) *extraction {
	if m := sinceMonthYearRe.FindStringSubmatchIndex(norm); m != nil {
		mon := monthIndex[norm[m[4]:m[5]]]
		if mon != 0 {
			y, _ := strconv.Atoi(norm[m[6]:m[7]])
			return &extraction{
				tf:    model.Absolute(model.Date(y, mon, 1), dayOf(today), norm[m[2]:m[3]]),
				notes: []string{"tf:since_month_year_to_today"},
				span:  match.Span{Start: m[2], End: m[3]},
			}
		}
	}
	if m := sinceYearRe.FindStringSubmatchIndex(norm); m != nil {
		y, _ := strconv.Atoi(norm[m[4]:m[5]])
		return &extraction{
			tf:    model.Absolute(model.Date(y, 1, 1), dayOf(today), norm[m[2]:m[3]]),
			notes: []string{"tf:since_year_to_today"},
			span:  match.Span{Start: m[2], End: m[3]},
		}
	}
	return nil
}

var seasonRe = regexp.MustCompile(
	leftBoundary + `(` + hebPrefix + `(אביב|קיץ|סתיו|חורף)\s+((?:19|20)\d{2}))` + rightBoundary)

// extractSeason maps Hebrew seasons plus a year to fixed month ranges.
// Winter runs December through end of February of the following year.
func extractSeason(norm string) *extraction {
	m := seasonRe.FindStringSubmatchIndex(norm)
	if m == nil {
		return nil
	}
	season := norm[m[4]:m[5]]
	y, _ := strconv.Atoi(norm[m[6]:m[7]])
	var start, end time.Time
	switch season {
	case "אביב":
		start, end = model.Date(y, 3, 1), model.Date(y, 5, 31)
	case "קיץ":
		start, end = model.Date(y, 6, 1), model.Date(y, 8, 31)
	case "סתיו":
		start, end = model.Date(y, 9, 1), model.Date(y, 11, 30)
	default:
		start = model.Date(y, 12, 1)
		end = model.Date(y+1, 3, 1).AddDate(0, 0, -1)
	}
	return &extraction{
		tf:    model.Absolute(start, end, norm[m[2]:m[3]]),
		notes: []string{"tf:season"},
		span:  match.Span{Start: m[2], End: m[3]},
	}
}

var lastWeekdayRe = regexp.MustCompile(
	leftBoundary + `(יום\s+(ראשון|שני|שלישי|רביעי|חמישי|שישי|שבת)\s+שעבר)` + rightBoundary)

// extractLastWeekday resolves "last <weekday>" to the matching day in the
// previous week.
func extractLastWeekday(norm string, today time.Time) *extraction {
	m := lastWeekdayRe.FindStringSubmatchIndex(norm)
	if m == nil {
		return nil
	}
	target := weekdayIndex[norm[m[4]:m[5]]]
	delta := ((int(today.Weekday())-target)%7+7)%7 + 7
	d := dayOf(today).AddDate(0, 0, -delta)
	return &extraction{
		tf:    model.Absolute(d, d, norm[m[2]:m[3]]),
		notes: []string{"tf:last_weekday"},
		span:  match.Span{Start: m[2], End: m[3]},
	}
}
