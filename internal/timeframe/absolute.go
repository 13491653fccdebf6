package timeframe

import (
	"regexp"
	"strconv"
	"time"

	"github.com/sharonv/disclosq/internal/match"
	"github.com/sharonv/disclosq/internal/model"
)

var (
	monthYearNameRe = regexp.MustCompile(
		`(?:חודש|בחודש|ב)?\s*` + hebPrefix + `(` + monthNamePattern() + `)\s+(?:שנת\s*)?((?:19|20)\d{2})`)
	yearMonthNameRe = regexp.MustCompile(
		`(?:שנת\s*)?((?:19|20)\d{2})\s+` + hebPrefix + `(` + monthNamePattern() + `)`)

	numericDMYRe = regexp.MustCompile(`(\d{1,2})\s*[./-]\s*(\d{1,2})\s*[./-]\s*(\d{2,4})`)
	numericMYRe  = regexp.MustCompile(`(\d{1,2})\s*[./-]\s*(\d{2,4})`)
	numericYMRe  = regexp.MustCompile(`(\d{2,4})\s*[./-]\s*(\d{1,2})`)
	bareYearRe   = regexp.MustCompile(`((?:19|20)\d{2})`)

	trailingDateSepRe = regexp.MustCompile(`^\s*[./-]\s*\d`)
)

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// digitBounded reports whether the [start, end) match is not glued to
// further digits on either side.
func digitBounded(s string, start, end int) bool {
	if start > 0 && isDigit(s[start-1]) {
		return false
	}
	if end < len(s) && isDigit(s[end]) {
		return false
	}
	return true
}

func overlapsAny(sp match.Span, blocked []match.Span) bool {
	for _, b := range blocked {
		if sp.Overlaps(b) {
			return true
		}
	}
	return false
}

type monthRange struct {
	start, end time.Time
	span       match.Span
}

type dayPoint struct {
	date time.Time
	span match.Span
}

type yearRange struct {
	year int
	span match.Span
}

// extractAbsoluteClean recognizes absolute dates: Hebrew month name plus
// year in either order, numeric day-month-year, numeric month/year, and
// standalone years. Month ranges take priority over day points, which take
// priority over bare years; multiple fragments widen to a covering range.
func extractAbsoluteClean(norm string) *extraction {
	var (
		monthRanges []monthRange
		dayPoints   []dayPoint
		yearRanges  []yearRange
		blocked     []match.Span
	)

	collectMonthName := func(re *regexp.Regexp, monthGroup, yearGroup int) {
		for _, m := range re.FindAllStringSubmatchIndex(norm, -1) {
			mon := monthIndex[norm[m[2*monthGroup]:m[2*monthGroup+1]]]
			if mon == 0 {
				continue
			}
			y, _ := strconv.Atoi(norm[m[2*yearGroup]:m[2*yearGroup+1]])
			sp := match.Span{Start: m[0], End: m[1]}
			monthRanges = append(monthRanges, monthRange{
				start: model.Date(y, mon, 1),
				end:   lastDayOfMonth(y, mon),
				span:  sp,
			})
			blocked = append(blocked, sp)
		}
	}
	collectMonthName(monthYearNameRe, 1, 2)
	collectMonthName(yearMonthNameRe, 2, 1)

	for _, m := range numericDMYRe.FindAllStringSubmatchIndex(norm, -1) {
		if !digitBounded(norm, m[0], m[1]) {
			continue
		}
		sp := match.Span{Start: m[0], End: m[1]}
		if overlapsAny(sp, blocked) {
			continue
		}
		d, _ := strconv.Atoi(norm[m[2]:m[3]])
		mon, _ := strconv.Atoi(norm[m[4]:m[5]])
		y, _ := strconv.Atoi(norm[m[6]:m[7]])
		if y < 100 {
			y += 2000
		}
		if mon < 1 || mon > 12 || d < 1 || d > lastDayOfMonth(y, mon).Day() {
			continue
		}
		dayPoints = append(dayPoints, dayPoint{date: model.Date(y, mon, d), span: sp})
		blocked = append(blocked, sp)
	}

	collectMonthNumeric := func(re *regexp.Regexp, monthGroup, yearGroup int, checkTrailing bool) {
		for _, m := range re.FindAllStringSubmatchIndex(norm, -1) {
			if !digitBounded(norm, m[0], m[1]) {
				continue
			}
			if checkTrailing && trailingDateSepRe.MatchString(norm[m[1]:]) {
				continue
			}
			sp := match.Span{Start: m[0], End: m[1]}
			if overlapsAny(sp, blocked) {
				continue
			}
			mon, _ := strconv.Atoi(norm[m[2*monthGroup]:m[2*monthGroup+1]])
			y, _ := strconv.Atoi(norm[m[2*yearGroup]:m[2*yearGroup+1]])
			if y < 100 {
				y += 2000
			}
			if mon < 1 || mon > 12 {
				continue
			}
			monthRanges = append(monthRanges, monthRange{
				start: model.Date(y, mon, 1),
				end:   lastDayOfMonth(y, mon),
				span:  sp,
			})
			blocked = append(blocked, sp)
		}
	}
	collectMonthNumeric(numericMYRe, 1, 2, true)
	collectMonthNumeric(numericYMRe, 2, 1, false)

	for _, m := range bareYearRe.FindAllStringSubmatchIndex(norm, -1) {
		if !digitBounded(norm, m[2], m[3]) {
			continue
		}
		sp := match.Span{Start: m[2], End: m[3]}
		if overlapsAny(sp, blocked) {
			continue
		}
		y, _ := strconv.Atoi(norm[m[2]:m[3]])
		yearRanges = append(yearRanges, yearRange{year: y, span: sp})
	}

	if len(monthRanges) > 0 {
		start, end := monthRanges[0].start, monthRanges[0].end
		smin, smax := monthRanges[0].span.Start, monthRanges[0].span.End
		for _, r := range monthRanges[1:] {
			if r.start.Before(start) {
				start = r.start
			}
			if r.end.After(end) {
				end = r.end
			}
			if r.span.Start < smin {
				smin = r.span.Start
			}
			if r.span.End > smax {
				smax = r.span.End
			}
		}
		return &extraction{
			tf:   model.Absolute(start, end, norm[smin:smax]),
			span: match.Span{Start: smin, End: smax},
		}
	}

	if len(dayPoints) > 0 {
		start, end := dayPoints[0].date, dayPoints[0].date
		smin, smax := dayPoints[0].span.Start, dayPoints[0].span.End
		for _, p := range dayPoints[1:] {
			if p.date.Before(start) {
				start = p.date
			}
			if p.date.After(end) {
				end = p.date
			}
			if p.span.Start < smin {
				smin = p.span.Start
			}
			if p.span.End > smax {
				smax = p.span.End
			}
		}
		return &extraction{
			tf:   model.Absolute(start, end, norm[smin:smax]),
			span: match.Span{Start: smin, End: smax},
		}
	}

	if len(yearRanges) > 0 {
		y0, y1 := yearRanges[0].year, yearRanges[0].year
		smin, smax := yearRanges[0].span.Start, yearRanges[0].span.End
		for _, r := range yearRanges[1:] {
			if r.year < y0 {
				y0 = r.year
			}
			if r.year > y1 {
				y1 = r.year
			}
			if r.span.Start < smin {
				smin = r.span.Start
			}
			if r.span.End > smax {
				smax = r.span.End
			}
		}
		return &extraction{
			tf:   model.Absolute(model.Date(y0, 1, 1), model.Date(y1, 12, 31), norm[smin:smax]),
			span: match.Span{Start: smin, End: smax},
		}
	}

	return nil
}

// AbsoluteDateSpans returns coarse spans of every absolute date fragment in
// the text, used to keep the quantity extractor away from date numbers.
func AbsoluteDateSpans(norm string) []match.Span {
	var spans []match.Span
	for _, re := range []*regexp.Regexp{monthYearNameRe, yearMonthNameRe, numericDMYRe} {
		for _, m := range re.FindAllStringIndex(norm, -1) {
			spans = append(spans, match.Span{Start: m[0], End: m[1]})
		}
	}
	return spans
}

// AbsoluteNumberTokenSpans returns fine-grained spans of the numeric tokens
// inside absolute date patterns: the day, month and year components of
// dd/mm/yyyy forms and both components of month/year forms.
func AbsoluteNumberTokenSpans(norm string) []match.Span {
	var spans []match.Span
	for _, m := range numericDMYRe.FindAllStringSubmatchIndex(norm, -1) {
		if !digitBounded(norm, m[0], m[1]) {
			continue
		}
		for g := 1; g <= 3; g++ {
			spans = append(spans, match.Span{Start: m[2*g], End: m[2*g+1]})
		}
	}
	for _, m := range numericMYRe.FindAllStringSubmatchIndex(norm, -1) {
		if !digitBounded(norm, m[0], m[1]) || trailingDateSepRe.MatchString(norm[m[1]:]) {
			continue
		}
		spans = append(spans, match.Span{Start: m[2], End: m[3]}, match.Span{Start: m[4], End: m[5]})
	}
	for _, m := range numericYMRe.FindAllStringSubmatchIndex(norm, -1) {
		if !digitBounded(norm, m[0], m[1]) {
			continue
		}
		spans = append(spans, match.Span{Start: m[2], End: m[3]}, match.Span{Start: m[4], End: m[5]})
	}
	return spans
}
