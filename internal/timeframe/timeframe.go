package timeframe

import (
	"regexp"
	"strconv"
	"time"

	"github.com/sharonv/disclosq/internal/hebtext"
	"github.com/sharonv/disclosq/internal/match"
	"github.com/sharonv/disclosq/internal/model"
)

// NoTimeFrameNote is emitted when no time expression was found.
const NoTimeFrameNote = "No timeframe extracted."

func resolveToday(today time.Time) time.Time {
	if today.IsZero() {
		today = time.Now().UTC()
	}
	return dayOf(today)
}

// Extract finds the time expression in text and resolves it. Specific
// calendar constructs win over relative expressions, which win over generic
// absolute dates. The returned span is the byte range of the matched
// fragment in the normalized text, nil when nothing matched.
func Extract(text string, today time.Time) (model.TimeFrame, []string, *match.Span) {
	norm := hebtext.Normalize(text)
	today = resolveToday(today)

	for _, ex := range []*extraction{
		extractHalfOrStartEnd(norm, today),
		extractBetweenMonths(norm, today),
		extractBeforeMonthYear(norm),
		extractSinceStartOfMonth(norm, today),
		extractSince(norm, today),
		extractSeason(norm),
		extractLastWeekday(norm, today),
	} {
		if ex != nil {
			sp := ex.span
			return ex.tf, ex.notes, &sp
		}
	}

	if ex := extractRelative(norm, today); ex != nil {
		sp := ex.span
		return ex.tf, ex.notes, &sp
	}

	if tf, notes, sp := absoluteCascade(norm, today); tf.Kind != model.TimeFrameNone {
		return tf, notes, sp
	}

	return model.NoTimeFrame(), []string{NoTimeFrameNote}, nil
}

var (
	keywordYearRe = regexp.MustCompile(
		leftBoundary + `((?:שנת|שנה)\s+((?:19|20)\d{2}))` + rightBoundary)
	quarterWordRe = regexp.MustCompile(
		`רבעון\s*(ראשון|שני|שלישי|רביעי)(?:\s*((?:19|20)\d{2}))?`)
	quarterNumRe = regexp.MustCompile(
		`(?i)(?:רבעון|Q)\s*([1-4])(?:\s*((?:19|20)\d{2}))?`)

	quarterOrdinals = map[string]int{"ראשון": 1, "שני": 2, "שלישי": 3, "רביעי": 4}
)

// ExtractAbsolute resolves only absolute forms: explicit dates, year
// keywords and quarter expressions. Used when the caller requires a fixed
// window regardless of relative phrasing.
func ExtractAbsolute(text string, today time.Time) (model.TimeFrame, []string, *match.Span) {
	norm := hebtext.Normalize(text)
	today = resolveToday(today)
	return absoluteCascade(norm, today)
}

// absoluteCascade resolves generic absolute forms: explicit dates first,
// then the year keyword, then quarter expressions with the year defaulting
// to the current one.
func absoluteCascade(norm string, today time.Time) (model.TimeFrame, []string, *match.Span) {
	if ex := extractAbsoluteClean(norm); ex != nil {
		sp := ex.span
		return ex.tf, []string{"tf:absolute"}, &sp
	}

	if m := keywordYearRe.FindStringSubmatchIndex(norm); m != nil {
		y, _ := strconv.Atoi(norm[m[4]:m[5]])
		sp := match.Span{Start: m[2], End: m[3]}
		tf := model.Absolute(model.Date(y, 1, 1), model.Date(y, 12, 31), norm[m[2]:m[3]])
		return tf, []string{"tf:keyword_year"}, &sp
	}

	if m := quarterWordRe.FindStringSubmatchIndex(norm); m != nil {
		q := quarterOrdinals[norm[m[2]:m[3]]]
		y := today.Year()
		if m[4] >= 0 {
			y, _ = strconv.Atoi(norm[m[4]:m[5]])
		}
		start, end := quarterDates(q, y)
		sp := match.Span{Start: m[0], End: m[1]}
		return model.Absolute(start, end, norm[m[0]:m[1]]), []string{"tf:absolute_quarter_word"}, &sp
	}

	if m := quarterNumRe.FindStringSubmatchIndex(norm); m != nil {
		q, _ := strconv.Atoi(norm[m[2]:m[3]])
		y := today.Year()
		if m[4] >= 0 {
			y, _ = strconv.Atoi(norm[m[4]:m[5]])
		}
		start, end := quarterDates(q, y)
		sp := match.Span{Start: m[0], End: m[1]}
		return model.Absolute(start, end, norm[m[0]:m[1]]), []string{"tf:absolute_quarter"}, &sp
	}

	return model.NoTimeFrame(), nil, nil
}

// RelativeToAbsolute converts a relative TimeFrame into the absolute
// window it denotes as of today. Month and year arithmetic keeps the
// day-of-month, clamped to the target month's last day. Non-relative
// frames are returned unchanged.
func RelativeToAbsolute(tf model.TimeFrame, today time.Time) model.TimeFrame {
	if tf.Kind != model.TimeFrameRelative {
		return tf
	}
	today = resolveToday(today)

	clampDay := func(y, m, d int) time.Time {
		last := lastDayOfMonth(y, m).Day()
		if d > last {
			d = last
		}
		return model.Date(y, m, d)
	}

	end := today
	var start time.Time
	switch tf.RelativeUnit {
	case model.UnitDays:
		start = today.AddDate(0, 0, -tf.RelativeValue)
	case model.UnitWeeks:
		start = today.AddDate(0, 0, -tf.RelativeValue*7)
	case model.UnitMonths:
		y := today.Year()
		m := int(today.Month()) - tf.RelativeValue
		for m <= 0 {
			y--
			m += 12
		}
		start = clampDay(y, m, today.Day())
	case model.UnitYears:
		start = clampDay(today.Year()-tf.RelativeValue, int(today.Month()), today.Day())
	default:
		return tf
	}
	return model.Absolute(start, end, tf.Raw)
}
