package timeframe

import (
	"regexp"
	"strconv"
	"time"

	"github.com/sharonv/disclosq/internal/hebtext"
	"github.com/sharonv/disclosq/internal/match"
	"github.com/sharonv/disclosq/internal/model"
)

// quarterAdj covers adjectives qualifying fiscal periods.
const quarterAdj = `(?:הפיסקלי|הכספי|הפיננסי)?`

var (
	halfYearRelRe = regexp.MustCompile(
		leftBoundary + `((?:ב|ל|מ)?חצי\s+(?:ה)?שנה(?:\s*האחרונה)?)` + rightBoundary)

	impliedOneRes = []struct {
		re    *regexp.Regexp
		unit  model.RelativeUnit
		value int
	}{
		{regexp.MustCompile(leftBoundary + `((?:ב|ל|מ)?(?:ה)?שבוע(?:\s*` + quarterAdj + `\s*(?:האחרון|הזה|שעבר))?)` + rightBoundary), model.UnitWeeks, 1},
		{regexp.MustCompile(leftBoundary + `((?:ב|ל|מ)?(?:ה)?חודש(?:\s*(?:האחרון|הזה|שעבר))?)` + rightBoundary), model.UnitMonths, 1},
		{regexp.MustCompile(leftBoundary + `((?:ב|ל|מ)?(?:ה)?רבעון(?:\s*` + quarterAdj + `)?(?:\s*(?:האחרון|הזה|שעבר))?)` + rightBoundary), model.UnitMonths, 3},
		// A bare "שנה" is too ambiguous; years need an explicit modifier.
		{regexp.MustCompile(leftBoundary + `((?:ב|ל|מ)?(?:ה)?שנה(?:\s*(?:האחרונה|הזו|שעברה)))` + rightBoundary), model.UnitYears, 1},
	}

	todayRe     = regexp.MustCompile(leftBoundary + `(מ?היום)` + rightBoundary)
	yesterdayRe = regexp.MustCompile(leftBoundary + `(מ?אתמול)` + rightBoundary)
	shilshomRe  = regexp.MustCompile(leftBoundary + `(שלשום)` + rightBoundary)

	hoursRe     = regexp.MustCompile(`(?:מ-?)?(\d{1,3})\s*(?:ה)?שעות?\s*(?:האחרונות|האחרונה|האחרונים)?`)
	lastHoursRe = regexp.MustCompile(leftBoundary + `((?:ב)?ה?שעות\s*(?:האחרונות|האחרונה))` + rightBoundary)
	yemamaRe    = regexp.MustCompile(leftBoundary + `(ב?יממה\s*האחרונה)` + rightBoundary)

	lastPeriodRe = regexp.MustCompile(`(הימים|השבועות|החודשים|השנים)\s*(?:האחרונ(?:ים|ה)|האלה|שעבר)`)

	relNumericRe = regexp.MustCompile(
		`(?:מ-?)?(\d{1,3})\s*(?:-)?(יום|ימים|שבוע|שבועות|חודש|חודשים|שנה|שנים)\s*(?:האחרונ(?:ה|ים)?|האחרון)?`)

	dualRe = regexp.MustCompile(leftBoundary + `(` + hebPrefix + `(שבועיים|חודשיים|שנתיים))` + rightBoundary)

	recentlyRe     = regexp.MustCompile(leftBoundary + `(לאחרונה)` + rightBoundary)
	recentPeriodRe = regexp.MustCompile(leftBoundary + `((?:ב)?תקופה\s*האחרונה)` + rightBoundary)
	updatesRe      = regexp.MustCompile(leftBoundary + `(עדכונים?\s*האחרונ(?:ים|ה))` + rightBoundary)
	whatsNewRe     = regexp.MustCompile(leftBoundary + `(מה\s+חדש)` + rightBoundary)
	beforeRelRe    = regexp.MustCompile(leftBoundary + `(לפני\s+(\d{1,3}|\S+)\s+(יום|ימים|שבוע|שבועות))` + rightBoundary)
	latestRe       = regexp.MustCompile(leftBoundary + `(הכי\s+עדכנ\S*|העדכנ\S*)`)
)

func relExtraction(value int, unit model.RelativeUnit, raw string, note string, start, end int) *extraction {
	var notes []string
	if note != "" {
		notes = []string{note}
	}
	return &extraction{
		tf:    model.Relative(value, unit, raw),
		notes: notes,
		span:  match.Span{Start: start, End: end},
	}
}

// extractRelative walks the relative-expression cascade. Order matters: the
// half-year form must win over the generic "last year", implied-one period
// words over numeric forms, and dual forms are checked after numerics so
// that "שבועיים" is never split.
func extractRelative(norm string, today time.Time) *extraction {
	if m := halfYearRelRe.FindStringSubmatchIndex(norm); m != nil {
		return relExtraction(6, model.UnitMonths, norm[m[2]:m[3]], "tf:half_year_relative", m[2], m[3])
	}

	for _, p := range impliedOneRes {
		if m := p.re.FindStringSubmatchIndex(norm); m != nil {
			return relExtraction(p.value, p.unit, norm[m[2]:m[3]], "tf:implied_one:"+string(p.unit), m[2], m[3])
		}
	}

	if m := todayRe.FindStringSubmatchIndex(norm); m != nil {
		return relExtraction(0, model.UnitDays, "היום", "tf:keyword_today", m[2], m[3])
	}
	if m := yesterdayRe.FindStringSubmatchIndex(norm); m != nil {
		return relExtraction(1, model.UnitDays, "אתמול", "tf:keyword_yesterday", m[2], m[3])
	}
	if m := shilshomRe.FindStringSubmatchIndex(norm); m != nil {
		return relExtraction(2, model.UnitDays, "שלשום", "tf:keyword_shilshom", m[2], m[3])
	}

	if m := hoursRe.FindStringSubmatchIndex(norm); m != nil {
		numH, _ := strconv.Atoi(norm[m[2]:m[3]])
		days := (numH + 23) / 24
		return relExtraction(days, model.UnitDays, norm[m[0]:m[1]], "tf:hours_as_days", m[0], m[1])
	}
	if m := lastHoursRe.FindStringSubmatchIndex(norm); m != nil {
		return relExtraction(1, model.UnitDays, norm[m[2]:m[3]], "tf:last_hours_default_24h", m[2], m[3])
	}
	if m := yemamaRe.FindStringSubmatchIndex(norm); m != nil {
		return relExtraction(1, model.UnitDays, norm[m[2]:m[3]], "tf:last_24h_yemama", m[2], m[3])
	}

	if m := lastPeriodRe.FindStringSubmatchIndex(norm); m != nil {
		if unit, ok := relUnitMap[norm[m[2]:m[3]]]; ok {
			return relExtraction(1, unit, norm[m[0]:m[1]], "tf:last_period_implied_one", m[0], m[1])
		}
	}

	if m := relNumericRe.FindStringSubmatchIndex(norm); m != nil {
		num, _ := strconv.Atoi(norm[m[2]:m[3]])
		if unit, ok := relUnitMap[norm[m[4]:m[5]]]; ok {
			return relExtraction(num, unit, norm[m[0]:m[1]], "", m[0], m[1])
		}
	}

	if m := dualRe.FindStringSubmatchIndex(norm); m != nil {
		word := norm[m[4]:m[5]]
		unit := map[string]model.RelativeUnit{
			"שבועיים": model.UnitWeeks,
			"חודשיים": model.UnitMonths,
			"שנתיים":  model.UnitYears,
		}[word]
		return relExtraction(2, unit, norm[m[2]:m[3]], "", m[2], m[3])
	}

	if m := recentlyRe.FindStringSubmatchIndex(norm); m != nil {
		return relExtraction(2, model.UnitWeeks, norm[m[2]:m[3]], "tf:recent_default_2w", m[2], m[3])
	}
	if m := recentPeriodRe.FindStringSubmatchIndex(norm); m != nil {
		return relExtraction(3, model.UnitMonths, norm[m[2]:m[3]], "tf:recent_period_default_3m", m[2], m[3])
	}
	if m := updatesRe.FindStringSubmatchIndex(norm); m != nil {
		return relExtraction(1, model.UnitWeeks, norm[m[2]:m[3]], "tf:recent_updates_default_1w", m[2], m[3])
	}
	if m := whatsNewRe.FindStringSubmatchIndex(norm); m != nil {
		return relExtraction(3, model.UnitMonths, norm[m[2]:m[3]], "tf:whats_new_default_3m", m[2], m[3])
	}

	if m := beforeRelRe.FindStringSubmatchIndex(norm); m != nil {
		nTok := norm[m[4]:m[5]]
		n, err := strconv.Atoi(nTok)
		if err != nil {
			n = hebtext.NumberWords[nTok]
		}
		if unit, ok := relUnitMap[norm[m[6]:m[7]]]; ok && n > 0 {
			return relExtraction(n, unit, norm[m[2]:m[3]], "tf:before_relative", m[2], m[3])
		}
	}

	if m := latestRe.FindStringSubmatchIndex(norm); m != nil {
		return relExtraction(7, model.UnitDays, norm[m[2]:m[3]], "tf:latest_default_7d", m[2], m[3])
	}

	return nil
}
