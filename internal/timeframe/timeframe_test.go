package timeframe

import (
	"testing"
	"time"

	"github.com/sharonv/disclosq/internal/model"
)

// testToday is a fixed Sunday used as the reference date.
var testToday = model.Date(2025, 6, 15)

func TestExtractRelative(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		value int
		unit  model.RelativeUnit
	}{
		{"explicit days", "7 ימים האחרונים", 7, model.UnitDays},
		{"explicit weeks", "5 שבועות", 5, model.UnitWeeks},
		{"last week implied one", "שבוע שעבר", 1, model.UnitWeeks},
		{"this week", "השבוע", 1, model.UnitWeeks},
		{"last month implied one", "החודש האחרון", 1, model.UnitMonths},
		{"last quarter three months", "רבעון האחרון", 3, model.UnitMonths},
		{"last year needs modifier", "השנה האחרונה", 1, model.UnitYears},
		{"dual weeks", "שבועיים", 2, model.UnitWeeks},
		{"dual months with prefix", "בחודשיים", 2, model.UnitMonths},
		{"dual years", "שנתיים", 2, model.UnitYears},
		{"half year", "חצי שנה האחרונה", 6, model.UnitMonths},
		{"today keyword", "היום", 0, model.UnitDays},
		{"yesterday", "אתמול", 1, model.UnitDays},
		{"shilshom", "שלשום", 2, model.UnitDays},
		{"hours ceil to days", "48 שעות האחרונות", 2, model.UnitDays},
		{"partial day rounds up", "30 שעות", 2, model.UnitDays},
		{"last hours default", "השעות האחרונות", 1, model.UnitDays},
		{"yemama", "ביממה האחרונה", 1, model.UnitDays},
		{"last days implied one", "הימים האחרונים", 1, model.UnitDays},
		{"recently default", "לאחרונה", 2, model.UnitWeeks},
		{"recent period default", "בתקופה האחרונה", 3, model.UnitMonths},
		{"recent updates default", "עדכונים האחרונים", 1, model.UnitWeeks},
		{"whats new default", "מה חדש", 3, model.UnitMonths},
		{"before n days", "לפני 10 ימים", 10, model.UnitDays},
		{"before word numeral", "לפני שלושה שבועות", 3, model.UnitWeeks},
		{"latest default", "הכי עדכני", 7, model.UnitDays},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tf, _, span := Extract(tt.text, testToday)
			if tf.Kind != model.TimeFrameRelative {
				t.Fatalf("kind = %s, want relative (tf=%+v)", tf.Kind, tf)
			}
			if tf.RelativeValue != tt.value || tf.RelativeUnit != tt.unit {
				t.Errorf("got %d %s, want %d %s", tf.RelativeValue, tf.RelativeUnit, tt.value, tt.unit)
			}
			if span == nil {
				t.Error("span is nil")
			}
		})
	}
}

func TestExtractAbsoluteForms(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		start, end time.Time
	}{
		{"month name and year", "מרץ 2025", model.Date(2025, 3, 1), model.Date(2025, 3, 31)},
		{"alt march spelling", "מרס 2025", model.Date(2025, 3, 1), model.Date(2025, 3, 31)},
		{"month with prefix", "בנובמבר 2024", model.Date(2024, 11, 1), model.Date(2024, 11, 30)},
		{"numeric date", "15/3/2024", model.Date(2024, 3, 15), model.Date(2024, 3, 15)},
		{"numeric date dots", "1.1.2024", model.Date(2024, 1, 1), model.Date(2024, 1, 1)},
		{"two digit year", "15-3-24", model.Date(2024, 3, 15), model.Date(2024, 3, 15)},
		{"month slash year", "3/2024", model.Date(2024, 3, 1), model.Date(2024, 3, 31)},
		{"bare year", "דוחות 2023", model.Date(2023, 1, 1), model.Date(2023, 12, 31)},
		{"two years widen", "2022 וגם 2024", model.Date(2022, 1, 1), model.Date(2024, 12, 31)},
		{"between months", "בין ינואר למרץ 2024", model.Date(2024, 1, 1), model.Date(2024, 3, 31)},
		{"since year", "מאז 2023", model.Date(2023, 1, 1), testToday},
		{"since month year", "מאז ינואר 2024", model.Date(2024, 1, 1), testToday},
		{"since start of month", "מאז תחילת אפריל", model.Date(2025, 4, 1), testToday},
		{"before month floors at 1900", "לפני מרץ 2024", model.Date(1900, 1, 1), model.Date(2024, 2, 29)},
		{"summer season", "קיץ 2023", model.Date(2023, 6, 1), model.Date(2023, 8, 31)},
		{"winter season leap february", "חורף 2023", model.Date(2023, 12, 1), model.Date(2024, 2, 29)},
		{"winter season plain february", "חורף 2022", model.Date(2022, 12, 1), model.Date(2023, 2, 28)},
		{"first half of year", "מחצית ראשונה של 2024", model.Date(2024, 1, 1), model.Date(2024, 6, 30)},
		{"second half of year", "המחצית השנייה של 2024", model.Date(2024, 7, 1), model.Date(2024, 12, 31)},
		{"start of month to today", "מתחילת החודש", model.Date(2025, 6, 1), testToday},
		{"start of year full year", "מתחילת השנה", model.Date(2025, 1, 1), model.Date(2025, 12, 31)},
		{"until end of quarter", "עד סוף הרבעון", testToday, model.Date(2025, 6, 30)},
		{"until end of month", "עד סוף החודש", testToday, model.Date(2025, 6, 30)},
		{"last weekday", "יום שלישי שעבר", model.Date(2025, 6, 3), model.Date(2025, 6, 3)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tf, _, _ := Extract(tt.text, testToday)
			if tf.Kind != model.TimeFrameAbsolute {
				t.Fatalf("kind = %s, want absolute (tf=%+v)", tf.Kind, tf)
			}
			if !tf.StartDate.Equal(tt.start) || !tf.EndDate.Equal(tt.end) {
				t.Errorf("got [%s, %s], want [%s, %s]",
					tf.StartDate.Format(model.DateLayout), tf.EndDate.Format(model.DateLayout),
					tt.start.Format(model.DateLayout), tt.end.Format(model.DateLayout))
			}
		})
	}
}

func TestExtractNone(t *testing.T) {
	tf, notes, span := Extract("דוחות של אלפא", testToday)
	if tf.Kind != model.TimeFrameNone {
		t.Fatalf("kind = %s, want none", tf.Kind)
	}
	if span != nil {
		t.Error("span should be nil")
	}
	if len(notes) != 1 || notes[0] != NoTimeFrameNote {
		t.Errorf("notes = %v", notes)
	}
}

func TestExtractAbsoluteMode(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		start, end time.Time
	}{
		{"quarter word default year", "רבעון שני", model.Date(2025, 4, 1), model.Date(2025, 6, 30)},
		{"quarter numeric latin", "Q3", model.Date(2025, 7, 1), model.Date(2025, 9, 30)},
		{"explicit year wins over quarter", "רבעון ראשון 2024", model.Date(2024, 1, 1), model.Date(2024, 12, 31)},
		{"year keyword", "שנת 2023", model.Date(2023, 1, 1), model.Date(2023, 12, 31)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tf, _, _ := ExtractAbsolute(tt.text, testToday)
			if tf.Kind != model.TimeFrameAbsolute {
				t.Fatalf("kind = %s, want absolute (tf=%+v)", tf.Kind, tf)
			}
			if !tf.StartDate.Equal(tt.start) || !tf.EndDate.Equal(tt.end) {
				t.Errorf("got [%s, %s], want [%s, %s]",
					tf.StartDate.Format(model.DateLayout), tf.EndDate.Format(model.DateLayout),
					tt.start.Format(model.DateLayout), tt.end.Format(model.DateLayout))
			}
		})
	}
}

func TestRelativeToAbsolute(t *testing.T) {
	tests := []struct {
		name       string
		tf         model.TimeFrame
		today      time.Time
		start, end time.Time
	}{
		{
			name:  "days",
			tf:    model.Relative(7, model.UnitDays, ""),
			today: testToday,
			start: model.Date(2025, 6, 8), end: testToday,
		},
		{
			name:  "weeks",
			tf:    model.Relative(2, model.UnitWeeks, ""),
			today: testToday,
			start: model.Date(2025, 6, 1), end: testToday,
		},
		{
			name:  "months",
			tf:    model.Relative(3, model.UnitMonths, ""),
			today: testToday,
			start: model.Date(2025, 3, 15), end: testToday,
		},
		{
			name:  "months clamped to short month",
			tf:    model.Relative(1, model.UnitMonths, ""),
			today: model.Date(2025, 3, 31),
			start: model.Date(2025, 2, 28), end: model.Date(2025, 3, 31),
		},
		{
			name:  "months across year boundary",
			tf:    model.Relative(8, model.UnitMonths, ""),
			today: testToday,
			start: model.Date(2024, 10, 15), end: testToday,
		},
		{
			name:  "years",
			tf:    model.Relative(2, model.UnitYears, ""),
			today: testToday,
			start: model.Date(2023, 6, 15), end: testToday,
		},
		{
			name:  "leap day clamped",
			tf:    model.Relative(1, model.UnitYears, ""),
			today: model.Date(2024, 2, 29),
			start: model.Date(2023, 2, 28), end: model.Date(2024, 2, 29),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RelativeToAbsolute(tt.tf, tt.today)
			if got.Kind != model.TimeFrameAbsolute {
				t.Fatalf("kind = %s, want absolute", got.Kind)
			}
			if !got.StartDate.Equal(tt.start) || !got.EndDate.Equal(tt.end) {
				t.Errorf("got [%s, %s], want [%s, %s]",
					got.StartDate.Format(model.DateLayout), got.EndDate.Format(model.DateLayout),
					tt.start.Format(model.DateLayout), tt.end.Format(model.DateLayout))
			}
		})
	}
}

func TestRelativeToAbsoluteNonRelativeUnchanged(t *testing.T) {
	tf := model.Absolute(model.Date(2024, 1, 1), model.Date(2024, 12, 31), "2024")
	if got := RelativeToAbsolute(tf, testToday); got != tf {
		t.Errorf("absolute frame changed: %+v", got)
	}
	none := model.NoTimeFrame()
	if got := RelativeToAbsolute(none, testToday); got != none {
		t.Errorf("none frame changed: %+v", got)
	}
}
