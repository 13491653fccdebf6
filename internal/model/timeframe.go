package model

import (
	"encoding/json"
	"time"
)

// TimeFrameKind discriminates the TimeFrame variants.
type TimeFrameKind string

const (
	TimeFrameNone     TimeFrameKind = "none"
	TimeFrameRelative TimeFrameKind = "relative"
	TimeFrameAbsolute TimeFrameKind = "absolute"
)

// RelativeUnit is the unit of a relative TimeFrame.
type RelativeUnit string

const (
	UnitDays   RelativeUnit = "days"
	UnitWeeks  RelativeUnit = "weeks"
	UnitMonths RelativeUnit = "months"
	UnitYears  RelativeUnit = "years"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// TimeFrame is the resolved time window of a query. Exactly one variant is
// active, selected by Kind; fields of the inactive variants are zero and
// ignored by consumers.
type TimeFrame struct {
	Kind TimeFrameKind

	// Relative variant
	RelativeValue int
	RelativeUnit  RelativeUnit

	// Absolute variant: inclusive range, StartDate <= EndDate.
	StartDate time.Time
	EndDate   time.Time

	// Raw is the matched text snippet, kept for auditing.
	Raw string
}

// NoTimeFrame returns the empty ("none") variant.
func NoTimeFrame() TimeFrame {
	return TimeFrame{Kind: TimeFrameNone}
}

// Relative builds a relative TimeFrame.
func Relative(value int, unit RelativeUnit, raw string) TimeFrame {
	return TimeFrame{Kind: TimeFrameRelative, RelativeValue: value, RelativeUnit: unit, Raw: raw}
}

// Absolute builds an absolute TimeFrame over the inclusive [start, end] range.
func Absolute(start, end time.Time, raw string) TimeFrame {
	return TimeFrame{Kind: TimeFrameAbsolute, StartDate: start, EndDate: end, Raw: raw}
}

// Date builds a day-precision UTC time, the canonical representation of
// calendar dates throughout the parser.
func Date(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

type timeFrameJSON struct {
	Kind          TimeFrameKind `json:"kind"`
	RelativeValue *int          `json:"relative_value,omitempty"`
	RelativeUnit  RelativeUnit  `json:"relative_unit,omitempty"`
	StartDate     string        `json:"start_date,omitempty"`
	EndDate       string        `json:"end_date,omitempty"`
	Raw           string        `json:"raw,omitempty"`
}

// MarshalJSON renders dates as YYYY-MM-DD and omits inactive-variant fields.
func (tf TimeFrame) MarshalJSON() ([]byte, error) {
	out := timeFrameJSON{Kind: tf.Kind, Raw: tf.Raw}
	switch tf.Kind {
	case TimeFrameRelative:
		v := tf.RelativeValue
		out.RelativeValue = &v
		out.RelativeUnit = tf.RelativeUnit
	case TimeFrameAbsolute:
		out.StartDate = tf.StartDate.Format(DateLayout)
		out.EndDate = tf.EndDate.Format(DateLayout)
	}
	return json.Marshal(out)
}

// UnmarshalJSON accepts the same shape MarshalJSON produces.
func (tf *TimeFrame) UnmarshalJSON(data []byte) error {
	var in timeFrameJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	tf.Kind = in.Kind
	if tf.Kind == "" {
		tf.Kind = TimeFrameNone
	}
	tf.Raw = in.Raw
	if in.RelativeValue != nil {
		tf.RelativeValue = *in.RelativeValue
	}
	tf.RelativeUnit = in.RelativeUnit
	if in.StartDate != "" {
		t, err := time.Parse(DateLayout, in.StartDate)
		if err != nil {
			return err
		}
		tf.StartDate = t
	}
	if in.EndDate != "" {
		t, err := time.Parse(DateLayout, in.EndDate)
		if err != nil {
			return err
		}
		tf.EndDate = t
	}
	return nil
}
