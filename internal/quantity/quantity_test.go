package quantity

import (
	"testing"

	"github.com/sharonv/disclosq/internal/match"
)

func TestExtractAdjacentToReport(t *testing.T) {
	adj := ReportAdjacencyPattern([]string{"דוח רבעוני", "דוחות רבעוניים"})
	q, notes, span := Extract("5 דוחות רבעוניים אלפא 7 ימים האחרונים", adj, nil)
	if q == nil || *q != 5 {
		t.Fatalf("quantity = %v, want 5", q)
	}
	if span == nil {
		t.Fatal("span is nil")
	}
	found := false
	for _, n := range notes {
		if n == "qty:adjacent_to_report" {
			found = true
		}
	}
	if !found {
		t.Errorf("notes = %v", notes)
	}
}

func TestExtractYearNotQuantity(t *testing.T) {
	adj := ReportAdjacencyPattern([]string{"דוחות"})
	q, notes, _ := Extract("2024 דוחות", adj, nil)
	if q != nil {
		t.Fatalf("quantity = %d, want none", *q)
	}
	found := false
	for _, n := range notes {
		if n == "qty:skip_year_like" {
			found = true
		}
	}
	if !found {
		t.Errorf("notes = %v", notes)
	}
}

func TestExtractSkipsTimeNumbers(t *testing.T) {
	q, _, _ := Extract("הצג 3 מסמכים 7 ימים האחרונים", nil, nil)
	if q == nil || *q != 3 {
		t.Fatalf("quantity = %v, want 3", q)
	}
}

func TestExtractSkipsDateNumbers(t *testing.T) {
	q, notes, _ := Extract("דוחות 15/3/2024", nil, nil)
	if q != nil {
		t.Fatalf("quantity = %d, want none", *q)
	}
	if len(notes) == 0 || notes[len(notes)-1] != NoQuantityNote {
		t.Errorf("notes = %v", notes)
	}
}

func TestExtractCompoundNumeral(t *testing.T) {
	q, _, span := Extract("עשרים וחמש הודעות", nil, nil)
	if q == nil || *q != 25 {
		t.Fatalf("quantity = %v, want 25", q)
	}
	if span == nil {
		t.Fatal("span is nil")
	}
}

func TestExtractSingleNumeralWord(t *testing.T) {
	q, _, _ := Extract("חמישה דוחות אחרונים", nil, nil)
	if q == nil || *q != 5 {
		t.Fatalf("quantity = %v, want 5", q)
	}
}

func TestExtractDualWordsAreNotQuantities(t *testing.T) {
	q, _, _ := Extract("דוחות משבועיים", nil, nil)
	if q != nil {
		t.Fatalf("quantity = %d, want none", *q)
	}
}

func TestExtractExtraBlockedSpans(t *testing.T) {
	q, _, _ := Extract("3 מסמכים", nil, []match.Span{{Start: 0, End: 1}})
	if q != nil {
		t.Fatalf("quantity = %d, want none (blocked)", *q)
	}
}
