package match

import (
	"reflect"
	"testing"
)

func entries() []AliasEntry {
	return []AliasEntry{
		{Alias: "אלפא", Canonical: "אלפא בע\"מ"},
		{Alias: "דוח רבעוני", Canonical: "דוח רבעוני"},
		{Alias: "דוחות רבעוניים", Canonical: "דוח רבעוני"},
		{Alias: "דוח", Canonical: "דוח תקופתי ושנתי"},
	}
}

func TestFindExact(t *testing.T) {
	res := Find("דוחות רבעוניים של אלפא", entries(), Options{})
	want := []string{"אלפא בע\"מ", "דוח רבעוני"}
	if !reflect.DeepEqual(res.Canonicals, want) {
		t.Errorf("Canonicals = %v, want %v", res.Canonicals, want)
	}
	if res.MatchedAliases["דוח רבעוני"] != "דוחות רבעוניים" {
		t.Errorf("MatchedAliases = %v", res.MatchedAliases)
	}
}

func TestFindPrefixParticle(t *testing.T) {
	res := Find("דוחות של באלפא", entries(), Options{})
	if len(res.Canonicals) == 0 || res.Canonicals[0] != "אלפא בע\"מ" {
		t.Errorf("prefix particle not matched: %v", res.Canonicals)
	}
}

func TestFindLongestWins(t *testing.T) {
	// "דוח רבעוני" must beat the shorter "דוח" over the same region.
	res := Find("דוח רבעוני", entries(), Options{})
	if !reflect.DeepEqual(res.Canonicals, []string{"דוח רבעוני"}) {
		t.Errorf("Canonicals = %v", res.Canonicals)
	}
	for _, c := range res.Canonicals {
		if c == "דוח תקופתי ושנתי" {
			t.Error("contained sub-match was selected")
		}
	}
}

func TestFindAllowOverlaps(t *testing.T) {
	es := []AliasEntry{
		{Alias: "דוח שנתי", Canonical: "דוח שנתי"},
		{Alias: "שנתי מאוחד", Canonical: "דוח מאוחד"},
	}
	strict := Find("דוח שנתי מאוחד", es, Options{})
	if len(strict.Canonicals) != 1 {
		t.Errorf("strict overlap: got %v", strict.Canonicals)
	}
	loose := Find("דוח שנתי מאוחד", es, Options{AllowOverlaps: true})
	if len(loose.Canonicals) != 2 {
		t.Errorf("overlaps allowed: got %v", loose.Canonicals)
	}
}

func TestFindNestedSpanWithOverlaps(t *testing.T) {
	es := []AliasEntry{
		{Alias: "דוח רבעוני מלא", Canonical: "דוח רבעוני מלא"},
		{Alias: "רבעוני", Canonical: "דוח רבעוני"},
	}
	// With overlaps allowed a canonical contained inside an already
	// selected span must still be reported.
	loose := Find("דוח רבעוני מלא", es, Options{AllowOverlaps: true})
	want := []string{"דוח רבעוני", "דוח רבעוני מלא"}
	if !reflect.DeepEqual(loose.Canonicals, want) {
		t.Errorf("Canonicals = %v, want %v", loose.Canonicals, want)
	}
	strict := Find("דוח רבעוני מלא", es, Options{})
	if !reflect.DeepEqual(strict.Canonicals, []string{"דוח רבעוני מלא"}) {
		t.Errorf("strict: Canonicals = %v", strict.Canonicals)
	}
}

func TestFindPrioritizeFullMatch(t *testing.T) {
	es := []AliasEntry{
		{Alias: "דוח רבעוני מלא", Canonical: "דוח רבעוני מלא"},
		{Alias: "רבעוני", Canonical: "דוח רבעוני"},
	}
	// A whole-text match narrows the candidate set even when overlaps
	// are allowed.
	res := Find("דוח רבעוני מלא", es, Options{AllowOverlaps: true, PrioritizeFullMatch: true})
	if !reflect.DeepEqual(res.Canonicals, []string{"דוח רבעוני מלא"}) {
		t.Errorf("Canonicals = %v", res.Canonicals)
	}
	// Without a whole-text candidate the option changes nothing.
	partial := Find("דוח רבעוני מלא מאוד", es, Options{AllowOverlaps: true, PrioritizeFullMatch: true})
	if len(partial.Canonicals) != 2 {
		t.Errorf("partial: Canonicals = %v", partial.Canonicals)
	}
}

func TestFindRanking(t *testing.T) {
	es := []AliasEntry{
		{Alias: "אלפא דוח", Canonical: "אלפא דוח"},
		{Alias: "דוח רבעוני", Canonical: "דוח רבעוני"},
	}
	// Default ranking keeps the earlier match, PreferLongest keeps the
	// longer one.
	early := Find("אלפא דוח רבעוני", es, Options{})
	if !reflect.DeepEqual(early.Canonicals, []string{"אלפא דוח"}) {
		t.Errorf("default ranking: Canonicals = %v", early.Canonicals)
	}
	long := Find("אלפא דוח רבעוני", es, Options{PreferLongest: true})
	if !reflect.DeepEqual(long.Canonicals, []string{"דוח רבעוני"}) {
		t.Errorf("PreferLongest: Canonicals = %v", long.Canonicals)
	}
}

func TestFindNoMatchNote(t *testing.T) {
	res := Find("שאילתה אחרת לגמרי", []AliasEntry{{Alias: "ביתא", Canonical: "ביתא"}}, Options{})
	if len(res.Canonicals) != 0 {
		t.Fatalf("unexpected matches: %v", res.Canonicals)
	}
	if len(res.Notes) != 1 || res.Notes[0] != "No alias matches found." {
		t.Errorf("Notes = %v", res.Notes)
	}
}

func TestFindSpansNonOverlapping(t *testing.T) {
	res := Find("דוחות רבעוניים אלפא דוח רבעוני", entries(), Options{})
	for i := range res.Spans {
		for j := i + 1; j < len(res.Spans); j++ {
			if res.Spans[i].Overlaps(res.Spans[j]) {
				t.Errorf("spans %v and %v overlap", res.Spans[i], res.Spans[j])
			}
		}
	}
}

func TestSpanOps(t *testing.T) {
	a := Span{Start: 0, End: 10}
	b := Span{Start: 5, End: 8}
	c := Span{Start: 10, End: 12}
	if !a.Overlaps(b) || !a.Contains(b) {
		t.Error("containment not detected")
	}
	if a.Overlaps(c) {
		t.Error("adjacent spans must not overlap")
	}
}
