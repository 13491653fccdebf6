package catalog

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/sharonv/disclosq/internal/cache"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFileJSON(t *testing.T) {
	path := writeFile(t, "companies.json", `{"אלפא": ["אלפא אחזקות"]}`)
	c, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	aliases := c["אלפא"]
	if len(aliases) != 2 {
		t.Fatalf("aliases = %v", aliases)
	}
}

func TestLoadFileYAML(t *testing.T) {
	path := writeFile(t, "reports.yaml", "דוח רבעוני:\n  - דוחות רבעוניים\n")
	c, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(c["דוח רבעוני"]) != 2 {
		t.Fatalf("catalog = %v", c)
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile("/nonexistent/catalog.json"); err == nil {
		t.Fatal("expected error")
	}
}

func TestExpandCompaniesLegalSuffix(t *testing.T) {
	c := ExpandCompanies(Catalog{`אלפא בע"מ`: nil})
	aliases := c[`אלפא בע"מ`]
	found := false
	for _, a := range aliases {
		if a == "אלפא" {
			found = true
		}
	}
	if !found {
		t.Errorf("legal suffix not stripped: %v", aliases)
	}
}

func TestExpandCompaniesQuoteVariant(t *testing.T) {
	c := ExpandCompanies(Catalog{`אי"בי`: nil})
	found := false
	for _, a := range c[`אי"בי`] {
		if a == "איבי" {
			found = true
		}
	}
	if !found {
		t.Errorf("quote variant missing: %v", c[`אי"בי`])
	}
}

func TestExpandReportsPluralFlip(t *testing.T) {
	c := ExpandReports(Catalog{"דוח רבעוני": nil})
	want := map[string]bool{"דוח רבעוני": false, "דוחות רבעוניים": false}
	for _, a := range c["דוח רבעוני"] {
		if _, ok := want[a]; ok {
			want[a] = true
		}
	}
	for alias, seen := range want {
		if !seen {
			t.Errorf("missing variant %q in %v", alias, c["דוח רבעוני"])
		}
	}
}

func TestExpandReportsSingularFlip(t *testing.T) {
	c := ExpandReports(Catalog{"דוחות כספיים": nil})
	found := false
	for _, a := range c["דוחות כספיים"] {
		if a == "דוח כספי" {
			found = true
		}
	}
	if !found {
		t.Errorf("singular flip missing: %v", c["דוחות כספיים"])
	}
}

func TestExpandReportsCuratedExtras(t *testing.T) {
	// A user-supplied catalog that names a known canonical gains its
	// curated synonyms during expansion.
	c := ExpandReports(Catalog{"חלוקת רווחים": nil, "אסיפה כללית": {"אסיפה שנתית"}})
	want := map[string][]string{
		"חלוקת רווחים": {"דיבידנד", "חלוקת דיבידנד"},
		"אסיפה כללית":  {"זימון אסיפה", "אסיפה שנתית"},
	}
	for canon, extras := range want {
		have := map[string]bool{}
		for _, a := range c[canon] {
			have[a] = true
		}
		for _, e := range extras {
			if !have[e] {
				t.Errorf("%s: missing %q in %v", canon, e, c[canon])
			}
		}
	}
}

func TestFlattenLongestFirst(t *testing.T) {
	entries := Flatten(Catalog{
		"דוח רבעוני": {"דוח", "דוחות רבעוניים"},
	})
	if len(entries) != 2 {
		t.Fatalf("entries = %v", entries)
	}
	if len(entries[0].Alias) < len(entries[1].Alias) {
		t.Errorf("not sorted longest first: %v", entries)
	}
}

func TestMerge(t *testing.T) {
	a := Catalog{"אלפא": {"אלפא"}}
	b := Catalog{"אלפא": {"אלפא אחזקות"}, "ביתא": {"ביתא"}}
	m := a.Merge(b)
	if len(m["אלפא"]) != 2 || len(m["ביתא"]) != 1 {
		t.Errorf("merged = %v", m)
	}
	if !reflect.DeepEqual(m.Canonicals(), []string{"אלפא", "ביתא"}) {
		t.Errorf("canonicals = %v", m.Canonicals())
	}
}

func TestLoadGroupsList(t *testing.T) {
	path := writeFile(t, "groups.json",
		`[{"title": "הנפקת ניירות ערך", "events": ["הנפקה לציבור", "הנפקה פרטית"]}]`)
	idx, err := LoadGroups(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(idx["הנפקת ניירות ערך"]) != 2 {
		t.Fatalf("index = %v", idx)
	}
}

func TestLoadUmbrellaIndexDefaults(t *testing.T) {
	idx, err := LoadUmbrellaIndex("", nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(idx) == 0 {
		t.Fatal("default index is empty")
	}
}

func TestLoadUmbrellaIndexCached(t *testing.T) {
	path := writeFile(t, "groups.json", `[{"title": "ת", "events": ["א"]}]`)
	c := cache.NewMemoryCache(time.Minute, time.Minute)
	idx1, err := LoadUmbrellaIndex(path, c)
	if err != nil {
		t.Fatal(err)
	}
	// Remove the file; the cached copy must still serve.
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	idx2, err := LoadUmbrellaIndex(path, c)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(idx1, idx2) {
		t.Errorf("cached index differs: %v vs %v", idx1, idx2)
	}
}
