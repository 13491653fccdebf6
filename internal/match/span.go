// Package match finds catalog aliases inside normalized query text,
// reporting byte spans so downstream stages can compute coverage and block
// already-consumed regions.
package match

// Span is a half-open byte range [Start, End) into the matched text.
type Span struct {
	Start int
	End   int
}

// Len returns the byte length of the span.
func (s Span) Len() int { return s.End - s.Start }

// Overlaps reports whether the two spans share at least one byte.
func (s Span) Overlaps(o Span) bool {
	return s.Start < o.End && o.Start < s.End
}

// Contains reports whether o lies entirely within s.
func (s Span) Contains(o Span) bool {
	return s.Start <= o.Start && o.End <= s.End
}

// AliasEntry pairs a surface alias with its canonical catalog name.
type AliasEntry struct {
	Alias     string
	Canonical string
}

// Options tunes alias matching.
type Options struct {
	// KeepTopK caps the number of distinct canonicals returned. Zero means
	// no cap.
	KeepTopK int
	// PreferLongest ranks candidates by span length before position.
	PreferLongest bool
	// AllowOverlaps keeps matches whose spans overlap earlier selections.
	AllowOverlaps bool
	// PrioritizeFullMatch restricts the candidate set to matches covering
	// the whole text whenever at least one exists.
	PrioritizeFullMatch bool
}

// Result is the outcome of a matching pass.
type Result struct {
	// Canonicals holds the distinct matched canonical names, sorted.
	Canonicals []string
	// MatchedAliases maps each canonical to the surface form that matched:
	// the catalog alias for exact matches, the text fragment for fuzzy ones.
	MatchedAliases map[string]string
	// Spans holds the byte spans of the selected matches.
	Spans []Span
	// Notes carries diagnostics about the pass.
	Notes []string
}
