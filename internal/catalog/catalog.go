// Package catalog loads and expands the alias catalogs that map surface
// names in queries to canonical company and report-type identifiers.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sharonv/disclosq/internal/hebtext"
	"github.com/sharonv/disclosq/internal/match"
)

// Catalog maps a canonical name to its known surface aliases.
type Catalog map[string][]string

// LoadFile reads a catalog from a JSON or YAML file keyed by canonical
// name. The canonical name itself is always folded into its alias list.
func LoadFile(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	raw := map[string][]string{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", path, err)
		}
	}
	c := Catalog{}
	for canonical, aliases := range raw {
		c[canonical] = dedupSorted(append([]string{canonical}, aliases...))
	}
	return c, nil
}

// Merge overlays other onto c, concatenating alias lists for shared
// canonicals.
func (c Catalog) Merge(other Catalog) Catalog {
	out := Catalog{}
	for k, v := range c {
		out[k] = append([]string(nil), v...)
	}
	for k, v := range other {
		out[k] = dedupSorted(append(out[k], v...))
	}
	return out
}

// Canonicals returns the sorted canonical names.
func (c Catalog) Canonicals() []string {
	out := make([]string, 0, len(c))
	for k := range c {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Flatten renders the catalog as matcher entries with normalized aliases,
// longest alias first so multi-word names win ties.
func Flatten(c Catalog) []match.AliasEntry {
	var entries []match.AliasEntry
	for canonical, aliases := range c {
		for _, a := range aliases {
			norm := hebtext.Normalize(a)
			if norm == "" {
				continue
			}
			entries = append(entries, match.AliasEntry{Alias: norm, Canonical: canonical})
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		li, lj := len(entries[i].Alias), len(entries[j].Alias)
		if li != lj {
			return li > lj
		}
		if entries[i].Alias != entries[j].Alias {
			return entries[i].Alias < entries[j].Alias
		}
		return entries[i].Canonical < entries[j].Canonical
	})
	return entries
}

// dedupSorted removes duplicates and empty strings, ordering by length then
// lexicographically for stable output.
func dedupSorted(in []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if len(out[i]) != len(out[j]) {
			return len(out[i]) < len(out[j])
		}
		return out[i] < out[j]
	})
	return out
}
