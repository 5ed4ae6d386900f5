// Package regions holds the Regional Feature Table: a static, curated mapping
// from named regions to canonical soil/flood feature vectors, each with a
// bounding box and a prioritized list of place-name tokens.
//
// The table is loaded once at startup and is read-only afterwards, so
// concurrent lookups need no synchronization. Precedence is auditable by
// construction: every match rule is evaluated in declaration order, and the
// first hit wins.
package regions

import (
	"strings"

	"soilsafe/internal/types"
)

// Entry is one region in the table. Tokens are matched case-insensitively as
// substrings of a caller-supplied region hint, in declaration order. The
// bounding box locates bare coordinates that carry no usable hint.
type Entry struct {
	Name     string              `json:"name"`
	MinLat   float64             `json:"min_lat"`
	MaxLat   float64             `json:"max_lat"`
	MinLon   float64             `json:"min_lon"`
	MaxLon   float64             `json:"max_lon"`
	Tokens   []string            `json:"tokens"`
	Features types.FeatureVector `json:"features"`
}

// Contains reports whether the coordinate falls inside the entry's box.
func (e Entry) Contains(lat, lon float64) bool {
	return lat >= e.MinLat && lat <= e.MaxLat && lon >= e.MinLon && lon <= e.MaxLon
}

// Table is the loaded regional feature table. Entries keep their declaration
// order; byName is a convenience index for exact lookups.
type Table struct {
	entries       []Entry
	byName        map[string]*Entry
	defaultRegion string
	version       string
}

// Version returns the table's data version string.
func (t *Table) Version() string {
	return t.version
}

// Len returns the number of regions in the table.
func (t *Table) Len() int {
	return len(t.entries)
}

// Lookup returns the entry whose canonical name equals the given name
// (case-insensitive).
func (t *Table) Lookup(name string) (Entry, bool) {
	e, ok := t.byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

// MatchToken scans the prioritized token rules against a place-name hint and
// returns the first region whose token occurs in the hint. Entries are
// evaluated in declaration order, tokens within an entry likewise, so
// precedence is fixed by the table data rather than by incidental string
// checks.
func (t *Table) MatchToken(hint string) (Entry, bool) {
	hint = strings.ToLower(strings.TrimSpace(hint))
	if hint == "" {
		return Entry{}, false
	}
	for i := range t.entries {
		for _, token := range t.entries[i].Tokens {
			if strings.Contains(hint, token) {
				return t.entries[i], true
			}
		}
	}
	return Entry{}, false
}

// Locate returns the first entry whose bounding box contains the coordinate,
// in declaration order. The caller is responsible for gating the coordinate
// against the supported operating area first.
func (t *Table) Locate(lat, lon float64) (Entry, bool) {
	for i := range t.entries {
		if t.entries[i].Contains(lat, lon) {
			return t.entries[i], true
		}
	}
	return Entry{}, false
}

// Default returns the designated fallback region. Substituting it is a
// low-confidence inference; callers must flag it as such in provenance.
func (t *Table) Default() Entry {
	e, _ := t.Lookup(t.defaultRegion)
	return e
}
