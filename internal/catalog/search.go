package catalog

import (
	"cmp"
	"slices"
	"strings"
)

// Search finds entries matching the query.
// Matching is case-insensitive against Name, Package and Description.
// An empty query returns all entries.
// Results are sorted by match quality (exact name > prefix > contains >
// package > description-only), then by name.
func (c *Catalog) Search(query string) []Entry {
	query = strings.ToLower(strings.TrimSpace(query))

	type scored struct {
		entry Entry
		score int
	}

	var results []scored
	for _, e := range c.entries {
		score := scoreMatch(e, query)
		if query == "" || score > 0 {
			results = append(results, scored{entry: e, score: score})
		}
	}

	slices.SortStableFunc(results, func(a, b scored) int {
		// Descending order: higher score first
		if n := cmp.Compare(b.score, a.score); n != 0 {
			return n
		}
		return cmp.Compare(a.entry.Name, b.entry.Name)
	})

	entries := make([]Entry, len(results))
	for i, r := range results {
		entries[i] = r.entry
	}
	return entries
}

// scoreMatch returns a score indicating match quality.
// Higher scores indicate better matches.
//
// Scoring:
//   - 100: Exact name match
//   - 75: Name starts with query (prefix match)
//   - 50: Name contains query
//   - 40: Package contains query
//   - 25: Description contains query
//   - 0: No match or empty query
func scoreMatch(e Entry, query string) int {
	if query == "" {
		return 0
	}

	name := strings.ToLower(e.Name)

	switch {
	case name == query:
		return 100
	case strings.HasPrefix(name, query):
		return 75
	case strings.Contains(name, query):
		return 50
	case strings.Contains(strings.ToLower(e.Package), query):
		return 40
	case strings.Contains(strings.ToLower(e.Description), query):
		return 25
	}
	return 0
}
