package author

import (
	"strings"

	"github.com/matsen/bibclean/internal/reference"
)

// Query represents a parsed author search query.
type Query struct {
	First string // First name (may be empty for last-name-only queries)
	Last  string // Last name (required)
}

// ParseQuery parses an author search string with the same rules as an
// author list entry:
//   - "Yu"           → last="Yu"
//   - "Timothy Yu"   → first="Timothy", last="Yu"
//   - "Yu, Timothy"  → first="Timothy", last="Yu"
//   - "Jan {van Dyke}" → first="Jan", last="van Dyke"
func ParseQuery(input string) Query {
	name, ok := parseName(input)
	if !ok {
		return Query{}
	}
	return Query{First: name.First, Last: name.Last}
}

// Matches checks if the query matches a given author.
//
// Last names match case-insensitively and exactly; first names match as a
// case-insensitive prefix, so "Tim Yu" matches "Timothy C Yu" while "Yu"
// does not match "Yujia".
func (q Query) Matches(a reference.Author) bool {
	if q.Last == "" || !strings.EqualFold(q.Last, a.Last) {
		return false
	}
	if q.First == "" {
		return true
	}
	return strings.HasPrefix(strings.ToLower(a.First), strings.ToLower(q.First))
}

// MatchesAny checks if the query matches any author in the list.
func (q Query) MatchesAny(authors []reference.Author) bool {
	for _, a := range authors {
		if q.Matches(a) {
			return true
		}
	}
	return false
}

// AllMatch reports whether every query matches at least one author.
// An empty query list matches everything.
func AllMatch(queries []Query, authors []reference.Author) bool {
	for _, q := range queries {
		if !q.MatchesAny(authors) {
			return false
		}
	}
	return true
}
