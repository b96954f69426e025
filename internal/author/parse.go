// Package author parses BibTeX author lists into names, renders the
// canonical "{Last}, First and {Last}, First" form, and matches names
// against search queries.
package author

import (
	"strings"

	"github.com/matsen/bibclean/internal/bibtex"
	"github.com/matsen/bibclean/internal/reference"
)

// Separator joins names in an author list.
const Separator = " and "

// Parse splits a raw author list into names.
//
// Supported name forms:
//   - "Smith, John"        → first="John", last="Smith"
//   - "John {van Dyke}"    → first="John", last="van Dyke"
//   - "John Q Smith"       → first="John Q", last="Smith"
//   - "{World Health Org}" → last="World Health Org"
//
// Names are separated by the word "and" outside braces, so
// "{Barnes and Noble}" is one name. Empty names (e.g. from "A and and B")
// are dropped.
func Parse(raw string) []reference.Author {
	raw = strings.ReplaceAll(raw, `$\backslash$`, `\`)

	var names []reference.Author
	for _, s := range splitNames(raw) {
		if name, ok := parseName(s); ok {
			names = append(names, name)
		}
	}
	return names
}

func parseName(s string) (reference.Author, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return reference.Author{}, false
	}

	// "Last, First"
	if comma := indexTopLevel(s, ','); comma != -1 {
		return reference.Author{
			First: bibtex.StripBraces(strings.TrimSpace(s[comma+1:])),
			Last:  bibtex.StripBraces(strings.TrimSpace(s[:comma])),
		}, true
	}

	// "{Corporate Name}"
	if stripped := bibtex.StripBraces(s); stripped != s {
		return reference.Author{Last: stripped}, true
	}

	// "First Middle {Last Name}"
	if brace := strings.Index(s, " {"); brace != -1 {
		return reference.Author{
			First: strings.TrimSpace(s[:brace]),
			Last:  bibtex.StripBraces(strings.TrimSpace(s[brace+1:])),
		}, true
	}

	// "First Middle Last"
	parts := strings.Fields(s)
	return reference.Author{
		First: strings.Join(parts[:len(parts)-1], " "),
		Last:  bibtex.StripBraces(parts[len(parts)-1]),
	}, true
}

// splitNames splits an author list at each whitespace-delimited "and" at
// brace depth zero. Runs of whitespace inside a name collapse to one space.
func splitNames(raw string) []string {
	var names, words []string
	depth := 0
	for _, w := range strings.Fields(raw) {
		if depth == 0 && w == "and" {
			names = append(names, strings.Join(words, " "))
			words = nil
			continue
		}
		words = append(words, w)
		depth = max(0, depth+strings.Count(w, "{")-strings.Count(w, "}"))
	}
	return append(names, strings.Join(words, " "))
}

// indexTopLevel returns the index of the first c outside any braces, or -1.
func indexTopLevel(s string, c byte) int {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			if depth > 0 {
				depth--
			}
		case c:
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
