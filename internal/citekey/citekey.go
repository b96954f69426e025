// Package citekey derives entry identifiers of the form last1(last2|etal)YY
// from an entry's author list and year.
package citekey

import (
	"strings"
	"unicode"

	"github.com/matsen/bibclean/internal/author"
	"github.com/matsen/bibclean/internal/reference"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// EtAl replaces the second name once an entry has EtAlThreshold or more authors.
const (
	EtAl          = "etal"
	EtAlThreshold = 3
)

var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Generate returns the identifier for an entry, including the trailing
// separator. ok is false when the entry has no author or year, or when
// the author field holds no names.
func Generate(e reference.Entry) (id string, ok bool) {
	authors, hasAuthor := e.Get("author")
	year, hasYear := e.Get("year")
	if !hasAuthor || !hasYear {
		return "", false
	}

	names := author.Parse(authors)
	if len(names) == 0 {
		return "", false
	}

	var b strings.Builder
	b.WriteString(Slug(names[0].Last))
	switch {
	case len(names) >= EtAlThreshold:
		b.WriteString(EtAl)
	case len(names) == 2:
		b.WriteString(Slug(names[1].Last))
	}
	b.WriteString(yearSuffix(year))
	b.WriteString(reference.Separator)

	return b.String(), true
}

// Apply returns e with its identifier replaced by the generated one. Entries
// that lack an author or year keep the identifier found in the source.
func Apply(e reference.Entry) reference.Entry {
	if id, ok := Generate(e); ok {
		e.ID = id
	}
	return e
}

// Slug reduces a last name to identifier form: LaTeX escapes and accents
// are reduced to their base letter, braces and whitespace are removed and
// the result is lowercased.
func Slug(last string) string {
	s := CleanLatex(last)
	if folded, _, err := transform.String(stripAccents, s); err == nil {
		s = folded
	}
	s = strings.Map(func(r rune) rune {
		if r == '{' || r == '}' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	return strings.ToLower(s)
}

// CleanLatex replaces accent escapes with the letter they decorate:
// `\'e` and `\'{e}` both become "e", `\v{c}` becomes "c". A dangling
// backslash at the end of the input is dropped.
func CleanLatex(s string) string {
	rs := []rune(s)
	var b strings.Builder

	for i := 0; i < len(rs); i++ {
		if rs[i] != '\\' {
			b.WriteRune(rs[i])
			continue
		}
		if i+2 >= len(rs) {
			break
		}
		if rs[i+2] != '{' {
			b.WriteRune(rs[i+2])
			i += 2
			continue
		}
		end := indexRune(rs, '}', i+3)
		if end == -1 {
			b.WriteString(string(rs[i+3:]))
			break
		}
		b.WriteString(string(rs[i+3 : end]))
		i = end
	}

	return b.String()
}

func indexRune(rs []rune, r rune, from int) int {
	for i := from; i < len(rs); i++ {
		if rs[i] == r {
			return i
		}
	}
	return -1
}

// yearSuffix returns the last two characters of a year.
func yearSuffix(year string) string {
	rs := []rune(strings.TrimSpace(year))
	if len(rs) <= 2 {
		return string(rs)
	}
	return string(rs[len(rs)-2:])
}
