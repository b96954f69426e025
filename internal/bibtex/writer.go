package bibtex

import (
	"bufio"
	"io"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/matsen/bibclean/internal/reference"
	"github.com/samber/lo"
)

// WriteOptions controls serialization.
type WriteOptions struct {
	// Exclude lists field names that are never written.
	Exclude []string
}

// Write serializes a bibliography: string macros first, then the entries in
// the given order, with a %XXX marker whenever the leading identifier
// character changes.
func Write(w io.Writer, bib reference.Bibliography, opts WriteOptions) error {
	bw := bufio.NewWriter(w)

	for _, s := range bib.Strings {
		bw.WriteString(s)
		bw.WriteString("\n\n")
	}

	section := ""
	for _, e := range bib.Entries {
		if letter := SectionLetter(e.ID); letter != section {
			section = letter
			bw.WriteString("%" + strings.Repeat(letter, 3) + "\n\n")
		}
		writeEntry(bw, e, opts.Exclude)
	}

	return bw.Flush()
}

// WriteString is a convenience function that serializes to a string.
func WriteString(bib reference.Bibliography, opts WriteOptions) string {
	var sb strings.Builder
	_ = Write(&sb, bib, opts)
	return sb.String()
}

func writeEntry(bw *bufio.Writer, e reference.Entry, exclude []string) {
	bw.WriteString(e.Type + "{" + e.Key() + ",\n")

	names := lo.Without(lo.Keys(e.Fields), exclude...)
	slices.Sort(names)

	for i, name := range names {
		bw.WriteString("  " + name + " = {" + e.Fields[name] + "}")
		if i < len(names)-1 {
			bw.WriteString(",")
		}
		bw.WriteString("\n")
	}
	bw.WriteString("}\n\n")
}

// SectionLetter returns the uppercased first character of an identifier.
func SectionLetter(id string) string {
	r, size := utf8.DecodeRuneInString(id)
	if size == 0 {
		return ""
	}
	return string(unicode.ToUpper(r))
}
