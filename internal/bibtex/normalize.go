package bibtex

import (
	"fmt"
	"strings"

	"github.com/matsen/bibclean/internal/reference"
)

// NormalizeValue removes source residue from a raw field value: at most one
// trailing separator, one unmatched closing brace and one enclosing
// quote or brace pair.
func NormalizeValue(v string) string {
	if strings.HasSuffix(v, reference.Separator) {
		v = strings.TrimSpace(strings.TrimSuffix(v, reference.Separator))
	}
	v = repairBraces(v)
	return unwrap(v)
}

// repairBraces drops a final "}" that has no opening partner, typically the
// entry's closing brace written on the same line as its last field.
func repairBraces(v string) string {
	if strings.HasSuffix(v, "}") && strings.Count(v, "{") < strings.Count(v, "}") {
		return strings.TrimSpace(v[:len(v)-1])
	}
	return v
}

// unwrap strips one enclosing "..." or {...} pair. A brace pair only counts
// when the opening brace is closed by the final character, so values like
// "{A} and {B}" are left alone.
func unwrap(v string) string {
	if len(v) < 2 {
		return v
	}
	switch v[0] {
	case '"':
		if v[len(v)-1] == '"' {
			return v[1 : len(v)-1]
		}
	case '{':
		if closingBrace(v) == len(v)-1 {
			return v[1 : len(v)-1]
		}
	}
	return v
}

// closingBrace returns the index of the brace that closes s[0], or -1.
func closingBrace(s string) int {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// StripBraces removes enclosing brace pairs from s, repeatedly.
func StripBraces(s string) string {
	for len(s) >= 2 && s[0] == '{' && closingBrace(s) == len(s)-1 {
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	return s
}

// Normalize converts a raw entry into a normalized one. When a field name
// repeats, the first value wins and a warning is returned for each
// discarded value.
func Normalize(raw reference.RawEntry) (reference.Entry, []ParseWarning) {
	entry := reference.Entry{
		Type:   raw.Type,
		ID:     raw.ID,
		Fields: make(map[string]string, len(raw.Fields)),
		Seq:    raw.Seq,
		Line:   raw.Line,
	}

	var warnings []ParseWarning
	for _, f := range raw.Fields {
		if _, exists := entry.Fields[f.Name]; exists {
			warnings = append(warnings, ParseWarning{
				Line:    raw.Line,
				Message: fmt.Sprintf("duplicate field %q in %s, keeping first value", f.Name, entry.Key()),
				Context: truncate(f.Value, contextLen),
			})
			continue
		}
		entry.Fields[f.Name] = NormalizeValue(f.Value)
	}

	return entry, warnings
}
