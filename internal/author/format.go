package author

import (
	"strings"

	"github.com/matsen/bibclean/internal/reference"
)

// Format renders names in canonical "{Last}, First" form joined by " and ".
// A name without a first name renders as "{Last}".
func Format(names []reference.Author) string {
	parts := make([]string, len(names))
	for i, a := range names {
		last := closeDiacritic(a.Last)
		first := closeDiacritic(a.First)
		if first == "" {
			parts[i] = "{" + last + "}"
		} else {
			parts[i] = "{" + last + "}, " + first
		}
	}
	return strings.Join(parts, Separator)
}

// Canonicalize parses and re-renders an author list. Input with no
// recognizable names is returned unchanged.
func Canonicalize(raw string) string {
	names := Parse(raw)
	if len(names) == 0 {
		return raw
	}
	return Format(names)
}

// closeDiacritic re-closes a trailing escape such as `\v{c` whose closing
// brace was lost when protecting braces were trimmed. Heuristic: names of
// three characters or fewer are never touched.
func closeDiacritic(s string) string {
	if len(s) > 3 && s[len(s)-2] == '{' && strings.Count(s, "{") > strings.Count(s, "}") {
		return s + "}"
	}
	return s
}
