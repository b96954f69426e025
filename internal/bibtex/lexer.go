package bibtex

import "strings"

// Classify trims a raw source line and determines its kind. Checks run in
// a fixed priority order: ignorable, section marker, "@" lines, then
// field start or continuation.
func Classify(num int, raw string) Line {
	text := strings.TrimSpace(raw)
	line := Line{Num: num, Text: text}

	switch {
	case text == "" || text == "}":
		line.Kind = LineIgnorable
	case text[0] == '%':
		line.Kind = LineSectionMarker
	case text[0] == '@':
		if strings.HasPrefix(strings.ToLower(text[1:]), "string") {
			line.Kind = LineStringMacro
			return line
		}
		line.Kind = LineEntryStart
		brace := strings.Index(text, "{")
		if brace == -1 {
			line.Type = strings.ToLower(text)
			return line
		}
		line.Type = strings.ToLower(strings.TrimSpace(text[:brace]))
		line.ID = strings.ToLower(strings.TrimSpace(text[brace+1:]))
	default:
		eq := indexAssign(text)
		if eq == -1 {
			line.Kind = LineFieldContinuation
			return line
		}
		line.Kind = LineFieldStart
		line.Name = strings.ToLower(strings.TrimSpace(text[:eq]))
		line.Value = strings.TrimSpace(text[eq+1:])
	}

	return line
}

// EndOfInput returns the synthetic line that follows the last source line.
func EndOfInput(num int) Line {
	return Line{Kind: LineEndOfInput, Num: num}
}

// indexAssign returns the index of the first "=" not escaped by a
// backslash, or -1.
func indexAssign(s string) int {
	for i := 0; i < len(s); i++ {
		if s[i] == '=' && (i == 0 || s[i-1] != '\\') {
			return i
		}
	}
	return -1
}
