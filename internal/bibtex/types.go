// Package bibtex reads, normalizes and writes line-oriented BibTeX files.
package bibtex

import (
	"fmt"

	"github.com/matsen/bibclean/internal/reference"
)

// LineKind classifies one trimmed input line.
type LineKind int

const (
	LineIgnorable         LineKind = iota // Blank or a lone "}"
	LineSectionMarker                     // "%" comment, usually a stale %XXX marker
	LineStringMacro                       // "@string..." passthrough declaration
	LineEntryStart                        // "@type{id,"
	LineFieldStart                        // "name = value"
	LineFieldContinuation                 // No "=": continues the previous field
	LineEndOfInput                        // Synthetic, produced once after the last line
)

var lineKindNames = map[LineKind]string{
	LineIgnorable:         "ignorable",
	LineSectionMarker:     "section_marker",
	LineStringMacro:       "string_macro",
	LineEntryStart:        "entry_start",
	LineFieldStart:        "field_start",
	LineFieldContinuation: "field_continuation",
	LineEndOfInput:        "end_of_input",
}

func (k LineKind) String() string {
	if name, ok := lineKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("LineKind(%d)", int(k))
}

// Line is a classified input line. Only the fields relevant to Kind are set.
type Line struct {
	Kind LineKind
	Num  int    // 1-indexed source line
	Text string // Trimmed line text

	// LineEntryStart
	Type string
	ID   string

	// LineFieldStart
	Name  string
	Value string
}

// ParseWarning describes a recoverable anomaly found while parsing.
type ParseWarning struct {
	Line    int    `json:"line"`              // Line number where it occurred (1-indexed)
	Message string `json:"message"`           // Description of the anomaly
	Context string `json:"context,omitempty"` // Offending content, truncated
}

func (w ParseWarning) Error() string {
	return fmt.Sprintf("line %d: %s", w.Line, w.Message)
}

// ParseResult is the output of Parse.
type ParseResult struct {
	Strings  []string             // Passthrough @string lines in source order
	Entries  []reference.RawEntry // Raw entries in source order
	Warnings []ParseWarning
}

// truncate truncates a string to maxLen bytes, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
