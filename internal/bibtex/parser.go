package bibtex

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/matsen/bibclean/internal/reference"
)

// MaxLineCapacity is the maximum accepted length of one source line.
const MaxLineCapacity = 1024 * 1024

const contextLen = 60

// builder accumulates entries while lines are dispatched to it.
type builder struct {
	result  *ParseResult
	current *reference.RawEntry
	seq     int
}

// Parse reads a bibliography and returns its raw entries and string macros.
// Structural anomalies are recorded as warnings; only read errors fail.
func Parse(r io.Reader) (*ParseResult, error) {
	scanner := bufio.NewScanner(r)
	buf := make([]byte, 64*1024)
	scanner.Buffer(buf, MaxLineCapacity)

	b := &builder{result: &ParseResult{}}
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		text := scanner.Text()
		if lineNum == 1 {
			text = strings.TrimPrefix(text, "\ufeff")
		}
		b.dispatch(Classify(lineNum, text))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading line %d: %w", lineNum+1, err)
	}

	b.dispatch(EndOfInput(lineNum + 1))
	return b.result, nil
}

// ParseString is a convenience function that parses from a string.
func ParseString(content string) (*ParseResult, error) {
	return Parse(strings.NewReader(content))
}

func (b *builder) dispatch(line Line) {
	switch line.Kind {
	case LineIgnorable, LineSectionMarker:
		// Section markers are regenerated on output.

	case LineEndOfInput:
		b.flush()

	case LineStringMacro:
		b.flush()
		b.result.Strings = append(b.result.Strings, line.Text)

	case LineEntryStart:
		b.flush()
		b.current = &reference.RawEntry{
			Type: line.Type,
			ID:   line.ID,
			Line: line.Num,
		}

	case LineFieldStart:
		if b.current == nil {
			b.warn(line, "field outside of an entry")
			return
		}
		b.current.Fields = append(b.current.Fields, reference.Field{
			Name:  line.Name,
			Value: line.Value,
		})

	case LineFieldContinuation:
		if b.current == nil || len(b.current.Fields) == 0 {
			b.warn(line, "continuation line with no field to continue")
			return
		}
		last := &b.current.Fields[len(b.current.Fields)-1]
		last.Value += " " + line.Text
	}
}

// flush moves the entry under construction into the result.
func (b *builder) flush() {
	if b.current == nil {
		return
	}
	b.current.Seq = b.seq
	b.result.Entries = append(b.result.Entries, *b.current)
	b.seq++
	b.current = nil
}

func (b *builder) warn(line Line, msg string) {
	b.result.Warnings = append(b.result.Warnings, ParseWarning{
		Line:    line.Num,
		Message: msg,
		Context: truncate(line.Text, contextLen),
	})
}
