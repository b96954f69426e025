// Package pipeline runs a bibliography through parsing, normalization,
// author canonicalization, optional identifier generation and collation.
package pipeline

import (
	"fmt"
	"io"
	"os"

	"github.com/matsen/bibclean/internal/author"
	"github.com/matsen/bibclean/internal/bibtex"
	"github.com/matsen/bibclean/internal/citekey"
	"github.com/matsen/bibclean/internal/collate"
	"github.com/matsen/bibclean/internal/reference"
)

// Options controls processing.
type Options struct {
	GenerateIDs bool     // Replace identifiers with citekey.Generate
	Exclude     []string // Fields omitted when writing
}

// Skipped describes an entry that was left out of the output.
type Skipped struct {
	Line   int    `json:"line"`
	Type   string `json:"type"`
	Reason string `json:"reason"`
}

// Report summarizes one run.
type Report struct {
	Entries          int                   `json:"entries"`
	Strings          int                   `json:"strings"`
	DuplicateIDs     []string              `json:"duplicate_ids"`
	AuthorDuplicates []collate.AuthorGroup `json:"author_duplicates"`
	Skipped          []Skipped             `json:"skipped"`
	Warnings         []bibtex.ParseWarning `json:"warnings"`
}

// Result holds the collated bibliography and its report.
type Result struct {
	Bibliography reference.Bibliography
	Report       Report
}

// Process reads a whole bibliography and returns it in output order.
func Process(r io.Reader, opts Options) (*Result, error) {
	parsed, err := bibtex.Parse(r)
	if err != nil {
		return nil, err
	}

	report := Report{
		Strings:  len(parsed.Strings),
		Skipped:  []Skipped{},
		Warnings: append([]bibtex.ParseWarning{}, parsed.Warnings...),
	}
	authors := collate.NewAuthorIndex()
	entries := make([]reference.Entry, 0, len(parsed.Entries))

	for _, raw := range parsed.Entries {
		entry, warnings := bibtex.Normalize(raw)
		report.Warnings = append(report.Warnings, warnings...)

		if v, ok := entry.Fields["author"]; ok {
			entry.Fields["author"] = author.Canonicalize(v)
		}
		if opts.GenerateIDs {
			entry = citekey.Apply(entry)
		}

		if entry.Key() == "" {
			report.Skipped = append(report.Skipped, Skipped{
				Line:   entry.Line,
				Type:   entry.Type,
				Reason: "missing identifier",
			})
			continue
		}

		authors.Add(entry)
		entries = append(entries, entry)
	}

	collate.Sort(entries)

	report.Entries = len(entries)
	report.DuplicateIDs = collate.DuplicateIDs(entries)
	report.AuthorDuplicates = authors.Duplicates()
	if report.AuthorDuplicates == nil {
		report.AuthorDuplicates = []collate.AuthorGroup{}
	}

	return &Result{
		Bibliography: reference.Bibliography{Strings: parsed.Strings, Entries: entries},
		Report:       report,
	}, nil
}

// ProcessFile runs Process over the file at path.
func ProcessFile(path string, opts Options) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening input: %w", err)
	}
	defer f.Close()

	result, err := Process(f, opts)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return result, nil
}

// Run processes input and writes the cleaned bibliography to output.
// Nothing is written unless the whole input was processed.
func Run(input, output string, opts Options) (*Report, error) {
	result, err := ProcessFile(input, opts)
	if err != nil {
		return nil, err
	}

	if err := WriteFile(output, result.Bibliography, bibtex.WriteOptions{Exclude: opts.Exclude}); err != nil {
		return nil, err
	}

	return &result.Report, nil
}
