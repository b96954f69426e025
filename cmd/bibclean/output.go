package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/matsen/bibclean/internal/author"
	"github.com/matsen/bibclean/internal/config"
	"github.com/matsen/bibclean/internal/pipeline"
	"github.com/matsen/bibclean/internal/reference"
	"github.com/samber/lo"
)

// Constants for output formatting.
const (
	DefaultSearchLimit = 50 // Default limit for search results
	SummaryTitleLen    = 70 // Title truncation in search summaries
)

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// outputError writes an error message to stderr and returns the exit code.
func outputError(code int, format string, args ...interface{}) int {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	return code
}

// exitWithError outputs an error in the appropriate format (human or JSON) and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		os.Exit(outputError(code, "%s", msg))
	}
	outputJSON(ErrorResponse{Error: msg})
	os.Exit(code)
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// mustLoadConfig returns the effective configuration or exits.
func mustLoadConfig() *config.GlobalConfig {
	cfg, err := config.LoadGlobalConfig()
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	return cfg.Effective()
}

// printWarnings writes parse warnings and skipped entries to w.
func printWarnings(w io.Writer, report *pipeline.Report) {
	for _, warn := range report.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warn.Error())
	}
	for _, s := range report.Skipped {
		fmt.Fprintf(w, "warning: line %d: skipped %s entry: %s\n", s.Line, s.Type, s.Reason)
	}
}

// formatDuplicateIDs renders the duplicate identifier report line.
func formatDuplicateIDs(ids []string) string {
	return fmt.Sprintf("Duplicate IDs: [%s]", strings.Join(ids, " "))
}

// printAuthorDuplicates writes one block per shared author list.
func printAuthorDuplicates(w io.Writer, report *pipeline.Report) {
	for _, g := range report.AuthorDuplicates {
		ids := make([]string, len(g.Entries))
		for i, m := range g.Entries {
			ids[i] = m.ID
		}
		fmt.Fprintf(w, "Shared authors %s: %s\n", g.Authors, strings.Join(ids, ", "))
	}
}

// truncateString truncates a string to maxLen, adding "..." if truncated.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// formatAuthorsShort formats authors with "et al." for more than maxCount.
func formatAuthorsShort(authors []reference.Author, maxCount int) string {
	var names []string
	for i, a := range authors {
		if i >= maxCount {
			names = append(names, "et al.")
			break
		}
		names = append(names, a.Last)
	}
	return strings.Join(names, ", ")
}

// printEntrySummary prints one search hit.
func printEntrySummary(w io.Writer, num int, e reference.Entry) {
	fmt.Fprintf(w, "[%d] %s (%s)\n", num, e.Key(), e.Type)
	if title, ok := e.Get("title"); ok {
		fmt.Fprintf(w, "    %s\n", truncateString(title, SummaryTitleLen))
	}
	if authors := author.Parse(e.Fields["author"]); len(authors) > 0 {
		fmt.Fprintf(w, "    %s\n", formatAuthorsShort(authors, 3))
	}
	if year, ok := e.Get("year"); ok {
		fmt.Fprintf(w, "    (%s)\n", year)
	}
	fmt.Fprintln(w)
}

// printEntryDetail prints an entry with all of its fields.
func printEntryDetail(w io.Writer, e reference.Entry) {
	fmt.Fprintf(w, "%s (%s, line %d)\n", e.Key(), e.Type, e.Line)
	names := lo.Keys(e.Fields)
	slices.Sort(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %-10s %s\n", name+":", e.Fields[name])
	}
	fmt.Fprintln(w)
}
