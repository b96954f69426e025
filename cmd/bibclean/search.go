package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/matsen/bibclean/internal/author"
	"github.com/matsen/bibclean/internal/reference"
	"github.com/matsen/bibclean/internal/storage"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

var (
	searchLimit   int
	searchAuthors []string
)

func init() {
	searchCmd.Flags().IntVar(&searchLimit, "limit", DefaultSearchLimit, "Maximum results to return")
	searchCmd.Flags().StringArrayVar(&searchAuthors, "author", nil, "Keep only entries with this author (repeatable, AND)")
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the index by keyword",
	Long: `Search the index built by "bibclean index".

Query Syntax:
  Plain text     - Searches identifiers, titles, authors and years
  author:name    - Search author names only (prefix match)
  title:text     - Search title only
  (no query)     - List every indexed entry

--author filters on exact last names, with the first name as a prefix:
"Tim Yu" matches "{Yu}, Timothy C" but "Yu" does not match "{Yujia}, Li".

Examples:
  bibclean search "phylogenetics"
  bibclean search "author:Matsen"
  bibclean search "title:influenza" --author "Erick Matsen"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

// fieldQuery splits an "author:" or "title:" prefix off a query.
func fieldQuery(query string) (field, value string) {
	for _, f := range []string{"author", "title"} {
		if rest, ok := strings.CutPrefix(query, f+":"); ok {
			return f, rest
		}
	}
	return "", query
}

// filterByAuthors keeps entries whose author list matches every query.
func filterByAuthors(entries []reference.Entry, names []string) []reference.Entry {
	if len(names) == 0 {
		return entries
	}
	queries := lo.Map(names, func(n string, _ int) author.Query {
		return author.ParseQuery(n)
	})
	return lo.Filter(entries, func(e reference.Entry, _ int) bool {
		return author.AllMatch(queries, author.Parse(e.Fields["author"]))
	})
}

// findEntries dispatches a query to the index. A blank query lists every
// entry in output order.
func findEntries(db *storage.DB, query string, limit int) ([]reference.Entry, error) {
	field, value := fieldQuery(query)
	switch {
	case field != "":
		return db.SearchField(field, value, limit)
	case strings.TrimSpace(value) == "":
		return db.ListAll(limit)
	default:
		return db.Search(value, limit)
	}
}

func runSearch(cmd *cobra.Command, args []string) error {
	db, _ := mustOpenDatabase()
	defer db.Close()

	// Post-filtering needs the full candidate set before the limit applies
	limit := searchLimit
	if len(searchAuthors) > 0 {
		limit = -1
	}

	query := ""
	if len(args) > 0 {
		query = args[0]
	}

	entries, err := findEntries(db, query, limit)
	if err != nil {
		exitWithError(ExitDataError, "searching: %v", err)
	}

	entries = filterByAuthors(entries, searchAuthors)
	if searchLimit >= 0 && len(entries) > searchLimit {
		entries = entries[:searchLimit]
	}

	// Empty result is not an error
	if entries == nil {
		entries = []reference.Entry{}
	}

	if humanOutput {
		if len(entries) == 0 {
			fmt.Println("No entries found")
			return nil
		}
		fmt.Printf("Found %d entries:\n\n", len(entries))
		for i, e := range entries {
			printEntrySummary(os.Stdout, i+1, e)
		}
		return nil
	}

	return outputJSON(entries)
}
