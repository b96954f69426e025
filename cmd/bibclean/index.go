package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/matsen/bibclean/internal/pipeline"
	"github.com/matsen/bibclean/internal/storage"
	"github.com/spf13/cobra"
)

var dbPathFlag string

func init() {
	indexCmd.Flags().StringVar(&dbPathFlag, "db", "", "Index database path (overrides db_path and BIBCLEAN_DB)")
	searchCmd.Flags().StringVar(&dbPathFlag, "db", "", "Index database path (overrides db_path and BIBCLEAN_DB)")
	getCmd.Flags().StringVar(&dbPathFlag, "db", "", "Index database path (overrides db_path and BIBCLEAN_DB)")
	rootCmd.AddCommand(indexCmd)
}

var indexCmd = &cobra.Command{
	Use:   "index <input.bib|input.jsonl>",
	Short: "Rebuild the search index",
	Long: `Rebuild the SQLite search index from a bibliography.

A .jsonl input is read as a "bibclean export" file; anything else is parsed
and normalized as BibTeX. The previous index contents are replaced.`,
	Args: cobra.ExactArgs(1),
	RunE: runIndex,
}

// IndexResult is the response for the index command.
type IndexResult struct {
	Status  string `json:"status"`
	DBPath  string `json:"db_path"`
	Entries int    `json:"entries"`
}

// resolveDBPath returns the --db flag if given, else the configured path.
func resolveDBPath() string {
	if dbPathFlag != "" {
		return dbPathFlag
	}
	return mustLoadConfig().DBPath
}

func mustOpenDatabase() (*storage.DB, string) {
	path := resolveDBPath()
	db, err := storage.OpenDB(path)
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}
	return db, path
}

// rebuildIndex replaces the index contents with the entries of input and
// returns the number of indexed entries.
func rebuildIndex(db *storage.DB, input string) (int, error) {
	if strings.EqualFold(filepath.Ext(input), ".jsonl") {
		if _, err := db.RebuildFromJSONL(input); err != nil {
			return 0, err
		}
	} else {
		result, err := pipeline.ProcessFile(input, pipeline.Options{})
		if err != nil {
			return 0, err
		}
		if _, err := db.Rebuild(result.Bibliography.Entries); err != nil {
			return 0, err
		}
	}
	return db.Count()
}

func runIndex(cmd *cobra.Command, args []string) error {
	db, path := mustOpenDatabase()
	defer db.Close()

	count, err := rebuildIndex(db, args[0])
	if err != nil {
		exitWithError(ExitDataError, "rebuilding index: %v", err)
	}

	if humanOutput {
		fmt.Printf("Indexed %d entries in %s\n", count, path)
		return nil
	}

	return outputJSON(IndexResult{
		Status:  "indexed",
		DBPath:  path,
		Entries: count,
	})
}
