package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(getCmd)
}

var getCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get the indexed entries with an identifier",
	Long: `Get the indexed entries with an identifier.

Identifiers may collide, so every entry sharing the key is returned in output
order. Use this to compare the candidates listed by "bibclean dups".

Example:
  bibclean get smith99`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

func runGet(cmd *cobra.Command, args []string) error {
	db, _ := mustOpenDatabase()
	defer db.Close()

	key := args[0]
	entries, err := db.GetByKey(key)
	if err != nil {
		exitWithError(ExitDataError, "getting entry: %v", err)
	}
	if len(entries) == 0 {
		exitWithError(ExitError, "entry not found: %s", key)
	}

	if humanOutput {
		for _, e := range entries {
			printEntryDetail(os.Stdout, e)
		}
		if len(entries) > 1 {
			fmt.Printf("%d entries share the identifier %s\n", len(entries), entries[0].Key())
		}
		return nil
	}

	return outputJSON(entries)
}
