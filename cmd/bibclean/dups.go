package main

import (
	"fmt"
	"os"

	"github.com/matsen/bibclean/internal/pipeline"
	"github.com/spf13/cobra"
)

var dupsAlign bool

func init() {
	dupsCmd.Flags().BoolVar(&dupsAlign, "align", false, "Report against generated identifiers")
	rootCmd.AddCommand(dupsCmd)
}

var dupsCmd = &cobra.Command{
	Use:   "dups <input.bib>",
	Short: "Report duplicate identifiers and shared author lists",
	Long: `Report duplicate identifiers and shared author lists without writing output.

Every entry that shares an identical canonical author list with another entry
is listed, so candidate duplicates can be merged by hand.`,
	Args: cobra.ExactArgs(1),
	RunE: runDups,
}

func runDups(cmd *cobra.Command, args []string) error {
	result, err := pipeline.ProcessFile(args[0], pipeline.Options{GenerateIDs: dupsAlign})
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}
	report := &result.Report

	if humanOutput {
		printWarnings(os.Stderr, report)
		fmt.Println(formatDuplicateIDs(report.DuplicateIDs))
		printAuthorDuplicates(os.Stdout, report)
		return nil
	}

	return outputJSON(report)
}
