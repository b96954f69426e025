// Package main provides the bibclean CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "bibclean",
	Short: "Normalize and alphabetize BibTeX bibliographies",
	Long: `bibclean rewrites a BibTeX file into a canonical form: fields sorted and
brace-wrapped, author lists in "{Last}, First and {Last}, First" form, entries
sorted by identifier and grouped into %XXX sections.

All commands output JSON by default. Use --human for readable output.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Load .env file if present (for BIBCLEAN_DB)
	_ = godotenv.Load()

	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.Version = Version
}
