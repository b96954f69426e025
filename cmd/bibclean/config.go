package main

import (
	"fmt"
	"strings"

	"github.com/matsen/bibclean/internal/config"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Show the effective configuration.

Values come from ~/.config/bibclean/config.yml (or $XDG_CONFIG_HOME), with
BIBCLEAN_DB overriding db_path. Example config.yml:

  exclude_fields: [abstract]
  align_exclude_fields: [file, mendeley-tags]
  db_path: ~/.cache/bibclean/index.db`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

// ConfigResponse is the response for the config command.
type ConfigResponse struct {
	Path string `json:"path"`
	*config.GlobalConfig
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	path := config.GlobalConfigPath()

	if humanOutput {
		fmt.Printf("config file:          %s\n", path)
		fmt.Printf("exclude_fields:       [%s]\n", strings.Join(cfg.ExcludeFields, " "))
		fmt.Printf("align_exclude_fields: [%s]\n", strings.Join(cfg.AlignExcludeFields, " "))
		fmt.Printf("db_path:              %s\n", cfg.DBPath)
		return nil
	}

	return outputJSON(ConfigResponse{Path: path, GlobalConfig: cfg})
}
