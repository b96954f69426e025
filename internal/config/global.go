// Package config handles global bibclean configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"
)

// GlobalConfig represents configuration stored in ~/.config/bibclean/config.yml.
type GlobalConfig struct {
	ExcludeFields      []string `yaml:"exclude_fields,omitempty" json:"exclude_fields"`
	AlignExcludeFields []string `yaml:"align_exclude_fields,omitempty" json:"align_exclude_fields"`
	DBPath             string   `yaml:"db_path,omitempty" json:"db_path"`
}

const (
	// GlobalConfigDir is the directory name under XDG_CONFIG_HOME.
	GlobalConfigDir = "bibclean"
	// GlobalConfigFile is the config file name.
	GlobalConfigFile = "config.yml"
	// DBEnvVar overrides db_path when set.
	DBEnvVar = "BIBCLEAN_DB"
)

// DefaultAlignExcludeFields are dropped by align when the config names none.
var DefaultAlignExcludeFields = []string{"file"}

// globalConfigCache caches the loaded global config.
var globalConfigCache *GlobalConfig

// GlobalConfigPath returns the path to the global config file.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/bibclean/config.yml.
func GlobalConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, GlobalConfigDir, GlobalConfigFile)
}

// LoadGlobalConfig loads the global configuration file.
// Returns an empty config (not an error) if the file doesn't exist.
func LoadGlobalConfig() (*GlobalConfig, error) {
	if globalConfigCache != nil {
		return globalConfigCache, nil
	}

	path := GlobalConfigPath()
	if path == "" {
		return &GlobalConfig{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &GlobalConfig{}, nil
		}
		return nil, fmt.Errorf("reading global config: %w", err)
	}

	var cfg GlobalConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing global config: %w", err)
	}

	if cfg.DBPath != "" {
		cfg.DBPath = ExpandPath(cfg.DBPath)
	}

	globalConfigCache = &cfg
	return &cfg, nil
}

// ResetGlobalConfigCache clears the cached global config.
// Useful for testing.
func ResetGlobalConfigCache() {
	globalConfigCache = nil
}

// Effective returns the configuration after defaults and environment
// overrides are applied.
func (c *GlobalConfig) Effective() *GlobalConfig {
	eff := *c
	if len(eff.AlignExcludeFields) == 0 {
		eff.AlignExcludeFields = slices.Clone(DefaultAlignExcludeFields)
	}
	eff.DBPath = GetConfigValue(DBEnvVar, eff.DBPath)
	if eff.DBPath == "" {
		eff.DBPath = DefaultDBPath()
	} else {
		eff.DBPath = ExpandPath(eff.DBPath)
	}
	return &eff
}

// GetConfigValue returns the environment variable if set, else the
// configured value.
func GetConfigValue(envVar, configured string) string {
	if v := os.Getenv(envVar); v != "" {
		return v
	}
	return configured
}
