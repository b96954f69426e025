package config

import (
	"os"
	"path/filepath"
)

const (
	// CacheDir is the directory name under the user cache directory.
	CacheDir = "bibclean"
	// DBFile is the default index file name.
	DBFile = "index.db"
)

// DefaultDBPath returns the index location used when none is configured.
// Falls back to the working directory if no cache directory is available.
func DefaultDBPath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return DBFile
	}
	return filepath.Join(dir, CacheDir, DBFile)
}

// ExpandPath expands ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path // Return original if we can't get home directory
	}

	return filepath.Join(home, path[1:])
}
