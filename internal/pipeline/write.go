package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/matsen/bibclean/internal/bibtex"
	"github.com/matsen/bibclean/internal/reference"
)

// WriteFile writes bib to path through a temporary file in the same
// directory, so a failed write never leaves a partial output behind.
func WriteFile(path string, bib reference.Bibliography, opts bibtex.WriteOptions) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = bibtex.Write(tmp, bib, opts); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	if err = tmp.Chmod(0644); err != nil {
		return fmt.Errorf("setting output permissions: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("closing output: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}

	return nil
}
