// Package storage exports normalized entries as JSON Lines and maintains a
// SQLite full-text index over them.
package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/matsen/bibclean/internal/reference"
)

// MaxJSONLLineCapacity is the maximum buffer size for reading JSONL lines (1MB per line).
const MaxJSONLLineCapacity = 1024 * 1024

// ReadAll reads all entries from a JSONL file. A missing file is an error.
func ReadAll(path string) ([]reference.Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening entries file: %w", err)
	}
	defer f.Close()

	var entries []reference.Entry
	scanner := bufio.NewScanner(f)

	buf := make([]byte, 64*1024)
	scanner.Buffer(buf, MaxJSONLLineCapacity)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue // Skip empty lines
		}

		var e reference.Entry
		if err := json.Unmarshal(line, &e); err != nil {
			return nil, fmt.Errorf("parsing line %d: %w", lineNum, err)
		}
		entries = append(entries, e)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading entries file: %w", err)
	}

	return entries, nil
}

// WriteAll writes all entries to a JSONL file, replacing existing content.
func WriteAll(path string, entries []reference.Entry) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating entries file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing entries file: %w", cerr)
		}
	}()

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for i, e := range entries {
		if err := enc.Encode(e); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}

	return w.Flush()
}
