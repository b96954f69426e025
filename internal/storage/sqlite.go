package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/matsen/bibclean/internal/author"
	"github.com/matsen/bibclean/internal/reference"
	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection holding the query index.
type DB struct {
	db *sql.DB
}

// selectEntryFields contains the standard field list for SELECT queries.
const selectEntryFields = `seq, id, type, line, fields_json`

// OpenDB opens or creates a SQLite database at the given path. The parent
// directory is created if needed.
func OpenDB(path string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// createSchema creates the database schema if it doesn't exist.
func createSchema(db *sql.DB) error {
	schema := `
		-- Normalized entries; seq is the output position, ids may repeat
		CREATE TABLE IF NOT EXISTS entries (
			seq INTEGER PRIMARY KEY,
			id TEXT NOT NULL,
			citekey TEXT NOT NULL,
			type TEXT NOT NULL,
			line INTEGER NOT NULL,
			title TEXT,
			year TEXT,
			authors TEXT,
			fields_json TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_entries_key ON entries(citekey);

		-- Full-text search virtual table (standalone, not external content)
		CREATE VIRTUAL TABLE IF NOT EXISTS entries_fts USING fts5(
			seq UNINDEXED,
			citekey,
			title,
			authors_text,
			year
		);
	`

	_, err := db.Exec(schema)
	return err
}

// RebuildFromJSONL clears the database and rebuilds it from a JSONL export.
func (d *DB) RebuildFromJSONL(jsonlPath string) (int, error) {
	entries, err := ReadAll(jsonlPath)
	if err != nil {
		return 0, fmt.Errorf("reading JSONL: %w", err)
	}
	return d.Rebuild(entries)
}

// Rebuild clears the database and indexes entries in the given order.
func (d *DB) Rebuild(entries []reference.Entry) (int, error) {
	tx, err := d.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM entries"); err != nil {
		return 0, fmt.Errorf("clearing entries table: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM entries_fts"); err != nil {
		return 0, fmt.Errorf("clearing entries_fts table: %w", err)
	}

	entriesStmt, err := tx.Prepare(`
		INSERT INTO entries (seq, id, citekey, type, line, title, year, authors, fields_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing entries insert: %w", err)
	}
	defer entriesStmt.Close()

	ftsStmt, err := tx.Prepare(`
		INSERT INTO entries_fts (seq, citekey, title, authors_text, year)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing fts insert: %w", err)
	}
	defer ftsStmt.Close()

	for i, e := range entries {
		fieldsJSON, err := json.Marshal(e.Fields)
		if err != nil {
			return 0, fmt.Errorf("marshaling fields for %s: %w", e.Key(), err)
		}

		title := e.Fields["title"]
		year := e.Fields["year"]
		authors := e.Fields["author"]

		_, err = entriesStmt.Exec(
			i, e.ID, e.Key(), e.Type, e.Line,
			nullableStringValue(title), nullableStringValue(year), nullableStringValue(authors),
			string(fieldsJSON),
		)
		if err != nil {
			return 0, fmt.Errorf("inserting entry %s: %w", e.Key(), err)
		}

		_, err = ftsStmt.Exec(i, e.Key(), plainText(title), formatAuthorsText(author.Parse(authors)), year)
		if err != nil {
			return 0, fmt.Errorf("inserting fts for %s: %w", e.Key(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing index: %w", err)
	}
	return len(entries), nil
}

// formatAuthorsText creates a searchable text representation of authors.
func formatAuthorsText(authors []reference.Author) string {
	var names []string
	for _, a := range authors {
		if a.First != "" {
			names = append(names, plainText(a.First+" "+a.Last))
		} else {
			names = append(names, plainText(a.Last))
		}
	}
	return strings.Join(names, ", ")
}

// plainText drops the protecting braces of a field value.
func plainText(s string) string {
	return strings.NewReplacer("{", "", "}", "").Replace(s)
}

// GetByKey retrieves every entry with the given identifier, in index order.
// Identifiers may collide, so more than one entry can be returned.
func (d *DB) GetByKey(key string) ([]reference.Entry, error) {
	rows, err := d.db.Query(`SELECT `+selectEntryFields+` FROM entries WHERE citekey = ? ORDER BY seq`,
		strings.TrimSuffix(strings.ToLower(key), reference.Separator))
	if err != nil {
		return nil, fmt.Errorf("looking up %s: %w", key, err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// Search performs a full-text search and returns matching entries.
func (d *DB) Search(query string, limit int) ([]reference.Entry, error) {
	return d.match(prepareFTSQuery(query), limit)
}

// SearchField performs a search on a specific field.
func (d *DB) SearchField(field, value string, limit int) ([]reference.Entry, error) {
	var ftsQuery string

	switch field {
	case "author":
		if q := prepareAuthorQuery(value); q != "" {
			ftsQuery = "authors_text:" + q
		}
	case "title":
		if q := prepareFTSQuery(value); q != "" {
			ftsQuery = "title:(" + q + ")"
		}
	default:
		return nil, fmt.Errorf("unknown search field: %s", field)
	}

	entries, err := d.match(ftsQuery, limit)
	if err != nil {
		return nil, fmt.Errorf("searching %s: %w", field, err)
	}
	return entries, nil
}

func (d *DB) match(ftsQuery string, limit int) ([]reference.Entry, error) {
	if ftsQuery == "" {
		return nil, nil
	}

	rows, err := d.db.Query(`
		SELECT `+selectEntryFields+`
		FROM entries
		WHERE seq IN (SELECT CAST(seq AS INTEGER) FROM entries_fts WHERE entries_fts MATCH ?)
		ORDER BY seq
		LIMIT ?`, ftsQuery, limit)
	if err != nil {
		return nil, fmt.Errorf("searching: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// prepareAuthorQuery prepares an author name for FTS5 search with prefix matching.
// It adds a wildcard (*) to enable fuzzy matching (e.g., "Tim" matches "Timothy").
func prepareAuthorQuery(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return name
	}

	var terms []string
	for _, part := range strings.Fields(plainText(name)) {
		escaped := strings.ReplaceAll(part, "\"", "\"\"")
		terms = append(terms, "\""+escaped+"\"*")
	}
	if len(terms) == 0 {
		return ""
	}

	// Every part of the name must appear
	return "(" + strings.Join(terms, " AND ") + ")"
}

// ListAll returns all entries in index order, optionally limited.
func (d *DB) ListAll(limit int) ([]reference.Entry, error) {
	query := `SELECT ` + selectEntryFields + ` FROM entries ORDER BY seq`
	var args []interface{}

	if limit > 0 {
		query += " LIMIT ?"
		args = []interface{}{limit}
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing entries: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// Count returns the total number of indexed entries.
func (d *DB) Count() (int, error) {
	var count int
	err := d.db.QueryRow("SELECT COUNT(*) FROM entries").Scan(&count)
	return count, err
}

// scanner interface for sql.Row and sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanEntry(s scanner) (*reference.Entry, error) {
	var e reference.Entry
	var fieldsJSON string

	if err := s.Scan(&e.Seq, &e.ID, &e.Type, &e.Line, &fieldsJSON); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(fieldsJSON), &e.Fields); err != nil {
		return nil, fmt.Errorf("parsing fields JSON for %s: %w", e.Key(), err)
	}
	if e.Fields == nil {
		e.Fields = map[string]string{}
	}

	return &e, nil
}

func scanEntries(rows *sql.Rows) ([]reference.Entry, error) {
	var entries []reference.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

// nullableStringValue converts a string to sql.NullString, treating empty as NULL.
func nullableStringValue(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// prepareFTSQuery escapes special characters for FTS5 queries.
func prepareFTSQuery(query string) string {
	// FTS5 uses double quotes for phrase matching
	query = strings.TrimSpace(query)
	if query == "" {
		return query
	}

	// If query contains special chars, quote it
	if strings.ContainsAny(query, "\"*+-:(){}[]^~\\") {
		query = strings.ReplaceAll(query, "\"", "\"\"")
		return "\"" + query + "\""
	}

	return query
}
