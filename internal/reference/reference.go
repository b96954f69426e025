// Package reference defines the core domain types for bibliography entries.
package reference

import "strings"

// Separator is the trailing character a raw identifier carries over from
// the "@type{id," entry header.
const Separator = ","

// Field is one name/value pair as it appears in the source file.
type Field struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// RawEntry is an entry as produced by the tokenizer. Fields keep source
// order and may repeat; continuation lines are appended to the last field.
type RawEntry struct {
	Type   string  `json:"type"` // Lowercased, including the leading "@"
	ID     string  `json:"id"`   // Lowercased, usually ending in Separator
	Fields []Field `json:"fields"`

	Seq  int `json:"seq"`  // Insertion sequence number
	Line int `json:"line"` // Source line of the "@" header (1-indexed)
}

// Entry is a normalized entry. Field names are unique.
type Entry struct {
	Type   string            `json:"type"`
	ID     string            `json:"id"`
	Fields map[string]string `json:"fields"`

	Seq  int `json:"seq"`
	Line int `json:"line"`
}

// Key returns the identifier without its trailing separator.
func (e Entry) Key() string {
	return strings.TrimSuffix(e.ID, Separator)
}

// CollationKey returns the ordering key of the entry.
func (e Entry) CollationKey() CollationKey {
	return CollationKey{ID: e.ID, Seq: e.Seq}
}

// Get returns a field value and whether it is present.
func (e Entry) Get(name string) (string, bool) {
	v, ok := e.Fields[name]
	return v, ok
}

// CollationKey orders entries by identifier, then by insertion order.
// Seq makes the key unique even when identifiers collide.
type CollationKey struct {
	ID  string
	Seq int
}

// Less reports whether k sorts before other.
func (k CollationKey) Less(other CollationKey) bool {
	if k.ID != other.ID {
		return k.ID < other.ID
	}
	return k.Seq < other.Seq
}

// Bibliography is a whole file: passthrough string macros followed by
// entries in output order.
type Bibliography struct {
	Strings []string `json:"strings"`
	Entries []Entry  `json:"entries"`
}
