// Package collate orders entries and reports duplicate identifiers and
// duplicate author lists.
package collate

import (
	"slices"

	"github.com/matsen/bibclean/internal/reference"
	"github.com/samber/lo"
)

// Sort orders entries by identifier, then by insertion sequence.
func Sort(entries []reference.Entry) {
	slices.SortFunc(entries, func(a, b reference.Entry) int {
		ka, kb := a.CollationKey(), b.CollationKey()
		switch {
		case ka.Less(kb):
			return -1
		case kb.Less(ka):
			return 1
		default:
			return 0
		}
	})
}

// DuplicateIDs returns the sorted identifiers (without trailing separator)
// that are used by more than one entry.
func DuplicateIDs(entries []reference.Entry) []string {
	counts := lo.CountValuesBy(entries, func(e reference.Entry) string {
		return e.Key()
	})
	dups := lo.Keys(lo.PickBy(counts, func(_ string, n int) bool {
		return n > 1
	}))
	slices.Sort(dups)
	return dups
}
