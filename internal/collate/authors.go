package collate

import (
	"slices"
	"strings"

	"github.com/matsen/bibclean/internal/reference"
)

// Member identifies one entry inside a duplicate group.
type Member struct {
	ID  string `json:"id"`
	Seq int    `json:"seq"`
}

// AuthorGroup is a set of entries sharing an identical author list.
type AuthorGroup struct {
	Authors string   `json:"authors"`
	Entries []Member `json:"entries"`
}

// AuthorIndex accumulates entries by canonical author string. Every
// colliding entry is kept, not just the latest one.
type AuthorIndex struct {
	groups map[string][]Member
}

// NewAuthorIndex creates an empty index.
func NewAuthorIndex() *AuthorIndex {
	return &AuthorIndex{groups: make(map[string][]Member)}
}

// Add records an entry. Entries without an author field are ignored.
func (x *AuthorIndex) Add(e reference.Entry) {
	authors, ok := e.Get("author")
	if !ok || strings.TrimSpace(authors) == "" {
		return
	}
	x.groups[authors] = append(x.groups[authors], Member{ID: e.Key(), Seq: e.Seq})
}

// Duplicates returns the author lists shared by two or more entries,
// ordered by author string, members in insertion order.
func (x *AuthorIndex) Duplicates() []AuthorGroup {
	var groups []AuthorGroup
	for authors, members := range x.groups {
		if len(members) < 2 {
			continue
		}
		sorted := slices.Clone(members)
		slices.SortFunc(sorted, func(a, b Member) int { return a.Seq - b.Seq })
		groups = append(groups, AuthorGroup{Authors: authors, Entries: sorted})
	}
	slices.SortFunc(groups, func(a, b AuthorGroup) int {
		return strings.Compare(a.Authors, b.Authors)
	})
	return groups
}
