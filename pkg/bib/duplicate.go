package bib

import "time"

// DuplicateItem is one catalog item inside a duplicate candidate group.
type DuplicateItem struct {
	ID      string    `json:"id" yaml:"id"`
	Title   string    `json:"title,omitempty" yaml:"title,omitempty"`
	Format  string    `json:"format,omitempty" yaml:"format,omitempty"`
	AddedAt time.Time `json:"added_at,omitempty" yaml:"added_at,omitempty"`
}

// DuplicateGroup is a set of two or more catalog items judged equivalent by
// normalized title and primary author. The group key is a pure function of
// those two values; membership never changes after grouping.
type DuplicateGroup struct {
	GroupKey string          `json:"group_key" yaml:"group_key"`
	Title    string          `json:"title" yaml:"title"`
	Author   string          `json:"author,omitempty" yaml:"author,omitempty"`
	Items    []DuplicateItem `json:"items" yaml:"items"`
}

// OldestItem returns the index of the earliest-added item in the group.
// Items without an added time sort last; ties keep the lower index.
func (g *DuplicateGroup) OldestItem() int {
	oldest := 0
	for i := 1; i < len(g.Items); i++ {
		candidate, current := g.Items[i].AddedAt, g.Items[oldest].AddedAt
		if current.IsZero() {
			if !candidate.IsZero() {
				oldest = i
			}
			continue
		}
		if !candidate.IsZero() && candidate.Before(current) {
			oldest = i
		}
	}
	return oldest
}
