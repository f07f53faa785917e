// Package dedupe groups catalog records that look like copies of the same
// work and drives the interactive review loop that resolves each group:
// merge into one surviving item, skip for later, or mark the members as
// distinct works.
package dedupe

import (
	"sort"

	"github.com/openshelf/openshelf/pkg/bib"
)

// Group buckets a catalog snapshot by normalized title and primary author.
// Groups with fewer than two members are discarded. Output ordering is
// deterministic: groups sort by key, members keep snapshot order.
func Group(records []bib.CanonicalRecord) []bib.DuplicateGroup {
	buckets := map[string]*bib.DuplicateGroup{}
	order := []string{}

	for i := range records {
		r := &records[i]
		key := bib.GroupKey(r.Title, r.PrimaryAuthor())
		if key == "|" || r.Title == "" {
			continue
		}
		group, ok := buckets[key]
		if !ok {
			group = &bib.DuplicateGroup{
				GroupKey: key,
				Title:    r.Title,
				Author:   r.PrimaryAuthor(),
			}
			buckets[key] = group
			order = append(order, key)
		}
		group.Items = append(group.Items, bib.DuplicateItem{
			ID:      r.ID,
			Title:   r.Title,
			Format:  r.Format,
			AddedAt: r.CreatedAt,
		})
	}

	groups := make([]bib.DuplicateGroup, 0, len(order))
	for _, key := range order {
		if len(buckets[key].Items) >= 2 {
			groups = append(groups, *buckets[key])
		}
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].GroupKey < groups[j].GroupKey
	})
	return groups
}
