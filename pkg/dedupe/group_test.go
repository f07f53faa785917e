package dedupe_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openshelf/openshelf/pkg/bib"
	"github.com/openshelf/openshelf/pkg/dedupe"
)

func record(id, title, author string, added time.Time) bib.CanonicalRecord {
	r := bib.CanonicalRecord{ID: id, Title: title, CreatedAt: added}
	if author != "" {
		r.Contributors = []bib.Contributor{
			{Role: bib.ContributorRoleAuthor, Ordinal: 1, Name: author},
		}
	}
	return r
}

func TestGroup(t *testing.T) {
	day := func(d int) time.Time {
		return time.Date(2024, 5, d, 0, 0, 0, 0, time.UTC)
	}
	records := []bib.CanonicalRecord{
		record("a", "The Hobbit", "J. R. R. Tolkien", day(1)),
		record("b", "Dune", "Frank Herbert", day(2)),
		record("c", "hobbit", "Tolkien, J. R. R.", day(3)),
		record("d", "Dune", "Frank Herbert", day(4)),
		record("e", "Dune", "Frank Herbert", day(5)),
		record("f", "The Dispossessed", "Ursula K. Le Guin", day(6)),
	}

	groups := dedupe.Group(records)
	require.Len(t, groups, 2, "singletons are discarded")

	// Deterministic: sorted by group key ("dune|..." before "hobbit|...").
	assert.Equal(t, "Dune", groups[0].Title)
	assert.Len(t, groups[0].Items, 3)
	assert.Equal(t, []string{"b", "d", "e"}, itemIDs(groups[0]), "snapshot order kept")

	assert.Equal(t, "The Hobbit", groups[1].Title, "first member names the group")
	assert.Equal(t, "J. R. R. Tolkien", groups[1].Author)
	assert.Equal(t, []string{"a", "c"}, itemIDs(groups[1]))
}

func TestGroupSkipsUntitled(t *testing.T) {
	records := []bib.CanonicalRecord{
		record("a", "", "Anonymous", time.Time{}),
		record("b", "", "Anonymous", time.Time{}),
	}
	assert.Empty(t, dedupe.Group(records))
}

func TestGroupDifferentAuthorsStayApart(t *testing.T) {
	records := []bib.CanonicalRecord{
		record("a", "Collected Poems", "W. B. Yeats", time.Time{}),
		record("b", "Collected Poems", "Sylvia Plath", time.Time{}),
	}
	assert.Empty(t, dedupe.Group(records))
}

func itemIDs(g bib.DuplicateGroup) []string {
	ids := make([]string, 0, len(g.Items))
	for _, item := range g.Items {
		ids = append(ids, item.ID)
	}
	return ids
}
