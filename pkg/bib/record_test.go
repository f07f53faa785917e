package bib_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/openshelf/openshelf/pkg/bib"
)

func TestCandidateRecordEmpty(t *testing.T) {
	assert.True(t, (&bib.CandidateRecord{}).Empty())
	assert.True(t, (*bib.CandidateRecord)(nil).Empty())
	assert.True(t, (&bib.CandidateRecord{Sources: []string{"openlibrary"}}).Empty())
	assert.False(t, (&bib.CandidateRecord{Title: "Dune"}).Empty())
	assert.False(t, (&bib.CandidateRecord{
		Identifiers: map[bib.IdentifierType]string{bib.IdentifierISBN13: "9780441013593"},
	}).Empty())
}

func TestCandidateRecordMerge(t *testing.T) {
	dst := &bib.CandidateRecord{
		Title:    "Dune",
		Authors:  []string{"Frank Herbert"},
		Subjects: []string{"Science fiction"},
		Sources:  []string{"openlibrary"},
	}
	src := &bib.CandidateRecord{
		Title:     "Dune: deluxe edition", // dst already has a title; kept as-is
		Publisher: "Chilton Books",
		Authors:   []string{"Frank Herbert", "Brian Herbert"},
		Subjects:  []string{"Deserts"},
		Sources:   []string{"googlebooks"},
	}
	dst.Merge(src)

	want := &bib.CandidateRecord{
		Title:     "Dune",
		Publisher: "Chilton Books",
		Authors:   []string{"Frank Herbert", "Brian Herbert"},
		Subjects:  []string{"Science fiction", "Deserts"},
		Sources:   []string{"openlibrary", "googlebooks"},
	}
	if diff := cmp.Diff(want, dst); diff != "" {
		t.Errorf("merged record mismatch (-want +got):\n%s", diff)
	}
}

func TestPrimaryAuthor(t *testing.T) {
	record := &bib.CanonicalRecord{
		Contributors: []bib.Contributor{
			{Role: bib.ContributorRoleTranslator, Ordinal: 1, Name: "Gregory Rabassa"},
			{Role: bib.ContributorRoleAuthor, Ordinal: 2, Name: "Second Author"},
			{Role: bib.ContributorRoleAuthor, Ordinal: 1, Name: "Gabriel García Márquez"},
		},
	}
	assert.Equal(t, "Gabriel García Márquez", record.PrimaryAuthor())
	assert.Equal(t, "", (&bib.CanonicalRecord{}).PrimaryAuthor())
}

func TestIdentifierValue(t *testing.T) {
	record := &bib.CanonicalRecord{
		Identifiers: []bib.Identifier{
			{Type: bib.IdentifierISBN13, Value: "9780441013593", Primary: true},
			{Type: bib.IdentifierLCCN, Value: "65011094"},
		},
	}
	assert.Equal(t, "9780441013593", record.IdentifierValue(bib.IdentifierISBN13))
	assert.Equal(t, "", record.IdentifierValue(bib.IdentifierOCLC))
}

func TestOldestItem(t *testing.T) {
	day := func(d int) time.Time {
		return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC)
	}
	tests := []struct {
		name  string
		items []bib.DuplicateItem
		want  int
	}{
		{
			name: "earliest wins",
			items: []bib.DuplicateItem{
				{ID: "a", AddedAt: day(10)},
				{ID: "b", AddedAt: day(2)},
				{ID: "c", AddedAt: day(5)},
			},
			want: 1,
		},
		{
			name: "zero times sort last",
			items: []bib.DuplicateItem{
				{ID: "a"},
				{ID: "b", AddedAt: day(20)},
			},
			want: 1,
		},
		{
			name: "tie keeps lower index",
			items: []bib.DuplicateItem{
				{ID: "a", AddedAt: day(3)},
				{ID: "b", AddedAt: day(3)},
			},
			want: 0,
		},
		{
			name:  "all zero",
			items: []bib.DuplicateItem{{ID: "a"}, {ID: "b"}},
			want:  0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			group := &bib.DuplicateGroup{Items: tt.items}
			assert.Equal(t, tt.want, group.OldestItem())
		})
	}
}
