package diff_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openshelf/openshelf/pkg/bib"
	"github.com/openshelf/openshelf/pkg/diff"
)

func TestComputeNewFields(t *testing.T) {
	current := map[string]any{
		diff.FieldTitle: "Dune",
		diff.FieldPages: 0,
	}
	candidate := &bib.CandidateRecord{
		Title:     "Dune",
		Publisher: "Chilton Books",
		Pages:     412,
	}

	diffs := diff.Compute(current, candidate, nil)
	require.Len(t, diffs, 2)

	byKey := map[string]diff.FieldDiff{}
	for _, d := range diffs {
		byKey[d.Key] = d
	}
	assert.True(t, byKey[diff.FieldPublisher].NewField)
	assert.Equal(t, "Chilton Books", byKey[diff.FieldPublisher].Candidate)
	assert.True(t, byKey[diff.FieldPages].NewField, "zero pages counts as empty")
	assert.Equal(t, 412, byKey[diff.FieldPages].Candidate)
}

func TestComputeNeverProposesRemoval(t *testing.T) {
	// The candidate supplies nothing; a populated record must produce an
	// empty diff, whatever it already holds.
	current := map[string]any{
		diff.FieldTitle:    "A Wizard of Earthsea",
		diff.FieldSubjects: []string{"Fantasy", "Wizards"},
		diff.FieldPages:    183,
	}
	diffs := diff.Compute(current, &bib.CandidateRecord{}, nil)
	assert.Empty(t, diffs)
}

func TestComputeListDirectionality(t *testing.T) {
	t.Run("candidate subset emits nothing", func(t *testing.T) {
		current := map[string]any{
			diff.FieldSubjects: []string{"Fantasy", "Wizards", "Coming of age"},
		}
		candidate := &bib.CandidateRecord{Subjects: []string{"fantasy", "WIZARDS"}}
		assert.Empty(t, diff.Compute(current, candidate, nil))
	})

	t.Run("candidate addition emits a diff", func(t *testing.T) {
		current := map[string]any{
			diff.FieldSubjects: []string{"Fantasy"},
		}
		candidate := &bib.CandidateRecord{Subjects: []string{"Fantasy", "Islands"}}
		diffs := diff.Compute(current, candidate, nil)
		require.Len(t, diffs, 1)
		assert.Equal(t, diff.FieldSubjects, diffs[0].Key)
		assert.False(t, diffs[0].NewField)
	})
}

func TestComputeStringComparison(t *testing.T) {
	t.Run("case and padding insensitive", func(t *testing.T) {
		current := map[string]any{diff.FieldPublisher: "Chilton Books"}
		candidate := &bib.CandidateRecord{Publisher: "  chilton books "}
		assert.Empty(t, diff.Compute(current, candidate, nil))
	})

	t.Run("material change emits a diff", func(t *testing.T) {
		current := map[string]any{diff.FieldPublishDate: "1965"}
		candidate := &bib.CandidateRecord{PublishDate: "1965-08-01"}
		diffs := diff.Compute(current, candidate, nil)
		require.Len(t, diffs, 1)
		assert.Equal(t, "1965", diffs[0].Current)
		assert.Equal(t, "1965-08-01", diffs[0].Candidate)
	})
}

func TestComputeAllowList(t *testing.T) {
	current := map[string]any{}
	candidate := &bib.CandidateRecord{
		Title:     "Dune",
		Publisher: "Chilton Books",
		Subjects:  []string{"Science fiction"},
	}

	diffs := diff.Compute(current, candidate, []string{diff.FieldSubjects})
	require.Len(t, diffs, 1)
	assert.Equal(t, diff.FieldSubjects, diffs[0].Key)
	assert.Equal(t, diff.CategoryClassification, diffs[0].Category)
}

func TestComputeEmissionOrder(t *testing.T) {
	current := map[string]any{}
	candidate := &bib.CandidateRecord{
		Title:    "Dune",
		Authors:  []string{"Frank Herbert"},
		Subjects: []string{"Science fiction"},
	}
	diffs := diff.Compute(current, candidate, nil)
	require.Len(t, diffs, 3)
	assert.Equal(t, diff.FieldTitle, diffs[0].Key)
	assert.Equal(t, diff.FieldAuthors, diffs[1].Key)
	assert.Equal(t, diff.FieldSubjects, diffs[2].Key)
}

func TestComputeNilCandidate(t *testing.T) {
	assert.Nil(t, diff.Compute(map[string]any{}, nil, nil))
}

func TestFlatten(t *testing.T) {
	record := &bib.CanonicalRecord{
		Title: "One Hundred Years of Solitude",
		Pages: 417,
		Contributors: []bib.Contributor{
			{Role: bib.ContributorRoleAuthor, Ordinal: 1, Name: "Gabriel García Márquez"},
			{Role: bib.ContributorRoleTranslator, Ordinal: 1, Name: "Gregory Rabassa"},
		},
		Identifiers: []bib.Identifier{
			{Type: bib.IdentifierISBN13, Value: "9780060883287", Primary: true},
		},
		Subjects: []bib.Subject{
			{Scheme: bib.SubjectSchemeLCSH, Value: "Magic realism (Literature)"},
		},
		Series: &bib.SeriesMembership{Name: "Macondo"},
	}

	flat := diff.Flatten(record)
	assert.Equal(t, "One Hundred Years of Solitude", flat[diff.FieldTitle])
	assert.Equal(t, 417, flat[diff.FieldPages])
	assert.Equal(t, []string{"Gabriel García Márquez"}, flat[diff.FieldAuthors], "translators are not authors")
	assert.Equal(t, "9780060883287", flat[diff.FieldISBN13])
	assert.Equal(t, []string{"Magic realism (Literature)"}, flat[diff.FieldSubjects])
	assert.Equal(t, "Macondo", flat[diff.FieldSeries])
}

func TestCategoryOf(t *testing.T) {
	assert.Equal(t, diff.CategoryDescriptive, diff.CategoryOf(diff.FieldTitle))
	assert.Equal(t, diff.CategoryIdentifiers, diff.CategoryOf(diff.FieldISBN13))
	assert.Equal(t, diff.CategoryContributors, diff.CategoryOf(diff.FieldAuthors))
	assert.Equal(t, diff.CategoryClassification, diff.CategoryOf(diff.FieldDewey))
	assert.Equal(t, diff.Category(""), diff.CategoryOf("notes"), "the audit region is never diffable")
}

func TestComputeCoverStability(t *testing.T) {
	// A record whose cover already matches the candidate must not diff
	// again; otherwise repeated gap-fill runs re-patch the same cover
	// forever.
	record := &bib.CanonicalRecord{
		Title:    "The Dispossessed",
		CoverURL: "https://covers.example/b/id/240727-L.jpg",
	}
	candidate := &bib.CandidateRecord{
		Title:     "The Dispossessed",
		CoverURLs: []string{"https://covers.example/b/id/240727-L.jpg", "https://covers.example/b/id/240727-S.jpg"},
	}
	assert.Empty(t, diff.Compute(diff.Flatten(record), candidate, nil))

	record.CoverURL = ""
	diffs := diff.Compute(diff.Flatten(record), candidate, nil)
	require.Len(t, diffs, 1)
	assert.Equal(t, diff.FieldCoverURL, diffs[0].Key)
	assert.True(t, diffs[0].NewField)
}
