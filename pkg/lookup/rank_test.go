package lookup

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/openshelf/openshelf/pkg/bib"
)

func TestRankPrefersStrongIdentifiers(t *testing.T) {
	records := []bib.CandidateRecord{
		{Title: "Dune"},
		{Title: "Dune", Identifiers: map[bib.IdentifierType]string{bib.IdentifierISBN10: "0441013597"}},
		{Title: "Dune", Identifiers: map[bib.IdentifierType]string{bib.IdentifierISBN13: "9780441013593"}},
	}
	rank(records, "dune", nil)
	assert.Equal(t, "9780441013593", records[0].Identifiers[bib.IdentifierISBN13])
	assert.Equal(t, "0441013597", records[1].Identifiers[bib.IdentifierISBN10])
}

func TestRankHintAgreement(t *testing.T) {
	records := []bib.CandidateRecord{
		{Title: "Dune", PublishDate: "1984", Publisher: "Putnam"},
		{Title: "Dune", PublishDate: "1965-08-01", Publisher: "Chilton Books"},
	}
	rank(records, "dune", &Hints{Year: "1965", Publisher: "chilton"})
	assert.Equal(t, "Chilton Books", records[0].Publisher)
}

func TestRankStableOnTies(t *testing.T) {
	// Identical scores keep provider priority order.
	records := []bib.CandidateRecord{
		{Title: "Dune", Sources: []string{"providerA"}},
		{Title: "Dune", Sources: []string{"providerB"}},
	}
	rank(records, "dune", nil)
	assert.Equal(t, []string{"providerA"}, records[0].Sources)
}

func TestScoreCompleteness(t *testing.T) {
	sparse := bib.CandidateRecord{Title: "Dune"}
	full := bib.CandidateRecord{
		Title:       "Dune",
		Authors:     []string{"Frank Herbert"},
		Publisher:   "Chilton Books",
		PublishDate: "1965",
		Pages:       412,
		Subjects:    []string{"Science fiction"},
		CoverURLs:   []string{"https://covers.example/dune.jpg"},
	}
	assert.Greater(t, score(&full, "dune", nil), score(&sparse, "dune", nil))
}
