package lookup

import (
	"sort"
	"strings"

	"github.com/openshelf/openshelf/pkg/bib"
)

// rank orders free-text search results most-likely-correct first. The score
// favors records that carry strong identifiers, match the query text, agree
// with the caller's hints, and are generally complete. Sorting is stable so
// provider priority breaks ties.
func rank(records []bib.CandidateRecord, query string, hints *Hints) {
	queryFold := bib.FoldValue(query)
	scores := make([]int, len(records))
	for i := range records {
		scores[i] = score(&records[i], queryFold, hints)
	}
	sort.SliceStable(records, func(i, j int) bool {
		return scores[i] > scores[j]
	})
}

func score(r *bib.CandidateRecord, queryFold string, hints *Hints) int {
	s := 0

	// Strong identifiers make a result actionable.
	if _, ok := r.Identifiers[bib.IdentifierISBN13]; ok {
		s += 4
	}
	if _, ok := r.Identifiers[bib.IdentifierISBN10]; ok {
		s += 2
	}

	// Title agreement with the query text.
	titleFold := bib.FoldValue(r.Title)
	switch {
	case titleFold != "" && titleFold == queryFold:
		s += 6
	case titleFold != "" && strings.Contains(queryFold, titleFold):
		s += 3
	case titleFold != "" && strings.Contains(queryFold, firstWords(titleFold, 3)):
		s += 2
	}

	// Hint agreement.
	if hints != nil {
		if hints.Year != "" && strings.Contains(r.PublishDate, hints.Year) {
			s += 3
		}
		if hints.Publisher != "" && strings.Contains(bib.FoldValue(r.Publisher), bib.FoldValue(hints.Publisher)) {
			s += 2
		}
		if hints.Language != "" && bib.FoldValue(r.Language) == bib.FoldValue(hints.Language) {
			s += 1
		}
		if hints.Place != "" && bib.FoldValue(r.PublishPlace) == bib.FoldValue(hints.Place) {
			s += 1
		}
		if hints.Subject != "" {
			want := bib.FoldValue(hints.Subject)
			for _, subj := range r.Subjects {
				if strings.Contains(bib.FoldValue(subj), want) {
					s += 1
					break
				}
			}
		}
	}

	// Completeness.
	for _, present := range []bool{
		len(r.Authors) > 0,
		r.Publisher != "",
		r.PublishDate != "",
		r.Pages > 0,
		len(r.Subjects) > 0,
		len(r.CoverURLs) > 0,
	} {
		if present {
			s++
		}
	}

	return s
}

func firstWords(s string, n int) string {
	fields := strings.Fields(s)
	if len(fields) > n {
		fields = fields[:n]
	}
	return strings.Join(fields, " ")
}
