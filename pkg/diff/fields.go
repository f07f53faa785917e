// Package diff compares a stored catalog record against an aggregated
// candidate record field by field, emitting a minimal, human-reviewable set
// of proposed changes. The engine is pure: no I/O, safe from any goroutine.
package diff

import (
	"github.com/openshelf/openshelf/pkg/bib"
)

// Category groups related fields for review display.
type Category string

// String returns the string representation of a Category.
func (c Category) String() string {
	return string(c)
}

// Display categories for emitted diffs.
const (
	CategoryDescriptive    Category = "descriptive"
	CategoryIdentifiers    Category = "identifiers"
	CategoryContributors   Category = "contributors"
	CategoryClassification Category = "classification"
)

// Field keys shared by the flat views of canonical and candidate records.
const (
	FieldTitle        = "title"
	FieldSubtitle     = "subtitle"
	FieldAuthors      = "authors"
	FieldPublisher    = "publisher"
	FieldPublishPlace = "publish_place"
	FieldPublishDate  = "publish_date"
	FieldPages        = "pages"
	FieldFormat       = "format"
	FieldLanguage     = "language"
	FieldDescription  = "description"
	FieldSeries       = "series"
	FieldCoverURL     = "cover_url"
	FieldISBN10       = "isbn10"
	FieldISBN13       = "isbn13"
	FieldLCCN         = "lccn"
	FieldOCLC         = "oclc"
	FieldDewey        = "dewey_decimal"
	FieldLCC          = "lcc"
	FieldSubjects     = "subjects"
)

// categories is the fixed field-to-category table. Fields not listed here
// (internal bookkeeping, item attributes, the audit trail) are never
// diffable by construction.
var categories = map[string]Category{
	FieldTitle:        CategoryDescriptive,
	FieldSubtitle:     CategoryDescriptive,
	FieldPublisher:    CategoryDescriptive,
	FieldPublishPlace: CategoryDescriptive,
	FieldPublishDate:  CategoryDescriptive,
	FieldPages:        CategoryDescriptive,
	FieldFormat:       CategoryDescriptive,
	FieldLanguage:     CategoryDescriptive,
	FieldDescription:  CategoryDescriptive,
	FieldSeries:       CategoryDescriptive,
	FieldCoverURL:     CategoryDescriptive,
	FieldAuthors:      CategoryContributors,
	FieldISBN10:       CategoryIdentifiers,
	FieldISBN13:       CategoryIdentifiers,
	FieldLCCN:         CategoryIdentifiers,
	FieldOCLC:         CategoryIdentifiers,
	FieldDewey:        CategoryClassification,
	FieldLCC:          CategoryClassification,
	FieldSubjects:     CategoryClassification,
}

// enrichableFields is the default allow list, in emission order.
var enrichableFields = []string{
	FieldTitle,
	FieldSubtitle,
	FieldAuthors,
	FieldPublisher,
	FieldPublishPlace,
	FieldPublishDate,
	FieldPages,
	FieldFormat,
	FieldLanguage,
	FieldISBN10,
	FieldISBN13,
	FieldLCCN,
	FieldOCLC,
	FieldDewey,
	FieldLCC,
	FieldSubjects,
	FieldDescription,
	FieldSeries,
	FieldCoverURL,
}

// EnrichableFields returns the default allow list of fields the diff engine
// compares, in emission order.
func EnrichableFields() []string {
	fields := make([]string, len(enrichableFields))
	copy(fields, enrichableFields)
	return fields
}

// CategoryOf returns the display category for a field key, or "" for fields
// outside the table.
func CategoryOf(key string) Category {
	return categories[key]
}

// Flatten produces the flat comparison view of a canonical record, keyed by
// the shared field keys.
func Flatten(r *bib.CanonicalRecord) map[string]any {
	flat := map[string]any{
		FieldTitle:        r.Title,
		FieldSubtitle:     r.Subtitle,
		FieldPublisher:    r.Publisher,
		FieldPublishPlace: r.PublishPlace,
		FieldPublishDate:  r.PublishDate,
		FieldPages:        r.Pages,
		FieldFormat:       r.Format,
		FieldLanguage:     r.Language,
		FieldDescription:  r.Description,
		FieldCoverURL:     r.CoverURL,
		FieldDewey:        r.DeweyDecimal,
		FieldLCC:          r.LCC,
	}

	var authors []string
	for _, c := range r.Contributors {
		if c.Role == bib.ContributorRoleAuthor {
			authors = append(authors, c.Name)
		}
	}
	flat[FieldAuthors] = authors

	for _, id := range r.Identifiers {
		switch id.Type {
		case bib.IdentifierISBN10:
			flat[FieldISBN10] = id.Value
		case bib.IdentifierISBN13:
			flat[FieldISBN13] = id.Value
		case bib.IdentifierLCCN:
			flat[FieldLCCN] = id.Value
		case bib.IdentifierOCLC:
			flat[FieldOCLC] = id.Value
		}
	}

	var subjects []string
	for _, s := range r.Subjects {
		subjects = append(subjects, s.Value)
	}
	flat[FieldSubjects] = subjects

	if r.Series != nil {
		flat[FieldSeries] = r.Series.Name
	}

	return flat
}

// flattenCandidate produces the flat view of a candidate record using the
// same field keys.
func flattenCandidate(c *bib.CandidateRecord) map[string]any {
	flat := map[string]any{
		FieldTitle:        c.Title,
		FieldSubtitle:     c.Subtitle,
		FieldAuthors:      c.Authors,
		FieldPublisher:    c.Publisher,
		FieldPublishPlace: c.PublishPlace,
		FieldPublishDate:  c.PublishDate,
		FieldPages:        c.Pages,
		FieldFormat:       c.Format,
		FieldLanguage:     c.Language,
		FieldDescription:  c.Description,
		FieldDewey:        c.DeweyDecimal,
		FieldLCC:          c.LCC,
		FieldSubjects:     c.Subjects,
		FieldSeries:       c.Series,
	}

	for typ, value := range c.Identifiers {
		switch typ {
		case bib.IdentifierISBN10:
			flat[FieldISBN10] = value
		case bib.IdentifierISBN13:
			flat[FieldISBN13] = value
		case bib.IdentifierLCCN:
			flat[FieldLCCN] = value
		case bib.IdentifierOCLC:
			flat[FieldOCLC] = value
		}
	}

	if len(c.CoverURLs) > 0 {
		flat[FieldCoverURL] = c.CoverURLs[0]
	}

	return flat
}
