// Package merge turns a user-approved set of field diffs into a minimal
// patch against the remote store's record shape. Descriptive fields patch
// individually; identifier, contributor, and subject lists are rebuilt as
// full replacements whenever their category is touched, mirroring the
// store's replace-whole PATCH semantics.
package merge

import (
	"fmt"
	"strings"
	"time"

	"github.com/openshelf/openshelf/pkg/bib"
	"github.com/openshelf/openshelf/pkg/diff"
	"github.com/openshelf/openshelf/pkg/store"
)

// timeNow is swapped in tests to pin the audit timestamp.
var timeNow = time.Now

// BuildPatch applies approved diffs onto a working copy of the record and
// partitions the result into sub-entity patches. The enrichment audit
// trail (timestamp plus contributing source names) is stamped into the
// record's notes; it is bookkeeping, never itself a diffable field.
//
// BuildPatch is pure apart from reading the clock; it performs no I/O.
func BuildPatch(original *bib.CanonicalRecord, approved []diff.FieldDiff, sources []string) (*store.Patch, error) {
	if len(approved) == 0 {
		return &store.Patch{}, nil
	}

	working := *original
	working.Identifiers = append([]bib.Identifier(nil), original.Identifiers...)
	working.Contributors = append([]bib.Contributor(nil), original.Contributors...)
	working.Subjects = append([]bib.Subject(nil), original.Subjects...)

	patch := &store.Patch{}
	descriptive := &store.DescriptivePatch{}
	touchedDescriptive := false
	touchedIdentifiers := false
	touchedContributors := false
	touchedSubjects := false

	for _, d := range approved {
		switch d.Key {
		case diff.FieldTitle:
			working.Title = asString(d.Candidate)
			descriptive.Title = ptr(working.Title)
			touchedDescriptive = true
		case diff.FieldSubtitle:
			working.Subtitle = asString(d.Candidate)
			descriptive.Subtitle = ptr(working.Subtitle)
			touchedDescriptive = true
		case diff.FieldPublisher:
			working.Publisher = asString(d.Candidate)
			descriptive.Publisher = ptr(working.Publisher)
			touchedDescriptive = true
		case diff.FieldPublishPlace:
			working.PublishPlace = asString(d.Candidate)
			descriptive.PublishPlace = ptr(working.PublishPlace)
			touchedDescriptive = true
		case diff.FieldPublishDate:
			working.PublishDate = asString(d.Candidate)
			descriptive.PublishDate = ptr(working.PublishDate)
			touchedDescriptive = true
		case diff.FieldPages:
			working.Pages = asInt(d.Candidate)
			descriptive.Pages = ptr(working.Pages)
			touchedDescriptive = true
		case diff.FieldFormat:
			working.Format = asString(d.Candidate)
			descriptive.Format = ptr(working.Format)
			touchedDescriptive = true
		case diff.FieldLanguage:
			working.Language = asString(d.Candidate)
			descriptive.Language = ptr(working.Language)
			touchedDescriptive = true
		case diff.FieldDewey:
			working.DeweyDecimal = asString(d.Candidate)
			descriptive.DeweyDecimal = ptr(working.DeweyDecimal)
			touchedDescriptive = true
		case diff.FieldLCC:
			working.LCC = asString(d.Candidate)
			descriptive.LCC = ptr(working.LCC)
			touchedDescriptive = true
		case diff.FieldDescription:
			working.Description = asString(d.Candidate)
			descriptive.Description = ptr(working.Description)
			touchedDescriptive = true
		case diff.FieldSeries:
			series := &bib.SeriesMembership{Name: asString(d.Candidate)}
			working.Series = series
			descriptive.Series = series
			touchedDescriptive = true
		case diff.FieldCoverURL:
			working.CoverURL = asString(d.Candidate)
			descriptive.CoverURL = ptr(working.CoverURL)
			touchedDescriptive = true

		case diff.FieldISBN10, diff.FieldISBN13, diff.FieldLCCN, diff.FieldOCLC:
			applyIdentifier(&working, d.Key, asString(d.Candidate))
			touchedIdentifiers = true

		case diff.FieldSubjects:
			applySubjects(&working, asList(d.Candidate))
			touchedSubjects = true

		default:
			if role, ok := contributorRoleFields[d.Key]; ok {
				applyContributors(&working, role, asList(d.Candidate))
				touchedContributors = true
				continue
			}
			return nil, fmt.Errorf("unknown diff field: %s", d.Key)
		}
	}

	if touchedDescriptive {
		patch.Descriptive = descriptive
	}
	if touchedIdentifiers {
		identifiers := buildIdentifiers(working.Identifiers)
		patch.Identifiers = &identifiers
	}
	if touchedContributors {
		contributors := append([]bib.Contributor(nil), working.Contributors...)
		patch.Contributors = &contributors
	}
	if touchedSubjects {
		subjects := append([]bib.Subject(nil), working.Subjects...)
		patch.Subjects = &subjects
	}

	patch.Notes = ptr(stampAudit(original.Notes, sources))

	return patch, nil
}

// stampAudit appends the enrichment audit line to the free-form notes.
func stampAudit(notes string, sources []string) string {
	line := "Enriched " + timeNow().UTC().Format(time.RFC3339)
	if len(sources) > 0 {
		line += " from " + strings.Join(sources, ", ")
	}
	if notes == "" {
		return line
	}
	return notes + "\n" + line
}

// asString renders a diff value as a scalar string.
func asString(v any) string {
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(fmt.Sprint(v))
}

// asInt renders a diff value as an int, tolerating string forms.
func asInt(v any) int {
	switch value := v.(type) {
	case int:
		return value
	case string:
		n := 0
		_, _ = fmt.Sscanf(strings.TrimSpace(value), "%d", &n)
		return n
	default:
		return 0
	}
}

// asList renders a diff value as a string list.
func asList(v any) []string {
	switch value := v.(type) {
	case []string:
		return value
	case []any:
		list := make([]string, 0, len(value))
		for _, el := range value {
			list = append(list, fmt.Sprint(el))
		}
		return list
	case string:
		return []string{value}
	default:
		return nil
	}
}

func ptr[T any](v T) *T {
	return &v
}

// applySubjects appends approved subject values not already present on
// the working copy. Incoming values carry no scheme so they land as
// freeform headings; existing tagged headings are preserved untouched.
func applySubjects(working *bib.CanonicalRecord, values []string) {
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		exists := false
		folded := bib.FoldValue(value)
		for _, s := range working.Subjects {
			if bib.FoldValue(s.Value) == folded {
				exists = true
				break
			}
		}
		if exists {
			continue
		}
		working.Subjects = append(working.Subjects, bib.Subject{
			Scheme: bib.SubjectSchemeFreeform,
			Value:  value,
		})
	}
}
