package merge

import (
	"strings"

	"github.com/openshelf/openshelf/pkg/bib"
	"github.com/openshelf/openshelf/pkg/diff"
)

// contributorRoleFields maps a diff field key to the role assigned to
// names approved under it. The diff engine emits authors today; the other
// keys cover role-specific fields arriving from import pipelines.
var contributorRoleFields = map[string]bib.ContributorRole{
	diff.FieldAuthors: bib.ContributorRoleAuthor,
	"translators":     bib.ContributorRoleTranslator,
	"editors":         bib.ContributorRoleEditor,
	"illustrators":    bib.ContributorRoleIllustrator,
	"narrators":       bib.ContributorRoleNarrator,
}

// applyContributors merges approved names under one role into the working
// contributor list. Existing contributors are never dropped; new names are
// appended and ordinals rebuilt per role so ordering stays stable.
func applyContributors(working *bib.CanonicalRecord, role bib.ContributorRole, values []string) {
	for _, value := range values {
		for _, name := range SplitNames(value) {
			if hasContributor(working.Contributors, role, name) {
				continue
			}
			working.Contributors = append(working.Contributors, bib.Contributor{
				Name: name,
				Role: role,
			})
		}
	}

	ordinals := map[bib.ContributorRole]int{}
	for i := range working.Contributors {
		ordinals[working.Contributors[i].Role]++
		working.Contributors[i].Ordinal = ordinals[working.Contributors[i].Role]
	}
}

// SplitNames breaks a delimiter-joined name string into individual names,
// preserving order. Commas, semicolons, and ampersands all act as
// separators; "Surname, Given" forms are expected to be normalized before
// they reach this point.
func SplitNames(joined string) []string {
	split := strings.FieldsFunc(joined, func(r rune) bool {
		return r == ',' || r == ';' || r == '&'
	})
	names := make([]string, 0, len(split))
	for _, name := range split {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		names = append(names, name)
	}
	return names
}

func hasContributor(contributors []bib.Contributor, role bib.ContributorRole, name string) bool {
	folded := bib.FoldValue(name)
	for _, c := range contributors {
		if c.Role == role && bib.FoldValue(c.Name) == folded {
			return true
		}
	}
	return false
}
