package merge

import (
	"github.com/openshelf/openshelf/pkg/bib"
)

var identifierFields = map[string]bib.IdentifierType{
	"isbn10": bib.IdentifierISBN10,
	"isbn13": bib.IdentifierISBN13,
	"lccn":   bib.IdentifierLCCN,
	"oclc":   bib.IdentifierOCLC,
}

// applyIdentifier sets or replaces the identifier of the given type on the
// working copy. Values are normalized before storage so the replacement
// list stays comparable across sources.
func applyIdentifier(working *bib.CanonicalRecord, fieldKey, value string) {
	typ, ok := identifierFields[fieldKey]
	if !ok {
		return
	}
	value = bib.NormalizeIdentifier(value)
	if value == "" {
		return
	}
	for i := range working.Identifiers {
		if working.Identifiers[i].Type == typ {
			working.Identifiers[i].Value = value
			return
		}
	}
	working.Identifiers = append(working.Identifiers, bib.Identifier{Type: typ, Value: value})
}

// buildIdentifiers produces the full replacement identifier list with
// primacy resolved: exactly one primary per type family, and within the
// ISBN family the ISBN-13 always wins over the ISBN-10.
func buildIdentifiers(identifiers []bib.Identifier) []bib.Identifier {
	out := append([]bib.Identifier(nil), identifiers...)

	primaryType := map[string]bib.IdentifierType{}
	for _, id := range out {
		family := id.Type.Family()
		current, ok := primaryType[family]
		if !ok {
			primaryType[family] = id.Type
			continue
		}
		if current == bib.IdentifierISBN10 && id.Type == bib.IdentifierISBN13 {
			primaryType[family] = bib.IdentifierISBN13
		}
	}

	seen := map[string]bool{}
	for i := range out {
		family := out[i].Type.Family()
		out[i].Primary = !seen[family] && out[i].Type == primaryType[family]
		if out[i].Primary {
			seen[family] = true
		}
	}
	return out
}
