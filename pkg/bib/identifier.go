package bib

import (
	"strings"
)

// IdentifierType identifies the scheme an identifier value belongs to.
type IdentifierType string

// String returns the string representation of an IdentifierType.
func (t IdentifierType) String() string {
	return string(t)
}

// Identifier types recognized by the catalog.
const (
	IdentifierISBN10      IdentifierType = "isbn10"
	IdentifierISBN13      IdentifierType = "isbn13"
	IdentifierLCCN        IdentifierType = "lccn"
	IdentifierOCLC        IdentifierType = "oclc"
	IdentifierOpenLibrary IdentifierType = "openlibrary"
	IdentifierGoogleBooks IdentifierType = "googlebooks"
	IdentifierASIN        IdentifierType = "asin"
)

// Family returns the type-family an identifier type belongs to. Primacy is
// enforced per family: all ISBN variants share one family so a record keeps
// exactly one primary ISBN.
func (t IdentifierType) Family() string {
	switch t {
	case IdentifierISBN10, IdentifierISBN13:
		return "isbn"
	default:
		return string(t)
	}
}

// Identifier is one typed identifier attached to a record. At most one
// identifier per type-family carries the primary flag.
type Identifier struct {
	Type    IdentifierType `json:"type" yaml:"type"`
	Value   string         `json:"value" yaml:"value"`
	Primary bool           `json:"primary,omitempty" yaml:"primary,omitempty"`
}

// NormalizeIdentifier strips hyphens, spaces and dots from an identifier
// value and uppercases a trailing ISBN-10 check character.
func NormalizeIdentifier(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	for _, r := range value {
		switch r {
		case '-', ' ', '.':
			continue
		}
		b.WriteRune(r)
	}
	return strings.ToUpper(b.String())
}

// LooksLikeIdentifier reports whether a search key is an identifier rather
// than free text: 10 to 13 characters after normalization, all digits apart
// from an optional trailing X.
func LooksLikeIdentifier(key string) bool {
	norm := NormalizeIdentifier(key)
	if len(norm) < 10 || len(norm) > 13 {
		return false
	}
	for i, r := range norm {
		if r >= '0' && r <= '9' {
			continue
		}
		if r == 'X' && i == len(norm)-1 {
			continue
		}
		return false
	}
	return true
}

// ClassifyISBN returns the identifier type for a normalized ISBN value
// based on its length, or "" when the value is not ISBN-shaped.
func ClassifyISBN(norm string) IdentifierType {
	switch len(norm) {
	case 10:
		return IdentifierISBN10
	case 13:
		return IdentifierISBN13
	default:
		return ""
	}
}

// ISBN10To13 converts a normalized ISBN-10 to its ISBN-13 form with a
// recomputed check digit. Returns "" when the input is not 10 characters.
func ISBN10To13(isbn10 string) string {
	if len(isbn10) != 10 {
		return ""
	}
	core := "978" + isbn10[:9]
	sum := 0
	for i, r := range core {
		d := int(r - '0')
		if d < 0 || d > 9 {
			return ""
		}
		if i%2 == 0 {
			sum += d
		} else {
			sum += 3 * d
		}
	}
	check := (10 - sum%10) % 10
	return core + string(rune('0'+check))
}

// ValidISBN13 reports whether a normalized 13-character value has a correct
// EAN-13 check digit.
func ValidISBN13(isbn13 string) bool {
	if len(isbn13) != 13 {
		return false
	}
	sum := 0
	for i, r := range isbn13 {
		d := int(r - '0')
		if d < 0 || d > 9 {
			return false
		}
		if i%2 == 0 {
			sum += d
		} else {
			sum += 3 * d
		}
	}
	return sum%10 == 0
}

// ValidISBN10 reports whether a normalized 10-character value has a correct
// ISBN-10 check digit (which may be X).
func ValidISBN10(isbn10 string) bool {
	if len(isbn10) != 10 {
		return false
	}
	sum := 0
	for i, r := range isbn10 {
		var d int
		switch {
		case r >= '0' && r <= '9':
			d = int(r - '0')
		case r == 'X' && i == 9:
			d = 10
		default:
			return false
		}
		sum += (10 - i) * d
	}
	return sum%11 == 0
}
