// Package lookup drives cascading multi-provider bibliographic lookups.
// Providers are tried sequentially in priority order: identifier searches
// stop at the first usable result, free-text searches collect and rank
// results from several providers. Individual provider failures are absorbed;
// the cascade only fails when every provider contributed nothing.
package lookup

import (
	"context"
	"slices"

	"github.com/openshelf/openshelf/pkg/bib"
)

// ID identifies one external bibliographic data source.
type ID string

// String returns the string representation of a provider ID.
func (id ID) String() string {
	return string(id)
}

// Known provider IDs, in default priority order.
const (
	OpenLibraryID ID = "openlibrary"
	GoogleBooksID ID = "googlebooks"
	LOCID         ID = "loc"
	WikidataID    ID = "wikidata"
)

// IDs returns all known provider IDs in default priority order.
func IDs() []ID {
	return []ID{
		OpenLibraryID,
		GoogleBooksID,
		LOCID,
		WikidataID,
	}
}

// IsValid returns true if the ID is one of the defined constants.
func (id ID) IsValid() bool {
	return slices.Contains(IDs(), id)
}

// Provider is one external data source queried by identifier or free text.
// Implementations decode their own raw payload shapes and hand back the
// common CandidateRecord; raw provider responses never cross this boundary.
//
// A (nil, nil) return means the provider answered but had nothing usable.
// Implementations must tolerate missing optional payload nodes without
// panicking.
type Provider interface {
	// ID returns the provider's identifier.
	ID() ID

	// Lookup queries by a normalized identifier (ISBN-10/13 form).
	Lookup(ctx context.Context, identifier string) (*bib.CandidateRecord, error)

	// Search queries by free text, optionally biased by hints.
	Search(ctx context.Context, query string, hints *Hints) ([]bib.CandidateRecord, error)
}

// Hints bias provider query construction and free-text result ranking.
// They are never required and never cause a lookup to fail.
type Hints struct {
	Publisher string `json:"publisher,omitempty" yaml:"publisher,omitempty"`
	Place     string `json:"place,omitempty" yaml:"place,omitempty"`
	Year      string `json:"year,omitempty" yaml:"year,omitempty"`
	Language  string `json:"language,omitempty" yaml:"language,omitempty"`
	Subject   string `json:"subject,omitempty" yaml:"subject,omitempty"`
}

// Empty reports whether no hint is set.
func (h *Hints) Empty() bool {
	return h == nil || (h.Publisher == "" && h.Place == "" && h.Year == "" && h.Language == "" && h.Subject == "")
}
