// Package bib defines the bibliographic data model shared across the
// reconciliation core: candidate records produced by provider lookups,
// canonical records stored in the remote catalog, and the normalization
// helpers used to compare and group them.
package bib

import "time"

// CandidateRecord is a partial, provider-agnostic bag of bibliographic
// fields produced by a single provider query (or by an import front end).
// A zero-valued field means "this source did not supply it", never
// "this field is empty".
type CandidateRecord struct {
	Title    string   `json:"title,omitempty" yaml:"title,omitempty"`
	Subtitle string   `json:"subtitle,omitempty" yaml:"subtitle,omitempty"`
	Authors  []string `json:"authors,omitempty" yaml:"authors,omitempty"`

	// Identifiers keyed by type (isbn10, isbn13, lccn, oclc, ...).
	Identifiers map[IdentifierType]string `json:"identifiers,omitempty" yaml:"identifiers,omitempty"`

	Publisher    string `json:"publisher,omitempty" yaml:"publisher,omitempty"`
	PublishPlace string `json:"publish_place,omitempty" yaml:"publish_place,omitempty"`
	PublishDate  string `json:"publish_date,omitempty" yaml:"publish_date,omitempty"` // As supplied; providers disagree on precision

	Pages    int    `json:"pages,omitempty" yaml:"pages,omitempty"`
	Format   string `json:"format,omitempty" yaml:"format,omitempty"` // hardcover, paperback, ebook, audiobook
	Language string `json:"language,omitempty" yaml:"language,omitempty"`

	// Classification
	DeweyDecimal string   `json:"dewey_decimal,omitempty" yaml:"dewey_decimal,omitempty"`
	LCC          string   `json:"lcc,omitempty" yaml:"lcc,omitempty"`
	Subjects     []string `json:"subjects,omitempty" yaml:"subjects,omitempty"`

	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Series      string `json:"series,omitempty" yaml:"series,omitempty"`

	// Cover image references, largest first when the provider sizes them.
	CoverURLs []string `json:"cover_urls,omitempty" yaml:"cover_urls,omitempty"`

	// Names of providers that contributed to this record.
	Sources []string `json:"sources,omitempty" yaml:"sources,omitempty"`
}

// Empty reports whether the candidate carries no usable bibliographic data.
// A record with only source attribution is still empty.
func (c *CandidateRecord) Empty() bool {
	if c == nil {
		return true
	}
	return c.Title == "" &&
		c.Subtitle == "" &&
		len(c.Authors) == 0 &&
		len(c.Identifiers) == 0 &&
		c.Publisher == "" &&
		c.PublishDate == "" &&
		c.Description == "" &&
		len(c.Subjects) == 0
}

// Merge fills empty fields of c from other, leaving populated fields alone.
// List fields gain elements not already present. Source attribution is
// always appended.
func (c *CandidateRecord) Merge(other *CandidateRecord) {
	if other == nil {
		return
	}
	if c.Title == "" {
		c.Title = other.Title
	}
	if c.Subtitle == "" {
		c.Subtitle = other.Subtitle
	}
	c.Authors = appendMissing(c.Authors, other.Authors)
	if len(other.Identifiers) > 0 && c.Identifiers == nil {
		c.Identifiers = make(map[IdentifierType]string, len(other.Identifiers))
	}
	for typ, val := range other.Identifiers {
		if _, ok := c.Identifiers[typ]; !ok {
			c.Identifiers[typ] = val
		}
	}
	if c.Publisher == "" {
		c.Publisher = other.Publisher
	}
	if c.PublishPlace == "" {
		c.PublishPlace = other.PublishPlace
	}
	if c.PublishDate == "" {
		c.PublishDate = other.PublishDate
	}
	if c.Pages == 0 {
		c.Pages = other.Pages
	}
	if c.Format == "" {
		c.Format = other.Format
	}
	if c.Language == "" {
		c.Language = other.Language
	}
	if c.DeweyDecimal == "" {
		c.DeweyDecimal = other.DeweyDecimal
	}
	if c.LCC == "" {
		c.LCC = other.LCC
	}
	c.Subjects = appendMissing(c.Subjects, other.Subjects)
	if c.Description == "" {
		c.Description = other.Description
	}
	if c.Series == "" {
		c.Series = other.Series
	}
	c.CoverURLs = appendMissing(c.CoverURLs, other.CoverURLs)
	c.Sources = appendMissing(c.Sources, other.Sources)
}

// appendMissing appends elements of add not already in dst, comparing
// normalized forms so "History" and " history " do not duplicate.
func appendMissing(dst, add []string) []string {
	if len(add) == 0 {
		return dst
	}
	seen := make(map[string]bool, len(dst))
	for _, s := range dst {
		seen[FoldValue(s)] = true
	}
	for _, s := range add {
		if key := FoldValue(s); key != "" && !seen[key] {
			seen[key] = true
			dst = append(dst, s)
		}
	}
	return dst
}

// CanonicalRecord is the catalog's stored-of-record representation for one
// item, addressable by a stable item ID. Reconciliation touches the
// descriptive partitions only; ItemAttributes is owned by the user.
type CanonicalRecord struct {
	ID string `json:"id" yaml:"id"` // Stable item identifier in the remote store

	// Core descriptive metadata
	Title        string `json:"title,omitempty" yaml:"title,omitempty"`
	Subtitle     string `json:"subtitle,omitempty" yaml:"subtitle,omitempty"`
	Publisher    string `json:"publisher,omitempty" yaml:"publisher,omitempty"`
	PublishPlace string `json:"publish_place,omitempty" yaml:"publish_place,omitempty"`
	PublishDate  string `json:"publish_date,omitempty" yaml:"publish_date,omitempty"`
	Pages        int    `json:"pages,omitempty" yaml:"pages,omitempty"`
	Format       string `json:"format,omitempty" yaml:"format,omitempty"`
	Language     string `json:"language,omitempty" yaml:"language,omitempty"`
	DeweyDecimal string `json:"dewey_decimal,omitempty" yaml:"dewey_decimal,omitempty"`
	LCC          string `json:"lcc,omitempty" yaml:"lcc,omitempty"`
	Description  string `json:"description,omitempty" yaml:"description,omitempty"`
	CoverURL     string `json:"cover_url,omitempty" yaml:"cover_url,omitempty"`
	Notes        string `json:"notes,omitempty" yaml:"notes,omitempty"` // Free-form region; carries the enrichment audit trail

	// Related entities, replace-whole on patch
	Identifiers  []Identifier  `json:"identifiers,omitempty" yaml:"identifiers,omitempty"`
	Contributors []Contributor `json:"contributors,omitempty" yaml:"contributors,omitempty"`
	Subjects     []Subject     `json:"subjects,omitempty" yaml:"subjects,omitempty"`

	Series *SeriesMembership `json:"series,omitempty" yaml:"series,omitempty"`

	// Item-specific attributes, never touched by reconciliation.
	Item *ItemAttributes `json:"item,omitempty" yaml:"item,omitempty"`

	CreatedAt time.Time `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
}

// PrimaryAuthor returns the display name of the lowest-ordinal author
// contributor, or "" when the record has none.
func (r *CanonicalRecord) PrimaryAuthor() string {
	best := ""
	bestOrd := -1
	for _, c := range r.Contributors {
		if c.Role != ContributorRoleAuthor {
			continue
		}
		if bestOrd == -1 || c.Ordinal < bestOrd {
			best = c.Name
			bestOrd = c.Ordinal
		}
	}
	return best
}

// IdentifierValue returns the value of the first identifier of the given
// type, or "" when absent.
func (r *CanonicalRecord) IdentifierValue(typ IdentifierType) string {
	for _, id := range r.Identifiers {
		if id.Type == typ {
			return id.Value
		}
	}
	return ""
}

// ContributorRole classifies how a contributor relates to a work.
type ContributorRole string

// String returns the string representation of a ContributorRole.
func (r ContributorRole) String() string {
	return string(r)
}

// Contributor roles recognized by the merge applicator.
const (
	ContributorRoleAuthor      ContributorRole = "author"
	ContributorRoleTranslator  ContributorRole = "translator"
	ContributorRoleEditor      ContributorRole = "editor"
	ContributorRoleIllustrator ContributorRole = "illustrator"
	ContributorRoleNarrator    ContributorRole = "narrator"
)

// Contributor is one person or body attached to a record, ordered by
// Ordinal within its role.
type Contributor struct {
	Role    ContributorRole `json:"role" yaml:"role"`
	Ordinal int             `json:"ordinal" yaml:"ordinal"`
	Name    string          `json:"name" yaml:"name"`
}

// SubjectScheme tags which vocabulary a subject heading came from.
type SubjectScheme string

// Subject schemes carried by the catalog.
const (
	SubjectSchemeLCSH     SubjectScheme = "lcsh"
	SubjectSchemeFAST     SubjectScheme = "fast"
	SubjectSchemeFreeform SubjectScheme = "freeform"
)

// Subject is one classification heading tagged by scheme.
type Subject struct {
	Scheme SubjectScheme `json:"scheme" yaml:"scheme"`
	Value  string        `json:"value" yaml:"value"`
}

// SeriesMembership records optional membership of a record in a series.
type SeriesMembership struct {
	Name     string `json:"name" yaml:"name"`
	Position string `json:"position,omitempty" yaml:"position,omitempty"` // "3", "3.5"; providers are inconsistent so it stays a string
}

// ItemAttributes holds the physical/ownership attributes of one copy.
// Reconciliation never reads or writes these.
type ItemAttributes struct {
	Location      string     `json:"location,omitempty" yaml:"location,omitempty"`
	Condition     string     `json:"condition,omitempty" yaml:"condition,omitempty"`
	AcquiredAt    *time.Time `json:"acquired_at,omitempty" yaml:"acquired_at,omitempty"`
	AcquiredFrom  string     `json:"acquired_from,omitempty" yaml:"acquired_from,omitempty"`
	ReadingStatus string     `json:"reading_status,omitempty" yaml:"reading_status,omitempty"`
}
