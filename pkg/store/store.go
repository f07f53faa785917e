// Package store provides the client for the remote catalog store. The
// reconciliation core consumes the store through this narrow surface and
// owns no long-lived state of its own; records and duplicate groups are
// request/response snapshots.
package store

import (
	"github.com/openshelf/openshelf/pkg/bib"
)

// Patch is the minimal update applied to one catalog record. Descriptive
// fields patch individually; the related-entity lists mirror the store's
// PATCH semantics and are replace-whole, never append: a non-nil list
// replaces the record's entire list.
type Patch struct {
	Descriptive *DescriptivePatch `json:"descriptive,omitempty"`

	Identifiers  *[]bib.Identifier  `json:"identifiers,omitempty"`
	Contributors *[]bib.Contributor `json:"contributors,omitempty"`
	Subjects     *[]bib.Subject     `json:"subjects,omitempty"`

	// Notes carries the free-form metadata region, including the
	// enrichment audit trail.
	Notes *string `json:"notes,omitempty"`
}

// Empty reports whether the patch would change nothing.
func (p *Patch) Empty() bool {
	if p == nil {
		return true
	}
	return p.Descriptive == nil &&
		p.Identifiers == nil &&
		p.Contributors == nil &&
		p.Subjects == nil &&
		p.Notes == nil
}

// DescriptivePatch updates core descriptive metadata. Nil pointers leave
// the stored value untouched.
type DescriptivePatch struct {
	Title        *string               `json:"title,omitempty"`
	Subtitle     *string               `json:"subtitle,omitempty"`
	Publisher    *string               `json:"publisher,omitempty"`
	PublishPlace *string               `json:"publish_place,omitempty"`
	PublishDate  *string               `json:"publish_date,omitempty"`
	Pages        *int                  `json:"pages,omitempty"`
	Format       *string               `json:"format,omitempty"`
	Language     *string               `json:"language,omitempty"`
	DeweyDecimal *string               `json:"dewey_decimal,omitempty"`
	LCC          *string               `json:"lcc,omitempty"`
	Description  *string               `json:"description,omitempty"`
	Series       *bib.SeriesMembership `json:"series,omitempty"`
	CoverURL     *string               `json:"cover_url,omitempty"`
}

// ListQuery filters a catalog listing.
type ListQuery struct {
	Collection string `json:"collection,omitempty"`
	Search     string `json:"search,omitempty"`
	Limit      int    `json:"limit,omitempty"`
	Offset     int    `json:"offset,omitempty"`
}

// MergeResult reports one duplicate-group merge.
type MergeResult struct {
	DeletedCount int `json:"deleted_count"`
}

// MergeAllResult reports a bulk merge across all duplicate groups.
type MergeAllResult struct {
	GroupsMerged int `json:"groups_merged"`
	TotalDeleted int `json:"total_deleted"`
}
