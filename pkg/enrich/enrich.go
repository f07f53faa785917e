// Package enrich runs batch enrichment: for each catalog item it looks up
// external source data, diffs it against the stored record, applies an
// approval policy, and patches the store with whatever survives. A failure
// on one record never aborts the run.
package enrich

import (
	"context"
	"strings"

	"github.com/openshelf/openshelf/pkg/bib"
	"github.com/openshelf/openshelf/pkg/diff"
	"github.com/openshelf/openshelf/pkg/errors"
	"github.com/openshelf/openshelf/pkg/logging"
	"github.com/openshelf/openshelf/pkg/lookup"
	"github.com/openshelf/openshelf/pkg/merge"
	"github.com/openshelf/openshelf/pkg/store"
)

// Status classifies the outcome of one record in a batch run.
type Status string

// Per-record outcomes.
const (
	StatusApplied Status = "applied" // at least one field patched
	StatusSkipped Status = "skipped" // nothing to change
	StatusFailed  Status = "failed"  // lookup or patch error
)

// Outcome reports what happened to one record.
type Outcome struct {
	ItemID string
	Status Status
	Fields []string // diff keys applied
	Reason string   // why skipped or failed
}

// Summary tallies a whole run.
type Summary struct {
	Applied  int
	Skipped  int
	Failed   int
	Outcomes []Outcome
}

// Store is the slice of the remote store client the runner needs.
// *store.Client satisfies it.
type Store interface {
	GetRecord(ctx context.Context, id string) (*bib.CanonicalRecord, error)
	PatchRecord(ctx context.Context, id string, patch *store.Patch) error
}

// Approver decides which proposed diffs get applied. Returning an empty
// slice skips the record.
type Approver func(diffs []diff.FieldDiff) []diff.FieldDiff

// ApproveNew approves only fields the record does not have yet. This is
// the default policy: unattended runs fill gaps, they never overwrite.
func ApproveNew(diffs []diff.FieldDiff) []diff.FieldDiff {
	approved := make([]diff.FieldDiff, 0, len(diffs))
	for _, d := range diffs {
		if d.NewField {
			approved = append(approved, d)
		}
	}
	return approved
}

// ApproveAll approves every proposed diff.
func ApproveAll(diffs []diff.FieldDiff) []diff.FieldDiff {
	return diffs
}

// Runner drives batch enrichment over a set of item IDs.
type Runner struct {
	store        Store
	orchestrator lookup.Orchestrator
	approve      Approver
	fields       []string
	progress     ProgressFunc
}

// ProgressFunc observes batch progress, one call per record processed.
type ProgressFunc func(current, total int, itemID string, status Status)

// New builds a batch runner.
func New(st Store, orchestrator lookup.Orchestrator, opts ...Option) (*Runner, error) {
	if st == nil {
		return nil, &errors.ValidationError{Field: "store", Message: "store client is required"}
	}
	if orchestrator == nil {
		return nil, &errors.ValidationError{Field: "orchestrator", Message: "lookup orchestrator is required"}
	}
	r := &Runner{
		store:        st,
		orchestrator: orchestrator,
		approve:      ApproveNew,
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Run enriches each item in order. Cancellation is cooperative: the run
// stops between records and returns the partial summary alongside the
// context error.
func (r *Runner) Run(ctx context.Context, itemIDs []string) (*Summary, error) {
	summary := &Summary{}
	total := len(itemIDs)
	for i, itemID := range itemIDs {
		if err := ctx.Err(); err != nil {
			return summary, errors.ErrCanceled
		}
		outcome := r.enrichOne(ctx, itemID)
		summary.Outcomes = append(summary.Outcomes, outcome)
		switch outcome.Status {
		case StatusApplied:
			summary.Applied++
		case StatusSkipped:
			summary.Skipped++
		case StatusFailed:
			summary.Failed++
		}
		if r.progress != nil {
			r.progress(i+1, total, itemID, outcome.Status)
		}
	}
	logging.Ctx(ctx).Info().
		Int("applied", summary.Applied).
		Int("skipped", summary.Skipped).
		Int("failed", summary.Failed).
		Msg("Batch enrichment finished")
	return summary, nil
}

func (r *Runner) enrichOne(ctx context.Context, itemID string) Outcome {
	record, err := r.store.GetRecord(ctx, itemID)
	if err != nil {
		return failed(itemID, "load record: "+err.Error())
	}

	candidate, err := r.orchestrator.Lookup(ctx, lookupKey(record))
	if err != nil {
		if errors.IsNotFound(err) {
			return skipped(itemID, "no source found the record")
		}
		return failed(itemID, "lookup: "+err.Error())
	}

	diffs := diff.Compute(diff.Flatten(record), candidate, r.fields)
	approved := r.approve(diffs)
	if len(approved) == 0 {
		return skipped(itemID, "nothing to change")
	}

	patch, err := merge.BuildPatch(record, approved, candidate.Sources)
	if err != nil {
		return failed(itemID, "build patch: "+err.Error())
	}
	if err := r.store.PatchRecord(ctx, itemID, patch); err != nil {
		return failed(itemID, "patch record: "+err.Error())
	}

	fields := make([]string, 0, len(approved))
	for _, d := range approved {
		fields = append(fields, d.Key)
	}
	return Outcome{ItemID: itemID, Status: StatusApplied, Fields: fields}
}

// lookupKey prefers the strongest identifier on the record, falling back
// to a free-text "title by author" query.
func lookupKey(record *bib.CanonicalRecord) string {
	for _, typ := range []bib.IdentifierType{bib.IdentifierISBN13, bib.IdentifierISBN10, bib.IdentifierLCCN} {
		if v := record.IdentifierValue(typ); v != "" {
			return v
		}
	}
	key := strings.TrimSpace(record.Title)
	if author := record.PrimaryAuthor(); author != "" {
		key += " by " + author
	}
	return key
}

func skipped(itemID, reason string) Outcome {
	return Outcome{ItemID: itemID, Status: StatusSkipped, Reason: reason}
}

func failed(itemID, reason string) Outcome {
	return Outcome{ItemID: itemID, Status: StatusFailed, Reason: reason}
}
