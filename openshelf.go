// Package openshelf reconciles a personal book catalog against external
// bibliographic sources. It ties together the source lookup cascade, the
// field diff and merge pipeline, duplicate review, and the remote catalog
// store behind one facade.
package openshelf

import (
	"context"

	"github.com/openshelf/openshelf/internal/providers"
	"github.com/openshelf/openshelf/pkg/bib"
	"github.com/openshelf/openshelf/pkg/dedupe"
	"github.com/openshelf/openshelf/pkg/diff"
	"github.com/openshelf/openshelf/pkg/enrich"
	"github.com/openshelf/openshelf/pkg/errors"
	"github.com/openshelf/openshelf/pkg/lookup"
	"github.com/openshelf/openshelf/pkg/merge"
	"github.com/openshelf/openshelf/pkg/store"
)

// OpenShelf is the top-level client for catalog reconciliation.
type OpenShelf interface {
	// Lookup resolves one identifier or free-text key to the best
	// candidate record across the configured sources.
	Lookup(ctx context.Context, key string) (*bib.CandidateRecord, error)

	// Search returns ranked candidate records for a free-text query.
	Search(ctx context.Context, query string, hints *lookup.Hints) ([]bib.CandidateRecord, error)

	// Propose looks up source data for a stored record and returns the
	// field-level changes the sources suggest. Nothing is written.
	Propose(ctx context.Context, itemID string, fields []string) (*Proposal, error)

	// Apply patches a stored record with the approved subset of a
	// proposal's diffs.
	Apply(ctx context.Context, proposal *Proposal, approved []diff.FieldDiff) error

	// Enrich runs batch enrichment over the given items.
	Enrich(ctx context.Context, itemIDs []string, opts ...enrich.Option) (*enrich.Summary, error)

	// DuplicateGroups fetches the store's current duplicate groups.
	DuplicateGroups(ctx context.Context) ([]bib.DuplicateGroup, error)

	// NewReviewSession starts an interactive duplicate review over the
	// store's current groups.
	NewReviewSession(ctx context.Context) (*dedupe.Session, error)

	// MergeAllDuplicates merges every duplicate group in one call.
	MergeAllDuplicates(ctx context.Context) (*store.MergeAllResult, error)

	// Store exposes the underlying catalog store client.
	Store() *store.Client
}

// Proposal pairs a stored record with the diffs a lookup produced for it.
type Proposal struct {
	Record    *bib.CanonicalRecord
	Candidate *bib.CandidateRecord
	Diffs     []diff.FieldDiff
}

type openshelf struct {
	config       *config
	store        *store.Client
	orchestrator lookup.Orchestrator
}

// New builds an OpenShelf client. A store URL (or client) is required;
// providers default to the full built-in set when none are configured.
func New(opts ...Option) (OpenShelf, error) {
	c := defaultConfig()
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	st := c.storeClient
	if st == nil {
		if c.storeURL == "" {
			return nil, &errors.ValidationError{Field: "store", Message: "a store URL or client is required"}
		}
		st = store.NewClient(c.storeURL, c.storeAPIKey)
	}

	set := c.providers
	if len(set) == 0 {
		var err error
		if c.providerConfigPath != "" {
			set, err = providers.Load(c.providerConfigPath)
		} else {
			set, err = providers.Default()
		}
		if err != nil {
			return nil, err
		}
	}

	orchestrator, err := lookup.New(
		lookup.WithProviders(set...),
		lookup.WithCallTimeout(c.callTimeout),
		lookup.WithDelay(c.delay),
		lookup.WithMaxProviders(c.maxProviders),
		lookup.WithProgress(c.progress),
	)
	if err != nil {
		return nil, err
	}

	return &openshelf{
		config:       c,
		store:        st,
		orchestrator: orchestrator,
	}, nil
}

func (o *openshelf) Lookup(ctx context.Context, key string) (*bib.CandidateRecord, error) {
	return o.orchestrator.Lookup(ctx, key)
}

func (o *openshelf) Search(ctx context.Context, query string, hints *lookup.Hints) ([]bib.CandidateRecord, error) {
	return o.orchestrator.Search(ctx, query, hints)
}

func (o *openshelf) Propose(ctx context.Context, itemID string, fields []string) (*Proposal, error) {
	for _, f := range fields {
		if diff.CategoryOf(f) == "" {
			return nil, &errors.ValidationError{Field: "fields", Value: f, Message: "unknown enrichable field"}
		}
	}
	record, err := o.store.GetRecord(ctx, itemID)
	if err != nil {
		return nil, err
	}
	candidate, err := o.orchestrator.Lookup(ctx, proposalKey(record))
	if err != nil {
		return nil, err
	}
	return &Proposal{
		Record:    record,
		Candidate: candidate,
		Diffs:     diff.Compute(diff.Flatten(record), candidate, fields),
	}, nil
}

func (o *openshelf) Apply(ctx context.Context, proposal *Proposal, approved []diff.FieldDiff) error {
	if proposal == nil || proposal.Record == nil {
		return &errors.ValidationError{Field: "proposal", Message: "proposal with a record is required"}
	}
	if len(approved) == 0 {
		return nil
	}
	var sources []string
	if proposal.Candidate != nil {
		sources = proposal.Candidate.Sources
	}
	patch, err := merge.BuildPatch(proposal.Record, approved, sources)
	if err != nil {
		return err
	}
	return o.store.PatchRecord(ctx, proposal.Record.ID, patch)
}

func (o *openshelf) Enrich(ctx context.Context, itemIDs []string, opts ...enrich.Option) (*enrich.Summary, error) {
	runner, err := enrich.New(o.store, o.orchestrator, opts...)
	if err != nil {
		return nil, err
	}
	return runner.Run(ctx, itemIDs)
}

func (o *openshelf) DuplicateGroups(ctx context.Context) ([]bib.DuplicateGroup, error) {
	return o.store.GetDuplicateGroups(ctx)
}

func (o *openshelf) NewReviewSession(ctx context.Context) (*dedupe.Session, error) {
	groups, err := o.store.GetDuplicateGroups(ctx)
	if err != nil {
		return nil, err
	}
	if len(groups) == 0 {
		return nil, &errors.NotFoundError{Resource: "duplicate groups"}
	}
	return dedupe.NewSession(o.store, groups)
}

func (o *openshelf) MergeAllDuplicates(ctx context.Context) (*store.MergeAllResult, error) {
	return dedupe.MergeAll(ctx, o.store)
}

func (o *openshelf) Store() *store.Client {
	return o.store
}

// proposalKey mirrors the batch runner's key preference: strongest
// identifier first, then free text.
func proposalKey(record *bib.CanonicalRecord) string {
	for _, typ := range []bib.IdentifierType{bib.IdentifierISBN13, bib.IdentifierISBN10, bib.IdentifierLCCN} {
		if v := record.IdentifierValue(typ); v != "" {
			return v
		}
	}
	key := record.Title
	if author := record.PrimaryAuthor(); author != "" {
		key += " by " + author
	}
	return key
}
