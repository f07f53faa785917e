package lookup

import (
	"context"
	"strings"
	"time"

	"github.com/openshelf/openshelf/pkg/bib"
	"github.com/openshelf/openshelf/pkg/errors"
	"github.com/openshelf/openshelf/pkg/logging"
)

// Orchestrator cascades a search key over a prioritized set of providers.
type Orchestrator interface {
	// Lookup resolves one search key to the most likely candidate record.
	// Identifier keys stop at the first provider with a usable result;
	// free-text keys return the top-ranked search result.
	// Returns errors.ErrNotFound when no provider contributed anything.
	Lookup(ctx context.Context, key string) (*bib.CandidateRecord, error)

	// Search collects free-text results from multiple providers and returns
	// them ranked most-likely-correct first.
	Search(ctx context.Context, query string, hints *Hints) ([]bib.CandidateRecord, error)
}

// orchestrator is the default implementation of Orchestrator.
type orchestrator struct {
	providers    []Provider
	perCall      time.Duration
	delay        time.Duration
	maxProviders int
	progress     ProgressFunc
}

// New creates a new Orchestrator with options. At least one provider is
// required.
func New(opts ...Option) (Orchestrator, error) {
	options, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}
	if len(options.providers) == 0 {
		return nil, &errors.ValidationError{
			Field:   "providers",
			Message: "at least one provider required",
		}
	}
	return &orchestrator{
		providers:    options.providers,
		perCall:      options.perCall,
		delay:        options.delay,
		maxProviders: options.maxProviders,
		progress:     options.progress,
	}, nil
}

// Lookup resolves one search key to a candidate record.
func (o *orchestrator) Lookup(ctx context.Context, key string) (*bib.CandidateRecord, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, &errors.ValidationError{Field: "key", Message: "search key is empty"}
	}

	if bib.LooksLikeIdentifier(key) {
		return o.lookupIdentifier(ctx, bib.NormalizeIdentifier(key))
	}

	// Free text: "title" or "title by author". Rank across providers and
	// hand back the best match.
	results, err := o.Search(ctx, key, nil)
	if err != nil {
		return nil, err
	}
	return &results[0], nil
}

// lookupIdentifier cascades providers sequentially, stopping at the first
// usable result. This trades completeness for latency and provider
// politeness.
func (o *orchestrator) lookupIdentifier(ctx context.Context, identifier string) (*bib.CandidateRecord, error) {
	logger := logging.FromContext(ctx)
	total := len(o.providers)

	for i, provider := range o.providers {
		if err := o.pause(ctx, i); err != nil {
			return nil, err
		}

		record, err := o.attempt(ctx, provider, func(callCtx context.Context) (*bib.CandidateRecord, error) {
			return provider.Lookup(callCtx, identifier)
		})
		o.progress.notify(i+1, total, provider.ID().String())

		if err != nil {
			// One provider contributing nothing is never fatal for the
			// overall lookup.
			logger.Warn().
				Err(err).
				Str("provider", provider.ID().String()).
				Str("identifier", identifier).
				Msg("Provider lookup failed, continuing cascade")
			continue
		}
		if record == nil || record.Empty() {
			logger.Debug().
				Str("provider", provider.ID().String()).
				Str("identifier", identifier).
				Msg("Provider returned no data")
			continue
		}

		logger.Info().
			Str("provider", provider.ID().String()).
			Str("identifier", identifier).
			Int("attempt", i+1).
			Msg("Identifier resolved")
		return record, nil
	}

	return nil, &errors.NotFoundError{Resource: "record", ID: identifier}
}

// Search collects results from up to maxProviders providers sequentially
// and returns them ranked.
func (o *orchestrator) Search(ctx context.Context, query string, hints *Hints) ([]bib.CandidateRecord, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, &errors.ValidationError{Field: "query", Message: "query is empty"}
	}

	logger := logging.FromContext(ctx)
	providers := o.providers
	if len(providers) > o.maxProviders {
		providers = providers[:o.maxProviders]
	}
	total := len(providers)

	var collected []bib.CandidateRecord
	for i, provider := range providers {
		if err := o.pause(ctx, i); err != nil {
			return nil, err
		}

		results, err := o.attemptSearch(ctx, provider, query, hints)
		o.progress.notify(i+1, total, provider.ID().String())

		if err != nil {
			logger.Warn().
				Err(err).
				Str("provider", provider.ID().String()).
				Str("query", query).
				Msg("Provider search failed, continuing cascade")
			continue
		}
		for _, r := range results {
			if !r.Empty() {
				collected = append(collected, r)
			}
		}
	}

	if len(collected) == 0 {
		return nil, &errors.NotFoundError{Resource: "record", ID: query}
	}

	rank(collected, query, hints)
	return collected, nil
}

// attempt runs one provider call under the per-call budget.
func (o *orchestrator) attempt(ctx context.Context, provider Provider, call func(context.Context) (*bib.CandidateRecord, error)) (*bib.CandidateRecord, error) {
	callCtx, cancel := context.WithTimeout(ctx, o.perCall)
	defer cancel()
	return call(callCtx)
}

// attemptSearch runs one provider search under the per-call budget.
func (o *orchestrator) attemptSearch(ctx context.Context, provider Provider, query string, hints *Hints) ([]bib.CandidateRecord, error) {
	callCtx, cancel := context.WithTimeout(ctx, o.perCall)
	defer cancel()
	return provider.Search(callCtx, query, hints)
}

// pause applies the inter-call politeness delay before every attempt after
// the first, honoring cancellation. Cancellation between provider calls is
// the cascade's cooperative abort point.
func (o *orchestrator) pause(ctx context.Context, attempt int) error {
	if attempt == 0 || o.delay == 0 {
		if err := ctx.Err(); err != nil {
			return errors.ErrCanceled
		}
		return nil
	}

	timer := time.NewTimer(o.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return errors.ErrCanceled
	case <-timer.C:
		return nil
	}
}
