package enrich

import (
	"github.com/openshelf/openshelf/pkg/diff"
	"github.com/openshelf/openshelf/pkg/errors"
)

// Option configures a Runner.
type Option func(*Runner) error

// WithFields restricts enrichment to the given diff field keys.
func WithFields(fields []string) Option {
	return func(r *Runner) error {
		for _, f := range fields {
			if diff.CategoryOf(f) == "" {
				return &errors.ValidationError{Field: "fields", Value: f, Message: "unknown enrichable field"}
			}
		}
		r.fields = fields
		return nil
	}
}

// WithApprover replaces the default fill-gaps approval policy.
func WithApprover(approve Approver) Option {
	return func(r *Runner) error {
		if approve == nil {
			return &errors.ValidationError{Field: "approver", Message: "approver must not be nil"}
		}
		r.approve = approve
		return nil
	}
}

// WithProgress registers a per-record progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(r *Runner) error {
		r.progress = fn
		return nil
	}
}
