package lookup

import (
	"time"

	"github.com/openshelf/openshelf/pkg/errors"
)

// options configures an orchestrator.
type options struct {
	providers    []Provider
	perCall      time.Duration // budget for one provider attempt
	delay        time.Duration // politeness delay between provider calls
	maxProviders int           // bound on providers tried per free-text search
	progress     ProgressFunc
}

func defaultOptions() *options {
	return &options{
		perCall:      10 * time.Second,
		delay:        200 * time.Millisecond,
		maxProviders: 4,
	}
}

// Option is a function that configures an Orchestrator.
type Option func(*options) error

func newOptions(opts ...Option) (*options, error) {
	options := defaultOptions()
	for _, opt := range opts {
		if err := opt(options); err != nil {
			return nil, err
		}
	}
	return options, nil
}

// WithProviders sets the providers to cascade over, in priority order.
func WithProviders(providers ...Provider) Option {
	return func(o *options) error {
		if len(providers) == 0 {
			return &errors.ValidationError{
				Field:   "providers",
				Message: "at least one provider required",
			}
		}
		o.providers = providers
		return nil
	}
}

// WithCallTimeout bounds a single provider attempt. A hung provider never
// blocks the rest of the cascade beyond this budget.
func WithCallTimeout(d time.Duration) Option {
	return func(o *options) error {
		if d <= 0 {
			return &errors.ValidationError{
				Field:   "call timeout",
				Message: "must be positive",
			}
		}
		o.perCall = d
		return nil
	}
}

// WithDelay sets the politeness delay between sequential provider calls.
// Zero disables the delay (useful in tests).
func WithDelay(d time.Duration) Option {
	return func(o *options) error {
		if d < 0 {
			return &errors.ValidationError{
				Field:   "delay",
				Message: "must not be negative",
			}
		}
		o.delay = d
		return nil
	}
}

// WithMaxProviders bounds how many providers a free-text search consults.
func WithMaxProviders(n int) Option {
	return func(o *options) error {
		if n < 1 {
			return &errors.ValidationError{
				Field:   "max providers",
				Message: "must be at least 1",
			}
		}
		o.maxProviders = n
		return nil
	}
}

// WithProgress sets the progress sink notified after each provider attempt.
func WithProgress(fn ProgressFunc) Option {
	return func(o *options) error {
		o.progress = fn
		return nil
	}
}
