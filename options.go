package openshelf

import (
	"time"

	"github.com/openshelf/openshelf/pkg/errors"
	"github.com/openshelf/openshelf/pkg/lookup"
	"github.com/openshelf/openshelf/pkg/store"
)

// Option is a function that configures an OpenShelf client.
type Option func(*config) error

type config struct {
	storeURL           string
	storeAPIKey        string
	storeClient        *store.Client
	providerConfigPath string
	providers          []lookup.Provider
	callTimeout        time.Duration
	delay              time.Duration
	maxProviders       int
	progress           lookup.ProgressFunc
}

func defaultConfig() *config {
	return &config{
		callTimeout:  10 * time.Second,
		delay:        200 * time.Millisecond,
		maxProviders: 4,
	}
}

// WithStore configures the remote catalog store. The API key may be empty
// for stores that do not require one.
func WithStore(url, apiKey string) Option {
	return func(c *config) error {
		if url == "" {
			return &errors.ValidationError{Field: "store_url", Message: "store URL must not be empty"}
		}
		c.storeURL = url
		c.storeAPIKey = apiKey
		return nil
	}
}

// WithStoreClient supplies a pre-built store client, overriding WithStore.
func WithStoreClient(client *store.Client) Option {
	return func(c *config) error {
		if client == nil {
			return &errors.ValidationError{Field: "store_client", Message: "store client must not be nil"}
		}
		c.storeClient = client
		return nil
	}
}

// WithProviderConfig loads the source set from a YAML config file instead
// of the built-in defaults.
func WithProviderConfig(path string) Option {
	return func(c *config) error {
		c.providerConfigPath = path
		return nil
	}
}

// WithProviders supplies the source set directly, bypassing config
// loading entirely.
func WithProviders(providers ...lookup.Provider) Option {
	return func(c *config) error {
		c.providers = providers
		return nil
	}
}

// WithCallTimeout caps each individual source call.
func WithCallTimeout(timeout time.Duration) Option {
	return func(c *config) error {
		if timeout <= 0 {
			return &errors.ValidationError{Field: "call_timeout", Value: timeout, Message: "timeout must be positive"}
		}
		c.callTimeout = timeout
		return nil
	}
}

// WithDelay sets the politeness pause between consecutive source calls.
func WithDelay(delay time.Duration) Option {
	return func(c *config) error {
		if delay < 0 {
			return &errors.ValidationError{Field: "delay", Value: delay, Message: "delay must not be negative"}
		}
		c.delay = delay
		return nil
	}
}

// WithMaxProviders caps how many sources a free-text search fans over.
func WithMaxProviders(n int) Option {
	return func(c *config) error {
		if n < 1 {
			return &errors.ValidationError{Field: "max_providers", Value: n, Message: "at least one provider is required"}
		}
		c.maxProviders = n
		return nil
	}
}

// WithProgress registers a lookup progress callback.
func WithProgress(fn lookup.ProgressFunc) Option {
	return func(c *config) error {
		c.progress = fn
		return nil
	}
}
