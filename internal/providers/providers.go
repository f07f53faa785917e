// Package providers assembles the configured set of bibliographic provider
// clients in priority order, ready for the lookup orchestrator.
package providers

import (
	"os"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/openshelf/openshelf/internal/providers/registry"
	"github.com/openshelf/openshelf/pkg/errors"
	"github.com/openshelf/openshelf/pkg/logging"
	"github.com/openshelf/openshelf/pkg/lookup"
)

// fileConfig is the YAML shape of a providers config file. Order in the
// file is priority order.
type fileConfig struct {
	Providers []providerEntry `yaml:"providers"`
}

type providerEntry struct {
	ID        string `yaml:"id"`
	BaseURL   string `yaml:"base_url"`
	SearchURL string `yaml:"search_url"`
	APIKeyEnv string `yaml:"api_key_env"`
	Timeout   string `yaml:"timeout"`
	Disabled  bool   `yaml:"disabled"`
}

// apiKeyEnvDefaults maps providers to the environment variable their key is
// conventionally read from when the config file does not say otherwise.
var apiKeyEnvDefaults = map[lookup.ID]string{
	lookup.GoogleBooksID: "GOOGLE_BOOKS_API_KEY",
}

// Default builds the default provider set: every registered provider in
// default priority order, keys resolved from the environment.
func Default() ([]lookup.Provider, error) {
	entries := make([]providerEntry, 0, len(lookup.IDs()))
	for _, id := range lookup.IDs() {
		entries = append(entries, providerEntry{ID: id.String()})
	}
	return build(entries)
}

// Load reads a providers config file and builds clients in file order.
func Load(path string) ([]lookup.Provider, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &errors.ConfigError{Component: "providers", Message: "reading config file", Err: err}
	}

	var cfg fileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, &errors.ConfigError{Component: "providers", Message: "parsing config file", Err: err}
	}
	if len(cfg.Providers) == 0 {
		return Default()
	}
	return build(cfg.Providers)
}

// build resolves entries into configured clients. Unknown or disabled
// providers are skipped with a log line rather than failing the whole set.
func build(entries []providerEntry) ([]lookup.Provider, error) {
	clients := make([]lookup.Provider, 0, len(entries))
	for _, entry := range entries {
		if entry.Disabled {
			continue
		}

		id := lookup.ID(entry.ID)
		if !registry.Has(id) {
			logging.Warn().
				Str("provider", entry.ID).
				Msg("No client registered for configured provider, skipping")
			continue
		}

		cfg := &registry.Config{
			ID:        id,
			BaseURL:   entry.BaseURL,
			SearchURL: entry.SearchURL,
			APIKeyEnv: entry.APIKeyEnv,
		}
		if cfg.APIKeyEnv == "" {
			cfg.APIKeyEnv = apiKeyEnvDefaults[id]
		}
		if cfg.APIKeyEnv != "" {
			cfg.APIKey = os.Getenv(cfg.APIKeyEnv)
		}
		if entry.Timeout != "" {
			d, err := time.ParseDuration(entry.Timeout)
			if err != nil {
				return nil, &errors.ConfigError{
					Component: "providers",
					Message:   "invalid timeout for provider " + entry.ID,
					Err:       err,
				}
			}
			cfg.Timeout = d
		}

		client, err := registry.Client(cfg)
		if err != nil {
			return nil, &errors.ConfigError{Component: "providers", Message: "building client", Err: err}
		}
		clients = append(clients, client)
	}

	if len(clients) == 0 {
		return nil, &errors.ConfigError{Component: "providers", Message: "no usable providers configured"}
	}
	return clients, nil
}
