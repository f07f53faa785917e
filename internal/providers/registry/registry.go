// Package registry maps provider IDs to client instances. Adapter packages
// register themselves in their init() functions; the providers package
// blank-imports the adapters to trigger registration.
package registry

import (
	"fmt"
	"sync"
	"time"

	"github.com/openshelf/openshelf/pkg/lookup"
)

// Config carries the runtime configuration for one provider client.
type Config struct {
	ID        lookup.ID     `json:"id" yaml:"id"`
	BaseURL   string        `json:"base_url,omitempty" yaml:"base_url,omitempty"`     // Override for the identifier endpoint
	SearchURL string        `json:"search_url,omitempty" yaml:"search_url,omitempty"` // Override for the free-text endpoint
	APIKeyEnv string        `json:"api_key_env,omitempty" yaml:"api_key_env,omitempty"`
	APIKey    string        `json:"-" yaml:"-"` // Resolved at load time, never serialized
	Timeout   time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
	Disabled  bool          `json:"disabled,omitempty" yaml:"disabled,omitempty"`
}

var (
	mu      sync.RWMutex
	clients = make(map[lookup.ID]lookup.Provider)
)

// Register registers a client instance for a provider ID.
// This is called by adapter packages in their init() functions.
func Register(id lookup.ID, client lookup.Provider) {
	mu.Lock()
	defer mu.Unlock()
	clients[id] = client
}

// Client returns a client configured for the given provider config.
func Client(cfg *Config) (lookup.Provider, error) {
	mu.RLock()
	client, exists := clients[cfg.ID]
	mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("no client registered for provider: %s", cfg.ID)
	}

	if configurable, ok := client.(interface{ Configure(*Config) }); ok {
		configurable.Configure(cfg)
	}

	return client, nil
}

// Has checks if a provider ID has a registered client.
func Has(id lookup.ID) bool {
	mu.RLock()
	defer mu.RUnlock()
	_, exists := clients[id]
	return exists
}

// Supported returns all provider IDs that have registered clients.
func Supported() []lookup.ID {
	mu.RLock()
	defer mu.RUnlock()

	ids := make([]lookup.ID, 0, len(clients))
	for id := range clients {
		ids = append(ids, id)
	}
	return ids
}
