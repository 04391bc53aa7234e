package providers

import (
	"os"
	"sort"
	"sync"

	"github.com/petal-labs/unify/core"
	"github.com/petal-labs/unify/providers/ai21"
	"github.com/petal-labs/unify/providers/anthropic"
	"github.com/petal-labs/unify/providers/cohere"
	"github.com/petal-labs/unify/providers/ollama"
	"github.com/petal-labs/unify/providers/openai"
	"github.com/petal-labs/unify/providers/replicate"
	"github.com/petal-labs/unify/transport"
)

// Settings carries the per-provider values a Factory needs.
// Zero values leave the adapter's defaults in place.
type Settings struct {
	APIKey    string
	BaseURL   string
	Transport transport.Transport
	Estimator *core.Estimator
}

// Factory creates an adapter from settings.
// Some adapters (like Ollama) ignore the API key.
type Factory func(s Settings) core.Adapter

type entry struct {
	factory   Factory
	apiKeyEnv string
}

// Catalog maps provider names to adapter factories.
// A Catalog is built explicitly; there is no package-level table.
// Catalog is safe for concurrent use.
type Catalog struct {
	mu      sync.RWMutex
	entries map[string]entry
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{entries: make(map[string]entry)}
}

// DefaultCatalog returns a catalog holding every built-in adapter and
// OpenAI-compatible preset.
func DefaultCatalog() *Catalog {
	c := NewCatalog()

	c.Register("ollama", "OLLAMA_API_KEY", func(s Settings) core.Adapter {
		opts := []ollama.Option{}
		if s.APIKey != "" {
			opts = append(opts, ollama.WithAPIKey(s.APIKey))
		}
		if s.BaseURL != "" {
			opts = append(opts, ollama.WithBaseURL(s.BaseURL))
		}
		if s.Transport != nil {
			opts = append(opts, ollama.WithTransport(s.Transport))
		}
		if s.Estimator != nil {
			opts = append(opts, ollama.WithEstimator(*s.Estimator))
		}
		return ollama.New(opts...)
	})

	for _, preset := range openai.Presets() {
		name := preset.ID
		c.Register(name, preset.APIKeyEnv, func(s Settings) core.Adapter {
			opts := []openai.Option{openai.WithPreset(name)}
			if s.BaseURL != "" {
				opts = append(opts, openai.WithBaseURL(s.BaseURL))
			}
			if s.Transport != nil {
				opts = append(opts, openai.WithTransport(s.Transport))
			}
			if s.Estimator != nil {
				opts = append(opts, openai.WithEstimator(*s.Estimator))
			}
			return openai.New(s.APIKey, opts...)
		})
	}

	c.Register("anthropic", anthropic.DefaultAPIKeyEnvVar, func(s Settings) core.Adapter {
		opts := []anthropic.Option{}
		if s.BaseURL != "" {
			opts = append(opts, anthropic.WithBaseURL(s.BaseURL))
		}
		if s.Transport != nil {
			opts = append(opts, anthropic.WithTransport(s.Transport))
		}
		if s.Estimator != nil {
			opts = append(opts, anthropic.WithEstimator(*s.Estimator))
		}
		return anthropic.New(s.APIKey, opts...)
	})

	c.Register("cohere", cohere.DefaultAPIKeyEnvVar, func(s Settings) core.Adapter {
		opts := []cohere.Option{}
		if s.BaseURL != "" {
			opts = append(opts, cohere.WithBaseURL(s.BaseURL))
		}
		if s.Transport != nil {
			opts = append(opts, cohere.WithTransport(s.Transport))
		}
		if s.Estimator != nil {
			opts = append(opts, cohere.WithEstimator(*s.Estimator))
		}
		return cohere.New(s.APIKey, opts...)
	})

	c.Register("ai21", ai21.DefaultAPIKeyEnvVar, func(s Settings) core.Adapter {
		opts := []ai21.Option{}
		if s.BaseURL != "" {
			opts = append(opts, ai21.WithBaseURL(s.BaseURL))
		}
		if s.Transport != nil {
			opts = append(opts, ai21.WithTransport(s.Transport))
		}
		if s.Estimator != nil {
			opts = append(opts, ai21.WithEstimator(*s.Estimator))
		}
		return ai21.New(s.APIKey, opts...)
	})

	c.Register("replicate", replicate.DefaultAPIKeyEnvVar, func(s Settings) core.Adapter {
		opts := []replicate.Option{}
		if s.BaseURL != "" {
			opts = append(opts, replicate.WithBaseURL(s.BaseURL))
		}
		if s.Transport != nil {
			opts = append(opts, replicate.WithTransport(s.Transport))
		}
		if s.Estimator != nil {
			opts = append(opts, replicate.WithEstimator(*s.Estimator))
		}
		return replicate.New(s.APIKey, opts...)
	})

	return c
}

// Register adds a factory to the catalog.
// apiKeyEnv names the environment variable conventionally holding the key.
// If a factory with the same name is already registered, it will be overwritten.
func (c *Catalog) Register(name, apiKeyEnv string, factory Factory) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[name] = entry{factory: factory, apiKeyEnv: apiKeyEnv}
}

// Get retrieves a factory by name.
// Returns nil if the provider is not registered.
func (c *Catalog) Get(name string) Factory {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.entries[name].factory
}

// APIKeyEnv returns the environment variable conventionally holding the
// provider's API key, or "" if unknown.
func (c *Catalog) APIKeyEnv(name string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.entries[name].apiKeyEnv
}

// Create creates an adapter by name.
// Returns an error wrapping core.ErrUnsupportedProvider if the name is not registered.
func (c *Catalog) Create(name string, s Settings) (core.Adapter, error) {
	factory := c.Get(name)
	if factory == nil {
		return nil, core.UnsupportedProviderError(name, c.List())
	}
	return factory(s), nil
}

// List returns the names of all registered providers in sorted order.
func (c *Catalog) List() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.entries))
	for name := range c.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRegistered returns true if a provider with the given name is registered.
func (c *Catalog) IsRegistered(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.entries[name]
	return ok
}

// Registry builds a core.Registry holding one adapter per catalog entry.
// API keys are read from each entry's environment variable; overrides
// replace the settings for the named providers.
func (c *Catalog) Registry(overrides map[string]Settings) *core.Registry {
	r := core.NewRegistry()
	for _, name := range c.List() {
		s, ok := overrides[name]
		if !ok {
			s = Settings{}
		}
		if s.APIKey == "" {
			if env := c.APIKeyEnv(name); env != "" {
				s.APIKey = os.Getenv(env)
			}
		}
		r.RegisterAs(name, c.Get(name)(s))
	}
	return r
}
