package core

import (
	"sort"
	"sync"
)

// Registry maps provider identifiers to adapters.
// It is built explicitly and handed to a Client; there is no package-level table.
// Registry is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	adapters map[string]Adapter
}

// NewRegistry creates a registry holding the given adapters.
func NewRegistry(adapters ...Adapter) *Registry {
	r := &Registry{adapters: make(map[string]Adapter, len(adapters))}
	for _, a := range adapters {
		r.Register(a)
	}
	return r
}

// Register adds an adapter under its ID, replacing any previous one.
func (r *Registry) Register(a Adapter) {
	if a == nil {
		return
	}
	r.RegisterAs(a.ID(), a)
}

// RegisterAs adds an adapter under an explicit identifier.
// This lets one adapter type serve several presets (e.g. "mistral" backed by
// the OpenAI-compatible adapter).
func (r *Registry) RegisterAs(id string, a Adapter) {
	if a == nil || id == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.adapters[id] = a
}

// Resolve returns the adapter for id, or an error wrapping ErrUnsupportedProvider.
func (r *Registry) Resolve(id string) (Adapter, error) {
	r.mu.RLock()
	a, ok := r.adapters[id]
	r.mu.RUnlock()
	if !ok {
		return nil, UnsupportedProviderError(id, r.IDs())
	}
	return a, nil
}

// IDs returns the registered identifiers in sorted order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.adapters))
	for id := range r.adapters {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Has reports whether id is registered.
func (r *Registry) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.adapters[id]
	return ok
}
