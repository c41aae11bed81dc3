// Package registry owns long-lived report definitions. Schemas are loaded
// once, registered under a key, and reused across many execution requests;
// requests either check out a deep copy or run against the shared instance
// under its lock.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"go-reportdef/pkg/reportdef"

	"go.uber.org/zap"
)

type entry struct {
	mu  sync.Mutex
	def *reportdef.Definition
}

type Registry struct {
	mu      sync.RWMutex
	entries map[string]*entry
	log     *zap.Logger
}

// New builds a registry. A nil logger disables logging.
func New(log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{
		entries: make(map[string]*entry),
		log:     log,
	}
}

// Register adds a definition under key. Keys are unique.
func (r *Registry) Register(key string, def *reportdef.Definition) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entries[key]; exists {
		return fmt.Errorf("definition %q is already registered", key)
	}
	r.entries[key] = &entry{def: def}
	r.log.Info("registered report definition",
		zap.String("key", key),
		zap.String("title", def.Title()),
		zap.Int("variables", len(def.Variables())))
	return nil
}

// Get returns the shared definition instance. Mutating it without
// WithExclusive is a data race when the registry is shared.
func (r *Registry) Get(key string) (*reportdef.Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[key]
	if !ok {
		return nil, false
	}
	return e.def, true
}

// Keys lists registered definition keys in sorted order.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]string, 0, len(r.entries))
	for k := range r.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Checkout returns a deep copy of the definition, live values included.
// The copy is the caller's own; the shared schema stays untouched.
func (r *Registry) Checkout(key string) (*reportdef.Definition, error) {
	r.mu.RLock()
	e, ok := r.entries[key]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("definition %q is not registered", key)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	clone, err := e.def.Clone()
	if err != nil {
		return nil, fmt.Errorf("checkout %q: %w", key, err)
	}
	return clone, nil
}

// WithExclusive runs fn holding the definition's lock, for requests that
// mutate the shared instance for their duration.
func (r *Registry) WithExclusive(key string, fn func(*reportdef.Definition) error) error {
	r.mu.RLock()
	e, ok := r.entries[key]
	r.mu.RUnlock()
	if !ok {
		return fmt.Errorf("definition %q is not registered", key)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.def)
}
