package protocol

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Registry maintains known protocols.
type Registry struct {
	mu        sync.RWMutex
	protocols map[string]Protocol
	builtin   map[string]bool
}

// NewRegistry returns a registry seeded with the built-in protocols.
func NewRegistry() *Registry {
	r := &Registry{
		protocols: map[string]Protocol{},
		builtin:   map[string]bool{},
	}
	for _, p := range builtins() {
		r.protocols[p.ID] = p
		r.builtin[p.ID] = true
	}
	return r
}

// Register installs a protocol. Built-in ids cannot be shadowed, and an id
// can only be registered once.
func (r *Registry) Register(p Protocol) error {
	p = p.Normalized()
	if err := p.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.builtin[p.ID] {
		return fmt.Errorf("protocol: %s is built in and cannot be replaced", p.ID)
	}
	if _, exists := r.protocols[p.ID]; exists {
		return fmt.Errorf("protocol: %s already registered", p.ID)
	}
	r.protocols[p.ID] = p
	return nil
}

// Get looks up a protocol by id (case insensitive).
func (r *Registry) Get(id string) (Protocol, error) {
	key := strings.ToLower(strings.TrimSpace(id))
	r.mu.RLock()
	p, ok := r.protocols[key]
	r.mu.RUnlock()
	if !ok {
		return Protocol{}, fmt.Errorf("protocol: %q: %w", id, ErrUnknownProtocol)
	}
	return p, nil
}

// IDs returns a sorted list of registered protocol identifiers.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.protocols))
	for id := range r.protocols {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
