// Package registry provides the key to behaviour tables that attribute modules
// plug into. The core never knows the concrete attribute types behind a key.
package registry

import (
	"sort"
	"sync"
)

// Registry maps an attribute key to one kind of behaviour.
//
// Registering a key twice keeps the last value. Looking up a key that was
// never registered is not an error: the attribute simply has no such
// behaviour.
type Registry[T any] struct {
	mu    sync.RWMutex
	impls map[string]T
}

// New creates an empty registry.
func New[T any]() *Registry[T] {
	return &Registry[T]{impls: make(map[string]T)}
}

// Register stores behavior under key, replacing any previous entry.
func (r *Registry[T]) Register(key string, behavior T) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.impls == nil {
		r.impls = make(map[string]T)
	}
	r.impls[key] = behavior
}

// GetImplementation returns the behaviour for key. The second result is false
// when nothing was registered.
func (r *Registry[T]) GetImplementation(key string) (T, bool) {
	var zero T
	if r == nil {
		return zero, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	impl, ok := r.impls[key]
	if !ok {
		return zero, false
	}
	return impl, true
}

// Has reports whether key has a registered behaviour.
func (r *Registry[T]) Has(key string) bool {
	_, ok := r.GetImplementation(key)
	return ok
}

// Keys returns the registered keys in sorted order.
func (r *Registry[T]) Keys() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	keys := make([]string, 0, len(r.impls))
	for k := range r.impls {
		keys = append(keys, k)
	}
	r.mu.RUnlock()
	sort.Strings(keys)
	return keys
}

// Len returns the number of registered keys.
func (r *Registry[T]) Len() int {
	if r == nil {
		return 0
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.impls)
}
