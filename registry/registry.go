// Package registry provides the process-wide name to factory tables used to
// build plugins by name.
//
// Registries are populated from package init functions and only read
// afterwards. Register and Build are nevertheless guarded by a RWMutex so a
// late registration cannot race with a lookup.
package registry

import (
	"slices"
	"sync"

	"github.com/arloliu/pressio/errs"
)

// Factory creates a fresh, independently owned plugin instance.
type Factory[T any] func() T

// Registry maps plugin names to factories.
type Registry[T any] struct {
	kind      string
	mu        sync.RWMutex
	factories map[string]Factory[T]
}

// New creates an empty registry. kind names the plugin family in error messages.
func New[T any](kind string) *Registry[T] {
	return &Registry[T]{
		kind:      kind,
		factories: make(map[string]Factory[T]),
	}
}

// Register associates name with factory, replacing any previous registration.
func (r *Registry[T]) Register(name string, factory Factory[T]) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.factories[name] = factory
}

// Build creates a new instance of the plugin registered as name.
//
// Returns:
//   - T: the new instance
//   - error: ErrUnknownPlugin if nothing is registered under name
func (r *Registry[T]) Build(name string) (T, error) {
	r.mu.RLock()
	factory, ok := r.factories[name]
	r.mu.RUnlock()

	if !ok {
		var zero T
		return zero, errs.New(errs.CodeGeneric, errs.ErrUnknownPlugin, "unknown %s plugin: %q", r.kind, name)
	}

	return factory(), nil
}

// Has reports whether name is registered.
func (r *Registry[T]) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.factories[name]

	return ok
}

// Names returns the registered names in sorted order.
func (r *Registry[T]) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	slices.Sort(names)

	return names
}
