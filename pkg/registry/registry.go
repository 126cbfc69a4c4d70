// Package registry tracks which models have a live record handler.
//
// The registry is an explicit service object owned by the composition root.
// Registration is one-way within a process: names are added when a model is
// published (or re-seeded at startup) and never removed. Deleting a model
// does not unmount its handler; the next request fails its declaration load
// instead.
package registry

import (
	"net/http"
	"strings"
	"sync"
)

// HandlerFactory constructs the record handler for a model name. The
// registry calls it at most once per name.
type HandlerFactory func(name string) http.Handler

// Registry holds the live mapping from lowercased model name to handler.
// Safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]http.Handler
	factory  HandlerFactory
}

// NewRegistry creates a registry that builds handlers with the given
// factory.
func NewRegistry(factory HandlerFactory) *Registry {
	return &Registry{
		handlers: make(map[string]http.Handler),
		factory:  factory,
	}
}

// Register mounts a handler for the model name. Names are keyed lowercased,
// matching the path segment records are served under. Registering an
// already-registered name is a no-op; the check and the insert happen under
// one lock, so a name can never race into two live handlers.
func (r *Registry) Register(name string) {
	key := strings.ToLower(name)

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.handlers[key]; ok {
		return
	}
	r.handlers[key] = r.factory(name)
}

// Lookup returns the live handler for a model path segment.
func (r *Registry) Lookup(name string) (http.Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	handler, ok := r.handlers[strings.ToLower(name)]
	return handler, ok
}

// IsRegistered checks if a model has a live handler.
func (r *Registry) IsRegistered(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.handlers[strings.ToLower(name)]
	return ok
}

// Registered returns all registered model names, in registration-key form.
func (r *Registry) Registered() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	return names
}
