package backend

import (
	"sync"

	"github.com/vraster/vraster/raster"
)

// Factory creates a new backend instance.
type Factory func() raster.Backend

var (
	registryMu sync.RWMutex
	backends   = make(map[string]Factory)
	// priority is the selection order: GPU wins when present, falling
	// back to the portable CPU backend otherwise.
	priority = []string{NameGPU, NameCPU}
)

// Register registers a backend factory under name, typically from an
// init() function in a backend-providing package. A second Register
// under the same name replaces the first.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	backends[name] = factory
}

// Unregister removes a backend from the registry.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(backends, name)
}

// Available lists registered backend names.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	return names
}

// Get returns a backend instance by name, or nil if unregistered.
func Get(name string) raster.Backend {
	registryMu.RLock()
	defer registryMu.RUnlock()
	factory, ok := backends[name]
	if !ok {
		return nil
	}
	return factory()
}

// Default returns the highest-priority available backend: GPU ahead of
// the portable CPU backend, per the frame driver's fallback policy.
func Default() raster.Backend {
	registryMu.RLock()
	defer registryMu.RUnlock()

	for _, name := range priority {
		if factory, ok := backends[name]; ok {
			if b := factory(); b != nil {
				return b
			}
		}
	}
	for _, factory := range backends {
		if b := factory(); b != nil {
			return b
		}
	}
	return nil
}

// MustDefault returns the default backend or panics.
func MustDefault() raster.Backend {
	b := Default()
	if b == nil {
		panic("backend: no backend available")
	}
	return b
}
