//-------------------------------------------------------------------------
//
// pgEdge Sales Loader
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package loaders

import (
	"fmt"
	"sort"
	"sync"
)

var (
	registry = make(map[string]Loader)
	mu       sync.RWMutex
)

// Register adds a loader to the registry.
func Register(l Loader) {
	mu.Lock()
	defer mu.Unlock()
	registry[l.Name()] = l
}

// Get retrieves a loader by name.
func Get(name string) (Loader, error) {
	mu.RLock()
	defer mu.RUnlock()

	l, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown strategy: %s", name)
	}
	return l, nil
}

// List returns all registered loader names, sorted.
func List() []string {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns all registered loaders, sorted by name.
func All() []Loader {
	names := List()

	mu.RLock()
	defer mu.RUnlock()

	out := make([]Loader, 0, len(names))
	for _, name := range names {
		out = append(out, registry[name])
	}
	return out
}
