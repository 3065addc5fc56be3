package tsdbjson

import (
	"fmt"
	"sort"
	"sync"
)

var (
	storesMu sync.RWMutex
	stores   = make(map[string]StoreFactory)
)

// StoreFactory creates a Store from configuration.
// The config map contains store-specific configuration keys.
type StoreFactory func(config map[string]string) (Store, error)

// Register registers a store factory under the given name.
// It is typically called from init() in store packages.
//
// Register panics if:
//   - factory is nil
//   - a store with the same name is already registered
func Register(name string, factory StoreFactory) {
	storesMu.Lock()
	defer storesMu.Unlock()

	if factory == nil {
		panic("tsdbjson: Register factory is nil")
	}
	if _, dup := stores[name]; dup {
		panic("tsdbjson: Register called twice for store " + name)
	}
	stores[name] = factory
}

// Open opens a store by name with the given configuration.
// The config map is passed directly to the store's factory function.
//
// Open returns ErrUnknownStore if no store with the given name is registered.
//
// Example:
//
//	store, err := tsdbjson.Open("s3", map[string]string{
//	    "bucket": "tsdb-raw",
//	    "region": "us-west-2",
//	})
func Open(name string, config map[string]string) (Store, error) {
	storesMu.RLock()
	factory, ok := stores[name]
	storesMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownStore, name)
	}
	return factory(config)
}

// Stores returns a sorted list of registered store names.
func Stores() []string {
	storesMu.RLock()
	defer storesMu.RUnlock()

	names := make([]string, 0, len(stores))
	for name := range stores {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRegistered returns true if a store with the given name is registered.
func IsRegistered(name string) bool {
	storesMu.RLock()
	defer storesMu.RUnlock()
	_, ok := stores[name]
	return ok
}

// Unregister removes a registered store.
// This is primarily useful for testing.
// Returns true if the store was registered, false otherwise.
func Unregister(name string) bool {
	storesMu.Lock()
	defer storesMu.Unlock()

	if _, ok := stores[name]; ok {
		delete(stores, name)
		return true
	}
	return false
}
