package llm

import (
	"fmt"
	"sort"
	"sync"
)

// defines a function that creates a new provider instance
type ProviderFactory func() (Provider, error)

var (
	mu        sync.RWMutex
	providers = make(map[string]ProviderFactory)
)

// registers a provider factory with the given name
func RegisterProvider(name string, factory ProviderFactory) {
	mu.Lock()
	defer mu.Unlock()
	providers[name] = factory
}

// creates a new provider instance based on the given name
func NewProvider(name string) (Provider, error) {
	mu.RLock()
	factory, exists := providers[name]
	mu.RUnlock()
	if !exists {
		return nil, fmt.Errorf("unsupported provider: %s", name)
	}
	return factory()
}

// Registered lists the registered provider names.
func Registered() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
