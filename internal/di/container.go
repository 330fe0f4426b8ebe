// internal/di/container.go
package di

import (
	"fmt"
	"sync"
)

// Container is a simple string-keyed service container.
type Container struct {
	mu       sync.RWMutex
	services map[string]interface{}
}

var (
	globalContainer *Container
	containerOnce   sync.Once
)

// GetContainer returns the global container instance.
func GetContainer() *Container {
	containerOnce.Do(func() {
		globalContainer = NewContainer()
	})
	return globalContainer
}

// NewContainer creates an empty container.
func NewContainer() *Container {
	return &Container{
		services: make(map[string]interface{}),
	}
}

// Register stores a service under the given name, replacing any previous one.
func (c *Container) Register(name string, service interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.services[name] = service
}

// Get returns the service registered under name.
func (c *Container) Get(name string) (interface{}, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	service, ok := c.services[name]
	if !ok {
		return nil, fmt.Errorf("service not registered: %s", name)
	}
	return service, nil
}

// MustGet returns the service registered under name and panics when missing.
// Use only during startup wiring, where a missing service is a programming error.
func (c *Container) MustGet(name string) interface{} {
	service, err := c.Get(name)
	if err != nil {
		panic(err)
	}
	return service
}

// Has reports whether a service is registered under name.
func (c *Container) Has(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.services[name]
	return ok
}

// Clear removes all registered services.
func (c *Container) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.services = make(map[string]interface{})
}

// GetNames returns the names of all registered services.
func (c *Container) GetNames() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.services))
	for name := range c.services {
		names = append(names, name)
	}
	return names
}
