// SPDX-License-Identifier: MPL-2.0

package component

import (
	"context"
	"fmt"
	"slices"
	"sync"
)

type (
	// Handle is a registered hook-bearing value together with the
	// capabilities detected when it was registered.
	Handle struct {
		Name         string
		Value        any
		Capabilities Capabilities
	}

	// Catalog maps handle names to registered handles. Handles are usually
	// registered from package init functions of the host application.
	Catalog struct {
		mu      sync.RWMutex
		handles map[string]*Handle
	}
)

// Default is the catalog used when a loader is not given one explicitly.
var Default = NewCatalog()

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{handles: make(map[string]*Handle)}
}

// Register adds v to the Default catalog under name.
func Register(name string, v any) error {
	return Default.Register(name, v)
}

// MustRegister is like Register but panics on error. It is meant for init functions.
func MustRegister(name string, v any) {
	Default.MustRegister(name, v)
}

// Register adds v under name. The name must be a well-formed handle name
// (e.g., "Clients::Billing::Initializer"). Capabilities are detected here,
// once, and never re-checked at dispatch time. A value providing neither hook
// is accepted; the dispatcher simply skips it.
func (c *Catalog) Register(name string, v any) error {
	if !ValidHandleName(name) {
		return fmt.Errorf("%w: bad handle name %q", ErrInvalidHandle, name)
	}
	if v == nil {
		return fmt.Errorf("%w: nil value for %q", ErrInvalidHandle, name)
	}

	caps := CapabilitiesOf(v)
	if _, ok := v.(Initer); caps.Init && !ok {
		return fmt.Errorf("%w: %q reports init but does not implement Init", ErrInvalidHandle, name)
	}
	if _, ok := v.(Readier); caps.Ready && !ok {
		return fmt.Errorf("%w: %q reports ready but does not implement Ready", ErrInvalidHandle, name)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.handles[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateHandle, name)
	}
	c.handles[name] = &Handle{Name: name, Value: v, Capabilities: caps}
	return nil
}

// MustRegister is like Register but panics on error.
func (c *Catalog) MustRegister(name string, v any) {
	if err := c.Register(name, v); err != nil {
		panic(err)
	}
}

// Lookup returns the handle registered under name.
func (c *Catalog) Lookup(name string) (*Handle, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	h, ok := c.handles[name]
	return h, ok
}

// Names returns all registered handle names, sorted.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.handles))
	for name := range c.handles {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Len returns the number of registered handles.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.handles)
}

// Init runs the handle's init hook, or does nothing when it has none.
func (h *Handle) Init(ctx context.Context, d Descriptor) error {
	if h == nil || !h.Capabilities.Init {
		return nil
	}
	return h.Value.(Initer).Init(ctx, d)
}

// Ready runs the handle's ready hook, or does nothing when it has none.
func (h *Handle) Ready(ctx context.Context, d Descriptor) error {
	if h == nil || !h.Capabilities.Ready {
		return nil
	}
	return h.Value.(Readier).Ready(ctx, d)
}
