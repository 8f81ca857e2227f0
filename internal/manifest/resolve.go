// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"github.com/invowk/componentry/pkg/component"
)

// Resolved is a component's initializer resource paired with the handle it names.
type Resolved struct {
	Descriptor component.Descriptor
	Manifest   *Manifest
	Handle     *component.Handle
}

// Resolve looks up the handle named by d's parsed initializer resource m in
// catalog. An unregistered handle yields a *component.MalformedInitializerError.
func Resolve(d component.Descriptor, m *Manifest, catalog *component.Catalog) (*Resolved, error) {
	name := m.Handle(d.Name)
	h, ok := catalog.Lookup(name)
	if !ok {
		return nil, &component.MalformedInitializerError{
			Component: d.Name,
			Expected:  name,
			Resource:  d.Initializer,
		}
	}

	return &Resolved{Descriptor: d, Manifest: m, Handle: h}, nil
}
