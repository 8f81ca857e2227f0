// SPDX-License-Identifier: MPL-2.0

// Package component defines the values shared between the component scanner,
// the namespace tree and the lifecycle dispatcher.
//
// A component is a directory under the components root. Its Descriptor carries
// a hierarchical name derived from the directory path ("Clients::Billing") and
// the absolute path itself. Go has no runtime code loading, so the hook-bearing
// side of a component is registered explicitly in a Catalog under a handle name
// (by default "<Name>::Initializer") and resolved when the component's
// initializer resource is found on disk.
//
// File organization:
//   - descriptor.go: Descriptor and name derivation
//   - hooks.go: optional hook interfaces and Capabilities
//   - catalog.go: handle registration and lookup
//   - errors.go: sentinel and typed errors
package component
