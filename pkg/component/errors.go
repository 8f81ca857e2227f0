// SPDX-License-Identifier: MPL-2.0

package component

import (
	"errors"
	"fmt"
)

var (
	// ErrComponentNotFound is returned when a name lookup has no matching descriptor.
	ErrComponentNotFound = errors.New("component not found")
	// ErrMalformedInitializer is returned when an initializer resource does not
	// resolve to a registered hook-bearing handle.
	ErrMalformedInitializer = errors.New("malformed initializer")
	// ErrNameCollision is returned when two directories map to the same component name.
	ErrNameCollision = errors.New("component name collision")
	// ErrInvalidName is returned when a directory name cannot be mapped to a component name.
	ErrInvalidName = errors.New("invalid component name")
	// ErrInvalidHandle is returned when a handle name or value cannot be registered.
	ErrInvalidHandle = errors.New("invalid initializer handle")
	// ErrDuplicateHandle is returned when a handle name is registered twice.
	ErrDuplicateHandle = errors.New("duplicate initializer handle")
)

type (
	// NotFoundError is returned by name lookups that match no descriptor.
	// It wraps ErrComponentNotFound for errors.Is() compatibility.
	NotFoundError struct {
		Name string
	}

	// MalformedInitializerError is returned when an initializer resource was
	// found but declares no registered handle. It wraps ErrMalformedInitializer.
	MalformedInitializerError struct {
		// Component is the name of the component owning the resource.
		Component string
		// Expected is the handle name the resource had to resolve to.
		Expected string
		// Resource is the path of the initializer resource.
		Resource string
	}

	// NameCollisionError is returned when two component directories produce the
	// same component name. It wraps ErrNameCollision.
	NameCollisionError struct {
		Name       string
		FirstPath  string
		SecondPath string
	}

	// InvalidNameError is returned when a path segment cannot be converted to a
	// component name segment. It wraps ErrInvalidName.
	InvalidNameError struct {
		Segment string
		Path    string
	}
)

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("component '%s' not found", e.Name)
}

// Unwrap returns ErrComponentNotFound.
func (e *NotFoundError) Unwrap() error {
	return ErrComponentNotFound
}

// Error implements the error interface.
func (e *MalformedInitializerError) Error() string {
	return fmt.Sprintf("initializer %s for component '%s' must declare a registered handle named '%s'",
		e.Resource, e.Component, e.Expected)
}

// Unwrap returns ErrMalformedInitializer.
func (e *MalformedInitializerError) Unwrap() error {
	return ErrMalformedInitializer
}

// Error implements the error interface.
func (e *NameCollisionError) Error() string {
	return fmt.Sprintf(
		"component name collision: '%s' derived from both:\n"+
			"  - %s\n"+
			"  - %s\n\n"+
			"Rename one of the directories so the names differ",
		e.Name, e.FirstPath, e.SecondPath)
}

// Unwrap returns ErrNameCollision.
func (e *NameCollisionError) Unwrap() error {
	return ErrNameCollision
}

// Error implements the error interface.
func (e *InvalidNameError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("invalid component name segment %q", e.Segment)
	}
	return fmt.Sprintf("invalid component name segment %q in %s", e.Segment, e.Path)
}

// Unwrap returns ErrInvalidName.
func (e *InvalidNameError) Unwrap() error {
	return ErrInvalidName
}
