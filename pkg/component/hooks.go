// SPDX-License-Identifier: MPL-2.0

package component

import "context"

type (
	// Initer is implemented by handles that take part in the init phase.
	// Init runs while the host is still configuring itself.
	Initer interface {
		Init(ctx context.Context, d Descriptor) error
	}

	// Readier is implemented by handles that take part in the ready phase.
	// Ready runs after every component's Init has returned.
	Readier interface {
		Ready(ctx context.Context, d Descriptor) error
	}

	// CapabilityReporter lets a handle declare its capabilities explicitly
	// instead of having them inferred from the interfaces it implements.
	CapabilityReporter interface {
		Capabilities() Capabilities
	}

	// Capabilities records which hooks a handle provides.
	Capabilities struct {
		Init  bool
		Ready bool
	}

	// Hooks adapts plain functions to a handle. A nil function means the
	// corresponding capability is absent.
	Hooks struct {
		InitFunc  func(ctx context.Context, d Descriptor) error
		ReadyFunc func(ctx context.Context, d Descriptor) error
	}
)

// None reports whether neither hook is provided.
func (c Capabilities) None() bool {
	return !c.Init && !c.Ready
}

// String returns a compact description such as "init+ready".
func (c Capabilities) String() string {
	switch {
	case c.Init && c.Ready:
		return "init+ready"
	case c.Init:
		return "init"
	case c.Ready:
		return "ready"
	default:
		return "none"
	}
}

// Init implements Initer.
func (h Hooks) Init(ctx context.Context, d Descriptor) error {
	if h.InitFunc == nil {
		return nil
	}
	return h.InitFunc(ctx, d)
}

// Ready implements Readier.
func (h Hooks) Ready(ctx context.Context, d Descriptor) error {
	if h.ReadyFunc == nil {
		return nil
	}
	return h.ReadyFunc(ctx, d)
}

// Capabilities implements CapabilityReporter.
func (h Hooks) Capabilities() Capabilities {
	return Capabilities{Init: h.InitFunc != nil, Ready: h.ReadyFunc != nil}
}

// CapabilitiesOf inspects v once and reports the hooks it provides.
func CapabilitiesOf(v any) Capabilities {
	if r, ok := v.(CapabilityReporter); ok {
		return r.Capabilities()
	}
	_, hasInit := v.(Initer)
	_, hasReady := v.(Readier)
	return Capabilities{Init: hasInit, Ready: hasReady}
}
