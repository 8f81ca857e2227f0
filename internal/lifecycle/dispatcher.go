// SPDX-License-Identifier: MPL-2.0

package lifecycle

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/invowk/componentry/pkg/component"
)

type (
	// Entry pairs a descriptor with its resolved handle. Handle is nil when
	// the component has no initializer resource.
	Entry struct {
		Descriptor component.Descriptor
		Handle     *component.Handle
	}

	// SkipFunc reports whether a component is left out of a pass.
	SkipFunc func(component.Descriptor) bool

	// HookError wraps an error returned by a component hook.
	HookError struct {
		Component string
		Phase     Phase
		Err       error
	}

	// Dispatcher runs init and ready hooks over a fixed, ordered entry list.
	Dispatcher struct {
		// State management (atomic for lock-free reads)
		state atomic.Int32
		// Transition protection
		mu sync.Mutex

		entries  []Entry
		logger   *slog.Logger
		progress *slog.Logger
	}
)

// New creates a dispatcher over entries, which must already be in scan order.
// logger receives debug records; progress, when non-nil, receives one
// info line per hook call.
func New(entries []Entry, logger, progress *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	d := &Dispatcher{
		entries:  entries,
		logger:   logger,
		progress: progress,
	}
	d.state.Store(int32(StateIdle))
	return d
}

// State returns the current state (atomic, lock-free read).
func (d *Dispatcher) State() State {
	return State(d.state.Load())
}

// Entries returns a copy of the entry list.
func (d *Dispatcher) Entries() []Entry {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Entry(nil), d.entries...)
}

// Init calls Init on every entry with the init capability. It requires the
// Idle state and moves to Initialized on success.
func (d *Dispatcher) Init(ctx context.Context, skip SkipFunc) error {
	return d.run(ctx, PhaseInit, StateIdle, StateInitialized, skip)
}

// Ready calls Ready on every entry with the ready capability. It requires
// the Initialized state and moves to Ready on success.
func (d *Dispatcher) Ready(ctx context.Context, skip SkipFunc) error {
	return d.run(ctx, PhaseReady, StateInitialized, StateReady, skip)
}

// Reset returns the dispatcher to Idle. When entries is non-nil it replaces
// the entry list.
func (d *Dispatcher) Reset(entries []Entry) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if entries != nil {
		d.entries = entries
	}
	d.state.Store(int32(StateIdle))
}

func (d *Dispatcher) run(ctx context.Context, phase Phase, from, to State, skip SkipFunc) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if current := d.State(); current != from {
		return &TransitionError{From: current, To: to}
	}

	start := time.Now()
	calls := 0
	for _, e := range d.entries {
		if e.Handle == nil || skip != nil && skip(e.Descriptor) {
			continue
		}
		if !has(e.Handle, phase) {
			continue
		}

		if err := ctx.Err(); err != nil {
			d.state.Store(int32(StateFailed))
			return fmt.Errorf("%s phase interrupted before %s: %w", phase, e.Descriptor.Name, err)
		}

		if d.progress != nil {
			d.progress.Info(fmt.Sprintf("%s %s", phase, e.Descriptor.Name), "handle", e.Handle.Name)
		}

		var err error
		if phase == PhaseInit {
			err = e.Handle.Init(ctx, e.Descriptor)
		} else {
			err = e.Handle.Ready(ctx, e.Descriptor)
		}
		if err != nil {
			d.state.Store(int32(StateFailed))
			return &HookError{Component: e.Descriptor.Name, Phase: phase, Err: err}
		}
		calls++
	}

	d.state.Store(int32(to))
	d.logger.Debug("lifecycle phase complete", "phase", phase, "calls", calls, "duration", time.Since(start))
	return nil
}

func has(h *component.Handle, phase Phase) bool {
	if phase == PhaseInit {
		return h.Capabilities.Init
	}
	return h.Capabilities.Ready
}

// Error implements the error interface.
func (e *HookError) Error() string {
	return fmt.Sprintf("%s hook of component '%s' failed: %v", e.Phase, e.Component, e.Err)
}

// Unwrap returns the hook's error.
func (e *HookError) Unwrap() error {
	return e.Err
}
