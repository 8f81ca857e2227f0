// SPDX-License-Identifier: MPL-2.0

package lifecycle

import (
	"errors"
	"fmt"
)

const (
	// StateIdle means no hooks have run since creation or the last Reset.
	StateIdle State = iota
	// StateInitialized means every init hook returned without error.
	StateInitialized
	// StateReady means every ready hook returned without error.
	StateReady
	// StateFailed means a hook failed; only Reset leaves this state.
	StateFailed
)

const (
	// PhaseInit is the init hook phase.
	PhaseInit Phase = "init"
	// PhaseReady is the ready hook phase.
	PhaseReady Phase = "ready"
)

// ErrInvalidTransition is returned when a phase is requested out of order.
var ErrInvalidTransition = errors.New("invalid lifecycle transition")

type (
	// State represents the dispatcher lifecycle state.
	State int32

	// Phase names a hook phase.
	Phase string

	// TransitionError is returned when a phase is requested from the wrong state.
	// It wraps ErrInvalidTransition for errors.Is() compatibility.
	TransitionError struct {
		From State
		To   State
	}
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateInitialized:
		return "initialized"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Error implements the error interface.
func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot move from %s to %s", e.From, e.To)
}

// Unwrap returns ErrInvalidTransition.
func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}
