// SPDX-License-Identifier: MPL-2.0

// Package lifecycle dispatches the two component hooks, init and ready,
// in scan order.
//
// The Dispatcher is a small state machine: Idle -> Initialized -> Ready.
// Init must complete for every component before Ready runs on any of them.
// A hook error aborts the pass and leaves the dispatcher Failed until Reset.
package lifecycle
