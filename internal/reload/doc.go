// SPDX-License-Identifier: MPL-2.0

// Package reload re-runs component hooks once per development reload cycle.
//
// Hosts may signal "after reload" more than once for a single unload. The
// Coordinator latches on the unload signal so only the first signal after
// an unload triggers a run.
package reload
