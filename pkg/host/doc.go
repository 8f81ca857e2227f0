// SPDX-License-Identifier: MPL-2.0

// Package host defines the boundary between the component layer and the
// application that embeds it.
//
// A Host exposes path collections to register component directories with,
// and lifecycle signals (init, ready, before-unload, after-reload) to hang
// hooks on. Application is a minimal Host used by the CLI and by tests.
package host
