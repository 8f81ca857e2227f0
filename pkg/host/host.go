// SPDX-License-Identifier: MPL-2.0

package host

import (
	"context"
	"log/slog"
)

type (
	// Hook is a lifecycle callback registered on a Host.
	Hook func(ctx context.Context) error

	// Host is an application that components are installed into.
	Host interface {
		// Root is the application root directory.
		Root() string
		// Paths returns the mutable path collections.
		Paths() *Paths
		// Logger is the application logger, or nil when the host has none.
		Logger() *slog.Logger
		// OnInit registers a hook run while the application configures itself.
		OnInit(Hook)
		// OnReady registers a hook run after every init hook has returned.
		OnReady(Hook)
		// OnBeforeUnload registers a callback run before code is unloaded.
		OnBeforeUnload(func())
		// OnAfterReload registers a hook run after code is reloaded. Hosts may
		// fire it more than once per unload.
		OnAfterReload(Hook)
	}
)
