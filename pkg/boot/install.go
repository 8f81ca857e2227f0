// SPDX-License-Identifier: MPL-2.0

package boot

import (
	"context"
	"log/slog"

	"github.com/invowk/componentry/internal/paths"
	"github.com/invowk/componentry/pkg/host"
)

// Install registers component paths with h and hooks the loader into h's
// lifecycle: Load and Init on init, Ready on ready and, in dev mode, the
// reload coordinator on the unload and reload signals. An unset Root resolves
// against h.Root() and an unset Logger becomes h.Logger().
func (l *Loader) Install(h host.Host) error {
	l.adopt(h)

	descriptors, err := l.Descriptors()
	if err != nil {
		return err
	}
	manifests, err := l.Manifests()
	if err != nil {
		return err
	}

	root, opts, logger := l.snapshot()
	summary := paths.NewRegistrar(root, opts.NestedDir, opts.InitializerName).
		Register(h.Paths(), descriptors, manifests)
	logger.Debug("component paths registered", "components", summary.Components, "paths", summary.Added)

	h.OnInit(l.Init)
	h.OnReady(l.Ready)

	if opts.Dev {
		c := l.Coordinator()
		h.OnBeforeUnload(c.BeforeUnload)
		h.OnAfterReload(func(ctx context.Context) error {
			_, err := c.AfterReload(ctx)
			return err
		})
	}
	return nil
}

// snapshot returns the scanned root (absolute once scanned), the options and
// the diagnostic logger.
func (l *Loader) snapshot() (string, Options, *slog.Logger) {
	l.mu.Lock()
	defer l.mu.Unlock()
	root := l.opts.Root
	if l.scan != nil {
		root = l.scan.Root
	}
	return root, l.opts, l.logger
}
