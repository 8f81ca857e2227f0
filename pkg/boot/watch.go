// SPDX-License-Identifier: MPL-2.0

package boot

import (
	"context"

	"github.com/invowk/componentry/internal/watch"
)

// Reloader is the host side of a development reload. host.Application
// implements it.
type Reloader interface {
	Reload(ctx context.Context) error
}

// Watch watches the components root and calls r.Reload after every burst of
// changes. It blocks until ctx is cancelled.
func (l *Loader) Watch(ctx context.Context, r Reloader) error {
	_, opts, logger := l.snapshot()
	w, err := watch.New(watch.Config{
		Root:     opts.Root,
		Patterns: opts.WatchPatterns,
		Ignore:   opts.WatchIgnore,
		Debounce: opts.Debounce,
		Logger:   logger,
		OnChange: func(ctx context.Context, changed []string) error {
			logger.Info("component tree changed",
				"components", watch.AffectedComponents(changed, opts.NestedDir),
				"files", len(changed))
			return r.Reload(ctx)
		},
	})
	if err != nil {
		return err
	}
	return w.Run(ctx)
}
