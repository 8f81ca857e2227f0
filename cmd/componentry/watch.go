// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/invowk/componentry/internal/watch"
	"github.com/invowk/componentry/pkg/boot"
	"github.com/invowk/componentry/pkg/component"
	"github.com/invowk/componentry/pkg/host"

	"github.com/spf13/cobra"
)

func newWatchCommand(app *App, flags *rootFlagValues) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Boot, then reload on every change",
		Long: `Boot the component tree with tracing handles and watch the components
root. After each burst of file changes the tree is rescanned and the init
and ready hooks run again for every component that takes part in reloads.
Development mode is always on. Stop with Ctrl+C.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog := component.NewCatalog()
			opts, err := app.options(cmd.Context(), flags, catalog)
			if err != nil {
				return err
			}
			opts.Dev = true

			application, loader, err := bootTraced(cmd.Context(), app, flags, opts)
			if err != nil {
				return err
			}

			fmt.Fprintf(app.stdout, "\n%s %s\n\n", NameStyle.Render("→"),
				fmt.Sprintf("Watching %s for changes (Ctrl+C to stop)...", loader.Root()))
			r := &tracingReloader{app: app, application: application, loader: loader, catalog: catalog}
			if err := loader.Watch(cmd.Context(), r); err != nil {
				if errors.Is(err, watch.ErrRootMissing) {
					return rootMissingError(loader.Root(), err)
				}
				return fmt.Errorf("watch components: %w", err)
			}
			return nil
		},
	}
}

// tracingReloader binds tracing handles for components added since the last
// cycle before handing the reload to the application.
type tracingReloader struct {
	app         *App
	application *host.Application
	loader      *boot.Loader
	catalog     *component.Catalog
}

func (r *tracingReloader) Reload(ctx context.Context) error {
	r.loader.Reset()
	if err := registerTracing(r.loader, r.catalog, r.app.stdout); err != nil {
		return err
	}
	fmt.Fprintln(r.app.stdout, SubtitleStyle.Render("-- reload --"))
	return r.application.Reload(ctx)
}
