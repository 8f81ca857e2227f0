// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/invowk/componentry/pkg/boot"
	"github.com/invowk/componentry/pkg/component"
	"github.com/invowk/componentry/pkg/host"

	"github.com/spf13/cobra"
)

func newBootCommand(app *App, flags *rootFlagValues) *cobra.Command {
	var reload bool

	bootCmd := &cobra.Command{
		Use:   "boot",
		Short: "Run init and ready for every component",
		Long: `Boot the component tree with tracing handles: every handle an initializer
declares is bound to one that prints "init <Name>" and "ready <Name>".
With --reload a development reload cycle follows the boot, skipping the
excluded components and those whose initializer sets reload to false.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog := component.NewCatalog()
			opts, err := app.options(cmd.Context(), flags, catalog)
			if err != nil {
				return err
			}
			opts.Dev = opts.Dev || reload

			application, loader, err := bootTraced(cmd.Context(), app, flags, opts)
			if err != nil {
				return err
			}
			if reload {
				fmt.Fprintln(app.stdout, SubtitleStyle.Render("-- reload --"))
				if err := application.Reload(cmd.Context()); err != nil {
					err = loadError("reload components", err)
					explainIssue(app, err, flags.verbose)
					return err
				}
			}

			c := loader.Coordinator()
			fmt.Fprintf(app.stdout, "%s state %s, %d reload cycle(s), %d excluded\n",
				SuccessStyle.Render("✓"), loader.State(), c.Cycles(), len(c.Exclude()))
			return nil
		},
	}
	bootCmd.Flags().BoolVar(&reload, "reload", false, "run one development reload cycle after booting")
	return bootCmd
}

// bootTraced binds tracing handles, installs the loader into a fresh
// application and boots it.
func bootTraced(ctx context.Context, app *App, flags *rootFlagValues, opts boot.Options) (*host.Application, *boot.Loader, error) {
	loader := boot.New(opts)
	if err := registerTracing(loader, opts.Catalog, app.stdout); err != nil {
		return nil, nil, loadError("load components", err)
	}

	application := host.NewApplication(flags.appRoot, host.WithLogger(opts.Logger))
	if err := loader.Install(application); err != nil {
		return nil, nil, loadError("load components", err)
	}
	if err := application.Boot(ctx); err != nil {
		err = loadError("boot components", err)
		explainIssue(app, err, flags.verbose)
		return nil, nil, err
	}
	return application, loader, nil
}

// registerTracing registers a printing handle under every handle name the
// discovered initializers declare.
func registerTracing(loader *boot.Loader, catalog *component.Catalog, w io.Writer) error {
	manifests, err := loader.Manifests()
	if err != nil {
		return err
	}
	descriptors, err := loader.Descriptors()
	if err != nil {
		return err
	}
	for _, d := range descriptors {
		m, ok := manifests[d.Name]
		if !ok {
			continue
		}
		name := m.Handle(d.Name)
		if _, exists := catalog.Lookup(name); exists {
			continue
		}
		if err := catalog.Register(name, tracingHooks(w)); err != nil {
			return err
		}
	}
	return nil
}

func tracingHooks(w io.Writer) component.Hooks {
	trace := func(phase string) func(context.Context, component.Descriptor) error {
		return func(_ context.Context, d component.Descriptor) error {
			_, err := fmt.Fprintf(w, "%s %s\n", phase, d.Name)
			return err
		}
	}
	return component.Hooks{InitFunc: trace("init"), ReadyFunc: trace("ready")}
}
