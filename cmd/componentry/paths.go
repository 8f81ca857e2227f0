// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/invowk/componentry/pkg/host"

	"github.com/spf13/cobra"
)

func newPathsCommand(app *App, flags *rootFlagValues) *cobra.Command {
	return &cobra.Command{
		Use:   "paths",
		Short: "Show the paths registered with the host",
		Long: `Install the component tree into an application and print every path
collection it registered: autoload, eager load, routes, helpers, migrations,
collapsed directories and ignored files.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			loader, err := app.loader(cmd.Context(), flags, nil)
			if err != nil {
				return err
			}
			application := host.NewApplication(flags.appRoot)
			if err := loader.Install(application); err != nil {
				return loadError("register component paths", err)
			}
			printPaths(app, application.Paths())
			return nil
		},
	}
}

func printPaths(app *App, p *host.Paths) {
	sections := []struct {
		label string
		list  *host.PathList
	}{
		{"autoload", &p.Autoload},
		{"eager_load", &p.EagerLoad},
		{"routes", &p.Routes},
		{"helpers", &p.Helpers},
		{"migrations", &p.Migrations},
		{"collapse", &p.Collapse},
		{"ignore", &p.Ignore},
	}
	for i, s := range sections {
		if i > 0 {
			fmt.Fprintln(app.stdout)
		}
		fmt.Fprintf(app.stdout, "%s:\n", TitleStyle.Render(s.label))
		if s.list.Len() == 0 {
			fmt.Fprintf(app.stdout, "  %s\n", SubtitleStyle.Render("(none)"))
			continue
		}
		for _, item := range s.list.Items() {
			fmt.Fprintf(app.stdout, "  %s\n", item)
		}
	}
}
