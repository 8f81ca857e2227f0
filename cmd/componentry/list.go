// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

func newListCommand(app *App, flags *rootFlagValues) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List discovered components",
		Long: `List every component found under the components root in boot order,
with its directory and initializer resource. Scan diagnostics are printed
to stderr.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			loader, err := app.loader(cmd.Context(), flags, nil)
			if err != nil {
				return err
			}
			descriptors, err := loader.Descriptors()
			if err != nil {
				return loadError("list components", err)
			}

			if len(descriptors) == 0 {
				fmt.Fprintf(app.stdout, "%s %s\n", SubtitleStyle.Render("No components found in"), loader.Root())
				return nil
			}

			rows := make([][]string, 0, len(descriptors))
			for _, d := range descriptors {
				rel, relErr := filepath.Rel(loader.Root(), d.Path)
				if relErr != nil {
					rel = d.Path
				}
				initializer := "-"
				if d.HasInitializer() {
					initializer = filepath.Base(d.Initializer)
				}
				rows = append(rows, []string{d.Name, filepath.ToSlash(rel), initializer})
			}

			t := table.New().
				Border(lipgloss.NormalBorder()).
				BorderStyle(SubtitleStyle).
				StyleFunc(func(row, col int) lipgloss.Style {
					if row == table.HeaderRow {
						return tableHeaderStyle
					}
					return tableCellStyle
				}).
				Headers("NAME", "PATH", "INITIALIZER").
				Rows(rows...)

			fmt.Fprintln(app.stdout, t.String())
			fmt.Fprintf(app.stdout, "%s\n", SubtitleStyle.Render(fmt.Sprintf("%d component(s)", len(descriptors))))
			return nil
		},
	}
}
