// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/invowk/componentry/internal/issue"
	"github.com/invowk/componentry/pkg/component"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

// readmeName is rendered below the details when a component carries one.
const readmeName = "README.md"

func newDescribeCommand(app *App, flags *rootFlagValues) *cobra.Command {
	return &cobra.Command{
		Use:   "describe <name>",
		Short: "Show one component",
		Long: `Show the details of one component. The name may use "::" or "/" as the
separator ("Clients::Billing" or "Clients/Billing"). A README.md in the
component directory is rendered below the details.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loader, err := app.loader(cmd.Context(), flags, nil)
			if err != nil {
				return err
			}

			d, err := loader.Find(args[0])
			if err != nil {
				if errors.Is(err, component.ErrComponentNotFound) {
					err = issue.NewErrorContext().
						WithOperation("describe component").
						WithResource(args[0]).
						WithSuggestion("Run 'componentry list' to see the discovered components").
						WithIssue(issue.ComponentNotFoundId).
						Wrap(err).
						BuildError()
					explainIssue(app, err, flags.verbose)
					return err
				}
				return loadError("describe component", err)
			}

			manifests, err := loader.Manifests()
			if err != nil {
				return loadError("describe component", err)
			}

			field := func(label, value string) {
				fmt.Fprintf(app.stdout, "%-12s %s\n", SubtitleStyle.Render(label+":"), value)
			}

			fmt.Fprintln(app.stdout, TitleStyle.Render(d.Name))
			field("Path", d.Path)
			if d.Nested() {
				field("Parent", d.Parent)
			}
			if !d.HasInitializer() {
				field("Initializer", SubtitleStyle.Render("(none)"))
			} else {
				field("Initializer", d.Initializer)
				if m, ok := manifests[d.Name]; ok {
					field("Handle", NameStyle.Render(m.Handle(d.Name)))
					if v := m.CanonicalVersion(); v != "" {
						field("Version", v)
					}
					if m.Description != "" {
						field("Description", m.Description)
					}
					field("Reload", fmt.Sprintf("%t", m.Reloadable()))
				}
			}

			readme, err := os.ReadFile(filepath.Join(d.Path, readmeName))
			if err != nil {
				if errors.Is(err, os.ErrNotExist) {
					return nil
				}
				return fmt.Errorf("read %s: %w", readmeName, err)
			}
			rendered, err := renderMarkdown(string(readme))
			if err != nil {
				return err
			}
			fmt.Fprintln(app.stdout)
			fmt.Fprint(app.stdout, rendered)
			return nil
		},
	}
}

// renderMarkdown renders md for the terminal, picking a style from the
// terminal background.
func renderMarkdown(md string) (string, error) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return "", fmt.Errorf("create markdown renderer: %w", err)
	}
	out, err := renderer.Render(md)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return out, nil
}
