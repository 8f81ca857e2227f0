// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/invowk/componentry/internal/config"
	"github.com/invowk/componentry/internal/issue"

	"github.com/spf13/cobra"
)

// newConfigCommand creates the `componentry config` command tree.
func newConfigCommand(app *App, flags *rootFlagValues) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage componentry configuration",
		Long: `Manage componentry configuration.

Configuration is read from componentry.cue in the application root, or from
the file given with --config. Environment variables prefixed with
COMPONENTRY_ override file values (for example COMPONENTRY_NESTED_DIR).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, err := config.Load(cmd.Context(), config.LoadOptions{
				ConfigFilePath: flags.configPath,
				BaseDir:        flags.appRoot,
			})
			if err != nil {
				explainIssue(app, err, flags.verbose)
				return err
			}
			showConfig(app, cfg, path, flags.appRoot)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create a default componentry.cue in the application root",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, created, err := config.WriteDefault(flags.appRoot)
			if err != nil {
				return err
			}
			if !created {
				fmt.Fprintf(app.stdout, "%s %s\n", WarningStyle.Render("Config already exists:"), path)
				return nil
			}
			fmt.Fprintf(app.stdout, "%s %s\n", SuccessStyle.Render("Created"), path)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output the effective configuration as CUE",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig(cmd.Context(), flags)
			if err != nil {
				return err
			}
			fmt.Fprint(app.stdout, config.GenerateCUE(cfg))
			return nil
		},
	})

	return cfgCmd
}

func showConfig(app *App, cfg *config.Config, path, appRoot string) {
	key := func(k string) string { return NameStyle.Render(k) }
	value := func(v any) string { return SuccessStyle.Render(fmt.Sprint(v)) }

	fmt.Fprintln(app.stdout, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(app.stdout)
	if path == "" {
		fmt.Fprintf(app.stdout, "%s: %s\n", key("Config file"), SubtitleStyle.Render("(using defaults)"))
	} else {
		fmt.Fprintf(app.stdout, "%s: %s\n", key("Config file"), path)
	}
	fmt.Fprintf(app.stdout, "%s: %s\n", key("Components root"), cfg.ComponentsRoot(appRoot))
	fmt.Fprintln(app.stdout)

	fmt.Fprintf(app.stdout, "%s: %s\n", key("components_dir"), value(cfg.ComponentsDir))
	fmt.Fprintf(app.stdout, "%s: %s\n", key("nested_dir"), value(cfg.NestedDir))
	fmt.Fprintf(app.stdout, "%s: %s\n", key("initializer"), value(cfg.Initializer))
	fmt.Fprintf(app.stdout, "%s: %s\n", key("verbose"), value(cfg.Verbose))

	fmt.Fprintln(app.stdout)
	fmt.Fprintf(app.stdout, "%s:\n", key("reload"))
	fmt.Fprintf(app.stdout, "  enabled: %s\n", value(cfg.Reload.Enabled))
	fmt.Fprintf(app.stdout, "  exclude: %s\n", listOrNone(cfg.Reload.Exclude))
	fmt.Fprintf(app.stdout, "  debounce: %s\n", value(cfg.Reload.Debounce))
	fmt.Fprintf(app.stdout, "  patterns: %s\n", listOrNone(cfg.Reload.Patterns))
	fmt.Fprintf(app.stdout, "  ignore: %s\n", listOrNone(cfg.Reload.Ignore))
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return SubtitleStyle.Render("(none)")
	}
	return SuccessStyle.Render(strings.Join(items, ", "))
}

// explainIssue prints the catalog guidance linked to err, in verbose mode only.
func explainIssue(app *App, err error, verbose bool) {
	var ae *issue.ActionableError
	if !verbose || !errors.As(err, &ae) {
		return
	}
	fmt.Fprintln(app.stderr, formatErrorForDisplay(err, true))
	if ae.Issue == 0 {
		return
	}
	if entry := issue.Get(ae.Issue); entry != nil {
		if rendered, renderErr := entry.Render("dark"); renderErr == nil {
			fmt.Fprint(app.stderr, rendered)
		}
	}
}
