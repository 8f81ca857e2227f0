// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/invowk/componentry/internal/issue"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand builds the command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	flags := &rootFlagValues{}

	rootCmd := &cobra.Command{
		Use:   "componentry",
		Short: "Discover and boot self-contained application components",
		Long: TitleStyle.Render("componentry") + SubtitleStyle.Render(" - component discovery and lifecycle") + `

componentry scans a components directory, derives a hierarchical name for
every component and runs their init and ready hooks in a stable order.
Sub-components live under a parent's reserved nested directory.

` + SubtitleStyle.Render("Examples:") + `
  componentry list                 List discovered components
  componentry describe Clients     Show one component
  componentry paths                Show the paths registered with the host
  componentry boot -v              Run init and ready with progress lines
  componentry watch                Reload on every change`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if flags.appRoot == "" {
				wd, err := os.Getwd()
				if err != nil {
					return fmt.Errorf("resolve working directory: %w", err)
				}
				flags.appRoot = wd
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&flags.appRoot, "root", "C", "", "application root (default is the current directory)")
	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default is <root>/componentry.cue)")
	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "print one line per hook call")

	rootCmd.AddCommand(newListCommand(app, flags))
	rootCmd.AddCommand(newDescribeCommand(app, flags))
	rootCmd.AddCommand(newPathsCommand(app, flags))
	rootCmd.AddCommand(newBootCommand(app, flags))
	rootCmd.AddCommand(newWatchCommand(app, flags))
	rootCmd.AddCommand(newConfigCommand(app, flags))

	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)
	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the CLI. It is called by main.main().
func Execute() {
	app := NewApp(Dependencies{})
	rootCmd := NewRootCommand(app)

	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(1)
	}
}

// formatErrorForDisplay formats an error for user display.
// ActionableErrors use their Format method; verbose mode shows the chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
