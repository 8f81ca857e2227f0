// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"os"

	"github.com/invowk/componentry/internal/config"
	"github.com/invowk/componentry/internal/issue"
	"github.com/invowk/componentry/pkg/boot"
	"github.com/invowk/componentry/pkg/component"
)

type (
	// App is the composition root of the CLI. Every command handler receives
	// it and reaches configuration and output through it.
	App struct {
		Config config.Provider
		stdout io.Writer
		stderr io.Writer
	}

	// Dependencies are the injection points for NewApp. Nil fields get
	// production defaults.
	Dependencies struct {
		Config config.Provider
		Stdout io.Writer
		Stderr io.Writer
	}

	// rootFlagValues holds the persistent flags shared by every command.
	rootFlagValues struct {
		appRoot    string
		configPath string
		verbose    bool
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	return &App{
		Config: deps.Config,
		stdout: deps.Stdout,
		stderr: deps.Stderr,
	}
}

// loadConfig loads componentry.cue for the application root in flags.
func (a *App) loadConfig(ctx context.Context, flags *rootFlagValues) (*config.Config, error) {
	return a.Config.Load(ctx, config.LoadOptions{
		ConfigFilePath: flags.configPath,
		BaseDir:        flags.appRoot,
	})
}

// options resolves loader options from the configuration and the flags.
// The console logger always receives warnings; progress lines appear only
// when verbose is set by flag or configuration.
func (a *App) options(ctx context.Context, flags *rootFlagValues, catalog *component.Catalog) (boot.Options, error) {
	cfg, err := a.loadConfig(ctx, flags)
	if err != nil {
		return boot.Options{}, err
	}
	opts := boot.FromConfig(cfg, flags.appRoot)
	opts.Verbose = opts.Verbose || flags.verbose
	opts.Catalog = catalog
	opts.Logger = boot.NewConsoleLogger(a.stderr)
	return opts, nil
}

// loader builds a Loader. A missing components root is not an error here:
// discovery treats it as an empty tree.
func (a *App) loader(ctx context.Context, flags *rootFlagValues, catalog *component.Catalog) (*boot.Loader, error) {
	opts, err := a.options(ctx, flags, catalog)
	if err != nil {
		return nil, err
	}
	return boot.New(opts), nil
}

// rootMissingError explains a components root that does not exist.
func rootMissingError(root string, cause error) error {
	return issue.NewErrorContext().
		WithOperation("watch components root").
		WithResource(root).
		WithSuggestion("Create the directory or set components_dir in componentry.cue").
		WithSuggestion("Pass the application root with --root").
		WithIssue(issue.ComponentsDirMissingId).
		Wrap(cause).
		BuildError()
}
