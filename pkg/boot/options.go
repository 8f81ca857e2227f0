// SPDX-License-Identifier: MPL-2.0

package boot

import (
	"context"
	"log/slog"
	"time"

	"github.com/invowk/componentry/internal/config"
	"github.com/invowk/componentry/pkg/component"
)

// Options configures a Loader.
type Options struct {
	// Root is the components root directory. Empty selects "components"
	// under the host root on Install, or under the working directory.
	Root string
	// NestedDir is the reserved directory holding sub-components.
	NestedDir string
	// InitializerName is the initializer resource base name.
	InitializerName string

	// Verbose emits one progress line per hook call.
	Verbose bool
	// Dev wires the reload coordinator into the host's reload signals.
	Dev bool

	// ReloadExclude names components skipped on reload. Nil selects the
	// default exclude list.
	ReloadExclude []string
	// WatchPatterns and WatchIgnore are doublestar globs relative to Root.
	WatchPatterns []string
	WatchIgnore   []string
	// Debounce is the watcher quiet period.
	Debounce time.Duration

	// Catalog holds the registered handles. Nil selects component.Default.
	Catalog *component.Catalog
	// Logger is the host logger. Nil adopts the host's logger on Install;
	// without one, progress lines go to a console logger and everything
	// else is discarded.
	Logger *slog.Logger
}

// OptionsFromConfig loads componentry.cue (or configFile when set) for the
// application at appRoot and converts it to Options.
func OptionsFromConfig(ctx context.Context, appRoot, configFile string) (Options, error) {
	cfg, err := config.NewProvider().Load(ctx, config.LoadOptions{
		ConfigFilePath: configFile,
		BaseDir:        appRoot,
	})
	if err != nil {
		return Options{}, err
	}
	return FromConfig(cfg, appRoot), nil
}

// FromConfig converts an already loaded configuration.
func FromConfig(cfg *config.Config, appRoot string) Options {
	return Options{
		Root:            cfg.ComponentsRoot(appRoot),
		NestedDir:       cfg.NestedDir,
		InitializerName: cfg.Initializer,
		Verbose:         cfg.Verbose,
		Dev:             cfg.Reload.Enabled,
		ReloadExclude:   cfg.Reload.Exclude,
		WatchPatterns:   cfg.Reload.Patterns,
		WatchIgnore:     cfg.Reload.Ignore,
		Debounce:        cfg.Reload.Debounce,
	}
}

func (o Options) withDefaults() Options {
	if o.Root == "" {
		o.Root = config.DefaultComponentsDir
	}
	if o.NestedDir == "" {
		o.NestedDir = config.DefaultNestedDir
	}
	if o.InitializerName == "" {
		o.InitializerName = config.DefaultInitializer
	}
	if o.Debounce <= 0 {
		o.Debounce = config.DefaultDebounce
	}
	if o.Catalog == nil {
		o.Catalog = component.Default
	}
	return o
}
