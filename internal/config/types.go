// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/invowk/componentry/pkg/component"
)

const (
	// DefaultComponentsDir is resolved against the application root.
	DefaultComponentsDir = "components"
	// DefaultNestedDir marks a directory whose children are sub-components.
	DefaultNestedDir = "_components"
	// DefaultInitializer is the initializer resource base name.
	DefaultInitializer = "component"
	// DefaultDebounce is the quiet period before a dev reload fires.
	DefaultDebounce = 500 * time.Millisecond
)

// ErrInvalidConfig is wrapped by InvalidConfigError.
var ErrInvalidConfig = errors.New("invalid config")

type (
	// Config is the resolved componentry configuration.
	Config struct {
		// ComponentsDir is the components root, relative to the application root
		// unless absolute.
		ComponentsDir string `json:"components_dir" mapstructure:"components_dir"`
		// NestedDir is the reserved directory name holding sub-components.
		NestedDir string `json:"nested_dir" mapstructure:"nested_dir"`
		// Initializer is the initializer resource base name (no extension).
		Initializer string `json:"initializer" mapstructure:"initializer"`
		// Verbose enables progress lines.
		Verbose bool `json:"verbose" mapstructure:"verbose"`
		// Reload configures development-mode reloading.
		Reload ReloadConfig `json:"reload" mapstructure:"reload"`
	}

	// ReloadConfig configures development-mode reloading.
	ReloadConfig struct {
		Enabled bool `json:"enabled" mapstructure:"enabled"`
		// Exclude lists component names never re-dispatched on reload.
		Exclude []string `json:"exclude" mapstructure:"exclude"`
		// Debounce is the quiet period before a reload fires.
		Debounce time.Duration `json:"debounce" mapstructure:"debounce"`
		// Patterns and Ignore are doublestar globs relative to the components root.
		Patterns []string `json:"patterns" mapstructure:"patterns"`
		Ignore   []string `json:"ignore" mapstructure:"ignore"`
	}

	// InvalidConfigError reports one invalid field.
	InvalidConfigError struct {
		Field  string
		Reason string
	}
)

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		ComponentsDir: DefaultComponentsDir,
		NestedDir:     DefaultNestedDir,
		Initializer:   DefaultInitializer,
		Reload: ReloadConfig{
			Exclude:  []string{"Tracing"},
			Debounce: DefaultDebounce,
		},
	}
}

// ComponentsRoot resolves ComponentsDir against appRoot.
func (c *Config) ComponentsRoot(appRoot string) string {
	if filepath.IsAbs(c.ComponentsDir) {
		return filepath.Clean(c.ComponentsDir)
	}
	return filepath.Join(appRoot, c.ComponentsDir)
}

// Validate checks the constraints the CUE schema cannot see, such as values
// coming from environment variables.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.ComponentsDir) == "" {
		return &InvalidConfigError{Field: "components_dir", Reason: "must not be empty"}
	}
	if c.NestedDir == "" || strings.ContainsAny(c.NestedDir, `/\`) || c.NestedDir == "." || c.NestedDir == ".." {
		return &InvalidConfigError{Field: "nested_dir", Reason: fmt.Sprintf("%q must be a single directory name", c.NestedDir)}
	}
	if c.Initializer == "" || strings.ContainsAny(c.Initializer, `/\.`) {
		return &InvalidConfigError{Field: "initializer", Reason: fmt.Sprintf("%q must be a base name without extension", c.Initializer)}
	}
	for i, name := range c.Reload.Exclude {
		if !component.ValidHandleName(name) {
			return &InvalidConfigError{Field: fmt.Sprintf("reload.exclude[%d]", i), Reason: fmt.Sprintf("%q is not a component name", name)}
		}
	}
	if c.Reload.Debounce < 0 {
		return &InvalidConfigError{Field: "reload.debounce", Reason: "must not be negative"}
	}
	return nil
}

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %s: %s", e.Field, e.Reason)
}

// Unwrap returns ErrInvalidConfig.
func (e *InvalidConfigError) Unwrap() error {
	return ErrInvalidConfig
}
