// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/invowk/componentry/internal/cueutil"
	"github.com/invowk/componentry/internal/issue"

	"github.com/spf13/viper"
)

const (
	// AppName is the application name.
	AppName = "componentry"
	// ConfigFileName is the config file base name.
	ConfigFileName = "componentry"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// EnvPrefix prefixes environment overrides (COMPONENTRY_VERBOSE, COMPONENTRY_RELOAD_ENABLED, ...).
	EnvPrefix = "COMPONENTRY"
)

//go:embed config_schema.cue
var configSchema []byte

// Load resolves configuration for opts and returns it together with the path
// of the file it was read from (empty when only defaults and environment applied).
func Load(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := newViper()

	resolvedPath := ""
	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(opts.ConfigFilePath).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Run 'componentry config init' to create a default file").
				WithIssue(issue.ConfigLoadFailedId).
				Wrap(fmt.Errorf("config file not found: %s", opts.ConfigFilePath)).
				BuildError()
		}
		resolvedPath = opts.ConfigFilePath
	} else if opts.BaseDir != "" {
		candidate := filepath.Join(opts.BaseDir, ConfigFileName+"."+ConfigFileExt)
		if fileExists(candidate) {
			resolvedPath = candidate
		}
	}

	if resolvedPath != "" {
		if err := loadCUEIntoViper(v, resolvedPath); err != nil {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(resolvedPath).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Compare the values with 'componentry config show'").
				WithIssue(issue.ConfigLoadFailedId).
				Wrap(err).
				BuildError()
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(resolvedPath).
			WithSuggestion("Check COMPONENTRY_* environment variables as well as the file").
			WithIssue(issue.ConfigLoadFailedId).
			Wrap(err).
			BuildError()
	}

	return &cfg, resolvedPath, nil
}

// newViper returns a viper instance seeded with defaults and environment bindings.
func newViper() *viper.Viper {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("components_dir", defaults.ComponentsDir)
	v.SetDefault("nested_dir", defaults.NestedDir)
	v.SetDefault("initializer", defaults.Initializer)
	v.SetDefault("verbose", defaults.Verbose)
	v.SetDefault("reload.enabled", defaults.Reload.Enabled)
	v.SetDefault("reload.exclude", defaults.Reload.Exclude)
	v.SetDefault("reload.debounce", defaults.Reload.Debounce)
	v.SetDefault("reload.patterns", defaults.Reload.Patterns)
	v.SetDefault("reload.ignore", defaults.Reload.Ignore)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// loadCUEIntoViper validates a CUE file against #Config and merges it into v.
// Concrete(false) because every field is optional.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	configMap, err := cueutil.DecodeMap(configSchema, data, "#Config",
		cueutil.WithFilename(path),
		cueutil.WithConcrete(false),
	)
	if err != nil {
		return err
	}

	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// WriteDefault writes a default componentry.cue into dir unless one exists.
// It returns the file path and whether it was created.
func WriteDefault(dir string) (string, bool, error) {
	path := filepath.Join(dir, ConfigFileName+"."+ConfigFileExt)
	if _, err := os.Stat(path); err == nil {
		return path, false, nil
	}

	if err := os.WriteFile(path, []byte(GenerateCUE(DefaultConfig())), 0o644); err != nil {
		return "", false, fmt.Errorf("failed to write config file: %w", err)
	}
	return path, true, nil
}

// GenerateCUE renders cfg as a componentry.cue file.
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// componentry configuration\n\n")
	fmt.Fprintf(&sb, "components_dir: %q\n", cfg.ComponentsDir)
	fmt.Fprintf(&sb, "nested_dir:     %q\n", cfg.NestedDir)
	fmt.Fprintf(&sb, "initializer:    %q\n", cfg.Initializer)
	fmt.Fprintf(&sb, "verbose:        %v\n", cfg.Verbose)

	sb.WriteString("\nreload: {\n")
	fmt.Fprintf(&sb, "\tenabled:  %v\n", cfg.Reload.Enabled)
	fmt.Fprintf(&sb, "\texclude:  %s\n", cueList(cfg.Reload.Exclude))
	fmt.Fprintf(&sb, "\tdebounce: %q\n", cfg.Reload.Debounce.String())
	if len(cfg.Reload.Patterns) > 0 {
		fmt.Fprintf(&sb, "\tpatterns: %s\n", cueList(cfg.Reload.Patterns))
	}
	if len(cfg.Reload.Ignore) > 0 {
		fmt.Fprintf(&sb, "\tignore:   %s\n", cueList(cfg.Reload.Ignore))
	}
	sb.WriteString("}\n")

	return sb.String()
}

func cueList(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = fmt.Sprintf("%q", s)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
