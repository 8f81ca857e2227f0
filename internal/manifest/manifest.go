// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/invowk/componentry/internal/cueutil"
	"github.com/invowk/componentry/pkg/component"

	"github.com/pelletier/go-toml/v2"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
)

const (
	// FormatCUE is the CUE initializer format.
	FormatCUE Format = "cue"
	// FormatTOML is the TOML initializer format.
	FormatTOML Format = "toml"
	// FormatYAML is the YAML initializer format.
	FormatYAML Format = "yaml"
)

var (
	//go:embed schema.cue
	schema []byte

	// ErrUnsupportedFormat is returned for files whose extension is not cue, toml or yaml.
	ErrUnsupportedFormat = errors.New("unsupported initializer format")
	// ErrInvalidManifest is wrapped by InvalidManifestError.
	ErrInvalidManifest = errors.New("invalid initializer resource")
	// ErrParse is wrapped around decoding failures of any format.
	ErrParse = errors.New("failed to parse initializer")
)

type (
	// Format identifies an initializer resource encoding.
	Format string

	// Manifest is the decoded content of an initializer resource.
	Manifest struct {
		// Initializer is the handle name. Empty means "<Component>::Initializer".
		Initializer string `json:"initializer,omitempty" toml:"initializer" yaml:"initializer"`
		// Version is an optional semantic version ("1.2.0" or "v1.2.0").
		Version     string `json:"version,omitempty" toml:"version" yaml:"version"`
		Description string `json:"description,omitempty" toml:"description" yaml:"description"`
		// Reload set to false keeps the component out of reload re-dispatch.
		Reload *bool   `json:"reload,omitempty" toml:"reload" yaml:"reload"`
		Paths  PathSet `json:"paths,omitempty" toml:"paths" yaml:"paths"`
	}

	// PathSet lists extra slash-separated paths, relative to the component
	// directory, to register with the host.
	PathSet struct {
		Migrations []string `json:"migrations,omitempty" toml:"migrations" yaml:"migrations"`
		Routes     []string `json:"routes,omitempty" toml:"routes" yaml:"routes"`
		Helpers    []string `json:"helpers,omitempty" toml:"helpers" yaml:"helpers"`
		Autoload   []string `json:"autoload,omitempty" toml:"autoload" yaml:"autoload"`
	}

	// InvalidManifestError reports a resource that decoded but failed validation.
	InvalidManifestError struct {
		Path   string
		Field  string
		Reason string
	}
)

// FormatOf returns the format implied by the file extension of p.
func FormatOf(p string) (Format, error) {
	switch strings.ToLower(filepath.Ext(p)) {
	case ".cue":
		return FormatCUE, nil
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, p)
	}
}

// Load reads and validates the initializer resource at p.
func Load(p string) (*Manifest, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("failed to read initializer: %w", err)
	}
	return Parse(data, p)
}

// Parse decodes data using the format implied by filename and validates it.
func Parse(data []byte, filename string) (*Manifest, error) {
	format, err := FormatOf(filename)
	if err != nil {
		return nil, err
	}
	if err := cueutil.CheckFileSize(data, cueutil.DefaultMaxFileSize, filename); err != nil {
		return nil, err
	}

	var m *Manifest
	switch format {
	case FormatCUE:
		m, err = cueutil.ParseAndDecode[Manifest](schema, data, "#Component", cueutil.WithFilename(filename))
	case FormatTOML:
		m, err = decodeTOML(data)
	case FormatYAML:
		m, err = decodeYAML(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrParse, filename, err)
	}

	if err := m.Validate(filename); err != nil {
		return nil, err
	}
	return m, nil
}

func decodeTOML(data []byte) (*Manifest, error) {
	var m Manifest
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&m); err != nil {
		return nil, err
	}
	return &m, nil
}

func decodeYAML(data []byte) (*Manifest, error) {
	var m Manifest
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return &m, nil
}

// Validate runs the checks shared by every format. source is used in errors.
func (m *Manifest) Validate(source string) error {
	if m.Initializer != "" && !component.ValidHandleName(m.Initializer) {
		return &InvalidManifestError{Path: source, Field: "initializer", Reason: fmt.Sprintf("%q is not a handle name", m.Initializer)}
	}
	if m.Version != "" && !semver.IsValid(m.CanonicalVersion()) {
		return &InvalidManifestError{Path: source, Field: "version", Reason: fmt.Sprintf("%q is not a semantic version", m.Version)}
	}

	for _, group := range []struct {
		field string
		list  []string
	}{
		{"paths.migrations", m.Paths.Migrations},
		{"paths.routes", m.Paths.Routes},
		{"paths.helpers", m.Paths.Helpers},
		{"paths.autoload", m.Paths.Autoload},
	} {
		for _, p := range group.list {
			if reason := checkRelative(p); reason != "" {
				return &InvalidManifestError{Path: source, Field: group.field, Reason: fmt.Sprintf("%q %s", p, reason)}
			}
		}
	}
	return nil
}

// Handle returns the handle name the resource resolves to for component.
func (m *Manifest) Handle(name string) string {
	if m.Initializer != "" {
		return m.Initializer
	}
	return component.DefaultHandleName(name)
}

// Reloadable reports whether the component takes part in reload re-dispatch.
func (m *Manifest) Reloadable() bool {
	return m.Reload == nil || *m.Reload
}

// CanonicalVersion returns Version with a "v" prefix, or "" when unset.
func (m *Manifest) CanonicalVersion() string {
	if m.Version == "" {
		return ""
	}
	if strings.HasPrefix(m.Version, "v") {
		return m.Version
	}
	return "v" + m.Version
}

// Error implements the error interface.
func (e *InvalidManifestError) Error() string {
	return fmt.Sprintf("invalid initializer %s: %s: %s", e.Path, e.Field, e.Reason)
}

// Unwrap returns ErrInvalidManifest.
func (e *InvalidManifestError) Unwrap() error {
	return ErrInvalidManifest
}

func checkRelative(p string) string {
	if strings.TrimSpace(p) == "" {
		return "must not be empty"
	}
	if path.IsAbs(p) || filepath.IsAbs(p) {
		return "must be relative to the component directory"
	}
	clean := path.Clean(p)
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return "must stay inside the component directory"
	}
	return ""
}
