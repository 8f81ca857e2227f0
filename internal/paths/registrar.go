// SPDX-License-Identifier: MPL-2.0

package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/invowk/componentry/internal/manifest"
	"github.com/invowk/componentry/pkg/component"
	"github.com/invowk/componentry/pkg/host"
)

const (
	// MigrationsDir is the conventional migrations directory of a component.
	MigrationsDir = "migrations"
	// RoutesFile is the conventional routes file of a component.
	RoutesFile = "routes.cue"
	// HelpersDir is the conventional helpers directory of a component.
	HelpersDir = "helpers"
	// LibDir holds code that joins the component namespace without its own segment.
	LibDir = "lib"
)

type (
	// Registrar appends component paths to a host's collections.
	Registrar struct {
		root            string
		nestedDir       string
		initializerName string
	}

	// Summary counts what one Register call added.
	Summary struct {
		Components int
		Added      int
	}
)

// NewRegistrar creates a registrar for the components under root.
func NewRegistrar(root, nestedDir, initializerName string) *Registrar {
	return &Registrar{root: root, nestedDir: nestedDir, initializerName: initializerName}
}

// Register adds the per-root patterns and every descriptor's directories to p.
// manifests maps component names to their parsed initializer resource and may
// omit components without one.
func (r *Registrar) Register(p *host.Paths, descriptors []component.Descriptor, manifests map[string]*manifest.Manifest) Summary {
	s := Summary{Components: len(descriptors)}

	root := escapeGlob(r.root)
	s.Added += p.Collapse.Add(filepath.Join(root, "*", escapeGlob(r.nestedDir)))
	s.Added += p.Ignore.Add(filepath.Join(root, "**", escapeGlob(r.initializerName)+".{cue,toml,yaml}"))

	for _, d := range descriptors {
		s.Added += r.registerOne(p, d, manifests[d.Name])
	}
	return s
}

func (r *Registrar) registerOne(p *host.Paths, d component.Descriptor, m *manifest.Manifest) int {
	added := p.Autoload.Add(d.Path)
	added += p.EagerLoad.Add(d.Path)

	if dir := filepath.Join(d.Path, MigrationsDir); isDir(dir) {
		added += p.Migrations.Add(dir)
	}
	if file := filepath.Join(d.Path, RoutesFile); isFile(file) {
		added += p.Routes.Add(file)
	}
	if dir := filepath.Join(d.Path, HelpersDir); isDir(dir) {
		added += p.Helpers.Add(dir)
	}
	if dir := filepath.Join(d.Path, LibDir); isDir(dir) {
		added += p.Autoload.Add(dir)
		added += p.Collapse.Add(dir)
	}

	if m == nil {
		return added
	}
	added += p.Migrations.Add(resolve(d.Path, m.Paths.Migrations)...)
	added += p.Routes.Add(resolve(d.Path, m.Paths.Routes)...)
	added += p.Helpers.Add(resolve(d.Path, m.Paths.Helpers)...)
	added += p.Autoload.Add(resolve(d.Path, m.Paths.Autoload)...)
	return added
}

func resolve(base string, rel []string) []string {
	out := make([]string, 0, len(rel))
	for _, p := range rel {
		if strings.TrimSpace(p) == "" {
			continue
		}
		out = append(out, filepath.Join(base, filepath.FromSlash(p)))
	}
	return out
}

// globMeta quotes the doublestar metacharacters of a literal path segment.
var globMeta = strings.NewReplacer(
	`\`, `\\`,
	`*`, `\*`,
	`?`, `\?`,
	`[`, `\[`,
	`]`, `\]`,
	`{`, `\{`,
	`}`, `\}`,
)

func escapeGlob(s string) string {
	if filepath.Separator == '\\' {
		// Backslash is the separator; doublestar cannot escape on this platform.
		return s
	}
	return globMeta.Replace(s)
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
