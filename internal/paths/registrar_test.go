// SPDX-License-Identifier: MPL-2.0

package paths

import (
	"path/filepath"
	"slices"
	"testing"

	"github.com/invowk/componentry/internal/manifest"
	"github.com/invowk/componentry/internal/testutil"
	"github.com/invowk/componentry/pkg/component"
	"github.com/invowk/componentry/pkg/host"
)

func TestRegistrar_Register(t *testing.T) {
	t.Parallel()

	tree := testutil.NewTree(t)
	clients := tree.Component("clients").
		Dir("migrations").
		Dir("helpers").
		Dir("lib").
		File("routes.cue", "")
	billing := tree.Component("clients/_components/billing")

	descriptors := []component.Descriptor{
		{Name: "Clients", Path: clients.Path()},
		{Name: "Clients::Billing", Path: billing.Path(), Parent: "Clients"},
	}
	manifests := map[string]*manifest.Manifest{
		"Clients::Billing": {Paths: manifest.PathSet{
			Migrations: []string{"db/migrate"},
			Autoload:   []string{"models", "models/"},
		}},
	}

	p := host.NewPaths()
	r := NewRegistrar(tree.Root(), "_components", "component")
	summary := r.Register(p, descriptors, manifests)

	if summary.Components != 2 {
		t.Errorf("Components = %d", summary.Components)
	}

	wantAutoload := []string{
		clients.Path(),
		filepath.Join(clients.Path(), "lib"),
		billing.Path(),
		filepath.Join(billing.Path(), "models"),
	}
	if got := p.Autoload.Items(); !slices.Equal(got, wantAutoload) {
		t.Errorf("Autoload = %v, want %v", got, wantAutoload)
	}
	if got := p.EagerLoad.Items(); !slices.Equal(got, []string{clients.Path(), billing.Path()}) {
		t.Errorf("EagerLoad = %v", got)
	}

	wantMigrations := []string{filepath.Join(clients.Path(), "migrations"), filepath.Join(billing.Path(), "db", "migrate")}
	if got := p.Migrations.Items(); !slices.Equal(got, wantMigrations) {
		t.Errorf("Migrations = %v, want %v", got, wantMigrations)
	}
	if got := p.Routes.Items(); !slices.Equal(got, []string{filepath.Join(clients.Path(), "routes.cue")}) {
		t.Errorf("Routes = %v", got)
	}
	if got := p.Helpers.Items(); !slices.Equal(got, []string{filepath.Join(clients.Path(), "helpers")}) {
		t.Errorf("Helpers = %v", got)
	}

	if !p.IsCollapsed(filepath.Join(clients.Path(), "_components")) {
		t.Error("nested directory should be collapsed")
	}
	if !p.IsCollapsed(filepath.Join(clients.Path(), "lib")) {
		t.Error("lib directory should be collapsed")
	}
	if !p.IsIgnored(filepath.Join(billing.Path(), "component.toml")) {
		t.Error("initializer resources should be ignored")
	}

	total := summary.Added
	again := r.Register(p, descriptors, manifests)
	if again.Added != 0 {
		t.Errorf("second Register() added %d paths, want 0 (first added %d)", again.Added, total)
	}
}

func TestRegistrar_RootWithGlobCharacters(t *testing.T) {
	t.Parallel()

	if filepath.Separator == '\\' {
		t.Skip("glob escaping is unavailable with backslash separators")
	}

	base := t.TempDir()
	root := filepath.Join(base, "app[v1]{a,b}*?", "components")
	clients := filepath.Join(root, "clients")

	p := host.NewPaths()
	NewRegistrar(root, "_components", "component").
		Register(p, []component.Descriptor{{Name: "Clients", Path: clients}}, nil)

	if !p.IsCollapsed(filepath.Join(clients, "_components")) {
		t.Errorf("nested directory under %s not collapsed: %v", root, p.Collapse.Items())
	}
	if !p.IsIgnored(filepath.Join(clients, "component.cue")) {
		t.Errorf("initializer under %s not ignored: %v", root, p.Ignore.Items())
	}

	// The literal root must not act as a pattern for look-alike siblings.
	sibling := filepath.Join(base, "appvbxy", "components", "clients")
	if p.IsCollapsed(filepath.Join(sibling, "_components")) {
		t.Error("collapse pattern matched a sibling root")
	}
	if p.IsIgnored(filepath.Join(base, "app1axy", "components", "clients", "component.cue")) {
		t.Error("ignore pattern matched a sibling root")
	}
}
