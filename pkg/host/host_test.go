// SPDX-License-Identifier: MPL-2.0

package host

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"testing"
)

var _ Host = (*Application)(nil)

func TestPathList_Add(t *testing.T) {
	t.Parallel()

	var l PathList
	if got := l.Add("/a", "/b/", "/a", "", "/b"); got != 2 {
		t.Errorf("Add() = %d, want 2", got)
	}
	if !slices.Equal(l.Items(), []string{"/a", "/b"}) {
		t.Errorf("Items() = %v", l.Items())
	}
	if !l.Contains("/b/.") {
		t.Error("Contains() should clean its argument")
	}
	if l.Len() != 2 {
		t.Errorf("Len() = %d", l.Len())
	}
}

func TestPaths_Matching(t *testing.T) {
	t.Parallel()

	root := filepath.FromSlash("/app/components")
	p := NewPaths()
	p.Collapse.Add(filepath.Join(root, "*", "_components"))
	p.Ignore.Add(filepath.Join(root, "**", "component.{cue,toml,yaml}"))

	tests := []struct {
		name string
		fn   func(string) bool
		path string
		want bool
	}{
		{"collapse nested dir", p.IsCollapsed, "/app/components/clients/_components", true},
		{"collapse only one level", p.IsCollapsed, "/app/components/a/b/_components", false},
		{"collapse component dir", p.IsCollapsed, "/app/components/clients", false},
		{"ignore top initializer", p.IsIgnored, "/app/components/clients/component.cue", true},
		{"ignore nested initializer", p.IsIgnored, "/app/components/clients/_components/billing/component.yaml", true},
		{"keep other files", p.IsIgnored, "/app/components/clients/routes.cue", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.fn(filepath.FromSlash(tt.path)); got != tt.want {
				t.Errorf("match(%s) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestApplication_BootOrder(t *testing.T) {
	t.Parallel()

	var events []string
	app := NewApplication(t.TempDir())
	app.OnReady(func(context.Context) error { events = append(events, "ready-1"); return nil })
	app.OnInit(func(context.Context) error { events = append(events, "init-1"); return nil })
	app.OnInit(func(context.Context) error { events = append(events, "init-2"); return nil })

	if err := app.Boot(context.Background()); err != nil {
		t.Fatalf("Boot() error = %v", err)
	}
	if want := []string{"init-1", "init-2", "ready-1"}; !slices.Equal(events, want) {
		t.Errorf("events = %v, want %v", events, want)
	}
	if !app.Booted() {
		t.Error("Booted() = false")
	}
	if app.Logger() != nil {
		t.Error("Logger() without WithLogger should be nil")
	}
	if err := app.Boot(context.Background()); !errors.Is(err, ErrAlreadyBooted) {
		t.Errorf("second Boot() error = %v", err)
	}
}

func TestApplication_BootFailFast(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	readyRan := false
	app := NewApplication(t.TempDir())
	app.OnInit(func(context.Context) error { return boom })
	app.OnReady(func(context.Context) error { readyRan = true; return nil })

	if err := app.Boot(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("Boot() error = %v, want boom", err)
	}
	if readyRan {
		t.Error("ready hook ran after init failure")
	}
	if app.Booted() {
		t.Error("Booted() = true after failure")
	}
}

func TestApplication_ReloadSignals(t *testing.T) {
	t.Parallel()

	var events []string
	app := NewApplication(t.TempDir())
	app.OnBeforeUnload(func() { events = append(events, "unload") })
	app.OnAfterReload(func(context.Context) error { events = append(events, "after"); return nil })

	if err := app.Reload(context.Background()); !errors.Is(err, ErrNotBooted) {
		t.Fatalf("Reload() before Boot error = %v", err)
	}
	if err := app.Prepare(context.Background()); !errors.Is(err, ErrNotBooted) {
		t.Fatalf("Prepare() before Boot error = %v", err)
	}

	if err := app.Boot(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := app.Reload(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := app.Prepare(context.Background()); err != nil {
		t.Fatal(err)
	}

	if want := []string{"unload", "after", "after"}; !slices.Equal(events, want) {
		t.Errorf("events = %v, want %v", events, want)
	}
}
