// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"
	"time"
)

// startWatcher runs w in the background and returns a stop function that
// cancels it and reports Run's result.
func startWatcher(t *testing.T, w *Watcher) func() error {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()
	return func() error {
		cancel()
		select {
		case err := <-errCh:
			return err
		case <-time.After(5 * time.Second):
			t.Fatal("Run() did not return after cancel")
			return nil
		}
	}
}

func TestWatcherDebounce(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "clients"), 0o755); err != nil {
		t.Fatal(err)
	}

	var (
		mu        sync.Mutex
		calls     int
		collected []string
	)
	done := make(chan struct{})

	w, err := New(Config{
		Root:     root,
		Debounce: 100 * time.Millisecond,
		OnChange: func(_ context.Context, changed []string) error {
			mu.Lock()
			defer mu.Unlock()
			calls++
			collected = append(collected, changed...)
			if calls == 1 {
				close(done)
			}
			return nil
		},
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	stop := startWatcher(t, w)

	for _, name := range []string{"clients/a.cue", "clients/b.cue", "top.txt"} {
		if err := os.WriteFile(filepath.Join(root, filepath.FromSlash(name)), []byte("data"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for callback")
	}
	time.Sleep(250 * time.Millisecond)

	if err := stop(); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if calls != 1 {
		t.Errorf("expected 1 debounced callback, got %d", calls)
	}
	for _, want := range []string{"clients/a.cue", "clients/b.cue", "top.txt"} {
		if !slices.Contains(collected, want) {
			t.Errorf("expected %q in changed files, got %v", want, collected)
		}
	}
	if !slices.IsSorted(collected) {
		t.Errorf("changed files not sorted: %v", collected)
	}
	if w.Batches() != 1 {
		t.Errorf("Batches() = %d", w.Batches())
	}
}

func TestWatcherIgnoreAndPatterns(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	fired := make(chan []string, 10)

	w, err := New(Config{
		Root:     root,
		Patterns: []string{"**/*.cue"},
		Ignore:   []string{"**/tmp/**"},
		Debounce: 50 * time.Millisecond,
		OnChange: func(_ context.Context, changed []string) error {
			fired <- changed
			return nil
		},
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	stop := startWatcher(t, w)
	defer func() { _ = stop() }()

	if err := os.MkdirAll(filepath.Join(root, "tmp"), 0o755); err != nil {
		t.Fatal(err)
	}
	time.Sleep(50 * time.Millisecond)
	for _, name := range []string{"notes.txt", "tmp/skip.cue", "component.cue"} {
		if err := os.WriteFile(filepath.Join(root, filepath.FromSlash(name)), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	select {
	case changed := <-fired:
		if !slices.Equal(changed, []string{"component.cue"}) {
			t.Errorf("changed = %v, want [component.cue]", changed)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for callback")
	}
}

func TestWatcherNewDirectory(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	fired := make(chan []string, 10)

	w, err := New(Config{
		Root:     root,
		Patterns: []string{"**/*.cue"},
		Debounce: 50 * time.Millisecond,
		OnChange: func(_ context.Context, changed []string) error {
			fired <- changed
			return nil
		},
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	stop := startWatcher(t, w)
	defer func() { _ = stop() }()

	dir := filepath.Join(root, "billing")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(filepath.Join(dir, "component.cue"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	deadline := time.After(5 * time.Second)
	for {
		select {
		case changed := <-fired:
			if slices.Contains(changed, "billing/component.cue") {
				return
			}
		case <-deadline:
			t.Fatal("file in new directory never reported")
		}
	}
}

func TestWatcherContextCancel(t *testing.T) {
	t.Parallel()

	w, err := New(Config{Root: t.TempDir()})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	stop := startWatcher(t, w)
	if err := stop(); err != nil {
		t.Fatalf("Run() error = %v, want nil on cancel", err)
	}
}

func TestWatcherDoubleRun(t *testing.T) {
	t.Parallel()

	w, err := New(Config{Root: t.TempDir()})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	stop := startWatcher(t, w)
	defer func() { _ = stop() }()

	time.Sleep(20 * time.Millisecond)
	if err := w.Run(context.Background()); !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("second Run() error = %v, want ErrAlreadyRunning", err)
	}
}

func TestNewErrors(t *testing.T) {
	t.Parallel()

	if _, err := New(Config{}); err == nil {
		t.Error("New() without root succeeded")
	}
	if _, err := New(Config{Root: filepath.Join(t.TempDir(), "absent")}); !errors.Is(err, ErrRootMissing) {
		t.Errorf("New() missing root error = %v", err)
	}
	if _, err := New(Config{Root: t.TempDir(), Patterns: []string{"[unclosed"}}); err == nil {
		t.Error("New() accepted an invalid pattern")
	}
	if _, err := New(Config{Root: t.TempDir(), Ignore: []string{""}}); err == nil {
		t.Error("New() accepted an empty ignore pattern")
	}
}

func TestDefaultIgnores(t *testing.T) {
	t.Parallel()

	w := &Watcher{ignores: DefaultIgnores()}
	tests := []struct {
		path string
		want bool
	}{
		{".git/HEAD", true},
		{"clients/.git/config", true},
		{"clients/component.cue.swp", true},
		{"clients/component.cue~", true},
		{"clients/.#component.cue", true},
		{".DS_Store", true},
		{"clients/component.cue", false},
	}
	for _, tt := range tests {
		if got := w.isIgnored(tt.path); got != tt.want {
			t.Errorf("isIgnored(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}

	mutated := DefaultIgnores()
	mutated[0] = "changed"
	if DefaultIgnores()[0] == "changed" {
		t.Error("DefaultIgnores() returned the internal slice")
	}
}

func TestAffectedComponents(t *testing.T) {
	t.Parallel()

	changed := []string{
		"clients/component.cue",
		"clients/lib/x.go",
		"clients/_components/billing/routes.cue",
		"clients/_components/billing/helpers/fmt.go",
		"README.md",
		"tracing/component.toml",
	}
	got := AffectedComponents(changed, "_components")
	want := []string{"clients", "clients/_components/billing", "tracing"}
	if !slices.Equal(got, want) {
		t.Errorf("AffectedComponents() = %v, want %v", got, want)
	}
}
