// SPDX-License-Identifier: MPL-2.0

package host

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"sync"
)

var (
	// ErrAlreadyBooted is returned by Boot on an application that already booted.
	ErrAlreadyBooted = errors.New("application already booted")
	// ErrNotBooted is returned by Reload and Prepare before Boot succeeded.
	ErrNotBooted = errors.New("application not booted")
)

type (
	// Application is a minimal Host. Boot and Reload are serialized.
	Application struct {
		root   string
		paths  *Paths
		logger *slog.Logger

		// Registration protection
		mu           sync.Mutex
		init         []Hook
		ready        []Hook
		beforeUnload []func()
		afterReload  []Hook

		// Run serialization
		runMu  sync.Mutex
		booted bool
	}

	// Option configures an Application.
	Option func(*Application)
)

// WithLogger sets the application logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Application) {
		a.logger = logger
	}
}

// WithPaths replaces the path collections.
func WithPaths(p *Paths) Option {
	return func(a *Application) {
		a.paths = p
	}
}

// NewApplication creates an application rooted at root.
func NewApplication(root string, opts ...Option) *Application {
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	a := &Application{
		root:  root,
		paths: NewPaths(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Root implements Host.
func (a *Application) Root() string { return a.root }

// Paths implements Host.
func (a *Application) Paths() *Paths { return a.paths }

// Logger implements Host. It is nil unless WithLogger was given.
func (a *Application) Logger() *slog.Logger { return a.logger }

// OnInit implements Host.
func (a *Application) OnInit(h Hook) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.init = append(a.init, h)
}

// OnReady implements Host.
func (a *Application) OnReady(h Hook) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.ready = append(a.ready, h)
}

// OnBeforeUnload implements Host.
func (a *Application) OnBeforeUnload(fn func()) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.beforeUnload = append(a.beforeUnload, fn)
}

// OnAfterReload implements Host.
func (a *Application) OnAfterReload(h Hook) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.afterReload = append(a.afterReload, h)
}

// Boot runs every init hook, then every ready hook. The first error aborts.
func (a *Application) Boot(ctx context.Context) error {
	a.runMu.Lock()
	defer a.runMu.Unlock()

	if a.booted {
		return ErrAlreadyBooted
	}

	a.mu.Lock()
	initHooks, readyHooks := slices.Clone(a.init), slices.Clone(a.ready)
	a.mu.Unlock()

	if err := runHooks(ctx, "init", initHooks); err != nil {
		return err
	}
	if err := runHooks(ctx, "ready", readyHooks); err != nil {
		return err
	}

	a.booted = true
	if a.logger != nil {
		a.logger.Debug("application booted", "root", a.root)
	}
	return nil
}

// Reload fires the before-unload callbacks, then the after-reload hooks.
func (a *Application) Reload(ctx context.Context) error {
	a.runMu.Lock()
	defer a.runMu.Unlock()

	if !a.booted {
		return ErrNotBooted
	}

	a.mu.Lock()
	unload, after := slices.Clone(a.beforeUnload), slices.Clone(a.afterReload)
	a.mu.Unlock()

	for _, fn := range unload {
		fn()
	}
	return runHooks(ctx, "after-reload", after)
}

// Prepare fires the after-reload hooks without unloading first, as hosts do
// when they signal readiness more than once for a single reload.
func (a *Application) Prepare(ctx context.Context) error {
	a.runMu.Lock()
	defer a.runMu.Unlock()

	if !a.booted {
		return ErrNotBooted
	}

	a.mu.Lock()
	after := slices.Clone(a.afterReload)
	a.mu.Unlock()

	return runHooks(ctx, "after-reload", after)
}

// Booted reports whether Boot succeeded.
func (a *Application) Booted() bool {
	a.runMu.Lock()
	defer a.runMu.Unlock()
	return a.booted
}

func runHooks(ctx context.Context, stage string, hooks []Hook) error {
	for _, h := range hooks {
		if err := h(ctx); err != nil {
			return fmt.Errorf("%s: %w", stage, err)
		}
	}
	return nil
}
