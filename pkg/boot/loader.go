// SPDX-License-Identifier: MPL-2.0

package boot

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/invowk/componentry/internal/config"
	"github.com/invowk/componentry/internal/discovery"
	"github.com/invowk/componentry/internal/lifecycle"
	"github.com/invowk/componentry/internal/manifest"
	"github.com/invowk/componentry/internal/reload"
	"github.com/invowk/componentry/pkg/component"
	"github.com/invowk/componentry/pkg/host"
	"github.com/invowk/componentry/pkg/namespace"
)

// Loader discovers components under a root and dispatches their hooks.
// Hooks run without the loader's lock held, so they may call back into it.
type Loader struct {
	console io.Writer

	mu          sync.Mutex
	opts        Options
	rootSet     bool
	logger      *slog.Logger
	progress    *slog.Logger
	scan        *discovery.Result
	manifests   map[string]*manifest.Manifest
	tree        *namespace.Tree
	loaded      bool
	dispatcher  *lifecycle.Dispatcher
	coordinator *reload.Coordinator

	// Names of components whose initializer opts out of reloading. Read by
	// the reload skip predicate while hooks run.
	optedOutNames atomic.Pointer[map[string]struct{}]
}

// New creates a Loader. Nothing is read from disk until first use.
func New(opts Options) *Loader {
	return newLoader(opts, os.Stderr)
}

func newLoader(opts Options, console io.Writer) *Loader {
	l := &Loader{
		console: console,
		rootSet: opts.Root != "",
		opts:    opts.withDefaults(),
	}
	l.setLoggersLocked()
	return l
}

// setLoggersLocked derives the loggers from opts and rebuilds the dispatcher
// and coordinator around them.
func (l *Loader) setLoggersLocked() {
	l.logger, l.progress = loggers(l.opts, l.console)
	l.dispatcher = lifecycle.New(nil, l.logger, l.progress)
	l.coordinator = reload.New(l.reloadRun, l.opts.ReloadExclude, l.logger,
		reload.WithOptOut(l.optedOut),
	)
	l.loaded = false
}

// adopt fills what Options left unset from h: the root becomes
// <h.Root()>/components and h's logger replaces the console fallback.
func (l *Loader) adopt(h host.Host) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.rootSet && h.Root() != "" {
		l.opts.Root = filepath.Join(h.Root(), config.DefaultComponentsDir)
		l.rootSet = true
		l.invalidateLocked()
	}
	if l.opts.Logger == nil {
		if logger := h.Logger(); logger != nil {
			l.opts.Logger = logger
			l.setLoggersLocked()
		}
	}
}

// Root returns the components root as configured.
func (l *Loader) Root() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.opts.Root
}

// Options returns the effective options.
func (l *Loader) Options() Options {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.opts
}

// Descriptors returns the discovered components in scan order. The scan
// runs once and is cached until Reset or a reload cycle.
func (l *Loader) Descriptors() ([]component.Descriptor, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	res, err := l.scanLocked()
	if err != nil {
		return nil, err
	}
	return append([]component.Descriptor(nil), res.Descriptors...), nil
}

// Diagnostics returns the non-fatal findings of the cached scan.
func (l *Loader) Diagnostics() ([]discovery.Diagnostic, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	res, err := l.scanLocked()
	if err != nil {
		return nil, err
	}
	return append([]discovery.Diagnostic(nil), res.Diagnostics...), nil
}

// Find returns the component named name ("Clients::Billing" or
// "Clients/Billing"). An unknown name is logged and returned as a
// *component.NotFoundError.
func (l *Loader) Find(name string) (component.Descriptor, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	res, err := l.scanLocked()
	if err != nil {
		return component.Descriptor{}, err
	}
	if d, ok := res.Find(name); ok {
		return d, nil
	}

	notFound := &component.NotFoundError{Name: component.NormalizeName(name)}
	l.logger.Error(notFound.Error(), "root", res.Root)
	return component.Descriptor{}, notFound
}

// Namespaces returns the namespace tree for the discovered components.
// After Load, nodes of components with an initializer carry their handle.
func (l *Loader) Namespaces() (*namespace.Tree, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.treeLocked(); err != nil {
		return nil, err
	}
	return l.tree, nil
}

// Manifests returns the parsed initializer resources keyed by component name.
func (l *Loader) Manifests() (map[string]*manifest.Manifest, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.manifestsLocked(); err != nil {
		return nil, err
	}
	out := make(map[string]*manifest.Manifest, len(l.manifests))
	for k, v := range l.manifests {
		out[k] = v
	}
	return out, nil
}

// Load scans, builds the namespace tree and resolves every initializer
// resource to its registered handle. It is a no-op once loaded.
func (l *Loader) Load() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loadLocked()
}

// Init loads if needed and runs every init hook.
func (l *Loader) Init(ctx context.Context) error {
	d, err := l.loadedDispatcher()
	if err != nil {
		return err
	}
	return d.Init(ctx, nil)
}

// Ready runs every ready hook. Init must have succeeded.
func (l *Loader) Ready(ctx context.Context) error {
	return l.currentDispatcher().Ready(ctx, nil)
}

// State returns the dispatcher state.
func (l *Loader) State() lifecycle.State {
	return l.currentDispatcher().State()
}

// Coordinator returns the reload coordinator.
func (l *Loader) Coordinator() *reload.Coordinator {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.coordinator
}

func (l *Loader) currentDispatcher() *lifecycle.Dispatcher {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.dispatcher
}

// loadedDispatcher loads if needed and returns the dispatcher to run hooks on
// once the lock is released.
func (l *Loader) loadedDispatcher() (*lifecycle.Dispatcher, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.loadLocked(); err != nil {
		return nil, err
	}
	return l.dispatcher, nil
}

// Reset drops every cached result and returns the dispatcher to idle.
func (l *Loader) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.invalidateLocked()
}

func (l *Loader) invalidateLocked() {
	l.scan = nil
	l.manifests = nil
	l.tree = nil
	l.loaded = false
	l.dispatcher.Reset([]lifecycle.Entry{})
}

func (l *Loader) scanLocked() (*discovery.Result, error) {
	if l.scan != nil {
		return l.scan, nil
	}

	res, err := discovery.Scan(discovery.ScanOptions{
		Root:            l.opts.Root,
		NestedDir:       l.opts.NestedDir,
		InitializerName: l.opts.InitializerName,
	})
	if err != nil {
		return nil, err
	}
	for _, d := range res.Diagnostics {
		l.logger.Log(context.Background(), d.Level(), d.Message, "code", d.Code, "path", d.Path)
	}
	l.logger.Debug("components discovered", "root", res.Root, "count", len(res.Descriptors))

	l.scan = res
	return res, nil
}

func (l *Loader) manifestsLocked() error {
	if l.manifests != nil {
		return nil
	}
	res, err := l.scanLocked()
	if err != nil {
		return err
	}

	manifests := make(map[string]*manifest.Manifest)
	optedOut := make(map[string]struct{})
	for _, d := range res.Descriptors {
		if !d.HasInitializer() {
			continue
		}
		m, err := manifest.Load(d.Initializer)
		if err != nil {
			return fmt.Errorf("component '%s': %w", d.Name, err)
		}
		manifests[d.Name] = m
		if !m.Reloadable() {
			optedOut[d.Name] = struct{}{}
		}
	}
	l.manifests = manifests
	l.optedOutNames.Store(&optedOut)
	return nil
}

func (l *Loader) treeLocked() error {
	if l.tree != nil {
		return nil
	}
	res, err := l.scanLocked()
	if err != nil {
		return err
	}

	tree := namespace.New()
	for _, d := range res.Descriptors {
		if _, err := tree.Ensure(d.Name); err != nil {
			return err
		}
	}
	l.tree = tree
	return nil
}

func (l *Loader) loadLocked() error {
	if l.loaded {
		return nil
	}
	if err := l.treeLocked(); err != nil {
		return err
	}
	if err := l.manifestsLocked(); err != nil {
		return err
	}

	entries := make([]lifecycle.Entry, 0, len(l.scan.Descriptors))
	for _, d := range l.scan.Descriptors {
		entry := lifecycle.Entry{Descriptor: d}
		if m, ok := l.manifests[d.Name]; ok {
			resolved, err := manifest.Resolve(d, m, l.opts.Catalog)
			if err != nil {
				return err
			}
			if err := l.tree.Bind(d.Name, resolved.Handle); err != nil {
				return err
			}
			entry.Handle = resolved.Handle
		}
		entries = append(entries, entry)
	}

	l.dispatcher.Reset(entries)
	l.loaded = true
	return nil
}

// reloadRun is the reload coordinator's run function.
func (l *Loader) reloadRun(ctx context.Context, cycle string, skip reload.SkipFunc) error {
	d, err := l.rescan(cycle)
	if err != nil {
		return fmt.Errorf("reload %s: %w", cycle, err)
	}
	if err := d.Init(ctx, lifecycle.SkipFunc(skip)); err != nil {
		return fmt.Errorf("reload %s: %w", cycle, err)
	}
	if err := d.Ready(ctx, lifecycle.SkipFunc(skip)); err != nil {
		return fmt.Errorf("reload %s: %w", cycle, err)
	}
	return nil
}

// rescan drops the cached scan and loads the tree again.
func (l *Loader) rescan(cycle string) (*lifecycle.Dispatcher, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.logger.Info("reloading components", "cycle", cycle)
	l.invalidateLocked()
	if err := l.loadLocked(); err != nil {
		return nil, err
	}
	return l.dispatcher, nil
}

// optedOut reports components whose initializer sets reload to false.
func (l *Loader) optedOut(d component.Descriptor) bool {
	names := l.optedOutNames.Load()
	if names == nil {
		return false
	}
	_, ok := (*names)[d.Name]
	return ok
}
