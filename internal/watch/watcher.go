// SPDX-License-Identifier: MPL-2.0

// Package watch watches a components root and reports debounced batches of
// changed files.
//
// Events inside the debounce window are coalesced so the callback fires once
// per burst of edits with the sorted set of changed paths. Directories created
// after startup are added to the watch automatically.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period used when Config.Debounce is not positive.
const DefaultDebounce = 500 * time.Millisecond

// defaultIgnores are always excluded: VCS metadata and editor or OS droppings.
var defaultIgnores = []string{
	"**/.git/**",
	"**/*.swp",
	"**/*.swo",
	"**/*~",
	"**/.#*",
	"**/.DS_Store",
}

var (
	// ErrAlreadyRunning is returned by a second call to Run.
	ErrAlreadyRunning = errors.New("watch: Run called more than once")
	// ErrRootMissing is returned when the watched root does not exist.
	ErrRootMissing = errors.New("watch: root directory does not exist")
)

type (
	// Config holds the parameters for a Watcher.
	Config struct {
		// Root is the directory to watch, usually the components root.
		Root string

		// Patterns are doublestar globs, relative to Root, selecting the files
		// that count as changes. Empty means every non-ignored file.
		Patterns []string

		// Ignore adds doublestar globs to the built-in ignores.
		Ignore []string

		// Debounce is the quiet period after the last event before OnChange
		// fires. Zero or negative values fall back to DefaultDebounce.
		Debounce time.Duration

		// OnChange receives the sorted, deduplicated paths (relative to Root,
		// slash-separated) changed during the window. Nil is a no-op.
		OnChange func(ctx context.Context, changed []string) error

		// Logger receives watcher diagnostics. Nil discards them.
		Logger *slog.Logger
	}

	// Watcher monitors Root and fires OnChange after each burst of changes.
	// Run must be called exactly once.
	Watcher struct {
		cfg      Config
		fsw      *fsnotify.Watcher
		ignores  []string
		logger   *slog.Logger
		debounce time.Duration
		root     string
		started  atomic.Bool
		batches  atomic.Int64
	}
)

// Validate checks every pattern in cfg.
func (cfg Config) Validate() error {
	if err := validatePatterns(cfg.Patterns, "watch"); err != nil {
		return err
	}
	return validatePatterns(cfg.Ignore, "ignore")
}

// New creates a Watcher and registers every non-ignored directory under Root.
func New(cfg Config) (*Watcher, error) {
	if cfg.Root == "" {
		return nil, fmt.Errorf("watch: root directory is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("watch: resolve root: %w", err)
	}
	if info, statErr := os.Stat(root); statErr != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrRootMissing, root)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}

	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	w := &Watcher{
		cfg:      cfg,
		fsw:      fsw,
		ignores:  slices.Concat(defaultIgnores, cfg.Ignore),
		logger:   logger,
		debounce: debounce,
		root:     root,
	}

	if err := w.addDirectories(); err != nil {
		if closeErr := fsw.Close(); closeErr != nil {
			logger.Warn("watch: close after init failure", "error", closeErr)
		}
		return nil, err
	}

	return w, nil
}

// Root returns the absolute watched directory.
func (w *Watcher) Root() string {
	return w.root
}

// Batches returns how many OnChange calls have been made.
func (w *Watcher) Batches() int64 {
	return w.batches.Load()
}

// Run blocks until ctx is cancelled. It returns nil on cancellation and an
// error when the underlying watcher breaks.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}

	var (
		mu      sync.Mutex
		pending = make(map[string]struct{})
		timer   *time.Timer
		running atomic.Bool
	)

	// fire may run after ctx is cancelled; OnChange receives ctx and is
	// expected to check it. Only one OnChange runs at a time; a burst that
	// arrives meanwhile is retried after another debounce period.
	fire := func() {
		if ctx.Err() != nil {
			return
		}
		if !running.CompareAndSwap(false, true) {
			w.logger.Debug("watch: previous batch still running, deferring")
			mu.Lock()
			if timer != nil {
				timer.Reset(w.debounce)
			}
			mu.Unlock()
			return
		}
		defer running.Store(false)

		mu.Lock()
		if len(pending) == 0 {
			mu.Unlock()
			return
		}
		changed := slices.Sorted(maps.Keys(pending))
		clear(pending)
		mu.Unlock()

		w.batches.Add(1)
		if w.cfg.OnChange != nil {
			if err := w.cfg.OnChange(ctx, changed); err != nil {
				w.logger.Error("watch: change handler failed", "error", err, "changed", changed)
			}
		}
	}

	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
		if closeErr := w.fsw.Close(); closeErr != nil {
			w.logger.Warn("watch: close fsnotify", "error", closeErr)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return fmt.Errorf("watch: fsnotify event channel closed unexpectedly")
			}

			rel := w.relative(evt.Name)
			if w.isIgnored(rel) {
				continue
			}

			// New directories extend the watch before pattern filtering so
			// files created inside them later are seen.
			if evt.Has(fsnotify.Create) {
				w.maybeAddDir(evt.Name)
			}

			if !w.matchesPatterns(rel) {
				continue
			}

			mu.Lock()
			pending[rel] = struct{}{}
			if timer == nil {
				timer = time.AfterFunc(w.debounce, fire)
			} else {
				timer.Reset(w.debounce)
			}
			mu.Unlock()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return fmt.Errorf("watch: fsnotify error channel closed unexpectedly")
			}
			if fatalWatchError(err) {
				return fmt.Errorf("watch: fatal fsnotify error: %w", err)
			}
			w.logger.Warn("watch: fsnotify error", "error", err)
		}
	}
}

// addDirectories registers Root and every non-ignored directory below it.
// Pattern filtering happens when events arrive.
func (w *Watcher) addDirectories() error {
	walkErr := filepath.WalkDir(w.root, func(path string, d os.DirEntry, walkDirErr error) error {
		if walkDirErr != nil {
			w.logger.Warn("watch: skipping inaccessible path", "path", path, "error", walkDirErr)
			return nil //nolint:nilerr // inaccessible directories are skipped
		}
		if !d.IsDir() {
			return nil
		}

		rel := w.relative(path)
		if rel != "." && (w.isIgnored(rel) || w.isIgnored(rel+"/")) {
			return filepath.SkipDir
		}

		if addErr := w.fsw.Add(path); addErr != nil {
			return fmt.Errorf("watch: add directory %q: %w", path, addErr)
		}
		return nil
	})
	if walkErr != nil {
		return fmt.Errorf("watch: walk directory tree: %w", walkErr)
	}
	return nil
}

func (w *Watcher) maybeAddDir(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}

	rel := w.relative(path)
	if w.isIgnored(rel) || w.isIgnored(rel+"/") {
		return
	}

	if addErr := w.fsw.Add(path); addErr != nil {
		w.logger.Warn("watch: add new directory", "path", path, "error", addErr)
	}
}

// relative returns path relative to Root, slash-separated.
func (w *Watcher) relative(path string) string {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		rel = path
	}
	return filepath.ToSlash(rel)
}

func (w *Watcher) isIgnored(rel string) bool {
	return matchAny(w.ignores, rel)
}

func (w *Watcher) matchesPatterns(rel string) bool {
	if len(w.cfg.Patterns) == 0 {
		return true
	}
	return matchAny(w.cfg.Patterns, rel)
}

// DefaultIgnores returns a copy of the built-in ignore patterns.
func DefaultIgnores() []string {
	return slices.Clone(defaultIgnores)
}

// AffectedComponents maps changed paths (relative to the components root) to
// the slash-separated directories of the components that own them: the
// top-level directory, or "<parent>/<nestedDir>/<child>" for sub-components.
// The result is sorted and deduplicated.
func AffectedComponents(changed []string, nestedDir string) []string {
	seen := make(map[string]struct{})
	for _, p := range changed {
		parts := strings.Split(filepath.ToSlash(p), "/")
		if len(parts) < 2 || parts[0] == "" || parts[0] == "." || parts[0] == ".." {
			continue
		}
		dir := parts[0]
		if len(parts) >= 4 && parts[1] == nestedDir {
			dir = strings.Join(parts[:3], "/")
		}
		seen[dir] = struct{}{}
	}
	return slices.Sorted(maps.Keys(seen))
}

func matchAny(patterns []string, rel string) bool {
	for _, pat := range patterns {
		if matched, err := doublestar.Match(pat, rel); err == nil && matched {
			return true
		}
	}
	return false
}

func validatePatterns(patterns []string, label string) error {
	for _, pat := range patterns {
		if strings.TrimSpace(pat) == "" || !doublestar.ValidatePattern(pat) {
			return fmt.Errorf("watch: invalid %s pattern %q", label, pat)
		}
	}
	return nil
}
