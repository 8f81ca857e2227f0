// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/invowk/componentry/pkg/component"
)

const (
	// DefaultNestedDir is the nested directory name used when ScanOptions leaves it empty.
	DefaultNestedDir = "_components"
	// DefaultInitializerName is the initializer base name used when ScanOptions leaves it empty.
	DefaultInitializerName = "component"
)

// InitializerExtensions lists the initializer resource formats in lookup order.
var InitializerExtensions = []string{".cue", ".toml", ".yaml"}

// ErrRootNotDirectory is returned when the components root exists but is not a directory.
var ErrRootNotDirectory = errors.New("components root is not a directory")

type (
	// ScanOptions configures a scan.
	ScanOptions struct {
		// Root is the components root. Relative paths are made absolute.
		Root string
		// NestedDir is the reserved directory whose children are sub-components.
		NestedDir string
		// InitializerName is the initializer resource base name.
		InitializerName string
	}

	// Result bundles the discovered descriptors with diagnostics produced
	// during the scan.
	Result struct {
		// Root is the absolute components root that was scanned.
		Root string
		// Descriptors is sorted by slash-normalized path relative to Root.
		Descriptors []component.Descriptor
		Diagnostics []Diagnostic
	}

	scanner struct {
		opts    ScanOptions
		root    string
		found   []found
		diags   []Diagnostic
		nameIdx map[string]string
	}

	found struct {
		rel  string
		desc component.Descriptor
	}
)

// Scan walks opts.Root and returns every component it finds. A missing root
// is not an error: it yields an empty Result. Two directories that map to
// the same name return a *component.NameCollisionError.
func Scan(opts ScanOptions) (*Result, error) {
	if opts.NestedDir == "" {
		opts.NestedDir = DefaultNestedDir
	}
	if opts.InitializerName == "" {
		opts.InitializerName = DefaultInitializerName
	}

	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve components root %q: %w", opts.Root, err)
	}

	info, err := os.Stat(root)
	if errors.Is(err, fs.ErrNotExist) {
		return &Result{Root: root}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to stat components root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s: %w", root, ErrRootNotDirectory)
	}

	s := &scanner{opts: opts, root: root, nameIdx: make(map[string]string)}
	if err := s.scanRoot(); err != nil {
		return nil, err
	}

	slices.SortFunc(s.found, func(a, b found) int { return strings.Compare(a.rel, b.rel) })

	result := &Result{
		Root:        root,
		Descriptors: make([]component.Descriptor, 0, len(s.found)),
		Diagnostics: s.diags,
	}
	for _, f := range s.found {
		if first, dup := s.nameIdx[f.desc.Name]; dup && first != f.desc.Path {
			return nil, &component.NameCollisionError{Name: f.desc.Name, FirstPath: first, SecondPath: f.desc.Path}
		}
		s.nameIdx[f.desc.Name] = f.desc.Path
		result.Descriptors = append(result.Descriptors, f.desc)
	}

	return result, nil
}

// Names returns the descriptor names in scan order.
func (r *Result) Names() []string {
	names := make([]string, len(r.Descriptors))
	for i, d := range r.Descriptors {
		names[i] = d.Name
	}
	return names
}

// Find returns the descriptor with the given name. Both "::" and "/"
// separated names are accepted.
func (r *Result) Find(name string) (component.Descriptor, bool) {
	name = component.NormalizeName(name)
	for _, d := range r.Descriptors {
		if d.Name == name {
			return d, true
		}
	}
	return component.Descriptor{}, false
}

func (s *scanner) scanRoot() error {
	entries, err := listDirs(s.root)
	if err != nil {
		return fmt.Errorf("failed to list components root: %w", err)
	}

	for _, name := range entries {
		if reserved(name) || name == s.opts.NestedDir {
			continue
		}
		dir := filepath.Join(s.root, name)
		parent, ok := s.add(dir, "")
		if !ok {
			continue
		}
		s.scanNested(dir, parent)
	}
	return nil
}

func (s *scanner) scanNested(parentDir, parentName string) {
	nestedDir := filepath.Join(parentDir, s.opts.NestedDir)
	if !isDir(nestedDir) {
		return
	}

	entries, err := listDirs(nestedDir)
	if err != nil {
		s.diags = append(s.diags, Diagnostic{
			Severity: SeverityError,
			Code:     CodeComponentUnreadable,
			Message:  fmt.Sprintf("could not list sub-components of %s", parentName),
			Path:     nestedDir,
			Cause:    err,
		})
		return
	}

	for _, name := range entries {
		if reserved(name) {
			continue
		}
		dir := filepath.Join(nestedDir, name)
		childName, ok := s.add(dir, parentName)
		if !ok {
			continue
		}
		if deeper := filepath.Join(dir, s.opts.NestedDir); isDir(deeper) {
			s.diags = append(s.diags, Diagnostic{
				Severity: SeverityWarning,
				Code:     CodeNestedComponentsIgnored,
				Message:  fmt.Sprintf("%s is nested under %s; only one level of sub-components is scanned", s.opts.NestedDir, childName),
				Path:     deeper,
			})
		}
	}
}

// add records dir as a component and returns its name.
func (s *scanner) add(dir, parent string) (string, bool) {
	name, err := component.NameFromPath(s.root, dir, s.opts.NestedDir)
	if err != nil {
		s.diags = append(s.diags, Diagnostic{
			Severity: SeverityWarning,
			Code:     CodeInvalidComponentName,
			Message:  fmt.Sprintf("skipping %s: %v", filepath.Base(dir), err),
			Path:     dir,
			Cause:    err,
		})
		return "", false
	}

	rel, _ := filepath.Rel(s.root, dir)
	s.found = append(s.found, found{
		rel: filepath.ToSlash(rel),
		desc: component.Descriptor{
			Name:        name,
			Path:        dir,
			Parent:      parent,
			Initializer: s.initializer(dir, name),
		},
	})
	return name, true
}

// initializer returns the first initializer resource present in dir.
func (s *scanner) initializer(dir, name string) string {
	var matches []string
	for _, ext := range InitializerExtensions {
		path := filepath.Join(dir, s.opts.InitializerName+ext)
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			matches = append(matches, path)
		}
	}
	if len(matches) == 0 {
		return ""
	}
	if len(matches) > 1 {
		s.diags = append(s.diags, Diagnostic{
			Severity: SeverityWarning,
			Code:     CodeAmbiguousInitializer,
			Message:  fmt.Sprintf("component %s has %d initializer resources; using %s", name, len(matches), filepath.Base(matches[0])),
			Path:     dir,
		})
	}
	return matches[0]
}

// listDirs returns the names of the directories (or symlinks to directories) in dir.
func listDirs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		switch {
		case entry.IsDir():
			names = append(names, entry.Name())
		case entry.Type()&fs.ModeSymlink != 0 && isDir(filepath.Join(dir, entry.Name())):
			names = append(names, entry.Name())
		}
	}
	return names, nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// reserved reports whether a directory name is hidden or private.
func reserved(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")
}
