// SPDX-License-Identifier: MPL-2.0

package host

import (
	"path/filepath"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
)

type (
	// PathList is an ordered list of paths without duplicates.
	PathList struct {
		items []string
	}

	// Paths holds the path collections a host exposes for registration.
	Paths struct {
		// Autoload directories are searched for code on demand.
		Autoload PathList
		// EagerLoad directories are loaded at boot.
		EagerLoad PathList
		Routes    PathList
		Helpers   PathList
		// Migrations directories hold schema migrations.
		Migrations PathList
		// Collapse holds doublestar patterns of directories that do not add a
		// namespace segment.
		Collapse PathList
		// Ignore holds doublestar patterns of files the loader must skip.
		Ignore PathList
	}
)

// NewPaths returns empty collections.
func NewPaths() *Paths {
	return &Paths{}
}

// Add appends each path not already present and returns how many were added.
// Paths are cleaned before comparison.
func (l *PathList) Add(paths ...string) int {
	added := 0
	for _, p := range paths {
		if p == "" {
			continue
		}
		p = filepath.Clean(p)
		if slices.Contains(l.items, p) {
			continue
		}
		l.items = append(l.items, p)
		added++
	}
	return added
}

// Contains reports whether p is in the list.
func (l *PathList) Contains(p string) bool {
	return slices.Contains(l.items, filepath.Clean(p))
}

// Items returns a copy of the list.
func (l *PathList) Items() []string {
	return slices.Clone(l.items)
}

// Len returns the number of paths.
func (l *PathList) Len() int {
	return len(l.items)
}

// IsIgnored reports whether path matches an Ignore pattern.
func (p *Paths) IsIgnored(path string) bool {
	return matchAny(p.Ignore.items, path)
}

// IsCollapsed reports whether dir matches a Collapse pattern.
func (p *Paths) IsCollapsed(dir string) bool {
	return matchAny(p.Collapse.items, dir)
}

func matchAny(patterns []string, path string) bool {
	target := filepath.ToSlash(filepath.Clean(path))
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(filepath.ToSlash(pattern), target); err == nil && ok {
			return true
		}
	}
	return false
}
