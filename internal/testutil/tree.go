// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"path/filepath"
	"testing"
)

// Tree builds component directory layouts under a temporary root.
//
// Usage:
//
//	tree := testutil.NewTree(t)
//	tree.Component("clients").Initializer(`initializer: "Clients::Initializer"`)
//	tree.Component("clients/_components/billing")
//	root := tree.Root()
type Tree struct {
	t    testing.TB
	root string
}

// ComponentDir is one directory created through a Tree.
type ComponentDir struct {
	t    testing.TB
	path string
}

// NewTree creates an empty components root in t.TempDir().
func NewTree(t testing.TB) *Tree {
	t.Helper()
	root := filepath.Join(t.TempDir(), "components")
	MustMkdirAll(t, root, 0o755)
	return &Tree{t: t, root: root}
}

// Root returns the components root.
func (tr *Tree) Root() string {
	return tr.root
}

// Component creates the slash-separated rel directory under the root.
func (tr *Tree) Component(rel string) *ComponentDir {
	tr.t.Helper()
	path := filepath.Join(tr.root, filepath.FromSlash(rel))
	MustMkdirAll(tr.t, path, 0o755)
	return &ComponentDir{t: tr.t, path: path}
}

// Path returns the absolute directory path.
func (c *ComponentDir) Path() string {
	return c.path
}

// Initializer writes component.cue with body.
func (c *ComponentDir) Initializer(body string) *ComponentDir {
	c.t.Helper()
	return c.File("component.cue", body)
}

// File writes a file relative to the component directory.
func (c *ComponentDir) File(rel, body string) *ComponentDir {
	c.t.Helper()
	MustWriteFile(c.t, filepath.Join(c.path, filepath.FromSlash(rel)), body)
	return c
}

// Dir creates a subdirectory relative to the component directory.
func (c *ComponentDir) Dir(rel string) *ComponentDir {
	c.t.Helper()
	MustMkdirAll(c.t, filepath.Join(c.path, filepath.FromSlash(rel)), 0o755)
	return c
}
