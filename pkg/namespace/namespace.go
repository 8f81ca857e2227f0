// SPDX-License-Identifier: MPL-2.0

// Package namespace keeps an explicit tree of hierarchical component names.
//
// Each node stands for one name segment ("Clients" and "Clients::Billing" are
// two nodes). Nodes are created parent-first and never replaced, so asking for
// the same name twice returns the same node.
package namespace

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/invowk/componentry/pkg/component"
)

var (
	// ErrInvalidName is returned for empty names or names with empty segments.
	ErrInvalidName = errors.New("invalid namespace name")
	// ErrAlreadyBound is returned when a node is bound to a second, different handle.
	ErrAlreadyBound = errors.New("namespace already bound")
)

type (
	// Node is one namespace in the tree.
	Node struct {
		// Name is the full hierarchical name.
		Name string
		// Segment is the last segment of Name.
		Segment string
		// Parent is nil for top-level namespaces.
		Parent *Node

		children map[string]*Node
		handle   *component.Handle
	}

	// Tree holds every namespace created so far.
	Tree struct {
		roots map[string]*Node
		index map[string]*Node
	}
)

// New creates an empty tree.
func New() *Tree {
	return &Tree{
		roots: make(map[string]*Node),
		index: make(map[string]*Node),
	}
}

// Ensure creates every missing namespace on the way to name and returns the
// leaf. Segments may be separated by "::" or "/". Existing nodes are reused.
func (t *Tree) Ensure(name string) (*Node, error) {
	segments := component.SplitName(name)
	if len(segments) == 0 {
		return nil, fmt.Errorf("%w: empty name", ErrInvalidName)
	}
	for _, seg := range segments {
		if strings.TrimSpace(seg) == "" {
			return nil, fmt.Errorf("%w: %q has an empty segment", ErrInvalidName, name)
		}
	}

	var parent *Node
	level := t.roots
	for i, seg := range segments {
		node, ok := level[seg]
		if !ok {
			node = &Node{
				Name:     strings.Join(segments[:i+1], component.Separator),
				Segment:  seg,
				Parent:   parent,
				children: make(map[string]*Node),
			}
			level[seg] = node
			t.index[node.Name] = node
		}
		parent = node
		level = node.children
	}

	return parent, nil
}

// Lookup returns the node for name, accepting either separator.
func (t *Tree) Lookup(name string) (*Node, bool) {
	n, ok := t.index[component.NormalizeName(name)]
	return n, ok
}

// Bind attaches a resolved initializer handle to the node for name, creating
// the node if needed. Binding the same handle twice is a no-op.
func (t *Tree) Bind(name string, h *component.Handle) error {
	n, err := t.Ensure(name)
	if err != nil {
		return err
	}
	if n.handle != nil && n.handle != h {
		return fmt.Errorf("%w: %s is bound to %s", ErrAlreadyBound, n.Name, n.handle.Name)
	}
	n.handle = h
	return nil
}

// Names returns every namespace name, sorted.
func (t *Tree) Names() []string {
	names := make([]string, 0, len(t.index))
	for name := range t.index {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Len returns the number of namespaces.
func (t *Tree) Len() int {
	return len(t.index)
}

// Roots returns the top-level namespaces sorted by segment.
func (t *Tree) Roots() []*Node {
	return sortedNodes(t.roots)
}

// Children returns the direct children sorted by segment.
func (n *Node) Children() []*Node {
	return sortedNodes(n.children)
}

// Handle returns the bound initializer handle, or nil.
func (n *Node) Handle() *component.Handle {
	return n.handle
}

// Depth returns 0 for top-level namespaces.
func (n *Node) Depth() int {
	d := 0
	for p := n.Parent; p != nil; p = p.Parent {
		d++
	}
	return d
}

func sortedNodes(m map[string]*Node) []*Node {
	out := make([]*Node, 0, len(m))
	for _, n := range m {
		out = append(out, n)
	}
	slices.SortFunc(out, func(a, b *Node) int { return strings.Compare(a.Segment, b.Segment) })
	return out
}
