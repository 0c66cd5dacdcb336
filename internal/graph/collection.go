// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package graph

import (
	"fmt"
	"slices"

	"github.com/specialistvlad/nodegraph/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

// Types is the type registry the entity model reads descriptors from.
// *registry.Registry satisfies it.
type Types interface {
	TypeFor(ref registry.TypeRef) (*registry.TypeDescriptor, bool)
	NodeTypeFor(name string) (*registry.NodeType, bool)
	CtyType(ref registry.TypeRef) (cty.Type, error)
	ZeroValue(ref registry.TypeRef) (cty.Value, error)
	Conform(ref registry.TypeRef, v cty.Value) (cty.Value, error)
}

// Collection is the root of a graph tree. It owns the top-level graphs and
// the variables shared by all of them, and fans out change events.
type Collection struct {
	types       Types
	snapshotter Snapshotter

	graphs    []*Graph
	variables []*Variable

	listeners []subscription
	nextSubID int
}

// Option configures a Collection.
type Option func(*Collection)

// WithSnapshotter sets the serializer used to capture removed entities.
func WithSnapshotter(s Snapshotter) Option {
	return func(c *Collection) {
		c.snapshotter = s
	}
}

// NewCollection creates an empty collection bound to a type registry.
func NewCollection(types Types, opts ...Option) *Collection {
	if types == nil {
		panic("graph: NewCollection called with nil types")
	}
	c := &Collection{types: types}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Types returns the registry the collection was created with.
func (c *Collection) Types() Types {
	return c.types
}

// Graphs returns the top-level graphs in order.
func (c *Collection) Graphs() []*Graph {
	return slices.Clone(c.graphs)
}

// Graph returns the top-level graph called name.
func (c *Collection) Graph(name string) (*Graph, bool) {
	g, _ := findGraph(c.graphs, name)
	return g, g != nil
}

// AddGraph appends a top-level graph. The name is made unique among the
// top-level graphs.
func (c *Collection) AddGraph(name string) (*Graph, error) {
	return c.insertGraph(nil, name, -1)
}

// RemoveGraph detaches g, with everything it contains, from its parent and
// returns the index it occupied.
func (c *Collection) RemoveGraph(g *Graph) (int, error) {
	if g == nil {
		panic("graph: RemoveGraph called with nil graph")
	}
	if g.c != c {
		return -1, ErrDetached
	}
	siblings := c.siblingsOf(g.parent)
	_, idx := findGraph(*siblings, g.name)
	if idx < 0 {
		return -1, fmt.Errorf("%w: graph %q", ErrNotFound, g.Path())
	}
	path := g.Path()
	*siblings = slices.Delete(*siblings, idx, idx+1)
	g.detach()
	c.emit(Event{Kind: GraphRemoved, Path: path})
	return idx, nil
}

func (c *Collection) siblingsOf(parent *Graph) *[]*Graph {
	if parent == nil {
		return &c.graphs
	}
	return &parent.graphs
}

func (c *Collection) insertGraph(parent *Graph, name string, index int) (*Graph, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if parent != nil && parent.c != c {
		return nil, ErrDetached
	}
	siblings := c.siblingsOf(parent)
	name = UniqueName(name, func(s string) bool {
		g, _ := findGraph(*siblings, s)
		return g != nil
	})
	g := newGraph(c, parent, name)
	*siblings = insertAt(*siblings, g, index)
	c.emit(Event{Kind: GraphAdded, Path: g.Path()})
	return g, nil
}

func findGraph(graphs []*Graph, name string) (*Graph, int) {
	for i, g := range graphs {
		if g.name == name {
			return g, i
		}
	}
	return nil, -1
}

// insertAt inserts v at index, or appends when index is out of range.
func insertAt[T any](s []T, v T, index int) []T {
	if index < 0 || index >= len(s) {
		return append(s, v)
	}
	return slices.Insert(s, index, v)
}
