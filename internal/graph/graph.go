// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package graph

import (
	"fmt"
	"slices"
	"strings"

	"github.com/specialistvlad/nodegraph/internal/pinpath"
)

// Graph is an ordered set of nodes, the links between them and an ordered
// set of nested sub-graphs.
type Graph struct {
	c      *Collection
	parent *Graph
	name   string

	nodes  arena
	order  []NodeHandle
	byName map[string]NodeHandle
	links  []Link

	graphs []*Graph
}

// Position is a node's layout position.
type Position struct {
	X, Y float64
}

func (p Position) String() string {
	return fmt.Sprintf("(%g, %g)", p.X, p.Y)
}

func newGraph(c *Collection, parent *Graph, name string) *Graph {
	return &Graph{
		c:      c,
		parent: parent,
		name:   name,
		byName: make(map[string]NodeHandle),
	}
}

func (g *Graph) detach() {
	g.c = nil
	for _, sub := range g.graphs {
		sub.detach()
	}
}

func (g *Graph) attached() error {
	if g.c == nil {
		return fmt.Errorf("%w: graph %q", ErrDetached, g.name)
	}
	return nil
}

// Name returns the graph's name.
func (g *Graph) Name() string { return g.name }

// Parent returns the graph this one is nested in, or nil for top-level graphs.
func (g *Graph) Parent() *Graph { return g.parent }

// Collection returns the owning collection, or nil once the graph is removed.
func (g *Graph) Collection() *Collection { return g.c }

// Path returns the '/'-separated chain of graph names down to g.
func (g *Graph) Path() string {
	var names []string
	for cur := g; cur != nil; cur = cur.parent {
		names = append(names, cur.name)
	}
	slices.Reverse(names)
	return strings.Join(names, pinpath.GraphSeparator)
}

// Address returns the structured form of Path.
func (g *Graph) Address() pinpath.Address {
	var names []string
	for cur := g; cur != nil; cur = cur.parent {
		names = append(names, cur.name)
	}
	slices.Reverse(names)
	return pinpath.Graph(names...)
}

// Graphs returns the nested sub-graphs in order.
func (g *Graph) Graphs() []*Graph {
	return slices.Clone(g.graphs)
}

// Graph returns the direct sub-graph called name.
func (g *Graph) Graph(name string) (*Graph, bool) {
	sub, _ := findGraph(g.graphs, name)
	return sub, sub != nil
}

// AddGraph appends a sub-graph. The name is made unique among g's sub-graphs.
func (g *Graph) AddGraph(name string) (*Graph, error) {
	if err := g.attached(); err != nil {
		return nil, err
	}
	return g.c.insertGraph(g, name, -1)
}

// Rename changes the graph's name, adding a numeric suffix if a sibling
// already uses it, and returns the name actually applied.
func (g *Graph) Rename(name string) (string, error) {
	if err := g.attached(); err != nil {
		return "", err
	}
	if err := validateName(name); err != nil {
		return "", err
	}
	if name == g.name {
		return name, nil
	}
	siblings := *g.c.siblingsOf(g.parent)
	name = UniqueName(name, func(s string) bool {
		other, _ := findGraph(siblings, s)
		return other != nil && other != g
	})
	if name == g.name {
		return name, nil
	}
	old := g.Path()
	g.name = name
	g.c.emit(Event{Kind: GraphRenamed, Path: g.Path(), OldPath: old})
	return name, nil
}

// Nodes returns the graph's nodes in order.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, 0, len(g.order))
	for _, h := range g.order {
		out = append(out, g.nodes.get(h))
	}
	return out
}

// NodeByName returns the node called name.
func (g *Graph) NodeByName(name string) (*Node, bool) {
	h, ok := g.byName[name]
	if !ok {
		return nil, false
	}
	n := g.nodes.get(h)
	return n, n != nil
}

// NodeAt resolves a handle. It fails for handles of removed nodes.
func (g *Graph) NodeAt(h NodeHandle) (*Node, bool) {
	n := g.nodes.get(h)
	return n, n != nil
}

// NodeIndex returns the position of n in the node order, or -1.
func (g *Graph) NodeIndex(n *Node) int {
	if n == nil || n.g != g {
		return -1
	}
	return slices.Index(g.order, n.handle)
}

// UniqueNodeName returns name or the first suffixed variant of it that no
// node in g uses.
func (g *Graph) UniqueNodeName(name string) string {
	return UniqueName(name, func(s string) bool {
		_, taken := g.byName[s]
		return taken
	})
}

// NodeSpec describes a node to create.
type NodeSpec struct {
	Name string
	// Type optionally names a node template whose pins are instantiated.
	Type        string
	DisplayName string
	Position    Position
	// DynamicPins allows pins to be added later. A template can also enable it.
	DynamicPins bool
}

// AddNode creates a node from spec and appends it. The name is made unique
// within the graph.
func (g *Graph) AddNode(spec NodeSpec) (*Node, error) {
	if err := g.attached(); err != nil {
		return nil, err
	}
	if err := validateName(spec.Name); err != nil {
		return nil, err
	}

	n := &Node{
		g:           g,
		name:        g.UniqueNodeName(spec.Name),
		displayName: spec.DisplayName,
		typeName:    spec.Type,
		position:    spec.Position,
		dynamicPins: spec.DynamicPins,
		byID:        make(map[PinID]*Pin),
	}

	if spec.Type != "" {
		nt, ok := g.c.types.NodeTypeFor(spec.Type)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownNodeType, spec.Type)
		}
		n.dynamicPins = n.dynamicPins || nt.DynamicPins
		for _, decl := range nt.Pins {
			ps := PinSpec{
				Name:      decl.Name,
				Direction: decl.Direction,
				Storage:   decl.Storage,
				Type:      decl.Type,
				Domain:    decl.Domain,
				Binding:   decl.Binding,
			}
			if decl.HasDefault() {
				ps.Default = decl.Default
			}
			if _, err := n.addPin(ps, nil, nil); err != nil {
				return nil, fmt.Errorf("instantiating %q pin %q: %w", spec.Type, decl.Name, err)
			}
		}
	}

	g.insertNode(n, -1)
	g.c.emit(Event{Kind: NodeAdded, Path: n.Path()})
	return n, nil
}

func (g *Graph) insertNode(n *Node, index int) {
	n.g = g
	n.handle = g.nodes.alloc(n)
	g.order = insertAt(g.order, n.handle, index)
	g.byName[n.name] = n.handle
}

// RemoveNode removes n from the graph. It fails while any link touches n;
// callers gather and remove those links first.
func (g *Graph) RemoveNode(n *Node) error {
	if err := g.attached(); err != nil {
		return err
	}
	if n == nil {
		panic("graph: RemoveNode called with nil node")
	}
	if n.g != g {
		return fmt.Errorf("%w: %q", ErrForeignNode, n.name)
	}
	if g.nodeLinked(n.handle) {
		return fmt.Errorf("%w: %q", ErrNodeLinked, n.Path())
	}

	path := n.Path()
	idx := slices.Index(g.order, n.handle)
	g.order = slices.Delete(g.order, idx, idx+1)
	delete(g.byName, n.name)
	g.nodes.release(n.handle)
	n.g = nil
	g.c.emit(Event{Kind: NodeRemoved, Path: path})
	return nil
}

// RenameNode changes n's structural name, adding a numeric suffix on
// collision, and returns the name actually applied.
func (g *Graph) RenameNode(n *Node, name string) (string, error) {
	if err := g.attached(); err != nil {
		return "", err
	}
	if n == nil {
		panic("graph: RenameNode called with nil node")
	}
	if n.g != g {
		return "", fmt.Errorf("%w: %q", ErrForeignNode, n.name)
	}
	if err := validateName(name); err != nil {
		return "", err
	}
	if name == n.name {
		return name, nil
	}

	name = UniqueName(name, func(s string) bool {
		h, taken := g.byName[s]
		return taken && h != n.handle
	})
	if name == n.name {
		return name, nil
	}
	old := n.Path()
	delete(g.byName, n.name)
	n.name = name
	g.byName[name] = n.handle
	g.c.emit(Event{Kind: NodeRenamed, Path: n.Path(), OldPath: old})
	return name, nil
}
