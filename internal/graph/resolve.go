// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package graph

import (
	"fmt"
	"strings"

	"github.com/specialistvlad/nodegraph/internal/pinpath"
)

// ResolveGraph finds the graph at path, e.g. `Main/Helpers`.
func (c *Collection) ResolveGraph(path string) (*Graph, error) {
	addr, err := pinpath.ParseGraph(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidName, err)
	}
	return c.graphAt(addr.Graphs)
}

// ResolveNode finds the node at path, e.g. `Main/Add`.
func (c *Collection) ResolveNode(path string) (*Node, error) {
	addr, err := pinpath.ParseNode(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidName, err)
	}
	g, err := c.graphAt(addr.Graphs)
	if err != nil {
		return nil, err
	}
	n, ok := g.NodeByName(addr.Node)
	if !ok {
		return nil, fmt.Errorf("%w: node %q", ErrNotFound, path)
	}
	return n, nil
}

// ResolvePin finds the pin at path, e.g. `Main/Add.Value.X`.
func (c *Collection) ResolvePin(path string) (*Pin, error) {
	addr, err := pinpath.ParsePin(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidName, err)
	}
	n, err := c.ResolveNode(addr.NodePath())
	if err != nil {
		return nil, err
	}
	p, ok := n.FindPin(addr.PinChain())
	if !ok {
		return nil, fmt.Errorf("%w: pin %q", ErrNotFound, path)
	}
	return p, nil
}

func (c *Collection) graphAt(names []string) (*Graph, error) {
	siblings := c.graphs
	var g *Graph
	for i, name := range names {
		g, _ = findGraph(siblings, name)
		if g == nil {
			return nil, fmt.Errorf("%w: graph %q", ErrNotFound, strings.Join(names[:i+1], pinpath.GraphSeparator))
		}
		siblings = g.graphs
	}
	if g == nil {
		return nil, fmt.Errorf("%w: empty graph path", ErrNotFound)
	}
	return g, nil
}

// Resolved is the entity a path of unknown kind points at. Exactly one of
// the fields is set, except that Graph is also set for nodes and pins.
type Resolved struct {
	Graph *Graph
	Node  *Node
	Pin   *Pin
}

// Resolve finds whatever path points at. The longest prefix of path that
// names an existing graph is consumed first; at most one segment, a node
// name or a `node.pin` chain, may follow it. A sub-graph therefore shadows
// a node of the same name in its parent.
func (c *Collection) Resolve(path string) (Resolved, error) {
	segments, err := pinpath.Segments(path)
	if err != nil {
		return Resolved{}, fmt.Errorf("%w: %w", ErrInvalidName, err)
	}

	var g *Graph
	siblings := c.graphs
	consumed := 0
	for _, s := range segments {
		next, _ := findGraph(siblings, s)
		if next == nil {
			break
		}
		g = next
		siblings = next.graphs
		consumed++
	}
	if g == nil {
		return Resolved{}, fmt.Errorf("%w: graph %q", ErrNotFound, segments[0])
	}

	switch len(segments) - consumed {
	case 0:
		return Resolved{Graph: g}, nil
	case 1:
		node, pins, err := pinpath.SplitPinChain(segments[consumed])
		if err != nil {
			return Resolved{}, fmt.Errorf("%w: %w", ErrInvalidName, err)
		}
		n, ok := g.NodeByName(node)
		if !ok {
			return Resolved{}, fmt.Errorf("%w: node %q in %q", ErrNotFound, node, g.Path())
		}
		if len(pins) == 0 {
			return Resolved{Graph: g, Node: n}, nil
		}
		p, ok := n.FindPin(strings.Join(pins, pinpath.PinSeparator))
		if !ok {
			return Resolved{}, fmt.Errorf("%w: pin %q", ErrNotFound, path)
		}
		return Resolved{Graph: g, Node: n, Pin: p}, nil
	default:
		missing := strings.Join(segments[:consumed+1], pinpath.GraphSeparator)
		return Resolved{}, fmt.Errorf("%w: graph %q", ErrNotFound, missing)
	}
}
