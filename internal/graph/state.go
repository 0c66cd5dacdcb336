// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file holds the plain-data form of graphs, nodes and pins.
//
// Removal steps never keep a removed entity alive. They capture its state,
// hand it to a Snapshotter for encoding and, on undo, rebuild a fresh entity
// from the decoded state. Rebuilding is exact: sub-pins are recreated as
// captured rather than re-synthesized, so the restored entity matches the
// removed one even if the type registry changed in between.
package graph

import (
	"fmt"
	"slices"
	"strings"

	"github.com/specialistvlad/nodegraph/internal/pinpath"
	"github.com/specialistvlad/nodegraph/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

// PinState is the captured form of a pin and its sub-pins.
type PinState struct {
	Name        string
	Direction   Direction
	Storage     Storage
	Type        registry.TypeRef
	Domain      []string
	Binding     string
	Expanded    bool
	Synthesized bool
	// Value is set for value pins without synthesized sub-pins.
	Value    cty.Value
	Children []PinState
}

// NodeState is the captured form of a node.
type NodeState struct {
	Name        string
	DisplayName string
	Type        string
	Position    Position
	DynamicPins bool
	Pins        []PinState
}

// LinkState names link endpoints relative to their graph, e.g. `Add.Result`.
type LinkState struct {
	From string
	To   string
}

// GraphState is the captured form of a graph and everything nested in it.
type GraphState struct {
	Name   string
	Nodes  []NodeState
	Links  []LinkState
	Graphs []GraphState
}

// Capture returns the state of p and its sub-pins.
func (p *Pin) Capture() PinState {
	s := PinState{
		Name:        p.name,
		Direction:   p.direction,
		Storage:     p.storage,
		Type:        p.typ,
		Domain:      slices.Clone(p.domain),
		Binding:     p.binding,
		Expanded:    p.expanded,
		Synthesized: p.synthesized,
	}
	if p.storage == StorageValue && !p.synthesized {
		s.Value = p.value
	}
	for _, c := range p.children {
		s.Children = append(s.Children, c.Capture())
	}
	return s
}

// Capture returns the state of n and all its pins. Links are not part of a
// node's state.
func (n *Node) Capture() NodeState {
	s := NodeState{
		Name:        n.name,
		DisplayName: n.displayName,
		Type:        n.typeName,
		Position:    n.position,
		DynamicPins: n.dynamicPins,
	}
	for _, p := range n.pins {
		s.Pins = append(s.Pins, p.Capture())
	}
	return s
}

// Capture returns the state of g, its links and its sub-graphs.
func (g *Graph) Capture() GraphState {
	s := GraphState{Name: g.name}
	for _, n := range g.Nodes() {
		s.Nodes = append(s.Nodes, n.Capture())
	}
	for _, l := range g.links {
		from, to, ok := g.LinkPins(l)
		if !ok {
			continue
		}
		s.Links = append(s.Links, LinkState{From: relativePinPath(from), To: relativePinPath(to)})
	}
	for _, sub := range g.graphs {
		s.Graphs = append(s.Graphs, sub.Capture())
	}
	return s
}

func relativePinPath(p *Pin) string {
	return p.n.name + pinpath.PinSeparator + p.Chain()
}

// buildPin creates an unregistered pin tree from s.
func (n *Node) buildPin(s PinState, parent *Pin) (*Pin, error) {
	if err := validateName(s.Name); err != nil {
		return nil, err
	}
	desc, ok := n.types().TypeFor(s.Type)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, s.Type)
	}
	p := &Pin{
		n:           n,
		parent:      parent,
		name:        s.Name,
		direction:   s.Direction,
		storage:     s.Storage,
		typ:         s.Type,
		domain:      slices.Clone(s.Domain),
		binding:     s.Binding,
		expanded:    s.Expanded,
		synthesized: s.Synthesized,
	}
	if parent != nil {
		p.direction = parent.direction
		p.storage = StorageValue
	}
	if p.storage == StorageValue && !p.synthesized {
		v, err := n.initialValue(s.Type, s.Value)
		if err != nil {
			return nil, fmt.Errorf("pin %q: %w", s.Name, err)
		}
		p.value = v
	}
	for _, cs := range s.Children {
		if p.child(cs.Name) != nil {
			return nil, fmt.Errorf("%w: sub-pin %q of %q", ErrNameTaken, cs.Name, s.Name)
		}
		c, err := n.buildPin(cs, p)
		if err != nil {
			return nil, err
		}
		p.children = append(p.children, c)
	}
	if p.synthesized {
		for _, f := range desc.Fields {
			if p.child(f.Name) == nil {
				return nil, fmt.Errorf("pin %q: missing sub-pin for field %q of %q", s.Name, f.Name, s.Type)
			}
		}
	}
	return p, nil
}

// RestorePinState rebuilds a root pin from s and inserts it at index, or
// appends it when index is out of range. It fails if the name is in use.
func (n *Node) RestorePinState(s PinState, index int) (*Pin, error) {
	if err := n.attached(); err != nil {
		return nil, err
	}
	if slices.ContainsFunc(n.pins, func(q *Pin) bool { return q.name == s.Name }) {
		return nil, fmt.Errorf("%w: pin %q on %q", ErrNameTaken, s.Name, n.Path())
	}
	p, err := n.buildPin(s, nil)
	if err != nil {
		return nil, err
	}
	n.pins = insertAt(n.pins, p, index)
	n.register(p)
	n.invalidate()
	n.g.c.emit(Event{Kind: PinAdded, Path: p.Path()})
	return p, nil
}

func (g *Graph) buildNode(s NodeState) (*Node, error) {
	if err := validateName(s.Name); err != nil {
		return nil, err
	}
	if _, taken := g.byName[s.Name]; taken {
		return nil, fmt.Errorf("%w: node %q in %q", ErrNameTaken, s.Name, g.Path())
	}
	n := &Node{
		g:           g,
		name:        s.Name,
		displayName: s.DisplayName,
		typeName:    s.Type,
		position:    s.Position,
		dynamicPins: s.DynamicPins,
		byID:        make(map[PinID]*Pin),
	}
	for _, ps := range s.Pins {
		if slices.ContainsFunc(n.pins, func(q *Pin) bool { return q.name == ps.Name }) {
			return nil, fmt.Errorf("%w: pin %q on %q", ErrNameTaken, ps.Name, s.Name)
		}
		p, err := n.buildPin(ps, nil)
		if err != nil {
			return nil, fmt.Errorf("node %q: %w", s.Name, err)
		}
		n.pins = append(n.pins, p)
	}
	for _, p := range n.pins {
		n.register(p)
	}
	return n, nil
}

// RestoreNodeState rebuilds a node from s and inserts it at index, or
// appends it when index is out of range. It fails if the name is in use.
func (g *Graph) RestoreNodeState(s NodeState, index int) (*Node, error) {
	if err := g.attached(); err != nil {
		return nil, err
	}
	n, err := g.buildNode(s)
	if err != nil {
		return nil, err
	}
	g.insertNode(n, index)
	g.c.emit(Event{Kind: NodeAdded, Path: n.Path()})
	return n, nil
}

// RestoreGraphState rebuilds a graph from s and inserts it at index among
// the children of parent, or among the top-level graphs when parent is nil.
// It fails if the name is in use. Only one GraphAdded event is emitted.
func (c *Collection) RestoreGraphState(s GraphState, parent *Graph, index int) (*Graph, error) {
	if parent != nil && parent.c != c {
		return nil, ErrDetached
	}
	siblings := c.siblingsOf(parent)
	if g, _ := findGraph(*siblings, s.Name); g != nil {
		return nil, fmt.Errorf("%w: graph %q", ErrNameTaken, s.Name)
	}
	g, err := c.buildGraph(s, parent)
	if err != nil {
		return nil, err
	}
	*siblings = insertAt(*siblings, g, index)
	c.emit(Event{Kind: GraphAdded, Path: g.Path()})
	return g, nil
}

func (c *Collection) buildGraph(s GraphState, parent *Graph) (*Graph, error) {
	if err := validateName(s.Name); err != nil {
		return nil, err
	}
	g := newGraph(c, parent, s.Name)
	for _, ns := range s.Nodes {
		n, err := g.buildNode(ns)
		if err != nil {
			return nil, fmt.Errorf("graph %q: %w", s.Name, err)
		}
		g.insertNode(n, -1)
	}
	for _, ls := range s.Links {
		from, err := g.relativePin(ls.From)
		if err != nil {
			return nil, err
		}
		to, err := g.relativePin(ls.To)
		if err != nil {
			return nil, err
		}
		l := Link{From: from.Handle(), To: to.Handle()}
		if from.direction != Output || to.direction != Input || from.n == to.n || slices.Contains(g.links, l) {
			return nil, fmt.Errorf("graph %q: invalid link %s -> %s", s.Name, ls.From, ls.To)
		}
		g.links = append(g.links, l)
	}
	for _, ss := range s.Graphs {
		if sub, _ := findGraph(g.graphs, ss.Name); sub != nil {
			return nil, fmt.Errorf("%w: graph %q in %q", ErrNameTaken, ss.Name, s.Name)
		}
		sub, err := c.buildGraph(ss, g)
		if err != nil {
			return nil, err
		}
		g.graphs = append(g.graphs, sub)
	}
	return g, nil
}

func (g *Graph) relativePin(raw string) (*Pin, error) {
	node, pins, err := pinpath.SplitPinChain(raw)
	if err != nil || len(pins) == 0 {
		return nil, fmt.Errorf("%w: pin %q", ErrNotFound, raw)
	}
	n, ok := g.NodeByName(node)
	if !ok {
		return nil, fmt.Errorf("%w: node %q in %q", ErrNotFound, node, g.Path())
	}
	p, ok := n.FindPin(strings.Join(pins, pinpath.PinSeparator))
	if !ok {
		return nil, fmt.Errorf("%w: pin %q in %q", ErrNotFound, raw, g.Path())
	}
	return p, nil
}
