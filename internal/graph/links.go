// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package graph

import (
	"fmt"
	"slices"
)

// Link connects an output pin to an input pin of another node in the same
// graph. Its endpoints are weak handles.
type Link struct {
	From PinHandle
	To   PinHandle
}

// Links returns all links of the graph in creation order.
func (g *Graph) Links() []Link {
	return slices.Clone(g.links)
}

// LinkPins resolves both endpoints of l.
func (g *Graph) LinkPins(l Link) (from, to *Pin, ok bool) {
	from = g.pinAt(l.From)
	to = g.pinAt(l.To)
	return from, to, from != nil && to != nil
}

// LinksOf returns the links touching p or, with subtree set, any of its
// sub-pins.
func (g *Graph) LinksOf(p *Pin, subtree bool) []Link {
	var out []Link
	for _, l := range g.links {
		if g.linkTouches(l, p, subtree) {
			out = append(out, l)
		}
	}
	return out
}

// LinksOfNode returns the links touching any pin of n.
func (g *Graph) LinksOfNode(n *Node) []Link {
	var out []Link
	for _, l := range g.links {
		if l.From.Node == n.handle || l.To.Node == n.handle {
			out = append(out, l)
		}
	}
	return out
}

func (g *Graph) pinAt(h PinHandle) *Pin {
	n := g.nodes.get(h.Node)
	if n == nil {
		return nil
	}
	return n.byID[h.Pin]
}

func (g *Graph) linkTouches(l Link, p *Pin, subtree bool) bool {
	for _, h := range [2]PinHandle{l.From, l.To} {
		if h.Node != p.n.handle {
			continue
		}
		if h.Pin == p.id {
			return true
		}
		if subtree {
			if q := g.pinAt(h); q != nil && q.hasAncestor(p) {
				return true
			}
		}
	}
	return false
}

func (g *Graph) nodeLinked(h NodeHandle) bool {
	return slices.ContainsFunc(g.links, func(l Link) bool {
		return l.From.Node == h || l.To.Node == h
	})
}

// subtreeLinked reports whether any sub-pin of p, and p itself when
// includeSelf is set, has a link.
func (g *Graph) subtreeLinked(p *Pin, includeSelf bool) bool {
	for _, l := range g.links {
		for _, h := range [2]PinHandle{l.From, l.To} {
			if h.Node != p.n.handle {
				continue
			}
			q := g.pinAt(h)
			if q == nil || !q.hasAncestor(p) {
				continue
			}
			if q != p || includeSelf {
				return true
			}
		}
	}
	return false
}

// DrivingLinks returns the links feeding in, one of its parents or one of
// its sub-pins. A value has at most one producer along a pin hierarchy, so
// any of these conflicts with a new link into in.
func (g *Graph) DrivingLinks(in *Pin) []Link {
	var out []Link
	for _, l := range g.links {
		if l.To.Node != in.n.handle {
			continue
		}
		q := g.pinAt(l.To)
		if q != nil && (q.hasAncestor(in) || in.hasAncestor(q)) {
			out = append(out, l)
		}
	}
	return out
}

// orient checks that a and b are attached pins of g and returns them as
// (output, input), swapping a request given backwards.
func (g *Graph) orient(a, b *Pin) (out, in *Pin, err error) {
	if err := g.attached(); err != nil {
		return nil, nil, err
	}
	if a == nil || b == nil {
		panic("graph: link endpoint is nil")
	}
	for _, p := range [2]*Pin{a, b} {
		if err := p.attached(); err != nil {
			return nil, nil, err
		}
		if p.n.g != g {
			return nil, nil, fmt.Errorf("%w: %q is not in graph %q", ErrForeignPin, p.Path(), g.Path())
		}
	}
	out, in = a, b
	if out.direction == Input && in.direction == Output {
		out, in = in, out
	}
	if out.direction != Output || in.direction != Input {
		return nil, nil, fmt.Errorf("%w: %q and %q", ErrDirection, a.Path(), b.Path())
	}
	return out, in, nil
}

// AddLink connects two pins. The arguments may be given in either order.
// Self links, duplicates and a second producer for an input are rejected;
// type compatibility and cycles are not checked here (see CanLink).
func (g *Graph) AddLink(a, b *Pin) (Link, error) {
	return g.InsertLink(a, b, -1)
}

// InsertLink is AddLink placing the link at index in the link order, or at
// the end when index is out of range.
func (g *Graph) InsertLink(a, b *Pin, index int) (Link, error) {
	out, in, err := g.orient(a, b)
	if err != nil {
		return Link{}, err
	}
	if out.n == in.n {
		return Link{}, fmt.Errorf("%w: %q", ErrSelfLink, out.n.Path())
	}
	l := Link{From: out.Handle(), To: in.Handle()}
	if slices.Contains(g.links, l) {
		return Link{}, fmt.Errorf("%w: %s -> %s", ErrLinkExists, out.Path(), in.Path())
	}
	if len(g.DrivingLinks(in)) > 0 {
		return Link{}, fmt.Errorf("%w: %q", ErrInputAlreadyLinked, in.Path())
	}
	g.links = insertAt(g.links, l, index)
	g.c.emit(Event{Kind: LinkAdded, Path: out.Path(), Target: in.Path()})
	return l, nil
}

// RemoveLink removes the link between two pins, given in either order.
func (g *Graph) RemoveLink(a, b *Pin) error {
	idx, err := g.LinkIndex(a, b)
	if err != nil {
		return err
	}
	g.removeLinkAt(idx)
	return nil
}

// LinkIndex returns the position of the link between two pins in the link
// order.
func (g *Graph) LinkIndex(a, b *Pin) (int, error) {
	out, in, err := g.orient(a, b)
	if err != nil {
		return -1, err
	}
	idx := slices.Index(g.links, Link{From: out.Handle(), To: in.Handle()})
	if idx < 0 {
		return -1, fmt.Errorf("%w: link %s -> %s", ErrNotFound, out.Path(), in.Path())
	}
	return idx, nil
}

func (g *Graph) removeLinkAt(idx int) {
	l := g.links[idx]
	from, to, _ := g.LinkPins(l)
	g.links = slices.Delete(g.links, idx, idx+1)
	g.c.emit(Event{Kind: LinkRemoved, Path: from.Path(), Target: to.Path()})
}

// RemoveAllLinksToPin removes every link touching p or its sub-pins and
// returns the removed links.
func (g *Graph) RemoveAllLinksToPin(p *Pin) ([]Link, error) {
	if err := p.attached(); err != nil {
		return nil, err
	}
	if p.n.g != g {
		return nil, ErrForeignPin
	}
	return g.removeLinksWhere(func(l Link) bool { return g.linkTouches(l, p, true) }), nil
}

// RemoveAllLinksToNode removes every link touching n and returns the
// removed links.
func (g *Graph) RemoveAllLinksToNode(n *Node) ([]Link, error) {
	if err := n.attached(); err != nil {
		return nil, err
	}
	if n.g != g {
		return nil, ErrForeignNode
	}
	return g.removeLinksWhere(func(l Link) bool {
		return l.From.Node == n.handle || l.To.Node == n.handle
	}), nil
}

func (g *Graph) removeLinksWhere(match func(Link) bool) []Link {
	var removed []Link
	for i := 0; i < len(g.links); {
		if match(g.links[i]) {
			removed = append(removed, g.links[i])
			g.removeLinkAt(i)
			continue
		}
		i++
	}
	return removed
}

// CanLink reports whether connecting a and b is legal: the pins are an
// output and an input on different nodes of g, their types are compatible
// and the link would not close a cycle. It does not mutate anything.
func (g *Graph) CanLink(a, b *Pin) error {
	out, in, err := g.orient(a, b)
	if err != nil {
		return err
	}
	if out.n == in.n {
		return fmt.Errorf("%w: %q", ErrSelfLink, out.n.Path())
	}
	types := g.c.types
	outType, ok := types.TypeFor(out.typ)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownType, out.typ)
	}
	inType, ok := types.TypeFor(in.typ)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownType, in.typ)
	}
	if !outType.IsCompatible(inType) {
		return fmt.Errorf("%w: %s (%s) -> %s (%s)", ErrIncompatibleTypes, out.Path(), out.typ, in.Path(), in.typ)
	}
	if g.WouldCycle(out, in) {
		return fmt.Errorf("%w: %s -> %s", ErrCycle, out.Path(), in.Path())
	}
	return nil
}

// WouldCycle reports whether a link from out to in would close a cycle. It
// walks existing links breadth-first from in's node and succeeds if out's
// node is reachable. A node linked to itself is always a cycle.
func (g *Graph) WouldCycle(out, in *Pin) bool {
	start, target := in.n.handle, out.n.handle
	if start == target {
		return true
	}

	next := make(map[NodeHandle][]NodeHandle)
	for _, l := range g.links {
		next[l.From.Node] = append(next[l.From.Node], l.To.Node)
	}

	visited := map[NodeHandle]bool{start: true}
	queue := []NodeHandle{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, h := range next[cur] {
			if h == target {
				return true
			}
			if !visited[h] {
				visited[h] = true
				queue = append(queue, h)
			}
		}
	}
	return false
}
