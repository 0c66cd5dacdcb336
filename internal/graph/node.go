// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package graph

import (
	"fmt"
	"slices"

	"github.com/specialistvlad/nodegraph/internal/pinpath"
	"github.com/specialistvlad/nodegraph/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

// Node is a vertex of a graph. It owns an ordered list of root pins.
type Node struct {
	g      *Graph
	handle NodeHandle

	name        string
	displayName string
	typeName    string
	position    Position
	dynamicPins bool

	pins   []*Pin
	byID   map[PinID]*Pin
	nextID PinID

	// pathCache maps node-relative pin chains to pins. It is rebuilt lazily
	// and dropped on every name or hierarchy change.
	pathCache map[string]*Pin
}

func (n *Node) attached() error {
	if n.g == nil || n.g.c == nil {
		return fmt.Errorf("%w: node %q", ErrDetached, n.name)
	}
	return nil
}

func (n *Node) types() Types {
	return n.g.c.types
}

// Name returns the structural name, unique within the graph.
func (n *Node) Name() string { return n.name }

// DisplayName returns the user-facing label. It may be empty.
func (n *Node) DisplayName() string { return n.displayName }

// TypeName returns the template the node was created from, if any.
func (n *Node) TypeName() string { return n.typeName }

// Position returns the layout position.
func (n *Node) Position() Position { return n.position }

// DynamicPins reports whether pins may be added or removed after creation.
func (n *Node) DynamicPins() bool { return n.dynamicPins }

// Graph returns the owning graph, or nil once the node is removed.
func (n *Node) Graph() *Graph { return n.g }

// Handle returns the arena handle of the node.
func (n *Node) Handle() NodeHandle { return n.handle }

// Path returns the node's path, e.g. `Main/Add`.
func (n *Node) Path() string {
	return n.Address().String()
}

// Address returns the structured form of Path.
func (n *Node) Address() pinpath.Address {
	if n.g == nil {
		return pinpath.Address{Node: n.name}
	}
	return pinpath.NodeIn(n.g.Address().Graphs, n.name)
}

// Pins returns the root pins in order.
func (n *Node) Pins() []*Pin {
	return slices.Clone(n.pins)
}

// PinIndex returns the position of a root pin, or -1.
func (n *Node) PinIndex(p *Pin) int {
	return slices.Index(n.pins, p)
}

// PinByID returns the pin with the given per-node ID.
func (n *Node) PinByID(id PinID) (*Pin, bool) {
	p, ok := n.byID[id]
	return p, ok
}

// AllPins returns every pin of the node, parents before their sub-pins.
func (n *Node) AllPins() []*Pin {
	var out []*Pin
	for _, p := range n.pins {
		p.walk(func(q *Pin) { out = append(out, q) })
	}
	return out
}

// FindPin looks a pin up by its node-relative chain, e.g. `Value.X`.
func (n *Node) FindPin(chain string) (*Pin, bool) {
	if n.pathCache == nil {
		n.pathCache = make(map[string]*Pin, len(n.byID))
		for _, p := range n.AllPins() {
			n.pathCache[p.Chain()] = p
		}
	}
	p, ok := n.pathCache[chain]
	return p, ok
}

func (n *Node) invalidate() {
	n.pathCache = nil
}

// SetDisplayName changes the user-facing label.
func (n *Node) SetDisplayName(name string) error {
	if err := n.attached(); err != nil {
		return err
	}
	n.displayName = name
	n.g.c.emit(Event{Kind: NodeDisplayNameChanged, Path: n.Path()})
	return nil
}

// SetPosition moves the node.
func (n *Node) SetPosition(p Position) error {
	if err := n.attached(); err != nil {
		return err
	}
	n.position = p
	n.g.c.emit(Event{Kind: NodeMoved, Path: n.Path()})
	return nil
}

// PinSpec describes a pin to create.
type PinSpec struct {
	Name      string
	Direction Direction
	Storage   Storage
	Type      registry.TypeRef
	// Domain is the data domain of a resource pin.
	Domain []string
	// Binding names a persisted value slot the pin exposes.
	Binding string
	// Default is the initial value of a value pin. The zero value of the
	// type is used when it is cty.NilVal or null.
	Default cty.Value
}

// AddPin creates a pin on n. With before set the pin is inserted in front of
// that root pin, otherwise it is appended. With parent set it becomes a
// sub-pin of parent and inherits its direction; parent must be a value pin
// and before must be nil. Value pins of expandable types get one sub-pin per
// type field, recursively. The name is made unique among the new pin's
// siblings.
func (n *Node) AddPin(spec PinSpec, before, parent *Pin) (*Pin, error) {
	if err := n.attached(); err != nil {
		return nil, err
	}
	p, err := n.addPin(spec, before, parent)
	if err != nil {
		return nil, err
	}
	n.g.c.emit(Event{Kind: PinAdded, Path: p.Path()})
	return p, nil
}

func (n *Node) addPin(spec PinSpec, before, parent *Pin) (*Pin, error) {
	if err := validateName(spec.Name); err != nil {
		return nil, err
	}
	if before != nil && (before.n != n || before.parent != nil || n.byID[before.id] != before) {
		return nil, ErrInvalidBefore
	}
	if parent != nil {
		if before != nil {
			return nil, ErrInvalidBefore
		}
		if parent.n != n || n.byID[parent.id] != parent {
			return nil, ErrForeignPin
		}
		if parent.storage != StorageValue {
			return nil, fmt.Errorf("%w: parent %q", ErrNotValuePin, parent.Chain())
		}
		spec.Direction = parent.direction
		spec.Storage = StorageValue
	}
	if _, ok := n.types().TypeFor(spec.Type); !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, spec.Type)
	}
	if spec.Storage == StorageValue && len(spec.Domain) > 0 {
		return nil, fmt.Errorf("%w: only resource pins have a data domain", ErrNotResource)
	}

	siblings := n.siblingsOf(parent)
	name := UniqueName(spec.Name, func(s string) bool {
		return slices.ContainsFunc(*siblings, func(q *Pin) bool { return q.name == s })
	})

	p := &Pin{
		n:         n,
		parent:    parent,
		name:      name,
		direction: spec.Direction,
		storage:   spec.Storage,
		typ:       spec.Type,
		domain:    slices.Clone(spec.Domain),
		binding:   spec.Binding,
	}
	if p.storage == StorageValue {
		if err := n.synthesize(p); err != nil {
			return nil, err
		}
		val, err := n.initialValue(spec.Type, spec.Default)
		if err != nil {
			return nil, fmt.Errorf("pin %q: %w", name, err)
		}
		p.assign(val)
	}

	index := -1
	if before != nil {
		index = slices.Index(n.pins, before)
	}
	*siblings = insertAt(*siblings, p, index)
	n.register(p)
	n.invalidate()
	return p, nil
}

func (n *Node) initialValue(ref registry.TypeRef, v cty.Value) (cty.Value, error) {
	if v == cty.NilVal || v.IsNull() {
		return n.types().ZeroValue(ref)
	}
	return n.types().Conform(ref, v)
}

// synthesize mirrors the fields of an expandable value pin's type as
// sub-pins, in declaration order. Children of p are replaced.
func (n *Node) synthesize(p *Pin) error {
	p.children = nil
	p.synthesized = false
	if p.storage != StorageValue {
		return nil
	}
	desc, ok := n.types().TypeFor(p.typ)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownType, p.typ)
	}
	if !desc.Expandable {
		return nil
	}
	for _, f := range desc.Fields {
		child := &Pin{
			n:         n,
			parent:    p,
			name:      f.Name,
			direction: p.direction,
			storage:   StorageValue,
			typ:       f.Type,
		}
		if err := n.synthesize(child); err != nil {
			return err
		}
		p.children = append(p.children, child)
	}
	p.synthesized = true
	return nil
}

func (n *Node) siblingsOf(parent *Pin) *[]*Pin {
	if parent == nil {
		return &n.pins
	}
	return &parent.children
}

// register assigns IDs to p and its subtree and makes them resolvable.
func (n *Node) register(p *Pin) {
	p.walk(func(q *Pin) {
		n.nextID++
		q.id = n.nextID
		n.byID[q.id] = q
	})
}

func (n *Node) unregister(p *Pin) {
	p.walk(func(q *Pin) {
		delete(n.byID, q.id)
	})
}

// RemovePin removes a root pin together with its sub-pins. It fails while any
// pin of the subtree is linked.
func (n *Node) RemovePin(p *Pin) error {
	if err := n.attached(); err != nil {
		return err
	}
	if p == nil {
		panic("graph: RemovePin called with nil pin")
	}
	if p.n != n || n.byID[p.id] != p {
		return ErrForeignPin
	}
	if p.parent != nil {
		return fmt.Errorf("%w: %q", ErrNotRootPin, p.Chain())
	}
	if n.g.subtreeLinked(p, true) {
		return fmt.Errorf("%w: %q", ErrPinLinked, p.Path())
	}

	path := p.Path()
	idx := slices.Index(n.pins, p)
	n.pins = slices.Delete(n.pins, idx, idx+1)
	n.unregister(p)
	n.invalidate()
	n.g.c.emit(Event{Kind: PinRemoved, Path: path})
	return nil
}
