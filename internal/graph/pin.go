// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package graph

import (
	"fmt"
	"slices"
	"strings"

	"github.com/specialistvlad/nodegraph/internal/pinpath"
	"github.com/specialistvlad/nodegraph/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

// Direction and Storage are shared with node templates.
type (
	Direction = registry.Direction
	Storage   = registry.Storage
)

const (
	Input           = registry.Input
	Output          = registry.Output
	StorageValue    = registry.StorageValue
	StorageResource = registry.StorageResource
)

// Pin is a typed connection point. Root pins belong to a node, sub-pins to
// their parent pin.
type Pin struct {
	n        *Node
	id       PinID
	parent   *Pin
	children []*Pin

	name      string
	direction Direction
	storage   Storage
	typ       registry.TypeRef
	domain    []string
	binding   string
	expanded  bool

	// value holds the data of a value pin without synthesized sub-pins.
	// Synthesized composites assemble their value from their children.
	value       cty.Value
	synthesized bool
}

func (p *Pin) attached() error {
	if err := p.n.attached(); err != nil {
		return err
	}
	if p.n.byID[p.id] != p {
		return fmt.Errorf("%w: pin %q", ErrDetached, p.name)
	}
	return nil
}

func (p *Pin) walk(fn func(*Pin)) {
	fn(p)
	for _, c := range p.children {
		c.walk(fn)
	}
}

// ID returns the per-node identifier.
func (p *Pin) ID() PinID { return p.id }

// Handle returns a weak reference to the pin.
func (p *Pin) Handle() PinHandle { return PinHandle{Node: p.n.handle, Pin: p.id} }

// Node returns the owning node.
func (p *Pin) Node() *Node { return p.n }

// Parent returns the parent pin, or nil for root pins.
func (p *Pin) Parent() *Pin { return p.parent }

// Children returns the sub-pins in order.
func (p *Pin) Children() []*Pin { return slices.Clone(p.children) }

// IsRoot reports whether the pin is owned directly by its node.
func (p *Pin) IsRoot() bool { return p.parent == nil }

func (p *Pin) Name() string { return p.name }

func (p *Pin) Direction() Direction { return p.direction }

func (p *Pin) Storage() Storage { return p.storage }

// Type returns the data type reference.
func (p *Pin) Type() registry.TypeRef { return p.typ }

// Domain returns the iteration domain of a resource pin.
func (p *Pin) Domain() []string { return slices.Clone(p.domain) }

// Binding returns the persisted value slot the pin exposes, if any.
func (p *Pin) Binding() string { return p.binding }

// Expanded reports the presentation-only expansion flag.
func (p *Pin) Expanded() bool { return p.expanded }

// hasAncestor reports whether a is p or one of p's parents.
func (p *Pin) hasAncestor(a *Pin) bool {
	for cur := p; cur != nil; cur = cur.parent {
		if cur == a {
			return true
		}
	}
	return false
}

// Chain returns the node-relative path, e.g. `Value.X`.
func (p *Pin) Chain() string {
	return strings.Join(p.chain(), pinpath.PinSeparator)
}

func (p *Pin) chain() []string {
	var names []string
	for cur := p; cur != nil; cur = cur.parent {
		names = append(names, cur.name)
	}
	slices.Reverse(names)
	return names
}

// Path returns the full path, e.g. `Main/Add.Value.X`.
func (p *Pin) Path() string {
	return p.Address().String()
}

// Address returns the structured form of Path.
func (p *Pin) Address() pinpath.Address {
	a := p.n.Address()
	a.Pins = p.chain()
	return a
}

func (p *Pin) child(name string) *Pin {
	for _, c := range p.children {
		if c.name == name {
			return c
		}
	}
	return nil
}

// Value returns the pin's current value. Resource pins report a typed null.
func (p *Pin) Value() cty.Value {
	types := p.n.types()
	if p.storage == StorageResource {
		ty, err := types.CtyType(p.typ)
		if err != nil {
			return cty.NullVal(cty.DynamicPseudoType)
		}
		return cty.NullVal(ty)
	}
	if !p.synthesized {
		return p.value
	}
	desc, _ := types.TypeFor(p.typ)
	attrs := make(map[string]cty.Value, len(desc.Fields))
	for _, f := range desc.Fields {
		if c := p.child(f.Name); c != nil {
			attrs[f.Name] = c.Value()
		}
	}
	return cty.ObjectVal(attrs)
}

// assign stores an already conformed value, spreading composites over the
// synthesized sub-pins.
func (p *Pin) assign(v cty.Value) {
	if !p.synthesized {
		p.value = v
		return
	}
	desc, _ := p.n.types().TypeFor(p.typ)
	for _, f := range desc.Fields {
		if c := p.child(f.Name); c != nil {
			c.assign(v.GetAttr(f.Name))
		}
	}
}

// SetValue conforms v to the pin's type and stores it.
func (p *Pin) SetValue(v cty.Value) error {
	if err := p.attached(); err != nil {
		return err
	}
	if p.storage != StorageValue {
		return fmt.Errorf("%w: %q", ErrNotValuePin, p.Path())
	}
	conformed, err := p.n.types().Conform(p.typ, v)
	if err != nil {
		return fmt.Errorf("pin %q: %w", p.Path(), err)
	}
	p.assign(conformed)
	p.n.g.c.emit(Event{Kind: PinValueChanged, Path: p.Path()})
	return nil
}

// SetType replaces the data type of a root pin. Sub-pins of value pins are
// regenerated for the new type and the value resets to the type's zero
// value. It fails for pins with a binding and while any sub-pin is linked.
func (p *Pin) SetType(ref registry.TypeRef) error {
	if err := p.attached(); err != nil {
		return err
	}
	if p.parent != nil {
		return fmt.Errorf("%w: cannot retype %q", ErrSubPin, p.Path())
	}
	if p.binding != "" {
		return fmt.Errorf("%w: %q is bound to %q", ErrPinBound, p.Path(), p.binding)
	}
	types := p.n.types()
	if _, ok := types.TypeFor(ref); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownType, ref)
	}
	if ref == p.typ {
		return nil
	}
	if p.n.g.subtreeLinked(p, false) {
		return fmt.Errorf("%w: sub-pins of %q", ErrPinLinked, p.Path())
	}

	// Build the replacement off to the side so a failure leaves p untouched.
	shadow := &Pin{n: p.n, name: p.name, direction: p.direction, storage: p.storage, typ: ref}
	if p.storage == StorageValue {
		if err := p.n.synthesize(shadow); err != nil {
			return err
		}
		zero, err := types.ZeroValue(ref)
		if err != nil {
			return err
		}
		shadow.assign(zero)
	}

	for _, c := range p.children {
		p.n.unregister(c)
	}
	p.typ = ref
	p.value = shadow.value
	p.synthesized = shadow.synthesized
	p.children = shadow.children
	for _, c := range p.children {
		c.parent = p
		p.n.register(c)
	}
	p.n.invalidate()
	p.n.g.c.emit(Event{Kind: PinTypeChanged, Path: p.Path()})
	return nil
}

// SetName renames a root pin, adding a numeric suffix if a sibling already
// uses the name, and returns the name actually applied.
func (p *Pin) SetName(name string) (string, error) {
	if err := p.attached(); err != nil {
		return "", err
	}
	if p.parent != nil {
		return "", fmt.Errorf("%w: cannot rename %q", ErrSubPin, p.Path())
	}
	if err := validateName(name); err != nil {
		return "", err
	}
	if name == p.name {
		return name, nil
	}
	name = UniqueName(name, func(s string) bool {
		return slices.ContainsFunc(p.n.pins, func(q *Pin) bool { return q != p && q.name == s })
	})
	if name == p.name {
		return name, nil
	}
	old := p.Path()
	p.name = name
	p.n.invalidate()
	p.n.g.c.emit(Event{Kind: PinRenamed, Path: p.Path(), OldPath: old})
	return name, nil
}

// SetDataDomain replaces the iteration domain of a resource pin.
func (p *Pin) SetDataDomain(levels []string) error {
	if err := p.attached(); err != nil {
		return err
	}
	if p.storage != StorageResource {
		return fmt.Errorf("%w: %q", ErrNotResource, p.Path())
	}
	for _, l := range levels {
		if err := validateName(l); err != nil {
			return err
		}
	}
	p.domain = slices.Clone(levels)
	p.n.invalidate()
	p.n.g.c.emit(Event{Kind: PinDomainChanged, Path: p.Path()})
	return nil
}

// SetExpanded records whether the pin is shown expanded. It is presentation
// state only and emits no event.
func (p *Pin) SetExpanded(expanded bool) {
	p.expanded = expanded
}

// Bind makes the pin expose the persisted value slot called slot.
func (p *Pin) Bind(slot string) error {
	if err := p.attached(); err != nil {
		return err
	}
	if p.parent != nil {
		return fmt.Errorf("%w: cannot bind %q", ErrSubPin, p.Path())
	}
	if err := validateName(slot); err != nil {
		return err
	}
	p.binding = slot
	p.n.g.c.emit(Event{Kind: PinBindingChanged, Path: p.Path()})
	return nil
}

// ClearBinding removes the pin's value slot binding, if any.
func (p *Pin) ClearBinding() error {
	if err := p.attached(); err != nil {
		return err
	}
	if p.binding == "" {
		return nil
	}
	p.binding = ""
	p.n.g.c.emit(Event{Kind: PinBindingChanged, Path: p.Path()})
	return nil
}
