// This file defines the NodeType, the reusable template a node is created
// from, and the PinDecl entries it is made of.
//
// A NodeType relates to a node the way a function signature relates to a
// call. It fixes the pins a node starts with, their storage and defaults, and
// whether the node accepts extra pins later on. The graph core instantiates a
// template once, at node creation; afterwards the node owns its pins and the
// template is only consulted for its name.
package registry

import "github.com/zclconf/go-cty/cty"

// NodeType is a template for nodes.
type NodeType struct {
	Name        string
	Category    string
	Description string

	// DynamicPins allows pins to be added and removed after creation.
	DynamicPins bool

	// Pins keeps the declaration order of input and output blocks.
	Pins []PinDecl

	FilePath string
}

// PinDecl declares one pin of a NodeType.
type PinDecl struct {
	Name        string
	Description string
	Direction   Direction
	Storage     Storage
	Type        TypeRef

	// Domain is the default data domain of a resource pin.
	Domain []string

	// Binding names the persisted value slot the pin exposes, if any.
	Binding string

	// Default is cty.NilVal when the declaration has no default.
	Default cty.Value
}

// HasDefault reports whether the declaration carries a default value.
func (p PinDecl) HasDefault() bool {
	return p.Default != cty.NilVal && !p.Default.IsNull()
}

// Pin looks up a declared pin by name.
func (nt *NodeType) Pin(name string) (PinDecl, bool) {
	for _, p := range nt.Pins {
		if p.Name == name {
			return p, true
		}
	}
	return PinDecl{}, false
}
