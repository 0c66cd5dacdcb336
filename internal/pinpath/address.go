package pinpath

import (
	"slices"
	"strings"
)

// Kind reports whether the address points at a graph, node or pin.
func (a Address) Kind() Kind {
	switch {
	case len(a.Pins) > 0:
		return KindPin
	case a.Node != "":
		return KindNode
	default:
		return KindGraph
	}
}

// String serializes the Address into its canonical path representation.
func (a Address) String() string {
	var sb strings.Builder
	sb.WriteString(strings.Join(a.Graphs, GraphSeparator))
	if a.Node == "" {
		return sb.String()
	}
	if len(a.Graphs) > 0 {
		sb.WriteString(GraphSeparator)
	}
	sb.WriteString(a.Node)
	for _, p := range a.Pins {
		sb.WriteString(PinSeparator)
		sb.WriteString(p)
	}
	return sb.String()
}

// GraphPath returns the path of the graph that owns the addressed entity.
// For a graph address this is the address itself.
func (a Address) GraphPath() string {
	return strings.Join(a.Graphs, GraphSeparator)
}

// NodePath returns the path of the node owning the addressed pin. It returns
// an empty string for graph addresses.
func (a Address) NodePath() string {
	if a.Node == "" {
		return ""
	}
	return NodeIn(a.Graphs, a.Node).String()
}

// PinChain returns the node-relative pin path, e.g. `Value.X`.
func (a Address) PinChain() string {
	return strings.Join(a.Pins, PinSeparator)
}

// Child returns the address of a direct child: a sub-graph for graph
// addresses, a root pin for node addresses and a sub-pin for pin addresses.
func (a Address) Child(name string) Address {
	out := Address{
		Graphs: slices.Clone(a.Graphs),
		Node:   a.Node,
		Pins:   slices.Clone(a.Pins),
	}
	switch a.Kind() {
	case KindGraph:
		out.Graphs = append(out.Graphs, name)
	default:
		out.Pins = append(out.Pins, name)
	}
	return out
}

// Equal checks for deep equality between two addresses.
func (a Address) Equal(other Address) bool {
	return slices.Equal(a.Graphs, other.Graphs) &&
		a.Node == other.Node &&
		slices.Equal(a.Pins, other.Pins)
}
