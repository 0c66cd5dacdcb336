package pinpath

const (
	// GraphSeparator separates graph names, and the node name from its graph.
	GraphSeparator = "/"
	// PinSeparator separates the node name from its pin chain and pins from sub-pins.
	PinSeparator = "."
)

// Kind describes which entity an Address points at.
type Kind int

const (
	// KindGraph addresses a graph.
	KindGraph Kind = iota
	// KindNode addresses a node inside a graph.
	KindNode
	// KindPin addresses a root pin or a sub-pin on a node.
	KindPin
)

func (k Kind) String() string {
	switch k {
	case KindGraph:
		return "graph"
	case KindNode:
		return "node"
	case KindPin:
		return "pin"
	default:
		return "unknown"
	}
}

// Address is the structured representation of an entity path.
type Address struct {
	// Graphs is the graph chain, outermost graph first.
	Graphs []string
	// Node is the node name, empty for graph addresses.
	Node string
	// Pins is the pin chain, root pin first. Empty for graph and node addresses.
	Pins []string
}

// Graph builds a graph address from a graph chain.
func Graph(graphs ...string) Address {
	return Address{Graphs: append([]string(nil), graphs...)}
}

// NodeIn builds a node address for a node inside the given graph chain.
func NodeIn(graphs []string, node string) Address {
	return Address{Graphs: append([]string(nil), graphs...), Node: node}
}
