package testutil

import (
	"context"
	"testing"

	"github.com/specialistvlad/nodegraph/internal/graph"
	"github.com/specialistvlad/nodegraph/internal/registry"
	"github.com/stretchr/testify/require"
)

// Library is a small node library shared by tests.
//
//   - Source has one float output `Out`.
//   - Sink has one float input `In`.
//   - Relay has a float input `In` and a float output `Out`.
//   - Mixer is a dynamic node with a Vector3 input, an int input and a
//     Vector3 output.
//   - Sampler has resource pins and a bound value pin.
const Library = `
node_type "Source" {
  category = "Test"
  output "Out" { type = float }
}

node_type "Sink" {
  category = "Test"
  input "In" { type = float }
}

node_type "Relay" {
  category = "Test"
  input "In" { type = float }
  output "Out" { type = float }
}

node_type "Mixer" {
  category     = "Test"
  dynamic_pins = true

  input "Color" { type = Vector3 }
  input "Count" {
    type    = int
    default = 2
  }
  output "Result" { type = Vector3 }
}

node_type "Sampler" {
  category = "Test"

  input "Points" {
    type    = Vector3
    storage = "resource"
    domain  = ["Vertex"]
  }
  input "Scale" {
    type    = float
    default = 1
    binding = "scale"
  }
  output "Samples" {
    type    = float
    storage = "resource"
    domain  = ["Vertex"]
  }
}
`

// NewRegistry returns a registry with the builtin types and Library loaded.
func NewRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	r := registry.New()
	require.NoError(t, r.LoadSource(context.Background(), []byte(Library), "library.hcl"))
	return r
}

// NewCollection returns an empty collection over NewRegistry.
func NewCollection(t *testing.T, opts ...graph.Option) *graph.Collection {
	t.Helper()
	return graph.NewCollection(NewRegistry(t), opts...)
}

// AddNode adds a node of the given template to g and fails the test on error.
func AddNode(t *testing.T, g *graph.Graph, name, nodeType string) *graph.Node {
	t.Helper()
	n, err := g.AddNode(graph.NodeSpec{Name: name, Type: nodeType})
	require.NoError(t, err)
	return n
}

// Pin returns the pin at chain on n and fails the test if it is missing.
func Pin(t *testing.T, n *graph.Node, chain string) *graph.Pin {
	t.Helper()
	p, ok := n.FindPin(chain)
	require.True(t, ok, "pin %q not found on %q", chain, n.Path())
	return p
}

// Link links a.Out to b.In and fails the test on error.
func Link(t *testing.T, a, b *graph.Node) {
	t.Helper()
	_, err := a.Graph().AddLink(Pin(t, a, "Out"), Pin(t, b, "In"))
	require.NoError(t, err)
}
