package graph_test

import (
	"testing"

	"github.com/specialistvlad/nodegraph/internal/graph"
	"github.com/specialistvlad/nodegraph/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nodeNames(g *graph.Graph) []string {
	var names []string
	for _, n := range g.Nodes() {
		names = append(names, n.Name())
	}
	return names
}

func TestUniqueName(t *testing.T) {
	testCases := []struct {
		name  string
		taken []string
		want  string
	}{
		{"X", nil, "X"},
		{"X", []string{"X"}, "X1"},
		{"X", []string{"X", "X1"}, "X2"},
		{"X1", []string{"X1"}, "X2"},
		{"X9", []string{"X9", "X10"}, "X11"},
		{"Node_2", []string{"Node_2"}, "Node_3"},
	}
	for _, tc := range testCases {
		t.Run(tc.name+"_"+tc.want, func(t *testing.T) {
			taken := make(map[string]bool)
			for _, s := range tc.taken {
				taken[s] = true
			}
			got := graph.UniqueName(tc.name, func(s string) bool { return taken[s] })
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestAddNode_FromTemplate(t *testing.T) {
	// Arrange
	c := testutil.NewCollection(t)
	g, err := c.AddGraph("Main")
	require.NoError(t, err)
	rec := testutil.Record(c)

	// Act
	n, err := g.AddNode(graph.NodeSpec{Name: "Mix", Type: "Mixer", Position: graph.Position{X: 10, Y: 20}})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Main/Mix", n.Path())
	assert.True(t, n.DynamicPins(), "template enables dynamic pins")
	assert.Equal(t, graph.Position{X: 10, Y: 20}, n.Position())
	assert.Equal(t, []string{"Color", "Count", "Result"}, pinNames(n.Pins()))
	count := testutil.Pin(t, n, "Count")
	assert.Equal(t, "2", count.Value().AsBigFloat().String())
	assert.Equal(t, []string{"node_added Main/Mix"}, rec.Kinds())
}

func TestAddNode_Errors(t *testing.T) {
	c := testutil.NewCollection(t)
	g, _ := c.AddGraph("Main")

	_, err := g.AddNode(graph.NodeSpec{Name: "X", Type: "Missing"})
	assert.ErrorIs(t, err, graph.ErrUnknownNodeType)

	_, err = g.AddNode(graph.NodeSpec{Name: "a/b"})
	assert.ErrorIs(t, err, graph.ErrInvalidName)

	assert.Empty(t, g.Nodes())
}

func TestNodeNames_AreUnique(t *testing.T) {
	c := testutil.NewCollection(t)
	g, _ := c.AddGraph("Main")
	testutil.AddNode(t, g, "A", "Source")
	testutil.AddNode(t, g, "A", "Source")
	b := testutil.AddNode(t, g, "B", "Sink")

	name, err := g.RenameNode(b, "A")

	require.NoError(t, err)
	assert.Equal(t, "A2", name)
	assert.Equal(t, []string{"A", "A1", "A2"}, nodeNames(g))
	got, ok := g.NodeByName("A2")
	require.True(t, ok)
	assert.Same(t, b, got)
	_, ok = g.NodeByName("B")
	assert.False(t, ok)
}

func TestRemoveNode(t *testing.T) {
	// Arrange
	c := testutil.NewCollection(t)
	g, _ := c.AddGraph("Main")
	a := testutil.AddNode(t, g, "A", "Source")
	b := testutil.AddNode(t, g, "B", "Sink")
	testutil.Link(t, a, b)

	// Act & Assert
	require.ErrorIs(t, g.RemoveNode(a), graph.ErrNodeLinked)

	_, err := g.RemoveAllLinksToNode(a)
	require.NoError(t, err)
	h := a.Handle()
	require.NoError(t, g.RemoveNode(a))

	assert.Equal(t, []string{"B"}, nodeNames(g))
	_, ok := g.NodeAt(h)
	assert.False(t, ok, "stale handle")
	assert.ErrorIs(t, a.SetPosition(graph.Position{}), graph.ErrDetached)

	// A new node may reuse the slot but not the generation.
	n := testutil.AddNode(t, g, "A", "Source")
	assert.NotEqual(t, h, n.Handle())
	_, ok = g.NodeAt(h)
	assert.False(t, ok)
}

func TestNodeEdits_EmitEvents(t *testing.T) {
	c := testutil.NewCollection(t)
	g, _ := c.AddGraph("Main")
	n := testutil.AddNode(t, g, "A", "Source")
	rec := testutil.Record(c)

	require.NoError(t, n.SetDisplayName("Input value"))
	require.NoError(t, n.SetPosition(graph.Position{X: 1, Y: 2}))
	_, err := g.RenameNode(n, "Src")
	require.NoError(t, err)

	assert.Equal(t, []graph.Event{
		{Kind: graph.NodeDisplayNameChanged, Path: "Main/A"},
		{Kind: graph.NodeMoved, Path: "Main/A"},
		{Kind: graph.NodeRenamed, Path: "Main/Src", OldPath: "Main/A"},
	}, rec.Events())
	assert.Equal(t, "Input value", n.DisplayName())
}

func TestGraphs_Nesting(t *testing.T) {
	// Arrange
	c := testutil.NewCollection(t)
	main, err := c.AddGraph("Main")
	require.NoError(t, err)
	sub, err := main.AddGraph("Helpers")
	require.NoError(t, err)
	n := testutil.AddNode(t, sub, "Add", "Relay")

	// Act
	name, err := main.Rename("Root")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Root", name)
	assert.Equal(t, "Root/Helpers/Add", n.Path(), "paths are recomputed from current names")
	assert.Equal(t, "Root/Helpers/Add.Out", testutil.Pin(t, n, "Out").Path())

	second, err := c.AddGraph("Root")
	require.NoError(t, err)
	assert.Equal(t, "Root1", second.Name())

	idx, err := c.RemoveGraph(main)
	require.NoError(t, err)
	assert.Equal(t, 0, idx)
	assert.ErrorIs(t, n.SetPosition(graph.Position{}), graph.ErrDetached)
	_, err = sub.AddNode(graph.NodeSpec{Name: "X"})
	assert.ErrorIs(t, err, graph.ErrDetached)
}

func TestSubscribe_Unsubscribe(t *testing.T) {
	c := testutil.NewCollection(t)
	var got []graph.EventKind
	unsubscribe := c.Subscribe(func(ev graph.Event) { got = append(got, ev.Kind) })

	_, err := c.AddGraph("A")
	require.NoError(t, err)
	unsubscribe()
	_, err = c.AddGraph("B")
	require.NoError(t, err)

	assert.Equal(t, []graph.EventKind{graph.GraphAdded}, got)
	assert.Equal(t, "graph_added", graph.GraphAdded.String())
}
