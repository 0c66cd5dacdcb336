package graph_test

import (
	"testing"

	"github.com/specialistvlad/nodegraph/internal/graph"
	"github.com/specialistvlad/nodegraph/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddLink_Scenario(t *testing.T) {
	// Arrange
	c := testutil.NewCollection(t)
	g, err := c.AddGraph("G")
	require.NoError(t, err)
	a := testutil.AddNode(t, g, "A", "Source")
	b := testutil.AddNode(t, g, "B", "Sink")
	rec := testutil.Record(c)

	// Act
	l, err := g.AddLink(testutil.Pin(t, a, "Out"), testutil.Pin(t, b, "In"))

	// Assert
	require.NoError(t, err)
	assert.Len(t, g.Links(), 1)
	from, to, ok := g.LinkPins(l)
	require.True(t, ok)
	assert.Equal(t, "G/A.Out", from.Path())
	assert.Equal(t, "G/B.In", to.Path())
	require.Len(t, rec.Events(), 1)
	assert.Equal(t, graph.Event{Kind: graph.LinkAdded, Path: "G/A.Out", Target: "G/B.In"}, rec.Events()[0])
}

func TestAddLink_SwapsBackwardRequest(t *testing.T) {
	c := testutil.NewCollection(t)
	g, _ := c.AddGraph("G")
	a := testutil.AddNode(t, g, "A", "Source")
	b := testutil.AddNode(t, g, "B", "Sink")

	l, err := g.AddLink(testutil.Pin(t, b, "In"), testutil.Pin(t, a, "Out"))

	require.NoError(t, err)
	assert.Equal(t, a.Handle(), l.From.Node)
	assert.Equal(t, b.Handle(), l.To.Node)
}

func TestAddLink_Rejections(t *testing.T) {
	testCases := []struct {
		name    string
		arrange func(t *testing.T, g *graph.Graph) (*graph.Pin, *graph.Pin)
		wantErr error
	}{
		{
			name: "same node",
			arrange: func(t *testing.T, g *graph.Graph) (*graph.Pin, *graph.Pin) {
				r := testutil.AddNode(t, g, "R", "Relay")
				return testutil.Pin(t, r, "Out"), testutil.Pin(t, r, "In")
			},
			wantErr: graph.ErrSelfLink,
		},
		{
			name: "two outputs",
			arrange: func(t *testing.T, g *graph.Graph) (*graph.Pin, *graph.Pin) {
				a := testutil.AddNode(t, g, "A", "Source")
				b := testutil.AddNode(t, g, "B", "Source")
				return testutil.Pin(t, a, "Out"), testutil.Pin(t, b, "Out")
			},
			wantErr: graph.ErrDirection,
		},
		{
			name: "duplicate link",
			arrange: func(t *testing.T, g *graph.Graph) (*graph.Pin, *graph.Pin) {
				a := testutil.AddNode(t, g, "A", "Source")
				b := testutil.AddNode(t, g, "B", "Sink")
				testutil.Link(t, a, b)
				return testutil.Pin(t, a, "Out"), testutil.Pin(t, b, "In")
			},
			wantErr: graph.ErrLinkExists,
		},
		{
			name: "input already driven",
			arrange: func(t *testing.T, g *graph.Graph) (*graph.Pin, *graph.Pin) {
				a := testutil.AddNode(t, g, "A", "Source")
				b := testutil.AddNode(t, g, "B", "Source")
				s := testutil.AddNode(t, g, "S", "Sink")
				testutil.Link(t, a, s)
				return testutil.Pin(t, b, "Out"), testutil.Pin(t, s, "In")
			},
			wantErr: graph.ErrInputAlreadyLinked,
		},
		{
			name: "sub-pin of driven input",
			arrange: func(t *testing.T, g *graph.Graph) (*graph.Pin, *graph.Pin) {
				m1 := testutil.AddNode(t, g, "M1", "Mixer")
				m2 := testutil.AddNode(t, g, "M2", "Mixer")
				src := testutil.AddNode(t, g, "S", "Source")
				_, err := g.AddLink(testutil.Pin(t, m1, "Result"), testutil.Pin(t, m2, "Color"))
				require.NoError(t, err)
				return testutil.Pin(t, src, "Out"), testutil.Pin(t, m2, "Color.X")
			},
			wantErr: graph.ErrInputAlreadyLinked,
		},
		{
			name: "pin of another graph",
			arrange: func(t *testing.T, g *graph.Graph) (*graph.Pin, *graph.Pin) {
				other, err := g.Collection().AddGraph("Other")
				require.NoError(t, err)
				a := testutil.AddNode(t, g, "A", "Source")
				b := testutil.AddNode(t, other, "B", "Sink")
				return testutil.Pin(t, a, "Out"), testutil.Pin(t, b, "In")
			},
			wantErr: graph.ErrForeignPin,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			c := testutil.NewCollection(t)
			g, err := c.AddGraph("G")
			require.NoError(t, err)
			from, to := tc.arrange(t, g)
			before := c.DumpString()

			// Act
			_, err = g.AddLink(from, to)

			// Assert
			require.ErrorIs(t, err, tc.wantErr)
			assert.Equal(t, before, c.DumpString(), "a rejected link must not change the graph")
		})
	}
}

func TestCanLink_RejectsCycle(t *testing.T) {
	// Arrange
	c := testutil.NewCollection(t)
	g, _ := c.AddGraph("G")
	a := testutil.AddNode(t, g, "A", "Relay")
	b := testutil.AddNode(t, g, "B", "Relay")
	cc := testutil.AddNode(t, g, "C", "Relay")
	testutil.Link(t, a, b)
	testutil.Link(t, b, cc)
	before := c.DumpString()

	// Act
	err := g.CanLink(testutil.Pin(t, cc, "Out"), testutil.Pin(t, a, "In"))

	// Assert
	require.ErrorIs(t, err, graph.ErrCycle)
	assert.Equal(t, before, c.DumpString())
	assert.Len(t, g.Links(), 2)
}

func TestCanLink(t *testing.T) {
	c := testutil.NewCollection(t)
	g, _ := c.AddGraph("G")
	src := testutil.AddNode(t, g, "Src", "Source")
	mix := testutil.AddNode(t, g, "Mix", "Mixer")
	sink := testutil.AddNode(t, g, "Sink", "Sink")
	relay := testutil.AddNode(t, g, "Relay", "Relay")

	t.Run("compatible", func(t *testing.T) {
		assert.NoError(t, g.CanLink(testutil.Pin(t, src, "Out"), testutil.Pin(t, sink, "In")))
	})
	t.Run("float into struct", func(t *testing.T) {
		err := g.CanLink(testutil.Pin(t, src, "Out"), testutil.Pin(t, mix, "Color"))
		assert.ErrorIs(t, err, graph.ErrIncompatibleTypes)
	})
	t.Run("float into struct field", func(t *testing.T) {
		assert.NoError(t, g.CanLink(testutil.Pin(t, src, "Out"), testutil.Pin(t, mix, "Color.Y")))
	})
	t.Run("struct field into float", func(t *testing.T) {
		assert.NoError(t, g.CanLink(testutil.Pin(t, mix, "Result.Z"), testutil.Pin(t, relay, "In")))
	})
	t.Run("float into int", func(t *testing.T) {
		err := g.CanLink(testutil.Pin(t, src, "Out"), testutil.Pin(t, mix, "Count"))
		assert.ErrorIs(t, err, graph.ErrIncompatibleTypes)
	})
	t.Run("self", func(t *testing.T) {
		err := g.CanLink(testutil.Pin(t, relay, "Out"), testutil.Pin(t, relay, "In"))
		assert.ErrorIs(t, err, graph.ErrSelfLink)
	})
}

func TestWouldCycle(t *testing.T) {
	c := testutil.NewCollection(t)
	g, _ := c.AddGraph("G")
	a := testutil.AddNode(t, g, "A", "Relay")
	b := testutil.AddNode(t, g, "B", "Relay")
	d := testutil.AddNode(t, g, "D", "Relay")
	testutil.Link(t, a, b)

	assert.True(t, g.WouldCycle(testutil.Pin(t, b, "Out"), testutil.Pin(t, a, "In")))
	assert.False(t, g.WouldCycle(testutil.Pin(t, b, "Out"), testutil.Pin(t, d, "In")))
	assert.True(t, g.WouldCycle(testutil.Pin(t, d, "Out"), testutil.Pin(t, d, "In")))
}

func TestRemoveLinks(t *testing.T) {
	// Arrange
	c := testutil.NewCollection(t)
	g, _ := c.AddGraph("G")
	a := testutil.AddNode(t, g, "A", "Source")
	b := testutil.AddNode(t, g, "B", "Relay")
	s := testutil.AddNode(t, g, "S", "Sink")
	testutil.Link(t, a, b)
	testutil.Link(t, b, s)

	// Act
	err := g.RemoveLink(testutil.Pin(t, s, "In"), testutil.Pin(t, b, "Out"))

	// Assert
	require.NoError(t, err)
	assert.Len(t, g.Links(), 1)

	err = g.RemoveLink(testutil.Pin(t, b, "Out"), testutil.Pin(t, s, "In"))
	assert.ErrorIs(t, err, graph.ErrNotFound)

	testutil.Link(t, b, s)
	removed, err := g.RemoveAllLinksToNode(b)
	require.NoError(t, err)
	assert.Len(t, removed, 2)
	assert.Empty(t, g.Links())
}

func TestRemoveAllLinksToPin_IncludesSubPins(t *testing.T) {
	c := testutil.NewCollection(t)
	g, _ := c.AddGraph("G")
	src := testutil.AddNode(t, g, "Src", "Source")
	mix := testutil.AddNode(t, g, "Mix", "Mixer")
	_, err := g.AddLink(testutil.Pin(t, src, "Out"), testutil.Pin(t, mix, "Color.X"))
	require.NoError(t, err)

	removed, err := g.RemoveAllLinksToPin(testutil.Pin(t, mix, "Color"))

	require.NoError(t, err)
	assert.Len(t, removed, 1)
	assert.Empty(t, g.Links())
}
