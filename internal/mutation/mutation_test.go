package mutation

import (
	"context"
	"testing"

	"github.com/specialistvlad/nodegraph/internal/action"
	"github.com/specialistvlad/nodegraph/internal/graph"
	"github.com/specialistvlad/nodegraph/internal/registry"
	"github.com/specialistvlad/nodegraph/internal/snapshot"
	"github.com/specialistvlad/nodegraph/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

// fixture builds:
//
//	Main: Src -> Relay -> Sink, Src -> Mix.Color.X, Samp (unlinked)
//	Main/Sub: Inner
//	variable Speed
func fixture(t *testing.T) (context.Context, *graph.Collection, *action.Stack) {
	t.Helper()
	ctx, _ := testutil.Context(t)
	c := testutil.NewCollection(t, graph.WithSnapshotter(snapshot.New()))
	g, err := c.AddGraph("Main")
	require.NoError(t, err)
	src := testutil.AddNode(t, g, "Src", "Source")
	relay := testutil.AddNode(t, g, "Relay", "Relay")
	sink := testutil.AddNode(t, g, "Sink", "Sink")
	mix := testutil.AddNode(t, g, "Mix", "Mixer")
	testutil.AddNode(t, g, "Samp", "Sampler")
	testutil.Link(t, src, relay)
	testutil.Link(t, relay, sink)
	_, err = g.AddLink(testutil.Pin(t, src, "Out"), testutil.Pin(t, mix, "Color.X"))
	require.NoError(t, err)
	require.NoError(t, testutil.Pin(t, mix, "Color.Z").SetValue(cty.NumberFloatVal(0.25)))
	sub, err := g.AddGraph("Sub")
	require.NoError(t, err)
	testutil.AddNode(t, sub, "Inner", "Relay")
	_, err = c.AddVariable("Speed", registry.Float, cty.NumberIntVal(3))
	require.NoError(t, err)
	return ctx, c, action.NewStack(c)
}

func TestActions_RoundTrip(t *testing.T) {
	vec := cty.ObjectVal(map[string]cty.Value{
		"X": cty.NumberIntVal(1),
		"Y": cty.NumberIntVal(2),
		"Z": cty.NumberIntVal(3),
	})
	testCases := []struct {
		name   string
		action func() action.Action
	}{
		{"add graph", func() action.Action { return &AddGraph{Parent: "Main", Name: "Sub"} }},
		{"add top-level graph", func() action.Action { return &AddGraph{Name: "Extra"} }},
		{"remove graph", func() action.Action { return &RemoveGraph{Path: "Main/Sub"} }},
		{"remove top-level graph", func() action.Action { return &RemoveGraph{Path: "Main"} }},
		{"rename graph", func() action.Action { return &RenameGraph{Path: "Main", Name: "Root"} }},
		{"add node", func() action.Action {
			return &AddNode{Graph: "Main", Spec: graph.NodeSpec{Name: "Relay", Type: "Relay"}}
		}},
		{"remove node", func() action.Action { return &RemoveNode{Path: "Main/Samp"} }},
		{"rename node", func() action.Action { return &RenameNode{Path: "Main/Relay", Name: "Sink"} }},
		{"display name", func() action.Action { return &SetNodeDisplayName{Path: "Main/Mix", DisplayName: "Blend"} }},
		{"move node", func() action.Action { return &MoveNode{Path: "Main/Mix", Position: graph.Position{X: 5, Y: 6}} }},
		{"add link", func() action.Action { return &AddLink{From: "Main/Relay.Out", To: "Main/Mix.Color.Y"} }},
		{"remove link", func() action.Action { return &RemoveLink{From: "Main/Sink.In", To: "Main/Relay.Out"} }},
		{"add pin", func() action.Action {
			return &AddPin{Node: "Main/Mix", Spec: graph.PinSpec{Name: "Color", Type: registry.Vector2}, Before: "Count"}
		}},
		{"remove pin", func() action.Action { return &RemovePin{Path: "Main/Mix.Count"} }},
		{"rename pin", func() action.Action { return &RenamePin{Path: "Main/Mix.Count", Name: "Amount"} }},
		{"set sub-pin value", func() action.Action {
			return &SetPinValue{Path: "Main/Mix.Color.Z", Value: cty.NumberFloatVal(0.5)}
		}},
		{"set composite value", func() action.Action { return &SetPinValue{Path: "Main/Mix.Result", Value: vec} }},
		{"set pin type", func() action.Action { return &SetPinType{Path: "Main/Mix.Count", Type: registry.Vector2} }},
		{"set data domain", func() action.Action {
			return &SetPinDataDomain{Path: "Main/Samp.Points", Levels: []string{"Face"}}
		}},
		{"unbind pin", func() action.Action { return &UnbindPin{Path: "Main/Samp.Scale"} }},
		{"add variable", func() action.Action { return &AddVariable{Name: "Speed", Type: registry.Int} }},
		{"remove variable", func() action.Action { return &RemoveVariable{Name: "Speed"} }},
		{"rename variable", func() action.Action { return &RenameVariable{Name: "Speed", NewName: "Rate"} }},
		{"variable default", func() action.Action {
			return &SetVariableDefault{Name: "Speed", Value: cty.NumberFloatVal(2.5)}
		}},
		{"connect replacing", func() action.Action {
			return &ConnectPins{From: "Main/Mix.Result.X", To: "Main/Sink.In", Policy: LinkReplace}
		}},
		{"remove linked nodes", func() action.Action { return &RemoveNodes{Paths: []string{"Main/Relay", "Main/Src"}} }},
		{"duplicate nodes", func() action.Action {
			return &DuplicateNodes{Paths: []string{"Main/Src", "Main/Relay"}, Offset: graph.Position{X: 10}}
		}},
		{"change type dropping sub-pin links", func() action.Action {
			return &ChangePinType{Path: "Main/Mix.Color", Type: registry.Float}
		}},
		{"change type of bound pin", func() action.Action {
			return &ChangePinType{Path: "Main/Samp.Scale", Type: registry.Int}
		}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			ctx, c, s := fixture(t)
			before := c.DumpString()

			// Act
			require.NoError(t, s.Run(ctx, tc.action()))
			after := c.DumpString()

			// Assert
			assert.NotEqual(t, before, after, "the action must change something")
			require.True(t, s.Undo(ctx))
			assert.Equal(t, before, c.DumpString(), "undo restores the previous state")
			require.True(t, s.Redo(ctx))
			assert.Equal(t, after, c.DumpString(), "redo reproduces the same state")
			require.True(t, s.Undo(ctx))
			assert.Equal(t, before, c.DumpString(), "a second undo restores the state again")
		})
	}
}

func TestLinkScenario(t *testing.T) {
	// Arrange
	ctx, _ := testutil.Context(t)
	c := testutil.NewCollection(t, graph.WithSnapshotter(snapshot.New()))
	s := action.NewStack(c)
	require.NoError(t, s.Run(ctx, &AddGraph{Name: "G"}))
	require.NoError(t, s.Run(ctx, &AddNode{Graph: "G", Spec: graph.NodeSpec{Name: "A", Type: "Source"}}))
	require.NoError(t, s.Run(ctx, &AddNode{Graph: "G", Spec: graph.NodeSpec{Name: "B", Type: "Sink"}}))
	g, err := c.ResolveGraph("G")
	require.NoError(t, err)
	nodesBefore := c.DumpString()

	// Act
	require.NoError(t, s.Run(ctx, &AddLink{From: "G/A.Out", To: "G/B.In"}))

	// Assert
	assert.Len(t, g.Links(), 1)
	require.True(t, s.Undo(ctx))
	assert.Empty(t, g.Links())
	assert.Equal(t, nodesBefore, c.DumpString(), "A and B are unchanged")
	require.True(t, s.Redo(ctx))
	assert.Len(t, g.Links(), 1)
}

func TestLinkActions_BackwardRequestKeepsTitle(t *testing.T) {
	testCases := []struct {
		name   string
		action action.Action
		title  string
	}{
		{
			name:   "add link",
			action: &AddLink{From: "Main/Mix.Color.Y", To: "Main/Src.Out"},
			title:  "Link Main/Mix.Color.Y to Main/Src.Out",
		},
		{
			name:   "remove link",
			action: &RemoveLink{From: "Main/Sink.In", To: "Main/Relay.Out"},
			title:  "Unlink Main/Sink.In from Main/Relay.Out",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			ctx, c, _ := fixture(t)
			journal := action.NewJournal(nil)
			s := action.NewStack(c, action.WithScope(journal))
			before := c.DumpString()

			// Act
			require.NoError(t, s.Run(ctx, tc.action))

			// Assert
			title, ok := s.UndoTitle()
			require.True(t, ok)
			assert.Equal(t, tc.title, title)
			entries := journal.Entries()
			require.Len(t, entries, 1)
			assert.Equal(t, tc.title, entries[0].Title)
			require.True(t, s.Undo(ctx))
			assert.Equal(t, before, c.DumpString())
		})
	}
}

func TestAddLink_CycleRejected(t *testing.T) {
	// Arrange
	ctx, c, s := fixture(t)
	require.NoError(t, s.Run(ctx, &AddNode{Graph: "Main", Spec: graph.NodeSpec{Name: "C", Type: "Relay"}}))
	require.NoError(t, s.Run(ctx, &ConnectPins{From: "Main/Relay.Out", To: "Main/C.In"}))
	before := c.DumpString()
	depth := s.Len()

	// Act
	err := s.Run(ctx, &AddLink{From: "Main/C.Out", To: "Main/Relay.In"})

	// Assert
	require.ErrorIs(t, err, graph.ErrCycle)
	assert.Equal(t, before, c.DumpString())
	assert.Equal(t, depth, s.Len())
}

func TestConnectPins_Policies(t *testing.T) {
	t.Run("refuse", func(t *testing.T) {
		ctx, c, s := fixture(t)
		before := c.DumpString()

		err := s.Run(ctx, &ConnectPins{From: "Main/Src.Out", To: "Main/Sink.In", Policy: LinkRefuse})

		require.ErrorIs(t, err, graph.ErrInputAlreadyLinked)
		assert.Equal(t, before, c.DumpString())
	})

	t.Run("replace", func(t *testing.T) {
		ctx, c, s := fixture(t)
		a := &ConnectPins{From: "Main/Sink.In", To: "Main/Src.Out", Policy: LinkReplace}

		require.NoError(t, s.Run(ctx, a))

		in, err := c.ResolvePin("Main/Sink.In")
		require.NoError(t, err)
		links := in.Node().Graph().DrivingLinks(in)
		require.Len(t, links, 1)
		from, _, _ := in.Node().Graph().LinkPins(links[0])
		assert.Equal(t, "Main/Src.Out", from.Path())
		assert.Len(t, a.Steps(), 2)
	})

	t.Run("replace sub-pin producer", func(t *testing.T) {
		// Arrange
		ctx, c, s := fixture(t)
		g, err := c.ResolveGraph("Main")
		require.NoError(t, err)
		testutil.AddNode(t, g, "Blend", "Mixer")
		a := &ConnectPins{From: "Main/Blend.Result", To: "Main/Mix.Color", Policy: LinkReplace}

		// Act
		err = s.Run(ctx, a)

		// Assert
		require.NoError(t, err)
		in, err := c.ResolvePin("Main/Mix.Color")
		require.NoError(t, err)
		links := g.DrivingLinks(in)
		require.Len(t, links, 1)
		from, to, _ := g.LinkPins(links[0])
		assert.Equal(t, "Main/Blend.Result", from.Path())
		assert.Equal(t, "Main/Mix.Color", to.Path())
		assert.Len(t, a.Steps(), 2)

		require.True(t, s.Undo(ctx))
		links = g.DrivingLinks(in)
		require.Len(t, links, 1)
		from, to, _ = g.LinkPins(links[0])
		assert.Equal(t, "Main/Src.Out", from.Path())
		assert.Equal(t, "Main/Mix.Color.X", to.Path())
	})
}

func TestRemoveNodes_Scenario(t *testing.T) {
	// Arrange
	ctx, c, s := fixture(t)
	before := c.DumpString()
	require.ErrorIs(t, s.Run(ctx, &RemoveNode{Path: "Main/Relay"}), graph.ErrNodeLinked)

	// Act
	require.NoError(t, s.Run(ctx, &RemoveNodes{Paths: []string{"Main/Relay", "Main/Relay"}}))

	// Assert
	g, _ := c.ResolveGraph("Main")
	_, ok := g.NodeByName("Relay")
	assert.False(t, ok)
	assert.Len(t, g.Links(), 1, "only Src -> Mix remains")
	assert.Equal(t, 1, s.Len(), "one history step")
	require.True(t, s.Undo(ctx))
	assert.Equal(t, before, c.DumpString())
}

func TestDuplicateNodes(t *testing.T) {
	// Arrange
	ctx, c, s := fixture(t)
	a := &DuplicateNodes{Paths: []string{"Main/Src", "Main/Relay", "Main/Sink"}, Offset: graph.Position{X: 0, Y: 100}}

	// Act
	require.NoError(t, s.Run(ctx, a))

	// Assert
	assert.Equal(t, map[string]string{"Src": "Src1", "Relay": "Relay1", "Sink": "Sink1"}, a.Names())
	copyNode, err := c.ResolveNode("Main/Relay1")
	require.NoError(t, err)
	assert.Equal(t, graph.Position{X: 0, Y: 100}, copyNode.Position())
	g := copyNode.Graph()
	assert.Len(t, g.Links(), 5, "three original links and two copied ones")
	in := testutil.Pin(t, copyNode, "In")
	driving := g.DrivingLinks(in)
	require.Len(t, driving, 1)
	from, _, _ := g.LinkPins(driving[0])
	assert.Equal(t, "Main/Src1.Out", from.Path())

	t.Run("mixed graphs", func(t *testing.T) {
		err := s.Run(ctx, &DuplicateNodes{Paths: []string{"Main/Src", "Main/Sub/Inner"}})
		assert.ErrorIs(t, err, ErrMixedGraphs)
	})
	t.Run("empty", func(t *testing.T) {
		assert.ErrorIs(t, s.Run(ctx, &DuplicateNodes{}), ErrEmptySelection)
	})
}

func TestChangePinType_Links(t *testing.T) {
	testCases := []struct {
		name      string
		path      string
		typ       registry.TypeRef
		wantLinks int
	}{
		// int feeds float, so both links out of Src survive.
		{"compatible output", "Main/Src.Out", registry.Int, 3},
		// float cannot feed int, so Src -> Relay is dropped.
		{"incompatible input", "Main/Relay.In", registry.Int, 2},
		// Src -> Mix.Color.X targets a sub-pin that disappears.
		{"sub-pin link", "Main/Mix.Color", registry.Vector3, 3},
		{"sub-pin link on retype", "Main/Mix.Color", registry.Vector2, 2},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			ctx, c, s := fixture(t)

			// Act
			err := s.Run(ctx, &ChangePinType{Path: tc.path, Type: tc.typ})

			// Assert
			require.NoError(t, err)
			g, err := c.ResolveGraph("Main")
			require.NoError(t, err)
			assert.Len(t, g.Links(), tc.wantLinks)
		})
	}
}

func TestPinActions_Errors(t *testing.T) {
	ctx, c, s := fixture(t)
	before := c.DumpString()

	testCases := []struct {
		name    string
		action  action.Action
		wantErr error
	}{
		{"add pin on fixed node", &AddPin{Node: "Main/Src", Spec: graph.PinSpec{Name: "X", Type: registry.Float}}, ErrFixedPins},
		{"remove pin on fixed node", &RemovePin{Path: "Main/Sink.In"}, ErrFixedPins},
		{"remove sub-pin", &RemovePin{Path: "Main/Mix.Color.Y"}, graph.ErrNotRootPin},
		{"remove linked pin", &RemovePin{Path: "Main/Mix.Color"}, graph.ErrPinLinked},
		{"retype bound pin", &SetPinType{Path: "Main/Samp.Scale", Type: registry.Int}, graph.ErrPinBound},
		{"retype linked sub-pins", &SetPinType{Path: "Main/Mix.Color", Type: registry.Float}, graph.ErrPinLinked},
		{"value on resource", &SetPinValue{Path: "Main/Samp.Points", Value: cty.Zero}, graph.ErrNotValuePin},
		{"null struct field", &SetPinValue{Path: "Main/Mix.Color", Value: cty.ObjectVal(map[string]cty.Value{
			"X": cty.NullVal(cty.Number), "Y": cty.NumberIntVal(1), "Z": cty.NumberIntVal(1),
		})}, registry.ErrTypeMismatch},
		{"null int", &SetPinValue{Path: "Main/Mix.Count", Value: cty.NullVal(cty.Number)}, registry.ErrTypeMismatch},
		{"missing pin", &RenamePin{Path: "Main/Mix.Nope", Name: "X"}, graph.ErrNotFound},
		{"missing node", &MoveNode{Path: "Main/Nope"}, graph.ErrNotFound},
		{"incompatible link", &AddLink{From: "Main/Src.Out", To: "Main/Mix.Count"}, graph.ErrIncompatibleTypes},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := s.Run(ctx, tc.action)

			require.ErrorIs(t, err, tc.wantErr)
			assert.Equal(t, before, c.DumpString())
			assert.Equal(t, 0, s.Len())
		})
	}
}

func TestRedo_FailsWhenNameWasTaken(t *testing.T) {
	// Arrange
	ctx, c, s := fixture(t)
	require.NoError(t, s.Run(ctx, &AddNode{Graph: "Main", Spec: graph.NodeSpec{Name: "Extra"}}))
	require.True(t, s.Undo(ctx))
	g, _ := c.ResolveGraph("Main")
	testutil.AddNode(t, g, "Extra", "Source")
	before := c.DumpString()

	// Act
	ok := s.Redo(ctx)

	// Assert
	assert.False(t, ok)
	assert.Equal(t, before, c.DumpString())
	assert.Equal(t, 0, s.Cursor())
}
