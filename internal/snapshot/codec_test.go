package snapshot

import (
	"testing"

	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/specialistvlad/nodegraph/internal/graph"
	"github.com/specialistvlad/nodegraph/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
	"github.com/zclconf/go-cty/cty"
)

func sampleGraph(t *testing.T) (*graph.Collection, *graph.Graph) {
	t.Helper()
	c := testutil.NewCollection(t, graph.WithSnapshotter(New()))
	g, err := c.AddGraph("Main")
	require.NoError(t, err)
	src := testutil.AddNode(t, g, "Src", "Source")
	mix := testutil.AddNode(t, g, "Mix", "Mixer")
	testutil.AddNode(t, g, "Sampler", "Sampler")
	_, err = g.AddLink(testutil.Pin(t, src, "Out"), testutil.Pin(t, mix, "Color.X"))
	require.NoError(t, err)
	require.NoError(t, testutil.Pin(t, mix, "Color.Z").SetValue(cty.NumberFloatVal(-0.75)))
	require.NoError(t, mix.SetPosition(graph.Position{X: 12.5, Y: -3}))
	testutil.Pin(t, mix, "Result").SetExpanded(true)
	sub, err := g.AddGraph("Inner")
	require.NoError(t, err)
	testutil.AddNode(t, sub, "Deep", "Relay")
	return c, g
}

func TestCodec_RoundTrip(t *testing.T) {
	_, g := sampleGraph(t)
	codec := New()
	mix, _ := g.NodeByName("Mix")

	t.Run("graph", func(t *testing.T) {
		want := g.Capture()

		data, err := codec.EncodeGraph(want)
		require.NoError(t, err)
		got, err := codec.DecodeGraph(data)

		require.NoError(t, err)
		if diff := testutil.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
			t.Errorf("graph mismatch (-want +got):\n%s", diff)
		}
	})
	t.Run("node", func(t *testing.T) {
		want := mix.Capture()

		data, err := codec.EncodeNode(want)
		require.NoError(t, err)
		got, err := codec.DecodeNode(data)

		require.NoError(t, err)
		if diff := testutil.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
			t.Errorf("node mismatch (-want +got):\n%s", diff)
		}
	})
	t.Run("pin", func(t *testing.T) {
		want := testutil.Pin(t, mix, "Count").Capture()

		data, err := codec.EncodePin(want)
		require.NoError(t, err)
		got, err := codec.DecodePin(data)

		require.NoError(t, err)
		if diff := testutil.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
			t.Errorf("pin mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestCodec_Rejects(t *testing.T) {
	codec := New()
	nodeData, err := codec.EncodeNode(graph.NodeState{Name: "N"})
	require.NoError(t, err)
	future, err := msgpack.Marshal(envelope{Version: Version + 1, Kind: kindNode})
	require.NoError(t, err)

	testCases := []struct {
		name    string
		decode  func() error
		wantErr error
	}{
		{
			name:    "wrong kind",
			decode:  func() error { _, err := codec.DecodeGraph(nodeData); return err },
			wantErr: ErrKind,
		},
		{
			name:    "future version",
			decode:  func() error { _, err := codec.DecodeNode(future); return err },
			wantErr: ErrVersion,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, tc.decode(), tc.wantErr)
		})
	}

	t.Run("garbage", func(t *testing.T) {
		_, err := codec.DecodePin([]byte{0xc1})
		assert.Error(t, err)
	})
}

func TestCollection_SnapshotRestore(t *testing.T) {
	// Arrange
	c, g := sampleGraph(t)
	before := c.DumpString()
	data, err := c.SnapshotGraph(g)
	require.NoError(t, err)
	_, err = c.RemoveGraph(g)
	require.NoError(t, err)
	require.Empty(t, c.Graphs())

	// Act
	restored, err := c.RestoreGraph(data, nil, 0)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Main", restored.Name())
	assert.Equal(t, before, c.DumpString())
}
