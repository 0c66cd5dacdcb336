package graph_test

import (
	"testing"

	"github.com/specialistvlad/nodegraph/internal/graph"
	"github.com/specialistvlad/nodegraph/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	c := testutil.NewCollection(t)
	g := populate(t, c)
	sub, _ := g.Graph("Helpers")
	mix, _ := g.NodeByName("Mix")
	a, _ := sub.NodeByName("A")

	t.Run("graph", func(t *testing.T) {
		got, err := c.ResolveGraph("Main/Helpers")
		require.NoError(t, err)
		assert.Same(t, sub, got)
	})
	t.Run("node", func(t *testing.T) {
		got, err := c.ResolveNode("Main/Helpers/A")
		require.NoError(t, err)
		assert.Same(t, a, got)
	})
	t.Run("sub-pin", func(t *testing.T) {
		got, err := c.ResolvePin("Main/Mix.Color.X")
		require.NoError(t, err)
		assert.Equal(t, "Main/Mix.Color.X", got.Path())
		assert.Same(t, mix, got.Node())
	})

	errCases := []struct {
		name    string
		resolve func() error
		wantErr error
	}{
		{"missing graph", func() error { _, err := c.ResolveGraph("Nope"); return err }, graph.ErrNotFound},
		{"missing node", func() error { _, err := c.ResolveNode("Main/Nope"); return err }, graph.ErrNotFound},
		{"missing pin", func() error { _, err := c.ResolvePin("Main/Mix.Color.Q"); return err }, graph.ErrNotFound},
		{"node without graph", func() error { _, err := c.ResolveNode("Mix"); return err }, graph.ErrInvalidName},
		{"empty segment", func() error { _, err := c.ResolveGraph("Main//Helpers"); return err }, graph.ErrInvalidName},
		{"pin without pin", func() error { _, err := c.ResolvePin("Main/Mix"); return err }, graph.ErrInvalidName},
	}
	for _, tc := range errCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, tc.resolve(), tc.wantErr)
		})
	}
}

func TestResolve_AnyKind(t *testing.T) {
	c := testutil.NewCollection(t)
	g := populate(t, c)

	testCases := []struct {
		path     string
		wantKind string
		wantPath string
	}{
		{"Main", "graph", "Main"},
		{"Main/Helpers", "graph", "Main/Helpers"},
		{"Main/Mix", "node", "Main/Mix"},
		{"Main/Helpers/B.In", "pin", "Main/Helpers/B.In"},
	}
	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			r, err := c.Resolve(tc.path)
			require.NoError(t, err)
			switch tc.wantKind {
			case "graph":
				require.Nil(t, r.Node)
				assert.Equal(t, tc.wantPath, r.Graph.Path())
			case "node":
				require.Nil(t, r.Pin)
				require.NotNil(t, r.Node)
				assert.Equal(t, tc.wantPath, r.Node.Path())
			case "pin":
				require.NotNil(t, r.Pin)
				assert.Equal(t, tc.wantPath, r.Pin.Path())
			}
		})
	}

	t.Run("stable across rename", func(t *testing.T) {
		_, err := g.Rename("Renamed")
		require.NoError(t, err)

		_, err = c.Resolve("Main/Mix")
		assert.ErrorIs(t, err, graph.ErrNotFound)
		r, err := c.Resolve("Renamed/Mix")
		require.NoError(t, err)
		assert.Equal(t, "Renamed/Mix", r.Node.Path())
	})

	t.Run("too deep", func(t *testing.T) {
		_, err := c.Resolve("Renamed/X/Y")
		assert.ErrorIs(t, err, graph.ErrNotFound)
	})
}
