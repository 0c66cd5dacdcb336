package graph_test

import (
	"testing"

	"github.com/specialistvlad/nodegraph/internal/graph"
	"github.com/specialistvlad/nodegraph/internal/registry"
	"github.com/specialistvlad/nodegraph/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestVariables(t *testing.T) {
	// Arrange
	c := testutil.NewCollection(t)
	rec := testutil.Record(c)

	// Act
	first, err := c.AddVariable("Speed", registry.Float, cty.NilVal)
	require.NoError(t, err)
	second, err := c.AddVariable("Speed", registry.Int, cty.NumberIntVal(3))
	require.NoError(t, err)

	// Assert
	assert.Equal(t, "Speed", first.Name)
	assert.True(t, first.Default.RawEquals(cty.Zero))
	assert.Equal(t, "Speed1", second.Name)

	renamed, err := c.RenameVariable("Speed1", "Speed")
	require.NoError(t, err)
	assert.Equal(t, "Speed1", renamed, "a rename onto a taken name is uniquified")

	require.ErrorIs(t, c.SetVariableDefault("Speed1", cty.NumberFloatVal(0.5)), registry.ErrTypeMismatch)
	require.NoError(t, c.SetVariableDefault("Speed1", cty.NumberIntVal(4)))

	removed, idx, err := c.RemoveVariable("Speed")
	require.NoError(t, err)
	assert.Equal(t, 0, idx)
	require.NoError(t, c.InsertVariable(removed, idx))
	assert.ErrorIs(t, c.InsertVariable(removed, idx), graph.ErrNameTaken)

	var names []string
	for _, v := range c.Variables() {
		names = append(names, v.Name)
	}
	assert.Equal(t, []string{"Speed", "Speed1"}, names)
	assert.Equal(t, []string{
		"variable_added Speed",
		"variable_added Speed1",
		"variable_changed Speed1",
		"variable_removed Speed",
		"variable_added Speed",
	}, rec.Kinds())
}

func TestVariables_Errors(t *testing.T) {
	c := testutil.NewCollection(t)

	_, err := c.AddVariable("X", "Missing", cty.NilVal)
	assert.ErrorIs(t, err, graph.ErrUnknownType)
	_, err = c.AddVariable("X", registry.Bool, cty.StringVal("maybe"))
	assert.ErrorIs(t, err, registry.ErrTypeMismatch)
	_, _, err = c.RemoveVariable("X")
	assert.ErrorIs(t, err, graph.ErrNotFound)
	assert.Empty(t, c.Variables())
}
