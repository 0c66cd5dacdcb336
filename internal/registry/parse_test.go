package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

const mathLibrary = `
type "Curve" {
  description     = "A straight segment."
  expand          = true
  compatible_with = [Vector4]

  field "Start" { type = Vector3 }
  field "End"   { type = Vector3 }
}

node_type "Lerp" {
  category     = "Math"
  description  = "Blends two values."
  dynamic_pins = true

  input "A" {
    type    = float
    default = 1
  }
  input "B" { type = float }
  output "Result" { type = float }
  input "Alpha" {
    type    = float
    default = 0.5
  }
}

node_type "Scatter" {
  input "Points" {
    type    = Vector3
    storage = "resource"
    domain  = ["Vertex"]
  }
  input "Offset" {
    type    = Vector3
    binding = "offset"
  }
  output "Out" {
    type    = Vector3
    storage = "resource"
  }
}
`

func TestLoadSource_Library(t *testing.T) {
	r := New()
	require.NoError(t, r.LoadSource(context.Background(), []byte(mathLibrary), "math.hcl"))

	curve, ok := r.TypeFor("Curve")
	require.True(t, ok)
	assert.Equal(t, KindStruct, curve.Kind)
	assert.True(t, curve.Expandable)
	assert.Equal(t, "A straight segment.", curve.Description)
	assert.Equal(t, []TypeRef{Vector4}, curve.CompatibleWith)
	assert.Equal(t, []Field{{"Start", Vector3}, {"End", Vector3}}, curve.Fields)
	assert.Equal(t, "math.hcl", curve.FilePath)

	lerp, ok := r.NodeTypeFor("Lerp")
	require.True(t, ok)
	assert.Equal(t, "Math", lerp.Category)
	assert.True(t, lerp.DynamicPins)

	var names []string
	for _, p := range lerp.Pins {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"A", "B", "Result", "Alpha"}, names, "pins keep declaration order")

	a, _ := lerp.Pin("A")
	assert.Equal(t, Input, a.Direction)
	assert.True(t, a.HasDefault())
	assert.True(t, a.Default.RawEquals(cty.NumberIntVal(1)))

	b, _ := lerp.Pin("B")
	assert.False(t, b.HasDefault())

	result, _ := lerp.Pin("Result")
	assert.Equal(t, Output, result.Direction)

	scatter, ok := r.NodeTypeFor("Scatter")
	require.True(t, ok)
	points, _ := scatter.Pin("Points")
	assert.Equal(t, StorageResource, points.Storage)
	assert.Equal(t, []string{"Vertex"}, points.Domain)
	offset, _ := scatter.Pin("Offset")
	assert.Equal(t, "offset", offset.Binding)
	assert.False(t, scatter.DynamicPins)
}

func TestLoadSource_Errors(t *testing.T) {
	testCases := []struct {
		name        string
		src         string
		errContains string
	}{
		{
			name:        "syntax error",
			src:         `type "A" {`,
			errContains: "failed to parse HCL source",
		},
		{
			name:        "duplicate field",
			src: `
type "A" {
  field "X" { type = float }
  field "X" { type = float }
}`,
			errContains: "Duplicate field definition",
		},
		{
			name:        "type without fields",
			src:         `type "A" { expand = true }`,
			errContains: "Type has no fields",
		},
		{
			name:        "complex type expression",
			src: `
type "A" {
  field "X" { type = list(float) }
}`,
			errContains: "Invalid type specification",
		},
		{
			name:        "duplicate pin",
			src: `
node_type "N" {
  input "A" { type = float }
  output "A" { type = float }
}`,
			errContains: "Duplicate pin definition",
		},
		{
			name:        "invalid storage",
			src: `
node_type "N" {
  input "A" {
    type    = float
    storage = "disk"
  }
}`,
			errContains: "Invalid storage",
		},
		{
			name:        "unknown field type",
			src: `
type "A" {
  field "X" { type = Imaginary }
}`,
			errContains: "unknown type 'Imaginary'",
		},
		{
			name:        "unknown compatible type",
			src: `
type "A" {
  compatible_with = [Imaginary]
  field "X" { type = float }
}`,
			errContains: "compatible_with names unknown type 'Imaginary'",
		},
		{
			name: "recursive types",
			src: `
type "A" {
  field "B" { type = B }
}
type "B" {
  field "A" { type = A }
}
`,
			errContains: "recursive type: A -> B -> A",
		},
		{
			name:        "unknown pin type",
			src: `
node_type "N" {
  input "A" { type = Imaginary }
}`,
			errContains: "unknown type 'Imaginary'",
		},
		{
			name:        "resource default",
			src: `
node_type "N" {
  input "A" {
    type    = float
    storage = "resource"
    default = 1
  }
}`,
			errContains: "resource pins cannot have a default",
		},
		{
			name:        "value domain",
			src: `
node_type "N" {
  input "A" {
    type   = float
    domain = ["Vertex"]
  }
}`,
			errContains: "only resource pins have a data domain",
		},
		{
			name:        "bad default",
			src: `
node_type "N" {
  input "A" {
    type    = int
    default = 1.5
  }
}`,
			errContains: "invalid default",
		},
		{
			name:        "duplicate across registry",
			src: `
type "Vector2" {
  field "X" { type = float }
}`,
			errContains: "duplicate definition",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := New()
			err := r.LoadSource(context.Background(), []byte(tc.src), "lib.hcl")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errContains)
		})
	}
}

func TestParseFile_Nil(t *testing.T) {
	_, _, diags := ParseFile(context.Background(), nil, "none.hcl")
	require.True(t, diags.HasErrors())
	assert.Equal(t, "HCL file is nil", diags[0].Summary)
}
