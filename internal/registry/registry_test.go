package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Builtins(t *testing.T) {
	r := New()

	for _, ref := range []TypeRef{Bool, Int, Float, String, Vector2, Vector3, Vector4, LinearColor, Transform} {
		d, ok := r.TypeFor(ref)
		require.True(t, ok, "builtin %s should be registered", ref)
		assert.Equal(t, ref, d.Name)
	}

	vec, _ := r.TypeFor(Vector3)
	assert.True(t, vec.Expandable)
	assert.Equal(t, []Field{{"X", Float}, {"Y", Float}, {"Z", Float}}, vec.Fields)

	f, _ := r.TypeFor(Float)
	assert.False(t, f.Expandable)
	assert.Empty(t, f.Fields)
}

func TestTypeDescriptor_IsCompatible(t *testing.T) {
	r := New()
	get := func(ref TypeRef) *TypeDescriptor {
		d, ok := r.TypeFor(ref)
		require.True(t, ok)
		return d
	}

	testCases := []struct {
		name     string
		from, to TypeRef
		expected bool
	}{
		{"same type", Float, Float, true},
		{"int feeds float", Int, Float, true},
		{"float does not feed int", Float, Int, false},
		{"color feeds vector4", LinearColor, Vector4, true},
		{"vector4 does not feed color", Vector4, LinearColor, false},
		{"unrelated", String, Bool, false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, get(tc.from).IsCompatible(get(tc.to)))
		})
	}

	var nilDesc *TypeDescriptor
	assert.False(t, nilDesc.IsCompatible(get(Float)))
}

func TestRegistry_RegisterDuplicate(t *testing.T) {
	r := New()

	err := r.RegisterType(&TypeDescriptor{Name: Float, Kind: KindFloat})
	assert.ErrorIs(t, err, ErrDuplicate)

	require.NoError(t, r.RegisterNodeType(&NodeType{Name: "Add"}))
	err = r.RegisterNodeType(&NodeType{Name: "Add"})
	assert.ErrorIs(t, err, ErrDuplicate)

	assert.Panics(t, func() { _ = r.RegisterType(nil) })
}

func TestRegistry_Names(t *testing.T) {
	r := New()
	require.NoError(t, r.RegisterNodeType(&NodeType{Name: "Multiply"}))
	require.NoError(t, r.RegisterNodeType(&NodeType{Name: "Add"}))

	assert.Equal(t, []string{"Add", "Multiply"}, r.NodeTypeNames())
	assert.Contains(t, r.TypeNames(), Vector2)
	assert.IsIncreasing(t, r.TypeNames())
}

func TestParseDirectionAndStorage(t *testing.T) {
	d, err := ParseDirection("output")
	require.NoError(t, err)
	assert.Equal(t, Output, d)
	_, err = ParseDirection("sideways")
	assert.Error(t, err)

	s, err := ParseStorage("")
	require.NoError(t, err)
	assert.Equal(t, StorageValue, s)
	s, err = ParseStorage("resource")
	require.NoError(t, err)
	assert.Equal(t, StorageResource, s)
	_, err = ParseStorage("disk")
	assert.Error(t, err)

	assert.Equal(t, "input", Input.String())
	assert.Equal(t, "resource", StorageResource.String())
}
