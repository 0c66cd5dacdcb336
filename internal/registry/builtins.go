package registry

// Builtin type names.
const (
	Bool        TypeRef = "bool"
	Int         TypeRef = "int"
	Float       TypeRef = "float"
	String      TypeRef = "string"
	Vector2     TypeRef = "Vector2"
	Vector3     TypeRef = "Vector3"
	Vector4     TypeRef = "Vector4"
	LinearColor TypeRef = "LinearColor"
	Transform   TypeRef = "Transform"
)

func floatFields(names ...string) []Field {
	fields := make([]Field, len(names))
	for i, n := range names {
		fields[i] = Field{Name: n, Type: Float}
	}
	return fields
}

// builtinTypes returns fresh descriptors for every type that exists without
// any library file.
func builtinTypes() []*TypeDescriptor {
	return []*TypeDescriptor{
		{Name: Bool, Kind: KindBool, Description: "A boolean flag."},
		{Name: Int, Kind: KindInt, Description: "A whole number.", CompatibleWith: []TypeRef{Float}},
		{Name: Float, Kind: KindFloat, Description: "A real number."},
		{Name: String, Kind: KindString, Description: "A text value."},
		{Name: Vector2, Kind: KindStruct, Expandable: true, Fields: floatFields("X", "Y")},
		{Name: Vector3, Kind: KindStruct, Expandable: true, Fields: floatFields("X", "Y", "Z")},
		{Name: Vector4, Kind: KindStruct, Expandable: true, Fields: floatFields("X", "Y", "Z", "W")},
		{
			Name:           LinearColor,
			Kind:           KindStruct,
			Expandable:     true,
			Fields:         floatFields("R", "G", "B", "A"),
			CompatibleWith: []TypeRef{Vector4},
		},
		{
			Name:       Transform,
			Kind:       KindStruct,
			Expandable: true,
			Fields: []Field{
				{Name: "Translation", Type: Vector3},
				{Name: "Rotation", Type: Vector4},
				{Name: "Scale", Type: Vector3},
			},
		},
	}
}
