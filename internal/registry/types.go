// This file defines the TypeDescriptor, the pure-data description of a pin's
// data type.
//
// Why keep descriptors as plain data?
//
// A pin only needs three answers from its type: which fields it has, whether
// those fields should be exposed as sub-pins, and which other types it may be
// linked to. Keeping that in a small struct means the graph core can rebuild a
// pin hierarchy by walking descriptors instead of reflecting over runtime
// values, and a library file can introduce new composite types without any Go
// code.
package registry

import "slices"

// TypeRef names a data type. It is opaque to the graph core.
type TypeRef string

// Kind is the shape of a data type.
type Kind int

const (
	KindBool Kind = iota
	KindInt
	KindFloat
	KindString
	KindStruct
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindStruct:
		return "struct"
	default:
		return "unknown"
	}
}

// Field is one named element of a struct type.
type Field struct {
	Name string
	Type TypeRef
}

// TypeDescriptor describes a data type known to the registry.
type TypeDescriptor struct {
	Name        TypeRef
	Description string
	Kind        Kind

	// Expandable marks struct types whose fields are exposed as sub-pins.
	Expandable bool

	// Fields lists struct elements in declaration order. Empty for primitives.
	Fields []Field

	// CompatibleWith lists the types a value of this type may feed besides
	// itself. Compatibility is directional.
	CompatibleWith []TypeRef

	// FilePath is the library file the type was loaded from, empty for builtins.
	FilePath string
}

// IsCompatible reports whether a value of type d may be linked into a pin
// of type other.
func (d *TypeDescriptor) IsCompatible(other *TypeDescriptor) bool {
	if d == nil || other == nil {
		return false
	}
	if d.Name == other.Name {
		return true
	}
	return slices.Contains(d.CompatibleWith, other.Name)
}

// Field looks up a struct field by name.
func (d *TypeDescriptor) Field(name string) (Field, bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// IsStruct reports whether the type is a composite.
func (d *TypeDescriptor) IsStruct() bool {
	return d.Kind == KindStruct
}
