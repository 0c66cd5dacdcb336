package registry

import (
	"errors"
	"fmt"
	"slices"

	"github.com/zclconf/go-cty/cty"
)

var (
	// ErrDuplicate is returned when a definition name is registered twice.
	ErrDuplicate = errors.New("duplicate definition")
	// ErrUnknownType is returned for references to unregistered types.
	ErrUnknownType = errors.New("unknown type")
	// ErrRecursiveType is returned when a struct type contains itself.
	ErrRecursiveType = errors.New("recursive type")
	// ErrTypeMismatch is returned when a value cannot be conformed to a type.
	ErrTypeMismatch = errors.New("type mismatch")
	// ErrValidation wraps every failure reported by Validate.
	ErrValidation = errors.New("registry validation failed")
)

// Registry holds the data types and node types of one editing session.
type Registry struct {
	types     map[TypeRef]*TypeDescriptor
	nodeTypes map[string]*NodeType
	ctyTypes  map[TypeRef]cty.Type
}

// New creates a registry pre-populated with the builtin types.
func New() *Registry {
	r := &Registry{
		types:     make(map[TypeRef]*TypeDescriptor),
		nodeTypes: make(map[string]*NodeType),
		ctyTypes:  make(map[TypeRef]cty.Type),
	}
	for _, d := range builtinTypes() {
		if err := r.RegisterType(d); err != nil {
			panic(fmt.Sprintf("registering builtin type: %v", err))
		}
	}
	return r
}

// RegisterType adds a data type. Types may reference each other in any
// order; call Validate once everything is registered.
func (r *Registry) RegisterType(d *TypeDescriptor) error {
	if d == nil {
		panic("registry: RegisterType called with nil descriptor")
	}
	if _, exists := r.types[d.Name]; exists {
		return fmt.Errorf("%w: type %q", ErrDuplicate, d.Name)
	}
	r.types[d.Name] = d
	clear(r.ctyTypes)
	return nil
}

// RegisterNodeType adds a node template.
func (r *Registry) RegisterNodeType(nt *NodeType) error {
	if nt == nil {
		panic("registry: RegisterNodeType called with nil node type")
	}
	if _, exists := r.nodeTypes[nt.Name]; exists {
		return fmt.Errorf("%w: node type %q", ErrDuplicate, nt.Name)
	}
	r.nodeTypes[nt.Name] = nt
	return nil
}

// TypeFor returns the descriptor registered under ref.
func (r *Registry) TypeFor(ref TypeRef) (*TypeDescriptor, bool) {
	d, ok := r.types[ref]
	return d, ok
}

// NodeTypeFor returns the node template registered under name.
func (r *Registry) NodeTypeFor(name string) (*NodeType, bool) {
	nt, ok := r.nodeTypes[name]
	return nt, ok
}

// TypeNames returns all registered type names in sorted order.
func (r *Registry) TypeNames() []TypeRef {
	names := make([]TypeRef, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// NodeTypeNames returns all registered node template names in sorted order.
func (r *Registry) NodeTypeNames() []string {
	names := make([]string, 0, len(r.nodeTypes))
	for name := range r.nodeTypes {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
