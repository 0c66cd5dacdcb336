// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package graph

import (
	"fmt"
	"slices"

	"github.com/specialistvlad/nodegraph/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

// Variable is a named, typed value shared by all graphs of a collection.
type Variable struct {
	Name    string
	Type    registry.TypeRef
	Default cty.Value
}

// Variables returns copies of the collection's variables in order.
func (c *Collection) Variables() []Variable {
	out := make([]Variable, len(c.variables))
	for i, v := range c.variables {
		out[i] = *v
	}
	return out
}

// Variable returns a copy of the variable called name.
func (c *Collection) Variable(name string) (Variable, bool) {
	v, _ := c.findVariable(name)
	if v == nil {
		return Variable{}, false
	}
	return *v, true
}

func (c *Collection) findVariable(name string) (*Variable, int) {
	for i, v := range c.variables {
		if v.Name == name {
			return v, i
		}
	}
	return nil, -1
}

func (c *Collection) variableTaken(name string, except *Variable) bool {
	v, _ := c.findVariable(name)
	return v != nil && v != except
}

// AddVariable appends a variable, making its name unique. A NilVal or null
// default becomes the type's zero value.
func (c *Collection) AddVariable(name string, ref registry.TypeRef, def cty.Value) (Variable, error) {
	if err := validateName(name); err != nil {
		return Variable{}, err
	}
	if _, ok := c.types.TypeFor(ref); !ok {
		return Variable{}, fmt.Errorf("%w: %q", ErrUnknownType, ref)
	}
	var err error
	if def == cty.NilVal || def.IsNull() {
		def, err = c.types.ZeroValue(ref)
	} else {
		def, err = c.types.Conform(ref, def)
	}
	if err != nil {
		return Variable{}, fmt.Errorf("variable %q: %w", name, err)
	}
	v := &Variable{
		Name:    UniqueName(name, func(s string) bool { return c.variableTaken(s, nil) }),
		Type:    ref,
		Default: def,
	}
	c.variables = append(c.variables, v)
	c.emit(Event{Kind: VariableAdded, Path: v.Name})
	return *v, nil
}

// InsertVariable puts v back at index exactly as given. It fails if the name
// is in use.
func (c *Collection) InsertVariable(v Variable, index int) error {
	if err := validateName(v.Name); err != nil {
		return err
	}
	if c.variableTaken(v.Name, nil) {
		return fmt.Errorf("%w: variable %q", ErrNameTaken, v.Name)
	}
	if _, ok := c.types.TypeFor(v.Type); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownType, v.Type)
	}
	c.variables = insertAt(c.variables, &v, index)
	c.emit(Event{Kind: VariableAdded, Path: v.Name})
	return nil
}

// RemoveVariable removes the variable called name and returns it together
// with the index it occupied.
func (c *Collection) RemoveVariable(name string) (Variable, int, error) {
	v, idx := c.findVariable(name)
	if v == nil {
		return Variable{}, -1, fmt.Errorf("%w: variable %q", ErrNotFound, name)
	}
	c.variables = slices.Delete(c.variables, idx, idx+1)
	c.emit(Event{Kind: VariableRemoved, Path: name})
	return *v, idx, nil
}

// RenameVariable renames a variable, adding a numeric suffix on collision,
// and returns the name actually applied.
func (c *Collection) RenameVariable(name, newName string) (string, error) {
	v, _ := c.findVariable(name)
	if v == nil {
		return "", fmt.Errorf("%w: variable %q", ErrNotFound, name)
	}
	if err := validateName(newName); err != nil {
		return "", err
	}
	if newName == name {
		return name, nil
	}
	newName = UniqueName(newName, func(s string) bool { return c.variableTaken(s, v) })
	if newName == name {
		return name, nil
	}
	v.Name = newName
	c.emit(Event{Kind: VariableRenamed, Path: v.Name, OldPath: name})
	return v.Name, nil
}

// SetVariableDefault conforms def to the variable's type and stores it.
func (c *Collection) SetVariableDefault(name string, def cty.Value) error {
	v, _ := c.findVariable(name)
	if v == nil {
		return fmt.Errorf("%w: variable %q", ErrNotFound, name)
	}
	conformed, err := c.types.Conform(v.Type, def)
	if err != nil {
		return fmt.Errorf("variable %q: %w", name, err)
	}
	v.Default = conformed
	c.emit(Event{Kind: VariableChanged, Path: name})
	return nil
}
