package mutation

import (
	"context"
	"fmt"

	"github.com/specialistvlad/nodegraph/internal/graph"
	"github.com/specialistvlad/nodegraph/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

// AddVariable adds a collection variable. A colliding name gets a numeric
// suffix.
type AddVariable struct {
	Name    string
	Type    registry.TypeRef
	Default cty.Value

	created string
}

func (a *AddVariable) Title() string { return "Add variable " + a.Name }

// Created returns the name the variable got once Do has run.
func (a *AddVariable) Created() string { return a.created }

func (a *AddVariable) Do(_ context.Context, c *graph.Collection) error {
	name := a.Name
	if a.created != "" {
		name = a.created
	}
	v, err := c.AddVariable(name, a.Type, a.Default)
	if err != nil {
		return err
	}
	if a.created != "" && v.Name != a.created {
		_, _, _ = c.RemoveVariable(v.Name)
		return fmt.Errorf("%w: variable %q", ErrRenamed, a.created)
	}
	a.created = v.Name
	return nil
}

func (a *AddVariable) Undo(_ context.Context, c *graph.Collection) error {
	_, _, err := c.RemoveVariable(a.created)
	return err
}

// RemoveVariable removes a collection variable.
type RemoveVariable struct {
	Name string

	removed graph.Variable
	index   int
}

func (a *RemoveVariable) Title() string { return "Remove variable " + a.Name }

func (a *RemoveVariable) Do(_ context.Context, c *graph.Collection) error {
	v, idx, err := c.RemoveVariable(a.Name)
	if err != nil {
		return err
	}
	a.removed, a.index = v, idx
	return nil
}

func (a *RemoveVariable) Undo(_ context.Context, c *graph.Collection) error {
	return c.InsertVariable(a.removed, a.index)
}

// RenameVariable renames a collection variable. A colliding name gets a
// numeric suffix.
type RenameVariable struct {
	Name    string
	NewName string

	applied string
}

func (a *RenameVariable) Title() string {
	return fmt.Sprintf("Rename variable %s to %s", a.Name, a.NewName)
}

func (a *RenameVariable) Do(_ context.Context, c *graph.Collection) error {
	want := a.NewName
	if a.applied != "" {
		want = a.applied
	}
	applied, err := c.RenameVariable(a.Name, want)
	if err != nil {
		return err
	}
	if a.applied != "" && applied != a.applied {
		_, _ = c.RenameVariable(applied, a.Name)
		return fmt.Errorf("%w: variable %q", ErrRenamed, a.applied)
	}
	a.applied = applied
	return nil
}

func (a *RenameVariable) Undo(_ context.Context, c *graph.Collection) error {
	_, err := c.RenameVariable(a.applied, a.Name)
	return err
}

// SetVariableDefault changes the default value of a collection variable.
type SetVariableDefault struct {
	Name  string
	Value cty.Value

	old cty.Value
}

func (a *SetVariableDefault) Title() string { return "Set default of variable " + a.Name }

func (a *SetVariableDefault) Do(_ context.Context, c *graph.Collection) error {
	v, ok := c.Variable(a.Name)
	if !ok {
		return fmt.Errorf("%w: variable %q", graph.ErrNotFound, a.Name)
	}
	if err := c.SetVariableDefault(a.Name, a.Value); err != nil {
		return err
	}
	a.old = v.Default
	return nil
}

func (a *SetVariableDefault) Undo(_ context.Context, c *graph.Collection) error {
	return c.SetVariableDefault(a.Name, a.old)
}
