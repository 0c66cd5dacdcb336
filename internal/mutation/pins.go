package mutation

import (
	"context"
	"fmt"
	"slices"

	"github.com/specialistvlad/nodegraph/internal/graph"
	"github.com/specialistvlad/nodegraph/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

// AddPin adds a root pin to a node with dynamic pins, in front of the root
// pin named Before or at the end.
type AddPin struct {
	Node   string
	Spec   graph.PinSpec
	Before string

	created string
}

func (a *AddPin) Title() string { return fmt.Sprintf("Add pin %s.%s", a.Node, a.Spec.Name) }

// Path returns the path of the created pin once Do has run.
func (a *AddPin) Path() string { return a.Node + "." + a.created }

func (a *AddPin) Do(_ context.Context, c *graph.Collection) error {
	n, err := c.ResolveNode(a.Node)
	if err != nil {
		return err
	}
	if !n.DynamicPins() {
		return fmt.Errorf("%w: %q", ErrFixedPins, a.Node)
	}
	var before *graph.Pin
	if a.Before != "" {
		p, ok := n.FindPin(a.Before)
		if !ok {
			return fmt.Errorf("%w: pin %q on %q", graph.ErrNotFound, a.Before, a.Node)
		}
		before = p
	}
	spec := a.Spec
	if a.created != "" {
		spec.Name = a.created
	}
	p, err := n.AddPin(spec, before, nil)
	if err != nil {
		return err
	}
	if a.created != "" && p.Name() != a.created {
		_ = n.RemovePin(p)
		return fmt.Errorf("%w: pin %q", ErrRenamed, a.created)
	}
	a.created = p.Name()
	return nil
}

func (a *AddPin) Undo(_ context.Context, c *graph.Collection) error {
	p, err := c.ResolvePin(a.Path())
	if err != nil {
		return err
	}
	return p.Node().RemovePin(p)
}

// RemovePin removes an unlinked root pin of a node with dynamic pins. The
// pin is kept as a snapshot for undo.
type RemovePin struct {
	Path string

	node  string
	data  []byte
	index int
}

func (a *RemovePin) Title() string { return "Remove pin " + a.Path }

func (a *RemovePin) Do(_ context.Context, c *graph.Collection) error {
	p, err := c.ResolvePin(a.Path)
	if err != nil {
		return err
	}
	n := p.Node()
	if !n.DynamicPins() {
		return fmt.Errorf("%w: %q", ErrFixedPins, n.Path())
	}
	if !p.IsRoot() {
		return fmt.Errorf("%w: %q", graph.ErrNotRootPin, a.Path)
	}
	data, err := c.SnapshotPin(p)
	if err != nil {
		return err
	}
	idx := n.PinIndex(p)
	if err := n.RemovePin(p); err != nil {
		return err
	}
	a.node, a.data, a.index = n.Path(), data, idx
	return nil
}

func (a *RemovePin) Undo(_ context.Context, c *graph.Collection) error {
	n, err := c.ResolveNode(a.node)
	if err != nil {
		return err
	}
	_, err = c.RestorePin(a.data, n, a.index)
	return err
}

// RenamePin renames a root pin. A colliding name gets a numeric suffix.
type RenamePin struct {
	Path string
	Name string

	node    string
	old     string
	applied string
}

func (a *RenamePin) Title() string { return fmt.Sprintf("Rename pin %s to %s", a.Path, a.Name) }

// NewPath returns the pin's path after the rename once Do has run.
func (a *RenamePin) NewPath() string { return a.node + "." + a.applied }

func (a *RenamePin) Do(_ context.Context, c *graph.Collection) error {
	p, err := c.ResolvePin(a.Path)
	if err != nil {
		return err
	}
	old := p.Name()
	want := a.Name
	if a.applied != "" {
		want = a.applied
	}
	applied, err := p.SetName(want)
	if err != nil {
		return err
	}
	if a.applied != "" && applied != a.applied {
		_, _ = p.SetName(old)
		return fmt.Errorf("%w: pin %q", ErrRenamed, a.applied)
	}
	a.node, a.old, a.applied = p.Node().Path(), old, applied
	return nil
}

func (a *RenamePin) Undo(_ context.Context, c *graph.Collection) error {
	p, err := c.ResolvePin(a.NewPath())
	if err != nil {
		return err
	}
	_, err = p.SetName(a.old)
	return err
}

// SetPinValue sets the value of a value pin or sub-pin.
type SetPinValue struct {
	Path  string
	Value cty.Value

	old cty.Value
}

func (a *SetPinValue) Title() string { return "Set value of " + a.Path }

func (a *SetPinValue) Do(_ context.Context, c *graph.Collection) error {
	p, err := c.ResolvePin(a.Path)
	if err != nil {
		return err
	}
	old := p.Value()
	if err := p.SetValue(a.Value); err != nil {
		return err
	}
	a.old = old
	return nil
}

func (a *SetPinValue) Undo(_ context.Context, c *graph.Collection) error {
	p, err := c.ResolvePin(a.Path)
	if err != nil {
		return err
	}
	return p.SetValue(a.old)
}

// SetPinType retypes a root pin. It fails while the pin is bound or any of
// its sub-pins is linked; ChangePinType clears those first.
type SetPinType struct {
	Path string
	Type registry.TypeRef

	oldType  registry.TypeRef
	oldValue cty.Value
}

func (a *SetPinType) Title() string { return fmt.Sprintf("Set type of %s to %s", a.Path, a.Type) }

func (a *SetPinType) Do(_ context.Context, c *graph.Collection) error {
	p, err := c.ResolvePin(a.Path)
	if err != nil {
		return err
	}
	oldType, oldValue := p.Type(), p.Value()
	if err := p.SetType(a.Type); err != nil {
		return err
	}
	a.oldType, a.oldValue = oldType, oldValue
	return nil
}

func (a *SetPinType) Undo(_ context.Context, c *graph.Collection) error {
	p, err := c.ResolvePin(a.Path)
	if err != nil {
		return err
	}
	if err := p.SetType(a.oldType); err != nil {
		return err
	}
	if p.Storage() != graph.StorageValue {
		return nil
	}
	return p.SetValue(a.oldValue)
}

// SetPinDataDomain replaces the iteration domain of a resource pin.
type SetPinDataDomain struct {
	Path   string
	Levels []string

	old []string
}

func (a *SetPinDataDomain) Title() string { return "Set data domain of " + a.Path }

func (a *SetPinDataDomain) Do(_ context.Context, c *graph.Collection) error {
	p, err := c.ResolvePin(a.Path)
	if err != nil {
		return err
	}
	old := p.Domain()
	if err := p.SetDataDomain(a.Levels); err != nil {
		return err
	}
	a.old = old
	return nil
}

func (a *SetPinDataDomain) Undo(_ context.Context, c *graph.Collection) error {
	p, err := c.ResolvePin(a.Path)
	if err != nil {
		return err
	}
	return p.SetDataDomain(slices.Clone(a.old))
}

// UnbindPin clears a pin's value slot binding.
type UnbindPin struct {
	Path string

	old string
}

func (a *UnbindPin) Title() string { return "Unbind " + a.Path }

func (a *UnbindPin) Do(_ context.Context, c *graph.Collection) error {
	p, err := c.ResolvePin(a.Path)
	if err != nil {
		return err
	}
	old := p.Binding()
	if err := p.ClearBinding(); err != nil {
		return err
	}
	a.old = old
	return nil
}

func (a *UnbindPin) Undo(_ context.Context, c *graph.Collection) error {
	if a.old == "" {
		return nil
	}
	p, err := c.ResolvePin(a.Path)
	if err != nil {
		return err
	}
	return p.Bind(a.old)
}
