package mutation

import (
	"context"
	"fmt"

	"github.com/specialistvlad/nodegraph/internal/ctxlog"
	"github.com/specialistvlad/nodegraph/internal/graph"
)

// AddNode creates a node in Graph. The name is made unique; redo reuses the
// name the first run produced.
type AddNode struct {
	Graph string
	Spec  graph.NodeSpec

	created string
}

func (a *AddNode) Title() string { return "Add node " + childPath(a.Graph, a.Spec.Name) }

// Path returns the path of the created node once Do has run.
func (a *AddNode) Path() string { return childPath(a.Graph, a.created) }

func (a *AddNode) Do(ctx context.Context, c *graph.Collection) error {
	g, err := c.ResolveGraph(a.Graph)
	if err != nil {
		return err
	}
	spec := a.Spec
	if a.created != "" {
		spec.Name = a.created
	}
	n, err := g.AddNode(spec)
	if err != nil {
		return err
	}
	if a.created != "" && n.Name() != a.created {
		_ = g.RemoveNode(n)
		return fmt.Errorf("%w: node %q", ErrRenamed, a.created)
	}
	a.created = n.Name()
	ctxlog.FromContext(ctx).Debug("Added node.", "path", n.Path(), "type", spec.Type)
	return nil
}

func (a *AddNode) Undo(_ context.Context, c *graph.Collection) error {
	n, err := c.ResolveNode(a.Path())
	if err != nil {
		return err
	}
	return n.Graph().RemoveNode(n)
}

// InsertNode recreates a node from captured state at Index, or appends it
// when Index is negative. The name must be free.
type InsertNode struct {
	Graph string
	State graph.NodeState
	Index int
}

func (a *InsertNode) Title() string { return "Insert node " + childPath(a.Graph, a.State.Name) }

func (a *InsertNode) Do(_ context.Context, c *graph.Collection) error {
	g, err := c.ResolveGraph(a.Graph)
	if err != nil {
		return err
	}
	_, err = g.RestoreNodeState(a.State, a.Index)
	return err
}

func (a *InsertNode) Undo(_ context.Context, c *graph.Collection) error {
	n, err := c.ResolveNode(childPath(a.Graph, a.State.Name))
	if err != nil {
		return err
	}
	return n.Graph().RemoveNode(n)
}

// RemoveNode removes an unlinked node. The node is kept as a snapshot for
// undo. Use RemoveNodes to drop linked nodes.
type RemoveNode struct {
	Path string

	data  []byte
	index int
}

func (a *RemoveNode) Title() string { return "Remove node " + a.Path }

func (a *RemoveNode) Do(ctx context.Context, c *graph.Collection) error {
	n, err := c.ResolveNode(a.Path)
	if err != nil {
		return err
	}
	g := n.Graph()
	data, err := c.SnapshotNode(n)
	if err != nil {
		return err
	}
	idx := g.NodeIndex(n)
	if err := g.RemoveNode(n); err != nil {
		return err
	}
	a.data, a.index = data, idx
	ctxlog.FromContext(ctx).Debug("Removed node.", "path", a.Path, "snapshot_bytes", len(data))
	return nil
}

func (a *RemoveNode) Undo(_ context.Context, c *graph.Collection) error {
	owner, _ := parentPath(a.Path)
	g, err := c.ResolveGraph(owner)
	if err != nil {
		return err
	}
	_, err = c.RestoreNode(a.data, g, a.index)
	return err
}

// RenameNode changes a node's structural name. A colliding name gets a
// numeric suffix.
type RenameNode struct {
	Path string
	Name string

	applied string
}

func (a *RenameNode) Title() string { return fmt.Sprintf("Rename node %s to %s", a.Path, a.Name) }

// NewPath returns the node's path after the rename once Do has run.
func (a *RenameNode) NewPath() string {
	owner, _ := parentPath(a.Path)
	return childPath(owner, a.applied)
}

func (a *RenameNode) Do(_ context.Context, c *graph.Collection) error {
	n, err := c.ResolveNode(a.Path)
	if err != nil {
		return err
	}
	want := a.Name
	if a.applied != "" {
		want = a.applied
	}
	applied, err := n.Graph().RenameNode(n, want)
	if err != nil {
		return err
	}
	if a.applied != "" && applied != a.applied {
		_, old := parentPath(a.Path)
		_, _ = n.Graph().RenameNode(n, old)
		return fmt.Errorf("%w: node %q", ErrRenamed, a.applied)
	}
	a.applied = applied
	return nil
}

func (a *RenameNode) Undo(_ context.Context, c *graph.Collection) error {
	n, err := c.ResolveNode(a.NewPath())
	if err != nil {
		return err
	}
	_, old := parentPath(a.Path)
	_, err = n.Graph().RenameNode(n, old)
	return err
}

// SetNodeDisplayName changes the user-facing label of a node.
type SetNodeDisplayName struct {
	Path        string
	DisplayName string

	old string
}

func (a *SetNodeDisplayName) Title() string { return "Set display name of " + a.Path }

func (a *SetNodeDisplayName) Do(_ context.Context, c *graph.Collection) error {
	n, err := c.ResolveNode(a.Path)
	if err != nil {
		return err
	}
	old := n.DisplayName()
	if err := n.SetDisplayName(a.DisplayName); err != nil {
		return err
	}
	a.old = old
	return nil
}

func (a *SetNodeDisplayName) Undo(_ context.Context, c *graph.Collection) error {
	n, err := c.ResolveNode(a.Path)
	if err != nil {
		return err
	}
	return n.SetDisplayName(a.old)
}

// MoveNode sets a node's layout position.
type MoveNode struct {
	Path     string
	Position graph.Position

	old graph.Position
}

func (a *MoveNode) Title() string { return "Move node " + a.Path }

func (a *MoveNode) Do(_ context.Context, c *graph.Collection) error {
	n, err := c.ResolveNode(a.Path)
	if err != nil {
		return err
	}
	old := n.Position()
	if err := n.SetPosition(a.Position); err != nil {
		return err
	}
	a.old = old
	return nil
}

func (a *MoveNode) Undo(_ context.Context, c *graph.Collection) error {
	n, err := c.ResolveNode(a.Path)
	if err != nil {
		return err
	}
	return n.SetPosition(a.old)
}
