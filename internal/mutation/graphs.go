package mutation

import (
	"context"
	"fmt"

	"github.com/specialistvlad/nodegraph/internal/ctxlog"
	"github.com/specialistvlad/nodegraph/internal/graph"
)

// AddGraph creates a graph under Parent, or at the top level when Parent is
// empty.
type AddGraph struct {
	Parent string
	Name   string

	created string
}

func (a *AddGraph) Title() string { return "Add graph " + childPath(a.Parent, a.Name) }

// Path returns the path of the created graph once Do has run.
func (a *AddGraph) Path() string { return childPath(a.Parent, a.created) }

func (a *AddGraph) Do(ctx context.Context, c *graph.Collection) error {
	parent, err := parentGraph(c, a.Parent)
	if err != nil {
		return err
	}
	name := a.Name
	if a.created != "" {
		name = a.created
	}
	var g *graph.Graph
	if parent == nil {
		g, err = c.AddGraph(name)
	} else {
		g, err = parent.AddGraph(name)
	}
	if err != nil {
		return err
	}
	if a.created != "" && g.Name() != a.created {
		_, _ = c.RemoveGraph(g)
		return fmt.Errorf("%w: graph %q", ErrRenamed, a.created)
	}
	a.created = g.Name()
	ctxlog.FromContext(ctx).Debug("Added graph.", "path", g.Path())
	return nil
}

func (a *AddGraph) Undo(_ context.Context, c *graph.Collection) error {
	g, err := c.ResolveGraph(a.Path())
	if err != nil {
		return err
	}
	_, err = c.RemoveGraph(g)
	return err
}

// RemoveGraph removes a graph with everything it contains. The graph is
// kept as a snapshot for undo.
type RemoveGraph struct {
	Path string

	data  []byte
	index int
}

func (a *RemoveGraph) Title() string { return "Remove graph " + a.Path }

func (a *RemoveGraph) Do(_ context.Context, c *graph.Collection) error {
	g, err := c.ResolveGraph(a.Path)
	if err != nil {
		return err
	}
	data, err := c.SnapshotGraph(g)
	if err != nil {
		return err
	}
	idx, err := c.RemoveGraph(g)
	if err != nil {
		return err
	}
	a.data, a.index = data, idx
	return nil
}

func (a *RemoveGraph) Undo(_ context.Context, c *graph.Collection) error {
	owner, _ := parentPath(a.Path)
	parent, err := parentGraph(c, owner)
	if err != nil {
		return err
	}
	_, err = c.RestoreGraph(a.data, parent, a.index)
	return err
}

// RenameGraph renames a graph. A colliding name gets a numeric suffix.
type RenameGraph struct {
	Path string
	Name string

	applied string
}

func (a *RenameGraph) Title() string { return fmt.Sprintf("Rename graph %s to %s", a.Path, a.Name) }

// NewPath returns the path after the rename once Do has run.
func (a *RenameGraph) NewPath() string {
	parent, _ := parentPath(a.Path)
	return childPath(parent, a.applied)
}

func (a *RenameGraph) Do(_ context.Context, c *graph.Collection) error {
	g, err := c.ResolveGraph(a.Path)
	if err != nil {
		return err
	}
	want := a.Name
	if a.applied != "" {
		want = a.applied
	}
	applied, err := g.Rename(want)
	if err != nil {
		return err
	}
	if a.applied != "" && applied != a.applied {
		_, oldName := parentPath(a.Path)
		_, _ = g.Rename(oldName)
		return fmt.Errorf("%w: graph %q", ErrRenamed, a.applied)
	}
	a.applied = applied
	return nil
}

func (a *RenameGraph) Undo(_ context.Context, c *graph.Collection) error {
	g, err := c.ResolveGraph(a.NewPath())
	if err != nil {
		return err
	}
	_, oldName := parentPath(a.Path)
	_, err = g.Rename(oldName)
	return err
}
