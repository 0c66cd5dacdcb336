package mutation

import (
	"context"
	"fmt"

	"github.com/specialistvlad/nodegraph/internal/ctxlog"
	"github.com/specialistvlad/nodegraph/internal/graph"
)

func resolvePair(c *graph.Collection, a, b string) (*graph.Pin, *graph.Pin, error) {
	pa, err := c.ResolvePin(a)
	if err != nil {
		return nil, nil, err
	}
	pb, err := c.ResolvePin(b)
	if err != nil {
		return nil, nil, err
	}
	return pa, pb, nil
}

// orientPaths returns the two pin paths as (output, input).
func orientPaths(a, b *graph.Pin) (string, string) {
	if a.Direction() == graph.Input && b.Direction() == graph.Output {
		return b.Path(), a.Path()
	}
	return a.Path(), b.Path()
}

// AddLink connects two pins after checking that the link is legal: the types
// are compatible and no cycle would be closed. The pins may be given in
// either order. A driven input is rejected; see ConnectPins for replacing.
type AddLink struct {
	From string
	To   string

	out, in string
}

func (a *AddLink) Title() string { return fmt.Sprintf("Link %s to %s", a.From, a.To) }

func (a *AddLink) Do(ctx context.Context, c *graph.Collection) error {
	from, to, err := resolvePair(c, a.From, a.To)
	if err != nil {
		return err
	}
	g := from.Node().Graph()
	if err := g.CanLink(from, to); err != nil {
		ctxlog.FromContext(ctx).Debug("Refusing link.", "from", a.From, "to", a.To, "error", err)
		return err
	}
	if _, err := g.AddLink(from, to); err != nil {
		return err
	}
	a.out, a.in = orientPaths(from, to)
	return nil
}

func (a *AddLink) Undo(_ context.Context, c *graph.Collection) error {
	from, to, err := resolvePair(c, a.out, a.in)
	if err != nil {
		return err
	}
	return from.Node().Graph().RemoveLink(from, to)
}

// RemoveLink disconnects two pins, given in either order. Undo puts the link
// back at its old place in the link order.
type RemoveLink struct {
	From string
	To   string

	out, in string
	index   int
}

func (a *RemoveLink) Title() string { return fmt.Sprintf("Unlink %s from %s", a.From, a.To) }

func (a *RemoveLink) Do(_ context.Context, c *graph.Collection) error {
	from, to, err := resolvePair(c, a.From, a.To)
	if err != nil {
		return err
	}
	g := from.Node().Graph()
	idx, err := g.LinkIndex(from, to)
	if err != nil {
		return err
	}
	if err := g.RemoveLink(from, to); err != nil {
		return err
	}
	a.out, a.in = orientPaths(from, to)
	a.index = idx
	return nil
}

func (a *RemoveLink) Undo(_ context.Context, c *graph.Collection) error {
	from, to, err := resolvePair(c, a.out, a.in)
	if err != nil {
		return err
	}
	_, err = from.Node().Graph().InsertLink(from, to, a.index)
	return err
}

// linkPaths returns the full pin paths of a link's endpoints.
func linkPaths(g *graph.Graph, l graph.Link) (string, string, bool) {
	from, to, ok := g.LinkPins(l)
	if !ok {
		return "", "", false
	}
	return from.Path(), to.Path(), true
}
