package mutation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/specialistvlad/nodegraph/internal/action"
	"github.com/specialistvlad/nodegraph/internal/ctxlog"
	"github.com/specialistvlad/nodegraph/internal/graph"
	"github.com/specialistvlad/nodegraph/internal/pinpath"
	"github.com/specialistvlad/nodegraph/internal/registry"
)

var errNotApplied = errors.New("action was never applied")

// planned builds its steps on the first Do and replays them afterwards.
type planned struct {
	compound *action.Compound
}

func (p *planned) do(ctx context.Context, c *graph.Collection, title string, plan func() ([]action.Action, error)) error {
	if p.compound == nil {
		steps, err := plan()
		if err != nil {
			return err
		}
		compound := action.NewCompound(title, steps...)
		if err := compound.Do(ctx, c); err != nil {
			return err
		}
		p.compound = compound
		ctxlog.FromContext(ctx).Debug("Planned compound action.", "action", title, "steps", len(steps))
		return nil
	}
	return p.compound.Do(ctx, c)
}

func (p *planned) undo(ctx context.Context, c *graph.Collection) error {
	if p.compound == nil {
		return errNotApplied
	}
	return p.compound.Undo(ctx, c)
}

// Steps returns the primitive actions chosen on the first Do.
func (p *planned) Steps() []action.Action {
	if p.compound == nil {
		return nil
	}
	return p.compound.Actions()
}

// LinkPolicy decides what happens when the input of a new link is already
// driven.
type LinkPolicy int

const (
	// LinkRefuse fails the connection.
	LinkRefuse LinkPolicy = iota
	// LinkReplace removes the existing links into the input first.
	LinkReplace
)

func (p LinkPolicy) String() string {
	switch p {
	case LinkRefuse:
		return "refuse"
	case LinkReplace:
		return "replace"
	default:
		return fmt.Sprintf("LinkPolicy(%d)", int(p))
	}
}

// ConnectPins links two pins, given in either order, applying Policy to an
// input that already has a producer. Links into the input's parents or
// sub-pins count as producers too.
type ConnectPins struct {
	From   string
	To     string
	Policy LinkPolicy

	planned
}

func (a *ConnectPins) Title() string { return fmt.Sprintf("Connect %s to %s", a.From, a.To) }

func (a *ConnectPins) Do(ctx context.Context, c *graph.Collection) error {
	return a.do(ctx, c, a.Title(), func() ([]action.Action, error) {
		from, to, err := resolvePair(c, a.From, a.To)
		if err != nil {
			return nil, err
		}
		in := to
		if to.Direction() != graph.Input {
			in = from
		}
		var steps []action.Action
		if a.Policy == LinkReplace {
			g := in.Node().Graph()
			for _, l := range g.DrivingLinks(in) {
				if f, t, ok := linkPaths(g, l); ok {
					steps = append(steps, &RemoveLink{From: f, To: t})
				}
			}
		}
		return append(steps, &AddLink{From: a.From, To: a.To}), nil
	})
}

func (a *ConnectPins) Undo(ctx context.Context, c *graph.Collection) error {
	return a.undo(ctx, c)
}

// RemoveNodes removes a set of nodes together with every link touching
// them, as one step.
type RemoveNodes struct {
	Paths []string

	planned
}

func (a *RemoveNodes) Title() string { return "Remove " + strings.Join(a.Paths, ", ") }

func (a *RemoveNodes) Do(ctx context.Context, c *graph.Collection) error {
	return a.do(ctx, c, a.Title(), func() ([]action.Action, error) {
		if len(a.Paths) == 0 {
			return nil, ErrEmptySelection
		}
		type graphLink struct {
			g *graph.Graph
			l graph.Link
		}
		seenLinks := make(map[graphLink]bool)
		seenNodes := make(map[string]bool)
		var unlink, remove []action.Action
		for _, path := range a.Paths {
			n, err := c.ResolveNode(path)
			if err != nil {
				return nil, err
			}
			if seenNodes[n.Path()] {
				continue
			}
			seenNodes[n.Path()] = true
			g := n.Graph()
			for _, l := range g.LinksOfNode(n) {
				key := graphLink{g, l}
				if seenLinks[key] {
					continue
				}
				seenLinks[key] = true
				if f, t, ok := linkPaths(g, l); ok {
					unlink = append(unlink, &RemoveLink{From: f, To: t})
				}
			}
			remove = append(remove, &RemoveNode{Path: n.Path()})
		}
		return append(unlink, remove...), nil
	})
}

func (a *RemoveNodes) Undo(ctx context.Context, c *graph.Collection) error {
	return a.undo(ctx, c)
}

// DuplicateNodes copies a set of nodes of one graph, shifted by Offset.
// Copies get fresh unique names, and links between selected nodes are
// recreated between the copies.
type DuplicateNodes struct {
	Paths  []string
	Offset graph.Position

	names map[string]string
	planned
}

func (a *DuplicateNodes) Title() string { return "Duplicate " + strings.Join(a.Paths, ", ") }

// Names maps each original node name to the name of its copy once Do has
// run.
func (a *DuplicateNodes) Names() map[string]string {
	out := make(map[string]string, len(a.names))
	for k, v := range a.names {
		out[k] = v
	}
	return out
}

func (a *DuplicateNodes) Do(ctx context.Context, c *graph.Collection) error {
	return a.do(ctx, c, a.Title(), func() ([]action.Action, error) {
		if len(a.Paths) == 0 {
			return nil, ErrEmptySelection
		}
		var g *graph.Graph
		selected := make(map[*graph.Node]bool)
		var order []*graph.Node
		for _, path := range a.Paths {
			n, err := c.ResolveNode(path)
			if err != nil {
				return nil, err
			}
			if g == nil {
				g = n.Graph()
			} else if n.Graph() != g {
				return nil, fmt.Errorf("%w: %s", ErrMixedGraphs, strings.Join(a.Paths, ", "))
			}
			if !selected[n] {
				selected[n] = true
				order = append(order, n)
			}
		}

		// Pick every new name before creating anything, so copies never
		// collide with each other.
		names := make(map[string]string, len(order))
		chosen := make(map[string]bool, len(order))
		var steps []action.Action
		for _, n := range order {
			name := graph.UniqueName(n.Name(), func(s string) bool {
				_, exists := g.NodeByName(s)
				return exists || chosen[s]
			})
			chosen[name] = true
			names[n.Name()] = name

			state := n.Capture()
			state.Name = name
			state.Position.X += a.Offset.X
			state.Position.Y += a.Offset.Y
			steps = append(steps, &InsertNode{Graph: g.Path(), State: state, Index: -1})
		}

		for _, l := range g.Links() {
			from, to, ok := g.LinkPins(l)
			if !ok || !selected[from.Node()] || !selected[to.Node()] {
				continue
			}
			steps = append(steps, &AddLink{
				From: copyPinPath(g, names[from.Node().Name()], from),
				To:   copyPinPath(g, names[to.Node().Name()], to),
			})
		}
		a.names = names
		return steps, nil
	})
}

func copyPinPath(g *graph.Graph, node string, p *graph.Pin) string {
	return childPath(g.Path(), node) + pinpath.PinSeparator + p.Chain()
}

func (a *DuplicateNodes) Undo(ctx context.Context, c *graph.Collection) error {
	return a.undo(ctx, c)
}

// ChangePinType retypes a root pin as one step. Links into its sub-pins are
// removed, as are links into the pin itself that the new type can no longer
// carry, and a binding is cleared first.
type ChangePinType struct {
	Path string
	Type registry.TypeRef

	planned
}

func (a *ChangePinType) Title() string { return fmt.Sprintf("Change type of %s to %s", a.Path, a.Type) }

func (a *ChangePinType) Do(ctx context.Context, c *graph.Collection) error {
	return a.do(ctx, c, a.Title(), func() ([]action.Action, error) {
		p, err := c.ResolvePin(a.Path)
		if err != nil {
			return nil, err
		}
		if !p.IsRoot() {
			return nil, fmt.Errorf("%w: %q", graph.ErrSubPin, a.Path)
		}
		types := c.Types()
		newDesc, ok := types.TypeFor(a.Type)
		if !ok {
			return nil, fmt.Errorf("%w: %q", graph.ErrUnknownType, a.Type)
		}

		if p.Type() == a.Type {
			return []action.Action{&SetPinType{Path: a.Path, Type: a.Type}}, nil
		}

		var steps []action.Action
		g := p.Node().Graph()
		for _, l := range g.LinksOf(p, true) {
			from, to, ok := g.LinkPins(l)
			if !ok {
				continue
			}
			mine, other := from, to
			if to.Node() == p.Node() {
				mine, other = to, from
			}
			if mine == p && linkSurvives(types, newDesc, p.Direction(), other) {
				continue
			}
			steps = append(steps, &RemoveLink{From: from.Path(), To: to.Path()})
		}
		if p.Binding() != "" {
			steps = append(steps, &UnbindPin{Path: a.Path})
		}
		return append(steps, &SetPinType{Path: a.Path, Type: a.Type}), nil
	})
}

func linkSurvives(types graph.Types, newDesc *registry.TypeDescriptor, dir graph.Direction, other *graph.Pin) bool {
	otherDesc, ok := types.TypeFor(other.Type())
	if !ok {
		return false
	}
	if dir == graph.Output {
		return newDesc.IsCompatible(otherDesc)
	}
	return otherDesc.IsCompatible(newDesc)
}

func (a *ChangePinType) Undo(ctx context.Context, c *graph.Collection) error {
	return a.undo(ctx, c)
}
