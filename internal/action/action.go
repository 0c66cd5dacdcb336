package action

import (
	"context"
	"fmt"

	"github.com/specialistvlad/nodegraph/internal/ctxlog"
	"github.com/specialistvlad/nodegraph/internal/graph"
)

// Action is a reversible edit of a collection. Do and Undo either succeed
// completely or return an error and leave the collection as it was.
type Action interface {
	Title() string
	Do(ctx context.Context, c *graph.Collection) error
	Undo(ctx context.Context, c *graph.Collection) error
}

// Compound applies sub-actions in order and reverts them in reverse order as
// a single transaction.
type Compound struct {
	title   string
	actions []Action
}

// NewCompound groups actions under one title.
func NewCompound(title string, actions ...Action) *Compound {
	return &Compound{title: title, actions: actions}
}

func (c *Compound) Title() string { return c.title }

// Actions returns the sub-actions in application order.
func (c *Compound) Actions() []Action {
	return append([]Action(nil), c.actions...)
}

// Len returns the number of sub-actions.
func (c *Compound) Len() int { return len(c.actions) }

// Do applies every sub-action. If one fails, the already applied prefix is
// undone before the error is returned.
func (c *Compound) Do(ctx context.Context, root *graph.Collection) error {
	for i, a := range c.actions {
		if err := a.Do(ctx, root); err != nil {
			c.rollback(ctx, root, i)
			return fmt.Errorf("%s: step %d (%s): %w", c.title, i+1, a.Title(), err)
		}
	}
	return nil
}

func (c *Compound) rollback(ctx context.Context, root *graph.Collection, applied int) {
	logger := ctxlog.FromContext(ctx)
	for j := applied - 1; j >= 0; j-- {
		if err := c.actions[j].Undo(ctx, root); err != nil {
			logger.Error("Failed to roll back step.", "action", c.title, "step", c.actions[j].Title(), "error", err)
		}
	}
}

// Undo reverts every sub-action in reverse order. If one fails, the steps
// already reverted are re-applied before the error is returned.
func (c *Compound) Undo(ctx context.Context, root *graph.Collection) error {
	for i := len(c.actions) - 1; i >= 0; i-- {
		a := c.actions[i]
		if err := a.Undo(ctx, root); err != nil {
			c.reapply(ctx, root, i+1)
			return fmt.Errorf("undo %s: step %d (%s): %w", c.title, i+1, a.Title(), err)
		}
	}
	return nil
}

func (c *Compound) reapply(ctx context.Context, root *graph.Collection, from int) {
	logger := ctxlog.FromContext(ctx)
	for j := from; j < len(c.actions); j++ {
		if err := c.actions[j].Do(ctx, root); err != nil {
			logger.Error("Failed to re-apply step.", "action", c.title, "step", c.actions[j].Title(), "error", err)
		}
	}
}

// Func adapts a pair of closures to an Action.
type Func struct {
	Name   string
	DoFn   func(ctx context.Context, c *graph.Collection) error
	UndoFn func(ctx context.Context, c *graph.Collection) error
}

func (f Func) Title() string { return f.Name }

func (f Func) Do(ctx context.Context, c *graph.Collection) error { return f.DoFn(ctx, c) }

func (f Func) Undo(ctx context.Context, c *graph.Collection) error { return f.UndoFn(ctx, c) }
