package script

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/nodegraph/internal/action"
	"github.com/specialistvlad/nodegraph/internal/ctxlog"
	"github.com/specialistvlad/nodegraph/internal/graph"
)

// Builder turns a step into an action once the collection it applies to is
// known. Steps that address entities of unknown kind resolve them here.
type Builder func(c *graph.Collection) (action.Action, error)

// Step is one block of a script.
type Step struct {
	// Kind is the block type, e.g. `node` or `undo`.
	Kind  string
	Range hcl.Range

	build Builder
	// count is the number of history steps an undo or redo block walks.
	count int
}

// Script is a parsed edit script.
type Script struct {
	Filename string
	Steps    []Step
}

// LoadFile parses the script at path.
func LoadFile(ctx context.Context, path string) (*Script, error) {
	hclFile, diags := hclparse.NewParser().ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse script %s: %w", path, diags)
	}
	return decode(ctx, hclFile, path)
}

// ParseSource parses an in-memory script.
func ParseSource(ctx context.Context, src []byte, filename string) (*Script, error) {
	hclFile, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse script %s: %w", filename, diags)
	}
	return decode(ctx, hclFile, filename)
}

func decode(ctx context.Context, hclFile *hcl.File, filename string) (*Script, error) {
	s, diags := Parse(ctx, hclFile, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode script %s: %w", filename, diags)
	}
	return s, nil
}

// Run applies the steps in order through s. It stops at the first rejected
// edit; the edits before it stay applied and on the stack. Undo and redo
// blocks that run past the end of the history are logged and skipped.
func (sc *Script) Run(ctx context.Context, s *action.Stack) error {
	logger := ctxlog.FromContext(ctx).With("script", sc.Filename)
	logger.Debug("Running script.", "steps", len(sc.Steps))

	for _, step := range sc.Steps {
		switch step.Kind {
		case blockUndo:
			walk(ctx, step, s.Undo)
		case blockRedo:
			walk(ctx, step, s.Redo)
		default:
			a, err := step.build(s.Root())
			if err == nil {
				err = s.Run(ctx, a)
			}
			if err != nil {
				return fmt.Errorf("%s: %s: %w", step.Range, step.Kind, err)
			}
		}
	}

	logger.Info("Script finished.", "steps", len(sc.Steps), "history", s.Len(), "cursor", s.Cursor())
	return nil
}

func walk(ctx context.Context, step Step, move func(context.Context) bool) {
	for i := range step.count {
		if !move(ctx) {
			ctxlog.FromContext(ctx).Warn("History exhausted, skipping the remaining steps.",
				"block", step.Kind, "range", step.Range.String(), "done", i, "requested", step.count)
			return
		}
	}
}
