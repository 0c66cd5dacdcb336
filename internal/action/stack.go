package action

import (
	"context"

	"github.com/specialistvlad/nodegraph/internal/ctxlog"
	"github.com/specialistvlad/nodegraph/internal/graph"
)

const (
	opRun  = "run"
	opUndo = "undo"
	opRedo = "redo"

	resultOK       = "ok"
	resultFailed   = "failed"
	resultBoundary = "boundary"
)

// Stack runs actions against a collection and keeps a linear undo history.
// It is not safe for concurrent use.
type Stack struct {
	root    *graph.Collection
	scope   Scope
	metrics *Metrics

	history []Action
	// cursor is the number of applied actions; history[cursor:] can be redone.
	cursor int
}

// StackOption configures a Stack.
type StackOption func(*Stack)

// WithScope sets the transaction scope wrapped around every Run.
func WithScope(s Scope) StackOption {
	return func(st *Stack) {
		st.scope = s
	}
}

// WithMetrics makes the stack report to m.
func WithMetrics(m *Metrics) StackOption {
	return func(st *Stack) {
		st.metrics = m
	}
}

// NewStack returns an empty history over root.
func NewStack(root *graph.Collection, opts ...StackOption) *Stack {
	if root == nil {
		panic("action: NewStack called with nil collection")
	}
	s := &Stack{root: root, scope: NopScope{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Root returns the collection the stack edits.
func (s *Stack) Root() *graph.Collection { return s.root }

// Run applies a and, on success, records it as the newest history entry,
// dropping everything that could have been redone. On failure the history is
// untouched and the error is returned.
func (s *Stack) Run(ctx context.Context, a Action) error {
	if a == nil {
		panic("action: Run called with nil action")
	}
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Running action.", "action", a.Title())

	id := s.scope.BeginScope(a.Title())
	if err := a.Do(ctx, s.root); err != nil {
		if c, ok := s.scope.(Canceler); ok {
			c.CancelScope(id)
		} else {
			s.scope.EndScope(id)
		}
		logger.Warn("Action rejected.", "action", a.Title(), "error", err)
		s.metrics.observe(opRun, resultFailed, len(s.history), s.cursor)
		return err
	}
	s.scope.EndScope(id)

	s.history = append(s.history[:s.cursor], a)
	s.cursor++
	s.metrics.observe(opRun, resultOK, len(s.history), s.cursor)
	return nil
}

// Undo reverts the newest applied action. It returns false at the start of
// the history or when the action fails to revert; a failure is logged and
// leaves the cursor where it was.
func (s *Stack) Undo(ctx context.Context) bool {
	if !s.CanUndo() {
		s.metrics.observe(opUndo, resultBoundary, len(s.history), s.cursor)
		return false
	}
	a := s.history[s.cursor-1]
	if err := a.Undo(ctx, s.root); err != nil {
		ctxlog.FromContext(ctx).Error("Failed to undo action.", "action", a.Title(), "error", err)
		s.metrics.observe(opUndo, resultFailed, len(s.history), s.cursor)
		return false
	}
	s.cursor--
	ctxlog.FromContext(ctx).Debug("Undid action.", "action", a.Title())
	s.metrics.observe(opUndo, resultOK, len(s.history), s.cursor)
	return true
}

// Redo re-applies the oldest undone action. It returns false at the end of
// the history or when the action fails; a failure is logged and leaves the
// cursor where it was.
func (s *Stack) Redo(ctx context.Context) bool {
	if !s.CanRedo() {
		s.metrics.observe(opRedo, resultBoundary, len(s.history), s.cursor)
		return false
	}
	a := s.history[s.cursor]
	if err := a.Do(ctx, s.root); err != nil {
		ctxlog.FromContext(ctx).Error("Failed to redo action.", "action", a.Title(), "error", err)
		s.metrics.observe(opRedo, resultFailed, len(s.history), s.cursor)
		return false
	}
	s.cursor++
	ctxlog.FromContext(ctx).Debug("Redid action.", "action", a.Title())
	s.metrics.observe(opRedo, resultOK, len(s.history), s.cursor)
	return true
}

// CanUndo reports whether there is an applied action.
func (s *Stack) CanUndo() bool { return s.cursor > 0 }

// CanRedo reports whether there is an undone action.
func (s *Stack) CanRedo() bool { return s.cursor < len(s.history) }

// UndoTitle returns the title of the action Undo would revert.
func (s *Stack) UndoTitle() (string, bool) {
	if !s.CanUndo() {
		return "", false
	}
	return s.history[s.cursor-1].Title(), true
}

// RedoTitle returns the title of the action Redo would apply.
func (s *Stack) RedoTitle() (string, bool) {
	if !s.CanRedo() {
		return "", false
	}
	return s.history[s.cursor].Title(), true
}

// Len returns the number of actions in the history.
func (s *Stack) Len() int { return len(s.history) }

// Cursor returns the number of applied actions.
func (s *Stack) Cursor() int { return s.cursor }

// Clear forgets the whole history without touching the collection.
func (s *Stack) Clear() {
	s.history = nil
	s.cursor = 0
}
