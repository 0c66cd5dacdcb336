package relay

import (
	"context"

	"github.com/specialistvlad/nodegraph/internal/ctxlog"
	"github.com/specialistvlad/nodegraph/internal/graph"
)

// DefaultEvent is the socket.io event name used for graph changes.
const DefaultEvent = "graph_event"

// Emitter publishes a named event. *socket.Socket satisfies it.
type Emitter interface {
	Emit(ev string, args ...any) error
}

// Relay publishes every event of the collections it is attached to.
type Relay struct {
	emitter Emitter
	event   string
}

// Option configures a Relay.
type Option func(*Relay)

// WithEvent overrides the socket.io event name.
func WithEvent(name string) Option {
	return func(r *Relay) {
		r.event = name
	}
}

// New creates a relay publishing through e.
func New(e Emitter, opts ...Option) *Relay {
	if e == nil {
		panic("relay: New called with nil emitter")
	}
	r := &Relay{emitter: e, event: DefaultEvent}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Attach subscribes the relay to c and returns a function that detaches it.
// Emit failures are logged and never reach the mutating caller.
func (r *Relay) Attach(ctx context.Context, c *graph.Collection) (detach func()) {
	logger := ctxlog.FromContext(ctx).With("relay_event", r.event)
	logger.Debug("Relay attached.")
	return c.Subscribe(func(ev graph.Event) {
		if err := r.emitter.Emit(r.event, Payload(ev)); err != nil {
			logger.Warn("Failed to relay graph event.", "kind", ev.Kind.String(), "path", ev.Path, "error", err)
		}
	})
}

// Payload converts ev to the map sent over the wire. Empty fields are left
// out.
func Payload(ev graph.Event) map[string]any {
	out := map[string]any{
		"kind": ev.Kind.String(),
		"path": ev.Path,
	}
	if ev.Target != "" {
		out["target"] = ev.Target
	}
	if ev.OldPath != "" {
		out["old_path"] = ev.OldPath
	}
	return out
}
