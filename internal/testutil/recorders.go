package testutil

import (
	"fmt"
	"sync"

	"github.com/specialistvlad/nodegraph/internal/graph"
)

// EventRecorder collects collection events.
type EventRecorder struct {
	mu     sync.Mutex
	events []graph.Event
}

// Record subscribes a new recorder to c.
func Record(c *graph.Collection) *EventRecorder {
	r := &EventRecorder{}
	c.Subscribe(r.add)
	return r
}

func (r *EventRecorder) add(ev graph.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

// Events returns the recorded events.
func (r *EventRecorder) Events() []graph.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]graph.Event(nil), r.events...)
}

// Kinds returns `kind path` strings for compact assertions.
func (r *EventRecorder) Kinds() []string {
	var out []string
	for _, ev := range r.Events() {
		out = append(out, fmt.Sprintf("%s %s", ev.Kind, ev.Path))
	}
	return out
}

// Reset drops everything recorded so far.
func (r *EventRecorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

// RecordingScope is a transaction scope that remembers every hook call.
type RecordingScope struct {
	Calls    []string
	next     int
}

// BeginScope implements the scope hook.
func (s *RecordingScope) BeginScope(title string) string {
	s.next++
	id := fmt.Sprintf("scope-%d", s.next)
	s.Calls = append(s.Calls, "begin "+id+" "+title)
	return id
}

// EndScope implements the scope hook.
func (s *RecordingScope) EndScope(id string) {
	s.Calls = append(s.Calls, "end "+id)
}

// CancelScope implements the optional cancel hook.
func (s *RecordingScope) CancelScope(id string) {
	s.Calls = append(s.Calls, "cancel "+id)
}
