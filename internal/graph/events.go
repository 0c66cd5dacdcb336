// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package graph

import "fmt"

// EventKind identifies the mutation an Event reports.
type EventKind int

const (
	NodeAdded EventKind = iota + 1
	NodeRemoved
	LinkAdded
	LinkRemoved
	PinAdded
	PinRemoved
	PinRenamed
	PinTypeChanged
	PinValueChanged
	NodeMoved
	NodeRenamed
	NodeDisplayNameChanged
	PinDomainChanged
	PinBindingChanged
	GraphAdded
	GraphRemoved
	GraphRenamed
	VariableAdded
	VariableRemoved
	VariableRenamed
	VariableChanged
)

var eventKindNames = map[EventKind]string{
	NodeAdded:              "node_added",
	NodeRemoved:            "node_removed",
	LinkAdded:              "link_added",
	LinkRemoved:            "link_removed",
	PinAdded:               "pin_added",
	PinRemoved:             "pin_removed",
	PinRenamed:             "pin_renamed",
	PinTypeChanged:         "pin_type_changed",
	PinValueChanged:        "pin_value_changed",
	NodeMoved:              "node_moved",
	NodeRenamed:            "node_renamed",
	NodeDisplayNameChanged: "node_display_name_changed",
	PinDomainChanged:       "pin_domain_changed",
	PinBindingChanged:      "pin_binding_changed",
	GraphAdded:             "graph_added",
	GraphRemoved:           "graph_removed",
	GraphRenamed:           "graph_renamed",
	VariableAdded:          "variable_added",
	VariableRemoved:        "variable_removed",
	VariableRenamed:        "variable_renamed",
	VariableChanged:        "variable_changed",
}

func (k EventKind) String() string {
	if name, ok := eventKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// Event describes one successful mutation.
type Event struct {
	Kind EventKind
	// Path is the affected entity. For links it is the output pin.
	Path string
	// Target is the input pin of a link event.
	Target string
	// OldPath is the previous path of a renamed entity.
	OldPath string
}

// Listener receives events synchronously, on the goroutine that mutated the
// graph. Listeners must not mutate the collection.
type Listener func(Event)

type subscription struct {
	id int
	fn Listener
}

// Subscribe registers l for all future events and returns a function that
// removes it again.
func (c *Collection) Subscribe(l Listener) (unsubscribe func()) {
	if l == nil {
		panic("graph: Subscribe called with nil listener")
	}
	c.nextSubID++
	id := c.nextSubID
	c.listeners = append(c.listeners, subscription{id: id, fn: l})
	return func() {
		for i, s := range c.listeners {
			if s.id == id {
				c.listeners = append(c.listeners[:i:i], c.listeners[i+1:]...)
				return
			}
		}
	}
}

func (c *Collection) emit(ev Event) {
	if c == nil {
		return
	}
	for _, s := range c.listeners {
		s.fn(ev)
	}
}
