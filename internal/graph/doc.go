// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

/*
Package graph is the entity model of the editor: a tree of graphs holding
nodes, hierarchical pins and the links between them.

# Ownership

A Collection owns its top-level graphs, a Graph owns its nodes, links and
sub-graphs, a Node owns its root pins and a Pin owns its sub-pins. Nothing is
shared. Nodes live in a per-graph arena and are addressed by NodeHandle, a
slot index plus a generation counter, so a handle to a removed node fails to
resolve instead of pointing at whatever reused the slot. Links store
PinHandles, never pointers.

# Addressing

Every entity has a path (see package pinpath) computed from current names.
Paths are what callers outside this package hold on to: an undo step that
recreates a node gets a new handle, but the same path finds it again.

# Invariants

The operations here keep the structural invariants that do not depend on
policy: at most one link drives an input pin (including its ancestors and
sub-pins), links stay within one graph and never connect a node to itself,
names are unique within their scope, and only value pins carry sub-pins.
Type compatibility and cycle checks are exposed through CanLink and
WouldCycle and left to callers, because whether to refuse a request or to
make room for it is a policy decision.

A failed operation returns an error and leaves the graph unchanged. Every
successful one emits exactly one Event to the collection's listeners.

The package is not safe for concurrent use. All mutation is expected to
happen on one editing goroutine.
*/
package graph
