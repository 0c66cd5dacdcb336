// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package graph

import "fmt"

// NodeHandle is a generation-checked reference to a node slot in a graph's
// arena. The zero value never resolves.
type NodeHandle struct {
	index uint32
	gen   uint32
}

// IsZero reports whether h is the zero handle.
func (h NodeHandle) IsZero() bool {
	return h.gen == 0
}

func (h NodeHandle) String() string {
	return fmt.Sprintf("node#%d.%d", h.index, h.gen)
}

// PinID identifies a pin within its node. IDs are never reused by a node.
type PinID uint32

// PinHandle references a pin by its node handle and per-node ID.
type PinHandle struct {
	Node NodeHandle
	Pin  PinID
}

func (h PinHandle) String() string {
	return fmt.Sprintf("%s/pin#%d", h.Node, h.Pin)
}

type nodeSlot struct {
	node *Node
	gen  uint32
}

// arena stores nodes in reusable slots. A slot's generation is bumped each
// time it is handed out so stale handles fail to resolve.
type arena struct {
	slots []nodeSlot
	free  []uint32
}

func (a *arena) alloc(n *Node) NodeHandle {
	var idx uint32
	if last := len(a.free) - 1; last >= 0 {
		idx = a.free[last]
		a.free = a.free[:last]
	} else {
		idx = uint32(len(a.slots))
		a.slots = append(a.slots, nodeSlot{})
	}
	slot := &a.slots[idx]
	slot.gen++
	slot.node = n
	return NodeHandle{index: idx, gen: slot.gen}
}

func (a *arena) release(h NodeHandle) {
	if a.get(h) == nil {
		return
	}
	a.slots[h.index].node = nil
	a.free = append(a.free, h.index)
}

func (a *arena) get(h NodeHandle) *Node {
	if h.IsZero() || int(h.index) >= len(a.slots) {
		return nil
	}
	slot := a.slots[h.index]
	if slot.gen != h.gen {
		return nil
	}
	return slot.node
}
