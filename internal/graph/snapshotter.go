// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package graph

// Snapshotter serializes captured entity state. Removal steps store the
// encoded bytes and decode them again on undo.
type Snapshotter interface {
	EncodeNode(NodeState) ([]byte, error)
	DecodeNode([]byte) (NodeState, error)
	EncodePin(PinState) ([]byte, error)
	DecodePin([]byte) (PinState, error)
	EncodeGraph(GraphState) ([]byte, error)
	DecodeGraph([]byte) (GraphState, error)
}

// SnapshotNode encodes the state of n.
func (c *Collection) SnapshotNode(n *Node) ([]byte, error) {
	if c.snapshotter == nil {
		return nil, ErrNoSnapshotter
	}
	return c.snapshotter.EncodeNode(n.Capture())
}

// RestoreNode decodes a node snapshot and inserts the node into g at index.
func (c *Collection) RestoreNode(data []byte, g *Graph, index int) (*Node, error) {
	if c.snapshotter == nil {
		return nil, ErrNoSnapshotter
	}
	s, err := c.snapshotter.DecodeNode(data)
	if err != nil {
		return nil, err
	}
	return g.RestoreNodeState(s, index)
}

// SnapshotPin encodes the state of p and its sub-pins.
func (c *Collection) SnapshotPin(p *Pin) ([]byte, error) {
	if c.snapshotter == nil {
		return nil, ErrNoSnapshotter
	}
	return c.snapshotter.EncodePin(p.Capture())
}

// RestorePin decodes a pin snapshot and inserts it as a root pin of n.
func (c *Collection) RestorePin(data []byte, n *Node, index int) (*Pin, error) {
	if c.snapshotter == nil {
		return nil, ErrNoSnapshotter
	}
	s, err := c.snapshotter.DecodePin(data)
	if err != nil {
		return nil, err
	}
	return n.RestorePinState(s, index)
}

// SnapshotGraph encodes g with everything it contains.
func (c *Collection) SnapshotGraph(g *Graph) ([]byte, error) {
	if c.snapshotter == nil {
		return nil, ErrNoSnapshotter
	}
	return c.snapshotter.EncodeGraph(g.Capture())
}

// RestoreGraph decodes a graph snapshot and inserts it under parent, or at
// the top level when parent is nil.
func (c *Collection) RestoreGraph(data []byte, parent *Graph, index int) (*Graph, error) {
	if c.snapshotter == nil {
		return nil, ErrNoSnapshotter
	}
	s, err := c.snapshotter.DecodeGraph(data)
	if err != nil {
		return nil, err
	}
	return c.RestoreGraphState(s, parent, index)
}
