// Package pinpath provides the structured, type-safe representation of the
// hierarchical addresses used to find graphs, nodes and pins inside a graph
// collection.
//
// The canonical format is a '/'-separated chain of graph names, then the node
// name, then a '.'-separated pin chain:
//
//	Graph/SubGraph/Node.Pin.SubPin
//
// Graph names are separated by '/', the node name is the last '/'-separated
// segment, and the pin chain hangs off the node name with '.' separators. For
// example `Setup/Helpers/Add.Value.X` addresses the `X` sub-pin of the `Value`
// pin on node `Add` inside graph `Helpers`, which is nested in graph `Setup`.
//
// Addresses are plain values built from names only. They never hold references
// to live entities, which is what lets undo/redo find an entity again after it
// has been destroyed and reconstructed.
package pinpath
