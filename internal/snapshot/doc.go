// Package snapshot encodes captured graph state into compact bytes.
//
// Removal steps in the undo history hold on to these bytes instead of the
// removed objects. Each snapshot is a msgpack envelope carrying a format
// version and the kind of entity it holds, so a node snapshot can never be
// restored as a graph by mistake. Pin values are embedded using cty's own
// msgpack encoding with their dynamic type, which keeps the exact value and
// type across a round trip.
package snapshot
