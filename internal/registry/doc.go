// Package registry is the type registry consulted by the graph core.
//
// It stores two kinds of definitions:
//
//   - Data types (`type` blocks). A TypeDescriptor names a type, lists its
//     ordered fields, says whether pins of that type expand into sub-pins and
//     declares which other types it may feed through a link.
//
//   - Node types (`node_type` blocks). A NodeType is the template a node is
//     instantiated from: its category, its declared input and output pins and
//     whether further pins may be added at edit time.
//
// The primitive types (bool, int, float, string) and a handful of vector and
// color structs are always present. Anything else is loaded from HCL library
// files and validated as a whole so that references across files resolve.
//
// The graph package never manufactures types itself. It only reads
// descriptors and asks the registry to map a TypeRef to a cty.Type, a zero
// value or a conformed value.
package registry
