// Package action implements reversible edits and the linear undo history
// that runs them.
//
// An Action is a named unit of work with a Do and an Undo. Actions never hold
// pointers into the graph across calls; they capture paths and re-resolve
// them every time, because undo and redo rebuild entities with the same names
// but new identities.
//
// A Stack executes actions against one collection and keeps them in a linear
// history with a cursor. Running a new action drops everything after the
// cursor. A failed Do leaves both the graph and the history unchanged. Each
// top-level Run is wrapped in a transaction scope so a host application can
// fold the edit into its own journal.
package action
