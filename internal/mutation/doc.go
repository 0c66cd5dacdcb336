// Package mutation provides the concrete reversible edits run through an
// action.Stack.
//
// Every action stores paths, never pointers, and resolves them again in each
// Do and Undo. Whatever an action learns while applying itself (the name a
// new node actually got, the value a setter overwrote, a snapshot of a
// removed node) is recorded on first Do and reused on redo, so redo
// reproduces the same names.
//
// The policy actions (ConnectPins, RemoveNodes, DuplicateNodes and
// ChangePinType) decide on first Do which primitive edits are needed and then
// behave as one compound step.
package mutation
