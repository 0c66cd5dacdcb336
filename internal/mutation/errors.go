package mutation

import "errors"

var (
	// ErrFixedPins is returned when adding or removing pins on a node whose
	// pins are fixed by its type.
	ErrFixedPins = errors.New("node pins are fixed")
	// ErrMixedGraphs is returned when a selection spans several graphs.
	ErrMixedGraphs = errors.New("selection spans several graphs")
	// ErrEmptySelection is returned by selection actions given no nodes.
	ErrEmptySelection = errors.New("empty selection")
	// ErrRenamed is returned when redo cannot reuse the name recorded on the
	// first run because it is taken.
	ErrRenamed = errors.New("recorded name is no longer available")
)
