// Package script loads edit scripts: HCL files holding an ordered list of
// graph edits that are replayed through an action stack.
//
//	graph "Main" {}
//
//	node "Main" "Src" {
//	  type     = "Source"
//	  position = { x = 0, y = 0 }
//	}
//	node "Main" "Out" { type = "Sink" }
//
//	link {
//	  from = "Main/Src.Out"
//	  to   = "Main/Out.In"
//	}
//
//	set_type "Main/Src.Out" { type = int }
//	undo { steps = 1 }
//
// Blocks run top to bottom. Each edit block becomes one undoable step, so
// `undo` and `redo` blocks walk back and forth over the edits above them.
package script
