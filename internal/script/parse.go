package script

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/specialistvlad/nodegraph/internal/action"
	"github.com/specialistvlad/nodegraph/internal/ctxlog"
	"github.com/specialistvlad/nodegraph/internal/graph"
	"github.com/specialistvlad/nodegraph/internal/mutation"
	"github.com/specialistvlad/nodegraph/internal/registry"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

const (
	blockGraph          = "graph"
	blockNode           = "node"
	blockPin            = "pin"
	blockLink           = "link"
	blockUnlink         = "unlink"
	blockRename         = "rename"
	blockRemove         = "remove"
	blockRemoveNodes    = "remove_nodes"
	blockMoveNode       = "move_node"
	blockDisplayName    = "display_name"
	blockSetValue       = "set_value"
	blockSetType        = "set_type"
	blockSetDomain      = "set_domain"
	blockUnbind         = "unbind"
	blockDuplicate      = "duplicate"
	blockVariable       = "variable"
	blockRemoveVariable = "remove_variable"
	blockRenameVariable = "rename_variable"
	blockSetVariable    = "set_variable"
	blockUndo           = "undo"
	blockRedo           = "redo"
)

var scriptSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: blockGraph, LabelNames: []string{"name"}},
		{Type: blockNode, LabelNames: []string{"graph", "name"}},
		{Type: blockPin, LabelNames: []string{"node", "name"}},
		{Type: blockLink},
		{Type: blockUnlink},
		{Type: blockRename, LabelNames: []string{"path"}},
		{Type: blockRemove, LabelNames: []string{"path"}},
		{Type: blockRemoveNodes},
		{Type: blockMoveNode, LabelNames: []string{"path"}},
		{Type: blockDisplayName, LabelNames: []string{"path"}},
		{Type: blockSetValue, LabelNames: []string{"path"}},
		{Type: blockSetType, LabelNames: []string{"path"}},
		{Type: blockSetDomain, LabelNames: []string{"path"}},
		{Type: blockUnbind, LabelNames: []string{"path"}},
		{Type: blockDuplicate},
		{Type: blockVariable, LabelNames: []string{"name"}},
		{Type: blockRemoveVariable, LabelNames: []string{"name"}},
		{Type: blockRenameVariable, LabelNames: []string{"name"}},
		{Type: blockSetVariable, LabelNames: []string{"name"}},
		{Type: blockUndo},
		{Type: blockRedo},
	},
}

type graphBlock struct {
	Parent string `hcl:"parent,optional"`
}

type nodeBlock struct {
	Type        string         `hcl:"type,optional"`
	DisplayName string         `hcl:"display_name,optional"`
	Position    hcl.Expression `hcl:"position,optional"`
	DynamicPins bool           `hcl:"dynamic_pins,optional"`
}

type pinBlock struct {
	Type      hcl.Expression `hcl:"type"`
	Direction string         `hcl:"direction,optional"`
	Storage   string         `hcl:"storage,optional"`
	Domain    []string       `hcl:"domain,optional"`
	Binding   string         `hcl:"binding,optional"`
	Before    string         `hcl:"before,optional"`
	Default   hcl.Expression `hcl:"default,optional"`
}

type linkBlock struct {
	From    string `hcl:"from"`
	To      string `hcl:"to"`
	Replace bool   `hcl:"replace,optional"`
}

type unlinkBlock struct {
	From string `hcl:"from"`
	To   string `hcl:"to"`
}

type nameBlock struct {
	Name string `hcl:"name"`
}

type emptyBlock struct{}

type pathsBlock struct {
	Paths []string `hcl:"paths"`
}

type moveBlock struct {
	Position hcl.Expression `hcl:"position"`
}

type displayNameBlock struct {
	Label string `hcl:"label"`
}

type valueBlock struct {
	Value hcl.Expression `hcl:"value"`
}

type typeBlock struct {
	Type hcl.Expression `hcl:"type"`
}

type domainBlock struct {
	Levels []string `hcl:"levels"`
}

type duplicateBlock struct {
	Paths  []string       `hcl:"paths"`
	Offset hcl.Expression `hcl:"offset,optional"`
}

type variableBlock struct {
	Type    hcl.Expression `hcl:"type"`
	Default hcl.Expression `hcl:"default,optional"`
}

type setVariableBlock struct {
	Default hcl.Expression `hcl:"default"`
}

type historyBlock struct {
	Steps *int `hcl:"steps,optional"`
}

// position is the HCL object form of a node position: `{ x = 1, y = 2 }`.
type position struct {
	X float64 `cty:"x"`
	Y float64 `cty:"y"`
}

// Parse decodes every block of a parsed script file, in source order.
func Parse(ctx context.Context, hclFile *hcl.File, filename string) (*Script, hcl.Diagnostics) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Parsing script.", "file_path", filename)

	if hclFile == nil {
		return nil, hcl.Diagnostics{&hcl.Diagnostic{Severity: hcl.DiagError, Summary: "HCL file is nil"}}
	}
	content, diags := hclFile.Body.Content(scriptSchema)
	if diags.HasErrors() {
		return nil, diags
	}

	s := &Script{Filename: filename}
	for _, block := range content.Blocks {
		step, stepDiags := parseBlock(block)
		diags = append(diags, stepDiags...)
		if !stepDiags.HasErrors() {
			s.Steps = append(s.Steps, step)
		}
	}
	if diags.HasErrors() {
		return nil, diags
	}
	logger.Debug("Successfully parsed script.", "steps", len(s.Steps))
	return s, diags
}

func parseBlock(block *hcl.Block) (Step, hcl.Diagnostics) {
	step := Step{Kind: block.Type, Range: block.DefRange}
	var diags hcl.Diagnostics
	fixed := func(a action.Action) Builder {
		return func(*graph.Collection) (action.Action, error) { return a, nil }
	}

	switch block.Type {
	case blockGraph:
		var raw graphBlock
		if diags = gohcl.DecodeBody(block.Body, nil, &raw); !diags.HasErrors() {
			step.build = fixed(&mutation.AddGraph{Parent: raw.Parent, Name: block.Labels[0]})
		}

	case blockNode:
		var raw nodeBlock
		if diags = gohcl.DecodeBody(block.Body, nil, &raw); diags.HasErrors() {
			break
		}
		pos, posDiags := positionFromExpr(raw.Position)
		if diags = append(diags, posDiags...); diags.HasErrors() {
			break
		}
		step.build = fixed(&mutation.AddNode{Graph: block.Labels[0], Spec: graph.NodeSpec{
			Name:        block.Labels[1],
			Type:        raw.Type,
			DisplayName: raw.DisplayName,
			Position:    pos,
			DynamicPins: raw.DynamicPins,
		}})

	case blockPin:
		var raw pinBlock
		if diags = gohcl.DecodeBody(block.Body, nil, &raw); diags.HasErrors() {
			break
		}
		spec, specDiags := pinSpec(block, &raw)
		if diags = append(diags, specDiags...); diags.HasErrors() {
			break
		}
		step.build = fixed(&mutation.AddPin{Node: block.Labels[0], Spec: spec, Before: raw.Before})

	case blockLink:
		var raw linkBlock
		if diags = gohcl.DecodeBody(block.Body, nil, &raw); !diags.HasErrors() {
			policy := mutation.LinkRefuse
			if raw.Replace {
				policy = mutation.LinkReplace
			}
			step.build = fixed(&mutation.ConnectPins{From: raw.From, To: raw.To, Policy: policy})
		}

	case blockUnlink:
		var raw unlinkBlock
		if diags = gohcl.DecodeBody(block.Body, nil, &raw); !diags.HasErrors() {
			step.build = fixed(&mutation.RemoveLink{From: raw.From, To: raw.To})
		}

	case blockRename:
		var raw nameBlock
		if diags = gohcl.DecodeBody(block.Body, nil, &raw); !diags.HasErrors() {
			step.build = renameBuilder(block.Labels[0], raw.Name)
		}

	case blockRemove:
		var raw emptyBlock
		if diags = gohcl.DecodeBody(block.Body, nil, &raw); !diags.HasErrors() {
			step.build = removeBuilder(block.Labels[0])
		}

	case blockRemoveNodes:
		var raw pathsBlock
		if diags = gohcl.DecodeBody(block.Body, nil, &raw); !diags.HasErrors() {
			step.build = fixed(&mutation.RemoveNodes{Paths: raw.Paths})
		}

	case blockMoveNode:
		var raw moveBlock
		if diags = gohcl.DecodeBody(block.Body, nil, &raw); diags.HasErrors() {
			break
		}
		pos, posDiags := positionFromExpr(raw.Position)
		if diags = append(diags, posDiags...); !diags.HasErrors() {
			step.build = fixed(&mutation.MoveNode{Path: block.Labels[0], Position: pos})
		}

	case blockDisplayName:
		var raw displayNameBlock
		if diags = gohcl.DecodeBody(block.Body, nil, &raw); !diags.HasErrors() {
			step.build = fixed(&mutation.SetNodeDisplayName{Path: block.Labels[0], DisplayName: raw.Label})
		}

	case blockSetValue:
		var raw valueBlock
		if diags = gohcl.DecodeBody(block.Body, nil, &raw); diags.HasErrors() {
			break
		}
		val, valDiags := raw.Value.Value(nil)
		if diags = append(diags, valDiags...); !diags.HasErrors() {
			step.build = fixed(&mutation.SetPinValue{Path: block.Labels[0], Value: val})
		}

	case blockSetType:
		var raw typeBlock
		if diags = gohcl.DecodeBody(block.Body, nil, &raw); diags.HasErrors() {
			break
		}
		ref, refDiags := registry.TypeRefFromExpr(raw.Type)
		if diags = append(diags, refDiags...); !diags.HasErrors() {
			step.build = fixed(&mutation.ChangePinType{Path: block.Labels[0], Type: ref})
		}

	case blockSetDomain:
		var raw domainBlock
		if diags = gohcl.DecodeBody(block.Body, nil, &raw); !diags.HasErrors() {
			step.build = fixed(&mutation.SetPinDataDomain{Path: block.Labels[0], Levels: raw.Levels})
		}

	case blockUnbind:
		var raw emptyBlock
		if diags = gohcl.DecodeBody(block.Body, nil, &raw); !diags.HasErrors() {
			step.build = fixed(&mutation.UnbindPin{Path: block.Labels[0]})
		}

	case blockDuplicate:
		var raw duplicateBlock
		if diags = gohcl.DecodeBody(block.Body, nil, &raw); diags.HasErrors() {
			break
		}
		offset, offDiags := positionFromExpr(raw.Offset)
		if diags = append(diags, offDiags...); !diags.HasErrors() {
			step.build = fixed(&mutation.DuplicateNodes{Paths: raw.Paths, Offset: offset})
		}

	case blockVariable:
		var raw variableBlock
		if diags = gohcl.DecodeBody(block.Body, nil, &raw); diags.HasErrors() {
			break
		}
		ref, refDiags := registry.TypeRefFromExpr(raw.Type)
		diags = append(diags, refDiags...)
		def, defDiags := optionalValue(raw.Default)
		if diags = append(diags, defDiags...); !diags.HasErrors() {
			step.build = fixed(&mutation.AddVariable{Name: block.Labels[0], Type: ref, Default: def})
		}

	case blockRemoveVariable:
		var raw emptyBlock
		if diags = gohcl.DecodeBody(block.Body, nil, &raw); !diags.HasErrors() {
			step.build = fixed(&mutation.RemoveVariable{Name: block.Labels[0]})
		}

	case blockRenameVariable:
		var raw nameBlock
		if diags = gohcl.DecodeBody(block.Body, nil, &raw); !diags.HasErrors() {
			step.build = fixed(&mutation.RenameVariable{Name: block.Labels[0], NewName: raw.Name})
		}

	case blockSetVariable:
		var raw setVariableBlock
		if diags = gohcl.DecodeBody(block.Body, nil, &raw); diags.HasErrors() {
			break
		}
		val, valDiags := raw.Default.Value(nil)
		if diags = append(diags, valDiags...); !diags.HasErrors() {
			step.build = fixed(&mutation.SetVariableDefault{Name: block.Labels[0], Value: val})
		}

	case blockUndo, blockRedo:
		var raw historyBlock
		if diags = gohcl.DecodeBody(block.Body, nil, &raw); diags.HasErrors() {
			break
		}
		step.count = 1
		if raw.Steps != nil {
			step.count = *raw.Steps
		}
		if step.count < 1 {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Invalid step count",
				Detail:   fmt.Sprintf("An %s block must walk at least one step, got %d.", block.Type, step.count),
				Subject:  &block.DefRange,
			})
		}

	default:
		// Unreachable given the schema.
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Unsupported block type",
			Detail:   fmt.Sprintf("Blocks of type %q are not supported in scripts.", block.Type),
			Subject:  &block.DefRange,
		})
	}
	return step, diags
}

func pinSpec(block *hcl.Block, raw *pinBlock) (graph.PinSpec, hcl.Diagnostics) {
	var diags hcl.Diagnostics
	spec := graph.PinSpec{
		Name:    block.Labels[1],
		Domain:  raw.Domain,
		Binding: raw.Binding,
	}

	direction := raw.Direction
	if direction == "" {
		direction = "input"
	}
	dir, err := registry.ParseDirection(direction)
	if err != nil {
		diags = append(diags, &hcl.Diagnostic{Severity: hcl.DiagError, Summary: "Invalid direction", Detail: err.Error(), Subject: &block.DefRange})
	}
	storage, err := registry.ParseStorage(raw.Storage)
	if err != nil {
		diags = append(diags, &hcl.Diagnostic{Severity: hcl.DiagError, Summary: "Invalid storage", Detail: err.Error(), Subject: &block.DefRange})
	}
	ref, refDiags := registry.TypeRefFromExpr(raw.Type)
	diags = append(diags, refDiags...)
	def, defDiags := optionalValue(raw.Default)
	diags = append(diags, defDiags...)

	spec.Direction, spec.Storage, spec.Type, spec.Default = dir, storage, ref, def
	return spec, diags
}

// optionalValue evaluates an optional attribute. A missing attribute yields
// cty.NilVal.
func optionalValue(expr hcl.Expression) (cty.Value, hcl.Diagnostics) {
	if expr == nil {
		return cty.NilVal, nil
	}
	val, diags := expr.Value(nil)
	if diags.HasErrors() || val.IsNull() {
		return cty.NilVal, diags
	}
	return val, diags
}

// positionFromExpr decodes `{ x = .., y = .. }`. Both attributes are
// required; an absent or null expression is the origin.
func positionFromExpr(expr hcl.Expression) (graph.Position, hcl.Diagnostics) {
	val, diags := optionalValue(expr)
	if diags.HasErrors() || val == cty.NilVal {
		return graph.Position{}, diags
	}
	invalid := func(detail string) hcl.Diagnostics {
		return hcl.Diagnostics{&hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid position",
			Detail:   fmt.Sprintf("A position must be an object like { x = 10, y = 20 }: %s.", detail),
			Subject:  expr.Range().Ptr(),
		}}
	}
	if ty := val.Type(); !ty.IsObjectType() && !ty.IsMapType() {
		return graph.Position{}, invalid("got " + ty.FriendlyName())
	}
	var pos position
	if err := gocty.FromCtyValue(val, &pos); err != nil {
		return graph.Position{}, invalid(err.Error())
	}
	return graph.Position{X: pos.X, Y: pos.Y}, nil
}

// renameBuilder picks the rename action matching whatever path points at.
func renameBuilder(path, name string) Builder {
	return func(c *graph.Collection) (action.Action, error) {
		r, err := c.Resolve(path)
		if err != nil {
			return nil, err
		}
		switch {
		case r.Pin != nil:
			return &mutation.RenamePin{Path: path, Name: name}, nil
		case r.Node != nil:
			return &mutation.RenameNode{Path: path, Name: name}, nil
		default:
			return &mutation.RenameGraph{Path: path, Name: name}, nil
		}
	}
}

// removeBuilder picks the removal matching whatever path points at. Nodes
// are removed together with their links.
func removeBuilder(path string) Builder {
	return func(c *graph.Collection) (action.Action, error) {
		r, err := c.Resolve(path)
		if err != nil {
			return nil, err
		}
		switch {
		case r.Pin != nil:
			return &mutation.RemovePin{Path: path}, nil
		case r.Node != nil:
			return &mutation.RemoveNodes{Paths: []string{path}}, nil
		default:
			return &mutation.RemoveGraph{Path: path}, nil
		}
	}
}
