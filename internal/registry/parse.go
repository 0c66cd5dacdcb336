// This file decodes library files. A library file holds any mix of `type` and
// `node_type` blocks:
//
//	type "Curve" {
//	  description     = "A cubic segment."
//	  expand          = true
//	  compatible_with = [Vector4]
//
//	  field "Start" { type = Vector3 }
//	  field "End"   { type = Vector3 }
//	}
//
//	node_type "Add" {
//	  category     = "Math"
//	  dynamic_pins = true
//
//	  input "A" {
//	    type    = float
//	    default = 1
//	  }
//	  output "Result" { type = float }
//	}
//
// Type references are bare identifiers, the way HCL spells `string` or
// `number` elsewhere. References are only resolved by Validate, so a file
// may use types declared in another file.
package registry

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/specialistvlad/nodegraph/internal/ctxlog"
)

// libraryRootSchema defines the top-level structure of a library file.
type libraryRootSchema struct {
	Types     []*hclType     `hcl:"type,block"`
	NodeTypes []*hclNodeType `hcl:"node_type,block"`
}

type hclType struct {
	Name string   `hcl:"name,label"`
	Body hcl.Body `hcl:",remain"`
}

type hclNodeType struct {
	Name string   `hcl:"name,label"`
	Body hcl.Body `hcl:",remain"`
}

// hclPin is the body of an `input` or `output` block.
type hclPin struct {
	Type        hcl.Expression `hcl:"type"`
	Description string         `hcl:"description,optional"`
	Storage     string         `hcl:"storage,optional"`
	Domain      []string       `hcl:"domain,optional"`
	Binding     string         `hcl:"binding,optional"`
	Default     hcl.Expression `hcl:"default,optional"`
}

var typeBodySchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "description"},
		{Name: "expand"},
		{Name: "compatible_with"},
	},
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "field", LabelNames: []string{"name"}},
	},
}

var fieldBodySchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "type", Required: true},
	},
}

var nodeTypeBodySchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "category"},
		{Name: "description"},
		{Name: "dynamic_pins"},
	},
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "input", LabelNames: []string{"name"}},
		{Type: "output", LabelNames: []string{"name"}},
	},
}

// ParseFile decodes all definitions found in a parsed HCL file.
func ParseFile(ctx context.Context, hclFile *hcl.File, filePath string) ([]*TypeDescriptor, []*NodeType, hcl.Diagnostics) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Parsing library definitions from file.", "file_path", filePath)

	var diags hcl.Diagnostics
	if hclFile == nil {
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "HCL file is nil",
		})
		return nil, nil, diags
	}

	root := &libraryRootSchema{}
	rootDiags := gohcl.DecodeBody(hclFile.Body, nil, root)
	diags = append(diags, rootDiags...)
	if rootDiags.HasErrors() {
		return nil, nil, diags
	}

	types := make([]*TypeDescriptor, 0, len(root.Types))
	for _, t := range root.Types {
		d, typeDiags := parseType(t)
		diags = append(diags, typeDiags...)
		if d != nil {
			d.FilePath = filePath
			types = append(types, d)
		}
	}

	nodeTypes := make([]*NodeType, 0, len(root.NodeTypes))
	for _, nt := range root.NodeTypes {
		def, ntDiags := parseNodeType(nt)
		diags = append(diags, ntDiags...)
		if def != nil {
			def.FilePath = filePath
			nodeTypes = append(nodeTypes, def)
		}
	}

	if diags.HasErrors() {
		return nil, nil, diags
	}
	logger.Debug("Successfully parsed library definitions.", "types", len(types), "node_types", len(nodeTypes))
	return types, nodeTypes, diags
}

func parseType(t *hclType) (*TypeDescriptor, hcl.Diagnostics) {
	content, diags := t.Body.Content(typeBodySchema)
	if diags.HasErrors() {
		return nil, diags
	}

	d := &TypeDescriptor{Name: TypeRef(t.Name), Kind: KindStruct}

	if attr, ok := content.Attributes["description"]; ok {
		diags = append(diags, gohcl.DecodeExpression(attr.Expr, nil, &d.Description)...)
	}
	if attr, ok := content.Attributes["expand"]; ok {
		diags = append(diags, gohcl.DecodeExpression(attr.Expr, nil, &d.Expandable)...)
	}
	if attr, ok := content.Attributes["compatible_with"]; ok {
		refs, refDiags := TypeRefListFromExpr(attr.Expr)
		diags = append(diags, refDiags...)
		d.CompatibleWith = refs
	}

	seen := make(map[string]bool)
	for _, block := range content.Blocks.OfType("field") {
		name := block.Labels[0]
		if seen[name] {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Duplicate field definition",
				Detail:   fmt.Sprintf("A field named '%s' has already been defined on type '%s'.", name, t.Name),
				Subject:  &block.DefRange,
			})
			continue
		}
		seen[name] = true

		fieldContent, fieldDiags := block.Body.Content(fieldBodySchema)
		diags = append(diags, fieldDiags...)
		if fieldDiags.HasErrors() {
			continue
		}
		ref, refDiags := TypeRefFromExpr(fieldContent.Attributes["type"].Expr)
		diags = append(diags, refDiags...)
		if refDiags.HasErrors() {
			continue
		}
		d.Fields = append(d.Fields, Field{Name: name, Type: ref})
	}

	if len(d.Fields) == 0 && !diags.HasErrors() {
		r := t.Body.MissingItemRange()
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Type has no fields",
			Detail:   fmt.Sprintf("Type '%s' must declare at least one field block.", t.Name),
			Subject:  &r,
		})
	}

	if diags.HasErrors() {
		return nil, diags
	}
	return d, diags
}

func parseNodeType(nt *hclNodeType) (*NodeType, hcl.Diagnostics) {
	content, diags := nt.Body.Content(nodeTypeBodySchema)
	if diags.HasErrors() {
		return nil, diags
	}

	def := &NodeType{Name: nt.Name}
	if attr, ok := content.Attributes["category"]; ok {
		diags = append(diags, gohcl.DecodeExpression(attr.Expr, nil, &def.Category)...)
	}
	if attr, ok := content.Attributes["description"]; ok {
		diags = append(diags, gohcl.DecodeExpression(attr.Expr, nil, &def.Description)...)
	}
	if attr, ok := content.Attributes["dynamic_pins"]; ok {
		diags = append(diags, gohcl.DecodeExpression(attr.Expr, nil, &def.DynamicPins)...)
	}

	seen := make(map[string]bool)
	// Blocks keep source order, which becomes the pin order on the node.
	for _, block := range content.Blocks {
		name := block.Labels[0]
		if seen[name] {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Duplicate pin definition",
				Detail:   fmt.Sprintf("A pin named '%s' has already been defined on node type '%s'.", name, nt.Name),
				Subject:  &block.DefRange,
			})
			continue
		}
		seen[name] = true

		decl, pinDiags := parsePinDecl(block)
		diags = append(diags, pinDiags...)
		if !pinDiags.HasErrors() {
			def.Pins = append(def.Pins, decl)
		}
	}

	if diags.HasErrors() {
		return nil, diags
	}
	return def, diags
}

func parsePinDecl(block *hcl.Block) (PinDecl, hcl.Diagnostics) {
	var raw hclPin
	diags := gohcl.DecodeBody(block.Body, nil, &raw)
	if diags.HasErrors() {
		return PinDecl{}, diags
	}

	decl := PinDecl{
		Name:        block.Labels[0],
		Description: raw.Description,
		Domain:      raw.Domain,
		Binding:     raw.Binding,
	}

	dir, err := ParseDirection(block.Type)
	if err != nil {
		// Unreachable given the schema, kept for a clear message.
		diags = append(diags, &hcl.Diagnostic{Severity: hcl.DiagError, Summary: "Invalid pin block", Detail: err.Error(), Subject: &block.DefRange})
		return PinDecl{}, diags
	}
	decl.Direction = dir

	storage, err := ParseStorage(raw.Storage)
	if err != nil {
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid storage",
			Detail:   err.Error(),
			Subject:  &block.DefRange,
		})
		return PinDecl{}, diags
	}
	decl.Storage = storage

	ref, refDiags := TypeRefFromExpr(raw.Type)
	diags = append(diags, refDiags...)
	if refDiags.HasErrors() {
		return PinDecl{}, diags
	}
	decl.Type = ref

	// A missing optional expression evaluates to null.
	if raw.Default != nil {
		val, valDiags := raw.Default.Value(nil)
		diags = append(diags, valDiags...)
		if valDiags.HasErrors() {
			return PinDecl{}, diags
		}
		if !val.IsNull() {
			decl.Default = val
		}
	}
	return decl, diags
}

// TypeRefFromExpr reads a bare type identifier such as `float` or `Vector3`.
// Edit scripts spell types the same way.
func TypeRefFromExpr(expr hcl.Expression) (TypeRef, hcl.Diagnostics) {
	traversal, diags := hcl.AbsTraversalForExpr(expr)
	if diags.HasErrors() || len(traversal) != 1 || traversal.RootName() == "" {
		return "", hcl.Diagnostics{&hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid type specification",
			Detail:   "A type must be a bare type name like 'float' or 'Vector3', not a complex expression.",
			Subject:  expr.Range().Ptr(),
		}}
	}
	return TypeRef(traversal.RootName()), nil
}

// TypeRefListFromExpr reads a list of bare type identifiers.
func TypeRefListFromExpr(expr hcl.Expression) ([]TypeRef, hcl.Diagnostics) {
	exprs, diags := hcl.ExprList(expr)
	if diags.HasErrors() {
		return nil, diags
	}
	refs := make([]TypeRef, 0, len(exprs))
	for _, e := range exprs {
		ref, refDiags := TypeRefFromExpr(e)
		diags = append(diags, refDiags...)
		if !refDiags.HasErrors() {
			refs = append(refs, ref)
		}
	}
	return refs, diags
}
