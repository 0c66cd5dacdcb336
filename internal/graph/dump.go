// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package graph

import (
	"fmt"
	"io"
	"strings"

	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"
)

// Dump writes a deterministic, indented text rendering of the collection.
// Values are printed in HCL syntax.
func (c *Collection) Dump(w io.Writer) error {
	d := dumper{w: w}
	for _, v := range c.variables {
		d.line(0, "variable %q %s = %s", v.Name, v.Type, formatValue(v.Default))
	}
	for _, g := range c.graphs {
		d.graph(g, 0)
	}
	return d.err
}

// DumpString is Dump into a string.
func (c *Collection) DumpString() string {
	var sb strings.Builder
	_ = c.Dump(&sb)
	return sb.String()
}

type dumper struct {
	w   io.Writer
	err error
}

func (d *dumper) line(depth int, format string, args ...any) {
	if d.err != nil {
		return
	}
	_, d.err = fmt.Fprintf(d.w, "%s%s\n", strings.Repeat("  ", depth), fmt.Sprintf(format, args...))
}

func (d *dumper) graph(g *Graph, depth int) {
	d.line(depth, "graph %q", g.name)
	for _, n := range g.Nodes() {
		var attrs []string
		if n.typeName != "" {
			attrs = append(attrs, fmt.Sprintf("type=%q", n.typeName))
		}
		if n.displayName != "" {
			attrs = append(attrs, fmt.Sprintf("display=%q", n.displayName))
		}
		attrs = append(attrs, "pos="+n.position.String())
		if n.dynamicPins {
			attrs = append(attrs, "dynamic")
		}
		d.line(depth+1, "node %q %s", n.name, strings.Join(attrs, " "))
		for _, p := range n.pins {
			d.pin(p, depth+2)
		}
	}
	for _, l := range g.links {
		if from, to, ok := g.LinkPins(l); ok {
			d.line(depth+1, "link %s -> %s", relativePinPath(from), relativePinPath(to))
		}
	}
	for _, sub := range g.graphs {
		d.graph(sub, depth+1)
	}
}

func (d *dumper) pin(p *Pin, depth int) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %q %s", p.direction, p.name, p.typ)
	if p.storage == StorageResource {
		sb.WriteString(" resource")
		if len(p.domain) > 0 {
			fmt.Fprintf(&sb, " domain=[%s]", strings.Join(p.domain, ", "))
		}
	} else if !p.synthesized {
		sb.WriteString(" = " + formatValue(p.value))
	}
	if p.binding != "" {
		fmt.Fprintf(&sb, " bind=%q", p.binding)
	}
	if p.expanded {
		sb.WriteString(" expanded")
	}
	d.line(depth, "%s", sb.String())
	for _, c := range p.children {
		d.pin(c, depth+1)
	}
}

func formatValue(v cty.Value) string {
	if v == cty.NilVal {
		return "null"
	}
	if !v.IsWhollyKnown() {
		return "(unknown)"
	}
	if !v.IsNull() && (v.Type().IsObjectType() || v.Type().IsMapType()) {
		var parts []string
		for it := v.ElementIterator(); it.Next(); {
			k, ev := it.Element()
			parts = append(parts, k.AsString()+" = "+formatValue(ev))
		}
		return "{ " + strings.Join(parts, ", ") + " }"
	}
	return string(hclwrite.TokensForValue(v).Bytes())
}
