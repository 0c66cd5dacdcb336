// This file maps registry types onto cty, the value system used for pin
// defaults, constants and snapshots.
//
// int and float both map to cty.Number. The distinction survives through
// Conform, which rejects fractional numbers for int-typed values and nested
// int fields alike.
package registry

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// CtyType returns the cty type that holds values of ref.
func (r *Registry) CtyType(ref TypeRef) (cty.Type, error) {
	return r.ctyType(ref, make(map[TypeRef]bool))
}

func (r *Registry) ctyType(ref TypeRef, visiting map[TypeRef]bool) (cty.Type, error) {
	if ty, ok := r.ctyTypes[ref]; ok {
		return ty, nil
	}
	d, ok := r.types[ref]
	if !ok {
		return cty.NilType, fmt.Errorf("%w: %q", ErrUnknownType, ref)
	}

	var ty cty.Type
	switch d.Kind {
	case KindBool:
		ty = cty.Bool
	case KindInt, KindFloat:
		ty = cty.Number
	case KindString:
		ty = cty.String
	case KindStruct:
		if visiting[ref] {
			return cty.NilType, fmt.Errorf("%w: %q", ErrRecursiveType, ref)
		}
		visiting[ref] = true
		attrs := make(map[string]cty.Type, len(d.Fields))
		for _, f := range d.Fields {
			fty, err := r.ctyType(f.Type, visiting)
			if err != nil {
				return cty.NilType, fmt.Errorf("field %q of %q: %w", f.Name, ref, err)
			}
			attrs[f.Name] = fty
		}
		delete(visiting, ref)
		ty = cty.Object(attrs)
	default:
		return cty.NilType, fmt.Errorf("type %q has unsupported kind %s", ref, d.Kind)
	}

	r.ctyTypes[ref] = ty
	return ty, nil
}

// ZeroValue returns the default value for a freshly created pin of type ref.
func (r *Registry) ZeroValue(ref TypeRef) (cty.Value, error) {
	d, ok := r.types[ref]
	if !ok {
		return cty.NilVal, fmt.Errorf("%w: %q", ErrUnknownType, ref)
	}
	switch d.Kind {
	case KindBool:
		return cty.False, nil
	case KindInt, KindFloat:
		return cty.Zero, nil
	case KindString:
		return cty.StringVal(""), nil
	}

	if _, err := r.CtyType(ref); err != nil {
		return cty.NilVal, err
	}
	attrs := make(map[string]cty.Value, len(d.Fields))
	for _, f := range d.Fields {
		v, err := r.ZeroValue(f.Type)
		if err != nil {
			return cty.NilVal, err
		}
		attrs[f.Name] = v
	}
	if len(attrs) == 0 {
		return cty.EmptyObjectVal, nil
	}
	return cty.ObjectVal(attrs), nil
}

// Conform converts v to the cty type of ref and checks the constraints cty
// cannot express. The value must be known, and neither it nor any of its
// fields may be null.
func (r *Registry) Conform(ref TypeRef, v cty.Value) (cty.Value, error) {
	ty, err := r.CtyType(ref)
	if err != nil {
		return cty.NilVal, err
	}
	if v == cty.NilVal || v.IsNull() {
		return cty.NilVal, fmt.Errorf("%w: %q requires a value, got null", ErrTypeMismatch, ref)
	}
	if !v.IsWhollyKnown() {
		return cty.NilVal, fmt.Errorf("%w: %q requires a known value", ErrTypeMismatch, ref)
	}
	out, err := convert.Convert(v, ty)
	if err != nil {
		return cty.NilVal, fmt.Errorf("%w: cannot use %s as %q: %s", ErrTypeMismatch, v.Type().FriendlyName(), ref, err)
	}
	if err := r.check(ref, out); err != nil {
		return cty.NilVal, err
	}
	return out, nil
}

func (r *Registry) check(ref TypeRef, v cty.Value) error {
	if v.IsNull() {
		return fmt.Errorf("%w: %q requires a value, got null", ErrTypeMismatch, ref)
	}
	d := r.types[ref]
	switch d.Kind {
	case KindInt:
		if !v.AsBigFloat().IsInt() {
			return fmt.Errorf("%w: %q requires a whole number, got %s", ErrTypeMismatch, ref, v.AsBigFloat().Text('g', -1))
		}
	case KindStruct:
		for _, f := range d.Fields {
			if err := r.check(f.Type, v.GetAttr(f.Name)); err != nil {
				return fmt.Errorf("field %q: %w", f.Name, err)
			}
		}
	}
	return nil
}
