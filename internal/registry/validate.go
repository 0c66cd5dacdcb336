package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/specialistvlad/nodegraph/internal/ctxlog"
)

// Validate checks that every reference in the registry resolves, that no
// struct type contains itself and that node template defaults conform to
// their declared types. All problems are reported together.
func (r *Registry) Validate(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	var errs []string

	for _, name := range r.TypeNames() {
		d := r.types[name]
		for _, f := range d.Fields {
			if _, ok := r.types[f.Type]; !ok {
				errs = append(errs, fmt.Sprintf("type '%s', field '%s': unknown type '%s'", name, f.Name, f.Type))
			}
		}
		for _, c := range d.CompatibleWith {
			if _, ok := r.types[c]; !ok {
				errs = append(errs, fmt.Sprintf("type '%s': compatible_with names unknown type '%s'", name, c))
			}
		}
		if d.Expandable && !d.IsStruct() {
			errs = append(errs, fmt.Sprintf("type '%s': only struct types can expand", name))
		}
	}

	if err := r.detectRecursiveTypes(); err != nil {
		errs = append(errs, err.Error())
	}

	for _, name := range r.NodeTypeNames() {
		nt := r.nodeTypes[name]
		for _, p := range nt.Pins {
			if _, ok := r.types[p.Type]; !ok {
				errs = append(errs, fmt.Sprintf("node type '%s', pin '%s': unknown type '%s'", name, p.Name, p.Type))
				continue
			}
			switch p.Storage {
			case StorageResource:
				if p.HasDefault() {
					errs = append(errs, fmt.Sprintf("node type '%s', pin '%s': resource pins cannot have a default", name, p.Name))
				}
			case StorageValue:
				if len(p.Domain) > 0 {
					errs = append(errs, fmt.Sprintf("node type '%s', pin '%s': only resource pins have a data domain", name, p.Name))
				}
			}
			if p.HasDefault() {
				if _, err := r.Conform(p.Type, p.Default); err != nil {
					errs = append(errs, fmt.Sprintf("node type '%s', pin '%s': invalid default: %v", name, p.Name, err))
				}
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w:\n- %s", ErrValidation, strings.Join(errs, "\n- "))
	}
	logger.Debug("Registry validation passed.", "types", len(r.types), "node_types", len(r.nodeTypes))
	return nil
}

// detectRecursiveTypes walks struct fields depth-first and fails on the first
// type that is reachable from itself.
func (r *Registry) detectRecursiveTypes() error {
	visiting := make(map[TypeRef]bool)
	visited := make(map[TypeRef]bool)

	var visit func(ref TypeRef, trail []TypeRef) error
	visit = func(ref TypeRef, trail []TypeRef) error {
		visiting[ref] = true
		trail = append(trail, ref)
		for _, f := range r.types[ref].Fields {
			if _, ok := r.types[f.Type]; !ok {
				continue
			}
			if visiting[f.Type] {
				names := make([]string, 0, len(trail)+1)
				for _, t := range trail {
					names = append(names, string(t))
				}
				names = append(names, string(f.Type))
				return fmt.Errorf("%w: %s", ErrRecursiveType, strings.Join(names, " -> "))
			}
			if !visited[f.Type] {
				if err := visit(f.Type, trail); err != nil {
					return err
				}
			}
		}
		delete(visiting, ref)
		visited[ref] = true
		return nil
	}

	for _, name := range r.TypeNames() {
		if !visited[name] {
			if err := visit(name, nil); err != nil {
				return err
			}
		}
	}
	return nil
}
