package pinpath

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// ErrInvalidPath is wrapped by every parse failure.
var ErrInvalidPath = errors.New("invalid path")

// ValidateName reports whether name can be used as a graph, node or pin name.
// Names must be non-empty, must not contain separators or control characters
// and must not have surrounding whitespace.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidPath)
	}
	if strings.TrimSpace(name) != name {
		return fmt.Errorf("%w: name %q has surrounding whitespace", ErrInvalidPath, name)
	}
	if strings.ContainsAny(name, GraphSeparator+PinSeparator) {
		return fmt.Errorf("%w: name %q contains a path separator", ErrInvalidPath, name)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return fmt.Errorf("%w: name %q contains a control character", ErrInvalidPath, name)
		}
	}
	return nil
}

// Segments splits a raw path at graph separators without interpreting the
// last segment. It is the entry point for resolvers that match a graph prefix
// first and treat the remainder as a node or pin reference.
func Segments(raw string) ([]string, error) {
	if raw == "" {
		return nil, fmt.Errorf("%w: path cannot be empty", ErrInvalidPath)
	}
	segments := strings.Split(raw, GraphSeparator)
	for _, s := range segments {
		if s == "" {
			return nil, fmt.Errorf("%w: path %q contains an empty segment", ErrInvalidPath, raw)
		}
	}
	return segments, nil
}

// ParseGraph parses a graph address such as `Setup/Helpers`.
func ParseGraph(raw string) (Address, error) {
	segments, err := Segments(raw)
	if err != nil {
		return Address{}, err
	}
	for _, s := range segments {
		if err := ValidateName(s); err != nil {
			return Address{}, err
		}
	}
	return Graph(segments...), nil
}

// ParseNode parses a node address such as `Setup/Add`.
func ParseNode(raw string) (Address, error) {
	segments, err := Segments(raw)
	if err != nil {
		return Address{}, err
	}
	if len(segments) < 2 {
		return Address{}, fmt.Errorf("%w: node path %q has no graph", ErrInvalidPath, raw)
	}
	for _, s := range segments {
		if err := ValidateName(s); err != nil {
			return Address{}, err
		}
	}
	last := len(segments) - 1
	return NodeIn(segments[:last], segments[last]), nil
}

// ParsePin parses a pin address such as `Setup/Add.Value.X`.
func ParsePin(raw string) (Address, error) {
	segments, err := Segments(raw)
	if err != nil {
		return Address{}, err
	}
	if len(segments) < 2 {
		return Address{}, fmt.Errorf("%w: pin path %q has no graph", ErrInvalidPath, raw)
	}
	last := len(segments) - 1
	for _, s := range segments[:last] {
		if err := ValidateName(s); err != nil {
			return Address{}, err
		}
	}
	node, pins, err := SplitPinChain(segments[last])
	if err != nil {
		return Address{}, err
	}
	if len(pins) == 0 {
		return Address{}, fmt.Errorf("%w: pin path %q has no pin", ErrInvalidPath, raw)
	}
	return Address{Graphs: append([]string(nil), segments[:last]...), Node: node, Pins: pins}, nil
}

// SplitPinChain splits `node.pin.subpin` into the node name and the pin chain.
func SplitPinChain(raw string) (string, []string, error) {
	parts := strings.Split(raw, PinSeparator)
	for _, p := range parts {
		if err := ValidateName(p); err != nil {
			return "", nil, err
		}
	}
	return parts[0], parts[1:], nil
}
