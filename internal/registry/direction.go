package registry

import "fmt"

// Direction tells whether a pin consumes or produces data.
type Direction int

const (
	Input Direction = iota
	Output
)

func (d Direction) String() string {
	switch d {
	case Input:
		return "input"
	case Output:
		return "output"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// ParseDirection maps the HCL spelling of a direction to its value.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "input":
		return Input, nil
	case "output":
		return Output, nil
	default:
		return 0, fmt.Errorf("unknown direction %q: must be 'input' or 'output'", s)
	}
}

// Storage tells how a pin holds its data.
type Storage int

const (
	// StorageValue pins carry an inline default that can be edited in place.
	StorageValue Storage = iota
	// StorageResource pins carry an indexed stream and need a data domain.
	StorageResource
)

func (s Storage) String() string {
	switch s {
	case StorageValue:
		return "value"
	case StorageResource:
		return "resource"
	default:
		return fmt.Sprintf("Storage(%d)", int(s))
	}
}

// ParseStorage maps the HCL spelling of a storage kind to its value. An empty
// string means value storage.
func ParseStorage(s string) (Storage, error) {
	switch s {
	case "", "value":
		return StorageValue, nil
	case "resource":
		return StorageResource, nil
	default:
		return 0, fmt.Errorf("unknown storage %q: must be 'value' or 'resource'", s)
	}
}
