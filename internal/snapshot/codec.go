package snapshot

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/nodegraph/internal/graph"
	"github.com/vmihailenco/msgpack/v5"
)

// Version is the snapshot format written by Codec.
const Version = 1

var (
	// ErrVersion is returned for snapshots written by an unknown format version.
	ErrVersion = errors.New("unsupported snapshot version")
	// ErrKind is returned when a snapshot holds a different kind of entity.
	ErrKind = errors.New("snapshot kind mismatch")
)

const (
	kindNode  = "node"
	kindPin   = "pin"
	kindGraph = "graph"
)

type envelope struct {
	Version int                `msgpack:"v"`
	Kind    string             `msgpack:"k"`
	Body    msgpack.RawMessage `msgpack:"b"`
}

// Codec implements graph.Snapshotter.
type Codec struct{}

var _ graph.Snapshotter = Codec{}

// New returns a Codec.
func New() Codec {
	return Codec{}
}

func (Codec) seal(kind string, body any) ([]byte, error) {
	raw, err := msgpack.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s snapshot: %w", kind, err)
	}
	return msgpack.Marshal(envelope{Version: Version, Kind: kind, Body: raw})
}

func (Codec) open(data []byte, kind string, body any) error {
	var env envelope
	if err := msgpack.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("failed to decode snapshot envelope: %w", err)
	}
	if env.Version != Version {
		return fmt.Errorf("%w: %d", ErrVersion, env.Version)
	}
	if env.Kind != kind {
		return fmt.Errorf("%w: want %s, got %s", ErrKind, kind, env.Kind)
	}
	if err := msgpack.Unmarshal(env.Body, body); err != nil {
		return fmt.Errorf("failed to decode %s snapshot: %w", kind, err)
	}
	return nil
}

func (c Codec) EncodeNode(s graph.NodeState) ([]byte, error) {
	rec, err := nodeToRecord(s)
	if err != nil {
		return nil, err
	}
	return c.seal(kindNode, rec)
}

func (c Codec) DecodeNode(data []byte) (graph.NodeState, error) {
	var rec nodeRecord
	if err := c.open(data, kindNode, &rec); err != nil {
		return graph.NodeState{}, err
	}
	return rec.state()
}

func (c Codec) EncodePin(s graph.PinState) ([]byte, error) {
	rec, err := pinToRecord(s)
	if err != nil {
		return nil, err
	}
	return c.seal(kindPin, rec)
}

func (c Codec) DecodePin(data []byte) (graph.PinState, error) {
	var rec pinRecord
	if err := c.open(data, kindPin, &rec); err != nil {
		return graph.PinState{}, err
	}
	return rec.state()
}

func (c Codec) EncodeGraph(s graph.GraphState) ([]byte, error) {
	rec, err := graphToRecord(s)
	if err != nil {
		return nil, err
	}
	return c.seal(kindGraph, rec)
}

func (c Codec) DecodeGraph(data []byte) (graph.GraphState, error) {
	var rec graphRecord
	if err := c.open(data, kindGraph, &rec); err != nil {
		return graph.GraphState{}, err
	}
	return rec.state()
}
