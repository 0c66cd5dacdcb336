package snapshot

import (
	"fmt"

	"github.com/specialistvlad/nodegraph/internal/graph"
	"github.com/specialistvlad/nodegraph/internal/registry"
	"github.com/zclconf/go-cty/cty"
	ctymsgpack "github.com/zclconf/go-cty/cty/msgpack"
)

type pinRecord struct {
	Name        string      `msgpack:"name"`
	Direction   int8        `msgpack:"dir"`
	Storage     int8        `msgpack:"storage"`
	Type        string      `msgpack:"type"`
	Domain      []string    `msgpack:"domain,omitempty"`
	Binding     string      `msgpack:"binding,omitempty"`
	Expanded    bool        `msgpack:"expanded,omitempty"`
	Synthesized bool        `msgpack:"synth,omitempty"`
	Value       []byte      `msgpack:"value,omitempty"`
	Children    []pinRecord `msgpack:"children,omitempty"`
}

type nodeRecord struct {
	Name        string      `msgpack:"name"`
	DisplayName string      `msgpack:"display,omitempty"`
	Type        string      `msgpack:"type,omitempty"`
	X           float64     `msgpack:"x"`
	Y           float64     `msgpack:"y"`
	DynamicPins bool        `msgpack:"dynamic,omitempty"`
	Pins        []pinRecord `msgpack:"pins,omitempty"`
}

type linkRecord struct {
	From string `msgpack:"from"`
	To   string `msgpack:"to"`
}

type graphRecord struct {
	Name   string        `msgpack:"name"`
	Nodes  []nodeRecord  `msgpack:"nodes,omitempty"`
	Links  []linkRecord  `msgpack:"links,omitempty"`
	Graphs []graphRecord `msgpack:"graphs,omitempty"`
}

// encodeValue writes v with its type. cty.NilVal encodes as no bytes.
func encodeValue(v cty.Value) ([]byte, error) {
	if v == cty.NilVal {
		return nil, nil
	}
	return ctymsgpack.Marshal(v, cty.DynamicPseudoType)
}

func decodeValue(b []byte) (cty.Value, error) {
	if len(b) == 0 {
		return cty.NilVal, nil
	}
	return ctymsgpack.Unmarshal(b, cty.DynamicPseudoType)
}

func pinToRecord(s graph.PinState) (pinRecord, error) {
	value, err := encodeValue(s.Value)
	if err != nil {
		return pinRecord{}, fmt.Errorf("failed to encode value of pin %q: %w", s.Name, err)
	}
	rec := pinRecord{
		Name:        s.Name,
		Direction:   int8(s.Direction),
		Storage:     int8(s.Storage),
		Type:        string(s.Type),
		Domain:      s.Domain,
		Binding:     s.Binding,
		Expanded:    s.Expanded,
		Synthesized: s.Synthesized,
		Value:       value,
	}
	for _, c := range s.Children {
		cr, err := pinToRecord(c)
		if err != nil {
			return pinRecord{}, err
		}
		rec.Children = append(rec.Children, cr)
	}
	return rec, nil
}

func (r pinRecord) state() (graph.PinState, error) {
	value, err := decodeValue(r.Value)
	if err != nil {
		return graph.PinState{}, fmt.Errorf("failed to decode value of pin %q: %w", r.Name, err)
	}
	s := graph.PinState{
		Name:        r.Name,
		Direction:   graph.Direction(r.Direction),
		Storage:     graph.Storage(r.Storage),
		Type:        registry.TypeRef(r.Type),
		Domain:      r.Domain,
		Binding:     r.Binding,
		Expanded:    r.Expanded,
		Synthesized: r.Synthesized,
		Value:       value,
	}
	for _, cr := range r.Children {
		c, err := cr.state()
		if err != nil {
			return graph.PinState{}, err
		}
		s.Children = append(s.Children, c)
	}
	return s, nil
}

func nodeToRecord(s graph.NodeState) (nodeRecord, error) {
	rec := nodeRecord{
		Name:        s.Name,
		DisplayName: s.DisplayName,
		Type:        s.Type,
		X:           s.Position.X,
		Y:           s.Position.Y,
		DynamicPins: s.DynamicPins,
	}
	for _, p := range s.Pins {
		pr, err := pinToRecord(p)
		if err != nil {
			return nodeRecord{}, fmt.Errorf("node %q: %w", s.Name, err)
		}
		rec.Pins = append(rec.Pins, pr)
	}
	return rec, nil
}

func (r nodeRecord) state() (graph.NodeState, error) {
	s := graph.NodeState{
		Name:        r.Name,
		DisplayName: r.DisplayName,
		Type:        r.Type,
		Position:    graph.Position{X: r.X, Y: r.Y},
		DynamicPins: r.DynamicPins,
	}
	for _, pr := range r.Pins {
		p, err := pr.state()
		if err != nil {
			return graph.NodeState{}, fmt.Errorf("node %q: %w", r.Name, err)
		}
		s.Pins = append(s.Pins, p)
	}
	return s, nil
}

func graphToRecord(s graph.GraphState) (graphRecord, error) {
	rec := graphRecord{Name: s.Name}
	for _, n := range s.Nodes {
		nr, err := nodeToRecord(n)
		if err != nil {
			return graphRecord{}, fmt.Errorf("graph %q: %w", s.Name, err)
		}
		rec.Nodes = append(rec.Nodes, nr)
	}
	for _, l := range s.Links {
		rec.Links = append(rec.Links, linkRecord(l))
	}
	for _, sub := range s.Graphs {
		sr, err := graphToRecord(sub)
		if err != nil {
			return graphRecord{}, err
		}
		rec.Graphs = append(rec.Graphs, sr)
	}
	return rec, nil
}

func (r graphRecord) state() (graph.GraphState, error) {
	s := graph.GraphState{Name: r.Name}
	for _, nr := range r.Nodes {
		n, err := nr.state()
		if err != nil {
			return graph.GraphState{}, fmt.Errorf("graph %q: %w", r.Name, err)
		}
		s.Nodes = append(s.Nodes, n)
	}
	for _, lr := range r.Links {
		s.Links = append(s.Links, graph.LinkState(lr))
	}
	for _, sr := range r.Graphs {
		sub, err := sr.state()
		if err != nil {
			return graph.GraphState{}, err
		}
		s.Graphs = append(s.Graphs, sub)
	}
	return s, nil
}
