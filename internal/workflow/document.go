// Package workflow defines the n8n-style workflow document produced by the
// generator and the text helpers that clean, validate and export it.
package workflow

import (
	"encoding/json"
	"fmt"
)

// Document is the root workflow value. It is always replaced wholesale on a
// successful parse and never patched field by field.
type Document struct {
	Name        string      `json:"name"`
	Nodes       []Node      `json:"nodes"`
	Connections Connections `json:"connections"`
}

// Node is one step of the workflow graph. IDs are supplied by the upstream
// model and are expected, but not guaranteed, to be unique.
type Node struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Type        string         `json:"type"`
	TypeVersion float64        `json:"typeVersion"`
	Position    Position       `json:"position"`
	Parameters  map[string]any `json:"parameters"`
}

// Connections maps a source node id to its output slots. Each slot holds
// routing groups, and each group lists the target references.
//
//	{"<sourceId>": {"main": [[{"node": "<targetId>", "type": "main", "index": 0}]]}}
type Connections map[string]map[string][][]Target

// Target is one reference from an output slot to another node's input.
type Target struct {
	Node  string `json:"node"`
	Type  string `json:"type,omitempty"`
	Index int    `json:"index"`
}

// UnmarshalJSON decodes each field on its own. A field holding an unexpected
// JSON type decodes as its zero value, so a stray "typeVersion": "1" or
// "parameters": [] does not hide the rest of the graph. The entry itself
// must still be an object or null.
func (n *Node) UnmarshalJSON(data []byte) error {
	fields, err := objectFields(data)
	if err != nil {
		return fmt.Errorf("decode node: %w", err)
	}
	*n = Node{}
	looseField(fields, "id", &n.ID)
	looseField(fields, "name", &n.Name)
	looseField(fields, "type", &n.Type)
	looseField(fields, "typeVersion", &n.TypeVersion)
	looseField(fields, "position", &n.Position)
	looseField(fields, "parameters", &n.Parameters)
	return nil
}

// UnmarshalJSON decodes a target reference with the same field tolerance as
// Node. Only "node" matters for drawing edges.
func (t *Target) UnmarshalJSON(data []byte) error {
	fields, err := objectFields(data)
	if err != nil {
		return fmt.Errorf("decode target: %w", err)
	}
	*t = Target{}
	looseField(fields, "node", &t.Node)
	looseField(fields, "type", &t.Type)
	looseField(fields, "index", &t.Index)
	return nil
}

func objectFields(data []byte) (map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

func looseField[T any](fields map[string]json.RawMessage, key string, dst *T) {
	raw, ok := fields[key]
	if !ok {
		return
	}
	var v T
	if err := json.Unmarshal(raw, &v); err == nil {
		*dst = v
	}
}

// Position is a canvas coordinate pair.
type Position struct {
	X float64
	Y float64
}

// UnmarshalJSON accepts an [x, y] array. Missing or non-numeric coordinates
// decode as zero, so one bad node does not make the whole document unreadable.
func (p *Position) UnmarshalJSON(data []byte) error {
	*p = Position{}
	var coords []json.RawMessage
	if err := json.Unmarshal(data, &coords); err != nil {
		return nil
	}
	if len(coords) > 0 {
		_ = json.Unmarshal(coords[0], &p.X)
	}
	if len(coords) > 1 {
		_ = json.Unmarshal(coords[1], &p.Y)
	}
	return nil
}

// MarshalJSON writes the position back as an [x, y] array.
func (p Position) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{p.X, p.Y})
}
