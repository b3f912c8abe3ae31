package workflow

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrNotObject is returned when the text is valid JSON but not an object.
	ErrNotObject = errors.New("workflow: document is not a JSON object")
	// ErrMissingNodes is returned when the document has no usable nodes array.
	ErrMissingNodes = errors.New("workflow: document has no nodes")
	// ErrMissingConnections is returned when the document has no usable connections object.
	ErrMissingConnections = errors.New("workflow: document has no connections")
)

// Partial is a document decoded with presence flags for each root field.
// During streaming most texts are incomplete, so callers treat any error from
// ParsePartial as "not yet renderable" rather than as a failure.
type Partial struct {
	Document
	HasName        bool
	HasNodes       bool
	HasConnections bool
}

// Renderable reports whether both nodes and connections were present.
func (p Partial) Renderable() bool {
	return p.HasNodes && p.HasConnections
}

// ParsePartial decodes text into a Partial. It fails on invalid JSON, on a
// non-object root, and on root fields whose shape does not match the
// document model. A field that is absent or null is reported through its
// presence flag, not as an error.
func ParsePartial(text string) (Partial, error) {
	var root map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &root); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return Partial{}, ErrNotObject
		}
		return Partial{}, err
	}
	if root == nil {
		return Partial{}, ErrNotObject
	}

	var p Partial
	if raw, ok := present(root, "name"); ok {
		// A non-string name is tolerated; it only affects the export file name.
		if err := json.Unmarshal(raw, &p.Name); err == nil {
			p.HasName = true
		}
	}
	if raw, ok := present(root, "nodes"); ok {
		if err := json.Unmarshal(raw, &p.Nodes); err != nil {
			return Partial{}, fmt.Errorf("decode nodes: %w", err)
		}
		p.HasNodes = true
	}
	if raw, ok := present(root, "connections"); ok {
		if err := json.Unmarshal(raw, &p.Connections); err != nil {
			return Partial{}, fmt.Errorf("decode connections: %w", err)
		}
		p.HasConnections = true
	}
	return p, nil
}

// Parse decodes a complete document, requiring nodes and connections.
func Parse(text string) (Document, error) {
	p, err := ParsePartial(text)
	if err != nil {
		return Document{}, err
	}
	if !p.HasNodes {
		return Document{}, ErrMissingNodes
	}
	if !p.HasConnections {
		return Document{}, ErrMissingConnections
	}
	return p.Document, nil
}

func present(root map[string]json.RawMessage, key string) (json.RawMessage, bool) {
	raw, ok := root[key]
	if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, false
	}
	return raw, true
}

// Validate reports whether text is a syntactically valid JSON value.
func Validate(text string) error {
	if json.Valid([]byte(text)) {
		return nil
	}
	// Unmarshal into a RawMessage to surface the decoder's position-bearing error.
	var v json.RawMessage
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return err
	}
	return errors.New("workflow: invalid JSON")
}
