// Package diagram turns workflow text into a node graph and renders it.
//
// Build is called on every streamed fragment with the text received so far,
// so it never fails: text that is not yet a renderable document yields a
// NotReady result. Each call recomputes the graph from scratch.
package diagram

import (
	"sort"

	"github.com/zjrosen/flowgen/internal/workflow"
)

// State describes what a Result can draw.
type State int

const (
	// NotReady means the text does not parse or lacks nodes or connections.
	NotReady State = iota
	// Empty means the document is valid but has no nodes.
	Empty
	// Ready means there is at least one node to draw.
	Ready
)

func (s State) String() string {
	switch s {
	case NotReady:
		return "not-ready"
	case Empty:
		return "empty"
	case Ready:
		return "ready"
	default:
		return "unknown"
	}
}

// Node is a drawable node in document order.
type Node struct {
	ID   string
	Name string
	Type string
	Pos  workflow.Position
}

// Edge links the positions of two resolved nodes.
type Edge struct {
	From    string
	To      string
	FromPos workflow.Position
	ToPos   workflow.Position
}

// Result is the outcome of one Build call.
type Result struct {
	State State
	Name  string
	Nodes []Node
	Edges []Edge
	// Skipped counts target references dropped because the source or the
	// target id did not resolve, plus output slots that hold no routing
	// group at all. A streaming document routinely references nodes it has
	// not emitted yet, so skipping is not an error.
	Skipped int
	Bounds  Bounds
}

// Build parses text and derives the graph.
//
// Edges are emitted for source ids in sorted order, then output slots in
// sorted order, reading only the first routing group of each slot. When ids
// repeat, the last node with that id wins the lookup.
func Build(text string) Result {
	p, err := workflow.ParsePartial(text)
	if err != nil || !p.Renderable() {
		return Result{State: NotReady}
	}

	res := Result{Name: p.Name}
	if len(p.Nodes) == 0 {
		res.State = Empty
		return res
	}

	res.State = Ready
	res.Nodes = make([]Node, 0, len(p.Nodes))
	byID := make(map[string]workflow.Position, len(p.Nodes))
	for _, n := range p.Nodes {
		res.Nodes = append(res.Nodes, Node{ID: n.ID, Name: n.Name, Type: n.Type, Pos: n.Position})
		byID[n.ID] = n.Position
	}

	for _, sourceID := range sortedKeys(p.Connections) {
		slots := p.Connections[sourceID]
		from, sourceOK := byID[sourceID]
		for _, slot := range sortedKeys(slots) {
			groups := slots[slot]
			if len(groups) == 0 {
				res.Skipped++
				continue
			}
			for _, target := range groups[0] {
				to, targetOK := byID[target.Node]
				if !sourceOK || !targetOK {
					res.Skipped++
					continue
				}
				res.Edges = append(res.Edges, Edge{From: sourceID, To: target.Node, FromPos: from, ToPos: to})
			}
		}
	}

	res.Bounds = boundsOf(res.Nodes)
	return res
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
