// Package diagram is a thin fluent façade over the flowchart model,
// codec, and surgery packages, for callers that want one handle instead
// of composing the pieces themselves.
package diagram

import (
	"github.com/matzehuels/flowmark/pkg/codec"
	"github.com/matzehuels/flowmark/pkg/flow"
	"github.com/matzehuels/flowmark/pkg/flow/surgery"
)

// Diagram wraps a flowchart graph with chainable editing operations.
// All mutating methods return the receiver. Diagram is not safe for
// concurrent use.
type Diagram struct {
	g *flow.Graph
}

// New creates a diagram over an empty graph.
func New() *Diagram { return &Diagram{g: flow.New()} }

// FromGraph wraps an existing graph. The diagram does not copy it; use
// [Diagram.Clone] for an independent handle.
func FromGraph(g *flow.Graph) *Diagram { return &Diagram{g: g} }

// Decode parses flowchart text into a new diagram.
func Decode(src string) (*Diagram, error) {
	g, err := codec.Decode(src)
	if err != nil {
		return nil, err
	}
	return &Diagram{g: g}, nil
}

// Graph returns the underlying graph.
func (d *Diagram) Graph() *flow.Graph { return d.g }

// Encode serializes the diagram to canonical text.
func (d *Diagram) Encode(opts codec.Options) string { return codec.Encode(d.g, opts) }

// Clone returns an independent deep copy of the diagram.
func (d *Diagram) Clone() *Diagram { return &Diagram{g: d.g.Clone()} }

// Reachable returns the set of node ids reachable from start.
func (d *Diagram) Reachable(start string) map[string]bool { return surgery.Reachable(d.g, start) }

// Ancestors returns the set of node ids that can reach target.
func (d *Diagram) Ancestors(target string) map[string]bool { return surgery.Ancestors(d.g, target) }

// ShortestPath returns a minimum-hop path from source to target.
func (d *Diagram) ShortestPath(source, target string) []string {
	return surgery.ShortestPath(d.g, source, target)
}

// LinearChain returns the branch-free run from start to end, if any.
func (d *Diagram) LinearChain(start, end string) []string {
	return surgery.LinearChain(d.g, start, end)
}

// InsertBetween inserts a new node on the source→target link.
func (d *Diagram) InsertBetween(newID, source, target, text string) *Diagram {
	surgery.InsertBetween(d.g, newID, source, target, text)
	return d
}

// RemoveAndReconnect removes a node, rewiring its neighbors.
func (d *Diagram) RemoveAndReconnect(id string) *Diagram {
	surgery.RemoveAndReconnect(d.g, id)
	return d
}

// YankChain removes a run of nodes, cross-wiring its boundary.
func (d *Diagram) YankChain(ids []string) *Diagram {
	surgery.YankChain(d.g, ids)
	return d
}

// SpliceChain wires a run of nodes between source and target.
func (d *Diagram) SpliceChain(ids []string, source, target string) *Diagram {
	surgery.SpliceChain(d.g, ids, source, target)
	return d
}

// ReverseChain flips the links along a run of nodes.
func (d *Diagram) ReverseChain(ids []string) *Diagram {
	surgery.ReverseChain(d.g, ids)
	return d
}

// ExtractChain removes a run of nodes and returns it as a new diagram.
func (d *Diagram) ExtractChain(ids []string) *Diagram {
	return &Diagram{g: surgery.ExtractChain(d.g, ids)}
}

// RebaseNodes reparents a set of nodes under newParent.
func (d *Diagram) RebaseNodes(ids []string, newParent string) *Diagram {
	surgery.RebaseNodes(d.g, ids, newParent)
	return d
}
