package codec

import (
	"errors"
	"fmt"

	"github.com/matzehuels/flowmark/pkg/flow"
	"github.com/matzehuels/flowmark/pkg/grammar"
)

// ErrDecode wraps every grammar failure surfaced by [Decode]. The
// underlying parse error (with its line number) is preserved in the
// chain; use errors.As to recover a [*grammar.ParseError].
var ErrDecode = errors.New("decode failed")

// Decode parses flowchart text into a new graph.
func Decode(src string) (*flow.Graph, error) {
	g := flow.New()
	d := NewDecoder(g)
	if err := grammar.Parse(src, d); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return g, nil
}

// Decoder translates grammar callbacks into graph mutations. It performs
// no parsing of its own beyond arrow-token decomposition; the grammar
// engine drives it through the [grammar.Builder] contract.
//
// Referencing an undeclared node id in a link, subgraph, class, or click
// never fails: the node is materialized with default shape and no label,
// matching the notation's permissive semantics.
type Decoder struct {
	g *flow.Graph
}

// NewDecoder creates a decoder mutating g.
func NewDecoder(g *flow.Graph) *Decoder { return &Decoder{g: g} }

// Graph returns the graph under construction.
func (d *Decoder) Graph() *flow.Graph { return d.g }

var _ grammar.Builder = (*Decoder)(nil)

// SetDirection records the diagram direction, normalizing aliases.
func (d *Decoder) SetDirection(dir string) { d.g.SetDirection(dir) }

// DeclareNode creates or updates a node. Only the pieces the declaration
// actually carries are applied, so repeated references never erase an
// earlier shape or label.
func (d *Decoder) DeclareNode(id string, decl grammar.NodeDecl) {
	n := d.g.EnsureNode(id)
	if n == nil {
		return
	}
	if decl.Shape != nil {
		n.Shape = *decl.Shape
	}
	if decl.Text != nil {
		t := *decl.Text
		n.Text = &t
	}
	if decl.ShapeData != "" {
		n.ShapeData = decl.ShapeData
	}
	if decl.Class != "" {
		n.AddClass(decl.Class)
	}
}

// DeclareLink adds one link per (source, target) pair, decomposing the
// raw arrow token once and stamping every pair with the same attributes.
// An explicit link id is only applied to a plain one-to-one link; the
// notation gives fan-out statements no way to name individual links.
func (d *Decoder) DeclareLink(sources, targets []string, decl grammar.LinkDecl) {
	arrow, stroke, length := DecomposeArrow(decl.ArrowRaw)
	single := len(sources) == 1 && len(targets) == 1
	for _, src := range sources {
		for _, dst := range targets {
			l := flow.Link{From: src, To: dst, Arrow: arrow, Stroke: stroke, Length: length}
			if decl.Text != nil {
				t := *decl.Text
				l.Text = &t
			}
			if single {
				l.ID = decl.ID
			}
			d.g.AddLink(l)
		}
	}
}

// DeclareSubgraph records a subgraph block. A repeated id merges into the
// existing subgraph: members move in, and a non-empty title or direction
// wins over the stored one.
func (d *Decoder) DeclareSubgraph(id string, members []string, title string, direction string) {
	var dir flow.Direction
	if direction != "" {
		dir = flow.NormalizeDirection(direction)
	}
	if _, err := d.g.AddSubgraph(flow.Subgraph{ID: id, Title: title, Direction: dir, Members: members}); err != nil {
		sg := d.g.SubgraphByID(id)
		if title != "" {
			sg.Title = title
		}
		if dir != "" {
			sg.Direction = dir
		}
		d.g.MoveToSubgraph(members, id)
	}
}

// DeclareClassDef records a class definition.
func (d *Decoder) DeclareClassDef(name string, styles []string) {
	d.g.SetClassDef(name, styles)
}

// AssignClass records a class assignment, creating nodes as needed.
func (d *Decoder) AssignClass(ids []string, name string) {
	d.g.AssignClass(ids, name)
}

// SetClickHref binds a URL to a node.
func (d *Decoder) SetClickHref(id, href, target string) {
	d.g.SetClick(flow.Click{NodeID: id, Href: href, Target: target})
}

// SetClickCallback binds a callback to a node.
func (d *Decoder) SetClickCallback(id, callback, args string) {
	d.g.SetClick(flow.Click{NodeID: id, Callback: callback, Args: args})
}

// SetLinkStyle applies the same style to every listed index.
func (d *Decoder) SetLinkStyle(indices []int, styles []string, interpolate string) {
	for _, i := range indices {
		d.g.SetLinkStyle(i, flow.LinkStyle{Styles: styles, Interpolate: interpolate})
	}
}

// SetAccTitle records the accessibility title.
func (d *Decoder) SetAccTitle(text string) { d.g.SetAccTitle(text) }

// SetAccDescription records the accessibility description.
func (d *Decoder) SetAccDescription(text string) { d.g.SetAccDescription(text) }
