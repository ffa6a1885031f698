package flow

import (
	"errors"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] when the node ID is
	// empty. All nodes must have non-empty identifiers.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.AddNode] when a node with the
	// same ID already exists in the graph. Node IDs must be unique.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrDuplicateSubgraphID is returned by [Graph.AddSubgraph] when a
	// subgraph with the same ID already exists.
	ErrDuplicateSubgraphID = errors.New("duplicate subgraph ID")
)

// Direction is the layout direction of the diagram or of a subgraph.
type Direction string

// Valid layout directions. TD is accepted by the notation as an alias of
// TB and is normalized away by [NormalizeDirection].
const (
	DirTB Direction = "TB" // top to bottom
	DirBT Direction = "BT" // bottom to top
	DirLR Direction = "LR" // left to right
	DirRL Direction = "RL" // right to left
)

// NormalizeDirection maps the notation's direction tokens onto the four
// canonical values. "TD" means the same as "TB"; unknown or empty input
// falls back to TB.
func NormalizeDirection(s string) Direction {
	switch Direction(s) {
	case DirTB, DirBT, DirLR, DirRL:
		return Direction(s)
	case "TD":
		return DirTB
	default:
		return DirTB
	}
}

// Shape identifies the delimiter pair a node is drawn and serialized with.
type Shape int

// Node shapes, in notation terms.
const (
	ShapeDefault      Shape = iota // bare id, plain rectangle
	ShapeSquare                    // [text]
	ShapeRound                     // (text)
	ShapeStadium                   // ([text])
	ShapeCircle                    // ((text))
	ShapeDoubleCircle              // (((text)))
	ShapeDiamond                   // {text}
	ShapeHexagon                   // {{text}}
	ShapeCylinder                  // [(text)]
	ShapeSubroutine                // [[text]]
	ShapeTrapezoid                 // [/text\]
	ShapeInvTrapezoid              // [\text/]
	ShapeLeanRight                 // [/text/]
	ShapeLeanLeft                  // [\text\]
	ShapeOdd                       // >text]
)

// ArrowType is the terminal glyph semantics of a link.
type ArrowType int

// Arrow types.
const (
	ArrowOpen   ArrowType = iota // no terminal glyph
	ArrowPoint                   // >
	ArrowCircle                  // o
	ArrowCross                   // x
)

// Stroke is the line style of a link.
type Stroke int

// Stroke styles.
const (
	StrokeNormal Stroke = iota
	StrokeThick         // drawn with =
	StrokeDotted        // drawn with .
)

// TextKind tags how a label was written in the source notation, so the
// encoder can reproduce the same form.
type TextKind int

// Label markup kinds.
const (
	TextPlain    TextKind = iota // bare words
	TextQuoted                   // "..."
	TextMarkdown                 // "`...`"
)

// Text is a label with its markup kind.
type Text struct {
	Value string
	Kind  TextKind
}

// Node is a vertex of the diagram. The zero value is not usable; ID must
// be set before adding to a Graph.
type Node struct {
	ID    string
	Shape Shape
	Text  *Text // nil when the node was never given a label

	// ShapeData is the raw contents of an @{...} block, passed through
	// verbatim. The model does not interpret it.
	ShapeData string

	// Classes are the style class names assigned to the node, in
	// assignment order with duplicates suppressed.
	Classes []string

	// Props is an opaque key-value passthrough for callers layering extra
	// data onto nodes. The codec never touches it.
	Props map[string]string
}

// AddClass appends a class name to the node, suppressing duplicates.
func (n *Node) AddClass(name string) {
	if name == "" || slices.Contains(n.Classes, name) {
		return
	}
	n.Classes = append(n.Classes, name)
}

// Link is a directed connection between two node ids.
//
// Length is the notation's extra-dash count. Decoding "-->" yields 1 and
// every additional dash adds one; the codec package owns the exact
// dash-count formulas. Length is always at least 1 on decoded links.
type Link struct {
	ID     string // optional explicit link id ("e1@-->" form)
	From   string
	To     string
	Arrow  ArrowType
	Stroke Stroke
	Length int
	Text   *Text // nil for unlabeled links
}

// Subgraph is a named grouping of node ids. Membership is exclusive: a
// node belongs to at most one subgraph, enforced by [Graph.MoveToSubgraph].
// The member list preserves insertion order.
type Subgraph struct {
	ID        string
	Title     string
	Direction Direction // empty when the subgraph has no direction override
	Members   []string
}

// ClassDef maps a class name to its style declarations, each a "key:value"
// string kept verbatim.
type ClassDef struct {
	Name   string
	Styles []string
}

// Click is an interaction binding for a node: either an href (with an
// optional link target) or a named callback with a raw argument string.
type Click struct {
	NodeID   string
	Href     string
	Target   string
	Callback string
	Args     string
}

// DefaultLinkIndex is the sentinel index for a link style that applies to
// every link without an explicit style of its own.
const DefaultLinkIndex = -1

// LinkStyle is a style declaration for the link at a given index.
type LinkStyle struct {
	Styles      []string
	Interpolate string // optional curve interpolation mode
}

// Graph is the canonical flowchart model. The zero value is not usable;
// use [New]. Graph is not safe for concurrent use.
type Graph struct {
	direction Direction

	nodes map[string]*Node
	order []string // node declaration order

	links []*Link

	subgraphs []*Subgraph
	memberOf  map[string]string // node id -> subgraph id

	classes    map[string]*ClassDef
	classOrder []string

	clicks     map[string]*Click
	clickOrder []string

	linkStyles map[int]*LinkStyle // DefaultLinkIndex holds the default style

	accTitle string
	accDescr string
}

// New creates an empty graph with the default top-to-bottom direction.
func New() *Graph {
	return &Graph{
		direction:  DirTB,
		nodes:      make(map[string]*Node),
		memberOf:   make(map[string]string),
		classes:    make(map[string]*ClassDef),
		clicks:     make(map[string]*Click),
		linkStyles: make(map[int]*LinkStyle),
	}
}

// Direction returns the graph-level layout direction.
func (g *Graph) Direction() Direction { return g.direction }

// SetDirection sets the graph-level layout direction, normalizing aliases.
func (g *Graph) SetDirection(s string) { g.direction = NormalizeDirection(s) }

// AddNode adds a node to the graph. Returns ErrInvalidNodeID if the ID is
// empty or ErrDuplicateNodeID if a node with the same ID already exists.
// Use [Graph.EnsureNode] for the permissive reference-creates-node policy.
func (g *Graph) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := g.nodes[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	node := &n
	g.nodes[node.ID] = node
	g.order = append(g.order, node.ID)
	return nil
}

// EnsureNode returns the node with the given id, creating a default-shaped
// unlabeled node if none exists. Referencing an undeclared node in a link
// or subgraph is never an error in the notation; this is the hook that
// implements that policy. Returns nil for an empty id.
func (g *Graph) EnsureNode(id string) *Node {
	if id == "" {
		return nil
	}
	if n, ok := g.nodes[id]; ok {
		return n
	}
	n := &Node{ID: id}
	g.nodes[id] = n
	g.order = append(g.order, id)
	return n
}

// Node returns the node with the given ID and true, or nil and false.
// The pointer refers to the node held by the graph; mutations are visible.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Nodes returns all nodes in declaration order.
func (g *Graph) Nodes() []*Node {
	nodes := make([]*Node, 0, len(g.order))
	for _, id := range g.order {
		nodes = append(nodes, g.nodes[id])
	}
	return nodes
}

// NodeIDs returns all node ids in declaration order.
func (g *Graph) NodeIDs() []string { return slices.Clone(g.order) }

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// RemoveNode removes the node, every link touching it, its subgraph
// membership, and its click binding. Removing an absent id is a no-op.
func (g *Graph) RemoveNode(id string) {
	if _, ok := g.nodes[id]; !ok {
		return
	}
	delete(g.nodes, id)
	g.order = slices.DeleteFunc(g.order, func(s string) bool { return s == id })
	g.links = slices.DeleteFunc(g.links, func(l *Link) bool { return l.From == id || l.To == id })
	g.removeMember(id)
	if _, ok := g.clicks[id]; ok {
		delete(g.clicks, id)
		g.clickOrder = slices.DeleteFunc(g.clickOrder, func(s string) bool { return s == id })
	}
}

// AddLink appends a link, auto-creating endpoint nodes that do not exist
// yet. Length values below 1 are floored to 1. Returns the stored link.
func (g *Graph) AddLink(l Link) *Link {
	g.EnsureNode(l.From)
	g.EnsureNode(l.To)
	if l.Length < 1 {
		l.Length = 1
	}
	link := &l
	g.links = append(g.links, link)
	return link
}

// Links returns the graph's links in declaration order. The slice is a
// copy but the link pointers are live; mutations are visible to the graph.
func (g *Graph) Links() []*Link { return slices.Clone(g.links) }

// LinkCount returns the number of links in the graph.
func (g *Graph) LinkCount() int { return len(g.links) }

// FindLink returns the first link from→to in declaration order, or nil.
func (g *Graph) FindLink(from, to string) *Link {
	for _, l := range g.links {
		if l.From == from && l.To == to {
			return l
		}
	}
	return nil
}

// RemoveLink removes the first link from→to and reports whether one was
// found.
func (g *Graph) RemoveLink(from, to string) bool {
	for i, l := range g.links {
		if l.From == from && l.To == to {
			g.links = slices.Delete(g.links, i, i+1)
			return true
		}
	}
	return false
}

// RemoveLinksFunc removes every link for which pred returns true and
// returns how many were removed.
func (g *Graph) RemoveLinksFunc(pred func(*Link) bool) int {
	before := len(g.links)
	g.links = slices.DeleteFunc(g.links, pred)
	return before - len(g.links)
}

// Children returns the targets of the node's outgoing links, in link
// declaration order. Repeated targets appear once per link.
func (g *Graph) Children(id string) []string {
	var out []string
	for _, l := range g.links {
		if l.From == id {
			out = append(out, l.To)
		}
	}
	return out
}

// Parents returns the sources of the node's incoming links, in link
// declaration order. Repeated sources appear once per link.
func (g *Graph) Parents(id string) []string {
	var in []string
	for _, l := range g.links {
		if l.To == id {
			in = append(in, l.From)
		}
	}
	return in
}

// OutDegree returns the number of outgoing links from the node.
func (g *Graph) OutDegree(id string) int {
	n := 0
	for _, l := range g.links {
		if l.From == id {
			n++
		}
	}
	return n
}

// InDegree returns the number of incoming links to the node.
func (g *Graph) InDegree(id string) int {
	n := 0
	for _, l := range g.links {
		if l.To == id {
			n++
		}
	}
	return n
}

// DistinctParents returns the number of distinct sources with a link into
// the node. The compact-chain encoder uses this to refuse merging a link
// whose target has more than one feeder.
func (g *Graph) DistinctParents(id string) int {
	seen := make(map[string]struct{})
	for _, l := range g.links {
		if l.To == id {
			seen[l.From] = struct{}{}
		}
	}
	return len(seen)
}

// AddSubgraph adds a subgraph and moves its listed members into it,
// enforcing exclusive membership. Member nodes are auto-created as needed.
// Returns ErrDuplicateSubgraphID if the id is already taken.
func (g *Graph) AddSubgraph(sg Subgraph) (*Subgraph, error) {
	if g.SubgraphByID(sg.ID) != nil {
		return nil, ErrDuplicateSubgraphID
	}
	members := sg.Members
	sg.Members = nil
	stored := &sg
	g.subgraphs = append(g.subgraphs, stored)
	g.MoveToSubgraph(members, stored.ID)
	return stored, nil
}

// Subgraphs returns the subgraphs in declaration order. The pointers are
// live.
func (g *Graph) Subgraphs() []*Subgraph { return slices.Clone(g.subgraphs) }

// SubgraphByID returns the subgraph with the given id, or nil.
func (g *Graph) SubgraphByID(id string) *Subgraph {
	for _, sg := range g.subgraphs {
		if sg.ID == id {
			return sg
		}
	}
	return nil
}

// SubgraphOf returns the id of the subgraph the node belongs to, or ""
// when the node is at the top level.
func (g *Graph) SubgraphOf(id string) string { return g.memberOf[id] }

// MoveToSubgraph moves the nodes into the named subgraph, removing each
// from any subgraph it previously belonged to. Nodes are auto-created;
// an unknown subgraph id is a no-op.
func (g *Graph) MoveToSubgraph(ids []string, sgID string) {
	sg := g.SubgraphByID(sgID)
	if sg == nil {
		return
	}
	for _, id := range ids {
		if g.EnsureNode(id) == nil {
			continue
		}
		g.removeMember(id)
		sg.Members = append(sg.Members, id)
		g.memberOf[id] = sgID
	}
}

// removeMember drops the node from whichever subgraph currently lists it.
func (g *Graph) removeMember(id string) {
	sgID, ok := g.memberOf[id]
	if !ok {
		return
	}
	if sg := g.SubgraphByID(sgID); sg != nil {
		sg.Members = slices.DeleteFunc(sg.Members, func(s string) bool { return s == id })
	}
	delete(g.memberOf, id)
}

// SetClassDef registers or replaces a class definition. First-definition
// order is preserved for serialization.
func (g *Graph) SetClassDef(name string, styles []string) {
	if name == "" {
		return
	}
	if _, ok := g.classes[name]; !ok {
		g.classOrder = append(g.classOrder, name)
	}
	g.classes[name] = &ClassDef{Name: name, Styles: slices.Clone(styles)}
}

// ClassDefByName returns the class definition with the given name, or nil.
func (g *Graph) ClassDefByName(name string) *ClassDef { return g.classes[name] }

// ClassDefs returns all class definitions in first-definition order.
func (g *Graph) ClassDefs() []*ClassDef {
	defs := make([]*ClassDef, 0, len(g.classOrder))
	for _, name := range g.classOrder {
		defs = append(defs, g.classes[name])
	}
	return defs
}

// AssignClass adds the class name to each listed node, auto-creating
// nodes and suppressing duplicate assignments.
func (g *Graph) AssignClass(ids []string, name string) {
	for _, id := range ids {
		if n := g.EnsureNode(id); n != nil {
			n.AddClass(name)
		}
	}
}

// SetClick registers or replaces the click binding for a node. The node
// is auto-created. First-binding order is preserved for serialization.
func (g *Graph) SetClick(c Click) {
	if g.EnsureNode(c.NodeID) == nil {
		return
	}
	if _, ok := g.clicks[c.NodeID]; !ok {
		g.clickOrder = append(g.clickOrder, c.NodeID)
	}
	stored := c
	g.clicks[c.NodeID] = &stored
}

// ClickFor returns the click binding for the node, or nil.
func (g *Graph) ClickFor(id string) *Click { return g.clicks[id] }

// Clicks returns all click bindings in first-binding order.
func (g *Graph) Clicks() []*Click {
	clicks := make([]*Click, 0, len(g.clickOrder))
	for _, id := range g.clickOrder {
		clicks = append(clicks, g.clicks[id])
	}
	return clicks
}

// SetLinkStyle registers or replaces the style for the link at the given
// index. Use [DefaultLinkIndex] for the default style applied to all
// links. Indices are not bounds-checked against the current link count;
// the notation allows styling links declared later.
func (g *Graph) SetLinkStyle(index int, style LinkStyle) {
	style.Styles = slices.Clone(style.Styles)
	g.linkStyles[index] = &style
}

// LinkStyleAt returns the style registered for the index, or nil.
func (g *Graph) LinkStyleAt(index int) *LinkStyle { return g.linkStyles[index] }

// LinkStyleIndices returns the explicitly styled link indices in ascending
// order, excluding [DefaultLinkIndex].
func (g *Graph) LinkStyleIndices() []int {
	var idx []int
	for i := range g.linkStyles {
		if i != DefaultLinkIndex {
			idx = append(idx, i)
		}
	}
	slices.Sort(idx)
	return idx
}

// SetAccTitle sets the accessibility title.
func (g *Graph) SetAccTitle(s string) { g.accTitle = s }

// AccTitle returns the accessibility title, or "".
func (g *Graph) AccTitle() string { return g.accTitle }

// SetAccDescription sets the accessibility description.
func (g *Graph) SetAccDescription(s string) { g.accDescr = s }

// AccDescription returns the accessibility description, or "".
func (g *Graph) AccDescription() string { return g.accDescr }

// Clone returns a deep copy of the graph sharing no mutable state with
// the original. Every collection and every pointed-to record is copied.
func (g *Graph) Clone() *Graph {
	c := New()
	c.direction = g.direction
	c.accTitle = g.accTitle
	c.accDescr = g.accDescr

	for _, id := range g.order {
		n := *g.nodes[id]
		n.Classes = slices.Clone(n.Classes)
		if n.Text != nil {
			t := *n.Text
			n.Text = &t
		}
		if n.Props != nil {
			props := make(map[string]string, len(n.Props))
			for k, v := range n.Props {
				props[k] = v
			}
			n.Props = props
		}
		c.nodes[id] = &n
		c.order = append(c.order, id)
	}

	for _, l := range g.links {
		cl := *l
		if cl.Text != nil {
			t := *cl.Text
			cl.Text = &t
		}
		c.links = append(c.links, &cl)
	}

	for _, sg := range g.subgraphs {
		cs := *sg
		cs.Members = slices.Clone(sg.Members)
		c.subgraphs = append(c.subgraphs, &cs)
	}
	for id, sgID := range g.memberOf {
		c.memberOf[id] = sgID
	}

	for _, name := range g.classOrder {
		def := *g.classes[name]
		def.Styles = slices.Clone(def.Styles)
		c.classes[name] = &def
		c.classOrder = append(c.classOrder, name)
	}

	for _, id := range g.clickOrder {
		click := *g.clicks[id]
		c.clicks[id] = &click
		c.clickOrder = append(c.clickOrder, id)
	}

	for i, style := range g.linkStyles {
		cs := *style
		cs.Styles = slices.Clone(style.Styles)
		c.linkStyles[i] = &cs
	}

	return c
}
