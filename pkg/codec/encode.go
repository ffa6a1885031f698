package codec

import (
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/flowmark/pkg/flow"
)

// Options configures the encoder.
type Options struct {
	// Indent is the number of spaces per indentation level. Zero means
	// the default of 4. Ignored when Tabs is set.
	Indent int

	// Tabs indents with tab characters instead of spaces.
	Tabs bool

	// SortNodes emits nodes in alphabetical id order instead of
	// declaration order. Link order is always declaration order.
	SortNodes bool

	// CompactChains collapses runs of links into single lines
	// (A --> B --> C) where the run is genuinely linear. A link whose
	// target has more than one distinct incoming source is never merged,
	// so the compact form cannot suggest a linearity the graph lacks.
	CompactChains bool

	// InlineClasses renders a node's single class as a ":::name" suffix
	// on its declaration. Nodes carrying several classes always use
	// separate class statements.
	InlineClasses bool
}

// shapeDelimiters maps every shape to its delimiter pair.
var shapeDelimiters = map[flow.Shape][2]string{
	flow.ShapeSquare:       {"[", "]"},
	flow.ShapeRound:        {"(", ")"},
	flow.ShapeStadium:      {"([", "])"},
	flow.ShapeCircle:       {"((", "))"},
	flow.ShapeDoubleCircle: {"(((", ")))"},
	flow.ShapeDiamond:      {"{", "}"},
	flow.ShapeHexagon:      {"{{", "}}"},
	flow.ShapeCylinder:     {"[(", ")]"},
	flow.ShapeSubroutine:   {"[[", "]]"},
	flow.ShapeTrapezoid:    {"[/", "\\]"},
	flow.ShapeInvTrapezoid: {"[\\", "/]"},
	flow.ShapeLeanRight:    {"[/", "/]"},
	flow.ShapeLeanLeft:     {"[\\", "\\]"},
	flow.ShapeOdd:          {">", "]"},
}

// Encode serializes the graph to canonical flowchart text. It is total:
// any well-formed graph encodes without error. The output decodes back to
// an equivalent graph, and re-encoding that graph reproduces the text
// byte for byte.
func Encode(g *flow.Graph, opts Options) string {
	e := &encoder{g: g, opts: opts, indent: indentUnit(opts)}
	return e.run()
}

func indentUnit(opts Options) string {
	if opts.Tabs {
		return "\t"
	}
	n := opts.Indent
	if n <= 0 {
		n = 4
	}
	return strings.Repeat(" ", n)
}

type encoder struct {
	g      *flow.Graph
	opts   Options
	indent string
	b      strings.Builder

	// emitOrder records node ids in the order their statements appear,
	// which is the declaration order a re-decode will observe. Class
	// grouping iterates it so that grouped statements stay stable across
	// round trips even under SortNodes.
	emitOrder []string
}

func (e *encoder) run() string {
	e.b.WriteString("flowchart " + string(e.g.Direction()) + "\n")

	if t := e.g.AccTitle(); t != "" {
		e.line(1, "accTitle: "+t)
	}
	if d := e.g.AccDescription(); d != "" {
		e.line(1, "accDescr: "+d)
	}

	e.writeNodes()
	e.writeSubgraphs()
	e.writeLinks()
	e.writeClassDefs()
	e.writeClassAssignments()
	e.writeClicks()
	e.writeLinkStyles()

	return e.b.String()
}

func (e *encoder) line(level int, s string) {
	e.b.WriteString(strings.Repeat(e.indent, level) + s + "\n")
}

// orderIDs returns ids ordered per the SortNodes option.
func (e *encoder) orderIDs(ids []string) []string {
	ids = slices.Clone(ids)
	if e.opts.SortNodes {
		slices.Sort(ids)
	}
	return ids
}

// writeNodes emits a statement for every top-level node. Subgraph members
// are emitted inside their block instead.
func (e *encoder) writeNodes() {
	for _, id := range e.orderIDs(e.g.NodeIDs()) {
		if e.g.SubgraphOf(id) != "" {
			continue
		}
		n, _ := e.g.Node(id)
		e.line(1, e.nodeStatement(n))
		e.emitOrder = append(e.emitOrder, id)
	}
}

func (e *encoder) writeSubgraphs() {
	for _, sg := range e.g.Subgraphs() {
		header := "subgraph " + sg.ID
		if sg.Title != "" {
			header += " [" + encodeTitle(sg.Title) + "]"
		}
		e.line(1, header)
		if sg.Direction != "" {
			e.line(2, "direction "+string(sg.Direction))
		}
		for _, id := range e.orderIDs(sg.Members) {
			n, ok := e.g.Node(id)
			if !ok {
				continue
			}
			e.line(2, e.nodeStatement(n))
			e.emitOrder = append(e.emitOrder, id)
		}
		e.line(1, "end")
	}
}

// nodeStatement renders a node's full declaration: id, delimited label,
// shape data, and (in inline mode) a single class suffix.
func (e *encoder) nodeStatement(n *flow.Node) string {
	stmt := n.ID
	if delims, ok := shapeDelimiters[n.Shape]; ok || n.Text != nil {
		if !ok {
			// Labeled node with the default shape; square is its
			// canonical written form.
			delims = shapeDelimiters[flow.ShapeSquare]
		}
		stmt += delims[0] + encodeLabel(n.Text, n.ID, delims[1]) + delims[1]
	}
	if n.ShapeData != "" {
		stmt += "@{ " + n.ShapeData + " }"
	}
	if e.opts.InlineClasses && len(n.Classes) == 1 {
		stmt += ":::" + n.Classes[0]
	}
	return stmt
}

// arrowPart renders the arrow token and optional label of a link,
// without the surrounding node references.
func arrowPart(l *flow.Link) string {
	s := " "
	if l.ID != "" {
		s += l.ID + "@"
	}
	s += ComposeArrow(l.Arrow, l.Stroke, l.Length)
	if l.Text != nil {
		s += "|" + encodeLabel(l.Text, "", "|") + "|"
	}
	return s + " "
}

func (e *encoder) writeLinks() {
	links := e.g.Links()
	for i := 0; i < len(links); {
		l := links[i]
		stmt := l.From + arrowPart(l) + l.To
		tail := l.To
		j := i + 1
		for e.opts.CompactChains && j < len(links) &&
			links[j].From == tail && e.g.DistinctParents(links[j].To) <= 1 {
			stmt += arrowPart(links[j]) + links[j].To
			tail = links[j].To
			j++
		}
		e.line(1, stmt)
		i = j
	}
}

func (e *encoder) writeClassDefs() {
	for _, def := range e.g.ClassDefs() {
		e.line(1, "classDef "+def.Name+" "+strings.Join(def.Styles, ","))
	}
}

// writeClassAssignments emits grouped class statements. In inline mode
// single-class nodes were already annotated on their declarations and
// only multi-class nodes appear here.
func (e *encoder) writeClassAssignments() {
	var classOrder []string
	byClass := make(map[string][]string)
	for _, id := range e.emitOrder {
		n, ok := e.g.Node(id)
		if !ok {
			continue
		}
		if e.opts.InlineClasses && len(n.Classes) == 1 {
			continue
		}
		for _, class := range n.Classes {
			if _, seen := byClass[class]; !seen {
				classOrder = append(classOrder, class)
			}
			byClass[class] = append(byClass[class], id)
		}
	}
	for _, class := range classOrder {
		e.line(1, "class "+strings.Join(byClass[class], ",")+" "+class)
	}
}

func (e *encoder) writeClicks() {
	for _, c := range e.g.Clicks() {
		switch {
		case c.Href != "":
			stmt := "click " + c.NodeID + ` href "` + c.Href + `"`
			if c.Target != "" {
				stmt += " " + c.Target
			}
			e.line(1, stmt)
		case c.Callback != "":
			e.line(1, "click "+c.NodeID+" call "+c.Callback+"("+c.Args+")")
		}
	}
}

func (e *encoder) writeLinkStyles() {
	e.linkStyleLine("default", e.g.LinkStyleAt(flow.DefaultLinkIndex))
	for _, i := range e.g.LinkStyleIndices() {
		e.linkStyleLine(strconv.Itoa(i), e.g.LinkStyleAt(i))
	}
}

func (e *encoder) linkStyleLine(index string, style *flow.LinkStyle) {
	if style == nil || (len(style.Styles) == 0 && style.Interpolate == "") {
		return
	}
	stmt := "linkStyle " + index
	if style.Interpolate != "" {
		stmt += " interpolate " + style.Interpolate
	}
	if len(style.Styles) > 0 {
		stmt += " " + strings.Join(style.Styles, ",")
	}
	e.line(1, stmt)
}

// labelUnsafe lists characters a plain label cannot carry without being
// mistaken for notation structure.
const labelUnsafe = "\"[](){}|&\\<>"

// encodeLabel renders a label for placement between the given closing
// delimiter. A nil label falls back to the node id. Plain labels that
// would collide with the notation are promoted to the quoted form, which
// a re-decode then classifies as quoted; the second and later round trips
// are unchanged.
func encodeLabel(t *flow.Text, fallbackID, closer string) string {
	if t == nil {
		return fallbackID
	}
	switch t.Kind {
	case flow.TextMarkdown:
		return "\"`" + t.Value + "`\""
	case flow.TextQuoted:
		return quoteLabel(t.Value)
	default:
		if strings.ContainsAny(t.Value, labelUnsafe) || strings.Contains(t.Value, closer) {
			return quoteLabel(t.Value)
		}
		return t.Value
	}
}

func quoteLabel(v string) string {
	return `"` + strings.ReplaceAll(v, `"`, "#quot;") + `"`
}

// encodeTitle renders a subgraph title, quoting only when it would
// otherwise swallow the closing bracket.
func encodeTitle(title string) string {
	if strings.ContainsAny(title, `"[]`) {
		return quoteLabel(title)
	}
	return title
}
