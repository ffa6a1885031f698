package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/flowmark/pkg/flow"
)

// Options configures DOT conversion.
type Options struct {
	// Labels draws link labels. When false, links render unlabeled.
	Labels bool
}

// shapeAttrs maps notation shapes onto Graphviz node attributes.
var shapeAttrs = map[flow.Shape]string{
	flow.ShapeDefault:      "shape=box",
	flow.ShapeSquare:       "shape=box",
	flow.ShapeRound:        `shape=box, style="rounded,filled"`,
	flow.ShapeStadium:      `shape=box, style="rounded,filled"`,
	flow.ShapeCircle:       "shape=circle",
	flow.ShapeDoubleCircle: "shape=doublecircle",
	flow.ShapeDiamond:      "shape=diamond",
	flow.ShapeHexagon:      "shape=hexagon",
	flow.ShapeCylinder:     "shape=cylinder",
	flow.ShapeSubroutine:   "shape=box, peripheries=2",
	flow.ShapeTrapezoid:    "shape=trapezium",
	flow.ShapeInvTrapezoid: "shape=invtrapezium",
	flow.ShapeLeanRight:    "shape=parallelogram",
	flow.ShapeLeanLeft:     "shape=parallelogram",
	flow.ShapeOdd:          "shape=cds",
}

var strokeAttrs = map[flow.Stroke]string{
	flow.StrokeThick:  "style=bold",
	flow.StrokeDotted: "style=dotted",
}

var arrowheadAttrs = map[flow.ArrowType]string{
	flow.ArrowOpen:   "arrowhead=none",
	flow.ArrowCircle: "arrowhead=odot",
	flow.ArrowCross:  "arrowhead=diamond",
}

// ToDOT converts a flowchart graph to Graphviz DOT. Subgraphs become
// clusters, class styles become fill colors, and the diagram direction
// becomes rankdir. The result renders with [RenderSVG].
func ToDOT(g *flow.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", string(g.Direction()))
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=filled, fillcolor=white, fontsize=14];\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		if g.SubgraphOf(n.ID) != "" {
			continue
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, nodeAttrs(g, n))
	}

	for i, sg := range g.Subgraphs() {
		fmt.Fprintf(&buf, "  subgraph cluster_%d {\n", i)
		label := sg.Title
		if label == "" {
			label = sg.ID
		}
		fmt.Fprintf(&buf, "    label=%q;\n", label)
		if sg.Direction != "" {
			fmt.Fprintf(&buf, "    rankdir=%s;\n", string(sg.Direction))
		}
		for _, id := range sg.Members {
			n, ok := g.Node(id)
			if !ok {
				continue
			}
			fmt.Fprintf(&buf, "    %q [%s];\n", n.ID, nodeAttrs(g, n))
		}
		buf.WriteString("  }\n")
	}

	buf.WriteString("\n")
	for _, l := range g.Links() {
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", l.From, l.To, linkAttrs(l, opts))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(g *flow.Graph, n *flow.Node) string {
	label := n.ID
	if n.Text != nil {
		label = n.Text.Value
	}
	attrs := []string{fmt.Sprintf("label=%q", label), shapeAttrs[n.Shape]}
	if fill := classFill(g, n); fill != "" {
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", fill), `style="filled"`)
	}
	return strings.Join(attrs, ", ")
}

// classFill resolves the fill color of the node's first class that
// defines one. Class styles use the notation's "key:value" form.
func classFill(g *flow.Graph, n *flow.Node) string {
	for _, name := range n.Classes {
		def := g.ClassDefByName(name)
		if def == nil {
			continue
		}
		for _, style := range def.Styles {
			if v, ok := strings.CutPrefix(style, "fill:"); ok {
				return strings.TrimSpace(v)
			}
		}
	}
	return ""
}

func linkAttrs(l *flow.Link, opts Options) string {
	var attrs []string
	if a, ok := strokeAttrs[l.Stroke]; ok {
		attrs = append(attrs, a)
	}
	if a, ok := arrowheadAttrs[l.Arrow]; ok {
		attrs = append(attrs, a)
	}
	if l.Length > 1 {
		attrs = append(attrs, fmt.Sprintf("minlen=%d", l.Length))
	}
	if opts.Labels && l.Text != nil {
		attrs = append(attrs, fmt.Sprintf("label=%q", l.Text.Value))
	}
	return strings.Join(attrs, ", ")
}
