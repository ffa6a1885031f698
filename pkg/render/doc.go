// Package render turns a flowchart graph into visual output. The graph
// is first converted to Graphviz DOT ([ToDOT]); layout and drawing are
// delegated to Graphviz ([RenderSVG]), with PDF and PNG conversions
// layered on top of the SVG.
//
// The conversion is lossy by design: shapes, strokes, arrow types,
// subgraphs, and class styles map onto their closest Graphviz
// equivalents, and attributes Graphviz has no counterpart for (shape
// data blocks, click bindings) are ignored.
package render
