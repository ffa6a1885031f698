// Package flow defines the canonical in-memory model for flowchart
// diagrams: labeled nodes with shapes, typed and styled links, exclusive
// subgraph groupings, style classes, click bindings, and per-link styles.
//
// The model is a pure data container. Nodes, links, and subgraphs reference
// each other exclusively by string id, never by pointer, so the whole
// structure can be deep-copied with [Graph.Clone] and carries no ownership
// cycles. The only behavior the package provides is invariant maintenance:
// node ids are unique, a node belongs to at most one subgraph, and
// declaration order of nodes, links, and classes is preserved (the text
// encoder and the surgery algorithms both depend on it).
//
// Decoding from and encoding to the text notation lives in
// [github.com/matzehuels/flowmark/pkg/codec]; graph queries and mutations
// live in [github.com/matzehuels/flowmark/pkg/flow/surgery].
//
// A Graph is not safe for concurrent use without external synchronization.
package flow
