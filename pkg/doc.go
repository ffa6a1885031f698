// Package pkg provides the core libraries for Flowmark flowchart tooling.
//
// # Overview
//
// Flowmark parses flowchart text notation into an in-memory graph,
// edits it structurally, and writes it back as canonical text or as a
// rendered image. The pkg directory is organized into these areas:
//
//  1. [flow] - Canonical graph model (nodes, links, subgraphs, classes)
//  2. [flow/surgery] - Structural queries and graph rewiring
//  3. [grammar] - Line-oriented parser for the text notation
//  4. [codec] - Decode text to graphs and encode graphs to canonical text
//  5. [diagram] - Fluent facade combining the above
//  6. [render] - DOT conversion and SVG/PNG/PDF output
//  7. [cache], [store], [server] - Preview server infrastructure
//
// # Architecture
//
// The typical data flow through Flowmark:
//
//	flowchart text
//	         ↓
//	    [grammar] package (parse statements)
//	         ↓
//	    [codec] package (build the graph, re-encode canonically)
//	         ↓
//	    [flow] / [flow/surgery] packages (query and rewire)
//	         ↓
//	    [render] package (DOT, SVG, PNG, PDF)
//
// # Quick Start
//
// Decode, edit, and re-encode a flowchart:
//
//	import "github.com/matzehuels/flowmark/pkg/diagram"
//
//	d, err := diagram.Decode(src)
//	if err != nil {
//	    return err
//	}
//	d.RemoveAndReconnect("B")
//	fmt.Print(d.Encode(codec.Options{}))
//
// Round trips are idempotent: encoding a freshly decoded graph and
// decoding the result yields the same canonical text.
//
// [flow]: https://pkg.go.dev/github.com/matzehuels/flowmark/pkg/flow
// [flow/surgery]: https://pkg.go.dev/github.com/matzehuels/flowmark/pkg/flow/surgery
// [grammar]: https://pkg.go.dev/github.com/matzehuels/flowmark/pkg/grammar
// [codec]: https://pkg.go.dev/github.com/matzehuels/flowmark/pkg/codec
// [diagram]: https://pkg.go.dev/github.com/matzehuels/flowmark/pkg/diagram
// [render]: https://pkg.go.dev/github.com/matzehuels/flowmark/pkg/render
// [cache]: https://pkg.go.dev/github.com/matzehuels/flowmark/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/flowmark/pkg/store
// [server]: https://pkg.go.dev/github.com/matzehuels/flowmark/pkg/server
package pkg
