package grammar

import (
	"fmt"

	"github.com/matzehuels/flowmark/pkg/flow"
)

// Builder is the callback contract between the grammar engine and the
// semantic layer. The engine calls one method per recognized construct,
// in source order, and performs no semantic work itself: translating
// declarations into graph state is entirely the implementor's job.
//
// The canonical implementation is the codec package's Decoder.
type Builder interface {
	// SetDirection records the layout direction (LR, RL, TB, TD, or BT).
	SetDirection(dir string)

	// DeclareNode records a node reference or declaration. The engine
	// calls this for every node mention, including bare ids inside link
	// statements; decl carries only what the source actually stated.
	DeclareNode(id string, decl NodeDecl)

	// DeclareLink records links from every source to every target
	// (the notation's "&" fan-out/fan-in cross product).
	DeclareLink(sources, targets []string, decl LinkDecl)

	// DeclareSubgraph records a completed subgraph block with its member
	// node ids in order of first mention. direction is empty when the
	// block had no direction statement.
	DeclareSubgraph(id string, members []string, title string, direction string)

	// DeclareClassDef records a classDef statement.
	DeclareClassDef(name string, styles []string)

	// AssignClass records a class assignment statement.
	AssignClass(ids []string, name string)

	// SetClickHref records a click binding opening a URL. target may be
	// empty.
	SetClickHref(id, href, target string)

	// SetClickCallback records a click binding invoking a named callback
	// with a raw argument string, which may be empty.
	SetClickCallback(id, callback, args string)

	// SetLinkStyle records a linkStyle statement. Indices use
	// [flow.DefaultLinkIndex] for the "default" token. interpolate may be
	// empty.
	SetLinkStyle(indices []int, styles []string, interpolate string)

	// SetAccTitle records the accessibility title.
	SetAccTitle(text string)

	// SetAccDescription records the accessibility description.
	SetAccDescription(text string)
}

// NodeDecl carries the optional pieces of a node declaration. Fields are
// zero when the source did not state them, so re-declaring a node never
// erases earlier information.
type NodeDecl struct {
	Shape     *flow.Shape // nil when no delimiter pair was written
	Text      *flow.Text  // nil when no label was written
	Class     string      // from a ":::name" suffix
	ShapeData string      // raw contents of an "@{...}" block
}

// LinkDecl carries the attributes of a link statement.
type LinkDecl struct {
	ArrowRaw string     // the raw arrow token, e.g. "-->", "===", "-.->"
	Text     *flow.Text // nil for unlabeled links
	ID       string     // from an "id@" prefix, or empty
}

// ParseError describes a grammar failure with its source line.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}
