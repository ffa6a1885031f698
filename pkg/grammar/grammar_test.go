package grammar

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/flowmark/pkg/flow"
)

// recorder captures builder callbacks for assertion.
type recorder struct {
	direction string
	nodes     map[string]NodeDecl
	nodeOrder []string
	links     []recordedLink
	subgraphs []recordedSubgraph
	classDefs map[string][]string
	classes   map[string][]string
	hrefs     map[string][2]string
	calls     map[string][2]string
	styles    []recordedStyle
	accTitle  string
	accDescr  string
}

type recordedLink struct {
	sources, targets []string
	decl             LinkDecl
}

type recordedSubgraph struct {
	id, title, direction string
	members              []string
}

type recordedStyle struct {
	indices     []int
	styles      []string
	interpolate string
}

func newRecorder() *recorder {
	return &recorder{
		nodes:     make(map[string]NodeDecl),
		classDefs: make(map[string][]string),
		classes:   make(map[string][]string),
		hrefs:     make(map[string][2]string),
		calls:     make(map[string][2]string),
	}
}

func (r *recorder) SetDirection(dir string) { r.direction = dir }

func (r *recorder) DeclareNode(id string, decl NodeDecl) {
	if _, seen := r.nodes[id]; !seen {
		r.nodeOrder = append(r.nodeOrder, id)
	}
	// Later declarations may carry more detail; keep the richest one.
	prev := r.nodes[id]
	if decl.Shape == nil {
		decl.Shape = prev.Shape
	}
	if decl.Text == nil {
		decl.Text = prev.Text
	}
	if decl.Class == "" {
		decl.Class = prev.Class
	}
	if decl.ShapeData == "" {
		decl.ShapeData = prev.ShapeData
	}
	r.nodes[id] = decl
}

func (r *recorder) DeclareLink(sources, targets []string, decl LinkDecl) {
	r.links = append(r.links, recordedLink{slices.Clone(sources), slices.Clone(targets), decl})
}

func (r *recorder) DeclareSubgraph(id string, members []string, title, direction string) {
	r.subgraphs = append(r.subgraphs, recordedSubgraph{id, title, direction, slices.Clone(members)})
}

func (r *recorder) DeclareClassDef(name string, styles []string) { r.classDefs[name] = styles }
func (r *recorder) AssignClass(ids []string, name string)        { r.classes[name] = append(r.classes[name], ids...) }
func (r *recorder) SetClickHref(id, href, target string)         { r.hrefs[id] = [2]string{href, target} }
func (r *recorder) SetClickCallback(id, cb, args string)         { r.calls[id] = [2]string{cb, args} }

func (r *recorder) SetLinkStyle(indices []int, styles []string, interpolate string) {
	r.styles = append(r.styles, recordedStyle{indices, styles, interpolate})
}

func (r *recorder) SetAccTitle(text string)       { r.accTitle = text }
func (r *recorder) SetAccDescription(text string) { r.accDescr = text }

func parse(t *testing.T, src string) *recorder {
	t.Helper()
	r := newRecorder()
	if err := Parse(src, r); err != nil {
		t.Fatalf("Parse(%q) error = %v", src, err)
	}
	return r
}

func TestParse_HeaderRequired(t *testing.T) {
	r := newRecorder()
	err := Parse("A --> B", r)
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("Parse() error = %v, want *ParseError", err)
	}
	if perr.Line != 1 || !strings.Contains(perr.Msg, "header") {
		t.Errorf("ParseError = %+v, want header complaint on line 1", perr)
	}
}

func TestParse_HeaderVariants(t *testing.T) {
	if r := parse(t, "flowchart LR"); r.direction != "LR" {
		t.Errorf("direction = %q, want LR", r.direction)
	}
	if r := parse(t, "graph TD"); r.direction != "TD" {
		t.Errorf("direction = %q, want TD passed through raw", r.direction)
	}
	if r := parse(t, "flowchart"); r.direction != "" {
		t.Errorf("direction = %q, want unset for bare header", r.direction)
	}

	if err := Parse("flowchart sideways", newRecorder()); err == nil {
		t.Error("Parse() accepted an invalid direction")
	}
	if err := Parse("flowchart TB\ngraph LR", newRecorder()); err == nil {
		t.Error("Parse() accepted a second header")
	}
}

func TestParse_SemicolonsAndComments(t *testing.T) {
	r := parse(t, "graph TD;A-->B;B-->C\n%% a comment\nC --> D")
	if len(r.links) != 3 {
		t.Fatalf("links = %d, want 3", len(r.links))
	}
	if r.links[0].sources[0] != "A" || r.links[2].targets[0] != "D" {
		t.Errorf("links = %+v", r.links)
	}
}

func TestParse_QuotedSemicolonNotASplit(t *testing.T) {
	r := parse(t, "flowchart TB\nA[\"one; two\"]")
	decl := r.nodes["A"]
	if decl.Text == nil || decl.Text.Value != "one; two" {
		t.Errorf("label = %+v, want semicolon kept inside quotes", decl.Text)
	}
}

func TestParse_Shapes(t *testing.T) {
	tests := []struct {
		stmt  string
		shape flow.Shape
		label string
	}{
		{"A[square]", flow.ShapeSquare, "square"},
		{"A(round)", flow.ShapeRound, "round"},
		{"A([stadium])", flow.ShapeStadium, "stadium"},
		{"A((circle))", flow.ShapeCircle, "circle"},
		{"A(((double)))", flow.ShapeDoubleCircle, "double"},
		{"A{diamond}", flow.ShapeDiamond, "diamond"},
		{"A{{hex}}", flow.ShapeHexagon, "hex"},
		{"A[(db)]", flow.ShapeCylinder, "db"},
		{"A[[sub]]", flow.ShapeSubroutine, "sub"},
		{"A[/lean/]", flow.ShapeLeanRight, "lean"},
		{"A[\\lean\\]", flow.ShapeLeanLeft, "lean"},
		{"A[/trap\\]", flow.ShapeTrapezoid, "trap"},
		{"A[\\trap/]", flow.ShapeInvTrapezoid, "trap"},
		{"A>odd]", flow.ShapeOdd, "odd"},
	}
	for _, tt := range tests {
		r := parse(t, "flowchart TB\n"+tt.stmt)
		decl := r.nodes["A"]
		if decl.Shape == nil || *decl.Shape != tt.shape {
			t.Errorf("%q: shape = %v, want %v", tt.stmt, decl.Shape, tt.shape)
			continue
		}
		if decl.Text == nil || decl.Text.Value != tt.label {
			t.Errorf("%q: label = %+v, want %q", tt.stmt, decl.Text, tt.label)
		}
	}
}

func TestParse_UnterminatedShape(t *testing.T) {
	if err := Parse("flowchart TB\nA[oops", newRecorder()); err == nil {
		t.Error("Parse() accepted an unterminated shape delimiter")
	}
}

func TestParse_AmpersandGroups(t *testing.T) {
	r := parse(t, "flowchart TB\nA & B --> C & D")
	if len(r.links) != 1 {
		t.Fatalf("links = %d, want one grouped declaration", len(r.links))
	}
	l := r.links[0]
	if !slices.Equal(l.sources, []string{"A", "B"}) || !slices.Equal(l.targets, []string{"C", "D"}) {
		t.Errorf("link = %+v, want A,B → C,D", l)
	}
}

func TestParse_ChainedLinks(t *testing.T) {
	r := parse(t, "flowchart TB\nA --> B ==> C")
	if len(r.links) != 2 {
		t.Fatalf("links = %d, want 2", len(r.links))
	}
	if r.links[0].decl.ArrowRaw != "-->" || r.links[1].decl.ArrowRaw != "==>" {
		t.Errorf("arrows = %q, %q", r.links[0].decl.ArrowRaw, r.links[1].decl.ArrowRaw)
	}
	if r.links[1].sources[0] != "B" {
		t.Error("chain did not carry the previous target forward")
	}
}

func TestParse_LinkLabels(t *testing.T) {
	r := parse(t, "flowchart TB\nA -->|pipe| B\nC -- mid --> D\nE -. dotted .-> F")
	if got := r.links[0].decl.Text; got == nil || got.Value != "pipe" {
		t.Errorf("pipe label = %+v", got)
	}
	mid := r.links[1].decl
	if mid.Text == nil || mid.Text.Value != "mid" || mid.ArrowRaw != "-->" {
		t.Errorf("mid-label decl = %+v, want text %q with closing arrow normalized", mid, "mid")
	}
	dotted := r.links[2].decl
	if dotted.Text == nil || dotted.Text.Value != "dotted" || dotted.ArrowRaw != "-.->" {
		t.Errorf("dotted mid-label decl = %+v, want %q arrow", dotted, "-.->")
	}
}

func TestParse_LinkID(t *testing.T) {
	r := parse(t, "flowchart TB\nA e1@--> B")
	if got := r.links[0].decl.ID; got != "e1" {
		t.Errorf("link id = %q, want e1", got)
	}
}

func TestParse_ClassSuffixAndShapeData(t *testing.T) {
	r := parse(t, "flowchart TB\nA[Label]:::hot@{ shape: rect }")
	decl := r.nodes["A"]
	if decl.Class != "hot" {
		t.Errorf("class = %q, want hot", decl.Class)
	}
	if decl.ShapeData != "shape: rect" {
		t.Errorf("shape data = %q, want trimmed block body", decl.ShapeData)
	}
}

func TestParse_Subgraphs(t *testing.T) {
	r := parse(t, "flowchart TB\nsubgraph grp [My Title]\ndirection LR\nA --> B\nend")
	if len(r.subgraphs) != 1 {
		t.Fatalf("subgraphs = %d, want 1", len(r.subgraphs))
	}
	sg := r.subgraphs[0]
	if sg.id != "grp" || sg.title != "My Title" || sg.direction != "LR" {
		t.Errorf("subgraph = %+v", sg)
	}
	if !slices.Equal(sg.members, []string{"A", "B"}) {
		t.Errorf("members = %v, want [A B]", sg.members)
	}
}

func TestParse_AnonymousSubgraph(t *testing.T) {
	r := parse(t, "flowchart TB\nsubgraph \"Only Title\"\nA\nend")
	sg := r.subgraphs[0]
	if sg.title != "Only Title" || !strings.HasPrefix(sg.id, "subGraph") {
		t.Errorf("subgraph = %+v, want generated id and quoted title", sg)
	}
}

func TestParse_NestedSubgraphs_InnermostOwnsMembers(t *testing.T) {
	r := parse(t, "flowchart TB\nsubgraph outer\nsubgraph inner\nA\nend\nB\nend")
	if len(r.subgraphs) != 2 {
		t.Fatalf("subgraphs = %d, want 2", len(r.subgraphs))
	}
	// Inner blocks close first.
	if r.subgraphs[0].id != "inner" || !slices.Equal(r.subgraphs[0].members, []string{"A"}) {
		t.Errorf("inner = %+v", r.subgraphs[0])
	}
	if r.subgraphs[1].id != "outer" || !slices.Equal(r.subgraphs[1].members, []string{"B"}) {
		t.Errorf("outer = %+v, want only its own direct members", r.subgraphs[1])
	}
}

func TestParse_UnclosedSubgraph(t *testing.T) {
	err := Parse("flowchart TB\nsubgraph grp\nA", newRecorder())
	if err == nil || !strings.Contains(err.Error(), "unclosed subgraph") {
		t.Errorf("Parse() error = %v, want unclosed subgraph", err)
	}
}

func TestParse_ClassStatements(t *testing.T) {
	r := parse(t, "flowchart TB\nclassDef hot,warm fill:#f96,stroke:#333\nclass A,B hot")
	if !slices.Equal(r.classDefs["hot"], []string{"fill:#f96", "stroke:#333"}) {
		t.Errorf("classDef hot = %v", r.classDefs["hot"])
	}
	if _, ok := r.classDefs["warm"]; !ok {
		t.Error("comma-separated classDef names not all declared")
	}
	if !slices.Equal(r.classes["hot"], []string{"A", "B"}) {
		t.Errorf("class hot = %v", r.classes["hot"])
	}
}

func TestParse_Clicks(t *testing.T) {
	r := parse(t, "flowchart TB\nclick A href \"https://example.com\" _blank\nclick B \"https://other\"\nclick C call handle(a, b)")
	if got := r.hrefs["A"]; got != [2]string{"https://example.com", "_blank"} {
		t.Errorf("click A = %v", got)
	}
	if got := r.hrefs["B"]; got[0] != "https://other" || got[1] != "" {
		t.Errorf("click B = %v", got)
	}
	if got := r.calls["C"]; got != [2]string{"handle", "a, b"} {
		t.Errorf("click C = %v", got)
	}
}

func TestParse_LinkStyle(t *testing.T) {
	r := parse(t, "flowchart TB\nlinkStyle default stroke:#999\nlinkStyle 0,2 interpolate basis stroke:#f00")
	if !slices.Equal(r.styles[0].indices, []int{flow.DefaultLinkIndex}) {
		t.Errorf("default indices = %v", r.styles[0].indices)
	}
	st := r.styles[1]
	if !slices.Equal(st.indices, []int{0, 2}) || st.interpolate != "basis" || !slices.Equal(st.styles, []string{"stroke:#f00"}) {
		t.Errorf("linkStyle = %+v", st)
	}

	if err := Parse("flowchart TB\nlinkStyle -1 stroke:#f00", newRecorder()); err == nil {
		t.Error("Parse() accepted a negative link index")
	}
}

func TestParse_Accessibility(t *testing.T) {
	r := parse(t, "flowchart TB\naccTitle: My Chart\naccDescr: Longer text here")
	if r.accTitle != "My Chart" || r.accDescr != "Longer text here" {
		t.Errorf("accTitle = %q, accDescr = %q", r.accTitle, r.accDescr)
	}
}

func TestParse_EndPrefixedNodeID(t *testing.T) {
	r := parse(t, "flowchart TB\nendpoint --> B")
	if _, ok := r.nodes["endpoint"]; !ok {
		t.Error("id starting with \"end\" mistaken for a block terminator")
	}
}
