// Package grammar recognizes the flowchart text notation and reports
// every construct it finds to a [Builder] in source order. The package
// performs no semantic interpretation: it never touches a graph, and the
// one piece of link semantics the notation carries (the arrow token) is
// passed through raw for the builder side to decompose.
package grammar

import (
	"strconv"
	"strings"

	"github.com/matzehuels/flowmark/pkg/flow"
)

// Parse recognizes src and invokes b once per construct, in source order.
// The first significant line must be a "flowchart" or "graph" header.
// Returns a [*ParseError] describing the first failure.
func Parse(src string, b Builder) error {
	p := &parser{b: b}
	for _, raw := range strings.Split(src, "\n") {
		p.line++
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "%%") {
			continue
		}
		for _, stmt := range splitStatements(line) {
			stmt = strings.TrimSpace(stmt)
			if stmt == "" {
				continue
			}
			if err := p.statement(stmt); err != nil {
				return err
			}
		}
	}
	if !p.headerSeen {
		return &ParseError{Line: p.line, Msg: "expected flowchart header"}
	}
	if len(p.stack) > 0 {
		return &ParseError{Line: p.line, Msg: "unclosed subgraph " + strconv.Quote(p.stack[len(p.stack)-1].id)}
	}
	return nil
}

// splitStatements splits a line on semicolons, ignoring semicolons inside
// double quotes.
func splitStatements(line string) []string {
	var parts []string
	start, quoted := 0, false
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '"':
			quoted = !quoted
		case ';':
			if !quoted {
				parts = append(parts, line[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, line[start:])
}

// subgraphState accumulates one subgraph block until its "end" token.
type subgraphState struct {
	id        string
	title     string
	direction string
	members   []string
	seen      map[string]bool
}

type parser struct {
	b          Builder
	line       int
	headerSeen bool
	stack      []*subgraphState
	sgCount    int
}

func (p *parser) errf(msg string) error {
	return &ParseError{Line: p.line, Msg: msg}
}

// addRef records a node id as a member of the innermost open subgraph.
func (p *parser) addRef(id string) {
	if len(p.stack) == 0 {
		return
	}
	top := p.stack[len(p.stack)-1]
	if !top.seen[id] {
		top.seen[id] = true
		top.members = append(top.members, id)
	}
}

func (p *parser) statement(stmt string) error {
	keyword, rest := splitKeyword(stmt)

	if !p.headerSeen {
		if keyword != "flowchart" && keyword != "graph" {
			return p.errf("expected flowchart header, got " + strconv.Quote(keyword))
		}
		p.headerSeen = true
		if rest != "" {
			if !isDirection(rest) {
				return p.errf("invalid direction " + strconv.Quote(rest))
			}
			p.b.SetDirection(rest)
		}
		return nil
	}

	switch keyword {
	case "flowchart", "graph":
		return p.errf("unexpected second header")
	case "subgraph":
		return p.subgraphHeader(rest)
	case "end":
		if rest != "" {
			break // a node id starting with "end..." or similar
		}
		return p.endSubgraph()
	case "direction":
		if !isDirection(rest) {
			return p.errf("invalid direction " + strconv.Quote(rest))
		}
		if len(p.stack) > 0 {
			p.stack[len(p.stack)-1].direction = rest
			return nil
		}
		p.b.SetDirection(rest)
		return nil
	case "classDef":
		return p.classDef(rest)
	case "class":
		return p.classAssign(rest)
	case "click":
		return p.click(rest)
	case "linkStyle":
		return p.linkStyle(rest)
	}

	if after, ok := strings.CutPrefix(stmt, "accTitle:"); ok {
		p.b.SetAccTitle(strings.TrimSpace(after))
		return nil
	}
	if after, ok := strings.CutPrefix(stmt, "accDescr:"); ok {
		p.b.SetAccDescription(strings.TrimSpace(after))
		return nil
	}

	return p.nodeLink(stmt)
}

// splitKeyword splits off the first whitespace-delimited token.
func splitKeyword(s string) (keyword, rest string) {
	if i := strings.IndexAny(s, " \t"); i >= 0 {
		return s[:i], strings.TrimSpace(s[i+1:])
	}
	return s, ""
}

func isDirection(s string) bool {
	switch s {
	case "TB", "TD", "BT", "LR", "RL":
		return true
	}
	return false
}

// ----------------------------------------------------------------------------
// Subgraphs
// ----------------------------------------------------------------------------

func (p *parser) subgraphHeader(rest string) error {
	st := &subgraphState{seen: make(map[string]bool)}

	switch {
	case rest == "":
		st.id = p.autoSubgraphID()
	case strings.HasPrefix(rest, `"`):
		if t := parseText(rest); t != nil {
			st.title = t.Value
		}
		st.id = p.autoSubgraphID()
	case strings.Contains(rest, "["):
		i := strings.Index(rest, "[")
		st.id = strings.TrimSpace(rest[:i])
		inner := strings.TrimSuffix(strings.TrimSpace(rest[i+1:]), "]")
		if t := parseText(inner); t != nil {
			st.title = t.Value
		}
		if st.id == "" {
			st.id = p.autoSubgraphID()
		}
	case strings.ContainsAny(rest, " \t"):
		st.id = p.autoSubgraphID()
		st.title = rest
	default:
		st.id = rest
	}

	p.sgCount++
	p.stack = append(p.stack, st)
	return nil
}

func (p *parser) autoSubgraphID() string {
	return "subGraph" + strconv.Itoa(p.sgCount)
}

func (p *parser) endSubgraph() error {
	if len(p.stack) == 0 {
		return p.errf("unexpected end")
	}
	st := p.stack[len(p.stack)-1]
	p.stack = p.stack[:len(p.stack)-1]
	p.b.DeclareSubgraph(st.id, st.members, st.title, st.direction)
	return nil
}

// ----------------------------------------------------------------------------
// Styling statements
// ----------------------------------------------------------------------------

func (p *parser) classDef(rest string) error {
	names, styleStr := splitKeyword(rest)
	if names == "" || styleStr == "" {
		return p.errf("classDef requires a name and styles")
	}
	styles := splitStyles(styleStr)
	for _, name := range strings.Split(names, ",") {
		p.b.DeclareClassDef(strings.TrimSpace(name), styles)
	}
	return nil
}

func (p *parser) classAssign(rest string) error {
	ids, name := splitKeyword(rest)
	if ids == "" || name == "" {
		return p.errf("class requires node ids and a class name")
	}
	p.b.AssignClass(splitIDs(ids), name)
	return nil
}

func (p *parser) click(rest string) error {
	id, args := splitKeyword(rest)
	if id == "" || args == "" {
		return p.errf("click requires a node id and a binding")
	}

	switch {
	case strings.HasPrefix(args, "href "):
		return p.clickHref(id, strings.TrimSpace(args[len("href "):]))
	case strings.HasPrefix(args, `"`):
		return p.clickHref(id, args)
	case strings.HasPrefix(args, "call "):
		call := strings.TrimSpace(args[len("call "):])
		open := strings.Index(call, "(")
		if open < 0 || !strings.HasSuffix(call, ")") {
			return p.errf("click call requires callback(args)")
		}
		p.b.SetClickCallback(id, strings.TrimSpace(call[:open]), strings.TrimSpace(call[open+1:len(call)-1]))
		return nil
	default:
		return p.errf("click requires href or call binding")
	}
}

func (p *parser) clickHref(id, rest string) error {
	if !strings.HasPrefix(rest, `"`) {
		return p.errf("click href requires a quoted URL")
	}
	end := strings.Index(rest[1:], `"`)
	if end < 0 {
		return p.errf("unterminated URL in click binding")
	}
	href := rest[1 : 1+end]
	target := strings.TrimSpace(rest[2+end:])
	p.b.SetClickHref(id, href, target)
	return nil
}

func (p *parser) linkStyle(rest string) error {
	idxStr, styleStr := splitKeyword(rest)
	if idxStr == "" || styleStr == "" {
		return p.errf("linkStyle requires indices and styles")
	}

	var indices []int
	for _, tok := range strings.Split(idxStr, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "default" {
			indices = append(indices, flow.DefaultLinkIndex)
			continue
		}
		i, err := strconv.Atoi(tok)
		if err != nil || i < 0 {
			return p.errf("invalid link index " + strconv.Quote(tok))
		}
		indices = append(indices, i)
	}

	interpolate := ""
	if word, after := splitKeyword(styleStr); word == "interpolate" {
		interpolate, styleStr = splitKeyword(after)
		if interpolate == "" {
			return p.errf("interpolate requires a mode")
		}
	}
	var styles []string
	if styleStr != "" {
		styles = splitStyles(styleStr)
	}
	p.b.SetLinkStyle(indices, styles, interpolate)
	return nil
}

func splitStyles(s string) []string {
	var styles []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			styles = append(styles, part)
		}
	}
	return styles
}

func splitIDs(s string) []string {
	var ids []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			ids = append(ids, part)
		}
	}
	return ids
}

// ----------------------------------------------------------------------------
// Node and link statements
// ----------------------------------------------------------------------------

func (p *parser) nodeLink(stmt string) error {
	sc := &scanner{s: stmt}

	sources, err := p.nodeGroup(sc)
	if err != nil {
		return err
	}

	for {
		sc.skipSpaces()
		if sc.eof() {
			return nil
		}

		decl, err := p.linkDecl(sc)
		if err != nil {
			return err
		}

		sc.skipSpaces()
		targets, err := p.nodeGroup(sc)
		if err != nil {
			return err
		}

		p.b.DeclareLink(sources, targets, decl)
		sources = targets
	}
}

// nodeGroup parses one or more "&"-joined node references.
func (p *parser) nodeGroup(sc *scanner) ([]string, error) {
	var ids []string
	for {
		id, err := p.nodeRef(sc)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)

		mark := sc.pos
		sc.skipSpaces()
		if !sc.consume("&") {
			sc.pos = mark
			return ids, nil
		}
		sc.skipSpaces()
	}
}

// nodeRef parses a single node reference: an id with optional shape
// delimiters, an optional "@{...}" shape-data block, and an optional
// ":::class" suffix. The node declaration is reported immediately.
func (p *parser) nodeRef(sc *scanner) (string, error) {
	id := sc.ident()
	if id == "" {
		return "", p.errf("expected node id at " + strconv.Quote(sc.rest()))
	}

	var decl NodeDecl
	if shape, text, ok, err := p.shapeBody(sc); err != nil {
		return "", err
	} else if ok {
		decl.Shape = &shape
		decl.Text = text
	}

	for {
		switch {
		case sc.has("@{"):
			sc.pos += len("@{")
			body, ok := sc.untilBrace()
			if !ok {
				return "", p.errf("unterminated @{...} block on node " + strconv.Quote(id))
			}
			decl.ShapeData = strings.TrimSpace(body)
			continue
		case sc.has(":::"):
			sc.pos += len(":::")
			class := sc.classIdent()
			if class == "" {
				return "", p.errf("expected class name after ::: on node " + strconv.Quote(id))
			}
			decl.Class = class
			continue
		}
		break
	}

	p.addRef(id)
	p.b.DeclareNode(id, decl)
	return id, nil
}

// shapeDelims lists delimiter pairs, longest opener first so that "(("
// wins over "(". The lean and trapezoid shapes are resolved by their
// closing pair instead.
var shapeDelims = []struct {
	open, close string
	shape       flow.Shape
}{
	{"(((", ")))", flow.ShapeDoubleCircle},
	{"((", "))", flow.ShapeCircle},
	{"([", "])", flow.ShapeStadium},
	{"[[", "]]", flow.ShapeSubroutine},
	{"[(", ")]", flow.ShapeCylinder},
	{"{{", "}}", flow.ShapeHexagon},
	{"(", ")", flow.ShapeRound},
	{"[", "]", flow.ShapeSquare},
	{"{", "}", flow.ShapeDiamond},
	{">", "]", flow.ShapeOdd},
}

// shapeBody parses the delimiter pair and label following a node id, if
// present. ok reports whether a shape was found.
func (p *parser) shapeBody(sc *scanner) (flow.Shape, *flow.Text, bool, error) {
	// Slash and backslash variants share the "[" opener family and are
	// disambiguated by both delimiters.
	if sc.has("[/") || sc.has("[\\") {
		openSlash := sc.s[sc.pos+1]
		sc.pos += 2
		body, closer, ok := sc.until("/]", "\\]")
		if !ok {
			return 0, nil, false, p.errf("unterminated shape delimiter")
		}
		var shape flow.Shape
		switch {
		case openSlash == '/' && closer == "/]":
			shape = flow.ShapeLeanRight
		case openSlash == '/' && closer == "\\]":
			shape = flow.ShapeTrapezoid
		case openSlash == '\\' && closer == "/]":
			shape = flow.ShapeInvTrapezoid
		default:
			shape = flow.ShapeLeanLeft
		}
		return shape, parseText(body), true, nil
	}

	for _, d := range shapeDelims {
		if !sc.has(d.open) {
			continue
		}
		sc.pos += len(d.open)
		body, _, ok := sc.until(d.close)
		if !ok {
			return 0, nil, false, p.errf("unterminated " + strconv.Quote(d.open) + " shape delimiter")
		}
		return d.shape, parseText(body), true, nil
	}
	return 0, nil, false, nil
}

// linkDecl parses an optional "id@" prefix, the arrow token, and an
// optional label in either the "|label|" or the mid-link form.
func (p *parser) linkDecl(sc *scanner) (LinkDecl, error) {
	var decl LinkDecl

	mark := sc.pos
	if id := sc.ident(); id != "" && sc.consume("@") && isStrokeStart(sc.peek()) {
		decl.ID = id
	} else {
		sc.pos = mark
	}

	arrow, mid := matchArrow(sc.rest())
	if arrow == "" {
		return decl, p.errf("expected link arrow at " + strconv.Quote(sc.rest()))
	}
	sc.pos += len(arrow)

	if mid {
		label, closing, err := p.midLabel(sc)
		if err != nil {
			return decl, err
		}
		decl.Text = label
		decl.ArrowRaw = closing
		return decl, nil
	}
	decl.ArrowRaw = arrow

	if sc.has("|") {
		sc.pos++
		body, _, ok := sc.until("|")
		if !ok {
			return decl, p.errf("unterminated |label| on link")
		}
		decl.Text = parseText(body)
	}
	return decl, nil
}

func isStrokeStart(c byte) bool { return c == '-' || c == '=' }

// matchArrow matches a full arrow token at the start of s. mid reports
// the "-- ", "== ", "-. " opener of the mid-label link form, whose real
// arrow token appears after the label.
func matchArrow(s string) (token string, mid bool) {
	if len(s) >= 2 && s[0] == '-' && s[1] == '.' {
		i := 1
		for i < len(s) && s[i] == '.' {
			i++
		}
		if i < len(s) && s[i] == '-' {
			i++
			if i < len(s) && isGlyph(s[i]) {
				i++
			}
			return s[:i], false
		}
		if i == 2 && i < len(s) && s[i] == ' ' {
			return "-.", true
		}
		return "", false
	}

	run := byte(0)
	switch {
	case strings.HasPrefix(s, "--"):
		run = '-'
	case strings.HasPrefix(s, "=="):
		run = '='
	default:
		return "", false
	}
	i := 0
	for i < len(s) && s[i] == run {
		i++
	}
	if i < len(s) && isGlyph(s[i]) {
		return s[:i+1], false
	}
	if i == 2 && i < len(s) && s[i] == ' ' {
		return s[:i], true
	}
	return s[:i], false
}

func isGlyph(c byte) bool { return c == '>' || c == 'o' || c == 'x' }

// midLabel parses the "text -->" tail of a mid-link label. The closing
// token is normalized to a standalone arrow token (a leading dot run
// gains the conventional dash prefix).
func (p *parser) midLabel(sc *scanner) (*flow.Text, string, error) {
	rest := sc.rest()
	quoted := false
	for i := 0; i < len(rest); i++ {
		if rest[i] == '"' {
			quoted = !quoted
			continue
		}
		if quoted || rest[i] != ' ' {
			continue
		}
		tok := matchClosing(rest[i+1:])
		if tok == "" {
			continue
		}
		label := parseText(rest[:i])
		sc.pos += i + 1 + len(tok)
		if tok[0] == '.' {
			tok = "-" + tok
		}
		return label, tok, nil
	}
	return nil, "", p.errf("expected closing arrow after link label")
}

// matchClosing matches the closing token of a mid-label link: a dot run
// plus dash (dotted), a dash run, or an equals run, each with an optional
// terminal glyph, followed by a space or end of statement.
func matchClosing(s string) string {
	i := 0
	switch {
	case len(s) > 0 && s[0] == '.':
		for i < len(s) && s[i] == '.' {
			i++
		}
		if i >= len(s) || s[i] != '-' {
			return ""
		}
		for i < len(s) && s[i] == '-' {
			i++
		}
	case strings.HasPrefix(s, "--"):
		for i < len(s) && s[i] == '-' {
			i++
		}
	case strings.HasPrefix(s, "=="):
		for i < len(s) && s[i] == '=' {
			i++
		}
	default:
		return ""
	}
	if i < len(s) && isGlyph(s[i]) {
		i++
	}
	if i < len(s) && s[i] != ' ' {
		return ""
	}
	return s[:i]
}

// ----------------------------------------------------------------------------
// Labels
// ----------------------------------------------------------------------------

// parseText classifies a raw label: quoted ("..."), markdown ("`...`"),
// or plain. Returns nil for an empty label. The "#quot;" escape inside
// quoted labels is decoded.
func parseText(s string) *flow.Text {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		inner := s[1 : len(s)-1]
		if len(inner) >= 2 && inner[0] == '`' && inner[len(inner)-1] == '`' {
			return &flow.Text{Value: inner[1 : len(inner)-1], Kind: flow.TextMarkdown}
		}
		return &flow.Text{Value: strings.ReplaceAll(inner, "#quot;", `"`), Kind: flow.TextQuoted}
	}
	return &flow.Text{Value: s, Kind: flow.TextPlain}
}

// ----------------------------------------------------------------------------
// Scanner
// ----------------------------------------------------------------------------

// scanner is a cursor over one statement.
type scanner struct {
	s   string
	pos int
}

func (sc *scanner) eof() bool    { return sc.pos >= len(sc.s) }
func (sc *scanner) rest() string { return sc.s[sc.pos:] }

func (sc *scanner) peek() byte {
	if sc.eof() {
		return 0
	}
	return sc.s[sc.pos]
}

func (sc *scanner) skipSpaces() {
	for !sc.eof() && (sc.s[sc.pos] == ' ' || sc.s[sc.pos] == '\t') {
		sc.pos++
	}
}

func (sc *scanner) has(prefix string) bool {
	return strings.HasPrefix(sc.rest(), prefix)
}

func (sc *scanner) consume(prefix string) bool {
	if sc.has(prefix) {
		sc.pos += len(prefix)
		return true
	}
	return false
}

// ident reads a node id: letters, digits, underscores, and dots.
func (sc *scanner) ident() string {
	start := sc.pos
	for !sc.eof() {
		c := sc.s[sc.pos]
		if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_' || c == '.' {
			sc.pos++
			continue
		}
		break
	}
	return sc.s[start:sc.pos]
}

// classIdent reads a class name: like ident but dashes are allowed.
func (sc *scanner) classIdent() string {
	start := sc.pos
	for !sc.eof() {
		c := sc.s[sc.pos]
		if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_' || c == '-' {
			sc.pos++
			continue
		}
		break
	}
	return sc.s[start:sc.pos]
}

// until consumes up to the first unquoted occurrence of any closer and
// returns the content before it and the closer found.
func (sc *scanner) until(closers ...string) (content, closer string, ok bool) {
	start := sc.pos
	quoted := false
	for !sc.eof() {
		if sc.s[sc.pos] == '"' {
			quoted = !quoted
			sc.pos++
			continue
		}
		if !quoted {
			for _, c := range closers {
				if sc.has(c) {
					content = sc.s[start:sc.pos]
					sc.pos += len(c)
					return content, c, true
				}
			}
		}
		sc.pos++
	}
	return "", "", false
}

// untilBrace consumes up to the matching unquoted "}", tracking nesting.
func (sc *scanner) untilBrace() (string, bool) {
	start := sc.pos
	depth, quoted := 1, false
	for !sc.eof() {
		switch sc.s[sc.pos] {
		case '"':
			quoted = !quoted
		case '{':
			if !quoted {
				depth++
			}
		case '}':
			if !quoted {
				depth--
				if depth == 0 {
					content := sc.s[start:sc.pos]
					sc.pos++
					return content, true
				}
			}
		}
		sc.pos++
	}
	return "", false
}
