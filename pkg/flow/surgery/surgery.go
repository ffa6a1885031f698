package surgery

import (
	"slices"

	"github.com/matzehuels/flowmark/pkg/flow"
)

// InsertBetween inserts a new node on the link source→target. When a
// direct link exists, it is split into source→new and new→target, both
// halves preserving the original link's arrow type, stroke, and length,
// and the original is removed. When no direct link exists, both halves
// are created fresh with default attributes. The new node takes the given
// label, or none when text is empty.
func InsertBetween(g *flow.Graph, newID, source, target, text string) {
	n := g.EnsureNode(newID)
	if n == nil {
		return
	}
	if text != "" {
		n.Text = &flow.Text{Value: text}
	}

	arrow, stroke, length := flow.ArrowPoint, flow.StrokeNormal, 1
	if orig := g.FindLink(source, target); orig != nil {
		arrow, stroke, length = orig.Arrow, orig.Stroke, orig.Length
		g.RemoveLink(source, target)
	}
	g.AddLink(flow.Link{From: source, To: newID, Arrow: arrow, Stroke: stroke, Length: length})
	g.AddLink(flow.Link{From: newID, To: target, Arrow: arrow, Stroke: stroke, Length: length})
}

// RemoveAndReconnect removes the node and synthesizes a link from every
// former incoming source to every former outgoing target, skipping pairs
// that would form a self-loop. Each synthesized link copies arrow type,
// stroke, and length from the incoming link and carries no label, since
// the old label described a connection that no longer exists. Every link
// touching the removed node is deleted. Removing an absent id is a no-op.
func RemoveAndReconnect(g *flow.Graph, id string) {
	YankChain(g, []string{id})
}

// YankChain removes an ordered run of nodes, cross-wiring every external
// link into the first id with every external link out of the last id.
// Synthesized links copy their attributes from the incoming side and drop
// any label; self-loops are skipped. All listed nodes are deleted along
// with every link touching them, including links internal to the run.
// An empty list is a no-op.
func YankChain(g *flow.Graph, ids []string) {
	if len(ids) == 0 {
		return
	}
	member := make(map[string]bool, len(ids))
	for _, id := range ids {
		member[id] = true
	}

	first, last := ids[0], ids[len(ids)-1]
	var incoming, outgoing []*flow.Link
	for _, l := range g.Links() {
		if l.To == first && !member[l.From] {
			incoming = append(incoming, l)
		}
		if l.From == last && !member[l.To] {
			outgoing = append(outgoing, l)
		}
	}

	for _, in := range incoming {
		for _, out := range outgoing {
			if in.From == out.To {
				continue
			}
			g.AddLink(flow.Link{
				From:   in.From,
				To:     out.To,
				Arrow:  in.Arrow,
				Stroke: in.Stroke,
				Length: in.Length,
			})
		}
	}

	for _, id := range ids {
		g.RemoveNode(id)
	}
}

// SpliceChain wires an ordered run of existing node ids between source
// and target: any direct source→target links are removed, then
// source→ids[0] and ids[last]→target are added with default attributes.
// An empty run degenerates to a plain source→target link.
func SpliceChain(g *flow.Graph, ids []string, source, target string) {
	g.RemoveLinksFunc(func(l *flow.Link) bool { return l.From == source && l.To == target })

	if len(ids) == 0 {
		g.AddLink(flow.Link{From: source, To: target, Arrow: flow.ArrowPoint, Length: 1})
		return
	}
	g.AddLink(flow.Link{From: source, To: ids[0], Arrow: flow.ArrowPoint, Length: 1})
	g.AddLink(flow.Link{From: ids[len(ids)-1], To: target, Arrow: flow.ArrowPoint, Length: 1})
}

// ReverseChain flips the direction of the chain: for each consecutive
// pair in ids, the first link ids[i]→ids[i+1] has its endpoints swapped
// in place. Link count, attributes, and labels are untouched; pairs with
// no direct link are skipped.
func ReverseChain(g *flow.Graph, ids []string) {
	for i := 0; i+1 < len(ids); i++ {
		if l := g.FindLink(ids[i], ids[i+1]); l != nil {
			l.From, l.To = l.To, l.From
		}
	}
}

// ExtractChain removes the run of nodes from the host graph (boundary
// links are cross-wired exactly as in [YankChain]) and returns a new,
// independent graph holding copies of the listed nodes and of the links
// strictly internal to the run. The extracted graph inherits the host's
// direction and the class definitions referenced by the extracted nodes.
func ExtractChain(g *flow.Graph, ids []string) *flow.Graph {
	member := make(map[string]bool, len(ids))
	for _, id := range ids {
		member[id] = true
	}

	out := flow.New()
	out.SetDirection(string(g.Direction()))
	for _, id := range ids {
		n, ok := g.Node(id)
		if !ok {
			continue
		}
		copied := *n
		copied.Classes = slices.Clone(n.Classes)
		if n.Text != nil {
			t := *n.Text
			copied.Text = &t
		}
		_ = out.AddNode(copied)
		for _, class := range n.Classes {
			if def := g.ClassDefByName(class); def != nil {
				out.SetClassDef(def.Name, def.Styles)
			}
		}
	}
	for _, l := range g.Links() {
		if member[l.From] && member[l.To] {
			copied := *l
			if l.Text != nil {
				t := *l.Text
				copied.Text = &t
			}
			out.AddLink(copied)
		}
	}

	YankChain(g, ids)
	return out
}

// RebaseNodes reparents a set of nodes under newParent: every link whose
// target is in ids and whose source is outside ids is deleted, then each
// id left without an incoming link from within the set gets a fresh
// newParent→id link. The parent node is auto-created; a link from the
// parent onto itself is never added.
func RebaseNodes(g *flow.Graph, ids []string, newParent string) {
	if len(ids) == 0 {
		return
	}
	member := make(map[string]bool, len(ids))
	for _, id := range ids {
		member[id] = true
	}

	g.RemoveLinksFunc(func(l *flow.Link) bool { return member[l.To] && !member[l.From] })

	g.EnsureNode(newParent)
	for _, id := range ids {
		if id == newParent {
			continue
		}
		if _, ok := g.Node(id); !ok {
			continue
		}
		hasInternal := false
		for _, l := range g.Links() {
			if l.To == id && member[l.From] {
				hasInternal = true
				break
			}
		}
		if !hasInternal {
			g.AddLink(flow.Link{From: newParent, To: id, Arrow: flow.ArrowPoint, Length: 1})
		}
	}
}
