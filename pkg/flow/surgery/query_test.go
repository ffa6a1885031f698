package surgery

import (
	"slices"
	"testing"

	"github.com/matzehuels/flowmark/pkg/flow"
)

func diamond() *flow.Graph {
	g := flow.New()
	g.AddLink(flow.Link{From: "A", To: "B"})
	g.AddLink(flow.Link{From: "A", To: "C"})
	g.AddLink(flow.Link{From: "B", To: "D"})
	g.AddLink(flow.Link{From: "C", To: "D"})
	return g
}

func TestReachable(t *testing.T) {
	g := diamond()
	g.EnsureNode("island")

	got := Reachable(g, "A")
	for _, id := range []string{"A", "B", "C", "D"} {
		if !got[id] {
			t.Errorf("Reachable(A) missing %s", id)
		}
	}
	if got["island"] {
		t.Error("Reachable(A) includes disconnected node")
	}
	if len(Reachable(g, "nope")) != 0 {
		t.Error("Reachable(missing) != empty set")
	}
}

func TestReachable_ParallelLinks(t *testing.T) {
	g := flow.New()
	g.AddLink(flow.Link{From: "A", To: "B"})
	g.AddLink(flow.Link{From: "A", To: "B", Stroke: flow.StrokeThick})
	g.AddLink(flow.Link{From: "B", To: "C"})

	got := Reachable(g, "A")
	if len(got) != 3 || !got["A"] || !got["B"] || !got["C"] {
		t.Errorf("Reachable(A) = %v, want {A B C}", got)
	}
}

func TestAncestors(t *testing.T) {
	g := diamond()

	got := Ancestors(g, "D")
	for _, id := range []string{"A", "B", "C", "D"} {
		if !got[id] {
			t.Errorf("Ancestors(D) missing %s", id)
		}
	}
	if got := Ancestors(g, "A"); len(got) != 1 || !got["A"] {
		t.Errorf("Ancestors(A) = %v, want just A", got)
	}
}

func TestShortestPath(t *testing.T) {
	g := diamond()
	g.AddLink(flow.Link{From: "A", To: "D"})

	if got := ShortestPath(g, "A", "D"); !slices.Equal(got, []string{"A", "D"}) {
		t.Errorf("ShortestPath(A, D) = %v, want [A D]", got)
	}
	if got := ShortestPath(g, "A", "A"); !slices.Equal(got, []string{"A"}) {
		t.Errorf("ShortestPath(A, A) = %v, want [A]", got)
	}
	if got := ShortestPath(g, "D", "A"); got != nil {
		t.Errorf("ShortestPath(D, A) = %v, want nil for unreachable target", got)
	}
	if got := ShortestPath(g, "A", "nope"); got != nil {
		t.Errorf("ShortestPath to missing node = %v, want nil", got)
	}
}

func TestShortestPath_DeclarationOrderTies(t *testing.T) {
	// Two equal-length paths; the first-declared branch wins.
	g := flow.New()
	g.AddLink(flow.Link{From: "A", To: "B"})
	g.AddLink(flow.Link{From: "A", To: "C"})
	g.AddLink(flow.Link{From: "B", To: "D"})
	g.AddLink(flow.Link{From: "C", To: "D"})

	if got := ShortestPath(g, "A", "D"); !slices.Equal(got, []string{"A", "B", "D"}) {
		t.Errorf("ShortestPath(A, D) = %v, want the B branch", got)
	}
}

func TestLinearChain(t *testing.T) {
	g := flow.New()
	g.AddLink(flow.Link{From: "A", To: "B"})
	g.AddLink(flow.Link{From: "B", To: "C"})
	g.AddLink(flow.Link{From: "C", To: "D"})

	if got := LinearChain(g, "A", "C"); !slices.Equal(got, []string{"A", "B", "C"}) {
		t.Errorf("LinearChain(A, C) = %v, want [A B C]", got)
	}
	if got := LinearChain(g, "B", "B"); !slices.Equal(got, []string{"B"}) {
		t.Errorf("LinearChain(B, B) = %v, want [B]", got)
	}
	if got := LinearChain(g, "A", "nope"); got != nil {
		t.Errorf("LinearChain to missing end = %v, want nil", got)
	}
}

func TestLinearChain_AbortsOnBranch(t *testing.T) {
	g := flow.New()
	g.AddLink(flow.Link{From: "A", To: "B"})
	g.AddLink(flow.Link{From: "B", To: "C"})
	g.AddLink(flow.Link{From: "B", To: "D"})

	if got := LinearChain(g, "A", "C"); got != nil {
		t.Errorf("LinearChain through branch = %v, want nil", got)
	}
}

func TestLinearChain_ParallelLinksAreABranch(t *testing.T) {
	g := flow.New()
	g.AddLink(flow.Link{From: "A", To: "B"})
	g.AddLink(flow.Link{From: "A", To: "B", Stroke: flow.StrokeDotted})

	if got := LinearChain(g, "A", "B"); got != nil {
		t.Errorf("LinearChain over parallel links = %v, want nil", got)
	}
}

func TestLinearChain_AbortsOnCycle(t *testing.T) {
	g := flow.New()
	g.AddLink(flow.Link{From: "A", To: "B"})
	g.AddLink(flow.Link{From: "B", To: "A"})
	g.EnsureNode("Z")

	if got := LinearChain(g, "A", "Z"); got != nil {
		t.Errorf("LinearChain around cycle = %v, want nil", got)
	}
}
