package diagram

import (
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/flowmark/pkg/codec"
)

func TestDecodeEncode(t *testing.T) {
	d, err := Decode("graph TD;A-->B;B-->C")
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	got := d.Encode(codec.Options{})
	if !strings.HasPrefix(got, "flowchart TB\n") || !strings.Contains(got, "A --> B") {
		t.Errorf("Encode() = %q, want canonical form", got)
	}
}

func TestDecode_Invalid(t *testing.T) {
	if _, err := Decode("garbage"); err == nil {
		t.Error("Decode() accepted invalid input")
	}
}

func TestChainedEditing(t *testing.T) {
	d, err := Decode("flowchart TB\nA --> B\nB --> C")
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	d.InsertBetween("M", "A", "B", "mid").RemoveAndReconnect("B")

	if got := d.ShortestPath("A", "C"); !slices.Equal(got, []string{"A", "M", "C"}) {
		t.Errorf("ShortestPath(A, C) = %v, want [A M C]", got)
	}
}

func TestClone_Independent(t *testing.T) {
	d, _ := Decode("flowchart TB\nA --> B")
	c := d.Clone()
	c.RemoveAndReconnect("B")

	if !d.Reachable("A")["B"] {
		t.Error("editing the clone mutated the original")
	}
}

func TestExtractChain_ReturnsNewDiagram(t *testing.T) {
	d, _ := Decode("flowchart LR\nA --> X\nX --> Y\nY --> B")
	sub := d.ExtractChain([]string{"X", "Y"})

	if got := sub.Encode(codec.Options{}); !strings.Contains(got, "X --> Y") {
		t.Errorf("extracted diagram = %q, want internal link kept", got)
	}
	if got := d.Encode(codec.Options{}); !strings.Contains(got, "A --> B") {
		t.Errorf("host diagram = %q, want bridged boundary", got)
	}
}

func TestQueries(t *testing.T) {
	d, _ := Decode("flowchart TB\nA --> B\nB --> C")

	if got := d.Ancestors("C"); !got["A"] {
		t.Errorf("Ancestors(C) = %v, want A included", got)
	}
	if got := d.LinearChain("A", "C"); !slices.Equal(got, []string{"A", "B", "C"}) {
		t.Errorf("LinearChain(A, C) = %v", got)
	}
}
