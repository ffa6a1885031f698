package codec

import (
	"testing"

	"github.com/matzehuels/flowmark/pkg/flow"
)

func TestDecomposeArrow(t *testing.T) {
	tests := []struct {
		raw    string
		arrow  flow.ArrowType
		stroke flow.Stroke
		length int
	}{
		{"-->", flow.ArrowPoint, flow.StrokeNormal, 1},
		{"--->", flow.ArrowPoint, flow.StrokeNormal, 2},
		{"---->", flow.ArrowPoint, flow.StrokeNormal, 3},
		{"---", flow.ArrowOpen, flow.StrokeNormal, 1},
		{"----", flow.ArrowOpen, flow.StrokeNormal, 2},
		{"--", flow.ArrowOpen, flow.StrokeNormal, 1},
		{"==>", flow.ArrowPoint, flow.StrokeThick, 1},
		{"===>", flow.ArrowPoint, flow.StrokeThick, 2},
		{"===", flow.ArrowOpen, flow.StrokeThick, 1},
		{"-.->", flow.ArrowPoint, flow.StrokeDotted, 2},
		{"-..->", flow.ArrowPoint, flow.StrokeDotted, 3},
		{"-.-", flow.ArrowOpen, flow.StrokeDotted, 1},
		{"--o", flow.ArrowCircle, flow.StrokeNormal, 1},
		{"--x", flow.ArrowCross, flow.StrokeNormal, 1},
		{"==o", flow.ArrowCircle, flow.StrokeThick, 1},
		{" --> ", flow.ArrowPoint, flow.StrokeNormal, 1},
	}
	for _, tt := range tests {
		arrow, stroke, length := DecomposeArrow(tt.raw)
		if arrow != tt.arrow || stroke != tt.stroke || length != tt.length {
			t.Errorf("DecomposeArrow(%q) = (%v, %v, %d), want (%v, %v, %d)",
				tt.raw, arrow, stroke, length, tt.arrow, tt.stroke, tt.length)
		}
	}
}

func TestComposeArrow(t *testing.T) {
	tests := []struct {
		arrow  flow.ArrowType
		stroke flow.Stroke
		length int
		want   string
	}{
		{flow.ArrowPoint, flow.StrokeNormal, 1, "-->"},
		{flow.ArrowPoint, flow.StrokeNormal, 3, "---->"},
		{flow.ArrowOpen, flow.StrokeNormal, 1, "---"},
		{flow.ArrowOpen, flow.StrokeNormal, 2, "----"},
		{flow.ArrowPoint, flow.StrokeThick, 1, "==>"},
		{flow.ArrowOpen, flow.StrokeThick, 1, "==="},
		{flow.ArrowPoint, flow.StrokeDotted, 2, "-.->"},
		{flow.ArrowPoint, flow.StrokeDotted, 3, "-..->"},
		{flow.ArrowOpen, flow.StrokeDotted, 1, "-.-"},
		{flow.ArrowCircle, flow.StrokeNormal, 1, "--o"},
		{flow.ArrowCross, flow.StrokeNormal, 2, "---x"},
		{flow.ArrowPoint, flow.StrokeNormal, 0, "-->"},
	}
	for _, tt := range tests {
		if got := ComposeArrow(tt.arrow, tt.stroke, tt.length); got != tt.want {
			t.Errorf("ComposeArrow(%v, %v, %d) = %q, want %q", tt.arrow, tt.stroke, tt.length, got, tt.want)
		}
	}
}

// Composing then decomposing must return the same attributes for every
// combination that has a token of its own.
func TestArrowRoundTrip(t *testing.T) {
	arrows := []flow.ArrowType{flow.ArrowPoint, flow.ArrowCircle, flow.ArrowCross, flow.ArrowOpen}
	strokes := []flow.Stroke{flow.StrokeNormal, flow.StrokeThick, flow.StrokeDotted}
	for _, a := range arrows {
		for _, s := range strokes {
			for length := 1; length <= 4; length++ {
				if s == flow.StrokeDotted && a != flow.ArrowOpen && length == 1 {
					// The shortest dotted glyph token already means length 2.
					continue
				}
				raw := ComposeArrow(a, s, length)
				ga, gs, gl := DecomposeArrow(raw)
				if ga != a || gs != s || gl != length {
					t.Errorf("DecomposeArrow(ComposeArrow(%v, %v, %d) = %q) = (%v, %v, %d)",
						a, s, length, raw, ga, gs, gl)
				}
			}
		}
	}
}
