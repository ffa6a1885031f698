package codec

import (
	"strings"

	"github.com/matzehuels/flowmark/pkg/flow"
)

// Arrow tokens encode three attributes: the stroke character ('-' normal,
// '=' thick, with '.' runs marking dotted), the terminal glyph ('>', 'o',
// 'x', or none for open), and a length derived from the token's character
// count.
//
// The length offsets differ by arrow type: an open token spends two
// characters on the minimal "--" run, a glyph-terminated token spends one
// character plus the glyph. DecomposeArrow subtracts the offset and
// ComposeArrow adds it back, so "-->" and "---" both mean length 1 and
// every extra character adds one. The offsets are fixed by the notation's
// rendering convention; changing either side alone silently breaks
// round-tripping.

// arrowGlyphs maps terminal glyphs to arrow types.
var arrowGlyphs = map[byte]flow.ArrowType{
	'>': flow.ArrowPoint,
	'o': flow.ArrowCircle,
	'x': flow.ArrowCross,
}

// DecomposeArrow splits a raw arrow token into its arrow type, stroke,
// and length. Length is floored at 1.
func DecomposeArrow(raw string) (flow.ArrowType, flow.Stroke, int) {
	raw = strings.TrimSpace(raw)

	arrow := flow.ArrowOpen
	line := raw
	if len(raw) > 0 {
		if a, ok := arrowGlyphs[raw[len(raw)-1]]; ok {
			arrow = a
			line = raw[:len(raw)-1]
		}
	}

	stroke := flow.StrokeNormal
	switch {
	case strings.Contains(line, "."):
		stroke = flow.StrokeDotted
	case strings.Contains(line, "="):
		stroke = flow.StrokeThick
	}

	offset := 1
	if arrow == flow.ArrowOpen {
		offset = 2
	}
	length := len(line) - offset
	if length < 1 {
		length = 1
	}
	return arrow, stroke, length
}

// ComposeArrow reconstructs the raw token for the given attributes,
// inverting [DecomposeArrow]. A dotted glyph-terminated link of length 1
// has no token of its own (the shortest dotted form "-.->"  already means
// length 2) and is emitted as that shortest form.
func ComposeArrow(arrow flow.ArrowType, stroke flow.Stroke, length int) string {
	if length < 1 {
		length = 1
	}
	offset := 1
	if arrow == flow.ArrowOpen {
		offset = 2
	}
	n := length + offset

	glyph := ""
	switch arrow {
	case flow.ArrowPoint:
		glyph = ">"
	case flow.ArrowCircle:
		glyph = "o"
	case flow.ArrowCross:
		glyph = "x"
	}

	switch stroke {
	case flow.StrokeThick:
		return strings.Repeat("=", n) + glyph
	case flow.StrokeDotted:
		dots := n - 2
		if dots < 1 {
			dots = 1
		}
		return "-" + strings.Repeat(".", dots) + "-" + glyph
	default:
		return strings.Repeat("-", n) + glyph
	}
}
