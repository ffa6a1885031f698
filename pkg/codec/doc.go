// Package codec converts between the flowchart text notation and the
// [flow.Graph] model.
//
// Decoding delegates recognition to the grammar package and implements
// its Builder contract; the only notation-level logic the decoder owns is
// decomposing raw arrow tokens into (arrow type, stroke, length).
// Encoding walks the model and produces canonical text.
//
// The two directions are exact inverses: for any text x that decodes,
// Encode(Decode(x)) re-encodes to itself on every further round trip.
// That idempotence hinges on the arrow dash-count offsets in
// [DecomposeArrow] and [ComposeArrow], which must always change together.
package codec
