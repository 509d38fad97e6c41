package rope

import (
	"unicode/utf8"

	"github.com/clipperhouse/uax29/graphemes"
)

// ========== Grapheme Cluster Oracle ==========
//
// The tree core treats grapheme segmentation as an external predicate so
// the data structure stays stable across Unicode revisions. Everything
// below delegates to the UAX #29 extended grapheme cluster segmenter from
// clipperhouse/uax29. The only other caller of the segmenter is the
// grapheme iterator in iter.go, which segments whole chunks.

// graphemeBoundaries returns every cluster boundary byte offset within
// text, including 0 and len(text).
func graphemeBoundaries(text []byte) []int {
	offs := make([]int, 1, 8)
	pos := 0
	for _, seg := range graphemes.SegmentAllString(string(text)) {
		pos += len(seg)
		offs = append(offs, pos)
	}
	return offs
}

// isBoundaryAt reports whether byteIdx falls on a cluster boundary of
// text. Offsets at the ends are always boundaries.
func isBoundaryAt(text []byte, byteIdx int) bool {
	if byteIdx <= 0 || byteIdx >= len(text) {
		return true
	}
	pos := 0
	for _, seg := range graphemes.SegmentAllString(string(text)) {
		if pos == byteIdx {
			return true
		}
		if pos > byteIdx {
			return false
		}
		pos += len(seg)
	}
	return pos == byteIdx
}

// prevBoundaryIn returns the largest cluster boundary strictly before
// byteIdx within text; 0 when none is.
func prevBoundaryIn(text []byte, byteIdx int) int {
	prev := 0
	pos := 0
	for _, seg := range graphemes.SegmentAllString(string(text)) {
		if pos >= byteIdx {
			break
		}
		prev = pos
		pos += len(seg)
	}
	return prev
}

// nextBoundaryIn returns the smallest cluster boundary strictly after
// byteIdx within text; len(text) when none is.
func nextBoundaryIn(text []byte, byteIdx int) int {
	pos := 0
	for _, seg := range graphemes.SegmentAllString(string(text)) {
		pos += len(seg)
		if pos > byteIdx {
			return pos
		}
	}
	return len(text)
}

// seamIsBoundary reports whether the join between two adjacent chunks is
// a cluster boundary. This is the predicate behind invariant checking and
// seam repair.
func seamIsBoundary(left, right []byte) bool {
	if len(left) == 0 || len(right) == 0 {
		return true
	}
	if asciiSeamBoundary(left, right) {
		return true
	}
	combined := append(copyBytes(left), right...)
	return isBoundaryAt(combined, len(left))
}

// asciiSeamBoundary is the cheap common case: two ASCII neighbors always
// form a boundary except the CRLF pair. Anything non-ASCII defers to the
// segmenter.
func asciiSeamBoundary(left, right []byte) bool {
	l := left[len(left)-1]
	r := right[0]
	if l >= utf8.RuneSelf || r >= utf8.RuneSelf {
		return false
	}
	return !(l == carriageReturn && r == lineFeed)
}
