package rope

import (
	"unicode/utf8"

	"github.com/clipperhouse/uax29/graphemes"
)

// ========== Chunk Iterator ==========
//
// Chunks is the primitive the other iterators build on: an in-order walk
// over the tree's leaves driven by an explicit stack. Empty leaves (only
// the empty rope has one) are skipped, so every yielded chunk is non-empty.

// ChunkIterator walks the rope's chunks in document order.
type ChunkIterator struct {
	stack []chunkFrame
	cur   []byte
}

type chunkFrame struct {
	n   *node
	idx int
}

// Chunks returns an iterator over the rope's chunks. The iterator holds
// node references, so edits to the rope during iteration are undefined;
// Clone first when that matters.
func (r *Rope) Chunks() *ChunkIterator {
	return newChunkIterator(r.root)
}

func newChunkIterator(root *node) *ChunkIterator {
	it := &ChunkIterator{}
	if root != nil {
		it.stack = append(it.stack, chunkFrame{root, -1})
	}
	return it
}

// Next advances to the next chunk, reporting whether one exists.
func (it *ChunkIterator) Next() bool {
	for len(it.stack) > 0 {
		top := &it.stack[len(it.stack)-1]
		if top.n.isLeaf() {
			text := top.n.text
			it.stack = it.stack[:len(it.stack)-1]
			if len(text) > 0 {
				it.cur = text
				return true
			}
			continue
		}
		top.idx++
		if top.idx >= len(top.n.children) {
			it.stack = it.stack[:len(it.stack)-1]
			continue
		}
		it.stack = append(it.stack, chunkFrame{top.n.children[top.idx], -1})
	}
	it.cur = nil
	return false
}

// Current returns the current chunk as a string.
func (it *ChunkIterator) Current() string {
	return string(it.cur)
}

// CurrentBytes returns the current chunk's bytes. The slice aliases the
// rope's storage and must not be modified.
func (it *ChunkIterator) CurrentBytes() []byte {
	return it.cur
}

// ========== Bytes Iterator ==========

// BytesIterator yields the rope's bytes one at a time.
type BytesIterator struct {
	chunks *ChunkIterator
	rest   []byte
	cur    byte
}

// IterBytes returns an iterator over the rope's bytes.
func (r *Rope) IterBytes() *BytesIterator {
	return &BytesIterator{chunks: newChunkIterator(r.root)}
}

// Next advances to the next byte, reporting whether one exists.
func (it *BytesIterator) Next() bool {
	for len(it.rest) == 0 {
		if !it.chunks.Next() {
			return false
		}
		it.rest = it.chunks.CurrentBytes()
	}
	it.cur = it.rest[0]
	it.rest = it.rest[1:]
	return true
}

// Current returns the current byte.
func (it *BytesIterator) Current() byte {
	return it.cur
}

// ========== Runes Iterator ==========

// RunesIterator yields the rope's chars in order. Chunks never split a
// code point, so each chunk decodes independently.
type RunesIterator struct {
	chunks *ChunkIterator
	rest   []byte
	cur    rune
}

// IterRunes returns an iterator over the rope's chars.
func (r *Rope) IterRunes() *RunesIterator {
	return &RunesIterator{chunks: newChunkIterator(r.root)}
}

// Next advances to the next char, reporting whether one exists.
func (it *RunesIterator) Next() bool {
	for len(it.rest) == 0 {
		if !it.chunks.Next() {
			return false
		}
		it.rest = it.chunks.CurrentBytes()
	}
	r, size := utf8.DecodeRune(it.rest)
	it.cur = r
	it.rest = it.rest[size:]
	return true
}

// Current returns the current char.
func (it *RunesIterator) Current() rune {
	return it.cur
}

// ========== Grapheme Iterator ==========

// GraphemeIterator yields extended grapheme clusters in order. Because no
// cluster straddles a chunk seam, each chunk is segmented independently.
type GraphemeIterator struct {
	chunks   *ChunkIterator
	segments []string
	segIdx   int
	cur      string
}

// Graphemes returns an iterator over the rope's grapheme clusters.
func (r *Rope) Graphemes() *GraphemeIterator {
	return &GraphemeIterator{chunks: newChunkIterator(r.root)}
}

// Next advances to the next cluster, reporting whether one exists.
func (it *GraphemeIterator) Next() bool {
	for it.segIdx >= len(it.segments) {
		if !it.chunks.Next() {
			return false
		}
		it.segments = graphemes.SegmentAllString(it.chunks.Current())
		it.segIdx = 0
	}
	it.cur = it.segments[it.segIdx]
	it.segIdx++
	return true
}

// Current returns the current cluster's text.
func (it *GraphemeIterator) Current() string {
	return it.cur
}

// ========== Lines Iterator ==========

// LinesIterator yields one line at a time, without its terminating break.
type LinesIterator struct {
	rope    *Rope
	lineIdx int
	cur     string
}

// IterLines returns an iterator over the rope's lines. Every rope has at
// least one line; a trailing break yields a final empty line.
func (r *Rope) IterLines() *LinesIterator {
	return &LinesIterator{rope: r, lineIdx: -1}
}

// Next advances to the next line, reporting whether one exists.
func (it *LinesIterator) Next() bool {
	if it.lineIdx+1 >= it.rope.LenLines() {
		return false
	}
	it.lineIdx++
	it.cur = it.rope.Line(it.lineIdx)
	return true
}

// Current returns the current line's text, without its line break.
func (it *LinesIterator) Current() string {
	return it.cur
}

// LineIndex returns the current line number.
func (it *LinesIterator) LineIndex() int {
	return it.lineIdx
}

// ========== Line Access ==========

// Line returns the text of line lineIdx without its terminating break;
// an empty string for out-of-range indices.
func (r *Rope) Line(lineIdx int) string {
	if lineIdx < 0 || lineIdx >= r.LenLines() {
		return ""
	}
	start := r.LineToChar(lineIdx)
	end := r.LineToChar(lineIdx + 1)
	// Drop the break that terminates the line, if any.
	text := r.charRangeString(start, end)
	return trimTrailingBreak(text)
}

// charRangeString materializes chars [start, end).
func (r *Rope) charRangeString(start, end int) string {
	if start >= end {
		return ""
	}
	startByte := r.CharToByte(start)
	endByte := r.CharToByte(end)
	out := make([]byte, 0, endByte-startByte)
	pos := 0
	it := r.Chunks()
	for it.Next() && pos < endByte {
		chunk := it.CurrentBytes()
		lo, hi := startByte-pos, endByte-pos
		if lo < 0 {
			lo = 0
		}
		if hi > len(chunk) {
			hi = len(chunk)
		}
		if lo < hi {
			out = append(out, chunk[lo:hi]...)
		}
		pos += len(chunk)
	}
	return string(out)
}

// trimTrailingBreak strips one line break (including a CRLF pair) from the
// end of s.
func trimTrailingBreak(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeLastRuneInString(s)
	if !isLineBreak(r) {
		return s
	}
	s = s[:len(s)-size]
	if r == lineFeed && len(s) > 0 && s[len(s)-1] == carriageReturn {
		s = s[:len(s)-1]
	}
	return s
}

// ========== Chunk Queries ==========

// ChunkAtByte returns the chunk containing byteIdx along with the
// absolute byte and char offsets of the chunk's start. A byteIdx on a
// seam resolves to the chunk starting there.
func (r *Rope) ChunkAtByte(byteIdx int) (chunk string, startByte, startChar int) {
	text, sb, sc := r.root.chunkAtByte(r.clampByte(byteIdx))
	return string(text), sb, sc
}

// ChunkAtChar returns the chunk containing char charIdx along with the
// absolute byte and char offsets of the chunk's start.
func (r *Rope) ChunkAtChar(charIdx int) (chunk string, startByte, startChar int) {
	text, sb, sc := r.root.chunkAtChar(r.clampChar(charIdx))
	return string(text), sb, sc
}
