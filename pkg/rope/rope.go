// Package rope implements a copy-on-write B-tree rope for large UTF-8 text.
//
// A Rope stores text as a balanced tree of bounded leaves, with per-subtree
// (bytes, chars, line breaks) summaries cached at every internal node. That
// layout gives logarithmic edits and index conversions even for texts of
// hundreds of megabytes, including pathological shapes like a single very
// long line.
//
// Except where documented otherwise, every index into a rope is a char
// index (a count of Unicode scalar values). Byte and line indices are
// derived through O(log n) conversions.
//
// Operation | Time Complexity | Notes
// -----------|-----------------|-------
// FromString | O(n) | bottom-up bulk build
// LenBytes/LenChars/LenLines | O(1) |
// Insert/Remove/SplitOff/Append | O(log n) |
// byte/char/line conversions | O(log n) |
// Clone | O(1) | copy-on-write sharing
// String | O(n) |
//
// # Mutation and Sharing
//
// Edit methods mutate the receiver in place. Clone is O(1) and shares the
// whole tree; after cloning, the first edit through either handle copies
// only the touched spine, so clones diverge incrementally. Two goroutines
// may edit distinct clones concurrently without synchronization. Edits on
// a single handle require external exclusion; the type has no internal
// locking.
//
// # Grapheme Discipline
//
// Leaf boundaries never split an extended grapheme cluster (UAX #29), so
// chunk-at-a-time consumers can segment each chunk independently. The
// segmentation itself comes from clipperhouse/uax29; the tree consults it
// only through the seam oracle in graphemes.go.
//
// # Basic Usage
//
//	r := rope.FromString("Hello みんなさん!")
//	_ = r.Insert(6, "world ")
//	_ = r.Remove(0, 6)
//	fmt.Println(r.String())
package rope

import (
	"io"
	"unicode/utf8"
)

// Rope is an editable UTF-8 text backed by a balanced tree of chunks.
// The zero value is not usable; construct with New, FromString, FromReader
// or a Builder.
type Rope struct {
	root  *node
	owner *editOwner
}

// ========== Constructors ==========

// New returns an empty rope.
func New() *Rope {
	o := &editOwner{}
	return &Rope{root: newLeaf(o, nil), owner: o}
}

// FromString builds a rope from text, which must be valid UTF-8.
func FromString(text string) *Rope {
	b := NewBuilder()
	b.Append(text)
	return b.Finish()
}

// FromBytes builds a rope from data, which must be valid UTF-8. The data
// is copied.
func FromBytes(data []byte) *Rope {
	b := NewBuilder()
	b.AppendBytes(data)
	return b.Finish()
}

// Clone returns an independent handle over the same text. The call is
// O(1); both handles keep working and edits through one never show
// through the other. Cloning refreshes the ownership token on both sides,
// so every node built so far becomes frozen and is copied on first write.
func (r *Rope) Clone() *Rope {
	r.owner = &editOwner{}
	return &Rope{root: r.root, owner: &editOwner{}}
}

// ========== Query Operations ==========

// LenBytes returns the total number of bytes. O(1).
func (r *Rope) LenBytes() int {
	return r.root.info().Bytes
}

// LenChars returns the total number of chars (Unicode scalar values). O(1).
func (r *Rope) LenChars() int {
	return r.root.info().Chars
}

// LenLines returns the number of lines, which is the line-break count plus
// one; an empty rope has one (empty) line. O(1).
func (r *Rope) LenLines() int {
	return r.root.info().LineBreaks + 1
}

// ========== Edit Operations ==========

// Insert splices text at char index charIdx. The rope is untouched when an
// out-of-bounds error is returned.
//
// Three strategies, picked by insert size and current shape: small inserts
// splice directly into the target leaf; inserts into a rope that is itself
// a single small leaf rebuild it around the new text; large inserts split
// the rope and graft a freshly built middle part.
func (r *Rope) Insert(charIdx int, text string) error {
	lenChars := r.LenChars()
	if charIdx < 0 || charIdx > lenChars {
		return errInsertOutOfBounds(charIdx, lenChars)
	}
	if len(text) == 0 {
		return nil
	}

	switch {
	case len(text) <= maxBytes-4:
		root := r.root.makeMut(r.owner)
		r.root = root
		residual, splitSeam := root.insert(r.owner, charIdx, []byte(text))
		if residual != nil {
			r.root = newInternal(r.owner, []*node{r.root, residual})
		}
		// Repair every join the splice may have created: the two edges of
		// the inserted text plus a leaf split point, if any. Seam repair
		// shuffles bytes between adjacent leaves without moving content,
		// so the byte offsets stay valid across the three fixes.
		startByte := r.root.charToByte(charIdx)
		r.fixSeam(splitSeam)
		r.fixSeam(startByte)
		r.fixSeam(startByte + len(text))

	case r.root.isLeaf() && r.LenBytes() <= maxBytes:
		orig := r.root.text
		byteIdx := charIdxToByteIdx(orig, charIdx)
		b := NewBuilder()
		b.AppendBytes(orig[:byteIdx])
		b.Append(text)
		b.AppendBytes(orig[byteIdx:])
		nr := b.Finish()
		r.root, r.owner = nr.root, nr.owner

	default:
		right, _ := r.SplitOff(charIdx)
		r.Append(FromString(text))
		r.Append(right)
	}
	return nil
}

// Remove excises chars [start, end). The rope is untouched when an
// out-of-bounds error is returned.
func (r *Rope) Remove(start, end int) error {
	lenChars := r.LenChars()
	if start < 0 || start > end || end > lenChars {
		return errRemoveOutOfBounds(start, end, lenChars)
	}
	if start == end {
		return nil
	}
	if start == 0 && end == lenChars {
		r.root = newLeaf(r.owner, nil)
		return nil
	}

	root := r.root.makeMut(r.owner)
	r.root = root
	needZip := root.remove(r.owner, start, end)
	if needZip {
		root.zipFix(r.owner, start)
	}
	r.pullUpSingularNodes()
	r.fixSeam(r.root.charToByte(start))
	return nil
}

// SplitOff truncates the rope at charIdx and returns the suffix as a new
// rope. Splitting at 0 empties the receiver and returns the whole
// original; splitting at LenChars returns an empty rope.
func (r *Rope) SplitOff(charIdx int) (*Rope, error) {
	lenChars := r.LenChars()
	if charIdx < 0 || charIdx > lenChars {
		return nil, errSplitOutOfBounds(charIdx, lenChars)
	}
	if charIdx == 0 {
		other := &Rope{root: r.root, owner: r.owner}
		r.owner = &editOwner{}
		r.root = newLeaf(r.owner, nil)
		return other, nil
	}
	if charIdx == lenChars {
		return New(), nil
	}

	root := r.root.makeMut(r.owner)
	r.root = root
	rightRoot := root.split(r.owner, charIdx)
	// The split exposes a raw edge on each side; zip the inner spines and
	// pull up singular roots. The two trees are disjoint node sets, so
	// sharing the owner token is safe.
	root.zipFixRight(r.owner)
	rightRoot.zipFixLeft(r.owner)
	other := &Rope{root: rightRoot, owner: r.owner}
	r.pullUpSingularNodes()
	other.pullUpSingularNodes()
	return other, nil
}

// Append moves other's text onto the end of r. other is consumed: it is
// left empty, and the call is O(log n) regardless of either length.
func (r *Rope) Append(other *Rope) {
	if other == nil || other.LenChars() == 0 {
		return
	}
	if r.LenChars() == 0 {
		r.root, r.owner = other.root, other.owner
		other.detach()
		return
	}

	seamByte := r.LenBytes()
	lDepth, rDepth := r.root.depth(), other.root.depth()
	if lDepth > rDepth {
		root := r.root.makeMut(r.owner)
		r.root = root
		if extra := root.appendAtDepth(r.owner, other.root, lDepth-rDepth); extra != nil {
			r.root = newInternal(r.owner, []*node{r.root, extra})
		}
	} else {
		oroot := other.root.makeMut(r.owner)
		if extra := oroot.prependAtDepth(r.owner, r.root, rDepth-lDepth); extra != nil {
			oroot = newInternal(r.owner, []*node{extra, oroot})
		}
		r.root = oroot
	}
	other.detach()

	// A grafted root was exempt from the child minimum while it was a
	// root; zip the join spine to restore the interior invariant, then
	// repair the grapheme seam at the join.
	r.root = r.root.makeMut(r.owner)
	r.root.zipFix(r.owner, r.root.byteToChar(seamByte))
	r.pullUpSingularNodes()
	r.fixSeam(seamByte)
}

// detach resets a consumed rope to an independent empty state so later use
// of the stale handle cannot reach nodes that now live in another tree.
func (r *Rope) detach() {
	r.owner = &editOwner{}
	r.root = newLeaf(r.owner, nil)
}

// ========== Index Conversions ==========
//
// All conversions clamp their argument to the valid range and saturate at
// the ends, per the navigation contract; only edit operations report
// out-of-bounds indices as errors.

func (r *Rope) clampByte(byteIdx int) int {
	if byteIdx < 0 {
		return 0
	}
	if max := r.LenBytes(); byteIdx > max {
		return max
	}
	return byteIdx
}

func (r *Rope) clampChar(charIdx int) int {
	if charIdx < 0 {
		return 0
	}
	if max := r.LenChars(); charIdx > max {
		return max
	}
	return charIdx
}

// ByteToChar returns the char index containing byte byteIdx.
func (r *Rope) ByteToChar(byteIdx int) int {
	return r.root.byteToChar(r.clampByte(byteIdx))
}

// ByteToLine returns the line index containing byte byteIdx.
func (r *Rope) ByteToLine(byteIdx int) int {
	return r.root.byteToLine(r.clampByte(byteIdx))
}

// CharToByte returns the byte offset of char charIdx.
func (r *Rope) CharToByte(charIdx int) int {
	return r.root.charToByte(r.clampChar(charIdx))
}

// CharToLine returns the line index containing char charIdx. A char
// pointing at a line break belongs to the line that break terminates.
func (r *Rope) CharToLine(charIdx int) int {
	return r.root.charToLine(r.clampChar(charIdx))
}

// LineToByte returns the byte offset of the start of line lineIdx;
// LenBytes for lineIdx past the last line.
func (r *Rope) LineToByte(lineIdx int) int {
	if lineIdx <= 0 {
		return 0
	}
	if lineIdx >= r.LenLines() {
		return r.LenBytes()
	}
	return r.root.lineToByte(lineIdx)
}

// LineToChar returns the char offset of the start of line lineIdx;
// LenChars for lineIdx past the last line.
func (r *Rope) LineToChar(lineIdx int) int {
	if lineIdx <= 0 {
		return 0
	}
	if lineIdx >= r.LenLines() {
		return r.LenChars()
	}
	return r.root.lineToChar(lineIdx)
}

// ========== Grapheme Operations ==========

// IsGraphemeBoundary reports whether charIdx falls on an extended grapheme
// cluster boundary. Both ends of the rope are boundaries.
func (r *Rope) IsGraphemeBoundary(charIdx int) bool {
	charIdx = r.clampChar(charIdx)
	if charIdx == 0 || charIdx == r.LenChars() {
		return true
	}
	chunk, _, startChar := r.root.chunkAtChar(charIdx)
	if charIdx == startChar {
		// Chunk seams are cluster boundaries by invariant.
		return true
	}
	return isBoundaryAt(chunk, charIdxToByteIdx(chunk, charIdx-startChar))
}

// PrevGraphemeBoundary returns the nearest cluster boundary strictly
// before charIdx; 0 at the start of the rope.
func (r *Rope) PrevGraphemeBoundary(charIdx int) int {
	charIdx = r.clampChar(charIdx)
	if charIdx == 0 {
		return 0
	}
	chunk, _, startChar := r.root.chunkEndingAtChar(charIdx)
	local := charIdxToByteIdx(chunk, charIdx-startChar)
	return startChar + byteIdxToCharIdx(chunk, prevBoundaryIn(chunk, local))
}

// NextGraphemeBoundary returns the nearest cluster boundary strictly
// after charIdx; LenChars at the end of the rope.
func (r *Rope) NextGraphemeBoundary(charIdx int) int {
	charIdx = r.clampChar(charIdx)
	if charIdx >= r.LenChars() {
		return r.LenChars()
	}
	chunk, _, startChar := r.root.chunkAtChar(charIdx)
	local := charIdxToByteIdx(chunk, charIdx-startChar)
	return startChar + byteIdxToCharIdx(chunk, nextBoundaryIn(chunk, local))
}

// LargestGraphemeSize returns the byte length of the longest cluster in
// the rope. A toy for poking at silly text files, but handy in seam tests.
func (r *Rope) LargestGraphemeSize() int {
	largest := 0
	it := r.Graphemes()
	for it.Next() {
		if n := len(it.Current()); n > largest {
			largest = n
		}
	}
	return largest
}

// ========== Conversion To Strings And Streams ==========

// String materializes the whole text. O(n).
func (r *Rope) String() string {
	out := make([]byte, 0, r.LenBytes())
	it := r.Chunks()
	for it.Next() {
		out = append(out, it.CurrentBytes()...)
	}
	return string(out)
}

// Bytes materializes the whole text as a fresh byte slice. O(n).
func (r *Rope) Bytes() []byte {
	out := make([]byte, 0, r.LenBytes())
	it := r.Chunks()
	for it.Next() {
		out = append(out, it.CurrentBytes()...)
	}
	return out
}

// WriteTo streams the text into w chunk by chunk, implementing
// io.WriterTo.
func (r *Rope) WriteTo(w io.Writer) (int64, error) {
	var written int64
	it := r.Chunks()
	for it.Next() {
		n, err := w.Write(it.CurrentBytes())
		written += int64(n)
		if err != nil {
			return written, err
		}
	}
	return written, nil
}

// Reader returns an io.Reader over the rope's bytes. The reader holds a
// snapshot: edits to the rope after the call do not show through.
func (r *Rope) Reader() io.Reader {
	r.owner = &editOwner{} // freeze shared nodes, as Clone does
	return &ropeReader{chunks: newChunkIterator(r.root)}
}

type ropeReader struct {
	chunks *ChunkIterator
	rest   []byte
}

func (rr *ropeReader) Read(p []byte) (int, error) {
	for len(rr.rest) == 0 {
		if !rr.chunks.Next() {
			return 0, io.EOF
		}
		rr.rest = rr.chunks.CurrentBytes()
	}
	n := copy(p, rr.rest)
	rr.rest = rr.rest[n:]
	return n, nil
}

// ========== Equality ==========

// Equal reports whether two ropes hold the same char sequence. Tree shape
// does not matter; the comparison walks both chunk streams.
func (r *Rope) Equal(other *Rope) bool {
	if r == other {
		return true
	}
	if r.LenBytes() != other.LenBytes() || r.LenChars() != other.LenChars() {
		return false
	}
	a, b := r.Chunks(), other.Chunks()
	var ra, rb []byte
	for {
		if len(ra) == 0 {
			if !a.Next() {
				return len(rb) == 0 && !b.Next()
			}
			ra = a.CurrentBytes()
		}
		if len(rb) == 0 {
			if !b.Next() {
				return false
			}
			rb = b.CurrentBytes()
		}
		n := len(ra)
		if len(rb) < n {
			n = len(rb)
		}
		for i := 0; i < n; i++ {
			if ra[i] != rb[i] {
				return false
			}
		}
		ra, rb = ra[n:], rb[n:]
	}
}

// EqualString reports whether the rope's text equals s.
func (r *Rope) EqualString(s string) bool {
	if r.LenBytes() != len(s) {
		return false
	}
	pos := 0
	it := r.Chunks()
	for it.Next() {
		chunk := it.CurrentBytes()
		if string(chunk) != s[pos:pos+len(chunk)] {
			return false
		}
		pos += len(chunk)
	}
	return pos == len(s)
}

// ========== Internal Utilities ==========

// fixSeam repairs the grapheme seam at an absolute byte offset. Offsets at
// the ends (or -1, the "no seam" marker) are no-ops, as are offsets that
// land inside a leaf rather than on a join.
func (r *Rope) fixSeam(byteIdx int) {
	if byteIdx <= 0 || byteIdx >= r.LenBytes() {
		return
	}
	r.root = r.root.makeMut(r.owner)
	seamChar := r.root.byteToChar(byteIdx)
	rightLeaf, _, _ := r.root.chunkAtByte(byteIdx)
	rightChars := utf8.RuneCount(rightLeaf)
	if r.root.fixGraphemeSeam(r.owner, byteIdx) {
		// The whole right leaf moved left, so the emptied leaf now sits
		// where the grown left leaf ends.
		r.root.zipFix(r.owner, seamChar+rightChars)
		r.pullUpSingularNodes()
	}
}

// pullUpSingularNodes replaces the root with its child while the root is
// an internal node with exactly one child.
func (r *Rope) pullUpSingularNodes() {
	for !r.root.isLeaf() && len(r.root.children) == 1 {
		r.root = r.root.children[0]
	}
	if !r.root.isLeaf() && len(r.root.children) == 0 {
		r.root = newLeaf(r.owner, nil)
	}
}

// runeCountInString is a tiny alias so call sites read like the rest of
// the package.
func runeCountInString(s string) int {
	return utf8.RuneCountInString(s)
}
