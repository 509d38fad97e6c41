package rope

import (
	"io"
	"unicode/utf8"
)

// ========== Builder ==========

// Builder assembles a rope bottom-up from a stream of UTF-8 chunks. It is
// dramatically cheaper than n single inserts: incoming text is cut into
// leaves, and Finish stacks complete levels over them in one pass.
//
//	b := rope.NewBuilder()
//	b.Append("Hello")
//	b.Append(" World")
//	r := b.Finish()
//
// Appended text must be valid UTF-8 and must not end mid code point;
// FromReader handles raw byte streams that need validation.
type Builder struct {
	owner  *editOwner
	leaves []*node
	buf    []byte
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{owner: &editOwner{}}
}

// Append adds text to the end of the rope being built.
func (b *Builder) Append(text string) *Builder {
	if len(text) == 0 {
		return b
	}
	b.buf = append(b.buf, text...)
	b.cutFullLeaves()
	return b
}

// AppendBytes adds data, which is copied, to the end of the rope being
// built.
func (b *Builder) AppendBytes(data []byte) *Builder {
	if len(data) == 0 {
		return b
	}
	b.buf = append(b.buf, data...)
	b.cutFullLeaves()
	return b
}

// cutFullLeaves carves leaves off the front of the buffer while at least
// maxBytes of lookahead remains past the cut. The lookahead guarantees the
// segmenter sees any cluster that could straddle the cut, so leaves come
// out grapheme-clean without a repair pass. Each cut segments only a
// bounded window: its left edge is a previous cut, which is already a
// cluster boundary, so the segmentation stays valid.
func (b *Builder) cutFullLeaves() {
	start := 0
	for len(b.buf)-start >= 2*maxBytes {
		window := b.buf[start : start+2*maxBytes]
		cut := cutPoint(window)
		b.leaves = append(b.leaves, newLeaf(b.owner, copyBytes(window[:cut])))
		start += cut
	}
	if start > 0 {
		b.buf = append(b.buf[:0], b.buf[start:]...)
	}
}

// cutPoint picks the largest cluster boundary <= maxBytes within window;
// a cluster bigger than a whole leaf (nothing sane produces one) falls
// back to a code-point-safe cut.
func cutPoint(window []byte) int {
	cut := prevBoundaryIn(window, maxBytes+1)
	if cut == 0 {
		cut = prevSafeSplit(window, maxBytes)
	}
	if cut == 0 {
		cut = maxBytes
	}
	return cut
}

// Finish builds the rope and resets the builder for reuse.
func (b *Builder) Finish() *Rope {
	start := 0
	for len(b.buf)-start > maxBytes {
		window := b.buf[start:]
		cut := cutPoint(window)
		b.leaves = append(b.leaves, newLeaf(b.owner, copyBytes(window[:cut])))
		start += cut
	}
	if len(b.buf)-start > 0 {
		b.leaves = append(b.leaves, newLeaf(b.owner, copyBytes(b.buf[start:])))
	}

	rope := &Rope{owner: b.owner}
	switch len(b.leaves) {
	case 0:
		rope.root = newLeaf(b.owner, nil)
	case 1:
		rope.root = b.leaves[0]
	default:
		level := b.leaves
		for len(level) > 1 {
			level = buildLevel(b.owner, level)
		}
		rope.root = level[0]
	}

	b.owner = &editOwner{}
	b.leaves = nil
	b.buf = nil
	return rope
}

// buildLevel groups nodes into parents of up to maxChildren each. A short
// final group below minChildren borrows from its neighbor so interior
// nodes always satisfy the minimum; only the eventual root is exempt.
func buildLevel(o *editOwner, nodes []*node) []*node {
	var parents []*node
	for len(nodes) > 0 {
		take := maxChildren
		if len(nodes) < take {
			take = len(nodes)
		}
		// Leave the last group at least minChildren wide.
		if rest := len(nodes) - take; rest > 0 && rest < minChildren {
			take = (len(nodes) + 1) / 2
		}
		parents = append(parents, newInternal(o, append([]*node(nil), nodes[:take]...)))
		nodes = nodes[take:]
	}
	return parents
}

// ========== Reader Construction ==========

// FromReader consumes rd to EOF and builds a rope from its bytes. The
// stream must be valid UTF-8: undecodable bytes or a stream ending mid
// code point yield ErrInvalidUTF8, while errors from rd itself are
// returned unchanged. Nothing beyond rd is blocked on.
//
// Validation is incremental: each round appends the longest valid prefix
// of the buffer and carries the remainder forward, so a code point split
// across reads is completed by the next one. A full buffer holding no
// valid prefix cannot be text, since code points never get that large.
func FromReader(rd io.Reader) (*Rope, error) {
	b := NewBuilder()
	buf := make([]byte, 2*maxBytes)
	fill := 0
	for {
		n, err := rd.Read(buf[fill:])
		fill += n

		valid := validUTF8Prefix(buf[:fill])
		if valid > 0 {
			b.AppendBytes(buf[:valid])
			copy(buf, buf[valid:fill])
			fill -= valid
		}
		if fill == len(buf) {
			return nil, ErrInvalidUTF8
		}

		if err == io.EOF {
			if fill > 0 {
				return nil, ErrInvalidUTF8
			}
			return b.Finish(), nil
		}
		if err != nil {
			return nil, err
		}
	}
}

// validUTF8Prefix returns the length of the longest prefix of p that is
// complete, valid UTF-8. A trailing partial code point is excluded, to be
// retried with more data.
func validUTF8Prefix(p []byte) int {
	i := 0
	for i < len(p) {
		if p[i] < utf8.RuneSelf {
			i++
			continue
		}
		r, size := utf8.DecodeRune(p[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return i
}
