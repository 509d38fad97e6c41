package rope

// ========== Slice View ==========

// Slice is a read-only view over a char range of a rope. Creating one is
// O(log n): the view addresses the shared tree rather than copying text.
// Taking a slice freezes the underlying nodes the same way Clone does, so
// later edits to the rope do not show through the view.
type Slice struct {
	root      *node
	startChar int
	endChar   int
	startByte int
	endByte   int
}

// Slice returns a view over chars [start, end).
func (r *Rope) Slice(start, end int) (*Slice, error) {
	if start < 0 || start > end || end > r.LenChars() {
		return nil, errSliceOutOfBounds(start, end, r.LenChars())
	}
	r.owner = &editOwner{} // freeze shared nodes, as Clone does
	return &Slice{
		root:      r.root,
		startChar: start,
		endChar:   end,
		startByte: r.root.charToByte(start),
		endByte:   r.root.charToByte(end),
	}, nil
}

// ToSlice returns a view over the whole rope.
func (r *Rope) ToSlice() *Slice {
	s, _ := r.Slice(0, r.LenChars())
	return s
}

// LenChars returns the view's char count.
func (s *Slice) LenChars() int {
	return s.endChar - s.startChar
}

// LenBytes returns the view's byte count.
func (s *Slice) LenBytes() int {
	return s.endByte - s.startByte
}

// String materializes the viewed text.
func (s *Slice) String() string {
	out := make([]byte, 0, s.LenBytes())
	pos := 0
	it := newChunkIterator(s.root)
	for it.Next() && pos < s.endByte {
		chunk := it.CurrentBytes()
		lo, hi := s.startByte-pos, s.endByte-pos
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

// EqualString reports whether the viewed text equals other.
func (s *Slice) EqualString(other string) bool {
	if s.LenBytes() != len(other) {
		return false
	}
	return s.String() == other
}

// Slice re-slices the view over chars [start, end) relative to it.
func (s *Slice) Slice(start, end int) (*Slice, error) {
	if start < 0 || start > end || end > s.LenChars() {
		return nil, errSliceOutOfBounds(start, end, s.LenChars())
	}
	return &Slice{
		root:      s.root,
		startChar: s.startChar + start,
		endChar:   s.startChar + end,
		startByte: s.root.charToByte(s.startChar + start),
		endByte:   s.root.charToByte(s.startChar + end),
	}, nil
}

// Rope materializes the view as an independent rope.
func (s *Slice) Rope() *Rope {
	b := NewBuilder()
	pos := 0
	it := newChunkIterator(s.root)
	for it.Next() && pos < s.endByte {
		chunk := it.CurrentBytes()
		lo, hi := s.startByte-pos, s.endByte-pos
		if lo < 0 {
			lo = 0
		}
		if hi > len(chunk) {
			hi = len(chunk)
		}
		if lo < hi {
			b.AppendBytes(chunk[lo:hi])
		}
		pos += len(chunk)
	}
	return b.Finish()
}
