package rope

import "unicode/utf8"

// ========== Intra-Chunk Index Arithmetic ==========
//
// These helpers operate on a single UTF-8 fragment (one leaf's text).
// They are the O(chunk) base cases of the tree's O(log n) conversions.

// charIdxToByteIdx converts a char offset within text to a byte offset.
// Saturates at len(text).
func charIdxToByteIdx(text []byte, charIdx int) int {
	i := 0
	for charIdx > 0 && i < len(text) {
		if text[i] < utf8.RuneSelf {
			i++
		} else {
			_, size := utf8.DecodeRune(text[i:])
			i += size
		}
		charIdx--
	}
	return i
}

// byteIdxToCharIdx converts a byte offset within text to a char offset.
// byteIdx is clamped to len(text).
func byteIdxToCharIdx(text []byte, byteIdx int) int {
	if byteIdx > len(text) {
		byteIdx = len(text)
	}
	chars := 0
	i := 0
	for i < byteIdx {
		if text[i] < utf8.RuneSelf {
			i++
		} else {
			_, size := utf8.DecodeRune(text[i:])
			i += size
		}
		chars++
	}
	return chars
}

// byteIdxToLineIdx returns the number of line breaks attributed to byte
// positions before byteIdx. A CRLF pair is attributed to its \n, so a
// byteIdx landing between \r and \n does not count the pair yet.
func byteIdxToLineIdx(text []byte, byteIdx int) int {
	if byteIdx > len(text) {
		byteIdx = len(text)
	}
	breaks := 0
	i := 0
	for i < byteIdx {
		b := text[i]
		if b < utf8.RuneSelf {
			if b == lineFeed || b == verticalTab || b == formFeed {
				breaks++
			} else if b == carriageReturn && (i+1 >= len(text) || text[i+1] != lineFeed) {
				breaks++
			}
			i++
			continue
		}
		r, size := utf8.DecodeRune(text[i:])
		if isLineBreak(r) {
			breaks++
		}
		i += size
	}
	return breaks
}

// lineIdxToByteIdx returns the byte offset of the start of line lineIdx,
// i.e. the position just past the lineIdx-th break. Saturates at len(text).
func lineIdxToByteIdx(text []byte, lineIdx int) int {
	if lineIdx <= 0 {
		return 0
	}
	breaks := 0
	i := 0
	for i < len(text) {
		b := text[i]
		var r rune
		size := 1
		if b < utf8.RuneSelf {
			r = rune(b)
		} else {
			r, size = utf8.DecodeRune(text[i:])
		}
		i += size
		if !isLineBreak(r) {
			continue
		}
		if r == carriageReturn && i < len(text) && text[i] == lineFeed {
			// The pair's break lands on the \n.
			continue
		}
		breaks++
		if breaks == lineIdx {
			return i
		}
	}
	return len(text)
}

// ========== Safe Split Points ==========

// isSafeSplit reports whether text may be cut at idx without breaking a
// code point or a CRLF pair.
func isSafeSplit(text []byte, idx int) bool {
	if idx <= 0 || idx >= len(text) {
		return true
	}
	if !utf8.RuneStart(text[idx]) {
		return false
	}
	if text[idx-1] == carriageReturn && text[idx] == lineFeed {
		return false
	}
	return true
}

// prevSafeSplit returns the largest safe split point <= idx.
func prevSafeSplit(text []byte, idx int) int {
	if idx > len(text) {
		idx = len(text)
	}
	for idx > 0 && !isSafeSplit(text, idx) {
		idx--
	}
	return idx
}

// nextSafeSplit returns the smallest safe split point >= idx.
func nextSafeSplit(text []byte, idx int) int {
	if idx < 0 {
		idx = 0
	}
	for idx < len(text) && !isSafeSplit(text, idx) {
		idx++
	}
	return idx
}

// nearestSafeSplit returns the safe split point closest to idx, preferring
// the lower one on ties.
func nearestSafeSplit(text []byte, idx int) int {
	lo := prevSafeSplit(text, idx)
	hi := nextSafeSplit(text, idx)
	if idx-lo <= hi-idx {
		return lo
	}
	return hi
}

// ========== Byte Buffer Helpers ==========

// copyBytes returns an independent copy of b. Leaf texts are always
// uniquely owned by their node, so every constructor copies.
func copyBytes(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

// spliceBytes returns text with [start,end) replaced by ins, always in a
// fresh buffer.
func spliceBytes(text []byte, start, end int, ins []byte) []byte {
	out := make([]byte, 0, len(text)-(end-start)+len(ins))
	out = append(out, text[:start]...)
	out = append(out, ins...)
	out = append(out, text[end:]...)
	return out
}
