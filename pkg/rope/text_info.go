package rope

import "unicode/utf8"

// ========== Text Measurement ==========

// Line-break scalars recognized by the rope.
//
// A line is the text between consecutive line breaks, so the line count of
// any text is its break count plus one. The set below matches the Unicode
// newline guideline: LF, VT, FF, CR, NEL, LINE SEPARATOR and PARAGRAPH
// SEPARATOR. A \r\n pair counts as a single break, attributed to the \n;
// this keeps per-leaf counts additive because the grapheme-seam invariant
// guarantees a pair is never split across leaves.
const (
	lineFeed       = 0x000A // \n
	verticalTab    = 0x000B // \v
	formFeed       = 0x000C // \f
	carriageReturn = 0x000D // \r
	nextLine       = 0x0085 // NEL
	lineSeparator  = 0x2028 // LS
	paraSeparator  = 0x2029 // PS
)

// TextInfo is the additive summary of a piece of text: its byte count,
// char count (Unicode scalar values), and line-break count.
//
// TextInfo forms a monoid: the zero value is the identity, and the info of
// a subtree is the componentwise sum of its children's infos. Internal
// nodes cache one TextInfo per child, which is what makes all index
// conversions O(log n).
type TextInfo struct {
	Bytes      int
	Chars      int
	LineBreaks int
}

// add returns the componentwise sum of ti and other.
func (ti TextInfo) add(other TextInfo) TextInfo {
	return TextInfo{
		Bytes:      ti.Bytes + other.Bytes,
		Chars:      ti.Chars + other.Chars,
		LineBreaks: ti.LineBreaks + other.LineBreaks,
	}
}

// isLineBreak reports whether r terminates a line.
func isLineBreak(r rune) bool {
	switch r {
	case lineFeed, verticalTab, formFeed, carriageReturn, nextLine, lineSeparator, paraSeparator:
		return true
	}
	return false
}

// computeTextInfo measures text, which must be valid UTF-8.
func computeTextInfo(text []byte) TextInfo {
	info := TextInfo{Bytes: len(text)}
	i := 0
	for i < len(text) {
		b := text[i]
		if b < utf8.RuneSelf {
			info.Chars++
			if b == lineFeed || b == verticalTab || b == formFeed {
				info.LineBreaks++
			} else if b == carriageReturn {
				// CRLF counts once, at the \n.
				if i+1 >= len(text) || text[i+1] != lineFeed {
					info.LineBreaks++
				}
			}
			i++
			continue
		}
		r, size := utf8.DecodeRune(text[i:])
		info.Chars++
		if isLineBreak(r) {
			info.LineBreaks++
		}
		i += size
	}
	return info
}
