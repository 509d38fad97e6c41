package rope

// ========== Leaf Edits ==========

// leafInsert splices ins into the leaf at charIdx. If the leaf overflows
// it splits at the largest safe boundary <= maxBytes and returns the right
// half plus the local byte offset of the split; otherwise (nil, -1).
//
// The façade routes only inserts of at most maxBytes-4 bytes here, which
// guarantees the split leaves both halves within maxBytes even against
// 4-byte code points and CRLF backoff.
func (n *node) leafInsert(o *editOwner, charIdx int, ins []byte) (*node, int) {
	byteIdx := charIdxToByteIdx(n.text, charIdx)
	n.setLeafText(spliceBytes(n.text, byteIdx, byteIdx, ins))
	if len(n.text) <= maxBytes {
		return nil, -1
	}
	split := prevSafeSplit(n.text, maxBytes)
	right := newLeaf(o, copyBytes(n.text[split:]))
	n.setLeafText(n.text[:split:split])
	return right, split
}

// ========== Insert ==========

// insert splices text at charIdx beneath n, which must be mutable.
// Returns a residual sibling when n split, plus the byte offset (relative
// to n's subtree) of a fresh leaf split seam, or -1.
func (n *node) insert(o *editOwner, charIdx int, text []byte) (*node, int) {
	if n.isLeaf() {
		return n.leafInsert(o, charIdx, text)
	}
	i, local := n.childForChar(charIdx)
	start := n.childStartByte(i)
	c := n.mutChild(o, i)
	residual, seam := c.insert(o, local, text)
	n.infos[i] = c.info()
	if seam >= 0 {
		seam += start
	}
	if residual != nil {
		n.insertChildAt(i+1, residual)
		if len(n.children) > maxChildren {
			// The residual half sits immediately after n, so seam offsets
			// relative to the original span stay valid for the caller.
			return n.splitChildren(o), seam
		}
	}
	return nil, seam
}

// ========== Remove ==========

// remove deletes chars [start,end) below n, which must be mutable.
// Reports whether a zip-fix pass is needed to restore size minimums.
// Fully covered children are dropped outright; edge children are edited
// recursively and may come back undersized.
func (n *node) remove(o *editOwner, start, end int) bool {
	if n.isLeaf() {
		sb := charIdxToByteIdx(n.text, start)
		eb := charIdxToByteIdx(n.text, end)
		n.setLeafText(spliceBytes(n.text, sb, eb, nil))
		return false
	}
	needZip := false
	kept := n.children[:0]
	keptInfos := n.infos[:0]
	acc := 0
	for i := range n.children {
		c := n.infos[i].Chars
		cs, ce := acc, acc+c
		acc = ce
		child := n.children[i]
		switch {
		case ce <= start || cs >= end:
			kept = append(kept, child)
			keptInfos = append(keptInfos, n.infos[i])
		case start <= cs && ce <= end:
			// Fully covered: drop the whole subtree.
		default:
			child = child.makeMut(o)
			ls, le := start-cs, end-cs
			if ls < 0 {
				ls = 0
			}
			if le > c {
				le = c
			}
			if child.isLeaf() {
				sb := charIdxToByteIdx(child.text, ls)
				eb := charIdxToByteIdx(child.text, le)
				child.setLeafText(spliceBytes(child.text, sb, eb, nil))
				if len(child.text) == 0 {
					needZip = true
				}
			} else {
				if child.remove(o, ls, le) {
					needZip = true
				}
				if len(child.children) < minChildren {
					needZip = true
				}
			}
			kept = append(kept, child)
			keptInfos = append(keptInfos, child.info())
		}
	}
	n.children = kept
	n.infos = keptInfos
	if len(n.children) < minChildren {
		needZip = true
	}
	return needZip
}

// ========== Split ==========

// split divides n at charIdx, which must satisfy 0 < charIdx < chars.
// n keeps the left part; the right part is returned at the same height.
// Both edge spines may come back undersized or singular; the façade runs
// zipFixRight on the left tree and zipFixLeft on the right, then pulls up
// singular roots.
func (n *node) split(o *editOwner, charIdx int) *node {
	if n.isLeaf() {
		b := charIdxToByteIdx(n.text, charIdx)
		right := newLeaf(o, copyBytes(n.text[b:]))
		n.setLeafText(n.text[:b:b])
		return right
	}
	i, local := n.childForChar(charIdx)
	if local == n.infos[i].Chars {
		// Clean cut between child i and i+1.
		right := newInternal(o, append([]*node(nil), n.children[i+1:]...))
		n.children = n.children[: i+1 : i+1]
		n.infos = n.infos[: i+1 : i+1]
		return right
	}
	c := n.mutChild(o, i)
	rchild := c.split(o, local)
	n.infos[i] = c.info()
	rightChildren := make([]*node, 0, len(n.children)-i)
	rightChildren = append(rightChildren, rchild)
	rightChildren = append(rightChildren, n.children[i+1:]...)
	right := newInternal(o, rightChildren)
	n.children = n.children[: i+1 : i+1]
	n.infos = n.infos[: i+1 : i+1]
	return right
}

// ========== Graft (Append / Prepend At Depth) ==========

// appendAtDepth grafts other, which is depth levels shallower than n,
// onto n's rightmost spine. A non-nil return is a residual sibling of n
// for the caller to place immediately after it.
func (n *node) appendAtDepth(o *editOwner, other *node, depth int) *node {
	if depth == 0 {
		return other
	}
	last := len(n.children) - 1
	c := n.mutChild(o, last)
	residual := c.appendAtDepth(o, other, depth-1)
	n.infos[last] = c.info()
	if residual == nil {
		return nil
	}
	n.children = append(n.children, residual)
	n.infos = append(n.infos, residual.info())
	if len(n.children) > maxChildren {
		return n.splitChildren(o)
	}
	return nil
}

// prependAtDepth is the mirror graft along the leftmost spine. A non-nil
// return is a residual sibling for the caller to place before n.
func (n *node) prependAtDepth(o *editOwner, other *node, depth int) *node {
	if depth == 0 {
		return other
	}
	c := n.mutChild(o, 0)
	residual := c.prependAtDepth(o, other, depth-1)
	n.infos[0] = c.info()
	if residual == nil {
		return nil
	}
	n.insertChildAt(0, residual)
	if len(n.children) > maxChildren {
		return n.splitChildrenLeft(o)
	}
	return nil
}

// ========== Zip-Fix ==========

// zipFix restores child-count minimums along the spine containing charIdx
// after a remove or graft. The pass is post-order: children repair their
// own seam spines first, then undersized seam children at this level are
// merged with a sibling (or redistributed when the pair is too big to
// merge). Reports whether anything in n's subtree changed, so the parent
// can refresh its cached info and react to n itself shrinking.
func (n *node) zipFix(o *editOwner, charIdx int) bool {
	if n.isLeaf() || len(n.children) == 0 {
		return false
	}
	changed := false
	i, local := n.childForChar(charIdx)
	atSeam := i+1 < len(n.children) && local == n.infos[i].Chars
	if !n.children[i].isLeaf() {
		c := n.mutChild(o, i)
		if c.zipFix(o, local) {
			n.infos[i] = c.info()
			changed = true
		}
	}
	if atSeam && !n.children[i+1].isLeaf() {
		c := n.mutChild(o, i+1)
		if c.zipFix(o, 0) {
			n.infos[i+1] = c.info()
			changed = true
		}
	}
	if atSeam && i+1 < len(n.children) && n.childUndersized(i+1) {
		n.mergeDistribute(o, i)
		changed = true
	}
	if len(n.children) > 1 && i < len(n.children) && n.childUndersized(i) {
		j := i
		if j == len(n.children)-1 {
			j--
		}
		n.mergeDistribute(o, j)
		changed = true
	}
	return changed
}

// zipFixLeft repairs the leftmost spine (the exposed edge of the right
// half of a split).
func (n *node) zipFixLeft(o *editOwner) bool {
	if n.isLeaf() {
		return false
	}
	changed := false
	if !n.children[0].isLeaf() {
		c := n.mutChild(o, 0)
		if c.zipFixLeft(o) {
			n.infos[0] = c.info()
			changed = true
		}
	}
	if len(n.children) > 1 && n.childUndersized(0) {
		n.mergeDistribute(o, 0)
		changed = true
	}
	return changed
}

// zipFixRight repairs the rightmost spine (the exposed edge of the left
// half of a split).
func (n *node) zipFixRight(o *editOwner) bool {
	if n.isLeaf() {
		return false
	}
	changed := false
	last := len(n.children) - 1
	if !n.children[last].isLeaf() {
		c := n.mutChild(o, last)
		if c.zipFixRight(o) {
			n.infos[last] = c.info()
			changed = true
		}
	}
	last = len(n.children) - 1
	if len(n.children) > 1 && n.childUndersized(last) {
		n.mergeDistribute(o, last-1)
		changed = true
	}
	return changed
}

// mergeDistribute combines children i and i+1: into a single child when
// the result fits, otherwise the pair is redistributed evenly. Either way
// the touched children land back within their size bounds.
func (n *node) mergeDistribute(o *editOwner, i int) {
	a := n.mutChild(o, i)
	b := n.children[i+1]
	if a.isLeaf() {
		combined := append(copyBytes(a.text), b.text...)
		if len(combined) <= maxBytes {
			a.setLeafText(combined)
			n.removeChildAt(i + 1)
		} else {
			split := nearestSafeSplit(combined, len(combined)/2)
			bm := n.mutChild(o, i+1)
			a.setLeafText(copyBytes(combined[:split]))
			bm.setLeafText(copyBytes(combined[split:]))
			n.infos[i+1] = bm.info()
		}
		n.infos[i] = a.info()
		return
	}
	total := len(a.children) + len(b.children)
	if total <= maxChildren {
		a.children = append(a.children, b.children...)
		a.infos = append(a.infos, b.infos...)
		n.removeChildAt(i + 1)
		n.infos[i] = a.info()
		return
	}
	bm := n.mutChild(o, i+1)
	half := total / 2
	if len(a.children) < half {
		k := half - len(a.children)
		a.children = append(a.children, bm.children[:k]...)
		a.infos = append(a.infos, bm.infos[:k]...)
		bm.children = append([]*node(nil), bm.children[k:]...)
		bm.infos = append([]TextInfo(nil), bm.infos[k:]...)
	} else if len(a.children) > half {
		moved := append([]*node(nil), a.children[half:]...)
		movedInfos := append([]TextInfo(nil), a.infos[half:]...)
		bm.children = append(moved, bm.children...)
		bm.infos = append(movedInfos, bm.infos...)
		a.children = a.children[:half:half]
		a.infos = a.infos[:half:half]
	}
	n.infos[i] = a.info()
	n.infos[i+1] = bm.info()
}

// ========== Grapheme Seam Repair ==========

// fixGraphemeSeam repairs the leaf join at byteIdx (relative to n's
// subtree) so no grapheme cluster straddles it. When the join is already
// a cluster boundary this is a read-only walk. Otherwise the two seam
// leaves are rebalanced together around the cluster boundary nearest the
// midpoint of their combined text, which converges in a single pass and
// keeps both leaves within maxBytes. n must be mutable.
//
// Reports whether a leaf was emptied: when the combined text is a single
// cluster that fits one leaf, everything moves left and the caller must
// zip the emptied right leaf away.
func (n *node) fixGraphemeSeam(o *editOwner, byteIdx int) bool {
	if n.isLeaf() {
		return false
	}
	i, local := n.childForByte(byteIdx)
	if local < n.infos[i].Bytes {
		if local == 0 {
			// Subtree edge; an ancestor level owns this join.
			return false
		}
		c := n.mutChild(o, i)
		emptied := c.fixGraphemeSeam(o, local)
		n.infos[i] = c.info()
		return emptied
	}
	if i+1 >= len(n.children) {
		return false
	}
	left := n.children[i].rightmostLeafText()
	right := n.children[i+1].leftmostLeafText()
	if len(left) == 0 || len(right) == 0 || seamIsBoundary(left, right) {
		return false
	}
	newLeft, newRight := rebalanceSeam(left, right)
	lc := n.mutChild(o, i)
	lc.setRightmostLeafText(o, newLeft)
	n.infos[i] = lc.info()
	rc := n.mutChild(o, i+1)
	rc.setLeftmostLeafText(o, newRight)
	n.infos[i+1] = rc.info()
	return len(newRight) == 0
}

// rebalanceSeam recuts the concatenation of two seam leaves at the
// grapheme boundary nearest its midpoint, subject to both sides staying
// within maxBytes. A disputed cluster that spans the whole combined text
// has no interior boundary; when it fits a single leaf everything moves
// left (the caller zips away the emptied right side), and a cluster too
// big for any leaf falls back to a code-point-safe cut, the "unavoidable
// within a single leaf" escape hatch.
func rebalanceSeam(left, right []byte) ([]byte, []byte) {
	combined := append(copyBytes(left), right...)
	mid := len(combined) / 2
	best := -1
	for _, b := range graphemeBoundaries(combined) {
		if b <= 0 || b >= len(combined) {
			continue
		}
		if b > maxBytes || len(combined)-b > maxBytes {
			continue
		}
		if best == -1 || absInt(b-mid) < absInt(best-mid) {
			best = b
		}
	}
	if best <= 0 || best >= len(combined) {
		if len(combined) <= maxBytes {
			return combined, nil
		}
		best = nearestSafeSplit(combined, mid)
	}
	return combined[:best:best], combined[best:]
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
