package rope

// Tree geometry. Leaves hold up to maxBytes of UTF-8; internal nodes hold
// between minChildren and maxChildren same-height children. The root is
// exempt from the minimums and may itself be a leaf.
const (
	maxBytes    = 334
	maxChildren = 16
	minChildren = maxChildren / 2
)

// editOwner tags the nodes a single Rope handle is allowed to mutate in
// place. Cloning a rope refreshes the owner on both handles, freezing every
// node built so far; any later edit shallow-copies the frozen spine before
// touching it. This is the transaction-token copy-on-write discipline used
// by immutable radix trees.
type editOwner struct {
	_ uint8
}

// node is one vertex of the rope tree: a leaf carrying a bounded UTF-8
// fragment, or an internal node carrying (info, child) pairs. children is
// nil exactly for leaves.
type node struct {
	owner *editOwner

	// Leaf state.
	text     []byte
	leafInfo TextInfo

	// Internal state. infos[i] always equals children[i]'s recomputed info.
	children []*node
	infos    []TextInfo
}

func newLeaf(o *editOwner, text []byte) *node {
	n := &node{owner: o}
	n.setLeafText(text)
	return n
}

// newInternal wraps children, which must all have the same height. The
// slice is owned by the node afterwards.
func newInternal(o *editOwner, children []*node) *node {
	infos := make([]TextInfo, len(children))
	for i, c := range children {
		infos[i] = c.info()
	}
	return &node{owner: o, children: children, infos: infos}
}

func (n *node) isLeaf() bool {
	return n.children == nil
}

// setLeafText installs text as the leaf's content and refreshes its cached
// info. The caller transfers ownership of the buffer.
func (n *node) setLeafText(text []byte) {
	n.text = text
	n.leafInfo = computeTextInfo(text)
}

// info returns the subtree's TextInfo. Leaves cache theirs; internal nodes
// sum the per-child entries.
func (n *node) info() TextInfo {
	if n.isLeaf() {
		return n.leafInfo
	}
	var total TextInfo
	for _, ti := range n.infos {
		total = total.add(ti)
	}
	return total
}

// depth returns the leaf-to-node height; leaves are at depth zero. All
// paths have equal length, so following the first child suffices.
func (n *node) depth() int {
	d := 0
	for !n.isLeaf() {
		d++
		n = n.children[0]
	}
	return d
}

// ========== Copy-On-Write ==========

// makeMut returns n itself when owned by o, otherwise a shallow copy owned
// by o. Only the node's immediate contents are copied; descendants stay
// shared until their own spine is written.
func (n *node) makeMut(o *editOwner) *node {
	if n.owner == o {
		return n
	}
	c := &node{owner: o}
	if n.isLeaf() {
		c.text = copyBytes(n.text)
		c.leafInfo = n.leafInfo
	} else {
		c.children = append([]*node(nil), n.children...)
		c.infos = append([]TextInfo(nil), n.infos...)
	}
	return c
}

// mutChild makes child i mutable under o, installs it, and returns it.
// n itself must already be mutable.
func (n *node) mutChild(o *editOwner, i int) *node {
	c := n.children[i].makeMut(o)
	n.children[i] = c
	return c
}

// ========== Child Search ==========

// childForChar locates the child containing char offset charIdx and
// returns its index plus the offset local to it. An offset on a child
// boundary resolves to the left child (local == that child's char count),
// which is what edits want: content appended at a boundary lands at the
// end of the existing run.
func (n *node) childForChar(charIdx int) (int, int) {
	acc := 0
	last := len(n.children) - 1
	for i := 0; i < last; i++ {
		c := n.infos[i].Chars
		if charIdx <= acc+c {
			return i, charIdx - acc
		}
		acc += c
	}
	return last, charIdx - acc
}

// childForByte is childForChar over byte offsets.
func (n *node) childForByte(byteIdx int) (int, int) {
	acc := 0
	last := len(n.children) - 1
	for i := 0; i < last; i++ {
		b := n.infos[i].Bytes
		if byteIdx <= acc+b {
			return i, byteIdx - acc
		}
		acc += b
	}
	return last, byteIdx - acc
}

// childStartByte returns the byte offset of child i's first byte within
// n's subtree.
func (n *node) childStartByte(i int) int {
	acc := 0
	for j := 0; j < i; j++ {
		acc += n.infos[j].Bytes
	}
	return acc
}

// ========== Child List Editing ==========

// n must be mutable for all of these.

func (n *node) insertChildAt(i int, child *node) {
	n.children = append(n.children, nil)
	copy(n.children[i+1:], n.children[i:])
	n.children[i] = child
	n.infos = append(n.infos, TextInfo{})
	copy(n.infos[i+1:], n.infos[i:])
	n.infos[i] = child.info()
}

func (n *node) removeChildAt(i int) {
	n.children = append(n.children[:i], n.children[i+1:]...)
	n.infos = append(n.infos[:i], n.infos[i+1:]...)
}

// splitChildren halves an overfull node: n keeps the left half and the
// right half is returned as a fresh sibling.
func (n *node) splitChildren(o *editOwner) *node {
	half := len(n.children) / 2
	right := newInternal(o, append([]*node(nil), n.children[half:]...))
	n.children = n.children[:half:half]
	n.infos = n.infos[:half:half]
	return right
}

// splitChildrenLeft is the mirror: n keeps the right half and the left
// half is returned. Used by prepend grafts, where the residual is placed
// before the host.
func (n *node) splitChildrenLeft(o *editOwner) *node {
	half := len(n.children) / 2
	left := newInternal(o, append([]*node(nil), n.children[:half]...))
	n.children = append([]*node(nil), n.children[half:]...)
	n.infos = append([]TextInfo(nil), n.infos[half:]...)
	return left
}

// ========== Edge Leaf Access ==========

func (n *node) leftmostLeafText() []byte {
	for !n.isLeaf() {
		n = n.children[0]
	}
	return n.text
}

func (n *node) rightmostLeafText() []byte {
	for !n.isLeaf() {
		n = n.children[len(n.children)-1]
	}
	return n.text
}

// setLeftmostLeafText rewrites the first leaf under n, updating infos on
// the way back up. n must be mutable.
func (n *node) setLeftmostLeafText(o *editOwner, text []byte) {
	if n.isLeaf() {
		n.setLeafText(copyBytes(text))
		return
	}
	c := n.mutChild(o, 0)
	c.setLeftmostLeafText(o, text)
	n.infos[0] = c.info()
}

// setRightmostLeafText rewrites the last leaf under n. n must be mutable.
func (n *node) setRightmostLeafText(o *editOwner, text []byte) {
	if n.isLeaf() {
		n.setLeafText(copyBytes(text))
		return
	}
	last := len(n.children) - 1
	c := n.mutChild(o, last)
	c.setRightmostLeafText(o, text)
	n.infos[last] = c.info()
}

// childUndersized reports whether child i violates its minimum: an empty
// leaf, or an internal node with fewer than minChildren children. Leaves
// only require a single byte, so small-but-nonempty leaves are fine.
func (n *node) childUndersized(i int) bool {
	c := n.children[i]
	if c.isLeaf() {
		return len(c.text) == 0
	}
	return len(c.children) < minChildren
}
