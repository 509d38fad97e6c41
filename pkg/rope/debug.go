package rope

import (
	"fmt"
	"io"
	"strings"
)

// ========== Debugging Hooks ==========
//
// These are affordances for tests and bug hunts, not part of the caller
// contract. They panic with a description of the first violation found.

// AssertIntegrity checks that every cached TextInfo equals its child's
// recomputed info, i.e. the tree's metadata is consistent with its data.
func (r *Rope) AssertIntegrity() {
	assertInfos(r.root)
}

func assertInfos(n *node) TextInfo {
	if n.isLeaf() {
		actual := computeTextInfo(n.text)
		if actual != n.leafInfo {
			panic(fmt.Sprintf("rope: leaf info %+v does not match text (want %+v)", n.leafInfo, actual))
		}
		return actual
	}
	var total TextInfo
	for i, c := range n.children {
		actual := assertInfos(c)
		if actual != n.infos[i] {
			panic(fmt.Sprintf("rope: cached info %+v for child %d does not match recomputed %+v", n.infos[i], i, actual))
		}
		total = total.add(actual)
	}
	return total
}

// AssertInvariants checks the structural invariants:
//
//   - all leaf-to-root paths have equal length;
//   - internal nodes hold minChildren..maxChildren children (the root is
//     exempt from the minimum, and may itself be a leaf);
//   - leaves hold 1..maxBytes bytes (the empty rope's single leaf is
//     exempt);
//   - no grapheme cluster straddles a chunk seam.
//
// UTF-8 validity of leaf text is not checked here.
func (r *Rope) AssertInvariants() {
	assertHeight(r.root)
	assertNodeSize(r.root, true)
	r.assertGraphemeSeams()
	if !r.root.isLeaf() && len(r.root.children) < 2 {
		panic("rope: root is a singular internal node")
	}
}

func assertHeight(n *node) int {
	if n.isLeaf() {
		return 0
	}
	h := assertHeight(n.children[0])
	for _, c := range n.children[1:] {
		if assertHeight(c) != h {
			panic("rope: children at unequal heights")
		}
	}
	return h + 1
}

func assertNodeSize(n *node, isRoot bool) {
	if n.isLeaf() {
		if len(n.text) > maxBytes {
			panic(fmt.Sprintf("rope: leaf of %d bytes exceeds maxBytes", len(n.text)))
		}
		if len(n.text) == 0 && !isRoot {
			panic("rope: empty non-root leaf")
		}
		return
	}
	if len(n.children) > maxChildren {
		panic(fmt.Sprintf("rope: node with %d children exceeds maxChildren", len(n.children)))
	}
	if !isRoot && len(n.children) < minChildren {
		panic(fmt.Sprintf("rope: node with %d children below minChildren", len(n.children)))
	}
	for _, c := range n.children {
		assertNodeSize(c, false)
	}
}

func (r *Rope) assertGraphemeSeams() {
	it := r.Chunks()
	var prev []byte
	for it.Next() {
		chunk := it.CurrentBytes()
		if prev != nil && !seamIsBoundary(prev, chunk) {
			panic(fmt.Sprintf("rope: grapheme cluster straddles seam between %q and %q", prev, chunk))
		}
		prev = chunk
	}
}

// Dump writes an indented sketch of the tree to w, one node per line.
func (r *Rope) Dump(w io.Writer) {
	dumpNode(w, r.root, 0)
}

func dumpNode(w io.Writer, n *node, depth int) {
	indent := strings.Repeat("  ", depth)
	if n.isLeaf() {
		fmt.Fprintf(w, "%sleaf %+v %q\n", indent, n.leafInfo, string(n.text))
		return
	}
	fmt.Fprintf(w, "%snode %+v children=%d\n", indent, n.info(), len(n.children))
	for _, c := range n.children {
		dumpNode(w, c, depth+1)
	}
}
