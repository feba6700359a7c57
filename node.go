package treesel

import "sort"

// childState is the per-index tagged variant inside a node.
type childState int

const (
	// childSelected marks the child's own row selected, with nothing
	// beneath it part of the selection.
	childSelected childState = iota

	// childCovered marks the child and its entire subtree as selected
	// without materializing anything beneath it. Covers come from range
	// selection; a point selection never covers.
	childCovered

	// childPartial marks a child with selection activity below it; the
	// entry owns a nested node.
	childPartial
)

// child is one entry of a node's sparse child map.
type child struct {
	state childState
	node  *node // set when state == childPartial
}

// node is a lazily-materialized mirror of one source-tree node. The shadow
// tree formed by nodes is isomorphic to the subset of the data tree that has
// selection activity; a node exists only while it, or something under it, is
// part of the selection. Nodes that become empty are pruned eagerly.
//
// self records whether the mirrored row itself is selected. It matters only
// for partial nodes: a row that is selected while some but not all of its
// descendants are selected too.
type node struct {
	self     bool
	children map[int]child
}

func newNode() *node {
	return &node{children: make(map[int]child)}
}

func (n *node) empty() bool {
	return !n.self && len(n.children) == 0
}

// sortedIndexes returns the occupied child indices in ascending order.
func (n *node) sortedIndexes() []int {
	idx := make([]int, 0, len(n.children))
	for i := range n.children {
		idx = append(idx, i)
	}
	sort.Ints(idx)
	return idx
}

// childCountAt resolves the live child count at a path, 0 when no source is
// attached or the node is a leaf.
func (m *Model[T]) childCountAt(p Path) int {
	if m.source == nil {
		return 0
	}
	return m.source.ChildCount(p)
}

// coerce clamps every level of the candidate path into the live bounds of
// the tree. It returns the empty path when the tree has no items at all or
// some level of the path cannot be realized, which callers treat as a
// silent no-op. Without a source there is nothing to clamp against and the
// path passes through unchanged.
func (m *Model[T]) coerce(p Path) Path {
	if p.IsEmpty() {
		return Path{}
	}
	if m.source == nil {
		return p
	}
	elems := make([]int, 0, p.Size())
	prefix := EmptyPath
	for d := 0; d < p.Size(); d++ {
		count := m.source.ChildCount(prefix)
		if count == 0 {
			return Path{}
		}
		idx := p.At(d)
		if idx < 0 {
			idx = 0
		}
		if idx > count-1 {
			idx = count - 1
		}
		elems = append(elems, idx)
		prefix = prefix.Append(idx)
	}
	return Path{elems: elems}
}

// lookup descends the shadow tree to the node addressed by p, materializing
// intermediate nodes only when requested. A missing node is "not found",
// never an error. Descent stops at a row or cover marker: neither owns
// materialized structure.
func (m *Model[T]) lookup(p Path, materializeIfMissing bool) (*node, bool) {
	n := m.root
	for d := 0; d < p.Size(); d++ {
		c, ok := n.children[p.At(d)]
		if ok && c.state == childPartial {
			n = c.node
			continue
		}
		if ok || !materializeIfMissing {
			return nil, false
		}
		cn := newNode()
		n.children[p.At(d)] = child{state: childPartial, node: cn}
		n = cn
	}
	return n, true
}

// isSelected reports whether the item at p is selected, either directly or
// by being inside a covered subtree.
func (m *Model[T]) isSelected(p Path) bool {
	if p.IsEmpty() {
		return false
	}
	n := m.root
	for d := 0; d < p.Size(); d++ {
		c, ok := n.children[p.At(d)]
		if !ok {
			return false
		}
		if c.state == childCovered {
			return true
		}
		last := d == p.Size()-1
		if c.state == childSelected {
			// a row marker does not extend to descendants
			return last
		}
		if last {
			return c.node.self
		}
		n = c.node
	}
	return false
}

// Selection recursion. start and end are the residual index sequences of the
// two (coerced, non-empty) endpoints relative to n; base is n's absolute
// path. The endpoints are used independently: siblings strictly between them
// are covered in full, only the two boundary children are refined deeper. An
// endpoint whose residual is exhausted covers its whole child subtree, while
// a point selection (both residuals exhausted together) marks just the row.

func (m *Model[T]) selectIn(n *node, base Path, start, end []int, op *operation) {
	i0, i1 := start[0], end[0]
	if i0 == i1 {
		switch {
		case len(start) == 1 && len(end) == 1:
			m.markSelf(n, base, i0, op)
		case len(start) == 1 || len(end) == 1:
			// the shallower endpoint covers the whole child subtree
			m.cover(n, base, i0, i0, op)
		default:
			if cn := m.materialize(n, i0); cn != nil {
				m.selectIn(cn, base.Append(i0), start[1:], end[1:], op)
			}
		}
		return
	}
	lo, hi := start, end
	if i0 > i1 {
		lo, hi = end, start
	}
	if len(lo) == 1 {
		m.cover(n, base, lo[0], lo[0], op)
	} else if cn := m.materialize(n, lo[0]); cn != nil {
		m.selectFrom(cn, base.Append(lo[0]), lo[1:], op)
	}
	if hi[0]-lo[0] > 1 {
		m.cover(n, base, lo[0]+1, hi[0]-1, op)
	}
	if len(hi) == 1 {
		m.cover(n, base, hi[0], hi[0], op)
	} else if cn := m.materialize(n, hi[0]); cn != nil {
		m.selectTo(cn, base.Append(hi[0]), hi[1:], op)
	}
}

// selectFrom covers everything from the residual path tail through the end
// of the subtree rooted at n.
func (m *Model[T]) selectFrom(n *node, base Path, tail []int, op *operation) {
	count := m.childCountAt(base)
	i := tail[0]
	if len(tail) == 1 {
		hi := count - 1
		if hi < i {
			hi = i
		}
		m.cover(n, base, i, hi, op)
		return
	}
	if i+1 <= count-1 {
		m.cover(n, base, i+1, count-1, op)
	}
	if cn := m.materialize(n, i); cn != nil {
		m.selectFrom(cn, base.Append(i), tail[1:], op)
	}
}

// selectTo covers everything from the start of the subtree rooted at n up
// to and including the residual path tail.
func (m *Model[T]) selectTo(n *node, base Path, tail []int, op *operation) {
	i := tail[0]
	if len(tail) == 1 {
		m.cover(n, base, 0, i, op)
		return
	}
	if i > 0 {
		m.cover(n, base, 0, i-1, op)
	}
	if cn := m.materialize(n, i); cn != nil {
		m.selectTo(cn, base.Append(i), tail[1:], op)
	}
}

// materialize returns the nested node for child i, creating one when the
// entry is absent. A row marker upgrades to a partial node that keeps the
// row selected. A covered entry already includes everything beneath it, so
// there is nothing to refine: materialize returns nil.
func (m *Model[T]) materialize(n *node, i int) *node {
	c, ok := n.children[i]
	switch {
	case !ok:
		cn := newNode()
		n.children[i] = child{state: childPartial, node: cn}
		return cn
	case c.state == childCovered:
		return nil
	case c.state == childSelected:
		cn := newNode()
		cn.self = true
		n.children[i] = child{state: childPartial, node: cn}
		return cn
	default:
		return c.node
	}
}

// markSelf marks the row of child i selected without touching anything
// beneath it, recording the addition when the row was not selected before.
func (m *Model[T]) markSelf(n *node, base Path, i int, op *operation) {
	c, ok := n.children[i]
	switch {
	case !ok:
		n.children[i] = child{state: childSelected}
		op.addAdded(pointRange(base.Append(i)))
	case c.state == childPartial:
		if !c.node.self {
			c.node.self = true
			op.addAdded(pointRange(base.Append(i)))
		}
	}
	// row and cover markers already include the row
}

// cover marks children lo..hi (and their entire subtrees) selected. Only
// the portions that were not selected before are recorded as added: runs of
// previously-absent entries coalesce into sibling spans, already-covered
// entries record nothing, and row or partial entries record just their
// newly-covered descendants.
func (m *Model[T]) cover(n *node, base Path, lo, hi int, op *operation) {
	runStart := -1
	flush := func(end int) {
		if runStart >= 0 {
			op.addAdded(PathRange{Start: base.Append(runStart), End: base.Append(end)})
			runStart = -1
		}
	}
	for i := lo; i <= hi; i++ {
		c, ok := n.children[i]
		switch {
		case !ok:
			n.children[i] = child{state: childCovered}
			if runStart < 0 {
				runStart = i
			}
		case c.state == childCovered:
			flush(i - 1)
		case c.state == childSelected:
			flush(i - 1)
			n.children[i] = child{state: childCovered}
			p := base.Append(i)
			if count := m.childCountAt(p); count > 0 {
				op.addAdded(PathRange{Start: p.Append(0), End: p.Append(count - 1)})
			}
		default: // childPartial
			flush(i - 1)
			m.coverNode(c.node, base.Append(i), op)
			n.children[i] = child{state: childCovered}
		}
	}
	flush(hi)
}

// coverNode records what covering p adds beyond the selection its partial
// node already held, walking the live child list so only the gaps count.
func (m *Model[T]) coverNode(n *node, p Path, op *operation) {
	if !n.self {
		op.addAdded(pointRange(p))
	}
	if count := m.childCountAt(p); count > 0 {
		m.cover(n, p, 0, count-1, op)
	}
}

// Deselection recursion, mirroring the select side: markers are removed,
// nodes that become empty are pruned, and removed ranges accumulate on the
// operation.

func (m *Model[T]) deselectIn(n *node, base Path, start, end []int, op *operation) {
	i0, i1 := start[0], end[0]
	if i0 == i1 {
		switch {
		case len(start) == 1 && len(end) == 1:
			m.clearSelf(n, base, i0, op)
		case len(start) == 1 || len(end) == 1:
			m.clearSpan(n, base, i0, i0, op)
		default:
			if cn := m.descendCovered(n, base, i0); cn != nil {
				m.deselectIn(cn, base.Append(i0), start[1:], end[1:], op)
				m.pruneChild(n, i0, cn)
			}
		}
		return
	}
	lo, hi := start, end
	if i0 > i1 {
		lo, hi = end, start
	}
	if len(lo) == 1 {
		m.clearSpan(n, base, lo[0], lo[0], op)
	} else if cn := m.descendCovered(n, base, lo[0]); cn != nil {
		m.deselectFrom(cn, base.Append(lo[0]), lo[1:], op)
		m.pruneChild(n, lo[0], cn)
	}
	if hi[0]-lo[0] > 1 {
		m.clearSpan(n, base, lo[0]+1, hi[0]-1, op)
	}
	if len(hi) == 1 {
		m.clearSpan(n, base, hi[0], hi[0], op)
	} else if cn := m.descendCovered(n, base, hi[0]); cn != nil {
		m.deselectTo(cn, base.Append(hi[0]), hi[1:], op)
		m.pruneChild(n, hi[0], cn)
	}
}

func (m *Model[T]) deselectFrom(n *node, base Path, tail []int, op *operation) {
	count := m.childCountAt(base)
	i := tail[0]
	if len(tail) == 1 {
		hi := count - 1
		if hi < i {
			hi = i
		}
		m.clearSpan(n, base, i, hi, op)
		return
	}
	if i+1 <= count-1 {
		m.clearSpan(n, base, i+1, count-1, op)
	}
	if cn := m.descendCovered(n, base, i); cn != nil {
		m.deselectFrom(cn, base.Append(i), tail[1:], op)
		m.pruneChild(n, i, cn)
	}
}

func (m *Model[T]) deselectTo(n *node, base Path, tail []int, op *operation) {
	i := tail[0]
	if len(tail) == 1 {
		m.clearSpan(n, base, 0, i, op)
		return
	}
	if i > 0 {
		m.clearSpan(n, base, 0, i-1, op)
	}
	if cn := m.descendCovered(n, base, i); cn != nil {
		m.deselectTo(cn, base.Append(i), tail[1:], op)
		m.pruneChild(n, i, cn)
	}
}

// descendCovered returns the nested node for child i when deselecting below
// it. A covered entry is first split into a partial node with the row and
// every live child still selected, so that the deeper deselection can carve
// a hole out of it. A bare row marker has nothing beneath it to deselect
// and is left alone. Returns nil when nothing is selected beneath i.
func (m *Model[T]) descendCovered(n *node, base Path, i int) *node {
	c, ok := n.children[i]
	if !ok {
		return nil
	}
	switch c.state {
	case childPartial:
		return c.node
	case childSelected:
		return nil
	}
	count := m.childCountAt(base.Append(i))
	if count == 0 {
		return nil
	}
	cn := newNode()
	cn.self = true
	for j := 0; j < count; j++ {
		cn.children[j] = child{state: childCovered}
	}
	n.children[i] = child{state: childPartial, node: cn}
	return cn
}

// clearSelf removes the row marker of child i without touching anything
// selected beyond what the marker itself stands for: a row or cover entry
// goes away whole, a partial entry only loses its self marker.
func (m *Model[T]) clearSelf(n *node, base Path, i int, op *operation) {
	c, ok := n.children[i]
	if !ok {
		return
	}
	switch c.state {
	case childSelected, childCovered:
		delete(n.children, i)
		op.addRemoved(pointRange(base.Append(i)))
	case childPartial:
		if c.node.self {
			c.node.self = false
			op.addRemoved(pointRange(base.Append(i)))
		}
		m.pruneChild(n, i, c.node)
	}
}

// clearSpan removes the entries for children lo..hi entirely, recording
// contiguous runs of row/cover markers and the collected ranges of partial
// subtrees as removed ranges.
func (m *Model[T]) clearSpan(n *node, base Path, lo, hi int, op *operation) {
	runStart := -1
	flush := func(end int) {
		if runStart >= 0 {
			op.addRemoved(PathRange{Start: base.Append(runStart), End: base.Append(end)})
			runStart = -1
		}
	}
	for i := lo; i <= hi; i++ {
		c, ok := n.children[i]
		if !ok {
			flush(i - 1)
			continue
		}
		if c.state == childPartial {
			flush(i - 1)
			op.removed = append(op.removed, m.collectRanges(c.node, base.Append(i))...)
		} else if runStart < 0 {
			runStart = i
		}
		delete(n.children, i)
	}
	flush(hi)
}

func (m *Model[T]) pruneChild(n *node, i int, cn *node) {
	if cn.empty() {
		delete(n.children, i)
	}
}

// collectRanges walks the shadow subtree rooted at n and returns the ranges
// it covers, adjacent row/cover siblings coalesced into spans.
func (m *Model[T]) collectRanges(n *node, base Path) []PathRange {
	var out []PathRange
	if n.self {
		out = append(out, pointRange(base))
	}
	runStart, runEnd := -1, -1
	flush := func() {
		if runStart >= 0 {
			out = append(out, PathRange{Start: base.Append(runStart), End: base.Append(runEnd)})
			runStart = -1
		}
	}
	for _, i := range n.sortedIndexes() {
		c := n.children[i]
		if c.state != childPartial {
			if runStart >= 0 && i == runEnd+1 {
				runEnd = i
				continue
			}
			flush()
			runStart, runEnd = i, i
			continue
		}
		flush()
		out = append(out, m.collectRanges(c.node, base.Append(i))...)
	}
	flush()
	return out
}

// collectIndexes enumerates every selected path in the shadow subtree,
// expanding covered subtrees through the tree source when one is attached
// (parent before descendants). A row marker contributes only itself.
func (m *Model[T]) collectIndexes(n *node, base Path, out *[]Path) {
	if n.self {
		*out = append(*out, base)
	}
	for _, i := range n.sortedIndexes() {
		c := n.children[i]
		p := base.Append(i)
		switch c.state {
		case childSelected:
			*out = append(*out, p)
		case childCovered:
			*out = append(*out, p)
			if m.source != nil {
				m.expandSubtree(p, out)
			}
		default:
			m.collectIndexes(c.node, p, out)
		}
	}
}

func (m *Model[T]) expandSubtree(p Path, out *[]Path) {
	count := m.source.ChildCount(p)
	for j := 0; j < count; j++ {
		cp := p.Append(j)
		*out = append(*out, cp)
		m.expandSubtree(cp, out)
	}
}

// shiftNode re-indexes the direct children of n (the node at the spliced
// parent) after a structural change: entries at or after index move by
// delta; on removal, entries inside the removed window are dropped and
// recorded as removed ranges.
func (m *Model[T]) shiftNode(n *node, base Path, index, delta int, op *operation) {
	rebuilt := make(map[int]child, len(n.children))
	for i, c := range n.children {
		switch {
		case i < index:
			rebuilt[i] = c
		case delta < 0 && i < index-delta:
			// the child itself was removed from the tree
			if c.state == childPartial {
				op.removed = append(op.removed, m.collectRanges(c.node, base.Append(i))...)
			} else {
				op.addRemoved(pointRange(base.Append(i)))
			}
		default:
			rebuilt[i+delta] = c
		}
	}
	n.children = rebuilt
}

// shiftPath applies a structural shift to one scalar path. It returns the
// rewritten path and whether it changed; a path whose index falls inside a
// removed window comes back empty, since the item it addressed is gone.
func shiftPath(p, parent Path, index, delta int) (Path, bool) {
	if !parent.IsAncestorOf(p) {
		return p, false
	}
	d := parent.Size()
	i := p.At(d)
	if i < index {
		return p, false
	}
	if delta < 0 && i < index-delta {
		return Path{}, true
	}
	elems := make([]int, p.Size())
	for j := 0; j < p.Size(); j++ {
		elems[j] = p.At(j)
	}
	elems[d] = i + delta
	return Path{elems: elems}, true
}

// shiftRanges rewrites recorded sibling spans after a structural splice so
// a pending notification keeps addressing the items it was recorded for.
// Spans that fall entirely inside a removed window are dropped.
func shiftRanges(ranges []PathRange, parent Path, index, delta int) []PathRange {
	if len(ranges) == 0 {
		return ranges
	}
	out := make([]PathRange, 0, len(ranges))
	for _, r := range ranges {
		out = append(out, shiftRange(r, parent, index, delta)...)
	}
	return out
}

// shiftRange rewrites one span. A splice at the span's own level can split
// it in two (insertion into the middle) or shrink it (removal); a splice at
// a shallower level moves or drops the span whole.
func shiftRange(r PathRange, parent Path, index, delta int) []PathRange {
	if parent.Equal(r.Start.Parent()) {
		lo, hi := r.Start.Leaf(), r.End.Leaf()
		if lo > hi {
			lo, hi = hi, lo
		}
		if delta > 0 {
			switch {
			case hi < index:
				return []PathRange{r}
			case lo >= index:
				return []PathRange{{Start: parent.Append(lo + delta), End: parent.Append(hi + delta)}}
			default:
				return []PathRange{
					{Start: parent.Append(lo), End: parent.Append(index - 1)},
					{Start: parent.Append(index + delta), End: parent.Append(hi + delta)},
				}
			}
		}
		w := -delta
		newLo, newHi := lo, hi
		if lo >= index {
			if lo >= index+w {
				newLo = lo - w
			} else {
				newLo = index
			}
		}
		if hi >= index {
			if hi >= index+w {
				newHi = hi - w
			} else {
				newHi = index - 1
			}
		}
		if newLo > newHi {
			return nil
		}
		return []PathRange{{Start: parent.Append(newLo), End: parent.Append(newHi)}}
	}
	if parent.IsAncestorOf(r.Start) {
		s, _ := shiftPath(r.Start, parent, index, delta)
		e, _ := shiftPath(r.End, parent, index, delta)
		if s.IsEmpty() || e.IsEmpty() {
			return nil
		}
		return []PathRange{{Start: s, End: e}}
	}
	return []PathRange{r}
}
