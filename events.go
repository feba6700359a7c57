package treesel

// Change describes the net effect of one committed batch: the ranges removed
// from and added to the selection. Item views are resolved lazily through
// the tree source, only when observed.
type Change[T any] struct {
	// Added and Removed hold the path ranges recorded during the batch, in
	// the order the mutations produced them. Each range's endpoints are
	// siblings (or a single path); a range stands for the selection unit it
	// was recorded for: single rows, or subtrees that a range selection
	// covered in full.
	Added   []PathRange
	Removed []PathRange

	source TreeSource[T]
}

func newChange[T any](source TreeSource[T], added, removed []PathRange) *Change[T] {
	return &Change[T]{Added: added, Removed: removed, source: source}
}

// AddedIndexes expands the added ranges into individual sibling paths.
// Subtrees covered by a point range are not expanded here; they are one
// logical addition.
func (c *Change[T]) AddedIndexes() []Path {
	return expandRanges(c.Added)
}

// RemovedIndexes expands the removed ranges into individual sibling paths.
func (c *Change[T]) RemovedIndexes() []Path {
	return expandRanges(c.Removed)
}

// AddedItems resolves AddedIndexes through the tree source at call time.
// Unresolvable paths are skipped; without a source the result is nil.
func (c *Change[T]) AddedItems() []T {
	return c.resolve(c.AddedIndexes())
}

// RemovedItems resolves RemovedIndexes through the tree source at call time.
// After a structural removal the underlying items may already be gone, in
// which case they are skipped.
func (c *Change[T]) RemovedItems() []T {
	return c.resolve(c.RemovedIndexes())
}

func (c *Change[T]) resolve(paths []Path) []T {
	if c.source == nil {
		return nil
	}
	items := make([]T, 0, len(paths))
	for _, p := range paths {
		if item, err := c.source.ItemAt(p); err == nil {
			items = append(items, item)
		}
	}
	return items
}

// expandRanges turns sibling spans into one path per covered index.
func expandRanges(ranges []PathRange) []Path {
	var out []Path
	for _, r := range ranges {
		if r.IsPoint() {
			out = append(out, r.Start)
			continue
		}
		parent := r.Start.Parent()
		lo, hi := r.Start.Leaf(), r.End.Leaf()
		if lo > hi {
			lo, hi = hi, lo
		}
		for i := lo; i <= hi; i++ {
			out = append(out, parent.Append(i))
		}
	}
	return out
}

// OnChange registers a handler invoked synchronously at commit time, exactly
// once per committed batch with net effect. Handlers run in registration
// order.
func (m *Model[T]) OnChange(fn func(*Change[T])) {
	m.changeHandlers = append(m.changeHandlers, fn)
}

// OnSelectedIndexChanged registers a handler invoked when a commit moves the
// committed selected path.
func (m *Model[T]) OnSelectedIndexChanged(fn func(old, new Path)) {
	m.selectedHandlers = append(m.selectedHandlers, fn)
}

// OnAnchorIndexChanged registers a handler invoked when a commit moves the
// committed anchor path.
func (m *Model[T]) OnAnchorIndexChanged(fn func(old, new Path)) {
	m.anchorHandlers = append(m.anchorHandlers, fn)
}
