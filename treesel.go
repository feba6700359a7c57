package treesel

// Options configures a selection model.
type Options struct {
	// SingleSelect restricts the model to at most one selected item;
	// range operations with differing endpoints fail with ErrSingleSelect.
	SingleSelect bool
}

// Model is the selection model façade. It owns the sparse shadow tree of
// selection markers, the committed anchor and selected paths, and the batch
// state; the source tree is an external collaborator referenced, not owned.
//
// A Model is single-threaded by contract: every operation is synchronous and
// runs to completion on the calling goroutine. Batching is logical grouping,
// not mutual exclusion; re-entrant calls (for example a structural-change
// notification raised from inside an open batch) nest via the depth counter.
type Model[T any] struct {
	source TreeSource[T]

	root         *node
	anchor       Path
	selected     Path
	singleSelect bool

	// Batch state: op exists iff batchDepth > 0.
	batchDepth int
	op         *operation

	changeHandlers   []func(*Change[T])
	selectedHandlers []func(old, new Path)
	anchorHandlers   []func(old, new Path)

	unwatch func()
}

// New creates a selection model over the given tree source. The source may
// be nil, in which case item resolution yields no values and range endpoints
// cannot be coerced. When the source also implements TreeWatcher, the model
// subscribes itself for structural-change notifications; Close releases the
// subscription.
func New[T any](source TreeSource[T], options Options) *Model[T] {
	m := &Model[T]{
		source:       source,
		root:         newNode(),
		singleSelect: options.SingleSelect,
	}
	if w, ok := any(source).(TreeWatcher); ok && w != nil {
		m.unwatch = w.Watch(m.ChildrenChanged)
	}
	return m
}

// Close releases the model's structural-change subscription, if any.
func (m *Model[T]) Close() error {
	if m.unwatch != nil {
		m.unwatch()
		m.unwatch = nil
	}
	return nil
}

// Batching state machine. BeginBatch/EndBatch nest; the outermost EndBatch
// commits the accumulated operation and raises at most one change
// notification for the whole batch.

// BeginBatch opens a batch, or deepens the current one. The outermost open
// creates a fresh operation seeded from the committed anchor/selected paths.
func (m *Model[T]) BeginBatch() {
	if m.batchDepth == 0 {
		m.op = newOperation(m.anchor, m.selected)
	}
	m.batchDepth++
}

// EndBatch closes one level of batching. Closing the outermost level commits.
// Calling EndBatch with no open batch fails with ErrNoBatch.
func (m *Model[T]) EndBatch() error {
	if m.batchDepth == 0 {
		return ErrNoBatch
	}
	m.batchDepth--
	if m.batchDepth == 0 {
		m.commit()
	}
	return nil
}

// Batch runs fn inside a scoped batch. The close runs on every exit path,
// including panics, so a batch can never leak open.
func (m *Model[T]) Batch(fn func()) {
	m.BeginBatch()
	defer m.EndBatch()
	fn()
}

// Select selects the single item at p, forcing both the selected and anchor
// paths to p. Only the addressed row is selected; descendants of p are not.
// Out-of-range paths are coerced against the live tree; a path that cannot
// be realized makes the call a silent no-op.
func (m *Model[T]) Select(p Path) {
	m.Batch(func() {
		m.applySelect(p, p, true)
	})
}

// SelectRange selects the structural span between start and end: sibling
// groups strictly between the endpoints are selected in full (subtrees
// included), the two boundary subtrees only from/up to their endpoint, with
// each endpoint's own subtree covered in full. The range's end becomes
// the selected path; its start fills the anchor only if the anchor is unset.
// Fails with ErrSingleSelect when the model is in single-select mode and the
// endpoints differ; the selection state is unchanged after the failed call.
func (m *Model[T]) SelectRange(start, end Path) error {
	if m.singleSelect && !start.Equal(end) {
		return ErrSingleSelect
	}
	m.Batch(func() {
		m.applySelect(start, end, false)
	})
	return nil
}

// Deselect removes the item at p (and anything under it) from the selection.
func (m *Model[T]) Deselect(p Path) {
	m.Batch(func() {
		m.applyDeselect(p, p)
	})
}

// DeselectRange removes the structural span between start and end from the
// selection, under the same boundary/interior interpretation as SelectRange.
func (m *Model[T]) DeselectRange(start, end Path) {
	m.Batch(func() {
		m.applyDeselect(start, end)
	})
}

// Clear removes the entire selection. The resulting change notification's
// removed ranges are exactly the previously-selected set; if nothing was
// selected no notification is raised.
func (m *Model[T]) Clear() {
	m.Batch(func() {
		m.op.removed = append(m.op.removed, m.collectRanges(m.root, EmptyPath)...)
		m.root = newNode()
		m.op.selected = Path{}
		m.op.anchor = Path{}
	})
}

// SelectedIndex returns the committed selected path, empty when nothing is
// selected.
func (m *Model[T]) SelectedIndex() Path {
	return m.selected
}

// SetSelectedIndex replaces the whole selection with the single item at p.
// An unrealizable path clears the selection.
func (m *Model[T]) SetSelectedIndex(p Path) {
	m.Batch(func() {
		m.op.removed = append(m.op.removed, m.collectRanges(m.root, EmptyPath)...)
		m.root = newNode()
		m.op.selected = Path{}
		m.op.anchor = Path{}
		m.applySelect(p, p, true)
	})
}

// AnchorIndex returns the committed anchor path.
func (m *Model[T]) AnchorIndex() Path {
	return m.anchor
}

// SetAnchorIndex moves the anchor without touching the selection.
func (m *Model[T]) SetAnchorIndex(p Path) {
	m.Batch(func() {
		m.op.anchor = m.coerce(p)
	})
}

// SingleSelect reports whether the model is in single-select mode.
func (m *Model[T]) SingleSelect() bool {
	return m.singleSelect
}

// SetSingleSelect switches selection modes. Enabling single-select while a
// multi-selection is present trims the selection down to the selected path.
func (m *Model[T]) SetSingleSelect(v bool) {
	if v == m.singleSelect {
		return
	}
	m.singleSelect = v
	if !v {
		return
	}
	ranges := m.collectRanges(m.root, EmptyPath)
	if len(ranges) == 0 || (len(ranges) == 1 && ranges[0].IsPoint() && ranges[0].Start.Equal(m.selected)) {
		return
	}
	m.Batch(func() {
		sel := m.op.selected
		m.op.removed = append(m.op.removed, ranges...)
		m.root = newNode()
		m.op.anchor = Path{}
		m.op.selected = Path{}
		if !sel.IsEmpty() {
			m.applySelect(sel, sel, true)
		}
	})
}

// IsSelected reports whether the item at p is selected, directly or by
// lying inside a subtree a range selection covered in full. A point
// selection of an ancestor does not make p selected.
func (m *Model[T]) IsSelected(p Path) bool {
	return m.isSelected(p)
}

// SelectedIndexes returns the selected paths, covered subtrees expanded
// through the tree source (parent before descendants). A point-selected row
// contributes only itself. The order is structural, not selection order.
func (m *Model[T]) SelectedIndexes() []Path {
	var out []Path
	m.collectIndexes(m.root, EmptyPath, &out)
	return out
}

// SelectedItems resolves SelectedIndexes through the tree source. Paths that
// can no longer be resolved are skipped. Without a source the result is nil.
func (m *Model[T]) SelectedItems() []T {
	if m.source == nil {
		return nil
	}
	paths := m.SelectedIndexes()
	items := make([]T, 0, len(paths))
	for _, p := range paths {
		if item, err := m.source.ItemAt(p); err == nil {
			items = append(items, item)
		}
	}
	return items
}

// SelectedItem resolves the committed selected path. The second result is
// false when no source is attached, nothing is selected, or the path cannot
// be resolved; it is never an error.
func (m *Model[T]) SelectedItem() (T, bool) {
	var zero T
	if m.source == nil || m.selected.IsEmpty() {
		return zero, false
	}
	item, err := m.source.ItemAt(m.selected)
	if err != nil {
		return zero, false
	}
	return item, true
}

// Count returns the number of selected items, covered subtrees included.
func (m *Model[T]) Count() int {
	return len(m.SelectedIndexes())
}

// ChildrenChanged re-indexes the selection after a structural splice of the
// source tree: delta children were inserted (positive) or removed (negative)
// at index under parent. Markers, the committed anchor/selected paths, the
// open operation's candidates, and its pending added/removed ranges all
// shift so that selected logical items keep their identity as their
// positions move. Safe to call while an unrelated batch is open; the
// re-indexing simply nests inside it.
func (m *Model[T]) ChildrenChanged(parent Path, index, delta int) {
	if delta == 0 {
		return
	}
	m.Batch(func() {
		// pending ranges first: shiftNode appends removal records in
		// pre-splice coordinates that must not be shifted again
		m.op.added = shiftRanges(m.op.added, parent, index, delta)
		m.op.removed = shiftRanges(m.op.removed, parent, index, delta)
		if n, ok := m.lookup(parent, false); ok {
			m.shiftNode(n, parent, index, delta, m.op)
		}
		if p, changed := shiftPath(m.op.selected, parent, index, delta); changed {
			m.op.selected = p
		}
		if p, changed := shiftPath(m.op.anchor, parent, index, delta); changed {
			m.op.anchor = p
		}
	})
}

// applySelect coerces the endpoints, applies the range to the shadow tree,
// and updates the open operation's candidate paths. force is the point-
// selection policy: both candidates are overwritten.
func (m *Model[T]) applySelect(start, end Path, force bool) {
	cs := m.coerce(start)
	if cs.IsEmpty() {
		return
	}
	ce := m.coerce(end)
	if ce.IsEmpty() {
		ce = cs
	}
	if m.singleSelect {
		// single-select keeps at most one item: an incoming selection
		// replaces whatever was selected, unless it is the same item
		ranges := m.collectRanges(m.root, EmptyPath)
		same := len(ranges) == 1 && ranges[0].IsPoint() && ranges[0].Start.Equal(cs)
		if len(ranges) > 0 && !same {
			m.op.removed = append(m.op.removed, ranges...)
			m.root = newNode()
		}
	}
	m.selectIn(m.root, EmptyPath, cs.elems, ce.elems, m.op)
	m.op.selected = ce
	if force || m.op.anchor.IsEmpty() {
		if force {
			m.op.anchor = ce
		} else {
			m.op.anchor = cs
		}
	}
}

func (m *Model[T]) applyDeselect(start, end Path) {
	cs := m.coerce(start)
	if cs.IsEmpty() {
		return
	}
	ce := m.coerce(end)
	if ce.IsEmpty() {
		ce = cs
	}
	m.deselectIn(m.root, EmptyPath, cs.elems, ce.elems, m.op)
	// The anchor is an independent reference point and survives deselection;
	// the selected path only means anything while its item is selected.
	if !m.op.selected.IsEmpty() && !m.isSelected(m.op.selected) {
		m.op.selected = Path{}
	}
}

// commit folds the finished operation into the committed state: candidate
// paths swap in, one change notification fires if the batch had net effect,
// then per-property notifications for paths that actually changed. The
// operation is discarded afterwards.
func (m *Model[T]) commit() {
	op := m.op
	m.op = nil

	oldSelected, oldAnchor := m.selected, m.anchor
	m.selected = op.selected
	m.anchor = op.anchor

	if op.hasEffect() && len(m.changeHandlers) > 0 {
		ch := newChange(m.source, op.added, op.removed)
		for _, fn := range m.changeHandlers {
			fn(ch)
		}
	}
	if !m.selected.Equal(oldSelected) {
		for _, fn := range m.selectedHandlers {
			fn(oldSelected, m.selected)
		}
	}
	if !m.anchor.Equal(oldAnchor) {
		for _, fn := range m.anchorHandlers {
			fn(oldAnchor, m.anchor)
		}
	}
}
