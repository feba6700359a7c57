package treesel

// operation accumulates the net effect of one batch: the candidate anchor
// and selected paths, and the ranges added and removed since the batch
// opened. It is created when the outermost batch opens, seeded from the
// committed state, and discarded after commit.
type operation struct {
	anchor   Path
	selected Path
	added    []PathRange
	removed  []PathRange
}

func newOperation(anchor, selected Path) *operation {
	return &operation{anchor: anchor, selected: selected}
}

func (op *operation) addAdded(r PathRange) {
	op.added = append(op.added, r)
}

func (op *operation) addRemoved(r PathRange) {
	op.removed = append(op.removed, r)
}

// hasEffect reports whether the batch produced any net range change.
// Property-only batches (anchor moves, index shifts) commit silently.
func (op *operation) hasEffect() bool {
	return len(op.added) > 0 || len(op.removed) > 0
}
