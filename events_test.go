package treesel

import "testing"

// TestChangeLazyItemViews tests that a change notification resolves items
// through the source at observation time, not at commit time.
func TestChangeLazyItemViews(t *testing.T) {
	m, _ := newSampleModel(t)

	var last *Change[string]
	m.OnChange(func(c *Change[string]) { last = c })

	if err := m.SelectRange(NewPath(0, 0), NewPath(0, 1)); err != nil {
		t.Fatalf("SelectRange: %v", err)
	}
	if last == nil {
		t.Fatalf("expected a change notification")
	}

	added := last.AddedItems()
	if len(added) != 2 || added[0] != "a0" || added[1] != "a1" {
		t.Errorf("AddedItems: got %v, want [a0 a1]", added)
	}
	if got := last.RemovedItems(); len(got) != 0 {
		t.Errorf("RemovedItems: got %v, want empty", got)
	}

	first := last
	m.Deselect(NewPath(0, 1))

	if removed := last.RemovedIndexes(); len(removed) != 1 || !removed[0].Equal(NewPath(0, 1)) {
		t.Errorf("RemovedIndexes: got %v, want [[0 1]]", removed)
	}
	if got := first.AddedIndexes(); len(got) != 2 {
		t.Errorf("earlier notification should be unaffected by later batches: got %v", got)
	}
	if got := m.SelectedIndexes(); len(got) != 1 || !got[0].Equal(NewPath(0, 0)) {
		t.Errorf("SelectedIndexes: got %v, want [[0 0]]", got)
	}
}

// TestChangeRangeExpansion tests sibling-span expansion of recorded ranges.
func TestChangeRangeExpansion(t *testing.T) {
	tree := NewSliceTree(
		NewTreeNode("a"), NewTreeNode("b"), NewTreeNode("c"), NewTreeNode("d"),
	)
	m := New[string](tree, Options{})

	var last *Change[string]
	m.OnChange(func(c *Change[string]) { last = c })

	if err := m.SelectRange(NewPath(0), NewPath(3)); err != nil {
		t.Fatalf("SelectRange: %v", err)
	}

	added := last.AddedIndexes()
	if len(added) != 4 {
		t.Fatalf("AddedIndexes: got %v, want 4 paths", added)
	}
	for i, p := range added {
		if !p.Equal(IndexPath(i)) {
			t.Errorf("AddedIndexes[%d]: got %v, want [%d]", i, p, i)
		}
	}
	items := last.AddedItems()
	if len(items) != 4 || items[0] != "a" || items[3] != "d" {
		t.Errorf("AddedItems: got %v", items)
	}
}

// TestChangeNoSource tests that item views degrade to nil without a source.
func TestChangeNoSource(t *testing.T) {
	m := New[string](nil, Options{})

	var last *Change[string]
	m.OnChange(func(c *Change[string]) { last = c })

	m.Select(NewPath(1))
	if last == nil {
		t.Fatalf("expected a change notification")
	}
	if got := last.AddedItems(); got != nil {
		t.Errorf("AddedItems without source: got %v, want nil", got)
	}
	if got := last.AddedIndexes(); len(got) != 1 || !got[0].Equal(NewPath(1)) {
		t.Errorf("AddedIndexes: got %v, want [[1]]", got)
	}
}
