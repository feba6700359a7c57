package treesel

import "testing"

// TestBatchNesting tests that nested batches commit once, at the outermost
// close, and that closing past the bottom fails.
func TestBatchNesting(t *testing.T) {
	m, _ := newSampleModel(t)

	var notifications int
	m.OnChange(func(*Change[string]) { notifications++ })

	m.BeginBatch()
	m.BeginBatch()
	m.Select(NewPath(1, 0))

	if notifications != 0 {
		t.Fatalf("no notification should fire while the batch is open, got %d", notifications)
	}

	if err := m.EndBatch(); err != nil {
		t.Fatalf("inner EndBatch: %v", err)
	}
	if notifications != 0 {
		t.Fatalf("inner EndBatch should not commit, got %d notifications", notifications)
	}

	if err := m.EndBatch(); err != nil {
		t.Fatalf("outer EndBatch: %v", err)
	}
	if notifications != 1 {
		t.Fatalf("outermost EndBatch should commit exactly once, got %d notifications", notifications)
	}

	if err := m.EndBatch(); err != ErrNoBatch {
		t.Fatalf("EndBatch past the bottom: got err %v, want ErrNoBatch", err)
	}
}

// TestBatchCoalesces tests that several mutations inside one batch produce a
// single notification carrying the net ranges.
func TestBatchCoalesces(t *testing.T) {
	m, _ := newSampleModel(t)

	var changes []*Change[string]
	m.OnChange(func(c *Change[string]) { changes = append(changes, c) })

	m.Batch(func() {
		m.Select(NewPath(0, 0))
		m.Select(NewPath(0, 1))
		m.Deselect(NewPath(0, 0))
	})

	if len(changes) != 1 {
		t.Fatalf("batched mutations: got %d notifications, want 1", len(changes))
	}
	added := changes[0].AddedIndexes()
	removed := changes[0].RemovedIndexes()
	if len(added) != 2 {
		t.Errorf("added: got %v, want [[0 0] [0 1]]", added)
	}
	if len(removed) != 1 || !removed[0].Equal(NewPath(0, 0)) {
		t.Errorf("removed: got %v, want [[0 0]]", removed)
	}
	wantIndexes(t, m, NewPath(0, 1))
}

// TestImplicitBatch tests that a bare mutating call is one atomic commit.
func TestImplicitBatch(t *testing.T) {
	m, _ := newSampleModel(t)

	var notifications int
	m.OnChange(func(*Change[string]) { notifications++ })

	m.Select(NewPath(0, 0))
	m.Select(NewPath(1, 0))

	if notifications != 2 {
		t.Errorf("two separate calls should commit twice, got %d", notifications)
	}
}

// TestBatchClosesOnPanic tests that a panic inside a scoped batch still
// closes it, so the model does not leak an open batch.
func TestBatchClosesOnPanic(t *testing.T) {
	m, _ := newSampleModel(t)

	func() {
		defer func() {
			if recover() == nil {
				t.Fatalf("expected the panic to propagate")
			}
		}()
		m.Batch(func() {
			m.Select(NewPath(0, 0))
			panic("boom")
		})
	}()

	if err := m.EndBatch(); err != ErrNoBatch {
		t.Fatalf("batch should be closed after panic: got err %v, want ErrNoBatch", err)
	}
	// The mutation before the panic still committed on the way out.
	if !m.IsSelected(NewPath(0, 0)) {
		t.Errorf("mutation before panic should have committed")
	}
}

// TestPropertyNotifications tests that selected/anchor observers fire on
// commit, once each, with the old and new paths.
func TestPropertyNotifications(t *testing.T) {
	m, _ := newSampleModel(t)

	var selEvents, anchorEvents int
	var lastOld, lastNew Path
	m.OnSelectedIndexChanged(func(old, new Path) {
		selEvents++
		lastOld, lastNew = old, new
	})
	m.OnAnchorIndexChanged(func(old, new Path) { anchorEvents++ })

	m.Select(NewPath(1, 0))

	if selEvents != 1 || anchorEvents != 1 {
		t.Fatalf("got %d selected / %d anchor events, want 1 / 1", selEvents, anchorEvents)
	}
	if !lastOld.IsEmpty() || !lastNew.Equal(NewPath(1, 0)) {
		t.Errorf("selected change: got %v -> %v, want empty -> [1 0]", lastOld, lastNew)
	}

	// Re-selecting the same path commits without property changes.
	m.Select(NewPath(1, 0))
	if selEvents != 1 || anchorEvents != 1 {
		t.Errorf("no-op reselect should not re-notify, got %d / %d", selEvents, anchorEvents)
	}
}
