package treesel

import (
	"errors"
	"testing"
)

func TestSliceTreeResolution(t *testing.T) {
	tree := sampleTree()

	if got := tree.ChildCount(EmptyPath); got != 3 {
		t.Errorf("root child count: got %d, want 3", got)
	}
	if got := tree.ChildCount(NewPath(1)); got != 2 {
		t.Errorf("child count at [1]: got %d, want 2", got)
	}
	if got := tree.ChildCount(NewPath(1, 0)); got != 0 {
		t.Errorf("leaf child count: got %d, want 0", got)
	}
	if got := tree.ChildCount(NewPath(9)); got != 0 {
		t.Errorf("unresolvable child count: got %d, want 0", got)
	}

	item, err := tree.ItemAt(NewPath(2, 1))
	if err != nil || item != "c1" {
		t.Errorf("ItemAt [2 1]: got %q, %v", item, err)
	}
}

// TestSliceTreeItemAtOutOfRange tests the hard-failure side of the edge
// policy: resolving an item at an unaddressable path is an error.
func TestSliceTreeItemAtOutOfRange(t *testing.T) {
	tree := sampleTree()

	if _, err := tree.ItemAt(NewPath(3)); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("ItemAt [3]: got %v, want ErrOutOfRange", err)
	}
	if _, err := tree.ItemAt(NewPath(0, 0, 0)); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("ItemAt past a leaf: got %v, want ErrOutOfRange", err)
	}
	if _, err := tree.ItemAt(EmptyPath); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("ItemAt empty path: got %v, want ErrOutOfRange", err)
	}
}

func TestSliceTreeSplices(t *testing.T) {
	tree := sampleTree()

	var events []struct {
		parent Path
		index  int
		delta  int
	}
	cancel := tree.Watch(func(parent Path, index, delta int) {
		events = append(events, struct {
			parent Path
			index  int
			delta  int
		}{parent, index, delta})
	})

	if err := tree.InsertChild(NewPath(0), 1, NewTreeNode("aX")); err != nil {
		t.Fatalf("InsertChild: %v", err)
	}
	if got := tree.ChildCount(NewPath(0)); got != 3 {
		t.Errorf("child count after insert: got %d, want 3", got)
	}
	item, _ := tree.ItemAt(NewPath(0, 1))
	if item != "aX" {
		t.Errorf("inserted item: got %q, want aX", item)
	}

	removed, err := tree.RemoveChild(NewPath(0), 1)
	if err != nil || removed.Value != "aX" {
		t.Fatalf("RemoveChild: got %v, %v", removed, err)
	}

	if len(events) != 2 {
		t.Fatalf("watch events: got %d, want 2", len(events))
	}
	if !events[0].parent.Equal(NewPath(0)) || events[0].index != 1 || events[0].delta != 1 {
		t.Errorf("insert event: got %+v", events[0])
	}
	if events[1].delta != -1 {
		t.Errorf("remove event delta: got %d, want -1", events[1].delta)
	}

	cancel()
	tree.Append(EmptyPath, NewTreeNode("d"))
	if len(events) != 2 {
		t.Errorf("cancelled watcher should not receive events, got %d", len(events))
	}
}

func TestSliceTreeSpliceErrors(t *testing.T) {
	tree := sampleTree()

	if err := tree.InsertChild(NewPath(9), 0, NewTreeNode("x")); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("insert under unresolvable parent: got %v, want ErrOutOfRange", err)
	}
	if err := tree.InsertChild(NewPath(0), 7, NewTreeNode("x")); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("insert past the end: got %v, want ErrOutOfRange", err)
	}
	if _, err := tree.RemoveChild(NewPath(0), 2); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("remove past the end: got %v, want ErrOutOfRange", err)
	}
}

const sampleYAML = `
- name: projects
  children:
    - name: treesel
    - name: garland
- name: docs
  children:
    - name: readme
    - name: notes
- name: scratch
`

func TestLoadYAML(t *testing.T) {
	tree, err := LoadYAML([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("LoadYAML: %v", err)
	}

	if got := tree.ChildCount(EmptyPath); got != 3 {
		t.Errorf("root child count: got %d, want 3", got)
	}
	item, err := tree.ItemAt(NewPath(0, 1))
	if err != nil || item != "garland" {
		t.Errorf("ItemAt [0 1]: got %q, %v", item, err)
	}
	if got := tree.ChildCount(NewPath(2)); got != 0 {
		t.Errorf("leaf root: got %d children, want 0", got)
	}
}

func TestLoadYAMLRejectsGarbage(t *testing.T) {
	if _, err := LoadYAML([]byte("{not yaml")); err == nil {
		t.Errorf("malformed document should fail")
	}
}

// TestModelAutoSubscribes tests that New installs the structural-change
// subscription when the source implements TreeWatcher, and Close releases it.
func TestModelAutoSubscribes(t *testing.T) {
	tree := sampleTree()
	m := New[string](tree, Options{})

	m.Select(NewPath(2, 0))
	tree.InsertChild(EmptyPath, 0, NewTreeNode("front"))
	if got := m.SelectedIndex(); !got.Equal(NewPath(3, 0)) {
		t.Fatalf("auto-subscribed model should re-index: got %v, want [3 0]", got)
	}

	if err := m.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	tree.InsertChild(EmptyPath, 0, NewTreeNode("front2"))
	if got := m.SelectedIndex(); !got.Equal(NewPath(3, 0)) {
		t.Errorf("closed model should stop re-indexing: got %v", got)
	}
}
