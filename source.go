package treesel

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// TreeSource is the external tree collaborator the model selects against.
// Implementations resolve paths against the live shape of their tree; they
// are free to realize children lazily.
type TreeSource[T any] interface {
	// ChildCount returns the number of children under the node at p, 0 for
	// leaves and unrealizable paths. The empty path addresses the root.
	ChildCount(p Path) int

	// ItemAt returns the item at p. It fails with ErrOutOfRange when the
	// path's parent cannot be resolved or the leaf index is out of bounds.
	ItemAt(p Path) (T, error)
}

// TreeWatcher is implemented by sources that splice child lists at runtime.
// Watch registers a callback receiving (parent, index, delta) for every
// splice: delta children inserted at index (positive) or removed (negative).
// Callbacks are invoked synchronously from the mutation. New subscribes the
// model automatically when its source implements this interface.
type TreeWatcher interface {
	Watch(fn func(parent Path, index, delta int)) (cancel func())
}

// TreeNode is one node of a SliceTree.
type TreeNode[T any] struct {
	Value    T
	Children []*TreeNode[T]
}

// NewTreeNode builds a node with the given children.
func NewTreeNode[T any](value T, children ...*TreeNode[T]) *TreeNode[T] {
	return &TreeNode[T]{Value: value, Children: children}
}

// SliceTree is an in-memory TreeSource backed by slices of TreeNodes. Its
// mutators notify watchers synchronously, one shift per splice, which keeps
// an attached model's selection aligned with the moving items.
type SliceTree[T any] struct {
	roots []*TreeNode[T]

	watchers    map[int]func(parent Path, index, delta int)
	nextWatcher int
}

// NewSliceTree builds a tree from the given root-level nodes.
func NewSliceTree[T any](roots ...*TreeNode[T]) *SliceTree[T] {
	return &SliceTree[T]{
		roots:    roots,
		watchers: make(map[int]func(parent Path, index, delta int)),
	}
}

// ChildCount implements TreeSource.
func (t *SliceTree[T]) ChildCount(p Path) int {
	children, ok := t.childrenAt(p)
	if !ok {
		return 0
	}
	return len(children)
}

// ItemAt implements TreeSource.
func (t *SliceTree[T]) ItemAt(p Path) (T, error) {
	var zero T
	n, ok := t.NodeAt(p)
	if !ok {
		return zero, fmt.Errorf("resolving item at %v: %w", p, ErrOutOfRange)
	}
	return n.Value, nil
}

// NodeAt resolves the node at p. The empty path resolves to nothing: the
// root itself is not an addressable item.
func (t *SliceTree[T]) NodeAt(p Path) (*TreeNode[T], bool) {
	if p.IsEmpty() {
		return nil, false
	}
	children := t.roots
	var n *TreeNode[T]
	for d := 0; d < p.Size(); d++ {
		i := p.At(d)
		if i < 0 || i >= len(children) {
			return nil, false
		}
		n = children[i]
		children = n.Children
	}
	return n, true
}

// childrenAt returns the child slice under p, following the same resolution
// rules as NodeAt but allowing the empty path (the root level).
func (t *SliceTree[T]) childrenAt(p Path) ([]*TreeNode[T], bool) {
	if p.IsEmpty() {
		return t.roots, true
	}
	n, ok := t.NodeAt(p)
	if !ok {
		return nil, false
	}
	return n.Children, true
}

// InsertChild splices one node into the child list under parent at index.
// Watchers observe a +1 shift at that position.
func (t *SliceTree[T]) InsertChild(parent Path, index int, n *TreeNode[T]) error {
	children, ok := t.childrenAt(parent)
	if !ok || index < 0 || index > len(children) {
		return fmt.Errorf("inserting at %v index %d: %w", parent, index, ErrOutOfRange)
	}
	children = append(children, nil)
	copy(children[index+1:], children[index:])
	children[index] = n
	t.setChildren(parent, children)
	t.notify(parent, index, 1)
	return nil
}

// Append adds a node at the end of the child list under parent.
func (t *SliceTree[T]) Append(parent Path, n *TreeNode[T]) error {
	children, ok := t.childrenAt(parent)
	if !ok {
		return fmt.Errorf("appending under %v: %w", parent, ErrOutOfRange)
	}
	return t.InsertChild(parent, len(children), n)
}

// RemoveChild splices one node out of the child list under parent. Watchers
// observe a -1 shift at that position.
func (t *SliceTree[T]) RemoveChild(parent Path, index int) (*TreeNode[T], error) {
	children, ok := t.childrenAt(parent)
	if !ok || index < 0 || index >= len(children) {
		return nil, fmt.Errorf("removing at %v index %d: %w", parent, index, ErrOutOfRange)
	}
	removed := children[index]
	children = append(children[:index], children[index+1:]...)
	t.setChildren(parent, children)
	t.notify(parent, index, -1)
	return removed, nil
}

func (t *SliceTree[T]) setChildren(parent Path, children []*TreeNode[T]) {
	if parent.IsEmpty() {
		t.roots = children
		return
	}
	n, _ := t.NodeAt(parent)
	n.Children = children
}

// Watch implements TreeWatcher.
func (t *SliceTree[T]) Watch(fn func(parent Path, index, delta int)) (cancel func()) {
	id := t.nextWatcher
	t.nextWatcher++
	t.watchers[id] = fn
	return func() {
		delete(t.watchers, id)
	}
}

func (t *SliceTree[T]) notify(parent Path, index, delta int) {
	for _, fn := range t.watchers {
		fn(parent, index, delta)
	}
}

// yamlTreeNode is the on-disk fixture shape consumed by LoadYAML.
type yamlTreeNode struct {
	Name     string         `yaml:"name"`
	Children []yamlTreeNode `yaml:"children"`
}

// LoadYAML builds a SliceTree[string] from a YAML document shaped as a list
// of {name, children} nodes. Used by the demo binary and fixture tests.
func LoadYAML(data []byte) (*SliceTree[string], error) {
	var docs []yamlTreeNode
	if err := yaml.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("parsing tree fixture: %w", err)
	}
	roots := make([]*TreeNode[string], len(docs))
	for i, d := range docs {
		roots[i] = yamlToNode(d)
	}
	return NewSliceTree(roots...), nil
}

func yamlToNode(y yamlTreeNode) *TreeNode[string] {
	n := NewTreeNode(y.Name)
	for _, c := range y.Children {
		n.Children = append(n.Children, yamlToNode(c))
	}
	return n
}
