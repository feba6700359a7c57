package treesel

import "fmt"

// Path addresses a node in the source tree as the ordered sequence of child
// indices leading to it from the root. The zero value is the distinguished
// empty path: it addresses nothing, is the idiom for "no selection", and is
// never equal to a path of any positive length.
//
// Paths are value objects. Every constructor and derivation copies its
// input, so a Path can be stored, compared and passed around freely.
type Path struct {
	elems []int
}

// EmptyPath is the distinguished "unset" path.
var EmptyPath = Path{}

// NewPath creates a path from an explicit sequence of child indices.
// Indices must be non-negative; out-of-range values are clamped against the
// live tree by the model before use, not here.
func NewPath(indices ...int) Path {
	if len(indices) == 0 {
		return Path{}
	}
	elems := make([]int, len(indices))
	copy(elems, indices)
	return Path{elems: elems}
}

// IndexPath creates a depth-1 path addressing a direct child of the root.
func IndexPath(index int) Path {
	return Path{elems: []int{index}}
}

// IsEmpty reports whether the path is the distinguished empty path.
func (p Path) IsEmpty() bool {
	return len(p.elems) == 0
}

// Size returns the number of indices in the path.
func (p Path) Size() int {
	return len(p.elems)
}

// At returns the index at the given depth.
func (p Path) At(depth int) int {
	return p.elems[depth]
}

// Leaf returns the last index of the path, or -1 for the empty path.
func (p Path) Leaf() int {
	if len(p.elems) == 0 {
		return -1
	}
	return p.elems[len(p.elems)-1]
}

// Parent returns the path with the last index dropped. The parent of the
// empty path is the empty path.
func (p Path) Parent() Path {
	if len(p.elems) <= 1 {
		return Path{}
	}
	return NewPath(p.elems[:len(p.elems)-1]...)
}

// Append returns a new path extended by one child index.
func (p Path) Append(index int) Path {
	elems := make([]int, len(p.elems)+1)
	copy(elems, p.elems)
	elems[len(p.elems)] = index
	return Path{elems: elems}
}

// Equal reports structural equality.
func (p Path) Equal(o Path) bool {
	if len(p.elems) != len(o.elems) {
		return false
	}
	for i, e := range p.elems {
		if o.elems[i] != e {
			return false
		}
	}
	return true
}

// IsAncestorOf reports whether p is a strict prefix of o. A path is not an
// ancestor of itself; the empty path is an ancestor of every non-empty path.
func (p Path) IsAncestorOf(o Path) bool {
	if len(p.elems) >= len(o.elems) {
		return false
	}
	for i, e := range p.elems {
		if o.elems[i] != e {
			return false
		}
	}
	return true
}

// String formats the path as its index sequence, e.g. "[1 0 2]".
func (p Path) String() string {
	return fmt.Sprintf("%v", p.elems)
}

// PathRange is an unordered pair of paths denoting a selection span. The two
// endpoints are interpreted structurally, not as a linear interval: sibling
// groups strictly between the endpoints are covered in full while the
// boundary subtrees are covered only from/up to their respective endpoint.
type PathRange struct {
	Start Path
	End   Path
}

// NewRange creates a range between two endpoints. Order does not matter.
func NewRange(start, end Path) PathRange {
	return PathRange{Start: start, End: end}
}

// pointRange covers exactly one path (and, if that path has children in the
// source tree, the entire subtree under it).
func pointRange(p Path) PathRange {
	return PathRange{Start: p, End: p}
}

// IsPoint reports whether both endpoints address the same node.
func (r PathRange) IsPoint() bool {
	return r.Start.Equal(r.End)
}
