// Package treesel implements a hierarchical selection model for tree-shaped
// collections: it tracks which items are selected in a lazily-realized tree,
// supports single- and multi-item selection, structural range selection
// across sibling groups, anchor tracking, and batched updates that coalesce
// multiple mutations into one change notification. Structural mutations of
// the underlying tree (insertions/removals of children) re-index selected
// paths without losing selection identity.
package treesel

import "errors"

// Batch errors
var (
	// ErrNoBatch indicates that EndBatch was called with no open batch.
	ErrNoBatch = errors.New("no open batch")
)

// Selection errors
var (
	// ErrSingleSelect indicates that a range with differing endpoints was
	// requested while the model is in single-select mode.
	ErrSingleSelect = errors.New("range selection not allowed in single-select mode")
)

// Resolution errors
var (
	// ErrOutOfRange indicates that a path cannot be resolved against the
	// current shape of the tree.
	ErrOutOfRange = errors.New("path out of range")
)
