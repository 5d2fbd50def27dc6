// Package tree implements an interval index: an AVL tree of intervals where
// every node caches the largest high bound of its subtree so that overlap
// searches can skip subtrees that end too early.
//
// A Tree is not safe for concurrent use; callers serialize access.
package tree

import (
	"errors"

	"github.com/henderiw/intervaltree/pkg/interval"
)

// ErrOutOfRange is returned when a position is not within [0, Size()).
var ErrOutOfRange = errors.New("out of range")

type Tree[T any] struct {
	root *treeNode[T]
}

func New[T any]() *Tree[T] {
	return &Tree[T]{}
}

// Clone creates an identical copy of the tree
// - Note: the intervals are copied by value, the values they hold are not deep copied
func (r *Tree[T]) Clone() *Tree[T] {
	return &Tree[T]{root: r.root.clone()}
}

func (r *Tree[T]) IsEmpty() bool { return r.root == nil }
func (r *Tree[T]) Size() int     { return r.root.getSize() }

// Height returns the height of the tree, -1 when it is empty.
func (r *Tree[T]) Height() int { return r.root.getHeight() }

// Insert adds the interval to the tree. Inserting an interval that is
// already stored leaves the tree unchanged.
// - returns whether the tree was changed
func (r *Tree[T]) Insert(iv interval.Interval[T]) bool {
	var inserted bool
	r.root, inserted = r.root.insert(iv)
	return inserted
}

func (n *treeNode[T]) insert(iv interval.Interval[T]) (*treeNode[T], bool) {
	if n == nil {
		return newTreeNode(iv), true
	}
	var inserted bool
	switch c := iv.Compare(n.interval); {
	case c < 0:
		n.left, inserted = n.left.insert(iv)
	case c > 0:
		n.right, inserted = n.right.insert(iv)
	default:
		return n, false
	}
	if !inserted {
		return n, false
	}
	n.update()
	return n.rebalance(), true
}

// Delete removes the interval from the tree. Deleting an interval that is not
// stored is a no-op.
// - returns whether the tree was changed
func (r *Tree[T]) Delete(iv interval.Interval[T]) bool {
	var deleted bool
	r.root, deleted = r.root.delete(iv)
	return deleted
}

func (n *treeNode[T]) delete(iv interval.Interval[T]) (*treeNode[T], bool) {
	if n == nil {
		return nil, false
	}
	var deleted bool
	switch c := iv.Compare(n.interval); {
	case c < 0:
		n.left, deleted = n.left.delete(iv)
	case c > 0:
		n.right, deleted = n.right.delete(iv)
	default:
		if n.left == nil {
			return n.right, true
		}
		if n.right == nil {
			return n.left, true
		}
		// two children: take over the in-order successor and drop it from
		// the right subtree
		n.interval = n.right.minNode().interval
		n.right = n.right.deleteMin()
		deleted = true
	}
	if !deleted {
		return n, false
	}
	n.update()
	return n.rebalance(), true
}

// DeleteMin removes the smallest interval, returning it.
func (r *Tree[T]) DeleteMin() (interval.Interval[T], bool) {
	if r.root == nil {
		return interval.Interval[T]{}, false
	}
	iv := r.root.minNode().interval
	r.root = r.root.deleteMin()
	return iv, true
}

// DeleteMax removes the largest interval, returning it.
func (r *Tree[T]) DeleteMax() (interval.Interval[T], bool) {
	if r.root == nil {
		return interval.Interval[T]{}, false
	}
	iv := r.root.maxNode().interval
	r.root = r.root.deleteMax()
	return iv, true
}

func (n *treeNode[T]) deleteMin() *treeNode[T] {
	if n.left == nil {
		return n.right
	}
	n.left = n.left.deleteMin()
	n.update()
	return n.rebalance()
}

func (n *treeNode[T]) deleteMax() *treeNode[T] {
	if n.right == nil {
		return n.left
	}
	n.right = n.right.deleteMax()
	n.update()
	return n.rebalance()
}

func (n *treeNode[T]) minNode() *treeNode[T] {
	for n.left != nil {
		n = n.left
	}
	return n
}

func (n *treeNode[T]) maxNode() *treeNode[T] {
	for n.right != nil {
		n = n.right
	}
	return n
}
