package tree

import "github.com/henderiw/intervaltree/pkg/interval"

type treeNode[T any] struct {
	interval interval.Interval[T]
	max      interval.Bound[T] // largest high bound in this subtree
	height   int
	size     int
	left     *treeNode[T]
	right    *treeNode[T]
}

func newTreeNode[T any](iv interval.Interval[T]) *treeNode[T] {
	return &treeNode[T]{
		interval: iv,
		max:      iv.High(),
		size:     1,
	}
}

// getHeight and getSize treat an absent child as height -1 and size 0.
func (n *treeNode[T]) getHeight() int {
	if n == nil {
		return -1
	}
	return n.height
}

func (n *treeNode[T]) getSize() int {
	if n == nil {
		return 0
	}
	return n.size
}

func (n *treeNode[T]) updateHeight() {
	n.height = 1 + max(n.left.getHeight(), n.right.getHeight())
}

func (n *treeNode[T]) updateSize() {
	n.size = 1 + n.left.getSize() + n.right.getSize()
}

func (n *treeNode[T]) updateMax() {
	compare := n.interval.CompareFunc()
	m := n.interval.High()
	if n.left != nil {
		m = interval.MaxAsHigh(m, n.left.max, compare)
	}
	if n.right != nil {
		m = interval.MaxAsHigh(m, n.right.max, compare)
	}
	n.max = m
}

// update recomputes the augmentation from the children, which must already
// be up to date.
func (n *treeNode[T]) update() {
	n.updateHeight()
	n.updateSize()
	n.updateMax()
}

func (n *treeNode[T]) balanceFactor() int {
	return n.left.getHeight() - n.right.getHeight()
}

// reaches reports whether some interval in the subtree can end at or after
// the low bound of iv.
func (n *treeNode[T]) reaches(iv interval.Interval[T]) bool {
	return n != nil && interval.GeAsHigh(n.max, iv.Low(), n.interval.CompareFunc())
}

func (n *treeNode[T]) clone() *treeNode[T] {
	if n == nil {
		return nil
	}
	c := *n
	c.left = n.left.clone()
	c.right = n.right.clone()
	return &c
}
