package tree

import "github.com/henderiw/intervaltree/pkg/interval"

// treeIteratorNext is an indicator to know what Next() should do
// for the current node.
type treeIteratorNext int

const (
	nextLeft treeIteratorNext = iota
	nextSelf
	nextRight
	nextUp
)

// TreeIterator[T] is a stateful in-order iterator over a tree.
type TreeIterator[T any] struct {
	current     *treeNode[T]
	nodeHistory []*treeNode[T]
	next        treeIteratorNext
}

// Iterate returns an iterator over all intervals of a tree, smallest first. It
// is important for the tree to not be modified while using the iterator.
func (r *Tree[T]) Iterate() *TreeIterator[T] {
	return &TreeIterator[T]{
		current:     r.root,
		nodeHistory: []*treeNode[T]{},
		next:        nextLeft,
	}
}

// Next jumps to the next interval of a tree. It returns false if there
// is none.
func (iter *TreeIterator[T]) Next() bool {
	if iter.current == nil {
		return false
	}
	for {
		node := iter.current
		if iter.next == nextLeft {
			if node.left != nil {
				iter.nodeHistory = append(iter.nodeHistory, node)
				iter.current = node.left
				continue
			}
			iter.next = nextSelf
		}
		if iter.next == nextSelf {
			iter.next = nextRight
			return true
		}
		if iter.next == nextRight {
			if node.right != nil {
				iter.nodeHistory = append(iter.nodeHistory, node)
				iter.current = node.right
				iter.next = nextLeft
				continue
			}
			// We need to backtrack
			iter.next = nextUp
		}
		if iter.next == nextUp {
			nodeHistoryLen := len(iter.nodeHistory)
			if nodeHistoryLen == 0 {
				iter.current = nil
				return false
			}
			previous := iter.nodeHistory[nodeHistoryLen-1]
			iter.nodeHistory = iter.nodeHistory[:nodeHistoryLen-1]
			switch node {
			case previous.left:
				iter.current = previous
				iter.next = nextSelf
			case previous.right:
				iter.current = previous
				iter.next = nextUp
			default:
				panic("unexpected state")
			}
		}
	}
}

// Interval returns the interval the iterator is positioned on.
func (iter *TreeIterator[T]) Interval() interval.Interval[T] {
	return iter.current.interval
}
