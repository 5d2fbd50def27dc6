package tree

import (
	"fmt"

	"github.com/henderiw/intervaltree/pkg/interval"
)

// Overlaps reports whether any stored interval overlaps iv.
func (r *Tree[T]) Overlaps(iv interval.Interval[T]) bool {
	_, ok := r.FindOverlap(iv)
	return ok
}

// FindOverlap returns a stored interval overlapping iv. When several
// intervals overlap there is no guarantee which one is returned.
func (r *Tree[T]) FindOverlap(iv interval.Interval[T]) (interval.Interval[T], bool) {
	n := r.root
	for n != nil {
		if n.interval.Overlaps(iv) {
			return n.interval, true
		}
		// the left subtree is only worth a look when something in it ends
		// at or after the start of iv; otherwise nothing there can overlap
		if n.left.reaches(iv) {
			n = n.left
		} else {
			n = n.right
		}
	}
	return interval.Interval[T]{}, false
}

// FindOverlaps returns all stored intervals overlapping iv, in order.
func (r *Tree[T]) FindOverlaps(iv interval.Interval[T]) []interval.Interval[T] {
	return r.root.findOverlaps(iv, nil)
}

func (n *treeNode[T]) findOverlaps(iv interval.Interval[T], result []interval.Interval[T]) []interval.Interval[T] {
	if n == nil {
		return result
	}
	if n.left.reaches(iv) {
		result = n.left.findOverlaps(iv, result)
	}
	if n.interval.Overlaps(iv) {
		result = append(result, n.interval)
	}
	return n.right.findOverlaps(iv, result)
}

// Has reports whether iv is stored in the tree.
func (r *Tree[T]) Has(iv interval.Interval[T]) bool {
	_, ok := r.Get(iv)
	return ok
}

// Get returns the stored interval that compares equal to iv. It may differ
// from iv in representation, e.g. a float -0 bound where 0 was inserted.
func (r *Tree[T]) Get(iv interval.Interval[T]) (interval.Interval[T], bool) {
	n := r.root
	for n != nil {
		switch c := iv.Compare(n.interval); {
		case c < 0:
			n = n.left
		case c > 0:
			n = n.right
		default:
			return n.interval, true
		}
	}
	return interval.Interval[T]{}, false
}

// Select returns the k-th smallest interval, counting from 0.
func (r *Tree[T]) Select(k int) (interval.Interval[T], error) {
	if k < 0 || k >= r.Size() {
		return interval.Interval[T]{}, fmt.Errorf("%w: position %d, size %d", ErrOutOfRange, k, r.Size())
	}
	n := r.root
	for {
		t := n.left.getSize()
		switch {
		case k < t:
			n = n.left
		case k > t:
			k -= t + 1
			n = n.right
		default:
			return n.interval, nil
		}
	}
}

// Min returns the smallest interval.
func (r *Tree[T]) Min() (interval.Interval[T], bool) {
	if r.root == nil {
		return interval.Interval[T]{}, false
	}
	return r.root.minNode().interval, true
}

// Max returns the largest interval.
func (r *Tree[T]) Max() (interval.Interval[T], bool) {
	if r.root == nil {
		return interval.Interval[T]{}, false
	}
	return r.root.maxNode().interval, true
}

// Rank returns the number of stored intervals strictly less than iv.
func (r *Tree[T]) Rank(iv interval.Interval[T]) int {
	rank := 0
	n := r.root
	for n != nil {
		switch c := iv.Compare(n.interval); {
		case c < 0:
			n = n.left
		case c > 0:
			rank += n.left.getSize() + 1
			n = n.right
		default:
			return rank + n.left.getSize()
		}
	}
	return rank
}

// IntervalsBetween returns, in order, the stored intervals x with
// low <= x < high.
func (r *Tree[T]) IntervalsBetween(low, high interval.Interval[T]) []interval.Interval[T] {
	if low.Compare(high) >= 0 {
		return nil
	}
	return r.root.between(low, high, nil)
}

func (n *treeNode[T]) between(low, high interval.Interval[T], result []interval.Interval[T]) []interval.Interval[T] {
	if n == nil {
		return result
	}
	lc := low.Compare(n.interval)
	hc := high.Compare(n.interval)
	if lc < 0 {
		result = n.left.between(low, high, result)
	}
	if lc <= 0 && hc > 0 {
		result = append(result, n.interval)
	}
	if hc > 0 {
		result = n.right.between(low, high, result)
	}
	return result
}

// SizeBetween returns the number of stored intervals x with low <= x < high.
func (r *Tree[T]) SizeBetween(low, high interval.Interval[T]) int {
	if low.Compare(high) >= 0 {
		return 0
	}
	return r.Rank(high) - r.Rank(low)
}

// Intervals returns all stored intervals in order.
func (r *Tree[T]) Intervals() []interval.Interval[T] {
	ret := make([]interval.Interval[T], 0, r.Size())
	iter := r.Iterate()
	for iter.Next() {
		ret = append(ret, iter.Interval())
	}
	return ret
}
