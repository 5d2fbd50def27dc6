// Package interval implements intervals over ordered values whose endpoints
// can be included, excluded or unbounded.
package interval

import (
	"cmp"
	"errors"
	"fmt"
)

// ErrInvalidInterval is returned when the low end of an interval exceeds its
// high end.
var ErrInvalidInterval = errors.New("invalid interval")

// Interval is an immutable range of values delimited by a low and a high
// bound. Intervals are compared with the function they were built with;
// comparing intervals built with different functions is undefined.
type Interval[T any] struct {
	low     Bound[T]
	high    Bound[T]
	compare CompareFn[T]
}

// New returns the interval between low and high for a naturally ordered type.
func New[T cmp.Ordered](low, high Bound[T]) (Interval[T], error) {
	return NewFunc(low, high, cmp.Compare[T])
}

// NewFunc returns the interval between low and high ordered by compare.
func NewFunc[T any](low, high Bound[T], compare CompareFn[T]) (Interval[T], error) {
	if compare == nil {
		return Interval[T]{}, fmt.Errorf("%w: no compare function", ErrInvalidInterval)
	}
	r := Interval[T]{low: low, high: high, compare: compare}
	if !r.valid() {
		return Interval[T]{}, fmt.Errorf("%w: %s", ErrInvalidInterval, r.String())
	}
	return r, nil
}

// MustNew is like New but panics on an invalid interval.
func MustNew[T cmp.Ordered](low, high Bound[T]) Interval[T] {
	r, err := New(low, high)
	if err != nil {
		panic(err)
	}
	return r
}

// Point returns the closed interval [v,v].
func Point[T cmp.Ordered](v T) Interval[T] {
	return PointFunc(v, cmp.Compare[T])
}

// PointFunc returns the closed interval [v,v] ordered by compare, which
// must not be nil. Use NewFunc when compare is not known to be set.
func PointFunc[T any](v T, compare CompareFn[T]) Interval[T] {
	b := Included(v)
	return Interval[T]{low: b, high: b, compare: compare}
}

func (r Interval[T]) valid() bool {
	if r.low.kind == KindUnbounded || r.high.kind == KindUnbounded {
		return true
	}
	c := r.compare(r.low.value, r.high.value)
	if r.low.kind == KindIncluded && r.high.kind == KindIncluded {
		return c <= 0
	}
	return c < 0
}

func (r Interval[T]) Low() Bound[T]               { return r.low }
func (r Interval[T]) High() Bound[T]              { return r.high }
func (r Interval[T]) CompareFunc() CompareFn[T]   { return r.compare }
func (r Interval[T]) String() string              { return r.low.lowString() + "," + r.high.highString() }
func (r Interval[T]) Less(other Interval[T]) bool { return r.Compare(other) < 0 }

// Equal reports whether both intervals have the same bounds.
func (r Interval[T]) Equal(other Interval[T]) bool { return r.Compare(other) == 0 }

// IsPoint reports whether the interval holds exactly one value.
func (r Interval[T]) IsPoint() bool {
	return r.low.kind == KindIncluded && r.high.kind == KindIncluded &&
		r.compare(r.low.value, r.high.value) == 0
}

// Compare orders intervals by their low bound first and their high bound
// second. It returns -1, 0 or +1.
func (r Interval[T]) Compare(other Interval[T]) int {
	if c := CompareAsLow(r.low, other.low, r.compare); c != 0 {
		return c
	}
	return CompareAsHigh(r.high, other.high, r.compare)
}

// Overlaps reports whether both intervals share at least one value.
func (r Interval[T]) Overlaps(other Interval[T]) bool {
	c := r.Compare(other)
	if c == 0 {
		return true
	}
	lo, hi := r, other
	if c > 0 {
		lo, hi = other, r
	}
	return GeAsHigh(lo.high, hi.low, r.compare)
}

// Contains reports whether other lies entirely inside r.
func (r Interval[T]) Contains(other Interval[T]) bool {
	o, ok := r.Overlap(other)
	return ok && o.Equal(other)
}

// Overlap returns the intersection of both intervals, or false when they
// are disjoint.
func (r Interval[T]) Overlap(other Interval[T]) (Interval[T], bool) {
	if !r.Overlaps(other) {
		return Interval[T]{}, false
	}
	low := r.low
	if CompareAsLow(r.low, other.low, r.compare) < 0 {
		low = other.low
	}
	high := r.high
	if CompareAsHigh(r.high, other.high, r.compare) > 0 {
		high = other.high
	}
	return Interval[T]{low: low, high: high, compare: r.compare}, true
}
