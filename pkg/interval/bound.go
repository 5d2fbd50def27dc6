package interval

import "fmt"

// Kind is the kind of an interval endpoint.
type Kind uint8

const (
	// KindUnbounded means the interval extends infinitely on that side.
	KindUnbounded Kind = iota
	// KindIncluded means the endpoint value is part of the interval.
	KindIncluded
	// KindExcluded means the endpoint value is not part of the interval.
	KindExcluded
)

func (k Kind) String() string {
	switch k {
	case KindIncluded:
		return "included"
	case KindExcluded:
		return "excluded"
	default:
		return "unbounded"
	}
}

// CompareFn returns a negative number when a < b, zero when a == b and a
// positive number when a > b.
type CompareFn[T any] func(a, b T) int

// Bound is one endpoint of an interval. The zero value is unbounded.
type Bound[T any] struct {
	kind  Kind
	value T
}

// Included, Excluded and Unbounded build the three kinds of bound.
func Included[T any](v T) Bound[T] { return Bound[T]{kind: KindIncluded, value: v} }
func Excluded[T any](v T) Bound[T] { return Bound[T]{kind: KindExcluded, value: v} }
func Unbounded[T any]() Bound[T]   { return Bound[T]{} }

func (r Bound[T]) Kind() Kind        { return r.kind }
func (r Bound[T]) IsUnbounded() bool { return r.kind == KindUnbounded }
func (r Bound[T]) IsIncluded() bool  { return r.kind == KindIncluded }
func (r Bound[T]) Value() (T, bool)  { return r.value, r.kind != KindUnbounded }

func (r Bound[T]) equal(b Bound[T], cmp CompareFn[T]) bool {
	if r.kind != b.kind {
		return false
	}
	return r.kind == KindUnbounded || cmp(r.value, b.value) == 0
}

func (r Bound[T]) lowString() string {
	switch r.kind {
	case KindIncluded:
		return fmt.Sprintf("[%v", r.value)
	case KindExcluded:
		return fmt.Sprintf("(%v", r.value)
	default:
		return "(_"
	}
}

func (r Bound[T]) highString() string {
	switch r.kind {
	case KindIncluded:
		return fmt.Sprintf("%v]", r.value)
	case KindExcluded:
		return fmt.Sprintf("%v)", r.value)
	default:
		return "_)"
	}
}

// CompareAsLow orders two bounds used as the low end of an interval.
// Unbounded is the smallest, and at equal values an included bound sorts
// before an excluded one since it reaches further left. Zero is only
// returned for bounds of the same kind and value.
func CompareAsLow[T any](a, b Bound[T], cmp CompareFn[T]) int {
	switch {
	case a.kind == KindUnbounded && b.kind == KindUnbounded:
		return 0
	case a.kind == KindUnbounded:
		return -1
	case b.kind == KindUnbounded:
		return 1
	}
	if c := cmp(a.value, b.value); c != 0 {
		return sign(c)
	}
	switch {
	case a.kind == b.kind:
		return 0
	case a.kind == KindIncluded:
		return -1
	default:
		return 1
	}
}

// CompareAsHigh orders two bounds used as the high end of an interval.
// Unbounded is the largest, and at equal values an excluded bound sorts
// before an included one since it stops short.
func CompareAsHigh[T any](a, b Bound[T], cmp CompareFn[T]) int {
	switch {
	case a.kind == KindUnbounded && b.kind == KindUnbounded:
		return 0
	case a.kind == KindUnbounded:
		return 1
	case b.kind == KindUnbounded:
		return -1
	}
	if c := cmp(a.value, b.value); c != 0 {
		return sign(c)
	}
	switch {
	case a.kind == b.kind:
		return 0
	case a.kind == KindExcluded:
		return -1
	default:
		return 1
	}
}

// MaxAsHigh returns the larger of two high bounds; a is returned on a tie.
func MaxAsHigh[T any](a, b Bound[T], cmp CompareFn[T]) Bound[T] {
	if CompareAsHigh(a, b, cmp) >= 0 {
		return a
	}
	return b
}

// GeAsHigh reports whether the high bound reaches the low bound, that is
// whether some value lies at or below high and at or above low.
func GeAsHigh[T any](high, low Bound[T], cmp CompareFn[T]) bool {
	if high.kind == KindUnbounded || low.kind == KindUnbounded {
		return true
	}
	c := cmp(high.value, low.value)
	if high.kind == KindIncluded && low.kind == KindIncluded {
		return c >= 0
	}
	return c > 0
}

func sign(c int) int {
	switch {
	case c < 0:
		return -1
	case c > 0:
		return 1
	}
	return 0
}
