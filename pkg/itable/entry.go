package itable

import (
	"fmt"

	"github.com/henderiw/intervaltree/pkg/interval"
	"k8s.io/apimachinery/pkg/labels"
)

type Entry[T any] interface {
	Interval() interval.Interval[T]
	Labels() labels.Set
	String() string
	Equal(e2 Entry[T]) bool
}

type entry[T any] struct {
	interval interval.Interval[T]
	labels   labels.Set
}

type Entries[T any] []Entry[T]

func (r entry[T]) Interval() interval.Interval[T] { return r.interval }
func (r entry[T]) Labels() labels.Set             { return r.labels }
func (r entry[T]) String() string {
	return fmt.Sprintf("interval: %s, labels: %s", r.interval.String(), r.labels.String())
}
func (r entry[T]) Equal(e2 Entry[T]) bool {
	return r.interval.Equal(e2.Interval()) &&
		r.labels.String() == e2.Labels().String()
}

func NewEntry[T any](iv interval.Interval[T], l labels.Set) Entry[T] {
	// the set is copied so the caller cannot change a stored entry
	ls := make(labels.Set, len(l))
	for k, v := range l {
		ls[k] = v
	}
	return entry[T]{
		interval: iv,
		labels:   ls,
	}
}

// Intervals returns the intervals of the entries, in the same order.
func (r Entries[T]) Intervals() []interval.Interval[T] {
	ivs := make([]interval.Interval[T], 0, len(r))
	for _, e := range r {
		ivs = append(ivs, e.Interval())
	}
	return ivs
}
