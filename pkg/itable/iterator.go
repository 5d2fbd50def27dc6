package itable

import (
	"github.com/henderiw/intervaltree/pkg/interval"
	"github.com/henderiw/intervaltree/pkg/tree"
)

type Iterator[T any] struct {
	iter  *tree.TreeIterator[T]
	entry func(interval.Interval[T]) Entry[T]
}

func (i *Iterator[T]) Next() bool {
	return i.iter.Next()
}

func (i *Iterator[T]) Entry() Entry[T] {
	return i.entry(i.iter.Interval())
}
