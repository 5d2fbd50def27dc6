// Package itable provides a labelled interval table: every claimed interval
// carries a label set, and the table can be queried by overlap, by order
// and by label selector. A table is safe for concurrent use.
package itable

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/henderiw/intervaltree/pkg/interval"
	"github.com/henderiw/intervaltree/pkg/tree"
	"k8s.io/apimachinery/pkg/labels"
)

var (
	ErrNotFound = errors.New("not found")
	ErrExists   = errors.New("already claimed")
)

type Table[T any] interface {
	Clone() Table[T]
	Get(iv interval.Interval[T]) (Entry[T], error)
	Has(iv interval.Interval[T]) bool
	Claim(iv interval.Interval[T], labels labels.Set) error
	Update(iv interval.Interval[T], labels labels.Set) error
	Release(iv interval.Interval[T]) error
	ReleaseByLabel(selector labels.Selector) error

	FindOverlap(iv interval.Interval[T]) (Entry[T], bool)
	Overlapping(iv interval.Interval[T]) Entries[T]
	Select(k int) (Entry[T], error)
	Rank(iv interval.Interval[T]) int
	Between(low, high interval.Interval[T]) Entries[T]

	GetByLabel(selector labels.Selector) Entries[T]
	GetAll() Entries[T]
	Size() int
	Iterate() *Iterator[T]
}

// ValidationFn is called before an interval is claimed.
type ValidationFn[T any] func(iv interval.Interval[T]) error

func New[T any](name string, v ValidationFn[T]) Table[T] {
	return &table[T]{
		m:          new(sync.RWMutex),
		name:       name,
		tree:       tree.New[T](),
		entries:    map[string]Entries[T]{},
		validateFn: v,
	}
}

type table[T any] struct {
	m    *sync.RWMutex
	name string
	tree *tree.Tree[T]
	// entries are bucketed by the text of the interval as stored in the
	// tree; intervals that print alike but compare apart share a bucket.
	entries    map[string]Entries[T]
	validateFn ValidationFn[T]
}

func key[T any](iv interval.Interval[T]) string { return iv.String() }

func (r *table[T]) Clone() Table[T] {
	r.m.RLock()
	defer r.m.RUnlock()

	entries := make(map[string]Entries[T], len(r.entries))
	for k, bucket := range r.entries {
		entries[k] = slices.Clone(bucket)
	}
	return &table[T]{
		m:          new(sync.RWMutex),
		name:       r.name,
		tree:       r.tree.Clone(),
		entries:    entries,
		validateFn: r.validateFn,
	}
}

func (r *table[T]) Get(iv interval.Interval[T]) (Entry[T], error) {
	r.m.RLock()
	defer r.m.RUnlock()

	return r.get(iv)
}

func (r *table[T]) get(iv interval.Interval[T]) (Entry[T], error) {
	stored, ok := r.tree.Get(iv)
	if !ok {
		return nil, fmt.Errorf("table %s: entry %s %w", r.name, iv.String(), ErrNotFound)
	}
	return r.entry(stored), nil
}

func (r *table[T]) Has(iv interval.Interval[T]) bool {
	r.m.RLock()
	defer r.m.RUnlock()

	return r.tree.Has(iv)
}

func (r *table[T]) Claim(iv interval.Interval[T], labels labels.Set) error {
	if err := r.validate(iv); err != nil {
		return err
	}
	r.m.Lock()
	defer r.m.Unlock()

	if !r.tree.Insert(iv) {
		return fmt.Errorf("table %s: entry %s %w", r.name, iv.String(), ErrExists)
	}
	r.setEntry(NewEntry(iv, labels))
	return nil
}

func (r *table[T]) Update(iv interval.Interval[T], labels labels.Set) error {
	r.m.Lock()
	defer r.m.Unlock()

	e, err := r.get(iv)
	if err != nil {
		return err
	}
	r.setEntry(NewEntry(e.Interval(), labels))
	return nil
}

func (r *table[T]) Release(iv interval.Interval[T]) error {
	r.m.Lock()
	defer r.m.Unlock()

	r.del(iv)
	return nil
}

func (r *table[T]) ReleaseByLabel(selector labels.Selector) error {
	r.m.Lock()
	defer r.m.Unlock()

	for _, e := range r.getByLabel(selector) {
		r.del(e.Interval())
	}
	return nil
}

func (r *table[T]) del(iv interval.Interval[T]) {
	stored, ok := r.tree.Get(iv)
	if !ok {
		return
	}
	r.tree.Delete(stored)

	k := key(stored)
	bucket := slices.DeleteFunc(r.entries[k], func(e Entry[T]) bool {
		return e.Interval().Equal(stored)
	})
	if len(bucket) == 0 {
		delete(r.entries, k)
		return
	}
	r.entries[k] = bucket
}

func (r *table[T]) FindOverlap(iv interval.Interval[T]) (Entry[T], bool) {
	r.m.RLock()
	defer r.m.RUnlock()

	found, ok := r.tree.FindOverlap(iv)
	if !ok {
		return nil, false
	}
	return r.entry(found), true
}

func (r *table[T]) Overlapping(iv interval.Interval[T]) Entries[T] {
	r.m.RLock()
	defer r.m.RUnlock()

	return r.toEntries(r.tree.FindOverlaps(iv))
}

func (r *table[T]) Select(k int) (Entry[T], error) {
	r.m.RLock()
	defer r.m.RUnlock()

	iv, err := r.tree.Select(k)
	if err != nil {
		return nil, fmt.Errorf("table %s: %w", r.name, err)
	}
	return r.entry(iv), nil
}

func (r *table[T]) Rank(iv interval.Interval[T]) int {
	r.m.RLock()
	defer r.m.RUnlock()

	return r.tree.Rank(iv)
}

func (r *table[T]) Between(low, high interval.Interval[T]) Entries[T] {
	r.m.RLock()
	defer r.m.RUnlock()

	return r.toEntries(r.tree.IntervalsBetween(low, high))
}

func (r *table[T]) GetByLabel(selector labels.Selector) Entries[T] {
	r.m.RLock()
	defer r.m.RUnlock()

	return r.getByLabel(selector)
}

func (r *table[T]) getByLabel(selector labels.Selector) Entries[T] {
	entries := Entries[T]{}

	iter := r.iterate()
	for iter.Next() {
		if selector.Matches(iter.Entry().Labels()) {
			entries = append(entries, iter.Entry())
		}
	}
	return entries
}

func (r *table[T]) GetAll() Entries[T] {
	r.m.RLock()
	defer r.m.RUnlock()

	return r.toEntries(r.tree.Intervals())
}

func (r *table[T]) Size() int {
	r.m.RLock()
	defer r.m.RUnlock()

	return r.tree.Size()
}

// Iterate returns an iterator over the entries, smallest interval first.
// The table must not be modified while the iterator is in use.
func (r *table[T]) Iterate() *Iterator[T] {
	r.m.RLock()
	defer r.m.RUnlock()

	return r.iterate()
}

func (r *table[T]) iterate() *Iterator[T] {
	return &Iterator[T]{
		iter:  r.tree.Iterate(),
		entry: r.entry,
	}
}

func (r *table[T]) validate(iv interval.Interval[T]) error {
	if r.validateFn == nil {
		return nil
	}
	if err := r.validateFn(iv); err != nil {
		return fmt.Errorf("table %s: entry %s: %w", r.name, iv.String(), err)
	}
	return nil
}

// entry returns the entry of an interval taken from the tree.
func (r *table[T]) entry(stored interval.Interval[T]) Entry[T] {
	for _, e := range r.entries[key(stored)] {
		if e.Interval().Equal(stored) {
			return e
		}
	}
	panic(fmt.Sprintf("table %s: interval %s in tree without entry - should be impossible!", r.name, stored.String()))
}

// setEntry adds e or replaces the entry of an equal interval.
func (r *table[T]) setEntry(e Entry[T]) {
	k := key(e.Interval())
	for i, old := range r.entries[k] {
		if old.Interval().Equal(e.Interval()) {
			r.entries[k][i] = e
			return
		}
	}
	r.entries[k] = append(r.entries[k], e)
}

func (r *table[T]) toEntries(ivs []interval.Interval[T]) Entries[T] {
	entries := make(Entries[T], 0, len(ivs))
	for _, iv := range ivs {
		entries = append(entries, r.entry(iv))
	}
	return entries
}
