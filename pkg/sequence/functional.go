package sequence

import (
	"cmp"
	"iter"
	"slices"
)

// Iterator is a lazy, chainable sequence of T. Iterators built from maps
// inherit the map's unspecified order.
type Iterator[T any] struct {
	seq iter.Seq[T]
}

// FromMap creates an Iterator over the values of a map.
func FromMap[K comparable, T any](data map[K]T) *Iterator[T] {
	return &Iterator[T]{
		seq: func(yield func(T) bool) {
			for _, v := range data {
				if !yield(v) {
					return
				}
			}
		},
	}
}

// Collect exhausts the iterator and returns all elements.
func (i *Iterator[T]) Collect() []T {
	return slices.Collect(i.seq)
}

// Filter returns a new Iterator containing only elements that satisfy pred.
func (i *Iterator[T]) Filter(pred func(T) bool) *Iterator[T] {
	return &Iterator[T]{
		seq: func(yield func(T) bool) {
			for v := range i.seq {
				if pred(v) && !yield(v) {
					return
				}
			}
		},
	}
}

// Map lazily applies fn to every element.
func Map[T, R any](it *Iterator[T], fn func(T) R) *Iterator[R] {
	return &Iterator[R]{
		seq: func(yield func(R) bool) {
			for v := range it.seq {
				if !yield(fn(v)) {
					return
				}
			}
		},
	}
}

// SortedBy collects it and orders the elements by the key returned from key.
func SortedBy[T any, K cmp.Ordered](it *Iterator[T], key func(T) K) []T {
	data := it.Collect()
	slices.SortStableFunc(data, func(a, b T) int {
		return cmp.Compare(key(a), key(b))
	})
	return data
}
