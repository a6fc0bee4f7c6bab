// Package queue buffers values handed between goroutines.
package queue

import (
	"cmp"
	"slices"
	"sync"
)

type entry[T any] struct {
	key string
	seq int
	val T
}

// Results gathers values pushed from many goroutines and hands them back
// ordered by key.
type Results[T any] struct {
	mu    sync.Mutex
	items []entry[T]
}

// New returns an empty collector sized for n results.
func New[T any](n int) *Results[T] {
	return &Results[T]{items: make([]entry[T], 0, max(n, 0))}
}

// Push adds v under key.
func (r *Results[T]) Push(key string, v T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, entry[T]{key: key, seq: len(r.items), val: v})
}

// Len returns the number of collected results.
func (r *Results[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

// Sorted returns the values ordered by key and empties the collector.
// Equal keys keep their push order.
func (r *Results[T]) Sorted() []T {
	r.mu.Lock()
	items := r.items
	r.items = nil
	r.mu.Unlock()

	slices.SortFunc(items, func(a, b entry[T]) int {
		if c := cmp.Compare(a.key, b.key); c != 0 {
			return c
		}
		return cmp.Compare(a.seq, b.seq)
	})
	out := make([]T, len(items))
	for i, e := range items {
		out[i] = e.val
	}
	return out
}
