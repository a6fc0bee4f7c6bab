package queue

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResults_Sorted(t *testing.T) {
	r := New[int](3)
	r.Push("c.rep", 3)
	r.Push("a.rep", 1)
	r.Push("b.rep", 2)

	assert.Equal(t, 3, r.Len())
	assert.Equal(t, []int{1, 2, 3}, r.Sorted())
	assert.Zero(t, r.Len(), "Sorted empties the collector")
	assert.Empty(t, r.Sorted())
}

func TestResults_EqualKeysKeepPushOrder(t *testing.T) {
	r := New[string](0)
	r.Push("x", "first")
	r.Push("a", "only")
	r.Push("x", "second")

	assert.Equal(t, []string{"only", "first", "second"}, r.Sorted())
}

func TestResults_NegativeSize(t *testing.T) {
	r := New[int](-1)
	r.Push("k", 1)
	assert.Equal(t, []int{1}, r.Sorted())
}

func TestResults_Concurrent(t *testing.T) {
	r := New[string](100)
	var wg sync.WaitGroup
	for i := range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			key := fmt.Sprintf("%03d.rep", i)
			r.Push(key, key)
		}()
	}
	wg.Wait()

	got := r.Sorted()
	assert.Len(t, got, 100)
	for i, v := range got {
		assert.Equal(t, fmt.Sprintf("%03d.rep", i), v)
	}
}

func TestQueue_DrainKeepsPushOrder(t *testing.T) {
	q := NewQueue[string]()
	assert.True(t, q.Empty())

	q.Push("a.rep")
	q.Push("b.rep", "c.rep")
	assert.Equal(t, 3, q.Len())
	assert.False(t, q.Empty())

	assert.Equal(t, []string{"a.rep", "b.rep", "c.rep"}, q.Drain())
	assert.True(t, q.Empty())
	assert.Empty(t, q.Drain())
}

func TestQueue_RequeueAfterDrain(t *testing.T) {
	q := NewQueue[int]()
	q.Push(1, 2)
	items := q.Drain()
	q.Push(3)
	q.Push(items...)
	assert.Equal(t, []int{3, 1, 2}, q.Drain())
}
