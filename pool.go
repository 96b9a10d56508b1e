package vec

import (
	"sync"
	"weak"
)

// Pool provides a thread-safe pool of Vector instances for
// memory-efficient reuse. It uses weak pointers to allow garbage
// collection of unused vectors while maintaining a pool of reusable
// storage for high-frequency allocation patterns.
//
// by storing PoolItem as weak pointers, the GC can collect them at any time
// before using a PoolItem, we try to get a strong pointer while removing it from the pool
// once we call Release, we turn the item back to the pool and make it a weak pointer again
// this means that at any time, GC can claim back the memory if required,
// allowing GC to automatically manage an appropriate pool size depending on available memory and GC pressure
//
// The pool itself is safe for concurrent use; the vectors it hands out
// are not.
type Pool[T any] struct {
	// pool is a slice of weak pointers to the struct holding the vector
	pool  []weak.Pointer[PoolItem[T]]
	sizes map[uint64]*poolItemSize
	opts  []Option[T]
	mu    sync.Mutex
}

// poolItemSize is used to track the required element count across the last 50 vectors in the pool
type poolItemSize struct {
	count      int
	totalElems int
}

// PoolItem wraps a Vector for use in the pool
type PoolItem[T any] struct {
	Vec *Vector[T]
	Key uint64
}

// NewPool creates a new Pool instance. Vectors created by the pool are
// configured with opts.
func NewPool[T any](opts ...Option[T]) *Pool[T] {
	return &Pool[T]{
		sizes: make(map[uint64]*poolItemSize),
		opts:  opts,
	}
}

// Acquire gets a vector from the pool or creates a new one if none are
// available. The key parameter is used to track vector sizes per use
// case: new vectors are pre-reserved to the tracked average peak.
func (p *Pool[T]) Acquire(key uint64) *PoolItem[T] {
	p.mu.Lock()
	defer p.mu.Unlock()

	// Try to find an available vector in the pool
	for len(p.pool) > 0 {
		// Pop the last item
		lastIdx := len(p.pool) - 1
		wp := p.pool[lastIdx]
		p.pool = p.pool[:lastIdx]

		v := wp.Value()
		if v != nil {
			v.Key = key
			return v
		}
		// If weak pointer was nil (GC collected), continue to next item
	}

	// No vector available, create a new one
	item := &PoolItem[T]{
		Vec: New[T](p.opts...),
		Key: key,
	}
	if n := p.preferredSize(key); n > 0 {
		_ = item.Vec.Reserve(n)
	}
	return item
}

// Release returns a vector to the pool for reuse. Its elements are
// disposed, its storage kept, and its peak element count recorded to
// optimize future vector sizes for this use case.
func (p *Pool[T]) Release(item *PoolItem[T]) {
	peak := item.Vec.Peak()
	item.Vec.Clear()

	p.mu.Lock()
	defer p.mu.Unlock()

	p.recordSize(item.Key, peak)
	item.Key = 0

	// Add the vector back to the pool using a weak pointer
	w := weak.Make(item)
	p.pool = append(p.pool, w)
}

// ReleaseMany returns several vectors to the pool under one lock.
func (p *Pool[T]) ReleaseMany(items []*PoolItem[T]) {
	peaks := make([]int, len(items))
	for i, item := range items {
		peaks[i] = item.Vec.Peak()
		item.Vec.Clear()
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	for i, item := range items {
		p.recordSize(item.Key, peaks[i])
		item.Key = 0

		w := weak.Make(item)
		p.pool = append(p.pool, w)
	}
}

// recordSize records the peak element count for a use case over a
// rolling 50-sample window. Callers must hold p.mu.
func (p *Pool[T]) recordSize(key uint64, peak int) {
	if size, ok := p.sizes[key]; ok {
		if size.count == 50 {
			size.count = 1
			size.totalElems = size.totalElems / 50
		}
		size.count++
		size.totalElems += peak
	} else {
		p.sizes[key] = &poolItemSize{
			count:      1,
			totalElems: peak,
		}
	}
}

// preferredSize returns the tracked average peak element count for a
// use case, or 0 when none is recorded. Callers must hold p.mu.
func (p *Pool[T]) preferredSize(key uint64) int {
	if size, ok := p.sizes[key]; ok {
		return size.totalElems / size.count
	}
	return 0
}
