// SPDX-License-Identifier: Apache-2.0

package vec

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPoolAcquireRelease(t *testing.T) {
	p := NewPool[int]()

	item := p.Acquire(1)
	require.NotNil(t, item)
	require.Equal(t, uint64(1), item.Key)
	require.NoError(t, item.Vec.Append(1, 2, 3))

	p.Release(item)
	require.Equal(t, uint64(0), item.Key)
	require.Equal(t, 0, item.Vec.Len())

	// The local reference keeps the weak pointer alive, so the next
	// Acquire hands back the same item with its storage intact
	got := p.Acquire(2)
	require.Same(t, item, got)
	require.Equal(t, uint64(2), got.Key)
	require.True(t, got.Vec.Cap() >= 3)

	runtime.KeepAlive(item)
}

func TestPoolSizeTracking(t *testing.T) {
	p := NewPool[int]()

	// Record a peak of 10 elements for key 7
	item := p.Acquire(7)
	for i := 0; i < 10; i++ {
		require.NoError(t, item.Vec.PushBack(i))
	}
	p.Release(item)

	// First acquire drains the pool, second must create a fresh vector
	// pre-reserved to the tracked size
	first := p.Acquire(7)
	second := p.Acquire(7)
	require.NotSame(t, first, second)
	require.Equal(t, 0, second.Vec.Len())
	require.True(t, second.Vec.Cap() >= 10)

	runtime.KeepAlive(item)
	runtime.KeepAlive(first)
}

func TestPoolReleaseMany(t *testing.T) {
	p := NewPool[int]()

	items := []*PoolItem[int]{p.Acquire(1), p.Acquire(1), p.Acquire(1)}
	for _, item := range items {
		require.NoError(t, item.Vec.Append(1, 2, 3, 4))
	}

	p.ReleaseMany(items)
	for _, item := range items {
		require.Equal(t, uint64(0), item.Key)
		require.Equal(t, 0, item.Vec.Len())
	}

	// All three come back out of the pool
	a, b, c := p.Acquire(2), p.Acquire(2), p.Acquire(2)
	require.NotSame(t, a, b)
	require.NotSame(t, b, c)
	require.NotSame(t, a, c)

	runtime.KeepAlive(items)
}

func TestPoolVectorOps(t *testing.T) {
	tr := &tracked{}
	p := NewPool[resource](WithOps(cloneOps(tr)))

	item := p.Acquire(1)
	require.NoError(t, item.Vec.PushBack(resource{id: 1}))
	require.NoError(t, item.Vec.PushBack(resource{id: 2}))
	require.Equal(t, 2, tr.live)

	// Release disposes the elements but keeps the storage
	capBefore := item.Vec.Cap()
	p.Release(item)
	require.Equal(t, 0, tr.live)
	require.Equal(t, capBefore, item.Vec.Cap())

	runtime.KeepAlive(item)
}
