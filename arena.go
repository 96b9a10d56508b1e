// SPDX-License-Identifier: Apache-2.0

package vec

import (
	"unsafe"

	"github.com/pkg/errors"
)

const (
	// maxArenaBytes caps the byte size of a single storage block.
	maxArenaBytes = 1 << 30 // 1GB
)

// Arena owns one contiguous block of raw storage sized for a fixed
// number of T slots. It never constructs or destroys elements: which
// slots hold live values is tracked entirely by the Vector that owns
// the arena, and the arena must not be released while live elements
// remain in it.
//
// Arena is move-only. It has no duplication primitive, so all element
// copying goes through the Vector's explicit clone logic.
//
// The block is not scanned for pointers by the garbage collector, so
// element types must not hold the only reference to GC-managed memory.
type Arena[T any] struct {
	buf      []byte         // keeps the block reachable
	ptr      unsafe.Pointer // aligned base of the block
	capacity int
}

// NewArena allocates a block sized for capacity slots of T. Capacity 0
// allocates nothing. Requests whose byte size would exceed the arena
// ceiling fail with ErrCapacityOverflow and leave nothing allocated.
func NewArena[T any](capacity int) (Arena[T], error) {
	if capacity < 0 {
		return Arena[T]{}, errors.Wrapf(ErrCapacityOverflow, "negative capacity %d", capacity)
	}
	if capacity == 0 {
		return Arena[T]{}, nil
	}
	var x T
	size := unsafe.Sizeof(x)
	align := unsafe.Alignof(x)
	if size > 0 && uintptr(capacity) > maxArenaBytes/size {
		return Arena[T]{}, errors.Wrapf(ErrCapacityOverflow, "capacity %d with element size %d", capacity, size)
	}

	blockLen := uintptr(capacity)*size + align - 1
	if blockLen == 0 {
		blockLen = 1
	}
	buf := make([]byte, blockLen)
	base := unsafe.Pointer(unsafe.SliceData(buf))
	for uintptr(base)%align != 0 {
		base = unsafe.Add(base, 1)
	}
	return Arena[T]{buf: buf, ptr: base, capacity: capacity}, nil
}

// Cap returns the number of slots the block can hold.
func (a *Arena[T]) Cap() int {
	return a.capacity
}

// Offset returns the address of slot i. i may equal Cap, yielding the
// one-past-end address for use as a range marker; that address must
// never be dereferenced.
func (a *Arena[T]) Offset(i int) *T {
	assert(i >= 0 && i <= a.capacity, "vec: arena offset out of range")
	var x T
	return (*T)(unsafe.Add(a.ptr, uintptr(i)*unsafe.Sizeof(x)))
}

// Index returns slot i's storage as a T, i < Cap. The caller is
// trusted to use it only on slots already holding constructed values
// or as a raw construction target.
func (a *Arena[T]) Index(i int) *T {
	assert(i >= 0 && i < a.capacity, "vec: arena index out of range")
	var x T
	return (*T)(unsafe.Add(a.ptr, uintptr(i)*unsafe.Sizeof(x)))
}

// Swap exchanges the blocks of two arenas in constant time without
// touching any element storage.
func (a *Arena[T]) Swap(other *Arena[T]) {
	a.buf, other.buf = other.buf, a.buf
	a.ptr, other.ptr = other.ptr, a.ptr
	a.capacity, other.capacity = other.capacity, a.capacity
}

// Move transfers ownership of the block to the returned arena, leaving
// the receiver empty.
func (a *Arena[T]) Move() Arena[T] {
	moved := *a
	*a = Arena[T]{}
	return moved
}

// Release drops the storage block. No element teardown happens here;
// the owning Vector disposes live elements first.
func (a *Arena[T]) Release() {
	*a = Arena[T]{}
}
