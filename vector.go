// SPDX-License-Identifier: Apache-2.0

// Package vec provides a generic, contiguous, growable container built
// on raw uninitialized storage. The container separates allocated
// capacity from constructed length: slots below Len hold live elements,
// slots above it are raw memory, and every construction, relocation and
// teardown happens at an explicit, observable point.
package vec

import (
	"unsafe"

	"github.com/pkg/errors"
)

// Vector is a growable array of T backed by a single Arena. The leading
// Len slots hold live elements; the remaining capacity is raw storage.
//
// Mutating operations return an error when element duplication or
// storage allocation fails; operations on the clone path leave the
// vector exactly as it was on failure. A Vector is not safe for
// concurrent use.
type Vector[T any] struct {
	data   Arena[T]
	length int
	peak   int // high-water element count, survives Clear
	ops    Ops[T]
}

// Option configures a Vector at construction time.
type Option[T any] func(*Vector[T])

// WithOps sets the element lifetime operations for the vector.
func WithOps[T any](ops Ops[T]) Option[T] {
	return func(v *Vector[T]) {
		v.ops = ops
	}
}

// New creates an empty vector. No storage is allocated until the first
// element is added or Reserve is called.
func New[T any](opts ...Option[T]) *Vector[T] {
	v := &Vector[T]{}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// NewSized creates a vector holding size value-constructed elements.
func NewSized[T any](size int, opts ...Option[T]) (*Vector[T], error) {
	v := New[T](opts...)
	if err := v.Resize(size); err != nil {
		return nil, err
	}
	return v, nil
}

// Len returns the number of live elements.
func (v *Vector[T]) Len() int {
	return v.length
}

// Cap returns the number of slots the current storage can hold.
func (v *Vector[T]) Cap() int {
	return v.data.Cap()
}

// Peak returns the high-water element count over the vector's lifetime.
// It is not reset by Clear, Truncate or PopBack.
func (v *Vector[T]) Peak() int {
	return v.peak
}

func (v *Vector[T]) notePeak() {
	if v.length > v.peak {
		v.peak = v.length
	}
}

// relocateRange migrates the live slots [from, to) of the current
// storage into dst starting at slot dstOff, per the relocation policy.
// On the transfer path the source slots become raw storage. On the
// clone path the sources are left live and untouched; the caller
// disposes them once every phase of the migration has succeeded. On
// failure every slot this call constructed in dst has been disposed.
func (v *Vector[T]) relocateRange(dst *Arena[T], dstOff, from, to int) error {
	if v.ops.moveRelocation() {
		for i := from; i < to; i++ {
			*dst.Index(dstOff + i - from) = v.ops.relocate(v.data.Index(i))
		}
		return nil
	}
	for i := from; i < to; i++ {
		c, err := v.ops.Clone(*v.data.Index(i))
		if err != nil {
			for j := from; j < i; j++ {
				v.ops.dispose(dst.Index(dstOff + j - from))
			}
			return errors.Wrapf(err, "clone element %d during relocation", i)
		}
		*dst.Index(dstOff + i - from) = c
	}
	return nil
}

// disposeRelocated tears down the old copies of slots [from, to) after
// a successful clone-path migration. On the transfer path the sources
// were already consumed and nothing is done.
func (v *Vector[T]) disposeRelocated(from, to int) {
	if v.ops.moveRelocation() {
		return
	}
	for i := from; i < to; i++ {
		v.ops.dispose(v.data.Index(i))
	}
}

// adoptStorage makes newData the vector's storage and releases the old
// block. All live elements must already have been migrated out of the
// old storage and their originals consumed or disposed.
func (v *Vector[T]) adoptStorage(newData *Arena[T]) {
	v.data.Swap(newData)
	newData.Release()
}

// grownCapacity returns the next capacity step: doubling, starting at 1.
func (v *Vector[T]) grownCapacity() int {
	if c := v.data.Cap(); c > 0 {
		return 2 * c
	}
	return 1
}

// growToFit doubles the capacity until at least need slots fit.
func (v *Vector[T]) growToFit(need int) int {
	c := v.grownCapacity()
	for c < need {
		c *= 2
	}
	return c
}

// Reserve grows the storage to hold at least n elements. It is a no-op
// when n does not exceed the current capacity, so element addresses are
// stable in that case. On failure the vector is unchanged.
func (v *Vector[T]) Reserve(n int) error {
	if n <= v.data.Cap() {
		return nil
	}
	newData, err := NewArena[T](n)
	if err != nil {
		return errors.Wrapf(err, "reserve %d", n)
	}
	if err := v.relocateRange(&newData, 0, 0, v.length); err != nil {
		newData.Release()
		return err
	}
	v.disposeRelocated(0, v.length)
	v.adoptStorage(&newData)
	return nil
}

// Truncate disposes the elements in [n, Len) and shortens the vector to
// n elements. Capacity is unchanged.
func (v *Vector[T]) Truncate(n int) {
	assert(n >= 0 && n <= v.length, "vec: truncate out of range")
	for i := n; i < v.length; i++ {
		v.ops.dispose(v.data.Index(i))
	}
	v.length = n
}

// Clear disposes all elements, keeping the storage for reuse.
func (v *Vector[T]) Clear() {
	v.Truncate(0)
}

// Resize changes the element count to n: shrinking disposes the
// trailing elements, growing reserves storage and value-constructs the
// new slots. On failure the vector is unchanged.
func (v *Vector[T]) Resize(n int) error {
	if n <= v.length {
		v.Truncate(n)
		return nil
	}
	if err := v.Reserve(n); err != nil {
		return err
	}
	for i := v.length; i < n; i++ {
		*v.data.Index(i) = v.ops.construct()
	}
	v.length = n
	v.notePeak()
	return nil
}

// EmplaceBack appends one element constructed in place. construct must
// either write a fully formed element through its argument and return
// nil, or leave the slot untouched and return the error.
//
// When the vector is full it grows to twice its capacity (starting at
// 1) and the new element is constructed in the new storage first,
// before any existing element is touched: a construction failure then
// leaves the old storage fully intact. Only after construction succeeds
// are the existing elements relocated and the old block discarded.
func (v *Vector[T]) EmplaceBack(construct func(*T) error) (*T, error) {
	if v.length < v.data.Cap() {
		slot := v.data.Index(v.length)
		if err := construct(slot); err != nil {
			return nil, err
		}
		v.length++
		v.notePeak()
		return slot, nil
	}

	newData, err := NewArena[T](v.grownCapacity())
	if err != nil {
		return nil, errors.Wrap(err, "grow")
	}
	slot := newData.Index(v.length)
	if err := construct(slot); err != nil {
		newData.Release()
		return nil, err
	}
	if err := v.relocateRange(&newData, 0, 0, v.length); err != nil {
		v.ops.dispose(slot)
		newData.Release()
		return nil, err
	}
	v.disposeRelocated(0, v.length)
	v.adoptStorage(&newData)
	v.length++
	v.notePeak()
	return v.data.Index(v.length - 1), nil
}

// PushBack appends a copy of val. Amortized O(1).
func (v *Vector[T]) PushBack(val T) error {
	_, err := v.EmplaceBack(func(slot *T) error {
		c, err := v.ops.clone(val)
		if err != nil {
			return err
		}
		*slot = c
		return nil
	})
	return err
}

// PushBackFrom appends by transferring the element out of src, leaving
// src cleared per the Relocate operation.
func (v *Vector[T]) PushBackFrom(src *T) error {
	_, err := v.EmplaceBack(func(slot *T) error {
		*slot = v.ops.relocate(src)
		return nil
	})
	return err
}

// Append appends copies of vals, growing at most once. If cloning fails
// partway, the elements appended before the failure remain.
func (v *Vector[T]) Append(vals ...T) error {
	if len(vals) == 0 {
		return nil
	}
	if need := v.length + len(vals); need > v.data.Cap() {
		if err := v.Reserve(v.growToFit(need)); err != nil {
			return err
		}
	}
	for k := range vals {
		c, err := v.ops.clone(vals[k])
		if err != nil {
			return errors.Wrapf(err, "append element %d", k)
		}
		*v.data.Index(v.length) = c
		v.length++
	}
	v.notePeak()
	return nil
}

// PopBack disposes the last element. The vector must not be empty.
func (v *Vector[T]) PopBack() {
	assert(v.length > 0, "vec: PopBack on empty vector")
	v.length--
	v.ops.dispose(v.data.Index(v.length))
}

// Emplace inserts one element constructed in place at position i,
// 0 <= i <= Len, shifting the tail right. O(Len - i).
//
// With spare capacity the element is built into a temporary, the last
// element is relocated into the one-past-end slot, the open range is
// shifted right, and the temporary lands in slot i. When the vector is
// full it grows, constructing the new element in the new storage first
// and then relocating the prefix and suffix around it; a clone failure
// in either phase disposes everything already constructed in the new
// storage and leaves the old storage current and untouched.
func (v *Vector[T]) Emplace(i int, construct func(*T) error) (*T, error) {
	assert(i >= 0 && i <= v.length, "vec: insert position out of range")
	if v.length < v.data.Cap() {
		if i == v.length {
			slot := v.data.Index(i)
			if err := construct(slot); err != nil {
				return nil, err
			}
			v.length++
			v.notePeak()
			return slot, nil
		}
		var tmp T
		if err := construct(&tmp); err != nil {
			return nil, err
		}
		*v.data.Index(v.length) = v.ops.relocate(v.data.Index(v.length - 1))
		for j := v.length - 1; j > i; j-- {
			*v.data.Index(j) = v.ops.relocate(v.data.Index(j - 1))
		}
		*v.data.Index(i) = v.ops.relocate(&tmp)
		v.length++
		v.notePeak()
		return v.data.Index(i), nil
	}

	newData, err := NewArena[T](v.grownCapacity())
	if err != nil {
		return nil, errors.Wrap(err, "grow")
	}
	slot := newData.Index(i)
	if err := construct(slot); err != nil {
		newData.Release()
		return nil, err
	}
	if err := v.relocateRange(&newData, 0, 0, i); err != nil {
		v.ops.dispose(slot)
		newData.Release()
		return nil, err
	}
	if err := v.relocateRange(&newData, i+1, i, v.length); err != nil {
		for j := 0; j <= i; j++ {
			v.ops.dispose(newData.Index(j))
		}
		newData.Release()
		return nil, err
	}
	v.disposeRelocated(0, v.length)
	v.adoptStorage(&newData)
	v.length++
	v.notePeak()
	return v.data.Index(i), nil
}

// Insert inserts a copy of val at position i. O(Len - i).
func (v *Vector[T]) Insert(i int, val T) error {
	_, err := v.Emplace(i, func(slot *T) error {
		c, err := v.ops.clone(val)
		if err != nil {
			return err
		}
		*slot = c
		return nil
	})
	return err
}

// InsertFrom inserts at position i by transferring the element out of
// src.
func (v *Vector[T]) InsertFrom(i int, src *T) error {
	_, err := v.Emplace(i, func(slot *T) error {
		*slot = v.ops.relocate(src)
		return nil
	})
	return err
}

// Erase removes the element at position i, 0 <= i < Len, shifting the
// tail left by one slot. O(Len - i). The erased element is disposed
// before the shift; the vacated last slot becomes raw storage.
func (v *Vector[T]) Erase(i int) {
	assert(i >= 0 && i < v.length, "vec: erase position out of range")
	v.ops.dispose(v.data.Index(i))
	for j := i; j < v.length-1; j++ {
		*v.data.Index(j) = v.ops.relocate(v.data.Index(j + 1))
	}
	v.length--
}

// At returns the element at position i. Unchecked: i < Len is the
// caller's contract, verified only under the vecdebug build tag.
func (v *Vector[T]) At(i int) *T {
	assert(i >= 0 && i < v.length, "vec: index out of range")
	return v.data.Index(i)
}

// Front returns the first element. The vector must not be empty.
func (v *Vector[T]) Front() *T {
	assert(v.length > 0, "vec: Front on empty vector")
	return v.data.Index(0)
}

// Back returns the last element. The vector must not be empty.
func (v *Vector[T]) Back() *T {
	assert(v.length > 0, "vec: Back on empty vector")
	return v.data.Index(v.length - 1)
}

// Slice returns the live range [0, Len) as a slice view over the
// vector's storage. The view is invalidated by any capacity change,
// Insert or Erase.
func (v *Vector[T]) Slice() []T {
	if v.length == 0 {
		return nil
	}
	return unsafe.Slice(v.data.Index(0), v.length)
}

// Clone returns a deep copy with independent storage sized exactly to
// the element count. Fails with ErrMoveOnly for move-only types.
func (v *Vector[T]) Clone() (*Vector[T], error) {
	dst := New[T](WithOps(v.ops))
	if v.length == 0 {
		return dst, nil
	}
	newData, err := NewArena[T](v.length)
	if err != nil {
		return nil, errors.Wrap(err, "clone")
	}
	for i := 0; i < v.length; i++ {
		c, err := v.ops.clone(*v.data.Index(i))
		if err != nil {
			for j := 0; j < i; j++ {
				v.ops.dispose(newData.Index(j))
			}
			newData.Release()
			return nil, errors.Wrapf(err, "clone element %d", i)
		}
		*newData.Index(i) = c
	}
	dst.data = newData.Move()
	dst.length = v.length
	dst.peak = v.length
	return dst, nil
}

// Move transfers the storage and elements to the returned vector,
// leaving the receiver empty with no allocation.
func (v *Vector[T]) Move() *Vector[T] {
	moved := &Vector[T]{
		data:   v.data.Move(),
		length: v.length,
		peak:   v.peak,
		ops:    v.ops,
	}
	v.length = 0
	return moved
}

// Swap exchanges the contents of two vectors in constant time.
func (v *Vector[T]) Swap(other *Vector[T]) {
	v.data.Swap(&other.data)
	v.length, other.length = other.length, v.length
	v.peak, other.peak = other.peak, v.peak
	v.ops, other.ops = other.ops, v.ops
}

// Release disposes all elements and drops the storage block. The
// vector is reusable afterwards as an empty vector.
func (v *Vector[T]) Release() {
	v.Clear()
	v.data.Release()
}
