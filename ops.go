// SPDX-License-Identifier: Apache-2.0

package vec

// Ops describes how elements of type T are constructed, duplicated,
// relocated and torn down. The zero value describes a trivial type:
// zero-value construction, bitwise duplication and relocation, no
// teardown. Every Vector carries one Ops and applies it to all element
// lifetime transitions.
//
// A type that sets Dispose but not Clone is move-only: operations that
// would duplicate its elements fail with ErrMoveOnly, and relocation
// always transfers.
type Ops[T any] struct {
	// Construct produces a value-initialized element, used when the
	// vector grows by value construction. nil means the zero value.
	Construct func() T

	// Clone duplicates an element and may fail. nil marks T either
	// trivially copyable (no Dispose) or move-only (Dispose set).
	Clone func(T) (T, error)

	// Relocate transfers an element out of src, leaving src cleared and
	// safe to abandon. It must not fail. nil means elements are
	// transferred bitwise.
	Relocate func(src *T) T

	// Dispose releases resources held by the element. nil means no-op.
	Dispose func(*T)
}

// moveRelocation reports whether storage migration transfers elements
// instead of cloning them: transfer is chosen exactly when it cannot
// fail (an explicit Relocate, or no Clone at all, since a bitwise
// transfer never fails). Cloning is chosen otherwise because a failed
// clone can be rolled back, leaving the originals intact, whereas a
// half-transferred batch cannot be undone.
func (o Ops[T]) moveRelocation() bool {
	return o.Relocate != nil || o.Clone == nil
}

func (o Ops[T]) construct() T {
	if o.Construct != nil {
		return o.Construct()
	}
	var zero T
	return zero
}

func (o Ops[T]) clone(v T) (T, error) {
	if o.Clone != nil {
		return o.Clone(v)
	}
	if o.Dispose != nil {
		var zero T
		return zero, ErrMoveOnly
	}
	return v, nil
}

// relocate transfers the element out of src. After it returns, the
// slot behind src is raw storage again and must not be disposed.
func (o Ops[T]) relocate(src *T) T {
	if o.Relocate != nil {
		return o.Relocate(src)
	}
	return *src
}

func (o Ops[T]) dispose(p *T) {
	if o.Dispose != nil {
		o.Dispose(p)
	}
}
