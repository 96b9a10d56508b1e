// SPDX-License-Identifier: Apache-2.0

package vec

import (
	"github.com/pkg/errors"
)

var (
	// ErrCapacityOverflow is returned when a requested capacity cannot be
	// satisfied by the allocation primitive, either because the byte size
	// of the block would overflow or because it exceeds the arena ceiling.
	ErrCapacityOverflow = errors.New("requested capacity exceeds addressable storage")

	// ErrMoveOnly is returned by operations that would duplicate elements
	// of a type whose Ops mark it as move-only (Dispose without Clone).
	ErrMoveOnly = errors.New("element type is move-only")
)
