// SPDX-License-Identifier: Apache-2.0

//go:build vecdebug

package vec

// assert panics with msg when cond is false. Compiled in only under the
// vecdebug build tag; release builds treat violated preconditions as
// undefined behavior.
func assert(cond bool, msg string) {
	if !cond {
		panic(msg)
	}
}
