// SPDX-License-Identifier: Apache-2.0

//go:build !vecdebug

package vec

func assert(bool, string) {}
