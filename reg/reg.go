// Copyright (c) The go-earlycon authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package reg provides primitives for accessing memory mapped peripheral
// registers relative to a mapped base address.
package reg

// Bus represents a mapped register window, all offsets are relative to the
// window base.
type Bus interface {
	Read8(off uint32) uint8
	Write8(off uint32, val uint8)
	Read32(off uint32) uint32
	Write32(off uint32, val uint32)
}

// Mapper represents the address remapping service which turns a physical
// base address into an accessible register window.
type Mapper interface {
	Map(base uint64) (Bus, error)
}
