// Copyright (c) The go-earlycon authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package reg

import (
	"sync/atomic"
	"unsafe"
)

// MMIO implements [Bus] through direct pointer access to an address which is
// already accessible by the running code.
type MMIO uintptr

func (m MMIO) addr(off uint32) unsafe.Pointer {
	return unsafe.Pointer(uintptr(m) + uintptr(off))
}

func (m MMIO) Read8(off uint32) uint8 {
	return *(*uint8)(m.addr(off))
}

func (m MMIO) Write8(off uint32, val uint8) {
	*(*uint8)(m.addr(off)) = val
}

func (m MMIO) Read32(off uint32) uint32 {
	return atomic.LoadUint32((*uint32)(m.addr(off)))
}

func (m MMIO) Write32(off uint32, val uint32) {
	atomic.StoreUint32((*uint32)(m.addr(off)), val)
}

// Identity implements [Mapper] for flat address spaces where physical and
// virtual addresses coincide (e.g. `GOOS=tamago`).
type Identity struct{}

// Map returns the argument physical address as an [MMIO] window.
func (Identity) Map(base uint64) (Bus, error) {
	return MMIO(uintptr(base)), nil
}
