// Copyright (c) The go-earlycon authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package earlycon

import (
	"github.com/usbarmory/tamago/bits"

	"github.com/usbarmory/go-earlycon/reg"
)

// 8250/16550 UART registers (register index, scaled by RegShift)
const (
	UART_THR = 0

	UART_LSR = 5
	LSR_THRE = 5
)

// UART8250 implements the [Transmitter] protocol for 8250/16550 compatible
// UARTs.
type UART8250 struct {
	// RegShift is the register index shift, registers are accessed as
	// 32-bit words when equal to 2 and as bytes otherwise.
	RegShift uint
}

func (u *UART8250) word() bool {
	return u.RegShift == 2
}

func (u *UART8250) lsr(bus reg.Bus) (v uint32) {
	off := uint32(UART_LSR) << u.RegShift

	if u.word() {
		return bus.Read32(off)
	}

	return uint32(bus.Read8(off))
}

// Tx transmits a single character.
func (u *UART8250) Tx(bus reg.Bus, c byte) {
	for lsr := u.lsr(bus); !bits.IsSet(&lsr, LSR_THRE); lsr = u.lsr(bus) {
		// wait for THR to be empty
	}

	off := uint32(UART_THR) << u.RegShift

	if u.word() {
		bus.Write32(off, uint32(c))
	} else {
		bus.Write8(off, c)
	}
}
