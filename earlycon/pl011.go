// Copyright (c) The go-earlycon authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package earlycon

import (
	"github.com/usbarmory/tamago/bits"

	"github.com/usbarmory/go-earlycon/reg"
)

// ARM PrimeCell UART (PL011) registers
const (
	UARTDR = 0x00

	UARTFR  = 0x18
	FR_TXFF = 5
	FR_BUSY = 3
)

// PL011 implements the [Transmitter] protocol for ARM PrimeCell UARTs.
type PL011 struct {
	// WaitIdle requires Tx to wait for the character to leave the shift
	// register before returning.
	WaitIdle bool
}

// Tx transmits a single character.
func (u *PL011) Tx(bus reg.Bus, c byte) {
	for fr := bus.Read32(UARTFR); bits.IsSet(&fr, FR_TXFF); fr = bus.Read32(UARTFR) {
		// wait for TX FIFO to have room
	}

	bus.Write8(UARTDR, c)

	if !u.WaitIdle {
		return
	}

	for fr := bus.Read32(UARTFR); bits.IsSet(&fr, FR_BUSY); fr = bus.Read32(UARTFR) {
		// wait for transmission to complete
	}
}
