// Copyright (c) The go-earlycon authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package earlycon

import (
	"github.com/usbarmory/tamago/bits"

	"github.com/usbarmory/go-earlycon/reg"
)

// Qualcomm MSM high speed lite UART (UARTDM) registers
const (
	UARTDM_NCF_TX = 0x40

	UARTDM_SR = 0xa4
	SR_TXEMT  = 3

	UARTDM_CR           = 0xa8
	CR_GCMD             = 8
	GCMD_RESET_TX_READY = 3

	UARTDM_ISR   = 0xb4
	ISR_TX_READY = 7

	UARTDM_TF = 0x100
)

// MSMHSL implements the [Transmitter] protocol for Qualcomm MSM UARTDM
// controllers.
type MSMHSL struct{}

func (MSMHSL) ready(bus reg.Bus) bool {
	sr := bus.Read32(UARTDM_SR)

	if bits.IsSet(&sr, SR_TXEMT) {
		return true
	}

	isr := bus.Read32(UARTDM_ISR)

	return bits.IsSet(&isr, ISR_TX_READY)
}

// Tx transmits a single character.
func (u MSMHSL) Tx(bus reg.Bus, c byte) {
	var cr uint32

	for !u.ready(bus) {
		// wait for TX FIFO empty or TX ready
	}

	bits.SetN(&cr, CR_GCMD, 0b111, GCMD_RESET_TX_READY)
	bus.Write32(UARTDM_CR, cr)

	// transmit a single character, the read back orders the count
	// update before the FIFO write
	bus.Write32(UARTDM_NCF_TX, 1)
	bus.Read32(UARTDM_NCF_TX)

	bus.Write32(UARTDM_TF, uint32(c))
}
