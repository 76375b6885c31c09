// Copyright (c) The go-earlycon authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package uartsim

import (
	"io"

	"github.com/usbarmory/tamago/bits"

	"github.com/usbarmory/go-earlycon/reg"
)

const (
	dmNCF_TX = 0x40
	dmSR     = 0xa4
	dmCR     = 0xa8
	dmISR    = 0xb4
	dmTF     = 0x100

	srTXEMT    = 3
	isrTXREADY = 7

	crResetTXReady = 3 << 8
)

// transmit sequence steps
const (
	stepIdle = iota
	stepReset
	stepCount
	stepFlushed
)

// MSMHSL models a Qualcomm MSM UARTDM transmitter.
type MSMHSL struct {
	device

	// ISROnly restricts ready reporting to the TX_READY interrupt status,
	// leaving the TX empty status clear.
	ISROnly bool

	busy int
	step int
}

// NewMSMHSL returns an UARTDM model which reports busy for latency status
// register polls after every character.
func NewMSMHSL(out io.Writer, latency int) *MSMHSL {
	return &MSMHSL{
		device: device{out: out, latency: latency},
		busy:   latency,
	}
}

// Map records the mapping request and returns the model register window.
func (u *MSMHSL) Map(base uint64) (reg.Bus, error) {
	u.mapped(base)
	return u, nil
}

func (u *MSMHSL) fault() {
	u.faults++
	u.step = stepIdle
}

func (u *MSMHSL) Read8(off uint32) uint8 {
	u.record(false, 8, off, 0)
	u.fault()
	return 0
}

func (u *MSMHSL) Write8(off uint32, val uint8) {
	u.record(true, 8, off, uint32(val))
	u.fault()
}

func (u *MSMHSL) Read32(off uint32) (v uint32) {
	switch off {
	case dmSR:
		if u.busy > 0 {
			u.busy--
		} else if !u.ISROnly {
			bits.Set(&v, srTXEMT)
		}
	case dmISR:
		if u.busy == 0 {
			bits.Set(&v, isrTXREADY)
		}
	case dmNCF_TX:
		v = 1

		if u.step == stepCount {
			u.step = stepFlushed
		}
	}

	u.record(false, 32, off, v)

	return
}

func (u *MSMHSL) Write32(off uint32, val uint32) {
	u.record(true, 32, off, val)

	switch {
	case off == dmCR && val == crResetTXReady:
		u.step = stepReset
	case off == dmNCF_TX && val == 1 && u.step == stepReset:
		u.step = stepCount
	case off == dmTF && u.step == stepFlushed:
		if u.busy > 0 {
			u.overruns++
		}

		u.emit(byte(val))
		u.busy = u.latency
		u.step = stepIdle
	default:
		u.fault()
	}
}
