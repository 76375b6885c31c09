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
	uartTHR = 0
	uartLSR = 5

	lsrTHRE = 5
	lsrTEMT = 6
)

// UART8250 models an 8250/16550 compatible UART transmitter.
type UART8250 struct {
	device

	shift uint
	busy  int
}

// NewUART8250 returns an 8250 model with registers spaced by 1<<shift bytes,
// accessed as 32-bit words when shift is 2 and as bytes otherwise. The
// holding register is reported full for latency polls after every character.
func NewUART8250(out io.Writer, latency int, shift uint) *UART8250 {
	return &UART8250{
		device: device{out: out, latency: latency},
		shift:  shift,
		busy:   latency,
	}
}

// Map records the mapping request and returns the model register window.
func (u *UART8250) Map(base uint64) (reg.Bus, error) {
	u.mapped(base)
	return u, nil
}

func (u *UART8250) width() int {
	if u.shift == 2 {
		return 32
	}

	return 8
}

func (u *UART8250) read(width int, off uint32) (v uint32) {
	if width != u.width() {
		u.faults++
	}

	if off == uartLSR<<u.shift {
		if u.busy > 0 {
			u.busy--
		} else {
			bits.Set(&v, lsrTHRE)
			bits.Set(&v, lsrTEMT)
		}
	}

	u.record(false, width, off, v)

	return
}

func (u *UART8250) write(width int, off uint32, val uint32) {
	u.record(true, width, off, val)

	if width != u.width() || off != uartTHR<<u.shift {
		u.faults++
		return
	}

	if u.busy > 0 {
		u.overruns++
	}

	u.emit(byte(val))
	u.busy = u.latency
}

func (u *UART8250) Read8(off uint32) uint8 {
	return uint8(u.read(8, off))
}

func (u *UART8250) Write8(off uint32, val uint8) {
	u.write(8, off, uint32(val))
}

func (u *UART8250) Read32(off uint32) uint32 {
	return u.read(32, off)
}

func (u *UART8250) Write32(off uint32, val uint32) {
	u.write(32, off, val)
}
