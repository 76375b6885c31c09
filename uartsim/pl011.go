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
	pl011DR = 0x00
	pl011FR = 0x18

	frBUSY = 3
	frTXFF = 5
)

// PL011 models an ARM PrimeCell UART transmitter.
type PL011 struct {
	device

	// polls left with TX FIFO full
	full int
	// polls left with transmitter busy
	shifting int
}

// NewPL011 returns a PL011 model which reports a full FIFO, and a busy
// transmitter, for latency polls after every character.
func NewPL011(out io.Writer, latency int) *PL011 {
	return &PL011{
		device: device{out: out, latency: latency},
		full:   latency,
	}
}

// Map records the mapping request and returns the model register window.
func (u *PL011) Map(base uint64) (reg.Bus, error) {
	u.mapped(base)
	return u, nil
}

func (u *PL011) status() (fr uint32) {
	if u.full > 0 {
		bits.Set(&fr, frTXFF)
		u.full--
	}

	if u.shifting > 0 {
		bits.Set(&fr, frBUSY)
		u.shifting--
	}

	return
}

func (u *PL011) tx(c byte) {
	if u.full > 0 {
		u.overruns++
	}

	u.emit(c)
	u.full = u.latency
	u.shifting = u.latency
}

func (u *PL011) Read8(off uint32) (v uint8) {
	u.faults++
	u.record(false, 8, off, 0)
	return
}

func (u *PL011) Write8(off uint32, val uint8) {
	u.record(true, 8, off, uint32(val))

	if off != pl011DR {
		u.faults++
		return
	}

	u.tx(val)
}

func (u *PL011) Read32(off uint32) (v uint32) {
	if off == pl011FR {
		v = u.status()
	}

	u.record(false, 32, off, v)

	return
}

func (u *PL011) Write32(off uint32, val uint32) {
	u.record(true, 32, off, val)

	if off != pl011DR {
		u.faults++
		return
	}

	u.tx(byte(val))
}
