// Copyright (c) The go-earlycon authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package uartsim implements register level models of UART transmitters, each
// reporting a busy status for a configurable number of polls before
// accepting a character.
//
// Models implement both the register window and the address remapping
// service of package reg, so that they can stand in for real hardware.
package uartsim

import (
	"fmt"
	"io"

	"github.com/usbarmory/go-earlycon/reg"
)

// Access represents a register access performed on a device model.
type Access struct {
	Write bool
	Width int
	Off   uint32
	Val   uint32
}

func (a Access) String() string {
	op := "r"

	if a.Write {
		op = "w"
	}

	return fmt.Sprintf("%s%d %#03x %#x", op, a.Width, a.Off, a.Val)
}

// Device represents a simulated UART.
type Device interface {
	reg.Bus
	reg.Mapper

	// Base returns the last mapped physical address.
	Base() uint64
	// Maps returns the number of address remapping requests.
	Maps() int
	// Trace returns all register accesses performed so far.
	Trace() []Access
	// Overruns returns the number of characters written while busy.
	Overruns() int
	// Faults returns the number of accesses violating the device
	// protocol (e.g. access width or command sequence).
	Faults() int
}

type device struct {
	out     io.Writer
	latency int

	base     uint64
	maps     int
	trace    []Access
	overruns int
	faults   int
}

func (d *device) Base() uint64    { return d.base }
func (d *device) Maps() int       { return d.maps }
func (d *device) Trace() []Access { return d.trace }
func (d *device) Overruns() int   { return d.overruns }
func (d *device) Faults() int     { return d.faults }

func (d *device) record(write bool, width int, off uint32, val uint32) {
	d.trace = append(d.trace, Access{
		Write: write,
		Width: width,
		Off:   off,
		Val:   val,
	})
}

func (d *device) mapped(base uint64) {
	d.base = base
	d.maps++
}

func (d *device) emit(c byte) {
	if d.out != nil {
		d.out.Write([]byte{c})
	}
}

// New returns the device model for the argument early console backend name,
// transmitted characters are written to out.
func New(name string, out io.Writer, latency int) (Device, error) {
	switch name {
	case "pl011":
		return NewPL011(out, latency), nil
	case "uart8250-8bit":
		return NewUART8250(out, latency, 0), nil
	case "uart8250-32bit":
		return NewUART8250(out, latency, 2), nil
	case "msm_hsl_uart":
		return NewMSMHSL(out, latency), nil
	}

	return nil, fmt.Errorf("no device model for %s", name)
}
