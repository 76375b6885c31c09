// Copyright (c) The go-earlycon authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package uartsim

import (
	"errors"
	"io"

	"github.com/usbarmory/go-earlycon/reg"
)

// Bench implements an address remapping service which attaches, on each
// mapping request, the device model matching the backend being mapped.
type Bench struct {
	// Out receives transmitted characters.
	Out io.Writer
	// Latency is the number of busy polls per character.
	Latency int

	// Device is the last attached device model.
	Device Device
}

// Map fails as the device model cannot be chosen without a backend name.
func (b *Bench) Map(base uint64) (reg.Bus, error) {
	return nil, errors.New("simulated mapping requires a backend name")
}

// MapBackend attaches the device model for the argument backend at the
// argument base address.
func (b *Bench) MapBackend(name string, base uint64) (reg.Bus, error) {
	d, err := New(name, b.Out, b.Latency)

	if err != nil {
		return nil, err
	}

	b.Device = d

	return d.Map(base)
}
