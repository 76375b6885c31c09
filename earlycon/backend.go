// Copyright (c) The go-earlycon authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package earlycon

import (
	"github.com/usbarmory/go-earlycon/reg"
)

// Transmitter represents the character output protocol of a device family.
type Transmitter interface {
	// Tx transmits a single character and returns once the device has
	// accepted it.
	Tx(bus reg.Bus, c byte)
}

// Backend represents a named early console backend.
type Backend struct {
	Name string

	// Mapped is set for backends which require a base address.
	Mapped bool

	Transmitter
}

// Backends represents the registered backends, they are matched by name
// prefix in declaration order.
var Backends = []Backend{
	{
		Name:        "pl011",
		Mapped:      true,
		Transmitter: &PL011{WaitIdle: true},
	},
	{
		Name:        "smh",
		Transmitter: Semihosting{},
	},
	{
		Name:        "uart8250-8bit",
		Mapped:      true,
		Transmitter: &UART8250{},
	},
	{
		Name:        "uart8250-32bit",
		Mapped:      true,
		Transmitter: &UART8250{RegShift: 2},
	},
	{
		Name:        "msm_hsl_uart",
		Mapped:      true,
		Transmitter: MSMHSL{},
	},
}
