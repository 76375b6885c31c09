// Copyright (c) The go-earlycon authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package earlycon

import (
	"github.com/usbarmory/go-earlycon/reg"
)

// Semihosting operations
const (
	SYS_WRITEC = 0x03
)

// overridden in tests
var trap = semihostingCall

// semihosting parameter block, accesses are serialized by the console
// framework.
var smhChar [1]byte

// Semihosting implements the [Transmitter] protocol over the ARM semihosting
// interface, for use under debuggers and instruction set simulators. It does
// not use any register window.
//
// On architectures other than arm64 characters are discarded.
type Semihosting struct{}

// Tx transmits a single character with the SYS_WRITEC operation.
func (Semihosting) Tx(_ reg.Bus, c byte) {
	smhChar[0] = c
	trap(SYS_WRITEC, &smhChar[0])
}
