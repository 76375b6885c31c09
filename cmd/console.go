// Copyright (c) The go-earlycon authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package cmd

import (
	"io"
	"log"
	"os"
	"sync"

	"github.com/usbarmory/go-earlycon/earlycon"
)

// Console is the early console operated by shell commands.
var Console = earlycon.Default

// frontEnd serializes all writes to the early console, whether from the
// standard logger or from shell commands.
type frontEnd struct {
	sync.Mutex
	con *earlycon.Console
}

var output = &frontEnd{}

func (f *frontEnd) Write(p []byte) (n int, err error) {
	f.Lock()
	defer f.Unlock()

	if f.con == nil {
		return 0, earlycon.ErrInactive
	}

	return f.con.Write(p)
}

func (f *frontEnd) attached() bool {
	f.Lock()
	defer f.Unlock()

	return f.con != nil
}

// LogRegistrar implements [earlycon.Registrar] by routing the standard
// logger output to the registered console in addition to Out.
type LogRegistrar struct {
	// Out is the standard logger output preceding registration, os.Stderr
	// is used when nil.
	Out io.Writer
}

// Register attaches the argument console to the standard logger.
func (r *LogRegistrar) Register(c *earlycon.Console) {
	out := r.Out

	if out == nil {
		out = os.Stderr
	}

	output.Lock()
	output.con = c
	output.Unlock()

	log.SetOutput(io.MultiWriter(out, output))
	log.Printf("bootconsole [%s] enabled", c.Name)
}
