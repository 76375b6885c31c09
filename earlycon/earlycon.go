// Copyright (c) The go-earlycon authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package earlycon implements a minimal console for diagnostic output before
// device drivers and memory management are initialized.
//
// A single backend is selected, once, from the `earlyprintk` boot argument:
//
//	earlyprintk=<name>[,0x<address>][,<options>]
//
// The selected backend is then used for all console output, which is
// transmitted one character at a time with busy-waiting on device status.
// A non responding device therefore blocks the caller indefinitely.
package earlycon

import (
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/usbarmory/go-earlycon/reg"
)

// Console parameter errors
var (
	ErrNoArgs     = errors.New("no arguments passed")
	ErrUnknown    = errors.New("unknown earlyprintk arguments")
	ErrNoBase     = errors.New("missing base address")
	ErrBadAddress = errors.New("invalid base address")
	ErrConfigured = errors.New("early console already configured")
	ErrInactive   = errors.New("early console not configured")
)

// Flag represents console registration flags.
type Flag uint

// Console registration flags
const (
	// PrintBuffer requests replay of output buffered before registration.
	PrintBuffer Flag = 1 << iota
	// Boot marks a console usable before device probing, to be replaced
	// once a full driver registers.
	Boot
)

// Registrar represents the console framework which routes generic print
// calls to registered consoles.
type Registrar interface {
	Register(c *Console)
}

// BackendMapper is implemented by address remapping services whose register
// windows depend on the backend being mapped, such as device simulations.
// When implemented it is used in place of Map.
type BackendMapper interface {
	MapBackend(name string, base uint64) (reg.Bus, error)
}

// Selection represents the active backend along with its register window.
type Selection struct {
	Backend

	// Base is the physical base address, zero when not supplied.
	Base uint64
	// Bus is the mapped register window, nil when no base was supplied.
	Bus reg.Bus
}

// Console represents an early console instance.
type Console struct {
	// Name is the console name presented to the [Registrar].
	Name string
	// Flags are the registration flags.
	Flags Flag
	// Index is the device index, -1 for a single exclusive instance.
	Index int

	// Backends is the backend registry, the package [Backends] are used
	// when nil.
	Backends []Backend
	// Mapper remaps physical base addresses to register windows.
	Mapper reg.Mapper
	// Registrar, when set, receives the console after a successful setup.
	Registrar Registrar

	sel atomic.Pointer[Selection]
}

// Default is the early console instance used by the package level functions.
var Default = New(reg.Identity{}, nil)

// New returns an early console using the argument address remapping service
// and console framework.
func New(m reg.Mapper, r Registrar) *Console {
	return &Console{
		Name:      "earlycon",
		Flags:     PrintBuffer | Boot,
		Index:     -1,
		Mapper:    m,
		Registrar: r,
	}
}

// Setup configures [Default] from the argument `earlyprintk` boot parameter.
func Setup(arg string) {
	Default.Setup(arg)
}

// Write transmits the argument buffer on [Default].
func Write(p []byte) (int, error) {
	return Default.Write(p)
}

// Lookup returns the first registered backend whose name prefixes the
// argument.
func (c *Console) Lookup(arg string) (b *Backend, ok bool) {
	backends := c.Backends

	if backends == nil {
		backends = Backends
	}

	for i := range backends {
		if strings.HasPrefix(arg, backends[i].Name) {
			return &backends[i], true
		}
	}

	return
}

// parseBase returns the hexadecimal base address, if any, at the start of
// the argument string. Any text following the address is ignored.
func parseBase(opt string) (base uint64, err error) {
	if !strings.HasPrefix(opt, ",0x") {
		return
	}

	opt = opt[3:]
	n := len(opt) - len(strings.TrimLeft(opt, "0123456789abcdefABCDEF"))

	if n == 0 {
		return
	}

	if base, err = strconv.ParseUint(opt[:n], 16, 64); err != nil {
		return 0, fmt.Errorf("%w, %v", ErrBadAddress, err)
	}

	return
}

// Configure parses the argument `earlyprintk` boot parameter, selects the
// matching backend and registers the console. The console is left inactive
// on any error.
func (c *Console) Configure(arg string) (err error) {
	if len(arg) == 0 {
		return ErrNoArgs
	}

	if c.sel.Load() != nil {
		return ErrConfigured
	}

	b, ok := c.Lookup(arg)

	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknown, arg)
	}

	s := &Selection{
		Backend: *b,
	}

	if s.Base, err = parseBase(arg[len(b.Name):]); err != nil {
		return
	}

	switch {
	case s.Base != 0:
		if c.Mapper == nil {
			return fmt.Errorf("could not map %#x, no address mapper", s.Base)
		}

		if bm, ok := c.Mapper.(BackendMapper); ok {
			s.Bus, err = bm.MapBackend(b.Name, s.Base)
		} else {
			s.Bus, err = c.Mapper.Map(s.Base)
		}

		if err != nil {
			return fmt.Errorf("could not map %#x, %v", s.Base, err)
		}
	case b.Mapped:
		return fmt.Errorf("%w for %s", ErrNoBase, b.Name)
	}

	if !c.sel.CompareAndSwap(nil, s) {
		// a concurrent configuration won, release our window
		if cl, ok := s.Bus.(io.Closer); ok {
			cl.Close()
		}

		return ErrConfigured
	}

	if c.Registrar != nil {
		c.Registrar.Register(c)
	}

	return
}

// Setup configures the console from the argument `earlyprintk` boot
// parameter, a failure is logged and leaves the console inactive.
func (c *Console) Setup(arg string) {
	if err := c.Configure(arg); err != nil {
		log.Printf("earlyprintk: %v", err)
	}
}

// Selected returns the active backend selection.
func (c *Console) Selected() (s Selection, ok bool) {
	if p := c.sel.Load(); p != nil {
		return *p, true
	}

	return
}

// Active returns whether a backend has been selected.
func (c *Console) Active() bool {
	return c.sel.Load() != nil
}

// Write transmits the argument buffer on the active backend, a carriage
// return is transmitted before every line feed.
func (c *Console) Write(p []byte) (n int, err error) {
	s := c.sel.Load()

	if s == nil {
		return 0, ErrInactive
	}

	for _, ch := range p {
		if ch == '\n' {
			s.Tx(s.Bus, '\r')
		}

		s.Tx(s.Bus, ch)
	}

	return len(p), nil
}

// WriteByte transmits a single character on the active backend, for use as
// a per-character runtime print hook.
func (c *Console) WriteByte(ch byte) error {
	_, err := c.Write([]byte{ch})
	return err
}
