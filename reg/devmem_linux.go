// Copyright (c) The go-earlycon authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

//go:build linux

package reg

import (
	"errors"
	"fmt"
	"os"
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/unix"
)

const (
	// DefaultDevMem is the physical memory device path
	DefaultDevMem = "/dev/mem"
	// DefaultWindow is the size of mapped register windows
	DefaultWindow = 0x1000
)

// DevMem implements [Mapper] on Linux hosts by mapping physical address
// windows from the physical memory device.
type DevMem struct {
	// Path is the physical memory device, defaults to [DefaultDevMem].
	Path string
	// Size is the window size, defaults to [DefaultWindow].
	Size int
}

// Window represents a physical address window mapped from [DevMem].
type Window struct {
	mem []byte
	off int
}

// Map maps the register window starting at the argument physical address.
func (d *DevMem) Map(base uint64) (Bus, error) {
	path := d.Path
	size := d.Size

	if path == "" {
		path = DefaultDevMem
	}

	if size <= 0 {
		size = DefaultWindow
	}

	page := uint64(os.Getpagesize())
	off := base & (page - 1)
	length := (off + uint64(size) + page - 1) &^ (page - 1)

	f, err := os.OpenFile(path, os.O_RDWR|os.O_SYNC, 0)

	if err != nil {
		return nil, fmt.Errorf("could not open %s, %v", path, err)
	}
	defer f.Close()

	mem, err := unix.Mmap(int(f.Fd()), int64(base-off), int(length), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)

	if err != nil {
		return nil, fmt.Errorf("could not map %#x, %v", base, err)
	}

	return &Window{mem: mem, off: int(off)}, nil
}

func (w *Window) ptr(off uint32, n int) unsafe.Pointer {
	i := w.off + int(off)

	if i+n > len(w.mem) {
		panic("register offset outside mapped window")
	}

	return unsafe.Pointer(&w.mem[i])
}

func (w *Window) Read8(off uint32) uint8 {
	return *(*uint8)(w.ptr(off, 1))
}

func (w *Window) Write8(off uint32, val uint8) {
	*(*uint8)(w.ptr(off, 1)) = val
}

func (w *Window) Read32(off uint32) uint32 {
	return atomic.LoadUint32((*uint32)(w.ptr(off, 4)))
}

func (w *Window) Write32(off uint32, val uint32) {
	atomic.StoreUint32((*uint32)(w.ptr(off, 4)), val)
}

// Close unmaps the window.
func (w *Window) Close() error {
	if w.mem == nil {
		return errors.New("window not mapped")
	}

	err := unix.Munmap(w.mem)
	w.mem = nil

	return err
}
