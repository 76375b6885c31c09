// Copyright (c) The go-earlycon authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

//go:build linux

package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/u-root/u-root/pkg/cmdline"
	"golang.org/x/term"

	"github.com/usbarmory/go-earlycon/cmd"
	"github.com/usbarmory/go-earlycon/earlycon"
	"github.com/usbarmory/go-earlycon/reg"
	"github.com/usbarmory/go-earlycon/shell"
	"github.com/usbarmory/go-earlycon/uapi"
	"github.com/usbarmory/go-earlycon/uartsim"
)

const param = "earlyprintk"

var (
	Build    string
	Revision string
)

var (
	arg         = flag.String(param, "", "early console argument (default: boot loader entry or kernel command line)")
	entry       = flag.String("entry", "", "boot loader entry to read kernel options from")
	mem         = flag.String("mem", reg.DefaultDevMem, "physical memory device")
	sim         = flag.Bool("sim", false, "transmit to a simulated device on standard output")
	latency     = flag.Int("latency", 8, "simulated device busy polls per character")
	interactive = flag.Bool("shell", false, "start the early console shell")
	sshAddr     = flag.String("ssh", "", "serve the early console shell over SSH at address")
	hostKey     = flag.String("hostkey", "", "SSH host key file")
	authorized  = flag.String("authorized", "", "SSH authorized keys file (required with -ssh)")
)

func init() {
	log.SetFlags(0)

	cmd.Banner = fmt.Sprintf("%s • %s %s", cmd.Banner, Revision, Build)
}

// bootArgument returns the early console argument from the command line
// flag, the boot loader entry or the running kernel command line.
func bootArgument() (string, error) {
	if len(*arg) > 0 {
		return *arg, nil
	}

	if len(*entry) > 0 {
		e, err := uapi.LoadEntry(os.DirFS(filepath.Dir(*entry)), filepath.Base(*entry))

		if err != nil {
			return "", fmt.Errorf("could not load entry, %v", err)
		}

		v, _ := e.Param(param)

		return v, nil
	}

	v, _ := cmdline.Flag(param)

	return v, nil
}

// mapper returns the address remapping service, simulated devices are
// attached on mapping so that the backend can also be chosen later from the
// shell.
func mapper() reg.Mapper {
	if *sim {
		return &uartsim.Bench{
			Out:     os.Stdout,
			Latency: *latency,
		}
	}

	return &reg.DevMem{Path: *mem}
}

func startShell() {
	fd := int(os.Stdin.Fd())

	if term.IsTerminal(fd) {
		state, err := term.MakeRaw(fd)

		if err != nil {
			log.Fatalf("could not set terminal mode, %v", err)
		}

		defer term.Restore(fd, state)
	}

	iface := &shell.Interface{
		Banner: cmd.Banner,
		ReadWriter: struct {
			io.Reader
			io.Writer
		}{os.Stdin, os.Stdout},
		VT100: true,
	}

	iface.Start()
}

func main() {
	flag.Parse()

	a, err := bootArgument()

	if err != nil {
		log.Fatal(err)
	}

	con := earlycon.New(mapper(), &cmd.LogRegistrar{})
	cmd.Console = con

	con.Setup(a)

	cmd.StartDebug()

	switch {
	case len(*sshAddr) > 0:
		log.Fatal(cmd.ServeSSH(*sshAddr, *hostKey, *authorized))
	case *interactive || term.IsTerminal(int(os.Stdin.Fd())):
		startShell()
	default:
		if !con.Active() {
			log.Fatal(earlycon.ErrInactive)
		}

		if _, err = io.Copy(con, os.Stdin); err != nil {
			log.Fatal(err)
		}
	}
}
