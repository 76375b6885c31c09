// Copyright (c) The go-earlycon authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package cmd

import (
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/usbarmory/go-earlycon/earlycon"
	"github.com/usbarmory/go-earlycon/shell"
)

func init() {
	shell.Add(shell.Cmd{
		Name: "backends",
		Help: "list early console backends",
		Fn:   backendsCmd,
	})

	shell.Add(shell.Cmd{
		Name:    "earlyprintk",
		Args:    1,
		Pattern: regexp.MustCompile(`^earlyprintk (\S+)$`),
		Syntax:  "<name>[,0x<address>][,<options>]",
		Help:    "select early console backend",
		Fn:      earlyprintkCmd,
	})

	shell.Add(shell.Cmd{
		Name:    "write",
		Args:    1,
		Pattern: regexp.MustCompile(`^write (.*)`),
		Syntax:  "<text>",
		Help:    "write line to early console",
		Fn:      writeCmd,
	})

	shell.Add(shell.Cmd{
		Name:    "log",
		Args:    1,
		Pattern: regexp.MustCompile(`^log (.*)`),
		Syntax:  "<text>",
		Help:    "log message through console front end",
		Fn:      logCmd,
	})

	shell.Add(shell.Cmd{
		Name: "status",
		Help: "show early console status",
		Fn:   statusCmd,
	})
}

func backendsCmd(_ *shell.Interface, _ []string) (string, error) {
	var res []string

	backends := Console.Backends

	if backends == nil {
		backends = earlycon.Backends
	}

	s, active := Console.Selected()

	for _, b := range backends {
		mark := " "
		addr := "no address"

		if active && s.Name == b.Name {
			mark = "*"
		}

		if b.Mapped {
			addr = "0x<address>"
		}

		res = append(res, fmt.Sprintf("%s %-16s %s", mark, b.Name, addr))
	}

	return strings.Join(res, "\n"), nil
}

func earlyprintkCmd(_ *shell.Interface, arg []string) (string, error) {
	if err := Console.Configure(arg[0]); err != nil {
		return "", fmt.Errorf("could not configure early console, %v", err)
	}

	return statusCmd(nil, nil)
}

func writeCmd(_ *shell.Interface, arg []string) (string, error) {
	output.Lock()
	defer output.Unlock()

	_, err := Console.Write([]byte(arg[0] + "\n"))

	return "", err
}

func logCmd(_ *shell.Interface, arg []string) (string, error) {
	if !output.attached() {
		return "", errors.New("no console registered with the logger")
	}

	log.Print(arg[0])

	return "", nil
}

func statusCmd(_ *shell.Interface, _ []string) (string, error) {
	s, ok := Console.Selected()

	if !ok {
		return fmt.Sprintf("%s: inactive (up %s)", Console.Name, uptime()), nil
	}

	base := "none"

	if s.Base != 0 {
		base = fmt.Sprintf("%#x", s.Base)
	}

	return fmt.Sprintf("%s: %s base:%s (up %s)", Console.Name, s.Name, base, uptime()), nil
}
