// Copyright (c) The go-earlycon authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package shell

import (
	"bytes"
	"fmt"
	"regexp"
	"sort"
	"text/tabwriter"
)

// CmdFn represents a command handler.
type CmdFn func(iface *Interface, arg []string) (res string, err error)

// Cmd represents a shell command.
type Cmd struct {
	// Name is the command name, matched literally when Pattern is nil.
	Name string
	// Args is the number of Pattern submatches passed to Fn.
	Args int
	// Pattern, when set, matches the full command line.
	Pattern *regexp.Regexp
	// Syntax is the argument syntax shown in the help.
	Syntax string
	// Help is the command description.
	Help string
	// Fn is the command handler.
	Fn CmdFn
}

var cmds []*Cmd

// Add registers a terminal command, matching is performed in registration
// order and a command with a name already registered replaces it.
func Add(cmd Cmd) {
	for i, c := range cmds {
		if c.Name == cmd.Name {
			cmds[i] = &cmd
			return
		}
	}

	cmds = append(cmds, &cmd)
}

// Help returns a formatted help message for all registered commands.
func (iface *Interface) Help(_ []string) (string, error) {
	var names []string

	byName := make(map[string]*Cmd)

	for _, cmd := range cmds {
		names = append(names, cmd.Name)
		byName[cmd.Name] = cmd
	}

	sort.Strings(names)

	var buf bytes.Buffer
	t := tabwriter.NewWriter(&buf, 16, 8, 0, '\t', tabwriter.TabIndent)

	for _, name := range names {
		cmd := byName[name]
		fmt.Fprintf(t, "%s\t%s\t # %s\n", cmd.Name, cmd.Syntax, cmd.Help)
	}

	t.Flush()

	return buf.String(), nil
}
