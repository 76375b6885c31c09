// Copyright (c) The go-earlycon authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package uapi implements Boot Loader Entries parsing
// following the specifications at:
//
//	https://uapi-group.org/specifications/specs/boot_loader_specification/
//
// Only the keys relevant to kernel command line retrieval are interpreted,
// kernel and initrd paths are recorded but not loaded.
package uapi

import (
	"io/fs"
	"strings"
)

// Entry represents the parsed contents of Type #1 Boot Loader Entry Keys.
type Entry struct {
	Title   string
	Linux   string
	Initrd  []string
	Options string

	parsed  string
	ignored string
}

func (e *Entry) parseKey(line string) {
	kv := strings.Fields(line)

	if len(kv) < 2 {
		if len(strings.TrimSpace(line)) > 0 {
			e.ignored += line
		}

		return
	}

	k := kv[0]
	v := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), k))

	switch k {
	case "title":
		e.Title = v
	case "linux":
		e.Linux = v
	case "initrd":
		e.Initrd = append(e.Initrd, v)
	case "options":
		if len(e.Options) > 0 {
			e.Options += " "
		}

		e.Options += v
	default:
		e.ignored += line
		return
	}

	e.parsed += line
}

// String returns the lines successfully parsed.
func (e *Entry) String() string {
	return e.parsed
}

// Ignored returns the lines ignored during parsing.
func (e *Entry) Ignored() string {
	return e.ignored
}

// Param returns the value of the last occurrence of the argument kernel
// command line parameter within the entry options.
func (e *Entry) Param(name string) (val string, ok bool) {
	for _, opt := range strings.Fields(e.Options) {
		k, v, _ := strings.Cut(opt, "=")

		if k == name {
			val = strings.Trim(v, `"`)
			ok = true
		}
	}

	return
}

// ParseEntry parses Type #1 Boot Loader Specification Entries from the
// argument buffer.
func ParseEntry(buf []byte) (e *Entry) {
	e = &Entry{}

	for line := range strings.Lines(string(buf)) {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}

		e.parseKey(line)
	}

	return
}

// LoadEntry parses Type #1 Boot Loader Specification Entries from the argument
// file.
func LoadEntry(fsys fs.FS, path string) (e *Entry, err error) {
	buf, err := fs.ReadFile(fsys, path)

	if err != nil {
		return
	}

	return ParseEntry(buf), nil
}
