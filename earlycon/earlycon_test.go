// Copyright (c) The go-earlycon authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package earlycon

import (
	"bytes"
	"errors"
	"testing"

	"github.com/usbarmory/go-earlycon/reg"
	"github.com/usbarmory/go-earlycon/uartsim"
)

type recorder struct {
	out []byte
}

func (r *recorder) Tx(_ reg.Bus, c byte) {
	r.out = append(r.out, c)
}

type mapper struct {
	calls int
	base  uint64
}

func (m *mapper) Map(base uint64) (reg.Bus, error) {
	m.calls++
	m.base = base
	return reg.MMIO(0), nil
}

type registrar struct {
	consoles []*Console
}

func (r *registrar) Register(c *Console) {
	r.consoles = append(r.consoles, c)
}

func TestSetupBackends(t *testing.T) {
	for _, b := range Backends {
		if !b.Mapped {
			continue
		}

		out := new(bytes.Buffer)
		dev, err := uartsim.New(b.Name, out, 3)

		if err != nil {
			t.Fatal(err)
		}

		c := New(dev, nil)
		c.Setup(b.Name + ",0x1000")

		s, ok := c.Selected()

		if !ok {
			t.Fatalf("%s: console not active", b.Name)
		}

		if s.Name != b.Name || s.Transmitter != b.Transmitter {
			t.Fatalf("%s: selected %s", b.Name, s.Name)
		}

		if s.Base != 0x1000 || dev.Base() != 0x1000 || dev.Maps() != 1 {
			t.Fatalf("%s: unexpected base %#x (mapped %#x)", b.Name, s.Base, dev.Base())
		}

		n, err := c.Write([]byte("ab\ncd"))

		if err != nil {
			t.Fatal(err)
		}

		if n != 5 {
			t.Fatalf("%s: unexpected count %d", b.Name, n)
		}

		if out.String() != "ab\r\ncd" {
			t.Fatalf("%s: unexpected output %q", b.Name, out.String())
		}

		if dev.Overruns() != 0 || dev.Faults() != 0 {
			t.Fatalf("%s: overruns:%d faults:%d", b.Name, dev.Overruns(), dev.Faults())
		}
	}
}

func TestSetupSemihosting(t *testing.T) {
	var out []byte
	var ops []uint64

	defer func(fn func(uint64, *byte) uint64) { trap = fn }(trap)

	trap = func(op uint64, arg *byte) uint64 {
		ops = append(ops, op)
		out = append(out, *arg)
		return 0
	}

	m := &mapper{}
	c := New(m, nil)

	if err := c.Configure("smh"); err != nil {
		t.Fatal(err)
	}

	s, ok := c.Selected()

	if !ok || s.Name != "smh" {
		t.Fatal("semihosting not selected")
	}

	if s.Base != 0 || s.Bus != nil || m.calls != 0 {
		t.Fatalf("unexpected mapping, base:%#x calls:%d", s.Base, m.calls)
	}

	if _, err := c.Write([]byte("ab\ncd")); err != nil {
		t.Fatal(err)
	}

	if string(out) != "ab\r\ncd" {
		t.Fatalf("unexpected output %q", out)
	}

	for _, op := range ops {
		if op != SYS_WRITEC {
			t.Fatalf("unexpected operation %#x", op)
		}
	}
}

func TestSetupEmpty(t *testing.T) {
	r := &registrar{}
	c := New(&mapper{}, r)

	c.Setup("")

	if err := c.Configure(""); !errors.Is(err, ErrNoArgs) {
		t.Fatalf("unexpected error %v", err)
	}

	if c.Active() || len(r.consoles) != 0 {
		t.Fatal("console activated without arguments")
	}
}

func TestSetupUnknown(t *testing.T) {
	m := &mapper{}
	r := &registrar{}
	c := New(m, r)

	if err := c.Configure("uart8251,0x1000"); !errors.Is(err, ErrUnknown) {
		t.Fatalf("unexpected error %v", err)
	}

	if c.Active() || m.calls != 0 || len(r.consoles) != 0 {
		t.Fatal("unknown backend changed console state")
	}

	// a later valid argument is still honoured
	if err := c.Configure("pl011,0x9000000"); err != nil {
		t.Fatal(err)
	}

	if s, ok := c.Selected(); !ok || s.Name != "pl011" || s.Base != 0x9000000 {
		t.Fatal("valid argument not honoured")
	}

	if len(r.consoles) != 1 || r.consoles[0] != c {
		t.Fatal("console not registered")
	}
}

func TestSetupOnce(t *testing.T) {
	m := &mapper{}
	r := &registrar{}
	c := New(m, r)

	if err := c.Configure("uart8250-8bit,0x3f8"); err != nil {
		t.Fatal(err)
	}

	if err := c.Configure("pl011,0x9000000"); !errors.Is(err, ErrConfigured) {
		t.Fatalf("unexpected error %v", err)
	}

	if s, _ := c.Selected(); s.Name != "uart8250-8bit" || s.Base != 0x3f8 {
		t.Fatalf("selection changed to %s %#x", s.Name, s.Base)
	}

	if m.calls != 1 || len(r.consoles) != 1 {
		t.Fatalf("unexpected calls, map:%d register:%d", m.calls, len(r.consoles))
	}
}

func TestSetupAddress(t *testing.T) {
	for _, tt := range []struct {
		arg  string
		base uint64
		err  error
	}{
		{"pl011,0x1000", 0x1000, nil},
		{"pl011,0x9000000,115200n8", 0x9000000, nil},
		{"pl011,0xfe201000zz", 0xfe201000, nil},
		{"pl011,0xDEAD0000", 0xdead0000, nil},
		{"smh,nodebug", 0, nil},
		{"pl011", 0, ErrNoBase},
		{"pl011,0x", 0, ErrNoBase},
		{"pl011,1000", 0, ErrNoBase},
		{"pl011,0X1000", 0, ErrNoBase},
		{"pl011,0x10000000000000000", 0, ErrBadAddress},
	} {
		m := &mapper{}
		c := New(m, nil)
		err := c.Configure(tt.arg)

		if tt.err != nil {
			if !errors.Is(err, tt.err) {
				t.Fatalf("%s: unexpected error %v", tt.arg, err)
			}

			if c.Active() || m.calls != 0 {
				t.Fatalf("%s: console activated", tt.arg)
			}

			continue
		}

		if err != nil {
			t.Fatalf("%s: %v", tt.arg, err)
		}

		s, _ := c.Selected()

		if s.Base != tt.base || m.base != tt.base {
			t.Fatalf("%s: unexpected base %#x", tt.arg, s.Base)
		}

		want := 0

		if tt.base != 0 {
			want = 1
		}

		if m.calls != want {
			t.Fatalf("%s: unexpected map calls %d", tt.arg, m.calls)
		}
	}
}

func TestLookupOrder(t *testing.T) {
	first := &recorder{}
	second := &recorder{}

	c := New(&mapper{}, nil)
	c.Backends = []Backend{
		{Name: "uart", Transmitter: first},
		{Name: "uart8250", Transmitter: second},
	}

	if err := c.Configure("uart8250,0x10"); err != nil {
		t.Fatal(err)
	}

	if _, err := c.Write([]byte("x")); err != nil {
		t.Fatal(err)
	}

	if string(first.out) != "x" || len(second.out) != 0 {
		t.Fatal("first declared backend not selected")
	}
}

func TestRegistryNames(t *testing.T) {
	names := map[string]bool{}

	for _, b := range Backends {
		if names[b.Name] {
			t.Fatalf("duplicate backend %s", b.Name)
		}

		names[b.Name] = true
	}

	for _, name := range []string{"pl011", "smh", "uart8250-8bit", "uart8250-32bit", "msm_hsl_uart"} {
		b, ok := New(nil, nil).Lookup(name)

		if !ok || b.Name != name {
			t.Fatalf("%s: not resolved", name)
		}
	}
}

func TestRegistration(t *testing.T) {
	r := &registrar{}
	c := New(&mapper{}, r)

	if err := c.Configure("msm_hsl_uart,0x78af000"); err != nil {
		t.Fatal(err)
	}

	if len(r.consoles) != 1 {
		t.Fatal("console not registered")
	}

	con := r.consoles[0]

	if con.Name != "earlycon" || con.Flags != PrintBuffer|Boot || con.Index != -1 {
		t.Fatalf("unexpected registration %s %d %d", con.Name, con.Flags, con.Index)
	}

	if !con.Active() {
		t.Fatal("console registered before selection")
	}
}

func TestWrite(t *testing.T) {
	for _, tt := range []struct {
		in   string
		want string
	}{
		{"", ""},
		{"a", "a"},
		{"\n", "\r\n"},
		{"ab\ncd", "ab\r\ncd"},
		{"\n\n", "\r\n\r\n"},
		{"line\n", "line\r\n"},
		{"\r\n", "\r\r\n"},
	} {
		r := &recorder{}
		c := New(nil, nil)
		c.Backends = []Backend{{Name: "rec", Transmitter: r}}

		if err := c.Configure("rec"); err != nil {
			t.Fatal(err)
		}

		n, err := c.Write([]byte(tt.in))

		if err != nil {
			t.Fatal(err)
		}

		if n != len(tt.in) {
			t.Fatalf("%q: unexpected count %d", tt.in, n)
		}

		if string(r.out) != tt.want {
			t.Fatalf("%q: unexpected output %q", tt.in, r.out)
		}
	}
}

func TestWriteSlice(t *testing.T) {
	r := &recorder{}
	c := New(nil, nil)
	c.Backends = []Backend{{Name: "rec", Transmitter: r}}
	c.Setup("rec")

	buf := []byte("abc\ndef")

	if n, _ := c.Write(buf[1:4]); n != 3 {
		t.Fatalf("unexpected count %d", n)
	}

	if string(r.out) != "bc\r\n" {
		t.Fatalf("unexpected output %q", r.out)
	}

	if err := c.WriteByte('\n'); err != nil {
		t.Fatal(err)
	}

	if string(r.out) != "bc\r\n\r\n" {
		t.Fatalf("unexpected output %q", r.out)
	}
}

func TestWriteInactive(t *testing.T) {
	c := New(&mapper{}, nil)

	if n, err := c.Write([]byte("x")); n != 0 || !errors.Is(err, ErrInactive) {
		t.Fatalf("unexpected result %d %v", n, err)
	}
}

type failingMapper struct{}

func (failingMapper) Map(uint64) (reg.Bus, error) {
	return nil, errors.New("no mapping")
}

func TestSetupMapError(t *testing.T) {
	r := &registrar{}
	c := New(failingMapper{}, r)

	if err := c.Configure("pl011,0x1000"); err == nil {
		t.Fatal("expected error")
	}

	if c.Active() || len(r.consoles) != 0 {
		t.Fatal("console activated without mapping")
	}
}

func TestSetupSemihostingBase(t *testing.T) {
	m := &mapper{}
	c := New(m, nil)

	if err := c.Configure("smh,0x1000"); err != nil {
		t.Fatal(err)
	}

	s, ok := c.Selected()

	if !ok || s.Name != "smh" {
		t.Fatal("semihosting not selected")
	}

	if s.Base != 0x1000 || m.base != 0x1000 || m.calls != 1 {
		t.Fatalf("unexpected mapping, base:%#x mapped:%#x calls:%d", s.Base, m.base, m.calls)
	}
}

type window struct {
	reg.MMIO
	closed int
}

func (w *window) Close() error {
	w.closed++
	return nil
}

// racingMapper completes a competing configuration while mapping.
type racingMapper struct {
	c   *Console
	win *window
}

func (m *racingMapper) Map(uint64) (reg.Bus, error) {
	if err := m.c.Configure("smh"); err != nil {
		return nil, err
	}

	m.win = &window{}

	return m.win, nil
}

func TestSetupRaceReleasesWindow(t *testing.T) {
	r := &registrar{}
	c := New(nil, r)
	m := &racingMapper{c: c}
	c.Mapper = m

	if err := c.Configure("pl011,0x9000000"); !errors.Is(err, ErrConfigured) {
		t.Fatalf("unexpected error %v", err)
	}

	if m.win == nil || m.win.closed != 1 {
		t.Fatal("losing register window not closed")
	}

	if s, _ := c.Selected(); s.Name != "smh" {
		t.Fatalf("unexpected selection %s", s.Name)
	}

	if len(r.consoles) != 1 {
		t.Fatalf("unexpected registrations %d", len(r.consoles))
	}
}

func TestSetupBench(t *testing.T) {
	out := new(bytes.Buffer)
	b := &uartsim.Bench{Out: out, Latency: 2}

	c := New(b, nil)

	// an unknown or missing argument only leaves the console inactive
	c.Setup("")
	c.Setup("ttyS0")

	if c.Active() || b.Device != nil {
		t.Fatal("console activated")
	}

	c.Setup("uart8250-32bit,0xfe215040")

	if _, err := c.Write([]byte("ok\n")); err != nil {
		t.Fatal(err)
	}

	if out.String() != "ok\r\n" || b.Device.Base() != 0xfe215040 {
		t.Fatalf("unexpected output %q", out.String())
	}

	if b.Device.Overruns() != 0 || b.Device.Faults() != 0 {
		t.Fatalf("overruns:%d faults:%d", b.Device.Overruns(), b.Device.Faults())
	}
}
