// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package softspi

import (
	"testing"
	"time"

	"github.com/GermanBionicSystems/epaper/gdew027z22"
	"github.com/google/go-cmp/cmp"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

type edge struct {
	pin   string
	level gpio.Level
}

// tracePin logs every output change and can replay input levels.
type tracePin struct {
	*gpiotest.Pin
	trace *[]edge
	reads []gpio.Level
}

func (t *tracePin) Out(l gpio.Level) error {
	*t.trace = append(*t.trace, edge{t.N, l})
	return t.Pin.Out(l)
}

func (t *tracePin) Read() gpio.Level {
	if len(t.reads) != 0 {
		l := t.reads[0]
		t.reads = t.reads[1:]
		return l
	}
	return t.Pin.Read()
}

func newTestPort(t *testing.T) (*Port, *tracePin, *[]edge, *[]time.Duration) {
	t.Helper()
	var trace []edge
	var sleeps []time.Duration
	data := &tracePin{Pin: &gpiotest.Pin{N: "DATA"}, trace: &trace}
	clk := &tracePin{Pin: &gpiotest.Pin{N: "CLK"}, trace: &trace}
	cs := &tracePin{Pin: &gpiotest.Pin{N: "CS"}, trace: &trace}
	p, err := New(data, clk, cs)
	if err != nil {
		t.Fatal(err)
	}
	p.sleep = func(d time.Duration) { sleeps = append(sleeps, d) }
	trace = nil
	return p, data, &trace, &sleeps
}

func levels(b byte) []gpio.Level {
	out := make([]gpio.Level, 8)
	for i := range out {
		out[i] = b&(0x80>>uint(i)) != 0
	}
	return out
}

func TestWrite(t *testing.T) {
	p, data, trace, sleeps := newTestPort(t)
	c, err := p.Connect(DefaultFrequency, spi.Mode0, 8)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Tx([]byte{0xA5}, nil); err != nil {
		t.Fatal(err)
	}

	// Sample the data line on every rising clock edge.
	var got []gpio.Level
	var cur gpio.Level
	for _, e := range *trace {
		switch {
		case e.pin == "DATA":
			cur = e.level
		case e.pin == "CLK" && e.level == gpio.High:
			got = append(got, cur)
		}
	}
	if diff := cmp.Diff(got, levels(0xA5)); diff != "" {
		t.Errorf("bits difference (-got +want):\n%s", diff)
	}

	tr := *trace
	if tr[0] != (edge{"CS", gpio.Low}) || tr[len(tr)-1] != (edge{"CS", gpio.High}) {
		t.Errorf("byte not framed by chip select: first %v, last %v", tr[0], tr[len(tr)-1])
	}
	if data.P != gpio.PullUp {
		t.Error("data line not released after the write")
	}
	if len(*sleeps) != 17 {
		t.Fatalf("got %d sleeps, want 17", len(*sleeps))
	}
	for _, d := range *sleeps {
		if d != time.Microsecond {
			t.Fatalf("slept %s, want 1µs", d)
		}
	}
}

func TestRead(t *testing.T) {
	p, data, trace, _ := newTestPort(t)
	c, err := p.Connect(0, spi.Mode0|spi.HalfDuplex, 8)
	if err != nil {
		t.Fatal(err)
	}
	if c.Duplex() != conn.Half {
		t.Errorf("Duplex() = %s", c.Duplex())
	}
	data.reads = levels(0x96)
	r := make([]byte, 1)
	if err := c.Tx(nil, r); err != nil {
		t.Fatal(err)
	}
	if r[0] != 0x96 {
		t.Errorf("read %#x, want 0x96", r[0])
	}
	for _, e := range *trace {
		if e.pin == "DATA" {
			t.Fatalf("data line driven during a read: %v", e)
		}
	}
	tr := *trace
	if last := tr[len(tr)-1]; last != (edge{"CLK", gpio.Low}) {
		t.Errorf("clock not returned low, last edge %v", last)
	}
}

func TestConnect(t *testing.T) {
	p, _, _, _ := newTestPort(t)
	if _, err := p.Connect(physic.MegaHertz, spi.Mode1, 8); err == nil {
		t.Error("mode 1 accepted")
	}
	if _, err := p.Connect(physic.MegaHertz, spi.Mode0|spi.LSBFirst, 8); err == nil {
		t.Error("LSB first accepted")
	}
	if _, err := p.Connect(physic.MegaHertz, spi.Mode0, 9); err == nil {
		t.Error("9 bits words accepted")
	}
	if err := p.LimitSpeed(100 * physic.KiloHertz); err != nil {
		t.Fatal(err)
	}
	c, err := p.Connect(physic.MegaHertz, spi.Mode0, 8)
	if err != nil {
		t.Fatal(err)
	}
	if got := c.(*bitConn).halfBit; got != 5*time.Microsecond {
		t.Errorf("half bit is %s, want 5µs", got)
	}
	if _, err := p.Connect(physic.MegaHertz, spi.Mode0, 8); err == nil {
		t.Error("second Connect() succeeded")
	}
	if err := c.TxPackets([]spi.Packet{{W: []byte{1}, R: make([]byte, 1)}}); err == nil {
		t.Error("full duplex packet accepted")
	}
	if err := p.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestPanelTransport(t *testing.T) {
	p, data, trace, _ := newTestPort(t)
	dc := &gpiotest.Pin{N: "DC"}
	rst := &gpiotest.Pin{N: "RST"}
	busy := &gpiotest.Pin{N: "BUSY"}
	tr, err := gdew027z22.NewSPITransport(p, dc, rst, busy, &gdew027z22.Opts{})
	if err != nil {
		t.Fatal(err)
	}

	// A read on a half duplex port clocks no command byte.
	*trace = nil
	data.reads = levels(gdew027z22.BufferFilled)
	b, err := tr.ReadByte()
	if err != nil {
		t.Fatal(err)
	}
	if b != gdew027z22.BufferFilled {
		t.Errorf("ReadByte() = %#x", b)
	}
	for _, e := range *trace {
		if e.pin == "DATA" {
			t.Fatal("a byte was written before the read")
		}
	}
	if err := tr.Close(); err != nil {
		t.Fatal(err)
	}
}
