// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package softspi implements a bit banged 3-wire SPI port on GPIO pins.
//
// The data line is shared between both directions, so the port is half
// duplex. Words are 8 bits, most significant bit first, in mode 0. Every
// byte is a complete chip select cycle.
//
// It is meant for panels wired to pins without a hardware SPI controller.
package softspi

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

// DefaultFrequency gives a 1µs half period.
const DefaultFrequency = 500 * physic.KiloHertz

// Port is a software SPI port.
type Port struct {
	data gpio.PinIO
	clk  gpio.PinOut
	cs   gpio.PinOut

	// sleep waits between clock edges. Replaced in tests.
	sleep func(time.Duration)

	mu        sync.Mutex
	limit     physic.Frequency
	connected bool
}

// New returns a port using data as the shared data line.
//
// The lines are set to their idle levels: clock low, chip select high and
// data as an input with pull up.
func New(data gpio.PinIO, clk, cs gpio.PinOut) (*Port, error) {
	if err := clk.Out(gpio.Low); err != nil {
		return nil, err
	}
	if err := cs.Out(gpio.High); err != nil {
		return nil, err
	}
	if err := data.In(gpio.PullUp, gpio.NoEdge); err != nil {
		return nil, err
	}
	return &Port{data: data, clk: clk, cs: cs, sleep: time.Sleep}, nil
}

func (p *Port) String() string {
	return fmt.Sprintf("softspi{data=%s, clk=%s, cs=%s}", p.data, p.clk, p.cs)
}

// Close implements spi.PortCloser. It halts the pins.
func (p *Port) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return errors.Join(p.clk.Halt(), p.cs.Halt(), p.data.Halt())
}

// LimitSpeed implements spi.PortCloser.
func (p *Port) LimitSpeed(f physic.Frequency) error {
	if f <= 0 {
		return errors.New("softspi: invalid speed")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.limit = f
	return nil
}

// Connect implements spi.Port.
//
// Only mode 0 with 8 bits words is supported. HalfDuplex is implied.
func (p *Port) Connect(f physic.Frequency, mode spi.Mode, bits int) (spi.Conn, error) {
	if mode&spi.Mode3 != spi.Mode0 || mode&(spi.NoCS|spi.LSBFirst) != 0 {
		return nil, fmt.Errorf("softspi: unsupported mode %s", mode)
	}
	if bits != 8 {
		return nil, fmt.Errorf("softspi: unsupported %d bits per word", bits)
	}
	if f < 0 {
		return nil, errors.New("softspi: invalid speed")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.connected {
		return nil, errors.New("softspi: Connect cannot be called twice")
	}
	if f == 0 {
		f = DefaultFrequency
	}
	if p.limit != 0 && p.limit < f {
		f = p.limit
	}
	p.connected = true
	return &bitConn{p: p, f: f, halfBit: f.Period() / 2}, nil
}

// bitConn is the spi.Conn returned by Port.Connect.
type bitConn struct {
	p       *Port
	f       physic.Frequency
	halfBit time.Duration
}

func (c *bitConn) String() string {
	return fmt.Sprintf("%s@%s", c.p, c.f)
}

// Duplex implements conn.Conn.
func (c *bitConn) Duplex() conn.Duplex {
	return conn.Half
}

// Tx implements conn.Conn. The bytes of w are written first, then r is
// filled.
func (c *bitConn) Tx(w, r []byte) error {
	c.p.mu.Lock()
	defer c.p.mu.Unlock()
	for _, b := range w {
		if err := c.writeByte(b); err != nil {
			return err
		}
	}
	for i := range r {
		v, err := c.readByte()
		if err != nil {
			return err
		}
		r[i] = v
	}
	return nil
}

// TxPackets implements spi.Conn. KeepCS is ignored since every byte is its
// own transaction.
func (c *bitConn) TxPackets(pkts []spi.Packet) error {
	for _, pkt := range pkts {
		if len(pkt.W) != 0 && len(pkt.R) != 0 {
			return errors.New("softspi: half duplex packets can either read or write")
		}
		if pkt.BitsPerWord != 0 && pkt.BitsPerWord != 8 {
			return fmt.Errorf("softspi: unsupported %d bits per word", pkt.BitsPerWord)
		}
		if err := c.Tx(pkt.W, pkt.R); err != nil {
			return err
		}
	}
	return nil
}

// writeByte shifts b out, changing data while the clock is low.
func (c *bitConn) writeByte(b byte) error {
	p := c.p
	if err := p.cs.Out(gpio.Low); err != nil {
		return err
	}
	for i := 0; i < 8; i++ {
		if err := p.data.Out(b&0x80 != 0); err != nil {
			return err
		}
		b <<= 1
		p.sleep(c.halfBit)
		if err := p.clk.Out(gpio.High); err != nil {
			return err
		}
		p.sleep(c.halfBit)
		if err := p.clk.Out(gpio.Low); err != nil {
			return err
		}
	}
	p.sleep(c.halfBit)
	if err := p.data.In(gpio.PullUp, gpio.NoEdge); err != nil {
		return err
	}
	return p.cs.Out(gpio.High)
}

// readByte samples 8 bits, each after the falling clock edge.
func (c *bitConn) readByte() (byte, error) {
	p := c.p
	if err := p.cs.Out(gpio.Low); err != nil {
		return 0, err
	}
	if err := p.data.In(gpio.PullUp, gpio.NoEdge); err != nil {
		return 0, err
	}
	var v byte
	for i := 0; i < 8; i++ {
		p.sleep(c.halfBit)
		if err := p.clk.Out(gpio.Low); err != nil {
			return 0, err
		}
		p.sleep(c.halfBit)
		v <<= 1
		if p.data.Read() == gpio.High {
			v |= 1
		}
		if err := p.clk.Out(gpio.High); err != nil {
			return 0, err
		}
	}
	p.sleep(c.halfBit)
	if err := p.cs.Out(gpio.High); err != nil {
		return 0, err
	}
	return v, p.clk.Out(gpio.Low)
}

var _ spi.PortCloser = &Port{}
var _ spi.Conn = &bitConn{}
