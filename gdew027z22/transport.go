// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package gdew027z22

import (
	"errors"
	"fmt"
	"io"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/spi"
)

// Transport is the low level access to the panel: a serial bus plus the
// data/command, reset and busy lines.
//
// Every WriteByte and ReadByte call is a complete chip select cycle.
type Transport interface {
	io.ByteWriter
	io.ByteReader
	io.Closer
	fmt.Stringer
	// DC drives the data/command line: gpio.Low selects command, gpio.High
	// selects data.
	DC(l gpio.Level) error
	// Reset drives the active low reset line.
	Reset(l gpio.Level) error
	// Busy samples the busy line. The controller keeps it low while busy.
	Busy() gpio.Level
	// Sleep pauses for the given duration.
	Sleep(d time.Duration)
}

// spiTransport is a Transport over a periph SPI port and GPIO pins.
type spiTransport struct {
	port spi.Port
	c    spi.Conn

	dc   gpio.PinOut
	rst  gpio.PinOut
	busy gpio.PinIn

	byteDelay time.Duration
}

// NewSPITransport connects to the SPI port in mode 0 and prepares the
// control lines.
//
// The port can be a hardware port or a softspi.Port. On error the port is
// left open.
func NewSPITransport(p spi.Port, dc, rst gpio.PinOut, busy gpio.PinIn, opts *Opts) (Transport, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	f := opts.Frequency
	if f == 0 {
		f = DefaultOpts.Frequency
	}
	c, err := p.Connect(f, spi.Mode0, 8)
	if err != nil {
		return nil, fmt.Errorf("gdew027z22: failed to connect on SPI: %w", err)
	}
	if err := dc.Out(gpio.High); err != nil {
		return nil, err
	}
	if err := rst.Out(gpio.High); err != nil {
		return nil, err
	}
	if err := busy.In(gpio.PullUp, gpio.NoEdge); err != nil {
		return nil, err
	}
	return &spiTransport{
		port:      p,
		c:         c,
		dc:        dc,
		rst:       rst,
		busy:      busy,
		byteDelay: opts.ByteDelay,
	}, nil
}

func (t *spiTransport) String() string {
	return fmt.Sprintf("%s, %s", t.c, t.dc)
}

func (t *spiTransport) WriteByte(b byte) error {
	if err := t.c.Tx([]byte{b}, nil); err != nil {
		return err
	}
	t.Sleep(t.byteDelay)
	return nil
}

func (t *spiTransport) ReadByte() (byte, error) {
	var w []byte
	if t.c.Duplex() != conn.Half {
		w = []byte{0xFF}
	}
	r := make([]byte, 1)
	if err := t.c.Tx(w, r); err != nil {
		return 0, err
	}
	t.Sleep(t.byteDelay)
	return r[0], nil
}

func (t *spiTransport) DC(l gpio.Level) error {
	return t.dc.Out(l)
}

func (t *spiTransport) Reset(l gpio.Level) error {
	return t.rst.Out(l)
}

func (t *spiTransport) Busy() gpio.Level {
	return t.busy.Read()
}

func (t *spiTransport) Sleep(d time.Duration) {
	if d > 0 {
		time.Sleep(d)
	}
}

// Close halts the control lines and closes the port when it can be closed.
func (t *spiTransport) Close() error {
	var errs []error
	for _, p := range []interface{ Halt() error }{t.dc, t.rst, t.busy} {
		if err := p.Halt(); err != nil {
			errs = append(errs, err)
		}
	}
	if c, ok := t.port.(io.Closer); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
