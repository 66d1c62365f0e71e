// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package gdew027z22

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log/slog"
	"time"

	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/host/v3/rpi"
)

// BufferFilled is the status byte returned by Refresh when the controller
// received both planes.
const BufferFilled byte = 0x80

// Plane selects one of the two display memories.
type Plane uint8

// Planes of the panel.
const (
	BlackWhite Plane = iota
	RedWhite
)

func (p Plane) String() string {
	switch p {
	case BlackWhite:
		return "black/white"
	case RedWhite:
		return "red/white"
	default:
		return fmt.Sprintf("Plane(%d)", uint8(p))
	}
}

func (p Plane) cmd() byte {
	if p == RedWhite {
		return dataStartTransmission2
	}
	return dataStartTransmission1
}

// RefreshMode selects whether Refresh waits for the panel to finish.
type RefreshMode bool

const (
	// Blocking waits until the busy line is released.
	Blocking RefreshMode = false
	// NonBlocking returns right after the refresh was triggered. The next
	// operation waits for the panel instead, bounded by Opts.BusyTimeout.
	NonBlocking RefreshMode = true
)

// Opts defines the options for the device.
type Opts struct {
	// Frequency of the SPI clock. Only used when the SPI port is connected
	// by this package.
	Frequency physic.Frequency
	// ByteDelay is the pause after every byte on the bus.
	ByteDelay time.Duration
	// BusyTimeout bounds every wait on the busy line. Zero waits forever.
	BusyTimeout time.Duration
	// Logger receives debug messages. Nil discards them.
	Logger *slog.Logger
}

// DefaultOpts is the configuration the panel is known to work with.
var DefaultOpts = Opts{
	Frequency: 8 * physic.MegaHertz,
	ByteDelay: time.Microsecond,
}

type state uint8

const (
	uninitialized state = iota
	resetting
	initializing
	ready
	poweredOff
	deepAsleep
	closed
)

func (s state) String() string {
	switch s {
	case uninitialized:
		return "uninitialized"
	case resetting:
		return "resetting"
	case initializing:
		return "initializing"
	case ready:
		return "ready"
	case poweredOff:
		return "powered off"
	case deepAsleep:
		return "deep asleep"
	case closed:
		return "closed"
	default:
		return "unknown"
	}
}

// Dev is an open session with the panel.
//
// It is not safe for concurrent use.
type Dev struct {
	t     Transport
	opts  Opts
	log   *slog.Logger
	state state
	fb    *Framebuffer
	// pending is set while a non blocking refresh may still be running.
	pending bool
}

// New resets and initializes the panel behind t.
//
// The transport is owned by the returned Dev and released by Close. On error
// the transport is left open.
func New(t Transport, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	l := opts.Logger
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	d := &Dev{
		t:    t,
		opts: *opts,
		log:  l,
		fb:   NewFramebuffer(),
	}
	if err := d.Init(); err != nil {
		return nil, err
	}
	return d, nil
}

// NewSPI returns a Dev using a SPI port and the given control lines.
//
// The transport is released if initialization fails.
func NewSPI(p spi.Port, dc, rst gpio.PinOut, busy gpio.PinIn, opts *Opts) (*Dev, error) {
	t, err := NewSPITransport(p, dc, rst, busy, opts)
	if err != nil {
		return nil, err
	}
	d, err := New(t, opts)
	if err != nil {
		_ = t.Close()
		return nil, err
	}
	return d, nil
}

// NewHat returns a Dev wired to the Raspberry Pi header: DC on GPIO25, RST
// on GPIO18 and BUSY on GPIO23.
func NewHat(p spi.Port, opts *Opts) (*Dev, error) {
	return NewSPI(p, rpi.P1_22, rpi.P1_12, rpi.P1_16, opts)
}

// Init resets the panel and runs the initialization sequence.
//
// It is called by New and is needed again to use the panel after Shutdown or
// DeepSleep.
func (d *Dev) Init() error {
	if d.state == closed {
		return ErrNotReady
	}
	start := time.Now()
	eh := d.handler()
	d.state = resetting
	d.pending = false
	eh.reset()
	d.state = initializing
	initDisplay(eh)
	if eh.err != nil {
		d.state = uninitialized
		return fmt.Errorf("gdew027z22: initialization failed: %w", eh.err)
	}
	d.state = ready
	d.log.Debug("gdew027z22: initialized", "duration", time.Since(start))
	return nil
}

// Clear fills a plane with a repeated byte. 0x00 clears every pixel of the
// plane.
func (d *Dev) Clear(p Plane, pattern byte) error {
	if d.state != ready {
		return ErrNotReady
	}
	eh := d.handler()
	if err := d.settle(eh); err != nil {
		return err
	}
	clearPlane(eh, p, pattern)
	if eh.err != nil {
		return &TransmissionError{Plane: p, Written: eh.written, Err: eh.err}
	}
	return nil
}

// WritePlane sends a full plane. data must be exactly PlaneSize bytes.
func (d *Dev) WritePlane(p Plane, data []byte) error {
	if len(data) != PlaneSize {
		return fmt.Errorf("%w: got %d", ErrInvalidLength, len(data))
	}
	if d.state != ready {
		return ErrNotReady
	}
	eh := d.handler()
	if err := d.settle(eh); err != nil {
		return err
	}
	writePlane(eh, p, data)
	if eh.err != nil {
		return &TransmissionError{Plane: p, Written: eh.written, Err: eh.err}
	}
	return nil
}

// Refresh shows the planes sent so far and returns the controller status
// byte, BufferFilled when both planes were received.
func (d *Dev) Refresh(mode RefreshMode) (byte, error) {
	if d.state != ready {
		return 0, ErrNotReady
	}
	start := time.Now()
	eh := d.handler()
	if err := d.settle(eh); err != nil {
		return 0, err
	}
	status := refresh(eh, mode)
	if eh.err != nil {
		return 0, fmt.Errorf("gdew027z22: refresh failed: %w", eh.err)
	}
	d.pending = mode == NonBlocking
	d.log.Debug("gdew027z22: refreshed", "status", status, "blocking", mode == Blocking, "duration", time.Since(start))
	return status, nil
}

// Shutdown turns off the panel power supplies. Calling it again is a no-op.
func (d *Dev) Shutdown() error {
	switch d.state {
	case poweredOff:
		return nil
	case ready:
	default:
		return ErrNotReady
	}
	eh := d.handler()
	powerDown(eh)
	if eh.err != nil {
		return fmt.Errorf("gdew027z22: shutdown failed: %w", eh.err)
	}
	d.state = poweredOff
	d.pending = false
	d.log.Debug("gdew027z22: powered off")
	return nil
}

// DeepSleep puts the controller in its lowest power mode. Only a reset, done
// by Init, wakes it up. Calling it again is a no-op.
func (d *Dev) DeepSleep() error {
	switch d.state {
	case deepAsleep:
		return nil
	case ready, poweredOff:
	default:
		return ErrNotReady
	}
	eh := d.handler()
	sleep(eh)
	if eh.err != nil {
		return fmt.Errorf("gdew027z22: deep sleep failed: %w", eh.err)
	}
	d.state = deepAsleep
	d.pending = false
	d.log.Debug("gdew027z22: deep sleep")
	return nil
}

// Close releases the transport. The panel is left in its current power
// state; call Shutdown and DeepSleep first to park it.
func (d *Dev) Close() error {
	if d.state == closed {
		return nil
	}
	d.state = closed
	return d.t.Close()
}

// Framebuffer returns the framebuffer drawn by Update.
func (d *Dev) Framebuffer() *Framebuffer {
	return d.fb
}

// Update encodes the framebuffer, sends the red plane then the black plane and
// waits for the refresh to complete.
func (d *Dev) Update() (byte, error) {
	bw, rw := Encode(d.fb)
	if err := d.WritePlane(RedWhite, rw); err != nil {
		return 0, err
	}
	if err := d.WritePlane(BlackWhite, bw); err != nil {
		return 0, err
	}
	return d.Refresh(Blocking)
}

// ColorModel implements display.Drawer.
func (d *Dev) ColorModel() color.Model {
	return ColorModel
}

// Bounds implements display.Drawer.
func (d *Dev) Bounds() image.Rectangle {
	return d.fb.Bounds()
}

// Draw implements display.Drawer.
//
// The framebuffer is updated and the whole panel refreshed.
func (d *Dev) Draw(dstRect image.Rectangle, src image.Image, sp image.Point) error {
	draw.Draw(d.fb, dstRect, src, sp, draw.Src)
	_, err := d.Update()
	return err
}

// Halt implements conn.Resource. It turns off the panel power supplies
// unless the panel is already asleep or the session closed.
func (d *Dev) Halt() error {
	if d.state == deepAsleep || d.state == closed {
		return nil
	}
	return d.Shutdown()
}

func (d *Dev) String() string {
	return fmt.Sprintf("gdew027z22.Dev{%s, %s, %dx%d}", d.t, d.state, Width, Height)
}

// settle waits for a non blocking refresh to complete.
func (d *Dev) settle(eh *errorHandler) error {
	if !d.pending {
		return nil
	}
	eh.waitUntilIdle()
	if eh.err != nil {
		return fmt.Errorf("gdew027z22: waiting for refresh: %w", eh.err)
	}
	d.pending = false
	return nil
}

func (d *Dev) handler() *errorHandler {
	return &errorHandler{t: d.t, timeout: d.opts.BusyTimeout}
}

var _ display.Drawer = &Dev{}
