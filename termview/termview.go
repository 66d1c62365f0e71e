// Copyright 2017 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package termview implements a display.Drawer that outputs a black, white
// and red image to the terminal (stdout) using ANSI color codes.
//
// Useful to check what the e-paper panel will show without waiting for its
// 15 seconds refresh, or without the panel at all.
package termview

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"

	"github.com/GermanBionicSystems/epaper/gdew027z22"
	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"periph.io/x/conn/v3/display"
)

// Opts represents the options available for this display.
type Opts struct {
	// Step is the number of panel pixels per character on each axis. 0 means
	// 2, which fits a 88x132 terminal.
	Step    int
	Palette *ansi256.Palette
	// W receives the output. Nil means stdout.
	W io.Writer

	_ struct{}
}

// Dev is an e-paper panel emulator that outputs to the console.
type Dev struct {
	w       io.Writer
	step    int
	palette ansi256.Palette

	fb  *gdew027z22.Framebuffer
	buf bytes.Buffer
}

// New returns a Dev that displays at the console.
func New(opts *Opts) *Dev {
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	w := opts.W
	if w == nil {
		w = colorable.NewColorableStdout()
	}
	step := opts.Step
	if step <= 0 {
		step = 2
	}
	return &Dev{
		w:       w,
		step:    step,
		palette: *p,
		fb:      gdew027z22.NewFramebuffer(),
	}
}

func (d *Dev) String() string {
	return "TermView"
}

// Halt implements conn.Resource.
//
// It resets the terminal colors.
func (d *Dev) Halt() error {
	_, err := d.w.Write([]byte("\033[0m"))
	return err
}

// Write accepts a full frame of raw RGB pixels, row major, and writes it to
// the console.
func (d *Dev) Write(pixels []byte) (int, error) {
	if len(pixels) != len(d.fb.Pix) {
		return 0, errors.New("invalid RGB frame length")
	}
	copy(d.fb.Pix, pixels)
	return len(pixels), d.refresh()
}

// Show renders a copy of a panel framebuffer.
func (d *Dev) Show(fb *gdew027z22.Framebuffer) error {
	d.fb = fb.Clone()
	return d.refresh()
}

// ColorModel implements display.Drawer.
func (d *Dev) ColorModel() color.Model {
	return gdew027z22.ColorModel
}

// Bounds implements display.Drawer.
func (d *Dev) Bounds() image.Rectangle {
	return d.fb.Bounds()
}

// Draw implements display.Drawer.
func (d *Dev) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	draw.Draw(d.fb, r, src, sp, draw.Src)
	return d.refresh()
}

// refresh prints one character per step x step block, using the ink of its
// top left pixel.
func (d *Dev) refresh() error {
	d.buf.Reset()
	b := d.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y += d.step {
		_, _ = d.buf.WriteString("\r\033[0m")
		for x := b.Min.X; x < b.Max.X; x += d.step {
			r, g, bl := d.fb.RGBAt(x, y)
			cr, cg, cb, _ := gdew027z22.Classify(r, g, bl).RGBA()
			c := color.NRGBA{uint8(cr >> 8), uint8(cg >> 8), uint8(cb >> 8), 255}
			_, _ = io.WriteString(&d.buf, d.palette.Block(c))
		}
		_, _ = d.buf.WriteString("\033[0m\n")
	}
	_, err := d.buf.WriteTo(d.w)
	return err
}

var _ display.Drawer = &Dev{}
var _ fmt.Stringer = &Dev{}
