// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package panel

import (
	"bytes"
	"io"

	"github.com/GermanBionicSystems/epaper/gdew027z22"
	"github.com/GermanBionicSystems/epaper/termview"
)

// Target is what the tools draw on. *gdew027z22.Dev implements it.
type Target interface {
	Clear(p gdew027z22.Plane, pattern byte) error
	Framebuffer() *gdew027z22.Framebuffer
	Update() (byte, error)
	Refresh(mode gdew027z22.RefreshMode) (byte, error)
	Shutdown() error
	DeepSleep() error
	Close() error
}

// Preview emulates the panel memories and prints every refresh on a
// terminal.
type Preview struct {
	view   *termview.Dev
	fb     *gdew027z22.Framebuffer
	planes [2][]byte
	filled [2]bool
}

// NewPreview returns a Preview writing to w, nil meaning stdout.
func NewPreview(w io.Writer, step int) *Preview {
	return &Preview{
		view: termview.New(&termview.Opts{W: w, Step: step}),
		fb:   gdew027z22.NewFramebuffer(),
		planes: [2][]byte{
			make([]byte, gdew027z22.PlaneSize),
			make([]byte, gdew027z22.PlaneSize),
		},
	}
}

// Clear implements Target.
func (p *Preview) Clear(plane gdew027z22.Plane, pattern byte) error {
	copy(p.planes[plane], bytes.Repeat([]byte{pattern}, gdew027z22.PlaneSize))
	p.filled[plane] = true
	return nil
}

// Framebuffer implements Target.
func (p *Preview) Framebuffer() *gdew027z22.Framebuffer {
	return p.fb
}

// Update implements Target.
func (p *Preview) Update() (byte, error) {
	bw, rw := gdew027z22.Encode(p.fb)
	p.planes[gdew027z22.BlackWhite], p.planes[gdew027z22.RedWhite] = bw, rw
	p.filled = [2]bool{true, true}
	return p.Refresh(gdew027z22.Blocking)
}

// Refresh implements Target. It prints what the panel would show.
func (p *Preview) Refresh(gdew027z22.RefreshMode) (byte, error) {
	fb, err := gdew027z22.Decode(p.planes[gdew027z22.BlackWhite], p.planes[gdew027z22.RedWhite])
	if err != nil {
		return 0, err
	}
	if err := p.view.Show(fb); err != nil {
		return 0, err
	}
	if p.filled[0] && p.filled[1] {
		return gdew027z22.BufferFilled, nil
	}
	return 0, nil
}

// Shutdown implements Target.
func (p *Preview) Shutdown() error {
	return nil
}

// DeepSleep implements Target.
func (p *Preview) DeepSleep() error {
	return nil
}

// Close implements Target. It resets the terminal colors.
func (p *Preview) Close() error {
	return p.view.Halt()
}

var _ Target = &gdew027z22.Dev{}
var _ Target = &Preview{}
