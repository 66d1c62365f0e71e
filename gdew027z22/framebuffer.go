// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package gdew027z22

import (
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"
)

// Panel geometry. The long axis has Width source lines, the short axis
// Height gate lines.
const (
	Width     = 264
	Height    = 176
	PlaneSize = Width * Height / 8
)

// Framebuffer is an RGB image in portrait orientation: Height pixels wide and
// Width pixels tall.
//
// It stores the colors as drawn. Classification to inks happens when the
// framebuffer is encoded or loaded.
type Framebuffer struct {
	// Pix holds 3 bytes per pixel, row major.
	Pix    []uint8
	Stride int
}

// NewFramebuffer returns a white framebuffer.
func NewFramebuffer() *Framebuffer {
	f := &Framebuffer{
		Pix:    make([]uint8, 3*Height*Width),
		Stride: 3 * Height,
	}
	f.FillRGB(0xFFFFFF)
	return f
}

// ColorModel implements image.Image.
func (f *Framebuffer) ColorModel() color.Model {
	return color.RGBAModel
}

// Bounds implements image.Image.
func (f *Framebuffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, Height, Width)
}

// At implements image.Image.
func (f *Framebuffer) At(x, y int) color.Color {
	if !(image.Point{x, y}.In(f.Bounds())) {
		return color.RGBA{}
	}
	r, g, b := f.RGBAt(x, y)
	return color.RGBA{r, g, b, 0xFF}
}

// Set implements draw.Image. Points outside of the framebuffer are ignored.
func (f *Framebuffer) Set(x, y int, c color.Color) {
	if !(image.Point{x, y}.In(f.Bounds())) {
		return
	}
	r, g, b := rgb8(c)
	f.set(x, y, r, g, b)
}

// RGBAt returns the stored color at x, y. The coordinates must be inside
// Bounds.
func (f *Framebuffer) RGBAt(x, y int) (r, g, b uint8) {
	i := f.offset(x, y)
	return f.Pix[i], f.Pix[i+1], f.Pix[i+2]
}

// SetRGB stores a color. Coordinates outside of the framebuffer are clamped
// to the nearest edge.
func (f *Framebuffer) SetRGB(x, y int, r, g, b uint8) {
	x, y = clamp(x, y)
	f.set(x, y, r, g, b)
}

// SetColor stores the canonical value of an ink. Coordinates are clamped like
// SetRGB. None and unknown values store white.
func (f *Framebuffer) SetColor(x, y int, c Color) {
	r, g, b := c.rgb()
	f.SetRGB(x, y, r, g, b)
}

// Fill sets every pixel to the same color.
func (f *Framebuffer) Fill(r, g, b uint8) {
	for i := 0; i < len(f.Pix); i += 3 {
		f.Pix[i] = r
		f.Pix[i+1] = g
		f.Pix[i+2] = b
	}
}

// FillRGB sets every pixel to a 0xRRGGBB value.
func (f *Framebuffer) FillRGB(rgb uint32) {
	f.Fill(uint8(rgb>>16), uint8(rgb>>8), uint8(rgb))
}

// Load replaces the content with src.
//
// An image larger than the panel is first shrunk with nearest neighbour
// sampling, keeping its aspect ratio. Every pixel is then replaced by the
// canonical value of its ink and pasted at the top left corner of a white
// framebuffer.
func (f *Framebuffer) Load(src image.Image) {
	src = fit(src)
	f.FillRGB(0xFFFFFF)
	sb := src.Bounds()
	for y := 0; y < sb.Dy() && y < Width; y++ {
		for x := 0; x < sb.Dx() && x < Height; x++ {
			r, g, b := rgb8(src.At(sb.Min.X+x, sb.Min.Y+y))
			r, g, b = Classify(r, g, b).rgb()
			f.set(x, y, r, g, b)
		}
	}
}

// Clone returns a deep copy.
func (f *Framebuffer) Clone() *Framebuffer {
	return &Framebuffer{
		Pix:    append([]uint8(nil), f.Pix...),
		Stride: f.Stride,
	}
}

func (f *Framebuffer) offset(x, y int) int {
	return y*f.Stride + 3*x
}

func (f *Framebuffer) set(x, y int, r, g, b uint8) {
	i := f.offset(x, y)
	f.Pix[i] = r
	f.Pix[i+1] = g
	f.Pix[i+2] = b
}

func clamp(x, y int) (int, int) {
	return min(max(x, 0), Height-1), min(max(y, 0), Width-1)
}

// fit shrinks src to fit the panel, keeping its aspect ratio.
func fit(src image.Image) image.Image {
	sb := src.Bounds()
	w, h := sb.Dx(), sb.Dy()
	if w <= Height && h <= Width {
		return src
	}
	var nw, nh int
	if w*Width >= h*Height {
		nw, nh = Height, (h*Height+w/2)/w
	} else {
		nw, nh = (w*Width+h/2)/h, Width
	}
	dst := image.NewNRGBA(image.Rect(0, 0, max(nw, 1), max(nh, 1)))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), src, sb, xdraw.Src, nil)
	return dst
}
