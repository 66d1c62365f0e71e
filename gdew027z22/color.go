// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package gdew027z22

import (
	"fmt"
	"image/color"
)

// Color is one of the inks the panel can show.
type Color uint8

// Valid Color.
const (
	White Color = iota
	Black
	Red
	// None leaves the pixel unset, which the panel shows as white.
	None
)

// threshold splits a channel into low and high.
const threshold = 0x80

func (c Color) String() string {
	switch c {
	case White:
		return "white"
	case Black:
		return "black"
	case Red:
		return "red"
	case None:
		return "none"
	default:
		return "unknown"
	}
}

// Set sets the Color to a value represented by the string s. Set implements
// the flag.Value interface.
func (c *Color) Set(s string) error {
	switch s {
	case "white":
		*c = White
	case "black":
		*c = Black
	case "red":
		*c = Red
	case "none":
		*c = None
	default:
		return fmt.Errorf("gdew027z22: unknown color %q: expected white, black, red or none", s)
	}
	return nil
}

// RGBA implements color.Color and returns the canonical value of the ink.
func (c Color) RGBA() (r, g, b, a uint32) {
	switch c {
	case Black:
		return 0, 0, 0, 0xFFFF
	case Red:
		return 0xFFFF, 0, 0, 0xFFFF
	default:
		return 0xFFFF, 0xFFFF, 0xFFFF, 0xFFFF
	}
}

// rgb returns the canonical 8 bit value of the ink.
func (c Color) rgb() (r, g, b uint8) {
	switch c {
	case Black:
		return 0, 0, 0
	case Red:
		return 0xFF, 0, 0
	default:
		return 0xFF, 0xFF, 0xFF
	}
}

// Classify maps an RGB value to the ink used to show it.
//
// Red needs a high red channel with low green and blue, black needs all three
// channels low. Everything else, including values with a channel exactly at
// 0x80, is white.
func Classify(r, g, b uint8) Color {
	switch {
	case r >= threshold && g < threshold && b < threshold:
		return Red
	case r < threshold && g < threshold && b < threshold:
		return Black
	default:
		return White
	}
}

// ColorModel converts any color to the Color it is displayed as.
//
// Alpha is ignored: the straight (non premultiplied) channels are classified.
var ColorModel = color.ModelFunc(func(c color.Color) color.Color {
	if v, ok := c.(Color); ok {
		if v == None {
			return White
		}
		return v
	}
	r, g, b := rgb8(c)
	return Classify(r, g, b)
})

func rgb8(c color.Color) (r, g, b uint8) {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return n.R, n.G, n.B
}
