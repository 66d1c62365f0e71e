// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package render draws text cards sized for the panel.
package render

import (
	"image"
	"strings"

	"github.com/flopp/go-findfont"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/GermanBionicSystems/epaper/gdew027z22"
)

const margin = 8

// Face returns a font face of the given size in points.
//
// An empty name selects Go Regular. Otherwise name is looked up among the
// installed fonts, e.g. "DejaVuSans.ttf" or "arial".
func Face(name string, points float64) (font.Face, error) {
	if name == "" {
		f, err := truetype.Parse(goregular.TTF)
		if err != nil {
			return nil, err
		}
		return truetype.NewFace(f, &truetype.Options{Size: points}), nil
	}
	path, err := findfont.Find(name)
	if err != nil {
		return nil, err
	}
	return gg.LoadFontFace(path, points)
}

// Card draws a framed card in portrait orientation: title in red, then text
// in black, wrapped to the card width. Paragraphs are separated by newlines.
func Card(title, text string, face font.Face) image.Image {
	w, h := float64(gdew027z22.Height), float64(gdew027z22.Width)
	dc := gg.NewContext(gdew027z22.Height, gdew027z22.Width)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	dc.SetRGB(0, 0, 0)
	dc.SetLineWidth(2)
	dc.DrawRectangle(2, 2, w-4, h-4)
	dc.Stroke()

	dc.SetFontFace(face)
	y := float64(margin) + dc.FontHeight()
	if title != "" {
		dc.SetRGB(1, 0, 0)
		for _, l := range dc.WordWrap(title, w-2*margin) {
			dc.DrawString(l, margin, y)
			y += dc.FontHeight() * 1.3
		}
		dc.DrawLine(margin, y-dc.FontHeight()*0.6, w-margin, y-dc.FontHeight()*0.6)
		dc.Stroke()
		y += dc.FontHeight() * 0.4
	}

	dc.SetRGB(0, 0, 0)
	for _, para := range strings.Split(text, "\n") {
		for _, l := range dc.WordWrap(para, w-2*margin) {
			if y > h-margin {
				return dc.Image()
			}
			dc.DrawString(l, margin, y)
			y += dc.FontHeight() * 1.3
		}
	}
	return dc.Image()
}
