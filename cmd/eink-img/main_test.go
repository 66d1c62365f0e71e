// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"image"
	"image/color"
	"io"
	"path/filepath"
	"testing"

	"github.com/GermanBionicSystems/epaper/gdew027z22"
	"github.com/GermanBionicSystems/epaper/internal/cli"
	"github.com/GermanBionicSystems/epaper/internal/imagefile"
	"github.com/GermanBionicSystems/epaper/internal/panel"
)

func TestShow(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 352, 528))
	for y := 0; y < 528; y++ {
		for x := 0; x < 352; x++ {
			src.Set(x, y, color.Black)
		}
	}
	path := filepath.Join(t.TempDir(), "big.png")
	if err := imagefile.SavePNG(path, src); err != nil {
		t.Fatal(err)
	}
	st := &cli.Status{W: io.Discard}

	p := panel.NewPreview(io.Discard, 8)
	if err := show(st, p, path, false); err != nil {
		t.Fatal(err)
	}
	if r, _, _ := p.Framebuffer().RGBAt(175, 263); r != 0 {
		t.Error("shrunk image does not cover the panel")
	}

	p = panel.NewPreview(io.Discard, 8)
	if err := show(st, p, "0", true); err != nil {
		t.Fatal(err)
	}
	if r, g, b := p.Framebuffer().RGBAt(0, 0); gdew027z22.Classify(r, g, b) != gdew027z22.White {
		t.Error("clear only drew on the framebuffer")
	}
}
