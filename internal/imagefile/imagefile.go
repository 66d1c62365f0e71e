// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package imagefile reads and writes the image files shown on the panel.
//
// PNG, JPEG, GIF, BMP, TIFF and WebP files can be read.
package imagefile

import (
	"fmt"
	"image"
	_ "image/gif"  // Register GIF.
	_ "image/jpeg" // Register JPEG.
	"image/png"
	"os"

	_ "golang.org/x/image/bmp"  // Register BMP.
	_ "golang.org/x/image/tiff" // Register TIFF.
	_ "golang.org/x/image/webp" // Register WebP.
)

// Load decodes the image file at path and returns it with its format name.
func Load(path string) (image.Image, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()
	img, format, err := image.Decode(f)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", path, err)
	}
	return img, format, nil
}

// SavePNG writes img to path as a PNG file.
func SavePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
