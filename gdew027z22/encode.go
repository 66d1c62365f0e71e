// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package gdew027z22

// Encode converts the framebuffer to the black/white and red/white planes.
//
// Rows are scanned from the bottom row up and each row from left to right.
// Pixel number i of that scan is bit 7-i%8 of byte i/8. Red pixels set their
// bit in rw only, black pixels in bw only. The returned slices are new.
func Encode(f *Framebuffer) (bw, rw []byte) {
	bw = make([]byte, PlaneSize)
	rw = make([]byte, PlaneSize)
	i := 0
	for y := Width - 1; y >= 0; y-- {
		row := f.Pix[y*f.Stride : y*f.Stride+3*Height]
		for x := 0; x < Height; x++ {
			mask := byte(0x80) >> uint(i&7)
			switch Classify(row[3*x], row[3*x+1], row[3*x+2]) {
			case Red:
				rw[i>>3] |= mask
			case Black:
				bw[i>>3] |= mask
			}
			i++
		}
	}
	return bw, rw
}

// Decode rebuilds the framebuffer shown by a pair of planes. A pixel set in
// both planes shows red. It returns ErrInvalidLength unless both planes are
// PlaneSize bytes.
func Decode(bw, rw []byte) (*Framebuffer, error) {
	if len(bw) != PlaneSize || len(rw) != PlaneSize {
		return nil, ErrInvalidLength
	}
	f := NewFramebuffer()
	i := 0
	for y := Width - 1; y >= 0; y-- {
		for x := 0; x < Height; x++ {
			mask := byte(0x80) >> uint(i&7)
			switch {
			case rw[i>>3]&mask != 0:
				f.SetColor(x, y, Red)
			case bw[i>>3]&mask != 0:
				f.SetColor(x, y, Black)
			}
			i++
		}
	}
	return f, nil
}
