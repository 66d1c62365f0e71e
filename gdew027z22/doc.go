// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package gdew027z22 controls the Good Display GDEW027Z22 2.7" black, white
// and red e-paper panel (EK79652 controller).
//
// The panel has two 1-bit planes: the black/white plane selects black pixels
// and the red/white plane selects red pixels. A white pixel has neither bit
// set. Both planes are 5808 bytes long and are streamed one byte per
// chip-select cycle.
//
// Datasheets
//
// https://www.good-display.com/product/219.html
//
package gdew027z22
