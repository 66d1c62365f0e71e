// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package gdew027z22

// Waveform tables programmed at the end of initialization. Each table is
// made of 6 byte phases; the VCOM table has 2 leading bytes.
var (
	lutVCOMDC = [44]byte{
		0x00, 0x00,
		0x00, 0x1A, 0x1A, 0x00, 0x00, 0x01,
		0x00, 0x0A, 0x0A, 0x00, 0x00, 0x08,
		0x00, 0x0E, 0x01, 0x0E, 0x01, 0x10,
		0x00, 0x0A, 0x0A, 0x00, 0x00, 0x08,
		0x00, 0x04, 0x10, 0x00, 0x00, 0x05,
		0x00, 0x03, 0x0E, 0x00, 0x00, 0x0A,
		0x00, 0x23, 0x00, 0x00, 0x00, 0x01,
	}

	// White to white.
	lutWhiteWhite = [42]byte{
		0x90, 0x1A, 0x1A, 0x00, 0x00, 0x01,
		0x40, 0x0A, 0x0A, 0x00, 0x00, 0x08,
		0x84, 0x0E, 0x01, 0x0E, 0x01, 0x10,
		0x80, 0x0A, 0x0A, 0x00, 0x00, 0x08,
		0x00, 0x04, 0x10, 0x00, 0x00, 0x05,
		0x00, 0x03, 0x0E, 0x00, 0x00, 0x0A,
		0x00, 0x23, 0x00, 0x00, 0x00, 0x01,
	}

	// Black to white.
	lutBlackWhite = [42]byte{
		0xA0, 0x1A, 0x1A, 0x00, 0x00, 0x01,
		0x00, 0x0A, 0x0A, 0x00, 0x00, 0x08,
		0x84, 0x0E, 0x01, 0x0E, 0x01, 0x10,
		0x90, 0x0A, 0x0A, 0x00, 0x00, 0x08,
		0xB0, 0x04, 0x10, 0x00, 0x00, 0x05,
		0xB0, 0x03, 0x0E, 0x00, 0x00, 0x0A,
		0xC0, 0x23, 0x00, 0x00, 0x00, 0x01,
	}

	// White to black. Identical to white to white on this panel.
	lutWhiteBlack = lutWhiteWhite

	// Black to black.
	lutBlackBlack = [42]byte{
		0x90, 0x1A, 0x1A, 0x00, 0x00, 0x01,
		0x20, 0x0A, 0x0A, 0x00, 0x00, 0x08,
		0x84, 0x0E, 0x01, 0x0E, 0x01, 0x10,
		0x10, 0x0A, 0x0A, 0x00, 0x00, 0x08,
		0x00, 0x04, 0x10, 0x00, 0x00, 0x05,
		0x00, 0x03, 0x0E, 0x00, 0x00, 0x0A,
		0x00, 0x23, 0x00, 0x00, 0x00, 0x01,
	}
)

// LUT is one waveform table together with the command that loads it.
type LUT struct {
	Cmd  byte
	Data []byte
}

// LUTs returns a copy of the waveform tables in the order they are sent.
func LUTs() []LUT {
	return []LUT{
		{Cmd: lutVCOM, Data: append([]byte(nil), lutVCOMDC[:]...)},
		{Cmd: lutWW, Data: append([]byte(nil), lutWhiteWhite[:]...)},
		{Cmd: lutBW, Data: append([]byte(nil), lutBlackWhite[:]...)},
		{Cmd: lutWB, Data: append([]byte(nil), lutWhiteBlack[:]...)},
		{Cmd: lutBB, Data: append([]byte(nil), lutBlackBlack[:]...)},
	}
}
