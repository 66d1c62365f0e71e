// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package gdew027z22

import (
	"bytes"
	"encoding/binary"
	"time"
)

// Commands
const (
	panelSetting           byte = 0x00 // PSR
	powerSetting           byte = 0x01 // PWR
	powerOff               byte = 0x02 // POF
	powerOn                byte = 0x04 // PON
	boosterSoftStart       byte = 0x06 // BTST
	deepSleep              byte = 0x07 // DSLP
	dataStartTransmission1 byte = 0x10 // DTM1, black/white plane
	dataStop               byte = 0x11 // DSP, also starts the refresh on this panel
	dataStartTransmission2 byte = 0x13 // DTM2, red/white plane
	lutVCOM                byte = 0x20
	lutWW                  byte = 0x21
	lutBW                  byte = 0x22
	lutWB                  byte = 0x23
	lutBB                  byte = 0x24
	pllControl             byte = 0x30 // PLL
	vcomDataInterval       byte = 0x50 // CDI
	resolutionSetting      byte = 0x61 // TRES
	vcomDCSetting          byte = 0x82 // VDCS
	powerOptimization      byte = 0xF8
)

const (
	deepSleepCheckCode byte = 0xA5
	// vcomDataIntervalDefault selects white border and the default data
	// interval.
	vcomDataIntervalDefault byte = 0x87
)

// Undocumented power optimization registers, written in this order.
var powerOptimizations = [...][2]byte{
	{0x60, 0xA5},
	{0x89, 0xA5},
	{0x90, 0x00},
	{0x93, 0x2A},
	{0x73, 0x41},
}

type controller interface {
	sendCommand(byte)
	// sendCommandSettled is sendCommand with a setup delay between the
	// data/command line going low and the command byte.
	sendCommandSettled(cmd byte, setup time.Duration)
	sendData([]byte)
	readData() byte
	waitUntilIdle()
	delay(time.Duration)
}

func initDisplay(ctrl controller) {
	ctrl.sendCommand(powerSetting)
	ctrl.sendData([]byte{0x03, 0x00, 0x2B, 0x2B, 0x09})

	ctrl.sendCommand(boosterSoftStart)
	ctrl.sendData([]byte{0x07, 0x07, 0x17})
	ctrl.delay(5 * time.Millisecond)

	for _, reg := range powerOptimizations {
		ctrl.sendCommand(powerOptimization)
		ctrl.sendData(reg[:])
	}

	ctrl.sendCommand(powerOn)
	ctrl.delay(10 * time.Microsecond)
	ctrl.waitUntilIdle()

	// KW-BF, 3 colors, scan up, shift right, booster on, no soft reset.
	ctrl.sendCommand(panelSetting)
	ctrl.sendData([]byte{0xAB})

	// 100Hz frame rate.
	ctrl.sendCommand(pllControl)
	ctrl.sendData([]byte{0x3A})

	ctrl.sendCommand(resolutionSetting)
	ctrl.sendData(resolution())

	ctrl.sendCommand(vcomDCSetting)
	ctrl.sendData([]byte{0x12})

	ctrl.sendCommand(vcomDataInterval)
	ctrl.sendData([]byte{vcomDataIntervalDefault})

	setLUT(ctrl)
}

// resolution returns the gate and source line counts as 9 bit big endian
// values, gates first.
func resolution() []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint16(b[0:], uint16(Height)&0x1FF)
	binary.BigEndian.PutUint16(b[2:], uint16(Width)&0x1FF)
	return b
}

func setLUT(ctrl controller) {
	for _, l := range []struct {
		cmd  byte
		data []byte
	}{
		{lutVCOM, lutVCOMDC[:]},
		{lutWW, lutWhiteWhite[:]},
		{lutBW, lutBlackWhite[:]},
		{lutWB, lutWhiteBlack[:]},
		{lutBB, lutBlackBlack[:]},
	} {
		ctrl.sendCommand(l.cmd)
		ctrl.sendData(l.data)
	}
}

func clearPlane(ctrl controller, p Plane, pattern byte) {
	ctrl.sendCommand(p.cmd())
	ctrl.sendData(bytes.Repeat([]byte{pattern}, PlaneSize))
}

func writePlane(ctrl controller, p Plane, data []byte) {
	ctrl.sendCommand(p.cmd())
	ctrl.sendData(data)
}

// refresh latches both planes and returns the controller status byte.
func refresh(ctrl controller, mode RefreshMode) byte {
	ctrl.sendCommandSettled(dataStop, time.Microsecond)
	ctrl.delay(time.Microsecond)
	status := ctrl.readData()
	ctrl.delay(time.Microsecond)
	if mode == Blocking {
		ctrl.waitUntilIdle()
	}
	return status
}

func powerDown(ctrl controller) {
	ctrl.waitUntilIdle()
	ctrl.sendCommand(vcomDataInterval)
	ctrl.sendData([]byte{vcomDataIntervalDefault})
	ctrl.sendCommand(powerOff)
}

func sleep(ctrl controller) {
	ctrl.waitUntilIdle()
	ctrl.sendCommand(deepSleep)
	ctrl.sendData([]byte{deepSleepCheckCode})
}
