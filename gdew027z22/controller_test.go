// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package gdew027z22

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

type record struct {
	cmd  byte
	data []byte
	// setup is the delay between the data/command line and the command byte.
	setup time.Duration
}

type fakeController []record

func (r *fakeController) sendCommand(cmd byte) {
	*r = append(*r, record{
		cmd: cmd,
	})
}

func (r *fakeController) sendCommandSettled(cmd byte, setup time.Duration) {
	*r = append(*r, record{
		cmd:   cmd,
		setup: setup,
	})
}

func (r *fakeController) sendData(data []byte) {
	cur := &(*r)[len(*r)-1]
	cur.data = append(cur.data, data...)
}

func (*fakeController) readData() byte {
	return BufferFilled
}

func (*fakeController) waitUntilIdle() {
}

func (*fakeController) delay(time.Duration) {
}

func TestInitDisplay(t *testing.T) {
	var got fakeController

	initDisplay(&got)

	want := []record{
		{cmd: powerSetting, data: []byte{0x03, 0x00, 0x2b, 0x2b, 0x09}},
		{cmd: boosterSoftStart, data: []byte{0x07, 0x07, 0x17}},
		{cmd: powerOptimization, data: []byte{0x60, 0xa5}},
		{cmd: powerOptimization, data: []byte{0x89, 0xa5}},
		{cmd: powerOptimization, data: []byte{0x90, 0x00}},
		{cmd: powerOptimization, data: []byte{0x93, 0x2a}},
		{cmd: powerOptimization, data: []byte{0x73, 0x41}},
		{cmd: powerOn},
		{cmd: panelSetting, data: []byte{0xab}},
		{cmd: pllControl, data: []byte{0x3a}},
		{cmd: resolutionSetting, data: []byte{0x00, 0xb0, 0x01, 0x08}},
		{cmd: vcomDCSetting, data: []byte{0x12}},
		{cmd: vcomDataInterval, data: []byte{0x87}},
		{cmd: lutVCOM, data: lutVCOMDC[:]},
		{cmd: lutWW, data: lutWhiteWhite[:]},
		{cmd: lutBW, data: lutBlackWhite[:]},
		{cmd: lutWB, data: lutWhiteBlack[:]},
		{cmd: lutBB, data: lutBlackBlack[:]},
	}

	if diff := cmp.Diff([]record(got), want, cmpopts.EquateEmpty(), cmp.AllowUnexported(record{})); diff != "" {
		t.Errorf("initDisplay() difference (-got +want):\n%s", diff)
	}
}

func TestLUTs(t *testing.T) {
	luts := LUTs()
	wantCmds := []byte{0x20, 0x21, 0x22, 0x23, 0x24}
	wantLens := []int{44, 42, 42, 42, 42}
	if len(luts) != len(wantCmds) {
		t.Fatalf("LUTs() returned %d tables, want %d", len(luts), len(wantCmds))
	}
	for i, l := range luts {
		if l.Cmd != wantCmds[i] {
			t.Errorf("LUTs()[%d].Cmd = %#x, want %#x", i, l.Cmd, wantCmds[i])
		}
		if len(l.Data) != wantLens[i] {
			t.Errorf("LUTs()[%d] has %d bytes, want %d", i, len(l.Data), wantLens[i])
		}
	}
	if !bytes.Equal(luts[1].Data, luts[3].Data) {
		t.Error("white to white and white to black tables differ")
	}
	if luts[2].Data[0] != 0xA0 || luts[4].Data[6] != 0x20 {
		t.Errorf("unexpected table content: bw[0]=%#x bb[6]=%#x", luts[2].Data[0], luts[4].Data[6])
	}

	// The tables handed out are copies.
	luts[0].Data[2] = 0xFF
	if lutVCOMDC[2] != 0x00 {
		t.Error("LUTs() exposed the internal table")
	}
}

func TestClearPlane(t *testing.T) {
	for _, tc := range []struct {
		name    string
		plane   Plane
		pattern byte
		cmd     byte
	}{
		{name: "black white", plane: BlackWhite, pattern: 0x00, cmd: 0x10},
		{name: "red white", plane: RedWhite, pattern: 0x18, cmd: 0x13},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var got fakeController

			clearPlane(&got, tc.plane, tc.pattern)

			want := []record{{cmd: tc.cmd, data: bytes.Repeat([]byte{tc.pattern}, PlaneSize)}}
			if diff := cmp.Diff([]record(got), want, cmpopts.EquateEmpty(), cmp.AllowUnexported(record{})); diff != "" {
				t.Errorf("clearPlane() difference (-got +want):\n%s", diff)
			}
		})
	}
}

func TestPowerDownAndSleep(t *testing.T) {
	var got fakeController

	powerDown(&got)
	sleep(&got)

	want := []record{
		{cmd: vcomDataInterval, data: []byte{0x87}},
		{cmd: powerOff},
		{cmd: deepSleep, data: []byte{0xa5}},
	}
	if diff := cmp.Diff([]record(got), want, cmpopts.EquateEmpty(), cmp.AllowUnexported(record{})); diff != "" {
		t.Errorf("powerDown() and sleep() difference (-got +want):\n%s", diff)
	}
}

func TestRefresh(t *testing.T) {
	var got fakeController

	if status := refresh(&got, Blocking); status != BufferFilled {
		t.Errorf("refresh() = %#x, want %#x", status, BufferFilled)
	}
	want := []record{{cmd: dataStop, setup: time.Microsecond}}
	if diff := cmp.Diff([]record(got), want, cmpopts.EquateEmpty(), cmp.AllowUnexported(record{})); diff != "" {
		t.Errorf("refresh() difference (-got +want):\n%s", diff)
	}
}
