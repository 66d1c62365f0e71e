// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package gdew027z22

import (
	"runtime"
	"time"

	"periph.io/x/conn/v3/gpio"
)

const (
	busyPollInterval = time.Microsecond
	// yieldEvery is the number of data bytes after which a long transfer
	// yields the processor.
	yieldEvery = 100
)

// errorHandler is a wrapper for error management.
//
// The first failure is kept and every later call becomes a no-op.
type errorHandler struct {
	t       Transport
	timeout time.Duration
	// written counts data bytes accepted by the transport.
	written int
	err     error
}

func (eh *errorHandler) rstOut(l gpio.Level) {
	if eh.err != nil {
		return
	}
	eh.err = eh.t.Reset(l)
}

func (eh *errorHandler) dcOut(l gpio.Level) {
	if eh.err != nil {
		return
	}
	eh.err = eh.t.DC(l)
}

func (eh *errorHandler) writeByte(b byte) {
	if eh.err != nil {
		return
	}
	eh.err = eh.t.WriteByte(b)
}

func (eh *errorHandler) delay(d time.Duration) {
	if eh.err != nil {
		return
	}
	eh.t.Sleep(d)
}

// reset pulses the active low reset line.
func (eh *errorHandler) reset() {
	eh.rstOut(gpio.Low)
	eh.delay(10 * time.Millisecond)
	eh.rstOut(gpio.High)
	eh.delay(100 * time.Millisecond)
}

func (eh *errorHandler) waitUntilIdle() {
	if eh.err != nil {
		return
	}
	var deadline time.Time
	if eh.timeout > 0 {
		deadline = time.Now().Add(eh.timeout)
	}
	for eh.t.Busy() == gpio.Low {
		if !deadline.IsZero() && time.Now().After(deadline) {
			eh.err = ErrBusyTimeout
			return
		}
		eh.t.Sleep(busyPollInterval)
	}
}

func (eh *errorHandler) sendCommand(cmd byte) {
	if eh.err != nil {
		return
	}

	eh.dcOut(gpio.Low)
	eh.writeByte(cmd)
	eh.dcOut(gpio.High)
}

func (eh *errorHandler) sendCommandSettled(cmd byte, setup time.Duration) {
	if eh.err != nil {
		return
	}

	eh.dcOut(gpio.Low)
	eh.delay(setup)
	eh.writeByte(cmd)
	eh.dcOut(gpio.High)
}

func (eh *errorHandler) sendData(data []byte) {
	for i, b := range data {
		if eh.err != nil {
			return
		}
		eh.writeByte(b)
		if eh.err == nil {
			eh.written++
		}
		if i%yieldEvery == yieldEvery-1 {
			runtime.Gosched()
		}
	}
}

func (eh *errorHandler) readData() byte {
	if eh.err != nil {
		return 0
	}
	b, err := eh.t.ReadByte()
	eh.err = err
	return b
}
