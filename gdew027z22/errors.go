// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package gdew027z22

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidLength is returned when a plane is not exactly PlaneSize
	// bytes long. Nothing is sent to the panel in that case.
	ErrInvalidLength = errors.New("gdew027z22: plane must be 5808 bytes")
	// ErrNotReady is returned when an operation is not valid in the current
	// state of the session, for example writing after DeepSleep.
	ErrNotReady = errors.New("gdew027z22: device not ready")
	// ErrBusyTimeout is returned when the busy line stayed asserted longer
	// than Opts.BusyTimeout.
	ErrBusyTimeout = errors.New("gdew027z22: timed out waiting for busy line")
)

// TransmissionError reports a bus failure while streaming a plane.
type TransmissionError struct {
	Plane Plane
	// Written is the number of plane bytes accepted before the failure.
	Written int
	Err     error
}

func (e *TransmissionError) Error() string {
	return fmt.Sprintf("gdew027z22: %s plane failed after %d bytes: %v", e.Plane, e.Written, e.Err)
}

func (e *TransmissionError) Unwrap() error {
	return e.Err
}
