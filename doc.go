// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package epaper is a container for the GDEW027Z22 e-paper panel driver and
// its tools.
//
// The driver lives in package gdew027z22. Package softspi provides a bit
// banged bus for panels not wired to a hardware SPI port and package termview
// previews images on a terminal.
package epaper
