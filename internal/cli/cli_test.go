// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package cli

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
)

func TestStatusNoColor(t *testing.T) {
	SupportsColor(true)
	if !color.NoColor {
		t.Fatal("colors still enabled")
	}
	var buf bytes.Buffer
	s := &Status{W: &buf}
	s.Title("E-INK %s", "GDEW027Z22")
	s.Info("Loading file: %s", Name("a.png"))
	s.Done("done.")
	s.Warn("careful")
	s.Fail("Error occurred")
	want := "E-INK GDEW027Z22\nLoading file: a.png\ndone.\ncareful\nError occurred\n"
	if got := buf.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
