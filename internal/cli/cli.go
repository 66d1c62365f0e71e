// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package cli holds the terminal output helpers shared by the panel tools.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

// SupportsColor disables colors when asked to or when stdout is not a
// terminal.
func SupportsColor(noColorHint bool) {
	fd := os.Stdout.Fd()
	color.NoColor = noColorHint || (!isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd))
}

// NewLogger returns a text logger writing to stderr.
func NewLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(colorable.NewColorableStderr(), &slog.HandlerOptions{Level: level}))
}

// Status prints the progress lines of a tool.
type Status struct {
	W io.Writer
}

// NewStatus returns a Status writing to stdout.
func NewStatus() *Status {
	return &Status{W: color.Output}
}

var (
	titleColor = color.New(color.Bold)
	warnColor  = color.New(color.FgYellow)
	errColor   = color.New(color.FgRed)
	okColor    = color.New(color.FgGreen)
	nameColor  = color.New(color.FgHiBlue)
)

// Title prints a bold line.
func (s *Status) Title(format string, a ...any) {
	titleColor.Fprintf(s.W, format+"\n", a...)
}

// Info prints a plain line.
func (s *Status) Info(format string, a ...any) {
	fmt.Fprintf(s.W, format+"\n", a...)
}

// Done prints a success line.
func (s *Status) Done(format string, a ...any) {
	okColor.Fprintf(s.W, format+"\n", a...)
}

// Warn prints a warning line.
func (s *Status) Warn(format string, a ...any) {
	warnColor.Fprintf(s.W, format+"\n", a...)
}

// Fail prints an error line.
func (s *Status) Fail(format string, a ...any) {
	errColor.Fprintf(s.W, format+"\n", a...)
}

// Name highlights a file name or a pin name in a line.
func Name(s string) string {
	return nameColor.Sprint(s)
}
