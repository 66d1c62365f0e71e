// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package panel opens the panel described by a configuration.
package panel

import (
	"errors"
	"fmt"
	"log/slog"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"github.com/GermanBionicSystems/epaper/gdew027z22"
	"github.com/GermanBionicSystems/epaper/internal/config"
	"github.com/GermanBionicSystems/epaper/softspi"
)

// Open initializes the host drivers, then opens the bus and the control
// lines and initializes the panel.
func Open(cfg *config.Config, logger *slog.Logger) (*gdew027z22.Dev, error) {
	state, err := host.Init()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize periph: %w", err)
	}
	for _, f := range state.Failed {
		logger.Debug("host driver failed", "driver", f.D, "err", f.Err)
	}
	return open(cfg, logger)
}

func open(cfg *config.Config, logger *slog.Logger) (*gdew027z22.Dev, error) {
	dc, err := pin(cfg.Pins.DC)
	if err != nil {
		return nil, err
	}
	rst, err := pin(cfg.Pins.Reset)
	if err != nil {
		return nil, err
	}
	busy, err := pin(cfg.Pins.Busy)
	if err != nil {
		return nil, err
	}
	opts, err := cfg.PanelOpts(logger)
	if err != nil {
		return nil, err
	}
	port, err := openPort(cfg, opts)
	if err != nil {
		return nil, err
	}
	logger.Debug("opening panel", "port", port, "dc", dc, "reset", rst, "busy", busy)
	d, err := gdew027z22.NewSPI(port, dc, rst, busy, opts)
	if err != nil {
		// NewSPI releases the port once connected, closing twice is harmless.
		_ = port.Close()
		return nil, err
	}
	return d, nil
}

func openPort(cfg *config.Config, opts *gdew027z22.Opts) (spi.PortCloser, error) {
	if cfg.SoftSPI == nil {
		p, err := spireg.Open(cfg.SPI.Port)
		if err != nil {
			return nil, fmt.Errorf("failed to open SPI port %q: %w", cfg.SPI.Port, err)
		}
		return p, nil
	}
	data, err := pin(cfg.SoftSPI.Data)
	if err != nil {
		return nil, err
	}
	clk, err := pin(cfg.SoftSPI.Clock)
	if err != nil {
		return nil, err
	}
	cs, err := pin(cfg.SoftSPI.CS)
	if err != nil {
		return nil, err
	}
	f, err := cfg.SoftSPIFrequency()
	if err != nil {
		return nil, err
	}
	// The software bus runs at its own, much lower, clock.
	opts.Frequency = f
	p, err := softspi.New(data, clk, cs)
	if err != nil {
		return nil, fmt.Errorf("failed to set up software SPI: %w", err)
	}
	return p, nil
}

func pin(name string) (gpio.PinIO, error) {
	if name == "" {
		return nil, errors.New("missing pin name")
	}
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("unknown pin %q", name)
	}
	return p, nil
}

// Pinout describes the wiring, one line per signal.
func Pinout(cfg *config.Config) []string {
	var lines []string
	if s := cfg.SoftSPI; s != nil {
		lines = append(lines,
			fmt.Sprintf("soft SPI @ %s, mode 0, 3-wire", s.Frequency),
			fmt.Sprintf("%-9s = CLK", s.Clock),
			fmt.Sprintf("%-9s = DATA", s.Data),
			fmt.Sprintf("%-9s = /CS", s.CS),
		)
	} else {
		port := cfg.SPI.Port
		if port == "" {
			port = "default SPI port"
		}
		lines = append(lines,
			fmt.Sprintf("%s @ %s, mode 0", port, cfg.SPI.Frequency),
			"SPI CLK   = CLK",
			"SPI MOSI  = DATA",
			"SPI CS    = /CS",
		)
	}
	return append(lines,
		fmt.Sprintf("%-9s = D/C", cfg.Pins.DC),
		fmt.Sprintf("%-9s = /Reset", cfg.Pins.Reset),
		fmt.Sprintf("%-9s = Busy", cfg.Pins.Busy),
	)
}
