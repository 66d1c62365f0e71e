// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package config holds the YAML configuration of the panel tools: which bus
// and pins the panel is wired to and its timing.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
	"periph.io/x/conn/v3/physic"

	"github.com/GermanBionicSystems/epaper/gdew027z22"
)

// SPIConfig selects a hardware SPI port.
type SPIConfig struct {
	// Port is the spireg name of the port. Empty selects the first one.
	Port string `yaml:"port"`
	// Frequency is the clock, e.g. "8MHz".
	Frequency string `yaml:"frequency"`
}

// SoftSPIConfig selects three GPIO pins driven as a bit banged 3-wire bus.
type SoftSPIConfig struct {
	Data      string `yaml:"data"`
	Clock     string `yaml:"clock"`
	CS        string `yaml:"cs"`
	Frequency string `yaml:"frequency"`
}

// PinsConfig names the control lines, as known by gpioreg.
type PinsConfig struct {
	DC    string `yaml:"dc"`
	Reset string `yaml:"reset"`
	Busy  string `yaml:"busy"`
}

// Config is the top-level configuration.
type Config struct {
	SPI SPIConfig `yaml:"spi"`
	// SoftSPI, if set, replaces the hardware SPI port.
	SoftSPI *SoftSPIConfig `yaml:"soft_spi,omitempty"`
	Pins    PinsConfig     `yaml:"pins"`

	// ByteDelay is the pause after each byte on the bus.
	ByteDelay time.Duration `yaml:"byte_delay"`
	// BusyTimeout bounds the waits on the busy line. 0 waits forever.
	BusyTimeout time.Duration `yaml:"busy_timeout"`

	// LogLevel is one of debug, info, warn or error.
	LogLevel string `yaml:"log_level"`
}

// DefaultConfig returns the wiring of the panel on a Raspberry Pi header.
func DefaultConfig() *Config {
	return &Config{
		SPI: SPIConfig{
			Frequency: "8MHz",
		},
		Pins: PinsConfig{
			DC:    "GPIO25",
			Reset: "GPIO18",
			Busy:  "GPIO23",
		},
		ByteDelay:   time.Microsecond,
		BusyTimeout: time.Minute,
		LogLevel:    "info",
	}
}

// Normalize fills in missing values with the defaults.
func (c *Config) Normalize() {
	def := DefaultConfig()
	if c.SPI.Frequency == "" {
		c.SPI.Frequency = def.SPI.Frequency
	}
	if c.Pins.DC == "" {
		c.Pins.DC = def.Pins.DC
	}
	if c.Pins.Reset == "" {
		c.Pins.Reset = def.Pins.Reset
	}
	if c.Pins.Busy == "" {
		c.Pins.Busy = def.Pins.Busy
	}
	if c.SoftSPI != nil && c.SoftSPI.Frequency == "" {
		c.SoftSPI.Frequency = "500kHz"
	}
	if c.ByteDelay < 0 {
		c.ByteDelay = 0
	}
	if c.BusyTimeout < 0 {
		c.BusyTimeout = 0
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
}

// Validate reports values that cannot be used.
func (c *Config) Validate() error {
	if _, err := parseFrequency(c.SPI.Frequency); err != nil {
		return fmt.Errorf("spi.frequency: %w", err)
	}
	if s := c.SoftSPI; s != nil {
		if s.Data == "" || s.Clock == "" || s.CS == "" {
			return errors.New("soft_spi: data, clock and cs pins are required")
		}
		if _, err := parseFrequency(s.Frequency); err != nil {
			return fmt.Errorf("soft_spi.frequency: %w", err)
		}
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level returns the slog level named by LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log_level: %w", err)
	}
	return l, nil
}

// LevelFor returns Level, or debug when verbose is set. An invalid LogLevel
// is reported either way.
func (c *Config) LevelFor(verbose bool) (slog.Level, error) {
	l, err := c.Level()
	if err != nil {
		return 0, err
	}
	if verbose {
		return slog.LevelDebug, nil
	}
	return l, nil
}

// PanelOpts returns the driver options described by the configuration.
func (c *Config) PanelOpts(logger *slog.Logger) (*gdew027z22.Opts, error) {
	f, err := parseFrequency(c.SPI.Frequency)
	if err != nil {
		return nil, err
	}
	return &gdew027z22.Opts{
		Frequency:   f,
		ByteDelay:   c.ByteDelay,
		BusyTimeout: c.BusyTimeout,
		Logger:      logger,
	}, nil
}

// SoftSPIFrequency returns the clock of the software bus.
func (c *Config) SoftSPIFrequency() (physic.Frequency, error) {
	if c.SoftSPI == nil {
		return 0, errors.New("soft_spi is not configured")
	}
	return parseFrequency(c.SoftSPI.Frequency)
}

func parseFrequency(s string) (physic.Frequency, error) {
	var f physic.Frequency
	if err := f.Set(s); err != nil {
		return 0, err
	}
	if f <= 0 {
		return 0, fmt.Errorf("frequency %q must be positive", s)
	}
	return f, nil
}

// Load loads configuration from the given YAML path.
//
// A missing file is not an error: the defaults are returned. An empty path
// also returns the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

// Save writes cfg to path atomically, through a temp file in the same
// directory.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}
	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".epaper-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
