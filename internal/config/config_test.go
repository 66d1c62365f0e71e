// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"periph.io/x/conn/v3/physic"
)

func TestLoadMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(cfg, DefaultConfig()); diff != "" {
		t.Errorf("Load() difference (-got +want):\n%s", diff)
	}
}

func TestLoadPartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "epaper.yaml")
	data := `
spi:
  port: /dev/spidev0.1
pins:
  busy: GPIO24
busy_timeout: 30s
soft_spi:
  data: GPIO10
  clock: GPIO11
  cs: GPIO8
log_level: debug
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	want := DefaultConfig()
	want.SPI.Port = "/dev/spidev0.1"
	want.Pins.Busy = "GPIO24"
	want.BusyTimeout = 30 * time.Second
	want.ByteDelay = 0
	want.SoftSPI = &SoftSPIConfig{Data: "GPIO10", Clock: "GPIO11", CS: "GPIO8", Frequency: "500kHz"}
	want.LogLevel = "debug"
	if diff := cmp.Diff(cfg, want); diff != "" {
		t.Errorf("Load() difference (-got +want):\n%s", diff)
	}

	if l, err := cfg.Level(); err != nil || l != slog.LevelDebug {
		t.Errorf("Level() = %v, %v", l, err)
	}
	if f, err := cfg.SoftSPIFrequency(); err != nil || f != 500*physic.KiloHertz {
		t.Errorf("SoftSPIFrequency() = %v, %v", f, err)
	}
	opts, err := cfg.PanelOpts(nil)
	if err != nil {
		t.Fatal(err)
	}
	if opts.Frequency != 8*physic.MegaHertz || opts.BusyTimeout != 30*time.Second {
		t.Errorf("PanelOpts() = %+v", opts)
	}
}

func TestLevelFor(t *testing.T) {
	cfg := DefaultConfig()
	if l, err := cfg.LevelFor(false); err != nil || l != slog.LevelInfo {
		t.Errorf("LevelFor(false) = %v, %v", l, err)
	}
	if l, err := cfg.LevelFor(true); err != nil || l != slog.LevelDebug {
		t.Errorf("LevelFor(true) = %v, %v", l, err)
	}
	cfg.LogLevel = "loud"
	for _, verbose := range []bool{false, true} {
		if _, err := cfg.LevelFor(verbose); err == nil {
			t.Errorf("LevelFor(%t) accepted %q", verbose, cfg.LogLevel)
		}
	}
}

func TestLoadInvalid(t *testing.T) {
	for _, tc := range []struct {
		name string
		data string
	}{
		{name: "syntax", data: "spi: [\n"},
		{name: "frequency", data: "spi:\n  frequency: fast\n"},
		{name: "soft spi pins", data: "soft_spi:\n  data: GPIO10\n"},
		{name: "log level", data: "log_level: loud\n"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "epaper.yaml")
			if err := os.WriteFile(path, []byte(tc.data), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("Load() succeeded")
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "epaper.yaml")
	cfg := DefaultConfig()
	cfg.Pins.DC = "GPIO5"
	cfg.BusyTimeout = 0
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(got, cfg); diff != "" {
		t.Errorf("round trip difference (-got +want):\n%s", diff)
	}
	if err := Save("", cfg); err == nil {
		t.Error("Save() with an empty path succeeded")
	}
}
