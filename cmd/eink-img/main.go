// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// eink-img shows an image file on a GDEW027Z22 panel.
//
// Usage:
//
//	eink-img [flags] IMAGE
//	eink-img [flags] 0
//
// Passing 0 instead of a file only clears the panel. Images larger than
// 176x264 are shrunk. Colors other than black, red and white show as the
// closest of the three, or white.
//
// Exit codes: 1 usage or setup error, 2 missing image file, 3 failure while
// drawing.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/GermanBionicSystems/epaper/gdew027z22"
	"github.com/GermanBionicSystems/epaper/internal/cli"
	"github.com/GermanBionicSystems/epaper/internal/config"
	"github.com/GermanBionicSystems/epaper/internal/imagefile"
	"github.com/GermanBionicSystems/epaper/internal/panel"
)

func main() {
	os.Exit(mainImpl())
}

func mainImpl() int {
	configPath := flag.String("config", "/etc/epaper.yaml", "configuration file")
	preview := flag.Bool("preview", false, "print the result on the terminal instead of the panel")
	verbose := flag.Bool("v", false, "verbose logging")
	noColor := flag.Bool("no-color", false, "disable colors")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] IMAGE|0\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	cli.SupportsColor(*noColor)
	st := cli.NewStatus()

	st.Title("E-INK GDEW027Z22 (2.7\" Red/Black/White) image loader.")
	st.Info("")
	if flag.NArg() != 1 {
		flag.Usage()
		st.Warn("Warning: images larger than 176 x 264 px are shrunk")
		return 1
	}
	path := flag.Arg(0)
	onlyClear := path == "0"
	if !onlyClear {
		if fi, err := os.Stat(path); err != nil || !fi.Mode().IsRegular() {
			st.Warn("Selected file: %s does not exist or is not a file!", path)
			return 2
		}
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		st.Fail("%v", err)
		return 1
	}
	level, err := cfg.LevelFor(*verbose)
	if err != nil {
		st.Fail("%v", err)
		return 1
	}
	logger := cli.NewLogger(level)

	var target panel.Target
	if *preview {
		target = panel.NewPreview(nil, 2)
	} else {
		st.Info("E-INK pinout:")
		for _, l := range panel.Pinout(cfg) {
			st.Info("  %s", l)
		}
		dev, err := panel.Open(cfg, logger)
		if err != nil {
			st.Fail("%v", err)
			return 1
		}
		target = dev
		st.Done("E-INK init done.")
	}
	defer func() {
		if err := target.Close(); err != nil {
			logger.Error("close failed", "err", err)
		}
	}()

	if err := show(st, target, path, onlyClear); err != nil {
		st.Fail("Error occurred: %v", err)
		return 3
	}

	st.Info("Power down display...")
	if err := target.Shutdown(); err != nil {
		st.Fail("%v", err)
		return 3
	}
	st.Info("Shutdown: ok, deep sleep...")
	if err := target.DeepSleep(); err != nil {
		st.Fail("%v", err)
		return 3
	}
	st.Done("deep sleep: ok")
	return 0
}

func show(st *cli.Status, t panel.Target, path string, onlyClear bool) error {
	st.Info("Clear B/W...")
	if err := t.Clear(gdew027z22.BlackWhite, 0x00); err != nil {
		return err
	}
	st.Info("Clear Red/W...")
	if err := t.Clear(gdew027z22.RedWhite, 0x00); err != nil {
		return err
	}

	var status byte
	if onlyClear {
		st.Info("Display update...")
		s, err := t.Refresh(gdew027z22.Blocking)
		if err != nil {
			return err
		}
		status = s
	} else {
		st.Info("Loading file: %s", cli.Name(path))
		img, format, err := imagefile.Load(path)
		if err != nil {
			return err
		}
		b := img.Bounds()
		if b.Dx() > gdew027z22.Height || b.Dy() > gdew027z22.Width {
			st.Warn("%s image is %dx%d, shrinking it", format, b.Dx(), b.Dy())
		}
		t.Framebuffer().Load(img)
		st.Info("Updating display...")
		s, err := t.Update()
		if err != nil {
			return err
		}
		status = s
	}
	if status != gdew027z22.BufferFilled {
		st.Warn("Unexpected panel status %#02x", status)
	}
	st.Done("done.")
	return nil
}
