// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// eink-test exercises a GDEW027Z22 panel.
//
// Usage:
//
//	eink-test [flags] [MODE]
//
// Modes:
//
//	-1  only clear the panel (default)
//	 0  pattern fill: 0x36 on the black plane, 0x18 on the red plane
//	 1  load -image, save the processed result to -out, clear the panel
//	 2  show -image
//	 3  show -logo
//	 4  show a text card
//
// A negative mode has to follow "--" or be given with -mode.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/GermanBionicSystems/epaper/gdew027z22"
	"github.com/GermanBionicSystems/epaper/internal/cli"
	"github.com/GermanBionicSystems/epaper/internal/config"
	"github.com/GermanBionicSystems/epaper/internal/imagefile"
	"github.com/GermanBionicSystems/epaper/internal/panel"
	"github.com/GermanBionicSystems/epaper/internal/render"
)

type options struct {
	image, logo, out string
	title, text      string
	font             string
	size             float64
}

func main() {
	os.Exit(mainImpl())
}

func mainImpl() int {
	mode := flag.Int("mode", -1, "test mode, see the package documentation")
	configPath := flag.String("config", "/etc/epaper.yaml", "configuration file")
	preview := flag.Bool("preview", false, "print the result on the terminal instead of the panel")
	verbose := flag.Bool("v", false, "verbose logging")
	noColor := flag.Bool("no-color", false, "disable colors")
	var o options
	flag.StringVar(&o.image, "image", "GDEW027Z22-test.png", "image shown by modes 1 and 2")
	flag.StringVar(&o.logo, "logo", "logo-GDEW027Z22-rbw.bmp", "image shown by mode 3")
	flag.StringVar(&o.out, "out", "test1.png", "processed image written by mode 1")
	flag.StringVar(&o.title, "title", "GDEW027Z22", "title of the text card")
	flag.StringVar(&o.text, "text", "Black, white and red e-paper driver test.", "text card body")
	flag.StringVar(&o.font, "font", "", "font of the text card, Go Regular by default")
	flag.Float64Var(&o.size, "size", 18, "font size in points")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] [MODE]\n", os.Args[0])
		fmt.Fprint(flag.CommandLine.Output(), "Modes: -1 clear, 0 pattern, 1 load and save, 2 image, 3 logo, 4 text card\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	cli.SupportsColor(*noColor)
	st := cli.NewStatus()

	switch flag.NArg() {
	case 0:
	case 1:
		m, err := strconv.Atoi(flag.Arg(0))
		if err != nil {
			flag.Usage()
			return 1
		}
		*mode = m
	default:
		flag.Usage()
		return 1
	}
	if *mode < -1 || *mode > 4 {
		st.Fail("Unknown test mode: %d", *mode)
		return 1
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

	st.Title("E-INK GDEW027Z22 driver test program...")
	var target panel.Target
	if *preview {
		target = panel.NewPreview(nil, 2)
	} else {
		dev, err := panel.Open(cfg, logger)
		if err != nil {
			st.Fail("%v", err)
			return 1
		}
		target = dev
	}
	defer func() {
		if err := target.Close(); err != nil {
			logger.Error("close failed", "err", err)
		}
	}()
	st.Info("Init done.")
	st.Info("Selected test mode: %d", *mode)

	if err := run(st, target, *mode, &o); err != nil {
		st.Fail("Error occurred: %v", err)
		return 3
	}

	st.Info("Power down display...")
	if err := target.Shutdown(); err != nil {
		st.Fail("%v", err)
		return 3
	}
	if err := target.DeepSleep(); err != nil {
		st.Fail("%v", err)
		return 3
	}
	st.Done("*** END. ***")
	return 0
}

func run(st *cli.Status, t panel.Target, mode int, o *options) error {
	st.Info("Clear B/W...")
	if err := t.Clear(gdew027z22.BlackWhite, 0x00); err != nil {
		return err
	}
	st.Info("Clear Red/W...")
	if err := t.Clear(gdew027z22.RedWhite, 0x00); err != nil {
		return err
	}

	switch mode {
	case 0:
		st.Info("Pattern black 0x36...")
		if err := t.Clear(gdew027z22.BlackWhite, 0x36); err != nil {
			return err
		}
		st.Info("Pattern red 0x18...")
		if err := t.Clear(gdew027z22.RedWhite, 0x18); err != nil {
			return err
		}
	case 1:
		if err := load(st, t, o.image); err != nil {
			return err
		}
		st.Info("Saving the processed image to %s", cli.Name(o.out))
		if err := imagefile.SavePNG(o.out, t.Framebuffer()); err != nil {
			return err
		}
	case 2, 3:
		path := o.image
		if mode == 3 {
			path = o.logo
		}
		if err := load(st, t, path); err != nil {
			return err
		}
		return update(st, t)
	case 4:
		face, err := render.Face(o.font, o.size)
		if err != nil {
			return fmt.Errorf("font %q: %w", o.font, err)
		}
		t.Framebuffer().Load(render.Card(o.title, o.text, face))
		return update(st, t)
	}

	st.Info("Display update...")
	status, err := t.Refresh(gdew027z22.Blocking)
	if err != nil {
		return err
	}
	st.Done("done, status %#02x.", status)
	return nil
}

func load(st *cli.Status, t panel.Target, path string) error {
	st.Info("Loading test image: %s", cli.Name(path))
	img, _, err := imagefile.Load(path)
	if err != nil {
		return err
	}
	t.Framebuffer().Load(img)
	return nil
}

func update(st *cli.Status, t panel.Target) error {
	st.Info("Update display...")
	status, err := t.Update()
	if err != nil {
		return err
	}
	st.Done("done, status %#02x.", status)
	return nil
}
