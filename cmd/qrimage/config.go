// Copyright 2025 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/BurntSushi/toml"

	"github.com/unixdj/qrimage/dimension"
	"github.com/unixdj/qrimage/overlay"
)

// config is the configuration file.  Keys are the long option names.
type config struct {
	Level      string       `toml:"level"`
	Version    *int         `toml:"version"`
	Padding    *int         `toml:"margin"`
	Scale      *int         `toml:"scale"`
	Size       *int         `toml:"size"`
	Errors     bool         `toml:"errors"`
	Encoder    string       `toml:"encoder"`
	Latin1     bool         `toml:"latin1"`
	Format     string       `toml:"type"`
	Output     string       `toml:"output"`
	Foreground string       `toml:"foreground"`
	Background string       `toml:"background"`
	Image      *imageConfig `toml:"image"`
}

// imageConfig is the [image] table.  Dimensions are numbers of
// modules or strings as accepted by package dimension; border is a
// number of modules or "none".
type imageConfig struct {
	Source string `toml:"source"`
	Width  any    `toml:"width"`
	Height any    `toml:"height"`
	X      any    `toml:"x"`
	Y      any    `toml:"y"`
	Border any    `toml:"border"`
}

func loadConfig(path string) (*config, error) {
	var c config
	md, err := toml.DecodeFile(path, &c)
	if err != nil {
		return nil, err
	}
	if u := md.Undecoded(); len(u) != 0 {
		return nil, fmt.Errorf("%s: unknown key %q", path, u[0].String())
	}
	return &c, nil
}

var errBorder = errors.New(`border must be a number or "none"`)

// parseBorder parses a border given as a number or "none".
func parseBorder(v any) (overlay.Border, error) {
	switch v := v.(type) {
	case nil:
		return overlay.Border{}, nil
	case int64:
		return overlay.BorderWidth(int(v)), nil
	case int:
		return overlay.BorderWidth(v), nil
	case string:
		if v == "none" {
			return overlay.NoBorder, nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return overlay.Border{}, errBorder
		}
		return overlay.BorderWidth(n), nil
	}
	return overlay.Border{}, errBorder
}

// descriptor returns the overlay descriptor of ic.
func (ic *imageConfig) descriptor() (*overlay.Descriptor, error) {
	d := &overlay.Descriptor{Source: overlay.URI(ic.Source)}
	for _, f := range []struct {
		dst *dimension.Spec
		v   any
	}{
		{&d.Width, ic.Width}, {&d.Height, ic.Height},
		{&d.X, ic.X}, {&d.Y, ic.Y},
	} {
		s, err := dimension.Parse(f.v)
		if err != nil {
			return nil, err
		}
		*f.dst = s
	}
	var err error
	if d.Border, err = parseBorder(ic.Border); err != nil {
		return nil, err
	}
	return d, nil
}
