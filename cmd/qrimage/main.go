// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2025 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Qrimage writes a QR code, optionally with an image in the middle,
// as PNG, SVG, EPS, PBM or text.
package main

import (
	"bytes"
	"context"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"
	"github.com/pborman/getopt/v2"

	"github.com/unixdj/qrimage"
	"github.com/unixdj/qrimage/dimension"
	"github.com/unixdj/qrimage/imgsrc"
	"github.com/unixdj/qrimage/overlay"
	"github.com/unixdj/qrimage/symbol"
)

var g = struct {
	scale   int                 // pixels per module
	size    int                 // image size
	padding int                 // quiet zone
	version int                 // QR version
	level   qrimage.Level       // QR correction level
	format  int                 // output file format
	invert  bool                // reverse colours
	errors  bool                // fail on encoding errors
	zxing   bool                // ZXing encoder
	latin1  bool                // Latin-1 byte mode
	debug   bool                // debug logging
	fn      string              // output filename
	conf    string              // configuration file
	bg, fg  colour              // colours
	img     imageFlags          // overlay image
	desc    *overlay.Descriptor // overlay descriptor
	dir     string              // directory for relative image paths
}{
	scale:   qrimage.DefaultScale,
	padding: qrimage.DefaultPadding,
	bg:      colour{c: color.NRGBA{0xff, 0xff, 0xff, 0xff}},
	fg:      colour{c: color.NRGBA{0x00, 0x00, 0x00, 0xff}},
}

var logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "qrimage"})

func printUsage(w io.Writer) {
	cl := getopt.CommandLine
	fmt.Fprint(w, "QR code image generator\nUsage: ", cl.Program(), " ",
		cl.UsageLine(), ` [string ...]
If no string is given, data is read from standard input and the final
newline is stripped.  Options given on the command line override those
in the configuration file, whose keys are the long option names, with
an [image] table for source, width, height, x, y and border.

`)
	var b bytes.Buffer
	cl.PrintOptions(&b)
	w.Write(b.Bytes())
}

type opt func()

func (opt) String() string                    { return "" }
func (o opt) Set(string, getopt.Option) error { o(); return nil }

func usage() {
	printUsage(os.Stderr)
	os.Exit(2)
}

func help() {
	printUsage(os.Stdout)
	os.Exit(0)
}

func version() {
	fmt.Println(`qrimage version 0.1.0
Copyright (c) 2011 The Go Authors
Copyright (c) 2025 Vadim Vygonets`)
	os.Exit(0)
}

// colour is a getopt.Value holding a colour or none.
type colour struct {
	c    color.NRGBA
	none bool
}

func (c *colour) String() string {
	if c.none {
		return "none"
	}
	return qrimage.FormatColor(c.c)
}

func (c *colour) Set(s string, _ getopt.Option) error {
	if s == "none" {
		*c = colour{none: true}
		return nil
	}
	v, err := qrimage.ParseColor(s)
	if err != nil {
		return err
	}
	*c = colour{c: v}
	return nil
}

func (c *colour) color() color.Color {
	if c.none {
		return nil
	}
	return c.c
}

// imageFlags are the overlay image options.
type imageFlags struct {
	source, width, height, x, y, border string
}

var formats = []string{
	"png", "pngi", "svg", "svgi", "eps", "epsi",
	"pbm", "pbmi", "utf8", "utf8i", "ascii", "asciii",
}

var writers = [...]func(*qrimage.Code, io.Writer) error{
	func(c *qrimage.Code, w io.Writer) error {
		return c.EncodePNG(context.Background(), w)
	},
	(*qrimage.Code).EncodeSVG,
	(*qrimage.Code).EncodeEPS,
	(*qrimage.Code).EncodePBM,
	(*qrimage.Code).EncodeUTF8,
	(*qrimage.Code).EncodeASCII,
}

func parseFlags() {
	getopt.SetUsage(usage)
	getopt.Flag(opt(help), 'h', "show this help").SetFlag()
	getopt.Flag(opt(version), 'V', "print version and copyright").SetFlag()
	getopt.FlagLong(&g.conf, "config", 'c', "configuration file in TOML",
		"file")
	getopt.FlagLong(&g.bg, "background", 'B', `background colour, `+
		`or "none" for transparent; see -F`, "RGB[A]|name")
	getopt.FlagLong(&g.fg, "foreground", 'F', `foreground colour `+
		`as 3, 4, 6 or 8 hex digits or a colour name; `+
		`only for types png[i], svg[i] and eps[i]`, "RGB[A]|name")
	getopt.FlagLong(&g.latin1, "latin1", '1',
		"convert text to Latin-1 for byte mode")
	getopt.FlagLong(&g.zxing, "zxing", 'Z', "encode with ZXing, "+
		"choosing segments and mask pattern")
	getopt.FlagLong(&g.errors, "errors", 'e', "fail if the text cannot "+
		"be encoded, instead of writing nothing")
	getopt.FlagLong(&g.debug, "debug", 'd', "log debug messages")
	getopt.FlagLong(&g.padding, "margin", 'm', "quiet zone modules [1]",
		"margin")
	fno := getopt.FlagLong(&g.fn, "output", 'o', `output file, or "-" `+
		`for standard output`, "file")
	ver := getopt.Unsigned('v', 0, &getopt.UnsignedLimit{Base: 0, Bits: 8, Min: 0, Max: 40},
		"QR code version, 0 for the smallest that fits", "ver")
	lev := getopt.Enum('l',
		[]string{"l", "m", "q", "h", "L", "M", "Q", "H"}, "l",
		"error correction level, lowest to highest", "l|m|q|h")
	scale := getopt.Unsigned('s', qrimage.DefaultScale,
		&getopt.UnsignedLimit{Base: 0, Bits: 16, Min: 1, Max: 1 << 12},
		`image pixels (type eps[i]: points) per QR module; `+
			`ignored for types utf8[i] and ascii[i]`, "scale")
	size := getopt.Unsigned('S', 0, &getopt.UnsignedLimit{Base: 0, Bits: 16, Min: 0, Max: 1 << 15},
		"image width in pixels for types png[i] and svg[i]; "+
			"overrides -s", "size")
	getopt.FlagLong(&g.img.source, "image", 'I', "overlay image "+
		"file or data: URI", "file")
	getopt.FlagLong(&g.img.width, "width", 'W', "overlay width in "+
		`modules, or percentage of the code ("20%")`, "width")
	getopt.FlagLong(&g.img.height, "height", 'H', "overlay height; "+
		"see -W", "height")
	getopt.FlagLong(&g.img.x, "x", 'X', `overlay position: modules, `+
		`percentage, "left", "center", "right", or "right 2"; `+
		`default center`, "x")
	getopt.FlagLong(&g.img.y, "y", 'Y', `overlay position; `+
		`see -X with "top" and "bottom"`, "y")
	getopt.FlagLong(&g.img.border, "border", 'b', `modules cleared `+
		`around the overlay, or "none" [1]`, "border")
	ff := getopt.Enum('t', formats, "", `output format, one of: `+
		strings.Join(formats, ", ")+
		`; types with "i" appended have colours inverted; `+
		`if no -o is given and standard output is a TTY, `+
		`default is utf8, otherwise png`, "type")

	getopt.Parse()
	if g.debug {
		logger.SetLevel(log.DebugLevel)
	}
	g.scale = int(*scale)
	g.size = int(*size)
	g.version = int(*ver)
	g.level, _ = symbol.ParseLevel(*lev)
	if g.conf != "" {
		cf, err := loadConfig(g.conf)
		if err != nil {
			logger.Fatal("bad configuration", "err", err)
		}
		if err := merge(cf, ff); err != nil {
			logger.Fatal("bad configuration", "file", g.conf, "err", err)
		}
		g.dir = filepath.Dir(g.conf)
	}
	if *ff == "" {
		if !fno.Seen() && g.fn == "" &&
			isatty.IsTerminal(uintptr(syscall.Stdout)) {
			*ff = "utf8"
		} else {
			*ff = "png"
		}
	}
	for i, v := range formats {
		if *ff == v {
			g.format = i >> 1
			g.invert = i&1 != 0
			break
		}
	}
	if g.fn == "-" {
		g.fn = ""
	}
	if g.img.source != "" {
		d, err := g.img.descriptor()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			usage()
		}
		g.desc = d
		g.dir = ""
	}
}

// merge sets options from cf that were not given on the command line.
func merge(cf *config, ff *string) error {
	set := func(r rune) bool { return getopt.IsSet(r) }
	if cf.Level != "" && !set('l') {
		l, err := symbol.ParseLevel(cf.Level)
		if err != nil {
			return err
		}
		g.level = l
	}
	for _, v := range []struct {
		r   rune
		src *int
		dst *int
	}{
		{'v', cf.Version, &g.version},
		{'m', cf.Padding, &g.padding},
		{'s', cf.Scale, &g.scale},
		{'S', cf.Size, &g.size},
	} {
		if v.src != nil && !set(v.r) {
			*v.dst = *v.src
		}
	}
	g.errors = g.errors || cf.Errors
	g.latin1 = g.latin1 || cf.Latin1
	switch cf.Encoder {
	case "", "rsc":
	case "zxing":
		g.zxing = true
	default:
		return fmt.Errorf("unknown encoder %q", cf.Encoder)
	}
	if cf.Format != "" && !set('t') {
		*ff = cf.Format
		found := false
		for _, v := range formats {
			found = found || v == cf.Format
		}
		if !found {
			return fmt.Errorf("unknown type %q", cf.Format)
		}
	}
	if cf.Output != "" && !set('o') {
		g.fn = cf.Output
	}
	for _, v := range []struct {
		r   rune
		src string
		dst *colour
	}{
		{'F', cf.Foreground, &g.fg},
		{'B', cf.Background, &g.bg},
	} {
		if v.src != "" && !set(v.r) {
			if err := v.dst.Set(v.src, nil); err != nil {
				return err
			}
		}
	}
	if cf.Image != nil && !set('I') {
		d, err := cf.Image.descriptor()
		if err != nil {
			return err
		}
		g.desc = d
	}
	return nil
}

// descriptor returns the overlay descriptor given by the flags.
func (f *imageFlags) descriptor() (*overlay.Descriptor, error) {
	d := &overlay.Descriptor{Source: overlay.URI(f.source)}
	for _, v := range []struct {
		dst *dimension.Spec
		s   string
	}{
		{&d.Width, f.width}, {&d.Height, f.height},
		{&d.X, f.x}, {&d.Y, f.y},
	} {
		if v.s != "" {
			*v.dst = dimension.Str(v.s)
		}
	}
	var err error
	if f.border != "" {
		d.Border, err = parseBorder(f.border)
	}
	return d, err
}

// options returns the options for the Code.
func options() []qrimage.Option {
	var enc symbol.Encoder = symbol.RSC{}
	if g.zxing {
		enc = symbol.ZXing{}
	}
	if g.latin1 {
		enc = symbol.Latin1(enc)
	}
	return []qrimage.Option{
		qrimage.WithLevel(g.level),
		qrimage.WithVersion(g.version),
		qrimage.WithPadding(g.padding),
		qrimage.WithInvert(g.invert),
		qrimage.WithErrors(g.errors),
		qrimage.WithColors(g.fg.color(), g.bg.color()),
		qrimage.WithScale(g.scale),
		qrimage.WithSize(g.size),
		qrimage.WithEncoder(enc),
		qrimage.WithImage(g.desc),
		qrimage.WithLoader(imgsrc.Files{Dir: g.dir, AutoOrient: true}),
		qrimage.WithLogger(logger),
	}
}

func main() {
	parseFlags()

	var s string
	if args := getopt.Args(); len(args) != 0 {
		s = strings.Join(args, " ")
	} else {
		var b strings.Builder
		if _, err := io.Copy(&b, os.Stdin); err != nil {
			logger.Fatal("reading input", "err", err)
		}
		s, _ = strings.CutSuffix(
			strings.ReplaceAll(b.String(), "\r\n", "\n"), "\n")
	}

	c := qrimage.New(s, options()...)
	if err := write(c); err != nil {
		logger.Fatal("cannot write code", "err", err)
	}
}

func write(c *qrimage.Code) error {
	w := os.Stdout
	if g.fn != "" {
		var err error
		if w, err = os.OpenFile(g.fn, os.O_WRONLY|os.O_CREATE|os.O_TRUNC,
			0666); err != nil {
			return err
		}
	}
	err := writers[g.format](c, w)
	if g.fn != "" {
		if cerr := w.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
