// Copyright 2025 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package qrimage renders QR codes as raster images, SVG, EPS, PBM and
text, optionally with an image placed over the middle of the code.

A Code holds the text and its rendering options.  The module grid,
the overlay window and the SVG markup are computed on first use and
cached until a setter changes something they depend on.

The grid is the encoded symbol surrounded by a quiet zone of padding
modules, complemented if inverted, with the modules beneath the
overlay image and its border cleared.  True modules are drawn in the
foreground colour.

By default an encoding failure, such as text too long for the chosen
version, is not an error: the Code has no data, renderers produce
nothing and writers return ErrNoData.  WithErrors reports the failure
as an *EncodingError instead.
*/
package qrimage // import "github.com/unixdj/qrimage"

import (
	"errors"
	"image/color"
	"io"

	"github.com/charmbracelet/log"

	"github.com/unixdj/qrimage/imgsrc"
	"github.com/unixdj/qrimage/matrix"
	"github.com/unixdj/qrimage/overlay"
	"github.com/unixdj/qrimage/shape"
	"github.com/unixdj/qrimage/symbol"
)

// ErrNoData is returned by writers when the Code has no data.
var ErrNoData = errors.New("qrimage: no data")

// A Level denotes a QR error correction level.
type Level = symbol.Level

const (
	L = symbol.L // 7% recovery
	M = symbol.M // 15% recovery
	Q = symbol.Q // 25% recovery
	H = symbol.H // 30% recovery
)

// Defaults.
const (
	DefaultPadding = 1
	DefaultScale   = 10
)

// An EncodingError reports the failure to encode a value.
type EncodingError struct {
	Value string
	Err   error
}

func (e *EncodingError) Error() string {
	return "qrimage: cannot encode " + quote(e.Value) + ": " + e.Err.Error()
}

func (e *EncodingError) Unwrap() error { return e.Err }

// quote quotes s, shortened if long.
func quote(s string) string {
	const max = 32
	if r := []rune(s); len(r) > max {
		s = string(r[:max]) + "..."
	}
	return `"` + s + `"`
}

// A Code is a QR code and its rendering options.
// A Code is not safe for concurrent use.
type Code struct {
	value   string
	level   Level
	version int
	padding int
	invert  bool
	errors  bool
	image   *overlay.Descriptor

	fg, bg color.Color // bg nil: transparent
	scale  int
	size   int

	enc    symbol.Encoder
	loader imgsrc.Loader
	log    *log.Logger

	gen     uint64 // bumped by every setter
	built   memo[*build]
	shapes  memo[[]shape.Entry]
	svg     memo[[]byte]
	pending *imgsrc.Pending
}

// build is the result of encoding: the final grid and the overlay
// window it was carved for.
type build struct {
	grid   *matrix.Grid
	window *overlay.Window
}

// A memo holds a value computed for one generation of a Code.
type memo[T any] struct {
	gen uint64
	ok  bool
	v   T
	err error
}

func (m *memo[T]) get(gen uint64, f func() (T, error)) (T, error) {
	if !m.ok || m.gen != gen {
		m.v, m.err = f()
		m.gen, m.ok = gen, true
	}
	return m.v, m.err
}

// An Option sets a rendering option of a Code.
type Option func(*Code)

// WithLevel sets the error correction level.  The default is L.
func WithLevel(l Level) Option { return func(c *Code) { c.level = l } }

// WithVersion forces a QR version between 1 and 40.  The default, 0,
// selects the smallest version that fits the text.
func WithVersion(v int) Option { return func(c *Code) { c.version = v } }

// WithPadding sets the width of the quiet zone in modules.
func WithPadding(n int) Option { return func(c *Code) { c.padding = n } }

// WithInvert complements the grid, quiet zone included.
func WithInvert(v bool) Option { return func(c *Code) { c.invert = v } }

// WithErrors makes encoding failures errors instead of no data.
func WithErrors(v bool) Option { return func(c *Code) { c.errors = v } }

// WithImage places an image over the code.
func WithImage(d *overlay.Descriptor) Option { return func(c *Code) { c.image = d } }

// WithColors sets the foreground and background colours.
// A nil background is transparent.
func WithColors(fg, bg color.Color) Option {
	return func(c *Code) { c.fg, c.bg = fg, bg }
}

// WithScale sets the number of pixels per module of raster output
// and the default size of vector output.
func WithScale(n int) Option { return func(c *Code) { c.scale = n } }

// WithSize sets the width and height of the output in pixels,
// overriding the scale.
func WithSize(n int) Option { return func(c *Code) { c.size = n } }

// WithEncoder sets the QR encoder.  The default is symbol.RSC.
func WithEncoder(e symbol.Encoder) Option { return func(c *Code) { c.enc = e } }

// WithLoader sets the loader of overlay images given by URI.
// The default is imgsrc.Files{}.
func WithLoader(l imgsrc.Loader) Option { return func(c *Code) { c.loader = l } }

// WithLogger sets the logger for debug events.
func WithLogger(l *log.Logger) Option { return func(c *Code) { c.log = l } }

// New returns a Code for value.
func New(value string, opts ...Option) *Code {
	c := &Code{
		value:   value,
		level:   L,
		padding: DefaultPadding,
		fg:      color.Black,
		bg:      color.White,
		scale:   DefaultScale,
		enc:     symbol.RSC{},
		loader:  imgsrc.Files{},
	}
	for _, o := range opts {
		o(c)
	}
	if c.log == nil {
		c.log = log.New(io.Discard)
	}
	return c
}

// Value returns the encoded text.
func (c *Code) Value() string { return c.value }

// Level returns the error correction level.
func (c *Code) Level() Level { return c.level }

// Version returns the requested QR version, 0 for the smallest that
// fits.
func (c *Code) Version() int { return c.version }

// Padding returns the quiet zone width in modules.
func (c *Code) Padding() int { return c.padding }

// Inverted reports whether modules are inverted.
func (c *Code) Inverted() bool { return c.invert }

// Overlay returns the image descriptor, or nil.
func (c *Code) Overlay() *overlay.Descriptor { return c.image }

// Colors returns the foreground and background colours.  A nil
// background is transparent.
func (c *Code) Colors() (fg, bg color.Color) { return c.fg, c.bg }

// Scale returns the number of pixels per module.
func (c *Code) Scale() int { return c.scale }

// ErrorsEnabled reports whether encoding errors are returned rather
// than treated as no data.
func (c *Code) ErrorsEnabled() bool { return c.errors }

// touch invalidates cached results.
func (c *Code) touch() { c.gen++ }

// The setters below change one parameter each and invalidate cached
// results.

// SetValue sets the encoded text.
func (c *Code) SetValue(s string) { c.value = s; c.touch() }

// SetLevel sets the error correction level.
func (c *Code) SetLevel(l Level) { c.level = l; c.touch() }

// SetVersion sets the QR version, 0 for the smallest that fits.
func (c *Code) SetVersion(v int) { c.version = v; c.touch() }

// SetPadding sets the quiet zone width in modules.
func (c *Code) SetPadding(n int) { c.padding = n; c.touch() }

// SetInvert sets whether modules are inverted.
func (c *Code) SetInvert(v bool) { c.invert = v; c.touch() }

// SetImage sets the image descriptor; nil removes the image.
func (c *Code) SetImage(d *overlay.Descriptor) { c.image = d; c.touch() }

// SetColors sets the foreground and background colours.
func (c *Code) SetColors(fg, bg color.Color) { c.fg, c.bg = fg, bg; c.touch() }

// SetScale sets the number of pixels per module.
func (c *Code) SetScale(n int) { c.scale = n; c.touch() }

// SetSize sets the raster image size in pixels, overriding the scale.
// Zero uses the scale.
func (c *Code) SetSize(n int) { c.size = n; c.touch() }

// Generation returns a counter incremented by every setter.
func (c *Code) Generation() uint64 { return c.gen }

// get returns the cached build.  It is nil if the Code has no data.
func (c *Code) get() (*build, error) {
	return c.built.get(c.gen, c.encode)
}

func (c *Code) encode() (*build, error) {
	m, err := c.enc.Encode(c.value, c.level, c.version)
	if err != nil {
		err = &EncodingError{Value: c.value, Err: err}
		if c.errors {
			return nil, err
		}
		c.log.Debug("no data", "err", err)
		return nil, nil
	}
	g, err := matrix.Build(m, c.padding, c.invert)
	if err != nil {
		return nil, err
	}
	w, err := overlay.Compute(c.image, g.Size(), c.padding)
	if err != nil {
		return nil, err
	}
	if w != nil {
		c.log.Debug("overlay", "x", w.X, "y", w.Y,
			"width", w.Width, "height", w.Height, "border", w.Border)
		g = overlay.Apply(g, w, c.invert)
	}
	c.log.Debug("grid built", "generation", c.gen, "size", g.Size())
	return &build{grid: g, window: w}, nil
}

// Grid returns the module grid, or nil if the Code has no data.
func (c *Code) Grid() (*matrix.Grid, error) {
	b, err := c.get()
	if b == nil {
		return nil, err
	}
	return b.grid, nil
}

// Modules returns the modules of the grid indexed [y][x], or nil if
// the Code has no data.
func (c *Code) Modules() ([][]bool, error) {
	g, err := c.Grid()
	if g == nil {
		return nil, err
	}
	return g.Rows(), nil
}

// Window returns the overlay window in grid modules, or nil if there
// is no overlay or no data.
func (c *Code) Window() (*overlay.Window, error) {
	b, err := c.get()
	if b == nil {
		return nil, err
	}
	return b.window, nil
}

// Size returns the width of the grid in modules, quiet zone
// included, or 0 if the Code has no data or fails to encode.
func (c *Code) Size() int {
	g, _ := c.Grid()
	return g.Size()
}

// canvas returns the width of the output in pixels for a grid of n
// modules.
func (c *Code) canvas(n int) int {
	switch {
	case c.size > 0:
		return c.size
	case c.scale > 0:
		return c.scale * n
	}
	return n
}

// Rects returns rectangles covering the true modules of the grid,
// or nil if the Code has no data.
func (c *Code) Rects() ([]shape.Rect, error) {
	g, err := c.Grid()
	if g == nil {
		return nil, err
	}
	return shape.Decompose(g), nil
}

// Shapes returns the rectangles of Rects with repeated sizes
// replaced by references, or nil if the Code has no data.
func (c *Code) Shapes() ([]shape.Entry, error) {
	return c.shapes.get(c.gen, func() ([]shape.Entry, error) {
		rs, err := c.Rects()
		if rs == nil {
			return nil, err
		}
		es := shape.Deduplicate(rs)
		if c.log.GetLevel() <= log.DebugLevel {
			n := 0
			for _, e := range es {
				if !e.Ref {
					n++
				}
			}
			c.log.Debug("shapes", "rects", len(rs), "bases", n)
		}
		return es, nil
	})
}
