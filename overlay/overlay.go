// Copyright 2025 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package overlay places an image over a QR code and clears the
// modules beneath it.
//
// Placement is declarative: width, height and position are
// dimension.Specs resolved against the grid size without padding,
// then translated by the padding into grid coordinates.
package overlay // import "github.com/unixdj/qrimage/overlay"

import (
	"image"

	"github.com/unixdj/qrimage/dimension"
	"github.com/unixdj/qrimage/matrix"
)

// DefaultBorder is the number of modules cleared around the image
// unless the Descriptor says otherwise.
const DefaultBorder = 1

// A Source is the image to embed: either a URI, resolved by an
// external loader for raster output and embedded verbatim in vector
// output, or an already decoded image.
type Source struct {
	uri string
	img image.Image
}

// URI returns a Source referring to an image by URI.
func URI(uri string) Source { return Source{uri: uri} }

// Decoded returns a Source holding a decoded image.
func Decoded(img image.Image) Source { return Source{img: img} }

// IsZero reports whether s refers to no image.
func (s Source) IsZero() bool { return s.uri == "" && s.img == nil }

// URI returns the URI of s, if it is a URI source.
func (s Source) URI() (string, bool) { return s.uri, s.img == nil && s.uri != "" }

// Image returns the decoded image of s, or nil for URI sources.
func (s Source) Image() image.Image { return s.img }

// A Border specifies how many modules around the image are cleared.
// The zero Border is DefaultBorder.
type Border struct {
	width int
	set   bool
	none  bool
}

// BorderWidth returns a Border clearing n modules around the image.
// Negative values shrink the cleared area.
func BorderWidth(n int) Border { return Border{width: n, set: true} }

// NoBorder disables clearing altogether: the image is drawn over the
// modules.
var NoBorder = Border{none: true}

// Width returns the border width and whether clearing is enabled.
func (b Border) Width() (int, bool) {
	switch {
	case b.none:
		return 0, false
	case b.set:
		return b.width, true
	}
	return DefaultBorder, true
}

// A Descriptor describes the placement of the image.  Without a
// Source, Width or Height there is no image.  An unset X or Y is not
// an error: it centres the image on that axis, as if it were "center".
type Descriptor struct {
	Source        Source
	Width, Height dimension.Spec
	X, Y          dimension.Spec
	Border        Border
}

// A Window is the resolved placement, in grid modules.
type Window struct {
	Source        Source
	X, Y          int
	Width, Height int
	Border        int  // cleared modules around the image
	Clear         bool // whether modules are cleared at all
}

// Rect returns the image rectangle.
func (w *Window) Rect() image.Rectangle {
	return image.Rect(w.X, w.Y, w.X+w.Width, w.Y+w.Height)
}

// ClearRect returns the rectangle of modules cleared in a grid of
// the given size: the image rectangle grown by the border on each
// side, each edge clamped to the grid.  The result is empty if
// nothing is cleared.
func (w *Window) ClearRect(gridSize int) image.Rectangle {
	if w == nil || !w.Clear || w.Width == 0 || w.Height == 0 {
		return image.Rectangle{}
	}
	b := w.Border
	r := image.Rectangle{
		Min: image.Pt(max(w.X-b, 0), max(w.Y-b, 0)),
		Max: image.Pt(min(w.X+w.Width+b, gridSize),
			min(w.Y+w.Height+b, gridSize)),
	}
	// Edges cross over for large negative borders; r is empty then.
	if r.Empty() {
		return image.Rectangle{}
	}
	return r
}

var center = dimension.Str("center")

// Compute resolves d against a grid of gridSize modules that
// includes padding modules on each side.  It returns nil if d is nil,
// has no source, width or height, or if the grid has no interior.
func Compute(d *Descriptor, gridSize, padding int) (*Window, error) {
	if d == nil || d.Source.IsZero() || d.Width.IsZero() || d.Height.IsZero() {
		return nil, nil
	}
	inner := gridSize - 2*padding
	if gridSize <= 0 || inner <= 0 {
		return nil, nil
	}
	w, err := dimension.Length(d.Width, inner)
	if err != nil {
		return nil, err
	}
	h, err := dimension.Length(d.Height, inner)
	if err != nil {
		return nil, err
	}
	xs, ys := d.X, d.Y
	if !xs.IsSet() {
		xs = center
	}
	if !ys.IsSet() {
		ys = center
	}
	x, err := dimension.Position(xs, w, inner)
	if err != nil {
		return nil, err
	}
	y, err := dimension.Position(ys, h, inner)
	if err != nil {
		return nil, err
	}
	win := &Window{
		Source: d.Source,
		X:      x + padding,
		Y:      y + padding,
		Width:  w,
		Height: h,
	}
	win.Border, win.Clear = d.Border.Width()
	return win, nil
}

// Apply returns g with the modules under w set to background.
// It returns g itself if nothing is cleared.
func Apply(g *matrix.Grid, w *Window, background bool) *matrix.Grid {
	return g.Fill(w.ClearRect(g.Size()), background)
}
