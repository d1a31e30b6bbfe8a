// Copyright 2025 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qrimage

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/png"
	"io"

	"golang.org/x/image/draw"

	"github.com/unixdj/qrimage/imgsrc"
	"github.com/unixdj/qrimage/matrix"
	"github.com/unixdj/qrimage/overlay"
)

// Image returns the code as an image, with the overlay image drawn
// over it.  An overlay image given by URI is loaded with the Loader
// on first use; ctx bounds the wait for it.
//
// The image is the size set by WithSize, or the scale times the grid
// size.  It returns ErrNoData if the Code has no data.
func (c *Code) Image(ctx context.Context) (image.Image, error) {
	b, err := c.get()
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrNoData
	}
	n := b.grid.Size()
	size := c.canvas(n)
	dst := image.NewNRGBA(image.Rect(0, 0, size, size))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), c.modules(b.grid),
		image.Rect(0, 0, n, n), draw.Src, nil)
	if b.window == nil {
		return dst, nil
	}
	src, err := c.overlayImage(ctx, b.window)
	if err != nil {
		return nil, err
	}
	px := float64(size) / float64(n)
	r := image.Rect(
		int(float64(b.window.X)*px), int(float64(b.window.Y)*px),
		int(float64(b.window.X+b.window.Width)*px),
		int(float64(b.window.Y+b.window.Height)*px))
	draw.CatmullRom.Scale(dst, r, src, src.Bounds(), draw.Over, nil)
	return dst, nil
}

// modules returns an image of g with one pixel per module.
func (c *Code) modules(g *matrix.Grid) *image.NRGBA {
	n := g.Size()
	fg, bg := nrgba(c.fg), nrgba(c.bg)
	img := image.NewNRGBA(image.Rect(0, 0, n, n))
	i := 0
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			p := bg
			if g.On(x, y) {
				p = fg
			}
			img.Pix[i+0], img.Pix[i+1] = p.R, p.G
			img.Pix[i+2], img.Pix[i+3] = p.B, p.A
			i += 4
		}
	}
	return img
}

// overlayImage returns the decoded overlay image of w.  A load is
// kept for as long as the URI stays the same, unless it fails.
func (c *Code) overlayImage(ctx context.Context, w *overlay.Window) (image.Image, error) {
	if img := w.Source.Image(); img != nil {
		return img, nil
	}
	uri, _ := w.Source.URI()
	if c.pending == nil || c.pending.URI() != uri {
		c.log.Debug("loading overlay", "uri", uri)
		c.pending = imgsrc.Start(context.WithoutCancel(ctx), c.loader, uri)
	}
	img, err := c.pending.Wait(ctx)
	if c.pending.State() == imgsrc.Failed {
		c.pending = nil
	}
	return img, err
}

// EncodePNG writes the image returned by Image to w as PNG.
func (c *Code) EncodePNG(ctx context.Context, w io.Writer) error {
	img, err := c.Image(ctx)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// PNGDataURI returns the PNG image as a data: URI.
func (c *Code) PNGDataURI(ctx context.Context) (string, error) {
	var buf bytes.Buffer
	if err := c.EncodePNG(ctx, &buf); err != nil {
		return "", err
	}
	return pngDataURI(buf.Bytes()), nil
}

func pngDataURI(b []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(b)
}
