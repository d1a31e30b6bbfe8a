// Copyright 2025 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qrimage

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/color"
	"image/png"
	"io"
	"strconv"

	svg "github.com/ajstarks/svgo"

	"github.com/unixdj/qrimage/overlay"
	"github.com/unixdj/qrimage/shape"
)

// EncodeSVG writes the code to w as SVG.
//
// The view box is one unit per module, the width and height are
// those of Image.  Each rectangle size is drawn once; rectangles of
// the same size refer to it with a <use> element.  An overlay image
// given by URI is linked as is, a decoded one is embedded as PNG.
func (c *Code) EncodeSVG(w io.Writer) error {
	b, err := c.markup()
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

// SVG returns the SVG markup, or "" if the Code has no data or fails
// to render.
func (c *Code) SVG() string {
	b, err := c.markup()
	if err != nil {
		c.log.Debug("svg", "err", err)
		return ""
	}
	return string(b)
}

// DataURI returns the SVG markup as a data: URI, or "" if the Code
// has no data or fails to render.
func (c *Code) DataURI() string {
	b, err := c.markup()
	if err != nil {
		c.log.Debug("svg", "err", err)
		return ""
	}
	return "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString(b)
}

func (c *Code) markup() ([]byte, error) {
	return c.svg.get(c.gen, c.renderSVG)
}

func (c *Code) renderSVG() ([]byte, error) {
	es, err := c.Shapes()
	if err != nil {
		return nil, err
	}
	if es == nil {
		return nil, ErrNoData
	}
	win, _ := c.Window()
	n := c.Size()
	size := c.canvas(n)

	var buf bytes.Buffer
	s := svg.New(&buf)
	s.Startview(size, size, 0, 0, n, n)
	if c.bg != nil {
		s.Rect(0, 0, n, n, fill(c.bg)...)
	}
	s.Group(append(fill(c.fg), `shape-rendering="crispEdges"`)...)
	refs := shape.RefCount(es)
	for _, e := range es {
		switch {
		case e.Ref:
			use(s.Writer, e)
		case refs[e.ID] > 0:
			s.Rect(e.X, e.Y, e.Width, e.Height, `id="`+e.Name()+`"`)
		default:
			s.Rect(e.X, e.Y, e.Width, e.Height)
		}
	}
	s.Gend()
	if win != nil {
		href, err := imageHref(win.Source)
		if err != nil {
			return nil, err
		}
		s.Image(win.X, win.Y, win.Width, win.Height, href,
			`preserveAspectRatio="none"`)
	}
	s.End()
	return buf.Bytes(), nil
}

// use writes a reference to the base of e, offset by e.X, e.Y.  This
// is the short SVG 2 form: plain href, zero offsets omitted.
func use(w io.Writer, e shape.Entry) {
	b := append(make([]byte, 0, 40), `<use href="#`...)
	b = append(b, e.Name()...)
	b = append(b, '"')
	if e.X != 0 {
		b = append(b, ` x="`...)
		b = strconv.AppendInt(b, int64(e.X), 10)
		b = append(b, '"')
	}
	if e.Y != 0 {
		b = append(b, ` y="`...)
		b = strconv.AppendInt(b, int64(e.Y), 10)
		b = append(b, '"')
	}
	w.Write(append(b, "/>\n"...))
}

// fill returns the fill attributes for c.
func fill(c color.Color) []string {
	n := nrgba(c)
	a := []string{fmt.Sprintf(`fill="#%02x%02x%02x"`, n.R, n.G, n.B)}
	if n.A != 0xff {
		a = append(a, fmt.Sprintf(`fill-opacity="%.3g"`, float64(n.A)/0xff))
	}
	return a
}

// imageHref returns the link to the image of src.
func imageHref(src overlay.Source) (string, error) {
	if uri, ok := src.URI(); ok {
		return uri, nil
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, src.Image()); err != nil {
		return "", err
	}
	return pngDataURI(buf.Bytes()), nil
}
