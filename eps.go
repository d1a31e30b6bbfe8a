// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2025 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qrimage

import (
	"bufio"
	"image/color"
	"io"
	"strconv"

	"github.com/unixdj/qrimage/shape"
)

// EncodeEPS writes the code to w as Encapsulated PostScript, centred
// on a US Letter page at scale points per module.  Background pixels
// are painted unless the background is nil.  The overlay image is not
// drawn; its modules are left clear.
//
// Each rectangle size that repeats becomes a procedure drawing it at
// the origin of the first rectangle of that size.
func (c *Code) EncodeEPS(w io.Writer) error {
	es, err := c.Shapes()
	if err != nil {
		return err
	}
	if es == nil {
		return ErrNoData
	}
	const midx, midy = 306, 396
	n := c.Size()
	scale := max(c.scale, 1)
	xorig := (midx*2 - n*scale) / 2
	yorig := (midy*2 - n*scale) / 2
	b := bufio.NewWriter(w)
	b.WriteString("%!PS-Adobe-2.0 EPSF-2.0\n" +
		"%%Creator: qrimage https://github.com/unixdj/qrimage\n" +
		"%%Title: QR Code\n" +
		"%%BoundingBox: ")
	writeInts(b, xorig, yorig, midx*2-xorig, midy*2-yorig)
	b.WriteString("\n%%EndComments\n%%EndProlog\n<< >> begin\ngsave\n")
	writeInts(b, xorig, midy*2-yorig)
	b.WriteString(" translate\n")
	writeInts(b, scale)
	b.WriteString(" dup neg scale\n/R { rectfill } def\n")
	if c.bg != nil {
		setColor(b, c.bg)
		b.WriteString("0 0 ")
		writeInts(b, n, n)
		b.WriteString(" R\n")
	}
	setColor(b, c.fg)
	refs := shape.RefCount(es)
	for _, e := range es {
		switch {
		case e.Ref:
			writeInts(b, e.X, e.Y)
			b.WriteString(" " + e.Name() + "\n")
		case refs[e.ID] > 0:
			// dx dy sN: draw base N translated by dx dy
			b.WriteString("/" + e.Name() + " { gsave translate ")
			writeInts(b, e.X, e.Y, e.Width, e.Height)
			b.WriteString(" R grestore } def\n0 0 " + e.Name() + "\n")
		default:
			writeInts(b, e.X, e.Y, e.Width, e.Height)
			b.WriteString(" R\n")
		}
	}
	b.WriteString("grestore\nend\n%%Trailer\n")
	return b.Flush()
}

func writeInts(b *bufio.Writer, v ...int) {
	for i, n := range v {
		if i != 0 {
			b.WriteByte(' ')
		}
		b.WriteString(strconv.Itoa(n))
	}
}

func setColor(b *bufio.Writer, c color.Color) {
	n := nrgba(c)
	for _, v := range [...]uint8{n.R, n.G, n.B} {
		b.WriteString(strconv.FormatFloat(float64(v)/0xff, 'g', 3, 64))
		b.WriteByte(' ')
	}
	b.WriteString("setrgbcolor\n")
}
