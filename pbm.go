// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qrimage

import (
	"bufio"
	"io"
	"strconv"

	"github.com/unixdj/qrimage/matrix"
)

// EncodePBM writes a Portable Bit Map image displaying the code to w,
// for use with netpbm, at the scale set by WithScale.  In PBM true
// modules are black and colours are disregarded.  The overlay image
// is not drawn.
func (c *Code) EncodePBM(w io.Writer) error {
	g, err := c.Grid()
	if err != nil {
		return err
	}
	if g == nil {
		return ErrNoData
	}
	b := bufio.NewWriter(w)
	siz := g.Size()
	scale := max(c.scale, 1)
	length := scale * siz
	ls := strconv.Itoa(length)
	if _, err := b.WriteString("P4\n" + ls + " " + ls + "\n"); err != nil {
		return err
	}
	row := make([]byte, (length+7)/8)
	for y := 0; y < siz; y++ {
		if scale == 8 {
			pbmRow8(row, g, y)
		} else {
			pbmRow(row, g, y, scale)
		}
		for i := 0; i < scale; i++ {
			if _, err := b.Write(row); err != nil {
				return err
			}
		}
	}
	return b.Flush()
}

// pbmRow8 encodes row y of g in PBM format at scale 8.
func pbmRow8(row []byte, g *matrix.Grid, y int) {
	for x := range row {
		row[x] = 0
		if g.On(x, y) {
			row[x] = 0xff
		}
	}
}

// pbmRow encodes row y of g in PBM format.  Bits past the last
// module are zero.
func pbmRow(row []byte, g *matrix.Grid, y, scale int) {
	var z byte
	nz, j := 0, 0
	for x := 0; x < g.Size(); x++ {
		var bit byte
		if g.On(x, y) {
			bit = 1
		}
		for i := 0; i < scale; i++ {
			z = z<<1 | bit
			if nz++; nz == 8 {
				row[j] = z
				z, nz = 0, 0
				j++
			}
		}
	}
	if nz != 0 {
		row[j] = z << (8 - nz)
	}
}
