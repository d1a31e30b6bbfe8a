// Copyright 2025 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qrimage

import (
	"io"
	"strings"
)

// halfBlocks is indexed by the top module in bit 1 and the bottom
// module in bit 0.  False modules are lit, for terminals with light
// text on a dark background.
var halfBlocks = [4]string{"█", "▀", "▄", " "}

// EncodeUTF8 writes the code to w as lines of UTF-8 half block
// characters, two rows of modules per line.
func (c *Code) EncodeUTF8(w io.Writer) error {
	g, err := c.Grid()
	if err != nil {
		return err
	}
	if g == nil {
		return ErrNoData
	}
	siz := g.Size()
	var b strings.Builder
	b.Grow((siz*len("█") + 1) * (siz + 1) / 2)
	for y := 0; y < siz; y += 2 {
		for x := 0; x < siz; x++ {
			n := 0
			if g.On(x, y) {
				n = 2
			}
			if g.On(x, y+1) {
				n++
			}
			b.WriteString(halfBlocks[n])
		}
		b.WriteByte('\n')
	}
	_, err = io.WriteString(w, b.String())
	return err
}

// EncodeASCII writes the code to w as lines of "##" for true modules
// and "  " for false ones.
func (c *Code) EncodeASCII(w io.Writer) error {
	g, err := c.Grid()
	if err != nil {
		return err
	}
	if g == nil {
		return ErrNoData
	}
	siz := g.Size()
	b := make([]byte, (siz*2+1)*siz)
	i := 0
	for y := 0; y < siz; y++ {
		for x := 0; x < siz; x++ {
			var p byte = ' '
			if g.On(x, y) {
				p = '#'
			}
			_ = b[i+1]
			b[i], b[i+1] = p, p
			i += 2
		}
		b[i] = '\n'
		i++
	}
	_, err = w.Write(b)
	return err
}
