// Copyright 2025 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package shape covers the true modules of a grid with rectangles and
compresses the rectangle list for vector output.

Decompose scans rows top to bottom, left to right.  Each maximal
horizontal run of true modules is grown downwards for as long as the
same columns are true in the next row.  The rectangle is kept if it
covers at least one module not covered before; otherwise it is
dropped.  Rectangles may overlap, which is harmless for a single fill
colour.  The cover is not minimal, but its size is bounded by the
grid area and it works well on QR codes.

Deduplicate then replaces each rectangle whose dimensions were seen
before by a reference to the first rectangle of that size and an
offset from it.
*/
package shape // import "github.com/unixdj/qrimage/shape"

import (
	"bytes"
	"image"
)

// A Bitmap is a square grid of modules, like *matrix.Grid.
type Bitmap interface {
	Size() int
	On(x, y int) bool
}

// A Rect is a rectangle of modules.
type Rect struct {
	X, Y          int
	Width, Height int
}

// Rectangle converts r to an image.Rectangle.
func (r Rect) Rectangle() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// Module states in the working buffer of Decompose.
const (
	off     byte = iota // background
	fresh               // true, not yet covered
	claimed             // true, covered by an emitted rectangle
)

// Decompose returns rectangles whose union is exactly the set of true
// modules of b, in scan order.  It returns nil if b is nil or empty.
func Decompose(b Bitmap) []Rect {
	if b == nil {
		return nil
	}
	n := b.Size()
	if n <= 0 {
		return nil
	}
	cells := make([]byte, n*n)
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			if b.On(x, y) {
				cells[y*n+x] = fresh
			}
		}
	}
	rs := []Rect{}
	for y := 0; y < n; y++ {
		row := cells[y*n:][:n]
		for x := 0; x < n; {
			if row[x] == off {
				x++
				continue
			}
			start := x
			for x < n && row[x] != off {
				x++
			}
			if r, ok := claim(cells, n, start, x, y); ok {
				rs = append(rs, r)
			}
		}
	}
	return rs
}

// claim grows the run of columns [x0, x1) at row y downwards over
// rows with no background module in those columns.  If the result
// covers a fresh module, claim marks it claimed and returns it.
// Rows of cells are stride bytes long.
func claim(cells []byte, stride, x0, x1, y int) (Rect, bool) {
	h, found := 0, false
	for yy := y; yy < len(cells)/stride; yy++ {
		line := cells[yy*stride:][x0:x1]
		if bytes.IndexByte(line, off) >= 0 {
			break
		}
		found = found || bytes.IndexByte(line, fresh) >= 0
		h++
	}
	if !found {
		return Rect{}, false
	}
	for yy := y; yy < y+h; yy++ {
		line := cells[yy*stride:][x0:x1]
		for i := range line {
			line[i] = claimed
		}
	}
	return Rect{X: x0, Y: y, Width: x1 - x0, Height: h}, true
}
