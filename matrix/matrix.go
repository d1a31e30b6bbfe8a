// Copyright 2025 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package matrix builds the padded, optionally inverted module grid
// shared by all renderers.
package matrix // import "github.com/unixdj/qrimage/matrix"

import (
	"image"
	"strconv"
	"strings"
)

// A Grid is an immutable square grid of modules.  A true module is
// drawn in the foreground colour.
type Grid struct {
	cells []bool // row-major
	size  int
}

// A MalformedMatrixError describes a module matrix that is not square
// or arguments that cannot produce a grid.
type MalformedMatrixError struct {
	Row    int    // first offending row, -1 if not row specific
	Len    int    // length of that row
	Want   int    // expected length
	Reason string // set if not a row length mismatch
}

func (e *MalformedMatrixError) Error() string {
	if e.Reason != "" {
		return "matrix: malformed matrix: " + e.Reason
	}
	return "matrix: malformed matrix: row " + strconv.Itoa(e.Row) +
		" has " + strconv.Itoa(e.Len) + " modules, want " +
		strconv.Itoa(e.Want)
}

// Build returns the grid for modules surrounded by padding modules
// of background on each side.  If invert is set, every module of the
// result is complemented, the background included.  Build does not
// retain or modify modules.
func Build(modules [][]bool, padding int, invert bool) (*Grid, error) {
	if padding < 0 {
		return nil, &MalformedMatrixError{Row: -1,
			Reason: "negative padding " + strconv.Itoa(padding)}
	}
	n := len(modules)
	for i, row := range modules {
		if len(row) != n {
			return nil, &MalformedMatrixError{Row: i, Len: len(row),
				Want: n}
		}
	}
	size := n + 2*padding
	g := &Grid{cells: make([]bool, size*size), size: size}
	if invert {
		for i := range g.cells {
			g.cells[i] = true
		}
	}
	for y, row := range modules {
		line := g.cells[(y+padding)*size+padding:][:n]
		for x, v := range row {
			line[x] = v != invert
		}
	}
	return g, nil
}

// FromRows returns a grid holding rows as is.  It is Build with no
// padding and no inversion.
func FromRows(rows [][]bool) (*Grid, error) { return Build(rows, 0, false) }

// Parse returns a grid from a textual picture, one line per row,
// where '#', 'X' and '1' are true modules and anything else is false.
// Leading and trailing blank lines are ignored.
func Parse(s string) (*Grid, error) {
	lines := strings.Split(strings.Trim(s, "\n"), "\n")
	if len(lines) == 1 && lines[0] == "" {
		lines = nil
	}
	rows := make([][]bool, len(lines))
	for y, l := range lines {
		rows[y] = make([]bool, len(l))
		for x := 0; x < len(l); x++ {
			switch l[x] {
			case '#', 'X', '1':
				rows[y][x] = true
			}
		}
	}
	return FromRows(rows)
}

// Size returns the number of modules on a side.
func (g *Grid) Size() int {
	if g == nil {
		return 0
	}
	return g.size
}

// On reports whether the module at (x, y) is true.  Modules outside
// the grid are false.
func (g *Grid) On(x, y int) bool {
	return g != nil && 0 <= x && x < g.size && 0 <= y && y < g.size &&
		g.cells[y*g.size+x]
}

// Bounds returns the grid rectangle in module units.
func (g *Grid) Bounds() image.Rectangle {
	return image.Rect(0, 0, g.Size(), g.Size())
}

// Rows returns a copy of the grid as a slice of rows.
func (g *Grid) Rows() [][]bool {
	if g == nil {
		return nil
	}
	rows := make([][]bool, g.size)
	for y := range rows {
		rows[y] = append([]bool(nil), g.cells[y*g.size:][:g.size]...)
	}
	return rows
}

// Count returns the number of true modules.
func (g *Grid) Count() int {
	if g == nil {
		return 0
	}
	n := 0
	for _, v := range g.cells {
		if v {
			n++
		}
	}
	return n
}

// Equal reports whether g and h hold the same modules.
func (g *Grid) Equal(h *Grid) bool {
	if g.Size() != h.Size() {
		return false
	}
	for i := 0; i < g.Size()*g.Size(); i++ {
		if g.cells[i] != h.cells[i] {
			return false
		}
	}
	return true
}

// Invert returns the complement of g.
func (g *Grid) Invert() *Grid {
	if g == nil {
		return nil
	}
	h := &Grid{cells: make([]bool, len(g.cells)), size: g.size}
	for i, v := range g.cells {
		h.cells[i] = !v
	}
	return h
}

// Fill returns a copy of g with every module in r set to v.  The
// rectangle is clipped to the grid; g is returned if nothing remains.
func (g *Grid) Fill(r image.Rectangle, v bool) *Grid {
	r = r.Intersect(g.Bounds())
	if r.Empty() {
		return g
	}
	h := &Grid{cells: append([]bool(nil), g.cells...), size: g.size}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		line := h.cells[y*h.size:][r.Min.X:r.Max.X]
		for x := range line {
			line[x] = v
		}
	}
	return h
}

// String returns the grid as a picture in the format read by Parse.
func (g *Grid) String() string {
	var b strings.Builder
	b.Grow((g.Size() + 1) * g.Size())
	for y := 0; y < g.Size(); y++ {
		for x := 0; x < g.size; x++ {
			if g.On(x, y) {
				b.WriteByte('#')
			} else {
				b.WriteByte('.')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
