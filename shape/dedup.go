// Copyright 2025 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shape

import (
	"errors"
	"strconv"
)

// ErrUnknownBase is returned by Expand for a reference to a base
// entry that does not precede it.
var ErrUnknownBase = errors.New("shape: reference to unknown base")

// An Entry is an element of a deduplicated rectangle list.
//
// A base entry (Ref false) is a rectangle, the first of its size.
// A reference entry (Ref true) stands for a rectangle of the same size
// as base ID, translated by (X, Y) from the base's origin.
type Entry struct {
	ID            int
	X, Y          int
	Width, Height int // zero in reference entries
	Ref           bool
}

// Name returns the identifier of the base entry, "s" followed by the
// ID in base 36.
func (e Entry) Name() string { return "s" + strconv.FormatInt(int64(e.ID), 36) }

// size is the key of the base table.
type size struct{ w, h int }

// Deduplicate converts rs to entries in the same order.  IDs are
// assigned to base entries sequentially from 0.  Offsets of reference
// entries are relative to the first rectangle of each size.
func Deduplicate(rs []Rect) []Entry {
	if rs == nil {
		return nil
	}
	es := make([]Entry, len(rs))
	bases := make(map[size]Entry)
	for i, r := range rs {
		k := size{r.Width, r.Height}
		if b, ok := bases[k]; ok {
			es[i] = Entry{ID: b.ID, X: r.X - b.X, Y: r.Y - b.Y, Ref: true}
			continue
		}
		b := Entry{ID: len(bases), X: r.X, Y: r.Y,
			Width: r.Width, Height: r.Height}
		bases[k] = b
		es[i] = b
	}
	return es
}

// Expand reverses Deduplicate.
func Expand(es []Entry) ([]Rect, error) {
	if es == nil {
		return nil, nil
	}
	var bases []Entry
	rs := make([]Rect, len(es))
	for i, e := range es {
		if !e.Ref {
			if e.ID != len(bases) {
				return nil, ErrUnknownBase
			}
			bases = append(bases, e)
			rs[i] = Rect{e.X, e.Y, e.Width, e.Height}
			continue
		}
		if e.ID < 0 || e.ID >= len(bases) {
			return nil, ErrUnknownBase
		}
		b := bases[e.ID]
		rs[i] = Rect{b.X + e.X, b.Y + e.Y, b.Width, b.Height}
	}
	return rs, nil
}

// RefCount returns the number of references to each base entry,
// indexed by ID.
func RefCount(es []Entry) []int {
	var n []int
	for _, e := range es {
		if !e.Ref {
			n = append(n, 0)
		} else if e.ID < len(n) {
			n[e.ID]++
		}
	}
	return n
}
