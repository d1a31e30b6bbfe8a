// Copyright 2025 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package symbol

import (
	"rsc.io/qr"
	"rsc.io/qr/coding"
)

// RSC encodes with rsc.io/qr.  The text is encoded in a single
// segment: numeric or alphanumeric mode if possible, byte mode
// otherwise.  Mask pattern 0 is used.
type RSC struct{}

// Encode implements Encoder.
func (RSC) Encode(text string, l Level, version int) ([][]bool, error) {
	if err := check(l, version); err != nil {
		return nil, err
	}
	if version == 0 {
		c, err := qr.Encode(text, qr.Level(l))
		if err != nil {
			return nil, err
		}
		return modules(c.Size, c.Black), nil
	}
	var enc coding.Encoding
	switch {
	case coding.Num(text).Check() == nil:
		enc = coding.Num(text)
	case coding.Alpha(text).Check() == nil:
		enc = coding.Alpha(text)
	default:
		enc = coding.String(text)
	}
	v, cl := coding.Version(version), coding.Level(l)
	if enc.Bits(v) > v.DataBytes(cl)*8 {
		return nil, ErrTooLong
	}
	p, err := coding.NewPlan(v, cl, 0)
	if err != nil {
		return nil, err
	}
	c, err := p.Encode(enc)
	if err != nil {
		return nil, err
	}
	return modules(c.Size, c.Black), nil
}
