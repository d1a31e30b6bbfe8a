// Copyright 2025 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qrimage

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

var colorNames = map[string]color.NRGBA{
	"black":       {0x00, 0x00, 0x00, 0xff},
	"white":       {0xff, 0xff, 0xff, 0xff},
	"red":         {0xff, 0x00, 0x00, 0xff},
	"green":       {0x00, 0xff, 0x00, 0xff},
	"blue":        {0x00, 0x00, 0xff, 0xff},
	"navy":        {0x00, 0x00, 0x80, 0xff},
	"darkgreen":   {0x00, 0x64, 0x00, 0xff},
	"maroon":      {0xb0, 0x30, 0x60, 0xff},
	"purple":      {0xa0, 0x20, 0xf0, 0xff},
	"gray":        {0xbe, 0xbe, 0xbe, 0xff},
	"transparent": {},
}

// ParseColor parses a colour given as 3, 4, 6 or 8 hexadecimal
// digits, RGB[A] or RRGGBB[AA], optionally preceded by "#", or as a
// colour name.  Missing alpha is opaque.
func ParseColor(s string) (color.NRGBA, error) {
	if c, ok := colorNames[strings.ToLower(strings.ReplaceAll(s, " ", ""))]; ok {
		return c, nil
	}
	h := strings.TrimPrefix(s, "#")
	n, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("qrimage: %q: bad colour spec", s)
	}
	switch len(h) {
	case 3:
		n = n<<4 | 0xf
		fallthrough
	case 4:
		var nn uint64
		for i := 0; i < 4; i++ {
			nn <<= 8
			nn |= n >> 12 & 0xf * 0x11
			n <<= 4
		}
		n = nn
	case 6:
		n = n<<8 | 0xff
	case 8:
	default:
		return color.NRGBA{}, fmt.Errorf("qrimage: %q: bad colour spec", s)
	}
	return color.NRGBA{uint8(n >> 24), uint8(n >> 16), uint8(n >> 8), uint8(n)}, nil
}

// FormatColor returns c as "#rrggbb", or "#rrggbbaa" if c is not
// opaque.
func FormatColor(c color.Color) string {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	if n.A == 0xff {
		return fmt.Sprintf("#%02x%02x%02x", n.R, n.G, n.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", n.R, n.G, n.B, n.A)
}

// nrgba converts c to NRGBA, nil to transparent.
func nrgba(c color.Color) color.NRGBA {
	if c == nil {
		return color.NRGBA{}
	}
	return color.NRGBAModel.Convert(c).(color.NRGBA)
}
