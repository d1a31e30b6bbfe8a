// Copyright 2025 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package symbol adapts QR encoders to produce module matrices.
//
// A module matrix is a square [][]bool indexed [y][x], true for dark
// modules, without a quiet zone.
package symbol // import "github.com/unixdj/qrimage/symbol"

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

var (
	ErrLevel   = errors.New("symbol: invalid level")
	ErrVersion = errors.New("symbol: invalid version")
	ErrTooLong = errors.New("symbol: text too long for version")
)

// A Level denotes a QR error correction level.
// From least to most tolerant of errors, they are L, M, Q, H.
type Level int

const (
	L Level = iota // 7% recovery
	M              // 15% recovery
	Q              // 25% recovery
	H              // 30% recovery
)

// MaxVersion is the largest QR version.  Version 0 selects the
// smallest version that fits.
const MaxVersion = 40

func (l Level) String() string {
	if l < L || l > H {
		return fmt.Sprintf("Level(%d)", int(l))
	}
	return "LMQH"[l : l+1]
}

// ParseLevel returns the level named by s, one of "l", "m", "q", "h"
// in either case.
func ParseLevel(s string) (Level, error) {
	if len(s) == 1 {
		if i := strings.Index("lmqhLMQH", s); i >= 0 {
			return Level(i & 3), nil
		}
	}
	return 0, fmt.Errorf("%w %q", ErrLevel, s)
}

// An Encoder encodes text as a QR code of the given level and
// version and returns its module matrix.
type Encoder interface {
	Encode(text string, l Level, version int) ([][]bool, error)
}

// An EncoderFunc is a function used as an Encoder.
type EncoderFunc func(text string, l Level, version int) ([][]bool, error)

// Encode calls f.
func (f EncoderFunc) Encode(text string, l Level, version int) ([][]bool, error) {
	return f(text, l, version)
}

// check validates the level and version.
func check(l Level, version int) error {
	if l < L || l > H {
		return fmt.Errorf("%w %d", ErrLevel, int(l))
	}
	if version < 0 || version > MaxVersion {
		return fmt.Errorf("%w %d", ErrVersion, version)
	}
	return nil
}

// modules returns the matrix of a code of size n.
func modules(n int, black func(x, y int) bool) [][]bool {
	m := make([][]bool, n)
	for y := range m {
		m[y] = make([]bool, n)
		for x := range m[y] {
			m[y][x] = black(x, y)
		}
	}
	return m
}

// Latin1 returns an Encoder that converts the text from UTF-8 to
// ISO 8859-1, the default QR byte mode character set, before passing
// it to e.
func Latin1(e Encoder) Encoder {
	return EncoderFunc(func(text string, l Level, v int) ([][]bool, error) {
		s, err := charmap.ISO8859_1.NewEncoder().String(text)
		if err != nil {
			return nil, fmt.Errorf("symbol: %q not representable in Latin-1: %w",
				text, err)
		}
		return e.Encode(s, l, v)
	})
}
