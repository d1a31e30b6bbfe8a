// Copyright 2025 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package dimension resolves length and position specifications into
module units.

A Spec is either an absolute number of modules or a string relative
to a reference size:

	20        absolute, returned unchanged
	"20"      parsed as a number, fractional part dropped
	"20%"     20 percent of the reference size, rounded
	"left"    0 ("top" is the same)
	"right"   reference - element ("bottom" is the same)
	"center"  (reference - element) / 2, rounded
	"right 10%", "bottom 3", "left -2", "25%"
	          an optional anchor followed by a signed number or
	          percentage; right and bottom count from the far edge

Rounding follows the half-up convention: 2.5 becomes 3, -2.5 becomes -2.
*/
package dimension // import "github.com/unixdj/qrimage/dimension"

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// kind is the variant held by a Spec.
type kind byte

const (
	unset kind = iota
	number
	text
)

// A Spec is a length or position specification.
// The zero Spec is unset and does not resolve.
type Spec struct {
	n    int
	s    string
	kind kind
}

// Px returns an absolute Spec of n modules.
func Px(n int) Spec { return Spec{n: n, kind: number} }

// Str returns a string Spec.  The string is not validated until it
// is resolved.
func Str(s string) Spec { return Spec{s: s, kind: text} }

// Parse converts a decoded configuration value (as produced by
// encoding/json or a TOML decoder) to a Spec.  Integers and floats
// become absolute Specs, floats truncated; strings become string
// Specs; nil becomes the unset Spec.
func Parse(v any) (Spec, error) {
	switch v := v.(type) {
	case nil:
		return Spec{}, nil
	case Spec:
		return v, nil
	case int:
		return Px(v), nil
	case int64:
		return Px(int(v)), nil
	case float64:
		return Px(int(v)), nil
	case string:
		return Str(v), nil
	}
	return Spec{}, &InvalidSpecError{
		Spec:   fmt.Sprint(v),
		Reason: fmt.Sprintf("must be either string or number, got %T", v),
	}
}

// IsSet reports whether s holds a value.
func (s Spec) IsSet() bool { return s.kind != unset }

// IsZero reports whether s is unset, the number 0 or the empty string.
func (s Spec) IsZero() bool {
	switch s.kind {
	case number:
		return s.n == 0
	case text:
		return s.s == ""
	}
	return true
}

func (s Spec) String() string {
	switch s.kind {
	case number:
		return strconv.Itoa(s.n)
	case text:
		return s.s
	}
	return "<unset>"
}

// An InvalidSpecError describes a Spec that cannot be resolved.
type InvalidSpecError struct {
	Spec   string // offending specification
	Reason string // what is wrong with it
}

func (e *InvalidSpecError) Error() string {
	return "dimension: invalid spec " + strconv.Quote(e.Spec) + ": " + e.Reason
}

// Length resolves s as a length relative to ref.
func Length(s Spec, ref int) (int, error) {
	switch s.kind {
	case number:
		return s.n, nil
	case text:
		if v, ok := strings.CutSuffix(s.s, "%"); ok {
			return round(leadingFloat(v) / 100 * float64(ref)), nil
		}
		return truncate(leadingFloat(s.s)), nil
	}
	return 0, &InvalidSpecError{Spec: s.String(),
		Reason: "must be either string or number"}
}

var positionRE = regexp.MustCompile(
	`^(?:(right|bottom|left|top)\s+)?(-?[0-9.]+)(%)?$`)

// Position resolves s as the offset of an element of the given size
// within ref.
func Position(s Spec, size, ref int) (int, error) {
	switch s.kind {
	case number:
		return s.n, nil
	case unset:
		return 0, &InvalidSpecError{Spec: s.String(),
			Reason: "must be either string or number"}
	}
	switch s.s {
	case "left", "top":
		return 0, nil
	case "right", "bottom":
		return ref - size, nil
	case "center":
		return round(float64(ref-size) / 2), nil
	}
	m := positionRE.FindStringSubmatch(s.s)
	if m == nil {
		return 0, &InvalidSpecError{Spec: s.s,
			Reason: "expected position with number"}
	}
	v := leadingFloat(m[2])
	if m[3] != "" {
		v = float64(round(v / 100 * float64(ref)))
	}
	if m[1] == "right" || m[1] == "bottom" {
		v = float64(ref) - v - float64(size)
	}
	return round(v), nil
}

var floatRE = regexp.MustCompile(
	`^[+-]?(?:[0-9]+\.?[0-9]*|\.[0-9]+)(?:[eE][+-]?[0-9]+)?`)

// leadingFloat parses the longest numeric prefix of s after leading
// white space.  It returns 0 if there is none.
func leadingFloat(s string) float64 {
	p := floatRE.FindString(strings.TrimLeft(s, " \t\n\v\f\r"))
	if p == "" {
		return 0
	}
	f, err := strconv.ParseFloat(p, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func round(f float64) int { return int(math.Floor(f + 0.5)) }

func truncate(f float64) int { return int(f) }
