// Copyright 2025 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shape

import (
	"bytes"
	"fmt"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/unixdj/qrimage/matrix"
)

const ringPicture = `
.......
.#####.
.#...#.
.#...#.
.#...#.
.#####.
.......
`

// A version 1 code with padding 1.
const codePicture = `
.......................
.#######.##..#.#######.
.#.....#..#..#.#.....#.
.#.###.#.#.#.#.#.###.#.
.#.###.#.#..#..#.###.#.
.#.###.#.###...#.###.#.
.#.....#.......#.....#.
.#######.#.#.#.#######.
..........##...........
.####..#.#.#..#..###.#.
.#..###.#..#.#..#.##.#.
.#.#.###...#.#####..##.
.#.##...##.#.##...#.#..
..##.#.#..###.#..##.#..
.........#.#..#.#.#.#..
.#######...#..##.###...
.#.....#..#.####..##...
.#.###.#..###..#...###.
.#.###.#.##...#..##.#..
.#.###.#.#.##.#..#.#...
.#.....#.#####.#.##..#.
.#######.##.##..#......
.......................
`

var codeRects = []Rect{
	{1, 1, 7, 1}, {9, 1, 2, 1}, {13, 1, 1, 3},
	{15, 1, 7, 1}, {1, 2, 1, 6}, {7, 2, 1, 6},
	{10, 2, 1, 1}, {15, 2, 1, 6}, {21, 2, 1, 6},
	{3, 3, 3, 3}, {9, 3, 1, 3}, {11, 3, 1, 1},
	{17, 3, 3, 3}, {12, 4, 1, 1}, {9, 5, 3, 1},
	{1, 7, 7, 1}, {9, 7, 1, 1}, {11, 7, 1, 9},
	{13, 7, 1, 1}, {15, 7, 7, 1}, {10, 8, 2, 1},
	{1, 9, 4, 1}, {7, 9, 1, 1}, {9, 9, 1, 1},
	{14, 9, 1, 1}, {17, 9, 3, 1}, {21, 9, 1, 3},
	{1, 10, 1, 3}, {4, 10, 3, 1}, {8, 10, 1, 1},
	{13, 10, 1, 3}, {16, 10, 1, 2}, {18, 10, 2, 1},
	{3, 11, 1, 3}, {5, 11, 3, 1}, {13, 11, 5, 1},
	{20, 11, 2, 1}, {3, 12, 2, 1}, {8, 12, 2, 1},
	{13, 12, 2, 1}, {18, 12, 1, 5}, {20, 12, 1, 3},
	{2, 13, 2, 1}, {5, 13, 1, 1}, {7, 13, 1, 1},
	{10, 13, 3, 1}, {14, 13, 1, 4}, {17, 13, 2, 1},
	{9, 14, 1, 1}, {16, 14, 1, 1}, {1, 15, 7, 1},
	{14, 15, 2, 2}, {17, 15, 3, 1}, {1, 16, 1, 6},
	{7, 16, 1, 6}, {10, 16, 1, 3}, {12, 16, 4, 1},
	{18, 16, 2, 1}, {3, 17, 3, 3}, {10, 17, 3, 1},
	{15, 17, 1, 1}, {19, 17, 3, 1}, {9, 18, 2, 1},
	{14, 18, 1, 2}, {17, 18, 2, 1}, {20, 18, 1, 1},
	{9, 19, 1, 3}, {11, 19, 2, 2}, {17, 19, 1, 2},
	{19, 19, 1, 1}, {9, 20, 5, 1}, {15, 20, 1, 1},
	{17, 20, 2, 1}, {21, 20, 1, 1}, {1, 21, 7, 1},
	{9, 21, 2, 1}, {12, 21, 2, 1}, {16, 21, 1, 1},
}

func mustParse(t *testing.T, s string) *matrix.Grid {
	t.Helper()
	g, err := matrix.Parse(s)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestDecomposeRing(t *testing.T) {
	want := []Rect{{1, 1, 5, 1}, {1, 2, 1, 4}, {5, 2, 1, 4}, {1, 5, 5, 1}}
	got := Decompose(mustParse(t, ringPicture))
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Decompose mismatch (-want +got):\n%s", diff)
	}
}

func TestDecomposeCode(t *testing.T) {
	got := Decompose(mustParse(t, codePicture))
	if diff := cmp.Diff(codeRects, got); diff != "" {
		t.Errorf("Decompose mismatch (-want +got):\n%s", diff)
	}
}

func TestDecomposeEmpty(t *testing.T) {
	if rs := Decompose(nil); rs != nil {
		t.Errorf("Decompose(nil) = %v", rs)
	}
	var g *matrix.Grid
	if rs := Decompose(g); rs != nil {
		t.Errorf("Decompose(nil grid) = %v", rs)
	}
	blank := mustParse(t, "...\n...\n...")
	if rs := Decompose(blank); rs == nil || len(rs) != 0 {
		t.Errorf("Decompose(blank) = %#v, want empty", rs)
	}
}

// checkCover verifies that the union of rs is exactly the set of true
// modules of g.
func checkCover(t *testing.T, g *matrix.Grid, rs []Rect) {
	t.Helper()
	n := g.Size()
	covered := make([]bool, n*n)
	for _, r := range rs {
		if r.Width <= 0 || r.Height <= 0 {
			t.Fatalf("degenerate rectangle %+v", r)
		}
		for y := r.Y; y < r.Y+r.Height; y++ {
			for x := r.X; x < r.X+r.Width; x++ {
				if !g.On(x, y) {
					t.Fatalf("rectangle %+v covers background (%d,%d)\n%v",
						r, x, y, g)
				}
				covered[y*n+x] = true
			}
		}
	}
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			if g.On(x, y) && !covered[y*n+x] {
				t.Fatalf("module (%d,%d) not covered\n%v", x, y, g)
			}
		}
	}
}

func randomGrid(r *rand.Rand, n int, density float64) *matrix.Grid {
	rows := make([][]bool, n)
	for y := range rows {
		rows[y] = make([]bool, n)
		for x := range rows[y] {
			rows[y][x] = r.Float64() < density
		}
	}
	g, _ := matrix.FromRows(rows)
	return g
}

func TestDecomposeCover(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	checkCover(t, mustParse(t, codePicture), codeRects)
	for i := 0; i < 200; i++ {
		g := randomGrid(r, 1+r.Intn(40), []float64{0.1, 0.5, 0.9}[i%3])
		rs := Decompose(g)
		checkCover(t, g, rs)
		if again := Decompose(g); !cmp.Equal(rs, again) {
			t.Fatalf("Decompose is not deterministic on\n%v", g)
		}
	}
	full := mustParse(t, "###\n###\n###")
	if rs := Decompose(full); !cmp.Equal(rs, []Rect{{0, 0, 3, 3}}) {
		t.Errorf("Decompose(full) = %v", rs)
	}
}

// state returns a working buffer for the given module states.
func state(rows [][]byte) ([]byte, int) {
	n := len(rows[0])
	b := make([]byte, 0, n*len(rows))
	for _, r := range rows {
		b = append(b, r...)
	}
	return b, n
}

func TestClaim(t *testing.T) {
	type step struct {
		x0, x1, y int // x1 inclusive
		want      *Rect
	}
	for _, tc := range []struct {
		name  string
		cells [][]byte
		steps []step
		after [][]byte
	}{
		{
			name: "all claimed",
			cells: [][]byte{
				{2, 2, 2, 0, 2, 2, 2, 0, 0, 2, 2, 2},
				{0, 2, 2, 0, 0, 2, 0, 0, 0, 2, 2, 2},
				{0, 2, 2, 0, 2, 2, 2, 0, 0, 2, 2, 0},
				{0, 0, 0, 0, 2, 2, 2, 0, 2, 2, 2, 0},
			},
			steps: []step{
				{0, 2, 0, nil}, {4, 6, 0, nil}, {4, 6, 3, nil},
				{1, 2, 0, nil}, {9, 10, 1, nil},
			},
			after: [][]byte{
				{2, 2, 2, 0, 2, 2, 2, 0, 0, 2, 2, 2},
				{0, 2, 2, 0, 0, 2, 0, 0, 0, 2, 2, 2},
				{0, 2, 2, 0, 2, 2, 2, 0, 0, 2, 2, 0},
				{0, 0, 0, 0, 2, 2, 2, 0, 2, 2, 2, 0},
			},
		},
		{
			name: "single modules",
			cells: [][]byte{
				{1, 0, 1, 0},
				{0, 1, 0, 1},
				{1, 0, 1, 0},
				{0, 1, 0, 1},
			},
			steps: []step{
				{0, 0, 0, &Rect{0, 0, 1, 1}},
				{1, 1, 1, &Rect{1, 1, 1, 1}},
				{3, 3, 1, &Rect{3, 1, 1, 1}},
			},
			after: [][]byte{
				{2, 0, 1, 0},
				{0, 2, 0, 2},
				{1, 0, 1, 0},
				{0, 1, 0, 1},
			},
		},
		{
			name: "one fresh module",
			cells: [][]byte{
				{2, 2, 2, 0, 2, 2, 2, 0, 0, 2, 2, 2},
				{0, 1, 2, 0, 0, 2, 0, 0, 0, 2, 2, 2},
				{0, 2, 2, 0, 2, 2, 2, 0, 0, 2, 2, 0},
				{0, 0, 0, 0, 2, 2, 1, 0, 2, 1, 2, 0},
			},
			steps: []step{
				{1, 2, 0, &Rect{1, 0, 2, 3}},
				{4, 6, 2, &Rect{4, 2, 3, 2}},
				{8, 10, 3, &Rect{8, 3, 3, 1}},
			},
			after: [][]byte{
				{2, 2, 2, 0, 2, 2, 2, 0, 0, 2, 2, 2},
				{0, 2, 2, 0, 0, 2, 0, 0, 0, 2, 2, 2},
				{0, 2, 2, 0, 2, 2, 2, 0, 0, 2, 2, 0},
				{0, 0, 0, 0, 2, 2, 2, 0, 2, 2, 2, 0},
			},
		},
		{
			name: "grow over fresh",
			cells: [][]byte{
				{1, 1, 1, 0, 1, 1, 1, 0, 0, 1, 1, 1},
				{0, 1, 1, 0, 0, 1, 0, 0, 0, 1, 1, 1},
				{0, 1, 1, 0, 1, 1, 1, 0, 0, 1, 1, 0},
				{0, 0, 0, 0, 1, 1, 1, 0, 1, 1, 1, 0},
			},
			steps: []step{
				{0, 2, 0, &Rect{0, 0, 3, 1}},
				{4, 6, 0, &Rect{4, 0, 3, 1}},
				{9, 11, 0, &Rect{9, 0, 3, 2}},
				{1, 2, 1, &Rect{1, 1, 2, 2}},
				{5, 5, 1, &Rect{5, 1, 1, 3}},
				{9, 11, 1, nil},
				{1, 2, 2, nil},
				{4, 6, 2, &Rect{4, 2, 3, 2}},
				{9, 10, 2, &Rect{9, 2, 2, 2}},
				{4, 6, 3, nil},
				{8, 10, 3, &Rect{8, 3, 3, 1}},
			},
			after: [][]byte{
				{2, 2, 2, 0, 2, 2, 2, 0, 0, 2, 2, 2},
				{0, 2, 2, 0, 0, 2, 0, 0, 0, 2, 2, 2},
				{0, 2, 2, 0, 2, 2, 2, 0, 0, 2, 2, 0},
				{0, 0, 0, 0, 2, 2, 2, 0, 2, 2, 2, 0},
			},
		},
	} {
		cells, n := state(tc.cells)
		for _, s := range tc.steps {
			r, ok := claim(cells, n, s.x0, s.x1+1, s.y)
			switch {
			case s.want == nil && ok:
				t.Errorf("%s: claim(%d, %d, %d) = %+v, want none",
					tc.name, s.x0, s.x1, s.y, r)
			case s.want != nil && !ok:
				t.Errorf("%s: claim(%d, %d, %d) = none, want %+v",
					tc.name, s.x0, s.x1, s.y, *s.want)
			case s.want != nil && r != *s.want:
				t.Errorf("%s: claim(%d, %d, %d) = %+v, want %+v",
					tc.name, s.x0, s.x1, s.y, r, *s.want)
			}
		}
		if after, _ := state(tc.after); !bytes.Equal(cells, after) {
			t.Errorf("%s: state after claims = %v, want %v",
				tc.name, cells, after)
		}
	}
}

func TestDeduplicate(t *testing.T) {
	got := Deduplicate([]Rect{{1, 1, 3, 1}, {9, 1, 3, 1}})
	want := []Entry{
		{ID: 0, X: 1, Y: 1, Width: 3, Height: 1},
		{ID: 0, X: 8, Y: 0, Ref: true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Deduplicate mismatch (-want +got):\n%s", diff)
	}
	if got[0].Name() != "s0" || got[1].Name() != "s0" {
		t.Errorf("names %q, %q, want s0", got[0].Name(), got[1].Name())
	}
}

func TestDeduplicateRing(t *testing.T) {
	got := Deduplicate(Decompose(mustParse(t, ringPicture)))
	want := []Entry{
		{ID: 0, X: 1, Y: 1, Width: 5, Height: 1},
		{ID: 1, X: 1, Y: 2, Width: 1, Height: 4},
		{ID: 1, X: 4, Y: 0, Ref: true},
		{ID: 0, X: 0, Y: 4, Ref: true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Deduplicate mismatch (-want +got):\n%s", diff)
	}
	if n := RefCount(got); !cmp.Equal(n, []int{1, 1}) {
		t.Errorf("RefCount = %v", n)
	}
}

func TestDeduplicateCode(t *testing.T) {
	es := Deduplicate(codeRects)
	n := RefCount(es)
	if len(n) != 14 {
		t.Errorf("%d bases, want 14", len(n))
	}
	refs := 0
	for _, e := range es {
		if e.Ref {
			refs++
		}
	}
	if refs != 64 {
		t.Errorf("%d references, want 64", refs)
	}
	for i, want := range []Entry{
		{ID: 0, X: 1, Y: 1, Width: 7, Height: 1},
		{ID: 1, X: 9, Y: 1, Width: 2, Height: 1},
		{ID: 2, X: 13, Y: 1, Width: 1, Height: 3},
		{ID: 0, X: 14, Y: 0, Ref: true},
		{ID: 3, X: 1, Y: 2, Width: 1, Height: 6},
		{ID: 3, X: 6, Y: 0, Ref: true},
		{ID: 4, X: 10, Y: 2, Width: 1, Height: 1},
		{ID: 3, X: 14, Y: 0, Ref: true},
		{ID: 3, X: 20, Y: 0, Ref: true},
		{ID: 5, X: 3, Y: 3, Width: 3, Height: 3},
		{ID: 2, X: -4, Y: 2, Ref: true},
		{ID: 4, X: 1, Y: 1, Ref: true},
	} {
		if es[i] != want {
			t.Errorf("entry %d = %+v, want %+v", i, es[i], want)
		}
	}
}

func TestExpand(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	lists := [][]Rect{codeRects, {}}
	for i := 0; i < 50; i++ {
		lists = append(lists, Decompose(randomGrid(r, 1+r.Intn(30), 0.5)))
	}
	for _, rs := range lists {
		got, err := Expand(Deduplicate(rs))
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(rs, got); diff != "" {
			t.Fatalf("Expand(Deduplicate) mismatch (-want +got):\n%s", diff)
		}
	}
	if rs, err := Expand(nil); rs != nil || err != nil {
		t.Errorf("Expand(nil) = %v, %v", rs, err)
	}
	for _, es := range [][]Entry{
		{{ID: 0, Ref: true}},
		{{ID: 1, Width: 1, Height: 1}},
		{{ID: 0, Width: 1, Height: 1}, {ID: 1, Ref: true}},
	} {
		if _, err := Expand(es); err != ErrUnknownBase {
			t.Errorf("Expand(%v) error = %v, want ErrUnknownBase", es, err)
		}
	}
}

func ExampleDeduplicate() {
	g, _ := matrix.Parse(`
###.###
###.###
.......
#.#.#.#
.......
.......
.......
`)
	for _, e := range Deduplicate(Decompose(g)) {
		if e.Ref {
			fmt.Printf("use %s at %+d%+d\n", e.Name(), e.X, e.Y)
		} else {
			fmt.Printf("%s: %dx%d at %d,%d\n", e.Name(), e.Width, e.Height, e.X, e.Y)
		}
	}
	// Output:
	// s0: 3x2 at 0,0
	// use s0 at +4+0
	// s1: 1x1 at 0,3
	// use s1 at +2+0
	// use s1 at +4+0
	// use s1 at +6+0
}
