// Package me implements block motion estimation: integer-pel search
// (diamond, hexagon, uneven multi-hexagon, exhaustive and transformed
// exhaustive), sub-pel refinement, joint bidirectional refinement and
// rate-distortion refinement.
//
// Vectors are in quarter pels unless a name says otherwise. Every search
// is deterministic: candidates are visited in a fixed order and only a
// strictly lower cost replaces the current best.
package me

import "fmt"

// MV is a motion vector in quarter pels.
type MV struct {
	X, Y int16
}

// MakeMV builds an MV from int components.
func MakeMV(x, y int) MV { return MV{int16(x), int16(y)} }

// IsZero reports whether v is the zero vector.
func (v MV) IsZero() bool { return v.X == 0 && v.Y == 0 }

// Add returns v+w.
func (v MV) Add(w MV) MV { return MV{v.X + w.X, v.Y + w.Y} }

// Sub returns v-w.
func (v MV) Sub(w MV) MV { return MV{v.X - w.X, v.Y - w.Y} }

func (v MV) String() string { return fmt.Sprintf("(%d,%d)", v.X, v.Y) }

// Median returns the component-wise median of a, b and c.
func Median(a, b, c MV) MV {
	return MV{median(a.X, b.X, c.X), median(a.Y, b.Y, c.Y)}
}

func median(a, b, c int16) int16 {
	if a > b {
		a, b = b, a
	}
	if b > c {
		b = c
	}
	if a > b {
		return a
	}
	return b
}

// Window bounds the vectors a block may use. Spel bounds are in quarter
// pels; Fpel bounds are in full pels and lie inside the spel bounds with
// room for the search patterns and sub-pel steps around them.
type Window struct {
	MinSpel, MaxSpel [2]int
	MinFpel, MaxFpel [2]int
}

// fpelBorder keeps a hexagon step, a sub-pel step and rounding inside the
// spel window.
const fpelBorder = 5

// MBWindow returns the window of the macroblock at (mbx, mby) in a frame
// of mbWidth x mbHeight macroblocks. Vectors may reach 24 pels past each
// frame edge. mvRange limits the vertical component, in full pels.
func MBWindow(mbx, mby, mbWidth, mbHeight, mvRange int) Window {
	const hRange = 4 * 2048
	vRange := 4 * mvRange
	var w Window
	w.MinSpel[0] = clip3(4*(-16*mbx-24), -hRange, hRange-1)
	w.MaxSpel[0] = clip3(4*(16*(mbWidth-mbx-1)+24), -hRange, hRange-1)
	w.MinSpel[1] = clip3(4*(-16*mby-24), -vRange, vRange-1)
	w.MaxSpel[1] = clip3(4*(16*(mbHeight-mby-1)+24), -vRange, vRange-1)
	for i := 0; i < 2; i++ {
		w.MinFpel[i] = (w.MinSpel[i] >> 2) + fpelBorder
		w.MaxFpel[i] = (w.MaxSpel[i] >> 2) - fpelBorder
	}
	return w
}

// ContainsFpel reports whether the full-pel vector (x, y) is inside w.
func (w *Window) ContainsFpel(x, y int) bool {
	return x >= w.MinFpel[0] && x <= w.MaxFpel[0] && y >= w.MinFpel[1] && y <= w.MaxFpel[1]
}

// ContainsSpel reports whether v is inside the spel bounds of w.
func (w *Window) ContainsSpel(v MV) bool {
	return w.containsSpel(int(v.X), int(v.Y))
}

// ClampSpel clamps v into the spel bounds of w.
func (w *Window) ClampSpel(v MV) MV {
	return MakeMV(w.clampSpel(int(v.X), int(v.Y)))
}

func (w *Window) containsSpel(x, y int) bool {
	return x >= w.MinSpel[0] && x <= w.MaxSpel[0] && y >= w.MinSpel[1] && y <= w.MaxSpel[1]
}

// insetSpel reports whether (x, y) is at least m quarter pels inside the
// spel bounds of w.
func (w *Window) insetSpel(x, y, m int) bool {
	return x >= w.MinSpel[0]+m && x <= w.MaxSpel[0]-m && y >= w.MinSpel[1]+m && y <= w.MaxSpel[1]-m
}

func (w *Window) clampSpel(x, y int) (int, int) {
	return clip3(x, w.MinSpel[0], w.MaxSpel[0]), clip3(y, w.MinSpel[1], w.MaxSpel[1])
}

// Method selects the integer-pel search strategy.
type Method int

const (
	Dia  Method = iota // radius 1 diamond
	Hex                // radius 2 hexagon
	UMH                // uneven multi-hexagon
	ESA                // exhaustive
	TESA               // transformed exhaustive
)

var methodNames = [...]string{"dia", "hex", "umh", "esa", "tesa"}

func (m Method) String() string {
	if m < 0 || int(m) >= len(methodNames) {
		return "unknown"
	}
	return methodNames[m]
}

// ParseMethod parses a method name as printed by String.
func ParseMethod(s string) (Method, error) {
	for i, n := range methodNames {
		if n == s {
			return Method(i), nil
		}
	}
	return 0, fmt.Errorf("me: unknown method %q", s)
}

func clip3(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
