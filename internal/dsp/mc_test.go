package dsp

import (
	"math/rand"
	"testing"
)

func TestHpelFilterFlat(t *testing.T) {
	const stride, w, h, pad = 32, 16, 8, 8
	n := stride * (h + 2*pad)
	src := make([]byte, n)
	for i := range src {
		src[i] = 77
	}
	dh, dv, dc := make([]byte, n), make([]byte, n), make([]byte, n)
	off := pad*stride + pad
	HpelFilter(dh, dv, dc, src, off, stride, w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := off + y*stride + x
			if dh[i] != 77 || dv[i] != 77 || dc[i] != 77 {
				t.Fatalf("(%d,%d): h=%d v=%d c=%d, want 77", x, y, dh[i], dv[i], dc[i])
			}
		}
	}
}

func TestHpelFilterRamp(t *testing.T) {
	// On a horizontal ramp the horizontal half-pel sample is the midpoint.
	const stride, w, h, pad = 48, 16, 4, 8
	n := stride * (h + 2*pad)
	src := make([]byte, n)
	for y := 0; y < h+2*pad; y++ {
		for x := 0; x < stride; x++ {
			src[y*stride+x] = byte(4 * x)
		}
	}
	dh, dv, dc := make([]byte, n), make([]byte, n), make([]byte, n)
	off := pad*stride + pad
	HpelFilter(dh, dv, dc, src, off, stride, w, h)
	for x := 0; x < w; x++ {
		i := off + x
		if want := src[i] + 2; dh[i] != want {
			t.Errorf("h[%d] = %d, want %d", x, dh[i], want)
		}
		if dv[i] != src[i] {
			t.Errorf("v[%d] = %d, want %d", x, dv[i], src[i])
		}
	}
}

func TestAvgWeight(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	a := makeRandBuf(rng, 8*8)
	b := makeRandBuf(rng, 8*8)
	d32 := make([]byte, 64)
	davg := make([]byte, 64)
	AvgWeight(d32, 8, a, 8, b, 8, 8, 8, 32)
	Avg(davg, 8, a, 8, b, 8, 8, 8)
	for i := range d32 {
		if d32[i] != davg[i] {
			t.Fatalf("index %d: weight 32 = %d, avg = %d", i, d32[i], davg[i])
		}
	}
	d64 := make([]byte, 64)
	AvgWeight(d64, 8, a, 8, b, 8, 8, 8, 64)
	for i := range d64 {
		if d64[i] != a[i] {
			t.Fatalf("index %d: weight 64 = %d, want %d", i, d64[i], a[i])
		}
	}
}
