package dsp

import (
	"math/rand"
	"testing"
)

var coreMatrix = [4][4]int{
	{1, 1, 1, 1},
	{2, 1, -1, -2},
	{1, -1, -1, 1},
	{1, -2, 2, -1},
}

// The forward core transform W = C X C^T is exactly invertible:
// 400 X = C^T S W S C with S = diag(5, 2, 5, 2).
func TestSubDCT4x4ExactlyInvertible(t *testing.T) {
	s := [4]int{5, 2, 5, 2}
	rng := rand.New(rand.NewSource(1))
	for iter := 0; iter < 200; iter++ {
		src := makeRandBuf(rng, 4*EncStride)
		pred := makeRandBuf(rng, 4*BPS)
		var dct [16]int16
		SubDCT4x4(&dct, src, pred)

		for y := 0; y < 4; y++ {
			for x := 0; x < 4; x++ {
				sum := 0
				for v := 0; v < 4; v++ {
					for u := 0; u < 4; u++ {
						sum += coreMatrix[v][y] * s[v] * int(dct[v*4+u]) * s[u] * coreMatrix[u][x]
					}
				}
				want := 400 * (int(src[y*EncStride+x]) - int(pred[y*BPS+x]))
				if sum != want {
					t.Fatalf("iter %d (%d,%d): reconstructed %d, want %d", iter, x, y, sum, want)
				}
			}
		}
	}
}

func TestSubDCT4x4Flat(t *testing.T) {
	src := make([]byte, 4*EncStride)
	pred := make([]byte, 4*BPS)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			src[y*EncStride+x] = 110
			pred[y*BPS+x] = 100
		}
	}
	var dct [16]int16
	SubDCT4x4(&dct, src, pred)
	if dct[0] != 160 {
		t.Errorf("DC = %d, want 160", dct[0])
	}
	for i := 1; i < 16; i++ {
		if dct[i] != 0 {
			t.Errorf("AC[%d] = %d, want 0", i, dct[i])
		}
	}
}

func TestAddIDCTDCFastPath(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	for iter := 0; iter < 2000; iter++ {
		dc := int16(rng.Intn(16384) - 8192)
		base := makeRandBuf(rng, 8*BPS)

		full4 := copyBuf(base)
		fast4 := copyBuf(base)
		dct4 := [16]int16{0: dc}
		AddIDCT4x4(full4, &dct4)
		AddIDCT4x4DC(fast4, dc)
		for i := range full4 {
			if full4[i] != fast4[i] {
				t.Fatalf("4x4 dc=%d index %d: full=%d fast=%d", dc, i, full4[i], fast4[i])
			}
		}

		full8 := copyBuf(base)
		fast8 := copyBuf(base)
		dct8 := [64]int16{0: dc}
		AddIDCT8x8(full8, &dct8)
		AddIDCT8x8DC(fast8, dc)
		for i := range full8 {
			if full8[i] != fast8[i] {
				t.Fatalf("8x8 dc=%d index %d: full=%d fast=%d", dc, i, full8[i], fast8[i])
			}
		}
	}
}

func TestAddIDCTZeroIsIdentity(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	dst := makeRandBuf(rng, 16*BPS)
	want := copyBuf(dst)
	var dct4 [16][16]int16
	var dct8 [4][64]int16
	AddIDCT16x16(dst, &dct4)
	AddIDCT16x16x8(dst, &dct8)
	for i := range dst {
		if dst[i] != want[i] {
			t.Fatalf("index %d: got %d, want %d", i, dst[i], want[i])
		}
	}
}

func TestSubDCT8x8Flat(t *testing.T) {
	src := make([]byte, 8*EncStride)
	pred := make([]byte, 8*BPS)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			src[y*EncStride+x] = 90
			pred[y*BPS+x] = 100
		}
	}
	var dct [64]int16
	SubDCT8x8(&dct, src, pred)
	if dct[0] != -640 {
		t.Errorf("DC = %d, want -640", dct[0])
	}
	for i := 1; i < 64; i++ {
		if dct[i] != 0 {
			t.Errorf("AC[%d] = %d, want 0", i, dct[i])
		}
	}
}

// A flat 8x8 residual scaled the way dequantization scales it reconstructs
// exactly through the inverse.
func TestAddIDCT8x8Flat(t *testing.T) {
	dst := make([]byte, 8*BPS)
	for i := range dst {
		dst[i] = 100
	}
	dct := [64]int16{0: 7 * 64}
	AddIDCT8x8(dst, &dct)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if got := dst[y*BPS+x]; got != 107 {
				t.Fatalf("(%d,%d) = %d, want 107", x, y, got)
			}
		}
	}
}

func TestDCT4x4DCRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	for iter := 0; iter < 1000; iter++ {
		var in [16]int16
		for i := range in {
			in[i] = int16(2 * (rng.Intn(512) - 256))
		}
		d := in
		DCT4x4DC(&d)
		IDCT4x4DC(&d)
		for i := range d {
			if int(d[i]) != 8*int(in[i]) {
				t.Fatalf("iter %d index %d: got %d, want %d", iter, i, d[i], 8*int(in[i]))
			}
		}
	}
}

func TestDCT2x2DCSelfInverse(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	for iter := 0; iter < 1000; iter++ {
		var in [4]int16
		for i := range in {
			in[i] = int16(rng.Intn(2048) - 1024)
		}
		d := in
		DCT2x2DC(&d)
		IDCT2x2DC(&d)
		for i := range d {
			if int(d[i]) != 4*int(in[i]) {
				t.Fatalf("iter %d index %d: got %d, want %d", iter, i, d[i], 4*int(in[i]))
			}
		}
	}
}
