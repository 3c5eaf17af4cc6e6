package dsp

import (
	"math/rand"
	"testing"
)

func TestMetricsIdenticalBlocks(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	a := makeRandBuf(rng, 16*EncStride)
	for p := PixelSize(0); p < NumPixelSizes; p++ {
		t.Run(p.String(), func(t *testing.T) {
			if got := SAD[p](a, EncStride, a, EncStride); got != 0 {
				t.Errorf("SAD = %d, want 0", got)
			}
			if got := SSD[p](a, EncStride, a, EncStride); got != 0 {
				t.Errorf("SSD = %d, want 0", got)
			}
			if got := SATD[p](a, EncStride, a, EncStride); got != 0 {
				t.Errorf("SATD = %d, want 0", got)
			}
		})
	}
}

func TestMetricsConstantOffset(t *testing.T) {
	a := make([]byte, 16*EncStride)
	b := make([]byte, 16*BPS)
	for i := range a {
		a[i] = 50
	}
	for i := range b {
		b[i] = 47
	}
	for p := PixelSize(0); p < NumPixelSizes; p++ {
		n := p.Width() * p.Height()
		t.Run(p.String(), func(t *testing.T) {
			if got := SAD[p](a, EncStride, b, BPS); got != 3*n {
				t.Errorf("SAD = %d, want %d", got, 3*n)
			}
			if got := SSD[p](a, EncStride, b, BPS); got != 9*n {
				t.Errorf("SSD = %d, want %d", got, 9*n)
			}
			// A flat difference only has DC energy: 16*3 per 4x4, halved.
			if got, want := SATD[p](a, EncStride, b, BPS), n/16*48/2; got != want {
				t.Errorf("SATD = %d, want %d", got, want)
			}
			if SA8D[p] != nil {
				if got, want := SA8D[p](a, EncStride, b, BPS), (n/64*64*3+2)>>2; got != want {
					t.Errorf("SA8D = %d, want %d", got, want)
				}
			}
		})
	}
}

func TestSATDAtLeastHalfSAD(t *testing.T) {
	// The Hadamard sum dominates the plain sum of differences; the final
	// halving can lose one.
	rng := rand.New(rand.NewSource(8))
	for iter := 0; iter < 200; iter++ {
		a := makeRandBuf(rng, 16*EncStride)
		b := makeRandBuf(rng, 16*BPS)
		sad := SAD[Pixel16x16](a, EncStride, b, BPS)
		satd := SATD[Pixel16x16](a, EncStride, b, BPS)
		if satd*2+1 < sad {
			t.Fatalf("iter %d: satd=%d sad=%d", iter, satd, sad)
		}
	}
}

func TestPixelSizeOf(t *testing.T) {
	for p := PixelSize(0); p < NumPixelSizes; p++ {
		got, ok := PixelSizeOf(p.Width(), p.Height())
		if !ok || got != p {
			t.Errorf("PixelSizeOf(%d, %d) = %v, %v; want %v", p.Width(), p.Height(), got, ok, p)
		}
	}
	if _, ok := PixelSizeOf(2, 2); ok {
		t.Error("PixelSizeOf(2, 2) reported a partition size")
	}
}

func TestVarianceAC(t *testing.T) {
	flat := make([]byte, 8*8)
	for i := range flat {
		flat[i] = 200
	}
	if got := VarianceAC(flat, 8, 8, 8); got != 0 {
		t.Errorf("flat VarianceAC = %d, want 0", got)
	}
	// Half 0, half 2: mean 1, every sample deviates by 1.
	for i := range flat {
		flat[i] = byte(2 * (i & 1))
	}
	if got := VarianceAC(flat, 8, 8, 8); got != 64 {
		t.Errorf("VarianceAC = %d, want 64", got)
	}
}
