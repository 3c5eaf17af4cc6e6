package dsp

import (
	"math"
	"math/rand"
	"testing"
)

func TestPSNRFromSSE(t *testing.T) {
	if got := PSNRFromSSE(0, 100); got != 99 {
		t.Errorf("PSNRFromSSE(0) = %v, want 99", got)
	}
	// MSE 1 gives 20*log10(255).
	want := 20 * math.Log10(255)
	if got := PSNRFromSSE(100, 100); math.Abs(got-want) > 1e-9 {
		t.Errorf("PSNRFromSSE(100, 100) = %v, want %v", got, want)
	}
}

func TestSSIM(t *testing.T) {
	rng := rand.New(rand.NewSource(10))
	a := makeRandBuf(rng, 32*32)
	if got := SSIM(a, 32, a, 32, 32, 32, 4); math.Abs(got-1) > 1e-9 {
		t.Errorf("SSIM(a, a) = %v, want 1", got)
	}
	b := makeRandBuf(rng, 32*32)
	if got := SSIM(a, 32, b, 32, 32, 32, 4); got > 0.5 {
		t.Errorf("SSIM of unrelated noise = %v, want < 0.5", got)
	}
}

func TestRGBToY(t *testing.T) {
	if got := RGBToY(0, 0, 0); got != 16 {
		t.Errorf("RGBToY(black) = %d, want 16", got)
	}
	if got := RGBToY(255, 255, 255); got != 235 {
		t.Errorf("RGBToY(white) = %d, want 235", got)
	}
}
