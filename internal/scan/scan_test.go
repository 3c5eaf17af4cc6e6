package scan

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/deepteams/avcore/internal/dsp"
)

func TestTablesArePermutations(t *testing.T) {
	tests := []struct {
		name  string
		table []uint8
	}{
		{"frame4x4", frame4x4[:]},
		{"field4x4", field4x4[:]},
		{"frame8x8", frame8x8[:]},
		{"field8x8", field8x8[:]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen := make([]bool, len(tt.table))
			for i, pos := range tt.table {
				if int(pos) >= len(seen) {
					t.Fatalf("index %d: position %d out of range", i, pos)
				}
				if seen[pos] {
					t.Fatalf("index %d: position %d repeated", i, pos)
				}
				seen[pos] = true
			}
		})
	}
}

func TestScanUnscanBijection(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, o := range []Order{Frame, Field} {
		t.Run(o.String(), func(t *testing.T) {
			for iter := 0; iter < 200; iter++ {
				var dct4, level4, back4 [16]int16
				for i := range dct4 {
					dct4[i] = int16(rng.Intn(2001) - 1000)
				}
				Scan4x4(&level4, &dct4, o)
				Unscan4x4(&back4, &level4, o)
				if diff := cmp.Diff(dct4, back4); diff != "" {
					t.Fatalf("4x4 round trip mismatch (-want +got):\n%s", diff)
				}

				var dct8, level8, back8 [64]int16
				for i := range dct8 {
					dct8[i] = int16(rng.Intn(2001) - 1000)
				}
				Scan8x8(&level8, &dct8, o)
				Unscan8x8(&back8, &level8, o)
				if diff := cmp.Diff(dct8, back8); diff != "" {
					t.Fatalf("8x8 round trip mismatch (-want +got):\n%s", diff)
				}
			}
		})
	}
}

func TestPositionInvertsTable(t *testing.T) {
	for _, o := range []Order{Frame, Field} {
		for i, pos := range Table4x4(o) {
			if got := Position4x4(o, int(pos)); got != i {
				t.Errorf("%v Position4x4(%d) = %d, want %d", o, pos, got, i)
			}
		}
		for i, pos := range Table8x8(o) {
			if got := Position8x8(o, int(pos)); got != i {
				t.Errorf("%v Position8x8(%d) = %d, want %d", o, pos, got, i)
			}
		}
	}
}

func TestFrameScanStartsZigzag(t *testing.T) {
	// Raster positions (0,0), (1,0), (0,1), (0,2), (1,1), (2,0).
	want := []uint8{0, 1, 4, 8, 5, 2}
	if diff := cmp.Diff(want, frame4x4[:6]); diff != "" {
		t.Errorf("frame 4x4 prefix mismatch (-want +got):\n%s", diff)
	}
	want8 := []uint8{0, 1, 8, 16, 9, 2}
	if diff := cmp.Diff(want8, frame8x8[:6]); diff != "" {
		t.Errorf("frame 8x8 prefix mismatch (-want +got):\n%s", diff)
	}
}

func TestScanAC4x4(t *testing.T) {
	var dct [16]int16
	for i := range dct {
		dct[i] = int16(i + 1)
	}
	var full [16]int16
	var ac [15]int16
	Scan4x4(&full, &dct, Frame)
	ScanAC4x4(&ac, &dct, Frame)
	if diff := cmp.Diff(full[1:], ac[:]); diff != "" {
		t.Errorf("AC scan mismatch (-want +got):\n%s", diff)
	}
}

func TestScanSub4x4(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	src := make([]byte, 4*dsp.EncStride)
	pred := make([]byte, 4*dsp.BPS)
	for i := range src {
		src[i] = byte(rng.Intn(256))
	}
	for i := range pred {
		pred[i] = byte(rng.Intn(256))
	}
	var dct, want [16]int16
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			dct[y*4+x] = int16(int(src[x+y*dsp.EncStride]) - int(pred[x+y*dsp.BPS]))
		}
	}
	Scan4x4(&want, &dct, Field)

	var got [16]int16
	predCopy := append([]byte(nil), pred...)
	nz := ScanSub4x4(&got, src, predCopy, Field)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ScanSub4x4 mismatch (-want +got):\n%s", diff)
	}
	if wantNZ := want != [16]int16{}; nz != wantNZ {
		t.Errorf("nz = %v, want %v", nz, wantNZ)
	}
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if predCopy[x+y*dsp.BPS] != src[x+y*dsp.EncStride] {
				t.Fatalf("pred (%d,%d) not replaced by source", x, y)
			}
		}
	}

	same := append([]byte(nil), predCopy...)
	if ScanSub4x4(&got, src, same, Frame) {
		t.Error("identical blocks reported non-zero")
	}
}

func TestInterleaveCAVLC8x8(t *testing.T) {
	var src, dst [64]int16
	for i := range src {
		src[i] = int16(i)
	}
	src[0] = 0 // sub-block 0 holds 0, 4, 8, ...
	for j := 0; j < 16; j++ {
		src[3+j*4] = 0
	}
	nnz := InterleaveCAVLC8x8(&dst, &src)
	if want := [4]bool{true, true, true, false}; nnz != want {
		t.Errorf("nnz = %v, want %v", nnz, want)
	}
	for i := 0; i < 4; i++ {
		for j := 0; j < 16; j++ {
			if dst[i*16+j] != src[i+j*4] {
				t.Fatalf("dst[%d] = %d, want %d", i*16+j, dst[i*16+j], src[i+j*4])
			}
		}
	}
}
