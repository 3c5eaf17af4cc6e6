package quant

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDecimateScore(t *testing.T) {
	tests := []struct {
		name  string
		level [16]int16
		want  int
	}{
		{"empty", [16]int16{}, 0},
		{"dc one", [16]int16{1}, 3},
		{"two ones adjacent", [16]int16{1, -1}, 6},
		{"run of two", [16]int16{1, 0, 0, 1}, 5},
		{"long run", [16]int16{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1}, 0},
		{"big level", [16]int16{0, 0, 2}, DecimateMax},
		{"big level below ones", [16]int16{-3, 0, 0, 1, 1}, DecimateMax},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level := tt.level
			if got := DecimateScore16(&level); got != tt.want {
				t.Errorf("DecimateScore16(%v) = %d, want %d", tt.level, got, tt.want)
			}
			if level != tt.level {
				t.Errorf("DecimateScore16 modified its input")
			}
		})
	}
}

func TestDecimateScore15IgnoresDC(t *testing.T) {
	level := [16]int16{40, 1}
	if got := DecimateScore15(&level); got != 3 {
		t.Errorf("DecimateScore15 = %d, want 3", got)
	}
}

func TestDecimateScore64(t *testing.T) {
	var level [64]int16
	level[0] = 1
	level[13] = -1
	// Runs: 0 below level 0, 12 below level 13.
	if got, want := DecimateScore64(&level), 3+1; got != want {
		t.Errorf("DecimateScore64 = %d, want %d", got, want)
	}
	level[40] = 2
	if got := DecimateScore64(&level); got != DecimateMax {
		t.Errorf("DecimateScore64 with |level|=2 = %d, want %d", got, DecimateMax)
	}
}

func TestDecimateScorePure(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	for it := 0; it < 1000; it++ {
		var level [64]int16
		for i := range level {
			if rng.Intn(6) == 0 {
				level[i] = int16(rng.Intn(3) - 1)
			}
		}
		a := DecimateScore64(&level)
		b := DecimateScore64(&level)
		if a != b {
			t.Fatalf("score changed between calls: %d vs %d", a, b)
		}
	}
}

func TestCoeffLast(t *testing.T) {
	if got := CoeffLast([]int16{0, 0, 0, 0}); got != -1 {
		t.Errorf("CoeffLast(zero) = %d, want -1", got)
	}
	if got := CoeffLast([]int16{5, 0, -1, 0}); got != 2 {
		t.Errorf("CoeffLast = %d, want 2", got)
	}
	l := make([]int32, 64)
	l[63] = 1
	if got := CoeffLast(l); got != 63 {
		t.Errorf("CoeffLast(64) = %d, want 63", got)
	}
}

func TestRunLevel(t *testing.T) {
	for _, n := range []int{4, 15, 16, 64} {
		var rl RunLevels
		level := make([]int16, n)
		if got := RunLevel(level, &rl); got != 0 || rl.Last != -1 || rl.TotalZeros() != 0 {
			t.Errorf("n=%d: empty block gives total %d, last %d", n, got, rl.Last)
		}
	}

	level := []int16{3, 0, 0, -1, 0, 1, 0, 0}
	var rl RunLevels
	if got := RunLevel(level, &rl); got != 3 {
		t.Fatalf("RunLevel total = %d, want 3", got)
	}
	if rl.Last != 5 {
		t.Errorf("Last = %d, want 5", rl.Last)
	}
	if diff := cmp.Diff([]int16{1, -1, 3}, rl.Level[:rl.Total]); diff != "" {
		t.Errorf("levels mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]uint8{1, 2, 0}, rl.Run[:rl.Total]); diff != "" {
		t.Errorf("runs mismatch (-want +got):\n%s", diff)
	}
	if rl.Mask != 1<<0|1<<3|1<<5 {
		t.Errorf("Mask = %b", rl.Mask)
	}
	if rl.TotalZeros() != 3 {
		t.Errorf("TotalZeros = %d, want 3", rl.TotalZeros())
	}
}
