package dsp

// Clip table covering every intermediate the interpolation filters and
// weighted averages can produce. Negative-index access is emulated through
// a fixed offset into an oversized array.
var clip1 [clip1Neg + clip1Pos + 1]uint8

const (
	clip1Neg    = 1024
	clip1Pos    = 1279
	clip1Offset = clip1Neg
)

// Kclip1 returns v clipped to [0, 255]. v must lie in [-1024, 1279].
func Kclip1(v int) uint8 { return clip1[clip1Offset+v] }

// Clip8b clips v to the range [0, 255].
// Uses unsigned comparison for single-branch hot path when v is in [0, 255].
func Clip8b(v int) uint8 {
	if uint(v) <= 255 {
		return uint8(v)
	}
	return uint8(^(v >> 63) & 255)
}

func initClipTables() {
	for i := -clip1Neg; i <= clip1Pos; i++ {
		clip1[clip1Offset+i] = Clip8b(i)
	}
}

// Clip3 clamps v to [lo, hi].
func Clip3(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
