package quant

// Denoise accumulates each coefficient magnitude into sum and then shrinks
// it toward zero by offset, clamping at zero. dct, sum and offset must have
// the same length.
func Denoise(dct []int16, sum []uint32, offset []uint16) {
	sum = sum[:len(dct)]
	offset = offset[:len(dct)]
	for i, c := range dct {
		level := int(c)
		neg := level < 0
		if neg {
			level = -level
		}
		sum[i] += uint32(level)
		level -= int(offset[i])
		switch {
		case level <= 0:
			dct[i] = 0
		case neg:
			dct[i] = int16(-level)
		default:
			dct[i] = int16(level)
		}
	}
}

// NRCategory selects the statistics of one kind of residual block.
type NRCategory int

const (
	NR4x4Intra NRCategory = iota
	NR8x8Intra
	NR4x4Inter
	NR8x8Inter
	numNRCategories
)

func (c NRCategory) is8x8() bool { return c&1 != 0 }

func (c NRCategory) size() int {
	if c.is8x8() {
		return 64
	}
	return 16
}

// Squared basis-function norms in 8.8 fixed point.
var (
	weight2x4 = [3]uint32{256, 433, 655}
	weight2x8 = [6]uint32{256, 207, 655, 231, 400, 369}
)

// NoiseReduction estimates per-position denoise offsets from the residual
// statistics of coded blocks. The zero value is unusable; use
// NewNoiseReduction. It is not safe for concurrent use.
type NoiseReduction struct {
	strength int
	count    [numNRCategories]uint32
	sum      [numNRCategories][64]uint32
	offset   [numNRCategories][64]uint16
}

// NewNoiseReduction returns an estimator with the given strength. All
// offsets start at zero.
func NewNoiseReduction(strength int) *NoiseReduction {
	return &NoiseReduction{strength: strength}
}

// Strength returns the configured strength.
func (nr *NoiseReduction) Strength() int { return nr.strength }

// Denoise4x4 shrinks a 4x4 block with the offsets of cat and records it.
func (nr *NoiseReduction) Denoise4x4(dct *[16]int16, cat NRCategory) {
	Denoise(dct[:], nr.sum[cat][:16], nr.offset[cat][:16])
	nr.count[cat]++
}

// Denoise8x8 shrinks an 8x8 block with the offsets of cat and records it.
func (nr *NoiseReduction) Denoise8x8(dct *[64]int16, cat NRCategory) {
	Denoise(dct[:], nr.sum[cat][:], nr.offset[cat][:])
	nr.count[cat]++
}

// Offsets returns the current offsets of cat.
func (nr *NoiseReduction) Offsets(cat NRCategory) []uint16 {
	return nr.offset[cat][:cat.size()]
}

// Count returns the number of blocks recorded for cat since the last decay.
func (nr *NoiseReduction) Count(cat NRCategory) uint32 { return nr.count[cat] }

// Update rebuilds the offsets from the accumulated statistics. Old
// statistics decay by half once a category has seen enough blocks. DC
// offsets are always zero.
func (nr *NoiseReduction) Update() {
	for cat := NRCategory(0); cat < numNRCategories; cat++ {
		size := cat.size()
		limit := uint32(1 << 18)
		if cat.is8x8() {
			limit = 1 << 16
		}
		if nr.count[cat] > limit {
			for i := 0; i < size; i++ {
				nr.sum[cat][i] >>= 1
			}
			nr.count[cat] >>= 1
		}
		for i := 0; i < size; i++ {
			var w uint64
			if cat.is8x8() {
				w = uint64(weight2x8[class8(i)])
			} else {
				w = uint64(weight2x4[class4(i)])
			}
			s := uint64(nr.sum[cat][i])
			off := (uint64(nr.strength)*uint64(nr.count[cat]) + s/2) / (s*w/256 + 1)
			if off > 0xffff {
				off = 0xffff
			}
			nr.offset[cat][i] = uint16(off)
		}
		nr.offset[cat][0] = 0
	}
}
