// Package dsp provides the pixel kernels of the encoder core: block
// distortion metrics, the H.264 integer transforms and motion-compensated
// interpolation.
//
// Kernels are reached through package-level function variables that Init
// fills once from a capability descriptor. Callers never re-check CPU
// features per call.
package dsp

// BPS is the stride of decoded-side scratch blocks (prediction and
// reconstruction).
const BPS = 32

// EncStride is the stride of source-side scratch blocks.
const EncStride = 16

// PixelSize selects a block partition size.
type PixelSize int

// Partition sizes in the order used by every per-size table.
const (
	Pixel16x16 PixelSize = iota
	Pixel16x8
	Pixel8x16
	Pixel8x8
	Pixel8x4
	Pixel4x8
	Pixel4x4
	NumPixelSizes
)

var pixelDims = [NumPixelSizes][2]int{
	{16, 16}, {16, 8}, {8, 16}, {8, 8}, {8, 4}, {4, 8}, {4, 4},
}

// Width returns the block width in pixels.
func (p PixelSize) Width() int { return pixelDims[p][0] }

// Height returns the block height in pixels.
func (p PixelSize) Height() int { return pixelDims[p][1] }

func (p PixelSize) String() string {
	switch p {
	case Pixel16x16:
		return "16x16"
	case Pixel16x8:
		return "16x8"
	case Pixel8x16:
		return "8x16"
	case Pixel8x8:
		return "8x8"
	case Pixel8x4:
		return "8x4"
	case Pixel4x8:
		return "4x8"
	case Pixel4x4:
		return "4x4"
	}
	return "unknown"
}

// PixelSizeOf returns the partition size for a width and height, and false
// when the pair is not a partition size.
func PixelSizeOf(w, h int) (PixelSize, bool) {
	for i, d := range pixelDims {
		if d[0] == w && d[1] == h {
			return PixelSize(i), true
		}
	}
	return 0, false
}

// PixelCmp compares two blocks. Each buffer starts at the block origin and
// is addressed with its own stride.
type PixelCmp func(a []byte, aStride int, b []byte, bStride int) int

// Block metrics, indexed by PixelSize.
var (
	SAD  [NumPixelSizes]PixelCmp
	SSD  [NumPixelSizes]PixelCmp
	SATD [NumPixelSizes]PixelCmp
)

// SA8D metrics. Only sizes whose sides are multiples of 8 are filled.
var SA8D [NumPixelSizes]PixelCmp

// Transform function variables for dispatch.
// Sources use EncStride, predictions and destinations use BPS.
var (
	SubDCT4x4  func(dct *[16]int16, src, pred []byte)
	AddIDCT4x4 func(dst []byte, dct *[16]int16)
	SubDCT8x8  func(dct *[64]int16, src, pred []byte)
	AddIDCT8x8 func(dst []byte, dct *[64]int16)

	// DC-only inverse fast paths.
	AddIDCT4x4DC func(dst []byte, dc int16)
	AddIDCT8x8DC func(dst []byte, dc int16)

	DCT4x4DC  func(d *[16]int16)
	IDCT4x4DC func(d *[16]int16)
	DCT2x2DC  func(d *[4]int16)
	IDCT2x2DC func(d *[4]int16)
)

// Motion compensation function variables.
var (
	// HpelFilter fills the horizontal, vertical and centre half-pel planes
	// of a width x height region starting at off. All four planes share
	// stride and must have a border of at least 3 pixels around the region.
	HpelFilter func(dsth, dstv, dstc, src []byte, off, stride, width, height int)

	// Avg writes the rounded average of a and b into dst for a w x h block.
	Avg func(dst []byte, dstStride int, a []byte, aStride int, b []byte, bStride int, w, h int)

	// AvgWeight writes (a*wt + b*(64-wt) + 32) >> 6 for a w x h block.
	AvgWeight func(dst []byte, dstStride int, a []byte, aStride int, b []byte, bStride int, w, h, wt int)
)

var active Caps

// Active returns the capability descriptor the current kernels were
// selected for.
func Active() Caps { return active }

// Init selects kernels for the detected CPU.
func Init() {
	Use(Detect())
}

// Use selects kernels for caps. It must not run concurrently with kernel
// calls; tests use it to force a variant.
func Use(caps Caps) {
	initClipTables()
	active = caps

	for p := PixelSize(0); p < NumPixelSizes; p++ {
		SAD[p] = sadFunc(p)
		SSD[p] = ssdFunc(p)
		SATD[p] = satdFunc(p)
		SA8D[p] = nil
	}
	SA8D[Pixel16x16] = sa8d16x16
	SA8D[Pixel16x8] = sa8d16x8
	SA8D[Pixel8x16] = sa8d8x16
	SA8D[Pixel8x8] = sa8d8x8

	SubDCT4x4 = subDCT4x4
	AddIDCT4x4 = addIDCT4x4
	SubDCT8x8 = subDCT8x8
	AddIDCT8x8 = addIDCT8x8
	AddIDCT4x4DC = addIDCT4x4DC
	AddIDCT8x8DC = addIDCT8x8DC
	DCT4x4DC = dct4x4DC
	IDCT4x4DC = idct4x4DC
	DCT2x2DC = dct2x2DC
	IDCT2x2DC = dct2x2DC

	HpelFilter = hpelFilter
	Avg = avg
	AvgWeight = avgWeight

	if caps.Unrolled() {
		SAD[Pixel16x16] = sad16x16Unrolled
		SAD[Pixel8x8] = sad8x8Unrolled
		SATD[Pixel4x4] = satd4x4Unrolled
		SubDCT4x4 = subDCT4x4Unrolled
		AddIDCT4x4 = addIDCT4x4Unrolled
		AddIDCT4x4DC = addIDCT4x4DCUnrolled
	}
}

func init() {
	Init()
}
