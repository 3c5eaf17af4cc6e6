// Package scan reorders transform coefficient blocks into the 1D sequences
// the entropy coder consumes, and back.
package scan

import "github.com/deepteams/avcore/internal/dsp"

// Order selects the progressive (frame) or interlaced (field) scan.
type Order int

const (
	Frame Order = iota
	Field
)

func (o Order) String() string {
	if o == Field {
		return "field"
	}
	return "frame"
}

// Scan4x4 writes dct in scan order to level.
func Scan4x4(level, dct *[16]int16, o Order) {
	t := Table4x4(o)
	for i, pos := range t {
		level[i] = dct[pos]
	}
}

// Unscan4x4 is the inverse of Scan4x4.
func Unscan4x4(dct, level *[16]int16, o Order) {
	t := Table4x4(o)
	for i, pos := range t {
		dct[pos] = level[i]
	}
}

// Scan8x8 writes dct in scan order to level.
func Scan8x8(level, dct *[64]int16, o Order) {
	t := Table8x8(o)
	for i, pos := range t {
		level[i] = dct[pos]
	}
}

// Unscan8x8 is the inverse of Scan8x8.
func Unscan8x8(dct, level *[64]int16, o Order) {
	t := Table8x8(o)
	for i, pos := range t {
		dct[pos] = level[i]
	}
}

// ScanAC4x4 scans the 15 AC coefficients of a block whose DC is coded
// separately.
func ScanAC4x4(level *[15]int16, dct *[16]int16, o Order) {
	t := Table4x4(o)
	for i := 1; i < 16; i++ {
		level[i-1] = dct[t[i]]
	}
}

// Scan2x2DC scans a chroma DC block. The order is raster.
func Scan2x2DC(level, dc *[4]int16) {
	*level = *dc
}

// ScanSub4x4 computes level[i] = src[pos] - pred[pos] directly in scan
// order and then copies src over pred, so pred holds the reconstruction of
// a losslessly coded block. src uses dsp.EncStride, pred dsp.BPS. It
// reports whether any level is non-zero.
func ScanSub4x4(level *[16]int16, src, pred []byte, o Order) bool {
	return scanSub(level[:], Table4x4(o)[:], 4, src, pred)
}

// ScanSub8x8 is the 8x8 form of ScanSub4x4.
func ScanSub8x8(level *[64]int16, src, pred []byte, o Order) bool {
	return scanSub(level[:], Table8x8(o)[:], 8, src, pred)
}

func scanSub(level []int16, t []uint8, n int, src, pred []byte) bool {
	nz := false
	for i, pos := range t {
		x, y := int(pos)%n, int(pos)/n
		v := int16(int(src[x+y*dsp.EncStride]) - int(pred[x+y*dsp.BPS]))
		level[i] = v
		nz = nz || v != 0
	}
	dsp.Copy(pred, dsp.BPS, src, dsp.EncStride, n, n)
	return nz
}

// InterleaveCAVLC8x8 splits a scanned 8x8 block into the four interleaved
// 16-coefficient sequences CAVLC codes as 4x4 blocks. dst[i*16+j] receives
// src[i+j*4]. It returns a non-zero flag per sub-block.
func InterleaveCAVLC8x8(dst, src *[64]int16) [4]bool {
	var nnz [4]bool
	for i := 0; i < 4; i++ {
		nz := false
		for j := 0; j < 16; j++ {
			v := src[i+j*4]
			dst[i*16+j] = v
			nz = nz || v != 0
		}
		nnz[i] = nz
	}
	return nnz
}
