// Package quant implements H.264 scalar quantization of transform
// coefficients: forward quantization, dequantization, chroma DC refinement,
// adaptive denoising, block decimation and run/level extraction.
//
// Coefficient blocks use the raster layout of package dsp: dct[v*N+u].
package quant

// MaxQP is the largest quantizer for 8-bit video.
const MaxQP = 51

var dequant4Scale = [6][3]int32{
	{10, 13, 16},
	{11, 14, 18},
	{13, 16, 20},
	{14, 18, 23},
	{16, 20, 25},
	{18, 23, 29},
}

var quant4Scale = [6][3]int32{
	{13107, 8066, 5243},
	{11916, 7490, 4660},
	{10082, 6554, 4194},
	{9362, 5825, 3647},
	{8192, 5243, 3355},
	{7282, 4559, 2893},
}

// quant8Class maps an 8x8 position, folded to 4x4, to its scale column.
var quant8Class = [16]uint8{
	0, 3, 4, 3,
	3, 1, 5, 1,
	4, 5, 2, 5,
	3, 1, 5, 1,
}

var dequant8Scale = [6][6]int32{
	{20, 18, 32, 19, 25, 24},
	{22, 19, 35, 21, 28, 26},
	{26, 23, 42, 24, 33, 31},
	{28, 25, 45, 26, 35, 33},
	{32, 28, 51, 30, 40, 38},
	{36, 32, 58, 34, 46, 43},
}

var quant8Scale = [6][6]int32{
	{13107, 11428, 20972, 12222, 16777, 15481},
	{11916, 10826, 19174, 11058, 14980, 14290},
	{10082, 8943, 15978, 9675, 12710, 11985},
	{9362, 8228, 14913, 8931, 11984, 11259},
	{8192, 7346, 13159, 7740, 10486, 9777},
	{7282, 6428, 11570, 6830, 9118, 8640},
}

// class4 returns the scale column of 4x4 position i.
func class4(i int) int { return (i & 1) + ((i >> 2) & 1) }

// class8 returns the scale column of 8x8 position i.
func class8(i int) int { return int(quant8Class[((i>>1)&12)|(i&3)]) }

// List selects a 4x4 scaling list.
type List int

const (
	List4IY List = iota // intra luma
	List4IC             // intra chroma
	List4PY             // inter luma
	List4PC             // inter chroma
	numLists4
)

// Inter reports whether l is an inter list.
func (l List) Inter() bool { return l >= List4PY }

func (l List) String() string {
	switch l {
	case List4IY:
		return "intra-luma"
	case List4IC:
		return "intra-chroma"
	case List4PY:
		return "inter-luma"
	case List4PC:
		return "inter-chroma"
	}
	return "unknown"
}

// CQM holds the custom quantization matrices. A weight of 16 is neutral.
// Intra8 and Inter8 are the luma 8x8 lists.
type CQM struct {
	List4  [numLists4][16]uint8
	Intra8 [64]uint8
	Inter8 [64]uint8
}

// FlatCQM returns the flat matrix set.
func FlatCQM() *CQM {
	c := &CQM{}
	for l := range c.List4 {
		for i := range c.List4[l] {
			c.List4[l][i] = 16
		}
	}
	for i := 0; i < 64; i++ {
		c.Intra8[i] = 16
		c.Inter8[i] = 16
	}
	return c
}

// Tables holds the multipliers derived from a CQM. A Tables value is
// immutable after NewTables and may be shared between goroutines.
type Tables struct {
	mf4  [numLists4][6][16]int32
	dmf4 [numLists4][6][16]int32
	mf8  [2][6][64]int32
	dmf8 [2][6][64]int32
}

// NewTables builds the multiplier tables for cqm. A nil cqm selects the
// flat matrices.
func NewTables(cqm *CQM) *Tables {
	if cqm == nil {
		cqm = FlatCQM()
	}
	t := &Tables{}
	for q := 0; q < 6; q++ {
		for l := 0; l < int(numLists4); l++ {
			for i := 0; i < 16; i++ {
				w := int32(cqm.List4[l][i])
				if w == 0 {
					w = 16
				}
				j := class4(i)
				t.dmf4[l][q][i] = dequant4Scale[q][j] * w
				t.mf4[l][q][i] = quant4Scale[q][j] * 16 / w
			}
		}
		for l, list := range [2]*[64]uint8{&cqm.Intra8, &cqm.Inter8} {
			for i := 0; i < 64; i++ {
				w := int32(list[i])
				if w == 0 {
					w = 16
				}
				j := class8(i)
				t.dmf8[l][q][i] = dequant8Scale[q][j] * w
				t.mf8[l][q][i] = quant8Scale[q][j] * 16 / w
			}
		}
	}
	return t
}

var flat = NewTables(nil)

// Flat returns the shared tables for the flat matrices.
func Flat() *Tables { return flat }

// MF4 returns the 4x4 quant multipliers of list at qp.
func (t *Tables) MF4(l List, qp int) *[16]int32 { return &t.mf4[l][clampQP(qp)%6] }

// DequantMF4 returns the 4x4 dequant multipliers of list at qp.
func (t *Tables) DequantMF4(l List, qp int) *[16]int32 { return &t.dmf4[l][clampQP(qp)%6] }

// MF8 returns the 8x8 quant multipliers at qp.
func (t *Tables) MF8(inter bool, qp int) *[64]int32 { return &t.mf8[b2i(inter)][clampQP(qp)%6] }

// DequantMF8 returns the 8x8 dequant multipliers at qp.
func (t *Tables) DequantMF8(inter bool, qp int) *[64]int32 {
	return &t.dmf8[b2i(inter)][clampQP(qp)%6]
}

// ChromaDCDequant returns the multiplier OptimizeChroma2x2DC expects for
// list at qp: the DC dequant weight with the qp/6 shift folded in.
func (t *Tables) ChromaDCDequant(l List, qp int) int {
	qp = clampQP(qp)
	return int(t.dmf4[l][qp%6][0]) << (qp / 6)
}

// Deadzone rounding offsets, as fractions of one quantization step.
func bias(qbits uint, inter bool) int {
	if inter {
		return (1 << qbits) / 6
	}
	return (1 << qbits) / 3
}

func clampQP(qp int) int {
	if qp < 0 {
		return 0
	}
	if qp > MaxQP {
		return MaxQP
	}
	return qp
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}
