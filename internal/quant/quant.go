package quant

// quantOne quantizes a single coefficient. Rounding is symmetric around
// zero: the magnitude is scaled, offset by f and shifted.
func quantOne(c int, mf int, qbits uint, f int) int16 {
	if c > 0 {
		return int16((f + c*mf) >> qbits)
	}
	return int16(-((f - c*mf) >> qbits))
}

// quantBlock quantizes coefs in place with per-position multipliers and
// reports whether any level is non-zero.
func quantBlock(coefs []int16, mf []int32, qbits uint, f int) bool {
	mf = mf[:len(coefs)]
	nz := int16(0)
	for i, c := range coefs {
		q := quantOne(int(c), int(mf[i]), qbits, f)
		coefs[i] = q
		nz |= q
	}
	return nz != 0
}

// quantBlockDC quantizes coefs in place with a single multiplier.
func quantBlockDC(coefs []int16, mf int, qbits uint, f int) bool {
	nz := int16(0)
	for i, c := range coefs {
		q := quantOne(int(c), mf, qbits, f)
		coefs[i] = q
		nz |= q
	}
	return nz != 0
}

// Quant4x4 quantizes a 4x4 block in place and reports whether any level is
// non-zero.
func (t *Tables) Quant4x4(dct *[16]int16, l List, qp int) bool {
	qp = clampQP(qp)
	qbits := uint(15 + qp/6)
	return quantBlock(dct[:], t.mf4[l][qp%6][:], qbits, bias(qbits, l.Inter()))
}

// Quant4x4AC quantizes the 15 AC coefficients of a 4x4 block whose DC is
// coded separately. dct[0] is left untouched.
func (t *Tables) Quant4x4AC(dct *[16]int16, l List, qp int) bool {
	qp = clampQP(qp)
	qbits := uint(15 + qp/6)
	return quantBlock(dct[1:], t.mf4[l][qp%6][1:], qbits, bias(qbits, l.Inter()))
}

// Quant8x8 quantizes an 8x8 luma block in place.
func (t *Tables) Quant8x8(dct *[64]int16, inter bool, qp int) bool {
	qp = clampQP(qp)
	qbits := uint(16 + qp/6)
	return quantBlock(dct[:], t.mf8[b2i(inter)][qp%6][:], qbits, bias(qbits, inter))
}

// Quant4x4DC quantizes the Hadamard-transformed luma DC block of an intra
// 16x16 macroblock.
func (t *Tables) Quant4x4DC(dc *[16]int16, qp int) bool {
	qp = clampQP(qp)
	qbits := uint(16 + qp/6)
	return quantBlockDC(dc[:], int(t.mf4[List4IY][qp%6][0]), qbits, bias(qbits, false))
}

// Quant2x2DC quantizes a transformed chroma DC block.
func (t *Tables) Quant2x2DC(dc *[4]int16, l List, qp int) bool {
	qp = clampQP(qp)
	qbits := uint(16 + qp/6)
	return quantBlockDC(dc[:], int(t.mf4[l][qp%6][0]), qbits, bias(qbits, l.Inter()))
}
