package quant

// dequantBlock scales coefs by dmf and 2^qbits. A negative qbits selects the
// rounded right shift used at low QP.
func dequantBlock(coefs []int16, dmf []int32, qbits int) {
	dmf = dmf[:len(coefs)]
	if qbits >= 0 {
		for i, c := range coefs {
			coefs[i] = int16((int(c) * int(dmf[i])) << qbits)
		}
		return
	}
	f := 1 << (-qbits - 1)
	for i, c := range coefs {
		coefs[i] = int16((int(c)*int(dmf[i]) + f) >> -qbits)
	}
}

// Dequant4x4 reconstructs a quantized 4x4 block in place.
func (t *Tables) Dequant4x4(dct *[16]int16, l List, qp int) {
	qp = clampQP(qp)
	dequantBlock(dct[:], t.dmf4[l][qp%6][:], qp/6-4)
}

// Dequant4x4AC reconstructs the AC coefficients of a 4x4 block whose DC
// was dequantized on its own.
func (t *Tables) Dequant4x4AC(dct *[16]int16, l List, qp int) {
	qp = clampQP(qp)
	dequantBlock(dct[1:], t.dmf4[l][qp%6][1:], qp/6-4)
}

// Dequant8x8 reconstructs a quantized 8x8 block in place.
func (t *Tables) Dequant8x8(dct *[64]int16, inter bool, qp int) {
	qp = clampQP(qp)
	dequantBlock(dct[:], t.dmf8[b2i(inter)][qp%6][:], qp/6-6)
}

// Dequant4x4DC reconstructs an intra 16x16 luma DC block. It expects the
// levels after the inverse Hadamard.
func (t *Tables) Dequant4x4DC(dc *[16]int16, qp int) {
	qp = clampQP(qp)
	dmf := int(t.dmf4[List4IY][qp%6][0])
	qbits := qp/6 - 6
	if qbits >= 0 {
		for i, c := range dc {
			dc[i] = int16((int(c) * dmf) << qbits)
		}
		return
	}
	f := 1 << (-qbits - 1)
	for i, c := range dc {
		dc[i] = int16((int(c)*dmf + f) >> -qbits)
	}
}

// Dequant2x2DC reconstructs a chroma DC block after the inverse 2x2
// transform.
func (t *Tables) Dequant2x2DC(dc *[4]int16, l List, qp int) {
	qp = clampQP(qp)
	dmf := int(t.dmf4[l][qp%6][0])
	if qbits := qp/6 - 5; qbits >= 0 {
		for i, c := range dc {
			dc[i] = int16((int(c) * dmf) << qbits)
		}
	} else {
		for i, c := range dc {
			dc[i] = int16((int(c) * dmf) >> -qbits)
		}
	}
}
