package quant

// idctDequant2x2 is the decoder's view of a chroma DC block: the inverse
// 2x2 transform followed by dequantization with dmf, which already carries
// the qp/6 shift.
func idctDequant2x2(out *[4]int, dc *[4]int16, dmf int) {
	d0 := int(dc[0]) + int(dc[1])
	d1 := int(dc[2]) + int(dc[3])
	d2 := int(dc[0]) - int(dc[1])
	d3 := int(dc[2]) - int(dc[3])
	out[0] = (d0 + d1) * dmf >> 5
	out[1] = (d2 + d3) * dmf >> 5
	out[2] = (d0 - d1) * dmf >> 5
	out[3] = (d2 - d3) * dmf >> 5
}

// sameRounded reports whether dc reconstructs to the pixel DC offsets in
// orig, which hold dequantized values already biased by 32.
func sameRounded(dc *[4]int16, orig *[4]int, dmf int) bool {
	var rec [4]int
	idctDequant2x2(&rec, dc, dmf)
	for i := range rec {
		if (rec[i]+32)>>6 != orig[i]>>6 {
			return false
		}
	}
	return true
}

// OptimizeChroma2x2DC lowers the magnitude of quantized chroma DC levels
// as long as the block still decodes to the same pixel offsets. dmf is
// Tables.ChromaDCDequant for the block's list and QP. It reports whether
// any level remains non-zero.
func OptimizeChroma2x2DC(dc *[4]int16, dmf int) bool {
	var orig [4]int
	idctDequant2x2(&orig, dc, dmf)
	for i := range orig {
		orig[i] += 32
	}
	if (orig[0]|orig[1]|orig[2]|orig[3])>>6 == 0 {
		*dc = [4]int16{}
		return false
	}

	nz := int16(0)
	for i := 3; i >= 0; i-- {
		level := dc[i]
		sign := int16(1)
		if level < 0 {
			sign = -1
		}
		for level != 0 {
			dc[i] = level - sign
			if !sameRounded(dc, &orig, dmf) {
				dc[i] = level
				break
			}
			level -= sign
		}
		nz |= level
	}
	return nz != 0
}
