package dsp

// Straight-line 4x4 transforms. Results match transforms.go bit for bit.

func subDCT4x4Unrolled(dct *[16]int16, src, pred []byte) {
	_ = src[3+3*EncStride]
	_ = pred[3+3*BPS]

	var tmp [16]int

	// Horizontal pass, row 0.
	{
		d0 := int(src[0]) - int(pred[0])
		d1 := int(src[1]) - int(pred[1])
		d2 := int(src[2]) - int(pred[2])
		d3 := int(src[3]) - int(pred[3])
		tmp[0] = d0 + d1 + d2 + d3
		tmp[1] = 2*(d0-d3) + (d1 - d2)
		tmp[2] = d0 - d1 - d2 + d3
		tmp[3] = (d0 - d3) - 2*(d1-d2)
	}
	// Row 1.
	{
		d0 := int(src[EncStride]) - int(pred[BPS])
		d1 := int(src[1+EncStride]) - int(pred[1+BPS])
		d2 := int(src[2+EncStride]) - int(pred[2+BPS])
		d3 := int(src[3+EncStride]) - int(pred[3+BPS])
		tmp[4] = d0 + d1 + d2 + d3
		tmp[5] = 2*(d0-d3) + (d1 - d2)
		tmp[6] = d0 - d1 - d2 + d3
		tmp[7] = (d0 - d3) - 2*(d1-d2)
	}
	// Row 2.
	{
		d0 := int(src[2*EncStride]) - int(pred[2*BPS])
		d1 := int(src[1+2*EncStride]) - int(pred[1+2*BPS])
		d2 := int(src[2+2*EncStride]) - int(pred[2+2*BPS])
		d3 := int(src[3+2*EncStride]) - int(pred[3+2*BPS])
		tmp[8] = d0 + d1 + d2 + d3
		tmp[9] = 2*(d0-d3) + (d1 - d2)
		tmp[10] = d0 - d1 - d2 + d3
		tmp[11] = (d0 - d3) - 2*(d1-d2)
	}
	// Row 3.
	{
		d0 := int(src[3*EncStride]) - int(pred[3*BPS])
		d1 := int(src[1+3*EncStride]) - int(pred[1+3*BPS])
		d2 := int(src[2+3*EncStride]) - int(pred[2+3*BPS])
		d3 := int(src[3+3*EncStride]) - int(pred[3+3*BPS])
		tmp[12] = d0 + d1 + d2 + d3
		tmp[13] = 2*(d0-d3) + (d1 - d2)
		tmp[14] = d0 - d1 - d2 + d3
		tmp[15] = (d0 - d3) - 2*(d1-d2)
	}

	// Vertical pass.
	fdctColumn(dct, &tmp, 0)
	fdctColumn(dct, &tmp, 1)
	fdctColumn(dct, &tmp, 2)
	fdctColumn(dct, &tmp, 3)
}

func fdctColumn(dct *[16]int16, tmp *[16]int, u int) {
	s03 := tmp[u] + tmp[12+u]
	s12 := tmp[4+u] + tmp[8+u]
	d03 := tmp[u] - tmp[12+u]
	d12 := tmp[4+u] - tmp[8+u]
	dct[u] = int16(s03 + s12)
	dct[4+u] = int16(2*d03 + d12)
	dct[8+u] = int16(s03 - s12)
	dct[12+u] = int16(d03 - 2*d12)
}

func addIDCT4x4Unrolled(dst []byte, dct *[16]int16) {
	_ = dst[3+3*BPS]

	var tmp [16]int
	idctRow(&tmp, dct, 0)
	idctRow(&tmp, dct, 4)
	idctRow(&tmp, dct, 8)
	idctRow(&tmp, dct, 12)

	// Column 0.
	{
		s02, d02 := tmp[0]+tmp[8], tmp[0]-tmp[8]
		s13, d13 := tmp[4]+(tmp[12]>>1), (tmp[4]>>1)-tmp[12]
		dst[0] = Clip8b(int(dst[0]) + ((s02 + s13 + 32) >> 6))
		dst[BPS] = Clip8b(int(dst[BPS]) + ((d02 + d13 + 32) >> 6))
		dst[2*BPS] = Clip8b(int(dst[2*BPS]) + ((d02 - d13 + 32) >> 6))
		dst[3*BPS] = Clip8b(int(dst[3*BPS]) + ((s02 - s13 + 32) >> 6))
	}
	// Column 1.
	{
		s02, d02 := tmp[1]+tmp[9], tmp[1]-tmp[9]
		s13, d13 := tmp[5]+(tmp[13]>>1), (tmp[5]>>1)-tmp[13]
		dst[1] = Clip8b(int(dst[1]) + ((s02 + s13 + 32) >> 6))
		dst[1+BPS] = Clip8b(int(dst[1+BPS]) + ((d02 + d13 + 32) >> 6))
		dst[1+2*BPS] = Clip8b(int(dst[1+2*BPS]) + ((d02 - d13 + 32) >> 6))
		dst[1+3*BPS] = Clip8b(int(dst[1+3*BPS]) + ((s02 - s13 + 32) >> 6))
	}
	// Column 2.
	{
		s02, d02 := tmp[2]+tmp[10], tmp[2]-tmp[10]
		s13, d13 := tmp[6]+(tmp[14]>>1), (tmp[6]>>1)-tmp[14]
		dst[2] = Clip8b(int(dst[2]) + ((s02 + s13 + 32) >> 6))
		dst[2+BPS] = Clip8b(int(dst[2+BPS]) + ((d02 + d13 + 32) >> 6))
		dst[2+2*BPS] = Clip8b(int(dst[2+2*BPS]) + ((d02 - d13 + 32) >> 6))
		dst[2+3*BPS] = Clip8b(int(dst[2+3*BPS]) + ((s02 - s13 + 32) >> 6))
	}
	// Column 3.
	{
		s02, d02 := tmp[3]+tmp[11], tmp[3]-tmp[11]
		s13, d13 := tmp[7]+(tmp[15]>>1), (tmp[7]>>1)-tmp[15]
		dst[3] = Clip8b(int(dst[3]) + ((s02 + s13 + 32) >> 6))
		dst[3+BPS] = Clip8b(int(dst[3+BPS]) + ((d02 + d13 + 32) >> 6))
		dst[3+2*BPS] = Clip8b(int(dst[3+2*BPS]) + ((d02 - d13 + 32) >> 6))
		dst[3+3*BPS] = Clip8b(int(dst[3+3*BPS]) + ((s02 - s13 + 32) >> 6))
	}
}

func idctRow(tmp *[16]int, dct *[16]int16, o int) {
	c0, c1 := int(dct[o]), int(dct[o+1])
	c2, c3 := int(dct[o+2]), int(dct[o+3])
	s02, d02 := c0+c2, c0-c2
	s13, d13 := c1+(c3>>1), (c1>>1)-c3
	tmp[o] = s02 + s13
	tmp[o+1] = d02 + d13
	tmp[o+2] = d02 - d13
	tmp[o+3] = s02 - s13
}

func addIDCT4x4DCUnrolled(dst []byte, dc int16) {
	_ = dst[3+3*BPS]
	d := (int(dc) + 32) >> 6
	dst[0] = Clip8b(int(dst[0]) + d)
	dst[1] = Clip8b(int(dst[1]) + d)
	dst[2] = Clip8b(int(dst[2]) + d)
	dst[3] = Clip8b(int(dst[3]) + d)
	dst[BPS] = Clip8b(int(dst[BPS]) + d)
	dst[1+BPS] = Clip8b(int(dst[1+BPS]) + d)
	dst[2+BPS] = Clip8b(int(dst[2+BPS]) + d)
	dst[3+BPS] = Clip8b(int(dst[3+BPS]) + d)
	dst[2*BPS] = Clip8b(int(dst[2*BPS]) + d)
	dst[1+2*BPS] = Clip8b(int(dst[1+2*BPS]) + d)
	dst[2+2*BPS] = Clip8b(int(dst[2+2*BPS]) + d)
	dst[3+2*BPS] = Clip8b(int(dst[3+2*BPS]) + d)
	dst[3*BPS] = Clip8b(int(dst[3*BPS]) + d)
	dst[1+3*BPS] = Clip8b(int(dst[1+3*BPS]) + d)
	dst[2+3*BPS] = Clip8b(int(dst[2+3*BPS]) + d)
	dst[3+3*BPS] = Clip8b(int(dst[3+3*BPS]) + d)
}
