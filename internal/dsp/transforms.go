package dsp

// H.264 4x4 core transform, its DC-only inverse and the DC Hadamards.
// Coefficients are stored in raster order: dct[v*4+u] holds vertical
// frequency v and horizontal frequency u.

// subDCT4x4 computes the forward core transform of src - pred.
func subDCT4x4(dct *[16]int16, src, pred []byte) {
	var tmp [16]int
	for y := 0; y < 4; y++ {
		s := src[y*EncStride : y*EncStride+4]
		p := pred[y*BPS : y*BPS+4]
		d0 := int(s[0]) - int(p[0])
		d1 := int(s[1]) - int(p[1])
		d2 := int(s[2]) - int(p[2])
		d3 := int(s[3]) - int(p[3])
		s03, s12 := d0+d3, d1+d2
		d03, d12 := d0-d3, d1-d2
		tmp[y*4+0] = s03 + s12
		tmp[y*4+1] = 2*d03 + d12
		tmp[y*4+2] = s03 - s12
		tmp[y*4+3] = d03 - 2*d12
	}
	for u := 0; u < 4; u++ {
		s03 := tmp[0*4+u] + tmp[3*4+u]
		s12 := tmp[1*4+u] + tmp[2*4+u]
		d03 := tmp[0*4+u] - tmp[3*4+u]
		d12 := tmp[1*4+u] - tmp[2*4+u]
		dct[0*4+u] = int16(s03 + s12)
		dct[1*4+u] = int16(2*d03 + d12)
		dct[2*4+u] = int16(s03 - s12)
		dct[3*4+u] = int16(d03 - 2*d12)
	}
}

// addIDCT4x4 adds the inverse transform of dct to dst, clipping to 8 bits.
func addIDCT4x4(dst []byte, dct *[16]int16) {
	var tmp [16]int
	for v := 0; v < 4; v++ {
		c0, c1 := int(dct[v*4+0]), int(dct[v*4+1])
		c2, c3 := int(dct[v*4+2]), int(dct[v*4+3])
		s02, d02 := c0+c2, c0-c2
		s13, d13 := c1+(c3>>1), (c1>>1)-c3
		tmp[v*4+0] = s02 + s13
		tmp[v*4+1] = d02 + d13
		tmp[v*4+2] = d02 - d13
		tmp[v*4+3] = s02 - s13
	}
	for x := 0; x < 4; x++ {
		c0, c1 := tmp[0*4+x], tmp[1*4+x]
		c2, c3 := tmp[2*4+x], tmp[3*4+x]
		s02, d02 := c0+c2, c0-c2
		s13, d13 := c1+(c3>>1), (c1>>1)-c3
		dst[x] = Clip8b(int(dst[x]) + ((s02 + s13 + 32) >> 6))
		dst[x+BPS] = Clip8b(int(dst[x+BPS]) + ((d02 + d13 + 32) >> 6))
		dst[x+2*BPS] = Clip8b(int(dst[x+2*BPS]) + ((d02 - d13 + 32) >> 6))
		dst[x+3*BPS] = Clip8b(int(dst[x+3*BPS]) + ((s02 - s13 + 32) >> 6))
	}
}

// addIDCT4x4DC adds the inverse of a DC-only block: every pixel moves by
// the same rounded amount.
func addIDCT4x4DC(dst []byte, dc int16) {
	d := (int(dc) + 32) >> 6
	for y := 0; y < 4; y++ {
		row := dst[y*BPS : y*BPS+4]
		for x := range row {
			row[x] = Clip8b(int(row[x]) + d)
		}
	}
}

// SubDCT16x16 transforms a macroblock residual as sixteen 4x4 blocks in
// raster block order.
func SubDCT16x16(dct *[16][16]int16, src, pred []byte) {
	for i := 0; i < 16; i++ {
		x, y := (i&3)*4, (i>>2)*4
		SubDCT4x4(&dct[i], src[x+y*EncStride:], pred[x+y*BPS:])
	}
}

// AddIDCT16x16 is the inverse of SubDCT16x16.
func AddIDCT16x16(dst []byte, dct *[16][16]int16) {
	for i := 0; i < 16; i++ {
		x, y := (i&3)*4, (i>>2)*4
		AddIDCT4x4(dst[x+y*BPS:], &dct[i])
	}
}

func dct4x4DC(d *[16]int16) {
	var tmp [16]int
	for y := 0; y < 4; y++ {
		s01 := int(d[y*4+0]) + int(d[y*4+1])
		d01 := int(d[y*4+0]) - int(d[y*4+1])
		s23 := int(d[y*4+2]) + int(d[y*4+3])
		d23 := int(d[y*4+2]) - int(d[y*4+3])
		tmp[y*4+0] = s01 + s23
		tmp[y*4+1] = s01 - s23
		tmp[y*4+2] = d01 - d23
		tmp[y*4+3] = d01 + d23
	}
	for u := 0; u < 4; u++ {
		s01 := tmp[0*4+u] + tmp[1*4+u]
		d01 := tmp[0*4+u] - tmp[1*4+u]
		s23 := tmp[2*4+u] + tmp[3*4+u]
		d23 := tmp[2*4+u] - tmp[3*4+u]
		d[0*4+u] = int16((s01 + s23 + 1) >> 1)
		d[1*4+u] = int16((s01 - s23 + 1) >> 1)
		d[2*4+u] = int16((d01 - d23 + 1) >> 1)
		d[3*4+u] = int16((d01 + d23 + 1) >> 1)
	}
}

func idct4x4DC(d *[16]int16) {
	var tmp [16]int
	for y := 0; y < 4; y++ {
		s01 := int(d[y*4+0]) + int(d[y*4+1])
		d01 := int(d[y*4+0]) - int(d[y*4+1])
		s23 := int(d[y*4+2]) + int(d[y*4+3])
		d23 := int(d[y*4+2]) - int(d[y*4+3])
		tmp[y*4+0] = s01 + s23
		tmp[y*4+1] = s01 - s23
		tmp[y*4+2] = d01 - d23
		tmp[y*4+3] = d01 + d23
	}
	for u := 0; u < 4; u++ {
		s01 := tmp[0*4+u] + tmp[1*4+u]
		d01 := tmp[0*4+u] - tmp[1*4+u]
		s23 := tmp[2*4+u] + tmp[3*4+u]
		d23 := tmp[2*4+u] - tmp[3*4+u]
		d[0*4+u] = int16(s01 + s23)
		d[1*4+u] = int16(s01 - s23)
		d[2*4+u] = int16(d01 - d23)
		d[3*4+u] = int16(d01 + d23)
	}
}

// dct2x2DC is the 2x2 Hadamard used for chroma DC. Applying it twice
// multiplies the block by 4.
func dct2x2DC(d *[4]int16) {
	a, b, c, e := int(d[0]), int(d[1]), int(d[2]), int(d[3])
	s0, s1 := a+b, c+e
	d0, d1 := a-b, c-e
	d[0] = int16(s0 + s1)
	d[1] = int16(d0 + d1)
	d[2] = int16(s0 - s1)
	d[3] = int16(d0 - d1)
}
