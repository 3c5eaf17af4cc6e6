package dsp

// H.264 8x8 transform. Same raster layout as the 4x4: dct[v*8+u].

func dct8(s *[8]int) {
	s07, s16 := s[0]+s[7], s[1]+s[6]
	s25, s34 := s[2]+s[5], s[3]+s[4]
	a0, a1 := s07+s34, s16+s25
	a2, a3 := s07-s34, s16-s25
	d07, d16 := s[0]-s[7], s[1]-s[6]
	d25, d34 := s[2]-s[5], s[3]-s[4]
	a4 := d16 + d25 + (d07 + (d07 >> 1))
	a5 := d07 - d34 - (d25 + (d25 >> 1))
	a6 := d07 + d34 - (d16 + (d16 >> 1))
	a7 := d16 - d25 + (d34 + (d34 >> 1))
	s[0] = a0 + a1
	s[1] = a4 + (a7 >> 2)
	s[2] = a2 + (a3 >> 1)
	s[3] = a5 + (a6 >> 2)
	s[4] = a0 - a1
	s[5] = a6 - (a5 >> 2)
	s[6] = (a2 >> 1) - a3
	s[7] = (a4 >> 2) - a7
}

func idct8(s *[8]int) {
	a0 := s[0] + s[4]
	a2 := s[0] - s[4]
	a4 := (s[2] >> 1) - s[6]
	a6 := (s[6] >> 1) + s[2]
	b0, b2 := a0+a6, a2+a4
	b4, b6 := a2-a4, a0-a6
	a1 := -s[3] + s[5] - s[7] - (s[7] >> 1)
	a3 := s[1] + s[7] - s[3] - (s[3] >> 1)
	a5 := -s[1] + s[7] + s[5] + (s[5] >> 1)
	a7 := s[3] + s[5] + s[1] + (s[1] >> 1)
	b1 := (a7 >> 2) + a1
	b3 := a3 + (a5 >> 2)
	b5 := (a3 >> 2) - a5
	b7 := a7 - (a1 >> 2)
	s[0] = b0 + b7
	s[1] = b2 + b5
	s[2] = b4 + b3
	s[3] = b6 + b1
	s[4] = b6 - b1
	s[5] = b4 - b3
	s[6] = b2 - b5
	s[7] = b0 - b7
}

// subDCT8x8 transforms columns first, then rows.
func subDCT8x8(dct *[64]int16, src, pred []byte) {
	var tmp [64]int
	for y := 0; y < 8; y++ {
		s := src[y*EncStride : y*EncStride+8]
		p := pred[y*BPS : y*BPS+8]
		for x := 0; x < 8; x++ {
			tmp[y*8+x] = int(s[x]) - int(p[x])
		}
	}
	var v [8]int
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			v[y] = tmp[y*8+x]
		}
		dct8(&v)
		for y := 0; y < 8; y++ {
			tmp[y*8+x] = v[y]
		}
	}
	for y := 0; y < 8; y++ {
		copy(v[:], tmp[y*8:y*8+8])
		dct8(&v)
		for x := 0; x < 8; x++ {
			dct[y*8+x] = int16(v[x])
		}
	}
}

// addIDCT8x8 transforms rows first, then columns, and adds the >>6 result
// to dst.
func addIDCT8x8(dst []byte, dct *[64]int16) {
	var tmp [64]int
	var v [8]int
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			v[x] = int(dct[y*8+x])
		}
		if y == 0 {
			v[0] += 32
		}
		idct8(&v)
		copy(tmp[y*8:y*8+8], v[:])
	}
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			v[y] = tmp[y*8+x]
		}
		idct8(&v)
		for y := 0; y < 8; y++ {
			o := x + y*BPS
			dst[o] = Clip8b(int(dst[o]) + (v[y] >> 6))
		}
	}
}

func addIDCT8x8DC(dst []byte, dc int16) {
	d := (int(dc) + 32) >> 6
	for y := 0; y < 8; y++ {
		row := dst[y*BPS : y*BPS+8]
		for x := range row {
			row[x] = Clip8b(int(row[x]) + d)
		}
	}
}

// SubDCT16x16x8 transforms a macroblock residual as four 8x8 blocks.
func SubDCT16x16x8(dct *[4][64]int16, src, pred []byte) {
	for i := 0; i < 4; i++ {
		x, y := (i&1)*8, (i>>1)*8
		SubDCT8x8(&dct[i], src[x+y*EncStride:], pred[x+y*BPS:])
	}
}

// AddIDCT16x16x8 is the inverse of SubDCT16x16x8.
func AddIDCT16x16x8(dst []byte, dct *[4][64]int16) {
	for i := 0; i < 4; i++ {
		x, y := (i&1)*8, (i>>1)*8
		AddIDCT8x8(dst[x+y*BPS:], &dct[i])
	}
}
