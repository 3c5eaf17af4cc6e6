package dsp

// Loop-based block metrics. Every size shares one implementation per metric;
// the per-size closures only fix the dimensions.

func sadWxH(a []byte, aStride int, b []byte, bStride int, w, h int) int {
	sum := 0
	for y := 0; y < h; y++ {
		ra := a[y*aStride : y*aStride+w]
		rb := b[y*bStride : y*bStride+w]
		for x, va := range ra {
			sum += abs(int(va) - int(rb[x]))
		}
	}
	return sum
}

func ssdWxH(a []byte, aStride int, b []byte, bStride int, w, h int) int {
	sum := 0
	for y := 0; y < h; y++ {
		ra := a[y*aStride : y*aStride+w]
		rb := b[y*bStride : y*bStride+w]
		for x, va := range ra {
			d := int(va) - int(rb[x])
			sum += d * d
		}
	}
	return sum
}

// satd4x4Raw returns the un-normalised 4x4 Hadamard sum of |diff|.
func satd4x4Raw(a []byte, aStride int, b []byte, bStride int) int {
	var tmp [4][4]int
	for d := 0; d < 4; d++ {
		ra := a[d*aStride : d*aStride+4]
		rb := b[d*bStride : d*bStride+4]
		d0 := int(ra[0]) - int(rb[0])
		d1 := int(ra[1]) - int(rb[1])
		d2 := int(ra[2]) - int(rb[2])
		d3 := int(ra[3]) - int(rb[3])
		s01, s23 := d0+d1, d2+d3
		d01, d23 := d0-d1, d2-d3
		tmp[d][0] = s01 + s23
		tmp[d][1] = s01 - s23
		tmp[d][2] = d01 - d23
		tmp[d][3] = d01 + d23
	}
	sum := 0
	for d := 0; d < 4; d++ {
		s01 := tmp[0][d] + tmp[1][d]
		s23 := tmp[2][d] + tmp[3][d]
		d01 := tmp[0][d] - tmp[1][d]
		d23 := tmp[2][d] - tmp[3][d]
		sum += abs(s01+s23) + abs(s01-s23) + abs(d01-d23) + abs(d01+d23)
	}
	return sum
}

// satdWxH sums 4x4 Hadamard transformed differences and halves the total.
func satdWxH(a []byte, aStride int, b []byte, bStride int, w, h int) int {
	sum := 0
	for y := 0; y < h; y += 4 {
		for x := 0; x < w; x += 4 {
			sum += satd4x4Raw(a[y*aStride+x:], aStride, b[y*bStride+x:], bStride)
		}
	}
	return sum / 2
}

func hadamard8(v *[8]int) {
	a0, a4 := v[0]+v[4], v[0]-v[4]
	a1, a5 := v[1]+v[5], v[1]-v[5]
	a2, a6 := v[2]+v[6], v[2]-v[6]
	a3, a7 := v[3]+v[7], v[3]-v[7]
	b0, b2 := a0+a2, a0-a2
	b1, b3 := a1+a3, a1-a3
	b4, b6 := a4+a6, a4-a6
	b5, b7 := a5+a7, a5-a7
	v[0], v[1] = b0+b1, b0-b1
	v[2], v[3] = b2+b3, b2-b3
	v[4], v[5] = b4+b5, b4-b5
	v[6], v[7] = b6+b7, b6-b7
}

func sa8d8x8Raw(a []byte, aStride int, b []byte, bStride int) int {
	var diff [8][8]int
	for y := 0; y < 8; y++ {
		ra := a[y*aStride : y*aStride+8]
		rb := b[y*bStride : y*bStride+8]
		for x := 0; x < 8; x++ {
			diff[y][x] = int(ra[x]) - int(rb[x])
		}
		hadamard8(&diff[y])
	}
	sum := 0
	for x := 0; x < 8; x++ {
		var col [8]int
		for y := 0; y < 8; y++ {
			col[y] = diff[y][x]
		}
		hadamard8(&col)
		for _, v := range col {
			sum += abs(v)
		}
	}
	return sum
}

func sa8dWxH(a []byte, aStride int, b []byte, bStride int, w, h int) int {
	sum := 0
	for y := 0; y < h; y += 8 {
		for x := 0; x < w; x += 8 {
			sum += sa8d8x8Raw(a[y*aStride+x:], aStride, b[y*bStride+x:], bStride)
		}
	}
	return (sum + 2) >> 2
}

func sa8d16x16(a []byte, as int, b []byte, bs int) int { return sa8dWxH(a, as, b, bs, 16, 16) }
func sa8d16x8(a []byte, as int, b []byte, bs int) int  { return sa8dWxH(a, as, b, bs, 16, 8) }
func sa8d8x16(a []byte, as int, b []byte, bs int) int  { return sa8dWxH(a, as, b, bs, 8, 16) }
func sa8d8x8(a []byte, as int, b []byte, bs int) int   { return sa8dWxH(a, as, b, bs, 8, 8) }

func sadFunc(p PixelSize) PixelCmp {
	w, h := p.Width(), p.Height()
	return func(a []byte, as int, b []byte, bs int) int { return sadWxH(a, as, b, bs, w, h) }
}

func ssdFunc(p PixelSize) PixelCmp {
	w, h := p.Width(), p.Height()
	return func(a []byte, as int, b []byte, bs int) int { return ssdWxH(a, as, b, bs, w, h) }
}

func satdFunc(p PixelSize) PixelCmp {
	w, h := p.Width(), p.Height()
	return func(a []byte, as int, b []byte, bs int) int { return satdWxH(a, as, b, bs, w, h) }
}

// SSDPlane returns the sum of squared differences over an arbitrary
// width x height region.
func SSDPlane(a []byte, aStride int, b []byte, bStride int, w, h int) uint64 {
	var sum uint64
	for y := 0; y < h; y++ {
		sum += uint64(ssdWxH(a[y*aStride:], aStride, b[y*bStride:], bStride, w, 1))
	}
	return sum
}

// VarianceAC returns the AC energy of a w x h block: sum(x^2) - sum(x)^2/n.
func VarianceAC(a []byte, stride, w, h int) int {
	sum, sqr := 0, 0
	for y := 0; y < h; y++ {
		for _, v := range a[y*stride : y*stride+w] {
			sum += int(v)
			sqr += int(v) * int(v)
		}
	}
	return sqr - sum*sum/(w*h)
}
