package dsp

// Straight-line metric kernels. Each must return exactly what its loop-based
// counterpart in pixel.go returns.

func absDiff(a, b byte) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

func sad16x16Unrolled(a []byte, aStride int, b []byte, bStride int) int {
	_ = a[15+15*aStride]
	_ = b[15+15*bStride]
	sum := 0
	for y := 0; y < 16; y++ {
		ra := a[y*aStride : y*aStride+16 : y*aStride+16]
		rb := b[y*bStride : y*bStride+16 : y*bStride+16]
		sum += absDiff(ra[0], rb[0]) + absDiff(ra[1], rb[1]) +
			absDiff(ra[2], rb[2]) + absDiff(ra[3], rb[3]) +
			absDiff(ra[4], rb[4]) + absDiff(ra[5], rb[5]) +
			absDiff(ra[6], rb[6]) + absDiff(ra[7], rb[7]) +
			absDiff(ra[8], rb[8]) + absDiff(ra[9], rb[9]) +
			absDiff(ra[10], rb[10]) + absDiff(ra[11], rb[11]) +
			absDiff(ra[12], rb[12]) + absDiff(ra[13], rb[13]) +
			absDiff(ra[14], rb[14]) + absDiff(ra[15], rb[15])
	}
	return sum
}

func sad8x8Unrolled(a []byte, aStride int, b []byte, bStride int) int {
	_ = a[7+7*aStride]
	_ = b[7+7*bStride]
	sum := 0
	for y := 0; y < 8; y++ {
		ra := a[y*aStride : y*aStride+8 : y*aStride+8]
		rb := b[y*bStride : y*bStride+8 : y*bStride+8]
		sum += absDiff(ra[0], rb[0]) + absDiff(ra[1], rb[1]) +
			absDiff(ra[2], rb[2]) + absDiff(ra[3], rb[3]) +
			absDiff(ra[4], rb[4]) + absDiff(ra[5], rb[5]) +
			absDiff(ra[6], rb[6]) + absDiff(ra[7], rb[7])
	}
	return sum
}

func satd4x4Unrolled(a []byte, aStride int, b []byte, bStride int) int {
	_ = a[3+3*aStride]
	_ = b[3+3*bStride]

	// Rows.
	d0 := int(a[0]) - int(b[0])
	d1 := int(a[1]) - int(b[1])
	d2 := int(a[2]) - int(b[2])
	d3 := int(a[3]) - int(b[3])
	t00, t01 := d0+d1+d2+d3, d0+d1-d2-d3
	t02, t03 := d0-d1-d2+d3, d0-d1+d2-d3

	d0 = int(a[aStride]) - int(b[bStride])
	d1 = int(a[1+aStride]) - int(b[1+bStride])
	d2 = int(a[2+aStride]) - int(b[2+bStride])
	d3 = int(a[3+aStride]) - int(b[3+bStride])
	t10, t11 := d0+d1+d2+d3, d0+d1-d2-d3
	t12, t13 := d0-d1-d2+d3, d0-d1+d2-d3

	d0 = int(a[2*aStride]) - int(b[2*bStride])
	d1 = int(a[1+2*aStride]) - int(b[1+2*bStride])
	d2 = int(a[2+2*aStride]) - int(b[2+2*bStride])
	d3 = int(a[3+2*aStride]) - int(b[3+2*bStride])
	t20, t21 := d0+d1+d2+d3, d0+d1-d2-d3
	t22, t23 := d0-d1-d2+d3, d0-d1+d2-d3

	d0 = int(a[3*aStride]) - int(b[3*bStride])
	d1 = int(a[1+3*aStride]) - int(b[1+3*bStride])
	d2 = int(a[2+3*aStride]) - int(b[2+3*bStride])
	d3 = int(a[3+3*aStride]) - int(b[3+3*bStride])
	t30, t31 := d0+d1+d2+d3, d0+d1-d2-d3
	t32, t33 := d0-d1-d2+d3, d0-d1+d2-d3

	// Columns.
	sum := hadamardAbs4(t00, t10, t20, t30) +
		hadamardAbs4(t01, t11, t21, t31) +
		hadamardAbs4(t02, t12, t22, t32) +
		hadamardAbs4(t03, t13, t23, t33)
	return sum / 2
}

func hadamardAbs4(v0, v1, v2, v3 int) int {
	s01, s23 := v0+v1, v2+v3
	d01, d23 := v0-v1, v2-v3
	return abs(s01+s23) + abs(s01-s23) + abs(d01-d23) + abs(d01+d23)
}
