package dsp

// Six-tap (1, -5, 20, 20, -5, 1) half-pel interpolation and block averages.

func tap(p []byte, x, d int) int {
	return int(p[x-2*d]) + int(p[x+3*d]) - 5*(int(p[x-d])+int(p[x+2*d])) + 20*(int(p[x])+int(p[x+d]))
}

func tap16(p []int, x int) int {
	return p[x-2] + p[x+3] - 5*(p[x-1]+p[x+2]) + 20*(p[x]+p[x+1])
}

// hpelFilter computes the three half-pel planes. The centre plane filters
// the unrounded vertical intermediates horizontally.
func hpelFilter(dsth, dstv, dstc, src []byte, off, stride, width, height int) {
	buf := make([]int, width+5)
	for y := 0; y < height; y++ {
		row := off + y*stride
		for x := -2; x < width+3; x++ {
			v := tap(src, row+x, stride)
			dstv[row+x] = Kclip1((v + 16) >> 5)
			buf[x+2] = v
		}
		for x := 0; x < width; x++ {
			dstc[row+x] = Kclip1((tap16(buf, x+2) + 512) >> 10)
		}
		for x := 0; x < width; x++ {
			dsth[row+x] = Kclip1((tap(src, row+x, 1) + 16) >> 5)
		}
	}
}

func avg(dst []byte, dstStride int, a []byte, aStride int, b []byte, bStride int, w, h int) {
	for y := 0; y < h; y++ {
		d := dst[y*dstStride : y*dstStride+w]
		ra := a[y*aStride : y*aStride+w]
		rb := b[y*bStride : y*bStride+w]
		for x := range d {
			d[x] = byte((int(ra[x]) + int(rb[x]) + 1) >> 1)
		}
	}
}

func avgWeight(dst []byte, dstStride int, a []byte, aStride int, b []byte, bStride int, w, h, wt int) {
	if wt == 32 {
		avg(dst, dstStride, a, aStride, b, bStride, w, h)
		return
	}
	for y := 0; y < h; y++ {
		d := dst[y*dstStride : y*dstStride+w]
		ra := a[y*aStride : y*aStride+w]
		rb := b[y*bStride : y*bStride+w]
		for x := range d {
			d[x] = Clip8b((int(ra[x])*wt + int(rb[x])*(64-wt) + 32) >> 6)
		}
	}
}

// Copy copies a w x h block.
func Copy(dst []byte, dstStride int, src []byte, srcStride int, w, h int) {
	for y := 0; y < h; y++ {
		copy(dst[y*dstStride:y*dstStride+w], src[y*srcStride:y*srcStride+w])
	}
}
