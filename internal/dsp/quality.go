package dsp

import "math"

// Prediction quality metrics: PSNR from SSE and a windowed SSIM computed
// with integer statistics.

// kWeightSum is the squared sum of the hat-shaped kernel coefficients:
// sum({1,2,3,4,3,2,1})^2 = 16^2 = 256.
const kWeightSum = 16 * 16

// DistoStats accumulates statistics for SSIM computation over a window.
type DistoStats struct {
	W             uint32 // number of samples
	Xm, Ym        uint32 // sum of x, sum of y
	Xxm, Xym, Yym uint32 // sum of x*x, x*y, y*y
}

// AccumulateWeighted adds the pixel pair (x, y) with weight w.
func (s *DistoStats) AccumulateWeighted(x, y uint8, w uint32) {
	s.W += w
	s.Xm += w * uint32(x)
	s.Ym += w * uint32(y)
	s.Xxm += w * uint32(x) * uint32(x)
	s.Xym += w * uint32(x) * uint32(y)
	s.Yym += w * uint32(y) * uint32(y)
}

const ssimKernel = 3

var ssimWeight = [2*ssimKernel + 1]uint32{1, 2, 3, 4, 3, 2, 1}

func ssimCalculation(s *DistoStats, n uint32) float64 {
	w2 := uint64(n) * uint64(n)
	c1 := 20 * w2
	c2 := 60 * w2
	c3 := 8 * 8 * w2 // dark limit

	xmxm := uint64(s.Xm) * uint64(s.Xm)
	ymym := uint64(s.Ym) * uint64(s.Ym)
	if xmxm+ymym < c3 {
		return 1.0
	}

	xmym := int64(s.Xm) * int64(s.Ym)
	sxy := int64(s.Xym)*int64(n) - xmym
	sxx := uint64(s.Xxm)*uint64(n) - xmxm
	syy := uint64(s.Yym)*uint64(n) - ymym

	var sxyPos uint64
	if sxy > 0 {
		sxyPos = uint64(sxy)
	}

	// Descale by 8 to keep the products below 64 bits.
	numS := (2*sxyPos + c2) >> 8
	denS := (sxx + syy + c2) >> 8
	fnum := (2*uint64(xmym) + c1) * numS
	fden := (xmxm + ymym + c1) * denS
	if fden == 0 {
		return 1.0
	}
	return float64(fnum) / float64(fden)
}

// ssimAt computes the SSIM of the 7x7 window centred on (xo, yo), clipping
// the window at the plane edges.
func ssimAt(a []byte, aStride int, b []byte, bStride int, xo, yo, w, h int) float64 {
	var s DistoStats
	ymin, ymax := max(yo-ssimKernel, 0), min(yo+ssimKernel, h-1)
	xmin, xmax := max(xo-ssimKernel, 0), min(xo+ssimKernel, w-1)
	for y := ymin; y <= ymax; y++ {
		for x := xmin; x <= xmax; x++ {
			wt := ssimWeight[ssimKernel+x-xo] * ssimWeight[ssimKernel+y-yo]
			s.AccumulateWeighted(a[x+y*aStride], b[x+y*bStride], wt)
		}
	}
	if s.W == kWeightSum {
		return ssimCalculation(&s, kWeightSum)
	}
	return ssimCalculation(&s, s.W)
}

// SSIM returns the mean SSIM of two w x h planes, sampling one window
// every step pixels in each direction.
func SSIM(a []byte, aStride int, b []byte, bStride int, w, h, step int) float64 {
	if w <= 0 || h <= 0 {
		return 0
	}
	if step < 1 {
		step = 1
	}
	var sum float64
	n := 0
	for y := 0; y < h; y += step {
		for x := 0; x < w; x += step {
			sum += ssimAt(a, aStride, b, bStride, x, y, w, h)
			n++
		}
	}
	return sum / float64(n)
}

// PSNRFromSSE computes the PSNR from the sum of squared errors over count
// samples. A perfect match reports 99 dB.
func PSNRFromSSE(sse uint64, count int) float64 {
	if sse == 0 || count == 0 {
		return 99.0
	}
	mse := float64(sse) / float64(count)
	return 10.0 * math.Log10(255.0*255.0/mse)
}
