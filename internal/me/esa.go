package me

import "github.com/deepteams/avcore/internal/dsp"

// Exhaustive search with successive elimination: the sum of absolute
// differences of sub-block sums is a lower bound of the SAD, so candidates
// whose bound cannot win are skipped without a SAD.

// adsSetup holds the sub-block layout of a partition for the elimination
// bound.
type adsSetup struct {
	sums  []uint16
	size  int
	n     int
	dc    [4]int
	offs  [4]int // sub-block offsets in the reference planes
	base  int    // plane offset of the partition origin
	costX func(mx int) int
}

func (f *fsearch) adsInit() *adsSetup {
	s, b := f.s, f.s.b
	a := &adsSetup{size: 4}
	if b.Size <= dsp.Pixel8x8 {
		a.size = 8
	}
	a.sums = b.Ref.Sums(a.size)
	stride := b.Ref.Stride
	for sy := 0; sy < s.bh; sy += a.size {
		for sx := 0; sx < s.bw; sx += a.size {
			sum := 0
			for y := 0; y < a.size; y++ {
				for _, p := range b.Src[(sy+y)*dsp.EncStride+sx : (sy+y)*dsp.EncStride+sx+a.size] {
					sum += int(p)
				}
			}
			a.dc[a.n] = sum
			a.offs[a.n] = sy*stride + sx
			a.n++
		}
	}
	a.base = b.Ref.Origin() + b.Y*stride + b.X
	row := b.Costs.AroundFpel(int(b.MVP.X))
	a.costX = row.At
	return a
}

// bound returns the elimination bound of the full-pel vector (mx, my)
// including its horizontal MV cost.
func (a *adsSetup) bound(off, mx int) int {
	c := a.costX(mx)
	for k := 0; k < a.n; k++ {
		c += abs(a.dc[k] - int(a.sums[off+a.offs[k]]))
	}
	return c
}

func (f *fsearch) esaWindow() (minX, minY, maxX, maxY int) {
	w := f.w
	minX = max(f.bmx-f.rng, w.MinFpel[0])
	minY = max(f.bmy-f.rng, w.MinFpel[1])
	maxX = min(f.bmx+f.rng, w.MaxFpel[0])
	maxY = min(f.bmy+f.rng, w.MaxFpel[1])
	return
}

func (f *fsearch) esa() {
	s := f.s
	a := f.adsInit()
	stride := s.b.Ref.Stride
	minX, minY, maxX, maxY := f.esaWindow()
	for my := minY; my <= maxY; my++ {
		ycost := s.costY.At(my << 2)
		if f.bcost <= ycost {
			continue
		}
		row := a.base + my*stride
		for mx := minX; mx <= maxX; mx++ {
			if a.bound(row+mx, mx) < f.bcost-ycost {
				f.try(mx, my)
			}
		}
	}
}

func (f *fsearch) tesa() {
	s, b := f.s, f.s.b
	a := f.adsInit()
	stride := b.Ref.Stride
	sad := dsp.SAD[b.Size]
	minX, minY, maxX, maxY := f.esaWindow()

	sadThresh := 12
	switch {
	case f.rng <= 16:
		sadThresh = 10
	case f.rng <= 24:
		sadThresh = 11
	}

	// Collect every candidate within a margin of the running best SAD.
	cands := s.cands[:0]
	bsad := sad(b.Src, dsp.EncStride, s.fpel(f.bmx, f.bmy), stride) + s.bitsMVD(f.bmx, f.bmy)
	for my := minY; my <= maxY; my++ {
		ycost := s.costY.At(my << 2)
		if bsad <= ycost {
			continue
		}
		bsad -= ycost
		row := a.base + my*stride
		limit := bsad * 17 / 16
		xs := s.xs[:0]
		for mx := minX; mx <= maxX; mx++ {
			if a.bound(row+mx, mx) < limit {
				xs = append(xs, mx)
			}
		}
		for _, mx := range xs {
			c := sad(b.Src, dsp.EncStride, s.fpel(mx, my), stride) + a.costX(mx)
			if c < bsad*sadThresh>>3 {
				bsad = min(bsad, c)
				cands = append(cands, mvsad{sad: c + ycost, mx: mx, my: my})
			}
		}
		s.xs = xs
		bsad += ycost
	}

	limit := f.rng / 2
	if len(cands) > limit*2 {
		bsad = bsad * (sadThresh + 8) >> 4
		n := 0
		for _, c := range cands {
			if c.sad <= bsad {
				cands[n] = c
				n++
			}
		}
		cands = cands[:n]
	}
	if len(cands) > limit {
		// Partial selection sort of the best limit candidates.
		for i := 0; i < limit; i++ {
			bj := i
			for j := i + 1; j < len(cands); j++ {
				if cands[j].sad < cands[bj].sad {
					bj = j
				}
			}
			cands[i], cands[bj] = cands[bj], cands[i]
		}
		cands = cands[:limit]
	}
	for _, c := range cands {
		f.try(c.mx, c.my)
	}
	s.cands = cands
}
