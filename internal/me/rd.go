package me

// TrialEncoder codes a block for real and reports its rate-distortion cost.
type TrialEncoder interface {
	RDCost(b *Block, mv MV) int
}

// RefineQpelRD re-examines the quarter-pel neighbourhood of b.MV with trial
// encodes. Only candidates whose block metric is within 1/16 of the best
// one seen are trial encoded. b.Cost becomes the rate-distortion cost of
// the chosen vector.
func (s *Searcher) RefineQpelRD(b *Block, enc TrialEncoder) {
	s.bind(b)
	w := &b.Win
	bmx, bmy := w.clampSpel(int(b.MV.X), int(b.MV.Y))
	pmx, pmy := int(b.MVP.X), int(b.MVP.Y)
	bsatd, bcost := costMax, costMax
	dir := -2

	// satd returns the block metric of (mx, my), or costMax for the vector
	// to avoid and for vectors outside the window.
	satd := func(mx, my int, avoid bool) int {
		if avoid && mx == pmx && my == pmy || !w.containsSpel(mx, my) {
			return costMax
		}
		c := s.costSpel(s.mbcmp, mx, my)
		if c < bsatd {
			bsatd = c
		}
		return c
	}
	rd := func(mx, my, sc int, mdir int) {
		if sc >= costMax || sc > bsatd+bsatd>>4 {
			return
		}
		if c := enc.RDCost(b, MakeMV(mx, my)); c < bcost {
			bcost, bmx, bmy = c, mx, my
			if mdir != -2 {
				dir = mdir
			}
		}
	}

	satd(bmx, bmy, false)
	rd(bmx, bmy, 0, -2)

	if (bmx != pmx || bmy != pmy) && w.ContainsSpel(b.MVP) {
		rd(pmx, pmy, satd(pmx, pmy, false), -2)
		// The hexagon never revisits its centre, so once the predictor
		// wins the original vector is the one to skip.
		if bmx == pmx && bmy == pmy {
			pmx, pmy = w.clampSpel(int(b.MV.X), int(b.MV.Y))
		}
	}

	var satds [8]int
	omx, omy := bmx, bmy
	for j := 0; j < 6; j++ {
		satds[j] = satd(omx+hex2[j+1][0], omy+hex2[j+1][1], true)
	}
	for j := 0; j < 6; j++ {
		rd(omx+hex2[j+1][0], omy+hex2[j+1][1], satds[j], j)
	}

	if dir != -2 {
		for i := 1; i < 10; i++ {
			odir := mod6m1[dir+1]
			if bmx > w.MaxSpel[0]-2 || bmx < w.MinSpel[0]+2 || bmy > w.MaxSpel[1]-2 || bmy < w.MinSpel[1]+2 {
				break
			}
			dir = -2
			omx, omy = bmx, bmy
			for j := 0; j < 3; j++ {
				satds[j] = satd(omx+hex2[odir+j][0], omy+hex2[odir+j][1], true)
			}
			for j := 0; j < 3; j++ {
				rd(omx+hex2[odir+j][0], omy+hex2[odir+j][1], satds[j], odir-1+j)
			}
			if dir == -2 {
				break
			}
		}
	}

	omx, omy = bmx, bmy
	for i, d := range square1 {
		satds[i] = satd(omx+d[0], omy+d[1], true)
	}
	for i, d := range square1 {
		rd(omx+d[0], omy+d[1], satds[i], -2)
	}

	b.Cost = bcost
	b.MV = MakeMV(bmx, bmy)
	b.CostMV = s.costX.At(bmx) + s.costY.At(bmy)
}
