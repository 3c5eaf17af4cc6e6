package me

import "github.com/deepteams/avcore/internal/dsp"

// BidirTrialEncoder codes a bi-predicted block for real and reports its
// rate-distortion cost.
type BidirTrialEncoder interface {
	RDCostBidir(b0, b1 *Block, mv0, mv1 MV, weight int) int
}

// bidirOffsets lists the (dmv0, dmv1) offsets one refinement pass visits,
// each as {dx0, dy0, dx1, dy1}. Every pair differs from the centre in at
// most two components.
var bidirOffsets = buildBidirOffsets()

func buildBidirOffsets() [][4]int {
	var offs [][4]int
	two := func(a, b, c, d int) {
		offs = append(offs, [4]int{a, b, c, d}, [4]int{-a, -b, -c, -d})
	}
	eight := func(a, b, c, d int) {
		two(a, b, c, d)
		two(b, c, d, a)
		two(c, d, a, b)
		two(d, a, b, c)
	}
	eight(0, 0, 0, 1)
	eight(0, 0, 1, 1)
	two(0, 1, 0, 1)
	two(1, 0, 1, 0)
	eight(0, 0, -1, 1)
	two(0, -1, 0, 1)
	two(-1, 0, 1, 0)
	return offs
}

const bidirPasses = 8

// BidirCost returns the block metric cost of predicting b0.Src from the
// weighted average of b0 and b1 at their current vectors.
func (s *Searcher) BidirCost(b0, b1 *Block, weight int) int {
	s.bind(b0)
	p0, p1 := b0.Win.ClampSpel(b0.MVP), b0.Win.ClampSpel(b1.MVP)
	return s.bidirCost(b0, b1, int(b0.MV.X), int(b0.MV.Y), int(b1.MV.X), int(b1.MV.Y), weight) +
		b0.Costs.Cost(int(b0.MV.X)-int(p0.X)) + b0.Costs.Cost(int(b0.MV.Y)-int(p0.Y)) +
		b1.Costs.Cost(int(b1.MV.X)-int(p1.X)) + b1.Costs.Cost(int(b1.MV.Y)-int(p1.Y))
}

func (s *Searcher) bidirCost(b0, b1 *Block, m0x, m0y, m1x, m1y, weight int) int {
	ref0, st0 := b0.Ref.GetRef(s.pix[0][:], 16, b0.X, b0.Y, MakeMV(m0x, m0y), s.bw, s.bh)
	ref1, st1 := b1.Ref.GetRef(s.pix[1][:], 16, b1.X, b1.Y, MakeMV(m1x, m1y), s.bw, s.bh)
	dsp.AvgWeight(s.avg[:], 16, ref0, st0, ref1, st1, s.bw, s.bh, weight)
	return s.mbcmp(b0.Src, dsp.EncStride, s.avg[:], 16)
}

// RefineBidir jointly refines the vectors of b0 and b1, which describe the
// same partition in two references, so that their weighted average best
// matches the source. weight is the share of b0 in 64ths.
func (s *Searcher) RefineBidir(b0, b1 *Block, weight int) {
	s.refineBidir(b0, b1, weight, nil)
}

// RefineBidirRD is RefineBidir with every promising pair checked by a trial
// encode; the pair with the lowest rate-distortion cost wins.
func (s *Searcher) RefineBidirRD(b0, b1 *Block, weight int, enc BidirTrialEncoder) {
	s.refineBidir(b0, b1, weight, enc)
}

func (s *Searcher) refineBidir(b0, b1 *Block, weight int, enc BidirTrialEncoder) {
	s.bind(b0)
	w := &b0.Win
	bm0x, bm0y := int(b0.MV.X), int(b0.MV.Y)
	bm1x, bm1y := int(b1.MV.X), int(b1.MV.Y)
	// Each pass moves a vector by at most one quarter pel.
	if !w.insetSpel(bm0x, bm0y, bidirPasses) || !w.insetSpel(bm1x, bm1y, bidirPasses) {
		return
	}
	s.visited = [8][8][8]uint8{}

	p0, p1 := w.ClampSpel(b0.MVP), w.ClampSpel(b1.MVP)
	c0x, c0y := b0.Costs.Around(int(p0.X)), b0.Costs.Around(int(p0.Y))
	c1x, c1y := b1.Costs.Around(int(p1.X)), b1.Costs.Around(int(p1.Y))

	bcost, bcostRD := costMax, costMax
	pass := 0
	check := func(m0x, m0y, m1x, m1y int) {
		v := &s.visited[m0x&7][m0y&7][m1x&7]
		bit := uint8(1) << uint(m1y&7)
		if pass != 0 && *v&bit != 0 {
			return
		}
		*v |= bit
		cost := s.bidirCost(b0, b1, m0x, m0y, m1x, m1y, weight) +
			c0x.At(m0x) + c0y.At(m0y) + c1x.At(m1x) + c1y.At(m1y)
		if enc == nil {
			if cost < bcost {
				bcost = cost
				bm0x, bm0y, bm1x, bm1y = m0x, m0y, m1x, m1y
			}
			return
		}
		if cost < bcost+bcost>>4 {
			if cost < bcost {
				bcost = cost
			}
			rd := enc.RDCostBidir(b0, b1, MakeMV(m0x, m0y), MakeMV(m1x, m1y), weight)
			if rd < bcostRD {
				bcostRD = rd
				bm0x, bm0y, bm1x, bm1y = m0x, m0y, m1x, m1y
			}
		}
	}

	om0x, om0y, om1x, om1y := bm0x, bm0y, bm1x, bm1y
	check(om0x, om0y, om1x, om1y)
	for pass = 0; pass < bidirPasses; pass++ {
		for _, d := range bidirOffsets {
			check(om0x+d[0], om0y+d[1], om1x+d[2], om1y+d[3])
		}
		if om0x == bm0x && om0y == bm0y && om1x == bm1x && om1y == bm1y {
			break
		}
		om0x, om0y, om1x, om1y = bm0x, bm0y, bm1x, bm1y
	}

	b0.MV = MakeMV(bm0x, bm0y)
	b1.MV = MakeMV(bm1x, bm1y)
}
