package me

// RefineQpel runs the winner-only sub-pel refinement on a block that
// SearchRef already searched.
func (s *Searcher) RefineQpel(b *Block) {
	s.bind(b)
	it := subpelIters[s.cfg.Subme]
	s.refineSubpel(b, it[0], it[1], nil, true)
}

// refineSubpel runs a half-pel diamond with the full-pel metric, then a
// quarter-pel diamond with the block metric. refineQpel marks the
// winner-only pass: b.Cost is then already in block metric units.
func (s *Searcher) refineSubpel(b *Block, hpelIters, qpelIters int, thresh *int, refineQpel bool) {
	w := &b.Win
	bmx, bmy := int(b.MV.X), int(b.MV.Y)
	bcost := b.Cost
	bdir, odir := -1, -1

	costSAD := func(mx, my int) {
		if !w.containsSpel(mx, my) {
			return
		}
		if c := s.costSpel(s.fpelcmp, mx, my); c < bcost {
			bcost, bmx, bmy = c, mx, my
		}
	}
	costSATD := func(mx, my, dir int) {
		if !refineQpel && dir^1 == odir || !w.containsSpel(mx, my) {
			return
		}
		if c := s.costSpel(s.mbcmp, mx, my); c < bcost {
			bcost, bmx, bmy, bdir = c, mx, my, dir
		}
	}

	// The sub-pel part of the predictor.
	if hpelIters > 0 && s.cfg.Subme < 3 {
		p := w.ClampSpel(b.MVP)
		if int(p.X) != bmx || int(p.Y) != bmy {
			costSAD(int(p.X), int(p.Y))
		}
	}

	for i := hpelIters; i > 0; i-- {
		omx, omy := bmx, bmy
		costSAD(omx, omy-2)
		costSAD(omx, omy+2)
		costSAD(omx-2, omy)
		costSAD(omx+2, omy)
		if bmx == omx && bmy == omy {
			break
		}
	}

	if !refineQpel {
		bmx, bmy = w.clampSpel(bmx, bmy)
		bcost = costMax
		costSATD(bmx, bmy, -1)
	}

	if thresh != nil {
		if (bcost*7)>>3 > *thresh {
			b.Cost = bcost
			b.MV = MakeMV(bmx, bmy)
			return
		}
		if bcost < *thresh {
			*thresh = bcost
		}
	}

	bdir = -1
	for i := qpelIters; i > 0; i-- {
		odir = bdir
		omx, omy := bmx, bmy
		costSATD(omx, omy-1, 0)
		costSATD(omx, omy+1, 1)
		costSATD(omx-1, omy, 2)
		costSATD(omx+1, omy, 3)
		if bmx == omx && bmy == omy {
			break
		}
	}

	if !w.containsSpel(bmx, bmy) {
		bmx, bmy = w.clampSpel(bmx, bmy)
		bcost = costMax
		costSATD(bmx, bmy, -1)
	}

	b.Cost = bcost
	b.MV = MakeMV(bmx, bmy)
	b.CostMV = s.costX.At(bmx) + s.costY.At(bmy)
}
