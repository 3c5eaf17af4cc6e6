package me

import "github.com/deepteams/avcore/internal/dsp"

// Integer-pel search patterns.
var (
	// (x-1) mod 6, padded so that dir+1 never needs a modulo.
	mod6m1 = [8]int{5, 0, 1, 2, 3, 4, 5, 0}
	// Radius 2 hexagon. The repeated entries save a mod 6 per step.
	hex2    = [8][2]int{{-1, -2}, {-2, 0}, {-1, 2}, {1, 2}, {2, 0}, {1, -2}, {-1, -2}, {-2, 0}}
	square1 = [8][2]int{{0, -1}, {0, 1}, {-1, 0}, {1, 0}, {-1, -1}, {1, 1}, {-1, 1}, {1, -1}}
	dia1    = [4][2]int{{0, -1}, {0, 1}, {-1, 0}, {1, 0}}
	diag    = [4][2]int{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}}
	hex4    = [16][2]int{
		{-4, 2}, {-4, 1}, {-4, 0}, {-4, -1}, {-4, -2},
		{4, -2}, {4, -1}, {4, 0}, {4, 1}, {4, 2},
		{2, 3}, {0, 4}, {-2, 3},
		{-2, -3}, {0, -4}, {2, -3},
	}
	octagon = [8][2]int{{0, -2}, {-1, -1}, {1, -1}, {-2, 0}, {2, 0}, {-1, 1}, {1, 1}, {0, 2}}
	knight  = [8][2]int{{-1, -2}, {1, -2}, {-2, -1}, {2, -1}, {-2, 1}, {2, 1}, {-1, 2}, {1, 2}}
	corners = [4][2]int{{-2, -2}, {-2, 2}, {2, -2}, {2, 2}}

	// UMH early-exit thresholds are shifted down per partition size.
	pixelSizeShift = [7]uint{0, 1, 1, 2, 3, 3, 4}

	umhRangeMul = [4][4]int{
		{3, 3, 4, 4},
		{3, 4, 4, 4},
		{4, 4, 4, 5},
		{4, 4, 5, 6},
	}
)

// fsearch is the running state of a full-pel search.
type fsearch struct {
	s          *Searcher
	bcost      int
	bmx, bmy   int
	w          *Window
	subme, rng int
}

// try evaluates the full-pel vector (mx, my) and keeps it if strictly
// better.
func (f *fsearch) try(mx, my int) {
	if c := f.s.costFpel(mx, my); c < f.bcost {
		f.bcost, f.bmx, f.bmy = c, mx, my
	}
}

// around evaluates every offset of pattern around (ox, oy).
func (f *fsearch) around(ox, oy int, pattern [][2]int) {
	for _, d := range pattern {
		f.try(ox+d[0], oy+d[1])
	}
}

func (f *fsearch) inRange() bool { return f.w.ContainsFpel(f.bmx, f.bmy) }

// SearchRef finds the best vector of b against b.Ref. mvc lists extra
// predictors in quarter pels (neighbours, previous partitions). thresh,
// when non-nil, is the running half-pel cost across references: the
// sub-pel stage stops early on clearly worse references and lowers it
// otherwise.
func (s *Searcher) SearchRef(b *Block, mvc []MV, thresh *int) {
	s.bind(b)
	w := &b.Win
	f := fsearch{s: s, bcost: costMax, w: w, subme: s.cfg.Subme, rng: s.cfg.Range}

	bpredCost := costMax
	var bpredMX, bpredMY int

	f.bmx = clip3(int(b.MVP.X), w.MinFpel[0]*4, w.MaxFpel[0]*4)
	f.bmy = clip3(int(b.MVP.Y), w.MinFpel[1]*4, w.MaxFpel[1]*4)
	pmx, pmy := (f.bmx+2)>>2, (f.bmy+2)>>2

	if f.subme >= 3 {
		costHpel := func(mx, my int) {
			if c := s.costSpel(s.fpelcmp, mx, my); c < bpredCost {
				bpredCost, bpredMX, bpredMY = c, mx, my
			}
		}
		costHpel(f.bmx, f.bmy)
		for _, v := range mvc {
			mx, my := int(v.X), int(v.Y)
			if v.IsZero() || (mx == f.bmx && my == f.bmy) {
				continue
			}
			costHpel(clip3(mx, w.MinFpel[0]*4, w.MaxFpel[0]*4), clip3(my, w.MinFpel[1]*4, w.MaxFpel[1]*4))
		}
		f.bmx, f.bmy = (bpredMX+2)>>2, (bpredMY+2)>>2
		f.try(f.bmx, f.bmy)
	} else {
		f.try(pmx, pmy)
		// The rounded predictor pays no MV cost until a sub-pel stage
		// decides where it lands.
		f.bcost -= s.bitsMVD(pmx, pmy)
		for _, v := range mvc {
			mx, my := (int(v.X)+2)>>2, (int(v.Y)+2)>>2
			if (mx == 0 && my == 0) || (mx == f.bmx && my == f.bmy) {
				continue
			}
			f.try(clip3(mx, w.MinFpel[0], w.MaxFpel[0]), clip3(my, w.MinFpel[1], w.MaxFpel[1]))
		}
	}
	zeroCost := s.costFpel(0, 0)
	if zeroCost < f.bcost {
		f.bcost, f.bmx, f.bmy = zeroCost, 0, 0
	}

	switch s.cfg.Method {
	case Dia:
		f.dia()
	case Hex:
		f.hex()
	case UMH:
		f.umh(pmx, pmy, mvc)
	case ESA:
		f.esa()
	case TESA:
		f.tesa()
	}

	if bpredCost < f.bcost {
		b.MV = MakeMV(bpredMX, bpredMY)
		b.Cost = bpredCost
	} else {
		b.MV = MakeMV(f.bmx<<2, f.bmy<<2)
		b.Cost = f.bcost
	}
	b.CostMV = s.costX.At(int(b.MV.X)) + s.costY.At(int(b.MV.Y))
	if f.bmx == pmx && f.bmy == pmy && f.subme < 3 {
		b.Cost += b.CostMV
		// Paying the predictor's MV cost back must not lose to no motion.
		if b.Cost > zeroCost {
			b.MV, b.Cost = MV{}, zeroCost
			b.CostMV = s.costX.At(0) + s.costY.At(0)
		}
	}

	if f.subme >= 2 {
		s.refineSubpel(b, subpelIters[f.subme][2], subpelIters[f.subme][3], thresh, false)
	} else if !w.ContainsSpel(b.MV) {
		b.MV = w.ClampSpel(b.MV)
		b.Cost = s.costSpel(s.fpelcmp, int(b.MV.X), int(b.MV.Y))
		b.CostMV = s.costX.At(int(b.MV.X)) + s.costY.At(int(b.MV.Y))
	}
}

// dia1 runs one radius 1 diamond around (ox, oy).
func (f *fsearch) dia1(ox, oy int) {
	f.around(ox, oy, dia1[:])
}

func (f *fsearch) dia() {
	for i := 0; ; {
		omx, omy := f.bmx, f.bmy
		f.dia1(omx, omy)
		if f.bmx == omx && f.bmy == omy {
			return
		}
		if !f.inRange() {
			return
		}
		if i++; i >= f.rng {
			return
		}
	}
}

// hexStep evaluates hex2 entries first..first+n-1 around the current best
// and returns the winning hex2 index minus one, or -2 if none improved.
func (f *fsearch) hexStep(first, n int) int {
	dir := -2
	omx, omy := f.bmx, f.bmy
	for j := 0; j < n; j++ {
		d := hex2[first+j]
		if c := f.s.costFpel(omx+d[0], omy+d[1]); c < f.bcost {
			f.bcost = c
			dir = first + j - 1
		}
	}
	if dir != -2 {
		f.bmx = omx + hex2[dir+1][0]
		f.bmy = omy + hex2[dir+1][1]
	}
	return dir
}

func (f *fsearch) hex() {
	if dir := f.hexStep(1, 6); dir != -2 {
		// Half hexagons, never revisiting the previous step's points.
		for i := 1; i < f.rng/2 && f.inRange(); i++ {
			if dir = f.hexStep(mod6m1[dir+1], 3); dir == -2 {
				break
			}
		}
	}
	// Square refine, both halves around the same centre.
	omx, omy := f.bmx, f.bmy
	f.around(omx, omy, dia1[:])
	f.around(omx, omy, diag[:])
}

func (f *fsearch) sadThresh(v int) bool {
	return f.bcost < v>>pixelSizeShift[f.s.b.Size]
}

// cross evaluates the horizontal arm (start..xMax step 2) and the vertical
// arm (start..yMax step 2) around (ox, oy), skipping points outside the
// window.
func (f *fsearch) cross(ox, oy, start, xMax, yMax int) {
	w := f.w
	for i := start; i < xMax; i += 2 {
		if ox+i <= w.MaxFpel[0] {
			f.try(ox+i, oy)
		}
		if ox-i >= w.MinFpel[0] {
			f.try(ox-i, oy)
		}
	}
	for i := start; i < yMax; i += 2 {
		if oy+i <= w.MaxFpel[1] {
			f.try(ox, oy+i)
		}
		if oy-i >= w.MinFpel[1] {
			f.try(ox, oy-i)
		}
	}
}

func (f *fsearch) umh(pmx, pmy int, mvc []MV) {
	b := f.s.b
	w := f.w
	rng := f.rng
	crossStart := 1

	ucost1 := f.bcost
	f.dia1(pmx, pmy)
	if pmx != 0 || pmy != 0 {
		f.dia1(0, 0)
	}
	if b.Size == dsp.Pixel4x4 {
		f.hex()
		return
	}

	ucost2 := f.bcost
	if (f.bmx != 0 || f.bmy != 0) && (f.bmx != pmx || f.bmy != pmy) {
		f.dia1(f.bmx, f.bmy)
	}
	if f.bcost == ucost2 {
		crossStart = 3
	}
	omx, omy := f.bmx, f.bmy

	// Early termination.
	if f.bcost == ucost2 && f.sadThresh(2000) {
		f.around(omx, omy, octagon[:])
		if f.bcost == ucost1 && f.sadThresh(500) {
			return
		}
		if f.bcost == ucost2 {
			r := (rng >> 1) | 1
			f.cross(omx, omy, 3, r, r)
			f.around(omx, omy, knight[:])
			if f.bcost == ucost2 {
				return
			}
			crossStart = r + 2
		}
	}

	// Adaptive range from predictor agreement.
	if len(mvc) > 0 {
		var mvd int
		denom := 1
		if len(mvc) == 1 {
			if b.Size == dsp.Pixel16x16 {
				mvd = 25
			} else {
				mvd = abs(int(b.MVP.X)-int(mvc[0].X)) + abs(int(b.MVP.Y)-int(mvc[0].Y))
			}
		} else {
			denom = len(mvc) - 1
			if b.Size != dsp.Pixel16x16 {
				mvd = abs(int(b.MVP.X)-int(mvc[0].X)) + abs(int(b.MVP.Y)-int(mvc[0].Y))
				denom++
			}
			mvd += predictorDifference(mvc)
		}
		sadCtx := 3
		switch {
		case f.sadThresh(1000):
			sadCtx = 0
		case f.sadThresh(2000):
			sadCtx = 1
		case f.sadThresh(4000):
			sadCtx = 2
		}
		mvdCtx := 3
		switch {
		case mvd < 10*denom:
			mvdCtx = 0
		case mvd < 20*denom:
			mvdCtx = 1
		case mvd < 40*denom:
			mvdCtx = 2
		}
		rng = rng * umhRangeMul[mvdCtx][sadCtx] / 4
	}

	// The cross stays centred on the diamond result even if the early
	// termination stage moved the best vector.
	f.cross(omx, omy, crossStart, rng, rng/2)
	f.around(omx, omy, corners[:])

	// Multi-hexagon grid.
	omx, omy = f.bmx, f.bmy
	for i := 1; ; {
		for _, d := range hex4 {
			mx, my := omx+d[0]*i, omy+d[1]*i
			if w.ContainsFpel(mx, my) {
				f.try(mx, my)
			}
		}
		if i++; i > rng/4 {
			break
		}
	}
	if f.bmy <= w.MaxFpel[1] {
		f.hex()
	}
}

// predictorDifference sums the distances between consecutive predictors.
func predictorDifference(mvc []MV) int {
	sum := 0
	for i := 0; i+1 < len(mvc); i++ {
		sum += abs(int(mvc[i].X)-int(mvc[i+1].X)) + abs(int(mvc[i].Y)-int(mvc[i+1].Y))
	}
	return sum
}
