package analysis

import (
	"bytes"
	"math"

	"github.com/deepteams/avcore/internal/bitio"
	"github.com/deepteams/avcore/internal/cost"
	"github.com/deepteams/avcore/internal/dsp"
	"github.com/deepteams/avcore/internal/frameio"
	"github.com/deepteams/avcore/internal/me"
	"github.com/deepteams/avcore/internal/residual"
)

// Macroblock type codes, written first in every macroblock header.
const (
	mbTypeL0 = iota
	mbTypeL0Split
	mbTypeL1
	mbTypeBi
)

// splitBits is the header overhead charged to four 8x8 partitions.
const splitBits = 6

// unavailable marks a neighbour outside the picture.
const unavailable = -2

// totals accumulates the picture figures of one worker.
type totals struct {
	bits         int
	cost         int64
	sse, predSSE uint64
	preds        [3]int
	split, coded int
}

// worker analyzes whole macroblock rows. It owns a Searcher and a residual
// Coder for the duration of an Analyze call.
type worker struct {
	a     *Analyzer
	fs    *frameState
	s     *me.Searcher
	coder *residual.Coder

	bw  bitio.BitWriter
	wr  *bitio.Writer
	cnt bitio.Counter

	src   [16 * dsp.EncStride]byte
	pred  [16 * dsp.BPS]byte
	tmp   [2][16 * 16]byte
	csrc  [8 * dsp.EncStride]byte
	cpred [2][8 * dsp.BPS]byte

	b16      []me.Block // per past reference
	b1       me.Block
	b8       [4]me.Block
	bi0, bi1 me.Block
	mvc      []me.MV

	rowBits int
	t       totals
}

func newWorker(a *Analyzer) (*worker, error) {
	o := &a.opts
	coder, err := residual.NewCoder(residual.Options{
		QP:             o.QP,
		Transform8x8:   o.Transform8x8,
		Decimate:       o.Decimate,
		Order:          o.scanOrder(),
		NoiseReduction: o.NoiseReduction,
	})
	if err != nil {
		return nil, err
	}
	w := &worker{a: a, coder: coder}
	if o.Bitstream {
		w.wr = bitio.NewWriter(4096)
	}
	return w, nil
}

func (w *worker) begin(fs *frameState) {
	w.fs = fs
	w.s = me.AcquireSearcher(w.a.opts.ME)
	if len(w.b16) < len(fs.l0) {
		w.b16 = make([]me.Block, len(fs.l0))
	}
	w.t = totals{}
}

func (w *worker) end() {
	w.s.Release()
	w.s = nil
	w.fs = nil
}

// merge adds the totals of w to res.
func (w *worker) merge(res *Result) {
	res.Bits += w.t.bits
	res.Cost += w.t.cost
	res.SSE += w.t.sse
	res.PredSSE += w.t.predSSE
	for i, n := range w.t.preds {
		res.Preds[i] += n
	}
	res.Split += w.t.split
	res.Coded += w.t.coded
}

// analyzeRow analyzes macroblock row y, waiting on the row above.
func (w *worker) analyzeRow(y int) {
	fs := w.fs
	if w.wr != nil {
		w.wr.Reset()
		w.bw = w.wr
	} else {
		w.cnt.Reset()
		w.bw = &w.cnt
	}
	for x := 0; x < fs.mbW; x++ {
		if y > 0 {
			w.a.rs.waitFor(y-1, int32(min(x+2, fs.mbW)))
		}
		w.analyzeMB(x, y)
		w.a.rs.signal(y, int32(x+1))
	}
	w.rowBits = w.bw.Len()
	if w.wr != nil {
		w.wr.WriteTrailing()
		fs.res.Rows[y] = bytes.Clone(w.wr.Bytes())
	}
}

// mb returns the macroblock at (x, y), or nil outside the picture.
func (fs *frameState) mb(x, y int) *MB {
	if x < 0 || y < 0 || x >= fs.mbW || y >= fs.mbH {
		return nil
	}
	return fs.res.At(x, y)
}

// neighbourMV returns the vector quadrant q of m offers for list and the
// reference it points at: -1 when m does not predict from list,
// unavailable when there is no m.
func neighbourMV(m *MB, list, q int) (me.MV, int) {
	switch {
	case m == nil:
		return me.MV{}, unavailable
	case list == 0 && m.Pred != PredL1:
		return m.MV[q], int(m.Ref)
	case list == 1 && m.Pred != PredL0:
		return m.MV1, 0
	}
	return me.MV{}, -1
}

// neighbours returns the left, top and top-right (or top-left) vectors of
// macroblock (mbx, mby) with their references.
func (w *worker) neighbours(mbx, mby, list int) (mvs [3]me.MV, refs [3]int) {
	fs := w.fs
	mvs[0], refs[0] = neighbourMV(fs.mb(mbx-1, mby), list, 1)
	mvs[1], refs[1] = neighbourMV(fs.mb(mbx, mby-1), list, 2)
	mvs[2], refs[2] = neighbourMV(fs.mb(mbx+1, mby-1), list, 2)
	if refs[2] == unavailable {
		mvs[2], refs[2] = neighbourMV(fs.mb(mbx-1, mby-1), list, 3)
	}
	return mvs, refs
}

// predictMV returns the median vector predictor of a 16x16 partition.
func (w *worker) predictMV(mbx, mby, list, ref int) me.MV {
	mvs, refs := w.neighbours(mbx, mby, list)
	if refs[1] == unavailable && refs[2] == unavailable && refs[0] != unavailable {
		return mvs[0]
	}
	match, only := 0, me.MV{}
	for i, r := range refs {
		if r == ref {
			match++
			only = mvs[i]
		}
	}
	if match == 1 {
		return only
	}
	return me.Median(mvs[0], mvs[1], mvs[2])
}

// candidates returns the neighbour vectors for (list, ref) plus the
// co-located vector of the previous picture.
func (w *worker) candidates(mbx, mby, list, ref int) []me.MV {
	mvc := w.mvc[:0]
	mvs, refs := w.neighbours(mbx, mby, list)
	for i, r := range refs {
		if r == ref {
			mvc = append(mvc, mvs[i])
		}
	}
	if prev := w.fs.prev; prev != nil && list == 0 {
		if m := prev.At(mbx, mby); m.Pred != PredL1 && int(m.Ref) == ref {
			mvc = append(mvc, m.MV[0])
		}
	}
	w.mvc = mvc
	return mvc
}

func (w *worker) initBlock(b *me.Block, ref *Reference, size dsp.PixelSize, mbx, mby, x0, y0 int, mvp me.MV) {
	*b = me.Block{
		Size:  size,
		Src:   w.src[x0+y0*dsp.EncStride:],
		Ref:   ref.Frame,
		X:     16*mbx + x0,
		Y:     16*mby + y0,
		Costs: w.fs.costs,
		MVP:   mvp,
		Win:   me.MBWindow(mbx, mby, w.fs.mbW, w.fs.mbH, mvRange),
	}
}

// analyzeMB decides, predicts and codes macroblock (mbx, mby).
func (w *worker) analyzeMB(mbx, mby int) {
	fs := w.fs
	opts := &w.a.opts
	cur := fs.cur
	px, py := 16*mbx, 16*mby
	dsp.Copy(w.src[:], dsp.EncStride, cur.Y[px+py*cur.YStride:], cur.YStride, 16, 16)

	m := fs.res.At(mbx, mby)
	*m = MB{}
	nrefs := len(fs.l0)

	// thresh carries the best half-pel cost across references so that
	// clearly worse ones skip the quarter-pel stage.
	best, thresh := 0, math.MaxInt32
	for ref := range fs.l0 {
		b := &w.b16[ref]
		w.initBlock(b, fs.l0[ref], dsp.Pixel16x16, mbx, mby, 0, 0, w.predictMV(mbx, mby, 0, ref))
		w.s.SearchRef(b, w.candidates(mbx, mby, 0, ref), &thresh)
		b.Cost += cost.RefCost(opts.QP, nrefs, ref)
		if b.Cost < w.b16[best].Cost {
			best = ref
		}
	}
	b0 := &w.b16[best]
	m.Pred, m.Ref, m.Cost = PredL0, int8(best), b0.Cost

	if fs.l1 != nil {
		b1 := &w.b1
		w.initBlock(b1, fs.l1, dsp.Pixel16x16, mbx, mby, 0, 0, w.predictMV(mbx, mby, 1, 0))
		w.s.SearchRef(b1, w.candidates(mbx, mby, 1, 0), nil)
		if b1.Cost < m.Cost {
			m.Pred, m.Cost = PredL1, b1.Cost
		}

		w.bi0, w.bi1 = *b0, *b1
		if opts.ME.Subme >= 7 {
			w.s.RefineBidir(&w.bi0, &w.bi1, opts.BidirWeight)
		}
		bic := w.s.BidirCost(&w.bi0, &w.bi1, opts.BidirWeight) + cost.RefCost(opts.QP, nrefs, best)
		if bic < m.Cost {
			m.Pred, m.Cost = PredBi, bic
		}
	}

	if opts.Partitions8x8 && m.Pred == PredL0 {
		sum := fs.costs.Lambda()*splitBits + cost.RefCost(opts.QP, nrefs, best)
		for q := range w.b8 {
			b := &w.b8[q]
			w.initBlock(b, fs.l0[best], dsp.Pixel8x8, mbx, mby, (q&1)*8, (q>>1)*8, b0.MV)
			w.s.SearchRef(b, nil, nil)
			sum += b.Cost
		}
		if sum < m.Cost {
			m.Part, m.Cost = Part8x8, sum
		}
	}

	switch {
	case m.Pred == PredBi:
		if opts.ME.Subme >= 9 {
			w.s.RefineBidirRD(&w.bi0, &w.bi1, opts.BidirWeight, w.coder)
		}
		m.MV = [4]me.MV{w.bi0.MV, w.bi0.MV, w.bi0.MV, w.bi0.MV}
		m.MV1 = w.bi1.MV
	case m.Pred == PredL1:
		w.refine(&w.b1)
		m.MV1 = w.b1.MV
	case m.Part == Part8x8:
		for q := range w.b8 {
			w.refine(&w.b8[q])
			m.MV[q] = w.b8[q].MV
		}
	default:
		w.refine(b0)
		m.MV = [4]me.MV{b0.MV, b0.MV, b0.MV, b0.MV}
	}

	w.predictLuma(m, px, py)
	start := w.bw.Len()
	w.writeHeader(m, nrefs)
	res := w.coder.Encode(w.src[:], w.pred[:], 16, 16, w.bw)
	m.CBP, m.SSD = res.CBP, res.SSD
	m.PredSSD = dsp.SSD[dsp.Pixel16x16](w.src[:], dsp.EncStride, w.pred[:], dsp.BPS)
	rec := fs.res.Recon
	dsp.Copy(rec.Y[px+py*rec.YStride:], rec.YStride, w.coder.Recon(), dsp.BPS, 16, 16)
	if opts.Chroma {
		m.ChromaCBP = w.chroma(m, mbx, mby)
	}
	m.Bits = w.bw.Len() - start

	w.t.bits += m.Bits
	w.t.cost += int64(m.Cost)
	w.t.sse += uint64(m.SSD)
	w.t.predSSE += uint64(m.PredSSD)
	w.t.preds[m.Pred]++
	if m.Part == Part8x8 {
		w.t.split++
	}
	if m.CBP != 0 {
		w.t.coded++
	}
}

// refine runs the sub-pel refinement of a winning partition.
func (w *worker) refine(b *me.Block) {
	if w.a.opts.ME.Subme >= 8 {
		w.s.RefineQpelRD(b, w.coder)
	} else {
		w.s.RefineQpel(b)
	}
}

// fetch copies the bw x bh prediction at mv into dst.
func (w *worker) fetch(dst []byte, f *me.Frame, x, y int, mv me.MV, bw, bh int) {
	ref, stride := f.GetRef(w.tmp[0][:], 16, x, y, mv, bw, bh)
	dsp.Copy(dst, dsp.BPS, ref, stride, bw, bh)
}

func (w *worker) predictLuma(m *MB, px, py int) {
	fs := w.fs
	switch m.Pred {
	case PredL0:
		f := fs.l0[m.Ref].Frame
		if m.Part == Part8x8 {
			for q := 0; q < 4; q++ {
				x0, y0 := (q&1)*8, (q>>1)*8
				w.fetch(w.pred[x0+y0*dsp.BPS:], f, px+x0, py+y0, m.MV[q], 8, 8)
			}
			return
		}
		w.fetch(w.pred[:], f, px, py, m.MV[0], 16, 16)
	case PredL1:
		w.fetch(w.pred[:], fs.l1.Frame, px, py, m.MV1, 16, 16)
	case PredBi:
		r0, s0 := fs.l0[m.Ref].Frame.GetRef(w.tmp[0][:], 16, px, py, m.MV[0], 16, 16)
		r1, s1 := fs.l1.Frame.GetRef(w.tmp[1][:], 16, px, py, m.MV1, 16, 16)
		w.average(w.pred[:], r0, s0, r1, s1, 16, 16)
	}
}

func (w *worker) average(dst, a []byte, as int, b []byte, bs int, bw, bh int) {
	if wt := w.a.opts.BidirWeight; wt != 32 {
		dsp.AvgWeight(dst, dsp.BPS, a, as, b, bs, bw, bh, wt)
	} else {
		dsp.Avg(dst, dsp.BPS, a, as, b, bs, bw, bh)
	}
}

func writeMVD(bw bitio.BitWriter, mv, mvp me.MV) {
	bw.WriteSE(int(mv.X) - int(mvp.X))
	bw.WriteSE(int(mv.Y) - int(mvp.Y))
}

// writeHeader writes the macroblock type, the reference index and the
// vector differences of m.
func (w *worker) writeHeader(m *MB, nrefs int) {
	bw := w.bw
	switch {
	case m.Pred == PredBi:
		bw.WriteUE(mbTypeBi)
	case m.Pred == PredL1:
		bw.WriteUE(mbTypeL1)
	case m.Part == Part8x8:
		bw.WriteUE(mbTypeL0Split)
	default:
		bw.WriteUE(mbTypeL0)
	}
	if m.Pred != PredL1 && nrefs > 1 {
		bw.WriteTE(nrefs-1, int(m.Ref))
	}
	switch {
	case m.Pred == PredBi:
		writeMVD(bw, m.MV[0], w.bi0.MVP)
		writeMVD(bw, m.MV1, w.bi1.MVP)
	case m.Pred == PredL1:
		writeMVD(bw, m.MV1, w.b1.MVP)
	case m.Part == Part8x8:
		for q := range w.b8 {
			writeMVD(bw, m.MV[q], w.b8[q].MVP)
		}
	default:
		writeMVD(bw, m.MV[0], w.b16[m.Ref].MVP)
	}
}

// chroma codes the DC of both chroma blocks of m and returns their coded
// flags.
func (w *worker) chroma(m *MB, mbx, mby int) uint8 {
	fs := w.fs
	cur, rec := fs.cur, fs.res.Recon
	cx, cy := 8*mbx, 8*mby
	var cbp uint8
	for plane := 0; plane < 2; plane++ {
		src, dst := cur.Cb, rec.Cb
		if plane == 1 {
			src, dst = cur.Cr, rec.Cr
		}
		dsp.Copy(w.csrc[:], dsp.EncStride, src[cx+cy*cur.CStride:], cur.CStride, 8, 8)
		switch m.Pred {
		case PredL0:
			chromaPred(w.cpred[0][:], fs.l0[m.Ref].Pic, plane, cx, cy, m.MV[0])
		case PredL1:
			chromaPred(w.cpred[0][:], fs.l1.Pic, plane, cx, cy, m.MV1)
		case PredBi:
			chromaPred(w.cpred[0][:], fs.l0[m.Ref].Pic, plane, cx, cy, m.MV[0])
			chromaPred(w.cpred[1][:], fs.l1.Pic, plane, cx, cy, m.MV1)
			w.average(w.cpred[0][:], w.cpred[0][:], dsp.BPS, w.cpred[1][:], dsp.BPS, 8, 8)
		}
		if res := w.coder.EncodeChromaDC(w.csrc[:], w.cpred[0][:], w.bw); res.CBP != 0 {
			cbp |= 1 << plane
		}
		dsp.Copy(dst[cx+cy*rec.CStride:], rec.CStride, w.coder.Recon(), dsp.BPS, 8, 8)
	}
	return cbp
}

// chromaPred copies the 8x8 chroma block at (cx, cy) of p displaced by the
// luma vector mv rounded to whole chroma samples. Samples outside the
// plane repeat the edge.
func chromaPred(dst []byte, p *frameio.Picture, plane, cx, cy int, mv me.MV) {
	src := p.Cb
	if plane == 1 {
		src = p.Cr
	}
	cw, ch := p.ChromaSize()
	dx, dy := (int(mv.X)+4)>>3, (int(mv.Y)+4)>>3
	for y := 0; y < 8; y++ {
		row := src[dsp.Clip3(cy+dy+y, 0, ch-1)*p.CStride:]
		for x := 0; x < 8; x++ {
			dst[x+y*dsp.BPS] = row[dsp.Clip3(cx+dx+x, 0, cw-1)]
		}
	}
}
