package residual

import (
	"github.com/deepteams/avcore/internal/bitio"
	"github.com/deepteams/avcore/internal/cost"
	"github.com/deepteams/avcore/internal/dsp"
	"github.com/deepteams/avcore/internal/me"
)

var (
	_ me.TrialEncoder      = (*Coder)(nil)
	_ me.BidirTrialEncoder = (*Coder)(nil)
)

// EncodeBlock codes the partition b predicted with b.MV: the vector
// difference against b.MVP, then the residual.
func (c *Coder) EncodeBlock(b *me.Block, bw bitio.BitWriter) Result {
	return c.encodeInter(b, b.MV, bw)
}

func (c *Coder) encodeInter(b *me.Block, mv me.MV, bw bitio.BitWriter) Result {
	w, h := b.Size.Width(), b.Size.Height()
	ref, stride := b.Ref.GetRef(c.tmp[0][:], 16, b.X, b.Y, mv, w, h)
	dsp.Copy(c.pred[:], dsp.BPS, ref, stride, w, h)

	start := bw.Len()
	bw.WriteSE(int(mv.X) - int(b.MVP.X))
	bw.WriteSE(int(mv.Y) - int(b.MVP.Y))
	res := c.Encode(b.Src, c.pred[:], w, h, bw)
	res.Bits = bw.Len() - start
	return res
}

// RDCost trial codes b predicted with mv and returns SSD plus weighted
// bits.
func (c *Coder) RDCost(b *me.Block, mv me.MV) int {
	c.count.Reset()
	res := c.encodeInter(b, mv, &c.count)
	return cost.RD(res.SSD, res.Bits, c.lambda2)
}

// RDCostBidir trial codes b0 predicted by the weighted average of mv0 in
// b0.Ref and mv1 in b1.Ref. weight applies to the first reference, in
// 64ths.
func (c *Coder) RDCostBidir(b0, b1 *me.Block, mv0, mv1 me.MV, weight int) int {
	w, h := b0.Size.Width(), b0.Size.Height()
	r0, s0 := b0.Ref.GetRef(c.tmp[0][:], 16, b0.X, b0.Y, mv0, w, h)
	r1, s1 := b1.Ref.GetRef(c.tmp[1][:], 16, b1.X, b1.Y, mv1, w, h)
	if weight == 32 {
		dsp.Avg(c.pred[:], dsp.BPS, r0, s0, r1, s1, w, h)
	} else {
		dsp.AvgWeight(c.pred[:], dsp.BPS, r0, s0, r1, s1, w, h, weight)
	}

	c.count.Reset()
	c.count.WriteSE(int(mv0.X) - int(b0.MVP.X))
	c.count.WriteSE(int(mv0.Y) - int(b0.MVP.Y))
	c.count.WriteSE(int(mv1.X) - int(b1.MVP.X))
	c.count.WriteSE(int(mv1.Y) - int(b1.MVP.Y))
	res := c.Encode(b0.Src, c.pred[:], w, h, &c.count)
	return cost.RD(res.SSD, c.count.Len(), c.lambda2)
}
