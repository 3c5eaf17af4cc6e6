package residual

import (
	"github.com/deepteams/avcore/internal/bitio"
	"github.com/deepteams/avcore/internal/dsp"
	"github.com/deepteams/avcore/internal/quant"
)

// chromaQPTab maps a luma QP to the chroma QP.
var chromaQPTab = [quant.MaxQP + 1]uint8{
	0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15,
	16, 17, 18, 19, 20, 21, 22, 23, 24, 25, 26, 27, 28, 29, 29, 30,
	31, 32, 32, 33, 34, 34, 35, 35, 36, 36, 37, 37, 37, 38, 38, 38,
	39, 39, 39, 39,
}

// ChromaQP returns the chroma quantizer for luma qp.
func ChromaQP(qp int) int {
	return int(chromaQPTab[min(max(qp, 0), quant.MaxQP)])
}

// EncodeChromaDC codes only the DC of the four 4x4 blocks of an 8x8 chroma
// residual. The levels are quantized, trimmed with OptimizeChroma2x2DC and
// written as a flag plus four signed codes. The reconstruction is left in
// Recon.
func (c *Coder) EncodeChromaDC(src, pred []byte, bw bitio.BitWriter) Result {
	start := bw.Len()
	qp := ChromaQP(c.opts.QP)
	var dc [4]int16
	for i := 0; i < 4; i++ {
		x, y := (i&1)*4, (i>>1)*4
		d := &c.dct4[i]
		dsp.SubDCT4x4(d, src[x+y*dsp.EncStride:], pred[x+y*dsp.BPS:])
		dc[i] = d[0]
	}
	dsp.DCT2x2DC(&dc)
	nz := c.tables.Quant2x2DC(&dc, quant.List4PC, qp)
	if nz {
		nz = quant.OptimizeChroma2x2DC(&dc, c.tables.ChromaDCDequant(quant.List4PC, qp))
	}

	var res Result
	dsp.Copy(c.recon[:], dsp.BPS, pred, dsp.BPS, 8, 8)
	if !nz {
		bw.WriteBits(0, 1)
	} else {
		res.CBP = 1
		bw.WriteBits(1, 1)
		for _, l := range dc {
			bw.WriteSE(int(l))
			if l != 0 {
				res.NNZ++
			}
		}
		dsp.IDCT2x2DC(&dc)
		c.tables.Dequant2x2DC(&dc, quant.List4PC, qp)
		for i := 0; i < 4; i++ {
			x, y := (i&1)*4, (i>>1)*4
			dsp.AddIDCT4x4DC(c.recon[x+y*dsp.BPS:], dc[i])
		}
	}
	res.Bits = bw.Len() - start
	res.SSD = dsp.SSD[dsp.Pixel8x8](src, dsp.EncStride, c.recon[:], dsp.BPS)
	return res
}
