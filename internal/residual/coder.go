// Package residual codes motion-compensated residuals: transform,
// quantization, decimation, scan and a CAVLC-style run/level syntax. A
// Coder also prices candidate vectors for the rate-distortion refinements
// of the motion search.
package residual

import (
	"fmt"

	"github.com/deepteams/avcore/internal/bitio"
	"github.com/deepteams/avcore/internal/cost"
	"github.com/deepteams/avcore/internal/dsp"
	"github.com/deepteams/avcore/internal/quant"
	"github.com/deepteams/avcore/internal/scan"
)

// Options configures a Coder.
type Options struct {
	QP             int           // luma quantizer, 0..51
	Transform8x8   bool          // code 8x8-aligned blocks with the 8x8 transform
	Decimate       bool          // drop sparse blocks of single-magnitude levels
	Order          scan.Order    // coefficient scan
	Tables         *quant.Tables // nil selects the flat matrices
	NoiseReduction int           // denoise strength, 0 disables
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		QP:           26,
		Transform8x8: true,
		Decimate:     true,
		Order:        scan.Frame,
	}
}

// Validate reports whether o is usable.
func (o Options) Validate() error {
	if o.QP < 0 || o.QP > quant.MaxQP {
		return fmt.Errorf("residual: qp %d out of [0, %d]", o.QP, quant.MaxQP)
	}
	if o.NoiseReduction < 0 {
		return fmt.Errorf("residual: negative noise reduction %d", o.NoiseReduction)
	}
	return nil
}

// Result describes one coded block.
type Result struct {
	Bits int   // syntax bits, vector differences included when priced
	SSD  int   // distortion of the reconstruction against the source
	CBP  uint8 // coded flag per 8x8 quadrant, bit i for quadrant i
	NNZ  int   // non-zero levels after decimation
}

// Coder codes blocks of one quantizer. It keeps scratch state and is not
// safe for concurrent use; give each worker its own.
type Coder struct {
	opts    Options
	tables  *quant.Tables
	lambda2 int
	nr      *quant.NoiseReduction

	pred  [16 * dsp.BPS]byte
	recon [16 * dsp.BPS]byte
	tmp   [2][16 * 16]byte
	dct4  [16][16]int16
	dct8  [4][64]int16
	lvl4  [16][16]int16
	lvl8  [4][64]int16
	rl    quant.RunLevels
	count bitio.Counter
}

// NewCoder returns a Coder for opts.
func NewCoder(opts Options) (*Coder, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	c := &Coder{
		opts:    opts,
		tables:  opts.Tables,
		lambda2: cost.Lambda2(opts.QP),
	}
	if c.tables == nil {
		c.tables = quant.Flat()
	}
	if opts.NoiseReduction > 0 {
		c.nr = quant.NewNoiseReduction(opts.NoiseReduction)
	}
	return c, nil
}

// Options returns the options c codes with.
func (c *Coder) Options() Options { return c.opts }

// Lambda2 returns the SSD-domain lambda of c's quantizer.
func (c *Coder) Lambda2() int { return c.lambda2 }

// NoiseReduction returns the denoise statistics, or nil when disabled.
func (c *Coder) NoiseReduction() *quant.NoiseReduction { return c.nr }

// Recon returns the reconstruction of the last coded block, BPS strided.
func (c *Coder) Recon() []byte { return c.recon[:] }

// use8x8 reports whether a w x h block takes the 8x8 transform.
func (c *Coder) use8x8(w, h int) bool {
	return c.opts.Transform8x8 && w%8 == 0 && h%8 == 0
}

// quadrants returns the quadrant grid of a w x h block: 8x8 cells, or a
// single cell for blocks narrower or shorter than 8.
func quadrants(w, h int) (qw, qh, nx, ny int) {
	qw, qh = min(w, 8), min(h, 8)
	return qw, qh, w / qw, h / qh
}

// Encode codes the w x h inter residual src - pred and writes its syntax
// to bw. src uses dsp.EncStride, pred dsp.BPS. The reconstruction is left
// in Recon. w and h must be multiples of 4 no larger than 16.
func (c *Coder) Encode(src, pred []byte, w, h int, bw bitio.BitWriter) Result {
	start := bw.Len()
	qw, qh, nx, ny := quadrants(w, h)
	t8 := c.use8x8(w, h)
	qp := c.opts.QP

	var scores [4]int
	var coded [4]bool
	total := 0
	for qy := 0; qy < ny; qy++ {
		for qx := 0; qx < nx; qx++ {
			q := qy*2 + qx
			x0, y0 := qx*8, qy*8
			if t8 {
				d := &c.dct8[q]
				dsp.SubDCT8x8(d, src[x0+y0*dsp.EncStride:], pred[x0+y0*dsp.BPS:])
				if c.nr != nil {
					c.nr.Denoise8x8(d, quant.NR8x8Inter)
				}
				if c.tables.Quant8x8(d, true, qp) {
					scan.Scan8x8(&c.lvl8[q], d, c.opts.Order)
					scores[q] = quant.DecimateScore64(&c.lvl8[q])
					coded[q] = true
				}
			} else {
				for by := 0; by < qh; by += 4 {
					for bx := 0; bx < qw; bx += 4 {
						i := block4(x0+bx, y0+by)
						d := &c.dct4[i]
						dsp.SubDCT4x4(d, src[x0+bx+(y0+by)*dsp.EncStride:], pred[x0+bx+(y0+by)*dsp.BPS:])
						if c.nr != nil {
							c.nr.Denoise4x4(d, quant.NR4x4Inter)
						}
						if c.tables.Quant4x4(d, quant.List4PY, qp) {
							coded[q] = true
						}
						scan.Scan4x4(&c.lvl4[i], d, c.opts.Order)
						scores[q] += quant.DecimateScore16(&c.lvl4[i])
					}
				}
			}
			if c.opts.Decimate && coded[q] && scores[q] < quant.DecimateLuma8x8 {
				coded[q] = false
			}
			if coded[q] {
				total += scores[q]
			}
		}
	}
	if c.opts.Decimate && w == 16 && h == 16 && total < quant.DecimateMB {
		coded = [4]bool{}
	}

	var res Result
	for q, ok := range coded {
		if ok {
			res.CBP |= 1 << uint(q)
		}
	}
	bw.WriteUE(uint32(res.CBP))

	dsp.Copy(c.recon[:], dsp.BPS, pred, dsp.BPS, w, h)
	for qy := 0; qy < ny; qy++ {
		for qx := 0; qx < nx; qx++ {
			q := qy*2 + qx
			if !coded[q] {
				continue
			}
			x0, y0 := qx*8, qy*8
			if t8 {
				var sub [64]int16
				scan.InterleaveCAVLC8x8(&sub, &c.lvl8[q])
				for k := 0; k < 4; k++ {
					res.NNZ += WriteBlock(bw, sub[k*16:k*16+16], &c.rl)
				}
				d := &c.dct8[q]
				c.tables.Dequant8x8(d, true, qp)
				dsp.AddIDCT8x8(c.recon[x0+y0*dsp.BPS:], d)
				continue
			}
			for by := 0; by < qh; by += 4 {
				for bx := 0; bx < qw; bx += 4 {
					i := block4(x0+bx, y0+by)
					res.NNZ += WriteBlock(bw, c.lvl4[i][:], &c.rl)
					d := &c.dct4[i]
					c.tables.Dequant4x4(d, quant.List4PY, qp)
					dsp.AddIDCT4x4(c.recon[x0+bx+(y0+by)*dsp.BPS:], d)
				}
			}
		}
	}

	res.Bits = bw.Len() - start
	res.SSD = ssd(src, c.recon[:], w, h)
	return res
}

// block4 returns the raster index of the 4x4 block at pixel (x, y) of a
// macroblock.
func block4(x, y int) int { return (y/4)*4 + x/4 }

func ssd(src, recon []byte, w, h int) int {
	if size, ok := dsp.PixelSizeOf(w, h); ok {
		return dsp.SSD[size](src, dsp.EncStride, recon, dsp.BPS)
	}
	return int(dsp.SSDPlane(src, dsp.EncStride, recon, dsp.BPS, w, h))
}
