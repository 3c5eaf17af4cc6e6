// Package render draws analysis results as images.
package render

import (
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"

	"github.com/deepteams/avcore/internal/analysis"
	"github.com/deepteams/avcore/internal/me"
)

// Options controls MV field rendering.
type Options struct {
	Scale      int     // output pixels per picture pixel
	Background bool    // draw the reconstructed luma underneath
	Grid       bool    // outline macroblocks and 8x8 partitions
	Gain       float64 // vector length multiplier
}

// DefaultOptions returns the options used by the command line.
func DefaultOptions() Options {
	return Options{Scale: 2, Background: true, Grid: true, Gain: 1}
}

// Colours per prediction direction.
var predColors = [...]color.RGBA{
	analysis.PredL0: {R: 255, G: 80, B: 64, A: 255},
	analysis.PredL1: {R: 64, G: 160, B: 255, A: 255},
	analysis.PredBi: {R: 96, G: 220, B: 96, A: 255},
}

var gridColor = color.RGBA{R: 255, G: 255, B: 255, A: 64}

// MVField draws the vectors of res, one arrow per partition from its
// centre along the displacement.
func MVField(res *analysis.Result, opts Options) image.Image {
	if opts.Scale < 1 {
		opts.Scale = 1
	}
	if opts.Gain == 0 {
		opts.Gain = 1
	}
	s := float64(opts.Scale)
	w, h := res.Width*opts.Scale, res.Height*opts.Scale
	dc := gg.NewContext(w, h)
	dc.SetRGB(0, 0, 0)
	dc.Clear()
	if opts.Background && res.Recon != nil {
		bg := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.NearestNeighbor.Scale(bg, bg.Bounds(), res.Recon.Gray(), image.Rect(0, 0, res.Width, res.Height), draw.Src, nil)
		dc.DrawImage(bg, 0, 0)
		dc.SetRGBA(0, 0, 0, 0.4)
		dc.DrawRectangle(0, 0, float64(w), float64(h))
		dc.Fill()
	}

	for mby := 0; mby < res.MBHeight; mby++ {
		for mbx := 0; mbx < res.MBWidth; mbx++ {
			m := res.At(mbx, mby)
			x0, y0 := float64(16*mbx)*s, float64(16*mby)*s
			if opts.Grid {
				dc.SetColor(gridColor)
				dc.SetLineWidth(1)
				dc.DrawRectangle(x0, y0, 16*s, 16*s)
				if m.Part == analysis.Part8x8 {
					dc.DrawLine(x0+8*s, y0, x0+8*s, y0+16*s)
					dc.DrawLine(x0, y0+8*s, x0+16*s, y0+8*s)
				}
				dc.Stroke()
			}

			dc.SetColor(predColors[m.Pred])
			if m.Part == analysis.Part8x8 {
				for q, mv := range m.MV {
					cx := x0 + float64(4+8*(q&1))*s
					cy := y0 + float64(4+8*(q>>1))*s
					arrow(dc, cx, cy, mv, s*opts.Gain)
				}
				continue
			}
			mv := m.MV[0]
			if m.Pred == analysis.PredL1 {
				mv = m.MV1
			}
			arrow(dc, x0+8*s, y0+8*s, mv, s*opts.Gain)
		}
	}
	return dc.Image()
}

// arrow draws mv, in quarter pels, from (x, y). A zero vector is a dot.
func arrow(dc *gg.Context, x, y float64, mv me.MV, scale float64) {
	if mv.IsZero() {
		dc.DrawCircle(x, y, 1.5*scale)
		dc.Fill()
		return
	}
	dx, dy := float64(mv.X)/4*scale, float64(mv.Y)/4*scale
	dc.SetLineWidth(scale)
	dc.DrawLine(x, y, x+dx, y+dy)
	dc.Stroke()
	dc.DrawCircle(x+dx, y+dy, scale)
	dc.Fill()
}

// WritePNG encodes img as PNG to w.
func WritePNG(w io.Writer, img image.Image) error {
	dc := gg.NewContextForImage(img)
	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("render: encode PNG: %w", err)
	}
	return nil
}

// SavePNG writes img to path as PNG.
func SavePNG(path string, img image.Image) error {
	if err := gg.SavePNG(path, img); err != nil {
		return fmt.Errorf("render: save %s: %w", path, err)
	}
	return nil
}
