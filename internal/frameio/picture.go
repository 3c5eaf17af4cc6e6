// Package frameio moves pictures in and out of the analyzer: still images
// in the common formats and raw YUV4MPEG2 sequences, all as 8-bit 4:2:0.
package frameio

import (
	"image"

	"github.com/deepteams/avcore/internal/dsp"
)

// Picture is an 8-bit 4:2:0 picture. Chroma planes are half size in both
// directions, rounded up.
type Picture struct {
	Width, Height int
	Y             []byte
	Cb, Cr        []byte
	YStride       int
	CStride       int
}

// NewPicture allocates a w x h picture with tight strides.
func NewPicture(w, h int) *Picture {
	cw, ch := (w+1)/2, (h+1)/2
	return &Picture{
		Width:   w,
		Height:  h,
		Y:       make([]byte, w*h),
		Cb:      make([]byte, cw*ch),
		Cr:      make([]byte, cw*ch),
		YStride: w,
		CStride: cw,
	}
}

// ChromaSize returns the chroma plane dimensions.
func (p *Picture) ChromaSize() (int, int) { return (p.Width + 1) / 2, (p.Height + 1) / 2 }

// Aligned reports whether both dimensions are whole macroblocks.
func (p *Picture) Aligned() bool { return p.Width%16 == 0 && p.Height%16 == 0 }

// PadTo16 returns p extended to whole macroblocks by repeating the last
// column and row. An aligned picture is returned as is.
func (p *Picture) PadTo16() *Picture {
	if p.Aligned() {
		return p
	}
	w, h := (p.Width+15)&^15, (p.Height+15)&^15
	q := NewPicture(w, h)
	padPlane(q.Y, q.YStride, w, h, p.Y, p.YStride, p.Width, p.Height)
	cw, ch := p.ChromaSize()
	padPlane(q.Cb, q.CStride, w/2, h/2, p.Cb, p.CStride, cw, ch)
	padPlane(q.Cr, q.CStride, w/2, h/2, p.Cr, p.CStride, cw, ch)
	return q
}

func padPlane(dst []byte, dstStride, dw, dh int, src []byte, srcStride, sw, sh int) {
	for y := 0; y < dh; y++ {
		row := src[min(y, sh-1)*srcStride:]
		d := dst[y*dstStride : y*dstStride+dw]
		copy(d, row[:sw])
		for x := sw; x < dw; x++ {
			d[x] = row[sw-1]
		}
	}
}

// FromImage converts img to a Picture with BT.601 studio-range colour.
// 4:2:0 YCbCr images are copied as is.
func FromImage(img image.Image) *Picture {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	p := NewPicture(w, h)
	if yc, ok := img.(*image.YCbCr); ok && yc.SubsampleRatio == image.YCbCrSubsampleRatio420 {
		for y := 0; y < h; y++ {
			copy(p.Y[y*w:y*w+w], yc.Y[yc.YOffset(b.Min.X, b.Min.Y+y):])
		}
		cw, ch := p.ChromaSize()
		for y := 0; y < ch; y++ {
			off := yc.COffset(b.Min.X, b.Min.Y+2*y)
			copy(p.Cb[y*cw:y*cw+cw], yc.Cb[off:])
			copy(p.Cr[y*cw:y*cw+cw], yc.Cr[off:])
		}
		return p
	}

	cw, ch := p.ChromaSize()
	var sum [2][]int
	sum[0], sum[1] = make([]int, cw*ch), make([]int, cw*ch)
	cnt := make([]int, cw*ch)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			r8, g8, b8 := int(r>>8), int(g>>8), int(bl>>8)
			p.Y[y*w+x] = dsp.RGBToY(r8, g8, b8)
			i := (y/2)*cw + x/2
			sum[0][i] += int(dsp.RGBToCb(r8, g8, b8))
			sum[1][i] += int(dsp.RGBToCr(r8, g8, b8))
			cnt[i]++
		}
	}
	for i := range cnt {
		p.Cb[i] = byte((sum[0][i] + cnt[i]/2) / cnt[i])
		p.Cr[i] = byte((sum[1][i] + cnt[i]/2) / cnt[i])
	}
	return p
}

// Gray returns the luma plane as an image.
func (p *Picture) Gray() *image.Gray {
	return &image.Gray{
		Pix:    p.Y,
		Stride: p.YStride,
		Rect:   image.Rect(0, 0, p.Width, p.Height),
	}
}
