package me

import (
	"sync"

	"github.com/deepteams/avcore/internal/dsp"
	"github.com/deepteams/avcore/internal/pool"
)

// Pad is the border, in pixels, around every reference plane.
const Pad = 32

// hpelBorder is how far outside the picture the half-pel planes are
// filtered. The 6-tap filter reads three pixels past it.
const hpelBorder = Pad - 3

// Plane indices. H is the horizontal half-pel plane, V the vertical one
// and C the centre one.
const (
	PlaneF = iota
	PlaneH
	PlaneV
	PlaneC
	numPlanes
)

// Frame is a padded luma reference picture with its half-pel planes. A
// loaded Frame is read-only and may be shared by concurrent searches.
type Frame struct {
	Width, Height int
	Stride        int

	planes [numPlanes][]byte
	origin int // offset of pixel (0, 0) in every plane

	hpelOnce  sync.Once
	hpelReady bool

	sumsOnce [2]sync.Once
	sums     [2][]uint16 // 8x8 and 4x4 block sums, same layout as planes
}

// NewFrame allocates a frame for a width x height picture.
func NewFrame(width, height int) *Frame {
	f := &Frame{
		Width:  width,
		Height: height,
		Stride: width + 2*Pad,
	}
	f.origin = Pad*f.Stride + Pad
	size := f.Stride * (height + 2*Pad)
	for i := range f.planes {
		f.planes[i] = pool.Get(size)
	}
	return f
}

// Load copies a luma picture into f and pads it by edge replication. The
// half-pel planes are interpolated on first sub-pel access.
func (f *Frame) Load(y []byte, stride int) {
	w, h := f.Width, f.Height
	fp := f.planes[PlaneF]
	for row := 0; row < h; row++ {
		copy(fp[f.origin+row*f.Stride:f.origin+row*f.Stride+w], y[row*stride:row*stride+w])
	}
	expandBorder(fp, f.origin, f.Stride, w, h)

	f.hpelOnce = sync.Once{}
	f.hpelReady = false
	f.sumsOnce = [2]sync.Once{}
	f.sums = [2][]uint16{}
}

// Release returns the planes to the buffer pool. f must not be used
// afterwards.
func (f *Frame) Release() {
	for i, p := range f.planes {
		pool.Put(p)
		f.planes[i] = nil
	}
	f.hpelOnce = sync.Once{}
	f.hpelReady = false
}

// interpolate builds the half-pel planes once per Load.
func (f *Frame) interpolate() {
	f.hpelOnce.Do(func() {
		off := f.origin - hpelBorder*f.Stride - hpelBorder
		dsp.HpelFilter(f.planes[PlaneH], f.planes[PlaneV], f.planes[PlaneC], f.planes[PlaneF],
			off, f.Stride, f.Width+2*hpelBorder, f.Height+2*hpelBorder)
		f.hpelReady = true
	})
}

func expandBorder(p []byte, origin, stride, w, h int) {
	for y := 0; y < h; y++ {
		row := origin + y*stride
		l, r := p[row], p[row+w-1]
		for x := 1; x <= Pad; x++ {
			p[row-x] = l
			p[row+w-1+x] = r
		}
	}
	first := p[origin-Pad : origin-Pad+stride]
	last := p[origin+(h-1)*stride-Pad : origin+(h-1)*stride-Pad+stride]
	for y := 1; y <= Pad; y++ {
		copy(p[origin-y*stride-Pad:], first)
		copy(p[origin+(h-1+y)*stride-Pad:], last)
	}
}

// Plane returns plane i and the offset of pixel (x, y) in it.
func (f *Frame) Plane(i, x, y int) ([]byte, int) {
	if i != PlaneF {
		f.interpolate()
	}
	return f.planes[i], f.origin + y*f.Stride + x
}

// Full returns the full-pel plane starting at pixel (x, y).
func (f *Frame) Full(x, y int) []byte {
	return f.planes[PlaneF][f.origin+y*f.Stride+x:]
}

var (
	hpelRef0 = [16]uint8{0, 1, 1, 1, 0, 1, 1, 1, 2, 3, 3, 3, 0, 1, 1, 1}
	hpelRef1 = [16]uint8{0, 0, 0, 0, 2, 2, 3, 2, 2, 2, 3, 2, 2, 2, 3, 2}
)

// GetRef returns the w x h prediction of the block at (x, y) displaced by
// mv. Full-pel and half-pel positions are returned in place with the frame
// stride; quarter-pel positions average the two nearest planes into dst
// and return dst with dstStride.
func (f *Frame) GetRef(dst []byte, dstStride int, x, y int, mv MV, w, h int) ([]byte, int) {
	mx, my := int(mv.X), int(mv.Y)
	idx := (my&3)<<2 | mx&3
	off := f.origin + (y+my>>2)*f.Stride + x + mx>>2
	if idx != 0 {
		f.interpolate()
	}
	src1 := off
	if my&3 == 3 {
		src1 += f.Stride
	}
	p1 := f.planes[hpelRef0[idx]][src1:]
	if idx&5 == 0 {
		return p1, f.Stride
	}
	src2 := off
	if mx&3 == 3 {
		src2++
	}
	p2 := f.planes[hpelRef1[idx]][src2:]
	dsp.Avg(dst, dstStride, p1, f.Stride, p2, f.Stride, w, h)
	return dst, dstStride
}

// Sums returns the plane of size x size block sums, size 8 or 4, built on
// first use. Entry origin+y*Stride+x holds the sum of the block whose top
// left pixel is (x, y).
func (f *Frame) Sums(size int) []uint16 {
	i := 0
	if size == 4 {
		i = 1
	}
	f.sumsOnce[i].Do(func() { f.sums[i] = f.blockSums(size) })
	return f.sums[i]
}

func (f *Frame) blockSums(size int) []uint16 {
	p := f.planes[PlaneF]
	rows := f.Height + 2*Pad
	s := make([]uint16, len(p))
	// Horizontal running sums, then vertical ones over them.
	hs := make([]uint16, len(p))
	for y := 0; y < rows; y++ {
		row := y * f.Stride
		sum := 0
		for x := 0; x < size; x++ {
			sum += int(p[row+x])
		}
		for x := 0; x+size <= f.Stride; x++ {
			hs[row+x] = uint16(sum)
			if x+size < f.Stride {
				sum += int(p[row+x+size]) - int(p[row+x])
			}
		}
	}
	for x := 0; x+size <= f.Stride; x++ {
		sum := 0
		for y := 0; y < size; y++ {
			sum += int(hs[y*f.Stride+x])
		}
		for y := 0; y+size <= rows; y++ {
			s[y*f.Stride+x] = uint16(sum)
			if y+size < rows {
				sum += int(hs[(y+size)*f.Stride+x]) - int(hs[y*f.Stride+x])
			}
		}
	}
	return s
}

// Origin returns the offset of pixel (0, 0) in the planes and sums.
func (f *Frame) Origin() int { return f.origin }
